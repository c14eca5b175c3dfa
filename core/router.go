package core

import (
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
)

// router implements the Router interface.
type router struct {
	// Map of Actor ID to Actor instance
	actors sync.Map // map[ActorID]Actor

	// Service names, guarded by mu
	mu    sync.RWMutex
	names map[string]ActorID

	// Counter for generating unique Actor IDs
	idCounter uint32
}

// NewRouter creates a new Router instance.
func NewRouter() Router {
	return &router{names: make(map[string]ActorID)}
}

// Register adds an Actor to the routing table.
func (r *router) Register(actor Actor) error {
	if actor == nil {
		return fmt.Errorf("cannot register nil actor")
	}

	id := actor.ID()
	if _, exists := r.actors.LoadOrStore(id, actor); exists {
		return fmt.Errorf("actor with ID %d already registered", id)
	}

	return nil
}

// RegisterName binds a service name to a registered Actor.
func (r *router) RegisterName(name string, id ActorID) error {
	if name == "" {
		return fmt.Errorf("service name cannot be empty")
	}
	if _, exists := r.actors.Load(id); !exists {
		return fmt.Errorf("actor with ID %d not found", id)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.names[name]; exists {
		return fmt.Errorf("service name '%s' already exists", name)
	}
	r.names[name] = id

	return nil
}

// Unregister removes an Actor and any name bound to it.
func (r *router) Unregister(id ActorID) error {
	if _, exists := r.actors.LoadAndDelete(id); !exists {
		return fmt.Errorf("actor with ID %d not found", id)
	}

	r.mu.Lock()
	for name, bound := range r.names {
		if bound == id {
			delete(r.names, name)
		}
	}
	r.mu.Unlock()

	return nil
}

// Route sends a message to the target Actor.
func (r *router) Route(msg *Message) error {
	if msg == nil {
		return fmt.Errorf("cannot route nil message")
	}

	actor, exists := r.Lookup(msg.Target)
	if !exists {
		return fmt.Errorf("target actor %d not found", msg.Target)
	}

	return actor.Send(msg)
}

// Lookup finds an Actor by its ID.
func (r *router) Lookup(id ActorID) (Actor, bool) {
	if actor, exists := r.actors.Load(id); exists {
		return actor.(Actor), true
	}
	return nil, false
}

// LookupName finds an Actor by service name.
func (r *router) LookupName(name string) (Actor, bool) {
	r.mu.RLock()
	id, exists := r.names[name]
	r.mu.RUnlock()

	if !exists {
		return nil, false
	}
	return r.Lookup(id)
}

// Names returns all service names in sorted order.
func (r *router) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.names))
	for name := range r.names {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// List returns all registered Actor IDs.
func (r *router) List() []ActorID {
	var ids []ActorID

	r.actors.Range(func(key, value interface{}) bool {
		ids = append(ids, key.(ActorID))
		return true
	})

	return ids
}

// NextID generates the next available Actor ID.
func (r *router) NextID() ActorID {
	return ActorID(atomic.AddUint32(&r.idCounter, 1))
}
