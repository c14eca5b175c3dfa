package core

import (
	"context"
)

// MessageHandler processes incoming messages for an Actor.
type MessageHandler interface {
	// HandleMessage processes a single message.
	// A returned error becomes an error reply when the message was a Call.
	HandleMessage(ctx context.Context, msg *Message) error
}

// HandlerFunc adapts a function to the MessageHandler interface.
type HandlerFunc func(ctx context.Context, msg *Message) error

// HandleMessage calls f(ctx, msg).
func (f HandlerFunc) HandleMessage(ctx context.Context, msg *Message) error {
	return f(ctx, msg)
}

// Replier is implemented by handlers that produce reply payloads for Calls.
type Replier interface {
	MessageHandler

	// Reply returns the payload sent back to the caller.
	Reply(ctx context.Context, msg *Message) ([]byte, error)
}

// Actor represents a computational unit that processes messages sequentially.
type Actor interface {
	// ID returns the unique identifier of this Actor.
	ID() ActorID

	// Name returns the Actor's name, empty for anonymous actors.
	Name() string

	// Start begins the Actor's message processing loop.
	// It may be called only once per Actor instance.
	Start(ctx context.Context) error

	// Stop shuts the Actor down after the message being processed.
	Stop() error

	// Send enqueues a message without waiting.
	// It fails if the Actor is stopped or its mailbox is full.
	Send(msg *Message) error

	// Call sends a message and waits for the reply.
	Call(ctx context.Context, msg *Message) (*Message, error)

	// Stats returns current runtime statistics for this Actor.
	Stats() ActorStats
}

// Router maps actor IDs and service names to Actors.
type Router interface {
	Register(actor Actor) error
	RegisterName(name string, id ActorID) error
	Unregister(id ActorID) error
	Route(msg *Message) error
	Lookup(id ActorID) (Actor, bool)
	LookupName(name string) (Actor, bool)
	Names() []string
	List() []ActorID
	NextID() ActorID
}

// ActorSystem owns a set of Actors and their lifecycle. It is the handle
// produced by a bootstrap builder.
type ActorSystem interface {
	// ID returns the unique instance identifier of this system.
	ID() string

	// Name returns the name the system was created with.
	Name() string

	// NewActor creates and starts an anonymous Actor.
	NewActor(handler MessageHandler, opts ActorOptions) (Actor, error)

	// NewService creates and starts an Actor reachable by name.
	NewService(name string, handler MessageHandler, opts ActorOptions) (Actor, error)

	// GetActor retrieves an Actor by its ID.
	GetActor(id ActorID) (Actor, bool)

	// GetService retrieves a service by name.
	GetService(name string) (Actor, bool)

	// Services returns the names of all registered services.
	Services() []string

	// Send delivers a message to the Actor with ID to.
	Send(from, to ActorID, msgType MessageType, data []byte) error

	// SendByName delivers a message to the service named to.
	SendByName(to string, msgType MessageType, data []byte) error

	// Call sends a request to the Actor with ID to and waits for the reply.
	Call(ctx context.Context, to ActorID, data []byte) ([]byte, error)

	// CallByName sends a request to a named service and waits for the reply.
	CallByName(ctx context.Context, to string, data []byte) ([]byte, error)

	// Stats returns statistics for all Actors.
	Stats() []ActorStats

	// Shutdown stops every Actor and waits for them within ctx.
	Shutdown(ctx context.Context) error

	// Terminated is closed once the system has fully shut down.
	Terminated() <-chan struct{}
}
