package core

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Actor system errors
var (
	ErrSystemShuttingDown = errors.New("actor system is shutting down")
	ErrTooManyActors      = errors.New("actor limit reached")
	ErrServiceNotFound    = errors.New("service not found")
	ErrActorNotFound      = errors.New("actor not found")
)

// system implements the ActorSystem interface.
type system struct {
	id     string
	name   string
	opts   SystemOptions
	router Router
	logger *logrus.Entry

	mu     sync.Mutex
	actors int // spawned so far, never decremented

	// System shutdown context
	ctx    context.Context
	cancel context.CancelFunc

	stopOnce   sync.Once
	terminated chan struct{}
}

// NewActorSystem creates a named ActorSystem with default options.
func NewActorSystem(name string) ActorSystem {
	return NewActorSystemWithOptions(name, DefaultSystemOptions(), nil)
}

// NewActorSystemWithOptions creates a named ActorSystem. A nil logger uses
// the logrus standard logger.
func NewActorSystemWithOptions(name string, opts SystemOptions, logger *logrus.Entry) ActorSystem {
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	defaults := DefaultSystemOptions()
	if opts.DefaultMailboxSize <= 0 {
		opts.DefaultMailboxSize = defaults.DefaultMailboxSize
	}
	if opts.ProcessTimeout <= 0 {
		opts.ProcessTimeout = defaults.ProcessTimeout
	}

	id := uuid.NewString()
	ctx, cancel := context.WithCancel(context.Background())

	return &system{
		id:         id,
		name:       name,
		opts:       opts,
		router:     NewRouter(),
		logger:     logger.WithFields(logrus.Fields{"system": name, "system_id": id}),
		ctx:        ctx,
		cancel:     cancel,
		terminated: make(chan struct{}),
	}
}

func (s *system) ID() string {
	return s.id
}

func (s *system) Name() string {
	return s.name
}

// NewActor creates and starts an anonymous Actor.
func (s *system) NewActor(handler MessageHandler, opts ActorOptions) (Actor, error) {
	return s.spawn("", handler, opts)
}

// NewService creates and starts an Actor reachable by name.
func (s *system) NewService(name string, handler MessageHandler, opts ActorOptions) (Actor, error) {
	if name == "" {
		return nil, fmt.Errorf("service name cannot be empty")
	}
	if opts.Name == "" {
		opts.Name = name
	}
	return s.spawn(name, handler, opts)
}

func (s *system) spawn(service string, handler MessageHandler, opts ActorOptions) (Actor, error) {
	if handler == nil {
		return nil, fmt.Errorf("message handler cannot be nil")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ctx.Err() != nil {
		return nil, ErrSystemShuttingDown
	}
	if s.opts.MaxActors > 0 && s.actors >= s.opts.MaxActors {
		return nil, fmt.Errorf("%w: %d", ErrTooManyActors, s.opts.MaxActors)
	}

	if opts.MailboxSize <= 0 {
		opts.MailboxSize = s.opts.DefaultMailboxSize
	}
	if opts.ProcessTimeout <= 0 {
		opts.ProcessTimeout = s.opts.ProcessTimeout
	}

	a := newActor(s.router.NextID(), handler, opts, s.logger)

	if err := s.router.Register(a); err != nil {
		return nil, fmt.Errorf("failed to register actor: %w", err)
	}
	if service != "" {
		if err := s.router.RegisterName(service, a.ID()); err != nil {
			s.router.Unregister(a.ID())
			return nil, fmt.Errorf("failed to register service: %w", err)
		}
	}

	if err := a.Start(s.ctx); err != nil {
		s.router.Unregister(a.ID())
		return nil, err
	}
	s.actors++

	s.logger.WithFields(logrus.Fields{"actor": a.ID(), "service": service}).Debug("Actor started")
	return a, nil
}

// GetActor retrieves an Actor by its ID.
func (s *system) GetActor(id ActorID) (Actor, bool) {
	return s.router.Lookup(id)
}

// GetService retrieves a service by name.
func (s *system) GetService(name string) (Actor, bool) {
	return s.router.LookupName(name)
}

// Services returns the names of all registered services.
func (s *system) Services() []string {
	return s.router.Names()
}

// Send delivers a message to the Actor with ID to.
func (s *system) Send(from, to ActorID, msgType MessageType, data []byte) error {
	return s.router.Route(&Message{
		Type:      msgType,
		Source:    from,
		Target:    to,
		Data:      data,
		Timestamp: time.Now(),
	})
}

// SendByName delivers a message to the service named to.
func (s *system) SendByName(to string, msgType MessageType, data []byte) error {
	target, ok := s.router.LookupName(to)
	if !ok {
		return fmt.Errorf("%w: %s", ErrServiceNotFound, to)
	}
	return s.Send(0, target.ID(), msgType, data)
}

// Call sends a request to the Actor with ID to and waits for the reply.
func (s *system) Call(ctx context.Context, to ActorID, data []byte) ([]byte, error) {
	target, ok := s.router.Lookup(to)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrActorNotFound, to)
	}

	resp, err := target.Call(ctx, &Message{
		Type:      MessageTypeRequest,
		Target:    to,
		Data:      data,
		Timestamp: time.Now(),
	})
	if err != nil {
		return nil, err
	}
	if resp.Type == MessageTypeError {
		return nil, fmt.Errorf("remote error: %s", string(resp.Data))
	}

	return resp.Data, nil
}

// CallByName sends a request to a named service and waits for the reply.
func (s *system) CallByName(ctx context.Context, to string, data []byte) ([]byte, error) {
	target, ok := s.router.LookupName(to)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrServiceNotFound, to)
	}
	return s.Call(ctx, target.ID(), data)
}

// Stats returns statistics for all Actors.
func (s *system) Stats() []ActorStats {
	var stats []ActorStats
	for _, id := range s.router.List() {
		if a, ok := s.router.Lookup(id); ok {
			stats = append(stats, a.Stats())
		}
	}
	return stats
}

// Shutdown stops all Actors. It returns ctx.Err() if they do not finish in
// time; Terminated still closes once they do.
func (s *system) Shutdown(ctx context.Context) error {
	s.stopOnce.Do(func() {
		s.mu.Lock()
		s.cancel()
		s.mu.Unlock()

		s.logger.Info("Shutting down actor system")
		go s.stopActors()
	})

	select {
	case <-s.terminated:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *system) stopActors() {
	for _, id := range s.router.List() {
		if a, ok := s.router.Lookup(id); ok {
			if err := a.Stop(); err != nil {
				s.logger.WithError(err).WithField("actor", id).Debug("Actor stop skipped")
			}
		}
	}

	s.logger.Info("Actor system terminated")
	close(s.terminated)
}

// Terminated is closed once every Actor has stopped after Shutdown.
func (s *system) Terminated() <-chan struct{} {
	return s.terminated
}
