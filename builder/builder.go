// Package builder creates named actor systems for the bootstrap host.
package builder

import (
	"errors"
	"fmt"
	"regexp"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/najoast/actorhost/config"
	"github.com/najoast/actorhost/core"
)

// Builder errors
var (
	ErrInvalidSystemName = errors.New("invalid actor system name")
	ErrSystemNameInUse   = errors.New("actor system name already in use")
)

var validName = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]*$`)

// Option configures a Builder
type Option func(*Builder)

// WithLogger sets the logger passed to created systems
func WithLogger(logger *logrus.Entry) Option {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// Builder creates core actor systems. It implements
// bootstrap.Builder[core.ActorSystem].
type Builder struct {
	opts   core.SystemOptions
	logger *logrus.Entry

	mu   sync.Mutex
	live map[string]core.ActorSystem
}

// New creates a Builder applying cfg to every system it creates
func New(cfg config.ActorConfig, opts ...Option) *Builder {
	b := &Builder{
		opts: core.SystemOptions{
			MaxActors:          cfg.MaxActors,
			DefaultMailboxSize: cfg.DefaultMailboxSize,
			ProcessTimeout:     cfg.ProcessTimeout,
		},
		logger: logrus.NewEntry(logrus.StandardLogger()),
		live:   make(map[string]core.ActorSystem),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Create starts a new actor system. Names must match
// [A-Za-z0-9][A-Za-z0-9_-]* and be unique among this builder's live systems;
// a name is freed once its system terminates.
func (b *Builder) Create(name string) (core.ActorSystem, error) {
	if !validName.MatchString(name) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSystemName, name)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.live[name]; exists {
		return nil, fmt.Errorf("%w: %s", ErrSystemNameInUse, name)
	}

	system := core.NewActorSystemWithOptions(name, b.opts, b.logger.WithField("component", "actor-system"))
	b.live[name] = system

	go b.release(name, system)

	b.logger.WithFields(logrus.Fields{
		"system":    name,
		"system_id": system.ID(),
	}).Info("Actor system created")

	return system, nil
}

// Live returns the number of systems created and not yet terminated
func (b *Builder) Live() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.live)
}

func (b *Builder) release(name string, system core.ActorSystem) {
	<-system.Terminated()

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.live[name] == system {
		delete(b.live, name)
	}
}
