package bootstrap

import (
	"io"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

// Host sequences the creation, installation and optional blocking of one
// actor system. Its collaborators are fixed at construction.
type Host[S any] struct {
	builder   Builder[S]
	installer Installer[S]
	blocking  Blocking[S]
	logger    *logrus.Entry

	// state holds a State; it only moves forward
	state atomic.Int32
}

// Option configures a Host
type Option[S any] func(*Host[S]) error

// WithBlockingStrategy makes Run wait on strategy after installation
func WithBlockingStrategy[S any](strategy BlockingStrategy[S]) Option[S] {
	return func(h *Host[S]) error {
		if isNil(strategy) {
			return configError("blocking strategy option given a nil strategy")
		}
		h.blocking = Block(strategy)
		return nil
	}
}

// WithBlocking sets the blocking policy from an explicit optional value
func WithBlocking[S any](blocking Blocking[S]) Option[S] {
	return func(h *Host[S]) error {
		h.blocking = blocking
		return nil
	}
}

// WithLogger sets the logger used for lifecycle events
func WithLogger[S any](logger *logrus.Entry) Option[S] {
	return func(h *Host[S]) error {
		if logger == nil {
			return configError("logger option given a nil logger")
		}
		h.logger = logger
		return nil
	}
}

// NewHost creates a Host. builder and installer are required; without a
// blocking strategy Run returns as soon as installation completes.
func NewHost[S any](builder Builder[S], installer Installer[S], opts ...Option[S]) (*Host[S], error) {
	if isNil(builder) {
		return nil, configError("builder is required")
	}
	if isNil(installer) {
		return nil, configError("installer is required")
	}

	h := &Host[S]{
		builder:   builder,
		installer: installer,
		blocking:  NoBlock[S](),
		logger:    discardLogger(),
	}
	for _, opt := range opts {
		if err := opt(h); err != nil {
			return nil, err
		}
	}

	return h, nil
}

// State returns the current lifecycle state
func (h *Host[S]) State() State {
	return State(h.state.Load())
}

// Blocks reports whether Run waits for termination
func (h *Host[S]) Blocks() bool {
	return h.blocking.Present()
}

// Run creates the system named systemName, installs its actors and, if a
// blocking strategy is configured, waits for it to terminate. Failures are
// returned immediately; the Host never shuts the system down. Run may be
// called once per Host.
func (h *Host[S]) Run(systemName string) error {
	if !h.state.CompareAndSwap(int32(StateNotStarted), int32(StateStarted)) {
		return &HostError{Op: "run", System: systemName, Kind: ErrAlreadyStarted, Err: errAlreadyRun}
	}
	defer h.state.Store(int32(StateReturned))

	log := h.logger.WithField("system", systemName)
	started := time.Now()

	log.Debug("Creating actor system")
	system, err := h.builder.Create(systemName)
	if err != nil {
		log.WithError(err).Error("Actor system creation failed")
		return &HostError{Op: "create", System: systemName, Kind: ErrSystemCreationFailed, Err: err}
	}

	log.Debug("Installing actors")
	if err := h.installer.Install(system); err != nil {
		log.WithError(err).Error("Actor installation failed")
		return &HostError{Op: "install", System: systemName, Kind: ErrInstallationFailed, Err: err}
	}

	log.WithField("elapsed", time.Since(started)).Info("Actor system started")

	strategy, ok := h.blocking.Strategy()
	if !ok {
		return nil
	}

	h.state.Store(int32(StateBlocked))
	log.Debug("Awaiting actor system termination")
	if err := strategy.AwaitTermination(system); err != nil {
		log.WithError(err).Error("Termination wait failed")
		return &HostError{Op: "await termination", System: systemName, Kind: ErrTerminationWaitFailed, Err: err}
	}

	log.Info("Actor system terminated")
	return nil
}

func discardLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}
