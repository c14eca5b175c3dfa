// Package blocking provides BlockingStrategy implementations for the
// bootstrap host.
package blocking

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/najoast/actorhost/bootstrap"
	"github.com/najoast/actorhost/config"
)

// ErrWaitTimeout is returned when a bounded wait expires
var ErrWaitTimeout = errors.New("timed out waiting for actor system termination")

// Terminable is an actor system handle that can be waited on and stopped
type Terminable interface {
	Terminated() <-chan struct{}
	Shutdown(ctx context.Context) error
}

// DefaultShutdownTimeout bounds shutdown after a signal or cancellation
const DefaultShutdownTimeout = 10 * time.Second

// UntilTerminated waits until the system terminates on its own
func UntilTerminated[S Terminable]() bootstrap.BlockingStrategy[S] {
	return bootstrap.BlockingStrategyFunc[S](func(system S) error {
		<-system.Terminated()
		return nil
	})
}

// Trigger arms a shutdown source. The returned channel yields a reason once
// shutdown should begin; disarm releases the source. Arming is synchronous,
// so an event that happens after Trigger returns is never lost.
type Trigger func() (fired <-chan string, disarm func())

// Shutdown waits for termination or for trigger to fire. When trigger fires
// first the system is shut down, bounded by timeout, and the wait continues
// until it terminates.
type Shutdown[S Terminable] struct {
	Trigger Trigger
	Timeout time.Duration
	Logger  *logrus.Entry
}

// AwaitTermination implements bootstrap.BlockingStrategy
func (s Shutdown[S]) AwaitTermination(system S) error {
	fired, disarm := s.Trigger()
	defer disarm()

	select {
	case <-system.Terminated():
		return nil
	case reason := <-fired:
		s.logger().WithField("reason", reason).Info("Shutting down actor system")
	}

	timeout := s.Timeout
	if timeout <= 0 {
		timeout = DefaultShutdownTimeout
	}
	shutdownCtx, stop := context.WithTimeout(context.Background(), timeout)
	defer stop()

	if err := system.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("actor system shutdown: %w", err)
	}
	<-system.Terminated()
	return nil
}

func (s Shutdown[S]) logger() *logrus.Entry {
	if s.Logger != nil {
		return s.Logger
	}
	return logrus.NewEntry(logrus.StandardLogger())
}

// UntilSignal waits for one of signals, SIGINT and SIGTERM by default,
// then shuts the system down
func UntilSignal[S Terminable](timeout time.Duration, logger *logrus.Entry, signals ...os.Signal) Shutdown[S] {
	if len(signals) == 0 {
		signals = []os.Signal{os.Interrupt, syscall.SIGTERM}
	}
	return Shutdown[S]{
		Trigger: func() (<-chan string, func()) {
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, signals...)

			return relay[os.Signal](sigCh, os.Signal.String, func() { signal.Stop(sigCh) })
		},
		Timeout: timeout,
		Logger:  logger,
	}
}

// UntilContextDone shuts the system down once parent is done
func UntilContextDone[S Terminable](parent context.Context, timeout time.Duration, logger *logrus.Entry) Shutdown[S] {
	return Shutdown[S]{
		Trigger: func() (<-chan string, func()) {
			return relay(parent.Done(), func(struct{}) string { return parent.Err().Error() }, func() {})
		},
		Timeout: timeout,
		Logger:  logger,
	}
}

// relay forwards the first value from src as a reason until disarmed
func relay[T any](src <-chan T, reason func(T) string, release func()) (<-chan string, func()) {
	fired := make(chan string, 1)
	done := make(chan struct{})

	go func() {
		select {
		case v := <-src:
			fired <- reason(v)
		case <-done:
		}
	}()

	var once sync.Once
	return fired, func() {
		once.Do(func() {
			release()
			close(done)
		})
	}
}

// WithTimeout bounds strategy by d. On expiry it returns ErrWaitTimeout;
// the inner wait is abandoned, not cancelled.
func WithTimeout[S any](strategy bootstrap.BlockingStrategy[S], d time.Duration) bootstrap.BlockingStrategy[S] {
	return bootstrap.BlockingStrategyFunc[S](func(system S) error {
		done := make(chan error, 1)
		go func() { done <- strategy.AwaitTermination(system) }()

		timer := time.NewTimer(d)
		defer timer.Stop()

		select {
		case err := <-done:
			return err
		case <-timer.C:
			return fmt.Errorf("%w after %s", ErrWaitTimeout, d)
		}
	})
}

// FromConfig selects the blocking policy named by cfg.Blocking
func FromConfig[S Terminable](cfg config.HostConfig, logger *logrus.Entry) (bootstrap.Blocking[S], error) {
	var strategy bootstrap.BlockingStrategy[S]

	switch cfg.Blocking {
	case config.BlockingNone, "":
		return bootstrap.NoBlock[S](), nil
	case config.BlockingTerminated:
		strategy = UntilTerminated[S]()
	case config.BlockingSignal:
		strategy = UntilSignal[S](cfg.ShutdownTimeout, logger)
	default:
		return bootstrap.NoBlock[S](), fmt.Errorf("%w: %q", config.ErrInvalidBlockingMode, cfg.Blocking)
	}

	if cfg.WaitTimeout > 0 {
		strategy = WithTimeout(strategy, cfg.WaitTimeout)
	}
	return bootstrap.Block(strategy), nil
}
