// Package bootstrap provides the host that stands up an actor system process
package bootstrap

import "reflect"

// Builder constructs a new actor system instance identified by name.
// S is the handle type of the actor runtime; it is opaque to the Host.
type Builder[S any] interface {
	// Create starts a system with the given name.
	// Name validation is the builder's responsibility.
	Create(name string) (S, error)
}

// Installer populates an actor system with application actors
type Installer[S any] interface {
	// Install wires actors into the system
	Install(system S) error
}

// BlockingStrategy suspends the caller until an actor system terminates
type BlockingStrategy[S any] interface {
	// AwaitTermination returns once the system has fully terminated.
	// A non-nil error means the wait itself failed.
	AwaitTermination(system S) error
}

// BuilderFunc adapts a function to the Builder interface
type BuilderFunc[S any] func(name string) (S, error)

// Create calls f(name)
func (f BuilderFunc[S]) Create(name string) (S, error) {
	return f(name)
}

// InstallerFunc adapts a function to the Installer interface
type InstallerFunc[S any] func(system S) error

// Install calls f(system)
func (f InstallerFunc[S]) Install(system S) error {
	return f(system)
}

// BlockingStrategyFunc adapts a function to the BlockingStrategy interface
type BlockingStrategyFunc[S any] func(system S) error

// AwaitTermination calls f(system)
func (f BlockingStrategyFunc[S]) AwaitTermination(system S) error {
	return f(system)
}

// Blocking is an optional BlockingStrategy. The zero value is the
// "do not block" policy.
type Blocking[S any] struct {
	strategy BlockingStrategy[S]
	present  bool
}

// Block returns a Blocking holding strategy
func Block[S any](strategy BlockingStrategy[S]) Blocking[S] {
	return Blocking[S]{strategy: strategy, present: !isNil(strategy)}
}

// NoBlock returns the Blocking that makes Run return right after installation
func NoBlock[S any]() Blocking[S] {
	return Blocking[S]{}
}

// Present reports whether a strategy is held
func (b Blocking[S]) Present() bool {
	return b.present
}

// Strategy returns the held strategy and whether one is present
func (b Blocking[S]) Strategy() (BlockingStrategy[S], bool) {
	return b.strategy, b.present
}

// State is the lifecycle state of a Host
type State int32

const (
	// StateNotStarted means Run has not been called
	StateNotStarted State = iota

	// StateStarted means Run is creating or installing the system
	StateStarted

	// StateBlocked means Run is waiting in the blocking strategy
	StateBlocked

	// StateReturned means Run has returned, successfully or not
	StateReturned
)

// String returns the string representation of State
func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not-started"
	case StateStarted:
		return "started"
	case StateBlocked:
		return "blocked"
	case StateReturned:
		return "returned"
	default:
		return "unknown"
	}
}

// isNil reports whether v is nil, including a typed nil func or pointer
// stored in an interface
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Func, reflect.Pointer, reflect.Map, reflect.Chan, reflect.Interface, reflect.Slice:
		return rv.IsNil()
	default:
		return false
	}
}
