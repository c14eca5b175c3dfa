package core

import (
	"time"
)

// ActorID identifies an Actor within one ActorSystem.
type ActorID uint32

// MessageType defines the type of message being sent.
type MessageType uint8

// Message is the unit of communication between Actors.
type Message struct {
	// Type indicates the message category
	Type MessageType

	// Source is the ID of the sending Actor, zero for external senders
	Source ActorID

	// Target is the ID of the receiving Actor
	Target ActorID

	// Session correlates a request with its response; zero for casts
	Session uint32

	// Data contains the message payload
	Data []byte

	// Timestamp when the message was created
	Timestamp time.Time
}

// ActorState represents the current state of an Actor.
type ActorState uint8

const (
	// ActorStateIdle means the Actor is waiting for messages
	ActorStateIdle ActorState = iota

	// ActorStateRunning means the Actor is processing a message
	ActorStateRunning

	// ActorStateStopping means the Actor is shutting down
	ActorStateStopping

	// ActorStateStopped means the Actor has been stopped
	ActorStateStopped
)

// String returns the string representation of ActorState.
func (s ActorState) String() string {
	switch s {
	case ActorStateIdle:
		return "idle"
	case ActorStateRunning:
		return "running"
	case ActorStateStopping:
		return "stopping"
	case ActorStateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

const (
	// MessageTypeText for plain messages
	MessageTypeText MessageType = iota

	// MessageTypeResponse for replies to a Call
	MessageTypeResponse

	// MessageTypeRequest for messages expecting a reply
	MessageTypeRequest

	// MessageTypeSystem for control messages
	MessageTypeSystem

	// MessageTypeError for failed replies
	MessageTypeError
)

// String returns the string representation of MessageType.
func (t MessageType) String() string {
	switch t {
	case MessageTypeText:
		return "text"
	case MessageTypeResponse:
		return "response"
	case MessageTypeRequest:
		return "request"
	case MessageTypeSystem:
		return "system"
	case MessageTypeError:
		return "error"
	default:
		return "unknown"
	}
}

// ActorOptions contains configuration options for creating an Actor.
type ActorOptions struct {
	// MailboxSize sets the capacity of the Actor's message queue
	MailboxSize int

	// Name is a human-readable name for the Actor
	Name string

	// ProcessTimeout bounds the handling of a single message
	ProcessTimeout time.Duration
}

// DefaultActorOptions returns the options used when none are given.
func DefaultActorOptions() ActorOptions {
	return ActorOptions{
		MailboxSize:    1000,
		ProcessTimeout: 30 * time.Second,
	}
}

// SystemOptions configures an ActorSystem.
type SystemOptions struct {
	// MaxActors caps how many actors the system spawns over its lifetime;
	// stopped actors still count. Zero means unlimited.
	MaxActors int

	// DefaultMailboxSize is used for actors created without a mailbox size
	DefaultMailboxSize int

	// ProcessTimeout is used for actors created without a timeout
	ProcessTimeout time.Duration
}

// DefaultSystemOptions returns the options used by NewActorSystem.
func DefaultSystemOptions() SystemOptions {
	return SystemOptions{
		MaxActors:          10000,
		DefaultMailboxSize: 1000,
		ProcessTimeout:     30 * time.Second,
	}
}

// ActorStats contains runtime statistics for an Actor.
type ActorStats struct {
	ID                ActorID
	Name              string
	State             ActorState
	MessagesProcessed uint64
	MailboxSize       int
	CreatedAt         time.Time
	LastMessageAt     time.Time
}
