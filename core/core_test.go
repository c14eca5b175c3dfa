package core

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

// echoHandler replies with the request payload.
type echoHandler struct {
	handled int32
}

func (h *echoHandler) HandleMessage(ctx context.Context, msg *Message) error {
	atomic.AddInt32(&h.handled, 1)
	return nil
}

func (h *echoHandler) Reply(ctx context.Context, msg *Message) ([]byte, error) {
	atomic.AddInt32(&h.handled, 1)
	return msg.Data, nil
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestNewActor(t *testing.T) {
	opts := DefaultActorOptions()
	opts.Name = "test-actor"

	actor := NewActor(1, &echoHandler{}, opts)

	if actor.ID() != 1 {
		t.Errorf("Expected actor ID 1, got %d", actor.ID())
	}

	stats := actor.Stats()
	if stats.Name != "test-actor" {
		t.Errorf("Expected actor name 'test-actor', got '%s'", stats.Name)
	}
	if stats.State != ActorStateIdle {
		t.Errorf("Expected initial state %s, got %s", ActorStateIdle, stats.State)
	}
}

func TestActorStartStop(t *testing.T) {
	actor := NewActor(2, &echoHandler{}, DefaultActorOptions())

	if err := actor.Start(context.Background()); err != nil {
		t.Fatalf("Failed to start actor: %v", err)
	}
	if err := actor.Start(context.Background()); err == nil {
		t.Error("Second start should fail")
	}

	if err := actor.Stop(); err != nil {
		t.Fatalf("Failed to stop actor: %v", err)
	}
	if state := actor.Stats().State; state != ActorStateStopped {
		t.Errorf("Expected final state %s, got %s", ActorStateStopped, state)
	}
	if err := actor.Send(&Message{}); err == nil {
		t.Error("Send to a stopped actor should fail")
	}
}

func TestActorSend(t *testing.T) {
	handler := &echoHandler{}
	actor := NewActor(3, handler, DefaultActorOptions())

	if err := actor.Start(context.Background()); err != nil {
		t.Fatalf("Failed to start actor: %v", err)
	}
	defer actor.Stop()

	msg := &Message{Type: MessageTypeText, Target: 3, Data: []byte("hello"), Timestamp: time.Now()}
	if err := actor.Send(msg); err != nil {
		t.Fatalf("Failed to send message: %v", err)
	}

	waitFor(t, func() bool { return actor.Stats().MessagesProcessed == 1 })
}

func TestActorMailboxFull(t *testing.T) {
	opts := DefaultActorOptions()
	opts.MailboxSize = 1

	// not started, so nothing drains the mailbox
	actor := NewActor(4, &echoHandler{}, opts)

	if err := actor.Send(&Message{}); err != nil {
		t.Fatalf("First send should fit: %v", err)
	}
	err := actor.Send(&Message{})
	if err == nil || !strings.Contains(err.Error(), "mailbox is full") {
		t.Errorf("Expected mailbox full error, got %v", err)
	}
}

func TestActorHandlerPanic(t *testing.T) {
	handler := HandlerFunc(func(ctx context.Context, msg *Message) error {
		panic("boom")
	})
	actor := NewActor(5, handler, DefaultActorOptions())
	if err := actor.Start(context.Background()); err != nil {
		t.Fatalf("Failed to start actor: %v", err)
	}
	defer actor.Stop()

	resp, err := actor.Call(context.Background(), &Message{Type: MessageTypeRequest})
	if err != nil {
		t.Fatalf("Call failed: %v", err)
	}
	if resp.Type != MessageTypeError {
		t.Errorf("Expected error reply, got %s", resp.Type)
	}
}

func TestRouter(t *testing.T) {
	router := NewRouter()

	actor1 := NewActor(10, &echoHandler{}, DefaultActorOptions())
	actor2 := NewActor(20, &echoHandler{}, DefaultActorOptions())

	if err := router.Register(actor1); err != nil {
		t.Fatalf("Failed to register actor1: %v", err)
	}
	if err := router.Register(actor2); err != nil {
		t.Fatalf("Failed to register actor2: %v", err)
	}
	if err := router.Register(actor1); err == nil {
		t.Error("Duplicate register should fail")
	}

	if err := router.RegisterName("svc", 10); err != nil {
		t.Fatalf("Failed to register name: %v", err)
	}
	if err := router.RegisterName("svc", 20); err == nil {
		t.Error("Duplicate name should fail")
	}
	if err := router.RegisterName("ghost", 99); err == nil {
		t.Error("Name for unknown actor should fail")
	}

	found, exists := router.LookupName("svc")
	if !exists || found.ID() != 10 {
		t.Fatalf("Expected svc to resolve to actor 10, got %v", found)
	}

	if ids := router.List(); len(ids) != 2 {
		t.Errorf("Expected 2 actors, got %d", len(ids))
	}

	if err := router.Unregister(10); err != nil {
		t.Fatalf("Failed to unregister actor: %v", err)
	}
	if _, exists := router.Lookup(10); exists {
		t.Error("Actor 10 should not exist after unregister")
	}
	if _, exists := router.LookupName("svc"); exists {
		t.Error("Name should be released with its actor")
	}
}

func TestActorSystem(t *testing.T) {
	system := NewActorSystem("test-system")

	if system.Name() != "test-system" {
		t.Errorf("Expected name test-system, got %s", system.Name())
	}
	if system.ID() == "" {
		t.Error("System should have an instance ID")
	}

	handler := &echoHandler{}
	actor, err := system.NewActor(handler, ActorOptions{Name: "anon"})
	if err != nil {
		t.Fatalf("Failed to create actor: %v", err)
	}

	found, exists := system.GetActor(actor.ID())
	if !exists || found.ID() != actor.ID() {
		t.Fatal("Created actor not found in system")
	}

	if _, err := system.NewService("echo", handler, ActorOptions{}); err != nil {
		t.Fatalf("Failed to create service: %v", err)
	}
	if _, err := system.NewService("echo", handler, ActorOptions{}); err == nil {
		t.Error("Duplicate service name should fail")
	}
	if names := system.Services(); len(names) != 1 || names[0] != "echo" {
		t.Errorf("Expected [echo], got %v", names)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	reply, err := system.CallByName(ctx, "echo", []byte("ping"))
	if err != nil {
		t.Fatalf("CallByName failed: %v", err)
	}
	if string(reply) != "ping" {
		t.Errorf("Expected reply 'ping', got '%s'", reply)
	}

	if err := system.SendByName("echo", MessageTypeText, []byte("cast")); err != nil {
		t.Fatalf("SendByName failed: %v", err)
	}
	if err := system.SendByName("missing", MessageTypeText, nil); !errors.Is(err, ErrServiceNotFound) {
		t.Errorf("Expected ErrServiceNotFound, got %v", err)
	}
	if _, err := system.Call(ctx, 999, nil); !errors.Is(err, ErrActorNotFound) {
		t.Errorf("Expected ErrActorNotFound, got %v", err)
	}

	if stats := system.Stats(); len(stats) != 2 {
		t.Errorf("Expected 2 actors in stats, got %d", len(stats))
	}

	select {
	case <-system.Terminated():
		t.Fatal("System should not be terminated before shutdown")
	default:
	}

	if err := system.Shutdown(ctx); err != nil {
		t.Fatalf("Failed to shutdown system: %v", err)
	}

	select {
	case <-system.Terminated():
	default:
		t.Fatal("System should be terminated after shutdown")
	}

	if err := system.Shutdown(ctx); err != nil {
		t.Errorf("Second shutdown should be a no-op, got %v", err)
	}
	if _, err := system.NewActor(handler, ActorOptions{}); !errors.Is(err, ErrSystemShuttingDown) {
		t.Errorf("Expected ErrSystemShuttingDown, got %v", err)
	}
	for _, st := range system.Stats() {
		if st.State != ActorStateStopped {
			t.Errorf("Actor %d should be stopped, got %s", st.ID, st.State)
		}
	}
}

func TestActorSystemMaxActors(t *testing.T) {
	opts := DefaultSystemOptions()
	opts.MaxActors = 1
	system := NewActorSystemWithOptions("limited", opts, nil)
	defer system.Shutdown(context.Background())

	first, err := system.NewActor(&echoHandler{}, ActorOptions{})
	if err != nil {
		t.Fatalf("First actor should fit: %v", err)
	}
	if _, err := system.NewActor(&echoHandler{}, ActorOptions{}); !errors.Is(err, ErrTooManyActors) {
		t.Errorf("Expected ErrTooManyActors, got %v", err)
	}

	// the cap counts every actor ever spawned
	if err := first.Stop(); err != nil {
		t.Fatalf("Failed to stop actor: %v", err)
	}
	if _, err := system.NewActor(&echoHandler{}, ActorOptions{}); !errors.Is(err, ErrTooManyActors) {
		t.Errorf("Expected ErrTooManyActors after stop, got %v", err)
	}
}
