package core

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

// actor implements the Actor interface.
type actor struct {
	id      ActorID
	name    string
	handler MessageHandler
	logger  *logrus.Entry

	// Channel for receiving messages
	mailbox chan *Message

	// Context for controlling the Actor lifecycle
	ctx    context.Context
	cancel context.CancelFunc

	// Wait group for the message loop
	wg      sync.WaitGroup
	started atomic.Bool

	// Atomic counters for statistics
	state             int32 // ActorState
	messagesProcessed uint64
	createdAt         time.Time
	lastMessageAt     int64 // UnixNano

	// Pending calls waiting for a reply, keyed by session
	pendingCalls   sync.Map // map[uint32]chan *Message
	sessionCounter uint32

	opts ActorOptions
}

// NewActor creates a new Actor instance. The Actor does not process
// messages until Start is called.
func NewActor(id ActorID, handler MessageHandler, opts ActorOptions) Actor {
	return newActor(id, handler, opts, logrus.NewEntry(logrus.StandardLogger()))
}

func newActor(id ActorID, handler MessageHandler, opts ActorOptions, logger *logrus.Entry) *actor {
	defaults := DefaultActorOptions()
	if opts.MailboxSize <= 0 {
		opts.MailboxSize = defaults.MailboxSize
	}
	if opts.ProcessTimeout <= 0 {
		opts.ProcessTimeout = defaults.ProcessTimeout
	}

	ctx, cancel := context.WithCancel(context.Background())

	a := &actor{
		id:        id,
		name:      opts.Name,
		handler:   handler,
		logger:    logger.WithFields(logrus.Fields{"actor": id, "actor_name": opts.Name}),
		mailbox:   make(chan *Message, opts.MailboxSize),
		ctx:       ctx,
		cancel:    cancel,
		createdAt: time.Now(),
		opts:      opts,
	}
	atomic.StoreInt32(&a.state, int32(ActorStateIdle))

	return a
}

// ID returns the unique identifier of this Actor.
func (a *actor) ID() ActorID {
	return a.id
}

// Name returns the Actor's name.
func (a *actor) Name() string {
	return a.name
}

// Start begins the Actor's message processing loop. The loop also ends
// when parent is cancelled.
func (a *actor) Start(parent context.Context) error {
	if !a.started.CompareAndSwap(false, true) {
		return fmt.Errorf("actor %d is already started", a.id)
	}
	if s := a.currentState(); s != ActorStateIdle {
		return fmt.Errorf("actor %d cannot start from state %s", a.id, s)
	}

	a.wg.Add(1)
	go a.messageLoop(parent)

	return nil
}

// Stop shuts down the Actor and waits for its message loop to exit.
func (a *actor) Stop() error {
	if !atomic.CompareAndSwapInt32(&a.state, int32(ActorStateIdle), int32(ActorStateStopping)) &&
		!atomic.CompareAndSwapInt32(&a.state, int32(ActorStateRunning), int32(ActorStateStopping)) {
		return fmt.Errorf("actor %d cannot be stopped from state %s", a.id, a.currentState())
	}

	a.cancel()
	a.wg.Wait()

	atomic.StoreInt32(&a.state, int32(ActorStateStopped))
	return nil
}

// Send enqueues a message to this Actor's mailbox.
func (a *actor) Send(msg *Message) error {
	if msg == nil {
		return fmt.Errorf("cannot send nil message to actor %d", a.id)
	}
	if s := a.currentState(); s == ActorStateStopped || s == ActorStateStopping {
		return fmt.Errorf("actor %d is not running (state: %s)", a.id, s)
	}

	select {
	case <-a.ctx.Done():
		return fmt.Errorf("actor %d is shutting down", a.id)
	default:
	}

	select {
	case a.mailbox <- msg:
		return nil
	default:
		return fmt.Errorf("actor %d mailbox is full", a.id)
	}
}

// Call sends a message and waits for a response.
func (a *actor) Call(ctx context.Context, msg *Message) (*Message, error) {
	if msg == nil {
		return nil, fmt.Errorf("cannot call actor %d with nil message", a.id)
	}

	session := atomic.AddUint32(&a.sessionCounter, 1)
	msg.Session = session

	respChan := make(chan *Message, 1)
	a.pendingCalls.Store(session, respChan)
	defer a.pendingCalls.Delete(session)

	if err := a.Send(msg); err != nil {
		return nil, err
	}

	select {
	case resp := <-respChan:
		return resp, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-a.ctx.Done():
		return nil, fmt.Errorf("actor %d is shutting down", a.id)
	}
}

// Stats returns current runtime statistics for this Actor.
func (a *actor) Stats() ActorStats {
	var lastMessageAt time.Time
	if last := atomic.LoadInt64(&a.lastMessageAt); last > 0 {
		lastMessageAt = time.Unix(0, last)
	}

	return ActorStats{
		ID:                a.id,
		Name:              a.name,
		State:             a.currentState(),
		MessagesProcessed: atomic.LoadUint64(&a.messagesProcessed),
		MailboxSize:       len(a.mailbox),
		CreatedAt:         a.createdAt,
		LastMessageAt:     lastMessageAt,
	}
}

func (a *actor) currentState() ActorState {
	return ActorState(atomic.LoadInt32(&a.state))
}

// messageLoop is the main processing loop for the Actor.
func (a *actor) messageLoop(parent context.Context) {
	defer a.wg.Done()

	for {
		select {
		case msg := <-a.mailbox:
			a.processMessage(msg)

		case <-a.ctx.Done():
			a.drainMailbox()
			return

		case <-parent.Done():
			a.cancel()
			a.drainMailbox()
			return
		}
	}
}

// processMessage handles a single message and answers pending calls.
func (a *actor) processMessage(msg *Message) {
	atomic.CompareAndSwapInt32(&a.state, int32(ActorStateIdle), int32(ActorStateRunning))
	defer atomic.CompareAndSwapInt32(&a.state, int32(ActorStateRunning), int32(ActorStateIdle))

	atomic.AddUint64(&a.messagesProcessed, 1)
	atomic.StoreInt64(&a.lastMessageAt, time.Now().UnixNano())

	ctx, cancel := context.WithTimeout(a.ctx, a.opts.ProcessTimeout)
	defer cancel()

	data, err := a.handle(ctx, msg)
	if err != nil && msg.Session == 0 {
		a.logger.WithError(err).WithField("type", msg.Type).Warn("Message handling failed")
	}

	if msg.Session != 0 {
		a.sendResponse(msg, data, err)
	}
}

func (a *actor) handle(ctx context.Context, msg *Message) (data []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.WithField("panic", r).Error("Message handler panicked")
			err = fmt.Errorf("actor %d handler panicked: %v", a.id, r)
		}
	}()

	if replier, ok := a.handler.(Replier); ok && msg.Session != 0 {
		return replier.Reply(ctx, msg)
	}
	return nil, a.handler.HandleMessage(ctx, msg)
}

// sendResponse delivers the reply for a call.
func (a *actor) sendResponse(req *Message, data []byte, err error) {
	respChan, ok := a.pendingCalls.Load(req.Session)
	if !ok {
		return
	}

	resp := &Message{
		Type:      MessageTypeResponse,
		Source:    a.id,
		Target:    req.Source,
		Session:   req.Session,
		Data:      data,
		Timestamp: time.Now(),
	}
	if err != nil {
		resp.Type = MessageTypeError
		resp.Data = []byte(err.Error())
	}

	select {
	case respChan.(chan *Message) <- resp:
	default:
	}
}

// drainMailbox fails pending calls left in the mailbox at shutdown.
func (a *actor) drainMailbox() {
	for {
		select {
		case msg := <-a.mailbox:
			if msg.Session != 0 {
				a.sendResponse(msg, nil, fmt.Errorf("actor %d is shutting down", a.id))
			}
		default:
			return
		}
	}
}
