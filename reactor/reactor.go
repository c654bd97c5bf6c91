// Package reactor implements the subscription reactor (SPEC_FULL.md §4.C):
// the per-client state machine behind the SubscribeToUpdates server-
// streaming RPC. It owns an outbound queue, serializes writes, and tears
// itself down on completion or a failed write.
package reactor

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nextapp/nextappd/api"
	"github.com/nextapp/nextappd/logger"
)

// State is one of the reactor's three states.
type State int

const (
	// StateReady: no write in flight. A publish with an empty queue starts
	// a write and transitions to StateWaitingOnWrite.
	StateReady State = iota
	// StateWaitingOnWrite: exactly one transport write is outstanding.
	StateWaitingOnWrite
	// StateDone: terminal. The reactor has unregistered itself.
	StateDone
)

func (s State) String() string {
	switch s {
	case StateReady:
		return "READY"
	case StateWaitingOnWrite:
		return "WAITING_ON_WRITE"
	default:
		return "DONE"
	}
}

// Transport is the server-streaming send primitive the reactor drives.
// grpc.ServerStream.Send satisfies this shape; tests substitute a fake.
type Transport interface {
	Send(update *api.Update) error
}

// Unregisterer removes a reactor from the publisher registry on OnDone.
// package pubsub.Registry satisfies this.
type Unregisterer interface {
	Remove(id string)
}

// Reactor is the per-subscription state machine described in
// SPEC_FULL.md §4.C. The mutex guards state and queue only; the transport
// write itself runs unlocked (see startWrite).
type Reactor struct {
	id        string
	transport Transport
	registry  Unregisterer
	log       *zap.SugaredLogger

	mu    sync.Mutex
	state State
	queue []*api.Update
}

// New creates a reactor bound to transport, not yet registered with
// registry — the caller registers it via registry.Add(r) once constructed
// so the id is stable before any publish can reach it.
func New(transport Transport, registry Unregisterer, log *zap.SugaredLogger) *Reactor {
	if log == nil {
		log = logger.Logger
	}
	return &Reactor{
		id:        uuid.NewString(),
		transport: transport,
		registry:  registry,
		state:     StateReady,
		log:       log,
	}
}

// ID returns the subscription id generated at construction.
func (r *Reactor) ID() string {
	return r.id
}

// State returns the reactor's current state. For tests and diagnostics.
func (r *Reactor) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Send implements pubsub.Handle / api.Subscriber: it is the "publish(m)"
// event in SPEC_FULL.md §4.C's transition table.
func (r *Reactor) Send(update *api.Update) error {
	r.mu.Lock()
	if r.state == StateDone {
		r.mu.Unlock()
		return errDone
	}

	r.queue = append(r.queue, update)
	if r.state == StateReady {
		r.state = StateWaitingOnWrite
		head := r.queue[0]
		r.mu.Unlock()
		r.startWrite(head)
		return nil
	}
	// WAITING_ON_WRITE: a write is already pending, just enqueue.
	r.mu.Unlock()
	return nil
}

// startWrite performs the actual transport write unlocked, then reports the
// outcome back through WriteDone. This mirrors OnWriteDone being invoked by
// the transport's own serialized-write contract in the original design.
func (r *Reactor) startWrite(update *api.Update) {
	err := r.transport.Send(update)
	r.WriteDone(err == nil)
}

// WriteDone is the "write_done(ok)" event. ok=false terminates the stream;
// ok=true pops the head and starts the next write if the queue still has
// one, else returns to READY.
func (r *Reactor) WriteDone(ok bool) {
	r.mu.Lock()
	if !ok {
		r.state = StateDone
		r.mu.Unlock()
		r.finish()
		return
	}

	if len(r.queue) > 0 {
		r.queue = r.queue[1:]
	}

	if len(r.queue) == 0 {
		r.state = StateReady
		r.mu.Unlock()
		return
	}

	next := r.queue[0]
	r.mu.Unlock()
	r.startWrite(next)
}

// OnDone is the "rpc_done" event: client cancellation or transport closure.
// It unregisters the reactor from the registry and transitions to DONE.
func (r *Reactor) OnDone() {
	r.mu.Lock()
	alreadyDone := r.state == StateDone
	r.state = StateDone
	r.mu.Unlock()

	if !alreadyDone {
		r.finish()
	}
}

func (r *Reactor) finish() {
	r.registry.Remove(r.id)
	r.log.Debugw("subscription done", logger.FieldSubscriptionID, r.id)
}

// QueueDepth returns the number of updates waiting (including one in
// flight). Back-pressure policy (a rate.Limiter-backed Policy that drops
// the incoming publish) is applied by the registry boundary, not here — see
// SPEC_FULL.md's DOMAIN STACK entry for golang.org/x/time/rate.
func (r *Reactor) QueueDepth() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.queue)
}

var errDone = &doneError{}

type doneError struct{}

func (*doneError) Error() string { return "subscription already done" }
