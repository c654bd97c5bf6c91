// Package pubsub implements the publisher registry (SPEC_FULL.md §4.B): the
// set of live subscribers that mutating handlers fan updates into.
package pubsub

import (
	"sync"

	"go.uber.org/zap"

	"github.com/nextapp/nextappd/api"
	"github.com/nextapp/nextappd/logger"
	"github.com/nextapp/nextappd/reactor"
)

// Handle is a non-owning reference to a live subscription: anything that can
// report its id and accept an update. package reactor's Reactor implements
// this.
type Handle interface {
	ID() string
	api.Subscriber
}

// Registry is a concurrency-safe set of Handles keyed by subscription id.
// add/remove/snapshot hold mu; publish never invokes a subscriber while
// holding it, to avoid a lock-order inversion with the reactor's own mutex.
type Registry struct {
	mu       sync.RWMutex
	handles  map[string]Handle
	policies map[string]*reactor.Policy
	log      *zap.SugaredLogger

	rateLimitPerSecond float64
	rateLimitBurst     int
}

// NewRegistry creates an empty registry with no per-subscriber rate limit.
// Call SetRateLimit to turn one on.
func NewRegistry(log *zap.SugaredLogger) *Registry {
	if log == nil {
		log = logger.Logger
	}
	return &Registry{
		handles:  make(map[string]Handle),
		policies: make(map[string]*reactor.Policy),
		log:      log,
	}
}

// SetRateLimit configures the per-subscriber publish policy applied to
// every handle added afterward; ratePerSecond <= 0 disables rate limiting
// (the zero value NewRegistry starts with). Handles already registered
// keep whatever policy was in effect when they were added.
func (r *Registry) SetRateLimit(ratePerSecond float64, burst int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rateLimitPerSecond = ratePerSecond
	r.rateLimitBurst = burst
}

// Add registers handle under its own id. Idempotent: re-adding the same id
// simply replaces the stored handle.
func (r *Registry) Add(handle Handle) {
	r.mu.Lock()
	r.handles[handle.ID()] = handle
	if r.rateLimitPerSecond > 0 {
		r.policies[handle.ID()] = reactor.NewPolicy(r.rateLimitPerSecond, r.rateLimitBurst)
	}
	r.mu.Unlock()
	r.log.Debugw("subscriber added", logger.FieldSubscriptionID, handle.ID())
}

// Remove unregisters the handle for id. No-op if absent.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	_, existed := r.handles[id]
	delete(r.handles, id)
	delete(r.policies, id)
	r.mu.Unlock()
	if existed {
		r.log.Debugw("subscriber removed", logger.FieldSubscriptionID, id)
	}
}

// Count returns the number of live subscribers.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.handles)
}

// Drain empties the registry, returning the number of handles it held. The
// server calls this after its gRPC listener has fully stopped (SPEC_FULL.md
// §4.F) so no reactor can publish into a closed server.
func (r *Registry) Drain() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := len(r.handles)
	r.handles = make(map[string]Handle)
	r.policies = make(map[string]*reactor.Policy)
	return n
}

// Publish snapshots the current set of handles and delivers update to each,
// unlocked. A handle whose policy denies this publish is skipped (its
// queue never grows for an update it was too far behind to receive); a
// handle whose Send fails (already DONE) is silently skipped too — the
// reactor, not the registry, is responsible for removing itself via Remove
// on completion.
func (r *Registry) Publish(update *api.Update) {
	type entry struct {
		handle Handle
		policy *reactor.Policy
	}

	r.mu.RLock()
	snapshot := make([]entry, 0, len(r.handles))
	for id, h := range r.handles {
		snapshot = append(snapshot, entry{handle: h, policy: r.policies[id]})
	}
	r.mu.RUnlock()

	for _, e := range snapshot {
		if e.policy != nil && !e.policy.Allow() {
			r.log.Debugw("publish dropped by rate limit",
				logger.FieldSubscriptionID, e.handle.ID(),
			)
			continue
		}
		if err := e.handle.Send(update); err != nil {
			r.log.Debugw("publish skipped invalidated subscriber",
				logger.FieldSubscriptionID, e.handle.ID(),
				logger.FieldError, err,
			)
		}
	}
}
