package reactor

import (
	"golang.org/x/time/rate"
)

// Policy bounds publish-rate per subscriber at the registry boundary:
// back-pressure is a registry concern, not something the reactor's own
// state machine enforces. The reactor's queue itself stays unbounded
// (SPEC_FULL.md §4.C); a subscriber that can't keep up simply misses the
// publishes the registry skips on its behalf, rather than growing the
// queue without bound.
type Policy struct {
	limiter *rate.Limiter
}

// NewPolicy builds a policy allowing up to burst immediate publishes and
// ratePerSecond steady-state thereafter. A nil *Policy always allows.
func NewPolicy(ratePerSecond float64, burst int) *Policy {
	return &Policy{limiter: rate.NewLimiter(rate.Limit(ratePerSecond), burst)}
}

// Allow reports whether a publish to this subscriber should proceed now.
// Callers that get false drop this publish for that subscriber; the
// reactor itself is unopinionated about the choice.
func (p *Policy) Allow() bool {
	if p == nil || p.limiter == nil {
		return true
	}
	return p.limiter.Allow()
}
