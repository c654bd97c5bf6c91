package pubsub

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nextapp/nextappd/api"
)

type fakeHandle struct {
	id       string
	received []*api.Update
	fail     bool
	mu       sync.Mutex
}

func (f *fakeHandle) ID() string { return f.id }

func (f *fakeHandle) Send(update *api.Update) error {
	if f.fail {
		return assert.AnError
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.received = append(f.received, update)
	return nil
}

func (f *fakeHandle) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.received)
}

func TestRegistry_AddPublishDelivers(t *testing.T) {
	r := NewRegistry(nil)
	h := &fakeHandle{id: "sub-1"}
	r.Add(h)

	update := &api.Update{Node: &api.NodeUpdate{Op: api.NodeOpAdded}}
	r.Publish(update)

	assert.Equal(t, 1, h.count())
	assert.Equal(t, 1, r.Count())
}

func TestRegistry_AddIsIdempotent(t *testing.T) {
	r := NewRegistry(nil)
	h1 := &fakeHandle{id: "sub-1"}
	h2 := &fakeHandle{id: "sub-1"}
	r.Add(h1)
	r.Add(h2)

	require.Equal(t, 1, r.Count())
	r.Publish(&api.Update{})
	assert.Equal(t, 0, h1.count())
	assert.Equal(t, 1, h2.count())
}

func TestRegistry_RemoveNoopIfAbsent(t *testing.T) {
	r := NewRegistry(nil)
	r.Remove("does-not-exist")
	assert.Equal(t, 0, r.Count())
}

func TestRegistry_PublishSkipsInvalidatedHandle(t *testing.T) {
	r := NewRegistry(nil)
	failing := &fakeHandle{id: "sub-1", fail: true}
	ok := &fakeHandle{id: "sub-2"}
	r.Add(failing)
	r.Add(ok)

	assert.NotPanics(t, func() {
		r.Publish(&api.Update{})
	})
	assert.Equal(t, 1, ok.count())
}

func TestRegistry_RateLimitDropsExcessPublishes(t *testing.T) {
	r := NewRegistry(nil)
	r.SetRateLimit(1, 1)
	h := &fakeHandle{id: "sub-1"}
	r.Add(h)

	for i := 0; i < 5; i++ {
		r.Publish(&api.Update{})
	}

	assert.Equal(t, 1, h.count())
}

func TestRegistry_RateLimitOnlyAppliesToHandlesAddedAfterward(t *testing.T) {
	r := NewRegistry(nil)
	before := &fakeHandle{id: "sub-1"}
	r.Add(before)
	r.SetRateLimit(1, 1)
	after := &fakeHandle{id: "sub-2"}
	r.Add(after)

	for i := 0; i < 5; i++ {
		r.Publish(&api.Update{})
	}

	assert.Equal(t, 5, before.count())
	assert.Equal(t, 1, after.count())
}

func TestRegistry_ConcurrentAddRemovePublish(t *testing.T) {
	r := NewRegistry(nil)
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			h := &fakeHandle{id: string(rune('a' + n%26))}
			r.Add(h)
			r.Publish(&api.Update{})
			r.Remove(h.id)
		}(i)
	}
	wg.Wait()
}
