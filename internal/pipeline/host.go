package pipeline

import (
	"sync"
	"sync/atomic"

	"capturewatch/internal/watchdog"
)

// Host is the watchdog.Host backed by the pipeline event stream. It doubles
// as the filter's parent source, since a daemon monitors exactly one filter
// on one source.
type Host struct {
	enabled atomic.Bool
	active  atomic.Bool

	mu   sync.Mutex
	subs map[int]func(bool)
	next int
}

// NewHost returns a host with the filter enabled and the source active, the
// state an attached-and-rendering pipeline starts in.
func NewHost() *Host {
	h := &Host{subs: make(map[int]func(bool))}
	h.enabled.Store(true)
	h.active.Store(true)
	return h
}

// FilterEnabled reports the filter's enabled flag.
func (h *Host) FilterEnabled() bool { return h.enabled.Load() }

// Active reports whether the source is currently rendered.
func (h *Host) Active() bool { return h.active.Load() }

// Parent returns the owning source.
func (h *Host) Parent() watchdog.Source { return h }

// SubscribeEnabled registers fn for enable transitions and returns the
// matching unsubscribe function.
func (h *Host) SubscribeEnabled(fn func(bool)) func() {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.next
	h.next++
	h.subs[id] = fn
	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.subs, id)
	}
}

// SetActive updates the source activity flag.
func (h *Host) SetActive(active bool) {
	h.active.Store(active)
}

// SetEnabled updates the filter enabled flag and notifies subscribers on a
// transition. Subscribers run on the caller's goroutine, matching host
// signal semantics.
func (h *Host) SetEnabled(enabled bool) {
	if h.enabled.Swap(enabled) == enabled {
		return
	}
	h.mu.Lock()
	subs := make([]func(bool), 0, len(h.subs))
	for _, fn := range h.subs {
		subs = append(subs, fn)
	}
	h.mu.Unlock()
	for _, fn := range subs {
		fn(enabled)
	}
}
