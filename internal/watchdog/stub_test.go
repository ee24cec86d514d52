package watchdog

import (
	"context"
	"sync"
	"sync/atomic"
)

type stubSource struct {
	active atomic.Bool
}

func (s *stubSource) Active() bool { return s.active.Load() }

type stubHost struct {
	enabled atomic.Bool
	source  *stubSource

	mu   sync.Mutex
	subs map[int]func(bool)
	next int
}

func newStubHost(enabled, active bool) *stubHost {
	h := &stubHost{source: &stubSource{}, subs: make(map[int]func(bool))}
	h.enabled.Store(enabled)
	h.source.active.Store(active)
	return h
}

func (h *stubHost) FilterEnabled() bool { return h.enabled.Load() }

func (h *stubHost) Parent() Source {
	if h.source == nil {
		return nil
	}
	return h.source
}

func (h *stubHost) SubscribeEnabled(fn func(bool)) func() {
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

func (h *stubHost) setEnabled(enabled bool) {
	h.enabled.Store(enabled)
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

func (h *stubHost) subscriberCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// recordingAlerter captures checks synchronously for direct tick tests.
type recordingAlerter struct {
	mu     sync.Mutex
	checks []Check
}

func (a *recordingAlerter) Alert(_ context.Context, check Check) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.checks = append(a.checks, check)
}

func (a *recordingAlerter) all() []Check {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]Check, len(a.checks))
	copy(out, a.checks)
	return out
}

func (a *recordingAlerter) count(check Check) int {
	n := 0
	for _, c := range a.all() {
		if c == check {
			n++
		}
	}
	return n
}

// channelAlerter signals checks for tests that run the real loop.
type channelAlerter struct {
	ch chan Check
}

func newChannelAlerter() *channelAlerter {
	return &channelAlerter{ch: make(chan Check, 64)}
}

func (a *channelAlerter) Alert(_ context.Context, check Check) {
	select {
	case a.ch <- check:
	default:
	}
}
