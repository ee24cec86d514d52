package watchdog

import "sync/atomic"

// FrameSnapshot is the most recent media observation from the pipeline.
// The Has flags distinguish "never seen" from a real timestamp of zero; a
// side that has not been observed short-circuits its check for the tick.
type FrameSnapshot struct {
	VideoTimestamp uint64
	HasVideo       bool
	AudioTimestamp uint64
	HasAudio       bool
}

// snapshotHolder publishes immutable FrameSnapshot values. The data path
// writes through copy-on-swap so the monitor loop never observes a torn
// timestamp pair.
type snapshotHolder struct {
	current atomic.Pointer[FrameSnapshot]
}

func (h *snapshotHolder) load() FrameSnapshot {
	if snap := h.current.Load(); snap != nil {
		return *snap
	}
	return FrameSnapshot{}
}

func (h *snapshotHolder) observeVideo(ts uint64) {
	for {
		old := h.current.Load()
		next := &FrameSnapshot{VideoTimestamp: ts, HasVideo: true}
		if old != nil {
			next.AudioTimestamp = old.AudioTimestamp
			next.HasAudio = old.HasAudio
		}
		if h.current.CompareAndSwap(old, next) {
			return
		}
	}
}

func (h *snapshotHolder) observeAudio(ts uint64) {
	for {
		old := h.current.Load()
		next := &FrameSnapshot{AudioTimestamp: ts, HasAudio: true}
		if old != nil {
			next.VideoTimestamp = old.VideoTimestamp
			next.HasVideo = old.HasVideo
		}
		if h.current.CompareAndSwap(old, next) {
			return
		}
	}
}

// clearVideo drops the video side so a restarted loop begins quiescent
// instead of comparing against a stale timestamp.
func (h *snapshotHolder) clearVideo() {
	for {
		old := h.current.Load()
		if old == nil || !old.HasVideo {
			return
		}
		next := &FrameSnapshot{AudioTimestamp: old.AudioTimestamp, HasAudio: old.HasAudio}
		if h.current.CompareAndSwap(old, next) {
			return
		}
	}
}
