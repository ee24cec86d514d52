package watchdog

import "context"

// Check identifies which watchdog check tripped.
type Check string

const (
	// CheckVideoStale fires when the video timestamp stops advancing.
	CheckVideoStale Check = "video_timestamp"
	// CheckAudioStale fires when the audio timestamp stops advancing.
	CheckAudioStale Check = "audio_timestamp"
	// CheckInactive fires when the source stays inactive past the grace period.
	CheckInactive Check = "source_activity"
)

// Source is the host-side object a filter is attached to.
type Source interface {
	// Active reports whether the source is currently being rendered.
	Active() bool
}

// Host exposes the pipeline queries and signals the filter depends on.
type Host interface {
	// FilterEnabled reports whether the filter itself is enabled in the host.
	FilterEnabled() bool
	// Parent resolves the source owning the filter. May return nil until the
	// host has linked the filter into a pipeline.
	Parent() Source
	// SubscribeEnabled registers fn for enable/disable transitions of the
	// filter and returns the matching unsubscribe function.
	SubscribeEnabled(fn func(enabled bool)) (unsubscribe func())
}

// Alerter receives check violations. Implementations must not block the
// monitor loop; playback and delivery happen on the alerter's own time.
type Alerter interface {
	Alert(ctx context.Context, check Check)
}
