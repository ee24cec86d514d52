package watchdog

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"capturewatch/internal/logging"
)

// tickInterval is the fixed monitor sampling period.
const tickInterval = time.Second

// Filter watches one capture pipeline for stalled timestamps and prolonged
// source inactivity. Construct it with New and release it with Close.
type Filter struct {
	host    Host
	alerter Alerter
	logger  *slog.Logger

	interval time.Duration

	snapshot snapshotHolder
	settings atomic.Pointer[Settings]

	sourceMu sync.Mutex
	source   Source

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	unsubscribe func()
	closeOnce   sync.Once
}

// New attaches a filter to the host and subscribes to its enable signal.
// A nil logger downgrades to a no-op logger.
func New(host Host, alerter Alerter, settings Settings, logger *slog.Logger) *Filter {
	f := &Filter{
		host:     host,
		alerter:  alerter,
		logger:   logging.NewComponentLogger(logger, "watchdog"),
		interval: tickInterval,
	}
	f.settings.Store(&settings)
	f.unsubscribe = host.SubscribeEnabled(f.handleEnabled)
	return f
}

func (f *Filter) handleEnabled(enabled bool) {
	if enabled {
		f.Start()
	} else {
		f.Stop()
	}
}

// ObserveVideo records a video frame timestamp from the pipeline data path.
// The first observation resolves the owning source, and when the filter is
// enabled with an actively rendered source it lazily starts the monitor.
// Safe to call concurrently with the monitor loop.
func (f *Filter) ObserveVideo(ts uint64) {
	f.resolveSource()

	if !f.Running() && f.host.FilterEnabled() {
		if src := f.Source(); src != nil && src.Active() {
			f.Start()
		}
	}

	f.snapshot.observeVideo(ts)
}

// ObserveAudio records an audio buffer timestamp from the pipeline data path.
func (f *Filter) ObserveAudio(ts uint64) {
	f.snapshot.observeAudio(ts)
}

// resolveSource caches the parent source on first use. Idempotent.
func (f *Filter) resolveSource() {
	f.sourceMu.Lock()
	defer f.sourceMu.Unlock()
	if f.source == nil {
		f.source = f.host.Parent()
	}
}

// Source returns the cached owning source, or nil before resolution.
func (f *Filter) Source() Source {
	f.sourceMu.Lock()
	defer f.sourceMu.Unlock()
	return f.source
}

// Snapshot returns the most recent media observation.
func (f *Filter) Snapshot() FrameSnapshot {
	return f.snapshot.load()
}

// Settings returns the currently applied check settings.
func (f *Filter) Settings() Settings {
	return *f.settings.Load()
}

// UpdateSettings applies new check settings. They take effect on the next
// tick, never retroactively.
func (f *Filter) UpdateSettings(s Settings) {
	f.settings.Store(&s)
	f.logger.Debug("settings updated",
		logging.Bool("video_timestamp_check", s.VideoTimestampCheck),
		logging.Bool("audio_timestamp_check", s.AudioTimestampCheck),
		logging.Bool("source_activity_check", s.SourceActivityCheck),
		logging.Duration("inactivity_grace", s.InactivityGrace),
	)
}

// Running reports whether the monitor loop is active.
func (f *Filter) Running() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.running
}

// Start launches the monitor loop. It is a no-op when the loop is already
// running or the filter is disabled in the host.
func (f *Filter) Start() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.running || !f.host.FilterEnabled() {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	f.cancel = cancel
	f.running = true

	f.wg.Add(1)
	go f.loop(ctx)
	f.logger.Info("monitor started")
}

// Stop halts the monitor loop and returns only after the loop goroutine has
// fully exited. The cached video observation is cleared so a restart begins
// quiescent. Calling Stop when the loop is idle is a no-op.
func (f *Filter) Stop() {
	f.mu.Lock()
	if !f.running {
		f.mu.Unlock()
		return
	}
	cancel := f.cancel
	f.running = false
	f.cancel = nil
	f.mu.Unlock()

	cancel()
	f.wg.Wait()
	f.snapshot.clearVideo()
	f.logger.Info("monitor stopped")
}

// Close detaches the filter from the host. The enable subscription is
// released before the loop stops so no callback can fire into a filter that
// is tearing down. Close is idempotent.
func (f *Filter) Close() {
	f.closeOnce.Do(func() {
		if f.unsubscribe != nil {
			f.unsubscribe()
			f.unsubscribe = nil
		}
		f.Stop()
	})
}
