package watchdog

import (
	"context"
	"time"

	"capturewatch/internal/logging"
)

// history is the monitor loop's private view of the previous tick. A fresh
// value is created every time the loop starts, so a restarted monitor never
// compares against observations from before the stop.
type history struct {
	lastVideoTS uint64
	haveVideoTS bool
	lastAudioTS uint64
	haveAudioTS bool

	wasActive bool
	seeded    bool

	// inactiveSince is the video timestamp at the most recent transition to
	// inactive. Only meaningful while haveInactive is set.
	inactiveSince uint64
	haveInactive  bool
}

func (f *Filter) loop(ctx context.Context) {
	defer f.wg.Done()

	var hist history
	f.tick(ctx, &hist)

	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			f.tick(ctx, &hist)
		}
	}
}

// tick runs one round of the staleness and activity checks against the
// current snapshot and folds the sample into the history for the next round.
func (f *Filter) tick(ctx context.Context, hist *history) {
	snap := f.snapshot.load()
	if !snap.HasVideo {
		// No media yet; stay quiescent.
		return
	}

	settings := f.Settings()

	// A side only compares once it has a full tick of history, so a first
	// frame with timestamp zero never false-alarms.
	if settings.VideoTimestampCheck && hist.haveVideoTS && snap.VideoTimestamp == hist.lastVideoTS {
		f.fire(ctx, CheckVideoStale, logging.Uint64("video_timestamp", snap.VideoTimestamp))
	}

	if settings.AudioTimestampCheck && snap.HasAudio && hist.haveAudioTS && snap.AudioTimestamp == hist.lastAudioTS {
		f.fire(ctx, CheckAudioStale, logging.Uint64("audio_timestamp", snap.AudioTimestamp))
	}

	active := false
	if src := f.Source(); src != nil {
		active = src.Active()
	}

	switch {
	case active:
		hist.haveInactive = false
	case hist.wasActive || !hist.seeded:
		// Transition to inactive, or a stream that begins inactive, marks
		// the start of the inactivity window at the current video timestamp.
		hist.inactiveSince = snap.VideoTimestamp
		hist.haveInactive = true
	}

	if settings.SourceActivityCheck && !active && hist.haveInactive {
		inactiveFor := snap.VideoTimestamp - hist.inactiveSince
		if inactiveFor > uint64(settings.InactivityGrace.Nanoseconds()) {
			f.fire(ctx, CheckInactive,
				logging.Uint64("inactive_nanos", inactiveFor),
				logging.Duration("grace", settings.InactivityGrace),
			)
		}
	}

	hist.lastVideoTS = snap.VideoTimestamp
	hist.haveVideoTS = true
	if snap.HasAudio {
		hist.lastAudioTS = snap.AudioTimestamp
		hist.haveAudioTS = true
	}
	hist.wasActive = active
	hist.seeded = true
}

func (f *Filter) fire(ctx context.Context, check Check, attrs ...logging.Attr) {
	args := append([]logging.Attr{logging.String(logging.FieldCheck, string(check))}, attrs...)
	f.logger.Info("watchdog alert", logging.Args(args...)...)
	if f.alerter != nil {
		f.alerter.Alert(ctx, check)
	}
}
