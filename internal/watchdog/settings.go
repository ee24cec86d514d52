package watchdog

import "time"

// Settings selects which checks the monitor loop runs. Values are read once
// per tick, so an update takes effect on the tick after it is applied.
type Settings struct {
	VideoTimestampCheck bool
	AudioTimestampCheck bool
	SourceActivityCheck bool
	// InactivityGrace is how long a source may stay inactive, measured in
	// video-timestamp time, before the activity check trips.
	InactivityGrace time.Duration
}

// DefaultSettings mirrors the filter's registered defaults: every check
// enabled with a five second grace period.
func DefaultSettings() Settings {
	return Settings{
		VideoTimestampCheck: true,
		AudioTimestampCheck: true,
		SourceActivityCheck: true,
		InactivityGrace:     5 * time.Second,
	}
}
