package config

const (
	defaultLogDir                 = "~/.local/share/capturewatch/logs"
	defaultInactivityGraceSeconds = 5
	defaultSoundFile              = "~/.local/share/capturewatch/alert.wav"
	defaultPlaybackTimeout        = 10
	defaultLogFormat              = "console"
	defaultLogLevel               = "info"
)

// Default returns a Config populated with repository defaults. The watchdog
// defaults mirror the filter's registered defaults: every check enabled and a
// five second inactivity grace period.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir: defaultLogDir,
		},
		Watchdog: Watchdog{
			VideoTimestampCheck:    true,
			AudioTimestampCheck:    true,
			SourceActivityCheck:    true,
			InactivityGraceSeconds: defaultInactivityGraceSeconds,
		},
		Pipeline: Pipeline{
			DeviceMonitor: true,
		},
		Alert: Alert{
			SoundFile:       defaultSoundFile,
			PlaybackTimeout: defaultPlaybackTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
