package ipc

// StartRequest triggers daemon monitoring startup.
type StartRequest struct{}

// StartResponse indicates whether the daemon was started.
type StartResponse struct {
	Started bool   `json:"started"`
	Message string `json:"message"`
}

// StopRequest stops daemon monitoring.
type StopRequest struct{}

// StopResponse indicates stop result.
type StopResponse struct {
	Stopped bool `json:"stopped"`
}

// StatusRequest fetches daemon status.
type StatusRequest struct{}

// StatusResponse represents combined daemon and watchdog status information.
type StatusResponse struct {
	Running        bool             `json:"running"`
	MonitorRunning bool             `json:"monitor_running"`
	FilterEnabled  bool             `json:"filter_enabled"`
	SourceActive   bool             `json:"source_active"`
	DeviceMonitor  bool             `json:"device_monitor"`
	HasVideo       bool             `json:"has_video"`
	VideoTimestamp uint64           `json:"video_timestamp"`
	HasAudio       bool             `json:"has_audio"`
	AudioTimestamp uint64           `json:"audio_timestamp"`
	Settings       WatchdogSettings `json:"settings"`
	LockPath       string           `json:"lock_path"`
	PID            int              `json:"pid"`
}

// WatchdogSettings is the wire representation of the filter's live settings.
type WatchdogSettings struct {
	VideoTimestampCheck    bool `json:"video_timestamp_check"`
	AudioTimestampCheck    bool `json:"audio_timestamp_check"`
	SourceActivityCheck    bool `json:"source_activity_check"`
	InactivityGraceSeconds int  `json:"inactivity_grace_seconds"`
}

// TestAlertRequest asks the daemon to play the alert sound.
type TestAlertRequest struct{}

// TestAlertResponse indicates whether the alert sound played.
type TestAlertResponse struct {
	Played  bool   `json:"played"`
	Message string `json:"message"`
}

// SettingsRequest fetches the filter's current settings.
type SettingsRequest struct{}

// SettingsResponse carries the filter's current settings.
type SettingsResponse struct {
	Settings WatchdogSettings `json:"settings"`
}

// ApplySettingsRequest replaces the filter's live settings. They take effect
// on the monitor's next tick.
type ApplySettingsRequest struct {
	Settings WatchdogSettings `json:"settings"`
}

// ApplySettingsResponse indicates settings were applied.
type ApplySettingsResponse struct {
	Applied bool `json:"applied"`
}

// LogTailRequest reads lines from the daemon's log file. A negative Offset
// requests the last Limit lines.
type LogTailRequest struct {
	Offset     int64 `json:"offset"`
	Limit      int   `json:"limit"`
	Follow     bool  `json:"follow"`
	WaitMillis int64 `json:"wait_millis"`
}

// LogTailResponse carries log lines and the offset to resume from.
type LogTailResponse struct {
	Lines  []string `json:"lines"`
	Offset int64    `json:"offset"`
}
