// Package watchdog implements the capture staleness monitor at the heart of
// capturewatch.
//
// A Filter attaches to one capture pipeline. The pipeline's data path feeds
// it video and audio timestamps; a background loop samples those observations
// once per second and raises an alert when a timestamp stops advancing or the
// owning source stays inactive beyond a configured grace period. The loop is
// started and stopped by host lifecycle signals and always joins fully on
// stop, so teardown never races a live tick.
//
// The package depends on its host only through the small Host, Source, and
// Alerter interfaces, keeping the state machine testable without any real
// media pipeline.
package watchdog
