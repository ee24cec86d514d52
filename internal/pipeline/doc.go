// Package pipeline adapts an external capture pipeline to the watchdog's
// host interfaces.
//
// The daemon cannot live inside the media application, so the application
// (or a thin exporter next to it) emits a line-oriented event stream:
// "video <timestamp>", "audio <timestamp>", "active <0|1>", and
// "enabled <0|1>". A Feed parses that stream and drives the filter's data
// path, while Host tracks the enabled/active flags and fans the enable
// signal out to subscribers. The stream itself comes from a spawned source
// command's stdout or from a FIFO path.
//
// Host starts with both flags set, so a bare stream of timestamps monitors
// an always-on pipeline without any state events.
package pipeline
