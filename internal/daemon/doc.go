// Package daemon coordinates the long-running capturewatch process.
//
// It wires the pipeline host, the watchdog filter, and the alert service
// into a single lifecycle with flock-based locking to prevent multiple
// instances. The daemon owns the pipeline event stream, the optional udev
// device monitor, and the status snapshot served over IPC.
//
// Keep orchestration logic here: the staleness state machine lives in the
// watchdog package and the daemon focuses on startup, shutdown, and wiring.
package daemon
