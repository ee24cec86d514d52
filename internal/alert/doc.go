// Package alert plays the watchdog alert sound through an external player.
//
// The service picks a player binary from configuration or probes the usual
// suspects (paplay, aplay, afplay, ffplay) and degrades to a logged no-op
// when none is available, so the watchdog keeps running on machines without
// sound support. Playback is fire-and-forget with a bounded runtime and a
// single play in flight at a time.
package alert
