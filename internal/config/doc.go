// Package config loads, normalizes, and validates capturewatch configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads the TOML file that controls the watchdog checks, the
// pipeline event source, and alert playback. The Config type centralizes every
// knob the daemon and CLI need.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, bounded check intervals, and clear validation errors.
package config
