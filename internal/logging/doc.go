// Package logging assembles structured slog loggers used across capturewatch.
//
// It owns the console/JSON handler plumbing, centralizes level and output
// configuration, and exposes attribute helpers plus standardized field names
// so every component emits log lines with the same shape. The package also
// provides a no-op logger for tests and wiring code that cannot fail.
//
// Prefer these constructors over hand-rolled slog setup.
package logging
