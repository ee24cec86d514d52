package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateWatchdog(); err != nil {
		return err
	}
	if err := c.validatePipeline(); err != nil {
		return err
	}
	if err := c.validateAlert(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateWatchdog() error {
	grace := c.Watchdog.InactivityGraceSeconds
	if grace < 1 || grace > 3600 {
		return fmt.Errorf("watchdog.inactivity_grace_seconds must be between 1 and 3600, got %d", grace)
	}
	return nil
}

func (c *Config) validatePipeline() error {
	if c.Pipeline.SourceCommand != "" && c.Pipeline.EventFIFO != "" {
		return errors.New("pipeline.source_command and pipeline.event_fifo are mutually exclusive")
	}
	return nil
}

func (c *Config) validateAlert() error {
	if c.Alert.PlaybackTimeout < 1 {
		return errors.New("alert.playback_timeout must be at least 1 second")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
