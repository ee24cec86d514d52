package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeAlert(); err != nil {
		return err
	}
	c.normalizePipeline()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeAlert() error {
	var err error
	if strings.TrimSpace(c.Alert.SoundFile) == "" {
		c.Alert.SoundFile = defaultSoundFile
	}
	if c.Alert.SoundFile, err = expandPath(c.Alert.SoundFile); err != nil {
		return fmt.Errorf("alert.sound_file: %w", err)
	}
	c.Alert.PlayerCommand = strings.TrimSpace(c.Alert.PlayerCommand)
	if c.Alert.PlaybackTimeout <= 0 {
		c.Alert.PlaybackTimeout = defaultPlaybackTimeout
	}
	return nil
}

func (c *Config) normalizePipeline() {
	c.Pipeline.SourceCommand = strings.TrimSpace(c.Pipeline.SourceCommand)
	c.Pipeline.EventFIFO = strings.TrimSpace(c.Pipeline.EventFIFO)
	c.Pipeline.Device = strings.TrimSpace(c.Pipeline.Device)
}

func (c *Config) normalizeLogging() {
	format := strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if format == "" {
		format = defaultLogFormat
	}
	c.Logging.Format = format

	level := strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if level == "" {
		level = defaultLogLevel
	}
	c.Logging.Level = level
}
