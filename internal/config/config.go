package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	LogDir string `toml:"log_dir"`
}

// Watchdog contains the staleness and visibility check settings applied to
// the monitored filter.
type Watchdog struct {
	VideoTimestampCheck    bool `toml:"video_timestamp_check"`
	AudioTimestampCheck    bool `toml:"audio_timestamp_check"`
	SourceActivityCheck    bool `toml:"source_activity_check"`
	InactivityGraceSeconds int  `toml:"inactivity_grace_seconds"`
}

// Pipeline contains configuration for attaching to the capture pipeline's
// event stream.
type Pipeline struct {
	// SourceCommand is executed by the daemon; its stdout is read as a
	// watchdog event stream (one event per line).
	SourceCommand string `toml:"source_command"`
	// EventFIFO is an alternative to SourceCommand: a FIFO or file path the
	// daemon reads events from.
	EventFIFO string `toml:"event_fifo"`
	// Device is the capture device node watched for hotplug events
	// (e.g. /dev/video0). Empty disables the device monitor.
	Device string `toml:"device"`
	// DeviceMonitor toggles the udev netlink hotplug monitor.
	DeviceMonitor bool `toml:"device_monitor"`
}

// Alert contains configuration for alert sound playback.
type Alert struct {
	// SoundFile is the audio file played when a check trips.
	SoundFile string `toml:"sound_file"`
	// PlayerCommand overrides the auto-detected sound player binary.
	PlayerCommand string `toml:"player_command"`
	// PlaybackTimeout bounds a single playback invocation, in seconds.
	PlaybackTimeout int `toml:"playback_timeout"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for capturewatch.
//
// Configuration sections by subsystem:
//   - Paths: log directory (also holds the daemon lock, pid file, and socket)
//   - Watchdog: which checks run and the inactivity grace period
//   - Pipeline: where frame/audio/visibility events come from
//   - Alert: sound file and player used for alert playback
//   - Logging: log format and level
type Config struct {
	Paths    Paths    `toml:"paths"`
	Watchdog Watchdog `toml:"watchdog"`
	Pipeline Pipeline `toml:"pipeline"`
	Alert    Alert    `toml:"alert"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/capturewatch/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized. The second return value
// is the resolved path, the third reports whether the file existed.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	return defaultPath, false, nil
}

// EnsureDirectories creates directories required at runtime.
func (c *Config) EnsureDirectories() error {
	if err := os.MkdirAll(c.Paths.LogDir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", c.Paths.LogDir, err)
	}
	return nil
}

// LockPath returns the daemon lock file location.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.LogDir, "capturewatchd.lock")
}

// SocketPath returns the daemon IPC socket location.
func (c *Config) SocketPath() string {
	return filepath.Join(c.Paths.LogDir, "capturewatch.sock")
}

// PIDPath returns the daemon pid file location.
func (c *Config) PIDPath() string {
	return filepath.Join(c.Paths.LogDir, "capturewatch.pid")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	expanded, err := expandPath(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if _, err := os.Stat(expanded); err == nil {
		return fmt.Errorf("config file already exists at %s", expanded)
	}
	if err := os.WriteFile(expanded, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
