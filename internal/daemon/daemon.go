package daemon

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"

	"capturewatch/internal/alert"
	"capturewatch/internal/config"
	"capturewatch/internal/logging"
	"capturewatch/internal/pipeline"
	"capturewatch/internal/watchdog"
)

// Daemon binds the pipeline host, watchdog filter, and alert service into
// one lifecycle and enforces single-instance execution.
type Daemon struct {
	cfg    *config.Config
	logger *slog.Logger

	host   *pipeline.Host
	filter *watchdog.Filter
	alerts *alert.Service
	devmon *deviceMonitor

	lockPath string
	lock     *flock.Flock

	lifeMu  sync.Mutex
	running atomic.Bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	streamMu sync.Mutex
	stream   io.ReadCloser
}

// Status represents daemon runtime information.
type Status struct {
	Running        bool
	MonitorRunning bool
	FilterEnabled  bool
	SourceActive   bool
	DeviceMonitor  bool
	Snapshot       watchdog.FrameSnapshot
	Settings       watchdog.Settings
	LockPath       string
}

// New constructs a daemon with initialized collaborators.
func New(cfg *config.Config, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil {
		return nil, errors.New("daemon requires config")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	host := pipeline.NewHost()
	alerts := alert.NewService(cfg, logger)
	filter := watchdog.New(host, alerts, SettingsFromConfig(cfg), logger)

	lockPath := cfg.LockPath()
	return &Daemon{
		cfg:      cfg,
		logger:   logger,
		host:     host,
		filter:   filter,
		alerts:   alerts,
		devmon:   newDeviceMonitor(cfg, logger, host),
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}, nil
}

// SettingsFromConfig converts the watchdog config section into filter
// settings.
func SettingsFromConfig(cfg *config.Config) watchdog.Settings {
	return watchdog.Settings{
		VideoTimestampCheck: cfg.Watchdog.VideoTimestampCheck,
		AudioTimestampCheck: cfg.Watchdog.AudioTimestampCheck,
		SourceActivityCheck: cfg.Watchdog.SourceActivityCheck,
		InactivityGrace:     time.Duration(cfg.Watchdog.InactivityGraceSeconds) * time.Second,
	}
}

// Start acquires the daemon lock, attaches to the pipeline event stream,
// and starts the device monitor. A daemon without a configured event source
// still starts: it serves status and test alerts and waits for a reload.
func (d *Daemon) Start(ctx context.Context) error {
	d.lifeMu.Lock()
	defer d.lifeMu.Unlock()

	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another capturewatch daemon instance is already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	if err := d.attachStream(runCtx); err != nil {
		cancel()
		_ = d.lock.Unlock()
		return err
	}

	if d.devmon != nil {
		d.devmon.Start(runCtx)
	}

	d.running.Store(true)
	d.logger.Info("capturewatch daemon started", logging.String("lock", d.lockPath))
	return nil
}

func (d *Daemon) attachStream(ctx context.Context) error {
	stream, err := pipeline.OpenStream(d.cfg)
	if errors.Is(err, pipeline.ErrNoEventSource) {
		d.logger.Warn("no pipeline event source configured",
			logging.String(logging.FieldEventType, "event_source_missing"),
			logging.String(logging.FieldErrorHint, "set pipeline.source_command or pipeline.event_fifo"),
			logging.String(logging.FieldImpact, "nothing is being monitored"),
		)
		return nil
	}
	if err != nil {
		return fmt.Errorf("open event stream: %w", err)
	}

	d.streamMu.Lock()
	d.stream = stream
	d.streamMu.Unlock()

	feed := pipeline.NewFeed(d.host, d.filter, d.logger)
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		err := feed.Run(ctx, stream)
		if err != nil && !errors.Is(err, context.Canceled) {
			d.logger.Warn("pipeline event stream ended",
				logging.Error(err),
				logging.String(logging.FieldEventType, "event_stream_ended"),
				logging.String(logging.FieldErrorHint, "restart the daemon or check the source command"),
				logging.String(logging.FieldImpact, "monitoring stops receiving new observations"),
			)
			return
		}
		d.logger.Info("pipeline event stream closed")
	}()
	return nil
}

// Stop halts monitoring and releases the daemon lock. It returns only after
// every background goroutine has exited.
func (d *Daemon) Stop() {
	d.lifeMu.Lock()
	defer d.lifeMu.Unlock()

	if !d.running.Load() {
		return
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}

	d.streamMu.Lock()
	if d.stream != nil {
		_ = d.stream.Close()
		d.stream = nil
	}
	d.streamMu.Unlock()

	d.wg.Wait()
	if d.devmon != nil {
		d.devmon.Stop()
	}
	d.filter.Stop()

	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.running.Store(false)
	d.logger.Info("capturewatch daemon stopped")
}

// Close stops the daemon and detaches the filter from the host.
func (d *Daemon) Close() {
	d.Stop()
	d.filter.Close()
}

// Running reports whether the daemon has been started.
func (d *Daemon) Running() bool {
	return d.running.Load()
}

// Status returns a point-in-time view of the daemon and its filter.
func (d *Daemon) Status() Status {
	return Status{
		Running:        d.running.Load(),
		MonitorRunning: d.filter.Running(),
		FilterEnabled:  d.host.FilterEnabled(),
		SourceActive:   d.host.Active(),
		DeviceMonitor:  d.devmon.RunningState(),
		Snapshot:       d.filter.Snapshot(),
		Settings:       d.filter.Settings(),
		LockPath:       d.lockPath,
	}
}

// LogPath returns the daemon's mirrored log file, or empty when no log
// directory is configured.
func (d *Daemon) LogPath() string {
	if d.cfg.Paths.LogDir == "" {
		return ""
	}
	return filepath.Join(d.cfg.Paths.LogDir, "capturewatch.log")
}

// TestAlert plays the alert sound synchronously.
func (d *Daemon) TestAlert(ctx context.Context) error {
	return d.alerts.Test(ctx)
}

// ApplySettings applies new watchdog settings to the live filter. They take
// effect on the monitor's next tick.
func (d *Daemon) ApplySettings(settings watchdog.Settings) {
	d.filter.UpdateSettings(settings)
	d.logger.Info("watchdog settings applied",
		logging.Bool("video_timestamp_check", settings.VideoTimestampCheck),
		logging.Bool("audio_timestamp_check", settings.AudioTimestampCheck),
		logging.Bool("source_activity_check", settings.SourceActivityCheck),
		logging.Duration("inactivity_grace", settings.InactivityGrace),
	)
}
