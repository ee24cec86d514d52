package daemon_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"capturewatch/internal/config"
	"capturewatch/internal/daemon"
	"capturewatch/internal/logging"
	"capturewatch/internal/watchdog"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Alert.SoundFile = filepath.Join(base, "alert.wav")
	cfg.Pipeline.DeviceMonitor = false
	if err := os.MkdirAll(cfg.Paths.LogDir, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	return &cfg
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestDaemonStartStop(t *testing.T) {
	cfg := testConfig(t)
	d, err := daemon.New(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	t.Cleanup(d.Close)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := d.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if !d.Status().Running {
		t.Fatal("expected daemon to report running")
	}

	// Second start should fail
	if err := d.Start(ctx); err == nil {
		t.Fatal("expected second start to fail")
	}

	d.Stop()
	if d.Status().Running {
		t.Fatal("expected daemon to be stopped")
	}
}

func TestDaemonRejectsSecondInstance(t *testing.T) {
	cfg := testConfig(t)
	first, err := daemon.New(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	t.Cleanup(first.Close)

	ctx := context.Background()
	if err := first.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	second, err := daemon.New(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	t.Cleanup(second.Close)

	if err := second.Start(ctx); err == nil {
		t.Fatal("expected second instance to fail on the lock")
	}

	first.Stop()
	if err := second.Start(ctx); err != nil {
		t.Fatalf("expected lock to be free after stop, got %v", err)
	}
	second.Stop()
}

func TestDaemonFeedsEventsFromFile(t *testing.T) {
	cfg := testConfig(t)
	events := filepath.Join(t.TempDir(), "events")
	payload := "video 100\nvideo 200\naudio 50\nactive 1\n"
	if err := os.WriteFile(events, []byte(payload), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	cfg.Pipeline.EventFIFO = events

	d, err := daemon.New(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	t.Cleanup(d.Close)

	if err := d.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	waitFor(t, func() bool {
		snap := d.Status().Snapshot
		return snap.HasVideo && snap.VideoTimestamp == 200 && snap.HasAudio
	})

	status := d.Status()
	if !status.MonitorRunning {
		t.Fatal("expected monitor to start on observed frames")
	}
	if status.Snapshot.AudioTimestamp != 50 {
		t.Fatalf("unexpected audio timestamp %d", status.Snapshot.AudioTimestamp)
	}

	d.Stop()
	if snap := d.Status().Snapshot; snap.HasVideo {
		t.Fatal("expected video observation cleared after stop")
	}
}

func TestDaemonStartsWithoutEventSource(t *testing.T) {
	cfg := testConfig(t)
	d, err := daemon.New(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	t.Cleanup(d.Close)

	if err := d.Start(context.Background()); err != nil {
		t.Fatalf("expected start without event source to succeed, got %v", err)
	}

	status := d.Status()
	if status.MonitorRunning {
		t.Fatal("monitor should stay idle without observations")
	}
	d.Stop()
}

func TestStopSafeUnderConcurrentCallers(t *testing.T) {
	cfg := testConfig(t)
	d, err := daemon.New(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	t.Cleanup(d.Close)

	if err := d.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d.Stop()
		}()
	}
	wg.Wait()

	if d.Running() {
		t.Fatal("expected daemon stopped")
	}
}

func TestApplySettingsVisibleInStatus(t *testing.T) {
	cfg := testConfig(t)
	d, err := daemon.New(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	t.Cleanup(d.Close)

	updated := watchdog.Settings{
		VideoTimestampCheck: false,
		AudioTimestampCheck: true,
		SourceActivityCheck: false,
		InactivityGrace:     11 * time.Second,
	}
	d.ApplySettings(updated)

	got := d.Status().Settings
	if got != updated {
		t.Fatalf("settings not applied: got %+v", got)
	}
}

func TestSettingsFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Watchdog.AudioTimestampCheck = false
	cfg.Watchdog.InactivityGraceSeconds = 30

	settings := daemon.SettingsFromConfig(&cfg)
	if !settings.VideoTimestampCheck {
		t.Error("expected video check enabled")
	}
	if settings.AudioTimestampCheck {
		t.Error("expected audio check disabled")
	}
	if settings.InactivityGrace != 30*time.Second {
		t.Errorf("unexpected grace %v", settings.InactivityGrace)
	}
}
