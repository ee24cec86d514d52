package alert

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"capturewatch/internal/config"
	"capturewatch/internal/watchdog"
)

type stubRunner struct {
	mu    sync.Mutex
	calls [][]string
	block chan struct{}
	err   error
}

func (r *stubRunner) Run(ctx context.Context, name string, args ...string) error {
	r.mu.Lock()
	r.calls = append(r.calls, append([]string{name}, args...))
	block := r.block
	r.mu.Unlock()
	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return r.err
}

func (r *stubRunner) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

func testService(t *testing.T, runner commandRunner) *Service {
	t.Helper()
	cfg := config.Default()
	cfg.Alert.PlayerCommand = "testplayer"
	cfg.Alert.SoundFile = "/tmp/alert.wav"
	s := NewService(&cfg, nil)
	s.runner = runner
	return s
}

func TestAlertRunsPlayer(t *testing.T) {
	runner := &stubRunner{}
	s := testService(t, runner)

	s.Alert(context.Background(), watchdog.CheckVideoStale)

	deadline := time.Now().Add(2 * time.Second)
	for runner.callCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if runner.callCount() != 1 {
		t.Fatalf("expected one playback, got %d", runner.callCount())
	}
	runner.mu.Lock()
	call := runner.calls[0]
	runner.mu.Unlock()
	if call[0] != "testplayer" || call[1] != "/tmp/alert.wav" {
		t.Fatalf("unexpected invocation %v", call)
	}
}

func TestAlertCollapsesOverlappingPlays(t *testing.T) {
	runner := &stubRunner{block: make(chan struct{})}
	s := testService(t, runner)

	s.Alert(context.Background(), watchdog.CheckVideoStale)
	deadline := time.Now().Add(2 * time.Second)
	for runner.callCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}

	// While the first play is still running, further alerts are dropped.
	s.Alert(context.Background(), watchdog.CheckAudioStale)
	s.Alert(context.Background(), watchdog.CheckInactive)
	close(runner.block)

	deadline = time.Now().Add(2 * time.Second)
	for s.playing.Load() && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if runner.callCount() != 1 {
		t.Fatalf("expected overlapping alerts to collapse, got %d plays", runner.callCount())
	}
}

func TestAlertNoopWithoutPlayer(t *testing.T) {
	cfg := config.Default()
	s := NewService(&cfg, nil)
	s.lookPath = func(string) (string, error) { return "", errors.New("not found") }
	s.player = s.resolvePlayer("")

	// Must not panic or spawn anything.
	s.Alert(context.Background(), watchdog.CheckVideoStale)
	if err := s.Test(context.Background()); err == nil {
		t.Fatal("expected test playback to fail without a player")
	}
}

func TestTestPlaysSynchronously(t *testing.T) {
	runner := &stubRunner{}
	s := testService(t, runner)

	if err := s.Test(context.Background()); err != nil {
		t.Fatalf("Test: %v", err)
	}
	if runner.callCount() != 1 {
		t.Fatalf("expected one playback, got %d", runner.callCount())
	}
}

func TestTestPropagatesPlayerFailure(t *testing.T) {
	runner := &stubRunner{err: errors.New("boom")}
	s := testService(t, runner)

	if err := s.Test(context.Background()); err == nil {
		t.Fatal("expected playback error")
	}
}

func TestFFplayGetsExitFlags(t *testing.T) {
	runner := &stubRunner{}
	cfg := config.Default()
	cfg.Alert.PlayerCommand = "/usr/bin/ffplay"
	cfg.Alert.SoundFile = "/tmp/alert.wav"
	s := NewService(&cfg, nil)
	s.runner = runner

	if err := s.Test(context.Background()); err != nil {
		t.Fatalf("Test: %v", err)
	}
	runner.mu.Lock()
	call := runner.calls[0]
	runner.mu.Unlock()
	if call[1] != "-nodisp" || call[len(call)-1] != "/tmp/alert.wav" {
		t.Fatalf("unexpected ffplay invocation %v", call)
	}
}
