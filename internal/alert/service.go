package alert

import (
	"context"
	"errors"
	"log/slog"
	"os/exec"
	"strings"
	"sync/atomic"
	"time"

	"capturewatch/internal/config"
	"capturewatch/internal/logging"
	"capturewatch/internal/watchdog"
)

// commandRunner abstracts process execution so tests can stub playback.
type commandRunner interface {
	Run(ctx context.Context, name string, args ...string) error
}

type execCommandRunner struct{}

func (execCommandRunner) Run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	return cmd.Run()
}

// playerCandidates are probed in order when no player is configured.
var playerCandidates = []string{"paplay", "aplay", "afplay", "ffplay"}

// Service implements watchdog.Alerter by playing a sound file.
type Service struct {
	logger    *slog.Logger
	runner    commandRunner
	player    string
	soundFile string
	timeout   time.Duration

	lookPath func(string) (string, error)

	// playing keeps at most one playback in flight; overlapping alerts
	// collapse into the run already underway.
	playing atomic.Bool
}

// NewService builds an alert service from configuration. When no player
// binary can be resolved the service degrades to a logged no-op.
func NewService(cfg *config.Config, logger *slog.Logger) *Service {
	s := &Service{
		logger:   logging.NewComponentLogger(logger, "alert"),
		runner:   execCommandRunner{},
		lookPath: exec.LookPath,
	}
	if cfg == nil {
		return s
	}

	s.soundFile = cfg.Alert.SoundFile
	s.timeout = time.Duration(cfg.Alert.PlaybackTimeout) * time.Second
	s.player = s.resolvePlayer(cfg.Alert.PlayerCommand)
	if s.player == "" {
		s.logger.Warn("no sound player found; alerts will only be logged",
			logging.String(logging.FieldEventType, "alert_player_missing"),
			logging.String(logging.FieldErrorHint, "install paplay/aplay or set alert.player_command"),
			logging.String(logging.FieldImpact, "alert sounds will not play"),
		)
	}
	return s
}

func (s *Service) resolvePlayer(configured string) string {
	if configured != "" {
		return configured
	}
	for _, candidate := range playerCandidates {
		if _, err := s.lookPath(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

// Alert plays the alert sound for a tripped check. It never blocks the
// caller: playback runs on its own goroutine with a bounded runtime.
func (s *Service) Alert(ctx context.Context, check watchdog.Check) {
	if s.player == "" {
		return
	}
	if !s.playing.CompareAndSwap(false, true) {
		return
	}

	go func() {
		defer s.playing.Store(false)
		if err := s.play(ctx); err != nil && !errors.Is(err, context.Canceled) {
			s.logger.Warn("alert playback failed",
				logging.Error(err),
				logging.String(logging.FieldCheck, string(check)),
				logging.String(logging.FieldEventType, "alert_playback_failed"),
				logging.String(logging.FieldErrorHint, "verify alert.sound_file exists and the player can open it"),
			)
		}
	}()
}

// Test plays the alert sound synchronously. Used by the settings surface's
// test trigger.
func (s *Service) Test(ctx context.Context) error {
	if s.player == "" {
		return errors.New("no sound player available")
	}
	return s.play(ctx)
}

func (s *Service) play(ctx context.Context) error {
	playCtx := ctx
	var cancel context.CancelFunc
	if s.timeout > 0 {
		playCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	args := s.playerArgs()
	return s.runner.Run(playCtx, s.player, args...)
}

// playerArgs builds the player invocation. ffplay needs flags to exit after
// playback instead of opening a window.
func (s *Service) playerArgs() []string {
	base := s.player
	if idx := strings.LastIndex(base, "/"); idx >= 0 {
		base = base[idx+1:]
	}
	if base == "ffplay" {
		return []string{"-nodisp", "-autoexit", "-loglevel", "quiet", s.soundFile}
	}
	return []string{s.soundFile}
}
