package pipeline

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"capturewatch/internal/config"
)

// ErrNoEventSource reports a configuration without any event stream.
var ErrNoEventSource = errors.New("no pipeline event source configured")

// OpenStream opens the configured event stream: the stdout of the source
// command, or the event FIFO. Closing the returned reader terminates a
// spawned command.
func OpenStream(cfg *config.Config) (io.ReadCloser, error) {
	switch {
	case cfg.Pipeline.SourceCommand != "":
		return startCommandStream(cfg.Pipeline.SourceCommand)
	case cfg.Pipeline.EventFIFO != "":
		file, err := os.Open(cfg.Pipeline.EventFIFO)
		if err != nil {
			return nil, fmt.Errorf("open event fifo: %w", err)
		}
		return file, nil
	default:
		return nil, ErrNoEventSource
	}
}

// commandStream couples a spawned source command with its stdout pipe.
type commandStream struct {
	cmd    *exec.Cmd
	stdout io.ReadCloser
}

func startCommandStream(command string) (*commandStream, error) {
	parts := strings.Fields(command)
	cmd := exec.Command(parts[0], parts[1:]...) //nolint:gosec
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("source command stdout: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start source command: %w", err)
	}
	return &commandStream{cmd: cmd, stdout: stdout}, nil
}

func (s *commandStream) Read(p []byte) (int, error) {
	return s.stdout.Read(p)
}

// Close kills the source command and reaps it.
func (s *commandStream) Close() error {
	_ = s.stdout.Close()
	if s.cmd.Process != nil {
		_ = s.cmd.Process.Kill()
	}
	return s.cmd.Wait()
}
