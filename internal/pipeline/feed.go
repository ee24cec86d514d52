package pipeline

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"strings"

	"capturewatch/internal/logging"
	"capturewatch/internal/watchdog"
)

// Feed pumps a parsed event stream into the host and the filter data path.
type Feed struct {
	host   *Host
	filter *watchdog.Filter
	logger *slog.Logger
}

// NewFeed wires a feed to its host and filter.
func NewFeed(host *Host, filter *watchdog.Filter, logger *slog.Logger) *Feed {
	return &Feed{
		host:   host,
		filter: filter,
		logger: logging.NewComponentLogger(logger, "pipeline-feed"),
	}
}

// Run consumes the stream until EOF, read failure, or context cancellation.
// Malformed lines are skipped; blank lines and #-comments are ignored.
// Cancellation is observed between lines, so callers that need a prompt exit
// should also close the underlying reader.
func (f *Feed) Run(ctx context.Context, r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		event, err := ParseEvent(line)
		if err != nil {
			f.logger.Debug("skipping event line", logging.Error(err))
			continue
		}
		f.apply(event)
	}
	return scanner.Err()
}

func (f *Feed) apply(event Event) {
	switch event.Kind {
	case EventVideo:
		f.filter.ObserveVideo(event.Timestamp)
	case EventAudio:
		f.filter.ObserveAudio(event.Timestamp)
	case EventActive:
		f.host.SetActive(event.Flag)
	case EventEnabled:
		f.host.SetEnabled(event.Flag)
	}
}
