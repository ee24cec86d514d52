package pipeline

import (
	"fmt"
	"strconv"
	"strings"
)

// EventKind enumerates the pipeline event stream vocabulary.
type EventKind string

const (
	EventVideo   EventKind = "video"
	EventAudio   EventKind = "audio"
	EventActive  EventKind = "active"
	EventEnabled EventKind = "enabled"
)

// Event is one parsed line of the pipeline event stream. Timestamp is set
// for video/audio events, Flag for active/enabled events.
type Event struct {
	Kind      EventKind
	Timestamp uint64
	Flag      bool
}

// ParseEvent parses a single event line. Lines are whitespace separated:
// an event keyword followed by exactly one value.
func ParseEvent(line string) (Event, error) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return Event{}, fmt.Errorf("malformed event line %q", line)
	}

	kind := EventKind(strings.ToLower(fields[0]))
	switch kind {
	case EventVideo, EventAudio:
		ts, err := strconv.ParseUint(fields[1], 10, 64)
		if err != nil {
			return Event{}, fmt.Errorf("%s timestamp %q: %w", kind, fields[1], err)
		}
		return Event{Kind: kind, Timestamp: ts}, nil
	case EventActive, EventEnabled:
		flag, err := strconv.ParseBool(fields[1])
		if err != nil {
			return Event{}, fmt.Errorf("%s flag %q: %w", kind, fields[1], err)
		}
		return Event{Kind: kind, Flag: flag}, nil
	default:
		return Event{}, fmt.Errorf("unknown event kind %q", fields[0])
	}
}
