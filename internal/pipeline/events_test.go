package pipeline

import "testing"

func TestParseEvent(t *testing.T) {
	cases := []struct {
		line string
		want Event
	}{
		{"video 123456789", Event{Kind: EventVideo, Timestamp: 123456789}},
		{"audio 0", Event{Kind: EventAudio, Timestamp: 0}},
		{"  VIDEO   42  ", Event{Kind: EventVideo, Timestamp: 42}},
		{"active 1", Event{Kind: EventActive, Flag: true}},
		{"active false", Event{Kind: EventActive, Flag: false}},
		{"enabled 0", Event{Kind: EventEnabled, Flag: false}},
		{"enabled true", Event{Kind: EventEnabled, Flag: true}},
	}
	for _, tc := range cases {
		got, err := ParseEvent(tc.line)
		if err != nil {
			t.Fatalf("ParseEvent(%q): %v", tc.line, err)
		}
		if got != tc.want {
			t.Fatalf("ParseEvent(%q) = %+v, want %+v", tc.line, got, tc.want)
		}
	}
}

func TestParseEventRejectsMalformedLines(t *testing.T) {
	for _, line := range []string{
		"",
		"video",
		"video 1 2",
		"video -5",
		"video later",
		"active maybe",
		"frame 99",
	} {
		if _, err := ParseEvent(line); err == nil {
			t.Fatalf("expected error for %q", line)
		}
	}
}
