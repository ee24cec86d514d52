package main

import (
	"fmt"
	"strings"
	"testing"

	"capturewatch/internal/ipc"
)

func TestRenderStatusLineNoColor(t *testing.T) {
	got := renderStatusLine("Running", statusWarn, "no", false)
	want := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, "Running:", "[WARN] no")
	if got != want {
		t.Fatalf("renderStatusLine mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestRenderStatusLineWithColor(t *testing.T) {
	got := renderStatusLine("Running", statusOK, "yes", true)
	if !strings.HasPrefix(got, ansiGreen) {
		t.Fatalf("expected green prefix, got %q", got)
	}
	if !strings.HasSuffix(got, ansiReset) {
		t.Fatalf("expected reset suffix, got %q", got)
	}
}

func TestTimestampDetail(t *testing.T) {
	if got := timestampDetail(false, 0); got != "no frames observed" {
		t.Fatalf("unexpected detail %q", got)
	}
	if got := timestampDetail(true, 123456789); got != "123456789 ns" {
		t.Fatalf("unexpected detail %q", got)
	}
}

func TestSettingsRows(t *testing.T) {
	rows := settingsRows(ipc.WatchdogSettings{
		VideoTimestampCheck:    true,
		SourceActivityCheck:    true,
		InactivityGraceSeconds: 7,
	})
	if len(rows) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(rows))
	}
	if rows[1][1] != "no" {
		t.Fatalf("expected audio check row to read no, got %q", rows[1][1])
	}
	if rows[3][1] != "7s" {
		t.Fatalf("expected grace row 7s, got %q", rows[3][1])
	}
}

func TestRenderSettingsTable(t *testing.T) {
	out := renderSettingsTable(ipc.WatchdogSettings{
		VideoTimestampCheck:    true,
		InactivityGraceSeconds: 7,
	})
	if !strings.Contains(out, "Video timestamp check") {
		t.Fatalf("expected row content in table output:\n%s", out)
	}
	// StyleRounded uppercases the header row.
	if !strings.Contains(out, "SETTING") || !strings.Contains(out, "VALUE") {
		t.Fatalf("expected header in table output:\n%s", out)
	}
	if !strings.Contains(out, "7s") {
		t.Fatalf("expected grace duration in table output:\n%s", out)
	}
}
