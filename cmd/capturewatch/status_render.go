package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"

	"capturewatch/internal/ipc"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
)

const (
	ansiReset  = "\x1b[0m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
)

const (
	statusLabelWidth = 20
	statusIndent     = "  "
)

func renderStatus(stdout io.Writer, resp *ipc.StatusResponse) {
	colorize := shouldColorize(stdout)

	for _, line := range renderSectionHeader("Daemon", colorize) {
		fmt.Fprintln(stdout, line)
	}
	fmt.Fprintln(stdout, renderStatusLine("Running", boolKind(resp.Running), yesNo(resp.Running), colorize))
	fmt.Fprintln(stdout, renderStatusLine("Monitor", boolKind(resp.MonitorRunning), yesNo(resp.MonitorRunning), colorize))
	fmt.Fprintln(stdout, renderStatusLine("Filter enabled", boolKind(resp.FilterEnabled), yesNo(resp.FilterEnabled), colorize))
	fmt.Fprintln(stdout, renderStatusLine("Source active", boolKind(resp.SourceActive), yesNo(resp.SourceActive), colorize))
	fmt.Fprintln(stdout, renderStatusLine("Device monitor", statusInfo, yesNo(resp.DeviceMonitor), colorize))
	fmt.Fprintln(stdout, renderStatusLine("PID", statusInfo, fmt.Sprintf("%d", resp.PID), colorize))
	fmt.Fprintln(stdout)

	for _, line := range renderSectionHeader("Observations", colorize) {
		fmt.Fprintln(stdout, line)
	}
	fmt.Fprintln(stdout, renderStatusLine("Video", statusInfo, timestampDetail(resp.HasVideo, resp.VideoTimestamp), colorize))
	fmt.Fprintln(stdout, renderStatusLine("Audio", statusInfo, timestampDetail(resp.HasAudio, resp.AudioTimestamp), colorize))
	fmt.Fprintln(stdout)

	for _, line := range renderSectionHeader("Watchdog Settings", colorize) {
		fmt.Fprintln(stdout, line)
	}
	fmt.Fprintln(stdout, renderSettingsTable(resp.Settings))
}

// renderSettingsTable draws the fixed Setting/Value table used by both the
// status and settings views, values right-aligned.
func renderSettingsTable(settings ipc.WatchdogSettings) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Setting", "Value"})
	for _, row := range settingsRows(settings) {
		tw.AppendRow(table.Row{row[0], row[1]})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
	})
	return tw.Render()
}

func settingsRows(settings ipc.WatchdogSettings) [][]string {
	return [][]string{
		{"Video timestamp check", yesNo(settings.VideoTimestampCheck)},
		{"Audio timestamp check", yesNo(settings.AudioTimestampCheck)},
		{"Source activity check", yesNo(settings.SourceActivityCheck)},
		{"Inactivity grace", (time.Duration(settings.InactivityGraceSeconds) * time.Second).String()},
	}
}

func timestampDetail(observed bool, ts uint64) string {
	if !observed {
		return "no frames observed"
	}
	return fmt.Sprintf("%d ns", ts)
}

func boolKind(value bool) statusKind {
	if value {
		return statusOK
	}
	return statusWarn
}

func renderStatusLine(label string, kind statusKind, message string, colorize bool) string {
	statusText := statusKindLabel(kind)
	if message != "" {
		statusText = fmt.Sprintf("[%s] %s", statusText, message)
	} else {
		statusText = fmt.Sprintf("[%s]", statusText)
	}
	base := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, label+":", statusText)
	if colorize {
		if color := statusKindColor(kind); color != "" {
			return color + base + ansiReset
		}
	}
	return base
}

func statusKindLabel(kind statusKind) string {
	switch kind {
	case statusOK:
		return "OK"
	case statusWarn:
		return "WARN"
	default:
		return "INFO"
	}
}

func statusKindColor(kind statusKind) string {
	switch kind {
	case statusOK:
		return ansiGreen
	case statusWarn:
		return ansiYellow
	case statusInfo:
		return ansiBlue
	default:
		return ""
	}
}

func renderSectionHeader(title string, colorize bool) []string {
	line := fmt.Sprintf("== %s ==", strings.TrimSpace(title))
	rule := strings.Repeat("-", len(line))
	if colorize {
		line = ansiBlue + line + ansiReset
		rule = ansiBlue + rule + ansiReset
	}
	return []string{line, rule}
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
