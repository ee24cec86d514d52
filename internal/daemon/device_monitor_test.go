package daemon

import (
	"testing"

	"github.com/pilebones/go-udev/netlink"

	"capturewatch/internal/config"
	"capturewatch/internal/pipeline"
)

func TestNewDeviceMonitor(t *testing.T) {
	t.Run("nil config returns nil", func(t *testing.T) {
		if m := newDeviceMonitor(nil, nil, nil); m != nil {
			t.Error("expected nil monitor for nil config")
		}
	})

	t.Run("disabled monitor returns nil", func(t *testing.T) {
		cfg := config.Default()
		cfg.Pipeline.Device = "/dev/video0"
		cfg.Pipeline.DeviceMonitor = false
		if m := newDeviceMonitor(&cfg, nil, nil); m != nil {
			t.Error("expected nil monitor when disabled")
		}
	})

	t.Run("empty device returns nil", func(t *testing.T) {
		cfg := config.Default()
		cfg.Pipeline.Device = "  "
		if m := newDeviceMonitor(&cfg, nil, nil); m != nil {
			t.Error("expected nil monitor for empty device")
		}
	})

	t.Run("valid config creates monitor", func(t *testing.T) {
		cfg := config.Default()
		cfg.Pipeline.Device = "/dev/video0"
		m := newDeviceMonitor(&cfg, nil, pipeline.NewHost())
		if m == nil {
			t.Fatal("expected non-nil monitor")
		}
		if m.device != "/dev/video0" {
			t.Errorf("expected device /dev/video0, got %s", m.device)
		}
	})
}

func TestDeviceMonitorRunningState(t *testing.T) {
	t.Run("nil monitor returns false", func(t *testing.T) {
		var m *deviceMonitor
		if m.RunningState() {
			t.Error("expected RunningState false for nil monitor")
		}
	})

	t.Run("unstarted monitor returns false", func(t *testing.T) {
		cfg := config.Default()
		cfg.Pipeline.Device = "/dev/video0"
		m := newDeviceMonitor(&cfg, nil, pipeline.NewHost())
		if m.RunningState() {
			t.Error("expected RunningState false before start")
		}
	})
}

func TestDeviceMonitorStopWithoutStart(t *testing.T) {
	var nilMonitor *deviceMonitor
	nilMonitor.Stop()

	cfg := config.Default()
	cfg.Pipeline.Device = "/dev/video0"
	m := newDeviceMonitor(&cfg, nil, pipeline.NewHost())
	m.Stop()
	m.Stop()
}

func TestMatchesDevice(t *testing.T) {
	cfg := config.Default()
	cfg.Pipeline.Device = "/dev/video0"
	m := newDeviceMonitor(&cfg, nil, pipeline.NewHost())

	cases := []struct {
		name    string
		devname string
		want    bool
	}{
		{"exact match", "/dev/video0", true},
		{"bare name gets dev prefix", "video0", true},
		{"other device", "/dev/video2", false},
		{"missing devname", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			uevent := netlink.UEvent{Env: map[string]string{}}
			if tc.devname != "" {
				uevent.Env["DEVNAME"] = tc.devname
			}
			if got := m.matchesDevice(uevent); got != tc.want {
				t.Errorf("matchesDevice(%q) = %v, want %v", tc.devname, got, tc.want)
			}
		})
	}
}

func TestHandleEventTogglesSourceActivity(t *testing.T) {
	cfg := config.Default()
	cfg.Pipeline.Device = "/dev/video0"
	host := pipeline.NewHost()
	m := newDeviceMonitor(&cfg, nil, host)

	m.handleEvent(netlink.UEvent{
		Action: "remove",
		Env:    map[string]string{"DEVNAME": "/dev/video0"},
	})
	if host.Active() {
		t.Fatal("expected source inactive after device removal")
	}

	m.handleEvent(netlink.UEvent{
		Action: "add",
		Env:    map[string]string{"DEVNAME": "/dev/video0"},
	})
	if !host.Active() {
		t.Fatal("expected source active after device attach")
	}

	// Events for other devices are ignored.
	m.handleEvent(netlink.UEvent{
		Action: "remove",
		Env:    map[string]string{"DEVNAME": "/dev/video2"},
	})
	if !host.Active() {
		t.Fatal("unrelated device removal must not deactivate the source")
	}
}
