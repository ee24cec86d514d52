package daemon

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/pilebones/go-udev/netlink"

	"capturewatch/internal/config"
	"capturewatch/internal/logging"
	"capturewatch/internal/pipeline"
)

// deviceMonitor listens for udev netlink events on the configured capture
// device. A removal forces the source inactive immediately instead of
// waiting for the pipeline to notice, so the inactivity grace window starts
// as soon as the hardware disappears.
type deviceMonitor struct {
	logger *slog.Logger
	host   *pipeline.Host
	device string

	mu      sync.Mutex
	conn    *netlink.UEventConn
	quit    chan struct{}
	running bool
}

// newDeviceMonitor creates a monitor for the configured device. Returns nil
// when device tracking is disabled or no device is configured.
func newDeviceMonitor(cfg *config.Config, logger *slog.Logger, host *pipeline.Host) *deviceMonitor {
	if cfg == nil || !cfg.Pipeline.DeviceMonitor {
		return nil
	}
	device := strings.TrimSpace(cfg.Pipeline.Device)
	if device == "" {
		return nil
	}

	return &deviceMonitor{
		logger: logging.NewComponentLogger(logger, "device-monitor"),
		host:   host,
		device: device,
	}
}

// Start begins listening for udev netlink events.
func (m *deviceMonitor) Start(ctx context.Context) {
	if m == nil {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return
	}

	conn := new(netlink.UEventConn)
	if err := conn.Connect(netlink.UdevEvent); err != nil {
		m.logger.Warn("failed to connect to netlink socket; device hotplug tracking disabled",
			logging.Error(err),
			logging.String(logging.FieldEventType, "netlink_connect_failed"),
			logging.String(logging.FieldErrorHint, "ensure the daemon has permission to access netlink sockets"),
			logging.String(logging.FieldImpact, "device removal relies on pipeline events only"),
		)
		return
	}

	m.conn = conn
	m.quit = make(chan struct{})
	m.running = true

	quit := m.quit
	go m.monitorLoop(ctx, quit)

	m.logger.Info("device monitor started",
		logging.String(logging.FieldEventType, "device_monitor_started"),
		logging.String("device", m.device),
	)
}

// Stop shuts down the netlink monitor.
func (m *deviceMonitor) Stop() {
	if m == nil {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return
	}

	if m.quit != nil {
		close(m.quit)
		m.quit = nil
	}
	if m.conn != nil {
		_ = m.conn.Close()
		m.conn = nil
	}
	m.running = false

	m.logger.Info("device monitor stopped",
		logging.String(logging.FieldEventType, "device_monitor_stopped"),
	)
}

// RunningState reports whether the netlink monitor is active. Safe on nil.
func (m *deviceMonitor) RunningState() bool {
	if m == nil {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

func (m *deviceMonitor) monitorLoop(ctx context.Context, quit <-chan struct{}) {
	queue := make(chan netlink.UEvent)
	errs := make(chan error)

	matcher := m.buildMatcher()

	m.mu.Lock()
	conn := m.conn
	m.mu.Unlock()
	if conn == nil {
		return
	}

	monitorQuit := conn.Monitor(queue, errs, matcher)

	for {
		select {
		case <-ctx.Done():
			close(monitorQuit)
			return
		case <-quit:
			close(monitorQuit)
			return
		case uevent := <-queue:
			m.handleEvent(uevent)
		case err := <-errs:
			m.logger.Warn("netlink monitor error",
				logging.Error(err),
				logging.String(logging.FieldEventType, "netlink_monitor_error"),
				logging.String(logging.FieldErrorHint, "check kernel netlink subsystem"),
				logging.String(logging.FieldImpact, "device hotplug tracking may be degraded"),
			)
		}
	}
}

// buildMatcher selects video4linux add/remove events.
func (m *deviceMonitor) buildMatcher() netlink.Matcher {
	action := "add|remove"
	rules := &netlink.RuleDefinitions{}
	rules.AddRule(netlink.RuleDefinition{
		Action: &action,
		Env: map[string]string{
			"SUBSYSTEM": "video4linux",
		},
	})
	return rules
}

func (m *deviceMonitor) handleEvent(uevent netlink.UEvent) {
	if !m.matchesDevice(uevent) {
		return
	}

	switch uevent.Action {
	case "remove":
		m.logger.Warn("capture device removed",
			logging.String(logging.FieldEventType, "capture_device_removed"),
			logging.String("device", m.device),
			logging.String(logging.FieldImpact, "source treated as inactive until the device returns"),
		)
		m.host.SetActive(false)
	case "add":
		m.logger.Info("capture device attached",
			logging.String(logging.FieldEventType, "capture_device_attached"),
			logging.String("device", m.device),
		)
		m.host.SetActive(true)
	}
}

// matchesDevice compares the uevent's DEVNAME against the configured device
// node, tolerating udev reporting names without the /dev prefix.
func (m *deviceMonitor) matchesDevice(uevent netlink.UEvent) bool {
	devname := strings.TrimSpace(uevent.Env["DEVNAME"])
	if devname == "" {
		return false
	}
	if !strings.HasPrefix(devname, "/") {
		devname = "/dev/" + devname
	}
	return devname == m.device
}
