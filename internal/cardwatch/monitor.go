package cardwatch

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/pilebones/go-udev/netlink"

	"dailies/internal/config"
	"dailies/internal/logging"
)

// CardEvent describes one detected card insertion, resolved to its mount
// point.
type CardEvent struct {
	Device     string
	Label      string
	MountPoint string
}

// Monitor listens for udev netlink events and reports camera-card
// insertions. Filesystem labels are matched against the configured prefixes
// so random USB sticks do not trigger imports.
type Monitor struct {
	cfg     config.Watch
	logger  *slog.Logger
	handler func(ctx context.Context, event CardEvent) error

	// resolveMount maps a device node to its mount point, waiting for the
	// desktop automounter if needed. Overridable for tests.
	resolveMount func(ctx context.Context, device string) (string, bool)

	mu      sync.Mutex
	conn    *netlink.UEventConn
	quit    chan struct{}
	running bool
}

// NewMonitor creates a card monitor. Returns nil when watching is disabled.
func NewMonitor(cfg config.Watch, logger *slog.Logger, handler func(ctx context.Context, event CardEvent) error) *Monitor {
	if !cfg.Enabled {
		return nil
	}
	return &Monitor{
		cfg:          cfg,
		logger:       logging.NewComponentLogger(logger, "cardwatch"),
		handler:      handler,
		resolveMount: waitForMount,
	}
}

// Start begins listening for udev netlink events.
func (m *Monitor) Start(ctx context.Context) error {
	if m == nil {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return nil
	}

	conn := new(netlink.UEventConn)
	if err := conn.Connect(netlink.UdevEvent); err != nil {
		m.logger.Warn("failed to connect to netlink socket; card detection will rely on manual imports",
			logging.Error(err),
			logging.String(logging.FieldEventType, "netlink_connect_failed"))
		return nil // non-fatal, imports still work manually
	}

	m.conn = conn
	m.quit = make(chan struct{})
	m.running = true

	quit := m.quit
	go m.monitorLoop(ctx, quit)

	m.logger.Info("card monitor started",
		logging.String(logging.FieldEventType, "cardwatch_started"),
		logging.String("label_prefixes", strings.Join(m.cfg.LabelPrefixes, ",")))
	return nil
}

// Stop shuts down the monitor.
func (m *Monitor) Stop() {
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

	m.logger.Info("card monitor stopped",
		logging.String(logging.FieldEventType, "cardwatch_stopped"))
}

// Running reports whether the monitor is active.
func (m *Monitor) Running() bool {
	if m == nil {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

func (m *Monitor) monitorLoop(ctx context.Context, quit <-chan struct{}) {
	queue := make(chan netlink.UEvent)
	errs := make(chan error)

	m.mu.Lock()
	conn := m.conn
	m.mu.Unlock()
	if conn == nil {
		return
	}

	monitorQuit := conn.Monitor(queue, errs, m.buildMatcher())
	for {
		select {
		case <-ctx.Done():
			close(monitorQuit)
			return
		case <-quit:
			close(monitorQuit)
			return
		case uevent := <-queue:
			m.handleEvent(ctx, uevent)
		case err := <-errs:
			m.logger.Warn("netlink monitor error",
				logging.Error(err),
				logging.String(logging.FieldEventType, "netlink_monitor_error"))
		}
	}
}

// buildMatcher matches partition add events: SUBSYSTEM=block,
// DEVTYPE=partition, ACTION=add. Label filtering happens in handleEvent
// because udev only carries ID_FS_LABEL after probing.
func (m *Monitor) buildMatcher() netlink.Matcher {
	action := "add"
	rules := &netlink.RuleDefinitions{}
	rules.AddRule(netlink.RuleDefinition{
		Action: &action,
		Env: map[string]string{
			"SUBSYSTEM": "block",
			"DEVTYPE":   "partition",
		},
	})
	return rules
}

func (m *Monitor) handleEvent(ctx context.Context, uevent netlink.UEvent) {
	devname := extractDeviceName(uevent)
	if devname == "" {
		m.logger.Debug("ignoring event without device name",
			logging.String("action", string(uevent.Action)),
			logging.String("kobj", uevent.KObj))
		return
	}

	label := strings.TrimSpace(uevent.Env["ID_FS_LABEL"])
	if !m.labelMatches(label) {
		m.logger.Debug("ignoring partition with non-matching label",
			logging.String("device", devname),
			logging.String("label", label))
		return
	}

	mountPoint, ok := m.resolveMount(ctx, devname)
	if !ok {
		m.logger.Warn("card never mounted, skipping",
			logging.String("device", devname),
			logging.String("label", label),
			logging.String(logging.FieldEventType, "cardwatch_mount_timeout"))
		return
	}

	m.logger.Info("camera card detected",
		logging.String(logging.FieldEventType, "cardwatch_card_detected"),
		logging.String("device", devname),
		logging.String("label", label),
		logging.String("mount", mountPoint))

	if m.handler == nil {
		return
	}
	if err := m.handler(ctx, CardEvent{Device: devname, Label: label, MountPoint: mountPoint}); err != nil {
		m.logger.Warn("card import handler failed",
			logging.Error(err),
			logging.String("device", devname),
			logging.String(logging.FieldEventType, "cardwatch_handler_failed"))
	}
}

// labelMatches applies the configured prefix filter. An empty prefix list
// accepts every labelled partition; unlabelled partitions never match.
func (m *Monitor) labelMatches(label string) bool {
	if label == "" {
		return false
	}
	if len(m.cfg.LabelPrefixes) == 0 {
		return true
	}
	upper := strings.ToUpper(label)
	for _, prefix := range m.cfg.LabelPrefixes {
		if strings.HasPrefix(upper, strings.ToUpper(strings.TrimSpace(prefix))) {
			return true
		}
	}
	return false
}

func extractDeviceName(uevent netlink.UEvent) string {
	if devname := uevent.Env["DEVNAME"]; devname != "" {
		if !strings.HasPrefix(devname, "/dev/") {
			return "/dev/" + devname
		}
		return devname
	}

	devpath := uevent.Env["DEVPATH"]
	if devpath == "" {
		return ""
	}
	parts := strings.Split(devpath, "/")
	if len(parts) == 0 {
		return ""
	}
	return "/dev/" + parts[len(parts)-1]
}

// waitForMount polls the mount table until the automounter picks up the
// device, bounded at 30 seconds.
func waitForMount(ctx context.Context, device string) (string, bool) {
	deadline := time.Now().Add(30 * time.Second)
	for time.Now().Before(deadline) {
		if ctx.Err() != nil {
			return "", false
		}
		if mp, ok := mountPointOf(device); ok {
			return mp, true
		}
		time.Sleep(500 * time.Millisecond)
	}
	return "", false
}

// mountPointOf scans /proc/mounts for the device's mount point. Octal
// escapes in the mount path (spaces land as \040) are decoded.
func mountPointOf(device string) (string, bool) {
	data, err := os.ReadFile("/proc/mounts")
	if err != nil {
		return "", false
	}
	for _, line := range strings.Split(string(data), "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 || fields[0] != device {
			continue
		}
		return strings.ReplaceAll(fields[1], `\040`, " "), true
	}
	return "", false
}
