package cardwatch

import (
	"context"
	"testing"

	"github.com/pilebones/go-udev/netlink"

	"dailies/internal/config"
)

func newTestMonitor(handler func(ctx context.Context, event CardEvent) error) *Monitor {
	m := NewMonitor(config.Watch{Enabled: true, LabelPrefixes: []string{"A", "CARD"}}, nil, handler)
	m.resolveMount = func(ctx context.Context, device string) (string, bool) {
		return "/media/test/" + device[len("/dev/"):], true
	}
	return m
}

func TestNewMonitorDisabled(t *testing.T) {
	if m := NewMonitor(config.Watch{Enabled: false}, nil, nil); m != nil {
		t.Fatal("expected nil monitor when watching is disabled")
	}
}

func TestMonitorRunning(t *testing.T) {
	var m *Monitor
	if m.Running() {
		t.Error("nil monitor must not report running")
	}
	m.Stop() // must not panic

	m = newTestMonitor(nil)
	if m.Running() {
		t.Error("unstarted monitor must not report running")
	}
	m.Stop()
	m.Stop() // double stop is safe
}

func TestBuildMatcher(t *testing.T) {
	m := newTestMonitor(nil)
	matcher := m.buildMatcher()

	add := netlink.UEvent{
		Action: netlink.ADD,
		Env: map[string]string{
			"SUBSYSTEM": "block",
			"DEVTYPE":   "partition",
		},
	}
	if !matcher.Evaluate(add) {
		t.Error("expected matcher to accept partition add")
	}

	wholeDisk := netlink.UEvent{
		Action: netlink.ADD,
		Env: map[string]string{
			"SUBSYSTEM": "block",
			"DEVTYPE":   "disk",
		},
	}
	if matcher.Evaluate(wholeDisk) {
		t.Error("expected matcher to reject whole-disk events")
	}

	removed := netlink.UEvent{
		Action: netlink.REMOVE,
		Env: map[string]string{
			"SUBSYSTEM": "block",
			"DEVTYPE":   "partition",
		},
	}
	if matcher.Evaluate(removed) {
		t.Error("expected matcher to reject remove events")
	}
}

func TestHandleEvent(t *testing.T) {
	t.Run("dispatches matching label", func(t *testing.T) {
		var got CardEvent
		m := newTestMonitor(func(ctx context.Context, event CardEvent) error {
			got = event
			return nil
		})
		m.handleEvent(context.Background(), netlink.UEvent{
			Action: netlink.ADD,
			Env: map[string]string{
				"DEVNAME":     "/dev/sdb1",
				"ID_FS_LABEL": "A001_FX3",
			},
		})
		if got.Device != "/dev/sdb1" || got.Label != "A001_FX3" {
			t.Fatalf("unexpected event %+v", got)
		}
		if got.MountPoint != "/media/test/sdb1" {
			t.Fatalf("mount point not resolved: %+v", got)
		}
	})

	t.Run("ignores non-matching label", func(t *testing.T) {
		called := false
		m := newTestMonitor(func(ctx context.Context, event CardEvent) error {
			called = true
			return nil
		})
		m.handleEvent(context.Background(), netlink.UEvent{
			Action: netlink.ADD,
			Env: map[string]string{
				"DEVNAME":     "/dev/sdb1",
				"ID_FS_LABEL": "BACKUP_DRIVE",
			},
		})
		if called {
			t.Error("handler must not run for non-matching labels")
		}
	})

	t.Run("ignores unlabelled partitions", func(t *testing.T) {
		called := false
		m := newTestMonitor(func(ctx context.Context, event CardEvent) error {
			called = true
			return nil
		})
		m.handleEvent(context.Background(), netlink.UEvent{
			Action: netlink.ADD,
			Env:    map[string]string{"DEVNAME": "/dev/sdb1"},
		})
		if called {
			t.Error("handler must not run without a filesystem label")
		}
	})

	t.Run("skips when mount never appears", func(t *testing.T) {
		called := false
		m := newTestMonitor(func(ctx context.Context, event CardEvent) error {
			called = true
			return nil
		})
		m.resolveMount = func(ctx context.Context, device string) (string, bool) { return "", false }
		m.handleEvent(context.Background(), netlink.UEvent{
			Action: netlink.ADD,
			Env: map[string]string{
				"DEVNAME":     "/dev/sdb1",
				"ID_FS_LABEL": "A001",
			},
		})
		if called {
			t.Error("handler must not run when the card never mounts")
		}
	})
}

func TestExtractDeviceName(t *testing.T) {
	cases := []struct {
		env  map[string]string
		want string
	}{
		{map[string]string{"DEVNAME": "/dev/sdb1"}, "/dev/sdb1"},
		{map[string]string{"DEVNAME": "sdb1"}, "/dev/sdb1"},
		{map[string]string{"DEVPATH": "/devices/pci0000:00/usb1/1-1/block/sdb/sdb1"}, "/dev/sdb1"},
		{map[string]string{}, ""},
	}
	for _, tc := range cases {
		got := extractDeviceName(netlink.UEvent{Env: tc.env})
		if got != tc.want {
			t.Errorf("extractDeviceName(%v) = %q, want %q", tc.env, got, tc.want)
		}
	}
}

func TestLabelMatchesEmptyPrefixList(t *testing.T) {
	m := NewMonitor(config.Watch{Enabled: true}, nil, nil)
	if !m.labelMatches("ANYTHING") {
		t.Error("empty prefix list should accept any labelled partition")
	}
	if m.labelMatches("") {
		t.Error("unlabelled partitions never match")
	}
}
