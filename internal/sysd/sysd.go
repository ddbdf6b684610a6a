// Package sysd talks to systemd and logind over the system D-Bus: restarting
// the kiosk and agent units, toggling maintenance timers, and rebooting the
// device. Callers depend on the Manager interface so tests can use a fake.
package sysd

import (
	"context"
	"fmt"
	"time"

	"github.com/godbus/dbus/v5"
)

// Units the agent manages.
const (
	KioskUnit       = "css-kiosk.service"
	AgentUnit       = "css-agent.service"
	AutoUpdateTimer = "css-agent-update.timer"
	RebootTimer     = "css-reboot.timer"
)

const callTimeout = 10 * time.Second

// Manager is the capability interface over systemd/logind.
type Manager interface {
	// RestartUnit restarts a systemd unit (mode "replace").
	RestartUnit(ctx context.Context, unit string) error

	// SetTimer enables+starts or stops+disables a timer unit.
	SetTimer(ctx context.Context, unit string, enabled bool) error

	// Reboot reboots the device via logind.
	Reboot(ctx context.Context) error
}

// Client is the real D-Bus implementation of Manager.
type Client struct {
	conn *dbus.Conn
}

// New connects to the system bus.
func New() (*Client, error) {
	conn, err := dbus.ConnectSystemBus()
	if err != nil {
		return nil, fmt.Errorf("sysd: connect system bus: %w", err)
	}
	return &Client{conn: conn}, nil
}

// Close closes the bus connection.
func (c *Client) Close() error { return c.conn.Close() }

func (c *Client) systemd() dbus.BusObject {
	return c.conn.Object("org.freedesktop.systemd1", "/org/freedesktop/systemd1")
}

// RestartUnit restarts a systemd unit (mode "replace").
func (c *Client) RestartUnit(ctx context.Context, unit string) error {
	callCtx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	var job dbus.ObjectPath
	err := c.systemd().CallWithContext(callCtx,
		"org.freedesktop.systemd1.Manager.RestartUnit", 0, unit, "replace").Store(&job)
	if err != nil {
		return fmt.Errorf("sysd: restart %s: %w", unit, err)
	}
	return nil
}

// SetTimer enables and starts, or stops and disables, a timer unit.
func (c *Client) SetTimer(ctx context.Context, unit string, enabled bool) error {
	callCtx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	obj := c.systemd()
	if enabled {
		// EnableUnitFiles(files, runtime=false, force=true)
		var carriesInstall bool
		var changes [][]interface{}
		if err := obj.CallWithContext(callCtx,
			"org.freedesktop.systemd1.Manager.EnableUnitFiles", 0,
			[]string{unit}, false, true).Store(&carriesInstall, &changes); err != nil {
			return fmt.Errorf("sysd: enable %s: %w", unit, err)
		}
		var job dbus.ObjectPath
		if err := obj.CallWithContext(callCtx,
			"org.freedesktop.systemd1.Manager.StartUnit", 0, unit, "replace").Store(&job); err != nil {
			return fmt.Errorf("sysd: start %s: %w", unit, err)
		}
		return nil
	}

	var job dbus.ObjectPath
	if err := obj.CallWithContext(callCtx,
		"org.freedesktop.systemd1.Manager.StopUnit", 0, unit, "replace").Store(&job); err != nil {
		return fmt.Errorf("sysd: stop %s: %w", unit, err)
	}
	var changes [][]interface{}
	if err := obj.CallWithContext(callCtx,
		"org.freedesktop.systemd1.Manager.DisableUnitFiles", 0,
		[]string{unit}, false).Store(&changes); err != nil {
		return fmt.Errorf("sysd: disable %s: %w", unit, err)
	}
	return nil
}

// Reboot reboots the device via logind (non-interactive).
func (c *Client) Reboot(ctx context.Context) error {
	callCtx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	obj := c.conn.Object("org.freedesktop.login1", "/org/freedesktop/login1")
	if err := obj.CallWithContext(callCtx,
		"org.freedesktop.login1.Manager.Reboot", 0, false).Err; err != nil {
		return fmt.Errorf("sysd: reboot: %w", err)
	}
	return nil
}

var _ Manager = (*Client)(nil)
