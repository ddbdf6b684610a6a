// Package watchdog monitors internet connectivity and swaps the display to a
// maintenance page while the network is down, restoring the configured
// content once it returns. The override is never persisted to the document:
// display_url keeps reflecting user intent through an outage.
package watchdog

import (
	"context"
	"log/slog"
	"net"
	"time"
)

// Defaults for probe behavior.
const (
	defaultProbeAddr    = "1.1.1.1:53"
	defaultProbeTimeout = 5 * time.Second
	defaultInterval     = 15 * time.Second
	defaultGrace        = 30 * time.Second
)

// dialFunc is a variable so tests can inject a mock dialer.
var dialFunc = func(network, address string, timeout time.Duration) (net.Conn, error) {
	return net.DialTimeout(network, address, timeout)
}

// DisplayController is the surface the watchdog drives on state transitions.
// Both calls run under the device's reconciliation lock.
type DisplayController interface {
	// ShowMaintenance switches the display to the maintenance page without
	// touching the persisted display_url.
	ShowMaintenance(ctx context.Context) error

	// RestoreConfigured switches the display back to the persisted
	// display_url (or a safe fallback if that itself is the maintenance
	// page).
	RestoreConfigured(ctx context.Context) error
}

// Watchdog is a two-state (Online/Offline) connectivity monitor. A single
// failed probe flips it Offline and a single successful probe flips it back;
// same-state probes are no-ops. The initial state comes from the first probe,
// never assumed.
type Watchdog struct {
	display DisplayController

	probeAddr    string
	probeTimeout time.Duration
	interval     time.Duration
	grace        time.Duration

	// online is owned exclusively by the Run goroutine.
	online bool
}

// New creates a Watchdog driving the given display controller.
func New(display DisplayController) *Watchdog {
	return &Watchdog{
		display:      display,
		probeAddr:    defaultProbeAddr,
		probeTimeout: defaultProbeTimeout,
		interval:     defaultInterval,
		grace:        defaultGrace,
	}
}

// Run blocks until ctx is cancelled. It waits out the startup grace period
// (the display subsystem is still booting; an early probe would flag a
// healthy device offline), establishes the initial state with one probe, and
// then probes on a fixed interval. Transition failures are logged and the
// loop continues — a failed iteration must never kill the monitor.
func (w *Watchdog) Run(ctx context.Context) {
	select {
	case <-ctx.Done():
		return
	case <-time.After(w.grace):
	}

	w.online = w.probe()
	slog.Info("watchdog: initial connectivity state", "online", w.online)
	if !w.online {
		if err := w.display.ShowMaintenance(ctx); err != nil {
			slog.Error("watchdog: failed to show maintenance page", "err", err)
		}
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.step(ctx)
		}
	}
}

// step runs one probe and applies the transition action if the state flipped.
func (w *Watchdog) step(ctx context.Context) {
	online := w.probe()
	if online == w.online {
		return
	}
	w.online = online

	if online {
		slog.Info("watchdog: connectivity restored")
		if err := w.display.RestoreConfigured(ctx); err != nil {
			slog.Error("watchdog: failed to restore configured display", "err", err)
		}
	} else {
		slog.Warn("watchdog: connectivity lost, showing maintenance page")
		if err := w.display.ShowMaintenance(ctx); err != nil {
			slog.Error("watchdog: failed to show maintenance page", "err", err)
		}
	}
}

// probe attempts one TCP connection to the probe address.
func (w *Watchdog) probe() bool {
	conn, err := dialFunc("tcp", w.probeAddr, w.probeTimeout)
	if conn != nil {
		conn.Close()
	}
	return err == nil
}
