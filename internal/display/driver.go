// Package display drives the physical display subsystem: it maintains the
// boot-pointer file the kiosk browser reads at launch and signals the browser
// to reload. The browser itself is supervised externally (systemd); the agent
// only terminates it and lets the supervisor relaunch it pointed at the new
// content.
package display

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

const pointerFileName = "display_url"

// Signal tells the display subsystem to pick up the boot-pointer file.
// Today that means terminating the browser process; the supervisor restarts
// it. Kept behind an interface so a proper reload IPC can replace it.
type Signal interface {
	Reload(ctx context.Context) error
}

// Driver owns the boot-pointer file and the reload signal.
type Driver struct {
	pointerPath string
	signal      Signal
}

// New returns a Driver writing its boot-pointer file into configDir.
func New(configDir string, signal Signal) *Driver {
	return &Driver{
		pointerPath: filepath.Join(configDir, pointerFileName),
		signal:      signal,
	}
}

// PointerPath returns the path of the boot-pointer file.
func (d *Driver) PointerPath() string { return d.pointerPath }

// Apply writes url to the boot-pointer file, forces it to stable storage,
// and signals the browser to reload. A failed pointer write is fatal for the
// call; a failed reload signal is logged only — the next natural reload picks
// the new URL up.
func (d *Driver) Apply(ctx context.Context, url string) error {
	if err := d.writePointer(url); err != nil {
		return fmt.Errorf("display: write boot pointer: %w", err)
	}
	if err := d.signal.Reload(ctx); err != nil {
		slog.Warn("display: reload signal failed", "err", err)
	}
	return nil
}

// Reload signals the browser without touching the boot-pointer file. Used
// when only out-of-band browser state (e.g. flags) changed.
func (d *Driver) Reload(ctx context.Context) error {
	return d.signal.Reload(ctx)
}

// WritePointer writes url to the boot-pointer file without signalling.
// Used at startup to reconcile the pointer with the document while the
// browser is still being launched by its supervisor.
func (d *Driver) WritePointer(url string) error {
	return d.writePointer(url)
}

// Current reads the boot-pointer file's content.
func (d *Driver) Current() (string, error) {
	data, err := os.ReadFile(d.pointerPath)
	if err != nil {
		return "", err
	}
	return string(trimNewline(data)), nil
}

// writePointer replaces the pointer file atomically and fsyncs before the
// rename so the browser never reads a torn or unsynced URL after a crash.
func (d *Driver) writePointer(url string) error {
	if err := os.MkdirAll(filepath.Dir(d.pointerPath), 0755); err != nil {
		return err
	}
	tmp := d.pointerPath + ".tmp"
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(url + "\n"); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, d.pointerPath)
}

func trimNewline(b []byte) []byte {
	for len(b) > 0 && (b[len(b)-1] == '\n' || b[len(b)-1] == '\r') {
		b = b[:len(b)-1]
	}
	return b
}
