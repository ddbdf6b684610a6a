// Package device implements the reconciliation controller — the single
// mutual-exclusion domain through which every mutation of the configuration
// document, the boot-pointer file, and the live display goes. API handlers,
// the network watchdog, and the rotation retry loop all funnel through it, so
// no two writers can ever interleave and the pointer file and document can
// never disagree about who last decided what is on screen.
package device

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/css-signage/css-agent-go/internal/config"
	"github.com/css-signage/css-agent-go/internal/display"
	"github.com/css-signage/css-agent-go/internal/events"
	"github.com/css-signage/css-agent-go/internal/models"
	"github.com/css-signage/css-agent-go/internal/playlist"
	"github.com/css-signage/css-agent-go/internal/rotation"
	"github.com/css-signage/css-agent-go/internal/sysd"
)

// Controller coordinates the store, display driver, and rotation manager.
type Controller struct {
	mu        sync.Mutex
	cfg       models.Config
	configDir string

	store    config.Store
	driver   *display.Driver
	rotation *rotation.Manager
	engine   *playlist.Engine
	sys      sysd.Manager
	bus      *events.Bus

	repoDir    string // agent checkout updated by git pull
	dhcpcdPath string // network config rewritten by POST /api/network/ip
}

// New loads the document and reconciles the boot-pointer file with it.
// The browser is not signalled at startup: its supervisor is launching it
// against the pointer file we just wrote.
func New(configDir string, store config.Store, driver *display.Driver, rot *rotation.Manager, engine *playlist.Engine, sys sysd.Manager, bus *events.Bus) (*Controller, error) {
	cfg, err := store.Load()
	if err != nil {
		return nil, err
	}

	c := &Controller{
		cfg:       *cfg,
		configDir: configDir,
		store:     store,
		driver:    driver,
		rotation:  rot,
		engine:    engine,
		sys:       sys,
		bus:       bus,

		repoDir:    defaultRepoDir,
		dhcpcdPath: defaultDhcpcdPath,
	}

	if err := driver.WritePointer(cfg.DisplayURL); err != nil {
		return nil, err
	}
	return c, nil
}

// Config returns a deep copy of the current document.
func (c *Controller) Config() models.Config {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cfg.DeepCopy()
}

// apply is the core mutation primitive. Callers must hold c.mu. It copies
// the document, lets fn mutate the copy, persists atomically, and publishes
// the new snapshot. fn returning an error aborts with nothing changed.
func (c *Controller) apply(fn func(*models.Config) error) (models.Config, error) {
	next := c.cfg.DeepCopy()
	if err := fn(&next); err != nil {
		return models.Config{}, err
	}

	if err := c.store.Save(&next); err != nil {
		return models.Config{}, err
	}
	c.cfg = next
	c.bus.Publish(c.cfg)
	return c.cfg, nil
}

// SetDisplayURL persists url as the configured content and applies it to the
// display. Persist-then-apply: if the pointer write fails the document still
// names the intended URL and the next reconcile pass converges on it.
func (c *Controller) SetDisplayURL(ctx context.Context, url string) *models.AppError {
	if url == "" {
		return models.ErrValidation("url is required")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := c.apply(func(cfg *models.Config) error {
		cfg.DisplayURL = url
		return nil
	}); err != nil {
		return models.ErrConfigIO("persist display_url: " + err.Error())
	}
	if err := c.driver.Apply(ctx, url); err != nil {
		return models.ErrConfigIO(err.Error())
	}
	return nil
}

// Rotate applies angle to the live output and persists it on success.
func (c *Controller) Rotate(ctx context.Context, angle int) *models.AppError {
	if !models.ValidRotation(angle) {
		return models.ErrValidation("rotation must be one of 0, 90, 180, 270")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.rotation.Apply(ctx, angle); err != nil {
		if errors.Is(err, rotation.ErrNoOutput) {
			return models.ErrDisplayNotFound("no connected display output")
		}
		return models.ErrExternalTool(err.Error())
	}

	if _, err := c.apply(func(cfg *models.Config) error {
		cfg.ScreenRotation = angle
		return nil
	}); err != nil {
		return models.ErrConfigIO("persist screen_rotation: " + err.Error())
	}
	return nil
}

// ReapplyRotation re-applies the persisted rotation after boot, retrying
// while the windowing session comes up. Blocks; run in its own goroutine.
func (c *Controller) ReapplyRotation(ctx context.Context) {
	c.mu.Lock()
	angle := c.cfg.ScreenRotation
	c.mu.Unlock()
	c.rotation.ReapplyLoop(ctx, angle)
}

// ShowMaintenance switches the display to the maintenance page WITHOUT
// persisting it: display_url keeps reflecting user intent through the
// outage. Only the boot-pointer file carries the override.
func (c *Controller) ShowMaintenance(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.driver.Apply(ctx, models.MaintenancePageURL(c.cfg.APIPort))
}

// RestoreConfigured switches the display back to the persisted display_url.
// If that is itself the maintenance page (a previous operator mistake),
// substitute the waiting page so the device does not loop on the outage view.
func (c *Controller) RestoreConfigured(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	url := c.cfg.DisplayURL
	if url == models.MaintenancePageURL(c.cfg.APIPort) {
		url = models.WaitingPageURL(c.cfg.APIPort)
	}
	return c.driver.Apply(ctx, url)
}

// UpdateConfig applies a partial identity update to the document.
func (c *Controller) UpdateConfig(upd models.ConfigUpdate) (models.Config, *models.AppError) {
	c.mu.Lock()
	defer c.mu.Unlock()

	next, err := c.apply(func(cfg *models.Config) error {
		if upd.Name != nil {
			cfg.Name = *upd.Name
		}
		if upd.Room != nil {
			cfg.Room = *upd.Room
		}
		if upd.DisplayURL != nil {
			cfg.DisplayURL = *upd.DisplayURL
		}
		if upd.APIPort != nil {
			cfg.APIPort = *upd.APIPort
		}
		return nil
	})
	if err != nil {
		return models.Config{}, models.ErrConfigIO(err.Error())
	}
	return next, nil
}

// ReloadFromDisk replaces the in-memory document with the on-disk one.
// Called by the config file watcher when provisioning tools edit the file.
func (c *Controller) ReloadFromDisk() {
	cfg, err := c.store.Load()
	if err != nil {
		slog.Warn("device: reload from disk failed", "err", err)
		return
	}

	c.mu.Lock()
	changed := false
	if cfg.DisplayURL != c.cfg.DisplayURL || cfg.ScreenRotation != c.cfg.ScreenRotation {
		changed = true
	}
	c.cfg = *cfg
	snapshot := c.cfg.DeepCopy()
	c.mu.Unlock()

	if changed {
		c.bus.Publish(snapshot)
	}
}
