// Command css-agent is the device-management agent for a CSS signage display.
// Run with --mock to use fake windowing/systemd backends (no X or D-Bus
// required).
package main

import (
	"context"
	"embed"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/css-signage/css-agent-go/internal/api"
	"github.com/css-signage/css-agent-go/internal/config"
	"github.com/css-signage/css-agent-go/internal/device"
	"github.com/css-signage/css-agent-go/internal/display"
	"github.com/css-signage/css-agent-go/internal/events"
	"github.com/css-signage/css-agent-go/internal/identity"
	"github.com/css-signage/css-agent-go/internal/playlist"
	"github.com/css-signage/css-agent-go/internal/rotation"
	"github.com/css-signage/css-agent-go/internal/sysd"
	"github.com/css-signage/css-agent-go/internal/watchdog"
	"github.com/css-signage/css-agent-go/internal/windowing"
	"github.com/css-signage/css-agent-go/internal/zeroconf"
)

//go:embed all:web/static
var webFiles embed.FS

const browserProcName = "chromium-browser"

func main() {
	var (
		mock    = flag.Bool("mock", false, "use fake windowing/systemd backends (no X or D-Bus required)")
		addr    = flag.String("addr", "", "HTTP listen address (default: :<api_port> from the config)")
		cfgDir  = flag.String("config-dir", "/etc/css", "config directory")
		xdpy    = flag.String("display", ":0", "X display of the kiosk session")
		debug   = flag.Bool("debug", false, "enable debug logging")
	)
	flag.Parse()

	// Configure logging
	logLevel := slog.LevelInfo
	if *debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))

	if err := os.MkdirAll(*cfgDir, 0755); err != nil {
		slog.Error("cannot create config directory", "path", *cfgDir, "err", err)
		os.Exit(1)
	}

	// Graceful shutdown context
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Config store
	store := config.NewJSONStore(*cfgDir)

	// Windowing session, reload signal, systemd
	var (
		session windowing.Session
		reload  display.Signal
		sys     sysd.Manager
	)
	if *mock {
		slog.Info("using fake windowing/systemd backends")
		session = windowing.NewFakeSession()
		reload = display.NewFakeSignal()
		sys = sysd.NewFake()
	} else {
		session = windowing.NewXrandrSession(*xdpy)
		reload = display.NewProcessSignal(browserProcName)
		client, err := sysd.New()
		if err != nil {
			slog.Error("systemd D-Bus connection failed", "err", err)
			os.Exit(1)
		}
		defer client.Close()
		sys = client
	}

	// Playlist image storage
	engine, err := playlist.NewEngine(filepath.Join(*cfgDir, "playlist"))
	if err != nil {
		slog.Error("playlist engine initialization failed", "err", err)
		os.Exit(1)
	}

	// Event bus
	bus := events.NewBus()

	// Device controller
	driver := display.New(*cfgDir, reload)
	ctrl, err := device.New(*cfgDir, store, driver, rotation.New(session), engine, sys, bus)
	if err != nil {
		slog.Error("device controller initialization failed", "err", err)
		os.Exit(1)
	}

	// Hot-reload the document when provisioning tools edit it in place
	watcher := config.NewWatcher(store.Path(), ctrl.ReloadFromDisk)
	defer watcher.Close()

	// Background goroutines: rotation reapply and connectivity watchdog
	go ctrl.ReapplyRotation(ctx)
	go watchdog.New(ctrl).Run(ctx)

	cfg := ctrl.Config()
	version := identity.GetVersion(*cfgDir)

	// Zeroconf mDNS registration
	zc := zeroconf.New(identity.GetHostname(), cfg.APIPort, []string{
		"version=" + version,
		"name=" + cfg.Name,
		"room=" + cfg.Room,
	})
	go func() {
		if err := zc.Start(ctx); err != nil {
			slog.Warn("zeroconf failed", "err", err)
		}
	}()

	// HTTP server
	staticFS, err := fs.Sub(webFiles, "web/static")
	if err != nil {
		slog.Error("failed to load static files", "err", err)
		os.Exit(1)
	}
	router := api.NewRouter(ctrl, bus, staticFS, engine.Dir(), version)

	listenAddr := *addr
	if listenAddr == "" {
		listenAddr = fmt.Sprintf(":%d", cfg.APIPort)
	}
	srv := &http.Server{
		Addr:         listenAddr,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0, // 0 = no timeout (needed for SSE)
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("css-agent listening", "addr", listenAddr, "mock", *mock, "config", *cfgDir)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "err", err)
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	slog.Info("shutting down...")

	shutCtx, shutCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutCancel()
	if err := srv.Shutdown(shutCtx); err != nil {
		slog.Warn("server shutdown error", "err", err)
	}

	slog.Info("shutdown complete")
}
