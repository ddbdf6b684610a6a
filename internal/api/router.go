package api

import (
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"
)

// NewRouter creates and returns the main HTTP router.
// staticFS serves the embedded waiting/offline pages; imageDir is where
// playlist images live on disk.
func NewRouter(ctrl Controller, bus EventBus, staticFS fs.FS, imageDir, version string) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(corsMiddleware)
	r.Use(middleware.CleanPath)

	h := &Handlers{ctrl: ctrl, events: bus, version: version}

	r.Get("/", h.rootInfo)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.health)
		r.Get("/status", h.getStatus)
		r.Get("/config", h.getConfig)
		r.Post("/config", h.setConfig)
		r.Get("/events", h.sseEvents)

		// Display
		r.Post("/display/url", h.setDisplayURL)
		r.Post("/display/rotate", h.rotate)

		// Playlist
		r.Get("/display/playlist", h.getPlaylist)
		r.Post("/display/playlist", h.setPlaylist)
		r.Delete("/display/playlist", h.clearPlaylist)
		r.Post("/display/playlist/images", h.uploadPlaylistImage)
		r.Delete("/display/playlist/images/{index}", h.deletePlaylistImage)
		r.Post("/display/playlist/activate", h.activatePlaylist)

		// Browser
		r.Post("/browser/restart", h.restartBrowser)
		r.Post("/browser/flags", h.setBrowserFlags)

		// Settings (systemd timer toggles)
		r.Get("/settings/autoupdate", h.getAutoUpdate)
		r.Post("/settings/autoupdate", h.setAutoUpdate)
		r.Get("/settings/reboot", h.getNightlyReboot)
		r.Post("/settings/reboot", h.setNightlyReboot)

		// Network
		r.Post("/network/ip", h.configureNetwork)

		// Destructive system operations, rate-limited so a misbehaving
		// dashboard cannot reboot-loop the device.
		r.Group(func(r chi.Router) {
			r.Use(throttle(rate.NewLimiter(rate.Every(10*time.Second), 1)))
			r.Post("/system/reboot", h.reboot)
			r.Post("/update", h.update)
		})
	})

	// Display-facing views
	r.Get("/slideshow", h.slideshow)
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))
	r.Handle("/images/*", http.StripPrefix("/images/", http.FileServer(http.Dir(imageDir))))

	return r
}

// corsMiddleware adds permissive CORS headers for management dashboards.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// throttle rejects requests beyond the limiter's budget with 429.
func throttle(limiter *rate.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				writeJSON(w, http.StatusTooManyRequests, errorBody{
					Success: false,
					Code:    "RateLimited",
					Message: "too many requests, try again shortly",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
