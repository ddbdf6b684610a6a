package models

import (
	"fmt"

	"github.com/google/uuid"
)

// DefaultAPIPort is the port the agent listens on when the document does not
// say otherwise. Matches the Python agent's Flask default.
const DefaultAPIPort = 5000

// DefaultConfig returns the document used when no config file exists yet.
// The display URL points at the local waiting page so a freshly imaged device
// shows something sensible before it is provisioned.
func DefaultConfig() Config {
	return Config{
		DeviceID:       uuid.New().String(),
		Name:           "Pi",
		Room:           "",
		DisplayURL:     WaitingPageURL(DefaultAPIPort),
		APIPort:        DefaultAPIPort,
		ScreenRotation: 0,
		Playlist: Playlist{
			Images:          []string{},
			DisplayTime:     10,
			FadeTime:        1,
			FallbackEnabled: true,
		},
	}
}

// WaitingPageURL is the locally served page shown before any URL is set.
func WaitingPageURL(port int) string {
	return fmt.Sprintf("http://127.0.0.1:%d/static/waiting.html", port)
}

// MaintenancePageURL is the locally served page shown while the network is
// down. Served from the embedded filesystem so it is reachable offline.
func MaintenancePageURL(port int) string {
	return fmt.Sprintf("http://127.0.0.1:%d/static/offline.html", port)
}

// SlideshowURL is the locally served auto-advancing playlist view.
func SlideshowURL(port int) string {
	return fmt.Sprintf("http://127.0.0.1:%d/slideshow", port)
}
