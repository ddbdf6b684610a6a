// Package models defines the data structures for the signage agent.
// JSON field names match the Python implementation exactly for wire compatibility.
package models

// Playlist holds the slideshow configuration and the ordered image list.
// Images are stored as filenames relative to the playlist directory; the
// position in the slice is the image's index.
type Playlist struct {
	Images          []string `json:"images"`
	DisplayTime     int      `json:"display_time"` // seconds per image, > 0
	FadeTime        int      `json:"fade_time"`    // cross-fade seconds, >= 0
	FallbackEnabled bool     `json:"fallback_enabled"`
}

// Config is the persisted configuration document — the single source of
// truth for what the display should show. Persisted as one JSON file.
type Config struct {
	DeviceID       string   `json:"device_id"`
	Name           string   `json:"name"`
	Room           string   `json:"room"`
	DisplayURL     string   `json:"display_url"`
	APIPort        int      `json:"api_port"`
	ScreenRotation int      `json:"screen_rotation"` // 0, 90, 180 or 270
	Playlist       Playlist `json:"playlist"`
	AutoUpdate     bool     `json:"auto_update"`
	NightlyReboot  bool     `json:"nightly_reboot"`
}

// DeepCopy returns a copy that shares no slices with the receiver.
func (c Config) DeepCopy() Config {
	next := c
	if c.Playlist.Images != nil {
		next.Playlist.Images = make([]string, len(c.Playlist.Images))
		copy(next.Playlist.Images, c.Playlist.Images)
	}
	return next
}

// ValidRotation reports whether angle is one of the four supported rotations.
func ValidRotation(angle int) bool {
	switch angle {
	case 0, 90, 180, 270:
		return true
	}
	return false
}

// MaxPlaylistImages is the hard cap on stored playlist images.
const MaxPlaylistImages = 20
