package models

import "time"

// ConfigUpdate is a partial update of the document's identity fields.
// Nil pointers mean "leave unchanged".
type ConfigUpdate struct {
	Name       *string `json:"name,omitempty"`
	Room       *string `json:"room,omitempty"`
	DisplayURL *string `json:"display_url,omitempty"`
	APIPort    *int    `json:"api_port,omitempty"`
}

// DisplayURLRequest is the body of POST /api/display/url.
type DisplayURLRequest struct {
	URL string `json:"url"`
}

// RotateRequest is the body of POST /api/display/rotate.
type RotateRequest struct {
	Rotation *int `json:"rotation"`
}

// PlaylistUpdate is a partial update of the slideshow settings.
type PlaylistUpdate struct {
	DisplayTime     *int  `json:"display_time,omitempty"`
	FadeTime        *int  `json:"fade_time,omitempty"`
	FallbackEnabled *bool `json:"fallback_enabled,omitempty"`
}

// NetworkRequest is the body of POST /api/network/ip.
type NetworkRequest struct {
	Mode    string `json:"mode"` // "static" or "dhcp"
	IP      string `json:"ip,omitempty"`
	Netmask string `json:"netmask,omitempty"`
	Gateway string `json:"gateway,omitempty"`
	DNS     string `json:"dns,omitempty"`
}

// BrowserFlagsRequest is the body of POST /api/browser/flags.
type BrowserFlagsRequest struct {
	Flags []string `json:"flags"`
}

// ToggleRequest is the body of the settings toggle endpoints.
type ToggleRequest struct {
	Enabled *bool `json:"enabled"`
}

// Status is the response of GET /api/status.
type Status struct {
	Name          string   `json:"name"`
	Room          string   `json:"room"`
	CurrentURL    string   `json:"current_url"`
	Uptime        int64    `json:"uptime"`
	CPUPercent    float64  `json:"cpu_percent"`
	MemoryPercent float64  `json:"memory_percent"`
	Temperature   *float64 `json:"temperature"`
	IPAddress     string   `json:"ip_address"`
	Timestamp     string   `json:"timestamp"`
}

// Result is the generic success/message response body.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// Timestamp formats t the way the Python agent did (ISO 8601, local time).
func Timestamp(t time.Time) string {
	return t.Format("2006-01-02T15:04:05.000000")
}
