package config

import (
	"github.com/google/uuid"

	"github.com/css-signage/css-agent-go/internal/models"
)

// migrateConfig fills in fields that older documents (including ones written
// by the Python agent) do not have. Runs on every Load.
func migrateConfig(cfg *models.Config) {
	if cfg.DeviceID == "" {
		cfg.DeviceID = uuid.New().String()
	}
	if cfg.APIPort == 0 {
		cfg.APIPort = models.DefaultAPIPort
	}
	if cfg.DisplayURL == "" {
		cfg.DisplayURL = models.WaitingPageURL(cfg.APIPort)
	}
	if !models.ValidRotation(cfg.ScreenRotation) {
		cfg.ScreenRotation = 0
	}
	if cfg.Playlist.Images == nil {
		cfg.Playlist.Images = []string{}
	}
	if cfg.Playlist.DisplayTime <= 0 {
		cfg.Playlist.DisplayTime = 10
	}
	if cfg.Playlist.FadeTime < 0 {
		cfg.Playlist.FadeTime = 0
	}
}
