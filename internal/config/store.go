// Package config handles loading and saving the signage agent's
// configuration document.
package config

import "github.com/css-signage/css-agent-go/internal/models"

// Store is the interface for persisting the configuration document.
type Store interface {
	// Load loads the current document. Returns DefaultConfig if no file exists.
	Load() (*models.Config, error)

	// Save persists the document. The write must be atomic: a crash mid-write
	// never leaves a partially written file behind.
	Save(cfg *models.Config) error

	// Path returns the file path used by this store.
	Path() string
}
