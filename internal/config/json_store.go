package config

import (
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/css-signage/css-agent-go/internal/models"
)

const configFileName = "config.json"

// JSONStore is an atomic JSON file store. Writes go to a temp file which is
// renamed over the real one, so readers always see a complete document.
type JSONStore struct {
	mu   sync.Mutex
	path string
}

// NewJSONStore creates a new JSON store in the given config directory.
func NewJSONStore(configDir string) *JSONStore {
	return &JSONStore{
		path: filepath.Join(configDir, configFileName),
	}
}

// Path returns the file path used by this store.
func (s *JSONStore) Path() string { return s.path }

// Load reads the document from disk. Returns DefaultConfig on ENOENT or
// parse errors so a corrupt file never takes the agent down.
func (s *JSONStore) Load() (*models.Config, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			def := models.DefaultConfig()
			return &def, nil
		}
		return nil, err
	}

	var cfg models.Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		slog.Warn("config: corrupt JSON config, using defaults", "path", s.path, "err", err)
		def := models.DefaultConfig()
		return &def, nil
	}

	migrateConfig(&cfg)
	return &cfg, nil
}

// Save writes the document to disk atomically (temp file + rename).
func (s *JSONStore) Save(cfg *models.Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeAtomic(cfg)
}

func (s *JSONStore) writeAtomic(cfg *models.Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}

	// Write to temp file, fsync, then rename (atomic on Linux)
	tmpPath := s.path + ".tmp"
	f, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
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
	return os.Rename(tmpPath, s.path)
}
