package config

import (
	"sync"

	"github.com/css-signage/css-agent-go/internal/models"
)

// MemStore is an in-memory Store for tests that never writes to disk.
type MemStore struct {
	mu  sync.Mutex
	cfg *models.Config
}

// NewMemStore returns a new in-memory store with nil document (defaults to
// DefaultConfig on Load).
func NewMemStore() *MemStore {
	return &MemStore{}
}

// Load returns a copy of the stored document, or DefaultConfig if none has
// been saved yet.
func (m *MemStore) Load() (*models.Config, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cfg == nil {
		def := models.DefaultConfig()
		return &def, nil
	}
	cp := m.cfg.DeepCopy()
	return &cp, nil
}

// Save stores a deep copy of the given document in memory.
func (m *MemStore) Save(cfg *models.Config) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := cfg.DeepCopy()
	m.cfg = &cp
	return nil
}

// Path returns ":memory:" to indicate this is an in-memory store.
func (m *MemStore) Path() string { return ":memory:" }

// Ensure MemStore implements config.Store
var _ Store = (*MemStore)(nil)
