package state

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Manager manages reading/writing the snapshot file.
// It uses a Mutex for thread-safety.
type Manager struct {
	FilePath string
	Current  *Snapshot
	mu       sync.RWMutex
}

// NewManager creates a snapshot manager and loads the existing file. A
// missing file is not an error; the first save creates it.
func NewManager(path string) (*Manager, error) {
	mgr := &Manager{
		FilePath: path,
		Current:  NewSnapshot(),
	}

	if err := mgr.Load(); err != nil && !os.IsNotExist(err) {
		return nil, err
	}

	return mgr, nil
}

// Load reads the snapshot file from disk.
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := os.ReadFile(m.FilePath)
	if err != nil {
		return err
	}

	return json.Unmarshal(data, m.Current)
}

// Save writes the current snapshot to disk, creating the directory if
// needed.
func (m *Manager) Save() error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, err := json.MarshalIndent(m.Current, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(m.FilePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	return os.WriteFile(m.FilePath, data, 0644)
}

// Replace swaps in a fresh snapshot and stamps it.
func (m *Manager) Replace(snap *Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if snap.Taken.IsZero() {
		snap.Taken = time.Now()
	}
	if snap.Version == "" {
		snap.Version = "1.0"
	}
	m.Current = snap
}
