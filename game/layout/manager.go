package layout

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

var ErrLayoutNotFound = errors.New("layout not found")

// Info describes a stored layout
type Info struct {
	Filename    string `json:"filename"`
	LayoutID    string `json:"layout_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Manager loads and caches layouts stored as JSON files in one directory
type Manager struct {
	dir     string
	layouts map[string]*Layout
	mu      sync.RWMutex
}

// NewManager creates a layout manager for dir
func NewManager(dir string) (*Manager, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("layout directory does not exist: %s", dir)
		}
		return nil, fmt.Errorf("failed to stat layout directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("layout path is not a directory: %s", dir)
	}

	return &Manager{
		dir:     dir,
		layouts: make(map[string]*Layout),
	}, nil
}

// Get loads a layout by ID (its file name without .json)
func (m *Manager) Get(id string) (*Layout, error) {
	m.mu.RLock()
	if l, exists := m.layouts[id]; exists {
		m.mu.RUnlock()
		return l, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if l, exists := m.layouts[id]; exists {
		return l, nil
	}

	data, err := os.ReadFile(m.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrLayoutNotFound, id)
		}
		return nil, fmt.Errorf("failed to read layout file: %w", err)
	}

	l, err := Parse(data)
	if err != nil {
		return nil, err
	}

	m.layouts[id] = l
	return l, nil
}

// List returns the valid layouts in the directory. Invalid files are skipped.
func (m *Manager) List() ([]*Info, error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read layout directory: %w", err)
	}

	var infos []*Info
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		id := strings.TrimSuffix(entry.Name(), ".json")
		l, err := m.Get(id)
		if err != nil {
			continue
		}

		infos = append(infos, &Info{
			Filename:    entry.Name(),
			LayoutID:    id,
			Name:        l.Name,
			Description: l.Description,
		})
	}

	return infos, nil
}

// Save validates a layout and writes it to the directory under id
func (m *Manager) Save(id string, l *Layout) error {
	if err := l.Validate(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal layout: %w", err)
	}

	if err := os.WriteFile(m.path(id), data, 0644); err != nil {
		return fmt.Errorf("failed to write layout file: %w", err)
	}

	m.mu.Lock()
	m.layouts[id] = l
	m.mu.Unlock()

	return nil
}

// Refresh drops every cached layout
func (m *Manager) Refresh() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.layouts = make(map[string]*Layout)
}

func (m *Manager) path(id string) string {
	filename := filepath.Base(id)
	if !strings.HasSuffix(filename, ".json") {
		filename += ".json"
	}
	return filepath.Join(m.dir, filename)
}
