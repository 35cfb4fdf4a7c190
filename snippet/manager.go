// Package snippet manages the blocks of text offered by the editor's insert
// menu: a fixed set of built-ins plus snippets saved by the user.
package snippet

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
)

const maxRecent = 10

// Manager handles loading, saving, and updating the snippet library.
type Manager struct {
	mu       sync.RWMutex
	filePath string
	lib      Library
}

// NewManager loads the library from filePath, or starts empty if the file
// does not exist. Returns an error only on unexpected I/O failures.
func NewManager(filePath string) (*Manager, error) {
	m := &Manager{filePath: filePath, lib: Library{Snippets: []Snippet{}, RecentlyUsed: []string{}}}

	data, err := os.ReadFile(filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return m, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(data, &m.lib); err != nil {
		return nil, fmt.Errorf("snippet: decode %s: %w", filePath, err)
	}
	if m.lib.Snippets == nil {
		m.lib.Snippets = []Snippet{}
	}
	if m.lib.RecentlyUsed == nil {
		m.lib.RecentlyUsed = []string{}
	}
	return m, nil
}

// Get returns the built-ins followed by the user's snippets, and the MRU
// list.
func (m *Manager) Get() Library {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := make([]Snippet, 0, len(builtIns)+len(m.lib.Snippets))
	for _, b := range builtIns {
		b.BuiltIn = true
		all = append(all, b)
	}
	all = append(all, m.lib.Snippets...)
	ru := make([]string, len(m.lib.RecentlyUsed))
	copy(ru, m.lib.RecentlyUsed)
	return Library{Snippets: all, RecentlyUsed: ru}
}

// Lookup returns the snippet with id.
func (m *Manager) Lookup(id string) (Snippet, error) {
	for _, s := range m.Get().Snippets {
		if s.ID == id {
			return s, nil
		}
	}
	return Snippet{}, ErrNotFound
}

// Save replaces the user's snippets. Built-ins in lib are ignored, snippets
// without an id get one, and recentlyUsed is filtered to known ids.
func (m *Manager) Save(lib Library) error {
	custom := make([]Snippet, 0, len(lib.Snippets))
	for _, s := range lib.Snippets {
		if s.BuiltIn {
			continue
		}
		if isBuiltIn(s.ID) {
			return fmt.Errorf("%w: %q", ErrReserved, s.ID)
		}
		if s.ID == "" {
			s.ID = uuid.New().String()
		}
		custom = append(custom, s)
	}
	lib.Snippets = custom

	m.mu.Lock()
	defer m.mu.Unlock()
	lib.RecentlyUsed = m.filterRecent(lib.RecentlyUsed, custom)
	if err := m.writeAtomic(lib); err != nil {
		return err
	}
	m.lib = lib
	return nil
}

// MarkUsed prepends id to the recentlyUsed list (deduplicating, capping at
// 10, and dropping ids that no longer exist). An unknown id is ignored.
func (m *Manager) MarkUsed(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.knownLocked(id, m.lib.Snippets) {
		return nil
	}
	recent := m.filterRecent(append([]string{id}, m.lib.RecentlyUsed...), m.lib.Snippets)
	next := m.lib
	next.RecentlyUsed = recent
	if err := m.writeAtomic(next); err != nil {
		return err
	}
	m.lib = next
	return nil
}

func (m *Manager) knownLocked(id string, custom []Snippet) bool {
	if isBuiltIn(id) {
		return true
	}
	for _, s := range custom {
		if s.ID == id {
			return true
		}
	}
	return false
}

func (m *Manager) filterRecent(ids []string, custom []Snippet) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, maxRecent)
	for _, id := range ids {
		if seen[id] || !m.knownLocked(id, custom) {
			continue
		}
		seen[id] = true
		out = append(out, id)
		if len(out) == maxRecent {
			break
		}
	}
	return out
}

// writeAtomic writes to a temp file then renames it over filePath.
// Caller must hold m.mu.
func (m *Manager) writeAtomic(lib Library) error {
	if err := os.MkdirAll(filepath.Dir(m.filePath), 0o755); err != nil {
		return err
	}

	tmp := m.filePath + ".tmp"
	data, err := json.MarshalIndent(lib, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, m.filePath)
}
