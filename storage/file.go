package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// File keeps every namespace in a single JSON document on disk.
type File struct {
	mu       sync.RWMutex
	filePath string
	quota    int
	data     map[string]map[string]string
}

// NewFile loads the store from filePath, or starts empty if the file does not
// exist. Returns an error only on unexpected I/O or decode failures.
func NewFile(filePath string) (*File, error) {
	f := &File{
		filePath: filePath,
		quota:    DefaultQuota,
		data:     make(map[string]map[string]string),
	}

	raw, err := os.ReadFile(filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return f, nil
		}
		return nil, err
	}
	if err := json.Unmarshal(raw, &f.data); err != nil {
		return nil, fmt.Errorf("storage: decode %s: %w", filePath, err)
	}
	if f.data == nil {
		f.data = make(map[string]map[string]string)
	}
	return f, nil
}

// SetQuota changes the per-value size limit in bytes.
func (f *File) SetQuota(n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.quota = n
}

func (f *File) GetItem(_ context.Context, ns, key string) (string, bool, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	v, ok := f.data[ns][key]
	return v, ok, nil
}

// SetItem overwrites the value and rewrites the file. On a write failure the
// in-memory state is left untouched.
func (f *File) SetItem(_ context.Context, ns, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(value) > f.quota {
		return ErrQuotaExceeded
	}

	next := f.clone()
	if next[ns] == nil {
		next[ns] = make(map[string]string)
	}
	next[ns][key] = value
	if err := f.writeAtomic(next); err != nil {
		return err
	}
	f.data = next
	return nil
}

func (f *File) RemoveItem(_ context.Context, ns, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.data[ns][key]; !ok {
		return nil
	}

	next := f.clone()
	delete(next[ns], key)
	if len(next[ns]) == 0 {
		delete(next, ns)
	}
	if err := f.writeAtomic(next); err != nil {
		return err
	}
	f.data = next
	return nil
}

// clone copies the namespace map. Caller must hold f.mu.
func (f *File) clone() map[string]map[string]string {
	out := make(map[string]map[string]string, len(f.data)+1)
	for ns, items := range f.data {
		cp := make(map[string]string, len(items)+1)
		for k, v := range items {
			cp[k] = v
		}
		out[ns] = cp
	}
	return out
}

// writeAtomic writes to a temp file then renames it over filePath.
func (f *File) writeAtomic(data map[string]map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(f.filePath), 0o755); err != nil {
		return err
	}

	tmp := f.filePath + ".tmp"
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, f.filePath)
}
