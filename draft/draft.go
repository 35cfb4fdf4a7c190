// Package draft autosaves the editor form to client storage and offers it
// back when the editor is reopened.
package draft

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"docbuilder/editor"
	"docbuilder/storage"
)

const (
	// Key is the storage key of the draft inside a client namespace.
	Key = "template_draft"

	// MaxAge is how long a draft stays eligible for restore.
	MaxAge = 24 * time.Hour

	RestorePrompt = "Un brouillon récent a été trouvé. Voulez-vous le charger ?"
)

// Record is the stored draft. Timestamp is in milliseconds since the epoch.
type Record struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Content     string `json:"content"`
	Category    string `json:"category"`
	IsPublic    bool   `json:"isPublic"`
	Timestamp   int64  `json:"timestamp"`
}

// FromState captures the form at now.
func FromState(s *editor.State, now time.Time) Record {
	return Record{
		Title:       s.Title,
		Description: s.Description,
		Content:     s.Content,
		Category:    s.Category,
		IsPublic:    s.IsPublic,
		Timestamp:   now.UnixMilli(),
	}
}

// SavedAt returns the capture time.
func (r Record) SavedAt() time.Time {
	return time.UnixMilli(r.Timestamp)
}

// Fresh reports whether the draft is younger than MaxAge at now.
func (r Record) Fresh(now time.Time) bool {
	return now.Sub(r.SavedAt()) < MaxAge
}

// Worth reports whether the form holds enough to be autosaved.
func (r Record) Worth() bool {
	return strings.TrimSpace(r.Content) != ""
}

// Apply overwrites the form with the draft and rescans the content. An empty
// category leaves the current selection alone.
func (r Record) Apply(s *editor.State) {
	s.Title = r.Title
	s.Description = r.Description
	if r.Category != "" {
		s.Category = r.Category
	}
	s.IsPublic = r.IsPublic
	s.SetContent(r.Content)
}

// Store reads and writes drafts in a Storage.
type Store struct {
	storage storage.Storage
	now     func() time.Time
	log     *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option { return func(s *Store) { s.now = now } }

// WithLogger sets the logger used for swallowed storage errors.
func WithLogger(l *slog.Logger) Option { return func(s *Store) { s.log = l } }

// NewStore creates a Store on top of st.
func NewStore(st storage.Storage, opts ...Option) *Store {
	s := &Store{storage: st, now: time.Now, log: slog.Default()}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Now returns the store's clock reading.
func (s *Store) Now() time.Time {
	return s.now()
}

// Save overwrites the namespace's draft with r.
func (s *Store) Save(ctx context.Context, ns string, r Record) error {
	raw, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("draft: encode: %w", err)
	}
	if err := s.storage.SetItem(ctx, ns, Key, string(raw)); err != nil {
		return fmt.Errorf("draft: save: %w", err)
	}
	return nil
}

// Load returns the namespace's draft when one exists and is still fresh.
// Read and decode failures are logged and reported as no draft.
func (s *Store) Load(ctx context.Context, ns string) (Record, bool) {
	raw, ok, err := s.storage.GetItem(ctx, ns, Key)
	if err != nil {
		s.log.Warn("draft load failed", "namespace", ns, "error", err)
		return Record{}, false
	}
	if !ok {
		return Record{}, false
	}

	var r Record
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		s.log.Warn("draft is corrupt", "namespace", ns, "error", err)
		return Record{}, false
	}
	if !r.Fresh(s.now()) {
		return Record{}, false
	}
	return r, true
}

// Discard deletes the namespace's draft.
func (s *Store) Discard(ctx context.Context, ns string) error {
	if err := s.storage.RemoveItem(ctx, ns, Key); err != nil {
		return fmt.Errorf("draft: discard: %w", err)
	}
	return nil
}
