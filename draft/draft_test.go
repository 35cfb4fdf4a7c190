package draft_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"docbuilder/draft"
	"docbuilder/editor"
	"docbuilder/storage"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newStore(t *testing.T, c *clock) (*draft.Store, *storage.File) {
	t.Helper()
	st, err := storage.NewFile(filepath.Join(t.TempDir(), "storage.json"))
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}
	return draft.NewStore(st, draft.WithClock(c.now)), st
}

func sampleState() *editor.State {
	s := editor.NewState()
	s.Title = "Contrat CDI"
	s.Description = "Modèle standard"
	s.Category = "rh"
	s.IsPublic = true
	s.SetContent("Entre {{nom_entreprise}} et {{nom_employe}}")
	return s
}

func TestSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := &clock{t: time.Date(2026, 10, 16, 10, 0, 0, 0, time.UTC)}
	store, _ := newStore(t, c)

	rec := draft.FromState(sampleState(), c.now())
	if err := store.Save(ctx, "client-1", rec); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, ok := store.Load(ctx, "client-1")
	if !ok {
		t.Fatal("fresh draft not found")
	}
	if diff := cmp.Diff(rec, got); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}

	restored := editor.NewState()
	got.Apply(restored)
	want := sampleState()
	if diff := cmp.Diff(want, restored); diff != "" {
		t.Fatalf("restored state mismatch (-want +got):\n%s", diff)
	}
}

func TestStoredJSONShape(t *testing.T) {
	ctx := context.Background()
	c := &clock{t: time.UnixMilli(1_700_000_000_000)}
	store, st := newStore(t, c)
	store.Save(ctx, "c", draft.FromState(sampleState(), c.now()))

	raw, ok, _ := st.GetItem(ctx, "c", draft.Key)
	if !ok {
		t.Fatalf("nothing stored under %q", draft.Key)
	}
	for _, want := range []string{`"isPublic":true`, `"timestamp":1700000000000`, `"title":"Contrat CDI"`} {
		if !strings.Contains(raw, want) {
			t.Errorf("stored draft %s lacks %s", raw, want)
		}
	}
}

func TestStaleDraftIgnored(t *testing.T) {
	ctx := context.Background()
	c := &clock{t: time.Date(2026, 10, 16, 10, 0, 0, 0, time.UTC)}
	store, _ := newStore(t, c)
	store.Save(ctx, "c", draft.FromState(sampleState(), c.now()))

	c.t = c.t.Add(draft.MaxAge - time.Minute)
	if _, ok := store.Load(ctx, "c"); !ok {
		t.Fatal("draft inside the window should load")
	}
	c.t = c.t.Add(2 * time.Minute)
	if _, ok := store.Load(ctx, "c"); ok {
		t.Fatal("draft older than 24h must not be offered")
	}
}

func TestCorruptDraftLogged(t *testing.T) {
	ctx := context.Background()
	st, _ := storage.NewFile(filepath.Join(t.TempDir(), "storage.json"))
	st.SetItem(ctx, "c", draft.Key, "{oops")

	var buf bytes.Buffer
	store := draft.NewStore(st, draft.WithLogger(slog.New(slog.NewTextHandler(&buf, nil))))
	if _, ok := store.Load(ctx, "c"); ok {
		t.Fatal("corrupt draft must not load")
	}
	if !strings.Contains(buf.String(), "draft is corrupt") {
		t.Fatalf("expected a log line, got %q", buf.String())
	}
}

func TestDiscard(t *testing.T) {
	ctx := context.Background()
	c := &clock{t: time.Now()}
	store, _ := newStore(t, c)
	store.Save(ctx, "c", draft.FromState(sampleState(), c.now()))
	if err := store.Discard(ctx, "c"); err != nil {
		t.Fatalf("Discard: %v", err)
	}
	if _, ok := store.Load(ctx, "c"); ok {
		t.Fatal("draft still present after Discard")
	}
}

type failingStorage struct{ storage.Storage }

func (failingStorage) SetItem(context.Context, string, string, string) error {
	return storage.ErrQuotaExceeded
}

func TestSaveWrapsStorageError(t *testing.T) {
	store := draft.NewStore(failingStorage{})
	err := store.Save(context.Background(), "c", draft.Record{Content: "x"})
	if !errors.Is(err, storage.ErrQuotaExceeded) {
		t.Fatalf("expected ErrQuotaExceeded, got %v", err)
	}
}
