package storage_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"docbuilder/sqlitedb"
	"docbuilder/storage"
)

type quotaStorage interface {
	storage.Storage
	SetQuota(int)
}

func backends(t *testing.T) map[string]quotaStorage {
	t.Helper()
	f, err := storage.NewFile(filepath.Join(t.TempDir(), "storage.json"))
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}
	db, err := sqlitedb.Open(filepath.Join(t.TempDir(), "storage.db"), storage.Schema)
	if err != nil {
		t.Fatalf("sqlitedb.Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return map[string]quotaStorage{
		"file":   f,
		"sqlite": storage.NewSQLite(db),
	}
}

func TestSetGetRemove(t *testing.T) {
	ctx := context.Background()
	for name, st := range backends(t) {
		t.Run(name, func(t *testing.T) {
			if _, ok, err := st.GetItem(ctx, "c1", "k"); err != nil || ok {
				t.Fatalf("expected missing key, got ok=%v err=%v", ok, err)
			}
			if err := st.SetItem(ctx, "c1", "k", "v1"); err != nil {
				t.Fatalf("SetItem: %v", err)
			}
			if err := st.SetItem(ctx, "c1", "k", "v2"); err != nil {
				t.Fatalf("SetItem overwrite: %v", err)
			}
			v, ok, err := st.GetItem(ctx, "c1", "k")
			if err != nil || !ok || v != "v2" {
				t.Fatalf("GetItem = %q,%v,%v; want v2", v, ok, err)
			}
			if _, ok, _ := st.GetItem(ctx, "c2", "k"); ok {
				t.Fatal("namespaces must not share keys")
			}
			if err := st.RemoveItem(ctx, "c1", "k"); err != nil {
				t.Fatalf("RemoveItem: %v", err)
			}
			if _, ok, _ := st.GetItem(ctx, "c1", "k"); ok {
				t.Fatal("key still present after RemoveItem")
			}
			if err := st.RemoveItem(ctx, "c1", "absent"); err != nil {
				t.Fatalf("RemoveItem on missing key: %v", err)
			}
		})
	}
}

func TestQuotaExceeded(t *testing.T) {
	ctx := context.Background()
	for name, st := range backends(t) {
		t.Run(name, func(t *testing.T) {
			st.SetQuota(8)
			err := st.SetItem(ctx, "c", "k", strings.Repeat("x", 9))
			if !errors.Is(err, storage.ErrQuotaExceeded) {
				t.Fatalf("expected ErrQuotaExceeded, got %v", err)
			}
			if _, ok, _ := st.GetItem(ctx, "c", "k"); ok {
				t.Fatal("rejected value was stored")
			}
		})
	}
}

func TestFileReload(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "storage.json")
	f, _ := storage.NewFile(path)
	if err := f.SetItem(ctx, "c", "theme", "dark"); err != nil {
		t.Fatalf("SetItem: %v", err)
	}

	f2, err := storage.NewFile(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if v, ok, _ := f2.GetItem(ctx, "c", "theme"); !ok || v != "dark" {
		t.Fatalf("reloaded value = %q,%v", v, ok)
	}
}

func TestFileCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := storage.NewFile(path); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestFileConcurrentSet(t *testing.T) {
	ctx := context.Background()
	f, _ := storage.NewFile(filepath.Join(t.TempDir(), "storage.json"))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			f.SetItem(ctx, "c", string(rune('a'+i)), "v")
		}(i)
	}
	wg.Wait()

	for i := 0; i < 20; i++ {
		if _, ok, _ := f.GetItem(ctx, "c", string(rune('a'+i))); !ok {
			t.Fatalf("key %c lost", 'a'+i)
		}
	}
}

func TestQuotaChangesDuringWrites(t *testing.T) {
	ctx := context.Background()
	for name, st := range backends(t) {
		t.Run(name, func(t *testing.T) {
			var wg sync.WaitGroup
			for i := 0; i < 10; i++ {
				wg.Add(2)
				go func(i int) {
					defer wg.Done()
					st.SetQuota(64 + i)
				}(i)
				go func(i int) {
					defer wg.Done()
					if err := st.SetItem(ctx, "c", string(rune('a'+i)), "v"); err != nil {
						t.Errorf("SetItem: %v", err)
					}
				}(i)
			}
			wg.Wait()

			st.SetQuota(4)
			if err := st.SetItem(ctx, "c", "big", "trop long"); !errors.Is(err, storage.ErrQuotaExceeded) {
				t.Fatalf("expected ErrQuotaExceeded, got %v", err)
			}
		})
	}
}
