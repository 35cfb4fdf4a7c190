package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"docbuilder/config"
)

func TestLoadEmptyPathGivesDefaults(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(config.Default(), cfg); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}
	if cfg.MaxFileBytes() != 10<<20 {
		t.Fatalf("MaxFileBytes = %d", cfg.MaxFileBytes())
	}
}

func TestLoadMergesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docbuilder.yaml")
	os.WriteFile(path, []byte(`
listen: ":9090"
storage:
  backend: file
editor:
  autosave_interval: 10s
upload:
  multiple: true
`), 0o644)

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Listen != ":9090" || cfg.Storage.Backend != "file" || !cfg.Upload.Multiple {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.Editor.AutosaveInterval != 10*time.Second {
		t.Fatalf("autosave_interval = %v", cfg.Editor.AutosaveInterval)
	}
	if cfg.Editor.RestoreDelay != 500*time.Millisecond || cfg.Upload.MaxFileMB != 10 {
		t.Fatalf("defaults lost: %+v", cfg)
	}
}

func TestLoadRejectsBadBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.yaml")
	os.WriteFile(path, []byte("storage:\n  backend: redis\n"), 0o644)
	if _, err := config.Load(path); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected read error")
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{"PORT": "7000", "DATA_DIR": "/srv/db", "LOG_LEVEL": "debug"}
	cfg := config.Default()
	cfg.ApplyEnv(func(k string) string { return env[k] })

	if cfg.Listen != ":7000" || cfg.DataDir != "/srv/db" {
		t.Fatalf("env not applied: %+v", cfg)
	}
	if cfg.SlogLevel() != slog.LevelDebug {
		t.Fatalf("SlogLevel = %v", cfg.SlogLevel())
	}
	if cfg.DBPath() != filepath.Join("/srv/db", "docbuilder.db") {
		t.Fatalf("DBPath = %s", cfg.DBPath())
	}
}
