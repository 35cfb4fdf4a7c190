// Package config loads the service configuration from YAML and the
// environment.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the full service configuration.
type Config struct {
	Listen   string        `yaml:"listen"`
	DataDir  string        `yaml:"data_dir"`
	LogLevel string        `yaml:"log_level"`
	Storage  StorageConfig `yaml:"storage"`
	Editor   EditorConfig  `yaml:"editor"`
	Upload   UploadConfig  `yaml:"upload"`
	Notify   NotifyConfig  `yaml:"notify"`
}

// StorageConfig selects where client storage lives.
type StorageConfig struct {
	Backend string `yaml:"backend"` // file | sqlite
}

// EditorConfig tunes the live editor session.
type EditorConfig struct {
	AutosaveInterval  time.Duration `yaml:"autosave_interval"`
	RestoreDelay      time.Duration `yaml:"restore_delay"`
	PreviewDebounce   time.Duration `yaml:"preview_debounce"`
	FieldDisplayLimit int           `yaml:"field_display_limit"`
}

// UploadConfig configures file intake.
type UploadConfig struct {
	MaxFileMB int    `yaml:"max_file_mb"`
	Accept    string `yaml:"accept"`
	Multiple  bool   `yaml:"multiple"`
}

// NotifyConfig configures toasts.
type NotifyConfig struct {
	Duration time.Duration `yaml:"duration"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Listen:   ":8080",
		DataDir:  "data",
		LogLevel: "info",
		Storage:  StorageConfig{Backend: "sqlite"},
		Editor: EditorConfig{
			AutosaveInterval:  30 * time.Second,
			RestoreDelay:      500 * time.Millisecond,
			PreviewDebounce:   150 * time.Millisecond,
			FieldDisplayLimit: 6,
		},
		Upload: UploadConfig{
			MaxFileMB: 10,
			Accept:    "*/*",
		},
		Notify: NotifyConfig{Duration: 4 * time.Second},
	}
}

// Load reads the YAML file at path over the defaults. An empty path yields
// the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// ApplyEnv overrides settings from PORT, DATA_DIR and LOG_LEVEL.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if port := getenv("PORT"); port != "" {
		c.Listen = ":" + port
	}
	if dir := getenv("DATA_DIR"); dir != "" {
		c.DataDir = dir
	}
	if lvl := getenv("LOG_LEVEL"); lvl != "" {
		c.LogLevel = lvl
	}
}

// Validate checks that values are usable.
func (c *Config) Validate() error {
	if c.Listen == "" {
		return fmt.Errorf("listen is required")
	}
	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}
	switch c.Storage.Backend {
	case "file", "sqlite":
	default:
		return fmt.Errorf("unsupported storage backend %q (use file or sqlite)", c.Storage.Backend)
	}
	if c.Upload.MaxFileMB <= 0 {
		return fmt.Errorf("upload.max_file_mb must be > 0")
	}
	if c.Editor.AutosaveInterval <= 0 {
		return fmt.Errorf("editor.autosave_interval must be > 0")
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// MaxFileBytes returns the upload limit in bytes.
func (c *Config) MaxFileBytes() int64 { return int64(c.Upload.MaxFileMB) << 20 }

// DBPath is the SQLite database holding templates and, with the sqlite
// backend, client storage.
func (c *Config) DBPath() string { return filepath.Join(c.DataDir, "docbuilder.db") }

// StoragePath is the JSON file used by the file storage backend.
func (c *Config) StoragePath() string { return filepath.Join(c.DataDir, "storage.json") }

// SnippetsPath is the JSON file holding user snippets.
func (c *Config) SnippetsPath() string { return filepath.Join(c.DataDir, "snippets.json") }

// SlogLevel returns LogLevel as a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	lvl, err := parseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return lvl
}

func parseLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return 0, fmt.Errorf("invalid log_level %q", s)
	}
	return lvl, nil
}
