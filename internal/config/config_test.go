package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInitAndLoad(t *testing.T) {
	dir := filepath.Join(t.TempDir(), DefaultDir)

	cfg, err := Init(dir, "groceries")
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if cfg.Dir() != dir {
		t.Errorf("Dir = %q, want %q", cfg.Dir(), dir)
	}

	loaded, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Name != "groceries" || loaded.StorageKey != DefaultStorageKey {
		t.Errorf("loaded = %+v", loaded)
	}
	if loaded.DateFormat() != DefaultDateFormat {
		t.Errorf("DateFormat = %q", loaded.DateFormat())
	}
}

func TestLoadMissing(t *testing.T) {
	if _, err := Load(t.TempDir()); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load error = %v, want ErrNotFound", err)
	}
}

func TestMigrateV1(t *testing.T) {
	dir := t.TempDir()
	v1 := "version: 1\nname: old list\n"
	if err := os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(v1), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Version != CurrentVersion {
		t.Errorf("Version = %d, want %d", cfg.Version, CurrentVersion)
	}
	if cfg.StorageKey != DefaultStorageKey {
		t.Errorf("StorageKey = %q", cfg.StorageKey)
	}

	// The migrated config is persisted.
	data, err := os.ReadFile(filepath.Join(dir, ConfigFileName))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "version: 2") {
		t.Errorf("migrated config not saved:\n%s", data)
	}
}

func TestMigrateRejectsNewer(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ConfigFileName), []byte("version: 99\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(dir); !errors.Is(err, ErrInvalid) {
		t.Errorf("Load error = %v, want ErrInvalid", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"empty name", func(c *Config) { c.Name = "  " }},
		{"empty key", func(c *Config) { c.StorageKey = "" }},
		{"key with slash", func(c *Config) { c.StorageKey = "a/b" }},
		{"bad level", func(c *Config) { c.Logging.Level = "trace" }},
		{"bad version", func(c *Config) { c.Version = 1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefault("x")
			tt.modify(cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
				t.Errorf("Validate error = %v, want ErrInvalid", err)
			}
		})
	}

	cfg := NewDefault("")
	cfg.Logging.Level = "DEBUG"
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestFindDir(t *testing.T) {
	root := t.TempDir()
	dataDir := filepath.Join(root, DefaultDir)
	if _, err := Init(dataDir, ""); err != nil {
		t.Fatal(err)
	}
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o750); err != nil {
		t.Fatal(err)
	}

	got, err := FindDir(nested)
	if err != nil {
		t.Fatalf("FindDir: %v", err)
	}
	if got != dataDir {
		t.Errorf("FindDir = %q, want %q", got, dataDir)
	}

	got, err = FindDir(dataDir)
	if err != nil || got != dataDir {
		t.Errorf("FindDir inside data dir = (%q, %v)", got, err)
	}
}
