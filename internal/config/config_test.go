package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if !cfg.Codebase.CreateIfMissing {
		t.Error("expected create_if_missing to default to true")
	}
	if cfg.Search.MaxResults != 20 {
		t.Errorf("expected max_results 20, got %d", cfg.Search.MaxResults)
	}
	if cfg.Search.MaxBlocks != 20 {
		t.Errorf("expected max_blocks 20, got %d", cfg.Search.MaxBlocks)
	}
	if !cfg.Search.CaseSensitive {
		t.Error("expected case_sensitive to default to true")
	}
	if cfg.Limits.MaxFileSize != 1024*1024 {
		t.Errorf("expected max_file_size 1MB, got %d", cfg.Limits.MaxFileSize)
	}
	if cfg.Limits.MaxResultBytes != 256*1024 {
		t.Errorf("expected max_result_bytes 256KB, got %d", cfg.Limits.MaxResultBytes)
	}
	if !strings.Contains(cfg.Search.Include, "**/*.go") {
		t.Error("expected default include patterns to cover Go files")
	}
	if len(cfg.Search.Exclude) == 0 {
		t.Error("expected default exclude patterns")
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "text" {
		t.Errorf("unexpected logging defaults: %+v", cfg.Logging)
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, warnings, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(warnings) != 1 {
		t.Fatalf("expected one warning, got %v", warnings)
	}
	if cfg.Search.MaxResults != 20 {
		t.Errorf("expected default max_results, got %d", cfg.Search.MaxResults)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()

	cfg := DefaultConfig()
	cfg.Codebase.Root = "src"
	cfg.Search.MaxResults = 50
	cfg.Search.CaseSensitive = false
	cfg.Limits.MaxFileSize = 2048
	cfg.Logging.Level = "debug"

	if err := Save(dir, cfg); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, warnings, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
	if loaded.Codebase.Root != "src" {
		t.Errorf("expected root 'src', got %q", loaded.Codebase.Root)
	}
	if loaded.Search.MaxResults != 50 {
		t.Errorf("expected max_results 50, got %d", loaded.Search.MaxResults)
	}
	if loaded.Search.CaseSensitive {
		t.Error("expected case_sensitive false")
	}
	if loaded.Limits.MaxFileSize != 2048 {
		t.Errorf("expected max_file_size 2048, got %d", loaded.Limits.MaxFileSize)
	}
	if loaded.Logging.Level != "debug" {
		t.Errorf("expected log level debug, got %q", loaded.Logging.Level)
	}
}

func TestLoadBackfillsZeroValues(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(StateDir(dir), 0755); err != nil {
		t.Fatal(err)
	}

	partial := "codebase:\n  root: code\n"
	if err := os.WriteFile(ConfigPath(dir), []byte(partial), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, _, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Codebase.Root != "code" {
		t.Errorf("expected root 'code', got %q", cfg.Codebase.Root)
	}
	if cfg.Search.MaxResults != 20 {
		t.Errorf("expected backfilled max_results 20, got %d", cfg.Search.MaxResults)
	}
	if cfg.Limits.MaxFileSize != 1024*1024 {
		t.Errorf("expected backfilled max_file_size, got %d", cfg.Limits.MaxFileSize)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected backfilled log level, got %q", cfg.Logging.Level)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(StateDir(dir), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(ConfigPath(dir), []byte("codebase: [not: valid\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, _, err := Load(dir); err == nil {
		t.Error("expected error for malformed config")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults valid", func(c *Config) {}, false},
		{"negative max_results", func(c *Config) { c.Search.MaxResults = -1 }, true},
		{"negative max_blocks", func(c *Config) { c.Search.MaxBlocks = -5 }, true},
		{"negative max_file_size", func(c *Config) { c.Limits.MaxFileSize = -1 }, true},
		{"negative max_result_bytes", func(c *Config) { c.Limits.MaxResultBytes = -1 }, true},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }, true},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, true},
		{"empty logging fields valid", func(c *Config) { c.Logging.Level = ""; c.Logging.Format = "" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			errs := Validate(cfg)
			if tt.wantErr && len(errs) == 0 {
				t.Error("expected validation errors")
			}
			if !tt.wantErr && len(errs) > 0 {
				t.Errorf("unexpected validation errors: %v", errs)
			}
		})
	}
}

func TestPathHelpers(t *testing.T) {
	cfg := DefaultConfig()

	root := CodebaseRoot("/proj", cfg)
	if root != filepath.Join("/proj", "Project") {
		t.Errorf("unexpected default codebase root: %s", root)
	}

	cfg.Codebase.Root = "src"
	if got := CodebaseRoot("/proj", cfg); got != filepath.Join("/proj", "src") {
		t.Errorf("unexpected relative codebase root: %s", got)
	}

	cfg.Codebase.Root = "/abs/code"
	if got := CodebaseRoot("/proj", cfg); got != "/abs/code" {
		t.Errorf("unexpected absolute codebase root: %s", got)
	}

	if got := BackupDir("/proj", cfg); got != filepath.Join(StateDir("/proj"), "backups") {
		t.Errorf("unexpected default backup dir: %s", got)
	}

	cfg.Backup.Dir = "snapshots"
	if got := BackupDir("/proj", cfg); got != filepath.Join("/proj", "snapshots") {
		t.Errorf("unexpected relative backup dir: %s", got)
	}
}
