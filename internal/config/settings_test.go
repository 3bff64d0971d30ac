package config

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", `
default_output: ~/Media
default_format: worst
subtitles: true
concurrent_downloads: 4
rate_limit: 2M
`)

	cfg := Load(path, discardLogger())

	if cfg[KeyDefaultOutput] != "~/Media" {
		t.Errorf("Expected default_output '~/Media', got %v", cfg[KeyDefaultOutput])
	}
	if cfg[KeySubtitles] != true {
		t.Errorf("Expected subtitles true, got %v", cfg[KeySubtitles])
	}
	if cfg[KeyConcurrentDownloads] != 4 {
		t.Errorf("Expected concurrent_downloads 4, got %v", cfg[KeyConcurrentDownloads])
	}
	if cfg[KeyRateLimit] != "2M" {
		t.Errorf("Expected rate_limit '2M', got %v", cfg[KeyRateLimit])
	}
}

func TestLoad_Failures(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name string
		path string
	}{
		{"missing file", filepath.Join(dir, "absent.yaml")},
		{"broken yaml", writeFile(t, dir, "broken.yaml", "default_output: [unclosed\n")},
		{"not a mapping", writeFile(t, dir, "list.yaml", "- a\n- b\n")},
		{"empty file", writeFile(t, dir, "empty.yaml", "")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Load(tt.path, discardLogger())
			if cfg == nil {
				t.Fatal("Expected non-nil mapping")
			}
			if len(cfg) != 0 {
				t.Errorf("Expected empty mapping, got %v", cfg)
			}
		})
	}
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	created, err := WriteDefault(path)
	if err != nil {
		t.Fatalf("WriteDefault failed: %v", err)
	}
	if !created {
		t.Fatal("Expected file to be created")
	}

	cfg, err := Read(path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if cfg[KeyDefaultOutput] != DefaultOutput {
		t.Errorf("Expected default_output %q, got %v", DefaultOutput, cfg[KeyDefaultOutput])
	}
	if cfg[KeyMetadata] != true {
		t.Errorf("Expected metadata true, got %v", cfg[KeyMetadata])
	}
	if cfg[KeyConcurrentDownloads] != DefaultConcurrentDownloads {
		t.Errorf("Expected concurrent_downloads %d, got %v", DefaultConcurrentDownloads, cfg[KeyConcurrentDownloads])
	}
	if v, ok := cfg[KeyRateLimit]; !ok || v != nil {
		t.Errorf("Expected rate_limit present and null, got %v (present=%v)", v, ok)
	}

	// Existing file is left alone
	created, err = WriteDefault(path)
	if err != nil {
		t.Fatalf("Second WriteDefault failed: %v", err)
	}
	if created {
		t.Error("Expected existing config to be kept")
	}
}

func TestDefaultPath(t *testing.T) {
	path, err := DefaultPath()
	if err != nil {
		t.Skipf("No home directory: %v", err)
	}
	if filepath.Base(path) != "config.yaml" {
		t.Errorf("Expected config.yaml, got %s", filepath.Base(path))
	}
	if filepath.Base(filepath.Dir(path)) != "ytd" {
		t.Errorf("Expected ytd directory, got %s", filepath.Dir(path))
	}
}
