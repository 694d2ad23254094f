package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Search.Limit != 30 {
		t.Errorf("expected Limit=30, got %d", cfg.Search.Limit)
	}
	if cfg.Search.MinScore != 70 {
		t.Errorf("expected MinScore=70, got %d", cfg.Search.MinScore)
	}
	if cfg.Download.ChunkSize != 8192 {
		t.Errorf("expected ChunkSize=8192, got %d", cfg.Download.ChunkSize)
	}
	if cfg.HTTP.Timeout != 0 {
		t.Errorf("expected no timeout by default, got %v", cfg.HTTP.Timeout)
	}
	if _, ok := cfg.SourceURL(cfg.DefaultPlatform); !ok {
		t.Errorf("expected a source for the default platform %q", cfg.DefaultPlatform)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected defaults to validate, got %v", err)
	}
}

func TestLoad_NonExistent(t *testing.T) {
	cfg, err := Load("/nonexistent/path/config.yaml")
	if err != nil {
		t.Errorf("expected no error for non-existent file, got %v", err)
	}
	if cfg == nil {
		t.Error("expected default config, got nil")
	}
}

func TestLoad_ValidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, ConfigFile)

	content := `
sources:
  - platform: nes
    url: https://example.com/nes/
default_platform: nes
http:
  timeout: 30s
  max_concurrency: 8
search:
  limit: 10
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(cfg.Sources) != 1 || cfg.Sources[0].Platform != "nes" {
		t.Errorf("expected sources to be replaced, got %+v", cfg.Sources)
	}
	if cfg.HTTP.Timeout != 30*time.Second {
		t.Errorf("expected Timeout=30s, got %v", cfg.HTTP.Timeout)
	}
	if cfg.HTTP.MaxConc != 8 {
		t.Errorf("expected MaxConc=8, got %d", cfg.HTTP.MaxConc)
	}
	if cfg.Search.Limit != 10 {
		t.Errorf("expected Limit=10, got %d", cfg.Search.Limit)
	}
	if cfg.Search.MinScore != 70 {
		t.Errorf("expected MinScore to keep its default, got %d", cfg.Search.MinScore)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFile)
	if err := os.WriteFile(path, []byte("search: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected a parse error")
	}
}

func TestLoadFromDir(t *testing.T) {
	tmpDir := t.TempDir()
	if err := EnsureDataDir(tmpDir); err != nil {
		t.Fatal(err)
	}

	content := `
download:
  dir: roms
`
	if err := os.WriteFile(filepath.Join(DataDir(tmpDir), "config.yaml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromDir(tmpDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Download.Dir != "roms" {
		t.Errorf("expected Dir=roms, got %q", cfg.Download.Dir)
	}
	if got := cfg.DownloadDir(tmpDir); got != filepath.Join(tmpDir, "roms") {
		t.Errorf("unexpected download dir %s", got)
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFile)
	cfg := DefaultConfig()
	cfg.HTTP.Timeout = 90 * time.Second

	if err := cfg.Save(path); err != nil {
		t.Fatal(err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.HTTP.Timeout != 90*time.Second {
		t.Errorf("expected Timeout to survive a round trip, got %v", loaded.HTTP.Timeout)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"unknown default platform", func(c *Config) { c.DefaultPlatform = "n64" }},
		{"duplicate platform", func(c *Config) { c.Sources = append(c.Sources, c.Sources[0]) }},
		{"zero limit", func(c *Config) { c.Search.Limit = 0 }},
		{"min score above 100", func(c *Config) { c.Search.MinScore = 101 }},
		{"zero chunk size", func(c *Config) { c.Download.ChunkSize = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected a validation error")
			}
		})
	}
}

func TestPaths(t *testing.T) {
	dir := "/home/user/roms"
	if got, want := IndexPath(dir, "sg1000"), filepath.Join(dir, ".romdex", "sg1000-games.json"); got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
	if got, want := HistoryDBPath(dir), filepath.Join(dir, ".romdex", "history.db"); got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}
