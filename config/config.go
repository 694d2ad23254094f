package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for romdex.
type Config struct {
	Sources         []SourceConfig `yaml:"sources"`
	DefaultPlatform string         `yaml:"default_platform"`
	Source          FilterConfig   `yaml:"source"`
	HTTP            HTTPConfig     `yaml:"http"`
	Search          SearchConfig   `yaml:"search"`
	Download        DownloadConfig `yaml:"download"`
	Logging         LoggingConfig  `yaml:"logging"`
}

// SourceConfig binds a platform name to its directory listing page.
type SourceConfig struct {
	Platform string `yaml:"platform"`
	URL      string `yaml:"url"`
}

// FilterConfig selects which listing entries become index candidates.
type FilterConfig struct {
	Includes []string `yaml:"includes"`
	Excludes []string `yaml:"excludes"`
}

// HTTPConfig holds request settings shared by probes and downloads.
type HTTPConfig struct {
	UserAgent string        `yaml:"user_agent"`
	Timeout   time.Duration `yaml:"timeout"`         // 0 = no timeout
	MaxConc   int           `yaml:"max_concurrency"` // probes in flight, 0 = unbounded
}

// SearchConfig holds ranking configuration.
type SearchConfig struct {
	Limit     int           `yaml:"limit"`
	MinScore  int           `yaml:"min_score"`
	CacheSize int           `yaml:"cache_size"`
	CacheTTL  time.Duration `yaml:"cache_ttl"`
}

// DownloadConfig holds download configuration.
type DownloadConfig struct {
	Dir       string `yaml:"dir"` // relative paths resolve against the root dir
	ChunkSize int    `yaml:"chunk_size"`
	MaxConc   int    `yaml:"max_concurrency"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Sources: []SourceConfig{
			{Platform: "sg1000", URL: "https://myrient.erista.me/files/No-Intro/Sega%20-%20SG-1000/"},
		},
		DefaultPlatform: "sg1000",
		Source: FilterConfig{
			Includes: []string{"*.zip"},
		},
		HTTP: HTTPConfig{
			UserAgent: "Mozilla/5.0",
		},
		Search: SearchConfig{
			Limit:     30,
			MinScore:  70,
			CacheSize: 100,
			CacheTTL:  5 * time.Minute,
		},
		Download: DownloadConfig{
			Dir:       ".",
			ChunkSize: 8192,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for romdex.yaml).
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, ConfigFile)
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	path = filepath.Join(DataDir(dir), "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	return DefaultConfig(), nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate reports settings no command could run with.
func (c *Config) Validate() error {
	seen := make(map[string]bool, len(c.Sources))
	for _, s := range c.Sources {
		if s.Platform == "" || s.URL == "" {
			return fmt.Errorf("source entries need both platform and url")
		}
		if seen[s.Platform] {
			return fmt.Errorf("duplicate source for platform %q", s.Platform)
		}
		seen[s.Platform] = true
	}
	if c.DefaultPlatform != "" && !seen[c.DefaultPlatform] {
		return fmt.Errorf("default_platform %q has no source", c.DefaultPlatform)
	}
	if c.Search.Limit <= 0 {
		return fmt.Errorf("search.limit must be positive, got %d", c.Search.Limit)
	}
	if c.Search.MinScore < 0 || c.Search.MinScore > 100 {
		return fmt.Errorf("search.min_score must be within 0..100, got %d", c.Search.MinScore)
	}
	if c.Download.ChunkSize <= 0 {
		return fmt.Errorf("download.chunk_size must be positive, got %d", c.Download.ChunkSize)
	}
	if c.HTTP.Timeout < 0 {
		return fmt.Errorf("http.timeout must not be negative")
	}
	return nil
}

// SourceURL returns the listing page for platform.
func (c *Config) SourceURL(platform string) (string, bool) {
	for _, s := range c.Sources {
		if s.Platform == platform {
			return s.URL, true
		}
	}
	return "", false
}

// ConfigFile is the name of the config file in the root directory.
const ConfigFile = "romdex.yaml"

// DataDir returns the directory holding indexes, taxonomy and history.
func DataDir(dir string) string {
	return filepath.Join(dir, ".romdex")
}

// IndexPath returns the path to the index file of platform.
func IndexPath(dir, platform string) string {
	return filepath.Join(DataDir(dir), platform+"-games.json")
}

// HistoryDBPath returns the path to the history database.
func HistoryDBPath(dir string) string {
	return filepath.Join(DataDir(dir), "history.db")
}

// DownloadDir resolves the configured download directory against dir.
func (c *Config) DownloadDir(dir string) string {
	if filepath.IsAbs(c.Download.Dir) {
		return c.Download.Dir
	}
	return filepath.Join(dir, c.Download.Dir)
}

// EnsureDataDir ensures the .romdex directory exists.
func EnsureDataDir(dir string) error {
	return os.MkdirAll(DataDir(dir), 0755)
}
