package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultMaxResults is the number of suggestions shown per search
	DefaultMaxResults = 8

	// DefaultDatabaseURL serves the public DuckDuckGo bang database
	DefaultDatabaseURL = "https://duckduckgo.com/bang.js"

	// DefaultOpener opens URLs on the desktop
	DefaultOpener = "xdg-open"

	// DefaultWatchDebounceMs coalesces bursts of file events
	DefaultWatchDebounceMs = 250
)

// Config represents the gobangs configuration.
type Config struct {
	MaxResults         int      `yaml:"max_results"`          // Suggestions per search
	DefaultTriggers    []string `yaml:"default_triggers"`     // Opened when a query names no bang
	DedupByDestination bool     `yaml:"dedup_by_destination"` // Keep one bang per URL template
	CatalogPaths       []string `yaml:"catalog_paths"`        // db.json files, later ones override
	DatabaseURL        string   `yaml:"database_url"`         // Downloaded when no catalog exists
	StorePath          string   `yaml:"store_path"`           // SQLite store (empty = default)
	Opener             string   `yaml:"opener"`               // Command that opens a URL
	Watch              bool     `yaml:"watch"`                // Reload when catalog files change
	WatchDebounceMs    int      `yaml:"watch_debounce_ms"`    // Quiet period before a reload
	LogLevel           string   `yaml:"log_level"`            // debug, info, warn, error
	LogFile            string   `yaml:"log_file"`             // Log file (empty = stderr)
	Bangs              []Bang   `yaml:"bangs,omitempty"`      // Own bangs, override every database
}

// Bang is a shortcut defined in the config file itself
type Bang struct {
	Trigger     string `yaml:"trigger"`
	URL         string `yaml:"url"`
	Name        string `yaml:"name,omitempty"`
	Domain      string `yaml:"domain,omitempty"`
	Category    string `yaml:"category,omitempty"`
	Subcategory string `yaml:"subcategory,omitempty"`
	Relevance   int64  `yaml:"relevance,omitempty"`
}

// DefaultConfig returns the configuration used when no file exists
func DefaultConfig() *Config {
	paths := DefaultPaths()
	return &Config{
		MaxResults:      DefaultMaxResults,
		DefaultTriggers: []string{},
		CatalogPaths:    paths.CatalogFiles(),
		DatabaseURL:     DefaultDatabaseURL,
		StorePath:       paths.StoreFile(),
		Opener:          DefaultOpener,
		Watch:           true,
		WatchDebounceMs: DefaultWatchDebounceMs,
		LogLevel:        "info",
	}
}

// Load reads the config from the default location
func Load() (*Config, error) {
	paths := DefaultPaths()
	return LoadFromFile(paths.ConfigFile())
}

// LoadFromFile reads the config at path. A missing file yields the defaults.
// Environment overrides are applied in both cases.
func LoadFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.ApplyEnvOverrides()
	cfg.fillDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile writes the config as YAML, creating the directory
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// fillDefaults restores values an explicit empty YAML key cleared
func (c *Config) fillDefaults() {
	if c.StorePath == "" {
		c.StorePath = DefaultPaths().StoreFile()
	}
	if c.Opener == "" {
		c.Opener = DefaultOpener
	}
	if c.WatchDebounceMs == 0 {
		c.WatchDebounceMs = DefaultWatchDebounceMs
	}
	if len(c.CatalogPaths) == 0 {
		c.CatalogPaths = DefaultPaths().CatalogFiles()
	}
}

// Validate checks that the config is usable
func (c *Config) Validate() error {
	if c.MaxResults < 1 {
		return fmt.Errorf("max_results must be at least 1, got %d", c.MaxResults)
	}
	if c.WatchDebounceMs < 0 {
		return fmt.Errorf("watch_debounce_ms must not be negative, got %d", c.WatchDebounceMs)
	}
	if !isValidLogLevel(c.LogLevel) {
		return fmt.Errorf("invalid log_level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}
	for _, t := range c.DefaultTriggers {
		if t == "" || strings.ContainsAny(t, " \t\n") {
			return fmt.Errorf("invalid default trigger %q", t)
		}
	}
	if c.DatabaseURL != "" && !strings.HasPrefix(c.DatabaseURL, "http://") && !strings.HasPrefix(c.DatabaseURL, "https://") {
		return fmt.Errorf("database_url must be an http(s) URL, got %s", c.DatabaseURL)
	}
	return nil
}

func isValidLogLevel(level string) bool {
	switch level {
	case "debug", "info", "warn", "error":
		return true
	}
	return false
}

// ApplyEnvOverrides applies GOBANGS_* environment variables
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("GOBANGS_MAX_RESULTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.MaxResults = n
		}
	}
	if v, ok := os.LookupEnv("GOBANGS_DEFAULT_TRIGGERS"); ok {
		c.DefaultTriggers = splitList(v)
	}
	if v := os.Getenv("GOBANGS_DEDUP"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.DedupByDestination = b
		}
	}
	if v := os.Getenv("GOBANGS_DB_URL"); v != "" {
		c.DatabaseURL = v
	}
	if v := os.Getenv("GOBANGS_STORE_PATH"); v != "" {
		c.StorePath = v
	}
	if v := os.Getenv("GOBANGS_OPENER"); v != "" {
		c.Opener = v
	}
	if v := os.Getenv("GOBANGS_DEBUG"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil && b {
			c.LogLevel = "debug"
		}
	}
	if v := os.Getenv("GOBANGS_LOG_LEVEL"); v != "" {
		if isValidLogLevel(v) {
			c.LogLevel = v
		}
	}
}

// splitList parses "g, ddg" and "g ddg" alike
func splitList(v string) []string {
	return strings.FieldsFunc(v, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
}
