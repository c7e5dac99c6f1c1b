// Package config provides configuration management for gobangs.
package config

import (
	"os"
	"path/filepath"
)

const (
	appName = "gobangs"

	// pluginName is the launcher plugin directory holding db.json
	pluginName = "bangs"

	// CatalogFileName is the bang database file inside each plugin directory
	CatalogFileName = "db.json"
)

// System plugin directories, lowest precedence first
var systemPluginDirs = []string{
	"/usr/lib/pop-launcher/plugins",
	"/etc/pop-launcher/plugins",
}

// Paths holds the directories gobangs reads and writes
type Paths struct {
	// ConfigDir holds config.yaml (~/.config/gobangs)
	ConfigDir string

	// CacheDir holds the SQLite store (~/.cache/gobangs)
	CacheDir string

	// PluginDir is the user's launcher plugin directory
	// (~/.local/share/pop-launcher/plugins/bangs)
	PluginDir string
}

// DefaultPaths returns the default paths based on the XDG Base Directory spec
func DefaultPaths() *Paths {
	home := homeDir()

	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		configHome = filepath.Join(home, ".config")
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		dataHome = filepath.Join(home, ".local", "share")
	}

	cacheHome := os.Getenv("XDG_CACHE_HOME")
	if cacheHome == "" {
		cacheHome = filepath.Join(home, ".cache")
	}

	return &Paths{
		ConfigDir: filepath.Join(configHome, appName),
		CacheDir:  filepath.Join(cacheHome, appName),
		PluginDir: filepath.Join(dataHome, "pop-launcher", "plugins", pluginName),
	}
}

// ConfigFile returns the path to the main configuration file
func (p *Paths) ConfigFile() string {
	return filepath.Join(p.ConfigDir, "config.yaml")
}

// StoreFile returns the default SQLite store path
func (p *Paths) StoreFile() string {
	return filepath.Join(p.CacheDir, "bangs.db")
}

// UserCatalogFile is where a downloaded database is installed
func (p *Paths) UserCatalogFile() string {
	return filepath.Join(p.PluginDir, CatalogFileName)
}

// CatalogFiles lists every db.json location in merge order: system
// directories first, the user's last so it overrides them
func (p *Paths) CatalogFiles() []string {
	files := make([]string, 0, len(systemPluginDirs)+1)
	for _, dir := range systemPluginDirs {
		files = append(files, filepath.Join(dir, pluginName, CatalogFileName))
	}
	return append(files, p.UserCatalogFile())
}

func homeDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return os.Getenv("HOME")
}
