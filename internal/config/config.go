// Package config provides configuration loading and structs for the Sortify server.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sortify/sortify/internal/ranking"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug    bool           `yaml:"debug"`
	Server   ServerConfig   `yaml:"server"`
	Storage  StorageConfig  `yaml:"storage"`
	Catalog  CatalogConfig  `yaml:"catalog"`
	Provider ProviderConfig `yaml:"provider"`
	Ranking  ranking.Config `yaml:"ranking"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// StorageConfig holds the preference database path.
type StorageConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// CatalogConfig holds the variant-A catalog source settings.
type CatalogConfig struct {
	// Source is an http(s) URL or a local file path to a JSON product array.
	Source string `yaml:"source"`
	// DetailBaseURL prefixes product IDs to form detail links.
	DetailBaseURL string `yaml:"detail_base_url"`
	// Watch reloads local file sources on change.
	Watch bool `yaml:"watch"`
}

// ProviderConfig holds the variant-B remote search API settings.
type ProviderConfig struct {
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Load reads and parses the config file at path, expands paths, and applies
// defaults. Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)

	configDir := filepath.Dir(path)
	cfg.Storage.DatabasePath = expandPath(cfg.Storage.DatabasePath, configDir)
	if !strings.HasPrefix(cfg.Catalog.Source, "http://") && !strings.HasPrefix(cfg.Catalog.Source, "https://") {
		cfg.Catalog.Source = expandPath(cfg.Catalog.Source, configDir)
	}

	return &cfg, nil
}

// expandPath converts a path to absolute. Paths starting with "./" are
// relative to configDir; other relative paths are relative to the home
// directory.
func expandPath(path string, configDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
