// Package config loads the optional sitefeed configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sitefeed/sitefeed/fetch"
)

// CacheConfig controls the page cache.
type CacheConfig struct {
	Dir        string `yaml:"dir"`
	TTLMinutes int    `yaml:"ttl_minutes"`
}

// StorageConfig points the saved-sources store at a database.
type StorageConfig struct {
	Driver string `yaml:"driver"` // "sqlite3" or "postgres"
	DSN    string `yaml:"dsn"`
}

// ServerConfig configures the HTTP front end.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// LogConfig configures the global logger.
type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSize    int    `yaml:"max_size"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAge     int    `yaml:"max_age"`
}

// FileConfig is the structure of ~/.sitefeed/config.yaml.
type FileConfig struct {
	Cache   CacheConfig   `yaml:"cache"`
	Storage StorageConfig `yaml:"storage"`
	Server  ServerConfig  `yaml:"server"`
	Log     LogConfig     `yaml:"log"`
}

// Default returns the configuration used when no file exists.
func Default() *FileConfig {
	return &FileConfig{
		Cache:   CacheConfig{TTLMinutes: int(fetch.DefaultTTL / time.Minute)},
		Storage: StorageConfig{Driver: "sqlite3", DSN: "sitefeed.db"},
		Server:  ServerConfig{Addr: "localhost:8080"},
	}
}

// Load reads the config file at SITEFEED_CONFIG, or ~/.sitefeed/config.yaml
// when unset. A missing file yields the defaults, not an error; a file that
// exists but cannot be parsed is an error.
func Load() (*FileConfig, error) {
	configPath := os.Getenv("SITEFEED_CONFIG")
	if configPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		configPath = filepath.Join(homeDir, ".sitefeed", "config.yaml")
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return Default(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// TTL converts the configured cache window to a duration, falling back to
// the fetch default when unset.
func (c CacheConfig) TTL() time.Duration {
	if c.TTLMinutes <= 0 {
		return fetch.DefaultTTL
	}
	return time.Duration(c.TTLMinutes) * time.Minute
}
