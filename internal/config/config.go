// Package config loads the client configuration from a YAML file with
// environment variable overrides.
package config

import (
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ---------------------------------------------------------------------------
// Configuration structs
// ---------------------------------------------------------------------------

// Config is the top-level configuration for the augur client.
type Config struct {
	Server  Server  `yaml:"server"`
	Storage Storage `yaml:"storage"`
	Logging Logging `yaml:"logging"`
	UI      UI      `yaml:"ui"`
}

// Server points at the dashboard backend.
type Server struct {
	BaseURL string `yaml:"base_url"`
}

// Storage holds paths for local persistence.
type Storage struct {
	CachePath string `yaml:"cache_path"` // SQLite snapshot cache
	ExportDir string `yaml:"export_dir"` // parquet export target
}

// Logging configures the application logger.
type Logging struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"` // rotating log file; empty means stdout
}

// UI holds presentation settings that are not per-user preferences.
type UI struct {
	RefreshSeconds int `yaml:"refresh_seconds"`
}

// ---------------------------------------------------------------------------
// Loading
// ---------------------------------------------------------------------------

// Default returns the configuration used when no config file exists.
func Default() *Config {
	stateDir := "."
	if home, err := os.UserHomeDir(); err == nil {
		stateDir = filepath.Join(home, ".local", "share", "augur")
	}
	return &Config{
		Server:  Server{BaseURL: "http://localhost:8090"},
		Storage: Storage{CachePath: filepath.Join(stateDir, "cache.db"), ExportDir: filepath.Join(stateDir, "export")},
		Logging: Logging{Level: "info", File: filepath.Join(stateDir, "augur.log")},
		UI:      UI{RefreshSeconds: 30},
	}
}

// Load reads the YAML configuration file at the given path over the
// defaults, then applies environment variable overrides. A missing file is
// not an error; defaults plus env apply.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	applyEnvOverrides(cfg)

	return cfg, nil
}

// applyEnvOverrides checks well-known environment variables and overrides
// the corresponding configuration fields when they are set.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("AUGUR_SERVER_URL"); v != "" {
		cfg.Server.BaseURL = v
	}
	if v := os.Getenv("AUGUR_CACHE_PATH"); v != "" {
		cfg.Storage.CachePath = v
	}
	if v := os.Getenv("AUGUR_EXPORT_DIR"); v != "" {
		cfg.Storage.ExportDir = v
	}
	if v := os.Getenv("AUGUR_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("AUGUR_LOG_FILE"); v != "" {
		cfg.Logging.File = v
	}
	if v := os.Getenv("AUGUR_REFRESH_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.UI.RefreshSeconds = n
		}
	}
}

// DefaultPath returns the config file path under the user config dir, e.g.
// ~/.config/augur/config.yaml.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(dir, "augur", "config.yaml")
}
