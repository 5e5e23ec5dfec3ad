// Package config loads plotkeep configuration from file and environment.
//
// Precedence (highest to lowest):
//  1. Environment variables (PLOTKEEP_*)
//  2. Config file
//  3. Built-in defaults
//
// Config file search order:
//  1. .plotkeep.yaml in current directory
//  2. ~/.config/plotkeep/config.yaml
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all plotkeep configuration.
type Config struct {
	// Workspace is the directory output trees are created under.
	// Empty means the target script's own directory.
	Workspace string `yaml:"workspace"`

	// Figure canvas size in pixels for captured images.
	Width  int `yaml:"width"`
	Height int `yaml:"height"`

	// Theme selects the console color theme: "dark" or "light".
	Theme string `yaml:"theme"`

	// OTEL
	OTELEndpoint string `yaml:"otel_endpoint"`
	OTELHeaders  string `yaml:"otel_headers"` // Comma-separated key=value pairs, e.g. "Authorization=Basic abc123"

	// ConfigFile is the path to the config file that was loaded (empty if none).
	ConfigFile string `yaml:"-"`
}

// Defaults returns a Config with all default values.
func Defaults() *Config {
	return &Config{
		Width:  1024,
		Height: 768,
		Theme:  "dark",
	}
}

// Load reads configuration from file and environment variables.
// Environment variables always override file values.
func Load() (*Config, error) {
	cfg := Defaults()

	// Try to load config file
	if path, data, err := findConfigFile(); err == nil {
		var fileCfg Config
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
		cfg.ConfigFile = path
		mergeFile(cfg, &fileCfg)
	}

	// Environment variables override everything
	if err := mergeEnv(cfg); err != nil {
		return nil, err
	}

	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("invalid figure size %dx%d", cfg.Width, cfg.Height)
	}

	return cfg, nil
}

// findConfigFile searches for a config file and returns its path and contents.
func findConfigFile() (string, []byte, error) {
	// 1. Current directory
	if data, err := os.ReadFile(".plotkeep.yaml"); err == nil {
		return ".plotkeep.yaml", data, nil
	}

	// 2. XDG config dir / ~/.config
	if home, err := os.UserHomeDir(); err == nil {
		path := filepath.Join(home, ".config", "plotkeep", "config.yaml")
		if data, err := os.ReadFile(path); err == nil {
			return path, data, nil
		}
	}

	return "", nil, fmt.Errorf("no config file found")
}

// mergeFile applies non-zero file values onto cfg.
func mergeFile(cfg *Config, file *Config) {
	if file.Workspace != "" {
		cfg.Workspace = file.Workspace
	}
	if file.Width > 0 {
		cfg.Width = file.Width
	}
	if file.Height > 0 {
		cfg.Height = file.Height
	}
	if file.Theme != "" {
		cfg.Theme = file.Theme
	}
	if file.OTELEndpoint != "" {
		cfg.OTELEndpoint = file.OTELEndpoint
	}
	if file.OTELHeaders != "" {
		cfg.OTELHeaders = file.OTELHeaders
	}
}

// mergeEnv applies environment variables onto cfg. Env always wins.
func mergeEnv(cfg *Config) error {
	if v := os.Getenv("PLOTKEEP_WORKSPACE"); v != "" {
		cfg.Workspace = v
	}
	if v := os.Getenv("PLOTKEEP_WIDTH"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PLOTKEEP_WIDTH %q: %w", v, err)
		}
		cfg.Width = n
	}
	if v := os.Getenv("PLOTKEEP_HEIGHT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PLOTKEEP_HEIGHT %q: %w", v, err)
		}
		cfg.Height = n
	}
	if v := os.Getenv("PLOTKEEP_THEME"); v != "" {
		cfg.Theme = v
	}
	if v := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); v != "" {
		cfg.OTELEndpoint = v
	}
	if v := os.Getenv("OTEL_EXPORTER_OTLP_HEADERS"); v != "" {
		cfg.OTELHeaders = v
	}
	return nil
}
