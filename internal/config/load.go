package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Load loads configuration with priority: defaults < file < flags. f may be
// nil when no flags were registered.
func Load(f *Flags) (*Config, error) {
	cfg := Default()

	path := ""
	if f != nil {
		path = f.Config
	}
	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		if err := loadFromFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", path, err)
		}
	}

	if err := f.apply(cfg); err != nil {
		return nil, fmt.Errorf("applying flags: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		"./texbind.yaml",
		filepath.Join(ConfigDir(), "config.yaml"),
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "texbind")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "texbind")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "texbind")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "texbind")
	}
}

// loadFromFile merges a YAML file into cfg.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}
