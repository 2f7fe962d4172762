// Package config handles loading and saving of texbind settings.
package config

import (
	"fmt"

	"github.com/Faultbox/texbind/internal/logger"
	"github.com/Faultbox/texbind/pkg/material"
)

// Config holds all settings shared by the command line tools.
type Config struct {
	Render  RenderConfig  `yaml:"render"`
	Viewer  ViewerConfig  `yaml:"viewer"`
	Library LibraryConfig `yaml:"library"`
	Logging LoggingConfig `yaml:"logging"`
}

// RenderConfig controls texture preparation and material binding.
type RenderConfig struct {
	// UseShaders selects the programmable pipeline; otherwise only the
	// diffuse texture is bound.
	UseShaders bool `yaml:"use_shaders"`
	// Lighting enables the directional light of the material programs.
	Lighting bool             `yaml:"lighting"`
	Profile  material.Profile `yaml:"profile"`
	// ForceSoftware skips compressed uploads and always decompresses.
	ForceSoftware bool `yaml:"force_software"`
	Mipmaps       bool `yaml:"mipmaps"`
}

// ViewerConfig holds window settings of the material viewer.
type ViewerConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
}

// LibraryConfig locates the material library.
type LibraryConfig struct {
	Path string `yaml:"path"`
	// Material is the material shown first by the viewer.
	Material string `yaml:"material"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string            `yaml:"level"`
	Console bool              `yaml:"console"`
	File    logger.FileConfig `yaml:"file"`
}

// LoggerOptions converts the section for logger.Init.
func (c LoggingConfig) LoggerOptions() logger.Options {
	return logger.Options{Level: c.Level, Console: c.Console, File: c.File}
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Render: RenderConfig{
			UseShaders: true,
			Lighting:   true,
			Profile:    material.ProfileGeneric,
			Mipmaps:    true,
		},
		Viewer: ViewerConfig{
			Width:  1280,
			Height: 720,
			VSync:  true,
		},
		Library: LibraryConfig{
			Path: "library.yaml",
		},
		Logging: LoggingConfig{
			Level:   "info",
			Console: true,
			File:    logger.DefaultFileConfig(""),
		},
	}
}

// Validate checks values that cannot be corrected silently.
func (c *Config) Validate() error {
	if c.Viewer.Width <= 0 || c.Viewer.Height <= 0 {
		return fmt.Errorf("viewer size %dx%d: must be positive", c.Viewer.Width, c.Viewer.Height)
	}
	return nil
}
