// Package config loads pixelbench run settings from a YAML file.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the settings that are fixed for a whole run.
type Config struct {
	Workers   int    `yaml:"workers"`
	Target    Size   `yaml:"target"`
	Quality   int    `yaml:"quality"`   // JPEG quality (1-100)
	Format    string `yaml:"format"`    // output extension: jpg, png, bmp, tiff
	OutputDir string `yaml:"outputDir"` // where output_single/output_multi are written
	BarWidth  int    `yaml:"barWidth"`
}

// Size is a target resolution in pixels.
type Size struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Default returns the built-in settings: 4 workers, 1920x1080 target,
// quality 100 JPEG output in the working directory.
func Default() Config {
	return Config{
		Workers:   4,
		Target:    Size{Width: 1920, Height: 1080},
		Quality:   100,
		Format:    "jpg",
		OutputDir: ".",
		BarWidth:  50,
	}
}

// Load reads path over the defaults. Keys missing from the file keep their
// default value.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("workers must be >= 1, got %d", c.Workers)
	}
	if c.Target.Width < 1 || c.Target.Height < 1 {
		return fmt.Errorf("target must be positive, got %dx%d", c.Target.Width, c.Target.Height)
	}
	if c.Quality < 1 || c.Quality > 100 {
		return fmt.Errorf("quality must be 1-100, got %d", c.Quality)
	}
	switch strings.ToLower(c.Format) {
	case "jpg", "jpeg", "png", "bmp", "tif", "tiff":
	default:
		return fmt.Errorf("unsupported output format %q", c.Format)
	}
	if c.BarWidth < 1 {
		return fmt.Errorf("barWidth must be >= 1, got %d", c.BarWidth)
	}
	return nil
}
