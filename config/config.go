// Package config loads renderer settings from a TOML file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Config is the full set of user-tunable renderer settings.
type Config struct {
	Window   Window   `toml:"window"`
	Renderer Renderer `toml:"renderer"`
}

type Window struct {
	Width      int    `toml:"width"`
	Height     int    `toml:"height"`
	Title      string `toml:"title"`
	VSync      bool   `toml:"vsync"`
	Fullscreen bool   `toml:"fullscreen"`
}

type Renderer struct {
	// Tone mapping exposure, 1.0 = neutral.
	Exposure float32 `toml:"exposure"`

	Bloom struct {
		Enabled   bool    `toml:"enabled"`
		Threshold float32 `toml:"threshold"`
		Strength  float32 `toml:"strength"`
	} `toml:"bloom"`

	// Shadow map resolution (square). 0 disables shadow rendering.
	ShadowMapSize int `toml:"shadow_map_size"`

	Parallax struct {
		// Height scale in UV units. Typical range 0.02–0.1.
		Scale float32 `toml:"scale"`
		// Min/max ray-march step counts; the shader interpolates between
		// them by viewing angle.
		MinSteps int `toml:"min_steps"`
		MaxSteps int `toml:"max_steps"`
	} `toml:"parallax"`
}

// Default returns the settings used when no config file is present.
func Default() *Config {
	c := &Config{}
	c.Window.Width = 1280
	c.Window.Height = 720
	c.Window.Title = "rg3d"
	c.Window.VSync = true
	c.Renderer.Exposure = 1.0
	c.Renderer.Bloom.Threshold = 1.0
	c.Renderer.Bloom.Strength = 0.6
	c.Renderer.ShadowMapSize = 2048
	c.Renderer.Parallax.Scale = 0.05
	c.Renderer.Parallax.MinSteps = 8
	c.Renderer.Parallax.MaxSteps = 32
	return c
}

// Load reads path and merges it over the defaults. A missing file is not an
// error: the defaults are returned so a fresh checkout runs without setup.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("config read %q: %w", path, err)
	}

	c := Default()
	if err := toml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("config parse %q: %w", path, err)
	}
	return c, nil
}
