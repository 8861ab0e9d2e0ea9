// Package config loads runtime settings for the gesture mouse.
package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"

	"github.com/ayusman/gesturemouse/internal/control"
)

// Prefix is the environment variable prefix, e.g. GESTUREMOUSE_CAMERA.
const Prefix = "GESTUREMOUSE"

// Config holds all application configuration. Gesture thresholds are fixed
// constants in the gesture and control packages and are not configurable.
//
// Fields are kept flat so each one maps to exactly GESTUREMOUSE_<NAME>.
type Config struct {
	// Capture
	Camera int  `envconfig:"CAMERA" default:"0"`
	Width  int  `envconfig:"WIDTH" default:"640"`
	Height int  `envconfig:"HEIGHT" default:"480"`
	Mirror bool `envconfig:"MIRROR" default:"true"`

	// Display
	Headless bool `envconfig:"HEADLESS" default:"false"`
	Tray     bool `envconfig:"TRAY" default:"false"`

	// Optional outer surfaces; empty disables them.
	Journal  string `envconfig:"JOURNAL" default:""`
	HTTPAddr string `envconfig:"HTTP_ADDR" default:""`

	// Logging
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	LogDev   bool   `envconfig:"LOG_DEV" default:"false"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Camera:   0,
		Width:    640,
		Height:   480,
		Mirror:   true,
		LogLevel: "info",
	}
}

// Validate checks values that would make the pipeline unusable.
func (c *Config) Validate() error {
	if c.Camera < 0 {
		return fmt.Errorf("invalid camera device %d", c.Camera)
	}
	// The fingertip is mapped from the frame inset by the margin on each side.
	if c.Width <= 2*control.FrameMargin || c.Height <= 2*control.FrameMargin {
		return fmt.Errorf("invalid frame size %dx%d: both sides must exceed %d", c.Width, c.Height, 2*control.FrameMargin)
	}
	return nil
}
