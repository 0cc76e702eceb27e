// Package config provides YAML-based configuration loading for the sprite
// mover: display geometry, sprite selection, motion, vblank strategy,
// input hold time and logging.
package config

import (
	"errors"
	"fmt"
	"time"
)

// Config is the full program configuration.
type Config struct {
	Display DisplayConfig `yaml:"display"`
	Sprite  SpriteConfig  `yaml:"sprite"`
	Motion  MotionConfig  `yaml:"motion"`
	Sync    SyncConfig    `yaml:"sync"`
	Input   InputConfig   `yaml:"input"`
	Log     LogConfig     `yaml:"log"`
}

// DisplayConfig defines the screen bounds in pixels and the terminal theme.
type DisplayConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Theme  string `yaml:"theme"`
}

// SpriteConfig selects the sprite frame shown for the entity.
type SpriteConfig struct {
	Sheet string `yaml:"sheet"` // aseprite JSON; empty = built-in
	Tag   string `yaml:"tag"`
	Frame int    `yaml:"frame"`
}

// MotionConfig defines the entity's velocity and start position.
type MotionConfig struct {
	Velocity int  `yaml:"velocity"` // pixels per frame, both axes
	StartX   *int `yaml:"start_x"`  // nil = centred
	StartY   *int `yaml:"start_y"`  // nil = centred
}

// SyncConfig selects the vblank strategy.
type SyncConfig struct {
	Mode    string `yaml:"mode"`    // "busy" or "interrupt"
	Observe bool   `yaml:"observe"` // install the logging vblank observer
}

// InputConfig tunes the simulated keypad.
type InputConfig struct {
	HoldMS int `yaml:"hold_ms"`
}

// LogConfig defines logging output.
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Hold returns the keypad hold time as a duration.
func (c InputConfig) Hold() time.Duration {
	return time.Duration(c.HoldMS) * time.Millisecond
}

// Start returns the entity's start position for a sprite of the given size.
// Unset coordinates centre the sprite.
func (c Config) Start(spriteW, spriteH int) (x, y int) {
	x = c.Display.Width/2 - spriteW/2
	y = c.Display.Height/2 - spriteH/2
	if c.Motion.StartX != nil {
		x = *c.Motion.StartX
	}
	if c.Motion.StartY != nil {
		y = *c.Motion.StartY
	}
	return x, y
}

// Validate checks values the loop cannot run with.
func (c Config) Validate() error {
	var errs []error
	if c.Display.Width <= 0 || c.Display.Height <= 0 {
		errs = append(errs, fmt.Errorf("display must be positive, got %dx%d", c.Display.Width, c.Display.Height))
	}
	if c.Motion.Velocity < 1 {
		errs = append(errs, fmt.Errorf("velocity must be at least 1, got %d", c.Motion.Velocity))
	}
	if c.Sprite.Tag == "" {
		errs = append(errs, errors.New("sprite tag must be set"))
	}
	if c.Sprite.Frame < 0 {
		errs = append(errs, fmt.Errorf("sprite frame must not be negative, got %d", c.Sprite.Frame))
	}
	if c.Sync.Mode == "" {
		errs = append(errs, errors.New("sync mode must be set"))
	}
	if c.Input.HoldMS < 0 {
		errs = append(errs, fmt.Errorf("hold_ms must not be negative, got %d", c.Input.HoldMS))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}
