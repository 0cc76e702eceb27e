package config

import (
	_ "embed"

	"github.com/vovakirdan/spritemover/internal/core"
)

//go:embed defaults/spritemover.yaml
var defaultYAML []byte

// Default returns the hard-coded configuration. It matches the embedded
// defaults/spritemover.yaml.
func Default() Config {
	return Config{
		Display: DisplayConfig{
			Width:  core.DisplayWidth,
			Height: core.DisplayHeight,
			Theme:  "default",
		},
		Sprite: SpriteConfig{
			Tag:   "Ball",
			Frame: 0,
		},
		Motion: MotionConfig{
			Velocity: 1,
		},
		Sync: SyncConfig{
			Mode:    "busy",
			Observe: true,
		},
		Input: InputConfig{
			HoldMS: 150,
		},
		Log: LogConfig{
			Level: "info",
			File:  "~/.spritemover/spritemover.log",
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultYAML
}
