// spritemover moves a sprite around a simulated handheld display, one step
// per frame, committing object memory only during vertical blank.
//
// Usage:
//
//	spritemover run            - Drive the sprite from the keyboard
//	spritemover sim            - Run a fixed number of frames headless
//	spritemover list           - List vblank sync strategies
//	spritemover tags           - List sprite sheet tags
//
// Global flags:
//
//	--config <path>      - Config file (default: search ~/.spritemover, ./configs)
//	--log-level <level>  - debug, info, warn, error
//	--sync <mode>        - Override the vblank strategy
//	--velocity <px>      - Override pixels per frame
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/spritemover/internal/config"
	// Register sync strategies
	_ "github.com/vovakirdan/spritemover/internal/frame"
)

var (
	// Global flags
	flagConfig   string
	flagLogLevel string
	flagSync     string
	flagVelocity int
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "spritemover",
	Short: "Frame-synchronized sprite motion on a simulated handheld",
	Long: `spritemover runs a per-frame loop on a simulated 240x160 handheld:
sample the keypad, move the sprite while keeping it on screen, stage the
object attributes, wait for vertical blank, and commit them.

Available commands:
  run   - Drive the sprite from the keyboard
  sim   - Run a fixed number of frames headless and print the result
  list  - Show vblank sync strategies
  tags  - Show the sprite sheet's tags

Examples:
  spritemover run
  spritemover run --sync interrupt
  spritemover sim --frames 200 --hold right,down
  spritemover tags --sheet ./sprites.json`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagSync, "sync", "", "VBlank strategy (see 'spritemover list')")
	rootCmd.PersistentFlags().IntVar(&flagVelocity, "velocity", 0, "Pixels per frame (0 = from config)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(simCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(tagsCmd)
}

// loadConfig loads the config file and applies global flag overrides.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return config.Config{}, err
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}
	if flagSync != "" {
		cfg.Sync.Mode = flagSync
	}
	if flagVelocity != 0 {
		cfg.Motion.Velocity = flagVelocity
	}
	return cfg, nil
}
