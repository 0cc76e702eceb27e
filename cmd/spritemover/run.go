package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/spritemover/internal/core"
	"github.com/vovakirdan/spritemover/internal/logging"
	"github.com/vovakirdan/spritemover/internal/platform/boot"
	"github.com/vovakirdan/spritemover/internal/platform/tui"
)

var (
	flagFPS   int
	flagTheme string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Drive the sprite from the keyboard",
	Long: `Boot the simulated machine and show its display in the terminal.

Terminals send key repeats but no key releases, so each press holds the
button for input.hold_ms and repeats extend the hold.

Controls:
  Arrows/WASD  - Move
  Z/X          - A/B
  Enter/Bksp   - Start/Select
  Ctrl+S       - Save a text screenshot
  ?            - Toggle full help
  Q/Esc        - Quit

Logs go to log.file (default ~/.spritemover/spritemover.log).`,
	Args: cobra.NoArgs,
	Run:  runRun,
}

func init() {
	runCmd.Flags().IntVar(&flagFPS, "fps", 60, "Redraw rate")
	runCmd.Flags().StringVar(&flagTheme, "theme", "", "Colour theme: "+strings.Join(tui.ThemeNames(), ", "))
}

func runRun(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if flagTheme != "" {
		cfg.Display.Theme = flagTheme
	}
	theme, ok := tui.ThemeByName(cfg.Display.Theme)
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: unknown theme %q (have %s)\n", cfg.Display.Theme, strings.Join(tui.ThemeNames(), ", "))
		os.Exit(1)
	}

	// The terminal belongs to Bubble Tea, so logs go to a file
	logger, closer, err := logging.OpenFile(cfg.Log.File, cfg.Log.Level, "spritemover")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer closer.Close()

	sys, err := boot.New(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer sys.Close()

	// Get terminal size
	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	rc := core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
	}

	if err := tui.Run(sys, rc, theme, 0); err != nil {
		logger.Error("run failed", "err", err)
		fmt.Fprintf(os.Stderr, "Error running: %v\n", err)
		os.Exit(1)
	}
}
