package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"github.com/tidwall/sjson"

	"github.com/vovakirdan/spritemover/internal/core"
	"github.com/vovakirdan/spritemover/internal/logging"
	"github.com/vovakirdan/spritemover/internal/platform/boot"
	"github.com/vovakirdan/spritemover/internal/script"
)

var (
	flagFrames       int
	flagHold         string
	flagScript       string
	flagJSON         bool
	flagLineInterval time.Duration
)

var simCmd = &cobra.Command{
	Use:   "sim",
	Short: "Run a fixed number of frames headless",
	Long: `Boot the simulated machine, run the loop for --frames frames and print
where the sprite ended up.

Input comes from --hold (buttons held for every frame) or from a Lua
--script defining input(frame, x, y), which returns the buttons to hold
for each frame as "right,down", {"right", "down"} or nil.

--line-interval sets the real time per scanline; smaller values run the
display faster than the real 59.73 Hz.

Examples:
  spritemover sim --frames 300 --hold right
  spritemover sim --frames 60 --hold up,left --velocity 4
  spritemover sim --script zigzag.lua --json
  spritemover sim --sync interrupt --line-interval 5us --log-level debug`,
	Args: cobra.NoArgs,
	Run:  runSim,
}

func init() {
	simCmd.Flags().IntVar(&flagFrames, "frames", 120, "Frames to run")
	simCmd.Flags().StringVar(&flagHold, "hold", "", "Buttons held throughout, e.g. right,down")
	simCmd.Flags().StringVar(&flagScript, "script", "", "Lua input script")
	simCmd.Flags().BoolVar(&flagJSON, "json", false, "Print the result as JSON")
	simCmd.Flags().DurationVar(&flagLineInterval, "line-interval", 0, "Real time per scanline (0 = hardware rate)")
	simCmd.MarkFlagsMutuallyExclusive("hold", "script")
}

// simResult is what a headless run reports.
type simResult struct {
	Sync     string
	Start    core.Point
	End      core.Point
	Held     core.ButtonSet
	Frames   uint64
	Commits  uint64
	VBlanks  uint64
	Tears    uint64
	Observed uint64
	Dropped  uint64
	Elapsed  time.Duration
}

func runSim(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	held, err := core.ParseButtonSet(flagHold)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(os.Stderr, cfg.Log.Level, "spritemover")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	sys, err := boot.New(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer sys.Close()

	var feed boot.Feed
	if flagScript != "" {
		sc, err := script.Load(flagScript)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer sc.Close()

		feed = func(frame int) error {
			buttons, err := sc.Buttons(frame, sys.Entity.Position())
			if err != nil {
				return err
			}
			sys.Machine.Keypad.Set(buttons)
			return nil
		}
	} else {
		sys.Machine.Keypad.Set(held)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := sys.Entity.Position()
	began := time.Now()
	runErr := sys.RunFrames(ctx, flagFrames, flagLineInterval, feed)

	st := sys.Loop.Stats()
	res := simResult{
		Sync:    sys.Sync.Name(),
		Start:   start,
		End:     st.Position,
		Held:    st.Held,
		Frames:  st.Frames,
		Commits: st.Commits,
		VBlanks: sys.Machine.Display.VBlanks(),
		Tears:   sys.Machine.OAM.Tears(),
		Elapsed: time.Since(began),
	}
	if sys.Observer != nil {
		res.Observed = sys.Observer.Count()
		res.Dropped = sys.Observer.Dropped()
	}

	if flagJSON {
		out, err := res.JSON()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(out))
	} else {
		res.Print()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Stopped early: %v\n", runErr)
		os.Exit(1)
	}
}

// Print writes the result as aligned text.
func (r simResult) Print() {
	fmt.Printf("sync      %s\n", r.Sync)
	fmt.Printf("held      %s\n", r.Held)
	fmt.Printf("start     %d,%d\n", r.Start.X, r.Start.Y)
	fmt.Printf("end       %d,%d\n", r.End.X, r.End.Y)
	fmt.Printf("frames    %d\n", r.Frames)
	fmt.Printf("commits   %d\n", r.Commits)
	fmt.Printf("vblanks   %d\n", r.VBlanks)
	fmt.Printf("tears     %d\n", r.Tears)
	fmt.Printf("observed  %d (%d dropped)\n", r.Observed, r.Dropped)
	fmt.Printf("elapsed   %s\n", r.Elapsed.Round(time.Millisecond))
}

// JSON encodes the result as a JSON document.
func (r simResult) JSON() ([]byte, error) {
	fields := []struct {
		path  string
		value any
	}{
		{"sync", r.Sync},
		{"start.x", r.Start.X},
		{"start.y", r.Start.Y},
		{"end.x", r.End.X},
		{"end.y", r.End.Y},
		{"held", r.Held.String()},
		{"frames", r.Frames},
		{"commits", r.Commits},
		{"vblanks", r.VBlanks},
		{"tears", r.Tears},
		{"observer.count", r.Observed},
		{"observer.dropped", r.Dropped},
		{"elapsed_ms", r.Elapsed.Milliseconds()},
	}

	out := []byte(`{}`)
	for _, f := range fields {
		var err error
		if out, err = sjson.SetBytes(out, f.path, f.value); err != nil {
			return nil, fmt.Errorf("encode %s: %w", f.path, err)
		}
	}
	return out, nil
}
