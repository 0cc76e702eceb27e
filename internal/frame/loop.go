package frame

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/spritemover/internal/core"
	"github.com/vovakirdan/spritemover/internal/input"
	"github.com/vovakirdan/spritemover/internal/motion"
	"github.com/vovakirdan/spritemover/internal/oam"
	"github.com/vovakirdan/spritemover/internal/registry"
)

// State is the loop's position in the vblank cycle.
type State int32

const (
	// StateWaiting covers sampling, moving, staging and the vblank wait.
	StateWaiting State = iota
	// StateVBlank is set between the end of the wait and the commit.
	StateVBlank
)

func (s State) String() string {
	switch s {
	case StateWaiting:
		return "WaitingForVBlank"
	case StateVBlank:
		return "VBlankActive"
	default:
		return "Unknown"
	}
}

// LoopConfig holds the handles the loop threads through every frame.
type LoopConfig struct {
	Sampler *input.Sampler
	Entity  *motion.Entity
	Bounds  motion.Bounds
	Objects *oam.Manager
	Sync    registry.Synchronizer
	Logger  *log.Logger // optional
}

// Stats is a snapshot of the loop after its last completed frame.
type Stats struct {
	Frames   uint64
	Commits  uint64
	Position core.Point
	Held     core.ButtonSet
	Pressed  core.ButtonSet // went down this frame
	Released core.ButtonSet // went up this frame
	Moves    motion.Moves
}

// Loop is the frame loop. Only the goroutine calling Frame or Run may touch
// the entity and the shadow table; Stats and State are safe from any.
type Loop struct {
	cfg    LoopConfig
	logger *log.Logger
	state  atomic.Int32

	mu    sync.Mutex
	stats Stats
}

// NewLoop validates cfg and builds a loop.
func NewLoop(cfg LoopConfig) (*Loop, error) {
	switch {
	case cfg.Sampler == nil:
		return nil, errors.New("frame: loop needs an input sampler")
	case cfg.Entity == nil:
		return nil, errors.New("frame: loop needs an entity")
	case cfg.Objects == nil:
		return nil, errors.New("frame: loop needs an object manager")
	case cfg.Sync == nil:
		return nil, errors.New("frame: loop needs a synchronizer")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}

	l := &Loop{cfg: cfg, logger: logger}
	l.stats.Position = cfg.Entity.Position()
	return l, nil
}

// Frame runs one iteration: sample input, move, stage, wait for vblank,
// commit. It only returns an error when ctx ends during the wait, in which
// case nothing is committed.
func (l *Loop) Frame(ctx context.Context) error {
	l.cfg.Sampler.Update()
	pressed, released := edges(l.cfg.Sampler)
	if pressed != 0 || released != 0 {
		l.logger.Debug("buttons changed", "down", pressed, "up", released)
	}

	e := l.cfg.Entity
	moves := motion.Step(e, l.cfg.Bounds, l.cfg.Sampler)
	if !l.cfg.Bounds.Contains(*e) {
		l.logger.Error("entity left screen bounds", "x", e.X, "y", e.Y)
	}
	if moves.Blocked != 0 {
		l.logger.Debug("move blocked at edge", "dirs", moves.Blocked, "x", e.X, "y", e.Y)
	}
	e.Stage()

	if err := l.cfg.Sync.WaitForVBlank(ctx); err != nil {
		return err
	}

	l.state.Store(int32(StateVBlank))
	l.cfg.Objects.Commit()
	l.state.Store(int32(StateWaiting))

	l.mu.Lock()
	l.stats.Frames++
	l.stats.Commits = l.cfg.Objects.Commits()
	l.stats.Position = e.Position()
	l.stats.Held = l.cfg.Sampler.Pressed()
	l.stats.Pressed = pressed
	l.stats.Released = released
	l.stats.Moves = moves
	l.mu.Unlock()

	return nil
}

// edges collects the buttons that changed between the last two samples.
func edges(s *input.Sampler) (pressed, released core.ButtonSet) {
	for _, b := range core.ButtonSet(core.KeyMask).Buttons() {
		if s.JustPressed(b) {
			pressed = pressed.With(b)
		}
		if s.JustReleased(b) {
			released = released.With(b)
		}
	}
	return pressed, released
}

// Run repeats Frame until ctx is done. There is no other way out; on the
// target the loop runs until reset.
func (l *Loop) Run(ctx context.Context) error {
	l.logger.Info("frame loop started",
		"sync", l.cfg.Sync.Name(),
		"x", l.cfg.Entity.X,
		"y", l.cfg.Entity.Y,
		"velocity", l.cfg.Entity.Velocity,
	)

	for {
		if err := l.Frame(ctx); err != nil {
			l.logger.Info("frame loop stopped", "frames", l.Stats().Frames, "reason", err)
			return err
		}
	}
}

// RunFrames runs exactly n frames.
func (l *Loop) RunFrames(ctx context.Context, n int) error {
	for i := 0; i < n; i++ {
		if err := l.Frame(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Stats returns a snapshot taken after the last completed frame.
func (l *Loop) Stats() Stats {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stats
}

// State returns where the loop is in the vblank cycle.
func (l *Loop) State() State {
	return State(l.state.Load())
}
