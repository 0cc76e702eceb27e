package frame

import (
	"context"
	"errors"
	"testing"

	"github.com/vovakirdan/spritemover/internal/assets"
	"github.com/vovakirdan/spritemover/internal/core"
	"github.com/vovakirdan/spritemover/internal/input"
	"github.com/vovakirdan/spritemover/internal/logging"
	"github.com/vovakirdan/spritemover/internal/motion"
	"github.com/vovakirdan/spritemover/internal/oam"
	"github.com/vovakirdan/spritemover/internal/sim"
)

// steppedSync advances the simulated display to the next vblank on every
// wait, so frames run without a real clock.
type steppedSync struct {
	display *sim.Display
	objects *oam.Manager
	loop    *Loop
	commits []uint64 // commits seen at each wait
	states  []State
}

func (s *steppedSync) Name() string { return "stepped" }

func (s *steppedSync) WaitForVBlank(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.commits = append(s.commits, s.objects.Commits())
	if s.loop != nil {
		s.states = append(s.states, s.loop.State())
	}
	s.display.AdvanceToDraw()
	s.display.AdvanceToVBlank()
	return nil
}

func (s *steppedSync) Close() error { return nil }

type rig struct {
	machine *sim.Machine
	objects *oam.Manager
	entity  *motion.Entity
	sync    *steppedSync
	loop    *Loop
}

func newRig(t *testing.T, x, y, velocity int) *rig {
	t.Helper()

	g, err := assets.Default()
	if err != nil {
		t.Fatalf("assets.Default() error: %v", err)
	}
	tag, err := g.Lookup("Ball")
	if err != nil {
		t.Fatalf("Lookup() error: %v", err)
	}
	sprite, err := tag.Sprite(0)
	if err != nil {
		t.Fatalf("Sprite() error: %v", err)
	}

	m := sim.NewMachine()
	objects := oam.NewManager(m.OAM)
	obj, err := objects.AllocateObject(sprite)
	if err != nil {
		t.Fatalf("AllocateObject() error: %v", err)
	}

	bounds := motion.Bounds{
		Width:        core.DisplayWidth,
		Height:       core.DisplayHeight,
		SpriteWidth:  sprite.W,
		SpriteHeight: sprite.H,
	}
	entity := motion.NewEntity(x, y, velocity, bounds, obj)
	sync := &steppedSync{display: m.Display, objects: objects}

	loop, err := NewLoop(LoopConfig{
		Sampler: input.NewSampler(m.Keypad),
		Entity:  entity,
		Bounds:  bounds,
		Objects: objects,
		Sync:    sync,
		Logger:  logging.Discard(),
	})
	if err != nil {
		t.Fatalf("NewLoop() error: %v", err)
	}
	sync.loop = loop

	return &rig{machine: m, objects: objects, entity: entity, sync: sync, loop: loop}
}

func TestLoopIdleCommitsOncePerFrame(t *testing.T) {
	r := newRig(t, 100, 50, 1)

	const frames = 10
	if err := r.loop.RunFrames(context.Background(), frames); err != nil {
		t.Fatalf("RunFrames() error: %v", err)
	}

	st := r.loop.Stats()
	if st.Frames != frames || st.Commits != frames {
		t.Errorf("frames=%d commits=%d, expected %d each", st.Frames, st.Commits, frames)
	}
	if st.Position != (core.Point{X: 100, Y: 50}) {
		t.Errorf("idle entity moved to %+v", st.Position)
	}
	if r.machine.OAM.Writes() != frames {
		t.Errorf("live writes = %d, expected %d", r.machine.OAM.Writes(), frames)
	}
	if r.machine.OAM.Tears() != 0 {
		t.Errorf("tears = %d, expected 0", r.machine.OAM.Tears())
	}

	live := r.machine.OAM.Snapshot()
	obj := live[r.entity.Sprite.Index()]
	if obj.Hidden() || obj.X() != 100 || obj.Y() != 50 {
		t.Errorf("live object = hidden:%v (%d, %d), expected visible at (100, 50)", obj.Hidden(), obj.X(), obj.Y())
	}
}

func TestLoopCommitsOnlyAfterWait(t *testing.T) {
	r := newRig(t, 0, 0, 1)

	if err := r.loop.RunFrames(context.Background(), 3); err != nil {
		t.Fatalf("RunFrames() error: %v", err)
	}

	for i, c := range r.sync.commits {
		if c != uint64(i) {
			t.Errorf("wait %d saw %d commits, expected %d", i, c, i)
		}
	}
	for i, s := range r.sync.states {
		if s != StateWaiting {
			t.Errorf("wait %d: state = %v, expected %v", i, s, StateWaiting)
		}
	}
	if r.loop.State() != StateWaiting {
		t.Errorf("State() after commit = %v", r.loop.State())
	}
}

func TestLoopScenarios(t *testing.T) {
	tests := []struct {
		name   string
		x, y   int
		hold   core.ButtonSet
		frames int
		want   core.Point
	}{
		{"right edge", 220, 72, core.ButtonSet(0).With(core.ButtonRight), 10, core.Point{X: 224, Y: 72}},
		{"bottom edge", 112, 140, core.ButtonSet(0).With(core.ButtonDown), 10, core.Point{X: 112, Y: 144}},
		{"origin corner", 0, 0, core.ButtonSet(0).With(core.ButtonUp).With(core.ButtonLeft), 5, core.Point{X: 0, Y: 0}},
		{"diagonal", 10, 10, core.ButtonSet(0).With(core.ButtonDown).With(core.ButtonRight), 4, core.Point{X: 14, Y: 14}},
		{"opposite pair", 50, 50, core.ButtonSet(0).With(core.ButtonLeft).With(core.ButtonRight), 4, core.Point{X: 50, Y: 50}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := newRig(t, tc.x, tc.y, 1)
			r.machine.Keypad.Set(tc.hold)

			if err := r.loop.RunFrames(context.Background(), tc.frames); err != nil {
				t.Fatalf("RunFrames() error: %v", err)
			}

			st := r.loop.Stats()
			if st.Position != tc.want {
				t.Errorf("position = %+v, expected %+v", st.Position, tc.want)
			}
			if st.Held != tc.hold {
				t.Errorf("held = %v, expected %v", st.Held, tc.hold)
			}

			live := r.machine.OAM.Snapshot()[r.entity.Sprite.Index()]
			if int(live.X()) != tc.want.X || int(live.Y()) != tc.want.Y {
				t.Errorf("live object at (%d, %d), expected %+v", live.X(), live.Y(), tc.want)
			}
		})
	}
}

func TestLoopReportsBlockedMoves(t *testing.T) {
	r := newRig(t, 224, 72, 1)
	r.machine.Keypad.Press(core.ButtonRight)

	if err := r.loop.Frame(context.Background()); err != nil {
		t.Fatalf("Frame() error: %v", err)
	}

	moves := r.loop.Stats().Moves
	if !moves.Blocked.Has(motion.Right) || moves.Applied != 0 {
		t.Errorf("moves = %+v, expected Right blocked", moves)
	}
}

func TestLoopCancel(t *testing.T) {
	r := newRig(t, 10, 10, 1)
	r.machine.Keypad.Press(core.ButtonRight)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := r.loop.Frame(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("Frame() = %v, expected context.Canceled", err)
	}
	if err := r.loop.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() = %v, expected context.Canceled", err)
	}

	st := r.loop.Stats()
	if st.Frames != 0 || r.objects.Commits() != 0 {
		t.Errorf("cancelled frame committed: frames=%d commits=%d", st.Frames, r.objects.Commits())
	}
}

func TestNewLoopValidates(t *testing.T) {
	r := newRig(t, 0, 0, 1)
	good := r.loop.cfg

	tests := []struct {
		name   string
		mutate func(*LoopConfig)
	}{
		{"no sampler", func(c *LoopConfig) { c.Sampler = nil }},
		{"no entity", func(c *LoopConfig) { c.Entity = nil }},
		{"no objects", func(c *LoopConfig) { c.Objects = nil }},
		{"no sync", func(c *LoopConfig) { c.Sync = nil }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := good
			tc.mutate(&cfg)
			if _, err := NewLoop(cfg); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestStateString(t *testing.T) {
	if StateWaiting.String() != "WaitingForVBlank" || StateVBlank.String() != "VBlankActive" {
		t.Errorf("unexpected state names %q %q", StateWaiting, StateVBlank)
	}
}

func TestLoopButtonEdges(t *testing.T) {
	r := newRig(t, 100, 50, 1)
	ctx := context.Background()

	both := core.ButtonSet(0).With(core.ButtonRight).With(core.ButtonA)
	tests := []struct {
		name     string
		held     core.ButtonSet
		pressed  core.ButtonSet
		released core.ButtonSet
	}{
		{"press two", both, both, 0},
		{"keep holding", both, 0, 0},
		{"release A", core.ButtonSet(0).With(core.ButtonRight), 0, core.ButtonSet(0).With(core.ButtonA)},
		{"release all", 0, 0, core.ButtonSet(0).With(core.ButtonRight)},
		{"idle", 0, 0, 0},
	}

	for _, tc := range tests {
		r.machine.Keypad.Set(tc.held)
		if err := r.loop.Frame(ctx); err != nil {
			t.Fatalf("%s: Frame() error: %v", tc.name, err)
		}
		st := r.loop.Stats()
		if st.Held != tc.held {
			t.Errorf("%s: held = %v, expected %v", tc.name, st.Held, tc.held)
		}
		if st.Pressed != tc.pressed {
			t.Errorf("%s: pressed = %v, expected %v", tc.name, st.Pressed, tc.pressed)
		}
		if st.Released != tc.released {
			t.Errorf("%s: released = %v, expected %v", tc.name, st.Released, tc.released)
		}
	}
}
