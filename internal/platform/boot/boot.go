// Package boot brings up the simulated machine and assembles the frame loop
// from configuration: sprite sheet, object memory, entity, input sampler and
// vblank strategy.
package boot

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/spritemover/internal/assets"
	"github.com/vovakirdan/spritemover/internal/config"
	"github.com/vovakirdan/spritemover/internal/frame"
	"github.com/vovakirdan/spritemover/internal/input"
	"github.com/vovakirdan/spritemover/internal/motion"
	"github.com/vovakirdan/spritemover/internal/oam"
	"github.com/vovakirdan/spritemover/internal/registry"
	"github.com/vovakirdan/spritemover/internal/sim"
)

// Largest display the object attribute encoding can address.
const (
	maxWidth  = 512
	maxHeight = 256
)

// observerBuffer is how many vblank events queue for the log drain.
const observerBuffer = 64

// System is a booted machine with its frame loop.
type System struct {
	Config   config.Config
	Machine  *sim.Machine
	Graphics *assets.Graphics
	Sprite   assets.Frame
	Objects  *oam.Manager
	Entity   *motion.Entity
	Bounds   motion.Bounds
	Sync     registry.Synchronizer
	Observer *frame.VBlankObserver // nil unless sync.observe is set
	Loop     *frame.Loop

	logger *log.Logger
}

// New boots a simulated machine configured by cfg.
func New(cfg config.Config, logger *log.Logger) (*System, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Display.Width > maxWidth || cfg.Display.Height > maxHeight {
		return nil, fmt.Errorf("boot: display %dx%d exceeds %dx%d", cfg.Display.Width, cfg.Display.Height, maxWidth, maxHeight)
	}
	if logger == nil {
		logger = log.Default()
	}

	g, err := loadGraphics(cfg.Sprite.Sheet)
	if err != nil {
		return nil, err
	}
	tag, err := g.Lookup(cfg.Sprite.Tag)
	if err != nil {
		return nil, fmt.Errorf("boot: %w", err)
	}
	sprite, err := tag.Sprite(cfg.Sprite.Frame)
	if err != nil {
		return nil, fmt.Errorf("boot: %w", err)
	}

	bounds := motion.Bounds{
		Width:        cfg.Display.Width,
		Height:       cfg.Display.Height,
		SpriteWidth:  sprite.W,
		SpriteHeight: sprite.H,
	}
	if bounds.MaxX() < 0 || bounds.MaxY() < 0 {
		return nil, fmt.Errorf("boot: %dx%d sprite does not fit a %dx%d display", sprite.W, sprite.H, cfg.Display.Width, cfg.Display.Height)
	}

	m := sim.NewMachine()
	objects := oam.NewManager(m.OAM)
	obj, err := objects.AllocateObject(sprite)
	if err != nil {
		return nil, fmt.Errorf("boot: %w", err)
	}

	x, y := cfg.Start(sprite.W, sprite.H)
	entity := motion.NewEntity(x, y, cfg.Motion.Velocity, bounds, obj)

	s := &System{
		Config:   cfg,
		Machine:  m,
		Graphics: g,
		Sprite:   sprite,
		Objects:  objects,
		Entity:   entity,
		Bounds:   bounds,
		logger:   logger,
	}

	s.Sync, err = registry.Create(cfg.Sync.Mode, registry.Hardware{Flag: m.Display, IRQ: m.IRQ})
	if err != nil {
		return nil, err
	}

	if cfg.Sync.Observe {
		s.Observer, err = frame.NewVBlankObserver(m.IRQ, observerBuffer)
		if err != nil {
			_ = s.Sync.Close()
			return nil, err
		}
	}

	s.Loop, err = frame.NewLoop(frame.LoopConfig{
		Sampler: input.NewSampler(m.Keypad),
		Entity:  entity,
		Bounds:  bounds,
		Objects: objects,
		Sync:    s.Sync,
		Logger:  logger,
	})
	if err != nil {
		_ = s.Close()
		return nil, err
	}

	logger.Debug("machine booted",
		"sprite", tag.Name,
		"frame", sprite.Index,
		"size", fmt.Sprintf("%dx%d", sprite.W, sprite.H),
		"object", obj.Index(),
		"sync", s.Sync.Name(),
	)
	return s, nil
}

func loadGraphics(path string) (*assets.Graphics, error) {
	if path == "" {
		return assets.Default()
	}
	return assets.LoadFile(path)
}

// Run starts the display clock and the vblank log drain, then runs the frame
// loop until ctx is done. It returns nil on cancellation.
func (s *System) Run(ctx context.Context, lineInterval time.Duration) error {
	stop := s.start(ctx, lineInterval)
	defer stop()

	err := s.Loop.Run(ctx)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}

// Feed runs before each frame of RunFrames, typically to set the keypad.
type Feed func(frame int) error

// RunFrames is Run for exactly n frames. feed may be nil.
func (s *System) RunFrames(ctx context.Context, n int, lineInterval time.Duration, feed Feed) error {
	stop := s.start(ctx, lineInterval)
	defer stop()

	if feed == nil {
		return s.Loop.RunFrames(ctx, n)
	}
	for i := 0; i < n; i++ {
		if err := feed(i); err != nil {
			return err
		}
		if err := s.Loop.Frame(ctx); err != nil {
			return err
		}
	}
	return nil
}

// start launches the display clock and, when installed, the observer drain.
// The returned func stops both and waits for them.
func (s *System) start(ctx context.Context, lineInterval time.Duration) func() {
	ctx, cancel := context.WithCancel(ctx)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = s.Machine.Run(ctx, lineInterval)
	}()

	if s.Observer != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Observer.Drain(ctx, s.logger)
		}()
	}

	return func() {
		cancel()
		wg.Wait()
	}
}

// Close uninstalls interrupt handlers and returns the sprite's object slot.
// The hidden entry only reaches the screen if another commit runs, which
// never happens once the loop has stopped.
func (s *System) Close() error {
	if s.Entity != nil && s.Entity.Sprite != nil {
		s.Entity.Sprite.Free()
		s.Entity.Sprite = nil
	}

	var errs []error
	if s.Observer != nil {
		errs = append(errs, s.Observer.Close())
	}
	if s.Sync != nil {
		errs = append(errs, s.Sync.Close())
	}
	return errors.Join(errs...)
}
