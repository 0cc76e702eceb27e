package sim

import (
	"context"
	"math"
	"sync/atomic"
	"time"

	"github.com/vovakirdan/spritemover/internal/core"
	"github.com/vovakirdan/spritemover/internal/hw"
)

// Scanline timing of the simulated display.
const (
	VisibleLines = core.DisplayHeight
	TotalLines   = 228
	RefreshRate  = 59.7275 // Hz
)

// LineInterval is the real-time length of one scanline.
var LineInterval = time.Duration(math.Round(float64(time.Second) / (RefreshRate * TotalLines)))

// clockResolution is how often Run wakes to catch the scanline counter up.
const clockResolution = time.Millisecond

// Display simulates the scanline counter and the vblank status bit.
// Tick must be driven from a single goroutine; reads are safe from any.
type Display struct {
	vcount  atomic.Uint32
	vblanks atomic.Uint64
	irq     *InterruptController
}

// NewDisplay creates a display at line 0. If irq is non-nil the display
// raises hw.IRQVBlank on it each time vblank begins.
func NewDisplay(irq *InterruptController) *Display {
	return &Display{irq: irq}
}

// VCount returns the current scanline.
func (d *Display) VCount() int {
	return int(d.vcount.Load())
}

// InVBlank reports the vblank status bit.
func (d *Display) InVBlank() bool {
	return d.vcount.Load() >= VisibleLines
}

// VBlanks returns how many vblank periods have begun.
func (d *Display) VBlanks() uint64 {
	return d.vblanks.Load()
}

// Tick advances one scanline. The vblank count is bumped before the status
// bit changes, so a poller that sees vblank also sees it counted.
func (d *Display) Tick() {
	line := (d.vcount.Load() + 1) % TotalLines
	if line != VisibleLines {
		d.vcount.Store(line)
		return
	}
	d.vblanks.Add(1)
	d.vcount.Store(line)
	if d.irq != nil {
		d.irq.Raise(hw.IRQVBlank)
	}
}

// advance ticks at most n lines and stops early right after vblank begins,
// leaving the vblank window open until the next call. It returns the number
// of lines ticked.
func (d *Display) advance(n int64) int64 {
	var i int64
	for i < n {
		d.Tick()
		i++
		if d.VCount() == VisibleLines {
			break
		}
	}
	return i
}

// AdvanceToVBlank ticks until the next vblank begins.
func (d *Display) AdvanceToVBlank() {
	for {
		d.Tick()
		if d.VCount() == VisibleLines {
			return
		}
	}
}

// AdvanceToDraw ticks until the visible period begins.
func (d *Display) AdvanceToDraw() {
	for d.VCount() != 0 {
		d.Tick()
	}
}

// Run drives the scanline counter in real time until ctx is done.
// lineInterval <= 0 selects LineInterval. When lines are shorter than the
// clock resolution the display falls behind wall time, holding each vblank
// open for at least one clock period.
func (d *Display) Run(ctx context.Context, lineInterval time.Duration) error {
	if lineInterval <= 0 {
		lineInterval = LineInterval
	}

	ticker := time.NewTicker(clockResolution)
	defer ticker.Stop()

	start := time.Now()
	var done int64
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			// Catch up to wall time so coarse timers do not slow the display,
			// but never run through a vblank in one batch.
			due := int64(now.Sub(start) / lineInterval)
			if done < due {
				done += d.advance(due - done)
			}
		}
	}
}

var _ hw.VBlankFlag = (*Display)(nil)
