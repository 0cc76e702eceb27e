package frame

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/spritemover/internal/hw"
)

// VBlankEvent is what the observer records for each vblank.
type VBlankEvent struct {
	Seq uint64
	At  time.Time
}

// VBlankObserver watches vblank interrupts from the side. It never drives
// the loop: the handler counts, records the latest event in a cell guarded
// by the critical section, and offers the event to a buffered channel
// without blocking. Logging happens in Drain, outside interrupt context.
type VBlankObserver struct {
	ctrl    hw.InterruptController
	reg     hw.Registration
	last    *hw.Cell[VBlankEvent]
	events  chan VBlankEvent
	count   atomic.Uint64
	dropped atomic.Uint64
	now     func() time.Time
}

// NewVBlankObserver installs the observing handler. buffer is how many
// events may queue before new ones are dropped.
func NewVBlankObserver(ctrl hw.InterruptController, buffer int) (*VBlankObserver, error) {
	if buffer < 1 {
		buffer = 1
	}
	o := &VBlankObserver{
		ctrl:   ctrl,
		last:   hw.NewCell(VBlankEvent{}),
		events: make(chan VBlankEvent, buffer),
		now:    time.Now,
	}

	reg, err := ctrl.Register(hw.IRQVBlank, o.handle)
	if err != nil {
		return nil, fmt.Errorf("frame: cannot install vblank observer: %w", err)
	}
	o.reg = reg
	return o, nil
}

func (o *VBlankObserver) handle(cs hw.CriticalSection) {
	ev := VBlankEvent{Seq: o.count.Add(1), At: o.now()}
	*o.last.Borrow(cs) = ev

	select {
	case o.events <- ev:
	default:
		o.dropped.Add(1)
	}
}

// Count returns the number of vblanks observed.
func (o *VBlankObserver) Count() uint64 {
	return o.count.Load()
}

// Dropped returns how many events overflowed the buffer.
func (o *VBlankObserver) Dropped() uint64 {
	return o.dropped.Load()
}

// Last returns the most recent event, read inside a critical section.
func (o *VBlankObserver) Last() VBlankEvent {
	var ev VBlankEvent
	o.ctrl.Free(func(cs hw.CriticalSection) {
		ev = *o.last.Borrow(cs)
	})
	return ev
}

// Events exposes the queued events.
func (o *VBlankObserver) Events() <-chan VBlankEvent {
	return o.events
}

// Drain logs queued events at debug level until ctx is done.
func (o *VBlankObserver) Drain(ctx context.Context, logger *log.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-o.events:
			logger.Debug("vblank", "seq", ev.Seq)
		}
	}
}

// Close uninstalls the observing handler.
func (o *VBlankObserver) Close() error {
	return o.reg.Close()
}
