package frame

import (
	"context"
	"errors"
	"fmt"

	"github.com/vovakirdan/spritemover/internal/hw"
	"github.com/vovakirdan/spritemover/internal/registry"
)

// IRQWait sleeps until the vblank interrupt. Its handler only posts to a
// one-slot channel, so it never blocks inside the interrupt.
type IRQWait struct {
	reg    hw.Registration
	signal chan struct{}
}

// NewIRQWait installs the vblank handler. Close removes it.
func NewIRQWait(ctrl hw.InterruptController) (*IRQWait, error) {
	w := &IRQWait{signal: make(chan struct{}, 1)}

	reg, err := ctrl.Register(hw.IRQVBlank, func(hw.CriticalSection) {
		select {
		case w.signal <- struct{}{}:
		default:
		}
	})
	if err != nil {
		return nil, fmt.Errorf("frame: cannot install vblank handler: %w", err)
	}
	w.reg = reg
	return w, nil
}

// Name returns "interrupt".
func (w *IRQWait) Name() string {
	return "interrupt"
}

// WaitForVBlank discards a vblank that fired while the loop was busy and
// blocks for the next one.
func (w *IRQWait) WaitForVBlank(ctx context.Context) error {
	select {
	case <-w.signal:
	default:
	}

	select {
	case <-w.signal:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close uninstalls the vblank handler.
func (w *IRQWait) Close() error {
	return w.reg.Close()
}

func init() {
	registry.Register("interrupt", "Sleep until the vblank interrupt fires", func(h registry.Hardware) (registry.Synchronizer, error) {
		if h.IRQ == nil {
			return nil, errors.New("frame: interrupt wait needs an interrupt controller")
		}
		return NewIRQWait(h.IRQ)
	})
}
