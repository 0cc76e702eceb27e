// Package frame runs the per-frame loop and provides the two ways of
// waiting for vertical blank: polling the status flag, or sleeping until
// the vblank interrupt.
package frame

import (
	"context"
	"errors"
	"runtime"

	"github.com/vovakirdan/spritemover/internal/hw"
	"github.com/vovakirdan/spritemover/internal/registry"
)

// pollBatch is how many flag reads happen between context checks.
const pollBatch = 1024

// BusyWait waits for vblank by spinning on the display status flag.
type BusyWait struct {
	flag      hw.VBlankFlag
	lastPolls uint64
}

// NewBusyWait creates a busy-wait synchronizer over flag.
func NewBusyWait(flag hw.VBlankFlag) *BusyWait {
	return &BusyWait{flag: flag}
}

// Name returns "busy".
func (b *BusyWait) Name() string {
	return "busy"
}

// WaitForVBlank spins out the rest of any vblank already in progress, then
// spins until the next one begins, so it returns once per frame. Each poll
// yields the processor so the display clock keeps running on a single CPU.
func (b *BusyWait) WaitForVBlank(ctx context.Context) error {
	var polls uint64
	for _, wantVBlank := range [2]bool{false, true} {
		for b.flag.InVBlank() != wantVBlank {
			polls++
			runtime.Gosched()
			if polls%pollBatch == 0 {
				if err := ctx.Err(); err != nil {
					b.lastPolls = polls
					return err
				}
			}
		}
	}
	b.lastPolls = polls
	return nil
}

// LastPolls returns how many flag reads the previous wait spent spinning.
func (b *BusyWait) LastPolls() uint64 {
	return b.lastPolls
}

// Close is a no-op; busy-waiting installs nothing.
func (b *BusyWait) Close() error {
	return nil
}

func init() {
	registry.Register("busy", "Spin on the display status vblank flag", func(h registry.Hardware) (registry.Synchronizer, error) {
		if h.Flag == nil {
			return nil, errors.New("frame: busy-wait needs a vblank flag")
		}
		return NewBusyWait(h.Flag), nil
	})
}
