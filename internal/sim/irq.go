package sim

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/vovakirdan/spritemover/internal/hw"
)

// ErrNilHandler is returned when registering a nil interrupt handler.
var ErrNilHandler = errors.New("sim: nil interrupt handler")

// InterruptController dispatches simulated interrupts. Handlers for one
// raise run back to back while the critical section is held, so they never
// interleave with each other or with Free.
type InterruptController struct {
	cs sync.Mutex // held for every dispatch, Free and Close

	mu       sync.RWMutex
	handlers [hw.NumInterrupts][]*Registration

	raised [hw.NumInterrupts]atomic.Uint64
}

// NewInterruptController creates a controller with nothing installed.
func NewInterruptController() *InterruptController {
	return &InterruptController{}
}

// Registration is a live handler installation.
type Registration struct {
	c    *InterruptController
	irq  hw.Interrupt
	h    hw.Handler
	once sync.Once
}

// Register installs h for irq. The handler stays installed until the
// returned registration is closed.
func (c *InterruptController) Register(irq hw.Interrupt, h hw.Handler) (hw.Registration, error) {
	if !irq.Valid() {
		return nil, fmt.Errorf("sim: cannot register handler for %v", irq)
	}
	if h == nil {
		return nil, ErrNilHandler
	}

	r := &Registration{c: c, irq: irq, h: h}

	c.mu.Lock()
	c.handlers[irq] = append(c.handlers[irq], r)
	c.mu.Unlock()

	return r, nil
}

// Close uninstalls the handler. It waits for a dispatch in progress, so the
// handler never runs after Close returns. Closing twice is a no-op; closing
// from inside a handler deadlocks.
func (r *Registration) Close() error {
	r.once.Do(func() {
		c := r.c
		c.cs.Lock()
		defer c.cs.Unlock()
		c.mu.Lock()
		defer c.mu.Unlock()

		list := c.handlers[r.irq]
		for i, other := range list {
			if other == r {
				c.handlers[r.irq] = append(list[:i:i], list[i+1:]...)
				break
			}
		}
	})
	return nil
}

// Raise signals irq and runs its handlers inside the critical section.
// Handlers must not call Free, Raise or Close.
func (c *InterruptController) Raise(irq hw.Interrupt) {
	if !irq.Valid() {
		return
	}
	c.raised[irq].Add(1)

	c.cs.Lock()
	defer c.cs.Unlock()

	c.mu.RLock()
	list := c.handlers[irq]
	c.mu.RUnlock()
	for _, r := range list {
		r.h(hw.CriticalSection{})
	}
}

// Free runs fn with interrupt dispatch held off.
func (c *InterruptController) Free(fn func(cs hw.CriticalSection)) {
	c.cs.Lock()
	defer c.cs.Unlock()
	fn(hw.CriticalSection{})
}

// Raised returns how many times irq has been signalled.
func (c *InterruptController) Raised(irq hw.Interrupt) uint64 {
	if !irq.Valid() {
		return 0
	}
	return c.raised[irq].Load()
}

// Installed returns the number of handlers currently registered for irq.
func (c *InterruptController) Installed(irq hw.Interrupt) int {
	if !irq.Valid() {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.handlers[irq])
}

var _ hw.InterruptController = (*InterruptController)(nil)
