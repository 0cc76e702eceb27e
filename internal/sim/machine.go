// Package sim is a software model of the target machine's display timing,
// keypad, object memory and interrupt controller. It stands in for hardware
// bring-up so the frame loop runs in a terminal and under test.
package sim

import (
	"context"
	"time"
)

// Machine bundles the simulated hardware surfaces.
type Machine struct {
	IRQ     *InterruptController
	Display *Display
	Keypad  *Keypad
	OAM     *ObjectMemory
}

// NewMachine wires a display to an interrupt controller and object memory
// to the display's vblank flag.
func NewMachine() *Machine {
	irq := NewInterruptController()
	display := NewDisplay(irq)
	return &Machine{
		IRQ:     irq,
		Display: display,
		Keypad:  NewKeypad(),
		OAM:     NewObjectMemory(display),
	}
}

// Run drives the display clock in real time until ctx is done.
func (m *Machine) Run(ctx context.Context, lineInterval time.Duration) error {
	return m.Display.Run(ctx, lineInterval)
}
