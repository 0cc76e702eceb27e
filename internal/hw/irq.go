package hw

import "fmt"

// Interrupt identifies an interrupt source. Values match IE/IF bit numbers.
type Interrupt uint8

const (
	IRQVBlank Interrupt = iota
	IRQHBlank
	IRQVCounter
	IRQTimer0
	IRQTimer1
	IRQTimer2
	IRQTimer3
	IRQSerial
	IRQDMA0
	IRQDMA1
	IRQDMA2
	IRQDMA3
	IRQKeypad
	IRQGamePak
)

// NumInterrupts is the number of interrupt sources.
const NumInterrupts = 14

func (i Interrupt) String() string {
	switch i {
	case IRQVBlank:
		return "VBlank"
	case IRQHBlank:
		return "HBlank"
	case IRQVCounter:
		return "VCounter"
	case IRQKeypad:
		return "Keypad"
	case IRQGamePak:
		return "GamePak"
	}
	if i >= IRQTimer0 && i <= IRQTimer3 {
		return fmt.Sprintf("Timer%d", i-IRQTimer0)
	}
	if i >= IRQDMA0 && i <= IRQDMA3 {
		return fmt.Sprintf("DMA%d", i-IRQDMA0)
	}
	if i == IRQSerial {
		return "Serial"
	}
	return fmt.Sprintf("Interrupt(%d)", uint8(i))
}

// Valid reports whether i names a real interrupt source.
func (i Interrupt) Valid() bool {
	return i < NumInterrupts
}

// CriticalSection is a capability proving interrupts are masked for the
// duration of the call it was passed into. It must not be retained after
// that call returns.
type CriticalSection struct {
	_ [0]func()
}

// Cell holds a value shared between the main loop and interrupt handlers.
// The value is only reachable through Borrow, which demands a
// CriticalSection.
type Cell[T any] struct {
	v T
}

// NewCell wraps v.
func NewCell[T any](v T) *Cell[T] {
	return &Cell[T]{v: v}
}

// Borrow returns the guarded value. The pointer is valid only while cs is.
func (c *Cell[T]) Borrow(_ CriticalSection) *T {
	return &c.v
}
