// Package hw describes the hardware surfaces the frame loop runs against:
// the keypad register, the display status flag, object attribute memory and
// the interrupt controller. Real bring-up code or the simulated machine in
// package sim provides the implementations; the loop only sees these
// interfaces, handed to it explicitly rather than through globals.
package hw

// KeyRegister exposes the raw keypad register. The value is active-low:
// a clear bit means the button is held.
type KeyRegister interface {
	ReadKeys() uint16
}

// VBlankFlag exposes the vblank bit of the display status register.
type VBlankFlag interface {
	InVBlank() bool
}

// ObjectMemory is the hardware-visible object attribute table.
// WriteTable must only be called during vblank; writing outside that window
// is not an error but tears the picture.
type ObjectMemory interface {
	WriteTable(t *ObjectTable)
}

// Handler is an interrupt callback. It runs inside the critical section
// named by cs and must be short and must not block.
type Handler func(cs CriticalSection)

// Registration keeps a handler installed until Close is called.
type Registration interface {
	Close() error
}

// InterruptController installs handlers and grants critical sections.
type InterruptController interface {
	Register(irq Interrupt, h Handler) (Registration, error)

	// Free runs fn with interrupts masked, so fn cannot interleave with
	// any handler.
	Free(fn func(cs CriticalSection))
}
