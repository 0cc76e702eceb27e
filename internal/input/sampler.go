// Package input samples the keypad once per frame.
package input

import (
	"github.com/vovakirdan/spritemover/internal/core"
	"github.com/vovakirdan/spritemover/internal/hw"
)

// Sampler holds the button snapshot for the current frame. Queries never
// touch the hardware register; only Update does.
type Sampler struct {
	reg      hw.KeyRegister
	current  core.ButtonSet
	previous core.ButtonSet
}

// NewSampler creates a sampler over the given keypad register. The
// snapshot is empty until the first Update.
func NewSampler(reg hw.KeyRegister) *Sampler {
	return &Sampler{reg: reg}
}

// Update reads the keypad register and replaces the snapshot.
func (s *Sampler) Update() {
	s.previous = s.current
	s.current = core.ButtonSetFromRegister(s.reg.ReadKeys())
}

// IsPressed reports whether b was held when Update last ran.
func (s *Sampler) IsPressed(b core.Button) bool {
	return s.current.Has(b)
}

// Pressed returns the whole snapshot.
func (s *Sampler) Pressed() core.ButtonSet {
	return s.current
}

// JustPressed reports whether b went down between the last two updates.
func (s *Sampler) JustPressed(b core.Button) bool {
	return s.current.Has(b) && !s.previous.Has(b)
}

// JustReleased reports whether b went up between the last two updates.
func (s *Sampler) JustReleased(b core.Button) bool {
	return !s.current.Has(b) && s.previous.Has(b)
}
