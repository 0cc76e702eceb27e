package sim

import (
	"sync"
	"time"

	"github.com/vovakirdan/spritemover/internal/core"
	"github.com/vovakirdan/spritemover/internal/hw"
)

// Keypad simulates the active-low keypad register. Buttons can be held
// until released, or held for a duration for input sources (terminals) that
// report presses but never releases.
type Keypad struct {
	mu    sync.Mutex
	held  core.ButtonSet
	timed map[core.Button]time.Time
	now   func() time.Time
}

// NewKeypad creates a keypad with nothing held.
func NewKeypad() *Keypad {
	return &Keypad{
		timed: make(map[core.Button]time.Time),
		now:   time.Now,
	}
}

// Press holds b until Release.
func (k *Keypad) Press(b core.Button) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.held = k.held.With(b)
}

// Release lets go of b, including any timed hold.
func (k *Keypad) Release(b core.Button) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.held = k.held.Without(b)
	delete(k.timed, b)
}

// Set replaces the held buttons. Timed holds are kept.
func (k *Keypad) Set(s core.ButtonSet) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.held = s
}

// PressFor holds b for d from now, extending an earlier timed hold.
func (k *Keypad) PressFor(b core.Button, d time.Duration) {
	k.mu.Lock()
	defer k.mu.Unlock()
	until := k.now().Add(d)
	if prev, ok := k.timed[b]; !ok || until.After(prev) {
		k.timed[b] = until
	}
}

// Held returns the buttons held right now.
func (k *Keypad) Held() core.ButtonSet {
	k.mu.Lock()
	defer k.mu.Unlock()

	s := k.held
	now := k.now()
	for b, until := range k.timed {
		if now.Before(until) {
			s = s.With(b)
		} else {
			delete(k.timed, b)
		}
	}
	return s
}

// ReadKeys returns the register value: a clear bit is a held button.
func (k *Keypad) ReadKeys() uint16 {
	return k.Held().Register()
}

var _ hw.KeyRegister = (*Keypad)(nil)
