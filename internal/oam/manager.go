// Package oam stages object attributes in a shadow table and flushes them to
// hardware object memory. Staging is a pure in-memory write; Commit is the
// only operation that touches display memory and belongs inside vblank.
package oam

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/spritemover/internal/assets"
	"github.com/vovakirdan/spritemover/internal/hw"
)

// ErrNoFreeObjects is returned when every object slot is allocated.
var ErrNoFreeObjects = errors.New("oam: no free object slots")

// Manager owns the shadow table and the live object memory it commits to.
// It is used from the main loop only.
type Manager struct {
	live    hw.ObjectMemory
	shadow  hw.ObjectTable
	used    [hw.NumObjects]bool
	commits uint64
}

// NewManager creates a manager with every shadow entry hidden.
func NewManager(live hw.ObjectMemory) *Manager {
	return &Manager{
		live:   live,
		shadow: hw.NewObjectTable(),
	}
}

// AllocateObject claims a free slot showing frame. The object starts hidden
// at (0, 0) until staged.
func (m *Manager) AllocateObject(frame assets.Frame) (*Object, error) {
	for i := range m.used {
		if m.used[i] {
			continue
		}
		obj := &Object{m: m, index: i}
		m.shadow[i] = hw.HiddenObject
		if err := obj.SetSprite(frame); err != nil {
			return nil, fmt.Errorf("oam: cannot show frame %d: %w", frame.Index, err)
		}

		m.used[i] = true
		return obj, nil
	}
	return nil, ErrNoFreeObjects
}

// Commit copies the whole shadow table to live object memory. Call it once
// per frame, after the synchronizer reports vblank.
func (m *Manager) Commit() {
	table := m.shadow
	m.live.WriteTable(&table)
	m.commits++
}

// Commits returns how many times Commit has run.
func (m *Manager) Commits() uint64 {
	return m.commits
}

// Shadow returns a copy of the staged table.
func (m *Manager) Shadow() hw.ObjectTable {
	return m.shadow
}

// InUse returns the number of allocated slots.
func (m *Manager) InUse() int {
	n := 0
	for _, u := range m.used {
		if u {
			n++
		}
	}
	return n
}
