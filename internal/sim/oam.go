package sim

import (
	"sync"
	"sync/atomic"

	"github.com/vovakirdan/spritemover/internal/hw"
)

// ObjectMemory simulates object attribute memory. The renderer reads it
// concurrently with the frame loop's commits.
type ObjectMemory struct {
	mu    sync.RWMutex
	table hw.ObjectTable

	flag   hw.VBlankFlag
	writes atomic.Uint64
	tears  atomic.Uint64
}

// NewObjectMemory creates object memory with every entry hidden. Writes
// made while flag reports the visible period are counted as tears; a nil
// flag disables the check.
func NewObjectMemory(flag hw.VBlankFlag) *ObjectMemory {
	return &ObjectMemory{
		table: hw.NewObjectTable(),
		flag:  flag,
	}
}

// WriteTable replaces the live table.
func (m *ObjectMemory) WriteTable(t *hw.ObjectTable) {
	if m.flag != nil && !m.flag.InVBlank() {
		m.tears.Add(1)
	}

	m.mu.Lock()
	m.table = *t
	m.mu.Unlock()

	m.writes.Add(1)
}

// Snapshot returns a copy of the live table.
func (m *ObjectMemory) Snapshot() hw.ObjectTable {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.table
}

// Writes returns the number of WriteTable calls.
func (m *ObjectMemory) Writes() uint64 {
	return m.writes.Load()
}

// Tears returns the number of writes made outside vblank.
func (m *ObjectMemory) Tears() uint64 {
	return m.tears.Load()
}

var _ hw.ObjectMemory = (*ObjectMemory)(nil)
