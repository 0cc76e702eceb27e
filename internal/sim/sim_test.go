package sim

import (
	"context"
	"runtime"
	"sync/atomic"
	"testing"
	"time"

	"github.com/vovakirdan/spritemover/internal/core"
	"github.com/vovakirdan/spritemover/internal/hw"
)

func TestLineInterval(t *testing.T) {
	if LineInterval != 73433*time.Nanosecond {
		t.Errorf("LineInterval = %v, expected 73.433µs", LineInterval)
	}
}

func TestDisplayVBlankTiming(t *testing.T) {
	d := NewDisplay(nil)

	if d.InVBlank() {
		t.Fatal("display should start in the visible period")
	}

	for i := 0; i < VisibleLines-1; i++ {
		d.Tick()
	}
	if d.InVBlank() {
		t.Fatalf("line %d should be visible", d.VCount())
	}

	d.Tick()
	if !d.InVBlank() || d.VCount() != VisibleLines {
		t.Fatalf("line %d should start vblank", d.VCount())
	}
	if d.VBlanks() != 1 {
		t.Errorf("VBlanks() = %d, expected 1", d.VBlanks())
	}

	d.AdvanceToDraw()
	if d.InVBlank() || d.VCount() != 0 {
		t.Errorf("AdvanceToDraw() stopped at line %d", d.VCount())
	}

	d.AdvanceToVBlank()
	if d.VBlanks() != 2 {
		t.Errorf("VBlanks() = %d, expected 2", d.VBlanks())
	}
}

func TestDisplayRaisesVBlankInterrupt(t *testing.T) {
	irq := NewInterruptController()
	d := NewDisplay(irq)

	var calls int
	reg, err := irq.Register(hw.IRQVBlank, func(hw.CriticalSection) { calls++ })
	if err != nil {
		t.Fatalf("Register() failed: %v", err)
	}

	for i := 0; i < 3; i++ {
		d.AdvanceToVBlank()
	}
	if calls != 3 {
		t.Errorf("handler ran %d times, expected 3", calls)
	}
	if irq.Raised(hw.IRQVBlank) != 3 {
		t.Errorf("Raised() = %d, expected 3", irq.Raised(hw.IRQVBlank))
	}

	if err := reg.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}
	d.AdvanceToVBlank()
	if calls != 3 {
		t.Errorf("handler ran after Close, %d calls", calls)
	}
	if irq.Installed(hw.IRQVBlank) != 0 {
		t.Errorf("Installed() = %d after Close, expected 0", irq.Installed(hw.IRQVBlank))
	}
}

func TestDisplayRun(t *testing.T) {
	d := NewDisplay(nil)
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	// 10µs lines: roughly four frames per 10ms
	err := d.Run(ctx, 10*time.Microsecond)
	if err != context.DeadlineExceeded {
		t.Errorf("Run() = %v, expected deadline exceeded", err)
	}
	if d.VBlanks() == 0 {
		t.Error("Run() should have produced vblanks")
	}
}

func TestDisplayAdvanceStopsAtVBlank(t *testing.T) {
	d := NewDisplay(nil)

	tests := []struct {
		name    string
		n       int64
		ticked  int64
		line    int
		vblanks uint64
	}{
		{"visible period", 1000, VisibleLines, VisibleLines, 1},
		{"whole frame", 1000, TotalLines, VisibleLines, 2},
		{"inside vblank", 10, 10, VisibleLines + 10, 2},
		{"nothing due", 0, 0, VisibleLines + 10, 2},
	}

	for _, tc := range tests {
		if got := d.advance(tc.n); got != tc.ticked {
			t.Errorf("%s: advance(%d) = %d, expected %d", tc.name, tc.n, got, tc.ticked)
		}
		if d.VCount() != tc.line {
			t.Errorf("%s: VCount() = %d, expected %d", tc.name, d.VCount(), tc.line)
		}
		if d.VBlanks() != tc.vblanks {
			t.Errorf("%s: VBlanks() = %d, expected %d", tc.name, d.VBlanks(), tc.vblanks)
		}
	}
}

func TestDisplayRunHoldsVBlankOpen(t *testing.T) {
	irq := NewInterruptController()
	d := NewDisplay(irq)

	// Each vblank handler samples the line a moment later; a batch that ran
	// through the vblank would already be back in the visible period.
	var open, closed atomic.Uint64
	woke := make(chan struct{}, 1)
	reg, err := irq.Register(hw.IRQVBlank, func(hw.CriticalSection) {
		select {
		case woke <- struct{}{}:
		default:
		}
	})
	if err != nil {
		t.Fatalf("Register() failed: %v", err)
	}
	defer reg.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-woke:
				if d.InVBlank() {
					open.Add(1)
				} else {
					closed.Add(1)
				}
			}
		}
	}()

	// 1µs lines: a full frame fits in one clock period
	_ = d.Run(ctx, time.Microsecond)

	if open.Load() == 0 {
		t.Fatal("no vblank was observed")
	}
	if closed.Load() > open.Load() {
		t.Errorf("vblank closed before the handler's waiter ran: open=%d closed=%d", open.Load(), closed.Load())
	}
}

func TestInterruptControllerRegister(t *testing.T) {
	irq := NewInterruptController()

	if _, err := irq.Register(hw.Interrupt(99), func(hw.CriticalSection) {}); err == nil {
		t.Error("expected error for an invalid interrupt")
	}
	if _, err := irq.Register(hw.IRQVBlank, nil); err != ErrNilHandler {
		t.Errorf("Register(nil) error = %v, expected ErrNilHandler", err)
	}

	var a, b int
	regA, _ := irq.Register(hw.IRQVBlank, func(hw.CriticalSection) { a++ })
	_, _ = irq.Register(hw.IRQVBlank, func(hw.CriticalSection) { b++ })
	_, _ = irq.Register(hw.IRQHBlank, func(hw.CriticalSection) { t.Error("HBlank handler should not run") })

	irq.Raise(hw.IRQVBlank)
	if a != 1 || b != 1 {
		t.Fatalf("handlers ran a=%d b=%d, expected 1 each", a, b)
	}

	_ = regA.Close()
	_ = regA.Close()
	irq.Raise(hw.IRQVBlank)
	if a != 1 || b != 2 {
		t.Errorf("after Close a=%d b=%d, expected a=1 b=2", a, b)
	}
}

func TestRegistrationCloseStopsDispatch(t *testing.T) {
	irq := NewInterruptController()

	var calls atomic.Uint64
	reg, err := irq.Register(hw.IRQVBlank, func(hw.CriticalSection) { calls.Add(1) })
	if err != nil {
		t.Fatalf("Register() failed: %v", err)
	}

	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case <-stop:
				return
			default:
				irq.Raise(hw.IRQVBlank)
			}
		}
	}()

	for calls.Load() == 0 {
		runtime.Gosched()
	}
	if err := reg.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}
	after := calls.Load()

	time.Sleep(5 * time.Millisecond)
	close(stop)
	<-done

	if got := calls.Load(); got != after {
		t.Errorf("handler ran %d times after Close returned", got-after)
	}
}

func TestInterruptControllerCriticalSection(t *testing.T) {
	irq := NewInterruptController()
	cell := hw.NewCell(0)

	_, err := irq.Register(hw.IRQVBlank, func(cs hw.CriticalSection) {
		*cell.Borrow(cs)++
	})
	if err != nil {
		t.Fatalf("Register() failed: %v", err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 1000; i++ {
			irq.Raise(hw.IRQVBlank)
		}
	}()

	for i := 0; i < 1000; i++ {
		irq.Free(func(cs hw.CriticalSection) {
			*cell.Borrow(cs)++
		})
	}
	<-done

	var total int
	irq.Free(func(cs hw.CriticalSection) { total = *cell.Borrow(cs) })
	if total != 2000 {
		t.Errorf("cell = %d, expected 2000", total)
	}
}

func TestKeypadPressRelease(t *testing.T) {
	k := NewKeypad()

	if k.ReadKeys() != core.KeyMask {
		t.Fatalf("idle register = %#04x, expected %#04x", k.ReadKeys(), core.KeyMask)
	}

	k.Press(core.ButtonRight)
	if core.ButtonSetFromRegister(k.ReadKeys()) != core.ButtonSet(core.ButtonRight) {
		t.Errorf("register after Press = %#04x", k.ReadKeys())
	}

	k.Release(core.ButtonRight)
	if k.Held() != 0 {
		t.Errorf("Held() after Release = %v", k.Held())
	}

	k.Set(core.ButtonSet(core.ButtonUp | core.ButtonDown))
	if !k.Held().Has(core.ButtonUp) || !k.Held().Has(core.ButtonDown) {
		t.Errorf("Held() after Set = %v", k.Held())
	}
}

func TestKeypadPressFor(t *testing.T) {
	k := NewKeypad()
	now := time.Unix(1000, 0)
	k.now = func() time.Time { return now }

	k.PressFor(core.ButtonLeft, 100*time.Millisecond)
	if !k.Held().Has(core.ButtonLeft) {
		t.Fatal("Left should be held inside the window")
	}

	// A shorter repeat must not cut the hold short
	k.PressFor(core.ButtonLeft, 10*time.Millisecond)
	now = now.Add(50 * time.Millisecond)
	if !k.Held().Has(core.ButtonLeft) {
		t.Error("Left should still be held at 50ms")
	}

	now = now.Add(60 * time.Millisecond)
	if k.Held().Has(core.ButtonLeft) {
		t.Error("Left should be released after the window")
	}

	k.PressFor(core.ButtonA, time.Second)
	k.Release(core.ButtonA)
	if k.Held().Has(core.ButtonA) {
		t.Error("Release should cancel a timed hold")
	}
}

func TestObjectMemoryTears(t *testing.T) {
	d := NewDisplay(nil)
	mem := NewObjectMemory(d)
	table := hw.NewObjectTable()
	table[0].SetX(42)

	// Visible period: counts as a tear but still lands
	mem.WriteTable(&table)
	if mem.Tears() != 1 {
		t.Errorf("Tears() = %d, expected 1", mem.Tears())
	}
	if snap := mem.Snapshot(); snap[0].X() != 42 {
		t.Errorf("snapshot X = %d, expected 42", snap[0].X())
	}

	d.AdvanceToVBlank()
	mem.WriteTable(&table)
	if mem.Tears() != 1 {
		t.Errorf("Tears() = %d after vblank write, expected 1", mem.Tears())
	}
	if mem.Writes() != 2 {
		t.Errorf("Writes() = %d, expected 2", mem.Writes())
	}
}

func TestMachineRun(t *testing.T) {
	m := NewMachine()
	var seen atomic.Uint64
	_, _ = m.IRQ.Register(hw.IRQVBlank, func(hw.CriticalSection) { seen.Add(1) })

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Millisecond)
	defer cancel()
	_ = m.Run(ctx, 5*time.Microsecond)

	if seen.Load() == 0 || seen.Load() != m.Display.VBlanks() {
		t.Errorf("handler saw %d vblanks, display counted %d", seen.Load(), m.Display.VBlanks())
	}
}
