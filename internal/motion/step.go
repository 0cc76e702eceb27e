package motion

import "github.com/vovakirdan/spritemover/internal/core"

// ButtonState answers level-triggered button queries for one frame.
type ButtonState interface {
	IsPressed(b core.Button) bool
}

// Moves records what a Step did with each held direction.
type Moves struct {
	Applied DirectionSet
	Blocked DirectionSet // held, but the guard refused
}

// Step applies one frame of input. Each held direction gets one guarded
// update, in Order. Opposite directions held together are both applied, so
// they cancel unless the guard stops one of them.
func Step(e *Entity, b Bounds, in ButtonState) Moves {
	var m Moves
	for _, d := range Order {
		if !in.IsPressed(d.Button()) {
			continue
		}
		if !b.CanMove(*e, d) {
			m.Blocked = m.Blocked.With(d)
			continue
		}
		e.UpdatePos(d)
		m.Applied = m.Applied.With(d)
	}
	return m
}
