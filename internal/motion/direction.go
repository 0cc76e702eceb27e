// Package motion moves one entity at a fixed velocity and keeps its whole
// sprite on screen. Every axis change goes through a single guard,
// Bounds.CanMove, which is evaluated before the change is made.
package motion

import (
	"strings"

	"github.com/vovakirdan/spritemover/internal/core"
)

// Direction is one of the four d-pad directions.
type Direction uint8

const (
	Up Direction = iota
	Down
	Left
	Right
)

// Order is the sequence Step evaluates held directions in.
var Order = [...]Direction{Up, Down, Left, Right}

// String returns a human-readable name for the direction.
func (d Direction) String() string {
	switch d {
	case Up:
		return "Up"
	case Down:
		return "Down"
	case Left:
		return "Left"
	case Right:
		return "Right"
	default:
		return "Unknown"
	}
}

// Button returns the d-pad button that requests this direction.
func (d Direction) Button() core.Button {
	switch d {
	case Up:
		return core.ButtonUp
	case Down:
		return core.ButtonDown
	case Left:
		return core.ButtonLeft
	case Right:
		return core.ButtonRight
	}
	return 0
}

// Delta returns the position change for one step of velocity v.
func (d Direction) Delta(v int) core.Point {
	switch d {
	case Up:
		return core.Point{Y: -v}
	case Down:
		return core.Point{Y: v}
	case Left:
		return core.Point{X: -v}
	case Right:
		return core.Point{X: v}
	}
	return core.Point{}
}

// Horizontal reports whether the direction moves along x.
func (d Direction) Horizontal() bool {
	return d == Left || d == Right
}

// DirectionSet is a small set of directions.
type DirectionSet uint8

// Has returns true if d is in the set.
func (s DirectionSet) Has(d Direction) bool {
	return s&(1<<d) != 0
}

// With returns a copy of the set including d.
func (s DirectionSet) With(d Direction) DirectionSet {
	return s | 1<<d
}

// String joins the directions with '+', or "-" for the empty set.
func (s DirectionSet) String() string {
	var names []string
	for _, d := range Order {
		if s.Has(d) {
			names = append(names, d.String())
		}
	}
	if len(names) == 0 {
		return "-"
	}
	return strings.Join(names, "+")
}
