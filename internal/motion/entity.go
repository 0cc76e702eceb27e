package motion

import (
	"github.com/vovakirdan/spritemover/internal/core"
	"github.com/vovakirdan/spritemover/internal/oam"
)

// Bounds is the screen size and the sprite extent kept on it. The invariant
// 0 <= x <= Width-SpriteWidth and 0 <= y <= Height-SpriteHeight holds after
// every update.
type Bounds struct {
	Width, Height             int
	SpriteWidth, SpriteHeight int
}

// MaxX returns the largest x that keeps the sprite on screen.
func (b Bounds) MaxX() int {
	return b.Width - b.SpriteWidth
}

// MaxY returns the largest y that keeps the sprite on screen.
func (b Bounds) MaxY() int {
	return b.Height - b.SpriteHeight
}

// Contains reports whether the entity satisfies the bounds invariant.
func (b Bounds) Contains(e Entity) bool {
	return e.X >= 0 && e.X <= b.MaxX() && e.Y >= 0 && e.Y <= b.MaxY()
}

// CanMove is the guard run before every axis update: it is true only when
// moving e one velocity step in d keeps that axis inside the bounds. With
// velocity 1 this is "not already at the edge".
func (b Bounds) CanMove(e Entity, d Direction) bool {
	next := e.Position().Add(d.Delta(e.Velocity))
	if d.Horizontal() {
		return next.X >= 0 && next.X <= b.MaxX()
	}
	return next.Y >= 0 && next.Y <= b.MaxY()
}

// Entity is the moving sprite: position, per-frame velocity and the object
// handle its position is staged into.
type Entity struct {
	X, Y     int
	Velocity int
	Sprite   *oam.Object
}

// NewEntity places an entity at (x, y) pulled inside b.
func NewEntity(x, y, velocity int, b Bounds, sprite *oam.Object) *Entity {
	return &Entity{
		X:        core.Clamp(x, 0, b.MaxX()),
		Y:        core.Clamp(y, 0, b.MaxY()),
		Velocity: velocity,
		Sprite:   sprite,
	}
}

// Position returns the entity's coordinates.
func (e Entity) Position() core.Point {
	return core.Point{X: e.X, Y: e.Y}
}

// UpdatePos moves the entity one velocity step in d. It does not check
// bounds; callers run Bounds.CanMove first.
func (e *Entity) UpdatePos(d Direction) {
	delta := d.Delta(e.Velocity)
	e.X += delta.X
	e.Y += delta.Y
}

// Stage writes the position and visibility into the sprite's shadow entry.
func (e *Entity) Stage() {
	if e.Sprite == nil {
		return
	}
	e.Sprite.Stage(uint16(e.X), uint16(e.Y))
}
