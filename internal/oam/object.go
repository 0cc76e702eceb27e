package oam

import (
	"github.com/vovakirdan/spritemover/internal/assets"
	"github.com/vovakirdan/spritemover/internal/hw"
)

// Object is a handle to one allocated shadow entry. Setters only change the
// shadow table and return the handle so calls can be chained.
type Object struct {
	m     *Manager
	index int
}

func (o *Object) attr() *hw.ObjectAttr {
	return &o.m.shadow[o.index]
}

// Index returns the object's slot in object memory.
func (o *Object) Index() int {
	return o.index
}

// SetX stages the horizontal coordinate.
func (o *Object) SetX(x uint16) *Object {
	o.attr().SetX(x)
	return o
}

// SetY stages the vertical coordinate.
func (o *Object) SetY(y uint16) *Object {
	o.attr().SetY(y)
	return o
}

// Show stages the object as visible.
func (o *Object) Show() *Object {
	o.attr().SetHidden(false)
	return o
}

// Hide stages the object as hidden.
func (o *Object) Hide() *Object {
	o.attr().SetHidden(true)
	return o
}

// SetSprite switches the frame the object displays.
func (o *Object) SetSprite(frame assets.Frame) error {
	a := *o.attr()
	if err := a.SetDimensions(frame.W, frame.H); err != nil {
		return err
	}
	a.SetTile(frame.Tile)
	a.SetPalette(frame.Palette)
	*o.attr() = a
	return nil
}

// Stage writes the coordinates and makes the object visible.
func (o *Object) Stage(x, y uint16) *Object {
	return o.SetX(x).SetY(y).Show()
}

// Attr returns the staged attributes.
func (o *Object) Attr() hw.ObjectAttr {
	return *o.attr()
}

// Free hides the entry and returns the slot to the manager. The hidden
// state reaches the screen on the next commit. The handle must not be used
// afterwards.
func (o *Object) Free() {
	if o.m == nil {
		return
	}
	o.m.shadow[o.index] = hw.HiddenObject
	o.m.used[o.index] = false
	o.m = nil
}
