package hw

import "fmt"

// NumObjects is the number of entries in object attribute memory.
const NumObjects = 128

// Attribute bit layout.
const (
	attr0YMask    = 0x00FF
	attr0Affine   = 1 << 8
	attr0Disable  = 1 << 9
	attr0Shape    = 14
	attr1XMask    = 0x01FF
	attr1Size     = 14
	attr2TileMask = 0x03FF
	attr2Palette  = 12
)

// ObjectAttr is one object attribute entry (three 16-bit words).
type ObjectAttr struct {
	Attr0 uint16
	Attr1 uint16
	Attr2 uint16
}

// ObjectTable is a full object attribute memory image.
type ObjectTable [NumObjects]ObjectAttr

// HiddenObject is the attribute value of an unused entry.
var HiddenObject = ObjectAttr{Attr0: attr0Disable}

// NewObjectTable returns a table with every entry hidden.
func NewObjectTable() ObjectTable {
	var t ObjectTable
	for i := range t {
		t[i] = HiddenObject
	}
	return t
}

// X returns the 9-bit horizontal coordinate.
func (a ObjectAttr) X() uint16 {
	return a.Attr1 & attr1XMask
}

// Y returns the 8-bit vertical coordinate.
func (a ObjectAttr) Y() uint16 {
	return a.Attr0 & attr0YMask
}

// SetX stores x truncated to 9 bits; the hardware wraps at 512.
func (a *ObjectAttr) SetX(x uint16) {
	a.Attr1 = a.Attr1&^attr1XMask | x&attr1XMask
}

// SetY stores y truncated to 8 bits; the hardware wraps at 256.
func (a *ObjectAttr) SetY(y uint16) {
	a.Attr0 = a.Attr0&^attr0YMask | y&attr0YMask
}

// Hidden reports whether the entry is disabled.
func (a ObjectAttr) Hidden() bool {
	return a.Attr0&attr0Affine == 0 && a.Attr0&attr0Disable != 0
}

// SetHidden enables or disables a regular (non-affine) object.
func (a *ObjectAttr) SetHidden(hidden bool) {
	a.Attr0 &^= attr0Affine
	if hidden {
		a.Attr0 |= attr0Disable
	} else {
		a.Attr0 &^= attr0Disable
	}
}

// Tile returns the base tile index.
func (a ObjectAttr) Tile() uint16 {
	return a.Attr2 & attr2TileMask
}

// SetTile stores the base tile index.
func (a *ObjectAttr) SetTile(tile uint16) {
	a.Attr2 = a.Attr2&^attr2TileMask | tile&attr2TileMask
}

// Palette returns the 4-bit palette bank.
func (a ObjectAttr) Palette() uint8 {
	return uint8(a.Attr2 >> attr2Palette)
}

// SetPalette stores the palette bank.
func (a *ObjectAttr) SetPalette(bank uint8) {
	a.Attr2 = a.Attr2&^(0xF<<attr2Palette) | uint16(bank&0xF)<<attr2Palette
}

// objectSizes is indexed by [shape][size] and holds width, height.
var objectSizes = [3][4][2]int{
	{{8, 8}, {16, 16}, {32, 32}, {64, 64}}, // square
	{{16, 8}, {32, 8}, {32, 16}, {64, 32}}, // wide
	{{8, 16}, {8, 32}, {16, 32}, {32, 64}}, // tall
}

// Dimensions returns the pixel width and height of the object.
func (a ObjectAttr) Dimensions() (w, h int) {
	shape := a.Attr0 >> attr0Shape
	size := a.Attr1 >> attr1Size
	if shape > 2 {
		return 0, 0
	}
	d := objectSizes[shape][size&3]
	return d[0], d[1]
}

// SetDimensions selects the shape and size matching w x h.
func (a *ObjectAttr) SetDimensions(w, h int) error {
	for shape, sizes := range objectSizes {
		for size, d := range sizes {
			if d[0] == w && d[1] == h {
				a.Attr0 = a.Attr0&^(3<<attr0Shape) | uint16(shape)<<attr0Shape
				a.Attr1 = a.Attr1&^(3<<attr1Size) | uint16(size)<<attr1Size
				return nil
			}
		}
	}
	return fmt.Errorf("hw: no object shape is %dx%d", w, h)
}
