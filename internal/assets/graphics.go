// Package assets loads the sprite resource table: frames and named tags
// exported from aseprite as a JSON sprite sheet. The table is immutable
// after loading and safe to share without locking.
package assets

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/vovakirdan/spritemover/internal/core"
)

//go:embed gfx/sprites.json
var defaultSheet []byte

// Tile memory limits for 4bpp objects in 1D mapping.
const (
	tileSize = 8
	maxTiles = 1024
)

var (
	// ErrTagNotFound is returned by Lookup for an unknown tag name.
	ErrTagNotFound = errors.New("assets: tag not found")
	// ErrFrameOutOfRange is returned by Tag.Sprite for an index past the tag.
	ErrFrameOutOfRange = errors.New("assets: frame index out of range")
)

// fallbackColors colours tags that carry no colour of their own.
var fallbackColors = []string{"#ffaf00", "#5fafd7", "#87d787", "#d75f87", "#afafaf"}

// Frame is one sprite frame and where it lives in object tile memory.
type Frame struct {
	Index    int           // Position in the sheet
	W, H     int           // Pixel size
	Tile     uint16        // First tile in object tile memory
	Palette  uint8         // Palette bank
	Duration time.Duration // Display time when animated
}

// Tiles returns how many 8x8 tiles the frame occupies.
func (f Frame) Tiles() int {
	return (f.W / tileSize) * (f.H / tileSize)
}

// Tag is a named run of frames.
type Tag struct {
	Name      string
	From, To  int    // Inclusive frame range
	Direction string // forward, reverse or pingpong
	Color     string // #rrggbb

	frames []Frame
}

// Len returns the number of frames in the tag.
func (t *Tag) Len() int {
	return len(t.frames)
}

// Sprite returns frame index (zero-based) of the tag.
func (t *Tag) Sprite(index int) (Frame, error) {
	if index < 0 || index >= len(t.frames) {
		return Frame{}, fmt.Errorf("%w: %s has %d frames, asked for %d", ErrFrameOutOfRange, t.Name, len(t.frames), index)
	}
	return t.frames[index], nil
}

// Graphics is a loaded sprite sheet.
type Graphics struct {
	frames   []Frame
	tags     []*Tag
	byName   map[string]*Tag
	palettes map[uint8]string
}

// Default returns the sprite sheet compiled into the binary.
func Default() (*Graphics, error) {
	return Load(defaultSheet)
}

// LoadFile reads and parses an aseprite JSON export.
func LoadFile(path string) (*Graphics, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("assets: failed to read %s: %w", path, err)
	}
	g, err := Load(data)
	if err != nil {
		return nil, fmt.Errorf("assets: %s: %w", path, err)
	}
	return g, nil
}

// Load parses an aseprite JSON export. Both the "hash" and "array" frame
// layouts are accepted.
func Load(data []byte) (*Graphics, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.New("assets: sprite sheet is not valid JSON")
	}

	g := &Graphics{
		byName:   make(map[string]*Tag),
		palettes: make(map[uint8]string),
	}

	framesRes := gjson.GetBytes(data, "frames")
	if !framesRes.IsObject() && !framesRes.IsArray() {
		return nil, errors.New("assets: sprite sheet has no frames")
	}

	var parseErr error
	nextTile := 0
	framesRes.ForEach(func(_, v gjson.Result) bool {
		f := Frame{
			Index:    len(g.frames),
			W:        int(v.Get("sourceSize.w").Int()),
			H:        int(v.Get("sourceSize.h").Int()),
			Duration: time.Duration(v.Get("duration").Int()) * time.Millisecond,
		}
		if f.W == 0 || f.H == 0 {
			f.W = int(v.Get("frame.w").Int())
			f.H = int(v.Get("frame.h").Int())
		}
		if f.W <= 0 || f.H <= 0 || f.W%tileSize != 0 || f.H%tileSize != 0 {
			parseErr = fmt.Errorf("assets: frame %d is %dx%d, not a multiple of %d", f.Index, f.W, f.H, tileSize)
			return false
		}
		if nextTile+f.Tiles() > maxTiles {
			parseErr = fmt.Errorf("assets: frame %d does not fit in object tile memory", f.Index)
			return false
		}
		f.Tile = uint16(nextTile)
		nextTile += f.Tiles()
		g.frames = append(g.frames, f)
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}
	if len(g.frames) == 0 {
		return nil, errors.New("assets: sprite sheet has no frames")
	}

	gjson.GetBytes(data, "meta.frameTags").ForEach(func(_, v gjson.Result) bool {
		tag := &Tag{
			Name:      v.Get("name").String(),
			From:      int(v.Get("from").Int()),
			To:        int(v.Get("to").Int()),
			Direction: v.Get("direction").String(),
			Color:     normalizeColor(v.Get("color").String()),
		}
		if tag.Direction == "" {
			tag.Direction = "forward"
		}
		if tag.From < 0 || tag.To < tag.From || tag.To >= len(g.frames) {
			parseErr = fmt.Errorf("assets: tag %q spans frames %d-%d of %d", tag.Name, tag.From, tag.To, len(g.frames))
			return false
		}
		if _, dup := g.byName[tag.Name]; dup {
			parseErr = fmt.Errorf("assets: duplicate tag %q", tag.Name)
			return false
		}
		if tag.Color == "" {
			tag.Color = fallbackColors[len(g.tags)%len(fallbackColors)]
		}
		g.tags = append(g.tags, tag)
		g.byName[tag.Name] = tag
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}

	g.assignPalettes()
	return g, nil
}

// assignPalettes gives each tag a palette bank (1..15, wrapping) and copies
// the tag's frames with that bank. A frame shared by several tags keeps the
// bank of the first.
func (g *Graphics) assignPalettes() {
	banked := make([]bool, len(g.frames))
	for i, tag := range g.tags {
		bank := uint8(i%core.MaxPaletteBank) + 1
		if _, ok := g.palettes[bank]; !ok {
			g.palettes[bank] = tag.Color
		}
		for fi := tag.From; fi <= tag.To; fi++ {
			if !banked[fi] {
				g.frames[fi].Palette = bank
				banked[fi] = true
			}
		}
	}
	for fi := range g.frames {
		if !banked[fi] {
			g.frames[fi].Palette = 1
		}
	}
	if _, ok := g.palettes[1]; !ok {
		g.palettes[1] = fallbackColors[0]
	}

	for _, tag := range g.tags {
		tag.frames = append([]Frame(nil), g.frames[tag.From:tag.To+1]...)
		if tag.Direction == "reverse" {
			for i, j := 0, len(tag.frames)-1; i < j; i, j = i+1, j-1 {
				tag.frames[i], tag.frames[j] = tag.frames[j], tag.frames[i]
			}
		}
	}
}

// Lookup returns the tag with the given name.
func (g *Graphics) Lookup(name string) (*Tag, error) {
	tag, ok := g.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrTagNotFound, name)
	}
	return tag, nil
}

// Tags returns all tags in sheet order.
func (g *Graphics) Tags() []*Tag {
	return append([]*Tag(nil), g.tags...)
}

// Frames returns the number of frames in the sheet.
func (g *Graphics) Frames() int {
	return len(g.frames)
}

// PaletteColor returns the #rrggbb colour of a palette bank, or "" if the
// bank is unused.
func (g *Graphics) PaletteColor(bank uint8) string {
	return g.palettes[bank]
}

// normalizeColor turns "#rrggbbaa" or "#rrggbb" into "#rrggbb".
func normalizeColor(c string) string {
	c = strings.TrimSpace(c)
	if !strings.HasPrefix(c, "#") {
		return ""
	}
	switch len(c) {
	case 7:
		return strings.ToLower(c)
	case 9:
		return strings.ToLower(c[:7])
	}
	return ""
}
