package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/spritemover/internal/assets"
	"github.com/vovakirdan/spritemover/internal/core"
	"github.com/vovakirdan/spritemover/internal/hw"
)

// pixelRune fills cells covered by a visible object.
const pixelRune = '█'

// Palette maps palette banks to lipgloss styles.
type Palette map[core.Color]lipgloss.Style

// NewPalette builds styles from the sprite sheet's bank colours. Banks the
// sheet does not use fall back to the terminal's default foreground; a Mono
// theme draws every bank with its Sprite style.
func NewPalette(g *assets.Graphics, theme Theme) Palette {
	p := Palette{
		core.ColorBackdrop: theme.Backdrop,
		core.ColorHUD:      theme.Border,
	}
	for bank := uint8(1); bank <= core.MaxPaletteBank; bank++ {
		switch {
		case theme.Mono:
			p[core.Color(bank)] = theme.Sprite
		case g != nil && g.PaletteColor(bank) != "":
			p[core.Color(bank)] = lipgloss.NewStyle().Foreground(lipgloss.Color(g.PaletteColor(bank)))
		}
	}
	return p
}

// Style returns the style for c.
func (p Palette) Style(c core.Color) lipgloss.Style {
	if s, ok := p[c]; ok {
		return s
	}
	return lipgloss.NewStyle()
}

// Rasterize draws the visible objects of table into s, scaling a
// width x height pixel display down to the cells inside a border. Lower
// object indices are drawn on top, as on the target.
func Rasterize(s *core.Screen, table *hw.ObjectTable, width, height int) {
	s.Clear()
	if s.Width() < 3 || s.Height() < 3 || width <= 0 || height <= 0 {
		return
	}

	s.DrawBox(core.NewRect(0, 0, s.Width(), s.Height()), core.ColorHUD)
	view := core.NewRect(1, 1, s.Width()-2, s.Height()-2)

	// Pixels per cell on each axis
	sx := max(1, core.CeilDiv(width, view.W))
	sy := max(1, core.CeilDiv(height, view.H))

	for i := hw.NumObjects - 1; i >= 0; i-- {
		a := table[i]
		if a.Hidden() {
			continue
		}
		w, h := a.Dimensions()
		x, y := int(a.X()), int(a.Y())

		x0, y0 := x/sx, y/sy
		cells := core.NewRect(
			view.X+x0,
			view.Y+y0,
			core.CeilDiv(x+w, sx)-x0,
			core.CeilDiv(y+h, sy)-y0,
		).Intersect(view)
		if cells.Empty() {
			continue
		}
		s.DrawRect(cells, pixelRune, core.Color(a.Palette()))
	}
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen, p Palette) string {
	var sb strings.Builder
	// Pre-allocate with extra space for ANSI codes
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y, h := 0, s.Height(); y < h; y++ {
		if y > 0 {
			sb.WriteRune('\n')
		}

		// Group consecutive cells with the same color for efficiency
		x := 0
		for x < s.Width() {
			cell := s.GetCell(x, y)
			startColor := cell.Color

			// Collect consecutive cells with same color
			var run strings.Builder
			for x < s.Width() {
				cell = s.GetCell(x, y)
				if cell.Color != startColor {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			sb.WriteString(p.Style(startColor).Render(run.String()))
		}
	}
	return sb.String()
}
