package tui

import (
	"sort"

	"github.com/charmbracelet/lipgloss"
)

// Theme contains the configurable visual styles of the display and HUD.
type Theme struct {
	// Display
	Backdrop lipgloss.Style
	Border   lipgloss.Style
	// Mono draws every palette bank with Sprite instead of the sheet colours
	Mono   bool
	Sprite lipgloss.Style

	// HUD styles
	HUDLabel     lipgloss.Style
	HUDValue     lipgloss.Style
	HUDSeparator lipgloss.Style
	HUDAlert     lipgloss.Style
}

// DefaultTheme returns the default visual theme.
func DefaultTheme() Theme {
	return Theme{
		Backdrop: lipgloss.NewStyle().Foreground(lipgloss.Color("238")), // Dark gray
		Border:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")), // Medium gray
		Sprite:   lipgloss.NewStyle().Foreground(lipgloss.Color("255")),

		HUDLabel:     lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		HUDValue:     lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Bold(true),
		HUDSeparator: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		HUDAlert:     lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true), // Bright red
	}
}

// MonochromeTheme returns a grayscale theme that ignores sprite colours.
func MonochromeTheme() Theme {
	theme := DefaultTheme()
	theme.Mono = true
	theme.HUDAlert = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Bold(true).Underline(true)
	return theme
}

// GreenScreenTheme returns a phosphor-green theme.
func GreenScreenTheme() Theme {
	theme := DefaultTheme()
	theme.Mono = true
	theme.Sprite = lipgloss.NewStyle().Foreground(lipgloss.Color("46")) // Lime green
	theme.Border = lipgloss.NewStyle().Foreground(lipgloss.Color("28")) // Dark green
	theme.HUDValue = lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Bold(true)
	theme.HUDLabel = lipgloss.NewStyle().Foreground(lipgloss.Color("28"))
	return theme
}

var themes = map[string]func() Theme{
	"default": DefaultTheme,
	"mono":    MonochromeTheme,
	"green":   GreenScreenTheme,
}

// ThemeByName returns a named theme.
func ThemeByName(name string) (Theme, bool) {
	f, ok := themes[name]
	if !ok {
		return Theme{}, false
	}
	return f(), true
}

// ThemeNames returns the known theme names, sorted.
func ThemeNames() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
