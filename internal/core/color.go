package core

// Color is a palette bank index (0-15) as carried in object attributes.
// Bank 0 is the backdrop; the renderer maps banks to terminal styles.
type Color uint8

// MaxPaletteBank is the highest addressable palette bank.
const MaxPaletteBank = 15

const (
	ColorBackdrop Color = 0
	// ColorHUD lies past the palette banks and is only drawn by the terminal.
	ColorHUD Color = MaxPaletteBank + 1
)
