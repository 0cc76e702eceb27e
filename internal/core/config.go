package core

// Native display geometry of the target machine.
const (
	DisplayWidth  = 240
	DisplayHeight = 160
)

// RuntimeConfig contains the terminal geometry passed to the front end.
type RuntimeConfig struct {
	ScreenW  int // Screen width in characters
	ScreenH  int // Screen height in characters
	TickRate int // Terminal redraws per second
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
	}
}
