package tui

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/spritemover/internal/core"
	"github.com/vovakirdan/spritemover/internal/logging"
	"github.com/vovakirdan/spritemover/internal/platform/boot"
	"github.com/vovakirdan/spritemover/internal/sim"
)

// frameTime is the shortest key hold; anything shorter can fall between
// two samples.
var frameTime = time.Duration(math.Round(float64(time.Second) / sim.RefreshRate))

// minScreenH keeps room for the border and one row of display.
const minScreenH = 3

// Model is the Bubble Tea model that shows a running machine.
type Model struct {
	sys      *boot.System
	keys     KeyMap
	help     help.Model
	screen   *core.Screen
	palette  Palette
	theme    Theme
	hold     time.Duration
	config   core.RuntimeConfig
	quitting bool
}

// NewModel creates a model for a booted system. cfg sets the initial
// terminal size and the redraw rate.
func NewModel(sys *boot.System, cfg core.RuntimeConfig, theme Theme) Model {
	if cfg.TickRate <= 0 {
		cfg.TickRate = core.DefaultConfig().TickRate
	}

	hold := sys.Config.Input.Hold()
	if hold < frameTime {
		hold = frameTime
	}

	m := Model{
		sys:     sys,
		keys:    DefaultKeyMap(),
		help:    help.New(),
		screen:  core.NewScreen(cfg.ScreenW, minScreenH),
		palette: NewPalette(sys.Graphics, theme),
		theme:   theme,
		hold:    hold,
		config:  cfg,
	}
	m.help.Width = cfg.ScreenW
	m.screen.Resize(cfg.ScreenW, m.displayHeight(cfg.ScreenH))
	return m
}

// Init starts the redraw ticks.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m, tickCmd(m.config.TickRate)
	}

	return m, nil
}

// handleKey processes keyboard input. Terminals report repeats but never
// releases, so a button press holds for a fixed time and repeats extend it.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.screen.Resize(m.config.ScreenW, m.displayHeight(m.config.ScreenH))
		return m, nil
	case key.Matches(msg, m.keys.Shot):
		m.saveScreenshot()
		return m, nil
	}

	if b, ok := m.keys.Button(msg); ok {
		m.sys.Machine.Keypad.PressFor(b, m.hold)
	}
	return m, nil
}

// handleResize processes window resize events.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.help.Width = msg.Width
	m.screen.Resize(msg.Width, m.displayHeight(msg.Height))
	return m, nil
}

// displayHeight is the terminal height left after the HUD and help lines.
func (m Model) displayHeight(total int) int {
	chrome := 2
	if m.help.ShowAll {
		rows := 0
		for _, col := range m.keys.FullHelp() {
			rows = max(rows, len(col))
		}
		chrome = 1 + rows
	}
	return max(minScreenH, total-chrome)
}

// draw rasterises the live object memory into the screen buffer.
func (m Model) draw() {
	live := m.sys.Machine.OAM.Snapshot()
	Rasterize(m.screen, &live, m.sys.Config.Display.Width, m.sys.Config.Display.Height)
}

// hud renders the status line.
func (m Model) hud() string {
	st := m.sys.Loop.Stats()

	field := func(name string, value any) string {
		return m.theme.HUDLabel.Render(name+" ") + m.theme.HUDValue.Render(fmt.Sprint(value))
	}
	tears := field("tears", m.sys.Machine.OAM.Tears())
	if n := m.sys.Machine.OAM.Tears(); n > 0 {
		tears = m.theme.HUDLabel.Render("tears ") + m.theme.HUDAlert.Render(fmt.Sprint(n))
	}
	sep := m.theme.HUDSeparator.Render(" │ ")

	return lipgloss.JoinHorizontal(lipgloss.Top,
		field("pos", fmt.Sprintf("%d,%d", st.Position.X, st.Position.Y)), sep,
		field("frames", st.Frames), sep,
		field("vblanks", m.sys.Machine.Display.VBlanks()), sep,
		tears, sep,
		field("held", st.Held), sep,
		field("sync", m.sys.Sync.Name()), sep,
		field("state", m.sys.Loop.State()),
	)
}

// saveScreenshot saves the current screen to a file.
func (m Model) saveScreenshot() {
	m.draw()

	dir, err := logging.ExpandHome(filepath.Join("~", ".spritemover", "screenshots"))
	if err != nil {
		return
	}
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("frame_%s.txt", timestamp))

	//nolint:errcheck // Best-effort save, the program continues regardless
	os.WriteFile(path, []byte(m.screen.String()), 0o600)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.draw()
	return lipgloss.JoinVertical(lipgloss.Left,
		RenderScreen(m.screen, m.palette),
		m.hud(),
		m.help.View(m.keys),
	)
}

// Run starts the machine and shows it until the user quits.
func Run(sys *boot.System, cfg core.RuntimeConfig, theme Theme, lineInterval time.Duration) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- sys.Run(ctx, lineInterval)
	}()

	p := tea.NewProgram(
		NewModel(sys, cfg, theme),
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	_, err := p.Run()
	cancel()
	if runErr := <-done; err == nil {
		err = runErr
	}
	return err
}
