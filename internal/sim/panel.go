// Package sim is a terminal stand-in for the lock's hardware. It renders the
// LCD and actuators from an in-memory board and turns key presses into
// keypad input and sensor movement.
package sim

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/BrandonDHaskell/Portunus/smartlock/internal/smartlock/device"
	"github.com/BrandonDHaskell/Portunus/smartlock/internal/smartlock/device/memory"
	"github.com/BrandonDHaskell/Portunus/smartlock/internal/smartlock/service"
)

const (
	// Near and Far are the two positions the 'p' key toggles between.
	Near device.Centimeters = 5
	Far  device.Centimeters = 50

	refreshEvery = 50 * time.Millisecond
	lcdWidth     = 16
)

var (
	lcdStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#1B1B1B")).
			Background(lipgloss.Color("#8FCB3B")).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#3C3C3C"))
	onStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF5F5F"))
	offStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C6C6C"))
	infoStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#AFAFAF"))
	helpStyle = lipgloss.NewStyle().Faint(true)
)

type tickMsg time.Time

// Model is the bubbletea model for the panel.
type Model struct {
	board  *memory.Board
	source service.SnapshotSource

	lines    [memory.Rows]string
	distance device.Centimeters
	relay    bool
	buzzer   bool
	state    string
}

func New(board *memory.Board, source service.SnapshotSource) Model {
	m := Model{board: board, source: source}
	m.refresh()
	return m
}

func (m Model) Init() tea.Cmd { return tick() }

func tick() tea.Cmd {
	return tea.Tick(refreshEvery, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.refresh()
		return m, tick()

	case tea.KeyMsg:
		switch k := msg.String(); k {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "up":
			m.board.Sensor.SetDistance(m.board.Sensor.Distance() + 1)
		case "down":
			if d := m.board.Sensor.Distance(); d > 0 {
				m.board.Sensor.SetDistance(d - 1)
			}
		case "p":
			if m.board.Sensor.Distance() < Far {
				m.board.Sensor.SetDistance(Far)
			} else {
				m.board.Sensor.SetDistance(Near)
			}
		default:
			if len(k) == 1 && strings.ContainsAny(k, "0123456789*#") {
				m.board.Keypad.Press(k)
			}
		}
		m.refresh()
	}
	return m, nil
}

func (m *Model) refresh() {
	m.lines = m.board.Display.Lines()
	m.distance = m.board.Sensor.Distance()
	m.relay = m.board.Relay.Active()
	m.buzzer = m.board.Buzzer.Active()
	if m.source != nil {
		m.state = m.source.Snapshot().State.String()
	}
}

func (m Model) View() string {
	var b strings.Builder

	lcd := fmt.Sprintf("%-*s\n%-*s", lcdWidth, clip(m.lines[0]), lcdWidth, clip(m.lines[1]))
	b.WriteString(lcdStyle.Render(lcd))
	b.WriteString("\n\n")

	b.WriteString(indicator("RELAY", m.relay))
	b.WriteString("   ")
	b.WriteString(indicator("BUZZER", m.buzzer))
	b.WriteString("\n")
	b.WriteString(infoStyle.Render(fmt.Sprintf("distance %d cm   state %s", m.distance, m.state)))
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("0-9 * # keypad · ↑/↓ move · p near/far · q quit"))
	b.WriteString("\n")
	return b.String()
}

func indicator(name string, on bool) string {
	if on {
		return onStyle.Render("● " + name)
	}
	return offStyle.Render("○ " + name)
}

func clip(s string) string {
	r := []rune(s)
	if len(r) > lcdWidth {
		return string(r[:lcdWidth])
	}
	return s
}

// Run shows the panel until the user quits or ctx is cancelled.
func Run(ctx context.Context, board *memory.Board, source service.SnapshotSource) error {
	p := tea.NewProgram(New(board, source), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}
