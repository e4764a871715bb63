// Package tui renders a running scenario live in the terminal.
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hooplab/courtsim/internal/sim"
)

var (
	cyan    = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white   = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim     = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	green   = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	yellow  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	red     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	magenta = lipgloss.NewStyle().Foreground(lipgloss.Color("213"))
)

const (
	barWidth     = 30
	historyWidth = 40
)

var sparks = []rune("▁▂▃▄▅▆▇█")

type tickMsg time.Time

// Model is the bubbletea model driving a scenario stepper at display
// rate. Wall time only paces the frames; the simulation itself advances
// purely by dt.
type Model struct {
	stepper   *sim.Stepper
	dt        float64
	frameRate int
	paused    bool
	done      bool

	// stability history per character, for the sparkline
	history map[string][]float64

	width  int
	height int
}

// NewModel wraps a prepared stepper for live display.
func NewModel(stepper *sim.Stepper, dt float64, frameRate int) *Model {
	if frameRate <= 0 {
		frameRate = 30
	}
	return &Model{
		stepper:   stepper,
		dt:        dt,
		frameRate: frameRate,
		history:   make(map[string][]float64),
	}
}

// Run starts the bubbletea program and blocks until it exits.
func Run(stepper *sim.Stepper, dt float64, frameRate int) error {
	p := tea.NewProgram(NewModel(stepper, dt, frameRate))
	_, err := p.Run()
	return err
}

func (m *Model) Init() tea.Cmd {
	return m.tick()
}

func (m *Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.frameRate), func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.paused = !m.paused
			return m, nil
		}
		return m, nil

	case tickMsg:
		if m.paused || m.done {
			return m, m.tick()
		}
		// Advance enough sim frames to cover one display frame.
		steps := int(1.0 / (float64(m.frameRate) * m.dt))
		if steps < 1 {
			steps = 1
		}
		for i := 0; i < steps; i++ {
			if !m.stepper.Step() {
				m.done = true
				break
			}
		}
		for _, c := range m.stepper.Characters() {
			h := append(m.history[c.ID()], c.Balance().Stability())
			if len(h) > historyWidth {
				h = h[len(h)-historyWidth:]
			}
			m.history[c.ID()] = h
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(cyan.Render("courtsim live"))
	b.WriteString(dim.Render(fmt.Sprintf("  t=%.2fs", m.stepper.Time())))
	if m.paused {
		b.WriteString(yellow.Render("  [paused]"))
	}
	if m.done {
		b.WriteString(green.Render("  [finished]"))
	}
	b.WriteString("\n\n")

	for _, c := range m.stepper.Characters() {
		smp := c.Sample()

		b.WriteString(white.Render(fmt.Sprintf("%-10s", smp.ID)))
		b.WriteString(stabilityBar(smp.Stability))
		b.WriteString(dim.Render(fmt.Sprintf(" %4.2f", smp.Stability)))
		b.WriteString("\n")

		b.WriteString(dim.Render("  phase "))
		b.WriteString(phaseStyle(smp).Render(phaseLabel(smp)))
		b.WriteString(dim.Render(fmt.Sprintf("  offset %.3fm  speed %.2fm/s  recovery %.2fs",
			smp.OffsetH, smp.Speed, smp.Recovery)))
		b.WriteString("\n")

		b.WriteString(dim.Render("  "))
		b.WriteString(magenta.Render(sparkline(m.history[smp.ID])))
		b.WriteString("\n\n")
	}

	b.WriteString(dim.Render("space pause · q quit"))
	return b.String()
}

func stabilityBar(v float64) string {
	filled := int(v * barWidth)
	if filled > barWidth {
		filled = barWidth
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
	switch {
	case v >= 0.7:
		return green.Render(bar)
	case v >= 0.4:
		return yellow.Render(bar)
	default:
		return red.Render(bar)
	}
}

func phaseLabel(smp sim.Sample) string {
	label := smp.Phase
	if smp.Action != "" {
		label += ":" + smp.Action
	}
	if smp.Locked {
		label += " [airborne]"
	}
	return label
}

func phaseStyle(smp sim.Sample) lipgloss.Style {
	if smp.Locked {
		return red
	}
	if smp.Phase == "active" {
		return yellow
	}
	return white
}

func sparkline(history []float64) string {
	var b strings.Builder
	for _, v := range history {
		idx := int(v * float64(len(sparks)-1))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparks) {
			idx = len(sparks) - 1
		}
		b.WriteRune(sparks[idx])
	}
	return b.String()
}
