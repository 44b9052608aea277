// Package tui is a terminal slider for the blur radius and backend of a
// running player.
package tui

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tauraamui/blurplayer/pkg/blur"
)

const (
	Step      = 0.5
	MaxRadius = 50.0
	barWidth  = 40
)

type Controller interface {
	SetBlurRadius(float64)
	BlurRadius() float64
	SetBackend(blur.Kind)
	RequestedBackend() blur.Kind
	Backend() blur.Kind
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	filledStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("63"))
	emptyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	backendStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
)

type Model struct {
	target   Controller
	title    string
	quitting bool
}

func New(title string, target Controller) Model {
	return Model{title: title, target: target}
}

type refreshMsg time.Time

// refresh keeps the view in step with changes made elsewhere, such as a
// backend falling back.
func refresh() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(t time.Time) tea.Msg { return refreshMsg(t) })
}

func (m Model) Init() tea.Cmd { return refresh() }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "right", "+", "=", "k", "l":
			m.adjust(Step)
		case "down", "left", "-", "j", "h":
			m.adjust(-Step)
		case "0":
			m.target.SetBlurRadius(0)
		case "b":
			m.target.SetBackend(next(m.target.RequestedBackend()))
		case "q", "esc", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}
	case refreshMsg:
		return m, refresh()
	}
	return m, nil
}

func (m Model) adjust(delta float64) {
	r := math.Round((m.target.BlurRadius()+delta)/Step) * Step
	m.target.SetBlurRadius(math.Max(0, math.Min(MaxRadius, r)))
}

func next(kind blur.Kind) blur.Kind {
	kinds := blur.Kinds()
	for i, k := range kinds {
		if k == kind {
			return kinds[(i+1)%len(kinds)]
		}
	}
	return kinds[0]
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	radius := m.target.BlurRadius()
	filled := int(math.Round(radius / MaxRadius * barWidth))
	if filled > barWidth {
		filled = barWidth
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n\n")
	b.WriteString(labelStyle.Render("radius "))
	b.WriteString(filledStyle.Render(strings.Repeat("█", filled)))
	b.WriteString(emptyStyle.Render(strings.Repeat("░", barWidth-filled)))
	b.WriteString(labelStyle.Render(fmt.Sprintf(" %5.1f", radius)))
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("backend "))
	b.WriteString(backendStyle.Render(m.target.Backend().String()))
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("←/→ radius • 0 no blur • b backend • q quit"))
	b.WriteString("\n")
	return b.String()
}

// Run blocks until the user quits or ctx is done.
func Run(ctx context.Context, title string, target Controller) error {
	p := tea.NewProgram(New(title, target), tea.WithContext(ctx))
	_, err := p.Run()
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}
