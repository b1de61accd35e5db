package tui

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"
	"github.com/xvierd/focus-cli/internal/domain"
)

// InlineModel is a compact timer drawn below the prompt instead of taking
// over the screen. Keys behave exactly as in the full-screen model.
type InlineModel struct {
	Model
}

// getTerminalWidth returns the current terminal width, defaulting to 80.
func getTerminalWidth() int {
	w, _, err := term.GetSize(os.Stdout.Fd())
	if err != nil || w < 40 {
		return 80
	}
	return w
}

// NewInlineModel creates a new inline TUI model.
func NewInlineModel(ctx context.Context, opts Options) InlineModel {
	m := NewModel(ctx, opts)
	m.width = getTerminalWidth()
	return InlineModel{Model: m}
}

func (m InlineModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.Model.update(msg)
	m.Model = next
	return m, cmd
}

func (m InlineModel) View() string {
	pal := paletteFor(m.state)
	if m.picker != nil {
		return m.picker.view(pal, m.state.CurrentVibe) + "\n"
	}

	t := m.state.Timer
	accent := lipgloss.NewStyle().Foreground(pal.accent(t)).Bold(true)
	dim := lipgloss.NewStyle().Foreground(pal.Help)

	var b strings.Builder

	// Line 1: mode, clock, session, phase, vibe
	b.WriteString(accent.Render(fmt.Sprintf("  %s %s", t.Mode.Label(), domain.FormatClock(t.TimeRemaining))))
	b.WriteString(dim.Render(fmt.Sprintf("  %d/%d  %s", t.CurrentSession, t.TotalSessions, phaseLabel(t))))
	if v := m.state.CurrentVibe; v != nil {
		b.WriteString(dim.Render("  ♪ " + v.Name))
	}
	b.WriteString("\n")

	// Line 2: progress bar and plan
	b.WriteString("  " + m.progressBar(pal, m.width-16) + "\n")
	b.WriteString("  " + renderSegments(t, m.state.Settings, pal) + "\n")

	switch {
	case m.stopArmed():
		b.WriteString(accent.Render("  Press x again to stop the plan") + "\n")
	case t.Phase() == domain.PhaseWaiting:
		b.WriteString(accent.Render("  Break's over! Press space when you're back") + "\n")
	default:
		b.WriteString(dim.Render("  "+primaryHelp(t)) + "\n")
	}
	return b.String()
}
