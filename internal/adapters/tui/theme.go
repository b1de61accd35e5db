package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/xvierd/focus-cli/internal/domain"
)

// palette holds every color a view needs.
type palette struct {
	Focus  lipgloss.Color
	Break  lipgloss.Color
	Paused lipgloss.Color
	Title  lipgloss.Color
	Text   lipgloss.Color
	Help   lipgloss.Color
	Snow   lipgloss.Color

	FocusGradient  [2]string
	BreakGradient  [2]string
	PausedGradient [2]string
}

var themePalettes = map[domain.Theme]palette{
	domain.ThemeDefault: {
		Focus:          "#7C6FE0",
		Break:          "#4ECDC4",
		Paused:         "#6B7280",
		Title:          "#6B7280",
		Text:           "#E5E7EB",
		Help:           "#95A5A6",
		Snow:           "#F8FAFC",
		FocusGradient:  [2]string{"#7C6FE0", "#A78BFA"},
		BreakGradient:  [2]string{"#4ECDC4", "#2ECC71"},
		PausedGradient: [2]string{"#6B7280", "#4B5563"},
	},
	domain.ThemeLight: {
		Focus:          "#5B21B6",
		Break:          "#0F766E",
		Paused:         "#6B7280",
		Title:          "#374151",
		Text:           "#111827",
		Help:           "#4B5563",
		Snow:           "#94A3B8",
		FocusGradient:  [2]string{"#5B21B6", "#7C3AED"},
		BreakGradient:  [2]string{"#0F766E", "#15803D"},
		PausedGradient: [2]string{"#9CA3AF", "#6B7280"},
	},
	domain.ThemeWinter: {
		Focus:          "#60A5FA",
		Break:          "#A5F3FC",
		Paused:         "#94A3B8",
		Title:          "#E0F2FE",
		Text:           "#F1F5F9",
		Help:           "#94A3B8",
		Snow:           "#F8FAFC",
		FocusGradient:  [2]string{"#3B82F6", "#93C5FD"},
		BreakGradient:  [2]string{"#67E8F9", "#E0F2FE"},
		PausedGradient: [2]string{"#64748B", "#475569"},
	},
}

// paletteFor picks the theme colors and lets the current vibe override the
// focus accent.
func paletteFor(s domain.AppState) palette {
	p, ok := themePalettes[s.AppSettings.Theme]
	if !ok {
		p = themePalettes[domain.ThemeDefault]
	}
	if v := s.CurrentVibe; v != nil && v.Theme.Primary != "" {
		p.Focus = lipgloss.Color(v.Theme.Primary)
		secondary := v.Theme.Secondary
		if secondary == "" {
			secondary = v.Theme.Primary
		}
		p.FocusGradient = [2]string{v.Theme.Primary, secondary}
	}
	return p
}

// accent is the color of the running interval.
func (p palette) accent(t domain.TimerState) lipgloss.Color {
	switch {
	case t.Phase() == domain.PhasePaused:
		return p.Paused
	case t.Mode == domain.ModeBreak:
		return p.Break
	default:
		return p.Focus
	}
}

// gradient is the progress bar gradient for the running interval.
func (p palette) gradient(t domain.TimerState) [2]string {
	switch {
	case t.Phase() == domain.PhasePaused:
		return p.PausedGradient
	case t.Mode == domain.ModeBreak:
		return p.BreakGradient
	default:
		return p.FocusGradient
	}
}
