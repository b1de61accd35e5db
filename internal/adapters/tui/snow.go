package tui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/xvierd/focus-cli/internal/services"
)

// snowFrameInterval is the redraw rate of the winter overlay.
const snowFrameInterval = 100 * time.Millisecond

// frameMsg redraws the snowfall.
type frameMsg time.Time

func frameCmd() tea.Cmd {
	return tea.Tick(snowFrameInterval, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

func flakeGlyph(f services.Flake) rune {
	switch {
	case f.Size < 3:
		return '·'
	case f.Size < 5:
		return '*'
	default:
		return '❄'
	}
}

// snowCanvas rasterizes flakes onto a width x height grid of runes.
// Empty cells are spaces. Faint flakes are tracked separately so they can be
// dimmed.
type snowCanvas struct {
	cells [][]rune
	faint [][]bool
}

func newSnowCanvas(flakes []services.Flake, now time.Time, width, height int) snowCanvas {
	c := snowCanvas{
		cells: make([][]rune, height),
		faint: make([][]bool, height),
	}
	for y := range c.cells {
		c.cells[y] = []rune(strings.Repeat(" ", width))
		c.faint[y] = make([]bool, width)
	}
	if width == 0 || height == 0 {
		return c
	}
	for _, f := range flakes {
		x := int(f.X / 100 * float64(width))
		y := int(f.Fall(now) * float64(height))
		if x < 0 || x >= width || y < 0 || y >= height {
			continue
		}
		c.cells[y][x] = flakeGlyph(f)
		c.faint[y][x] = f.Opacity < 0.65
	}
	return c
}

// row renders cells [from, to) of row y.
func (c snowCanvas) row(y, from, to int, bright, dim lipgloss.Style) string {
	if y < 0 || y >= len(c.cells) {
		return ""
	}
	cells := c.cells[y]
	if from < 0 {
		from = 0
	}
	if to > len(cells) {
		to = len(cells)
	}
	var b strings.Builder
	for x := from; x < to; x++ {
		r := cells[x]
		switch {
		case r == ' ':
			b.WriteRune(' ')
		case c.faint[y][x]:
			b.WriteString(dim.Render(string(r)))
		default:
			b.WriteString(bright.Render(string(r)))
		}
	}
	return b.String()
}

// overlaySnow centers content on a width x height screen and fills the space
// around it with falling snow.
func overlaySnow(content string, flakes []services.Flake, now time.Time, width, height int, color lipgloss.Color) string {
	lines := strings.Split(content, "\n")
	contentW := lipgloss.Width(content)
	contentH := len(lines)
	if contentW > width || contentH > height {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
	}

	top := (height - contentH) / 2
	left := (width - contentW) / 2
	canvas := newSnowCanvas(flakes, now, width, height)
	bright := lipgloss.NewStyle().Foreground(color)
	dim := bright.Faint(true)

	out := make([]string, height)
	for y := 0; y < height; y++ {
		i := y - top
		if i < 0 || i >= contentH {
			out[y] = canvas.row(y, 0, width, bright, dim)
			continue
		}
		line := lines[i]
		pad := contentW - lipgloss.Width(line)
		out[y] = canvas.row(y, 0, left, bright, dim) +
			line + strings.Repeat(" ", pad) +
			canvas.row(y, left+contentW, width, bright, dim)
	}
	return strings.Join(out, "\n")
}
