package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/xvierd/focus-cli/internal/domain"
)

// VibeCatalog is what the picker needs from the vibe service.
type VibeCatalog interface {
	List(category string) ([]domain.Vibe, error)
	Search(query string) []domain.Vibe
	Select(id string) (*domain.Vibe, error)
	SelectCustom(rawURL string) (*domain.Vibe, error)
	Clear()
}

type pickerMode int

const (
	pickList pickerMode = iota
	pickFilter
	pickCustom
)

// vibePicker is the overlay that chooses the current vibe. It has category
// tabs, a fuzzy filter and a form for a custom YouTube link.
type vibePicker struct {
	catalog VibeCatalog
	mode    pickerMode
	tab     int
	cursor  int
	items   []domain.Vibe
	filter  textinput.Model
	custom  textinput.Model
	err     string
}

func newVibePicker(catalog VibeCatalog, width int) *vibePicker {
	filter := textinput.New()
	filter.Placeholder = "type to filter"
	filter.CharLimit = 40
	filter.Width = 30

	custom := textinput.New()
	custom.Placeholder = "https://www.youtube.com/watch?v=..."
	custom.CharLimit = 200
	custom.Width = max(width-20, 30)

	p := &vibePicker{catalog: catalog, filter: filter, custom: custom}
	p.refresh()
	return p
}

// openCustom switches straight to the custom link form.
func (p *vibePicker) openCustom() tea.Cmd {
	p.mode = pickCustom
	p.err = ""
	p.custom.Reset()
	return p.custom.Focus()
}

func (p *vibePicker) refresh() {
	if q := strings.TrimSpace(p.filter.Value()); q != "" {
		p.items = p.catalog.Search(q)
	} else {
		p.items, _ = p.catalog.List(string(domain.Categories[p.tab]))
	}
	if p.cursor >= len(p.items) {
		p.cursor = max(len(p.items)-1, 0)
	}
}

// update handles a message while the picker is open. done is true once the
// picker should close.
func (p *vibePicker) update(msg tea.Msg) (done bool, cmd tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return false, p.updateInput(msg)
	}

	switch p.mode {
	case pickCustom:
		switch key.String() {
		case "enter":
			_, err := p.catalog.SelectCustom(strings.TrimSpace(p.custom.Value()))
			if err != nil {
				p.err = customError(err)
				return false, nil
			}
			return true, nil
		case "esc":
			p.mode = pickList
			p.custom.Blur()
			p.err = ""
			return false, nil
		}
		return false, p.updateInput(msg)

	case pickFilter:
		switch key.String() {
		case "enter":
			return p.choose()
		case "esc":
			p.mode = pickList
			p.filter.Reset()
			p.filter.Blur()
			p.refresh()
			return false, nil
		case "up":
			p.move(-1)
			return false, nil
		case "down":
			p.move(1)
			return false, nil
		}
		cmd := p.updateInput(msg)
		p.refresh()
		return false, cmd
	}

	switch key.String() {
	case "esc", "q", "v":
		return true, nil
	case "left", "h", "shift+tab":
		p.tab = (p.tab + len(domain.Categories) - 1) % len(domain.Categories)
		p.cursor = 0
		p.refresh()
	case "right", "l", "tab":
		p.tab = (p.tab + 1) % len(domain.Categories)
		p.cursor = 0
		p.refresh()
	case "up", "k":
		p.move(-1)
	case "down", "j":
		p.move(1)
	case "/":
		p.mode = pickFilter
		return false, p.filter.Focus()
	case "u":
		return false, p.openCustom()
	case "c":
		p.catalog.Clear()
		return true, nil
	case "enter":
		return p.choose()
	}
	return false, nil
}

func (p *vibePicker) move(delta int) {
	p.cursor += delta
	if p.cursor < 0 {
		p.cursor = 0
	}
	if p.cursor > len(p.items)-1 {
		p.cursor = max(len(p.items)-1, 0)
	}
}

func (p *vibePicker) choose() (bool, tea.Cmd) {
	if len(p.items) == 0 {
		return false, nil
	}
	if _, err := p.catalog.Select(p.items[p.cursor].ID); err != nil {
		p.err = err.Error()
		return false, nil
	}
	return true, nil
}

func (p *vibePicker) updateInput(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch p.mode {
	case pickFilter:
		p.filter, cmd = p.filter.Update(msg)
	case pickCustom:
		p.custom, cmd = p.custom.Update(msg)
	}
	return cmd
}

func customError(err error) string {
	if errors.Is(err, domain.ErrInvalidVideoURL) {
		return "Please enter a valid YouTube URL"
	}
	return err.Error()
}

func (p *vibePicker) view(pal palette, current *domain.Vibe) string {
	title := lipgloss.NewStyle().Bold(true).Foreground(pal.Title)
	active := lipgloss.NewStyle().Bold(true).Foreground(pal.Focus)
	dim := lipgloss.NewStyle().Foreground(pal.Help)
	errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))

	var sections []string
	sections = append(sections, title.Render("Choose your vibe"), "")

	if p.mode == pickCustom {
		sections = append(sections, dim.Render("Paste a YouTube link:"), p.custom.View())
		if p.err != "" {
			sections = append(sections, errStyle.Render(p.err))
		}
		sections = append(sections, "", dim.Render("enter play · esc back"))
		return lipgloss.JoinVertical(lipgloss.Left, sections...)
	}

	tabs := make([]string, len(domain.Categories))
	for i, c := range domain.Categories {
		label := strings.ToUpper(string(c)[:1]) + string(c)[1:]
		if i == p.tab && p.mode == pickList {
			tabs[i] = active.Render("[" + label + "]")
		} else {
			tabs[i] = dim.Render(" " + label + " ")
		}
	}
	sections = append(sections, strings.Join(tabs, " "))
	if p.mode == pickFilter {
		sections = append(sections, "/ "+p.filter.View())
	}
	sections = append(sections, "")

	if len(p.items) == 0 {
		sections = append(sections, dim.Render("No vibes match"))
	}
	for i, v := range p.items {
		marker := "  "
		if current != nil && current.ID == v.ID {
			marker = "♪ "
		}
		line := fmt.Sprintf("%s%-16s %s", marker, v.Name, v.Description)
		if i == p.cursor {
			sections = append(sections, active.Render("▸ "+line))
		} else {
			sections = append(sections, dim.Render("  "+line))
		}
	}
	if p.err != "" {
		sections = append(sections, "", errStyle.Render(p.err))
	}

	sections = append(sections, "")
	if p.mode == pickFilter {
		sections = append(sections, dim.Render("↑/↓ navigate · enter select · esc clear filter"))
	} else {
		sections = append(sections, dim.Render("←/→ category · ↑/↓ navigate · / filter · u custom link · c clear · esc close"))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
