// Package tui provides the terminal user interface implementation
// using the Bubbletea framework.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/xvierd/focus-cli/internal/domain"
	"github.com/xvierd/focus-cli/internal/ports"
	"github.com/xvierd/focus-cli/internal/services"
)

// stopConfirmWindow is how long the first stop press stays armed.
const stopConfirmWindow = 3 * time.Second

// Settings steps for the keyboard shortcuts.
const (
	focusStep  = 5
	breakStep  = 1
	hoursStep  = 0.5
	volumeStep = 10
)

// SnowOverlay is the winter theme particle source.
type SnowOverlay interface {
	Sync(ctx context.Context, state domain.AppState)
	Running() bool
	Flakes() []services.Flake
	Stop()
}

// Options wires a model to the application.
type Options struct {
	Controller ports.TimerController
	Vibes      VibeCatalog // optional
	Snow       SnowOverlay // optional
	Updates    <-chan domain.AppState
}

// stateMsg carries a state published by the controller.
type stateMsg domain.AppState

// stopExpiredMsg disarms a stop press that was never confirmed.
type stopExpiredMsg struct {
	armedAt time.Time
}

// Model represents the TUI state.
type Model struct {
	ctx     context.Context
	ctrl    ports.TimerController
	vibes   VibeCatalog
	snow    SnowOverlay
	updates <-chan domain.AppState
	now     func() time.Time

	state       domain.AppState
	picker      *vibePicker
	width       int
	height      int
	stopArmedAt time.Time
	animating   bool
}

// NewModel creates a new TUI model showing the controller's current state.
func NewModel(ctx context.Context, opts Options) Model {
	m := Model{
		ctx:     ctx,
		ctrl:    opts.Controller,
		vibes:   opts.Vibes,
		snow:    opts.Snow,
		updates: opts.Updates,
		now:     time.Now,
	}
	m.setState(opts.Controller.State())
	return m
}

// Init initializes the TUI.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{waitForState(m.updates)}
	if m.snow != nil && m.snow.Running() {
		cmds = append(cmds, frameCmd())
	}
	return tea.Batch(cmds...)
}

// waitForState blocks on the subscription and delivers the next state.
func waitForState(ch <-chan domain.AppState) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		s, ok := <-ch
		if !ok {
			return nil
		}
		return stateMsg(s)
	}
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return m.update(msg)
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case stateMsg:
		m.setState(domain.AppState(msg))
		snow := m.snowCmd()
		return m, tea.Batch(waitForState(m.updates), snow)

	case frameMsg:
		if m.snow != nil && m.snow.Running() {
			return m, frameCmd()
		}
		m.animating = false
		return m, nil

	case stopExpiredMsg:
		if msg.armedAt.Equal(m.stopArmedAt) {
			m.stopArmedAt = time.Time{}
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.picker != nil {
			done, cmd := m.picker.update(msg)
			if done {
				m.picker = nil
				m.setState(m.ctrl.State())
			}
			return m, cmd
		}
		cmd := m.handleKey(msg.String())
		snow := m.snowCmd()
		return m, tea.Batch(cmd, snow)
	}

	if m.picker != nil {
		_, cmd := m.picker.update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) setState(s domain.AppState) {
	m.state = s
	if m.snow != nil {
		m.snow.Sync(m.ctx, s)
	}
}

// snowCmd starts the frame loop when the overlay has just turned on.
func (m *Model) snowCmd() tea.Cmd {
	if m.snow == nil || m.animating || !m.snow.Running() {
		return nil
	}
	m.animating = true
	return frameCmd()
}

func (m *Model) dispatch(a domain.Action) {
	m.setState(m.ctrl.Dispatch(a))
}

func (m *Model) handleKey(key string) tea.Cmd {
	switch key {
	case "ctrl+c", "q":
		return tea.Quit
	case "x":
		return m.stop()
	}
	m.stopArmedAt = time.Time{}

	t := m.state.Timer
	settings := m.state.Settings
	app := m.state.AppSettings

	switch key {
	case " ", "s":
		switch t.Phase() {
		case domain.PhaseWaiting:
			m.dispatch(domain.UserReturned())
		case domain.PhaseRunning:
			m.dispatch(domain.PauseTimer())
		case domain.PhasePaused:
			m.dispatch(domain.StartTimer())
		}
	case "h":
		m.dispatch(domain.UserReturned())
	case "r":
		m.dispatch(domain.ResetTimer())
	case "p":
		m.dispatch(domain.PostponeBreak())
	case "f":
		m.dispatch(domain.SwitchMode(domain.ModeFocus))
	case "b":
		m.dispatch(domain.SwitchMode(domain.ModeBreak))
	case "t":
		m.dispatch(domain.SetTheme(app.Theme.Next()))
	case "n":
		m.dispatch(domain.UpdateAppSettings(domain.AppSettingsUpdate{
			NotificationsEnabled: domain.Ptr(!app.NotificationsEnabled),
		}))
	case "+", "=":
		m.setVolume(app.Volume + volumeStep)
	case "-", "_":
		m.setVolume(app.Volume - volumeStep)
	case "]":
		m.adjustSettings(domain.TimerSettingsUpdate{FocusDuration: domain.Ptr(settings.FocusDuration + focusStep)})
	case "[":
		m.adjustSettings(domain.TimerSettingsUpdate{FocusDuration: domain.Ptr(settings.FocusDuration - focusStep)})
	case "}":
		m.adjustSettings(domain.TimerSettingsUpdate{BreakDuration: domain.Ptr(settings.BreakDuration + breakStep)})
	case "{":
		m.adjustSettings(domain.TimerSettingsUpdate{BreakDuration: domain.Ptr(settings.BreakDuration - breakStep)})
	case ")":
		m.adjustSettings(domain.TimerSettingsUpdate{TotalHours: domain.Ptr(settings.TotalHours + hoursStep)})
	case "(":
		m.adjustSettings(domain.TimerSettingsUpdate{TotalHours: domain.Ptr(settings.TotalHours - hoursStep)})
	case "v":
		if m.vibes != nil {
			m.picker = newVibePicker(m.vibes, m.width)
		}
	case "u":
		if m.vibes != nil {
			m.picker = newVibePicker(m.vibes, m.width)
			return m.picker.openCustom()
		}
	case "c":
		if m.vibes != nil && m.state.CurrentVibe != nil {
			m.vibes.Clear()
			m.setState(m.ctrl.State())
		}
	}
	return nil
}

// adjustSettings applies a shortcut step unless it leaves the accepted ranges.
func (m *Model) adjustSettings(u domain.TimerSettingsUpdate) {
	if m.state.Settings.Apply(u).Validate() != nil {
		return
	}
	m.dispatch(domain.UpdateSettings(u))
}

func (m *Model) setVolume(v int) {
	v = min(max(v, 0), 100)
	if v == m.state.AppSettings.Volume {
		return
	}
	m.dispatch(domain.UpdateAppSettings(domain.AppSettingsUpdate{Volume: domain.Ptr(v)}))
}

// stop stops the plan on the second press inside stopConfirmWindow.
func (m *Model) stop() tea.Cmd {
	now := m.now()
	if !m.stopArmedAt.IsZero() && now.Sub(m.stopArmedAt) <= stopConfirmWindow {
		m.stopArmedAt = time.Time{}
		m.dispatch(domain.StopTimer())
		return nil
	}
	m.stopArmedAt = now
	return tea.Tick(stopConfirmWindow, func(time.Time) tea.Msg {
		return stopExpiredMsg{armedAt: now}
	})
}

func (m Model) stopArmed() bool {
	return !m.stopArmedAt.IsZero()
}

// View renders the TUI.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	pal := paletteFor(m.state)
	var content string
	if m.picker != nil {
		content = m.picker.view(pal, m.state.CurrentVibe)
	} else {
		content = lipgloss.JoinVertical(lipgloss.Center, m.viewTimer(pal)...)
	}

	if m.snow != nil && m.snow.Running() {
		return overlaySnow(content, m.snow.Flakes(), m.now(), m.width, m.height, pal.Snow)
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m Model) viewTimer(pal palette) []string {
	t := m.state.Timer
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(pal.Title).MarginBottom(1)
	statusStyle := lipgloss.NewStyle().Foreground(pal.accent(t))
	helpStyle := lipgloss.NewStyle().Foreground(pal.Help)

	var sections []string
	sections = append(sections, titleStyle.Render(fmt.Sprintf("%s · session %d of %d",
		t.Mode.Label(), t.CurrentSession, t.TotalSessions)))
	sections = append(sections, statusStyle.Render(phaseLabel(t)))

	sections = append(sections, "", renderClock(t.TimeRemaining, pal.accent(t), m.width))

	switch t.Phase() {
	case domain.PhaseWaiting:
		sections = append(sections, "", badge(pal.Break, "Break's over! Press space when you're back"))
	case domain.PhaseCompleted:
		sections = append(sections, "", badge(pal.Focus, "Plan complete. Press x twice to start over"))
	case domain.PhasePaused:
		sections = append(sections, "", badge(pal.Paused, "⏸ PAUSED"))
	}

	sections = append(sections, "", m.progressBar(pal, min(m.width-4, 60)))
	sections = append(sections, renderSegments(t, m.state.Settings, pal))
	sections = append(sections, helpStyle.Render(planSummary(m.state)))

	sections = append(sections, "", m.vibeLine(pal))
	sections = append(sections, helpStyle.Render(settingsLine(m.state.AppSettings)))

	sections = append(sections, "")
	if m.stopArmed() {
		sections = append(sections, statusStyle.Render("Press x again to stop the plan"))
	} else {
		sections = append(sections, helpStyle.Render(primaryHelp(t)))
	}
	sections = append(sections, helpStyle.Render("[ ] focus  { } break  ( ) hours  +/- volume  [n]otify  [t]heme  [v]ibes  [u]rl"))
	return sections
}

func (m Model) progressBar(pal palette, width int) string {
	g := pal.gradient(m.state.Timer)
	bar := progress.New(progress.WithGradient(g[0], g[1]))
	bar.Width = max(width, 10)
	return bar.ViewAs(m.state.Timer.SessionProgress / 100)
}

func (m Model) vibeLine(pal palette) string {
	v := m.state.CurrentVibe
	help := lipgloss.NewStyle().Foreground(pal.Help)
	if v == nil {
		return help.Render("No vibe · press v to pick one")
	}
	indicator := "paused"
	if m.state.Timer.Ticking() {
		indicator = "now playing"
	}
	name := lipgloss.NewStyle().Bold(true).Foreground(pal.Focus).Render("♪ " + v.Name)
	return name + help.Render(fmt.Sprintf("  %s · vol %d", indicator, m.state.AppSettings.Volume))
}

func badge(bg lipgloss.Color, text string) string {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(bg).
		Padding(0, 1).
		Render(text)
}

func phaseLabel(t domain.TimerState) string {
	var label string
	switch t.Phase() {
	case domain.PhaseRunning:
		label = "Running"
	case domain.PhaseWaiting:
		label = "Waiting for you"
	case domain.PhaseCompleted:
		label = "Completed"
	default:
		label = "Paused"
	}
	if t.IsPostponed {
		label += " (postponed)"
	}
	return label
}

func primaryHelp(t domain.TimerState) string {
	var action string
	switch t.Phase() {
	case domain.PhaseRunning:
		action = "[space] pause"
	case domain.PhaseWaiting:
		action = "[space] I'm back"
	case domain.PhaseCompleted:
		action = "[x x] start over"
	default:
		action = "[space] start"
	}
	help := action + "  [r]eset  [x x] stop  [f]ocus  [b]reak"
	if t.Mode == domain.ModeBreak && !t.Completed {
		help += "  [p]ostpone"
	}
	return help + "  [q]uit"
}

var focusMarks = map[domain.SegmentStatus]string{
	domain.SegmentDone:     "●",
	domain.SegmentCurrent:  "◉",
	domain.SegmentUpcoming: "○",
}

// renderSegments draws the plan as one mark per interval.
func renderSegments(t domain.TimerState, s domain.TimerSettings, pal palette) string {
	segments := domain.Segments(t, s)
	if len(segments) == 0 {
		return ""
	}
	marks := make([]string, len(segments))
	for i, seg := range segments {
		color := pal.Focus
		glyph := focusMarks[seg.Status]
		if seg.Mode == domain.ModeBreak {
			color = pal.Break
			glyph = "─"
		}
		if seg.Status == domain.SegmentUpcoming {
			color = pal.Help
		}
		marks[i] = lipgloss.NewStyle().Foreground(color).Render(glyph)
	}
	return strings.Join(marks, " ")
}

func planSummary(s domain.AppState) string {
	total := domain.TotalMinutes(s.Timer.TotalSessions, s.Settings.FocusDuration, s.Settings.BreakDuration)
	return fmt.Sprintf("%dm focus / %dm break · %d sessions · %s · %d%% done",
		s.Settings.FocusDuration, s.Settings.BreakDuration, s.Timer.TotalSessions,
		domain.FormatPlanMinutes(total), domain.PlanPercent(s.Timer))
}

func settingsLine(a domain.AppSettings) string {
	notify := "off"
	if a.NotificationsEnabled {
		notify = "on"
	}
	return fmt.Sprintf("volume %d · notifications %s · theme %s", a.Volume, notify, a.Theme)
}
