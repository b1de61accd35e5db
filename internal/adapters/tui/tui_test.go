package tui

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/xvierd/focus-cli/internal/domain"
	"github.com/xvierd/focus-cli/internal/services"
)

func TestRenderClock(t *testing.T) {
	big := renderClock(25*60, lipgloss.Color("#FFFFFF"), 80)
	if lines := strings.Split(big, "\n"); len(lines) != 5 {
		t.Errorf("renderClock() wide = %d lines, want 5", len(lines))
	}

	narrow := renderClock(90, lipgloss.Color("#FFFFFF"), 30)
	if !strings.Contains(narrow, "01:30") || strings.Contains(narrow, "\n") {
		t.Errorf("renderClock() narrow = %q, want a single 01:30 line", narrow)
	}
}

func TestDigitGlyph(t *testing.T) {
	tests := []struct {
		digit int
		want  [glyphRows]string
	}{
		{0, [glyphRows]string{"████", "█  █", "█  █", "█  █", "████"}},
		{1, [glyphRows]string{"   █", "   █", "   █", "   █", "   █"}},
		{4, [glyphRows]string{"█  █", "█  █", "████", "   █", "   █"}},
		{7, [glyphRows]string{"████", "   █", "   █", "   █", "   █"}},
		{8, [glyphRows]string{"████", "█  █", "████", "█  █", "████"}},
	}
	for _, tt := range tests {
		if got := digitGlyph(tt.digit); got != tt.want {
			t.Errorf("digitGlyph(%d) = %q, want %q", tt.digit, got, tt.want)
		}
	}
}

func TestNewModel(t *testing.T) {
	ctrl := newFakeController(domain.DefaultAppState())
	m := NewModel(context.Background(), Options{Controller: ctrl})

	if !m.state.Equal(ctrl.state) {
		t.Error("NewModel() should show the controller state")
	}
	if m.View() != "Loading..." {
		t.Error("View() should wait for the window size")
	}
}

func TestModel_StateMsg(t *testing.T) {
	ctrl := newFakeController(domain.DefaultAppState())
	updates := make(chan domain.AppState, 1)
	m := NewModel(context.Background(), Options{Controller: ctrl, Updates: updates})

	next := domain.Reduce(domain.DefaultAppState(), domain.StartTimer()).State
	result, cmd := m.Update(stateMsg(next))
	m = result.(Model)
	if !m.state.Timer.IsRunning {
		t.Error("stateMsg should replace the shown state")
	}
	if cmd == nil {
		t.Fatal("stateMsg should keep listening for updates")
	}

	updates <- next
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		msg = batch[0]()
	}
	if got, ok := msg.(stateMsg); !ok || !domain.AppState(got).Equal(next) {
		t.Errorf("listener delivered %T, want the next stateMsg", msg)
	}
}

func TestWaitForState_Closed(t *testing.T) {
	if waitForState(nil) != nil {
		t.Error("no subscription should mean no command")
	}
	ch := make(chan domain.AppState)
	close(ch)
	if msg := waitForState(ch)(); msg != nil {
		t.Errorf("closed subscription delivered %v", msg)
	}
}

func TestModel_View(t *testing.T) {
	s := domain.DefaultAppState()
	lofi, _ := domain.FindPreset("lofi")
	s.CurrentVibe = lofi

	m, _ := newTestModel(s)
	view := m.View()

	for _, want := range []string{
		"Focus · session 1 of 2",
		"Paused",
		"♪ Lo-Fi Beats",
		"25m focus / 5m break · 2 sessions · 55m · 0% done",
		"volume 50 · notifications on · theme default",
		"[space] start",
	} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}

	m = press(m, " ")
	if !strings.Contains(m.View(), "now playing") {
		t.Error("a running timer should show the vibe as playing")
	}
}

func TestModel_View_Phases(t *testing.T) {
	m, _ := newTestModel(waitingState())
	if view := m.View(); !strings.Contains(view, "Break's over") || !strings.Contains(view, "[space] I'm back") {
		t.Error("waiting view should show the return banner")
	}

	completed := domain.NewAppState(domain.TimerSettings{FocusDuration: 1, BreakDuration: 1, TotalHours: 0.04}, domain.DefaultAppSettings())
	completed = domain.Reduce(completed, domain.StartTimer()).State
	for i := 0; i < 120; i++ {
		completed = domain.Reduce(completed, domain.Tick()).State
	}
	if !completed.Timer.Completed {
		t.Fatal("setup: plan should be complete")
	}
	m, _ = newTestModel(completed)
	if view := m.View(); !strings.Contains(view, "Plan complete") || !strings.Contains(view, "100% done") {
		t.Error("completed view should show the plan as complete")
	}
}

func TestModel_View_Picker(t *testing.T) {
	m, _ := newTestModel(domain.DefaultAppState())
	m = press(m, "v")
	view := m.View()
	for _, want := range []string{"Choose your vibe", "[Popular]", "Lo-Fi Beats", "Rain Sounds"} {
		if !strings.Contains(view, want) {
			t.Errorf("picker view missing %q", want)
		}
	}
}

func TestRenderSegments(t *testing.T) {
	pal := paletteFor(domain.DefaultAppState())
	s := domain.DefaultAppState()

	got := renderSegments(s.Timer, s.Settings, pal)
	if got != "◉ ─ ○" {
		t.Errorf("renderSegments() = %q, want %q", got, "◉ ─ ○")
	}

	s = domain.Reduce(s, domain.SwitchMode(domain.ModeBreak)).State
	if got := renderSegments(s.Timer, s.Settings, pal); got != "● ─ ○" {
		t.Errorf("renderSegments() in break = %q", got)
	}

	s.Timer.TotalSessions = 0
	if got := renderSegments(s.Timer, s.Settings, pal); got != "" {
		t.Errorf("renderSegments() of an empty plan = %q", got)
	}
}

func TestPaletteFor(t *testing.T) {
	s := domain.DefaultAppState()
	if got := paletteFor(s).Focus; got != themePalettes[domain.ThemeDefault].Focus {
		t.Errorf("default focus color = %s", got)
	}

	s.AppSettings.Theme = domain.ThemeWinter
	if got := paletteFor(s).Focus; got != themePalettes[domain.ThemeWinter].Focus {
		t.Errorf("winter focus color = %s", got)
	}

	s.AppSettings.Theme = "neon"
	if got := paletteFor(s).Focus; got != themePalettes[domain.ThemeDefault].Focus {
		t.Errorf("unknown theme should fall back to default, got %s", got)
	}

	jazz, _ := domain.FindPreset("jazz")
	s.CurrentVibe = jazz
	p := paletteFor(s)
	if p.Focus != lipgloss.Color(jazz.Theme.Primary) {
		t.Errorf("vibe should override the focus color, got %s", p.Focus)
	}
	if p.FocusGradient != [2]string{jazz.Theme.Primary, jazz.Theme.Secondary} {
		t.Errorf("vibe gradient = %v", p.FocusGradient)
	}
}

func TestOverlaySnow(t *testing.T) {
	now := time.Unix(100, 0)
	flakes := []services.Flake{
		{ID: 1, X: 0, Size: 2, Opacity: 0.8, Duration: 10 * time.Second, Born: now},
		{ID: 2, X: 90, Size: 6, Opacity: 0.5, Duration: 10 * time.Second, Born: now.Add(-5 * time.Second)},
	}

	out := overlaySnow("hello", flakes, now, 20, 6, lipgloss.Color("#FFFFFF"))
	lines := strings.Split(out, "\n")
	if len(lines) != 6 {
		t.Fatalf("overlaySnow() = %d lines, want 6", len(lines))
	}
	if !strings.Contains(lines[2], "hello") {
		t.Errorf("content should be centered, got %q", lines[2])
	}
	if !strings.HasPrefix(lines[0], "·") {
		t.Errorf("first flake should sit top left, got %q", lines[0])
	}
	if !strings.Contains(lines[3], "❄") {
		t.Errorf("second flake should be half way down, got %q", lines[3])
	}
	for _, i := range []int{0, 2} {
		if w := lipgloss.Width(lines[i]); w != 20 {
			t.Errorf("line %d width = %d, want 20", i, w)
		}
	}
}

func TestModel_WinterSnow(t *testing.T) {
	ctrl := newFakeController(domain.DefaultAppState())
	snow := services.NewSnowfall(services.SnowConfig{Initial: 10, Batch: 1, Max: 20, Interval: time.Hour})
	t.Cleanup(snow.Stop)

	m := NewModel(context.Background(), Options{Controller: ctrl, Snow: snow})
	m.width, m.height = 80, 30
	if snow.Running() {
		t.Fatal("snow should be off outside the winter theme")
	}

	m = press(m, "t", "t")
	if !snow.Running() {
		t.Fatal("entering winter should start the snow")
	}
	if !m.animating {
		t.Error("entering winter should start the frame loop")
	}
	if lines := strings.Split(m.View(), "\n"); len(lines) != 30 {
		t.Errorf("winter view = %d lines, want the full screen", len(lines))
	}

	next, cmd := m.Update(frameMsg(time.Now()))
	m = next.(Model)
	if cmd == nil {
		t.Error("frames should continue while snowing")
	}

	m = press(m, "t")
	if snow.Running() {
		t.Error("leaving winter should stop the snow")
	}
	next, cmd = m.Update(frameMsg(time.Now()))
	m = next.(Model)
	if cmd != nil || m.animating {
		t.Error("frames should stop with the snow")
	}
}

func TestShowStatus(t *testing.T) {
	s := domain.Reduce(domain.DefaultAppState(), domain.StartTimer()).State
	rain, _ := domain.FindPreset("rain")
	s.CurrentVibe = rain

	var buf bytes.Buffer
	ShowStatus(&buf, s)
	out := buf.String()

	for _, want := range []string{
		"Focus · session 1 of 2",
		"Status: Running",
		"Remaining: 25:00 (25 minutes)",
		"Vibe: Rain Sounds (https://www.youtube.com/watch?v=mPZkdNFkNps)",
		"theme default",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("ShowStatus() missing %q in:\n%s", want, out)
		}
	}
}
