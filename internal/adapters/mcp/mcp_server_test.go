package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xvierd/focus-cli/internal/domain"
)

// mockTimer is a minimal in-memory ports.TimerController.
type mockTimer struct {
	state domain.AppState
}

func (m *mockTimer) State() domain.AppState { return m.state }

func (m *mockTimer) Dispatch(a domain.Action) domain.AppState {
	m.state = domain.Reduce(m.state, a).State
	return m.state
}

func (m *mockTimer) Subscribe() (<-chan domain.AppState, func()) {
	ch := make(chan domain.AppState)
	return ch, func() {}
}

type mockHistory struct {
	entries []*domain.HistoryEntry
	err     error
}

func (m *mockHistory) TodayStats(ctx context.Context) (*domain.DailyStats, error) {
	if m.err != nil {
		return nil, m.err
	}
	stats := &domain.DailyStats{}
	for _, e := range m.entries {
		stats.Add(e)
	}
	return stats, nil
}

func (m *mockHistory) Recent(ctx context.Context, since time.Time) ([]*domain.HistoryEntry, error) {
	return m.entries, m.err
}

func newTestServer() (*Server, *mockTimer) {
	timer := &mockTimer{state: domain.DefaultAppState()}
	s := NewServer(timer, &mockHistory{}, "test")
	s.now = func() time.Time { return time.UnixMilli(1700000000000) }
	return s, timer
}

func request(args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: args,
		},
	}
}

func textOf(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, result)
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", result.Content[0])
	return text.Text
}

func decodeView(t *testing.T, result *mcp.CallToolResult) stateView {
	t.Helper()
	require.False(t, result.IsError, textOf(t, result))
	var view stateView
	require.NoError(t, json.Unmarshal([]byte(textOf(t, result)), &view))
	return view
}

func TestNewServer(t *testing.T) {
	server, timer := newTestServer()
	if server.timer != timer {
		t.Error("NewServer() did not set the timer")
	}
	if server.server == nil {
		t.Error("NewServer() did not create MCP server")
	}
	if server.IsRunning() {
		t.Error("IsRunning() should return false before Start()")
	}
}

func TestServer_handleGetState(t *testing.T) {
	server, _ := newTestServer()

	result, err := server.handleGetState(context.Background(), request(nil))
	require.NoError(t, err)

	view := decodeView(t, result)
	assert.Equal(t, domain.PhasePaused, view.Phase)
	assert.Equal(t, "25:00", view.Display)
	assert.Nil(t, view.Changed)
	assert.Equal(t, 2, view.Timer.TotalSessions)
	assert.Equal(t, domain.DefaultAppSettings(), view.AppSettings)
	assert.Nil(t, view.CurrentVibe)
}

func TestServer_handleGetPlan(t *testing.T) {
	server, _ := newTestServer()

	result, err := server.handleGetPlan(context.Background(), request(nil))
	require.NoError(t, err)

	var plan struct {
		TotalSessions int              `json:"total_sessions"`
		TotalMinutes  int              `json:"total_minutes"`
		Percent       int              `json:"percent"`
		Segments      []domain.Segment `json:"segments"`
	}
	require.NoError(t, json.Unmarshal([]byte(textOf(t, result)), &plan))
	assert.Equal(t, 2, plan.TotalSessions)
	assert.Equal(t, 55, plan.TotalMinutes)
	assert.Equal(t, 0, plan.Percent)
	require.Len(t, plan.Segments, 3)
	assert.Equal(t, domain.SegmentCurrent, plan.Segments[0].Status)
}

func TestServer_Controls(t *testing.T) {
	server, timer := newTestServer()
	ctx := context.Background()

	result, err := server.dispatch(domain.StartTimer())
	require.NoError(t, err)
	view := decodeView(t, result)
	assert.Equal(t, domain.PhaseRunning, view.Phase)
	require.NotNil(t, view.Changed)
	assert.True(t, *view.Changed)

	result, err = server.dispatch(domain.StartTimer())
	require.NoError(t, err)
	assert.False(t, *decodeView(t, result).Changed, "starting twice is a no-op")

	result, err = server.handleSwitchMode(ctx, request(map[string]interface{}{"mode": "break"}))
	require.NoError(t, err)
	view = decodeView(t, result)
	assert.Equal(t, domain.ModeBreak, view.Timer.Mode)
	assert.Equal(t, "05:00", view.Display)

	result, err = server.dispatch(domain.PostponeBreak())
	require.NoError(t, err)
	view = decodeView(t, result)
	assert.True(t, view.Timer.IsPostponed)
	assert.Equal(t, 60, view.Timer.TimeRemaining)

	result, err = server.dispatch(domain.StopTimer())
	require.NoError(t, err)
	assert.Equal(t, domain.NewTimerState(timer.state.Settings), decodeView(t, result).Timer)
}

func TestServer_handleSwitchMode_Invalid(t *testing.T) {
	server, _ := newTestServer()

	tests := []struct {
		name string
		args map[string]interface{}
	}{
		{"missing", nil},
		{"unknown", map[string]interface{}{"mode": "nap"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := server.handleSwitchMode(context.Background(), request(tt.args))
			require.NoError(t, err)
			assert.True(t, result.IsError)
		})
	}
}

func TestServer_handleUpdateSettings(t *testing.T) {
	server, timer := newTestServer()
	ctx := context.Background()

	result, err := server.handleUpdateSettings(ctx, request(map[string]interface{}{
		"focus_duration": float64(50),
		"total_hours":    float64(2),
	}))
	require.NoError(t, err)
	view := decodeView(t, result)
	assert.Equal(t, domain.TimerSettings{FocusDuration: 50, BreakDuration: 5, TotalHours: 2}, view.Settings)
	assert.Equal(t, 50*60, view.Timer.TimeRemaining)
	assert.Equal(t, 2, view.Timer.TotalSessions)

	for name, args := range map[string]map[string]interface{}{
		"empty":    {},
		"zero":     {"focus_duration": float64(0)},
		"negative": {"total_hours": float64(-1)},
		"too long": {"focus_duration": float64(90)},
		"huge":     {"total_hours": float64(1e12)},
		"infinite": {"total_hours": math.Inf(1)},
		"NaN":      {"total_hours": math.NaN()},
	} {
		t.Run(name, func(t *testing.T) {
			before := timer.state
			result, err := server.handleUpdateSettings(ctx, request(args))
			require.NoError(t, err)
			assert.True(t, result.IsError)
			assert.Equal(t, before, timer.state)
		})
	}
}

func TestServer_handleUpdateAppSettings(t *testing.T) {
	server, _ := newTestServer()
	ctx := context.Background()

	result, err := server.handleUpdateAppSettings(ctx, request(map[string]interface{}{
		"notifications_enabled": false,
		"volume":                float64(0),
		"theme":                 "winter",
	}))
	require.NoError(t, err)
	view := decodeView(t, result)
	assert.False(t, view.AppSettings.NotificationsEnabled)
	assert.Equal(t, 0, view.AppSettings.Volume)
	assert.Equal(t, domain.ThemeWinter, view.AppSettings.Theme)
	assert.False(t, view.AppSettings.LightMode, "absent fields are untouched")

	for name, args := range map[string]map[string]interface{}{
		"empty": {},
		"loud":  {"volume": float64(101)},
		"theme": {"theme": "neon"},
	} {
		t.Run(name, func(t *testing.T) {
			result, err := server.handleUpdateAppSettings(ctx, request(args))
			require.NoError(t, err)
			assert.True(t, result.IsError)
		})
	}
}

func TestServer_handleSetTheme(t *testing.T) {
	server, _ := newTestServer()

	result, err := server.handleSetTheme(context.Background(), request(map[string]interface{}{"theme": "light"}))
	require.NoError(t, err)
	assert.Equal(t, domain.ThemeLight, decodeView(t, result).AppSettings.Theme)

	result, err = server.handleSetTheme(context.Background(), request(map[string]interface{}{"theme": "dark"}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestServer_Vibes(t *testing.T) {
	server, timer := newTestServer()
	ctx := context.Background()

	result, err := server.handleListVibes(ctx, request(map[string]interface{}{"category": "ambient"}))
	require.NoError(t, err)
	var listing struct {
		Vibes []domain.Vibe `json:"vibes"`
	}
	require.NoError(t, json.Unmarshal([]byte(textOf(t, result)), &listing))
	require.Len(t, listing.Vibes, 2)
	assert.Equal(t, "ambient", listing.Vibes[0].ID)

	result, err = server.handleListVibes(ctx, request(map[string]interface{}{"category": "metal"}))
	require.NoError(t, err)
	assert.True(t, result.IsError)

	result, err = server.handleSetVibe(ctx, request(map[string]interface{}{"id": "jazz"}))
	require.NoError(t, err)
	assert.Equal(t, "jazz", decodeView(t, result).CurrentVibe.ID)

	result, err = server.handleSetVibe(ctx, request(map[string]interface{}{"id": "polka"}))
	require.NoError(t, err)
	assert.True(t, result.IsError)

	result, err = server.handleSetCustomVibe(ctx, request(map[string]interface{}{"url": "https://example.com"}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, textOf(t, result), "please enter a valid YouTube URL")
	assert.Equal(t, "jazz", timer.state.CurrentVibe.ID)

	result, err = server.handleSetCustomVibe(ctx, request(map[string]interface{}{"url": "https://youtu.be/dQw4w9WgXcQ"}))
	require.NoError(t, err)
	view := decodeView(t, result)
	assert.Equal(t, "custom-1700000000000", view.CurrentVibe.ID)
	assert.Equal(t, "dQw4w9WgXcQ", view.CurrentVibe.VideoID)

	result, err = server.handleClearVibe(ctx, request(nil))
	require.NoError(t, err)
	assert.Nil(t, decodeView(t, result).CurrentVibe)
}

func TestServer_handleGetStats(t *testing.T) {
	server, _ := newTestServer()
	entry := domain.NewHistoryEntry(domain.Effect{Kind: domain.EffectIntervalFinished, Mode: domain.ModeFocus, Session: 1, Seconds: 1500}, nil, time.Now())
	server.history = &mockHistory{entries: []*domain.HistoryEntry{entry}}

	result, err := server.handleGetStats(context.Background(), request(nil))
	require.NoError(t, err)

	var stats map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(textOf(t, result)), &stats))
	assert.Equal(t, float64(1), stats["focus_intervals"])
	assert.Equal(t, "25m0s", stats["focus_time"])

	server.history = &mockHistory{err: errors.New("db gone")}
	_, err = server.handleGetStats(context.Background(), request(nil))
	assert.Error(t, err)

	server.history = nil
	result, err = server.handleGetStats(context.Background(), request(nil))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}
