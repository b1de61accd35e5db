// Package mcp provides the MCP (Model Context Protocol) server implementation.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/xvierd/focus-cli/internal/domain"
	"github.com/xvierd/focus-cli/internal/ports"
)

// Server implements the MCP server using mark3labs/mcp-go.
type Server struct {
	server  *server.MCPServer
	timer   ports.TimerController
	history ports.HistoryReader
	now     func() time.Time
	ctx     context.Context
	cancel  context.CancelFunc
}

// NewServer creates a new MCP server instance. history may be nil.
func NewServer(timer ports.TimerController, history ports.HistoryReader, version string) *Server {
	s := &Server{
		timer:   timer,
		history: history,
		now:     time.Now,
	}

	s.server = server.NewMCPServer(
		"focus-timer",
		version,
		server.WithLogging(),
	)

	s.registerTools()

	return s
}

func (s *Server) registerTools() {
	s.server.AddTool(
		mcp.NewTool("get_state",
			mcp.WithDescription("Get the timer state, settings, app settings and current vibe"),
		),
		s.handleGetState,
	)

	s.server.AddTool(
		mcp.NewTool("get_plan",
			mcp.WithDescription("Get the session plan: total sessions, total minutes and the focus/break segments"),
		),
		s.handleGetPlan,
	)

	controls := []struct {
		name        string
		description string
		action      func() domain.Action
	}{
		{"start_timer", "Start the countdown. Does nothing while running, waiting for the user or completed", domain.StartTimer},
		{"pause_timer", "Pause the running countdown", domain.PauseTimer},
		{"reset_timer", "Restart the current interval from its full length, paused", domain.ResetTimer},
		{"stop_timer", "Stop the plan and return to the first focus session", domain.StopTimer},
		{"postpone_break", "Cut the current break down to one minute", domain.PostponeBreak},
		{"user_returned", "Acknowledge the return after a break and start the next focus session", domain.UserReturned},
	}
	for _, c := range controls {
		action := c.action
		s.server.AddTool(
			mcp.NewTool(c.name, mcp.WithDescription(c.description)),
			func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				return s.dispatch(action())
			},
		)
	}

	s.server.AddTool(
		mcp.NewTool("switch_mode",
			mcp.WithDescription("Switch to focus or break and start running"),
			mcp.WithString("mode",
				mcp.Required(),
				mcp.Description("The mode to switch to"),
				mcp.Enum(string(domain.ModeFocus), string(domain.ModeBreak)),
			),
		),
		s.handleSwitchMode,
	)

	s.server.AddTool(
		mcp.NewTool("update_settings",
			mcp.WithDescription("Change the plan. Resets the current interval to its new full length"),
			mcp.WithNumber("focus_duration", mcp.Description("Focus interval length in minutes")),
			mcp.WithNumber("break_duration", mcp.Description("Break interval length in minutes")),
			mcp.WithNumber("total_hours", mcp.Description("Planned total hours")),
		),
		s.handleUpdateSettings,
	)

	s.server.AddTool(
		mcp.NewTool("update_app_settings",
			mcp.WithDescription("Change app preferences"),
			mcp.WithBoolean("light_mode", mcp.Description("Use light mode")),
			mcp.WithBoolean("notifications_enabled", mcp.Description("Show desktop notifications")),
			mcp.WithNumber("volume", mcp.Description("Vibe volume, 0-100")),
			mcp.WithString("theme",
				mcp.Description("Color theme"),
				mcp.Enum(themeNames()...),
			),
		),
		s.handleUpdateAppSettings,
	)

	s.server.AddTool(
		mcp.NewTool("set_theme",
			mcp.WithDescription("Set the color theme"),
			mcp.WithString("theme",
				mcp.Required(),
				mcp.Enum(themeNames()...),
			),
		),
		s.handleSetTheme,
	)

	s.server.AddTool(
		mcp.NewTool("list_vibes",
			mcp.WithDescription("List the preset vibes, optionally in one category"),
			mcp.WithString("category",
				mcp.Description("Category filter"),
				mcp.Enum(categoryNames()...),
			),
		),
		s.handleListVibes,
	)

	s.server.AddTool(
		mcp.NewTool("set_vibe",
			mcp.WithDescription("Select a preset vibe by id"),
			mcp.WithString("id", mcp.Required(), mcp.Description("Preset id, e.g. lofi or rain")),
		),
		s.handleSetVibe,
	)

	s.server.AddTool(
		mcp.NewTool("set_custom_vibe",
			mcp.WithDescription("Use a YouTube link as the vibe"),
			mcp.WithString("url", mcp.Required(), mcp.Description("A YouTube video URL")),
		),
		s.handleSetCustomVibe,
	)

	s.server.AddTool(
		mcp.NewTool("clear_vibe", mcp.WithDescription("Remove the current vibe")),
		s.handleClearVibe,
	)

	s.server.AddTool(
		mcp.NewTool("get_stats",
			mcp.WithDescription("Get today's finished intervals and totals"),
		),
		s.handleGetStats,
	)
}

// Start begins serving MCP requests via stdio.
func (s *Server) Start(ctx context.Context) error {
	s.ctx, s.cancel = context.WithCancel(ctx)
	return server.ServeStdio(s.server)
}

// Stop gracefully shuts down the server.
func (s *Server) Stop() error {
	if s.cancel != nil {
		s.cancel()
	}
	return nil
}

// IsRunning returns true if the server is active.
func (s *Server) IsRunning() bool {
	if s.ctx == nil {
		return false
	}
	return s.ctx.Err() == nil
}

// Ensure Server implements ports.MCPHandler.
var _ ports.MCPHandler = (*Server)(nil)

// stateView is the JSON shape returned by state-changing tools.
type stateView struct {
	Phase       domain.Phase         `json:"phase"`
	Display     string               `json:"display"`
	Changed     *bool                `json:"changed,omitempty"`
	Timer       domain.TimerState    `json:"timer"`
	Settings    domain.TimerSettings `json:"settings"`
	AppSettings domain.AppSettings   `json:"appSettings"`
	CurrentVibe *domain.Vibe         `json:"currentVibe"`
}

func newStateView(state domain.AppState) stateView {
	return stateView{
		Phase:       state.Timer.Phase(),
		Display:     domain.FormatClock(state.Timer.TimeRemaining),
		Timer:       state.Timer,
		Settings:    state.Settings,
		AppSettings: state.AppSettings,
		CurrentVibe: state.CurrentVibe,
	}
}

func (s *Server) handleGetState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(newStateView(s.timer.State()))
}

func (s *Server) handleGetPlan(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	state := s.timer.State()
	settings := state.Settings
	total := state.Timer.TotalSessions

	result := map[string]interface{}{
		"total_sessions":  total,
		"total_minutes":   domain.TotalMinutes(total, settings.FocusDuration, settings.BreakDuration),
		"current_session": state.Timer.CurrentSession,
		"percent":         domain.PlanPercent(state.Timer),
		"segments":        domain.Segments(state.Timer, settings),
	}
	return jsonResult(result)
}

// dispatch applies action and reports the state and whether it changed.
func (s *Server) dispatch(action domain.Action) (*mcp.CallToolResult, error) {
	before := s.timer.State()
	after := s.timer.Dispatch(action)
	changed := !after.Equal(before)

	view := newStateView(after)
	view.Changed = &changed
	return jsonResult(view)
}

func (s *Server) handleSwitchMode(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := request.RequireString("mode")
	if err != nil {
		return mcp.NewToolResultError("mode is required: " + err.Error()), nil
	}
	mode, err := domain.ParseMode(raw)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.dispatch(domain.SwitchMode(mode))
}

func (s *Server) handleUpdateSettings(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	var update domain.TimerSettingsUpdate
	if _, ok := args["focus_duration"]; ok {
		update.FocusDuration = domain.Ptr(int(request.GetFloat("focus_duration", 0)))
	}
	if _, ok := args["break_duration"]; ok {
		update.BreakDuration = domain.Ptr(int(request.GetFloat("break_duration", 0)))
	}
	if _, ok := args["total_hours"]; ok {
		update.TotalHours = domain.Ptr(request.GetFloat("total_hours", 0))
	}
	if update.IsEmpty() {
		return mcp.NewToolResultError("provide at least one of focus_duration, break_duration, total_hours"), nil
	}

	next := s.timer.State().Settings.Apply(update)
	if err := next.Validate(); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.dispatch(domain.UpdateSettings(update))
}

func (s *Server) handleUpdateAppSettings(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	var update domain.AppSettingsUpdate
	if _, ok := args["light_mode"]; ok {
		update.LightMode = domain.Ptr(request.GetBool("light_mode", false))
	}
	if _, ok := args["notifications_enabled"]; ok {
		update.NotificationsEnabled = domain.Ptr(request.GetBool("notifications_enabled", true))
	}
	if _, ok := args["volume"]; ok {
		volume := int(request.GetFloat("volume", -1))
		if err := domain.ValidateVolume(volume); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		update.Volume = &volume
	}
	if raw := request.GetString("theme", ""); raw != "" {
		theme, err := domain.ParseTheme(raw)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		update.Theme = &theme
	}
	if update == (domain.AppSettingsUpdate{}) {
		return mcp.NewToolResultError("provide at least one setting to change"), nil
	}
	return s.dispatch(domain.UpdateAppSettings(update))
}

func (s *Server) handleSetTheme(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := request.RequireString("theme")
	if err != nil {
		return mcp.NewToolResultError("theme is required: " + err.Error()), nil
	}
	theme, err := domain.ParseTheme(raw)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.dispatch(domain.SetTheme(theme))
}

func (s *Server) handleListVibes(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	category := domain.CategoryPopular
	if raw := request.GetString("category", ""); raw != "" {
		c, err := domain.ParseCategory(raw)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		category = c
	}

	var current string
	if v := s.timer.State().CurrentVibe; v != nil {
		current = v.ID
	}
	result := map[string]interface{}{
		"category": category,
		"vibes":    domain.VibesInCategory(category),
		"current":  current,
	}
	return jsonResult(result)
}

func (s *Server) handleSetVibe(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("id is required: " + err.Error()), nil
	}
	vibe, err := domain.FindPreset(id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("vibe %q: %v", id, err)), nil
	}
	return s.dispatch(domain.SetVibe(vibe))
}

func (s *Server) handleSetCustomVibe(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rawURL, err := request.RequireString("url")
	if err != nil {
		return mcp.NewToolResultError("url is required: " + err.Error()), nil
	}
	vibe, err := domain.NewCustomVibe(rawURL, s.now())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.dispatch(domain.SetVibe(vibe))
}

func (s *Server) handleClearVibe(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.dispatch(domain.SetVibe(nil))
}

func (s *Server) handleGetStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.history == nil {
		return mcp.NewToolResultError("history is not available"), nil
	}
	stats, err := s.history.TodayStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}
	entries, err := s.history.Recent(ctx, domain.StartOfDay(s.now()))
	if err != nil {
		return nil, fmt.Errorf("failed to get history: %w", err)
	}

	result := map[string]interface{}{
		"focus_intervals": stats.FocusIntervals,
		"break_intervals": stats.BreakIntervals,
		"focus_time":      stats.FocusTime.String(),
		"break_time":      stats.BreakTime.String(),
		"entries":         entries,
	}
	return jsonResult(result)
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

func themeNames() []string {
	names := make([]string, 0, len(domain.Themes))
	for _, t := range domain.Themes {
		names = append(names, string(t))
	}
	return names
}

func categoryNames() []string {
	names := make([]string, 0, len(domain.Categories))
	for _, c := range domain.Categories {
		names = append(names, string(c))
	}
	return names
}
