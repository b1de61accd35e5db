package ports

import (
	"context"
	"time"

	"github.com/xvierd/focus-cli/internal/domain"
)

// TimerController is the driving port used by the TUI and the MCP server
// to read and change the application state.
type TimerController interface {
	// State returns the current state.
	State() domain.AppState

	// Dispatch applies an action and returns the resulting state.
	Dispatch(action domain.Action) domain.AppState

	// Subscribe returns a channel that always holds the latest state after a
	// change, and a function that ends the subscription.
	Subscribe() (<-chan domain.AppState, func())
}

// HistoryReader exposes interval history to driving adapters.
type HistoryReader interface {
	// TodayStats returns totals for the current day.
	TodayStats(ctx context.Context) (*domain.DailyStats, error)

	// Recent returns entries completed at or after since.
	Recent(ctx context.Context, since time.Time) ([]*domain.HistoryEntry, error)
}
