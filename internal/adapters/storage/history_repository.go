package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/xvierd/focus-cli/internal/domain"
	"github.com/xvierd/focus-cli/internal/ports"
)

// historyRepository implements ports.HistoryRepository using SQLite.
type historyRepository struct {
	db *sql.DB
}

// newHistoryRepository creates a new history repository.
func newHistoryRepository(db *sql.DB) ports.HistoryRepository {
	return &historyRepository{db: db}
}

// Save persists a history entry.
func (r *historyRepository) Save(ctx context.Context, entry *domain.HistoryEntry) error {
	query := `
		INSERT INTO history (
			id, mode, session, duration_ms, postponed, vibe_id,
			git_branch, git_commit, completed_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		entry.ID,
		string(entry.Mode),
		entry.Session,
		entry.Duration.Milliseconds(),
		entry.Postponed,
		nullable(entry.VibeID),
		nullable(entry.GitBranch),
		nullable(entry.GitCommit),
		entry.CompletedAt.UnixMilli(),
	)
	if isUniqueConstraintError(err) {
		return fmt.Errorf("%w: %s", domain.ErrHistoryExists, entry.ID)
	}
	if err != nil {
		return fmt.Errorf("failed to save history entry: %w", err)
	}

	return nil
}

// FindRecent retrieves entries completed at or after since, oldest first.
func (r *historyRepository) FindRecent(ctx context.Context, since time.Time) ([]*domain.HistoryEntry, error) {
	query := `
		SELECT id, mode, session, duration_ms, postponed, vibe_id, git_branch, git_commit, completed_at
		FROM history
		WHERE completed_at >= ?
		ORDER BY completed_at ASC, id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, since.UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return r.scanEntries(rows)
}

// GetDailyStats returns aggregated statistics for the day containing date.
func (r *historyRepository) GetDailyStats(ctx context.Context, date time.Time) (*domain.DailyStats, error) {
	startOfDay := domain.StartOfDay(date)
	endOfDay := startOfDay.AddDate(0, 0, 1)

	query := `
		SELECT
			COUNT(CASE WHEN mode = 'focus' THEN 1 END),
			COUNT(CASE WHEN mode = 'break' THEN 1 END),
			COALESCE(SUM(CASE WHEN mode = 'focus' THEN duration_ms END), 0),
			COALESCE(SUM(CASE WHEN mode = 'break' THEN duration_ms END), 0)
		FROM history
		WHERE completed_at >= ? AND completed_at < ?
	`

	stats := &domain.DailyStats{Date: startOfDay}

	var focusMs, breakMs int64
	err := r.db.QueryRowContext(ctx, query, startOfDay.UnixMilli(), endOfDay.UnixMilli()).Scan(
		&stats.FocusIntervals,
		&stats.BreakIntervals,
		&focusMs,
		&breakMs,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get daily stats: %w", err)
	}

	stats.FocusTime = time.Duration(focusMs) * time.Millisecond
	stats.BreakTime = time.Duration(breakMs) * time.Millisecond

	return stats, nil
}

// DeleteAll removes every entry.
func (r *historyRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM history`); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}

func (r *historyRepository) scanEntries(rows *sql.Rows) ([]*domain.HistoryEntry, error) {
	var entries []*domain.HistoryEntry
	for rows.Next() {
		var (
			entry                      domain.HistoryEntry
			mode                       string
			durationMs, completedMs    int64
			vibeID, branch, commitHash sql.NullString
		)
		if err := rows.Scan(
			&entry.ID,
			&mode,
			&entry.Session,
			&durationMs,
			&entry.Postponed,
			&vibeID,
			&branch,
			&commitHash,
			&completedMs,
		); err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		entry.Mode = domain.TimerMode(mode)
		entry.Duration = time.Duration(durationMs) * time.Millisecond
		entry.VibeID = vibeID.String
		entry.GitBranch = branch.String
		entry.GitCommit = commitHash.String
		entry.CompletedAt = time.UnixMilli(completedMs)
		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate history: %w", err)
	}
	return entries, nil
}

// nullable stores empty strings as NULL.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
