package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/xvierd/focus-cli/internal/domain"
	"github.com/xvierd/focus-cli/internal/ports"
)

// eventRepository implements ports.EventRepository using SQLite.
type eventRepository struct {
	db *sql.DB
}

// newEventRepository creates a new event repository.
func newEventRepository(db *sql.DB) ports.EventRepository {
	return &eventRepository{db: db}
}

// Save persists an event.
func (r *eventRepository) Save(ctx context.Context, event domain.Event) error {
	props, err := json.Marshal(event.Properties)
	if err != nil {
		return fmt.Errorf("failed to encode event properties: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO events (id, name, properties, occurred_at) VALUES (?, ?, ?, ?)`,
		event.ID, string(event.Name), string(props), event.OccurredAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to save event: %w", err)
	}
	return nil
}

// CountSince returns event counts by name.
func (r *eventRepository) CountSince(ctx context.Context, since time.Time) (map[domain.EventName]int, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT name, COUNT(*) FROM events WHERE occurred_at >= ? GROUP BY name`,
		since.UnixMilli(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to count events: %w", err)
	}
	defer func() { _ = rows.Close() }()

	counts := make(map[domain.EventName]int)
	for rows.Next() {
		var (
			name  string
			count int
		)
		if err := rows.Scan(&name, &count); err != nil {
			return nil, fmt.Errorf("failed to scan event count: %w", err)
		}
		counts[domain.EventName(name)] = count
	}
	return counts, rows.Err()
}
