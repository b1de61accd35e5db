// Package ports defines the interfaces (driven and driving ports)
// for the focus application following hexagonal architecture principles.
// These interfaces define the contracts between the domain layer and
// external infrastructure.
package ports

import (
	"context"
	"time"

	"github.com/xvierd/focus-cli/internal/domain"
)

// SlotStore is a small durable key-value store of text documents.
// This is a driven port (implemented by adapters).
type SlotStore interface {
	// Get returns the value stored under key. ok is false if the slot is empty.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Put overwrites the slot.
	Put(ctx context.Context, key, value string) error

	// Delete empties the slot. Deleting an empty slot is not an error.
	Delete(ctx context.Context, key string) error
}

// HistoryRepository defines the interface for finished interval persistence.
// This is a driven port (implemented by adapters).
type HistoryRepository interface {
	// Save persists a history entry.
	Save(ctx context.Context, entry *domain.HistoryEntry) error

	// FindRecent retrieves entries completed at or after since, oldest first.
	FindRecent(ctx context.Context, since time.Time) ([]*domain.HistoryEntry, error)

	// GetDailyStats returns aggregated statistics for the day containing date.
	GetDailyStats(ctx context.Context, date time.Time) (*domain.DailyStats, error)

	// DeleteAll removes every entry.
	DeleteAll(ctx context.Context) error
}

// EventRepository stores analytics events locally.
// This is a driven port (implemented by adapters).
type EventRepository interface {
	// Save persists an event.
	Save(ctx context.Context, event domain.Event) error

	// CountSince returns how many events of each name occurred at or after since.
	CountSince(ctx context.Context, since time.Time) (map[domain.EventName]int, error)
}

// Storage is the combined repository interface.
// This is a driven port (implemented by adapters).
type Storage interface {
	// Slots provides access to the key-value slots.
	Slots() SlotStore

	// History provides access to interval history.
	History() HistoryRepository

	// Events provides access to the local analytics log.
	Events() EventRepository

	// Close closes the storage connection.
	Close() error

	// Migrate runs database migrations.
	Migrate() error
}
