// Package analytics records usage events in the local database.
package analytics

import (
	"context"
	"fmt"

	"github.com/xvierd/focus-cli/internal/domain"
	"github.com/xvierd/focus-cli/internal/ports"
	"go.uber.org/zap"
)

// Recorder implements ports.Analytics on top of an EventRepository.
type Recorder struct {
	events ports.EventRepository
	logger *zap.Logger
}

// NewRecorder creates a recorder writing to events.
func NewRecorder(events ports.EventRepository, logger *zap.Logger) *Recorder {
	return &Recorder{events: events, logger: logger.Named("analytics")}
}

var _ ports.Analytics = (*Recorder)(nil)

// Track stores the event and mirrors it to the debug log.
func (r *Recorder) Track(ctx context.Context, event domain.Event) error {
	r.logger.Debug("event",
		zap.String("name", string(event.Name)),
		zap.Any("properties", event.Properties),
	)
	if err := r.events.Save(ctx, event); err != nil {
		return fmt.Errorf("failed to record %q: %w", event.Name, err)
	}
	return nil
}
