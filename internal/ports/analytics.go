package ports

import (
	"context"

	"github.com/xvierd/focus-cli/internal/domain"
)

// Analytics records named usage events.
// This is a driven port (implemented by adapters).
type Analytics interface {
	// Track records an event. Callers treat failures as non-fatal.
	Track(ctx context.Context, event domain.Event) error
}
