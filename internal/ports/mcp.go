package ports

import "context"

// MCPHandler is the stdio tool server that lets an assistant read and drive
// the timer. Start blocks until ctx ends or the client disconnects; Stop
// ends a running session early.
type MCPHandler interface {
	Start(ctx context.Context) error
	Stop() error
	IsRunning() bool
}
