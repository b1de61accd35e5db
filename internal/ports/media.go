package ports

import (
	"context"

	"github.com/xvierd/focus-cli/internal/domain"
)

// MediaPlayer plays the ambient soundtrack of a vibe.
// This is a driven port (implemented by adapters).
type MediaPlayer interface {
	// Cue loads the vibe's video without starting playback.
	Cue(ctx context.Context, vibe *domain.Vibe) error

	// SetVolume sets the volume, 0-100.
	SetVolume(volume int) error

	// Play resumes playback of the cued video.
	Play() error

	// Pause pauses playback.
	Pause() error

	// OnReady registers a callback run once the player can accept commands.
	OnReady(fn func())

	// Close stops the player and releases its resources.
	Close() error
}
