// Package media provides players for the ambient soundtrack of a vibe.
package media

import (
	"context"

	"github.com/xvierd/focus-cli/internal/domain"
	"github.com/xvierd/focus-cli/internal/ports"
)

// Nop is the player used when media.player is "none".
type Nop struct{}

var _ ports.MediaPlayer = Nop{}

func (Nop) Cue(context.Context, *domain.Vibe) error { return nil }
func (Nop) SetVolume(int) error                     { return nil }
func (Nop) Play() error                             { return nil }
func (Nop) Pause() error                            { return nil }
func (Nop) OnReady(fn func())                       { fn() }
func (Nop) Close() error                            { return nil }
