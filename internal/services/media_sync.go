package services

import (
	"context"
	"sync"

	"github.com/xvierd/focus-cli/internal/domain"
	"github.com/xvierd/focus-cli/internal/ports"
	"go.uber.org/zap"
)

// MediaSync keeps the media player in line with the state: the current vibe
// is cued, the volume follows the app settings and playback runs only while
// the clock is ticking.
type MediaSync struct {
	player ports.MediaPlayer
	logger *zap.Logger

	ready       chan struct{}
	unsubscribe func()
	done        chan struct{}
	once        sync.Once
}

// playerState is what has been sent to the player so far.
type playerState struct {
	vibe    *domain.Vibe
	volume  int
	playing bool
	primed  bool
}

// NewMediaSync creates a sync for player.
func NewMediaSync(player ports.MediaPlayer, logger *zap.Logger) *MediaSync {
	return &MediaSync{
		player: player,
		logger: logger.Named("media"),
		ready:  make(chan struct{}, 1),
	}
}

// Start follows ctrl until Close or ctx ends.
func (m *MediaSync) Start(ctx context.Context, ctrl ports.TimerController) {
	ch, unsubscribe := ctrl.Subscribe()
	m.unsubscribe = unsubscribe
	m.done = make(chan struct{})

	m.player.OnReady(func() {
		select {
		case m.ready <- struct{}{}:
		default:
		}
	})

	go func() {
		defer close(m.done)
		var applied playerState
		m.apply(ctx, &applied, ctrl.State())
		for {
			select {
			case <-ctx.Done():
				return
			case state, ok := <-ch:
				if !ok {
					return
				}
				m.apply(ctx, &applied, state)
			case <-m.ready:
				// A fresh player knows nothing yet; resend volume and play state.
				applied.primed = false
				m.apply(ctx, &applied, ctrl.State())
			}
		}
	}()
}

// Close stops following the state and waits for the loop to exit.
func (m *MediaSync) Close() {
	m.once.Do(func() {
		if m.unsubscribe == nil {
			return
		}
		m.unsubscribe()
		<-m.done
	})
}

func (m *MediaSync) apply(ctx context.Context, applied *playerState, state domain.AppState) {
	if !state.CurrentVibe.Equal(applied.vibe) {
		if err := m.player.Cue(ctx, state.CurrentVibe); err != nil {
			m.logger.Warn("failed to cue vibe", zap.Error(err))
		}
		applied.vibe = state.CurrentVibe.Clone()
		applied.primed = false
	}
	if applied.vibe == nil {
		return
	}

	volume := state.AppSettings.Volume
	playing := state.Timer.Ticking()

	if !applied.primed || applied.volume != volume {
		if err := m.player.SetVolume(volume); err != nil {
			m.logger.Warn("failed to set volume", zap.Error(err))
		}
		applied.volume = volume
	}
	if !applied.primed || applied.playing != playing {
		var err error
		if playing {
			err = m.player.Play()
		} else {
			err = m.player.Pause()
		}
		if err != nil {
			m.logger.Warn("failed to change playback", zap.Bool("playing", playing), zap.Error(err))
		}
		applied.playing = playing
	}
	applied.primed = true
}
