package services

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/xvierd/focus-cli/internal/domain"
)

// Flake is one particle of the winter overlay.
type Flake struct {
	ID       int
	X        float64 // horizontal position, 0-100 percent
	Size     float64 // 2-6
	Opacity  float64 // 0.5-0.8
	Duration time.Duration
	Born     time.Time
}

// Fall returns how far the flake has fallen at now, 0-1. Flakes loop.
func (f Flake) Fall(now time.Time) float64 {
	if f.Duration <= 0 {
		return 0
	}
	elapsed := now.Sub(f.Born) % f.Duration
	if elapsed < 0 {
		elapsed = 0
	}
	return float64(elapsed) / float64(f.Duration)
}

// SnowConfig sizes the overlay.
type SnowConfig struct {
	Initial  int
	Batch    int
	Max      int
	Interval time.Duration
}

// DefaultSnowConfig is 300 flakes, 5 more every 100ms, at most 500.
func DefaultSnowConfig() SnowConfig {
	return SnowConfig{Initial: 300, Batch: 5, Max: 500, Interval: 100 * time.Millisecond}
}

// Snowfall generates flakes while the winter theme is active.
type Snowfall struct {
	cfg SnowConfig
	now func() time.Time

	mu     sync.Mutex
	rng    *rand.Rand
	flakes []Flake
	nextID int
	cancel context.CancelFunc
	done   chan struct{}
}

// NewSnowfall creates an idle overlay.
func NewSnowfall(cfg SnowConfig) *Snowfall {
	return &Snowfall{
		cfg: cfg,
		now: time.Now,
		rng: rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x5eed)),
	}
}

// Sync starts the overlay for the winter theme and stops it otherwise.
func (s *Snowfall) Sync(ctx context.Context, state domain.AppState) {
	if state.AppSettings.Theme == domain.ThemeWinter {
		s.Start(ctx)
		return
	}
	s.Stop()
}

// Start seeds the initial flakes and begins adding batches. Starting a
// running overlay does nothing.
func (s *Snowfall) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}

	s.flakes = s.flakes[:0]
	s.addLocked(s.cfg.Initial)

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})
	go s.run(ctx, s.done)
}

// Stop halts the overlay, clears the flakes and waits for the generator.
func (s *Snowfall) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.flakes = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}

// Running reports whether the overlay is active.
func (s *Snowfall) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel != nil
}

// Flakes returns a copy of the live flakes, oldest first.
func (s *Snowfall) Flakes() []Flake {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Flake(nil), s.flakes...)
}

func (s *Snowfall) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.mu.Lock()
			if s.cancel != nil {
				s.addLocked(s.cfg.Batch)
			}
			s.mu.Unlock()
		}
	}
}

// addLocked appends n flakes and evicts the oldest batch past the cap.
func (s *Snowfall) addLocked(n int) {
	now := s.now()
	for i := 0; i < n; i++ {
		s.nextID++
		s.flakes = append(s.flakes, Flake{
			ID:       s.nextID,
			X:        s.rng.Float64() * 100,
			Size:     2 + s.rng.Float64()*4,
			Opacity:  0.5 + s.rng.Float64()*0.3,
			Duration: time.Duration((10 + s.rng.Float64()*15) * float64(time.Second)),
			Born:     now,
		})
	}
	if len(s.flakes) > s.cfg.Max {
		evict := s.cfg.Batch
		if evict > len(s.flakes) {
			evict = len(s.flakes)
		}
		s.flakes = append(s.flakes[:0:0], s.flakes[evict:]...)
	}
}
