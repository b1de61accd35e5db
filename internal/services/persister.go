package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/xvierd/focus-cli/internal/domain"
	"github.com/xvierd/focus-cli/internal/ports"
	"go.uber.org/zap"
)

// Persister mirrors the settings, app settings and vibe into the
// timerState slot and restores them at startup.
type Persister struct {
	slots  ports.SlotStore
	logger *zap.Logger

	mu          sync.Mutex
	ctrl        ports.TimerController
	unsubscribe func()
	done        chan struct{}
	last        domain.Snapshot
}

// NewPersister creates a persister writing to slots.
func NewPersister(slots ports.SlotStore, logger *zap.Logger) *Persister {
	return &Persister{slots: slots, logger: logger.Named("persist")}
}

// Rehydrate returns defaults with the stored document merged over it.
// A missing or unreadable document leaves defaults untouched.
func (p *Persister) Rehydrate(ctx context.Context, defaults domain.AppState) domain.AppState {
	text, ok, err := p.slots.Get(ctx, domain.SnapshotSlot)
	if err != nil {
		p.logger.Debug("failed to read stored state", zap.Error(err))
		return defaults
	}
	if !ok {
		return defaults
	}

	stored, err := domain.DecodeSnapshot(text)
	if err != nil {
		p.logger.Debug("ignoring malformed stored state", zap.Error(err))
		return defaults
	}

	if stored.Settings != nil {
		if err := defaults.Settings.Apply(*stored.Settings).Validate(); err != nil {
			p.logger.Debug("ignoring stored timer settings", zap.Error(err))
			stored.Settings = nil
		}
	}

	state := defaults
	for _, action := range stored.Actions() {
		state = domain.Reduce(state, action).State
	}
	return state
}

// Start writes the current snapshot and keeps writing whenever it changes.
func (p *Persister) Start(ctx context.Context, ctrl ports.TimerController) {
	ch, unsubscribe := ctrl.Subscribe()

	p.mu.Lock()
	p.ctrl = ctrl
	p.unsubscribe = unsubscribe
	p.done = make(chan struct{})
	p.mu.Unlock()

	initial := ctrl.State().Snapshot()
	p.save(ctx, initial)

	go func() {
		defer close(p.done)
		for state := range ch {
			if ctx.Err() != nil {
				return
			}
			p.saveIfChanged(ctx, state.Snapshot())
		}
	}()
}

// Close stops the writer and flushes the latest snapshot.
func (p *Persister) Close() error {
	p.mu.Lock()
	ctrl, unsubscribe, done := p.ctrl, p.unsubscribe, p.done
	p.ctrl, p.unsubscribe = nil, nil
	p.mu.Unlock()

	if ctrl == nil {
		return nil
	}
	unsubscribe()
	<-done

	snap := ctrl.State().Snapshot()
	if p.lastEqual(snap) {
		return nil
	}
	return p.write(context.Background(), snap)
}

func (p *Persister) saveIfChanged(ctx context.Context, snap domain.Snapshot) {
	if p.lastEqual(snap) {
		return
	}
	p.save(ctx, snap)
}

func (p *Persister) save(ctx context.Context, snap domain.Snapshot) {
	if err := p.write(ctx, snap); err != nil {
		p.logger.Warn("failed to persist state", zap.Error(err))
	}
}

func (p *Persister) write(ctx context.Context, snap domain.Snapshot) error {
	text, err := domain.EncodeSnapshot(snap)
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}
	if err := p.slots.Put(ctx, domain.SnapshotSlot, text); err != nil {
		return fmt.Errorf("failed to write state: %w", err)
	}
	p.mu.Lock()
	p.last = snap
	p.mu.Unlock()
	return nil
}

func (p *Persister) lastEqual(snap domain.Snapshot) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last.Equal(snap)
}
