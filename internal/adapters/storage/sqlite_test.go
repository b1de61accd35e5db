package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/xvierd/focus-cli/internal/domain"
	"github.com/xvierd/focus-cli/internal/ports"
)

func newTestStorage(t *testing.T) ports.Storage {
	t.Helper()
	storage, err := NewMemory()
	if err != nil {
		t.Fatalf("NewMemory() error = %v", err)
	}
	t.Cleanup(func() { _ = storage.Close() })
	return storage
}

func TestNewMemory(t *testing.T) {
	storage := newTestStorage(t)
	if storage == nil {
		t.Error("NewMemory() returned nil storage")
	}
	if err := storage.Migrate(); err != nil {
		t.Errorf("Migrate() should be idempotent, got %v", err)
	}
}

func TestSlotRepository(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()
	slots := storage.Slots()

	t.Run("empty slot", func(t *testing.T) {
		_, ok, err := slots.Get(ctx, domain.SnapshotSlot)
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if ok {
			t.Error("Get() on empty slot should report ok=false")
		}
	})

	t.Run("last write wins", func(t *testing.T) {
		if err := slots.Put(ctx, domain.SnapshotSlot, `{"a":1}`); err != nil {
			t.Fatalf("Put() error = %v", err)
		}
		if err := slots.Put(ctx, domain.SnapshotSlot, `{"a":2}`); err != nil {
			t.Fatalf("Put() error = %v", err)
		}

		got, ok, err := slots.Get(ctx, domain.SnapshotSlot)
		if err != nil || !ok {
			t.Fatalf("Get() = %q, %v, %v", got, ok, err)
		}
		if got != `{"a":2}` {
			t.Errorf("Get() = %q, want second write", got)
		}
	})

	t.Run("delete", func(t *testing.T) {
		if err := slots.Delete(ctx, domain.SnapshotSlot); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		if _, ok, _ := slots.Get(ctx, domain.SnapshotSlot); ok {
			t.Error("slot should be empty after Delete()")
		}
		if err := slots.Delete(ctx, "missing"); err != nil {
			t.Errorf("Delete() of a missing slot error = %v", err)
		}
	})
}

func finished(mode domain.TimerMode, session, seconds int) domain.Effect {
	return domain.Effect{Kind: domain.EffectIntervalFinished, Mode: mode, Session: session, Seconds: seconds, Progress: 100}
}

func TestHistoryRepository_SaveAndFind(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()
	repo := storage.History()

	now := time.Now()
	lofi, _ := domain.FindPreset("lofi")

	focus := domain.NewHistoryEntry(finished(domain.ModeFocus, 1, 1500), lofi, now.Add(-30*time.Minute))
	focus.SetGitContext("main", "abc123")
	brk := domain.NewHistoryEntry(finished(domain.ModeBreak, 1, 300), nil, now.Add(-25*time.Minute))
	old := domain.NewHistoryEntry(finished(domain.ModeFocus, 1, 1500), nil, now.AddDate(0, 0, -10))

	for _, e := range []*domain.HistoryEntry{focus, brk, old} {
		if err := repo.Save(ctx, e); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}

	t.Run("duplicate id", func(t *testing.T) {
		err := repo.Save(ctx, focus)
		if !errors.Is(err, domain.ErrHistoryExists) {
			t.Errorf("Save() duplicate error = %v, want ErrHistoryExists", err)
		}
	})

	t.Run("find recent", func(t *testing.T) {
		entries, err := repo.FindRecent(ctx, now.Add(-time.Hour))
		if err != nil {
			t.Fatalf("FindRecent() error = %v", err)
		}
		if len(entries) != 2 {
			t.Fatalf("FindRecent() returned %d entries, want 2", len(entries))
		}
		got := entries[0]
		if got.ID != focus.ID || got.Mode != domain.ModeFocus {
			t.Errorf("first entry = %+v, want the focus entry", got)
		}
		if got.Duration != 25*time.Minute {
			t.Errorf("Duration = %v, want 25m", got.Duration)
		}
		if got.VibeID != "lofi" || got.GitBranch != "main" || got.GitCommit != "abc123" {
			t.Errorf("metadata not round-tripped: %+v", got)
		}
		if got.CompletedAt.UnixMilli() != focus.CompletedAt.UnixMilli() {
			t.Errorf("CompletedAt = %v, want %v", got.CompletedAt, focus.CompletedAt)
		}
		if entries[1].VibeID != "" {
			t.Errorf("break entry VibeID = %q, want empty", entries[1].VibeID)
		}
	})

	t.Run("find all", func(t *testing.T) {
		entries, err := repo.FindRecent(ctx, time.Time{})
		if err != nil {
			t.Fatalf("FindRecent() error = %v", err)
		}
		if len(entries) != 3 {
			t.Errorf("FindRecent(zero) returned %d entries, want 3", len(entries))
		}
	})

	t.Run("delete all", func(t *testing.T) {
		if err := repo.DeleteAll(ctx); err != nil {
			t.Fatalf("DeleteAll() error = %v", err)
		}
		entries, _ := repo.FindRecent(ctx, time.Time{})
		if len(entries) != 0 {
			t.Errorf("FindRecent() after DeleteAll returned %d entries", len(entries))
		}
	})
}

func TestHistoryRepository_GetDailyStats(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()
	repo := storage.History()

	today := domain.StartOfDay(time.Now()).Add(12 * time.Hour)
	entries := []*domain.HistoryEntry{
		domain.NewHistoryEntry(finished(domain.ModeFocus, 1, 1500), nil, today),
		domain.NewHistoryEntry(finished(domain.ModeBreak, 1, 300), nil, today.Add(time.Minute)),
		domain.NewHistoryEntry(finished(domain.ModeFocus, 2, 1500), nil, today.Add(2*time.Minute)),
		domain.NewHistoryEntry(finished(domain.ModeFocus, 1, 1500), nil, today.AddDate(0, 0, -1)),
	}
	for _, e := range entries {
		if err := repo.Save(ctx, e); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}

	stats, err := repo.GetDailyStats(ctx, today)
	if err != nil {
		t.Fatalf("GetDailyStats() error = %v", err)
	}
	if stats.FocusIntervals != 2 {
		t.Errorf("FocusIntervals = %d, want 2", stats.FocusIntervals)
	}
	if stats.BreakIntervals != 1 {
		t.Errorf("BreakIntervals = %d, want 1", stats.BreakIntervals)
	}
	if stats.FocusTime != 50*time.Minute {
		t.Errorf("FocusTime = %v, want 50m", stats.FocusTime)
	}
	if stats.BreakTime != 5*time.Minute {
		t.Errorf("BreakTime = %v, want 5m", stats.BreakTime)
	}

	empty, err := repo.GetDailyStats(ctx, today.AddDate(0, 0, 5))
	if err != nil {
		t.Fatalf("GetDailyStats() error = %v", err)
	}
	if empty.FocusIntervals != 0 || empty.FocusTime != 0 {
		t.Errorf("empty day stats = %+v", empty)
	}
}

func TestEventRepository(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()
	repo := storage.Events()

	events := []domain.Event{
		domain.NewEvent(domain.EventTimerStarted, map[string]any{"mode": "focus", "duration": 1500}),
		domain.NewEvent(domain.EventTimerStarted, nil),
		domain.NewEvent(domain.EventVibeSelected, map[string]any{"vibe": nil}),
	}
	for _, e := range events {
		if err := repo.Save(ctx, e); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}

	counts, err := repo.CountSince(ctx, time.Now().Add(-time.Minute))
	if err != nil {
		t.Fatalf("CountSince() error = %v", err)
	}
	if counts[domain.EventTimerStarted] != 2 {
		t.Errorf("Timer Started count = %d, want 2", counts[domain.EventTimerStarted])
	}
	if counts[domain.EventVibeSelected] != 1 {
		t.Errorf("Vibe Selected count = %d, want 1", counts[domain.EventVibeSelected])
	}

	future, err := repo.CountSince(ctx, time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("CountSince() error = %v", err)
	}
	if len(future) != 0 {
		t.Errorf("CountSince(future) = %v, want empty", future)
	}
}
