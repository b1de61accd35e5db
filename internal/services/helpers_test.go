package services

import (
	"context"
	"sync"
	"testing"

	"github.com/xvierd/focus-cli/internal/adapters/storage"
	"github.com/xvierd/focus-cli/internal/domain"
	"github.com/xvierd/focus-cli/internal/ports"
)

func setupTestStorage(t *testing.T) (ports.Storage, func()) {
	store, err := storage.NewMemory()
	if err != nil {
		t.Fatalf("Failed to create test storage: %v", err)
	}
	return store, func() { store.Close() }
}

// twoSessions is a plan of two one-minute focus sessions.
var twoSessions = domain.TimerSettings{FocusDuration: 1, BreakDuration: 1, TotalHours: 0.075}

type fakeNotifier struct {
	mu      sync.Mutex
	chimes  int
	notices []string
	err     error
}

func (f *fakeNotifier) Chime() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.chimes++
	return f.err
}

func (f *fakeNotifier) Notify(title, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notices = append(f.notices, title)
	return f.err
}

func (f *fakeNotifier) counts() (int, []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.chimes, append([]string(nil), f.notices...)
}

type fakeAnalytics struct {
	mu     sync.Mutex
	events []domain.EventName
	err    error
}

func (f *fakeAnalytics) Track(_ context.Context, e domain.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, e.Name)
	return f.err
}

func (f *fakeAnalytics) count(name domain.EventName) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, e := range f.events {
		if e == name {
			n++
		}
	}
	return n
}

type fakeGit struct{}

func (fakeGit) Detect(context.Context, string) (*ports.GitInfo, error) {
	return &ports.GitInfo{Branch: "main", Commit: "abc1234"}, nil
}
