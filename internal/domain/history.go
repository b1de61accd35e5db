package domain

import (
	"errors"
	"time"
)

// ErrHistoryExists is returned when an entry with the same id was already saved.
var ErrHistoryExists = errors.New("history entry already exists")

// HistoryEntry records one interval that ran to completion.
type HistoryEntry struct {
	ID          string        `json:"id" yaml:"id"`
	Mode        TimerMode     `json:"mode" yaml:"mode"`
	Session     int           `json:"session" yaml:"session"`
	Duration    time.Duration `json:"duration" yaml:"duration"`
	Postponed   bool          `json:"postponed,omitempty" yaml:"postponed,omitempty"`
	VibeID      string        `json:"vibe_id,omitempty" yaml:"vibe_id,omitempty"`
	GitBranch   string        `json:"git_branch,omitempty" yaml:"git_branch,omitempty"`
	GitCommit   string        `json:"git_commit,omitempty" yaml:"git_commit,omitempty"`
	CompletedAt time.Time     `json:"completed_at" yaml:"completed_at"`
}

// NewHistoryEntry builds an entry for a finished interval.
func NewHistoryEntry(e Effect, vibe *Vibe, at time.Time) *HistoryEntry {
	entry := &HistoryEntry{
		ID:          generateID(),
		Mode:        e.Mode,
		Session:     e.Session,
		Duration:    time.Duration(e.Seconds) * time.Second,
		Postponed:   e.Postponed,
		CompletedAt: at,
	}
	if vibe != nil {
		entry.VibeID = vibe.ID
	}
	return entry
}

// SetGitContext attaches repository context to the entry.
func (h *HistoryEntry) SetGitContext(branch, commit string) {
	h.GitBranch = branch
	h.GitCommit = commit
}

// IsFocus reports whether the entry is a focus interval.
func (h *HistoryEntry) IsFocus() bool {
	return h.Mode == ModeFocus
}

// DailyStats aggregates history for one day.
type DailyStats struct {
	Date           time.Time     `json:"date"`
	FocusIntervals int           `json:"focus_intervals"`
	BreakIntervals int           `json:"break_intervals"`
	FocusTime      time.Duration `json:"focus_time"`
	BreakTime      time.Duration `json:"break_time"`
}

// Add folds an entry into the totals.
func (d *DailyStats) Add(h *HistoryEntry) {
	if h.IsFocus() {
		d.FocusIntervals++
		d.FocusTime += h.Duration
		return
	}
	d.BreakIntervals++
	d.BreakTime += h.Duration
}

// StartOfDay truncates t to local midnight.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
