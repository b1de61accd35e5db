package domain

import (
	"encoding/json"
	"fmt"
)

// SnapshotSlot is the storage slot holding the persisted document.
const SnapshotSlot = "timerState"

// Snapshot is the persisted subset of AppState.
type Snapshot struct {
	Settings    TimerSettings `json:"settings"`
	AppSettings AppSettings   `json:"appSettings"`
	CurrentVibe *Vibe         `json:"currentVibe"`
}

// Equal compares two snapshots by value.
func (s Snapshot) Equal(o Snapshot) bool {
	return s.Settings == o.Settings && s.AppSettings == o.AppSettings && s.CurrentVibe.Equal(o.CurrentVibe)
}

// StoredSnapshot is a decoded document. Groups and fields missing from the
// stored text stay nil so they are skipped when applied.
type StoredSnapshot struct {
	Settings    *TimerSettingsUpdate `json:"settings"`
	AppSettings *AppSettingsUpdate   `json:"appSettings"`
	CurrentVibe *Vibe                `json:"currentVibe"`
}

// EncodeSnapshot renders the persisted document.
func EncodeSnapshot(s Snapshot) (string, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return string(data), nil
}

// DecodeSnapshot parses a persisted document.
func DecodeSnapshot(text string) (*StoredSnapshot, error) {
	var stored StoredSnapshot
	if err := json.Unmarshal([]byte(text), &stored); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return &stored, nil
}

// Actions returns the actions that replay a stored document onto a fresh state.
func (s *StoredSnapshot) Actions() []Action {
	var actions []Action
	if s.Settings != nil {
		actions = append(actions, UpdateSettings(*s.Settings))
	}
	if s.AppSettings != nil {
		actions = append(actions, UpdateAppSettings(*s.AppSettings))
	}
	if s.CurrentVibe != nil {
		actions = append(actions, SetVibe(s.CurrentVibe))
	}
	return actions
}
