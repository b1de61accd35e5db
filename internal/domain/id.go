package domain

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

// customVibePrefix marks vibes built from a pasted link.
const customVibePrefix = "custom-"

// generateID returns a random id for history entries and events.
func generateID() string {
	return uuid.New().String()
}

// customVibeID stamps a custom vibe with its creation time in milliseconds.
func customVibeID(now time.Time) string {
	return customVibePrefix + strconv.FormatInt(now.UnixMilli(), 10)
}

