package domain

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrInvalidSettings = errors.New("invalid timer settings")
	ErrInvalidTheme    = errors.New("theme must be one of default, light, winter")
	ErrInvalidVolume   = errors.New("volume must be between 0 and 100")
)

const (
	DefaultFocusDuration = 25 // minutes
	DefaultBreakDuration = 5  // minutes
	DefaultTotalHours    = 1.0
	DefaultVolume        = 50
)

// Accepted ranges for the session plan.
const (
	MinFocusDuration = 5  // minutes
	MaxFocusDuration = 60 // minutes
	MinBreakDuration = 1  // minutes
	MaxBreakDuration = 30 // minutes
	MinTotalHours    = 0.5
	MaxTotalHours    = 4.0
)

// Theme selects the visual theme of the application.
type Theme string

const (
	ThemeDefault Theme = "default"
	ThemeLight   Theme = "light"
	ThemeWinter  Theme = "winter"
)

// Themes lists the supported themes in display order.
var Themes = []Theme{ThemeDefault, ThemeLight, ThemeWinter}

// ParseTheme validates a theme name.
func ParseTheme(s string) (Theme, error) {
	for _, t := range Themes {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidTheme, s)
}

// Next returns the theme that follows t when cycling.
func (t Theme) Next() Theme {
	for i, th := range Themes {
		if th == t {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return ThemeDefault
}

// TimerSettings holds the session plan parameters.
type TimerSettings struct {
	FocusDuration int     `json:"focusDuration"` // minutes
	BreakDuration int     `json:"breakDuration"` // minutes
	TotalHours    float64 `json:"totalHours"`
}

// DefaultTimerSettings returns the 25/5 plan over one hour.
func DefaultTimerSettings() TimerSettings {
	return TimerSettings{
		FocusDuration: DefaultFocusDuration,
		BreakDuration: DefaultBreakDuration,
		TotalHours:    DefaultTotalHours,
	}
}

// Validate reports whether the settings fall inside the accepted ranges.
// The reducer itself accepts anything; callers that take user input check here.
func (s TimerSettings) Validate() error {
	switch {
	case s.FocusDuration < MinFocusDuration || s.FocusDuration > MaxFocusDuration:
		return fmt.Errorf("%w: focus must be %d-%d minutes", ErrInvalidSettings, MinFocusDuration, MaxFocusDuration)
	case s.BreakDuration < MinBreakDuration || s.BreakDuration > MaxBreakDuration:
		return fmt.Errorf("%w: break must be %d-%d minutes", ErrInvalidSettings, MinBreakDuration, MaxBreakDuration)
	case math.IsNaN(s.TotalHours) || math.IsInf(s.TotalHours, 0) ||
		s.TotalHours < MinTotalHours || s.TotalHours > MaxTotalHours:
		return fmt.Errorf("%w: total hours must be %g-%g", ErrInvalidSettings, MinTotalHours, MaxTotalHours)
	}
	return nil
}

// DurationFor returns the full length of an interval of the given mode, in seconds.
func (s TimerSettings) DurationFor(mode TimerMode) int {
	if mode == ModeBreak {
		return s.BreakDuration * 60
	}
	return s.FocusDuration * 60
}

// TimerSettingsUpdate is a partial update. Nil fields are left untouched.
type TimerSettingsUpdate struct {
	FocusDuration *int     `json:"focusDuration,omitempty"`
	BreakDuration *int     `json:"breakDuration,omitempty"`
	TotalHours    *float64 `json:"totalHours,omitempty"`
}

// Apply merges u into s field by field.
func (s TimerSettings) Apply(u TimerSettingsUpdate) TimerSettings {
	if u.FocusDuration != nil {
		s.FocusDuration = *u.FocusDuration
	}
	if u.BreakDuration != nil {
		s.BreakDuration = *u.BreakDuration
	}
	if u.TotalHours != nil {
		s.TotalHours = *u.TotalHours
	}
	return s
}

// IsEmpty returns true if the update carries no fields.
func (u TimerSettingsUpdate) IsEmpty() bool {
	return u.FocusDuration == nil && u.BreakDuration == nil && u.TotalHours == nil
}

// AppSettings holds preferences that do not affect the session plan.
type AppSettings struct {
	LightMode            bool  `json:"lightMode"` // superseded by Theme, kept for the stored document
	NotificationsEnabled bool  `json:"notificationsEnabled"`
	Volume               int   `json:"volume"`
	Theme                Theme `json:"theme"`
}

// DefaultAppSettings returns dark theme, notifications on, half volume.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		LightMode:            false,
		NotificationsEnabled: true,
		Volume:               DefaultVolume,
		Theme:                ThemeDefault,
	}
}

// AppSettingsUpdate is a partial update. Nil fields are left untouched.
type AppSettingsUpdate struct {
	LightMode            *bool  `json:"lightMode,omitempty"`
	NotificationsEnabled *bool  `json:"notificationsEnabled,omitempty"`
	Volume               *int   `json:"volume,omitempty"`
	Theme                *Theme `json:"theme,omitempty"`
}

// Apply merges u into s field by field.
func (s AppSettings) Apply(u AppSettingsUpdate) AppSettings {
	if u.LightMode != nil {
		s.LightMode = *u.LightMode
	}
	if u.NotificationsEnabled != nil {
		s.NotificationsEnabled = *u.NotificationsEnabled
	}
	if u.Volume != nil {
		s.Volume = *u.Volume
	}
	if u.Theme != nil {
		s.Theme = *u.Theme
	}
	return s
}

// ValidateVolume checks the 0-100 range.
func ValidateVolume(v int) error {
	if v < 0 || v > 100 {
		return ErrInvalidVolume
	}
	return nil
}

// Ptr returns a pointer to v. Handy for building partial updates.
func Ptr[T any](v T) *T {
	return &v
}
