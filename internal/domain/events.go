package domain

import "time"

// EventName is an analytics event name.
type EventName string

const (
	EventTimerStarted     EventName = "Timer Started"
	EventTimerPaused      EventName = "Timer Paused"
	EventTimerReset       EventName = "Timer Reset"
	EventTimerStopped     EventName = "Timer Stopped"
	EventTimerCompleted   EventName = "Timer Completed"
	EventSessionCompleted EventName = "Session Completed"
	EventSettingsChanged  EventName = "Settings Changed"
	EventThemeChanged     EventName = "Theme Changed"
	EventVibeSelected     EventName = "Vibe Selected"
	EventModeSwitched     EventName = "Mode Switched"
	EventBreakPostponed   EventName = "Break Postponed"
	EventUserReturned     EventName = "User Returned"
	EventAppOpened        EventName = "App Opened"
)

// Event is a fire-and-forget analytics record.
type Event struct {
	ID         string
	Name       EventName
	Properties map[string]any
	OccurredAt time.Time
}

// NewEvent stamps an event with an id and the current time.
func NewEvent(name EventName, props map[string]any) Event {
	if props == nil {
		props = map[string]any{}
	}
	return Event{
		ID:         generateID(),
		Name:       name,
		Properties: props,
		OccurredAt: time.Now(),
	}
}

// EventsFor maps a transition to the analytics it should produce.
// prev is the state before the action was applied.
func EventsFor(prev AppState, a Action, tr Transition) []Event {
	next := tr.State
	var events []Event

	switch a.Type {
	case ActionStart:
		if next.Timer.IsRunning && !prev.Timer.IsRunning {
			events = append(events, NewEvent(EventTimerStarted, map[string]any{
				"mode":     string(next.Timer.Mode),
				"duration": next.Settings.DurationFor(next.Timer.Mode),
			}))
		}
	case ActionPause:
		if prev.Timer.IsRunning && !next.Timer.IsRunning {
			events = append(events, NewEvent(EventTimerPaused, map[string]any{
				"mode":          string(next.Timer.Mode),
				"timeRemaining": next.Timer.TimeRemaining,
			}))
		}
	case ActionReset:
		events = append(events, NewEvent(EventTimerReset, map[string]any{"mode": string(next.Timer.Mode)}))
	case ActionStop:
		events = append(events, NewEvent(EventTimerStopped, map[string]any{"session": prev.Timer.CurrentSession}))
	case ActionSwitchMode:
		events = append(events, NewEvent(EventModeSwitched, map[string]any{"mode": string(next.Timer.Mode)}))
	case ActionUpdateSettings:
		events = append(events, NewEvent(EventSettingsChanged, settingsProps(a.Settings)))
	case ActionUpdateAppSettings:
		props := appSettingsProps(a.AppSettings)
		events = append(events, NewEvent(EventSettingsChanged, props))
		if a.AppSettings.Theme != nil && *a.AppSettings.Theme != prev.AppSettings.Theme {
			events = append(events, NewEvent(EventThemeChanged, map[string]any{"theme": string(*a.AppSettings.Theme)}))
		}
	case ActionSetTheme:
		events = append(events, NewEvent(EventThemeChanged, map[string]any{"theme": string(a.Theme)}))
	case ActionSetVibe:
		var vibe any
		if next.CurrentVibe != nil {
			vibe = next.CurrentVibe.Name
		}
		events = append(events, NewEvent(EventVibeSelected, map[string]any{"vibe": vibe}))
	case ActionPostponeBreak:
		if next.Timer.IsPostponed && !prev.Timer.IsPostponed {
			events = append(events, NewEvent(EventBreakPostponed, nil))
		}
	case ActionUserReturned:
		if prev.Timer.WaitingForUserAfterBreak {
			events = append(events, NewEvent(EventUserReturned, map[string]any{"session": next.Timer.CurrentSession}))
		}
	}

	for _, e := range tr.Effects {
		switch e.Kind {
		case EffectIntervalFinished:
			events = append(events, NewEvent(EventSessionCompleted, map[string]any{"mode": string(e.Mode)}))
		case EffectPlanCompleted:
			events = append(events, NewEvent(EventTimerCompleted, map[string]any{"sessions": next.Timer.TotalSessions}))
		}
	}
	return events
}

func settingsProps(u TimerSettingsUpdate) map[string]any {
	props := map[string]any{}
	if u.FocusDuration != nil {
		props["focusDuration"] = *u.FocusDuration
	}
	if u.BreakDuration != nil {
		props["breakDuration"] = *u.BreakDuration
	}
	if u.TotalHours != nil {
		props["totalHours"] = *u.TotalHours
	}
	return props
}

func appSettingsProps(u AppSettingsUpdate) map[string]any {
	props := map[string]any{}
	if u.LightMode != nil {
		props["lightMode"] = *u.LightMode
	}
	if u.NotificationsEnabled != nil {
		props["notificationsEnabled"] = *u.NotificationsEnabled
	}
	if u.Volume != nil {
		props["volume"] = *u.Volume
	}
	if u.Theme != nil {
		props["theme"] = string(*u.Theme)
	}
	return props
}
