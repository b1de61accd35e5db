package domain

import "errors"

var ErrInvalidMode = errors.New("mode must be focus or break")

// postponedBreakSeconds is what remains of a break after it is postponed.
const postponedBreakSeconds = 60

// ActionType names a state transition.
type ActionType string

const (
	ActionStart             ActionType = "START_TIMER"
	ActionPause             ActionType = "PAUSE_TIMER"
	ActionReset             ActionType = "RESET_TIMER"
	ActionTick              ActionType = "TICK"
	ActionSwitchMode        ActionType = "SWITCH_MODE"
	ActionUpdateSettings    ActionType = "UPDATE_SETTINGS"
	ActionUpdateAppSettings ActionType = "UPDATE_APP_SETTINGS"
	ActionSetVibe           ActionType = "SET_VIBE"
	ActionPostponeBreak     ActionType = "POSTPONE_BREAK"
	ActionUserReturned      ActionType = "USER_RETURNED"
	ActionSetTheme          ActionType = "SET_THEME"
	ActionStop              ActionType = "STOP_TIMER"
)

// Action is a request to change the state. Only the fields relevant to Type are read.
type Action struct {
	Type        ActionType
	Mode        TimerMode
	Settings    TimerSettingsUpdate
	AppSettings AppSettingsUpdate
	Vibe        *Vibe
	Theme       Theme
}

func StartTimer() Action    { return Action{Type: ActionStart} }
func PauseTimer() Action    { return Action{Type: ActionPause} }
func ResetTimer() Action    { return Action{Type: ActionReset} }
func Tick() Action          { return Action{Type: ActionTick} }
func PostponeBreak() Action { return Action{Type: ActionPostponeBreak} }
func UserReturned() Action  { return Action{Type: ActionUserReturned} }
func StopTimer() Action     { return Action{Type: ActionStop} }

func SwitchMode(m TimerMode) Action { return Action{Type: ActionSwitchMode, Mode: m} }
func SetTheme(t Theme) Action       { return Action{Type: ActionSetTheme, Theme: t} }

func UpdateSettings(u TimerSettingsUpdate) Action {
	return Action{Type: ActionUpdateSettings, Settings: u}
}

func UpdateAppSettings(u AppSettingsUpdate) Action {
	return Action{Type: ActionUpdateAppSettings, AppSettings: u}
}

// SetVibe replaces the current vibe. A nil vibe clears it.
func SetVibe(v *Vibe) Action {
	return Action{Type: ActionSetVibe, Vibe: v.Clone()}
}

// EffectKind names a side effect requested by a transition.
type EffectKind string

const (
	// EffectChime asks for the completion sound. Emitted when a focus interval ends.
	EffectChime EffectKind = "chime"
	// EffectIntervalFinished reports an interval that ran to zero.
	EffectIntervalFinished EffectKind = "interval_finished"
	// EffectPlanCompleted reports that the last session is over.
	EffectPlanCompleted EffectKind = "plan_completed"
)

// Effect is a side effect for the caller to run. The reducer never performs I/O.
type Effect struct {
	Kind      EffectKind
	Mode      TimerMode // mode of the interval that finished
	Session   int
	Seconds   int     // configured length of the finished interval
	Progress  float64 // progress at the moment the interval ended
	Postponed bool
}

// Transition is the result of applying an action.
type Transition struct {
	State   AppState
	Effects []Effect
}

// Changed reports whether the transition produced a different state than prev.
func (tr Transition) Changed(prev AppState) bool {
	return !tr.State.Equal(prev)
}

// Reduce applies a to s. It is a pure function.
func Reduce(s AppState, a Action) Transition {
	switch a.Type {
	case ActionStart:
		if s.Timer.IsRunning || s.Timer.WaitingForUserAfterBreak || s.Timer.Completed {
			break
		}
		s.Timer.IsRunning = true

	case ActionPause:
		if s.Timer.Phase() != PhaseRunning {
			break
		}
		s.Timer.IsRunning = false

	case ActionReset:
		s.Timer.TimeRemaining = s.Settings.DurationFor(s.Timer.Mode)
		s.Timer.IsRunning = false
		s.Timer.SessionProgress = 0
		s.Timer.IsPostponed = false
		s.Timer.WaitingForUserAfterBreak = false
		s.Timer.Completed = false

	case ActionTick:
		return tick(s)

	case ActionSwitchMode:
		if a.Mode != ModeFocus && a.Mode != ModeBreak {
			break
		}
		s.Timer.Mode = a.Mode
		s.Timer.TimeRemaining = s.Settings.DurationFor(a.Mode)
		s.Timer.SessionProgress = 0
		s.Timer.IsRunning = true
		s.Timer.IsPostponed = false
		s.Timer.WaitingForUserAfterBreak = false
		s.Timer.Completed = false

	case ActionUpdateSettings:
		s.Settings = s.Settings.Apply(a.Settings)
		s.Timer.TotalSessions = TotalSessions(s.Settings.TotalHours, s.Settings.FocusDuration, s.Settings.BreakDuration)
		if s.Timer.Completed {
			// A longer plan reopens at the interval that would have followed, paused.
			next, session := s.Timer.Mode.Other(), s.Timer.CurrentSession
			if next == ModeFocus {
				session++
			}
			if session <= s.Timer.TotalSessions {
				s.Timer.Completed = false
				s.Timer.Mode = next
				s.Timer.CurrentSession = session
			}
		}
		if s.Timer.Completed {
			break
		}
		s.Timer.TimeRemaining = s.Settings.DurationFor(s.Timer.Mode)
		s.Timer.SessionProgress = 0

	case ActionUpdateAppSettings:
		s.AppSettings = s.AppSettings.Apply(a.AppSettings)

	case ActionSetTheme:
		s.AppSettings.Theme = a.Theme

	case ActionSetVibe:
		s.CurrentVibe = a.Vibe.Clone()

	case ActionPostponeBreak:
		if s.Timer.Mode != ModeBreak || s.Timer.Completed {
			break
		}
		total := s.Settings.DurationFor(ModeBreak)
		s.Timer.IsPostponed = true
		s.Timer.TimeRemaining = postponedBreakSeconds
		s.Timer.SessionProgress = progress(total, postponedBreakSeconds)

	case ActionUserReturned:
		if !s.Timer.WaitingForUserAfterBreak {
			break
		}
		s.Timer.WaitingForUserAfterBreak = false
		s.Timer.IsRunning = true

	case ActionStop:
		s.Timer = NewTimerState(s.Settings)
	}

	return Transition{State: s}
}

func tick(s AppState) Transition {
	t := s.Timer
	if !t.Ticking() {
		return Transition{State: s}
	}

	total := s.Settings.DurationFor(t.Mode)
	remaining := t.TimeRemaining - 1
	if remaining > 0 {
		t.TimeRemaining = remaining
		t.SessionProgress = progress(total, remaining)
		s.Timer = t
		return Transition{State: s}
	}

	effects := []Effect{{
		Kind:      EffectIntervalFinished,
		Mode:      t.Mode,
		Session:   t.CurrentSession,
		Seconds:   total,
		Progress:  100,
		Postponed: t.IsPostponed,
	}}
	if t.Mode == ModeFocus {
		effects = append(effects, Effect{Kind: EffectChime, Mode: t.Mode, Session: t.CurrentSession})
	}

	next := t.Mode.Other()
	session := t.CurrentSession
	if next == ModeFocus {
		session++
	}

	if session > t.TotalSessions {
		t.IsRunning = false
		t.TimeRemaining = 0
		t.SessionProgress = 100
		t.Completed = true
		s.Timer = t
		effects = append(effects, Effect{Kind: EffectPlanCompleted, Mode: t.Mode, Session: t.CurrentSession})
		return Transition{State: s, Effects: effects}
	}

	t.Mode = next
	t.TimeRemaining = s.Settings.DurationFor(next)
	t.CurrentSession = session
	t.SessionProgress = 0
	t.IsPostponed = false
	t.WaitingForUserAfterBreak = next == ModeFocus
	s.Timer = t
	return Transition{State: s, Effects: effects}
}

// progress returns the elapsed share of an interval as a percentage.
func progress(total, remaining int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(total-remaining) / float64(total) * 100
}
