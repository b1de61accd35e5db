package domain

// TimerMode is the kind of interval currently on the clock.
type TimerMode string

const (
	ModeFocus TimerMode = "focus"
	ModeBreak TimerMode = "break"
)

// ParseMode validates a mode name.
func ParseMode(s string) (TimerMode, error) {
	switch TimerMode(s) {
	case ModeFocus, ModeBreak:
		return TimerMode(s), nil
	}
	return "", ErrInvalidMode
}

// Other returns the mode the timer flips to when an interval ends.
func (m TimerMode) Other() TimerMode {
	if m == ModeFocus {
		return ModeBreak
	}
	return ModeFocus
}

// Label returns a display name for the mode.
func (m TimerMode) Label() string {
	if m == ModeBreak {
		return "Break"
	}
	return "Focus"
}

// Phase is the externally visible condition of the timer. Exactly one holds.
type Phase string

const (
	PhasePaused    Phase = "paused"
	PhaseRunning   Phase = "running"
	PhaseWaiting   Phase = "waiting"
	PhaseCompleted Phase = "completed"
)

// TimerState is the live state of the countdown.
type TimerState struct {
	Mode                     TimerMode `json:"mode"`
	TimeRemaining            int       `json:"timeRemaining"` // seconds
	IsRunning                bool      `json:"isRunning"`
	CurrentSession           int       `json:"currentSession"`
	TotalSessions            int       `json:"totalSessions"`
	SessionProgress          float64   `json:"sessionProgress"` // 0-100
	IsPostponed              bool      `json:"isPostponed"`
	WaitingForUserAfterBreak bool      `json:"waitingForUserAfterBreak"`
	Completed                bool      `json:"completed"`
}

// NewTimerState returns a paused timer at the start of the plan.
func NewTimerState(s TimerSettings) TimerState {
	return TimerState{
		Mode:           ModeFocus,
		TimeRemaining:  s.DurationFor(ModeFocus),
		CurrentSession: 1,
		TotalSessions:  TotalSessions(s.TotalHours, s.FocusDuration, s.BreakDuration),
	}
}

// Phase derives the single condition the timer is in.
func (t TimerState) Phase() Phase {
	switch {
	case t.Completed:
		return PhaseCompleted
	case t.WaitingForUserAfterBreak:
		return PhaseWaiting
	case t.IsRunning:
		return PhaseRunning
	default:
		return PhasePaused
	}
}

// Ticking reports whether the one-second clock should be live.
func (t TimerState) Ticking() bool {
	return t.IsRunning && !t.WaitingForUserAfterBreak && !t.Completed
}

// AppState is everything the application holds in memory.
type AppState struct {
	Timer       TimerState    `json:"timer"`
	Settings    TimerSettings `json:"settings"`
	AppSettings AppSettings   `json:"appSettings"`
	CurrentVibe *Vibe         `json:"currentVibe"`
}

// DefaultAppState returns the state used when nothing has been persisted.
func DefaultAppState() AppState {
	return NewAppState(DefaultTimerSettings(), DefaultAppSettings())
}

// NewAppState builds a fresh state from the given settings.
func NewAppState(s TimerSettings, a AppSettings) AppState {
	return AppState{
		Timer:       NewTimerState(s),
		Settings:    s,
		AppSettings: a,
	}
}

// Snapshot returns the persisted subset of the state.
func (s AppState) Snapshot() Snapshot {
	return Snapshot{
		Settings:    s.Settings,
		AppSettings: s.AppSettings,
		CurrentVibe: s.CurrentVibe.Clone(),
	}
}

// Equal compares two states by value, following the vibe pointer.
func (s AppState) Equal(o AppState) bool {
	return s.Timer == o.Timer &&
		s.Settings == o.Settings &&
		s.AppSettings == o.AppSettings &&
		s.CurrentVibe.Equal(o.CurrentVibe)
}
