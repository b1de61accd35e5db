package domain

import "math"

// maxPlanSessions caps a plan so that unchecked settings cannot blow up the
// segment layout.
const maxPlanSessions = 1000

// TotalSessions returns how many focus+break cycles fit in totalHours.
// A non-positive cycle length or a non-finite or non-positive budget yields 0;
// callers validate input before it gets here.
func TotalSessions(totalHours float64, focusDuration, breakDuration int) int {
	cycle := focusDuration + breakDuration
	if cycle <= 0 || math.IsNaN(totalHours) || math.IsInf(totalHours, 0) || totalHours <= 0 {
		return 0
	}
	sessions := math.Floor(totalHours * 60 / float64(cycle))
	if sessions > maxPlanSessions {
		return maxPlanSessions
	}
	return int(sessions)
}

// TotalMinutes returns the wall time of a plan: every focus interval plus
// one break fewer than there are sessions.
func TotalMinutes(sessions, focusDuration, breakDuration int) int {
	if sessions <= 0 {
		return 0
	}
	return sessions*focusDuration + (sessions-1)*breakDuration
}

// SegmentStatus describes where a plan segment sits relative to the timer.
type SegmentStatus string

const (
	SegmentDone     SegmentStatus = "done"
	SegmentCurrent  SegmentStatus = "current"
	SegmentUpcoming SegmentStatus = "upcoming"
)

// Segment is one interval of the plan.
type Segment struct {
	Mode    TimerMode     `json:"mode"`
	Session int           `json:"session"`
	Minutes int           `json:"minutes"`
	Status  SegmentStatus `json:"status"`
}

// Segments lays out the plan as alternating focus and break intervals.
// The last focus interval is not followed by a break.
func Segments(t TimerState, s TimerSettings) []Segment {
	total := min(t.TotalSessions, maxPlanSessions)
	if total <= 0 {
		return nil
	}
	current := CurrentSegmentIndex(t)
	segments := make([]Segment, 0, total*2-1)
	for session := 1; session <= total; session++ {
		segments = append(segments, Segment{Mode: ModeFocus, Session: session, Minutes: s.FocusDuration})
		if session < total {
			segments = append(segments, Segment{Mode: ModeBreak, Session: session, Minutes: s.BreakDuration})
		}
	}
	for i := range segments {
		switch {
		case t.Completed || i < current:
			segments[i].Status = SegmentDone
		case i == current:
			segments[i].Status = SegmentCurrent
		default:
			segments[i].Status = SegmentUpcoming
		}
	}
	return segments
}

// CurrentSegmentIndex returns the index of the active segment in Segments.
func CurrentSegmentIndex(t TimerState) int {
	idx := 2 * (t.CurrentSession - 1)
	if t.Mode == ModeBreak {
		idx++
	}
	return idx
}

// PlanPercent returns the share of finished sessions, rounded down.
func PlanPercent(t TimerState) int {
	if t.TotalSessions <= 0 {
		return 0
	}
	if t.Completed {
		return 100
	}
	return int(math.Floor(float64(t.CurrentSession-1) / float64(t.TotalSessions) * 100))
}
