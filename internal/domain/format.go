package domain

import "fmt"

// FormatClock renders seconds as MM:SS. Minutes are not capped at 59.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// FormatSpoken renders seconds as words, e.g. "2 minutes 5 seconds".
func FormatSpoken(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	minutes, rest := seconds/60, seconds%60

	switch {
	case minutes == 0:
		return fmt.Sprintf("%d seconds", rest)
	case minutes == 1 && rest > 0:
		return fmt.Sprintf("1 minute %d seconds", rest)
	case minutes == 1:
		return "1 minute"
	case rest > 0:
		return fmt.Sprintf("%d minutes %d seconds", minutes, rest)
	default:
		return fmt.Sprintf("%d minutes", minutes)
	}
}

// FormatPlanMinutes renders a minute count as "1h30m", "45m" or "2h".
func FormatPlanMinutes(minutes int) string {
	h, m := minutes/60, minutes%60
	switch {
	case h == 0:
		return fmt.Sprintf("%dm", m)
	case m == 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dh%dm", h, m)
	}
}
