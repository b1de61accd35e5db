package domain

import "testing"

func TestFormatClock(t *testing.T) {
	tests := []struct {
		seconds int
		want    string
	}{
		{25 * 60, "25:00"},
		{5 * 60, "05:00"},
		{90, "01:30"},
		{59, "00:59"},
		{0, "00:00"},
		{-3, "00:00"},
		{100*60 + 5, "100:05"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := FormatClock(tt.seconds); got != tt.want {
				t.Errorf("FormatClock(%d) = %q, want %q", tt.seconds, got, tt.want)
			}
		})
	}
}

func TestFormatSpoken(t *testing.T) {
	tests := []struct {
		seconds int
		want    string
	}{
		{0, "0 seconds"},
		{45, "45 seconds"},
		{60, "1 minute"},
		{61, "1 minute 1 seconds"},
		{120, "2 minutes"},
		{125, "2 minutes 5 seconds"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := FormatSpoken(tt.seconds); got != tt.want {
				t.Errorf("FormatSpoken(%d) = %q, want %q", tt.seconds, got, tt.want)
			}
		})
	}
}

func TestFormatPlanMinutes(t *testing.T) {
	tests := []struct {
		minutes int
		want    string
	}{
		{25, "25m"},
		{60, "1h"},
		{90, "1h30m"},
		{115, "1h55m"},
	}

	for _, tt := range tests {
		if got := FormatPlanMinutes(tt.minutes); got != tt.want {
			t.Errorf("FormatPlanMinutes(%d) = %q, want %q", tt.minutes, got, tt.want)
		}
	}
}
