package format

import (
	"testing"
	"time"
)

func TestSecondsLeft(t *testing.T) {
	now := time.Date(2025, 9, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		deadline time.Time
		want     int
	}{
		{name: "future deadline", deadline: now.Add(359 * time.Second), want: 359},
		{name: "exact now", deadline: now, want: 0},
		{name: "past deadline clamps to zero", deadline: now.Add(-time.Minute), want: 0},
		{name: "sub-second remainder truncates", deadline: now.Add(1500 * time.Millisecond), want: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SecondsLeft(tt.deadline, now); got != tt.want {
				t.Errorf("SecondsLeft() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCountdown(t *testing.T) {
	tests := []struct {
		seconds int
		want    string
	}{
		{359, "5:59"},
		{60, "1:00"},
		{61, "1:01"},
		{9, "0:09"},
		{0, "0:00"},
		{3600, "60:00"},
	}
	for _, tt := range tests {
		if got := Countdown(tt.seconds); got != tt.want {
			t.Errorf("Countdown(%d) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}
