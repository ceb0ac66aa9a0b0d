package helpers

import (
	"testing"
	"time"
)

func TestRemainingSeconds(t *testing.T) {
	start := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	cases := []struct {
		name     string
		now      time.Time
		duration int
		want     int
	}{
		{"just started", start, 60, 3600},
		{"halfway", start.Add(30 * time.Minute), 60, 1800},
		{"exactly over", start.Add(60 * time.Minute), 60, 0},
		{"long over clamps to zero", start.Add(2 * time.Hour), 60, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := RemainingSeconds(tc.now, start, tc.duration); got != tc.want {
				t.Fatalf("RemainingSeconds = %d, want %d", got, tc.want)
			}
		})
	}
}
