package quiz

import (
	"testing"
	"time"

	types "github.com/accentdojo/accentdojo-backend/internal/domain"
	"github.com/accentdojo/accentdojo-backend/internal/domain/schedule"
)

func TestNextSchedule(t *testing.T) {
	now := time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)
	m := schedule.DefaultMetrics(1, now)

	cases := []struct {
		name       string
		prior      types.DueItem
		correct    bool
		wantDelay  int
		wantStreak int
		wantBump   int
	}{
		{"first ever correct", types.DueItem{}, true, 30, 1, 1},
		{"second correct doubles", types.DueItem{DueDelay: 30, CorrectStreakOverall: 1, CorrectStreakThis: 1}, true, 60, 2, 0},
		{"streak past criterion", types.DueItem{DueDelay: 60, CorrectStreakOverall: 2, CorrectStreakThis: 2}, true, 120, 3, 1},
		{"correct after a miss uses review floor", types.DueItem{DueDelay: 0, CorrectStreakOverall: 3}, true, 15, 1, 0},
		{"wrong resets", types.DueItem{DueDelay: 120, CorrectStreakOverall: 3, CorrectStreakThis: 3}, false, 0, 0, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			next, bump := nextSchedule(tc.prior, m, tc.correct, now)
			if next.DueDelay != tc.wantDelay {
				t.Fatalf("delay = %d, want %d", next.DueDelay, tc.wantDelay)
			}
			if next.CorrectStreakThis != tc.wantStreak {
				t.Fatalf("streak = %d, want %d", next.CorrectStreakThis, tc.wantStreak)
			}
			if bump != tc.wantBump {
				t.Fatalf("bump = %d, want %d", bump, tc.wantBump)
			}
			if want := now.Add(time.Duration(tc.wantDelay) * time.Second); !next.DueDate.Equal(want) {
				t.Fatalf("due = %v, want %v", next.DueDate, want)
			}
			if tc.correct && !next.Cooldown.Equal(now.Add(30*time.Second)) {
				t.Fatalf("cooldown = %v", next.Cooldown)
			}
			if !tc.correct && next.CorrectStreakOverall != tc.prior.CorrectStreakOverall {
				t.Fatal("a miss must not touch the overall streak")
			}
		})
	}
}
