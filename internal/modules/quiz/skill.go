package quiz

import (
	"time"

	types "github.com/accentdojo/accentdojo-backend/internal/domain"
)

const (
	// unlockAbove is the nugget level a user must exceed before its
	// questions and exercises are offered.
	unlockAbove = 1

	minReviewDelay = 15
)

// nextSchedule applies one answer to a due item. prior is the zero value for a
// first answer. It returns the updated item and the skill bump (0 or 1).
//
// StreakLimit is stored with the metrics but does not cap anything here.
func nextSchedule(prior types.DueItem, m *types.UserMetrics, correct bool, now time.Time) (types.DueItem, int) {
	next := prior
	bump := 0

	if correct {
		first := prior.CorrectStreakOverall == 0
		floor := minReviewDelay
		if first {
			floor = m.InitialDelay
		}
		delay := prior.DueDelay * m.DelayMultiplier
		if delay < floor {
			delay = floor
		}
		next.DueDelay = delay
		next.CorrectStreakThis++
		next.CorrectStreakOverall++
		next.Cooldown = now.Add(time.Duration(m.CooldownDelay) * time.Second)
		if first || next.CorrectStreakThis > m.StreakSkillBumpCriterion {
			bump = 1
		}
	} else {
		next.DueDelay = 0
		next.CorrectStreakThis = 0
		if next.Cooldown.IsZero() {
			next.Cooldown = now
		}
	}

	next.DueDate = now.Add(time.Duration(next.DueDelay) * time.Second)
	return next, bump
}
