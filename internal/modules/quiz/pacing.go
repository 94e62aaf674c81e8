package quiz

import (
	"time"

	types "github.com/accentdojo/accentdojo-backend/internal/domain"
	"github.com/accentdojo/accentdojo-backend/internal/domain/schedule"
)

// rollover advances the day boundary and ends an elapsed break. It reports
// whether m changed; a second call with the same now is a no-op.
func rollover(m *types.UserMetrics, now time.Time) bool {
	changed := false
	if !now.Before(m.TodayBoundary) {
		m.NewWordsToday = 0
		m.QuizzesToday = 0
		m.TodayBoundary = schedule.NextMidnight(now)
		changed = true
	}
	if m.BreakUntil != nil && !now.Before(*m.BreakUntil) {
		m.BreakUntil = nil
		changed = true
	}
	return changed
}

func onBreak(m *types.UserMetrics, now time.Time) bool {
	return m.BreakUntil != nil && now.Before(*m.BreakUntil)
}

// wordGateOpen is true while both new-word caps have room for one more word.
func wordGateOpen(m *types.UserMetrics) bool {
	return m.NewWordsToday < m.MaxNewWordsToday &&
		m.NewWordsSinceBreak < m.MaxNewWordsSinceBreak
}

// countQuiz records one answered item and starts a break once the session cap is hit.
func countQuiz(m *types.UserMetrics, now time.Time) {
	m.QuizzesToday++
	m.QuizzesSinceBreak++
	if m.MaxQuizzesSinceBreak > 0 && m.QuizzesSinceBreak >= m.MaxQuizzesSinceBreak {
		until := now.Add(time.Duration(m.BreakLength) * time.Second)
		m.BreakUntil = &until
		m.QuizzesSinceBreak = 0
		m.NewWordsSinceBreak = 0
	}
}

func countNewWord(m *types.UserMetrics) {
	m.NewWordsToday++
	m.NewWordsSinceBreak++
}
