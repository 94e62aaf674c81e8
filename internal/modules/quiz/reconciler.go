package quiz

import (
	"fmt"
	"time"

	"github.com/accentdojo/accentdojo-backend/internal/data/repos/ledger"
	types "github.com/accentdojo/accentdojo-backend/internal/domain"
	"github.com/accentdojo/accentdojo-backend/internal/platform/dbctx"
)

// ReconcileTx applies one answer inside the caller's transaction and returns
// the resolved pending item. testEventID is zero for selector items; test
// mode passes its event so an answer cannot cross events. Test items are
// logged but never touch scheduling state, skills or pacing counters.
func (e *Engine) ReconcileTx(dbc dbctx.Context, userID int64, ans Answer, testEventID int64) (*types.PendingItem, error) {
	now := e.now()

	item, asked, err := e.resolve(dbc, userID, ans, testEventID)
	if err != nil {
		return nil, err
	}
	spent := int(now.Sub(item.AskedDate).Milliseconds())
	if spent < 0 {
		spent = 0
	}

	switch a := ans.(type) {
	case WordAnswer:
		err = e.reconcileWord(dbc, userID, item, asked.Word, a, spent, now)
	case QuestionAnswer:
		err = e.reconcileQuestion(dbc, userID, item, asked.Question, a, spent, now)
	case ExerciseAnswer:
		err = e.reconcileExercise(dbc, userID, item, asked.Exercise, a, spent, now)
	default:
		err = fmt.Errorf("reconcile: unsupported answer %T", ans)
	}
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (e *Engine) reconcileWord(dbc dbctx.Context, userID int64, item *types.PendingItem, asked *types.WAskedData, a WordAnswer, spent int, now time.Time) error {
	if a.WordID != asked.WordID {
		e.log.Warn("word answer echoes a different word, grading the frozen one",
			"user_id", userID, "asked_id", item.ID, "echoed", a.WordID, "frozen", asked.WordID)
	}
	if err := e.deps.Answers.AppendWord(dbc, &types.WAnsweredData{
		ID:            item.ID,
		AudioTimes:    a.AudioTimes,
		CheckedTime:   a.Time,
		FullSpentTime: spent,
	}); err != nil {
		return fmt.Errorf("append word answer: %w", err)
	}
	if item.TestItem {
		return nil
	}

	word, err := e.deps.Words.GetByID(dbc, asked.WordID)
	if err != nil {
		return integrity(err, "answered word %d", asked.WordID)
	}
	if err := e.deps.Skills.Bump(dbc, userID, word.SkillNuggetID, 1); err != nil {
		return fmt.Errorf("bump skill: %w", err)
	}

	m, err := e.loadMetrics(dbc, userID, now)
	if err != nil {
		return err
	}
	countNewWord(m)
	countQuiz(m, now)
	return e.deps.Metrics.Save(dbc, m)
}

func (e *Engine) reconcileQuestion(dbc dbctx.Context, userID int64, item *types.PendingItem, asked *types.QAskedData, a QuestionAnswer, spent int, now time.Time) error {
	if a.RightAID != asked.CorrectQAID || (a.QAudioID != 0 && a.QAudioID != item.AudioFileID) {
		e.log.Warn("question answer echoes different frozen choices, grading the stored ones",
			"user_id", userID, "asked_id", item.ID, "right_a_id", a.RightAID, "frozen_right_a", asked.CorrectQAID)
	}
	if err := e.deps.Answers.AppendQuestion(dbc, &types.QAnsweredData{
		ID:               item.ID,
		AnsweredQAID:     a.AnsweredID,
		ActiveAnswerTime: a.ActiveAnswerTime,
		FullAnswerTime:   a.FullAnswerTime,
		FullSpentTime:    spent,
	}); err != nil {
		return fmt.Errorf("append question answer: %w", err)
	}
	if item.TestItem {
		return nil
	}

	correct := a.AnsweredID != nil && *a.AnsweredID == asked.CorrectQAID
	if !correct {
		// re-ask the identical prompt next
		again := *asked
		if _, _, err := e.offer(dbc, userID, item.AudioFileID, ledger.Asked{Question: &again}, 0, now); err != nil {
			return err
		}
	}

	q, err := e.deps.Questions.GetByID(dbc, asked.QuestionID)
	if err != nil {
		return integrity(err, "answered question %d", asked.QuestionID)
	}
	prior, err := e.deps.Due.GetForQuestion(dbc, userID, q.ID)
	if err != nil {
		return fmt.Errorf("load due item: %w", err)
	}
	return e.applySchedule(dbc, userID, prior, q.SkillNuggetID, correct, now, func(next *types.DueItem) error {
		_, err := e.deps.Due.CreateForQuestion(dbc, userID, q.ID, next)
		return err
	})
}

func (e *Engine) reconcileExercise(dbc dbctx.Context, userID int64, item *types.PendingItem, asked *types.EAskedData, a ExerciseAnswer, spent int, now time.Time) error {
	if a.WordID != asked.WordID {
		e.log.Warn("exercise answer echoes a different word, grading the frozen one",
			"user_id", userID, "asked_id", item.ID, "echoed", a.WordID, "frozen", asked.WordID)
	}
	if err := e.deps.Answers.AppendExercise(dbc, &types.EAnsweredData{
		ID:               item.ID,
		AudioTimes:       a.AudioTimes,
		ActiveAnswerTime: a.ActiveAnswerTime,
		FullAnswerTime:   a.FullAnswerTime,
		FullSpentTime:    spent,
		AnswerLevel:      a.AnswerLevel,
	}); err != nil {
		return fmt.Errorf("append exercise answer: %w", err)
	}
	if item.TestItem {
		return nil
	}

	// the client grades exercises itself
	correct := a.AnswerLevel > 0
	if !correct {
		again := *asked
		if _, _, err := e.offer(dbc, userID, item.AudioFileID, ledger.Asked{Exercise: &again}, 0, now); err != nil {
			return err
		}
	}

	ex, err := e.deps.Exercises.GetByID(dbc, asked.ExerciseID)
	if err != nil {
		return integrity(err, "answered exercise %d", asked.ExerciseID)
	}
	prior, err := e.deps.Due.GetForExercise(dbc, userID, ex.ID)
	if err != nil {
		return fmt.Errorf("load due item: %w", err)
	}
	return e.applySchedule(dbc, userID, prior, ex.SkillNuggetID, correct, now, func(next *types.DueItem) error {
		_, err := e.deps.Due.CreateForExercise(dbc, userID, ex.ID, next)
		return err
	})
}

// applySchedule updates or creates the due item, bumps the nugget and counts
// the answer against the pacing caps.
func (e *Engine) applySchedule(dbc dbctx.Context, userID int64, prior *types.DueItem, nuggetID int64, correct bool, now time.Time, create func(*types.DueItem) error) error {
	m, err := e.loadMetrics(dbc, userID, now)
	if err != nil {
		return err
	}

	var base types.DueItem
	if prior != nil {
		base = *prior
	}
	next, bump := nextSchedule(base, m, correct, now)
	if prior != nil {
		if err := e.deps.Due.Save(dbc, &next); err != nil {
			return fmt.Errorf("save due item: %w", err)
		}
	} else if err := create(&next); err != nil {
		return fmt.Errorf("create due item: %w", err)
	}

	if bump > 0 {
		if err := e.deps.Skills.Bump(dbc, userID, nuggetID, bump); err != nil {
			return fmt.Errorf("bump skill: %w", err)
		}
	}

	countQuiz(m, now)
	if err := e.deps.Metrics.Save(dbc, m); err != nil {
		return fmt.Errorf("save metrics: %w", err)
	}
	return nil
}
