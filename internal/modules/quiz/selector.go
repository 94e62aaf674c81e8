package quiz

import (
	"fmt"
	"time"

	"github.com/accentdojo/accentdojo-backend/internal/data/repos/ledger"
	types "github.com/accentdojo/accentdojo-backend/internal/domain"
	"github.com/accentdojo/accentdojo-backend/internal/platform/apierr"
	"github.com/accentdojo/accentdojo-backend/internal/platform/dbctx"
)

// selectNext runs the selection rules in order; the first match wins.
func (e *Engine) selectNext(dbc dbctx.Context, userID int64, now time.Time) (Quiz, error) {
	// 1. recover the pending item; test items stay with their event
	q, item, err := e.Current(dbc, userID)
	if err != nil {
		return nil, err
	}
	if q != nil {
		if item.TestItem {
			return nil, apierr.FormParse("finish the pending test item first")
		}
		return q, nil
	}

	m, err := e.loadMetrics(dbc, userID, now)
	if err != nil {
		return nil, err
	}

	// 2. due reviews, questions before exercises
	dueQ, err := e.deps.Due.ListDueQuestions(dbc, userID, now, scanLimit)
	if err != nil {
		return nil, fmt.Errorf("list due questions: %w", err)
	}
	if len(dueQ) > 0 {
		return e.Offer(dbc, userID, ItemRef{Kind: KindQuestion, ID: dueQ[0].ItemID}, 0)
	}
	dueE, err := e.deps.Due.ListDueExercises(dbc, userID, now, scanLimit)
	if err != nil {
		return nil, fmt.Errorf("list due exercises: %w", err)
	}
	if len(dueE) > 0 {
		return e.Offer(dbc, userID, ItemRef{Kind: KindExercise, ID: dueE[0].ItemID}, 0)
	}

	if !onBreak(m, now) {
		// 3. unlocked questions and exercises never answered
		newQ, err := e.deps.Questions.ListUnansweredUnlocked(dbc, userID, unlockAbove, scanLimit)
		if err != nil {
			return nil, fmt.Errorf("list new questions: %w", err)
		}
		if len(newQ) > 0 {
			return e.Offer(dbc, userID, ItemRef{Kind: KindQuestion, ID: newQ[0].ID}, 0)
		}
		newE, err := e.deps.Exercises.ListUnansweredUnlocked(dbc, userID, unlockAbove, scanLimit)
		if err != nil {
			return nil, fmt.Errorf("list new exercises: %w", err)
		}
		if len(newE) > 0 {
			return e.Offer(dbc, userID, ItemRef{Kind: KindExercise, ID: newE[0].ID}, 0)
		}

		// 4. new words, within the pacing caps
		if wordGateOpen(m) {
			words, err := e.deps.Words.ListNotYetAsked(dbc, userID, scanLimit)
			if err != nil {
				return nil, fmt.Errorf("list new words: %w", err)
			}
			if len(words) > 0 {
				return e.Offer(dbc, userID, ItemRef{Kind: KindWord, ID: words[0].ID}, 0)
			}
		}
	}

	// 5. come back later
	next, err := e.deps.Due.EarliestFuture(dbc, userID, now)
	if err != nil {
		return nil, fmt.Errorf("earliest future due: %w", err)
	}
	if onBreak(m, now) && (next == nil || m.BreakUntil.Before(*next)) {
		next = m.BreakUntil
	}
	if next != nil {
		return FutureQuiz{DueDate: *next}, nil
	}

	// 6. nothing to do
	return nil, nil
}

// Offer freezes fresh random choices for ref and registers them as the
// user's pending item, tagged with testEventID when non-zero. An existing
// pending item is returned unchanged.
func (e *Engine) Offer(dbc dbctx.Context, userID int64, ref ItemRef, testEventID int64) (Quiz, error) {
	if q, _, err := e.Current(dbc, userID); err != nil || q != nil {
		return q, err
	}

	now := e.now()
	var (
		audioID int64
		asked   ledger.Asked
		err     error
	)
	switch ref.Kind {
	case KindQuestion:
		audioID, asked, err = e.freezeQuestion(dbc, ref.ID)
	case KindExercise:
		audioID, asked, err = e.freezeExercise(dbc, ref.ID)
	case KindWord:
		audioID, asked, err = e.freezeWord(dbc, userID, ref.ID)
	default:
		return nil, fmt.Errorf("offer: unknown item kind %q", ref.Kind)
	}
	if err != nil {
		return nil, err
	}

	item, frozen, err := e.offer(dbc, userID, audioID, asked, testEventID, now)
	if err != nil {
		return nil, err
	}
	return e.render(dbc, item, frozen)
}

func (e *Engine) freezeQuestion(dbc dbctx.Context, questionID int64) (int64, ledger.Asked, error) {
	q, err := e.deps.Questions.GetByID(dbc, questionID)
	if err != nil {
		return 0, ledger.Asked{}, integrity(err, "question %d", questionID)
	}
	if len(q.Answers) == 0 {
		return 0, ledger.Asked{}, apierr.DataIntegrity("question %d has no answers", q.ID)
	}
	correct := q.Answers[e.deps.Pick(len(q.Answers))]
	audio, err := e.pickAudio(dbc, correct.QAudioBundleID)
	if err != nil {
		return 0, ledger.Asked{}, err
	}
	return audio.ID, ledger.Asked{Question: &types.QAskedData{QuestionID: q.ID, CorrectQAID: correct.ID}}, nil
}

func (e *Engine) freezeExercise(dbc dbctx.Context, exerciseID int64) (int64, ledger.Asked, error) {
	ex, err := e.deps.Exercises.GetByID(dbc, exerciseID)
	if err != nil {
		return 0, ledger.Asked{}, integrity(err, "exercise %d", exerciseID)
	}
	if len(ex.Variants) == 0 {
		return 0, ledger.Asked{}, apierr.DataIntegrity("exercise %d has no variants", ex.ID)
	}
	variant := ex.Variants[e.deps.Pick(len(ex.Variants))]
	word, err := e.deps.Words.GetByID(dbc, variant.WordID)
	if err != nil {
		return 0, ledger.Asked{}, integrity(err, "exercise %d variant word %d", ex.ID, variant.WordID)
	}
	audio, err := e.pickAudio(dbc, word.AudioBundleID)
	if err != nil {
		return 0, ledger.Asked{}, err
	}
	return audio.ID, ledger.Asked{Exercise: &types.EAskedData{ExerciseID: ex.ID, WordID: word.ID}}, nil
}

func (e *Engine) freezeWord(dbc dbctx.Context, userID, wordID int64) (int64, ledger.Asked, error) {
	word, err := e.deps.Words.GetByID(dbc, wordID)
	if err != nil {
		return 0, ledger.Asked{}, integrity(err, "word %d", wordID)
	}
	audio, err := e.pickAudio(dbc, word.AudioBundleID)
	if err != nil {
		return 0, ledger.Asked{}, err
	}
	show, err := e.deps.Users.InGroup(dbc.Ctx, dbc.Tx, userID, e.deps.OutputGroup)
	if err != nil {
		return 0, ledger.Asked{}, fmt.Errorf("check output group: %w", err)
	}
	return audio.ID, ledger.Asked{Word: &types.WAskedData{WordID: word.ID, ShowAccents: show}}, nil
}

// render rebuilds a prompt from frozen choices only; nothing is re-randomized.
func (e *Engine) render(dbc dbctx.Context, item *types.PendingItem, asked ledger.Asked) (Quiz, error) {
	switch {
	case asked.Question != nil:
		q, err := e.deps.Questions.GetByID(dbc, asked.Question.QuestionID)
		if err != nil {
			return nil, integrity(err, "pending item %d question %d", item.ID, asked.Question.QuestionID)
		}
		choices := make([]AnswerChoice, 0, len(q.Answers))
		for _, a := range q.Answers {
			choices = append(choices, AnswerChoice{ID: a.ID, Text: nfc(a.AnswerText)})
		}
		return QuestionQuiz{
			AskedID:     item.ID,
			QuestionID:  q.ID,
			Explanation: nfc(q.QExplanation),
			Question:    nfc(q.QuestionText),
			RightA:      asked.Question.CorrectQAID,
			Answers:     choices,
			QAudioID:    item.AudioFileID,
		}, nil

	case asked.Exercise != nil:
		word, err := e.deps.Words.GetByID(dbc, asked.Exercise.WordID)
		if err != nil {
			return nil, integrity(err, "pending item %d word %d", item.ID, asked.Exercise.WordID)
		}
		return ExerciseQuiz{
			AskedID:     item.ID,
			ExerciseID:  asked.Exercise.ExerciseID,
			WordID:      word.ID,
			Word:        nfc(word.Word),
			Explanation: nfc(word.Explanation),
			AudioID:     item.AudioFileID,
		}, nil

	case asked.Word != nil:
		word, err := e.deps.Words.GetByID(dbc, asked.Word.WordID)
		if err != nil {
			return nil, integrity(err, "pending item %d word %d", item.ID, asked.Word.WordID)
		}
		return WordQuiz{
			AskedID:     item.ID,
			WordID:      word.ID,
			Word:        nfc(word.Word),
			Explanation: nfc(word.Explanation),
			ShowAccents: asked.Word.ShowAccents,
			AudioID:     item.AudioFileID,
		}, nil
	}
	return nil, apierr.DataIntegrity("pending item %d has no asked data", item.ID)
}
