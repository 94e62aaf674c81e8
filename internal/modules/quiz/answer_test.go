package quiz

import (
	"net/url"
	"testing"

	"github.com/accentdojo/accentdojo-backend/internal/platform/apierr"
)

func TestParseAnswer(t *testing.T) {
	t.Run("word", func(t *testing.T) {
		a, err := ParseAnswer(url.Values{"type": {"word"}, "asked_id": {"7"}, "word_id": {"3"}, "times_audio_played": {"2"}, "time": {"1500"}})
		if err != nil {
			t.Fatalf("ParseAnswer: %v", err)
		}
		w, ok := a.(WordAnswer)
		if !ok || w.AskedID != 7 || w.WordID != 3 || w.AudioTimes != 2 || w.Time != 1500 {
			t.Fatalf("unexpected %#v", a)
		}
	})

	t.Run("question timeout", func(t *testing.T) {
		a, err := ParseAnswer(url.Values{"type": {"question"}, "asked_id": {"7"}, "question_id": {"2"}, "right_a_id": {"5"}, "answered_id": {"-1"}, "q_audio_id": {"11"}})
		if err != nil {
			t.Fatalf("ParseAnswer: %v", err)
		}
		q := a.(QuestionAnswer)
		if q.AnsweredID != nil || q.QAudioID != 11 {
			t.Fatalf("timeout not decoded: %#v", q)
		}
	})

	t.Run("question answered", func(t *testing.T) {
		a, err := ParseAnswer(url.Values{"type": {"question"}, "asked_id": {"7"}, "question_id": {"2"}, "right_a_id": {"5"}, "answered_id": {"6"}})
		if err != nil {
			t.Fatalf("ParseAnswer: %v", err)
		}
		if q := a.(QuestionAnswer); q.AnsweredID == nil || *q.AnsweredID != 6 {
			t.Fatalf("answered id lost: %#v", q)
		}
	})

	t.Run("exercise boolean", func(t *testing.T) {
		a, err := ParseAnswer(url.Values{"type": {"exercise"}, "asked_id": {"7"}, "word_id": {"3"}, "correct": {"true"}})
		if err != nil {
			t.Fatalf("ParseAnswer: %v", err)
		}
		if e := a.(ExerciseAnswer); e.AnswerLevel != 1 {
			t.Fatalf("answer level = %d", e.AnswerLevel)
		}
	})

	bad := map[string]url.Values{
		"unknown type":     {"type": {"essay"}, "asked_id": {"1"}},
		"missing asked id": {"type": {"word"}, "word_id": {"3"}},
		"non numeric":      {"type": {"word"}, "asked_id": {"x"}, "word_id": {"3"}},
		"negative time":    {"type": {"word"}, "asked_id": {"1"}, "word_id": {"3"}, "time": {"-4"}},
		"missing correct":  {"type": {"exercise"}, "asked_id": {"1"}, "word_id": {"3"}},
	}
	for name, form := range bad {
		t.Run(name, func(t *testing.T) {
			_, err := ParseAnswer(form)
			if !apierr.HasCode(err, apierr.CodeFormParse) {
				t.Fatalf("expected form error, got %v", err)
			}
		})
	}
}
