package quiz

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/accentdojo/accentdojo-backend/internal/platform/apierr"
)

// Answer is a submitted answer. The concrete type selects the reconcile path.
type Answer interface {
	Kind() string
	PendingID() int64
}

type WordAnswer struct {
	AskedID    int64
	WordID     int64
	AudioTimes int
	Time       int
}

func (WordAnswer) Kind() string       { return KindWord }
func (a WordAnswer) PendingID() int64 { return a.AskedID }

// QuestionAnswer with a nil AnsweredID is a timeout.
type QuestionAnswer struct {
	AskedID          int64
	QuestionID       int64
	RightAID         int64
	AnsweredID       *int64
	QAudioID         int64
	ActiveAnswerTime int
	FullAnswerTime   int
}

func (QuestionAnswer) Kind() string       { return KindQuestion }
func (a QuestionAnswer) PendingID() int64 { return a.AskedID }

// ExerciseAnswer correctness is self-reported by the client (AnswerLevel > 0).
type ExerciseAnswer struct {
	AskedID          int64
	WordID           int64
	AudioTimes       int
	ActiveAnswerTime int
	FullAnswerTime   int
	AnswerLevel      int
}

func (ExerciseAnswer) Kind() string       { return KindExercise }
func (a ExerciseAnswer) PendingID() int64 { return a.AskedID }

// ParseAnswer decodes the next_quiz form. Every failure is a FormParse error.
func ParseAnswer(form url.Values) (Answer, error) {
	p := formParser{form: form}
	kind := strings.ToLower(strings.TrimSpace(form.Get("type")))

	var ans Answer
	switch kind {
	case KindWord:
		ans = WordAnswer{
			AskedID:    p.id("asked_id"),
			WordID:     p.id("word_id"),
			AudioTimes: p.intOr("times_audio_played", 0),
			Time:       p.intOr("time", 0),
		}
	case KindQuestion:
		a := QuestionAnswer{
			AskedID:          p.id("asked_id"),
			QuestionID:       p.id("question_id"),
			RightAID:         p.id("right_a_id"),
			QAudioID:         p.intOr64("q_audio_id", 0),
			ActiveAnswerTime: p.intOr("active_answer_time", 0),
			FullAnswerTime:   p.intOr("full_answer_time", 0),
		}
		if answered := p.num("answered_id"); answered >= 0 {
			a.AnsweredID = &answered
		}
		ans = a
	case KindExercise:
		ans = ExerciseAnswer{
			AskedID:          p.id("asked_id"),
			WordID:           p.id("word_id"),
			AudioTimes:       p.intOr("times_audio_played", 0),
			ActiveAnswerTime: p.intOr("active_answer_time", 0),
			FullAnswerTime:   p.intOr("full_answer_time", 0),
			AnswerLevel:      p.answerLevel(),
		}
	default:
		return nil, apierr.FormParse("unknown answer type %q", kind)
	}
	if p.err != nil {
		return nil, p.err
	}
	return ans, nil
}

type formParser struct {
	form url.Values
	err  error
}

func (p *formParser) fail(format string, args ...any) {
	if p.err == nil {
		p.err = apierr.FormParse(format, args...)
	}
}

func (p *formParser) num(name string) int64 {
	raw := strings.TrimSpace(p.form.Get(name))
	if raw == "" {
		p.fail("missing field %s", name)
		return 0
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		p.fail("field %s: %v", name, err)
		return 0
	}
	return v
}

func (p *formParser) id(name string) int64 {
	v := p.num(name)
	if v <= 0 && p.err == nil {
		p.fail("field %s must be a positive id", name)
	}
	return v
}

func (p *formParser) intOr64(name string, def int64) int64 {
	if strings.TrimSpace(p.form.Get(name)) == "" {
		return def
	}
	return p.num(name)
}

func (p *formParser) intOr(name string, def int) int {
	v := p.intOr64(name, int64(def))
	if v < 0 {
		p.fail("field %s must not be negative", name)
		return 0
	}
	return int(v)
}

// answerLevel accepts answer_level, or a boolean correct as level 1/0.
func (p *formParser) answerLevel() int {
	if strings.TrimSpace(p.form.Get("answer_level")) != "" {
		return int(p.num("answer_level"))
	}
	raw := strings.TrimSpace(p.form.Get("correct"))
	if raw == "" {
		p.fail("missing field correct or answer_level")
		return 0
	}
	ok, err := strconv.ParseBool(raw)
	if err != nil {
		p.fail("field correct: %v", err)
		return 0
	}
	if ok {
		return 1
	}
	return 0
}
