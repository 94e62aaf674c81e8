package quiz

import (
	"encoding/json"
	"fmt"
	"time"

	types "github.com/accentdojo/accentdojo-backend/internal/domain"
)

const (
	KindWord     = types.ItemWord
	KindQuestion = types.ItemQuestion
	KindExercise = types.ItemExercise
	KindFuture   = "future"
)

// Quiz is one prompt handed to the learner. A nil Quiz means there is
// nothing to do.
type Quiz interface {
	Kind() string
}

type WordQuiz struct {
	AskedID     int64  `json:"asked_id"`
	WordID      int64  `json:"word_id"`
	Word        string `json:"word"`
	Explanation string `json:"explanation"`
	ShowAccents bool   `json:"show_accents"`
	AudioID     int64  `json:"audio_id"`
}

func (WordQuiz) Kind() string { return KindWord }

func (q WordQuiz) MarshalJSON() ([]byte, error) {
	type alias WordQuiz
	return json.Marshal(struct {
		QuizType string `json:"quiz_type"`
		alias
	}{KindWord, alias(q)})
}

type ExerciseQuiz struct {
	AskedID     int64  `json:"asked_id"`
	ExerciseID  int64  `json:"exercise_id"`
	WordID      int64  `json:"word_id"`
	Word        string `json:"word"`
	Explanation string `json:"explanation"`
	AudioID     int64  `json:"audio_id"`
}

func (ExerciseQuiz) Kind() string { return KindExercise }

func (q ExerciseQuiz) MarshalJSON() ([]byte, error) {
	type alias ExerciseQuiz
	return json.Marshal(struct {
		QuizType string `json:"quiz_type"`
		alias
	}{KindExercise, alias(q)})
}

// AnswerChoice encodes as a two-element array [id, text].
type AnswerChoice struct {
	ID   int64
	Text string
}

func (c AnswerChoice) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{c.ID, c.Text})
}

func (c *AnswerChoice) UnmarshalJSON(b []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if len(raw) != 2 {
		return fmt.Errorf("answer choice: expected [id, text], got %d elements", len(raw))
	}
	if err := json.Unmarshal(raw[0], &c.ID); err != nil {
		return err
	}
	return json.Unmarshal(raw[1], &c.Text)
}

type QuestionQuiz struct {
	AskedID     int64          `json:"asked_id"`
	QuestionID  int64          `json:"question_id"`
	Explanation string         `json:"explanation"`
	Question    string         `json:"question"`
	RightA      int64          `json:"right_a"`
	Answers     []AnswerChoice `json:"answers"`
	QAudioID    int64          `json:"q_audio_id"`
}

func (QuestionQuiz) Kind() string { return KindQuestion }

func (q QuestionQuiz) MarshalJSON() ([]byte, error) {
	type alias QuestionQuiz
	return json.Marshal(struct {
		QuizType string `json:"quiz_type"`
		alias
	}{KindQuestion, alias(q)})
}

// FutureQuiz tells the learner to come back at DueDate. No pending item backs it.
type FutureQuiz struct {
	DueDate time.Time
}

func (FutureQuiz) Kind() string { return KindFuture }

func (q FutureQuiz) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		QuizType string `json:"quiz_type"`
		DueDate  string `json:"due_date"`
	}{KindFuture, q.DueDate.UTC().Format(time.RFC3339)})
}

// ItemRef names a source item without any frozen choices.
type ItemRef struct {
	Kind string
	ID   int64
}
