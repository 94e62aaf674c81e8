package ledger

import "time"

const (
	ItemWord     = "word"
	ItemQuestion = "question"
	ItemExercise = "exercise"
)

// PendingItem is the header of an offered prompt. The kind-specific body lives
// in QAskedData, EAskedData or WAskedData sharing the same ID.
type PendingItem struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      int64     `gorm:"not null;index;column:user_id" json:"user_id"`
	AudioFileID int64     `gorm:"not null;column:audio_file_id" json:"audio_file_id"`
	AskedDate   time.Time `gorm:"not null;column:asked_date" json:"asked_date"`
	Pending     bool      `gorm:"not null;column:pending" json:"pending"`
	ItemType    string    `gorm:"not null;column:item_type" json:"item_type"`
	TestItem    bool      `gorm:"not null;default:false;column:test_item" json:"test_item"`
	// TestEventID is set on test items only.
	TestEventID *int64 `gorm:"index;column:test_event_id" json:"test_event_id,omitempty"`
}

func (PendingItem) TableName() string { return "pending_item" }

type QAskedData struct {
	ID          int64 `gorm:"primaryKey;autoIncrement:false" json:"id"`
	QuestionID  int64 `gorm:"not null;index;column:question_id" json:"question_id"`
	CorrectQAID int64 `gorm:"not null;column:correct_qa_id" json:"correct_qa_id"`
}

func (QAskedData) TableName() string { return "q_asked_data" }

type EAskedData struct {
	ID         int64 `gorm:"primaryKey;autoIncrement:false" json:"id"`
	ExerciseID int64 `gorm:"not null;index;column:exercise_id" json:"exercise_id"`
	WordID     int64 `gorm:"not null;column:word_id" json:"word_id"`
}

func (EAskedData) TableName() string { return "e_asked_data" }

type WAskedData struct {
	ID          int64 `gorm:"primaryKey;autoIncrement:false" json:"id"`
	WordID      int64 `gorm:"not null;index;column:word_id" json:"word_id"`
	ShowAccents bool  `gorm:"not null;column:show_accents" json:"show_accents"`
}

func (WAskedData) TableName() string { return "w_asked_data" }

// Answered rows share the pending item's ID. Times are milliseconds.

type QAnsweredData struct {
	ID               int64  `gorm:"primaryKey;autoIncrement:false" json:"id"`
	AnsweredQAID     *int64 `gorm:"column:answered_qa_id" json:"answered_qa_id"`
	ActiveAnswerTime int    `gorm:"not null;column:active_answer_time" json:"active_answer_time"`
	FullAnswerTime   int    `gorm:"not null;column:full_answer_time" json:"full_answer_time"`
	FullSpentTime    int    `gorm:"not null;column:full_spent_time" json:"full_spent_time"`
}

func (QAnsweredData) TableName() string { return "q_answered_data" }

type EAnsweredData struct {
	ID               int64 `gorm:"primaryKey;autoIncrement:false" json:"id"`
	AudioTimes       int   `gorm:"not null;column:audio_times" json:"audio_times"`
	ActiveAnswerTime int   `gorm:"not null;column:active_answer_time" json:"active_answer_time"`
	FullAnswerTime   int   `gorm:"not null;column:full_answer_time" json:"full_answer_time"`
	FullSpentTime    int   `gorm:"not null;column:full_spent_time" json:"full_spent_time"`
	AnswerLevel      int   `gorm:"not null;column:answer_level" json:"answer_level"`
}

func (EAnsweredData) TableName() string { return "e_answered_data" }

type WAnsweredData struct {
	ID            int64 `gorm:"primaryKey;autoIncrement:false" json:"id"`
	AudioTimes    int   `gorm:"not null;column:audio_times" json:"audio_times"`
	CheckedTime   int   `gorm:"not null;column:checked_time" json:"checked_time"`
	FullSpentTime int   `gorm:"not null;column:full_spent_time" json:"full_spent_time"`
}

func (WAnsweredData) TableName() string { return "w_answered_data" }
