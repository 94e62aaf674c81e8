package schedule

import "time"

const (
	DueTypeQuestion = "question"
	DueTypeExercise = "exercise"
)

// DueItem is the per-user review schedule of one question or exercise.
// Exactly one QuestionData or ExerciseData row points at it.
type DueItem struct {
	ID                   int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID               int64     `gorm:"not null;index:idx_due_item_user_due,priority:1;column:user_id" json:"user_id"`
	DueDate              time.Time `gorm:"not null;index:idx_due_item_user_due,priority:2;column:due_date" json:"due_date"`
	DueDelay             int       `gorm:"not null;default:0;column:due_delay" json:"due_delay"`
	Cooldown             time.Time `gorm:"not null;column:cooldown" json:"cooldown"`
	CorrectStreakOverall int       `gorm:"not null;default:0;column:correct_streak_overall" json:"correct_streak_overall"`
	CorrectStreakThis    int       `gorm:"not null;default:0;column:correct_streak_this" json:"correct_streak_this"`
	ItemType             string    `gorm:"not null;column:item_type" json:"item_type"`
}

func (DueItem) TableName() string { return "due_item" }

type QuestionData struct {
	ID         int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     int64 `gorm:"not null;uniqueIndex:idx_question_data_user_question,priority:1;column:user_id" json:"user_id"`
	QuestionID int64 `gorm:"not null;uniqueIndex:idx_question_data_user_question,priority:2;column:question_id" json:"question_id"`
	DueItemID  int64 `gorm:"not null;uniqueIndex:idx_question_data_due;column:due" json:"due"`
}

func (QuestionData) TableName() string { return "question_data" }

type ExerciseData struct {
	ID         int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     int64 `gorm:"not null;uniqueIndex:idx_exercise_data_user_exercise,priority:1;column:user_id" json:"user_id"`
	ExerciseID int64 `gorm:"not null;uniqueIndex:idx_exercise_data_user_exercise,priority:2;column:exercise_id" json:"exercise_id"`
	DueItemID  int64 `gorm:"not null;uniqueIndex:idx_exercise_data_due;column:due" json:"due"`
}

func (ExerciseData) TableName() string { return "exercise_data" }

type SkillData struct {
	ID            int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID        int64 `gorm:"not null;uniqueIndex:idx_skill_data_user_nugget,priority:1;column:user_id" json:"user_id"`
	SkillNuggetID int64 `gorm:"not null;uniqueIndex:idx_skill_data_user_nugget,priority:2;column:skill_nugget" json:"skill_nugget"`
	SkillLevel    int   `gorm:"not null;default:0;column:skill_level" json:"skill_level"`
}

func (SkillData) TableName() string { return "skill_data" }

// UserMetrics holds pacing counters, caps and delay policy for one user.
// Durations are stored in seconds.
type UserMetrics struct {
	UserID             int64      `gorm:"primaryKey;autoIncrement:false;column:user_id" json:"user_id"`
	NewWordsSinceBreak int        `gorm:"not null;default:0;column:new_words_since_break" json:"new_words_since_break"`
	NewWordsToday      int        `gorm:"not null;default:0;column:new_words_today" json:"new_words_today"`
	QuizzesSinceBreak  int        `gorm:"not null;default:0;column:quizzes_since_break" json:"quizzes_since_break"`
	QuizzesToday       int        `gorm:"not null;default:0;column:quizzes_today" json:"quizzes_today"`
	BreakUntil         *time.Time `gorm:"column:break_until" json:"break_until,omitempty"`
	TodayBoundary      time.Time  `gorm:"not null;column:today" json:"today"`

	MaxNewWordsSinceBreak int `gorm:"not null;column:max_words_since_break" json:"max_words_since_break"`
	MaxNewWordsToday      int `gorm:"not null;column:max_words_today" json:"max_words_today"`
	MaxQuizzesSinceBreak  int `gorm:"not null;column:max_quizzes_since_break" json:"max_quizzes_since_break"`

	BreakLength              int `gorm:"not null;column:break_length" json:"break_length"`
	DelayMultiplier          int `gorm:"not null;column:delay_multiplier" json:"delay_multiplier"`
	InitialDelay             int `gorm:"not null;column:initial_delay" json:"initial_delay"`
	StreakLimit              int `gorm:"not null;column:streak_limit" json:"streak_limit"`
	CooldownDelay            int `gorm:"not null;column:cooldown_delay" json:"cooldown_delay"`
	StreakSkillBumpCriterion int `gorm:"not null;column:streak_skill_bump_criteria" json:"streak_skill_bump_criteria"`
}

func (UserMetrics) TableName() string { return "user_metrics" }

// DefaultMetrics returns a fresh metrics row for userID whose day ends at the
// next UTC midnight after now.
func DefaultMetrics(userID int64, now time.Time) *UserMetrics {
	return &UserMetrics{
		UserID:                   userID,
		TodayBoundary:            NextMidnight(now),
		MaxNewWordsSinceBreak:    4,
		MaxNewWordsToday:         8,
		MaxQuizzesSinceBreak:     20,
		BreakLength:              3 * 60 * 60,
		DelayMultiplier:          2,
		InitialDelay:             30,
		StreakLimit:              2,
		CooldownDelay:            30,
		StreakSkillBumpCriterion: 2,
	}
}

func NextMidnight(now time.Time) time.Time {
	y, m, d := now.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
}
