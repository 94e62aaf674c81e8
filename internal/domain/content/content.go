package content

import "time"

type SkillNugget struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Summary   string    `gorm:"not null;uniqueIndex:idx_skill_nugget_summary;column:summary" json:"summary"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (SkillNugget) TableName() string { return "skill_nugget" }

type Narrator struct {
	ID        int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string `gorm:"not null;column:name" json:"name"`
	Published bool   `gorm:"not null;default:false;column:published" json:"published"`
}

func (Narrator) TableName() string { return "narrator" }

// AudioBundle is a named set of equivalent recordings of one word or sentence.
type AudioBundle struct {
	ID       int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	ListName string      `gorm:"not null;column:listname" json:"listname"`
	Files    []AudioFile `gorm:"foreignKey:BundleID;references:ID" json:"files,omitempty"`
}

func (AudioBundle) TableName() string { return "audio_bundle" }

type AudioFile struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	BundleID   int64     `gorm:"not null;index;column:bundle_id" json:"bundle_id"`
	NarratorID int64     `gorm:"not null;index;column:narrator_id" json:"narrator_id"`
	Narrator   *Narrator `gorm:"foreignKey:NarratorID;references:ID" json:"narrator,omitempty"`
	File       string    `gorm:"not null;column:file" json:"file"`
	Mime       string    `gorm:"not null;column:mime" json:"mime"`
	FileSHA2   string    `gorm:"not null;uniqueIndex:idx_audio_file_sha2;column:file_sha2" json:"file_sha2"`
}

func (AudioFile) TableName() string { return "audio_file" }

type Word struct {
	ID            int64        `gorm:"primaryKey;autoIncrement" json:"id"`
	Word          string       `gorm:"not null;index;column:word" json:"word"`
	Explanation   string       `gorm:"not null;column:explanation" json:"explanation"`
	AudioBundleID int64        `gorm:"not null;index;column:audio_bundle" json:"audio_bundle"`
	AudioBundle   *AudioBundle `gorm:"foreignKey:AudioBundleID;references:ID" json:"-"`
	SkillNuggetID int64        `gorm:"not null;index;column:skill_nugget" json:"skill_nugget"`
	SkillLevel    int          `gorm:"not null;default:0;column:skill_level" json:"skill_level"`
	Priority      int          `gorm:"not null;default:0;column:priority" json:"priority"`
	Published     bool         `gorm:"not null;default:false;column:published" json:"published"`
}

func (Word) TableName() string { return "word" }

type Question struct {
	ID            int64    `gorm:"primaryKey;autoIncrement" json:"id"`
	SkillNuggetID int64    `gorm:"not null;index;column:skill_nugget" json:"skill_nugget"`
	QName         string   `gorm:"not null;column:q_name" json:"q_name"`
	QExplanation  string   `gorm:"not null;column:q_explanation" json:"q_explanation"`
	QuestionText  string   `gorm:"not null;column:question_text" json:"question_text"`
	SkillLevel    int      `gorm:"not null;default:2;column:skill_level" json:"skill_level"`
	Published     bool     `gorm:"not null;default:false;column:published" json:"published"`
	Answers       []Answer `gorm:"foreignKey:QuestionID;references:ID" json:"answers,omitempty"`
}

func (Question) TableName() string { return "quiz_question" }

// Answer is one choice of a Question. QAudioBundleID plays as the prompt when
// this answer is the frozen correct one.
type Answer struct {
	ID             int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	QuestionID     int64  `gorm:"not null;index;column:question_id" json:"question_id"`
	AnswerText     string `gorm:"not null;column:answer_text" json:"answer_text"`
	QAudioBundleID int64  `gorm:"not null;column:q_audio_bundle" json:"q_audio_bundle"`
	AAudioBundleID *int64 `gorm:"column:a_audio_bundle" json:"a_audio_bundle,omitempty"`
}

func (Answer) TableName() string { return "question_answer" }

type Exercise struct {
	ID            int64             `gorm:"primaryKey;autoIncrement" json:"id"`
	SkillNuggetID int64             `gorm:"not null;index;column:skill_nugget" json:"skill_nugget"`
	SkillLevel    int               `gorm:"not null;default:2;column:skill_level" json:"skill_level"`
	Published     bool              `gorm:"not null;default:false;column:published" json:"published"`
	Variants      []ExerciseVariant `gorm:"foreignKey:ExerciseID;references:ID" json:"variants,omitempty"`
}

func (Exercise) TableName() string { return "exercise" }

type ExerciseVariant struct {
	ID         int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	ExerciseID int64 `gorm:"not null;index;column:exercise_id" json:"exercise_id"`
	WordID     int64 `gorm:"not null;index;column:word_id" json:"word_id"`
}

func (ExerciseVariant) TableName() string { return "exercise_variant" }
