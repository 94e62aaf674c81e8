package domain

import (
	"github.com/accentdojo/accentdojo-backend/internal/domain/content"
	"github.com/accentdojo/accentdojo-backend/internal/domain/ledger"
	"github.com/accentdojo/accentdojo-backend/internal/domain/schedule"
	"github.com/accentdojo/accentdojo-backend/internal/domain/testmode"
	"github.com/accentdojo/accentdojo-backend/internal/domain/user"
)

const (
	ItemWord     = ledger.ItemWord
	ItemQuestion = ledger.ItemQuestion
	ItemExercise = ledger.ItemExercise

	DueTypeQuestion = schedule.DueTypeQuestion
	DueTypeExercise = schedule.DueTypeExercise
)

type SkillNugget = content.SkillNugget
type Narrator = content.Narrator
type AudioBundle = content.AudioBundle
type AudioFile = content.AudioFile
type Word = content.Word
type Question = content.Question
type Answer = content.Answer
type Exercise = content.Exercise
type ExerciseVariant = content.ExerciseVariant

type DueItem = schedule.DueItem
type QuestionData = schedule.QuestionData
type ExerciseData = schedule.ExerciseData
type SkillData = schedule.SkillData
type UserMetrics = schedule.UserMetrics

type PendingItem = ledger.PendingItem
type QAskedData = ledger.QAskedData
type EAskedData = ledger.EAskedData
type WAskedData = ledger.WAskedData
type QAnsweredData = ledger.QAnsweredData
type EAnsweredData = ledger.EAnsweredData
type WAnsweredData = ledger.WAnsweredData

type User = user.User
type Group = user.Group
type GroupMembership = user.GroupMembership
type Session = user.Session
type EmailConfirmation = user.EmailConfirmation

type Event = testmode.Event
type EventExperience = testmode.EventExperience
type EventUserdata = testmode.EventUserdata
