package repos

import (
	"github.com/accentdojo/accentdojo-backend/internal/data/repos/content"
	"github.com/accentdojo/accentdojo-backend/internal/data/repos/ledger"
	"github.com/accentdojo/accentdojo-backend/internal/data/repos/schedule"
	"github.com/accentdojo/accentdojo-backend/internal/data/repos/testmode"
	"github.com/accentdojo/accentdojo-backend/internal/data/repos/user"
	"github.com/accentdojo/accentdojo-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type UserRepo = user.UserRepo
type SessionRepo = user.SessionRepo
type EmailConfirmationRepo = user.EmailConfirmationRepo

type WordRepo = content.WordRepo
type QuestionRepo = content.QuestionRepo
type ExerciseRepo = content.ExerciseRepo
type AudioRepo = content.AudioRepo

type DueItemRepo = schedule.DueItemRepo
type SkillDataRepo = schedule.SkillDataRepo
type UserMetricsRepo = schedule.UserMetricsRepo

type PendingItemRepo = ledger.PendingItemRepo
type AnswerLogRepo = ledger.AnswerLogRepo

type EventRepo = testmode.EventRepo

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo { return user.NewUserRepo(db, baseLog) }
func NewSessionRepo(db *gorm.DB, baseLog *logger.Logger) SessionRepo {
	return user.NewSessionRepo(db, baseLog)
}
func NewEmailConfirmationRepo(db *gorm.DB, baseLog *logger.Logger) EmailConfirmationRepo {
	return user.NewEmailConfirmationRepo(db, baseLog)
}

func NewWordRepo(db *gorm.DB, baseLog *logger.Logger) WordRepo {
	return content.NewWordRepo(db, baseLog)
}
func NewQuestionRepo(db *gorm.DB, baseLog *logger.Logger) QuestionRepo {
	return content.NewQuestionRepo(db, baseLog)
}
func NewExerciseRepo(db *gorm.DB, baseLog *logger.Logger) ExerciseRepo {
	return content.NewExerciseRepo(db, baseLog)
}
func NewAudioRepo(db *gorm.DB, baseLog *logger.Logger) AudioRepo {
	return content.NewAudioRepo(db, baseLog)
}

func NewDueItemRepo(db *gorm.DB, baseLog *logger.Logger) DueItemRepo {
	return schedule.NewDueItemRepo(db, baseLog)
}
func NewSkillDataRepo(db *gorm.DB, baseLog *logger.Logger) SkillDataRepo {
	return schedule.NewSkillDataRepo(db, baseLog)
}
func NewUserMetricsRepo(db *gorm.DB, baseLog *logger.Logger) UserMetricsRepo {
	return schedule.NewUserMetricsRepo(db, baseLog)
}

func NewPendingItemRepo(db *gorm.DB, baseLog *logger.Logger) PendingItemRepo {
	return ledger.NewPendingItemRepo(db, baseLog)
}
func NewAnswerLogRepo(db *gorm.DB, baseLog *logger.Logger) AnswerLogRepo {
	return ledger.NewAnswerLogRepo(db, baseLog)
}

func NewEventRepo(db *gorm.DB, baseLog *logger.Logger) EventRepo {
	return testmode.NewEventRepo(db, baseLog)
}
