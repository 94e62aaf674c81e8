package app

import (
	"gorm.io/gorm"

	"github.com/accentdojo/accentdojo-backend/internal/data/repos"
	"github.com/accentdojo/accentdojo-backend/internal/platform/logger"
)

type Repos struct {
	User              repos.UserRepo
	Session           repos.SessionRepo
	EmailConfirmation repos.EmailConfirmationRepo

	Word     repos.WordRepo
	Question repos.QuestionRepo
	Exercise repos.ExerciseRepo
	Audio    repos.AudioRepo

	DueItem     repos.DueItemRepo
	SkillData   repos.SkillDataRepo
	UserMetrics repos.UserMetricsRepo

	PendingItem repos.PendingItemRepo
	AnswerLog   repos.AnswerLogRepo

	Event repos.EventRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:              repos.NewUserRepo(db, log),
		Session:           repos.NewSessionRepo(db, log),
		EmailConfirmation: repos.NewEmailConfirmationRepo(db, log),

		Word:     repos.NewWordRepo(db, log),
		Question: repos.NewQuestionRepo(db, log),
		Exercise: repos.NewExerciseRepo(db, log),
		Audio:    repos.NewAudioRepo(db, log),

		DueItem:     repos.NewDueItemRepo(db, log),
		SkillData:   repos.NewSkillDataRepo(db, log),
		UserMetrics: repos.NewUserMetricsRepo(db, log),

		PendingItem: repos.NewPendingItemRepo(db, log),
		AnswerLog:   repos.NewAnswerLogRepo(db, log),

		Event: repos.NewEventRepo(db, log),
	}
}
