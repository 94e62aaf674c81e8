package content

import (
	"gorm.io/gorm"

	types "github.com/accentdojo/accentdojo-backend/internal/domain"
	"github.com/accentdojo/accentdojo-backend/internal/platform/dbctx"
	"github.com/accentdojo/accentdojo-backend/internal/platform/logger"
)

type ExerciseRepo interface {
	// GetByID preloads the variants ordered by id.
	GetByID(dbc dbctx.Context, id int64) (*types.Exercise, error)
	ListUnansweredUnlocked(dbc dbctx.Context, userID int64, minSkill int, limit int) ([]*types.Exercise, error)
}

type exerciseRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewExerciseRepo(db *gorm.DB, baseLog *logger.Logger) ExerciseRepo {
	return &exerciseRepo{db: db, log: baseLog.With("repo", "ExerciseRepo")}
}

func (r *exerciseRepo) GetByID(dbc dbctx.Context, id int64) (*types.Exercise, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var e types.Exercise
	err := transaction.WithContext(dbc.Ctx).
		Preload("Variants", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Where("id = ?", id).
		First(&e).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *exerciseRepo) ListUnansweredUnlocked(dbc dbctx.Context, userID int64, minSkill int, limit int) ([]*types.Exercise, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if limit <= 0 {
		limit = 5
	}
	answered := transaction.Table("exercise_data").Select("exercise_id").Where("user_id = ?", userID)

	var out []*types.Exercise
	err := transaction.WithContext(dbc.Ctx).
		Joins("JOIN skill_data ON skill_data.skill_nugget = exercise.skill_nugget AND skill_data.user_id = ?", userID).
		Where("exercise.published = ?", true).
		Where("skill_data.skill_level > ?", minSkill).
		Where("exercise.id NOT IN (?)", answered).
		Order("exercise.id ASC").
		Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
