package content

import (
	"gorm.io/gorm"

	types "github.com/accentdojo/accentdojo-backend/internal/domain"
	"github.com/accentdojo/accentdojo-backend/internal/platform/dbctx"
	"github.com/accentdojo/accentdojo-backend/internal/platform/logger"
)

type QuestionRepo interface {
	// GetByID preloads the answers ordered by id.
	GetByID(dbc dbctx.Context, id int64) (*types.Question, error)
	GetAnswer(dbc dbctx.Context, answerID int64) (*types.Answer, error)
	// ListUnansweredUnlocked returns published questions the user has no
	// scheduling data for, restricted to nuggets above minSkill.
	ListUnansweredUnlocked(dbc dbctx.Context, userID int64, minSkill int, limit int) ([]*types.Question, error)
}

type questionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuestionRepo(db *gorm.DB, baseLog *logger.Logger) QuestionRepo {
	return &questionRepo{db: db, log: baseLog.With("repo", "QuestionRepo")}
}

func (r *questionRepo) GetByID(dbc dbctx.Context, id int64) (*types.Question, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var q types.Question
	err := transaction.WithContext(dbc.Ctx).
		Preload("Answers", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Where("id = ?", id).
		First(&q).Error
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *questionRepo) GetAnswer(dbc dbctx.Context, answerID int64) (*types.Answer, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var a types.Answer
	if err := transaction.WithContext(dbc.Ctx).Where("id = ?", answerID).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *questionRepo) ListUnansweredUnlocked(dbc dbctx.Context, userID int64, minSkill int, limit int) ([]*types.Question, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if limit <= 0 {
		limit = 5
	}
	answered := transaction.Table("question_data").Select("question_id").Where("user_id = ?", userID)

	var out []*types.Question
	err := transaction.WithContext(dbc.Ctx).
		Joins("JOIN skill_data ON skill_data.skill_nugget = quiz_question.skill_nugget AND skill_data.user_id = ?", userID).
		Where("quiz_question.published = ?", true).
		Where("skill_data.skill_level > ?", minSkill).
		Where("quiz_question.id NOT IN (?)", answered).
		Order("quiz_question.id ASC").
		Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
