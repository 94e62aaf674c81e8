package schedule

import (
	"errors"
	"time"

	"gorm.io/gorm"

	types "github.com/accentdojo/accentdojo-backend/internal/domain"
	"github.com/accentdojo/accentdojo-backend/internal/platform/dbctx"
	"github.com/accentdojo/accentdojo-backend/internal/platform/logger"
)

// DueRef pairs a due item with the source item it schedules.
type DueRef struct {
	Due    types.DueItem `gorm:"embedded"`
	ItemID int64         `gorm:"column:item_id"`
}

type DueItemRepo interface {
	// ListDueQuestions returns due reviews of published questions, earliest first.
	ListDueQuestions(dbc dbctx.Context, userID int64, now time.Time, limit int) ([]DueRef, error)
	ListDueExercises(dbc dbctx.Context, userID int64, now time.Time, limit int) ([]DueRef, error)
	// EarliestFuture returns nil when the user has nothing scheduled after now.
	EarliestFuture(dbc dbctx.Context, userID int64, now time.Time) (*time.Time, error)
	// GetForQuestion returns (nil, nil) when the user never answered the question.
	GetForQuestion(dbc dbctx.Context, userID, questionID int64) (*types.DueItem, error)
	GetForExercise(dbc dbctx.Context, userID, exerciseID int64) (*types.DueItem, error)
	CreateForQuestion(dbc dbctx.Context, userID, questionID int64, due *types.DueItem) (*types.DueItem, error)
	CreateForExercise(dbc dbctx.Context, userID, exerciseID int64, due *types.DueItem) (*types.DueItem, error)
	Save(dbc dbctx.Context, due *types.DueItem) error
	ListByUser(dbc dbctx.Context, userID int64) ([]*types.DueItem, error)
}

type dueItemRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDueItemRepo(db *gorm.DB, baseLog *logger.Logger) DueItemRepo {
	return &dueItemRepo{db: db, log: baseLog.With("repo", "DueItemRepo")}
}

func (r *dueItemRepo) ListDueQuestions(dbc dbctx.Context, userID int64, now time.Time, limit int) ([]DueRef, error) {
	return r.listDue(dbc, userID, now, limit, "question_data", "question_id", "quiz_question")
}

func (r *dueItemRepo) ListDueExercises(dbc dbctx.Context, userID int64, now time.Time, limit int) ([]DueRef, error) {
	return r.listDue(dbc, userID, now, limit, "exercise_data", "exercise_id", "exercise")
}

func (r *dueItemRepo) listDue(dbc dbctx.Context, userID int64, now time.Time, limit int, dataTable, itemCol, itemTable string) ([]DueRef, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if limit <= 0 {
		limit = 5
	}
	var out []DueRef
	err := transaction.WithContext(dbc.Ctx).
		Table("due_item").
		Select("due_item.*, "+dataTable+"."+itemCol+" AS item_id").
		Joins("JOIN "+dataTable+" ON "+dataTable+".due = due_item.id").
		Joins("JOIN "+itemTable+" ON "+itemTable+".id = "+dataTable+"."+itemCol).
		Where("due_item.user_id = ? AND due_item.due_date <= ?", userID, now).
		Where(itemTable+".published = ?", true).
		Order("due_item.due_date ASC, due_item.id ASC").
		Limit(limit).
		Scan(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *dueItemRepo) EarliestFuture(dbc dbctx.Context, userID int64, now time.Time) (*time.Time, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var due types.DueItem
	err := transaction.WithContext(dbc.Ctx).
		Where("user_id = ? AND due_date > ?", userID, now).
		Order("due_date ASC").
		First(&due).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	t := due.DueDate
	return &t, nil
}

func (r *dueItemRepo) GetForQuestion(dbc dbctx.Context, userID, questionID int64) (*types.DueItem, error) {
	return r.getFor(dbc, "question_data", "question_id", userID, questionID)
}

func (r *dueItemRepo) GetForExercise(dbc dbctx.Context, userID, exerciseID int64) (*types.DueItem, error) {
	return r.getFor(dbc, "exercise_data", "exercise_id", userID, exerciseID)
}

func (r *dueItemRepo) getFor(dbc dbctx.Context, dataTable, itemCol string, userID, itemID int64) (*types.DueItem, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var due types.DueItem
	err := forUpdate(transaction.WithContext(dbc.Ctx)).
		Joins("JOIN "+dataTable+" ON "+dataTable+".due = due_item.id").
		Where(dataTable+".user_id = ? AND "+dataTable+"."+itemCol+" = ?", userID, itemID).
		First(&due).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &due, nil
}

func (r *dueItemRepo) CreateForQuestion(dbc dbctx.Context, userID, questionID int64, due *types.DueItem) (*types.DueItem, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	due.UserID = userID
	due.ItemType = types.DueTypeQuestion
	err := transaction.WithContext(dbc.Ctx).Transaction(func(txx *gorm.DB) error {
		if err := txx.Create(due).Error; err != nil {
			return err
		}
		return txx.Create(&types.QuestionData{UserID: userID, QuestionID: questionID, DueItemID: due.ID}).Error
	})
	if err != nil {
		return nil, err
	}
	return due, nil
}

func (r *dueItemRepo) CreateForExercise(dbc dbctx.Context, userID, exerciseID int64, due *types.DueItem) (*types.DueItem, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	due.UserID = userID
	due.ItemType = types.DueTypeExercise
	err := transaction.WithContext(dbc.Ctx).Transaction(func(txx *gorm.DB) error {
		if err := txx.Create(due).Error; err != nil {
			return err
		}
		return txx.Create(&types.ExerciseData{UserID: userID, ExerciseID: exerciseID, DueItemID: due.ID}).Error
	})
	if err != nil {
		return nil, err
	}
	return due, nil
}

func (r *dueItemRepo) Save(dbc dbctx.Context, due *types.DueItem) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if due == nil || due.ID == 0 {
		return errors.New("save due item: missing id")
	}
	return transaction.WithContext(dbc.Ctx).
		Model(&types.DueItem{}).
		Where("id = ?", due.ID).
		Updates(map[string]interface{}{
			"due_date":               due.DueDate,
			"due_delay":              due.DueDelay,
			"cooldown":               due.Cooldown,
			"correct_streak_overall": due.CorrectStreakOverall,
			"correct_streak_this":    due.CorrectStreakThis,
		}).Error
}

func (r *dueItemRepo) ListByUser(dbc dbctx.Context, userID int64) ([]*types.DueItem, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.DueItem
	if err := transaction.WithContext(dbc.Ctx).Where("user_id = ?", userID).Order("id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
