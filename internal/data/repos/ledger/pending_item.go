package ledger

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	types "github.com/accentdojo/accentdojo-backend/internal/domain"
	"github.com/accentdojo/accentdojo-backend/internal/platform/dbctx"
	"github.com/accentdojo/accentdojo-backend/internal/platform/logger"
)

// ErrNotPending is returned by Resolve when the item is unknown, belongs to
// another user, or was already resolved.
var ErrNotPending = errors.New("pending item not found or already resolved")

// Asked is the kind-specific body frozen at offer time. Exactly one field is set.
type Asked struct {
	Question *types.QAskedData
	Exercise *types.EAskedData
	Word     *types.WAskedData
}

func (a Asked) kind() string {
	switch {
	case a.Question != nil:
		return types.ItemQuestion
	case a.Exercise != nil:
		return types.ItemExercise
	case a.Word != nil:
		return types.ItemWord
	}
	return ""
}

type PendingItemRepo interface {
	// Create inserts the header and its asked body. A second pending item for
	// the same user fails with a unique violation.
	Create(dbc dbctx.Context, item *types.PendingItem, asked Asked) error
	// Current returns (nil, nil) when the user has no pending item.
	Current(dbc dbctx.Context, userID int64) (*types.PendingItem, error)
	GetByID(dbc dbctx.Context, userID, id int64) (*types.PendingItem, error)
	LoadAsked(dbc dbctx.Context, item *types.PendingItem) (Asked, error)
	// Resolve flips pending to false, guarded by pending = true.
	Resolve(dbc dbctx.Context, userID, id int64) error
	CountPending(dbc dbctx.Context, userID int64) (int64, error)
}

type pendingItemRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPendingItemRepo(db *gorm.DB, baseLog *logger.Logger) PendingItemRepo {
	return &pendingItemRepo{db: db, log: baseLog.With("repo", "PendingItemRepo")}
}

func (r *pendingItemRepo) Create(dbc dbctx.Context, item *types.PendingItem, asked Asked) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	kind := asked.kind()
	if kind == "" {
		return errors.New("pending item: missing asked data")
	}
	item.ItemType = kind
	item.Pending = true
	return transaction.WithContext(dbc.Ctx).Transaction(func(txx *gorm.DB) error {
		if err := txx.Create(item).Error; err != nil {
			return err
		}
		switch kind {
		case types.ItemQuestion:
			asked.Question.ID = item.ID
			return txx.Create(asked.Question).Error
		case types.ItemExercise:
			asked.Exercise.ID = item.ID
			return txx.Create(asked.Exercise).Error
		default:
			asked.Word.ID = item.ID
			return txx.Create(asked.Word).Error
		}
	})
}

func (r *pendingItemRepo) Current(dbc dbctx.Context, userID int64) (*types.PendingItem, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var item types.PendingItem
	err := transaction.WithContext(dbc.Ctx).
		Where("user_id = ? AND pending = ?", userID, true).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *pendingItemRepo) GetByID(dbc dbctx.Context, userID, id int64) (*types.PendingItem, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var item types.PendingItem
	if err := transaction.WithContext(dbc.Ctx).Where("id = ? AND user_id = ?", id, userID).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *pendingItemRepo) LoadAsked(dbc dbctx.Context, item *types.PendingItem) (Asked, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	q := transaction.WithContext(dbc.Ctx).Where("id = ?", item.ID)
	switch item.ItemType {
	case types.ItemQuestion:
		var a types.QAskedData
		if err := q.First(&a).Error; err != nil {
			return Asked{}, fmt.Errorf("q_asked_data %d: %w", item.ID, err)
		}
		return Asked{Question: &a}, nil
	case types.ItemExercise:
		var a types.EAskedData
		if err := q.First(&a).Error; err != nil {
			return Asked{}, fmt.Errorf("e_asked_data %d: %w", item.ID, err)
		}
		return Asked{Exercise: &a}, nil
	case types.ItemWord:
		var a types.WAskedData
		if err := q.First(&a).Error; err != nil {
			return Asked{}, fmt.Errorf("w_asked_data %d: %w", item.ID, err)
		}
		return Asked{Word: &a}, nil
	}
	return Asked{}, fmt.Errorf("pending item %d has unknown type %q", item.ID, item.ItemType)
}

func (r *pendingItemRepo) Resolve(dbc dbctx.Context, userID, id int64) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	res := transaction.WithContext(dbc.Ctx).
		Model(&types.PendingItem{}).
		Where("id = ? AND user_id = ? AND pending = ?", id, userID, true).
		Update("pending", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotPending
	}
	return nil
}

func (r *pendingItemRepo) CountPending(dbc dbctx.Context, userID int64) (int64, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var n int64
	err := transaction.WithContext(dbc.Ctx).
		Model(&types.PendingItem{}).
		Where("user_id = ? AND pending = ?", userID, true).
		Count(&n).Error
	return n, err
}
