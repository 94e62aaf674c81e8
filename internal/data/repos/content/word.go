package content

import (
	"gorm.io/gorm"

	types "github.com/accentdojo/accentdojo-backend/internal/domain"
	"github.com/accentdojo/accentdojo-backend/internal/platform/dbctx"
	"github.com/accentdojo/accentdojo-backend/internal/platform/logger"
)

type WordRepo interface {
	GetByID(dbc dbctx.Context, id int64) (*types.Word, error)
	GetByIDs(dbc dbctx.Context, ids []int64) ([]*types.Word, error)
	GetByText(dbc dbctx.Context, word string) (*types.Word, error)
	// ListNotYetAsked returns published words never offered to the user
	// outside of test mode, ordered by id.
	ListNotYetAsked(dbc dbctx.Context, userID int64, limit int) ([]*types.Word, error)
}

type wordRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewWordRepo(db *gorm.DB, baseLog *logger.Logger) WordRepo {
	return &wordRepo{db: db, log: baseLog.With("repo", "WordRepo")}
}

func (r *wordRepo) GetByID(dbc dbctx.Context, id int64) (*types.Word, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var w types.Word
	if err := transaction.WithContext(dbc.Ctx).Where("id = ?", id).First(&w).Error; err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *wordRepo) GetByIDs(dbc dbctx.Context, ids []int64) ([]*types.Word, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.Word
	if len(ids) == 0 {
		return out, nil
	}
	if err := transaction.WithContext(dbc.Ctx).Where("id IN ?", ids).Order("id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *wordRepo) GetByText(dbc dbctx.Context, word string) (*types.Word, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var w types.Word
	if err := transaction.WithContext(dbc.Ctx).Where("word = ?", word).Order("id ASC").First(&w).Error; err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *wordRepo) ListNotYetAsked(dbc dbctx.Context, userID int64, limit int) ([]*types.Word, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if limit <= 0 {
		limit = 5
	}
	asked := transaction.
		Table("w_asked_data").
		Select("w_asked_data.word_id").
		Joins("JOIN pending_item ON pending_item.id = w_asked_data.id").
		Where("pending_item.user_id = ? AND pending_item.test_item = ?", userID, false)

	var out []*types.Word
	err := transaction.WithContext(dbc.Ctx).
		Where("published = ?", true).
		Where("id NOT IN (?)", asked).
		Order("id ASC").
		Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
