package user

import (
	"context"
	"time"

	"gorm.io/gorm"

	types "github.com/accentdojo/accentdojo-backend/internal/domain"
	"github.com/accentdojo/accentdojo-backend/internal/platform/logger"
)

type EmailConfirmationRepo interface {
	Create(ctx context.Context, tx *gorm.DB, ec *types.EmailConfirmation) error
	DeleteExpired(ctx context.Context, tx *gorm.DB, now time.Time) (int64, error)
}

type emailConfirmationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEmailConfirmationRepo(db *gorm.DB, baseLog *logger.Logger) EmailConfirmationRepo {
	return &emailConfirmationRepo{db: db, log: baseLog.With("repo", "EmailConfirmationRepo")}
}

func (er *emailConfirmationRepo) Create(ctx context.Context, tx *gorm.DB, ec *types.EmailConfirmation) error {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}
	return transaction.WithContext(ctx).Create(ec).Error
}

func (er *emailConfirmationRepo) DeleteExpired(ctx context.Context, tx *gorm.DB, now time.Time) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}
	res := transaction.WithContext(ctx).Where("expires_at < ?", now).Delete(&types.EmailConfirmation{})
	return res.RowsAffected, res.Error
}
