package user

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/accentdojo/accentdojo-backend/internal/domain"
	"github.com/accentdojo/accentdojo-backend/internal/platform/logger"
)

type SessionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, s *types.Session) error
	// Get returns (nil, nil) for an unknown session id.
	Get(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Session, error)
	Refresh(ctx context.Context, tx *gorm.DB, id uuid.UUID, lastSeen, expiresAt time.Time) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	DeleteExpired(ctx context.Context, tx *gorm.DB, now time.Time) (int64, error)
}

type sessionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSessionRepo(db *gorm.DB, baseLog *logger.Logger) SessionRepo {
	return &sessionRepo{db: db, log: baseLog.With("repo", "SessionRepo")}
}

func (sr *sessionRepo) Create(ctx context.Context, tx *gorm.DB, s *types.Session) error {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return transaction.WithContext(ctx).Create(s).Error
}

func (sr *sessionRepo) Get(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Session, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	var s types.Session
	err := transaction.WithContext(ctx).Where("id = ?", id).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (sr *sessionRepo) Refresh(ctx context.Context, tx *gorm.DB, id uuid.UUID, lastSeen, expiresAt time.Time) error {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Session{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"last_seen":  lastSeen,
			"expires_at": expiresAt,
		}).Error
}

func (sr *sessionRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	return transaction.WithContext(ctx).Where("id = ?", id).Delete(&types.Session{}).Error
}

func (sr *sessionRepo) DeleteExpired(ctx context.Context, tx *gorm.DB, now time.Time) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	res := transaction.WithContext(ctx).Where("expires_at < ?", now).Delete(&types.Session{})
	return res.RowsAffected, res.Error
}
