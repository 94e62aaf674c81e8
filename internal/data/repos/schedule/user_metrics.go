package schedule

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/accentdojo/accentdojo-backend/internal/domain"
	schedDomain "github.com/accentdojo/accentdojo-backend/internal/domain/schedule"
	"github.com/accentdojo/accentdojo-backend/internal/platform/dbctx"
	"github.com/accentdojo/accentdojo-backend/internal/platform/logger"
)

type UserMetricsRepo interface {
	// GetOrCreateForUpdate loads the user's metrics row, creating it with
	// defaults when missing, and locks it for the rest of the transaction.
	GetOrCreateForUpdate(dbc dbctx.Context, userID int64, now time.Time) (*types.UserMetrics, error)
	Save(dbc dbctx.Context, m *types.UserMetrics) error
}

type userMetricsRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserMetricsRepo(db *gorm.DB, baseLog *logger.Logger) UserMetricsRepo {
	return &userMetricsRepo{db: db, log: baseLog.With("repo", "UserMetricsRepo")}
}

func (r *userMetricsRepo) GetOrCreateForUpdate(dbc dbctx.Context, userID int64, now time.Time) (*types.UserMetrics, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var m types.UserMetrics
	err := forUpdate(transaction.WithContext(dbc.Ctx)).Where("user_id = ?", userID).First(&m).Error
	if err == nil {
		return &m, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	fresh := schedDomain.DefaultMetrics(userID, now)
	if err := transaction.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(fresh).Error; err != nil {
		return nil, err
	}
	if err := forUpdate(transaction.WithContext(dbc.Ctx)).Where("user_id = ?", userID).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *userMetricsRepo) Save(dbc dbctx.Context, m *types.UserMetrics) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if m == nil || m.UserID == 0 {
		return errors.New("save metrics: missing user id")
	}
	return transaction.WithContext(dbc.Ctx).Save(m).Error
}
