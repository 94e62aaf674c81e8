package testmode

import (
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/accentdojo/accentdojo-backend/internal/domain"
	"github.com/accentdojo/accentdojo-backend/internal/platform/dbctx"
	"github.com/accentdojo/accentdojo-backend/internal/platform/logger"
)

type EventRepo interface {
	GetByName(dbc dbctx.Context, name string) (*types.Event, error)
	// Ensure creates a published event when the name is new and returns the stored row.
	Ensure(dbc dbctx.Context, name string) (*types.Event, error)

	// Experience returns the user's progress row, creating it at position 0.
	Experience(dbc dbctx.Context, userID, eventID int64, now time.Time) (*types.EventExperience, error)
	Advance(dbc dbctx.Context, userID, eventID int64) error
	Finish(dbc dbctx.Context, userID, eventID int64, at time.Time) error

	AppendUserdata(dbc dbctx.Context, userID, eventID int64, key string, data datatypes.JSON, at time.Time) error
	ListUserdata(dbc dbctx.Context, userID, eventID int64) ([]*types.EventUserdata, error)
}

type eventRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEventRepo(db *gorm.DB, baseLog *logger.Logger) EventRepo {
	return &eventRepo{db: db, log: baseLog.With("repo", "EventRepo")}
}

func (r *eventRepo) GetByName(dbc dbctx.Context, name string) (*types.Event, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var ev types.Event
	if err := transaction.WithContext(dbc.Ctx).Where("name = ?", name).First(&ev).Error; err != nil {
		return nil, err
	}
	return &ev, nil
}

func (r *eventRepo) Ensure(dbc dbctx.Context, name string) (*types.Event, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	ev := &types.Event{Name: name, Published: true}
	if err := transaction.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
		Create(ev).Error; err != nil {
		return nil, err
	}
	return r.GetByName(dbc, name)
}

func (r *eventRepo) Experience(dbc dbctx.Context, userID, eventID int64, now time.Time) (*types.EventExperience, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var exp types.EventExperience
	err := transaction.WithContext(dbc.Ctx).Where("user_id = ? AND event_id = ?", userID, eventID).First(&exp).Error
	if err == nil {
		return &exp, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	exp = types.EventExperience{UserID: userID, EventID: eventID, EventInit: now}
	if err := transaction.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&exp).Error; err != nil {
		return nil, err
	}
	if err := transaction.WithContext(dbc.Ctx).Where("user_id = ? AND event_id = ?", userID, eventID).First(&exp).Error; err != nil {
		return nil, err
	}
	return &exp, nil
}

func (r *eventRepo) Advance(dbc dbctx.Context, userID, eventID int64) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(dbc.Ctx).
		Model(&types.EventExperience{}).
		Where("user_id = ? AND event_id = ?", userID, eventID).
		Update("position", gorm.Expr("position + 1")).Error
}

func (r *eventRepo) Finish(dbc dbctx.Context, userID, eventID int64, at time.Time) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(dbc.Ctx).
		Model(&types.EventExperience{}).
		Where("user_id = ? AND event_id = ? AND event_finish IS NULL", userID, eventID).
		Update("event_finish", at).Error
}

func (r *eventRepo) AppendUserdata(dbc dbctx.Context, userID, eventID int64, key string, data datatypes.JSON, at time.Time) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(dbc.Ctx).Create(&types.EventUserdata{
		UserID:  userID,
		EventID: eventID,
		Key:     key,
		Data:    data,
		Created: at,
	}).Error
}

func (r *eventRepo) ListUserdata(dbc dbctx.Context, userID, eventID int64) ([]*types.EventUserdata, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.EventUserdata
	if err := transaction.WithContext(dbc.Ctx).
		Where("user_id = ? AND event_id = ?", userID, eventID).
		Order("id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
