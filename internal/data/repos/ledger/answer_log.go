package ledger

import (
	"time"

	"gorm.io/gorm"

	types "github.com/accentdojo/accentdojo-backend/internal/domain"
	"github.com/accentdojo/accentdojo-backend/internal/platform/dbctx"
	"github.com/accentdojo/accentdojo-backend/internal/platform/logger"
)

// AnsweredCounts summarizes a user's answer log.
type AnsweredCounts struct {
	Words     int64 `json:"words"`
	Questions int64 `json:"questions"`
	Exercises int64 `json:"exercises"`
}

// AnswerLogRepo is append-only.
type AnswerLogRepo interface {
	AppendQuestion(dbc dbctx.Context, row *types.QAnsweredData) error
	AppendExercise(dbc dbctx.Context, row *types.EAnsweredData) error
	AppendWord(dbc dbctx.Context, row *types.WAnsweredData) error
	CountByUser(dbc dbctx.Context, userID int64, since time.Time) (AnsweredCounts, error)
}

type answerLogRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAnswerLogRepo(db *gorm.DB, baseLog *logger.Logger) AnswerLogRepo {
	return &answerLogRepo{db: db, log: baseLog.With("repo", "AnswerLogRepo")}
}

func (r *answerLogRepo) AppendQuestion(dbc dbctx.Context, row *types.QAnsweredData) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(dbc.Ctx).Create(row).Error
}

func (r *answerLogRepo) AppendExercise(dbc dbctx.Context, row *types.EAnsweredData) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(dbc.Ctx).Create(row).Error
}

func (r *answerLogRepo) AppendWord(dbc dbctx.Context, row *types.WAnsweredData) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(dbc.Ctx).Create(row).Error
}

func (r *answerLogRepo) CountByUser(dbc dbctx.Context, userID int64, since time.Time) (AnsweredCounts, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out AnsweredCounts
	count := func(table string, dst *int64) error {
		return transaction.WithContext(dbc.Ctx).
			Table(table).
			Joins("JOIN pending_item ON pending_item.id = "+table+".id").
			Where("pending_item.user_id = ? AND pending_item.asked_date >= ?", userID, since).
			Count(dst).Error
	}
	if err := count("w_answered_data", &out.Words); err != nil {
		return out, err
	}
	if err := count("q_answered_data", &out.Questions); err != nil {
		return out, err
	}
	if err := count("e_answered_data", &out.Exercises); err != nil {
		return out, err
	}
	return out, nil
}
