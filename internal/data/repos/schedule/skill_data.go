package schedule

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/accentdojo/accentdojo-backend/internal/domain"
	"github.com/accentdojo/accentdojo-backend/internal/platform/dbctx"
	"github.com/accentdojo/accentdojo-backend/internal/platform/logger"
)

type SkillDataRepo interface {
	// GetLevel returns 0 for a nugget the user has never touched.
	GetLevel(dbc dbctx.Context, userID, nuggetID int64) (int, error)
	// Bump adds by (>0) to the level, creating the row on first use.
	Bump(dbc dbctx.Context, userID, nuggetID int64, by int) error
	ListByUser(dbc dbctx.Context, userID int64) ([]*types.SkillData, error)
}

type skillDataRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSkillDataRepo(db *gorm.DB, baseLog *logger.Logger) SkillDataRepo {
	return &skillDataRepo{db: db, log: baseLog.With("repo", "SkillDataRepo")}
}

func (r *skillDataRepo) GetLevel(dbc dbctx.Context, userID, nuggetID int64) (int, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var row types.SkillData
	err := transaction.WithContext(dbc.Ctx).
		Where("user_id = ? AND skill_nugget = ?", userID, nuggetID).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return row.SkillLevel, nil
}

func (r *skillDataRepo) Bump(dbc dbctx.Context, userID, nuggetID int64, by int) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if by <= 0 {
		return nil
	}
	row := types.SkillData{UserID: userID, SkillNuggetID: nuggetID, SkillLevel: by}
	return transaction.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "skill_nugget"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"skill_level": gorm.Expr("skill_data.skill_level + ?", by),
			}),
		}).
		Create(&row).Error
}

func (r *skillDataRepo) ListByUser(dbc dbctx.Context, userID int64) ([]*types.SkillData, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.SkillData
	if err := transaction.WithContext(dbc.Ctx).Where("user_id = ?", userID).Order("skill_nugget ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
