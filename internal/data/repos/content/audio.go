package content

import (
	"gorm.io/gorm"

	types "github.com/accentdojo/accentdojo-backend/internal/domain"
	"github.com/accentdojo/accentdojo-backend/internal/platform/dbctx"
	"github.com/accentdojo/accentdojo-backend/internal/platform/logger"
)

type AudioRepo interface {
	GetFile(dbc dbctx.Context, id int64) (*types.AudioFile, error)
	// ListPlayable returns the bundle's files whose narrator is published.
	ListPlayable(dbc dbctx.Context, bundleID int64) ([]*types.AudioFile, error)
}

type audioRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAudioRepo(db *gorm.DB, baseLog *logger.Logger) AudioRepo {
	return &audioRepo{db: db, log: baseLog.With("repo", "AudioRepo")}
}

func (r *audioRepo) GetFile(dbc dbctx.Context, id int64) (*types.AudioFile, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var f types.AudioFile
	if err := transaction.WithContext(dbc.Ctx).Where("id = ?", id).First(&f).Error; err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *audioRepo) ListPlayable(dbc dbctx.Context, bundleID int64) ([]*types.AudioFile, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.AudioFile
	err := transaction.WithContext(dbc.Ctx).
		Joins("JOIN narrator ON narrator.id = audio_file.narrator_id").
		Where("audio_file.bundle_id = ? AND narrator.published = ?", bundleID, true).
		Order("audio_file.id ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
