package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/accentdojo/accentdojo-backend/internal/cache"
	"github.com/accentdojo/accentdojo-backend/internal/data/repos"
	"github.com/accentdojo/accentdojo-backend/internal/platform/apierr"
	"github.com/accentdojo/accentdojo-backend/internal/platform/dbctx"
	"github.com/accentdojo/accentdojo-backend/internal/platform/gcp"
	"github.com/accentdojo/accentdojo-backend/internal/platform/logger"
)

type AudioObject struct {
	Body        io.ReadCloser
	Size        int64
	ContentType string
}

type AudioService interface {
	Open(ctx context.Context, fileID int64) (*AudioObject, error)
}

type audioService struct {
	db        *gorm.DB
	log       *logger.Logger
	audioRepo repos.AudioRepo
	bucket    gcp.BucketService
	// buffer is set for remote backends; local files are streamed directly.
	buffer *cache.TempAudio
	now    func() time.Time
}

func NewAudioService(
	db *gorm.DB,
	log *logger.Logger,
	audioRepo repos.AudioRepo,
	bucket gcp.BucketService,
	buffer *cache.TempAudio,
) AudioService {
	return &audioService{
		db:        db,
		log:       log.With("service", "AudioService"),
		audioRepo: audioRepo,
		bucket:    bucket,
		buffer:    buffer,
		now:       time.Now,
	}
}

func (s *audioService) Open(ctx context.Context, fileID int64) (*AudioObject, error) {
	file, err := s.audioRepo.GetFile(dbctx.Context{Ctx: ctx}, fileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("audio file %d", fileID)
		}
		return nil, fmt.Errorf("load audio file %d: %w", fileID, err)
	}
	if file == nil {
		return nil, apierr.NotFound("audio file %d", fileID)
	}
	mime := file.Mime
	if mime == "" {
		mime = "audio/mpeg"
	}

	key := strconv.FormatInt(file.ID, 10)
	if s.buffer != nil {
		if data, ok := s.buffer.Get(key, s.now()); ok {
			return &AudioObject{Body: io.NopCloser(bytes.NewReader(data)), Size: int64(len(data)), ContentType: mime}, nil
		}
	}

	rc, attrs, err := s.bucket.DownloadFile(ctx, file.File)
	if errors.Is(err, gcp.ErrObjectNotFound) {
		s.log.Error("Audio object missing", "audio_file_id", file.ID, "key", file.File)
		return nil, apierr.DataIntegrity("audio file %d has no stored object", file.ID)
	}
	if err != nil {
		return nil, fmt.Errorf("download audio %d: %w", file.ID, err)
	}

	if s.buffer == nil {
		return &AudioObject{Body: rc, Size: attrs.Size, ContentType: mime}, nil
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read audio %d: %w", file.ID, err)
	}
	s.buffer.Put(key, data, s.now())
	return &AudioObject{Body: io.NopCloser(bytes.NewReader(data)), Size: int64(len(data)), ContentType: mime}, nil
}
