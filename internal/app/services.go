package app

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/accentdojo/accentdojo-backend/internal/cache"
	"github.com/accentdojo/accentdojo-backend/internal/jobs/janitor"
	"github.com/accentdojo/accentdojo-backend/internal/modules/quiz"
	"github.com/accentdojo/accentdojo-backend/internal/modules/testmode"
	"github.com/accentdojo/accentdojo-backend/internal/platform/logger"
	"github.com/accentdojo/accentdojo-backend/internal/platform/mail"
	"github.com/accentdojo/accentdojo-backend/internal/services"
)

type Services struct {
	Caches    *cache.Lifecycle
	MailQueue *mail.Queue

	Auth  services.AuthService
	Audio services.AudioService

	Engine   *quiz.Engine
	TestMode testmode.Usecases

	Janitor *janitor.Janitor
}

func wireServices(ctx context.Context, db *gorm.DB, log *logger.Logger, cfg Config, reposet Repos, clients Clients) (Services, error) {
	log.Info("Wiring services...")

	caches := cache.New(log, clients.LogoutBus, cfg.TempAudioTTL)
	mailQueue := mail.NewQueue()

	authService := services.NewAuthService(db, log, reposet.User, reposet.Session, caches.LoggedOut, services.AuthConfig{
		CookieKey:  cfg.CookieKey,
		Pepper:     cfg.RuntimePepper,
		SessionTTL: cfg.SessionTTL,
	})

	var audioBuffer *cache.TempAudio
	if clients.Remote {
		audioBuffer = caches.TempAudio
	}
	audioService := services.NewAudioService(db, log, reposet.Audio, clients.Bucket, audioBuffer)

	engine := quiz.NewEngine(quiz.EngineDeps{
		DB:          db,
		Log:         log,
		Words:       reposet.Word,
		Questions:   reposet.Question,
		Exercises:   reposet.Exercise,
		Audio:       reposet.Audio,
		Due:         reposet.DueItem,
		Skills:      reposet.SkillData,
		Metrics:     reposet.UserMetrics,
		Pending:     reposet.PendingItem,
		Answers:     reposet.AnswerLog,
		Users:       reposet.User,
		OutputGroup: cfg.OutputGroup,
	})

	sequences := map[string][]testmode.Step{}
	if cfg.TestModeManifest != "" {
		manifest, seqs, err := testmode.LoadManifest(cfg.TestModeManifest)
		if err != nil {
			return Services{}, fmt.Errorf("load test mode manifest: %w", err)
		}
		sequences = seqs
		log.Info("Test mode manifest loaded", "path", cfg.TestModeManifest, "events", len(manifest.Events))
	}
	testModeUsecases := testmode.New(testmode.UsecasesDeps{
		DB:        db,
		Log:       log,
		Engine:    engine,
		Events:    reposet.Event,
		Words:     reposet.Word,
		Sequences: sequences,
	})
	if err := testModeUsecases.SyncEvents(ctx); err != nil {
		return Services{}, fmt.Errorf("sync test mode events: %w", err)
	}

	sweeper := janitor.New(janitor.Deps{
		DB:            db,
		Log:           log,
		Sessions:      reposet.Session,
		Confirmations: reposet.EmailConfirmation,
		Caches:        caches,
		MailQueue:     mailQueue,
		Mailer:        clients.Mailer,
	})

	return Services{
		Caches:    caches,
		MailQueue: mailQueue,
		Auth:      authService,
		Audio:     audioService,
		Engine:    engine,
		TestMode:  testModeUsecases,
		Janitor:   sweeper,
	}, nil
}
