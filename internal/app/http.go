package app

import (
	"gorm.io/gorm"

	"github.com/accentdojo/accentdojo-backend/internal/http"
	httpH "github.com/accentdojo/accentdojo-backend/internal/http/handlers"
	httpMW "github.com/accentdojo/accentdojo-backend/internal/http/middleware"
	"github.com/accentdojo/accentdojo-backend/internal/observability"
	"github.com/accentdojo/accentdojo-backend/internal/platform/logger"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health   *httpH.HealthHandler
	Auth     *httpH.AuthHandler
	Quiz     *httpH.QuizHandler
	Audio    *httpH.AudioHandler
	TestMode *httpH.TestModeHandler
}

func sessionCookie(cfg Config) httpMW.SessionCookie {
	return httpMW.SessionCookie{Domain: cfg.SiteDomain, Secure: cfg.Paranoid}
}

func wireHandlers(db *gorm.DB, log *logger.Logger, cfg Config, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:   httpH.NewHealthHandler(db),
		Auth:     httpH.NewAuthHandler(log, services.Auth, sessionCookie(cfg)),
		Quiz:     httpH.NewQuizHandler(log, services.Engine),
		Audio:    httpH.NewAudioHandler(log, services.Audio, cfg.CacheMaxAge),
		TestMode: httpH.NewTestModeHandler(log, services.TestMode),
	}
}

func wireMiddleware(log *logger.Logger, cfg Config, services Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, services.Auth, sessionCookie(cfg)),
	}
}

func wireServer(log *logger.Logger, cfg Config, handlers Handlers, middleware Middleware) *http.Server {
	serviceName := ""
	if cfg.Otel.Enabled {
		serviceName = cfg.Otel.ServiceName
	}
	return http.NewServer(http.RouterConfig{
		Log:             log,
		ServiceName:     serviceName,
		SiteLink:        cfg.SiteLink,
		RequestTimeout:  cfg.RequestTimeout,
		Metrics:         observability.Current(),
		HealthHandler:   handlers.Health,
		AuthHandler:     handlers.Auth,
		AuthMiddleware:  middleware.Auth,
		QuizHandler:     handlers.Quiz,
		AudioHandler:    handlers.Audio,
		TestModeHandler: handlers.TestMode,
	})
}
