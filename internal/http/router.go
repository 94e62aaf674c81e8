package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/accentdojo/accentdojo-backend/internal/http/handlers"
	httpMW "github.com/accentdojo/accentdojo-backend/internal/http/middleware"
	"github.com/accentdojo/accentdojo-backend/internal/observability"
	"github.com/accentdojo/accentdojo-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	ServiceName    string
	SiteLink       string
	RequestTimeout time.Duration
	Metrics        *observability.Metrics

	AuthHandler     *httpH.AuthHandler
	AuthMiddleware  *httpMW.AuthMiddleware
	QuizHandler     *httpH.QuizHandler
	AudioHandler    *httpH.AudioHandler
	TestModeHandler *httpH.TestModeHandler

	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.SiteLink))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapF(cfg.Metrics.WriteHTTP))
	}

	api := r.Group("/api")
	api.Use(httpMW.AttachRequestContext(cfg.RequestTimeout))
	api.Use(httpMW.CSRF(cfg.SiteLink))
	{
		// Auth (public)
		if cfg.AuthHandler != nil {
			api.POST("/login", cfg.AuthHandler.Login)
		}
	}

	protected := api.Group("/")
	{
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireSession())
		}

		if cfg.AuthHandler != nil {
			protected.POST("/logout", cfg.AuthHandler.Logout)
		}

		// Quiz
		if cfg.QuizHandler != nil {
			protected.GET("/new_quiz", cfg.QuizHandler.NewQuiz)
			protected.POST("/next_quiz", cfg.QuizHandler.NextQuiz)
			protected.GET("/me/metrics", cfg.QuizHandler.Metrics)
		}

		// Audio
		if cfg.AudioHandler != nil {
			protected.GET("/audio/:file", cfg.AudioHandler.Serve)
		}

		// Test mode
		if cfg.TestModeHandler != nil {
			protected.GET("/test/:event/next", cfg.TestModeHandler.Next)
			protected.POST("/test/:event/answer", cfg.TestModeHandler.Answer)
		}
	}

	return r
}
