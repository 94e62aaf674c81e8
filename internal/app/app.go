package app

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/accentdojo/accentdojo-backend/internal/data/db"
	"github.com/accentdojo/accentdojo-backend/internal/http"
	"github.com/accentdojo/accentdojo-backend/internal/observability"
	"github.com/accentdojo/accentdojo-backend/internal/platform/logger"
)

const shutdownTimeout = 15 * time.Second

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Server   *http.Server
	Cfg      Config
	Repos    Repos
	Clients  Clients
	Services Services

	dbService    *db.DatabaseService
	otelShutdown func(context.Context) error
}

func New(ctx context.Context) (*App, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	log.Info("Configuration loaded",
		"db_driver", cfg.DatabaseDriver,
		"binding", cfg.ServerBinding,
		"threads", cfg.ServerThreads,
		"image_dir", cfg.ImageDir,
		"nag_grace", cfg.NagGrace.String(),
		"paranoid", cfg.Paranoid,
	)

	otelShutdown := observability.InitOTel(ctx, log, cfg.Otel)
	observability.Init(cfg.MetricsEnabled, 0)

	dbService, err := db.NewDatabaseService(log, db.Options{
		Driver:   cfg.DatabaseDriver,
		URL:      cfg.DatabaseURL,
		PoolSize: cfg.DBPoolSize,
	})
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init database: %w", err)
	}
	theDB := dbService.DB()
	if err := db.AutoMigrateAll(theDB); err != nil {
		log.Sync()
		return nil, fmt.Errorf("automigrate: %w", err)
	}
	if err := db.EnsureQuizIndexes(theDB); err != nil {
		log.Sync()
		return nil, fmt.Errorf("quiz indexes: %w", err)
	}

	clients, err := wireClients(log, cfg)
	if err != nil {
		_ = dbService.Close()
		log.Sync()
		return nil, err
	}
	reposet := wireRepos(theDB, log)
	serviceset, err := wireServices(ctx, theDB, log, cfg, reposet, clients)
	if err != nil {
		clients.Close()
		_ = dbService.Close()
		log.Sync()
		return nil, err
	}
	handlerset := wireHandlers(theDB, log, cfg, serviceset)
	middleware := wireMiddleware(log, cfg, serviceset)
	server := wireServer(log, cfg, handlerset, middleware)

	return &App{
		Log:          log,
		DB:           theDB,
		Server:       server,
		Cfg:          cfg,
		Repos:        reposet,
		Clients:      clients,
		Services:     serviceset,
		dbService:    dbService,
		otelShutdown: otelShutdown,
	}, nil
}

// Run serves HTTP and runs the background tasks until ctx is cancelled or
// one of them fails.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	g, gctx := errgroup.WithContext(ctx)

	metrics := observability.Current()
	metrics.StartDBCollector(gctx, a.Log, a.DB)
	metrics.StartRedisCollector(gctx, a.Log, a.Cfg.RedisAddr)

	g.Go(func() error {
		return a.Server.Run(gctx, a.Cfg.ServerBinding, shutdownTimeout)
	})
	g.Go(func() error {
		return a.Services.Janitor.Run(gctx)
	})
	g.Go(func() error {
		if err := a.Services.Caches.LoggedOut.Listen(gctx); err != nil {
			return fmt.Errorf("logged-out listener: %w", err)
		}
		return nil
	})
	return g.Wait()
}

func (a *App) Close() {
	if a == nil {
		return
	}
	a.Clients.Close()
	if a.otelShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_ = a.otelShutdown(ctx)
		cancel()
	}
	if a.dbService != nil {
		_ = a.dbService.Close()
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
