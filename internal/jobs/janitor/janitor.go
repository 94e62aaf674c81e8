package janitor

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/accentdojo/accentdojo-backend/internal/cache"
	"github.com/accentdojo/accentdojo-backend/internal/data/repos"
	"github.com/accentdojo/accentdojo-backend/internal/observability"
	"github.com/accentdojo/accentdojo-backend/internal/platform/logger"
	"github.com/accentdojo/accentdojo-backend/internal/platform/mail"
)

const DefaultInterval = 5 * time.Second

type Deps struct {
	DB            *gorm.DB
	Log           *logger.Logger
	Sessions      repos.SessionRepo
	Confirmations repos.EmailConfirmationRepo
	Caches        *cache.Lifecycle
	MailQueue     *mail.Queue
	Mailer        mail.Sender

	Interval time.Duration
	Now      func() time.Time
}

// Janitor periodically removes expired rows and cache entries and flushes
// queued mail. A failing step is logged and the loop carries on.
type Janitor struct {
	deps Deps
	log  *logger.Logger
}

func New(deps Deps) *Janitor {
	if deps.Interval <= 0 {
		deps.Interval = DefaultInterval
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Janitor{deps: deps, log: deps.Log.With("component", "Janitor")}
}

func (j *Janitor) Run(ctx context.Context) error {
	ticker := time.NewTicker(j.deps.Interval)
	defer ticker.Stop()
	j.log.Info("Janitor started", "interval", j.deps.Interval.String())

	for {
		select {
		case <-ctx.Done():
			j.log.Info("Janitor stopped")
			return nil
		case <-ticker.C:
			j.Sweep(ctx)
		}
	}
}

// Sweep runs one pass.
func (j *Janitor) Sweep(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			j.log.Error("Janitor sweep panic", "panic", r)
		}
	}()
	now := j.deps.Now().UTC()

	if j.deps.Sessions != nil {
		n, err := j.deps.Sessions.DeleteExpired(ctx, nil, now)
		if err != nil {
			j.log.Warn("Delete expired sessions failed", "error", err)
		} else if n > 0 {
			observability.Current().AddSessionsExpired(n)
			j.log.Debug("Deleted expired sessions", "count", n)
		}
	}

	if j.deps.Confirmations != nil {
		if n, err := j.deps.Confirmations.DeleteExpired(ctx, nil, now); err != nil {
			j.log.Warn("Delete expired email confirmations failed", "error", err)
		} else if n > 0 {
			j.log.Debug("Deleted expired email confirmations", "count", n)
		}
	}

	if j.deps.Caches != nil {
		j.deps.Caches.ExpireDue(now)
	}

	if j.deps.MailQueue != nil && j.deps.Mailer != nil && j.deps.MailQueue.Len() > 0 {
		if err := mail.Flush(ctx, j.deps.MailQueue, j.deps.Mailer); err != nil {
			j.log.Warn("Mail flush failed", "error", err, "queued", j.deps.MailQueue.Len())
		}
	}
}
