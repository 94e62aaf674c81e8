package app

import (
	"fmt"

	"github.com/accentdojo/accentdojo-backend/internal/clients/redis"
	"github.com/accentdojo/accentdojo-backend/internal/platform/gcp"
	"github.com/accentdojo/accentdojo-backend/internal/platform/logger"
	"github.com/accentdojo/accentdojo-backend/internal/platform/mail"
)

type Clients struct {
	LogoutBus redis.LogoutBus
	Bucket    gcp.BucketService
	// Remote is true when audio comes from a bucket rather than AUDIO_DIR.
	Remote bool
	Mailer mail.Sender
}

func wireClients(log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")

	// Redis
	var bus redis.LogoutBus
	if cfg.RedisAddr != "" {
		b, err := redis.NewLogoutBus(log, cfg.RedisAddr, "")
		if err != nil {
			return Clients{}, fmt.Errorf("init redis logout bus: %w", err)
		}
		bus = b
	}

	// Audio storage
	bucket, storageCfg, err := resolveBucketService(log, cfg)
	if err != nil {
		if bus != nil {
			_ = bus.Close()
		}
		return Clients{}, err
	}

	// Mail
	var mailer mail.Sender
	if cfg.SMTP.Server != "" {
		mailer = mail.NewSMTPSender(cfg.SMTP)
	} else {
		log.Warn("SMTP_SERVER not set; outgoing mail is logged only")
		mailer = mail.NewLogSender(log)
	}

	return Clients{
		LogoutBus: bus,
		Bucket:    bucket,
		Remote:    storageCfg.Mode != gcp.ObjectStorageModeLocal,
		Mailer:    mailer,
	}, nil
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.LogoutBus != nil {
		_ = c.LogoutBus.Close()
	}
	if c.Bucket != nil {
		_ = c.Bucket.Close()
	}
}
