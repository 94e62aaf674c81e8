package cache

import (
	"time"

	"github.com/accentdojo/accentdojo-backend/internal/clients/redis"
	"github.com/accentdojo/accentdojo-backend/internal/platform/logger"
)

// Lifecycle owns the process-wide caches.
type Lifecycle struct {
	LoggedOut *LoggedOut
	TempAudio *TempAudio
	log       *logger.Logger
}

// New builds the caches. bus may be nil for a single instance.
func New(log *logger.Logger, bus redis.LogoutBus, audioTTL time.Duration) *Lifecycle {
	return &Lifecycle{
		LoggedOut: NewLoggedOut(log, bus),
		TempAudio: NewTempAudio(audioTTL),
		log:       log.With("service", "CacheLifecycle"),
	}
}

// ExpireDue drops every entry that expired at or before now.
func (l *Lifecycle) ExpireDue(now time.Time) {
	sessions := l.LoggedOut.expire(now)
	audio := l.TempAudio.expire(now)
	if sessions+audio > 0 {
		l.log.Debug("expired cache entries", "logged_out", sessions, "temp_audio", audio)
	}
}
