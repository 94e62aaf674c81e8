package cache

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/accentdojo/accentdojo-backend/internal/clients/redis"
	"github.com/accentdojo/accentdojo-backend/internal/platform/logger"
)

// LoggedOut remembers sessions that were logged out but whose tokens have
// not expired yet.
type LoggedOut struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]time.Time
	bus     redis.LogoutBus
	log     *logger.Logger
}

func NewLoggedOut(log *logger.Logger, bus redis.LogoutBus) *LoggedOut {
	return &LoggedOut{
		entries: make(map[uuid.UUID]time.Time),
		bus:     bus,
		log:     log.With("cache", "LoggedOut"),
	}
}

// Add records sessionID until its token would expire anyway and announces
// it to other instances when a bus is configured.
func (c *LoggedOut) Add(ctx context.Context, sessionID uuid.UUID, until time.Time) {
	c.put(sessionID, until)
	if c.bus == nil {
		return
	}
	if err := c.bus.Publish(ctx, redis.LogoutEvent{SessionID: sessionID, Until: until}); err != nil {
		c.log.Warn("publish logout failed", "session_id", sessionID.String(), "error", err)
	}
}

func (c *LoggedOut) put(sessionID uuid.UUID, until time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if cur, ok := c.entries[sessionID]; !ok || until.After(cur) {
		c.entries[sessionID] = until
	}
}

func (c *LoggedOut) Contains(sessionID uuid.UUID, now time.Time) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	until, ok := c.entries[sessionID]
	return ok && now.Before(until)
}

func (c *LoggedOut) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *LoggedOut) expire(now time.Time) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for id, until := range c.entries {
		if !now.Before(until) {
			delete(c.entries, id)
			n++
		}
	}
	return n
}

// Listen mirrors logouts published by other instances until ctx ends.
func (c *LoggedOut) Listen(ctx context.Context) error {
	if c.bus == nil {
		return nil
	}
	return c.bus.StartForwarder(ctx, func(ev redis.LogoutEvent) {
		c.put(ev.SessionID, ev.Until)
	})
}
