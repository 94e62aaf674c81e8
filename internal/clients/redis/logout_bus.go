package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/accentdojo/accentdojo-backend/internal/platform/logger"
)

// LogoutEvent announces a session that must be rejected until Until.
type LogoutEvent struct {
	SessionID uuid.UUID `json:"session_id"`
	Until     time.Time `json:"until"`
}

// LogoutBus shares logouts between server instances.
type LogoutBus interface {
	Publish(ctx context.Context, ev LogoutEvent) error
	StartForwarder(ctx context.Context, onMsg func(ev LogoutEvent)) error
	Close() error
}

type logoutBus struct {
	log     *logger.Logger
	rdb     *goredis.Client
	channel string
}

func NewLogoutBus(log *logger.Logger, addr, channel string) (LogoutBus, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, fmt.Errorf("missing redis address")
	}
	if strings.TrimSpace(channel) == "" {
		channel = "logged_out"
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &logoutBus{
		log:     log.With("service", "RedisLogoutBus"),
		rdb:     rdb,
		channel: channel,
	}, nil
}

func (b *logoutBus) Publish(ctx context.Context, ev LogoutEvent) error {
	if b == nil || b.rdb == nil {
		return fmt.Errorf("redis logout bus not initialized")
	}
	raw, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return b.rdb.Publish(ctx, b.channel, raw).Err()
}

func (b *logoutBus) StartForwarder(ctx context.Context, onMsg func(ev LogoutEvent)) error {
	if b == nil || b.rdb == nil {
		return fmt.Errorf("redis logout bus not initialized")
	}
	if onMsg == nil {
		return fmt.Errorf("onMsg callback required")
	}

	sub := b.rdb.Subscribe(ctx, b.channel)

	// ensures subscription actually started
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("redis subscribe: %w", err)
	}

	go func() {
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				_ = sub.Close()
				return
			case m, ok := <-ch:
				if !ok || m == nil {
					_ = sub.Close()
					return
				}
				var ev LogoutEvent
				if err := json.Unmarshal([]byte(m.Payload), &ev); err != nil {
					b.log.Warn("bad redis logout payload", "error", err)
					continue
				}
				onMsg(ev)
			}
		}
	}()

	return nil
}

func (b *logoutBus) Close() error {
	if b == nil || b.rdb == nil {
		return nil
	}
	return b.rdb.Close()
}
