package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/accentdojo/accentdojo-backend/internal/clients/redis"
	"github.com/accentdojo/accentdojo-backend/internal/platform/logger"
)

type fakeBus struct {
	mu        sync.Mutex
	published []redis.LogoutEvent
	onMsg     func(redis.LogoutEvent)
	failWith  error
}

func (b *fakeBus) Publish(_ context.Context, ev redis.LogoutEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.published = append(b.published, ev)
	return b.failWith
}

func (b *fakeBus) StartForwarder(_ context.Context, onMsg func(redis.LogoutEvent)) error {
	b.onMsg = onMsg
	return nil
}

func (b *fakeBus) Close() error { return nil }

func TestLoggedOutExpiry(t *testing.T) {
	now := time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)
	l := New(logger.Nop(), nil, time.Minute)
	id := uuid.New()

	l.LoggedOut.Add(context.Background(), id, now.Add(time.Hour))
	if !l.LoggedOut.Contains(id, now) {
		t.Fatal("logged-out session not found")
	}
	if l.LoggedOut.Contains(uuid.New(), now) {
		t.Fatal("unknown session reported as logged out")
	}

	l.ExpireDue(now.Add(30 * time.Minute))
	if l.LoggedOut.Len() != 1 {
		t.Fatal("entry expired early")
	}
	l.ExpireDue(now.Add(time.Hour))
	if l.LoggedOut.Len() != 0 || l.LoggedOut.Contains(id, now) {
		t.Fatal("entry survived its expiry")
	}
}

func TestLoggedOutMirrorsBus(t *testing.T) {
	now := time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)
	bus := &fakeBus{failWith: errors.New("down")}
	c := NewLoggedOut(logger.Nop(), bus)
	if err := c.Listen(context.Background()); err != nil {
		t.Fatalf("Listen: %v", err)
	}

	local := uuid.New()
	c.Add(context.Background(), local, now.Add(time.Hour))
	if len(bus.published) != 1 || bus.published[0].SessionID != local {
		t.Fatalf("logout not published: %+v", bus.published)
	}
	if !c.Contains(local, now) {
		t.Fatal("publish failure must not lose the local entry")
	}

	remote := uuid.New()
	bus.onMsg(redis.LogoutEvent{SessionID: remote, Until: now.Add(time.Minute)})
	if !c.Contains(remote, now) {
		t.Fatal("remote logout not mirrored")
	}
}

func TestTempAudio(t *testing.T) {
	now := time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)
	l := New(logger.Nop(), nil, time.Minute)
	l.TempAudio.Put("12.mp3", []byte("ID3"), now)

	if b, ok := l.TempAudio.Get("12.mp3", now.Add(59*time.Second)); !ok || string(b) != "ID3" {
		t.Fatal("fresh entry missing")
	}
	if _, ok := l.TempAudio.Get("12.mp3", now.Add(time.Minute)); ok {
		t.Fatal("stale entry served")
	}
	l.ExpireDue(now.Add(time.Minute))
	if _, ok := l.TempAudio.entries["12.mp3"]; ok {
		t.Fatal("stale entry not removed")
	}
}
