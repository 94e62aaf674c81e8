package cache

import (
	"sync"
	"time"
)

type tempEntry struct {
	data    []byte
	expires time.Time
}

// TempAudio holds short-lived audio blobs, e.g. files fetched from the
// bucket, keyed by file name.
type TempAudio struct {
	mu      sync.RWMutex
	entries map[string]tempEntry
	ttl     time.Duration
}

func NewTempAudio(ttl time.Duration) *TempAudio {
	return &TempAudio{entries: make(map[string]tempEntry), ttl: ttl}
}

func (c *TempAudio) Put(key string, data []byte, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = tempEntry{data: data, expires: now.Add(c.ttl)}
}

func (c *TempAudio) Get(key string, now time.Time) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	if !ok || !now.Before(e.expires) {
		return nil, false
	}
	return e.data, true
}

func (c *TempAudio) expire(now time.Time) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for k, e := range c.entries {
		if !now.Before(e.expires) {
			delete(c.entries, k)
			n++
		}
	}
	return n
}
