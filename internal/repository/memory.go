package repository

import (
	"context"
	"sync"
	"time"
)

type attemptEntry struct {
	count     int
	expiresAt time.Time
}

// MemoryAttemptLimiter is the in-process AttemptLimiter used without redis or while redis is down.
type MemoryAttemptLimiter struct {
	mu      sync.Mutex
	entries map[string]*attemptEntry
	now     func() time.Time
}

func NewMemoryAttemptLimiter() *MemoryAttemptLimiter {
	return &MemoryAttemptLimiter{
		entries: make(map[string]*attemptEntry),
		now:     time.Now,
	}
}

func (r *MemoryAttemptLimiter) Allow(_ context.Context, key string, limit int, window time.Duration) (bool, error) {
	now := r.now()

	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.entries[key]
	if !ok || now.After(entry.expiresAt) {
		entry = &attemptEntry{expiresAt: now.Add(window)}
		r.entries[key] = entry
	}
	entry.count++

	r.sweep(now)
	return entry.count <= limit, nil
}

func (r *MemoryAttemptLimiter) Reset(_ context.Context, key string) error {
	r.mu.Lock()
	delete(r.entries, key)
	r.mu.Unlock()
	return nil
}

// sweep drops expired entries once the map grows. Caller holds mu.
func (r *MemoryAttemptLimiter) sweep(now time.Time) {
	if len(r.entries) < 1024 {
		return
	}
	for k, e := range r.entries {
		if now.After(e.expiresAt) {
			delete(r.entries, k)
		}
	}
}
