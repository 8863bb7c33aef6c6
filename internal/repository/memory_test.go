package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryAttemptLimiter(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)
	limiter := NewMemoryAttemptLimiter()
	limiter.now = func() time.Time { return now }

	t.Run("Limit", func(t *testing.T) {
		for i := 0; i < 2; i++ {
			allowed, err := limiter.Allow(ctx, "user", 2, time.Minute)
			require.NoError(t, err)
			assert.True(t, allowed)
		}
		allowed, _ := limiter.Allow(ctx, "user", 2, time.Minute)
		assert.False(t, allowed)

		allowed, _ = limiter.Allow(ctx, "other", 2, time.Minute)
		assert.True(t, allowed)
	})

	t.Run("WindowExpires", func(t *testing.T) {
		now = now.Add(61 * time.Second)
		allowed, _ := limiter.Allow(ctx, "user", 2, time.Minute)
		assert.True(t, allowed)
	})

	t.Run("Reset", func(t *testing.T) {
		_, _ = limiter.Allow(ctx, "user", 2, time.Minute)
		_, _ = limiter.Allow(ctx, "user", 2, time.Minute)
		require.NoError(t, limiter.Reset(ctx, "user"))
		allowed, _ := limiter.Allow(ctx, "user", 2, time.Minute)
		assert.True(t, allowed)
	})

	t.Run("Sweep", func(t *testing.T) {
		for i := 0; i < 1100; i++ {
			_, _ = limiter.Allow(ctx, fmt.Sprintf("k%d", i), 1, time.Second)
		}
		now = now.Add(time.Hour)
		_, _ = limiter.Allow(ctx, "fresh", 1, time.Second)
		limiter.mu.Lock()
		size := len(limiter.entries)
		limiter.mu.Unlock()
		assert.Less(t, size, 1100)
	})
}

func TestMemoryAttemptLimiter_Concurrent(t *testing.T) {
	limiter := NewMemoryAttemptLimiter()
	ctx := context.Background()

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowedCount := 0
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, _ := limiter.Allow(ctx, "shared", 10, time.Minute)
			if ok {
				mu.Lock()
				allowedCount++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 10, allowedCount)
}
