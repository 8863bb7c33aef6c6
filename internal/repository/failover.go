package repository

import (
	"context"
	"sync/atomic"
	"time"

	"truckrental/internal/domain"

	"github.com/rs/zerolog"
)

const recoveryInterval = time.Minute

// FailoverAttemptLimiter prefers primary and switches to fallback when primary errors.
// Primary is retried once recoveryInterval has passed since the last failure.
type FailoverAttemptLimiter struct {
	primary   domain.AttemptLimiter
	fallback  domain.AttemptLimiter
	logger    *zerolog.Logger
	isDown    atomic.Bool
	lastCheck atomic.Int64
	now       func() time.Time
}

func NewFailoverAttemptLimiter(primary, fallback domain.AttemptLimiter, logger *zerolog.Logger) *FailoverAttemptLimiter {
	return &FailoverAttemptLimiter{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
		now:      time.Now,
	}
}

func (r *FailoverAttemptLimiter) markDown(err error) {
	if !r.isDown.Swap(true) {
		r.logger.Error().Err(err).Msg("Primary attempt limiter failed, falling back to memory")
	}
	r.lastCheck.Store(r.now().UnixNano())
}

// usePrimary reports whether the primary should be tried for this call.
func (r *FailoverAttemptLimiter) usePrimary() bool {
	if !r.isDown.Load() {
		return true
	}
	return r.now().Sub(time.Unix(0, r.lastCheck.Load())) > recoveryInterval
}

func (r *FailoverAttemptLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	if r.usePrimary() {
		allowed, err := r.primary.Allow(ctx, key, limit, window)
		if err == nil {
			if r.isDown.Swap(false) {
				r.logger.Info().Msg("Primary attempt limiter recovered")
			}
			return allowed, nil
		}
		r.markDown(err)
	}

	return r.fallback.Allow(ctx, key, limit, window)
}

func (r *FailoverAttemptLimiter) Reset(ctx context.Context, key string) error {
	if r.usePrimary() {
		err := r.primary.Reset(ctx, key)
		if err == nil {
			_ = r.fallback.Reset(ctx, key)
			return nil
		}
		r.markDown(err)
	}

	return r.fallback.Reset(ctx, key)
}

// Degraded reports whether calls are currently served by the fallback.
func (r *FailoverAttemptLimiter) Degraded() bool {
	return r.isDown.Load()
}
