package database

import (
	"context"
	"math"
	"time"
)

// RetryPolicy defines exponential backoff parameters.
type RetryPolicy struct {
	MaxAttempts   int
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
}

// DefaultRetryPolicy retries busy and locked errors up to three attempts in total.
var DefaultRetryPolicy = RetryPolicy{
	MaxAttempts:   3,
	InitialDelay:  25 * time.Millisecond,
	MaxDelay:      500 * time.Millisecond,
	BackoffFactor: 2,
}

// NextDelay returns delay for a given attempt (1-based) with clamping.
func (r RetryPolicy) NextDelay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	if r.InitialDelay <= 0 {
		r.InitialDelay = 25 * time.Millisecond
	}
	if r.BackoffFactor <= 0 {
		r.BackoffFactor = 2
	}

	delay := float64(r.InitialDelay) * math.Pow(r.BackoffFactor, float64(attempt-1))
	d := time.Duration(delay)
	if r.MaxDelay > 0 && d > r.MaxDelay {
		d = r.MaxDelay
	}
	if d <= 0 {
		d = r.InitialDelay
	}
	return d
}

// withRetry runs fn and repeats it while SQLite reports the database as busy or locked.
func (db *DB) withRetry(ctx context.Context, op string, fn func() error) error {
	maxAttempts := db.retry.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var err error
	for attempt := 1; ; attempt++ {
		err = fn()
		if err == nil || !isBusy(err) || attempt >= maxAttempts {
			return err
		}

		delay := db.retry.NextDelay(attempt)
		db.logger.Warn().Err(err).Str("op", op).Int("attempt", attempt).Dur("delay", delay).Msg("database busy, retrying")

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}
