package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// CounterStore is an atomic increment-with-expiry primitive. The first
// increment of a key must set its TTL; later increments leave it untouched.
type CounterStore interface {
	Increment(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

// Limiter enforces a per-owner daily cap on place creation. The counter is
// charged on every attempt, including rejected ones, so probing retries are
// never free.
type Limiter struct {
	store  CounterStore
	limit  int64
	logger zerolog.Logger
	now    func() time.Time
}

// NewLimiter creates a limiter with the given daily cap.
func NewLimiter(store CounterStore, limit int64, logger zerolog.Logger) *Limiter {
	return &Limiter{
		store:  store,
		limit:  limit,
		logger: logger,
		now:    time.Now,
	}
}

// Take charges one creation attempt against the owner's daily counter and
// reports whether the attempt is within the limit. A counter-store failure
// fails open: the attempt is allowed so that a degraded store never blocks
// all writes.
func (l *Limiter) Take(ctx context.Context, ownerID int64) (allowed bool, count int64, err error) {
	key := fmt.Sprintf("create:%d:%s", ownerID, l.now().UTC().Format("2006-01-02"))

	count, err = l.store.Increment(ctx, key, 24*time.Hour)
	if err != nil {
		l.logger.Warn().Err(err).Int64("owner_id", ownerID).Msg("counter store unavailable, allowing creation")
		return true, 0, nil
	}

	return count <= l.limit, count, nil
}
