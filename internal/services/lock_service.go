// internal/services/lock_service.go
// Per-key logical mutex backed by Redis SET NX (spec.md §5 concurrency
// model: time-events on the same (race_id, timing_point) and generation
// commands on the same event_id must serialize). Generalizes the teacher's
// CacheService.SetNX "for distributed locks" comment — a helper the
// teacher never actually calls — into the real serialization primitive
// this domain's concurrency rules require.

package services

import (
	"context"
	"time"

	"github.com/nsf-ski/race-service/internal/apperrors"
	"github.com/nsf-ski/race-service/internal/utils"
)

// LockService acquires per-key locks with a bounded wait, backed by Redis.
// Satisfies internal/timeevent.Locker.
type LockService struct {
	cache     *CacheService
	ttl       time.Duration
	pollEvery time.Duration
	waitFor   time.Duration
}

// NewLockService constructs a LockService. ttl bounds how long a lock is
// held if the holder crashes before releasing; waitFor bounds how long a
// caller waits for a contended lock before giving up.
func NewLockService(cache *CacheService, ttl, waitFor time.Duration) *LockService {
	return &LockService{cache: cache, ttl: ttl, pollEvery: 20 * time.Millisecond, waitFor: waitFor}
}

// Lock blocks until key is acquired or waitFor elapses, returning an
// unlock function that releases it. Safe to call concurrently from many
// goroutines; disjoint keys never contend.
func (l *LockService) Lock(ctx context.Context, key string) (func(), error) {
	holder := utils.GenerateUUID()
	deadline := time.Now().Add(l.waitFor)

	for {
		ok, err := l.cache.SetNX(ctx, lockKey(key), holder, l.ttl)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.Dependency, "lock acquisition failed", err)
		}
		if ok {
			return func() { _ = l.cache.ReleaseNX(context.Background(), lockKey(key), holder) }, nil
		}

		if time.Now().After(deadline) {
			return nil, apperrors.Conflictf("timed out waiting for lock %q", key)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(l.pollEvery):
		}
	}
}

func lockKey(key string) string {
	return "lock:" + key
}
