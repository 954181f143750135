// internal/repository/lock.go
package repository

import (
	"context"
	"strconv"
	"time"

	apperrors "resume-screening-workers/internal/common/errors"
	"resume-screening-workers/internal/common/database"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	filterLockPrefix     = "resume:autofilter:"
	DefaultFilterLockTTL = 2 * time.Minute
)

// FilterLock serializes auto-filter runs per job across worker replicas.
type FilterLock struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewFilterLock(rdb redis.Cmdable, ttl time.Duration) *FilterLock {
	if ttl <= 0 {
		ttl = DefaultFilterLockTTL
	}
	return &FilterLock{rdb: rdb, ttl: ttl}
}

// Acquire takes the job's lock. The returned release func is safe to call
// after the TTL expired; it only deletes the key while it still holds this
// holder's token. A held lock yields a FILTER_LOCKED error.
func (l *FilterLock) Acquire(ctx context.Context, jobID int64) (func(context.Context) error, error) {
	key := filterLockPrefix + strconv.FormatInt(jobID, 10)
	token := uuid.NewString()

	ok, err := database.TryLock(ctx, l.rdb, key, token, l.ttl)
	if err != nil {
		return nil, apperrors.NewCacheError("acquire filter lock", err)
	}
	if !ok {
		return nil, apperrors.NewFilterLockedError(jobID)
	}

	return func(ctx context.Context) error {
		return database.Unlock(ctx, l.rdb, key, token)
	}, nil
}
