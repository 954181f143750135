// internal/repository/cache.go
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	apperrors "resume-screening-workers/internal/common/errors"
	"resume-screening-workers/internal/models"

	"github.com/redis/go-redis/v9"
)

const (
	jobCachePrefix  = "resume:job:"
	DefaultCacheTTL = 5 * time.Minute
)

// JobCache keeps a JSON copy of job criteria in Redis. Candidate statistics
// are not cached; they are aggregated on every read.
type JobCache struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewJobCache(rdb redis.Cmdable, ttl time.Duration) *JobCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &JobCache{rdb: rdb, ttl: ttl}
}

func jobCacheKey(id int64) string {
	return jobCachePrefix + strconv.FormatInt(id, 10)
}

// Get reports ok=false on a miss.
func (c *JobCache) Get(ctx context.Context, id int64) (*models.JobPosition, bool, error) {
	val, err := c.rdb.Get(ctx, jobCacheKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, apperrors.NewCacheError("get job", err)
	}

	var job models.JobPosition
	if err := json.Unmarshal([]byte(val), &job); err != nil {
		// A corrupt entry behaves like a miss.
		return nil, false, nil
	}
	return &job, true, nil
}

func (c *JobCache) Set(ctx context.Context, job *models.JobPosition) error {
	cached := *job
	cached.Stats = models.CandidateStats{}
	cached.PositionsFilled = 0

	data, err := json.Marshal(cached)
	if err != nil {
		return apperrors.NewCacheError("encode job", err)
	}
	if err := c.rdb.Set(ctx, jobCacheKey(job.ID), data, c.ttl).Err(); err != nil {
		return apperrors.NewCacheError("set job", err)
	}
	return nil
}

func (c *JobCache) Invalidate(ctx context.Context, id int64) error {
	if err := c.rdb.Del(ctx, jobCacheKey(id)).Err(); err != nil {
		return apperrors.NewCacheError("invalidate job", err)
	}
	return nil
}
