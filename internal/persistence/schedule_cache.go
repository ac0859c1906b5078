package persistence

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/restaurant-orders/internal/domain"
	"github.com/spec-kit/restaurant-orders/internal/repository"
)

const scheduleCacheKey = "schedule:weekly"

// ScheduleSource yields the current weekly schedule. Implementations fail
// closed: any storage or parse problem yields an empty schedule rather than
// an error, so callers reject orders instead of guessing.
type ScheduleSource interface {
	Weekly(ctx context.Context) domain.WeeklySchedule
}

// CachedScheduleSource reads the schedule document through a Redis cache in
// front of the Postgres store.
type CachedScheduleSource struct {
	repo   repository.ScheduleRepository
	redis  *Redis
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedScheduleSource builds the read-through source.
func NewCachedScheduleSource(repo repository.ScheduleRepository, r *Redis, ttl time.Duration, logger *zap.Logger) *CachedScheduleSource {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &CachedScheduleSource{repo: repo, redis: r, ttl: ttl, logger: logger}
}

// Weekly returns the parsed weekly schedule, consulting the cache first.
func (s *CachedScheduleSource) Weekly(ctx context.Context) domain.WeeklySchedule {
	if raw, ok := s.cached(ctx); ok {
		return domain.ParseWeeklySchedule(raw)
	}

	raw, err := s.repo.Load(ctx)
	if err != nil {
		s.logger.Warn("schedule load failed, treating as no schedule", zap.Error(err))
		return domain.WeeklySchedule{}
	}
	s.store(ctx, raw)
	return domain.ParseWeeklySchedule(raw)
}

// Invalidate drops the cached document after a schedule update.
func (s *CachedScheduleSource) Invalidate(ctx context.Context) {
	if s.redis == nil || s.redis.Client == nil {
		return
	}
	if err := s.redis.Client.Del(ctx, scheduleCacheKey).Err(); err != nil {
		s.logger.Warn("schedule cache invalidation failed", zap.Error(err))
	}
}

func (s *CachedScheduleSource) cached(ctx context.Context) ([]byte, bool) {
	if s.redis == nil || s.redis.Client == nil {
		return nil, false
	}
	raw, err := s.redis.Client.Get(ctx, scheduleCacheKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.logger.Debug("schedule cache read failed", zap.Error(err))
		}
		return nil, false
	}
	return raw, true
}

func (s *CachedScheduleSource) store(ctx context.Context, raw []byte) {
	if s.redis == nil || s.redis.Client == nil || len(raw) == 0 {
		return
	}
	if err := s.redis.Client.Set(ctx, scheduleCacheKey, raw, s.ttl).Err(); err != nil {
		s.logger.Debug("schedule cache write failed", zap.Error(err))
	}
}
