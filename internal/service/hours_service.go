package service

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/restaurant-orders/internal/domain"
	"github.com/spec-kit/restaurant-orders/internal/hours"
	"github.com/spec-kit/restaurant-orders/internal/persistence"
	"github.com/spec-kit/restaurant-orders/internal/repository"
	apperrors "github.com/spec-kit/restaurant-orders/pkg/util/errorutil"
)

// HoursService exposes open/closed resolution and schedule administration.
type HoursService struct {
	schedule    persistence.ScheduleSource
	resolver    *hours.Resolver
	repo        repository.ScheduleRepository
	invalidator interface{ Invalidate(context.Context) }
	logger      *zap.Logger
	nowFn       func() time.Time
}

// NewHoursService constructs the service. invalidator may be nil when no
// cache sits in front of the schedule store.
func NewHoursService(schedule persistence.ScheduleSource, resolver *hours.Resolver, repo repository.ScheduleRepository, invalidator interface{ Invalidate(context.Context) }, logger *zap.Logger) *HoursService {
	return &HoursService{
		schedule:    schedule,
		resolver:    resolver,
		repo:        repo,
		invalidator: invalidator,
		logger:      logger,
		nowFn:       time.Now,
	}
}

// StatusNow resolves the open/closed state at the current instant.
func (s *HoursService) StatusNow(ctx context.Context, forDelivery bool) hours.Status {
	return s.StatusAt(ctx, s.nowFn(), forDelivery)
}

// StatusAt resolves the open/closed state at an arbitrary instant.
func (s *HoursService) StatusAt(ctx context.Context, at time.Time, forDelivery bool) hours.Status {
	return s.resolver.StatusAt(s.schedule.Weekly(ctx), at, forDelivery)
}

// NextOpening returns the first opening strictly after the given instant.
func (s *HoursService) NextOpening(ctx context.Context, after time.Time) (hours.Interval, bool) {
	return s.resolver.NextOpeningAfter(s.schedule.Weekly(ctx), after)
}

// UpdateSchedule replaces the stored weekly schedule document and drops the
// cache. The document must be valid JSON; individual windows the engine
// cannot parse are skipped at read time, so a partially bad document narrows
// the opening hours rather than widening them.
func (s *HoursService) UpdateSchedule(ctx context.Context, raw []byte) error {
	if !json.Valid(raw) {
		return apperrors.NewValidationError("schedule must be a valid JSON document", nil)
	}
	parsed := domain.ParseWeeklySchedule(raw)
	if err := s.repo.Save(ctx, raw); err != nil {
		return apperrors.MapError(err)
	}
	if s.invalidator != nil {
		s.invalidator.Invalidate(ctx)
	}
	days := 0
	windows := 0
	for _, ws := range parsed {
		if len(ws) > 0 {
			days++
			windows += len(ws)
		}
	}
	s.logger.Info("weekly schedule updated", zap.Int("days", days), zap.Int("windows", windows))
	return nil
}
