package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/restaurant-orders/internal/domain"
	"github.com/spec-kit/restaurant-orders/internal/events"
	"github.com/spec-kit/restaurant-orders/internal/observability"
	"github.com/spec-kit/restaurant-orders/internal/repository"
	"github.com/spec-kit/restaurant-orders/internal/service"
	"github.com/spec-kit/restaurant-orders/internal/timing"
)

// Sweeper periodically scans NEW orders and reservations, escalates the ones
// nobody has looked at and auto-cancels unpaid ones past their deadline. It
// runs on a single goroutine, so ticks never overlap; a slow tick simply
// delays the next one.
type Sweeper struct {
	orders        repository.OrderRepository
	reservations  repository.ReservationRepository
	notifier      service.Notifier
	dispatcher    events.Dispatcher
	metrics       *observability.Metrics
	logger        *zap.Logger
	escalateAfter time.Duration
	interval      time.Duration
	staffEmail    string
	nowFn         func() time.Time
}

// SweeperDependencies bundles collaborators for the sweeper.
type SweeperDependencies struct {
	OrderRepo       repository.OrderRepository
	ReservationRepo repository.ReservationRepository
	Notifier        service.Notifier
	Dispatcher      events.Dispatcher
	Metrics         *observability.Metrics
	Logger          *zap.Logger
	EscalateAfter   time.Duration
	Interval        time.Duration
	StaffEmail      string
}

// NewSweeper constructs the sweeper.
func NewSweeper(deps SweeperDependencies) *Sweeper {
	interval := deps.Interval
	if interval <= 0 {
		interval = time.Minute
	}
	return &Sweeper{
		orders:        deps.OrderRepo,
		reservations:  deps.ReservationRepo,
		notifier:      deps.Notifier,
		dispatcher:    deps.Dispatcher,
		metrics:       deps.Metrics,
		logger:        deps.Logger,
		escalateAfter: deps.EscalateAfter,
		interval:      interval,
		staffEmail:    deps.StaffEmail,
		nowFn:         time.Now,
	}
}

// Run drives sweep ticks until the context is cancelled. Call it on its own
// goroutine.
func (s *Sweeper) Run(ctx context.Context) {
	s.logger.Info("sweeper started", zap.Duration("interval", s.interval))
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("sweeper stopped")
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep runs one tick over all NEW records. Failures are isolated per record:
// one bad record or failed notification never stops the rest of the sweep.
func (s *Sweeper) Sweep(ctx context.Context) {
	now := s.nowFn().UTC()

	orders, err := s.orders.ListByStatus(ctx, domain.StatusNew)
	if err != nil {
		s.logger.Error("sweep: list orders failed", zap.Error(err))
	} else {
		for i := range orders {
			order := &orders[i]
			s.sweepRecord(ctx, order, now, func() error { return s.orders.Update(ctx, order) })
		}
	}

	reservations, err := s.reservations.ListByStatus(ctx, domain.StatusNew)
	if err != nil {
		s.logger.Error("sweep: list reservations failed", zap.Error(err))
		return
	}
	for i := range reservations {
		reservation := &reservations[i]
		s.sweepRecord(ctx, reservation, now, func() error { return s.reservations.Update(ctx, reservation) })
	}
}

// sweepRecord applies the escalation and auto-cancel rules to one record.
// State changes are persisted before any notification goes out, so a notify
// failure can never lose the escalation flag or cancellation.
func (s *Sweeper) sweepRecord(ctx context.Context, rec domain.TimedRecord, now time.Time, save func() error) {
	kind := string(rec.RecordKind())

	if timing.ShouldEscalate(rec, now, s.escalateAfter) {
		escalatedAt := now
		rec.Timing().EscalatedAt = &escalatedAt
		if ok := s.persist(rec, kind, "escalated", save); ok {
			unattended := now.Sub(rec.CreatedAtUTC()).Round(time.Second)
			s.notify(ctx, rec, "record_unattended", s.staffEmail,
				fmt.Sprintf("Unattended %s %s", kind, rec.RecordRef()),
				fmt.Sprintf("No one has looked at %s for %s.", rec.RecordRef(), unattended))
			s.publish(ctx, events.Event{
				Type:      events.EventOrderEscalated,
				RecordID:  rec.RecordID(),
				RecordRef: rec.RecordRef(),
				Kind:      rec.RecordKind(),
				Payload:   events.EscalatedPayload{UnattendedFor: unattended.String()},
			})
		}
	}

	if timing.ShouldAutoCancel(rec, now) {
		rec.SetStatus(domain.StatusCancelled)
		if ok := s.persist(rec, kind, "auto_cancelled", save); ok {
			s.notify(ctx, rec, "record_auto_cancelled", rec.ContactEmail(),
				fmt.Sprintf("Your %s %s was cancelled", kind, rec.RecordRef()),
				"We did not receive your payment in time, so the request was cancelled.")
			s.publish(ctx, events.Event{
				Type:      events.EventOrderAutoCancelled,
				RecordID:  rec.RecordID(),
				RecordRef: rec.RecordRef(),
				Kind:      rec.RecordKind(),
				Payload:   events.OrderCancelledPayload{Reason: "payment_overdue"},
			})
		}
	}
}

func (s *Sweeper) persist(rec domain.TimedRecord, kind, outcome string, save func() error) bool {
	err := save()
	if err == nil {
		s.metrics.RecordSweepOutcome(kind, outcome)
		return true
	}
	if errors.Is(err, repository.ErrVersionConflict) {
		// an admin action won the race; the record is re-evaluated next tick
		s.metrics.RecordSweepOutcome(kind, "conflict")
		s.logger.Debug("sweep: record changed concurrently, skipping",
			zap.String("record_id", rec.RecordID()))
		return false
	}
	s.metrics.RecordSweepOutcome(kind, "error")
	s.logger.Error("sweep: persist failed",
		zap.String("record_id", rec.RecordID()),
		zap.String("outcome", outcome),
		zap.Error(err))
	return false
}

func (s *Sweeper) notify(ctx context.Context, rec domain.TimedRecord, category, recipient, subject, body string) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Send(ctx, category, recipient, subject, body); err != nil {
		s.logger.Warn("sweep: notification failed",
			zap.String("record_id", rec.RecordID()),
			zap.String("category", category),
			zap.Error(err))
	}
}

func (s *Sweeper) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = s.nowFn().UTC()
	_ = s.dispatcher.Publish(ctx, event)
}
