package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/restaurant-orders/internal/domain"
	"github.com/spec-kit/restaurant-orders/internal/events"
	"github.com/spec-kit/restaurant-orders/internal/repository"
	"github.com/spec-kit/restaurant-orders/internal/timing"
	apperrors "github.com/spec-kit/restaurant-orders/pkg/util/errorutil"
)

// AdminService handles staff actions on orders and reservations: confirming,
// adjusting prep time, marking seen and cancelling. All writes go through the
// version-checked repositories, so an admin action racing the sweep loses
// cleanly instead of clobbering it.
type AdminService struct {
	orders       repository.OrderRepository
	reservations repository.ReservationRepository
	calculator   *timing.Calculator
	dispatcher   events.Dispatcher
	notifier     Notifier
	logger       *zap.Logger
	nowFn        func() time.Time
}

// AdminDependencies bundles collaborators for the admin service.
type AdminDependencies struct {
	OrderRepo       repository.OrderRepository
	ReservationRepo repository.ReservationRepository
	Calculator      *timing.Calculator
	Dispatcher      events.Dispatcher
	Notifier        Notifier
	Logger          *zap.Logger
}

// NewAdminService constructs the service.
func NewAdminService(deps AdminDependencies) *AdminService {
	return &AdminService{
		orders:       deps.OrderRepo,
		reservations: deps.ReservationRepo,
		calculator:   deps.Calculator,
		dispatcher:   deps.Dispatcher,
		notifier:     deps.Notifier,
		logger:       deps.Logger,
		nowFn:        time.Now,
	}
}

// ConfirmOrder transitions an order to CONFIRMED, optionally applying extra
// prep minutes first. The confirmation is visible to the caller even when the
// customer notification fails.
func (s *AdminService) ConfirmOrder(ctx context.Context, adminID, orderID string, extraMinutes *int) (*domain.Order, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	save := func() error { return s.orders.Update(ctx, order) }
	if err := s.confirmRecord(ctx, order, adminID, extraMinutes, save); err != nil {
		return nil, err
	}
	return order, nil
}

// ConfirmReservation transitions a reservation to CONFIRMED.
func (s *AdminService) ConfirmReservation(ctx context.Context, adminID, reservationID string) (*domain.Reservation, error) {
	reservation, err := s.reservations.GetByID(ctx, reservationID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	save := func() error { return s.reservations.Update(ctx, reservation) }
	if err := s.confirmRecord(ctx, reservation, adminID, nil, save); err != nil {
		return nil, err
	}
	return reservation, nil
}

// PatchExtraMinutes applies an admin prep-time adjustment to an ASAP order
// still in NEW.
func (s *AdminService) PatchExtraMinutes(ctx context.Context, adminID, orderID string, extraMinutes int) (*domain.Order, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if err := s.calculator.ApplyExtraMinutes(order, extraMinutes); err != nil {
		return nil, err
	}
	if err := s.saveRecord(ctx, order, func() error { return s.orders.Update(ctx, order) }); err != nil {
		return nil, err
	}
	s.publish(ctx, events.Event{
		Type:      events.EventPrepTimeAdjusted,
		RecordID:  order.ID,
		RecordRef: order.OrderNumber,
		Kind:      order.RecordKind(),
		ActorID:   adminID,
		Payload: events.PrepTimeAdjustedPayload{
			ExtraMinutes:     order.AdminExtraMinutes,
			CommittedReadyAt: order.CommittedReadyAt,
		},
	})
	return order, nil
}

// MarkOrderSeen records that staff looked at a NEW order. Idempotent; once
// set the timestamp never moves.
func (s *AdminService) MarkOrderSeen(ctx context.Context, adminID, orderID string) (*domain.Order, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if err := s.markSeen(ctx, order, func() error { return s.orders.Update(ctx, order) }); err != nil {
		return nil, err
	}
	return order, nil
}

// MarkReservationSeen records that staff looked at a NEW reservation.
func (s *AdminService) MarkReservationSeen(ctx context.Context, adminID, reservationID string) (*domain.Reservation, error) {
	reservation, err := s.reservations.GetByID(ctx, reservationID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if err := s.markSeen(ctx, reservation, func() error { return s.reservations.Update(ctx, reservation) }); err != nil {
		return nil, err
	}
	return reservation, nil
}

// CancelOrder cancels a NEW order. When payment already completed a refund
// notice is sent to the customer.
func (s *AdminService) CancelOrder(ctx context.Context, adminID, orderID, reason string) (*domain.Order, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	save := func() error { return s.orders.Update(ctx, order) }
	if err := s.cancelRecord(ctx, order, adminID, reason, save); err != nil {
		return nil, err
	}
	return order, nil
}

// CancelReservation cancels a NEW reservation.
func (s *AdminService) CancelReservation(ctx context.Context, adminID, reservationID, reason string) (*domain.Reservation, error) {
	reservation, err := s.reservations.GetByID(ctx, reservationID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	save := func() error { return s.reservations.Update(ctx, reservation) }
	if err := s.cancelRecord(ctx, reservation, adminID, reason, save); err != nil {
		return nil, err
	}
	return reservation, nil
}

func (s *AdminService) confirmRecord(ctx context.Context, rec domain.TimedRecord, adminID string, extraMinutes *int, save func() error) error {
	if !domain.IsValidTransition(rec.CurrentStatus(), domain.StatusConfirmed) {
		return apperrors.NewConflict("record cannot be confirmed in current status", map[string]any{
			"status": rec.CurrentStatus(),
		})
	}
	if rec.Timing().ASAP && extraMinutes != nil && *extraMinutes >= 0 {
		if err := s.calculator.ApplyExtraMinutes(rec, *extraMinutes); err != nil {
			return err
		}
	}
	rec.SetStatus(domain.StatusConfirmed)
	if err := s.saveRecord(ctx, rec, save); err != nil {
		return err
	}

	now := s.nowFn().UTC()
	eta := timing.ETAMinutes(rec.Timing(), now)
	subject := fmt.Sprintf("Your %s %s is confirmed", recordNoun(rec), rec.RecordRef())
	body := fmt.Sprintf("Estimated ready in %d minutes. Track it with reference %s.", eta, rec.RecordRef())
	if err := s.notifier.Send(ctx, "record_confirmed", rec.ContactEmail(), subject, body); err != nil {
		s.logger.Warn("confirmation notification failed",
			zap.String("record_id", rec.RecordID()),
			zap.Error(err))
	}

	s.publish(ctx, events.Event{
		Type:      events.EventOrderConfirmed,
		RecordID:  rec.RecordID(),
		RecordRef: rec.RecordRef(),
		Kind:      rec.RecordKind(),
		ActorID:   adminID,
		Payload: events.OrderConfirmedPayload{
			ETAMinutes:       eta,
			CommittedReadyAt: rec.Timing().CommittedReadyAt,
		},
	})
	return nil
}

func (s *AdminService) cancelRecord(ctx context.Context, rec domain.TimedRecord, adminID, reason string, save func() error) error {
	if !domain.IsValidTransition(rec.CurrentStatus(), domain.StatusCancelled) {
		return apperrors.NewConflict("record cannot be cancelled in current status", map[string]any{
			"status": rec.CurrentStatus(),
		})
	}
	refundNotice := rec.PaymentCompleted()
	rec.SetStatus(domain.StatusCancelled)
	if err := s.saveRecord(ctx, rec, save); err != nil {
		return err
	}

	subject := fmt.Sprintf("Your %s %s was cancelled", recordNoun(rec), rec.RecordRef())
	body := "We are sorry, your request had to be cancelled."
	if refundNotice {
		body += " Your payment will be refunded."
	}
	if err := s.notifier.Send(ctx, "record_cancelled", rec.ContactEmail(), subject, body); err != nil {
		s.logger.Warn("cancellation notification failed",
			zap.String("record_id", rec.RecordID()),
			zap.Error(err))
	}

	s.publish(ctx, events.Event{
		Type:      events.EventOrderCancelled,
		RecordID:  rec.RecordID(),
		RecordRef: rec.RecordRef(),
		Kind:      rec.RecordKind(),
		ActorID:   adminID,
		Payload: events.OrderCancelledPayload{
			Reason:       reason,
			RefundNotice: refundNotice,
		},
	})
	return nil
}

func (s *AdminService) markSeen(ctx context.Context, rec domain.TimedRecord, save func() error) error {
	if rec.CurrentStatus() != domain.StatusNew {
		return apperrors.NewConflict("record is no longer awaiting review", map[string]any{
			"status": rec.CurrentStatus(),
		})
	}
	t := rec.Timing()
	if t.SeenAt != nil {
		return nil
	}
	now := s.nowFn().UTC()
	t.SeenAt = &now
	return s.saveRecord(ctx, rec, save)
}

func (s *AdminService) saveRecord(ctx context.Context, rec domain.TimedRecord, save func() error) error {
	if err := save(); err != nil {
		if errors.Is(err, repository.ErrVersionConflict) {
			return apperrors.NewConflict("record was modified concurrently, reload and retry", map[string]any{
				"record_id": rec.RecordID(),
			})
		}
		return apperrors.MapError(err)
	}
	return nil
}

func (s *AdminService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.nowFn().UTC()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func recordNoun(rec domain.TimedRecord) string {
	if rec.RecordKind() == domain.RecordKindReservation {
		return "reservation"
	}
	return "order"
}
