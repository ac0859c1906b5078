package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/restaurant-orders/internal/domain"
	"github.com/spec-kit/restaurant-orders/internal/events"
	"github.com/spec-kit/restaurant-orders/internal/hours"
	"github.com/spec-kit/restaurant-orders/internal/observability"
	"github.com/spec-kit/restaurant-orders/internal/persistence"
	"github.com/spec-kit/restaurant-orders/internal/repository"
	"github.com/spec-kit/restaurant-orders/internal/timing"
	apperrors "github.com/spec-kit/restaurant-orders/pkg/util/errorutil"
)

// OrderService coordinates order and reservation intake.
type OrderService struct {
	orders       repository.OrderRepository
	reservations repository.ReservationRepository
	schedule     persistence.ScheduleSource
	guard        *hours.Guard
	calculator   *timing.Calculator
	dispatcher   events.Dispatcher
	metrics      *observability.Metrics
	nowFn        func() time.Time
}

// OrderDependencies bundles collaborators for the order service.
type OrderDependencies struct {
	OrderRepo       repository.OrderRepository
	ReservationRepo repository.ReservationRepository
	Schedule        persistence.ScheduleSource
	Guard           *hours.Guard
	Calculator      *timing.Calculator
	Dispatcher      events.Dispatcher
	Metrics         *observability.Metrics
}

// OrderCreateInput describes order submission payload.
type OrderCreateInput struct {
	Kind           domain.RecordKind
	Delivery       bool
	ASAP           bool
	RequestedAt    *time.Time
	MinPrepMinutes int
	CustomerEmail  string
	Items          []domain.OrderItem
}

// ReservationCreateInput describes reservation submission payload.
type ReservationCreateInput struct {
	PartySize     int
	RequestedAt   *time.Time
	Notes         string
	CustomerEmail string
}

// NewOrderService constructs the service.
func NewOrderService(deps OrderDependencies) *OrderService {
	return &OrderService{
		orders:       deps.OrderRepo,
		reservations: deps.ReservationRepo,
		schedule:     deps.Schedule,
		guard:        deps.Guard,
		calculator:   deps.Calculator,
		dispatcher:   deps.Dispatcher,
		metrics:      deps.Metrics,
		nowFn:        time.Now,
	}
}

// CreateOrder runs the admission check, stamps initial timing and persists a
// new order.
func (s *OrderService) CreateOrder(ctx context.Context, customerID string, input OrderCreateInput) (*domain.Order, error) {
	if len(input.Items) == 0 {
		return nil, apperrors.NewValidationError("at least one item required", nil)
	}
	kind := input.Kind
	if kind == "" {
		kind = domain.RecordKindOrder
	}
	if kind != domain.RecordKindOrder && kind != domain.RecordKindBuffetOrder {
		return nil, apperrors.NewValidationError("unknown order kind", map[string]any{"kind": kind})
	}

	now := s.nowFn().UTC()
	prep := s.calculator.DefaultPrep()
	if input.MinPrepMinutes > 0 {
		prep = time.Duration(input.MinPrepMinutes) * time.Minute
	}

	schedule := s.schedule.Weekly(ctx)
	if err := s.guard.AssertOrderAllowed(schedule, now, input.Delivery, input.ASAP, input.RequestedAt, prep); err != nil {
		s.recordRejection(err)
		return nil, err
	}

	order := &domain.Order{
		OrderNumber:   generateRef("ORD"),
		CustomerID:    customerID,
		CustomerEmail: strings.TrimSpace(input.CustomerEmail),
		Kind:          kind,
		Delivery:      input.Delivery,
		Items:         input.Items,
		TotalAmount:   totalAmount(input.Items),
		Status:        domain.StatusNew,
		PaymentStatus: domain.PaymentStatusPending,
		OrderTiming: domain.OrderTiming{
			ASAP:           input.ASAP,
			RequestedAt:    input.RequestedAt,
			MinPrepMinutes: input.MinPrepMinutes,
		},
		CreatedAt: now,
	}
	s.calculator.ApplyInitial(order.Timing(), now)

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publish(ctx, events.Event{
		Type:      events.EventOrderCreated,
		RecordID:  order.ID,
		RecordRef: order.OrderNumber,
		Kind:      order.RecordKind(),
		ActorID:   customerID,
		Payload: events.OrderCreatedPayload{
			ASAP:             order.ASAP,
			Delivery:         order.Delivery,
			RequestedAt:      order.RequestedAt,
			CommittedReadyAt: order.CommittedReadyAt,
			TotalAmount:      order.TotalAmount,
		},
	})
	return order, nil
}

// CreateReservation admits and persists a reservation. Reservations are
// always for a requested future slot, never ASAP.
func (s *OrderService) CreateReservation(ctx context.Context, customerID string, input ReservationCreateInput) (*domain.Reservation, error) {
	if input.PartySize <= 0 {
		return nil, apperrors.NewValidationError("party_size must be positive", nil)
	}

	now := s.nowFn().UTC()
	schedule := s.schedule.Weekly(ctx)
	if err := s.guard.AssertOrderAllowed(schedule, now, false, false, input.RequestedAt, s.calculator.DefaultPrep()); err != nil {
		s.recordRejection(err)
		return nil, err
	}

	reservation := &domain.Reservation{
		ReservationNumber: generateRef("RES"),
		CustomerID:        customerID,
		CustomerEmail:     strings.TrimSpace(input.CustomerEmail),
		PartySize:         input.PartySize,
		Notes:             strings.TrimSpace(input.Notes),
		Status:            domain.StatusNew,
		PaymentStatus:     domain.PaymentStatusPending,
		OrderTiming: domain.OrderTiming{
			ASAP:        false,
			RequestedAt: input.RequestedAt,
		},
		CreatedAt: now,
	}
	s.calculator.ApplyInitial(reservation.Timing(), now)

	if err := s.reservations.Create(ctx, reservation); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publish(ctx, events.Event{
		Type:      events.EventReservationCreated,
		RecordID:  reservation.ID,
		RecordRef: reservation.ReservationNumber,
		Kind:      domain.RecordKindReservation,
		ActorID:   customerID,
	})
	return reservation, nil
}

// GetOrderForCustomer fetches an order ensuring ownership.
func (s *OrderService) GetOrderForCustomer(ctx context.Context, customerID, orderID string) (*domain.Order, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if order.CustomerID != customerID {
		return nil, apperrors.NewForbidden("access denied")
	}
	return order, nil
}

// ListCustomerOrders returns paginated orders for a customer.
func (s *OrderService) ListCustomerOrders(ctx context.Context, customerID string, limit, offset int) ([]domain.Order, error) {
	orders, err := s.orders.ListByCustomer(ctx, customerID, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return orders, nil
}

func (s *OrderService) recordRejection(err error) {
	var domainErr *apperrors.DomainError
	if errors.As(err, &domainErr) {
		s.metrics.RecordAdmissionRejection(domainErr.Code)
	}
}

func (s *OrderService) publish(ctx context.Context, event events.Event) {
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

func totalAmount(items []domain.OrderItem) float64 {
	var total float64
	for _, item := range items {
		qty := item.Quantity
		if qty <= 0 {
			qty = 1
		}
		total += float64(qty) * item.UnitPrice
	}
	return total
}

func generateRef(prefix string) string {
	return prefix + "-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}
