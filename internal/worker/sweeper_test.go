package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/restaurant-orders/internal/domain"
	"github.com/spec-kit/restaurant-orders/internal/events"
	"github.com/spec-kit/restaurant-orders/internal/observability"
	"github.com/spec-kit/restaurant-orders/internal/repository"
)

type fakeOrderRepo struct {
	orders    map[string]*domain.Order
	updateErr error
	updates   int
}

func (f *fakeOrderRepo) Create(ctx context.Context, order *domain.Order) error { return nil }

func (f *fakeOrderRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	if o, ok := f.orders[id]; ok {
		return o, nil
	}
	return nil, errors.New("not found")
}

func (f *fakeOrderRepo) GetByNumber(ctx context.Context, number string) (*domain.Order, error) {
	return nil, errors.New("not found")
}

func (f *fakeOrderRepo) Update(ctx context.Context, order *domain.Order) error {
	f.updates++
	if f.updateErr != nil {
		return f.updateErr
	}
	stored := *order
	f.orders[order.ID] = &stored
	return nil
}

func (f *fakeOrderRepo) ListByStatus(ctx context.Context, status domain.AggregateStatus) ([]domain.Order, error) {
	var out []domain.Order
	for _, o := range f.orders {
		if o.Status == status {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (f *fakeOrderRepo) ListByCustomer(ctx context.Context, customerID string, limit, offset int) ([]domain.Order, error) {
	return nil, nil
}

type fakeReservationRepo struct {
	reservations map[string]*domain.Reservation
}

func (f *fakeReservationRepo) Create(ctx context.Context, r *domain.Reservation) error { return nil }

func (f *fakeReservationRepo) GetByID(ctx context.Context, id string) (*domain.Reservation, error) {
	return nil, errors.New("not found")
}

func (f *fakeReservationRepo) Update(ctx context.Context, r *domain.Reservation) error {
	stored := *r
	f.reservations[r.ID] = &stored
	return nil
}

func (f *fakeReservationRepo) ListByStatus(ctx context.Context, status domain.AggregateStatus) ([]domain.Reservation, error) {
	var out []domain.Reservation
	for _, r := range f.reservations {
		if r.Status == status {
			out = append(out, *r)
		}
	}
	return out, nil
}

type sentNotification struct {
	category  string
	recipient string
}

type fakeNotifier struct {
	sent []sentNotification
	err  error
}

func (f *fakeNotifier) Send(ctx context.Context, category, recipient, subject, body string) error {
	f.sent = append(f.sent, sentNotification{category: category, recipient: recipient})
	return f.err
}

var sweepNow = time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

func newOrder(id string, age time.Duration) *domain.Order {
	created := sweepNow.Add(-age)
	return &domain.Order{
		ID:            id,
		OrderNumber:   "ORD-" + id,
		CustomerEmail: id + "@example.com",
		Status:        domain.StatusNew,
		PaymentStatus: domain.PaymentStatusPending,
		OrderTiming:   domain.OrderTiming{ASAP: true, MinPrepMinutes: 30},
		CreatedAt:     created,
		Version:       1,
	}
}

type sweepFixture struct {
	sweeper      *Sweeper
	orders       *fakeOrderRepo
	reservations *fakeReservationRepo
	notifier     *fakeNotifier
	published    *[]events.Event
}

func newSweepFixture(t *testing.T) *sweepFixture {
	t.Helper()
	orders := &fakeOrderRepo{orders: map[string]*domain.Order{}}
	reservations := &fakeReservationRepo{reservations: map[string]*domain.Reservation{}}
	notifier := &fakeNotifier{}
	dispatcher := events.NewInMemoryDispatcher()

	var published []events.Event
	record := func(ctx context.Context, event events.Event) error {
		published = append(published, event)
		return nil
	}
	dispatcher.Subscribe(events.EventOrderEscalated, record)
	dispatcher.Subscribe(events.EventOrderAutoCancelled, record)

	sweeper := NewSweeper(SweeperDependencies{
		OrderRepo:       orders,
		ReservationRepo: reservations,
		Notifier:        notifier,
		Dispatcher:      dispatcher,
		Metrics:         observability.NewMetrics(),
		Logger:          zap.NewNop(),
		EscalateAfter:   10 * time.Minute,
		Interval:        time.Minute,
		StaffEmail:      "kitchen@example.com",
	})
	sweeper.nowFn = func() time.Time { return sweepNow }

	return &sweepFixture{
		sweeper:      sweeper,
		orders:       orders,
		reservations: reservations,
		notifier:     notifier,
		published:    &published,
	}
}

func TestSweepEscalatesUnattendedOrderOnce(t *testing.T) {
	f := newSweepFixture(t)
	f.orders.orders["a"] = newOrder("a", 11*time.Minute)

	f.sweeper.Sweep(context.Background())

	stored := f.orders.orders["a"]
	if stored.EscalatedAt == nil {
		t.Fatal("order was not escalated")
	}
	if len(f.notifier.sent) != 1 || f.notifier.sent[0].recipient != "kitchen@example.com" {
		t.Fatalf("staff notification missing, sent = %v", f.notifier.sent)
	}
	if len(*f.published) != 1 || (*f.published)[0].Type != events.EventOrderEscalated {
		t.Fatalf("escalation event missing, published = %v", *f.published)
	}

	// the persisted flag keeps later ticks quiet
	f.sweeper.Sweep(context.Background())
	if len(f.notifier.sent) != 1 {
		t.Errorf("second sweep re-escalated, sent = %v", f.notifier.sent)
	}
}

func TestSweepLeavesFreshOrdersAlone(t *testing.T) {
	f := newSweepFixture(t)
	f.orders.orders["a"] = newOrder("a", 5*time.Minute)

	f.sweeper.Sweep(context.Background())

	if f.orders.updates != 0 {
		t.Errorf("fresh order was written, updates = %d", f.orders.updates)
	}
	if len(f.notifier.sent) != 0 {
		t.Errorf("unexpected notifications: %v", f.notifier.sent)
	}
}

func TestSweepAutoCancelsUnpaidOrderPastDeadline(t *testing.T) {
	f := newSweepFixture(t)
	order := newOrder("a", 5*time.Minute)
	seen := order.CreatedAt.Add(time.Minute)
	order.SeenAt = &seen
	deadline := sweepNow.Add(-time.Minute)
	order.AutoCancelAt = &deadline
	f.orders.orders["a"] = order

	f.sweeper.Sweep(context.Background())

	stored := f.orders.orders["a"]
	if stored.Status != domain.StatusCancelled {
		t.Fatalf("status = %s, want CANCELLED", stored.Status)
	}
	if len(f.notifier.sent) != 1 || f.notifier.sent[0].recipient != "a@example.com" {
		t.Fatalf("customer notification missing, sent = %v", f.notifier.sent)
	}
	if len(*f.published) != 1 || (*f.published)[0].Type != events.EventOrderAutoCancelled {
		t.Fatalf("auto-cancel event missing, published = %v", *f.published)
	}
}

func TestSweepNeverCancelsPaidOrders(t *testing.T) {
	f := newSweepFixture(t)
	order := newOrder("a", 5*time.Minute)
	seen := order.CreatedAt.Add(time.Minute)
	order.SeenAt = &seen
	order.PaymentStatus = domain.PaymentStatusCompleted
	deadline := sweepNow.Add(-time.Hour)
	order.AutoCancelAt = &deadline
	f.orders.orders["a"] = order

	f.sweeper.Sweep(context.Background())

	if f.orders.orders["a"].Status != domain.StatusNew {
		t.Errorf("paid order status = %s, want NEW", f.orders.orders["a"].Status)
	}
	if len(f.notifier.sent) != 0 {
		t.Errorf("unexpected notifications: %v", f.notifier.sent)
	}
}

func TestSweepSkipsRecordOnVersionConflict(t *testing.T) {
	f := newSweepFixture(t)
	f.orders.orders["a"] = newOrder("a", 11*time.Minute)
	f.orders.updateErr = repository.ErrVersionConflict

	f.sweeper.Sweep(context.Background())

	if f.orders.orders["a"].EscalatedAt != nil {
		t.Error("conflicted write still landed in the store")
	}
	if len(f.notifier.sent) != 0 {
		t.Errorf("notification sent despite conflict: %v", f.notifier.sent)
	}
	if len(*f.published) != 0 {
		t.Errorf("event published despite conflict: %v", *f.published)
	}
}

func TestSweepNotifyFailureDoesNotLoseState(t *testing.T) {
	f := newSweepFixture(t)
	f.orders.orders["a"] = newOrder("a", 11*time.Minute)
	f.notifier.err = errors.New("smtp down")

	f.sweeper.Sweep(context.Background())

	if f.orders.orders["a"].EscalatedAt == nil {
		t.Error("escalation flag lost after notify failure")
	}
	if len(*f.published) != 1 {
		t.Errorf("event not published after notify failure, published = %v", *f.published)
	}
}

func TestSweepCoversReservations(t *testing.T) {
	f := newSweepFixture(t)
	created := sweepNow.Add(-11 * time.Minute)
	f.reservations.reservations["r"] = &domain.Reservation{
		ID:                "r",
		ReservationNumber: "RES-r",
		CustomerEmail:     "r@example.com",
		Status:            domain.StatusNew,
		PaymentStatus:     domain.PaymentStatusPending,
		CreatedAt:         created,
		Version:           1,
	}

	f.sweeper.Sweep(context.Background())

	if f.reservations.reservations["r"].EscalatedAt == nil {
		t.Error("reservation was not escalated")
	}
	if len(*f.published) != 1 || (*f.published)[0].Kind != domain.RecordKindReservation {
		t.Fatalf("reservation escalation event missing, published = %v", *f.published)
	}
}
