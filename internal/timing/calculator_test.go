package timing

import (
	"errors"
	"testing"
	"time"

	"github.com/spec-kit/restaurant-orders/internal/domain"
	apperrors "github.com/spec-kit/restaurant-orders/pkg/util/errorutil"
)

var basis = time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

func newASAPOrder() *domain.Order {
	return &domain.Order{
		ID:            "ord-1",
		OrderNumber:   "ORD-1",
		CustomerEmail: "eva@example.com",
		Status:        domain.StatusNew,
		PaymentStatus: domain.PaymentStatusPending,
		OrderTiming:   domain.OrderTiming{ASAP: true, MinPrepMinutes: 30},
		CreatedAt:     basis,
	}
}

func TestApplyInitialASAP(t *testing.T) {
	c := NewCalculator(30, time.Hour)
	order := newASAPOrder()

	c.ApplyInitial(&order.OrderTiming, basis)

	if want := basis.Add(30 * time.Minute); !order.CommittedReadyAt.Equal(want) {
		t.Errorf("CommittedReadyAt = %v, want %v", order.CommittedReadyAt, want)
	}
	if order.AutoCancelAt == nil || !order.AutoCancelAt.Equal(basis.Add(time.Hour)) {
		t.Errorf("AutoCancelAt = %v, want %v", order.AutoCancelAt, basis.Add(time.Hour))
	}
	if order.AdminExtraMinutes != 0 {
		t.Errorf("AdminExtraMinutes = %d, want 0", order.AdminExtraMinutes)
	}
}

func TestApplyInitialDefaultsPrep(t *testing.T) {
	c := NewCalculator(25, time.Hour)
	timing := domain.OrderTiming{ASAP: true}

	c.ApplyInitial(&timing, basis)

	if timing.MinPrepMinutes != 25 {
		t.Errorf("MinPrepMinutes = %d, want 25", timing.MinPrepMinutes)
	}
	if want := basis.Add(25 * time.Minute); !timing.CommittedReadyAt.Equal(want) {
		t.Errorf("CommittedReadyAt = %v, want %v", timing.CommittedReadyAt, want)
	}
}

func TestApplyInitialScheduled(t *testing.T) {
	c := NewCalculator(30, time.Hour)
	requested := time.Date(2026, 3, 2, 19, 0, 0, 0, time.FixedZone("CET", 3600))
	timing := domain.OrderTiming{ASAP: false, RequestedAt: &requested, MinPrepMinutes: 30}

	c.ApplyInitial(&timing, basis)

	if !timing.CommittedReadyAt.Equal(requested) {
		t.Errorf("CommittedReadyAt = %v, want requested instant", timing.CommittedReadyAt)
	}
	if zone, _ := timing.RequestedAt.Zone(); zone != "UTC" {
		t.Errorf("RequestedAt not normalized to UTC, zone = %s", zone)
	}
}

func TestApplyInitialKeepsExistingDeadline(t *testing.T) {
	c := NewCalculator(30, time.Hour)
	existing := basis.Add(20 * time.Minute)
	timing := domain.OrderTiming{ASAP: true, MinPrepMinutes: 30, AutoCancelAt: &existing}

	c.ApplyInitial(&timing, basis)

	if !timing.AutoCancelAt.Equal(existing) {
		t.Errorf("AutoCancelAt moved to %v, want %v", timing.AutoCancelAt, existing)
	}
}

func TestApplyExtraMinutes(t *testing.T) {
	c := NewCalculator(30, time.Hour)

	t.Run("anchored to creation instant", func(t *testing.T) {
		order := newASAPOrder()
		c.ApplyInitial(&order.OrderTiming, basis)

		if err := c.ApplyExtraMinutes(order, 15); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if want := basis.Add(45 * time.Minute); !order.CommittedReadyAt.Equal(want) {
			t.Errorf("CommittedReadyAt = %v, want %v", order.CommittedReadyAt, want)
		}

		// a second adjustment replaces the first rather than stacking
		if err := c.ApplyExtraMinutes(order, 5); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if want := basis.Add(35 * time.Minute); !order.CommittedReadyAt.Equal(want) {
			t.Errorf("CommittedReadyAt = %v, want %v", order.CommittedReadyAt, want)
		}
	})

	t.Run("negative input clamps to zero", func(t *testing.T) {
		order := newASAPOrder()
		c.ApplyInitial(&order.OrderTiming, basis)

		if err := c.ApplyExtraMinutes(order, -10); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if order.AdminExtraMinutes != 0 {
			t.Errorf("AdminExtraMinutes = %d, want 0", order.AdminExtraMinutes)
		}
		if want := basis.Add(30 * time.Minute); !order.CommittedReadyAt.Equal(want) {
			t.Errorf("CommittedReadyAt = %v, want %v", order.CommittedReadyAt, want)
		}
	})

	t.Run("rejected for scheduled orders", func(t *testing.T) {
		order := newASAPOrder()
		order.ASAP = false
		err := c.ApplyExtraMinutes(order, 10)
		var domainErr *apperrors.DomainError
		if !errors.As(err, &domainErr) || domainErr.Code != "EXTRA_MINUTES_NOT_APPLICABLE" {
			t.Errorf("err = %v, want EXTRA_MINUTES_NOT_APPLICABLE", err)
		}
	})

	t.Run("rejected once confirmed", func(t *testing.T) {
		order := newASAPOrder()
		order.Status = domain.StatusConfirmed
		err := c.ApplyExtraMinutes(order, 10)
		var domainErr *apperrors.DomainError
		if !errors.As(err, &domainErr) || domainErr.Code != "RECORD_NOT_ADJUSTABLE" {
			t.Errorf("err = %v, want RECORD_NOT_ADJUSTABLE", err)
		}
	})
}

func TestETAMinutes(t *testing.T) {
	timing := domain.OrderTiming{CommittedReadyAt: basis.Add(42 * time.Minute)}

	if got := ETAMinutes(&timing, basis); got != 42 {
		t.Errorf("ETAMinutes = %d, want 42", got)
	}
	if got := ETAMinutes(&timing, basis.Add(time.Hour)); got != 0 {
		t.Errorf("ETAMinutes past ready time = %d, want 0", got)
	}
}

func TestShouldEscalate(t *testing.T) {
	after := 10 * time.Minute
	seen := basis.Add(2 * time.Minute)

	tests := []struct {
		name  string
		setup func(*domain.Order)
		now   time.Time
		want  bool
	}{
		{"unattended past threshold", func(o *domain.Order) {}, basis.Add(11 * time.Minute), true},
		{"still within threshold", func(o *domain.Order) {}, basis.Add(10 * time.Minute), false},
		{"already seen", func(o *domain.Order) { o.SeenAt = &seen }, basis.Add(11 * time.Minute), false},
		{"already escalated", func(o *domain.Order) { o.EscalatedAt = &seen }, basis.Add(11 * time.Minute), false},
		{"confirmed orders never escalate", func(o *domain.Order) { o.Status = domain.StatusConfirmed }, basis.Add(time.Hour), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order := newASAPOrder()
			tt.setup(order)
			if got := ShouldEscalate(order, tt.now, after); got != tt.want {
				t.Errorf("ShouldEscalate = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestShouldAutoCancel(t *testing.T) {
	deadline := basis.Add(time.Hour)

	tests := []struct {
		name  string
		setup func(*domain.Order)
		now   time.Time
		want  bool
	}{
		{"unpaid past deadline", func(o *domain.Order) { o.AutoCancelAt = &deadline }, deadline.Add(time.Minute), true},
		{"deadline not yet reached", func(o *domain.Order) { o.AutoCancelAt = &deadline }, deadline, false},
		{"paid orders survive", func(o *domain.Order) {
			o.AutoCancelAt = &deadline
			o.PaymentStatus = domain.PaymentStatusCompleted
		}, deadline.Add(time.Hour), false},
		{"no deadline set", func(o *domain.Order) {}, deadline.Add(time.Hour), false},
		{"cancelled orders are final", func(o *domain.Order) {
			o.AutoCancelAt = &deadline
			o.Status = domain.StatusCancelled
		}, deadline.Add(time.Minute), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order := newASAPOrder()
			tt.setup(order)
			if got := ShouldAutoCancel(order, tt.now); got != tt.want {
				t.Errorf("ShouldAutoCancel = %v, want %v", got, tt.want)
			}
		})
	}
}
