package timing

import (
	"net/http"
	"time"

	"github.com/spec-kit/restaurant-orders/internal/domain"
	apperrors "github.com/spec-kit/restaurant-orders/pkg/util/errorutil"
)

// Calculator stamps and recomputes the derived timing fields of orders and
// reservations. All computations anchor to the record's creation instant; an
// admin edit never moves that anchor.
type Calculator struct {
	defaultPrepMinutes int
	autoCancelAfter    time.Duration
}

// NewCalculator builds a calculator from configured defaults.
func NewCalculator(defaultPrepMinutes int, autoCancelAfter time.Duration) *Calculator {
	if defaultPrepMinutes <= 0 {
		defaultPrepMinutes = 30
	}
	return &Calculator{defaultPrepMinutes: defaultPrepMinutes, autoCancelAfter: autoCancelAfter}
}

// DefaultPrep returns the fallback minimum preparation time.
func (c *Calculator) DefaultPrep() time.Duration {
	return time.Duration(c.defaultPrepMinutes) * time.Minute
}

// ApplyInitial stamps the timing fields of a freshly created record.
// createdAt becomes the frozen basis for the committed ready time and the
// auto-cancel deadline.
func (c *Calculator) ApplyInitial(t *domain.OrderTiming, createdAt time.Time) {
	basis := createdAt.UTC()
	if t.MinPrepMinutes <= 0 {
		t.MinPrepMinutes = c.defaultPrepMinutes
	}
	t.AdminExtraMinutes = 0
	if t.RequestedAt != nil {
		normalized := t.RequestedAt.UTC()
		t.RequestedAt = &normalized
	}
	if t.ASAP {
		t.CommittedReadyAt = basis.Add(time.Duration(t.MinPrepMinutes+t.AdminExtraMinutes) * time.Minute)
	} else if t.RequestedAt != nil {
		t.CommittedReadyAt = *t.RequestedAt
	}
	if t.AutoCancelAt == nil && c.autoCancelAfter > 0 {
		deadline := basis.Add(c.autoCancelAfter)
		t.AutoCancelAt = &deadline
	}
}

// ApplyExtraMinutes records an admin prep-time adjustment and recomputes the
// committed ready time, still anchored to the original creation instant.
// Only ASAP records still in their initial status may be adjusted; negative
// input is clamped to zero.
func (c *Calculator) ApplyExtraMinutes(rec domain.TimedRecord, extraMinutes int) error {
	t := rec.Timing()
	if !t.ASAP {
		return apperrors.NewDomainError("EXTRA_MINUTES_NOT_APPLICABLE", "extra minutes apply to ASAP orders only", http.StatusConflict, nil)
	}
	if rec.CurrentStatus() != domain.StatusNew {
		return apperrors.NewDomainError("RECORD_NOT_ADJUSTABLE", "timing can no longer be adjusted", http.StatusConflict, map[string]any{
			"status": rec.CurrentStatus(),
		})
	}
	if extraMinutes < 0 {
		extraMinutes = 0
	}
	t.AdminExtraMinutes = extraMinutes
	t.CommittedReadyAt = rec.CreatedAtUTC().Add(time.Duration(t.MinPrepMinutes+t.AdminExtraMinutes) * time.Minute)
	return nil
}

// ETAMinutes returns the whole minutes between now and the committed ready
// time, floored at zero.
func ETAMinutes(t *domain.OrderTiming, now time.Time) int {
	remaining := t.CommittedReadyAt.Sub(now)
	if remaining < 0 {
		return 0
	}
	return int(remaining / time.Minute)
}

// ShouldEscalate reports whether a record has gone unattended past the
// threshold. Once SeenAt or EscalatedAt is set this never fires again.
func ShouldEscalate(rec domain.TimedRecord, now time.Time, after time.Duration) bool {
	if rec.CurrentStatus() != domain.StatusNew {
		return false
	}
	t := rec.Timing()
	if t.SeenAt != nil || t.EscalatedAt != nil {
		return false
	}
	return now.Sub(rec.CreatedAtUTC()) > after
}

// ShouldAutoCancel reports whether an unpaid record is past its deadline.
// Records whose payment completed are never auto-cancelled.
func ShouldAutoCancel(rec domain.TimedRecord, now time.Time) bool {
	if rec.CurrentStatus() != domain.StatusNew {
		return false
	}
	t := rec.Timing()
	if t.AutoCancelAt == nil {
		return false
	}
	if rec.PaymentCompleted() {
		return false
	}
	return now.After(*t.AutoCancelAt)
}
