package hours

import (
	"net/http"
	"time"

	"github.com/spec-kit/restaurant-orders/internal/domain"
	apperrors "github.com/spec-kit/restaurant-orders/pkg/util/errorutil"
)

// Rejection codes surfaced by the admission guard. All are terminal for the
// request: the caller must change parameters and resubmit.
const (
	RejectRequestedAtRequired = "REQUESTED_AT_REQUIRED"
	RejectASAPWhenClosed      = "ASAP_NOT_ALLOWED_WHEN_CLOSED"
	RejectScheduleTooSoon     = "SCHEDULE_TOO_SOON_AFTER_OPEN"
	RejectClosedNoNextOpen    = "RESTAURANT_CLOSED_NO_NEXT_OPEN"
	RejectClosedAtTarget      = "RESTAURANT_CLOSED_AT_TARGET"
)

// Guard decides whether a proposed order may be accepted at all, given the
// current schedule and clock.
type Guard struct {
	resolver       *Resolver
	graceAfterOpen time.Duration
}

// NewGuard builds a guard. graceAfterOpen is the minimum lead time after a
// future opening that an order scheduled while closed must respect.
func NewGuard(resolver *Resolver, graceAfterOpen time.Duration) *Guard {
	return &Guard{resolver: resolver, graceAfterOpen: graceAfterOpen}
}

// AssertOrderAllowed validates an order proposal against business hours.
// prepTime is the minimum preparation time used to project the ready instant
// of an ASAP order. Returns nil on acceptance or a conflict error carrying
// one of the rejection codes.
func (g *Guard) AssertOrderAllowed(schedule domain.WeeklySchedule, now time.Time, forDelivery, asap bool, scheduledAt *time.Time, prepTime time.Duration) error {
	if !asap && scheduledAt == nil {
		return rejection(RejectRequestedAtRequired, "requested_at is required for scheduled orders", nil)
	}

	if asap {
		status := g.resolver.StatusAt(schedule, now, forDelivery)
		if !status.OpenNow {
			return rejection(RejectASAPWhenClosed, "restaurant is closed, ASAP orders are not accepted", map[string]any{
				"reason": status.Reason,
			})
		}
	}

	if !asap {
		status := g.resolver.StatusAt(schedule, now, forDelivery)
		if !status.OpenNow {
			next, ok := g.resolver.NextOpeningAfter(schedule, now)
			if !ok {
				return rejection(RejectClosedNoNextOpen, "restaurant is closed with no upcoming opening", nil)
			}
			earliest := next.Start.Add(g.graceAfterOpen)
			if scheduledAt.Before(earliest) {
				return rejection(RejectScheduleTooSoon, "requested time is too soon after the next opening", map[string]any{
					"earliest_allowed": earliest,
				})
			}
		}
	}

	target := now.Add(prepTime)
	if !asap {
		target = *scheduledAt
	}
	status := g.resolver.StatusAt(schedule, target, forDelivery)
	if !status.OpenNow {
		return rejection(RejectClosedAtTarget, "restaurant is closed at the requested time", map[string]any{
			"reason": status.Reason,
			"target": target,
		})
	}
	return nil
}

func rejection(code, message string, details map[string]any) error {
	return apperrors.NewDomainError(code, message, http.StatusConflict, details)
}
