package hours

import (
	"errors"
	"testing"
	"time"

	apperrors "github.com/spec-kit/restaurant-orders/pkg/util/errorutil"
)

func rejectionCode(t *testing.T, err error) string {
	t.Helper()
	if err == nil {
		return ""
	}
	var domainErr *apperrors.DomainError
	if !errors.As(err, &domainErr) {
		t.Fatalf("expected a domain error, got %v", err)
	}
	return domainErr.Code
}

func TestAssertOrderAllowed(t *testing.T) {
	resolver := NewResolver(testZone, 45*time.Minute, 21)
	guard := NewGuard(resolver, 30*time.Minute)
	schedule := testSchedule()

	earliestAfterDinnerOpen := at(2, 18, 30)
	justBeforeEarliest := at(2, 18, 29)
	betweenServices := at(2, 16, 0)
	duringDinner := at(2, 19, 0)

	tests := []struct {
		name        string
		now         time.Time
		delivery    bool
		asap        bool
		scheduledAt *time.Time
		prep        time.Duration
		wantCode    string
	}{
		{
			name:     "asap while open",
			now:      at(2, 12, 0),
			asap:     true,
			prep:     30 * time.Minute,
			wantCode: "",
		},
		{
			name:     "asap while closed",
			now:      at(2, 15, 0),
			asap:     true,
			prep:     30 * time.Minute,
			wantCode: RejectASAPWhenClosed,
		},
		{
			name:     "asap ready past closing",
			now:      at(2, 13, 45),
			asap:     true,
			prep:     30 * time.Minute,
			wantCode: RejectClosedAtTarget,
		},
		{
			name:     "asap delivery inside cutoff",
			now:      at(2, 21, 30),
			delivery: true,
			asap:     true,
			prep:     15 * time.Minute,
			wantCode: RejectASAPWhenClosed,
		},
		{
			name:     "scheduled without requested time",
			now:      at(2, 12, 0),
			asap:     false,
			wantCode: RejectRequestedAtRequired,
		},
		{
			name:        "scheduled while closed at the grace boundary",
			now:         at(2, 15, 0),
			asap:        false,
			scheduledAt: &earliestAfterDinnerOpen,
			wantCode:    "",
		},
		{
			name:        "scheduled while closed one minute too soon",
			now:         at(2, 15, 0),
			asap:        false,
			scheduledAt: &justBeforeEarliest,
			wantCode:    RejectScheduleTooSoon,
		},
		{
			name:        "scheduled while open for a closed target",
			now:         at(2, 12, 0),
			asap:        false,
			scheduledAt: &betweenServices,
			wantCode:    RejectClosedAtTarget,
		},
		{
			name:        "scheduled while open for an open target",
			now:         at(2, 12, 0),
			asap:        false,
			scheduledAt: &duringDinner,
			wantCode:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := guard.AssertOrderAllowed(schedule, tt.now, tt.delivery, tt.asap, tt.scheduledAt, tt.prep)
			if got := rejectionCode(t, err); got != tt.wantCode {
				t.Errorf("rejection code = %q, want %q (err %v)", got, tt.wantCode, err)
			}
		})
	}
}

func TestAssertOrderAllowedNoUpcomingOpening(t *testing.T) {
	resolver := NewResolver(testZone, 0, 21)
	guard := NewGuard(resolver, 30*time.Minute)

	scheduledAt := at(2, 18, 30)
	err := guard.AssertOrderAllowed(nil, at(2, 15, 0), false, false, &scheduledAt, 0)
	if got := rejectionCode(t, err); got != RejectClosedNoNextOpen {
		t.Errorf("rejection code = %q, want %q", got, RejectClosedNoNextOpen)
	}
}
