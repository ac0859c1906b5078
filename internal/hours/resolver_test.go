package hours

import (
	"testing"
	"time"

	"github.com/spec-kit/restaurant-orders/internal/domain"
)

var testZone = time.FixedZone("CET", 3600)

// Monday lunch and dinner service plus a Friday late window that runs past
// midnight.
func testSchedule() domain.WeeklySchedule {
	return domain.WeeklySchedule{
		time.Monday: {
			{Open: domain.WallClock{Hour: 11}, Close: domain.WallClock{Hour: 14}},
			{Open: domain.WallClock{Hour: 18}, Close: domain.WallClock{Hour: 22}},
		},
		time.Friday: {
			{Open: domain.WallClock{Hour: 22}, Close: domain.WallClock{Hour: 2}},
		},
	}
}

// 2026-03-02 is a Monday, 2026-03-06 a Friday.
func at(day, hour, minute int) time.Time {
	return time.Date(2026, 3, day, hour, minute, 0, 0, testZone)
}

func TestStatusAtDaytimeWindow(t *testing.T) {
	r := NewResolver(testZone, 45*time.Minute, 21)
	schedule := testSchedule()

	tests := []struct {
		name     string
		at       time.Time
		delivery bool
		open     bool
		reason   Reason
	}{
		{"before first window", at(2, 10, 0), false, false, ReasonBeforeOpen},
		{"opening minute is open", at(2, 11, 0), false, true, ReasonOpen},
		{"inside lunch service", at(2, 13, 55), false, true, ReasonOpen},
		{"closing minute is closed", at(2, 14, 0), false, false, ReasonBetweenWindows},
		{"between services", at(2, 14, 5), false, false, ReasonBetweenWindows},
		{"inside dinner service", at(2, 19, 0), false, true, ReasonOpen},
		{"after last window", at(2, 22, 30), false, false, ReasonAfterClose},
		{"day without windows", at(3, 12, 0), false, false, ReasonClosedToday},
		{"pickup just before close", at(2, 21, 50), false, true, ReasonOpen},
		{"delivery inside cutoff", at(2, 21, 50), true, false, ReasonCutoffDelivery},
		{"delivery at cutoff boundary", at(2, 21, 15), true, false, ReasonCutoffDelivery},
		{"delivery before cutoff", at(2, 21, 14), true, true, ReasonOpen},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status := r.StatusAt(schedule, tt.at, tt.delivery)
			if status.OpenNow != tt.open || status.Reason != tt.reason {
				t.Errorf("StatusAt(%s) = open=%v reason=%s, want open=%v reason=%s",
					tt.at.Format("Mon 15:04"), status.OpenNow, status.Reason, tt.open, tt.reason)
			}
		})
	}
}

func TestStatusAtOvernightWindow(t *testing.T) {
	r := NewResolver(testZone, 0, 21)
	schedule := testSchedule()

	tests := []struct {
		name string
		at   time.Time
		open bool
	}{
		{"just after midnight opening", at(6, 22, 0), true},
		{"right before midnight", at(6, 23, 59), true},
		{"past midnight still open", at(7, 0, 30), true},
		{"last open minute", at(7, 1, 59), true},
		{"closing minute next day", at(7, 2, 0), false},
		{"saturday morning", at(7, 10, 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status := r.StatusAt(schedule, tt.at, false)
			if status.OpenNow != tt.open {
				t.Errorf("StatusAt(%s) open = %v, want %v (reason %s)",
					tt.at.Format("Mon 15:04"), status.OpenNow, tt.open, status.Reason)
			}
		})
	}
}

func TestStatusAtReportsNextOpeningWhenClosed(t *testing.T) {
	r := NewResolver(testZone, 0, 21)
	status := r.StatusAt(testSchedule(), at(2, 14, 5), false)

	if status.OpenNow {
		t.Fatal("expected closed between services")
	}
	if status.WindowOpensAt == nil || !status.WindowOpensAt.Equal(at(2, 18, 0)) {
		t.Errorf("WindowOpensAt = %v, want %v", status.WindowOpensAt, at(2, 18, 0))
	}
	if status.WindowClosesAt == nil || !status.WindowClosesAt.Equal(at(2, 22, 0)) {
		t.Errorf("WindowClosesAt = %v, want %v", status.WindowClosesAt, at(2, 22, 0))
	}
}

func TestStatusAtIsPure(t *testing.T) {
	r := NewResolver(testZone, 45*time.Minute, 21)
	schedule := testSchedule()
	instant := at(2, 13, 0)

	first := r.StatusAt(schedule, instant, true)
	second := r.StatusAt(schedule, instant, true)
	if first.OpenNow != second.OpenNow || first.Reason != second.Reason {
		t.Errorf("repeated resolution diverged: %+v vs %+v", first, second)
	}
}

func TestNextOpeningAfter(t *testing.T) {
	r := NewResolver(testZone, 0, 21)
	schedule := testSchedule()

	t.Run("mid window returns the following interval", func(t *testing.T) {
		next, ok := r.NextOpeningAfter(schedule, at(2, 12, 0))
		if !ok {
			t.Fatal("expected a next opening")
		}
		if !next.Start.Equal(at(2, 18, 0)) {
			t.Errorf("next.Start = %v, want %v", next.Start, at(2, 18, 0))
		}
	})

	t.Run("after last window rolls to the next service day", func(t *testing.T) {
		next, ok := r.NextOpeningAfter(schedule, at(2, 23, 0))
		if !ok {
			t.Fatal("expected a next opening")
		}
		if !next.Start.Equal(at(6, 22, 0)) {
			t.Errorf("next.Start = %v, want %v", next.Start, at(6, 22, 0))
		}
	})

	t.Run("opening instant itself is not strictly after", func(t *testing.T) {
		next, ok := r.NextOpeningAfter(schedule, at(2, 11, 0))
		if !ok {
			t.Fatal("expected a next opening")
		}
		if !next.Start.Equal(at(2, 18, 0)) {
			t.Errorf("next.Start = %v, want %v", next.Start, at(2, 18, 0))
		}
	})

	t.Run("empty schedule has no opening", func(t *testing.T) {
		if _, ok := r.NextOpeningAfter(domain.WeeklySchedule{}, at(2, 12, 0)); ok {
			t.Error("expected no opening on an empty schedule")
		}
	})
}

func TestIntervalsForDateOvernight(t *testing.T) {
	r := NewResolver(testZone, 0, 21)
	intervals := r.IntervalsForDate(testSchedule(), at(6, 12, 0))

	if len(intervals) != 1 {
		t.Fatalf("got %d intervals, want 1", len(intervals))
	}
	if !intervals[0].Start.Equal(at(6, 22, 0)) || !intervals[0].End.Equal(at(7, 2, 0)) {
		t.Errorf("interval = [%v, %v), want [%v, %v)", intervals[0].Start, intervals[0].End, at(6, 22, 0), at(7, 2, 0))
	}
}
