package hours

import (
	"fmt"
	"sort"
	"time"

	"github.com/spec-kit/restaurant-orders/internal/domain"
)

// Reason classifies why the restaurant is open or closed at an instant.
type Reason string

const (
	ReasonOpen           Reason = "OPEN"
	ReasonBeforeOpen     Reason = "BEFORE_OPEN"
	ReasonBetweenWindows Reason = "BETWEEN_WINDOWS"
	ReasonAfterClose     Reason = "AFTER_CLOSE"
	ReasonClosedToday    Reason = "CLOSED_TODAY"
	ReasonCutoffDelivery Reason = "CUTOFF_DELIVERY"
)

// Interval is one concrete open period on a calendar date, resolved from a
// weekly window in the restaurant's zone. Never persisted.
type Interval struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether the instant falls inside the interval. Start is
// inclusive, End exclusive.
func (iv Interval) Contains(at time.Time) bool {
	return !at.Before(iv.Start) && at.Before(iv.End)
}

// Status is the resolved open/closed state at one instant.
type Status struct {
	OpenNow        bool
	Reason         Reason
	WindowOpensAt  *time.Time
	WindowClosesAt *time.Time
	Message        string
}

// Resolver answers open/closed questions against a weekly schedule. It is
// stateless; every method is a pure function of its inputs.
type Resolver struct {
	loc            *time.Location
	deliveryCutoff time.Duration
	lookaheadDays  int
}

const minLookaheadDays = 14

// NewResolver builds a resolver for the restaurant's zone. Lookahead bounds
// the next-opening search and is never allowed below two weeks.
func NewResolver(loc *time.Location, deliveryCutoff time.Duration, lookaheadDays int) *Resolver {
	if loc == nil {
		loc = time.UTC
	}
	if lookaheadDays < minLookaheadDays {
		lookaheadDays = minLookaheadDays
	}
	return &Resolver{loc: loc, deliveryCutoff: deliveryCutoff, lookaheadDays: lookaheadDays}
}

// Location returns the restaurant's time zone.
func (r *Resolver) Location() *time.Location { return r.loc }

// IntervalsForDate expands every weekly window recurring on date's weekday
// into a concrete interval, sorted by start. Overnight windows end on the
// following calendar day.
func (r *Resolver) IntervalsForDate(schedule domain.WeeklySchedule, date time.Time) []Interval {
	date = date.In(r.loc)
	year, month, day := date.Date()

	windows := schedule.WindowsOn(date.Weekday())
	intervals := make([]Interval, 0, len(windows))
	for _, w := range windows {
		start := time.Date(year, month, day, w.Open.Hour, w.Open.Minute, 0, 0, r.loc)
		end := time.Date(year, month, day, w.Close.Hour, w.Close.Minute, 0, 0, r.loc)
		if w.Overnight() {
			end = end.AddDate(0, 0, 1)
		}
		if !end.After(start) {
			continue
		}
		intervals = append(intervals, Interval{Start: start, End: end})
	}
	sort.Slice(intervals, func(i, j int) bool { return intervals[i].Start.Before(intervals[j].Start) })
	return intervals
}

// StatusAt resolves the open/closed state at an instant. Overnight spillover
// from the previous day is considered when looking for a containing window;
// the closed-state classification, however, is made against the instant's own
// calendar day only.
func (r *Resolver) StatusAt(schedule domain.WeeklySchedule, at time.Time, forDelivery bool) Status {
	at = at.In(r.loc)

	today := r.IntervalsForDate(schedule, at)
	candidates := append(r.IntervalsForDate(schedule, at.AddDate(0, 0, -1)), today...)
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].Start.Before(candidates[j].Start) })

	for _, iv := range candidates {
		if !iv.Contains(at) {
			continue
		}
		opensAt, closesAt := iv.Start, iv.End
		if forDelivery && r.deliveryCutoff > 0 && !at.Before(iv.End.Add(-r.deliveryCutoff)) {
			return Status{
				OpenNow:        false,
				Reason:         ReasonCutoffDelivery,
				WindowOpensAt:  &opensAt,
				WindowClosesAt: &closesAt,
				Message:        fmt.Sprintf("delivery orders close %d minutes before %s", int(r.deliveryCutoff.Minutes()), closesAt.Format("15:04")),
			}
		}
		return Status{
			OpenNow:        true,
			Reason:         ReasonOpen,
			WindowOpensAt:  &opensAt,
			WindowClosesAt: &closesAt,
			Message:        fmt.Sprintf("open until %s", closesAt.Format("15:04")),
		}
	}

	status := Status{OpenNow: false, Reason: r.classifyClosed(today, at)}
	if next, ok := r.NextOpeningAfter(schedule, at); ok {
		opensAt, closesAt := next.Start, next.End
		status.WindowOpensAt = &opensAt
		status.WindowClosesAt = &closesAt
		status.Message = fmt.Sprintf("closed, opens %s at %s", opensAt.Format("Monday"), opensAt.Format("15:04"))
	} else {
		status.Message = "closed"
	}
	return status
}

func (r *Resolver) classifyClosed(today []Interval, at time.Time) Reason {
	if len(today) == 0 {
		return ReasonClosedToday
	}
	if at.Before(today[0].Start) {
		return ReasonBeforeOpen
	}
	if !at.Before(today[len(today)-1].End) {
		return ReasonAfterClose
	}
	return ReasonBetweenWindows
}

// NextOpeningAfter scans forward day by day and returns the first interval
// whose start is strictly after the instant, or false when none exists within
// the lookahead horizon.
func (r *Resolver) NextOpeningAfter(schedule domain.WeeklySchedule, after time.Time) (Interval, bool) {
	after = after.In(r.loc)
	for offset := 0; offset <= r.lookaheadDays; offset++ {
		for _, iv := range r.IntervalsForDate(schedule, after.AddDate(0, 0, offset)) {
			if iv.Start.After(after) {
				return iv, true
			}
		}
	}
	return Interval{}, false
}
