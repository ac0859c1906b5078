package domain

import "time"

// OrderTiming carries the derived timestamps the timing engine maintains for
// an order or reservation. CommittedReadyAt and AutoCancelAt are anchored to
// the owning record's creation instant; SeenAt and EscalatedAt are each set at
// most once and only matter while the record is still NEW.
type OrderTiming struct {
	ASAP              bool
	RequestedAt       *time.Time
	MinPrepMinutes    int
	AdminExtraMinutes int
	CommittedReadyAt  time.Time
	AutoCancelAt      *time.Time
	SeenAt            *time.Time
	EscalatedAt       *time.Time
}

// RecordKind distinguishes the aggregates that share timing behavior.
type RecordKind string

const (
	RecordKindOrder       RecordKind = "ORDER"
	RecordKindBuffetOrder RecordKind = "BUFFET_ORDER"
	RecordKindReservation RecordKind = "RESERVATION"
)

// TimedRecord is the capability shared by orders, buffet orders and
// reservations: everything the admission, timing and sweep logic needs,
// independent of the concrete aggregate.
type TimedRecord interface {
	RecordID() string
	RecordRef() string
	RecordKind() RecordKind
	CreatedAtUTC() time.Time
	Timing() *OrderTiming
	CurrentStatus() AggregateStatus
	SetStatus(status AggregateStatus)
	PaymentCompleted() bool
	ContactEmail() string
}
