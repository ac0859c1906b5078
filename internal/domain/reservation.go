package domain

import "time"

// Reservation is the aggregate for table reservations. It shares the timing
// fields and lifecycle of orders so the sweep logic can treat both uniformly.
type Reservation struct {
	ID                string
	ReservationNumber string
	CustomerID        string
	CustomerEmail     string
	PartySize         int
	Notes             string
	Status            AggregateStatus
	PaymentStatus     PaymentStatus
	OrderTiming
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RecordID implements TimedRecord.
func (r *Reservation) RecordID() string { return r.ID }

// RecordRef returns the customer-facing reservation number.
func (r *Reservation) RecordRef() string { return r.ReservationNumber }

// RecordKind implements TimedRecord.
func (r *Reservation) RecordKind() RecordKind { return RecordKindReservation }

// CreatedAtUTC implements TimedRecord.
func (r *Reservation) CreatedAtUTC() time.Time { return r.CreatedAt.UTC() }

// Timing implements TimedRecord.
func (r *Reservation) Timing() *OrderTiming { return &r.OrderTiming }

// CurrentStatus implements TimedRecord.
func (r *Reservation) CurrentStatus() AggregateStatus { return r.Status }

// SetStatus implements TimedRecord.
func (r *Reservation) SetStatus(status AggregateStatus) { r.Status = status }

// PaymentCompleted implements TimedRecord.
func (r *Reservation) PaymentCompleted() bool { return r.PaymentStatus == PaymentStatusCompleted }

// ContactEmail implements TimedRecord.
func (r *Reservation) ContactEmail() string { return r.CustomerEmail }
