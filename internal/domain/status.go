package domain

// AggregateStatus is the lifecycle state shared by orders and reservations.
type AggregateStatus string

const (
	StatusNew       AggregateStatus = "NEW"
	StatusConfirmed AggregateStatus = "CONFIRMED"
	StatusCancelled AggregateStatus = "CANCELLED"
)

// PaymentStatus mirrors the payment gateway's view of a record.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusCompleted PaymentStatus = "COMPLETED"
	PaymentStatusFailed    PaymentStatus = "FAILED"
	PaymentStatusRefunded  PaymentStatus = "REFUNDED"
)

var allowedTransitions = map[AggregateStatus][]AggregateStatus{
	StatusNew:       {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {},
	StatusCancelled: {},
}

// IsValidTransition reports whether current may move to next.
func IsValidTransition(current, next AggregateStatus) bool {
	for _, candidate := range allowedTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}
