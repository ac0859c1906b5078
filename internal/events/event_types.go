package events

import (
	"time"

	"github.com/spec-kit/restaurant-orders/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventOrderCreated       EventType = "order_created"
	EventOrderConfirmed     EventType = "order_confirmed"
	EventOrderCancelled     EventType = "order_cancelled"
	EventOrderEscalated     EventType = "order_escalated"
	EventOrderAutoCancelled EventType = "order_auto_cancelled"
	EventPrepTimeAdjusted   EventType = "prep_time_adjusted"
	EventReservationCreated EventType = "reservation_created"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string            `json:"id"`
	Type      EventType         `json:"type"`
	RecordID  string            `json:"record_id"`
	RecordRef string            `json:"record_ref"`
	Kind      domain.RecordKind `json:"kind"`
	ActorID   string            `json:"actor_id,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
	Payload   interface{}       `json:"payload,omitempty"`
}

// OrderCreatedPayload payload.
type OrderCreatedPayload struct {
	ASAP             bool       `json:"asap"`
	Delivery         bool       `json:"delivery"`
	RequestedAt      *time.Time `json:"requested_at,omitempty"`
	CommittedReadyAt time.Time  `json:"committed_ready_at"`
	TotalAmount      float64    `json:"total_amount"`
}

// OrderConfirmedPayload payload.
type OrderConfirmedPayload struct {
	ETAMinutes       int       `json:"eta_minutes"`
	CommittedReadyAt time.Time `json:"committed_ready_at"`
}

// OrderCancelledPayload payload.
type OrderCancelledPayload struct {
	Reason       string `json:"reason"`
	RefundNotice bool   `json:"refund_notice"`
}

// PrepTimeAdjustedPayload payload.
type PrepTimeAdjustedPayload struct {
	ExtraMinutes     int       `json:"extra_minutes"`
	CommittedReadyAt time.Time `json:"committed_ready_at"`
}

// EscalatedPayload payload.
type EscalatedPayload struct {
	UnattendedFor string `json:"unattended_for"`
}
