package dto

import (
	"time"

	"github.com/spec-kit/restaurant-orders/internal/domain"
)

// CreateOrderRequest payload.
type CreateOrderRequest struct {
	Kind           string             `json:"kind,omitempty"`
	Delivery       bool               `json:"delivery"`
	ASAP           bool               `json:"asap"`
	RequestedAt    *time.Time         `json:"requested_at,omitempty"`
	MinPrepMinutes int                `json:"min_prep_minutes,omitempty"`
	Items          []OrderItemRequest `json:"items"`
}

// OrderItemRequest describes one item line.
type OrderItemRequest struct {
	MenuItemID string  `json:"menu_item_id"`
	Name       string  `json:"name"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
}

// CreateReservationRequest payload.
type CreateReservationRequest struct {
	PartySize   int        `json:"party_size"`
	RequestedAt *time.Time `json:"requested_at"`
	Notes       string     `json:"notes,omitempty"`
}

// OrderResponse is the customer-facing order view.
type OrderResponse struct {
	ID               string                 `json:"id"`
	OrderNumber      string                 `json:"order_number"`
	Kind             domain.RecordKind      `json:"kind"`
	Delivery         bool                   `json:"delivery"`
	ASAP             bool                   `json:"asap"`
	Status           domain.AggregateStatus `json:"status"`
	PaymentStatus    domain.PaymentStatus   `json:"payment_status"`
	Items            []domain.OrderItem     `json:"items"`
	TotalAmount      float64                `json:"total_amount"`
	RequestedAt      *time.Time             `json:"requested_at,omitempty"`
	CommittedReadyAt time.Time              `json:"committed_ready_at"`
	CreatedAt        time.Time              `json:"created_at"`
}

// ReservationResponse is the customer-facing reservation view.
type ReservationResponse struct {
	ID                string                 `json:"id"`
	ReservationNumber string                 `json:"reservation_number"`
	PartySize         int                    `json:"party_size"`
	Status            domain.AggregateStatus `json:"status"`
	RequestedAt       *time.Time             `json:"requested_at,omitempty"`
	CreatedAt         time.Time              `json:"created_at"`
}

// AdminOrderResponse adds the timing internals staff care about.
type AdminOrderResponse struct {
	OrderResponse
	MinPrepMinutes    int        `json:"min_prep_minutes"`
	AdminExtraMinutes int        `json:"admin_extra_minutes"`
	AutoCancelAt      *time.Time `json:"auto_cancel_at,omitempty"`
	SeenAt            *time.Time `json:"seen_at,omitempty"`
	EscalatedAt       *time.Time `json:"escalated_at,omitempty"`
	Version           int64      `json:"version"`
}

// ConfirmRequest payload for confirming an order.
type ConfirmRequest struct {
	ExtraMinutes *int `json:"extra_minutes,omitempty"`
}

// PatchExtraMinutesRequest payload.
type PatchExtraMinutesRequest struct {
	ExtraMinutes int `json:"extra_minutes"`
}

// CancelRequest payload.
type CancelRequest struct {
	Reason string `json:"reason,omitempty"`
}
