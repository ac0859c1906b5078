package domain

import "time"

// OrderItem is a priced menu-item snapshot taken at submission time.
type OrderItem struct {
	MenuItemID string  `json:"menu_item_id"`
	Name       string  `json:"name"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
}

// Order is the aggregate for food orders, both standard and buffet-style.
type Order struct {
	ID            string
	OrderNumber   string
	CustomerID    string
	CustomerEmail string
	Kind          RecordKind
	Delivery      bool
	Items         []OrderItem
	TotalAmount   float64
	Status        AggregateStatus
	PaymentStatus PaymentStatus
	OrderTiming
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RecordID implements TimedRecord.
func (o *Order) RecordID() string { return o.ID }

// RecordRef returns the customer-facing order number.
func (o *Order) RecordRef() string { return o.OrderNumber }

// RecordKind implements TimedRecord.
func (o *Order) RecordKind() RecordKind {
	if o.Kind == "" {
		return RecordKindOrder
	}
	return o.Kind
}

// CreatedAtUTC implements TimedRecord.
func (o *Order) CreatedAtUTC() time.Time { return o.CreatedAt.UTC() }

// Timing implements TimedRecord.
func (o *Order) Timing() *OrderTiming { return &o.OrderTiming }

// CurrentStatus implements TimedRecord.
func (o *Order) CurrentStatus() AggregateStatus { return o.Status }

// SetStatus implements TimedRecord.
func (o *Order) SetStatus(status AggregateStatus) { o.Status = status }

// PaymentCompleted implements TimedRecord.
func (o *Order) PaymentCompleted() bool { return o.PaymentStatus == PaymentStatusCompleted }

// ContactEmail implements TimedRecord.
func (o *Order) ContactEmail() string { return o.CustomerEmail }
