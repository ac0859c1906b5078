package dto

import (
	"time"

	"github.com/spec-kit/restaurant-orders/internal/hours"
)

// HoursStatusResponse reports open/closed state at an instant.
type HoursStatusResponse struct {
	OpenNow        bool         `json:"open_now"`
	Reason         hours.Reason `json:"reason"`
	WindowOpensAt  *time.Time   `json:"window_opens_at,omitempty"`
	WindowClosesAt *time.Time   `json:"window_closes_at,omitempty"`
	Message        string       `json:"message"`
}

// NextOpeningResponse reports the next opening interval.
type NextOpeningResponse struct {
	OpensAt  time.Time `json:"opens_at"`
	ClosesAt time.Time `json:"closes_at"`
}

// HoursStatusFromDomain converts a resolved status.
func HoursStatusFromDomain(status hours.Status) HoursStatusResponse {
	return HoursStatusResponse{
		OpenNow:        status.OpenNow,
		Reason:         status.Reason,
		WindowOpensAt:  status.WindowOpensAt,
		WindowClosesAt: status.WindowClosesAt,
		Message:        status.Message,
	}
}
