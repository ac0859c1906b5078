package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/restaurant-orders/internal/api/dto"
	"github.com/spec-kit/restaurant-orders/internal/service"
	apperrors "github.com/spec-kit/restaurant-orders/pkg/util/errorutil"
)

// HoursHandler exposes open/closed status to clients.
type HoursHandler struct {
	service *service.HoursService
}

// NewHoursHandler constructs handler.
func NewHoursHandler(hoursService *service.HoursService) *HoursHandler {
	return &HoursHandler{service: hoursService}
}

// Status GET /hours/status?at=RFC3339&delivery=true.
func (h *HoursHandler) Status(c *fiber.Ctx) error {
	forDelivery := c.QueryBool("delivery", false)

	at := c.Query("at")
	if at == "" {
		return c.JSON(fiber.Map{"data": dto.HoursStatusFromDomain(h.service.StatusNow(c.Context(), forDelivery))})
	}
	instant, err := time.Parse(time.RFC3339, at)
	if err != nil {
		return apperrors.NewValidationError("at must be RFC3339", map[string]any{"at": at})
	}
	return c.JSON(fiber.Map{"data": dto.HoursStatusFromDomain(h.service.StatusAt(c.Context(), instant, forDelivery))})
}

// NextOpening GET /hours/next-opening?after=RFC3339.
func (h *HoursHandler) NextOpening(c *fiber.Ctx) error {
	after := time.Now()
	if raw := c.Query("after"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return apperrors.NewValidationError("after must be RFC3339", map[string]any{"after": raw})
		}
		after = parsed
	}
	interval, ok := h.service.NextOpening(c.Context(), after)
	if !ok {
		return apperrors.NewNotFound("next opening", nil)
	}
	return c.JSON(fiber.Map{"data": dto.NextOpeningResponse{
		OpensAt:  interval.Start,
		ClosesAt: interval.End,
	}})
}
