package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/restaurant-orders/internal/api/dto"
	"github.com/spec-kit/restaurant-orders/internal/auth"
	"github.com/spec-kit/restaurant-orders/internal/domain"
	"github.com/spec-kit/restaurant-orders/internal/service"
	apperrors "github.com/spec-kit/restaurant-orders/pkg/util/errorutil"
)

// AdminHandler manages staff endpoints for orders, reservations and the
// weekly schedule.
type AdminHandler struct {
	admin *service.AdminService
	hours *service.HoursService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(adminService *service.AdminService, hoursService *service.HoursService) *AdminHandler {
	return &AdminHandler{admin: adminService, hours: hoursService}
}

// ConfirmOrder POST /admin/orders/:id/confirm.
func (h *AdminHandler) ConfirmOrder(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("admin required")
	}
	var req dto.ConfirmRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return apperrors.NewValidationError("invalid payload", nil)
		}
	}
	order, err := h.admin.ConfirmOrder(c.Context(), principal.SubjectID, c.Params("id"), req.ExtraMinutes)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": adminOrderResponse(order)})
}

// PatchExtraMinutes PATCH /admin/orders/:id/extra-minutes.
func (h *AdminHandler) PatchExtraMinutes(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("admin required")
	}
	var req dto.PatchExtraMinutesRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	order, err := h.admin.PatchExtraMinutes(c.Context(), principal.SubjectID, c.Params("id"), req.ExtraMinutes)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": adminOrderResponse(order)})
}

// MarkOrderSeen POST /admin/orders/:id/seen.
func (h *AdminHandler) MarkOrderSeen(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("admin required")
	}
	order, err := h.admin.MarkOrderSeen(c.Context(), principal.SubjectID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": adminOrderResponse(order)})
}

// CancelOrder POST /admin/orders/:id/cancel.
func (h *AdminHandler) CancelOrder(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("admin required")
	}
	var req dto.CancelRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return apperrors.NewValidationError("invalid payload", nil)
		}
	}
	order, err := h.admin.CancelOrder(c.Context(), principal.SubjectID, c.Params("id"), req.Reason)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": adminOrderResponse(order)})
}

// ConfirmReservation POST /admin/reservations/:id/confirm.
func (h *AdminHandler) ConfirmReservation(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("admin required")
	}
	reservation, err := h.admin.ConfirmReservation(c.Context(), principal.SubjectID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": reservationResponse(reservation)})
}

// MarkReservationSeen POST /admin/reservations/:id/seen.
func (h *AdminHandler) MarkReservationSeen(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("admin required")
	}
	reservation, err := h.admin.MarkReservationSeen(c.Context(), principal.SubjectID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": reservationResponse(reservation)})
}

// CancelReservation POST /admin/reservations/:id/cancel.
func (h *AdminHandler) CancelReservation(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("admin required")
	}
	var req dto.CancelRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return apperrors.NewValidationError("invalid payload", nil)
		}
	}
	reservation, err := h.admin.CancelReservation(c.Context(), principal.SubjectID, c.Params("id"), req.Reason)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": reservationResponse(reservation)})
}

// UpdateSchedule PUT /admin/schedule.
func (h *AdminHandler) UpdateSchedule(c *fiber.Ctx) error {
	if _, ok := auth.PrincipalFromContext(c); !ok {
		return apperrors.NewUnauthorized("admin required")
	}
	if err := h.hours.UpdateSchedule(c.Context(), c.Body()); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"updated": true}})
}

func adminOrderResponse(order *domain.Order) dto.AdminOrderResponse {
	return dto.AdminOrderResponse{
		OrderResponse:     orderResponse(order),
		MinPrepMinutes:    order.MinPrepMinutes,
		AdminExtraMinutes: order.AdminExtraMinutes,
		AutoCancelAt:      order.AutoCancelAt,
		SeenAt:            order.SeenAt,
		EscalatedAt:       order.EscalatedAt,
		Version:           order.Version,
	}
}
