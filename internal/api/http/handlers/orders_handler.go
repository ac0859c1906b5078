package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/restaurant-orders/internal/api/dto"
	"github.com/spec-kit/restaurant-orders/internal/auth"
	"github.com/spec-kit/restaurant-orders/internal/domain"
	"github.com/spec-kit/restaurant-orders/internal/service"
	apperrors "github.com/spec-kit/restaurant-orders/pkg/util/errorutil"
)

// OrdersHandler manages customer order and reservation endpoints.
type OrdersHandler struct {
	service *service.OrderService
}

// NewOrdersHandler constructs handler.
func NewOrdersHandler(orderService *service.OrderService) *OrdersHandler {
	return &OrdersHandler{service: orderService}
}

// CreateOrder POST /orders.
func (h *OrdersHandler) CreateOrder(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("customer required")
	}
	var req dto.CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if len(req.Items) == 0 {
		return apperrors.NewValidationError("items required", nil)
	}

	items := make([]domain.OrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, domain.OrderItem{
			MenuItemID: item.MenuItemID,
			Name:       item.Name,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
		})
	}

	order, err := h.service.CreateOrder(c.Context(), principal.SubjectID, service.OrderCreateInput{
		Kind:           domain.RecordKind(req.Kind),
		Delivery:       req.Delivery,
		ASAP:           req.ASAP,
		RequestedAt:    req.RequestedAt,
		MinPrepMinutes: req.MinPrepMinutes,
		CustomerEmail:  principal.Email,
		Items:          items,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": orderResponse(order)})
}

// CreateReservation POST /reservations.
func (h *OrdersHandler) CreateReservation(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("customer required")
	}
	var req dto.CreateReservationRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	reservation, err := h.service.CreateReservation(c.Context(), principal.SubjectID, service.ReservationCreateInput{
		PartySize:     req.PartySize,
		RequestedAt:   req.RequestedAt,
		Notes:         req.Notes,
		CustomerEmail: principal.Email,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": reservationResponse(reservation)})
}

// GetOrder GET /orders/:id.
func (h *OrdersHandler) GetOrder(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("customer required")
	}
	order, err := h.service.GetOrderForCustomer(c.Context(), principal.SubjectID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": orderResponse(order)})
}

// ListOrders GET /orders.
func (h *OrdersHandler) ListOrders(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("customer required")
	}
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))
	orders, err := h.service.ListCustomerOrders(c.Context(), principal.SubjectID, limit, offset)
	if err != nil {
		return err
	}
	items := make([]dto.OrderResponse, 0, len(orders))
	for i := range orders {
		items = append(items, orderResponse(&orders[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

func orderResponse(order *domain.Order) dto.OrderResponse {
	return dto.OrderResponse{
		ID:               order.ID,
		OrderNumber:      order.OrderNumber,
		Kind:             order.RecordKind(),
		Delivery:         order.Delivery,
		ASAP:             order.ASAP,
		Status:           order.Status,
		PaymentStatus:    order.PaymentStatus,
		Items:            order.Items,
		TotalAmount:      order.TotalAmount,
		RequestedAt:      order.RequestedAt,
		CommittedReadyAt: order.CommittedReadyAt,
		CreatedAt:        order.CreatedAt,
	}
}

func reservationResponse(reservation *domain.Reservation) dto.ReservationResponse {
	return dto.ReservationResponse{
		ID:                reservation.ID,
		ReservationNumber: reservation.ReservationNumber,
		PartySize:         reservation.PartySize,
		Status:            reservation.Status,
		RequestedAt:       reservation.RequestedAt,
		CreatedAt:         reservation.CreatedAt,
	}
}
