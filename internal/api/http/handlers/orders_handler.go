package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/creator-platform/internal/api/dto"
	"github.com/spec-kit/creator-platform/internal/auth"
	"github.com/spec-kit/creator-platform/internal/domain"
	"github.com/spec-kit/creator-platform/internal/service"
)

// OrdersHandler exposes order placement, reads, and lifecycle actions.
// The accessors return nil/false for every expected negative, so handlers
// only translate those sentinels into response codes.
type OrdersHandler struct {
	orders *service.OrderService
}

// NewOrdersHandler constructs handler.
func NewOrdersHandler(orders *service.OrderService) *OrdersHandler {
	return &OrdersHandler{orders: orders}
}

// Create handles POST /orders.
func (h *OrdersHandler) Create(c *fiber.Ctx) error {
	resolver, ok := auth.ResolverFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "session required")
	}

	var req dto.OrderCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.CreatorID == "" || req.AmountCents <= 0 {
		return fiber.NewError(http.StatusBadRequest, "creator_id and positive amount_cents required")
	}

	order := h.orders.CreateOrder(c.UserContext(), resolver, service.OrderCreateInput{
		CreatorID:    req.CreatorID,
		Occasion:     strings.TrimSpace(req.Occasion),
		Instructions: strings.TrimSpace(req.Instructions),
		AmountCents:  req.AmountCents,
	})
	if order == nil {
		return fiber.NewError(http.StatusUnprocessableEntity, "order could not be placed")
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": order})
}

// Get handles GET /orders/:id.
func (h *OrdersHandler) Get(c *fiber.Ctx) error {
	resolver, ok := auth.ResolverFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "session required")
	}

	order := h.orders.GetOrder(c.UserContext(), resolver, c.Params("id"))
	if order == nil {
		return fiber.NewError(http.StatusNotFound, "order not found")
	}
	return c.JSON(fiber.Map{"data": order})
}

// ListPlaced handles GET /orders/placed.
func (h *OrdersHandler) ListPlaced(c *fiber.Ctx) error {
	resolver, ok := auth.ResolverFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "session required")
	}
	filter := listFilterFromQuery(c)
	return c.JSON(fiber.Map{"data": h.orders.ListOrdersPlaced(c.UserContext(), resolver, filter)})
}

// ListReceived handles GET /orders/received.
func (h *OrdersHandler) ListReceived(c *fiber.Ctx) error {
	resolver, ok := auth.ResolverFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "session required")
	}
	filter := listFilterFromQuery(c)
	return c.JSON(fiber.Map{"data": h.orders.ListOrdersReceived(c.UserContext(), resolver, filter)})
}

// UpdateStatus handles PATCH /orders/:id/status.
func (h *OrdersHandler) UpdateStatus(c *fiber.Ctx) error {
	resolver, ok := auth.ResolverFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "session required")
	}

	var req dto.OrderStatusRequest
	if err := c.BodyParser(&req); err != nil || req.Status == "" {
		return fiber.NewError(http.StatusBadRequest, "status required")
	}

	if !h.orders.UpdateOrderStatus(c.UserContext(), resolver, c.Params("id"), req.Status) {
		return fiber.NewError(http.StatusConflict, "status change rejected")
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"updated": true}})
}

// Cancel handles POST /orders/:id/cancel.
func (h *OrdersHandler) Cancel(c *fiber.Ctx) error {
	resolver, ok := auth.ResolverFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "session required")
	}

	if !h.orders.CancelOrder(c.UserContext(), resolver, c.Params("id")) {
		return fiber.NewError(http.StatusConflict, "cancellation rejected")
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"cancelled": true}})
}

func listFilterFromQuery(c *fiber.Ctx) service.OrderListFilter {
	filter := service.OrderListFilter{
		Limit:  c.QueryInt("limit", 20),
		Offset: c.QueryInt("offset", 0),
	}
	if raw := c.Query("statuses"); raw != "" {
		for _, status := range strings.Split(raw, ",") {
			if status = strings.TrimSpace(status); status != "" {
				filter.Statuses = append(filter.Statuses, domain.OrderStatus(status))
			}
		}
	}
	return filter
}
