package handler

import (
	"errors"

	"support-agent/internal/features/orders/service"

	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for order operations.
type OrderHandler struct {
	orderService *service.OrderService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(orderService *service.OrderService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

// ErrorResponse represents an error response with Ray ID.
type ErrorResponse struct {
	// Message is the error description.
	Message string `json:"message"`
	// RayID is the unique request identifier for tracing.
	RayID string `json:"ray_id,omitempty"`
}

// GetOrder godoc
// @Summary Get the basic view of an order
// @Description Retrieves order status and totals by order number. Line items and addresses require ownership verification via the tool endpoint.
// @Tags orders
// @Accept json
// @Produce json
// @Param number path string true "Order number, with or without the # prefix"
// @Success 200 {object} domain.Order
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /orders/{number} [get]
func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	orderNumber := c.Params("number")
	if orderNumber == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: "order number is required",
			RayID:   c.Locals("requestid").(string),
		})
	}

	order, err := h.orderService.LookupOrder(c.Context(), orderNumber)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
				Message: "order not found",
				RayID:   c.Locals("requestid").(string),
			})
		}

		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Message: err.Error(),
			RayID:   c.Locals("requestid").(string),
		})
	}

	return c.JSON(order)
}

// GetOrderTracking godoc
// @Summary Get shipment tracking for an order
// @Description Retrieves fulfillments with carrier tracking entries for an order number
// @Tags orders
// @Accept json
// @Produce json
// @Param number path string true "Order number, with or without the # prefix"
// @Success 200 {object} domain.OrderTracking
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /orders/{number}/tracking [get]
func (h *OrderHandler) GetOrderTracking(c *fiber.Ctx) error {
	orderNumber := c.Params("number")
	if orderNumber == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: "order number is required",
			RayID:   c.Locals("requestid").(string),
		})
	}

	tracking, err := h.orderService.GetTracking(c.Context(), orderNumber)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
				Message: "order not found",
				RayID:   c.Locals("requestid").(string),
			})
		}

		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Message: err.Error(),
			RayID:   c.Locals("requestid").(string),
		})
	}

	return c.JSON(tracking)
}
