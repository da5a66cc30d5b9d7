package handler

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"support-agent/internal/core/config"
	"support-agent/internal/features/orders/domain"
	"support-agent/internal/features/orders/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockOrderProvider is a mock implementation of OrderProvider for testing.
type mockOrderProvider struct {
	order    *domain.Order
	tracking *domain.OrderTracking
	err      error
}

func (m *mockOrderProvider) GetOrderByNumber(_ context.Context, _ string) (*domain.Order, error) {
	return m.order, m.err
}

func (m *mockOrderProvider) GetOrdersByEmail(_ context.Context, _ string, _ int) ([]domain.Order, error) {
	return nil, m.err
}

func (m *mockOrderProvider) GetOrderTracking(_ context.Context, _ string) (*domain.OrderTracking, error) {
	return m.tracking, m.err
}

// mockOrderMutator is a mock implementation of OrderMutator for testing.
type mockOrderMutator struct{}

func (m *mockOrderMutator) CancelOrder(_ context.Context, _ string, _ domain.CancelReason) error {
	return nil
}

func (m *mockOrderMutator) UpdateShippingAddress(_ context.Context, _ string, address domain.Address) (*domain.Address, error) {
	return &address, nil
}

func newTestApp(provider *mockOrderProvider) *fiber.App {
	orderSvc := service.NewOrderService(provider, &mockOrderMutator{}, config.SupportConfig{Email: "support@techgearsnowboards.com"})
	h := NewOrderHandler(orderSvc)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("requestid", "test-ray-id")
		return c.Next()
	})
	app.Get("/orders/:number", h.GetOrder)
	app.Get("/orders/:number/tracking", h.GetOrderTracking)
	return app
}

// TestOrderHandler_GetOrder_Success verifies successful order retrieval.
func TestOrderHandler_GetOrder_Success(t *testing.T) {
	app := newTestApp(&mockOrderProvider{order: &domain.Order{
		Name:            "#1001",
		FinancialStatus: domain.FinancialStatusPaid,
		Total:           domain.Money{Amount: "799.95", CurrencyCode: "USD"},
	}})

	req := httptest.NewRequest("GET", "/orders/1001", nil)
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result domain.Order
	err = json.NewDecoder(resp.Body).Decode(&result)
	require.NoError(t, err)
	assert.Equal(t, "#1001", result.Name)
	assert.Equal(t, "799.95", result.Total.Amount)
}

// TestOrderHandler_GetOrder_NotFound verifies the not-found mapping.
func TestOrderHandler_GetOrder_NotFound(t *testing.T) {
	app := newTestApp(&mockOrderProvider{})

	req := httptest.NewRequest("GET", "/orders/9999", nil)
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	var errResp ErrorResponse
	err = json.NewDecoder(resp.Body).Decode(&errResp)
	require.NoError(t, err)
	assert.Contains(t, errResp.Message, "order not found")
	assert.Equal(t, "test-ray-id", errResp.RayID)
}

// TestOrderHandler_GetOrderTracking_Success verifies tracking retrieval.
func TestOrderHandler_GetOrderTracking_Success(t *testing.T) {
	app := newTestApp(&mockOrderProvider{tracking: &domain.OrderTracking{
		Name:              "#1001",
		FulfillmentStatus: domain.FulfillmentStatusFulfilled,
		Fulfillments: []domain.Fulfillment{{
			Status:   "SUCCESS",
			Tracking: []domain.TrackingInfo{{Company: "UPS", Number: "1Z999"}},
		}},
	}})

	req := httptest.NewRequest("GET", "/orders/1001/tracking", nil)
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result domain.OrderTracking
	err = json.NewDecoder(resp.Body).Decode(&result)
	require.NoError(t, err)
	require.Len(t, result.Fulfillments, 1)
	assert.Equal(t, "UPS", result.Fulfillments[0].Tracking[0].Company)
}

// TestOrderHandler_GetOrderTracking_NotFound verifies the not-found mapping.
func TestOrderHandler_GetOrderTracking_NotFound(t *testing.T) {
	app := newTestApp(&mockOrderProvider{})

	req := httptest.NewRequest("GET", "/orders/9999/tracking", nil)
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
