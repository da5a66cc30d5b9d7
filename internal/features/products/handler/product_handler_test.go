package handler

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"support-agent/internal/features/products/domain"
	"support-agent/internal/features/products/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockCatalog is a test double for the product ports.
type mockCatalog struct {
	products []domain.Product
	details  *domain.ProductDetails
}

func (m *mockCatalog) SearchByToken(_ context.Context, _ string, _ int) ([]domain.Product, error) {
	return m.products, nil
}

func (m *mockCatalog) GetProductByTitle(_ context.Context, _ string) (*domain.ProductDetails, error) {
	return m.details, nil
}

func newTestApp(catalog *mockCatalog) *fiber.App {
	productSvc := service.NewProductService(catalog, catalog)
	h := NewProductHandler(productSvc)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("requestid", "test-ray-id")
		return c.Next()
	})
	app.Get("/products/search", h.SearchProducts)
	app.Get("/products/details", h.GetProductDetails)
	return app
}

// TestProductHandler_SearchProducts_Success verifies a ranked search response.
func TestProductHandler_SearchProducts_Success(t *testing.T) {
	app := newTestApp(&mockCatalog{products: []domain.Product{{
		ID:             "p1",
		Title:          "Powder Snowboard",
		ProductType:    "Snowboards",
		TotalInventory: 5,
	}}})

	req := httptest.NewRequest("GET", "/products/search?q=snowboard", nil)
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result service.SearchResult
	err = json.NewDecoder(resp.Body).Decode(&result)
	require.NoError(t, err)
	assert.True(t, result.Found)
	require.Len(t, result.Products, 1)
	assert.Equal(t, "Powder Snowboard", result.Products[0].Title)
}

// TestProductHandler_SearchProducts_MissingQuery verifies query validation.
func TestProductHandler_SearchProducts_MissingQuery(t *testing.T) {
	app := newTestApp(&mockCatalog{})

	req := httptest.NewRequest("GET", "/products/search", nil)
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var errResp ErrorResponse
	err = json.NewDecoder(resp.Body).Decode(&errResp)
	require.NoError(t, err)
	assert.Contains(t, errResp.Message, "q query parameter is required")
	assert.Equal(t, "test-ray-id", errResp.RayID)
}

// TestProductHandler_SearchProducts_NoMatch verifies the empty-result shape.
func TestProductHandler_SearchProducts_NoMatch(t *testing.T) {
	app := newTestApp(&mockCatalog{})

	req := httptest.NewRequest("GET", "/products/search?q=snowboard", nil)
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result service.SearchResult
	err = json.NewDecoder(resp.Body).Decode(&result)
	require.NoError(t, err)
	assert.False(t, result.Found)
	assert.NotEmpty(t, result.Message)
}

// TestProductHandler_GetProductDetails_NotFound verifies the not-found mapping.
func TestProductHandler_GetProductDetails_NotFound(t *testing.T) {
	app := newTestApp(&mockCatalog{})

	req := httptest.NewRequest("GET", "/products/details?title=Nonexistent", nil)
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
