package handler

import (
	"errors"

	"support-agent/internal/features/products/service"

	"github.com/gofiber/fiber/v2"
)

// ProductHandler handles HTTP requests for catalog operations.
type ProductHandler struct {
	productService *service.ProductService
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(productService *service.ProductService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
	}
}

// ErrorResponse represents an error response with Ray ID.
type ErrorResponse struct {
	// Message is the error description.
	Message string `json:"message"`
	// RayID is the unique request identifier for tracing.
	RayID string `json:"ray_id,omitempty"`
}

// SearchProducts godoc
// @Summary Search the product catalog
// @Description Tokenized, relevance-ranked catalog search. Multi-word queries require every keyword to match.
// @Tags products
// @Accept json
// @Produce json
// @Param q query string true "Search term (e.g. women's snowboards)"
// @Param limit query int false "Maximum results (default 10)"
// @Param include_out_of_stock query bool false "Include products with no inventory (default true)"
// @Success 200 {object} service.SearchResult
// @Failure 400 {object} ErrorResponse
// @Router /products/search [get]
func (h *ProductHandler) SearchProducts(c *fiber.Ctx) error {
	searchTerm := c.Query("q")
	if searchTerm == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: "q query parameter is required",
			RayID:   c.Locals("requestid").(string),
		})
	}

	result, err := h.productService.Search(c.Context(), searchTerm, service.SearchOptions{
		Limit:             c.QueryInt("limit"),
		IncludeOutOfStock: c.QueryBool("include_out_of_stock", true),
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Message: err.Error(),
			RayID:   c.Locals("requestid").(string),
		})
	}

	return c.JSON(result)
}

// GetProductDetails godoc
// @Summary Get product details
// @Description Retrieves a product with specifications, options and variants by approximate title
// @Tags products
// @Accept json
// @Produce json
// @Param title query string true "Product title"
// @Success 200 {object} domain.ProductDetails
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /products/details [get]
func (h *ProductHandler) GetProductDetails(c *fiber.Ctx) error {
	title := c.Query("title")
	if title == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: "title query parameter is required",
			RayID:   c.Locals("requestid").(string),
		})
	}

	details, err := h.productService.GetDetails(c.Context(), title)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
				Message: "product not found",
				RayID:   c.Locals("requestid").(string),
			})
		}

		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Message: err.Error(),
			RayID:   c.Locals("requestid").(string),
		})
	}

	return c.JSON(details)
}
