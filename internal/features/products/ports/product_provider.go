package ports

import (
	"context"

	"support-agent/internal/features/products/domain"
)

// ProductSearcher fetches candidate products for a single search token.
// This is a Secondary Port (Driven Port).
type ProductSearcher interface {
	// SearchByToken retrieves up to limit products matching one token. The
	// backend does the partial matching; relevance scoring happens upstream.
	SearchByToken(ctx context.Context, token string, limit int) ([]domain.Product, error)
}

// ProductProvider fetches the full detail view of a product.
type ProductProvider interface {
	// GetProductByTitle retrieves a product with specifications and options by
	// an approximate title match. Returns nil without error when nothing matches.
	GetProductByTitle(ctx context.Context, title string) (*domain.ProductDetails, error)
}
