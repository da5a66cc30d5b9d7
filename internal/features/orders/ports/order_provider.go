package ports

import (
	"context"

	"support-agent/internal/features/orders/domain"
)

// OrderProvider defines the interface for retrieving order information from
// the commerce backend. This is a Secondary Port (Driven Port).
type OrderProvider interface {
	// GetOrderByNumber retrieves an order by its canonical display number
	// (e.g. "#1001"). Returns nil without error when no order matches.
	GetOrderByNumber(ctx context.Context, orderNumber string) (*domain.Order, error)

	// GetOrdersByEmail retrieves a customer's most recent orders.
	GetOrdersByEmail(ctx context.Context, email string, limit int) ([]domain.Order, error)

	// GetOrderTracking retrieves the shipment view of an order.
	// Returns nil without error when no order matches.
	GetOrderTracking(ctx context.Context, orderNumber string) (*domain.OrderTracking, error)
}

// OrderMutator defines the interface for order mutations. Callers are
// responsible for verification and precondition checks before invoking any
// of these; implementations forward backend rejections verbatim.
type OrderMutator interface {
	// CancelOrder cancels an order with customer notification, refund and
	// restock enabled.
	CancelOrder(ctx context.Context, orderID string, reason domain.CancelReason) error

	// UpdateShippingAddress replaces the order's shipping address and returns
	// the address as echoed back by the backend.
	UpdateShippingAddress(ctx context.Context, orderID string, address domain.Address) (*domain.Address, error)
}
