package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"support-agent/internal/core/logger"
	"support-agent/internal/core/shopify"
	"support-agent/internal/features/orders/domain"

	"go.uber.org/zap"
)

// Gateway is the slice of the commerce gateway this adapter needs.
type Gateway interface {
	Execute(ctx context.Context, query string, variables map[string]any) (*shopify.Response, error)
}

// ShopifyAdapter implements the OrderProvider and OrderMutator interfaces
// against the Shopify Admin GraphQL API.
type ShopifyAdapter struct {
	gateway Gateway
}

// NewShopifyAdapter creates a new instance of ShopifyAdapter.
func NewShopifyAdapter(gateway Gateway) *ShopifyAdapter {
	return &ShopifyAdapter{gateway: gateway}
}

// GetOrderByNumber fetches an order by its canonical display number.
// Order numbers are assumed unique; only the first match is considered.
func (a *ShopifyAdapter) GetOrderByNumber(ctx context.Context, orderNumber string) (*domain.Order, error) {
	query := fmt.Sprintf(`{
		orders(first: 1, query: "name:%s") {
			edges {
				node {
					id
					name
					email
					createdAt
					displayFinancialStatus
					displayFulfillmentStatus
					cancelledAt
					customer { email }
					totalPriceSet { shopMoney { amount currencyCode } }
					lineItems(first: 10) { edges { node { title quantity } } }
					shippingAddress { firstName lastName address1 address2 city province zip country phone }
				}
			}
		}
	}`, shopify.EscapeQueryValue(orderNumber))

	nodes, err := a.fetchOrders(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, nil
	}

	return mapOrder(nodes[0]), nil
}

// GetOrdersByEmail fetches a customer's most recent orders.
func (a *ShopifyAdapter) GetOrdersByEmail(ctx context.Context, email string, limit int) ([]domain.Order, error) {
	query := fmt.Sprintf(`{
		orders(first: %d, query: "email:%s") {
			edges {
				node {
					id
					name
					createdAt
					displayFinancialStatus
					displayFulfillmentStatus
					totalPriceSet { shopMoney { amount currencyCode } }
				}
			}
		}
	}`, limit, shopify.EscapeQueryValue(email))

	nodes, err := a.fetchOrders(ctx, query)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Order, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, *mapOrder(n))
	}
	return out, nil
}

// GetOrderTracking fetches the shipment view of an order.
func (a *ShopifyAdapter) GetOrderTracking(ctx context.Context, orderNumber string) (*domain.OrderTracking, error) {
	query := fmt.Sprintf(`{
		orders(first: 1, query: "name:%s") {
			edges {
				node {
					id
					name
					displayFulfillmentStatus
					fulfillments {
						status
						createdAt
						updatedAt
						deliveredAt
						estimatedDeliveryAt
						trackingInfo { company number url }
					}
					shippingAddress { firstName lastName address1 address2 city province zip country phone }
				}
			}
		}
	}`, shopify.EscapeQueryValue(orderNumber))

	nodes, err := a.fetchOrders(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, nil
	}

	n := nodes[0]
	tracking := &domain.OrderTracking{
		Name:              n.Name,
		FulfillmentStatus: domain.FulfillmentStatus(n.DisplayFulfillmentStatus),
		ShippingAddress:   mapAddress(n.ShippingAddress),
	}

	for _, f := range n.Fulfillments {
		fulfillment := domain.Fulfillment{
			Status:              f.Status,
			CreatedAt:           f.CreatedAt,
			UpdatedAt:           f.UpdatedAt,
			DeliveredAt:         f.DeliveredAt,
			EstimatedDeliveryAt: f.EstimatedDeliveryAt,
		}
		for _, ti := range f.TrackingInfo {
			fulfillment.Tracking = append(fulfillment.Tracking, domain.TrackingInfo{
				Company: ti.Company,
				Number:  ti.Number,
				URL:     ti.URL,
			})
		}
		tracking.Fulfillments = append(tracking.Fulfillments, fulfillment)
	}

	return tracking, nil
}

// CancelOrder issues the orderCancel mutation with notify, refund and restock
// enabled. Backend rejections are returned verbatim and never retried.
func (a *ShopifyAdapter) CancelOrder(ctx context.Context, orderID string, reason domain.CancelReason) error {
	mutation := `mutation OrderCancel($orderId: ID!, $notifyCustomer: Boolean, $reason: OrderCancelReason!, $refund: Boolean!, $restock: Boolean!) {
		orderCancel(orderId: $orderId, notifyCustomer: $notifyCustomer, reason: $reason, refund: $refund, restock: $restock) {
			job { id done }
			orderCancelUserErrors { code field message }
		}
	}`

	variables := map[string]any{
		"orderId":        orderID,
		"notifyCustomer": true,
		"reason":         string(reason),
		"refund":         true,
		"restock":        true,
	}

	resp, err := a.gateway.Execute(ctx, mutation, variables)
	if err != nil {
		return fmt.Errorf("cancel mutation failed: %w", err)
	}
	if msg := resp.ErrorMessage(); msg != "" {
		return errors.New(msg)
	}

	var payload struct {
		OrderCancel struct {
			OrderCancelUserErrors []shopify.UserError `json:"orderCancelUserErrors"`
		} `json:"orderCancel"`
	}
	if err := json.Unmarshal(resp.Data, &payload); err != nil {
		return fmt.Errorf("failed to decode cancel response: %w", err)
	}

	if len(payload.OrderCancel.OrderCancelUserErrors) > 0 {
		return errors.New(shopify.JoinUserErrors(payload.OrderCancel.OrderCancelUserErrors))
	}

	logger.Get().Info("Order cancelled", zap.String("order_id", orderID), zap.String("reason", string(reason)))
	return nil
}

// UpdateShippingAddress issues the orderUpdate mutation with the full
// structured address and returns the address echoed back by the backend.
func (a *ShopifyAdapter) UpdateShippingAddress(ctx context.Context, orderID string, address domain.Address) (*domain.Address, error) {
	mutation := `mutation OrderUpdate($input: OrderInput!) {
		orderUpdate(input: $input) {
			order {
				id
				name
				shippingAddress { firstName lastName address1 address2 city province zip country phone }
			}
			userErrors { field message }
		}
	}`

	variables := map[string]any{
		"input": map[string]any{
			"id": orderID,
			"shippingAddress": map[string]any{
				"address1":     address.Address1,
				"address2":     address.Address2,
				"city":         address.City,
				"provinceCode": address.Province,
				"zip":          address.Zip,
				"countryCode":  address.Country,
				"firstName":    address.FirstName,
				"lastName":     address.LastName,
				"phone":        address.Phone,
			},
		},
	}

	resp, err := a.gateway.Execute(ctx, mutation, variables)
	if err != nil {
		return nil, fmt.Errorf("address update failed: %w", err)
	}
	if msg := resp.ErrorMessage(); msg != "" {
		return nil, errors.New(msg)
	}

	var payload struct {
		OrderUpdate struct {
			Order *struct {
				Name            string       `json:"name"`
				ShippingAddress *addressNode `json:"shippingAddress"`
			} `json:"order"`
			UserErrors []shopify.UserError `json:"userErrors"`
		} `json:"orderUpdate"`
	}
	if err := json.Unmarshal(resp.Data, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode update response: %w", err)
	}

	if len(payload.OrderUpdate.UserErrors) > 0 {
		return nil, errors.New(shopify.JoinUserErrors(payload.OrderUpdate.UserErrors))
	}
	if payload.OrderUpdate.Order == nil {
		return nil, errors.New("unexpected error updating address")
	}

	updated := mapAddress(payload.OrderUpdate.Order.ShippingAddress)
	if updated == nil {
		return nil, errors.New("backend returned no shipping address")
	}
	return updated, nil
}

// fetchOrders runs a query and unwraps the orders connection.
func (a *ShopifyAdapter) fetchOrders(ctx context.Context, query string) ([]orderNode, error) {
	resp, err := a.gateway.Execute(ctx, query, nil)
	if err != nil {
		return nil, err
	}
	if msg := resp.ErrorMessage(); msg != "" {
		return nil, errors.New(msg)
	}

	var payload struct {
		Orders struct {
			Edges []struct {
				Node orderNode `json:"node"`
			} `json:"edges"`
		} `json:"orders"`
	}
	if err := json.Unmarshal(resp.Data, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode orders response: %w", err)
	}

	nodes := make([]orderNode, 0, len(payload.Orders.Edges))
	for _, e := range payload.Orders.Edges {
		nodes = append(nodes, e.Node)
	}
	return nodes, nil
}

// mapOrder converts a raw order node into a domain Order entity.
func mapOrder(n orderNode) *domain.Order {
	order := &domain.Order{
		ID:                n.ID,
		Name:              n.Name,
		Email:             n.Email,
		CreatedAt:         n.CreatedAt,
		FinancialStatus:   domain.FinancialStatus(n.DisplayFinancialStatus),
		FulfillmentStatus: domain.FulfillmentStatus(n.DisplayFulfillmentStatus),
		CancelledAt:       n.CancelledAt,
		Total: domain.Money{
			Amount:       n.TotalPriceSet.ShopMoney.Amount,
			CurrencyCode: n.TotalPriceSet.ShopMoney.CurrencyCode,
		},
		ShippingAddress: mapAddress(n.ShippingAddress),
	}

	if n.Customer != nil {
		order.CustomerEmail = n.Customer.Email
	}

	for _, e := range n.LineItems.Edges {
		order.LineItems = append(order.LineItems, domain.LineItem{
			Title:    e.Node.Title,
			Quantity: e.Node.Quantity,
		})
	}

	return order
}

// mapAddress converts a raw address node, returning nil for absent addresses.
func mapAddress(n *addressNode) *domain.Address {
	if n == nil {
		return nil
	}
	return &domain.Address{
		FirstName: n.FirstName,
		LastName:  n.LastName,
		Address1:  n.Address1,
		Address2:  n.Address2,
		City:      n.City,
		Province:  n.Province,
		Zip:       n.Zip,
		Country:   n.Country,
		Phone:     n.Phone,
	}
}

// internal structs for mapping

// orderNode represents the JSON structure of an order from the Admin API.
type orderNode struct {
	ID                       string     `json:"id"`
	Name                     string     `json:"name"`
	Email                    string     `json:"email"`
	CreatedAt                time.Time  `json:"createdAt"`
	DisplayFinancialStatus   string     `json:"displayFinancialStatus"`
	DisplayFulfillmentStatus string     `json:"displayFulfillmentStatus"`
	CancelledAt              *time.Time `json:"cancelledAt"`
	Customer                 *struct {
		Email string `json:"email"`
	} `json:"customer"`
	TotalPriceSet struct {
		ShopMoney moneyNode `json:"shopMoney"`
	} `json:"totalPriceSet"`
	LineItems struct {
		Edges []struct {
			Node struct {
				Title    string `json:"title"`
				Quantity int    `json:"quantity"`
			} `json:"node"`
		} `json:"edges"`
	} `json:"lineItems"`
	ShippingAddress *addressNode      `json:"shippingAddress"`
	Fulfillments    []fulfillmentNode `json:"fulfillments"`
}

// moneyNode is a currency-qualified amount as returned by the API.
type moneyNode struct {
	Amount       string `json:"amount"`
	CurrencyCode string `json:"currencyCode"`
}

// addressNode is a postal address as returned by the API.
type addressNode struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Address1  string `json:"address1"`
	Address2  string `json:"address2"`
	City      string `json:"city"`
	Province  string `json:"province"`
	Zip       string `json:"zip"`
	Country   string `json:"country"`
	Phone     string `json:"phone"`
}

// fulfillmentNode is a shipment entry as returned by the API.
type fulfillmentNode struct {
	Status              string     `json:"status"`
	CreatedAt           time.Time  `json:"createdAt"`
	UpdatedAt           time.Time  `json:"updatedAt"`
	DeliveredAt         *time.Time `json:"deliveredAt"`
	EstimatedDeliveryAt *time.Time `json:"estimatedDeliveryAt"`
	TrackingInfo        []struct {
		Company string `json:"company"`
		Number  string `json:"number"`
		URL     string `json:"url"`
	} `json:"trackingInfo"`
}
