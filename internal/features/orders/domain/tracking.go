package domain

import "time"

// TrackingInfo identifies a shipment with its carrier.
type TrackingInfo struct {
	// Company is the carrier name (e.g. UPS, FedEx).
	Company string `json:"company"`
	// Number is the carrier's tracking number.
	Number string `json:"number"`
	// URL is the carrier's tracking page, when available.
	URL string `json:"url,omitempty"`
}

// Fulfillment is one shipment of an order.
type Fulfillment struct {
	// Status is the backend's fulfillment status (e.g. SUCCESS, IN_TRANSIT).
	Status string `json:"status"`
	// CreatedAt is when the shipment was created.
	CreatedAt time.Time `json:"createdAt"`
	// UpdatedAt is the last status change.
	UpdatedAt time.Time `json:"updatedAt"`
	// DeliveredAt is set once the carrier confirmed delivery.
	DeliveredAt *time.Time `json:"deliveredAt,omitempty"`
	// EstimatedDeliveryAt is the carrier's delivery estimate, when available.
	EstimatedDeliveryAt *time.Time `json:"estimatedDeliveryAt,omitempty"`
	// Tracking lists carrier tracking entries for this shipment.
	Tracking []TrackingInfo `json:"tracking,omitempty"`
}

// OrderTracking is the shipment view of an order.
type OrderTracking struct {
	// Name is the canonical order number.
	Name string `json:"name"`
	// FulfillmentStatus is the order-level shipment state.
	FulfillmentStatus FulfillmentStatus `json:"fulfillmentStatus"`
	// ShippingAddress is the destination, when present.
	ShippingAddress *Address `json:"shippingAddress,omitempty"`
	// Fulfillments are the shipments made for this order.
	Fulfillments []Fulfillment `json:"fulfillments,omitempty"`
}
