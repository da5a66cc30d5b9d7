package domain

import (
	"strings"
	"time"
)

// FinancialStatus represents the payment state of an order as reported by the
// commerce backend.
type FinancialStatus string

const (
	FinancialStatusPending            FinancialStatus = "PENDING"
	FinancialStatusPaid               FinancialStatus = "PAID"
	FinancialStatusPartiallyRefunded  FinancialStatus = "PARTIALLY_REFUNDED"
	FinancialStatusRefunded           FinancialStatus = "REFUNDED"
	FinancialStatusVoided             FinancialStatus = "VOIDED"
)

// FulfillmentStatus represents the shipment state of an order.
type FulfillmentStatus string

const (
	// FulfillmentStatusUnfulfilled indicates nothing has shipped yet.
	FulfillmentStatusUnfulfilled FulfillmentStatus = "UNFULFILLED"
	// FulfillmentStatusInProgress indicates the order is being prepared for shipment.
	FulfillmentStatusInProgress FulfillmentStatus = "IN_PROGRESS"
	// FulfillmentStatusFulfilled indicates the order has shipped.
	FulfillmentStatusFulfilled FulfillmentStatus = "FULFILLED"
	// FulfillmentStatusPartiallyFulfilled indicates some items have shipped.
	FulfillmentStatusPartiallyFulfilled FulfillmentStatus = "PARTIALLY_FULFILLED"
)

// ReturnWindowDays is the number of days after purchase during which an order
// is eligible for return.
const ReturnWindowDays = 30

// Money is a currency-qualified decimal amount. The amount stays a string to
// avoid floating-point drift; the backend is the arbiter of arithmetic.
type Money struct {
	// Amount is the decimal amount (e.g. "799.95").
	Amount string `json:"amount"`
	// CurrencyCode is the ISO 4217 code (e.g. "USD").
	CurrencyCode string `json:"currencyCode"`
}

// LineItem is a purchased product within an order.
type LineItem struct {
	// Title is the product title at time of purchase.
	Title string `json:"title"`
	// Quantity is the number of units purchased.
	Quantity int `json:"quantity"`
}

// Address holds structured postal fields for shipping.
type Address struct {
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	// Address1 is the street address line.
	Address1 string `json:"address1"`
	// Address2 is the apartment/suite/unit line, optional.
	Address2 string `json:"address2,omitempty"`
	City     string `json:"city"`
	// Province is the state/province code (e.g. CA, NY, ON).
	Province string `json:"province"`
	// Zip is the ZIP/postal code.
	Zip string `json:"zip"`
	// Country is the country code (e.g. US, CA, GB).
	Country string `json:"country"`
	Phone   string `json:"phone,omitempty"`
}

// Format renders the address as a human-readable block, one field per line,
// skipping empty lines. Used when echoing a proposed address back for
// confirmation.
func (a Address) Format() string {
	var lines []string

	if a.FirstName != "" && a.LastName != "" {
		lines = append(lines, a.FirstName+" "+a.LastName)
	}
	if a.Address1 != "" {
		lines = append(lines, a.Address1)
	}
	if a.Address2 != "" {
		lines = append(lines, a.Address2)
	}
	lines = append(lines, a.City+", "+a.Province+" "+a.Zip)
	if a.Country != "" {
		lines = append(lines, a.Country)
	}
	if a.Phone != "" {
		lines = append(lines, "Phone: "+a.Phone)
	}

	return strings.Join(lines, "\n")
}

// Order represents a customer order owned by the commerce backend.
type Order struct {
	// ID is the backend's globally unique identifier (gid://shopify/Order/...).
	ID string `json:"id"`
	// Name is the human-readable order number including the # prefix (e.g. "#1001").
	Name string `json:"name"`
	// Email is the checkout email on the order itself.
	Email string `json:"email"`
	// CustomerEmail is the email of the linked customer profile, which can
	// differ from the checkout email for guest checkouts.
	CustomerEmail string `json:"customerEmail,omitempty"`
	// CreatedAt is when the order was placed.
	CreatedAt time.Time `json:"createdAt"`
	// FinancialStatus is the payment state.
	FinancialStatus FinancialStatus `json:"financialStatus"`
	// FulfillmentStatus is the shipment state.
	FulfillmentStatus FulfillmentStatus `json:"fulfillmentStatus"`
	// CancelledAt is the cancellation timestamp; nil means not cancelled.
	CancelledAt *time.Time `json:"cancelledAt,omitempty"`
	// Total is the order total.
	Total Money `json:"total"`
	// LineItems are the purchased products.
	LineItems []LineItem `json:"lineItems"`
	// ShippingAddress is the destination, when present.
	ShippingAddress *Address `json:"shippingAddress,omitempty"`
}

// IsCancelled reports whether the order is terminally cancelled.
// A cancelled order permits no further mutation.
func (o *Order) IsCancelled() bool {
	return o.CancelledAt != nil
}

// IsShipped reports whether the order has fully shipped. Shipped orders can
// only be returned, not cancelled or re-addressed.
func (o *Order) IsShipped() bool {
	return o.FulfillmentStatus == FulfillmentStatusFulfilled
}

// AddressLocked reports whether the shipping address can no longer change.
// The address freezes once fulfillment begins.
func (o *Order) AddressLocked() bool {
	return o.FulfillmentStatus == FulfillmentStatusFulfilled ||
		o.FulfillmentStatus == FulfillmentStatusInProgress
}

// DaysSince returns the whole days elapsed between the order's creation and now.
func (o *Order) DaysSince(now time.Time) int {
	return int(now.Sub(o.CreatedAt).Hours() / 24)
}

// FulfillmentDisplay returns the fulfillment status or "Unfulfilled" when the
// backend reported none.
func (o *Order) FulfillmentDisplay() string {
	if o.FulfillmentStatus == "" {
		return "Unfulfilled"
	}
	return string(o.FulfillmentStatus)
}

// NormalizeOrderNumber converts a bare numeric order number to the canonical
// display form with a leading "#". Already-prefixed input is returned as-is.
func NormalizeOrderNumber(orderNumber string) string {
	if strings.HasPrefix(orderNumber, "#") {
		return orderNumber
	}
	return "#" + orderNumber
}

// CancelReason is the backend enum for order cancellation.
type CancelReason string

const (
	CancelReasonCustomer  CancelReason = "CUSTOMER"
	CancelReasonFraud     CancelReason = "FRAUD"
	CancelReasonInventory CancelReason = "INVENTORY"
	CancelReasonDeclined  CancelReason = "DECLINED"
	CancelReasonOther     CancelReason = "OTHER"
)

// CancelReasonFromText maps a free-text reason to the backend enum by
// case-insensitive substring matching. Unrecognized text defaults to CUSTOMER.
func CancelReasonFromText(reason string) CancelReason {
	lower := strings.ToLower(reason)

	switch {
	case strings.Contains(lower, "fraud"):
		return CancelReasonFraud
	case strings.Contains(lower, "inventory"), strings.Contains(lower, "stock"):
		return CancelReasonInventory
	case strings.Contains(lower, "declined"):
		return CancelReasonDeclined
	case strings.Contains(lower, "other"):
		return CancelReasonOther
	default:
		return CancelReasonCustomer
	}
}
