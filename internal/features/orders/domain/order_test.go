package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeOrderNumber(t *testing.T) {
	assert.Equal(t, "#1001", NormalizeOrderNumber("1001"))
	assert.Equal(t, "#1001", NormalizeOrderNumber("#1001"))
}

func TestOrder_IsCancelled(t *testing.T) {
	now := time.Now()

	active := Order{Name: "#1001"}
	assert.False(t, active.IsCancelled())

	cancelled := Order{Name: "#1002", CancelledAt: &now}
	assert.True(t, cancelled.IsCancelled())
}

func TestOrder_ShippingGates(t *testing.T) {
	tests := []struct {
		status        FulfillmentStatus
		shipped       bool
		addressLocked bool
	}{
		{FulfillmentStatusUnfulfilled, false, false},
		{FulfillmentStatusInProgress, false, true},
		{FulfillmentStatusFulfilled, true, true},
		{FulfillmentStatusPartiallyFulfilled, false, false},
	}

	for _, tt := range tests {
		o := Order{FulfillmentStatus: tt.status}
		assert.Equal(t, tt.shipped, o.IsShipped(), string(tt.status))
		assert.Equal(t, tt.addressLocked, o.AddressLocked(), string(tt.status))
	}
}

func TestOrder_DaysSince(t *testing.T) {
	now := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)

	o := Order{CreatedAt: now.Add(-45 * 24 * time.Hour)}
	assert.Equal(t, 45, o.DaysSince(now))

	recent := Order{CreatedAt: now.Add(-36 * time.Hour)}
	assert.Equal(t, 1, recent.DaysSince(now))
}

func TestOrder_FulfillmentDisplay(t *testing.T) {
	assert.Equal(t, "Unfulfilled", (&Order{}).FulfillmentDisplay())
	assert.Equal(t, "FULFILLED", (&Order{FulfillmentStatus: FulfillmentStatusFulfilled}).FulfillmentDisplay())
}

func TestCancelReasonFromText(t *testing.T) {
	tests := []struct {
		text string
		want CancelReason
	}{
		{"Suspected FRAUD on this card", CancelReasonFraud},
		{"item out of stock", CancelReasonInventory},
		{"inventory shortage", CancelReasonInventory},
		{"payment declined", CancelReasonDeclined},
		{"some other thing", CancelReasonOther},
		{"customer changed their mind", CancelReasonCustomer},
		{"", CancelReasonCustomer},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CancelReasonFromText(tt.text), tt.text)
	}
}

func TestAddress_Format(t *testing.T) {
	addr := Address{
		FirstName: "John",
		LastName:  "Doe",
		Address1:  "123 Main St",
		Address2:  "Apt 4B",
		City:      "Denver",
		Province:  "CO",
		Zip:       "80202",
		Country:   "US",
		Phone:     "555-0100",
	}

	want := "John Doe\n123 Main St\nApt 4B\nDenver, CO 80202\nUS\nPhone: 555-0100"
	assert.Equal(t, want, addr.Format())

	minimal := Address{Address1: "9 Elm St", City: "Boulder", Province: "CO", Zip: "80301", Country: "US"}
	assert.Equal(t, "9 Elm St\nBoulder, CO 80301\nUS", minimal.Format())
}

func TestFormatReturnReason(t *testing.T) {
	assert.Equal(t, "Wrong size", FormatReturnReason("wrong_size"))
	assert.Equal(t, "Arrived damaged", FormatReturnReason("arrived_damaged"))
	assert.Equal(t, "unlisted", FormatReturnReason("unlisted"))
}
