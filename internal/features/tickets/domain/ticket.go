package domain

import (
	"crypto/rand"
	"fmt"
	"time"
)

// Category classifies a support ticket. The agent picks the category; the
// customer is never asked for it.
type Category string

const (
	CategoryOrderIssue     Category = "order_issue"
	CategoryShipping       Category = "shipping"
	CategoryReturnProblem  Category = "return_problem"
	CategoryProductDefect  Category = "product_defect"
	CategoryWarranty       Category = "warranty"
	CategoryRefundRequest  Category = "refund_request"
	CategoryComplaint      Category = "complaint"
	CategoryGeneralInquiry Category = "general_inquiry"
)

// ValidCategory reports whether the category is one of the known values.
func ValidCategory(c Category) bool {
	switch c {
	case CategoryOrderIssue, CategoryShipping, CategoryReturnProblem,
		CategoryProductDefect, CategoryWarranty, CategoryRefundRequest,
		CategoryComplaint, CategoryGeneralInquiry:
		return true
	}
	return false
}

// Priority ranks how quickly a ticket needs a human response.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// ValidPriority reports whether the priority is one of the known values.
func ValidPriority(p Priority) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// responseTimes maps priorities to the committed first-response window.
var responseTimes = map[Priority]string{
	PriorityUrgent: "within 2 hours",
	PriorityHigh:   "within 4 hours",
	PriorityMedium: "within 24 hours",
	PriorityLow:    "within 48 hours",
}

// ResponseTime returns the committed first-response window for a priority.
// Unknown priorities get the slowest window.
func ResponseTime(p Priority) string {
	if t, ok := responseTimes[p]; ok {
		return t
	}
	return "within 48 hours"
}

// Ticket is a support ticket awaiting human follow-up.
type Ticket struct {
	ID            string   `json:"id"`
	CustomerEmail string   `json:"customerEmail"`
	CustomerName  string   `json:"customerName,omitempty"`
	OrderNumber   string   `json:"orderNumber,omitempty"`
	Category      Category `json:"category"`
	Priority      Priority `json:"priority"`
	Subject       string   `json:"subject"`
	Description   string   `json:"description"`
}

// ticketIDAlphabet excludes visually ambiguous characters (0, O, 1, I, L) so
// IDs survive being read over the phone.
const ticketIDAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// ticketIDLength is the number of random characters after the prefix.
const ticketIDLength = 8

// GenerateTicketID mints a ticket identifier of the form TKT-XXXXXXXX. If the
// system's randomness source fails, a time-derived fallback keeps IDs unique
// enough for a support queue.
func GenerateTicketID() string {
	buf := make([]byte, ticketIDLength)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Sprintf("TKT-%d", time.Now().UnixNano())
	}

	id := make([]byte, ticketIDLength)
	for i, b := range buf {
		id[i] = ticketIDAlphabet[int(b)%len(ticketIDAlphabet)]
	}
	return "TKT-" + string(id)
}
