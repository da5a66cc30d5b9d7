package domain

// ReturnAction is what the customer wants done with a returned item.
type ReturnAction string

const (
	ReturnActionRefund   ReturnAction = "refund"
	ReturnActionExchange ReturnAction = "exchange"
)

// ReturnItem describes one item of a return/exchange request.
type ReturnItem struct {
	// ProductName is the name of the product being returned.
	ProductName string `json:"productName"`
	// Reason is the return reason code (wrong_size, defective, ...).
	Reason string `json:"reason"`
	// Action is refund or exchange.
	Action ReturnAction `json:"action"`
	// ExchangeDetails carries the replacement size/color for exchanges.
	ExchangeDetails string `json:"exchangeDetails,omitempty"`
	// AdditionalNotes carries any extra detail about the issue.
	AdditionalNotes string `json:"additionalNotes,omitempty"`
}

// returnReasons maps reason codes to customer-facing labels.
var returnReasons = map[string]string{
	"wrong_size":        "Wrong size",
	"defective":         "Product defect",
	"not_as_described":  "Not as described",
	"changed_mind":      "Changed mind",
	"arrived_damaged":   "Arrived damaged",
	"other":             "Other reason",
}

// FormatReturnReason converts a reason code into its customer-facing label.
// Unknown codes pass through unchanged.
func FormatReturnReason(reason string) string {
	if label, ok := returnReasons[reason]; ok {
		return label
	}
	return reason
}

// ReturnPolicy is the policy block included with accepted return requests.
type ReturnPolicy struct {
	Window     string `json:"window"`
	Condition  string `json:"condition"`
	Exceptions string `json:"exceptions"`
}

// StandardReturnPolicy is the store's published return policy.
var StandardReturnPolicy = ReturnPolicy{
	Window:     "30 days from delivery",
	Condition:  "Items must be unused with original tags",
	Exceptions: "Mounted bindings and used gear cannot be returned",
}
