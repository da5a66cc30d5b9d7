package domain

import (
	"fmt"
	"strings"
	"time"
)

// Money is a currency-qualified decimal amount.
type Money struct {
	Amount       string `json:"amount"`
	CurrencyCode string `json:"currencyCode"`
}

// Location is the coarse default address of a customer profile.
type Location struct {
	City     string `json:"city,omitempty"`
	Province string `json:"province,omitempty"`
	Country  string `json:"country,omitempty"`
}

// Customer is a customer profile as stored by the commerce backend.
type Customer struct {
	// ID is the backend's globally unique identifier (gid://shopify/Customer/...).
	ID        string `json:"id"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	// NumberOfOrders is the lifetime order count.
	NumberOfOrders int `json:"numberOfOrders"`
	// AmountSpent is the lifetime spend.
	AmountSpent Money `json:"amountSpent"`
	// CreatedAt is when the profile was created.
	CreatedAt time.Time `json:"createdAt"`
	// DefaultAddress is the coarse default shipping location, when set.
	DefaultAddress *Location `json:"defaultAddress,omitempty"`
	// Tags are the profile tags, including any chatbot lead tags.
	Tags []string `json:"tags,omitempty"`
}

// FullName joins first and last name, tolerating either being empty.
func (c *Customer) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// LeadSource classifies why a customer shared their contact information.
type LeadSource string

const (
	LeadSourceRestockNotification LeadSource = "restock_notification"
	LeadSourceProductInquiry      LeadSource = "product_inquiry"
	LeadSourceNewsletter          LeadSource = "newsletter"
	LeadSourceQuoteRequest        LeadSource = "quote_request"
	LeadSourceGeneral             LeadSource = "general"
)

// ValidLeadSource reports whether the source is one of the known values.
func ValidLeadSource(s LeadSource) bool {
	switch s {
	case LeadSourceRestockNotification, LeadSourceProductInquiry,
		LeadSourceNewsletter, LeadSourceQuoteRequest, LeadSourceGeneral:
		return true
	}
	return false
}

// Lead is contact information captured for follow-up.
type Lead struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Phone     string `json:"phone,omitempty"`
	// Interest is what the customer asked about (product, restock item, ...).
	Interest string `json:"interest"`
	// MarketingConsent records whether the customer agreed to marketing email.
	MarketingConsent bool `json:"marketingConsent"`
	// Source classifies why the contact information was shared.
	Source LeadSource `json:"source"`
}

// interestSlugLimit caps the interest tag length.
const interestSlugLimit = 50

// Tags builds the profile tags recorded with a captured lead.
func (l Lead) Tags(now time.Time) []string {
	tags := []string{
		"chatbot-lead",
		"source:" + string(l.Source),
		"interest:" + interestSlug(l.Interest),
		"captured:" + now.UTC().Format("2006-01-02"),
	}
	if l.MarketingConsent {
		tags = append(tags, "marketing-consent")
	}
	return tags
}

// Note builds the human-readable profile note recorded with a captured lead.
func (l Lead) Note(now time.Time) string {
	consent := "No"
	if l.MarketingConsent {
		consent = "Yes"
	}
	return fmt.Sprintf("Lead captured via chatbot\nSource: %s\nInterest: %s\nMarketing consent: %s\nCaptured at: %s",
		l.Source, l.Interest, consent, now.UTC().Format(time.RFC3339))
}

// interestSlug lowercases the interest, replaces whitespace runs with dashes
// and truncates it for use inside a tag.
func interestSlug(interest string) string {
	slug := strings.Join(strings.Fields(strings.ToLower(interest)), "-")
	if len(slug) > interestSlugLimit {
		slug = slug[:interestSlugLimit]
	}
	return slug
}
