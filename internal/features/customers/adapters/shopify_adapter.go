package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"support-agent/internal/core/shopify"
	"support-agent/internal/features/customers/domain"
)

// Gateway is the slice of the commerce gateway this adapter needs.
type Gateway interface {
	Execute(ctx context.Context, query string, variables map[string]any) (*shopify.Response, error)
}

// ShopifyAdapter implements the CustomerProvider and LeadRecorder interfaces
// against the Shopify Admin GraphQL API.
type ShopifyAdapter struct {
	gateway Gateway
	now     func() time.Time
}

// NewShopifyAdapter creates a new instance of ShopifyAdapter.
func NewShopifyAdapter(gateway Gateway) *ShopifyAdapter {
	return &ShopifyAdapter{gateway: gateway, now: time.Now}
}

// GetCustomerByEmail fetches the profile matching an email address.
func (a *ShopifyAdapter) GetCustomerByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	query := fmt.Sprintf(`{
		customers(first: 1, query: "email:%s") {
			edges {
				node {
					id
					firstName
					lastName
					email
					phone
					numberOfOrders
					amountSpent { amount currencyCode }
					createdAt
					tags
					defaultAddress { city province country }
				}
			}
		}
	}`, shopify.EscapeQueryValue(email))

	resp, err := a.gateway.Execute(ctx, query, nil)
	if err != nil {
		return nil, err
	}
	if msg := resp.ErrorMessage(); msg != "" {
		return nil, errors.New(msg)
	}

	var payload struct {
		Customers struct {
			Edges []struct {
				Node customerNode `json:"node"`
			} `json:"edges"`
		} `json:"customers"`
	}
	if err := json.Unmarshal(resp.Data, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode customers response: %w", err)
	}

	if len(payload.Customers.Edges) == 0 {
		return nil, nil
	}
	return mapCustomer(payload.Customers.Edges[0].Node), nil
}

// CreateCustomer creates a new profile for a lead. Marketing consent is
// recorded as a single-opt-in subscription.
func (a *ShopifyAdapter) CreateCustomer(ctx context.Context, lead domain.Lead, tags []string, note string) (*domain.Customer, error) {
	mutation := `mutation customerCreate($input: CustomerInput!) {
		customerCreate(input: $input) {
			customer { id email firstName lastName phone tags createdAt }
			userErrors { field message }
		}
	}`

	input := map[string]any{
		"email":     lead.Email,
		"firstName": lead.FirstName,
		"lastName":  lead.LastName,
		"phone":     lead.Phone,
		"tags":      tags,
		"note":      note,
	}
	if lead.MarketingConsent {
		input["emailMarketingConsent"] = map[string]any{
			"marketingState":   "SUBSCRIBED",
			"marketingOptInLevel": "SINGLE_OPT_IN",
			"consentUpdatedAt": a.now().UTC().Format(time.RFC3339),
		}
	}

	resp, err := a.gateway.Execute(ctx, mutation, map[string]any{"input": input})
	if err != nil {
		return nil, fmt.Errorf("customer create failed: %w", err)
	}
	if msg := resp.ErrorMessage(); msg != "" {
		return nil, errors.New(msg)
	}

	var payload struct {
		CustomerCreate struct {
			Customer   *customerNode       `json:"customer"`
			UserErrors []shopify.UserError `json:"userErrors"`
		} `json:"customerCreate"`
	}
	if err := json.Unmarshal(resp.Data, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode create response: %w", err)
	}

	if len(payload.CustomerCreate.UserErrors) > 0 {
		return nil, errors.New(shopify.JoinUserErrors(payload.CustomerCreate.UserErrors))
	}
	if payload.CustomerCreate.Customer == nil {
		return nil, errors.New("backend returned no customer")
	}

	return mapCustomer(*payload.CustomerCreate.Customer), nil
}

// UpdateCustomer re-tags an existing profile with the lead's details.
func (a *ShopifyAdapter) UpdateCustomer(ctx context.Context, customerID string, lead domain.Lead, tags []string, note string) error {
	mutation := `mutation customerUpdate($input: CustomerInput!) {
		customerUpdate(input: $input) {
			customer { id email tags }
			userErrors { field message }
		}
	}`

	input := map[string]any{
		"id":   customerID,
		"tags": tags,
		"note": note,
	}
	if lead.FirstName != "" {
		input["firstName"] = lead.FirstName
	}
	if lead.LastName != "" {
		input["lastName"] = lead.LastName
	}
	if lead.Phone != "" {
		input["phone"] = lead.Phone
	}

	resp, err := a.gateway.Execute(ctx, mutation, map[string]any{"input": input})
	if err != nil {
		return fmt.Errorf("customer update failed: %w", err)
	}
	if msg := resp.ErrorMessage(); msg != "" {
		return errors.New(msg)
	}

	var payload struct {
		CustomerUpdate struct {
			UserErrors []shopify.UserError `json:"userErrors"`
		} `json:"customerUpdate"`
	}
	if err := json.Unmarshal(resp.Data, &payload); err != nil {
		return fmt.Errorf("failed to decode update response: %w", err)
	}

	if len(payload.CustomerUpdate.UserErrors) > 0 {
		return errors.New(shopify.JoinUserErrors(payload.CustomerUpdate.UserErrors))
	}
	return nil
}

// mapCustomer converts a raw customer node into a domain Customer entity.
func mapCustomer(n customerNode) *domain.Customer {
	c := &domain.Customer{
		ID:             n.ID,
		FirstName:      n.FirstName,
		LastName:       n.LastName,
		Email:          n.Email,
		Phone:          n.Phone,
		NumberOfOrders: int(n.NumberOfOrders),
		AmountSpent: domain.Money{
			Amount:       n.AmountSpent.Amount,
			CurrencyCode: n.AmountSpent.CurrencyCode,
		},
		CreatedAt: n.CreatedAt,
		Tags:      n.Tags,
	}

	if n.DefaultAddress != nil {
		c.DefaultAddress = &domain.Location{
			City:     n.DefaultAddress.City,
			Province: n.DefaultAddress.Province,
			Country:  n.DefaultAddress.Country,
		}
	}

	return c
}

// customerNode represents the JSON structure of a customer from the Admin API.
// numberOfOrders is an unsigned int serialized as a string by the API.
type customerNode struct {
	ID             string      `json:"id"`
	FirstName      string      `json:"firstName"`
	LastName       string      `json:"lastName"`
	Email          string      `json:"email"`
	Phone          string      `json:"phone"`
	NumberOfOrders stringCount `json:"numberOfOrders"`
	AmountSpent    struct {
		Amount       string `json:"amount"`
		CurrencyCode string `json:"currencyCode"`
	} `json:"amountSpent"`
	CreatedAt      time.Time `json:"createdAt"`
	Tags           []string  `json:"tags"`
	DefaultAddress *struct {
		City     string `json:"city"`
		Province string `json:"province"`
		Country  string `json:"country"`
	} `json:"defaultAddress"`
}

// stringCount decodes a count the API serializes either as a JSON number or a
// quoted string.
type stringCount int

func (c *stringCount) UnmarshalJSON(data []byte) error {
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		n = json.Number(s)
	}
	v, err := n.Int64()
	if err != nil {
		return err
	}
	*c = stringCount(v)
	return nil
}
