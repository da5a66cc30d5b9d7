package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"support-agent/internal/core/config"
	"support-agent/internal/core/httpclient"
)

// Client executes queries and mutations against the Shopify Admin GraphQL API.
// It performs exactly one HTTPS round trip per call, does not retry, and does
// not interpret business-level errors; callers inspect Errors and any
// userErrors list themselves.
type Client struct {
	// client is the HTTP client used for API requests.
	client *http.Client
	// config holds the Shopify connection details.
	config config.ShopifyConfig
}

// NewClient creates a new Admin API client.
func NewClient(cfg config.ShopifyConfig) *Client {
	return &Client{
		client: httpclient.NewClient(10 * time.Second),
		config: cfg,
	}
}

// endpoint builds the Admin GraphQL URL. StoreDomain is normally a bare
// myshopify host; a full base URL is accepted as well.
func (c *Client) endpoint() string {
	domain := c.config.StoreDomain
	if strings.Contains(domain, "://") {
		return fmt.Sprintf("%s/admin/api/%s/graphql.json", strings.TrimSuffix(domain, "/"), c.config.APIVersion)
	}
	return fmt.Sprintf("https://%s/admin/api/%s/graphql.json", domain, c.config.APIVersion)
}

// request is the JSON body of a GraphQL call.
type request struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

// Response is the raw GraphQL envelope returned by the Admin API.
type Response struct {
	// Data is the untyped result payload; adapters decode it into their own shapes.
	Data json.RawMessage `json:"data"`
	// Errors holds transport-level GraphQL errors.
	Errors []GraphQLError `json:"errors"`
}

// GraphQLError is a single entry of the top-level errors list.
type GraphQLError struct {
	Message string `json:"message"`
}

// ErrorMessage joins all transport-level error messages into one string.
// Returns "" when the response carried no errors.
func (r *Response) ErrorMessage() string {
	if len(r.Errors) == 0 {
		return ""
	}
	msgs := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		msgs = append(msgs, e.Message)
	}
	return strings.Join(msgs, ", ")
}

// UserError is a business-level mutation error surfaced inside data.
type UserError struct {
	Field   []string `json:"field"`
	Message string   `json:"message"`
}

// JoinUserErrors joins business-level error messages into one string.
func JoinUserErrors(errs []UserError) string {
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, e.Message)
	}
	return strings.Join(msgs, ", ")
}

// Execute posts a single GraphQL query or mutation with optional variables.
// A nil variables map sends a query-only body.
func (c *Client) Execute(ctx context.Context, query string, variables map[string]any) (*Response, error) {
	body, err := json.Marshal(request{Query: query, Variables: variables})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Shopify-Access-Token", c.config.AccessToken)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("shopify API returned status: %d", resp.StatusCode)
	}

	var out Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &out, nil
}

// HealthCheck verifies that the Admin API is reachable and credentials are valid.
func (c *Client) HealthCheck(ctx context.Context) error {
	resp, err := c.Execute(ctx, `{ shop { name } }`, nil)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	if msg := resp.ErrorMessage(); msg != "" {
		return fmt.Errorf("health check rejected: %s", msg)
	}
	return nil
}

// queryEscaper escapes the metacharacters of Shopify's search query syntax.
var queryEscaper = strings.NewReplacer(
	`\`, `\\`,
	`:`, `\:`,
	`"`, `\"`,
	`'`, `\'`,
	`(`, `\(`,
	`)`, `\)`,
)

// EscapeQueryValue escapes a value before it is embedded in a textual search
// sub-query (e.g. `query: "name:..."`). Every interpolated value must pass
// through this function.
func EscapeQueryValue(value string) string {
	return queryEscaper.Replace(value)
}
