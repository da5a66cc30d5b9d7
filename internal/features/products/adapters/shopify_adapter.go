package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"support-agent/internal/core/shopify"
	"support-agent/internal/features/products/domain"
)

// Gateway is the slice of the commerce gateway this adapter needs.
type Gateway interface {
	Execute(ctx context.Context, query string, variables map[string]any) (*shopify.Response, error)
}

// ShopifyAdapter implements the ProductSearcher and ProductProvider interfaces
// against the Shopify Admin GraphQL API.
type ShopifyAdapter struct {
	gateway Gateway
}

// NewShopifyAdapter creates a new instance of ShopifyAdapter.
func NewShopifyAdapter(gateway Gateway) *ShopifyAdapter {
	return &ShopifyAdapter{gateway: gateway}
}

// SearchByToken fetches candidates for one token. No wildcards: the backend
// handles partial matching on plain terms.
func (a *ShopifyAdapter) SearchByToken(ctx context.Context, token string, limit int) ([]domain.Product, error) {
	query := fmt.Sprintf(`{
		products(first: %d, query: "%s") {
			edges {
				node {
					id
					title
					description
					handle
					productType
					tags
					vendor
					priceRangeV2 {
						minVariantPrice { amount currencyCode }
						maxVariantPrice { amount currencyCode }
					}
					totalInventory
					featuredImage { url }
					variants(first: 10) {
						edges {
							node {
								id
								title
								price
								availableForSale
								inventoryQuantity
								selectedOptions { name value }
							}
						}
					}
				}
			}
		}
	}`, limit, shopify.EscapeQueryValue(token))

	nodes, err := a.fetchProducts(ctx, query)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Product, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, *mapProduct(n))
	}
	return out, nil
}

// GetProductByTitle fetches the full detail view of the closest title match,
// including the option matrix and all metafields.
func (a *ShopifyAdapter) GetProductByTitle(ctx context.Context, title string) (*domain.ProductDetails, error) {
	query := fmt.Sprintf(`{
		products(first: 1, query: "title:*%s*") {
			edges {
				node {
					id
					title
					description
					handle
					productType
					tags
					vendor
					priceRangeV2 {
						minVariantPrice { amount currencyCode }
						maxVariantPrice { amount currencyCode }
					}
					totalInventory
					featuredImage { url }
					options { name values }
					variants(first: 100) {
						edges {
							node {
								id
								title
								price
								availableForSale
								inventoryQuantity
								selectedOptions { name value }
							}
						}
					}
					metafields(first: 25) {
						edges {
							node { namespace key value type }
						}
					}
				}
			}
		}
	}`, shopify.EscapeQueryValue(title))

	nodes, err := a.fetchProducts(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, nil
	}

	n := nodes[0]
	details := &domain.ProductDetails{
		Product:        *mapProduct(n),
		Specifications: parseMetafields(n.Metafields.Edges),
		Options:        map[string][]string{},
	}

	for _, opt := range n.Options {
		// "Title" is the synthetic option of variant-less products.
		if opt.Name != "Title" {
			details.Options[opt.Name] = opt.Values
		}
	}

	return details, nil
}

// fetchProducts runs a query and unwraps the products connection.
func (a *ShopifyAdapter) fetchProducts(ctx context.Context, query string) ([]productNode, error) {
	resp, err := a.gateway.Execute(ctx, query, nil)
	if err != nil {
		return nil, err
	}
	if msg := resp.ErrorMessage(); msg != "" {
		return nil, errors.New(msg)
	}

	var payload struct {
		Products struct {
			Edges []struct {
				Node productNode `json:"node"`
			} `json:"edges"`
		} `json:"products"`
	}
	if err := json.Unmarshal(resp.Data, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode products response: %w", err)
	}

	nodes := make([]productNode, 0, len(payload.Products.Edges))
	for _, e := range payload.Products.Edges {
		nodes = append(nodes, e.Node)
	}
	return nodes, nil
}

// mapProduct converts a raw product node into a domain Product entity.
func mapProduct(n productNode) *domain.Product {
	p := &domain.Product{
		ID:          n.ID,
		Title:       n.Title,
		Description: n.Description,
		Handle:      n.Handle,
		ProductType: n.ProductType,
		Tags:        n.Tags,
		Vendor:      n.Vendor,
		PriceRange: domain.PriceRange{
			Min: domain.Price{Amount: n.PriceRangeV2.MinVariantPrice.Amount, CurrencyCode: n.PriceRangeV2.MinVariantPrice.CurrencyCode},
			Max: domain.Price{Amount: n.PriceRangeV2.MaxVariantPrice.Amount, CurrencyCode: n.PriceRangeV2.MaxVariantPrice.CurrencyCode},
		},
		TotalInventory: n.TotalInventory,
	}

	if n.FeaturedImage != nil {
		p.Image = n.FeaturedImage.URL
	}

	for _, e := range n.Variants.Edges {
		variant := domain.Variant{
			ID:        e.Node.ID,
			Title:     e.Node.Title,
			Price:     e.Node.Price,
			Available: e.Node.AvailableForSale,
			Stock:     e.Node.InventoryQuantity,
		}
		for _, o := range e.Node.SelectedOptions {
			variant.Options = append(variant.Options, domain.VariantOption{Name: o.Name, Value: o.Value})
		}
		p.Variants = append(p.Variants, variant)
	}

	return p
}

// parseMetafields converts raw metafields into a readable specifications map.
// List and JSON types are decoded; booleans become Yes/No; empty values are
// skipped.
func parseMetafields(edges []metafieldEdge) map[string]any {
	specs := make(map[string]any)

	for _, e := range edges {
		m := e.Node
		key := formatMetafieldKey(m.Key)

		var value any
		switch {
		case strings.HasPrefix(m.Type, "list."):
			var list []string
			if err := json.Unmarshal([]byte(m.Value), &list); err != nil || len(list) == 0 {
				value = m.Value
			} else {
				value = list
			}
		case m.Type == "boolean":
			if m.Value == "true" {
				value = "Yes"
			} else {
				value = "No"
			}
		default:
			value = m.Value
		}

		if s, ok := value.(string); ok && s == "" {
			continue
		}
		specs[key] = value
	}

	if len(specs) == 0 {
		return nil
	}
	return specs
}

// formatMetafieldKey converts snake_case or kebab-case keys to Title Case.
func formatMetafieldKey(key string) string {
	words := strings.FieldsFunc(key, func(r rune) bool {
		return r == '_' || r == '-'
	})
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// internal structs for mapping

// productNode represents the JSON structure of a product from the Admin API.
type productNode struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Handle       string   `json:"handle"`
	ProductType  string   `json:"productType"`
	Tags         []string `json:"tags"`
	Vendor       string   `json:"vendor"`
	PriceRangeV2 struct {
		MinVariantPrice priceNode `json:"minVariantPrice"`
		MaxVariantPrice priceNode `json:"maxVariantPrice"`
	} `json:"priceRangeV2"`
	TotalInventory int `json:"totalInventory"`
	FeaturedImage  *struct {
		URL string `json:"url"`
	} `json:"featuredImage"`
	Options []struct {
		Name   string   `json:"name"`
		Values []string `json:"values"`
	} `json:"options"`
	Variants struct {
		Edges []struct {
			Node struct {
				ID                string `json:"id"`
				Title             string `json:"title"`
				Price             string `json:"price"`
				AvailableForSale  bool   `json:"availableForSale"`
				InventoryQuantity int    `json:"inventoryQuantity"`
				SelectedOptions   []struct {
					Name  string `json:"name"`
					Value string `json:"value"`
				} `json:"selectedOptions"`
			} `json:"node"`
		} `json:"edges"`
	} `json:"variants"`
	Metafields struct {
		Edges []metafieldEdge `json:"edges"`
	} `json:"metafields"`
}

// priceNode is a currency-qualified amount as returned by the API.
type priceNode struct {
	Amount       string `json:"amount"`
	CurrencyCode string `json:"currencyCode"`
}

// metafieldEdge is one metafield entry of a product.
type metafieldEdge struct {
	Node struct {
		Namespace string `json:"namespace"`
		Key       string `json:"key"`
		Value     string `json:"value"`
		Type      string `json:"type"`
	} `json:"node"`
}
