package domain

// Price is a currency-qualified decimal amount.
type Price struct {
	Amount       string `json:"amount"`
	CurrencyCode string `json:"currencyCode"`
}

// PriceRange spans the cheapest and priciest variant of a product.
type PriceRange struct {
	Min Price `json:"min"`
	Max Price `json:"max"`
}

// VariantOption is one selected option of a variant (e.g. Size=158cm).
type VariantOption struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Variant is a purchasable variation of a product.
type Variant struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	Price     string          `json:"price"`
	Available bool            `json:"available"`
	Stock     int             `json:"stock"`
	Options   []VariantOption `json:"options,omitempty"`
}

// defaultVariantTitle is the placeholder title the backend assigns to
// products without real variants.
const defaultVariantTitle = "Default Title"

// IsPlaceholder reports whether this is the backend's synthetic variant for a
// product that has no real variations.
func (v Variant) IsPlaceholder() bool {
	return v.Title == defaultVariantTitle
}

// Product is a catalog entry as used by search and detail lookups.
type Product struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Handle         string     `json:"handle"`
	ProductType    string     `json:"productType"`
	Tags           []string   `json:"tags,omitempty"`
	Vendor         string     `json:"vendor,omitempty"`
	PriceRange     PriceRange `json:"priceRange"`
	TotalInventory int        `json:"totalInventory"`
	Image          string     `json:"image,omitempty"`
	Variants       []Variant  `json:"variants,omitempty"`
}

// InStock reports whether any inventory remains.
func (p *Product) InStock() bool {
	return p.TotalInventory > 0
}

// shortDescriptionLimit caps descriptions in search results.
const shortDescriptionLimit = 200

// ShortDescription returns the description truncated for search results.
func (p *Product) ShortDescription() string {
	if p.Description == "" {
		return "No description"
	}
	if len(p.Description) <= shortDescriptionLimit {
		return p.Description
	}
	return p.Description[:shortDescriptionLimit] + "..."
}

// RealVariants returns the variants excluding the backend's placeholder.
func (p *Product) RealVariants() []Variant {
	var out []Variant
	for _, v := range p.Variants {
		if !v.IsPlaceholder() {
			out = append(out, v)
		}
	}
	return out
}

// ProductDetails is the full view of a product including specifications
// derived from metafields and the option matrix.
type ProductDetails struct {
	Product
	// Specifications maps readable spec names to values (string or []string).
	Specifications map[string]any `json:"specifications,omitempty"`
	// Options maps option names to their possible values, placeholder excluded.
	Options map[string][]string `json:"options,omitempty"`
}
