package adapter

import (
	"context"
	"encoding/json"
	"testing"

	"support-agent/internal/core/shopify"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGateway returns canned GraphQL responses and records the last query.
type fakeGateway struct {
	lastQuery string
	response  *shopify.Response
	err       error
}

func (f *fakeGateway) Execute(_ context.Context, query string, _ map[string]any) (*shopify.Response, error) {
	f.lastQuery = query
	return f.response, f.err
}

func dataResponse(t *testing.T, data string) *shopify.Response {
	t.Helper()
	return &shopify.Response{Data: json.RawMessage(data)}
}

func TestSearchByToken(t *testing.T) {
	gw := &fakeGateway{response: dataResponse(t, `{
		"products": {"edges": [{"node": {
			"id": "gid://shopify/Product/1",
			"title": "Powder Board",
			"description": "All-mountain snowboard",
			"handle": "powder-board",
			"productType": "Snowboards",
			"tags": ["winter", "snowboard"],
			"vendor": "TechGear",
			"priceRangeV2": {
				"minVariantPrice": {"amount": "499.95", "currencyCode": "USD"},
				"maxVariantPrice": {"amount": "549.95", "currencyCode": "USD"}
			},
			"totalInventory": 12,
			"featuredImage": {"url": "https://cdn.example.com/board.jpg"},
			"variants": {"edges": [{"node": {
				"id": "gid://shopify/ProductVariant/11",
				"title": "158cm",
				"price": "499.95",
				"availableForSale": true,
				"inventoryQuantity": 7,
				"selectedOptions": [{"name": "Size", "value": "158cm"}]
			}}]}
		}}]}
	}`)}
	a := NewShopifyAdapter(gw)

	products, err := a.SearchByToken(context.Background(), "snowboard", 30)
	require.NoError(t, err)
	require.Len(t, products, 1)

	p := products[0]
	assert.Equal(t, "Powder Board", p.Title)
	assert.Equal(t, "Snowboards", p.ProductType)
	assert.Equal(t, "499.95", p.PriceRange.Min.Amount)
	assert.Equal(t, 12, p.TotalInventory)
	assert.True(t, p.InStock())
	assert.Equal(t, "https://cdn.example.com/board.jpg", p.Image)
	require.Len(t, p.Variants, 1)
	assert.Equal(t, "158cm", p.Variants[0].Title)
	require.Len(t, p.Variants[0].Options, 1)
	assert.Equal(t, "Size", p.Variants[0].Options[0].Name)

	assert.Contains(t, gw.lastQuery, "first: 30")
	assert.Contains(t, gw.lastQuery, `query: "snowboard"`)
}

func TestSearchByToken_EscapesToken(t *testing.T) {
	gw := &fakeGateway{response: dataResponse(t, `{"products": {"edges": []}}`)}
	a := NewShopifyAdapter(gw)

	_, err := a.SearchByToken(context.Background(), `snow"board`, 10)
	require.NoError(t, err)
	assert.Contains(t, gw.lastQuery, `snow\"board`)
}

func TestGetProductByTitle(t *testing.T) {
	gw := &fakeGateway{response: dataResponse(t, `{
		"products": {"edges": [{"node": {
			"id": "gid://shopify/Product/1",
			"title": "Powder Board",
			"productType": "Snowboards",
			"totalInventory": 12,
			"priceRangeV2": {
				"minVariantPrice": {"amount": "499.95", "currencyCode": "USD"},
				"maxVariantPrice": {"amount": "549.95", "currencyCode": "USD"}
			},
			"options": [
				{"name": "Size", "values": ["154cm", "158cm"]},
				{"name": "Title", "values": ["Default Title"]}
			],
			"variants": {"edges": [
				{"node": {"id": "v1", "title": "154cm", "price": "499.95", "availableForSale": true, "inventoryQuantity": 5}},
				{"node": {"id": "v2", "title": "158cm", "price": "549.95", "availableForSale": false, "inventoryQuantity": 0}}
			]},
			"metafields": {"edges": [
				{"node": {"namespace": "custom", "key": "flex_rating", "value": "7", "type": "number_integer"}},
				{"node": {"namespace": "custom", "key": "terrain", "value": "[\"All-Mountain\",\"Powder\"]", "type": "list.single_line_text_field"}},
				{"node": {"namespace": "custom", "key": "beginner_friendly", "value": "false", "type": "boolean"}},
				{"node": {"namespace": "custom", "key": "empty_spec", "value": "", "type": "single_line_text_field"}}
			]}
		}}]}
	}`)}
	a := NewShopifyAdapter(gw)

	details, err := a.GetProductByTitle(context.Background(), "Powder Board")
	require.NoError(t, err)
	require.NotNil(t, details)

	assert.Contains(t, gw.lastQuery, `title:*Powder Board*`)

	assert.Equal(t, "7", details.Specifications["Flex Rating"])
	assert.Equal(t, []string{"All-Mountain", "Powder"}, details.Specifications["Terrain"])
	assert.Equal(t, "No", details.Specifications["Beginner Friendly"])
	assert.NotContains(t, details.Specifications, "Empty Spec")

	assert.Equal(t, []string{"154cm", "158cm"}, details.Options["Size"])
	assert.NotContains(t, details.Options, "Title", "synthetic Title option must be excluded")

	require.Len(t, details.RealVariants(), 2)
}

func TestGetProductByTitle_NotFound(t *testing.T) {
	gw := &fakeGateway{response: dataResponse(t, `{"products": {"edges": []}}`)}
	a := NewShopifyAdapter(gw)

	details, err := a.GetProductByTitle(context.Background(), "Nonexistent")
	require.NoError(t, err)
	assert.Nil(t, details)
}

func TestFormatMetafieldKey(t *testing.T) {
	assert.Equal(t, "Flex Rating", formatMetafieldKey("flex_rating"))
	assert.Equal(t, "Binding Compatibility", formatMetafieldKey("binding-compatibility"))
	assert.Equal(t, "Terrain", formatMetafieldKey("terrain"))
}
