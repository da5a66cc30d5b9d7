package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	customerdomain "support-agent/internal/features/customers/domain"
	customerservice "support-agent/internal/features/customers/service"
	orderdomain "support-agent/internal/features/orders/domain"
	orderservice "support-agent/internal/features/orders/service"
	productdomain "support-agent/internal/features/products/domain"
	productservice "support-agent/internal/features/products/service"
	ticketdomain "support-agent/internal/features/tickets/domain"
	ticketservice "support-agent/internal/features/tickets/service"
)

// Services groups everything the tool catalog dispatches into.
type Services struct {
	Orders    *orderservice.OrderService
	Products  *productservice.ProductService
	Customers *customerservice.CustomerService
	Tickets   *ticketservice.TicketService
}

// Catalog builds the full tool catalog over the given services.
func Catalog(s Services) []Tool {
	return []Tool{
		verifyCustomerTool(s.Orders),
		lookupOrderTool(s.Orders),
		lookupCustomerTool(s.Customers),
		orderHistoryTool(s.Orders),
		trackingTool(s.Orders),
		searchProductsTool(s.Products),
		productDetailsTool(s.Products),
		cancelOrderTool(s.Orders),
		updateShippingAddressTool(s.Orders),
		requestReturnTool(s.Orders),
		createSupportTicketTool(s.Tickets),
		captureLeadTool(s.Customers),
	}
}

func verifyCustomerTool(orders *orderservice.OrderService) Tool {
	return Tool{
		Name: "verify_customer",
		Description: "Verify that a customer owns an order by matching their email against the order. " +
			"Must succeed before any order detail is shared or any order change is made.",
		InputSchema: objectSchema(map[string]any{
			"orderNumber": stringProp("The order number, with or without the # prefix"),
			"email":       stringProp("The email address the customer claims the order was placed with"),
		}, "orderNumber", "email"),
		Call: func(ctx context.Context, args json.RawMessage) (any, error) {
			var in struct {
				OrderNumber string `json:"orderNumber"`
				Email       string `json:"email"`
			}
			if err := json.Unmarshal(args, &in); err != nil {
				return nil, fmt.Errorf("invalid arguments: %w", err)
			}
			if in.OrderNumber == "" || in.Email == "" {
				return nil, errors.New("orderNumber and email are required")
			}
			return orders.VerifyOwnership(ctx, in.OrderNumber, in.Email)
		},
	}
}

func lookupOrderTool(orders *orderservice.OrderService) Tool {
	return Tool{
		Name: "lookup_order",
		Description: "Look up the basic status of an order by its number: payment state, shipment state and total. " +
			"Use verify_customer first when the customer wants details or changes.",
		InputSchema: objectSchema(map[string]any{
			"orderNumber": stringProp("The order number, with or without the # prefix"),
		}, "orderNumber"),
		Call: func(ctx context.Context, args json.RawMessage) (any, error) {
			var in struct {
				OrderNumber string `json:"orderNumber"`
			}
			if err := json.Unmarshal(args, &in); err != nil {
				return nil, fmt.Errorf("invalid arguments: %w", err)
			}
			if in.OrderNumber == "" {
				return nil, errors.New("orderNumber is required")
			}

			order, err := orders.LookupOrder(ctx, in.OrderNumber)
			if errors.Is(err, orderservice.ErrOrderNotFound) {
				return map[string]any{
					"found":   false,
					"message": "Order not found. Please double-check the order number.",
				}, nil
			}
			if err != nil {
				return nil, err
			}

			return map[string]any{
				"found": true,
				"order": map[string]any{
					"name":              order.Name,
					"placedAt":          order.CreatedAt,
					"financialStatus":   order.FinancialStatus,
					"fulfillmentStatus": order.FulfillmentDisplay(),
					"cancelled":         order.IsCancelled(),
					"total":             order.Total,
				},
			}, nil
		},
	}
}

func lookupCustomerTool(customers *customerservice.CustomerService) Tool {
	return Tool{
		Name:        "lookup_customer",
		Description: "Look up a customer profile by email: order count, lifetime spend and default location.",
		InputSchema: objectSchema(map[string]any{
			"email": stringProp("The customer's email address"),
		}, "email"),
		Call: func(ctx context.Context, args json.RawMessage) (any, error) {
			var in struct {
				Email string `json:"email"`
			}
			if err := json.Unmarshal(args, &in); err != nil {
				return nil, fmt.Errorf("invalid arguments: %w", err)
			}
			if in.Email == "" {
				return nil, errors.New("email is required")
			}

			customer, err := customers.Lookup(ctx, in.Email)
			if errors.Is(err, customerservice.ErrCustomerNotFound) {
				return map[string]any{
					"found":   false,
					"message": fmt.Sprintf("No customer found with email %s.", in.Email),
				}, nil
			}
			if err != nil {
				return nil, err
			}

			return map[string]any{
				"found": true,
				"customer": map[string]any{
					"name":           customer.FullName(),
					"email":          customer.Email,
					"phone":          customer.Phone,
					"numberOfOrders": customer.NumberOfOrders,
					"amountSpent":    customer.AmountSpent,
					"customerSince":  customer.CreatedAt,
					"location":       customer.DefaultAddress,
				},
			}, nil
		},
	}
}

func orderHistoryTool(orders *orderservice.OrderService) Tool {
	return Tool{
		Name:        "get_order_history",
		Description: "Get a customer's most recent orders by email. Returns up to 10 orders, newest first.",
		InputSchema: objectSchema(map[string]any{
			"email": stringProp("The customer's email address"),
			"limit": intProp("Maximum number of orders to return (default 5, max 10)"),
		}, "email"),
		Call: func(ctx context.Context, args json.RawMessage) (any, error) {
			var in struct {
				Email string `json:"email"`
				Limit int    `json:"limit"`
			}
			if err := json.Unmarshal(args, &in); err != nil {
				return nil, fmt.Errorf("invalid arguments: %w", err)
			}
			if in.Email == "" {
				return nil, errors.New("email is required")
			}

			history, err := orders.GetOrderHistory(ctx, in.Email, in.Limit)
			if err != nil {
				return nil, err
			}

			summaries := make([]map[string]any, 0, len(history))
			for _, o := range history {
				summaries = append(summaries, map[string]any{
					"name":              o.Name,
					"placedAt":          o.CreatedAt,
					"financialStatus":   o.FinancialStatus,
					"fulfillmentStatus": o.FulfillmentDisplay(),
					"total":             o.Total,
				})
			}

			return map[string]any{
				"found":  len(summaries) > 0,
				"count":  len(summaries),
				"orders": summaries,
			}, nil
		},
	}
}

func trackingTool(orders *orderservice.OrderService) Tool {
	return Tool{
		Name:        "get_tracking",
		Description: "Get shipment tracking for an order: carrier, tracking numbers, delivery estimates and status.",
		InputSchema: objectSchema(map[string]any{
			"orderNumber": stringProp("The order number, with or without the # prefix"),
		}, "orderNumber"),
		Call: func(ctx context.Context, args json.RawMessage) (any, error) {
			var in struct {
				OrderNumber string `json:"orderNumber"`
			}
			if err := json.Unmarshal(args, &in); err != nil {
				return nil, fmt.Errorf("invalid arguments: %w", err)
			}
			if in.OrderNumber == "" {
				return nil, errors.New("orderNumber is required")
			}

			tracking, err := orders.GetTracking(ctx, in.OrderNumber)
			if errors.Is(err, orderservice.ErrOrderNotFound) {
				return map[string]any{
					"found":   false,
					"message": "Order not found. Please double-check the order number.",
				}, nil
			}
			if err != nil {
				return nil, err
			}

			if len(tracking.Fulfillments) == 0 {
				return map[string]any{
					"found":    true,
					"shipped":  false,
					"message":  fmt.Sprintf("Order %s has not shipped yet.", tracking.Name),
					"tracking": tracking,
				}, nil
			}

			return map[string]any{
				"found":    true,
				"shipped":  true,
				"tracking": tracking,
			}, nil
		},
	}
}

func searchProductsTool(products *productservice.ProductService) Tool {
	return Tool{
		Name: "search_products",
		Description: "Search for products in the store by name, category, or keyword. " +
			"Handles multi-word queries like 'women's snowboards' or 'red winter jacket'.",
		InputSchema: objectSchema(map[string]any{
			"searchTerm":        stringProp("The product name, category, or keywords to search for"),
			"includeOutOfStock": boolProp("Whether to include out-of-stock products in results (default true)"),
		}, "searchTerm"),
		Call: func(ctx context.Context, args json.RawMessage) (any, error) {
			var in struct {
				SearchTerm        string `json:"searchTerm"`
				IncludeOutOfStock *bool  `json:"includeOutOfStock"`
			}
			if err := json.Unmarshal(args, &in); err != nil {
				return nil, fmt.Errorf("invalid arguments: %w", err)
			}
			if in.SearchTerm == "" {
				return nil, errors.New("searchTerm is required")
			}

			includeOutOfStock := true
			if in.IncludeOutOfStock != nil {
				includeOutOfStock = *in.IncludeOutOfStock
			}

			result, err := products.Search(ctx, in.SearchTerm, productservice.SearchOptions{
				IncludeOutOfStock: includeOutOfStock,
			})
			if err != nil {
				return nil, err
			}

			if !result.Found {
				return map[string]any{
					"found":       false,
					"message":     result.Message,
					"suggestions": result.Suggestions,
				}, nil
			}

			views := make([]map[string]any, 0, len(result.Products))
			for i := range result.Products {
				views = append(views, searchProductView(&result.Products[i]))
			}

			return map[string]any{
				"found":       true,
				"searchTerm":  result.SearchTerm,
				"resultCount": result.ResultCount,
				"products":    views,
			}, nil
		},
	}
}

// searchProductView is the compact product shape returned by search.
func searchProductView(p *productdomain.Product) map[string]any {
	variants := make([]map[string]any, 0, len(p.Variants))
	for _, v := range p.Variants {
		variants = append(variants, map[string]any{
			"id":        v.ID,
			"name":      v.Title,
			"price":     v.Price,
			"available": v.Available,
			"stock":     v.Stock,
			"options":   v.Options,
		})
	}

	return map[string]any{
		"id":          p.ID,
		"title":       p.Title,
		"description": p.ShortDescription(),
		"productType": p.ProductType,
		"price":       p.PriceRange.Min,
		"priceRange":  p.PriceRange,
		"inStock":     p.InStock(),
		"inventory":   p.TotalInventory,
		"image":       p.Image,
		"handle":      p.Handle,
		"variants":    variants,
	}
}

func productDetailsTool(products *productservice.ProductService) Tool {
	return Tool{
		Name: "get_product_details",
		Description: "Get detailed information about a specific product including sizes, colors, specs, and availability. " +
			"Use this when a customer asks about product details, specifications, sizes, or colors.",
		InputSchema: objectSchema(map[string]any{
			"productTitle": stringProp("The name/title of the product to get details for"),
		}, "productTitle"),
		Call: func(ctx context.Context, args json.RawMessage) (any, error) {
			var in struct {
				ProductTitle string `json:"productTitle"`
			}
			if err := json.Unmarshal(args, &in); err != nil {
				return nil, fmt.Errorf("invalid arguments: %w", err)
			}
			if in.ProductTitle == "" {
				return nil, errors.New("productTitle is required")
			}

			details, err := products.GetDetails(ctx, in.ProductTitle)
			if errors.Is(err, productservice.ErrProductNotFound) {
				return map[string]any{
					"found":   false,
					"message": fmt.Sprintf("Could not find product %q", in.ProductTitle),
				}, nil
			}
			if err != nil {
				return nil, err
			}

			realVariants := details.RealVariants()
			variants := make([]map[string]any, 0, len(realVariants))
			for _, v := range realVariants {
				variants = append(variants, map[string]any{
					"name":       v.Title,
					"price":      v.Price,
					"inStock":    v.Available,
					"stockCount": v.Stock,
				})
			}

			result := map[string]any{
				"found": true,
				"product": map[string]any{
					"title":       details.Title,
					"description": details.Description,
					"productType": details.ProductType,
					"vendor":      details.Vendor,
					"tags":        details.Tags,
					"priceRange":  details.PriceRange,
					"inStock":     details.InStock(),
					"stockCount":  details.TotalInventory,
					"image":       details.Image,
				},
				"specifications": details.Specifications,
				"hasVariants":    len(realVariants) > 0,
			}
			if len(realVariants) > 0 {
				result["variantOptions"] = details.Options
				result["variants"] = variants
			}
			return result, nil
		},
	}
}

func cancelOrderTool(orders *orderservice.OrderService) Tool {
	return Tool{
		Name: "cancel_order",
		Description: "Cancel an order with a full refund. Requires the customer's email for verification. " +
			"Call once without confirmed to get a summary for the customer, then again with confirmed=true after they agree.",
		InputSchema: objectSchema(map[string]any{
			"orderNumber": stringProp("The order number, with or without the # prefix"),
			"email":       stringProp("The customer's email address for ownership verification"),
			"reason":      stringProp("Why the customer wants to cancel, in their words"),
			"confirmed":   boolProp("Set true only after the customer explicitly confirmed the cancellation"),
		}, "orderNumber", "email"),
		Call: func(ctx context.Context, args json.RawMessage) (any, error) {
			var in struct {
				OrderNumber string `json:"orderNumber"`
				Email       string `json:"email"`
				Reason      string `json:"reason"`
				Confirmed   bool   `json:"confirmed"`
			}
			if err := json.Unmarshal(args, &in); err != nil {
				return nil, fmt.Errorf("invalid arguments: %w", err)
			}
			if in.OrderNumber == "" || in.Email == "" {
				return nil, errors.New("orderNumber and email are required")
			}

			return orders.CancelOrder(ctx, orderservice.CancelRequest{
				OrderNumber: in.OrderNumber,
				Email:       in.Email,
				Reason:      in.Reason,
				Confirmed:   in.Confirmed,
			})
		},
	}
}

func updateShippingAddressTool(orders *orderservice.OrderService) Tool {
	return Tool{
		Name: "update_shipping_address",
		Description: "Change the shipping address of an order that has not started fulfillment. " +
			"Call once without confirmed to echo the new address back, then again with confirmed=true after the customer agrees.",
		InputSchema: objectSchema(map[string]any{
			"orderNumber": stringProp("The order number, with or without the # prefix"),
			"email":       stringProp("The customer's email address for ownership verification"),
			"address1":    stringProp("Street address"),
			"address2":    stringProp("Apartment, suite or unit (optional)"),
			"city":        stringProp("City"),
			"province":    stringProp("State/province code (e.g. CA, NY, ON)"),
			"zip":         stringProp("ZIP/postal code"),
			"country":     stringProp("Country code (e.g. US, CA, GB)"),
			"firstName":   stringProp("Recipient first name (optional)"),
			"lastName":    stringProp("Recipient last name (optional)"),
			"phone":       stringProp("Contact phone for delivery (optional)"),
			"confirmed":   boolProp("Set true only after the customer explicitly confirmed the new address"),
		}, "orderNumber", "email", "address1", "city", "province", "zip", "country"),
		Call: func(ctx context.Context, args json.RawMessage) (any, error) {
			var in struct {
				OrderNumber string `json:"orderNumber"`
				Email       string `json:"email"`
				Address1    string `json:"address1"`
				Address2    string `json:"address2"`
				City        string `json:"city"`
				Province    string `json:"province"`
				Zip         string `json:"zip"`
				Country     string `json:"country"`
				FirstName   string `json:"firstName"`
				LastName    string `json:"lastName"`
				Phone       string `json:"phone"`
				Confirmed   bool   `json:"confirmed"`
			}
			if err := json.Unmarshal(args, &in); err != nil {
				return nil, fmt.Errorf("invalid arguments: %w", err)
			}
			if in.OrderNumber == "" || in.Email == "" {
				return nil, errors.New("orderNumber and email are required")
			}
			if in.Address1 == "" || in.City == "" || in.Province == "" || in.Zip == "" || in.Country == "" {
				return nil, errors.New("address1, city, province, zip and country are required")
			}

			return orders.UpdateShippingAddress(ctx, orderservice.UpdateAddressRequest{
				OrderNumber: in.OrderNumber,
				Email:       in.Email,
				Address: orderdomain.Address{
					FirstName: in.FirstName,
					LastName:  in.LastName,
					Address1:  in.Address1,
					Address2:  in.Address2,
					City:      in.City,
					Province:  in.Province,
					Zip:       in.Zip,
					Country:   in.Country,
					Phone:     in.Phone,
				},
				Confirmed: in.Confirmed,
			})
		},
	}
}

func requestReturnTool(orders *orderservice.OrderService) Tool {
	itemSchema := objectSchema(map[string]any{
		"productName":     stringProp("Name of the product being returned"),
		"reason":          enumProp("Why the item is coming back", "wrong_size", "defective", "not_as_described", "changed_mind", "arrived_damaged", "other"),
		"action":          enumProp("What the customer wants", "refund", "exchange"),
		"exchangeDetails": stringProp("Replacement size/color for exchanges (optional)"),
		"additionalNotes": stringProp("Any extra detail about the issue (optional)"),
	}, "productName", "reason", "action")

	return Tool{
		Name: "request_return",
		Description: "Request a return or exchange for a delivered order within the 30-day return window. " +
			"Call once without confirmed to summarize the request, then again with confirmed=true after the customer agrees.",
		InputSchema: objectSchema(map[string]any{
			"orderNumber": stringProp("The order number, with or without the # prefix"),
			"email":       stringProp("The customer's email address for ownership verification"),
			"items": map[string]any{
				"type":        "array",
				"description": "The items to return or exchange",
				"items":       itemSchema,
			},
			"confirmed": boolProp("Set true only after the customer explicitly confirmed the return request"),
		}, "orderNumber", "email", "items"),
		Call: func(ctx context.Context, args json.RawMessage) (any, error) {
			var in struct {
				OrderNumber string                   `json:"orderNumber"`
				Email       string                   `json:"email"`
				Items       []orderdomain.ReturnItem `json:"items"`
				Confirmed   bool                     `json:"confirmed"`
			}
			if err := json.Unmarshal(args, &in); err != nil {
				return nil, fmt.Errorf("invalid arguments: %w", err)
			}
			if in.OrderNumber == "" || in.Email == "" {
				return nil, errors.New("orderNumber and email are required")
			}
			if len(in.Items) == 0 {
				return nil, errors.New("at least one item is required")
			}

			return orders.RequestReturn(ctx, orderservice.ReturnRequest{
				OrderNumber: in.OrderNumber,
				Email:       in.Email,
				Items:       in.Items,
				Confirmed:   in.Confirmed,
			})
		},
	}
}

func createSupportTicketTool(tickets *ticketservice.TicketService) Tool {
	return Tool{
		Name: "create_support_ticket",
		Description: "Create a support ticket for issues needing human follow-up. Only call once per issue; " +
			"repeated calls for the same issue return the original ticket.",
		InputSchema: objectSchema(map[string]any{
			"customerEmail": stringProp("Customer's email address"),
			"customerName":  stringProp("Customer's name if provided"),
			"orderNumber":   stringProp("Order number if order-related"),
			"category": enumProp("Issue category, determined from context",
				"order_issue", "shipping", "return_problem", "product_defect",
				"warranty", "refund_request", "complaint", "general_inquiry"),
			"priority":    enumProp("Urgency, determined from context", "low", "medium", "high", "urgent"),
			"subject":     stringProp("Brief subject line summarizing the issue"),
			"description": stringProp("Detailed description including what the issue is and any context"),
		}, "customerEmail", "category", "priority", "subject", "description"),
		Call: func(ctx context.Context, args json.RawMessage) (any, error) {
			var in struct {
				CustomerEmail string `json:"customerEmail"`
				CustomerName  string `json:"customerName"`
				OrderNumber   string `json:"orderNumber"`
				Category      string `json:"category"`
				Priority      string `json:"priority"`
				Subject       string `json:"subject"`
				Description   string `json:"description"`
			}
			if err := json.Unmarshal(args, &in); err != nil {
				return nil, fmt.Errorf("invalid arguments: %w", err)
			}
			if in.CustomerEmail == "" || in.Subject == "" || in.Description == "" {
				return nil, errors.New("customerEmail, subject and description are required")
			}

			return tickets.CreateTicket(ctx, ticketdomain.Ticket{
				CustomerEmail: in.CustomerEmail,
				CustomerName:  in.CustomerName,
				OrderNumber:   in.OrderNumber,
				Category:      ticketdomain.Category(in.Category),
				Priority:      ticketdomain.Priority(in.Priority),
				Subject:       in.Subject,
				Description:   in.Description,
			})
		},
	}
}

func captureLeadTool(customers *customerservice.CustomerService) Tool {
	return Tool{
		Name: "capture_lead",
		Description: "Capture customer contact information for follow-up: restock notifications, quotes, " +
			"newsletter signups or general interest. Ask for permission and the email before calling.",
		InputSchema: objectSchema(map[string]any{
			"email":            stringProp("Customer's email address"),
			"firstName":        stringProp("Customer's first name if provided"),
			"lastName":         stringProp("Customer's last name if provided"),
			"phone":            stringProp("Customer's phone number if provided"),
			"interest":         stringProp("What the customer is interested in (product name, restock item, etc.)"),
			"marketingConsent": boolProp("Whether the customer agreed to receive marketing emails"),
			"source": enumProp("Why the customer shared their contact information, determined from context",
				"restock_notification", "product_inquiry", "newsletter", "quote_request", "general"),
		}, "email", "interest", "marketingConsent", "source"),
		Call: func(ctx context.Context, args json.RawMessage) (any, error) {
			var in struct {
				Email            string `json:"email"`
				FirstName        string `json:"firstName"`
				LastName         string `json:"lastName"`
				Phone            string `json:"phone"`
				Interest         string `json:"interest"`
				MarketingConsent bool   `json:"marketingConsent"`
				Source           string `json:"source"`
			}
			if err := json.Unmarshal(args, &in); err != nil {
				return nil, fmt.Errorf("invalid arguments: %w", err)
			}
			if in.Email == "" || in.Interest == "" {
				return nil, errors.New("email and interest are required")
			}

			return customers.CaptureLead(ctx, customerdomain.Lead{
				Email:            in.Email,
				FirstName:        in.FirstName,
				LastName:         in.LastName,
				Phone:            in.Phone,
				Interest:         in.Interest,
				MarketingConsent: in.MarketingConsent,
				Source:           customerdomain.LeadSource(in.Source),
			})
		},
	}
}
