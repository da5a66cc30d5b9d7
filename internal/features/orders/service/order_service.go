package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"support-agent/internal/core/config"
	"support-agent/internal/core/logger"
	"support-agent/internal/features/orders/domain"
	"support-agent/internal/features/orders/ports"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrOrderNotFound is returned when no order matches the given number.
	ErrOrderNotFound = errors.New("order not found")
)

// Machine-readable reason codes carried in mutation outcomes.
const (
	ReasonOrderNotFound       = "order_not_found"
	ReasonEmailMismatch       = "email_mismatch"
	ReasonAlreadyCancelled    = "already_cancelled"
	ReasonAlreadyShipped      = "already_shipped"
	ReasonFulfillmentStarted  = "fulfillment_in_progress"
	ReasonNotDelivered        = "not_delivered"
	ReasonReturnWindowExpired = "return_window_expired"
	ReasonBackendRejected     = "backend_rejected"
)

// defaultHistoryLimit and maxHistoryLimit bound the order-history lookup.
const (
	defaultHistoryLimit = 5
	maxHistoryLimit     = 10
)

// OrderService owns order verification and the mutation flows built on it.
// Every call is self-contained: verification and preconditions are re-run on
// each invocation, and confirmation state lives with the caller.
type OrderService struct {
	provider ports.OrderProvider
	mutator  ports.OrderMutator
	support  config.SupportConfig
	now      func() time.Time
}

// NewOrderService creates a new OrderService.
func NewOrderService(provider ports.OrderProvider, mutator ports.OrderMutator, support config.SupportConfig) *OrderService {
	return &OrderService{
		provider: provider,
		mutator:  mutator,
		support:  support,
		now:      time.Now,
	}
}

// VerificationResult is the outcome of an ownership check.
type VerificationResult struct {
	// Verified reports whether the claimed email owns the order.
	Verified bool `json:"verified"`
	// Reason is a machine-readable failure code, empty on success.
	Reason string `json:"reason,omitempty"`
	// Message is the customer-facing explanation.
	Message string `json:"message"`
	// Order is populated only when verification succeeded.
	Order *domain.Order `json:"order,omitempty"`
}

// VerifyOwnership checks that the claimed email owns the order. The order is
// never included in the result unless the check passes, so callers cannot leak
// order details to an unverified requester. Failure messages do not reveal
// whether the order exists beyond what the caller already supplied.
func (s *OrderService) VerifyOwnership(ctx context.Context, orderNumber, claimedEmail string) (*VerificationResult, error) {
	order, err := s.provider.GetOrderByNumber(ctx, domain.NormalizeOrderNumber(orderNumber))
	if err != nil {
		return nil, fmt.Errorf("failed to look up order: %w", err)
	}
	if order == nil {
		return &VerificationResult{
			Reason:  ReasonOrderNotFound,
			Message: "Order not found. Please double-check the order number.",
		}, nil
	}

	claimed := strings.TrimSpace(strings.ToLower(claimedEmail))
	orderEmail := strings.TrimSpace(strings.ToLower(order.Email))
	customerEmail := strings.TrimSpace(strings.ToLower(order.CustomerEmail))

	if claimed == "" || (claimed != orderEmail && claimed != customerEmail) {
		logger.Get().Warn("Ownership verification failed",
			zap.String("order", order.Name),
			zap.String("reason", ReasonEmailMismatch),
		)
		return &VerificationResult{
			Reason:  ReasonEmailMismatch,
			Message: "The email address does not match our records for this order.",
		}, nil
	}

	return &VerificationResult{
		Verified: true,
		Message:  fmt.Sprintf("Identity verified for order %s.", order.Name),
		Order:    order,
	}, nil
}

// Outcome is the shared shape of mutation results.
type Outcome struct {
	// Success reports whether the mutation was applied.
	Success bool `json:"success"`
	// Verified reports whether ownership verification passed.
	Verified bool `json:"verified"`
	// NeedsConfirmation is set when the caller must echo the summary back to
	// the customer and retry with confirmation before anything is mutated.
	NeedsConfirmation bool `json:"needsConfirmation,omitempty"`
	// Reason is a machine-readable code explaining refusal or failure.
	Reason string `json:"reason,omitempty"`
	// Suggestion names the alternative flow to offer the customer, if any.
	Suggestion string `json:"suggestion,omitempty"`
	// Message is the customer-facing explanation or summary.
	Message string `json:"message"`
}

func refused(reason, suggestion, message string) Outcome {
	return Outcome{Verified: true, Reason: reason, Suggestion: suggestion, Message: message}
}

// CancelRequest is the input of the cancel flow.
type CancelRequest struct {
	OrderNumber string
	Email       string
	// Reason is free text from the customer; it is mapped onto the backend enum.
	Reason string
	// Confirmed must be true before the cancellation is executed.
	Confirmed bool
}

// CancelResult is the outcome of a cancel request.
type CancelResult struct {
	Outcome
}

// CancelOrder runs the cancel flow: verify ownership, check that the order is
// still cancellable, require explicit confirmation, then cancel with refund
// and restock. Backend rejections are reported verbatim and never retried.
func (s *OrderService) CancelOrder(ctx context.Context, req CancelRequest) (*CancelResult, error) {
	verification, err := s.VerifyOwnership(ctx, req.OrderNumber, req.Email)
	if err != nil {
		return nil, err
	}
	if !verification.Verified {
		return &CancelResult{Outcome{Reason: verification.Reason, Message: verification.Message}}, nil
	}
	order := verification.Order

	if order.IsCancelled() {
		return &CancelResult{refused(ReasonAlreadyCancelled, "",
			fmt.Sprintf("Order %s has already been cancelled.", order.Name))}, nil
	}
	if order.IsShipped() {
		return &CancelResult{refused(ReasonAlreadyShipped, "request_return",
			fmt.Sprintf("Order %s has already shipped and can no longer be cancelled. You can request a return once it arrives.", order.Name))}, nil
	}

	if !req.Confirmed {
		return &CancelResult{Outcome{
			Verified:          true,
			NeedsConfirmation: true,
			Message: fmt.Sprintf(
				"Please confirm cancellation of order %s (%s %s, %s). A full refund will be issued to the original payment method.",
				order.Name, order.Total.Amount, order.Total.CurrencyCode, summarizeItems(order.LineItems)),
		}}, nil
	}

	reason := domain.CancelReasonFromText(req.Reason)
	if err := s.mutator.CancelOrder(ctx, order.ID, reason); err != nil {
		return &CancelResult{refused(ReasonBackendRejected, "", err.Error())}, nil
	}

	return &CancelResult{Outcome{
		Success:  true,
		Verified: true,
		Message: fmt.Sprintf(
			"Order %s has been cancelled. A refund of %s %s will be issued to your original payment method, and a confirmation email is on its way.",
			order.Name, order.Total.Amount, order.Total.CurrencyCode),
	}}, nil
}

// UpdateAddressRequest is the input of the address-change flow.
type UpdateAddressRequest struct {
	OrderNumber string
	Email       string
	Address     domain.Address
	// Confirmed must be true before the address is changed.
	Confirmed bool
}

// AddressResult is the outcome of an address-change request.
type AddressResult struct {
	Outcome
	// NewAddress is the formatted address echoed for confirmation or as applied.
	NewAddress string `json:"newAddress,omitempty"`
}

// UpdateShippingAddress runs the address-change flow. The address freezes once
// fulfillment begins: FULFILLED orders are redirected to the carrier, orders
// with fulfillment in progress to support.
func (s *OrderService) UpdateShippingAddress(ctx context.Context, req UpdateAddressRequest) (*AddressResult, error) {
	verification, err := s.VerifyOwnership(ctx, req.OrderNumber, req.Email)
	if err != nil {
		return nil, err
	}
	if !verification.Verified {
		return &AddressResult{Outcome: Outcome{Reason: verification.Reason, Message: verification.Message}}, nil
	}
	order := verification.Order

	if order.IsCancelled() {
		return &AddressResult{Outcome: refused(ReasonAlreadyCancelled, "",
			fmt.Sprintf("Order %s is cancelled; there is nothing to re-address.", order.Name))}, nil
	}
	if order.IsShipped() {
		return &AddressResult{Outcome: refused(ReasonAlreadyShipped, "carrier_redirect",
			fmt.Sprintf("Order %s has already shipped. The carrier may be able to redirect the package via their tracking page.", order.Name))}, nil
	}
	if order.AddressLocked() {
		return &AddressResult{Outcome: refused(ReasonFulfillmentStarted, "contact_support",
			fmt.Sprintf("Order %s is being prepared for shipment and the address can no longer be changed here. Please contact %s right away.", order.Name, s.support.Email))}, nil
	}

	if !req.Confirmed {
		return &AddressResult{
			Outcome: Outcome{
				Verified:          true,
				NeedsConfirmation: true,
				Message:           fmt.Sprintf("Please confirm the new shipping address for order %s:", order.Name),
			},
			NewAddress: req.Address.Format(),
		}, nil
	}

	updated, err := s.mutator.UpdateShippingAddress(ctx, order.ID, req.Address)
	if err != nil {
		return &AddressResult{Outcome: refused(ReasonBackendRejected, "", err.Error())}, nil
	}

	return &AddressResult{
		Outcome: Outcome{
			Success:  true,
			Verified: true,
			Message:  fmt.Sprintf("The shipping address for order %s has been updated.", order.Name),
		},
		NewAddress: updated.Format(),
	}, nil
}

// ReturnRequest is the input of the return/exchange flow.
type ReturnRequest struct {
	OrderNumber string
	Email       string
	Items       []domain.ReturnItem
	// Confirmed must be true before the return request is recorded.
	Confirmed bool
}

// ReturnResult is the outcome of a return request.
type ReturnResult struct {
	Outcome
	// RequestID is the locally minted return-request identifier.
	RequestID string `json:"requestId,omitempty"`
	// DaysRemaining is how many days of the return window are left.
	DaysRemaining int `json:"daysRemaining,omitempty"`
	// NextSteps tells the customer what happens next.
	NextSteps []string `json:"nextSteps,omitempty"`
	// Policy is the store's return policy, included with accepted requests.
	Policy *domain.ReturnPolicy `json:"policy,omitempty"`
	// SupportEmail is where the customer can follow up.
	SupportEmail string `json:"supportEmail,omitempty"`
}

// RequestReturn runs the return flow. Only delivered (FULFILLED) orders within
// the return window are eligible; the request itself is recorded locally and
// handed to the support team rather than mutating the commerce backend.
func (s *OrderService) RequestReturn(ctx context.Context, req ReturnRequest) (*ReturnResult, error) {
	verification, err := s.VerifyOwnership(ctx, req.OrderNumber, req.Email)
	if err != nil {
		return nil, err
	}
	if !verification.Verified {
		return &ReturnResult{Outcome: Outcome{Reason: verification.Reason, Message: verification.Message}}, nil
	}
	order := verification.Order

	if order.IsCancelled() {
		return &ReturnResult{Outcome: refused(ReasonAlreadyCancelled, "",
			fmt.Sprintf("Order %s was cancelled; there is nothing to return.", order.Name))}, nil
	}
	if !order.IsShipped() {
		return &ReturnResult{Outcome: refused(ReasonNotDelivered, "",
			fmt.Sprintf("Order %s has not been delivered yet. Returns can be requested once the order arrives.", order.Name))}, nil
	}

	daysSince := order.DaysSince(s.now())
	if daysSince > domain.ReturnWindowDays {
		return &ReturnResult{Outcome: refused(ReasonReturnWindowExpired, "warranty_claim",
			fmt.Sprintf("Order %s is outside the %d-day return window (%d days since purchase). For defects, a warranty claim may still be possible via %s.",
				order.Name, domain.ReturnWindowDays, daysSince, s.support.Email))}, nil
	}
	daysRemaining := domain.ReturnWindowDays - daysSince

	if !req.Confirmed {
		return &ReturnResult{
			Outcome: Outcome{
				Verified:          true,
				NeedsConfirmation: true,
				Message: fmt.Sprintf("Please confirm this return request for order %s:\n%s",
					order.Name, summarizeReturnItems(req.Items)),
			},
			DaysRemaining: daysRemaining,
		}, nil
	}

	requestID := newReturnRequestID()
	logger.Get().Info("Return request recorded",
		zap.String("order", order.Name),
		zap.String("request_id", requestID),
		zap.Int("items", len(req.Items)),
	)

	return &ReturnResult{
		Outcome: Outcome{
			Success:  true,
			Verified: true,
			Message:  fmt.Sprintf("Return request %s for order %s has been submitted.", requestID, order.Name),
		},
		RequestID:     requestID,
		DaysRemaining: daysRemaining,
		NextSteps:     returnNextSteps(req.Items),
		Policy:        &domain.StandardReturnPolicy,
		SupportEmail:  s.support.Email,
	}, nil
}

// LookupOrder returns the basic, unverified view of an order. Detail beyond
// this view requires VerifyOwnership.
func (s *OrderService) LookupOrder(ctx context.Context, orderNumber string) (*domain.Order, error) {
	order, err := s.provider.GetOrderByNumber(ctx, domain.NormalizeOrderNumber(orderNumber))
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// GetOrderHistory returns a customer's most recent orders. The limit defaults
// to 5 and is capped at 10.
func (s *OrderService) GetOrderHistory(ctx context.Context, email string, limit int) ([]domain.Order, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	return s.provider.GetOrdersByEmail(ctx, email, limit)
}

// GetTracking returns the shipment view of an order.
func (s *OrderService) GetTracking(ctx context.Context, orderNumber string) (*domain.OrderTracking, error) {
	tracking, err := s.provider.GetOrderTracking(ctx, domain.NormalizeOrderNumber(orderNumber))
	if err != nil {
		return nil, err
	}
	if tracking == nil {
		return nil, ErrOrderNotFound
	}
	return tracking, nil
}

// newReturnRequestID mints a short customer-facing return-request identifier.
func newReturnRequestID() string {
	id := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return "RET-" + id[:8]
}

// summarizeItems renders line items as "2x Powder Board, 1x Wax Kit".
func summarizeItems(items []domain.LineItem) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		parts = append(parts, fmt.Sprintf("%dx %s", item.Quantity, item.Title))
	}
	return strings.Join(parts, ", ")
}

// summarizeReturnItems renders one line per requested item.
func summarizeReturnItems(items []domain.ReturnItem) string {
	lines := make([]string, 0, len(items))
	for _, item := range items {
		line := fmt.Sprintf("- %s: %s (%s)", item.ProductName, domain.FormatReturnReason(item.Reason), item.Action)
		if item.ExchangeDetails != "" {
			line += " -> " + item.ExchangeDetails
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// returnNextSteps builds the next-steps list based on the requested actions.
func returnNextSteps(items []domain.ReturnItem) []string {
	steps := []string{
		"You will receive a prepaid return shipping label by email within 1 business day.",
		"Pack the items unused with their original tags.",
	}

	var hasRefund, hasExchange bool
	for _, item := range items {
		switch item.Action {
		case domain.ReturnActionRefund:
			hasRefund = true
		case domain.ReturnActionExchange:
			hasExchange = true
		}
	}

	if hasRefund {
		steps = append(steps, "Refunds are issued to the original payment method within 5-7 business days of receiving the return.")
	}
	if hasExchange {
		steps = append(steps, "Exchange items ship as soon as the return is scanned by the carrier.")
	}
	return steps
}
