package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"support-agent/internal/core/logger"
	"support-agent/internal/features/customers/domain"
	"support-agent/internal/features/customers/ports"

	"go.uber.org/zap"
)

var (
	// ErrCustomerNotFound is returned when no profile matches the given email.
	ErrCustomerNotFound = errors.New("customer not found")
	// ErrInvalidLeadSource is returned when the lead source is not recognized.
	ErrInvalidLeadSource = errors.New("invalid lead source")
)

// CustomerService owns customer lookups and lead capture.
type CustomerService struct {
	provider ports.CustomerProvider
	recorder ports.LeadRecorder
	now      func() time.Time
}

// NewCustomerService creates a new CustomerService.
func NewCustomerService(provider ports.CustomerProvider, recorder ports.LeadRecorder) *CustomerService {
	return &CustomerService{
		provider: provider,
		recorder: recorder,
		now:      time.Now,
	}
}

// Lookup fetches a customer profile by email.
func (s *CustomerService) Lookup(ctx context.Context, email string) (*domain.Customer, error) {
	customer, err := s.provider.GetCustomerByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, ErrCustomerNotFound
	}
	return customer, nil
}

// LeadResult is the outcome of a lead capture.
type LeadResult struct {
	// Success reports whether the lead was recorded.
	Success bool `json:"success"`
	// IsNewLead is true when a new profile was created rather than updated.
	IsNewLead bool `json:"isNewLead,omitempty"`
	// Message is the customer-facing confirmation, phrased per lead source.
	Message string `json:"message"`
}

// CaptureLead records contact information for follow-up. An existing profile
// is re-tagged; otherwise a new profile is created, with marketing consent
// recorded when granted. Recording failures are reported in the result, not
// as errors, so the conversation can continue.
func (s *CustomerService) CaptureLead(ctx context.Context, lead domain.Lead) (*LeadResult, error) {
	if !domain.ValidLeadSource(lead.Source) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidLeadSource, lead.Source)
	}

	now := s.now()
	tags := lead.Tags(now)
	note := lead.Note(now)

	existing, err := s.provider.GetCustomerByEmail(ctx, lead.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check for existing customer: %w", err)
	}

	isNew := existing == nil
	if isNew {
		_, err = s.recorder.CreateCustomer(ctx, lead, tags, note)
	} else {
		err = s.recorder.UpdateCustomer(ctx, existing.ID, lead, tags, note)
	}
	if err != nil {
		logger.Get().Error("Lead capture failed",
			zap.String("source", string(lead.Source)),
			zap.Error(err),
		)
		return &LeadResult{
			Success: false,
			Message: "Sorry, I couldn't save your information. Please try again.",
		}, nil
	}

	logger.Get().Info("Lead captured",
		zap.String("source", string(lead.Source)),
		zap.Bool("is_new", isNew),
	)

	return &LeadResult{
		Success:   true,
		IsNewLead: isNew,
		Message:   leadMessage(lead),
	}, nil
}

// leadMessage phrases the confirmation per lead source.
func leadMessage(lead domain.Lead) string {
	switch lead.Source {
	case domain.LeadSourceRestockNotification:
		return fmt.Sprintf("I've added you to our restock notification list for %s. We'll email you at %s as soon as it's back in stock!", lead.Interest, lead.Email)
	case domain.LeadSourceProductInquiry:
		return fmt.Sprintf("I've saved your information. Our team will follow up with you at %s regarding %s.", lead.Email, lead.Interest)
	case domain.LeadSourceNewsletter:
		return fmt.Sprintf("You're all set! You'll receive our updates at %s.", lead.Email)
	case domain.LeadSourceQuoteRequest:
		return fmt.Sprintf("Our team will prepare a quote for %s and send it to %s shortly.", lead.Interest, lead.Email)
	default:
		return fmt.Sprintf("I've saved your contact information. We'll be in touch at %s.", lead.Email)
	}
}
