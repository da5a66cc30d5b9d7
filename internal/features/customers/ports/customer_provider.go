package ports

import (
	"context"

	"support-agent/internal/features/customers/domain"
)

// CustomerProvider retrieves customer profiles from the commerce backend.
// This is a Secondary Port (Driven Port).
type CustomerProvider interface {
	// GetCustomerByEmail retrieves the profile matching an email address.
	// Returns nil without error when no profile matches.
	GetCustomerByEmail(ctx context.Context, email string) (*domain.Customer, error)
}

// LeadRecorder persists captured leads as customer profiles.
type LeadRecorder interface {
	// CreateCustomer creates a new profile for the lead with the given tags
	// and note. Marketing consent is recorded when the lead granted it.
	CreateCustomer(ctx context.Context, lead domain.Lead, tags []string, note string) (*domain.Customer, error)

	// UpdateCustomer re-tags an existing profile with the lead's details.
	UpdateCustomer(ctx context.Context, customerID string, lead domain.Lead, tags []string, note string) error
}
