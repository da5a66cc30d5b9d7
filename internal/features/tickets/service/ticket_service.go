package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"support-agent/internal/core/config"
	"support-agent/internal/core/idempotency"
	"support-agent/internal/core/logger"
	"support-agent/internal/features/tickets/domain"

	"go.uber.org/zap"
)

var (
	// ErrInvalidCategory is returned when the ticket category is not recognized.
	ErrInvalidCategory = errors.New("invalid ticket category")
	// ErrInvalidPriority is returned when the ticket priority is not recognized.
	ErrInvalidPriority = errors.New("invalid ticket priority")
)

// dedupWindow is how long a repeated request replays the original ticket ID
// instead of minting a new one.
const dedupWindow = 2 * time.Minute

// entryTTL is how long dedup entries are retained before eviction.
const entryTTL = 5 * time.Minute

// subjectKeyLength caps the subject's contribution to the idempotency key.
const subjectKeyLength = 30

// TicketService creates support tickets with advisory duplicate suppression.
// The dedup store is best-effort: if it is unavailable, ticket creation still
// proceeds and at worst a duplicate ticket reaches the support queue.
type TicketService struct {
	store   idempotency.Store
	support config.SupportConfig
}

// NewTicketService creates a new TicketService.
func NewTicketService(store idempotency.Store, support config.SupportConfig) *TicketService {
	return &TicketService{
		store:   store,
		support: support,
	}
}

// TicketResult is the outcome of a ticket creation.
type TicketResult struct {
	// Success reports whether a ticket exists for the request.
	Success bool `json:"success"`
	// TicketID is the identifier to quote in follow-ups.
	TicketID string `json:"ticketId"`
	// Duplicate is true when an identical recent request already created the ticket.
	Duplicate bool `json:"duplicate"`
	// Priority echoes the ticket's priority.
	Priority domain.Priority `json:"priority"`
	// ResponseTime is the committed first-response window.
	ResponseTime string `json:"responseTime"`
	// CustomerEmail echoes where follow-ups will be sent.
	CustomerEmail string `json:"customerEmail"`
	// SupportEmail, SupportPhone and BusinessHours form the contact block.
	SupportEmail  string `json:"supportEmail"`
	SupportPhone  string `json:"supportPhone"`
	BusinessHours string `json:"businessHours"`
	// Message is set when the request replayed an existing ticket.
	Message string `json:"message,omitempty"`
}

// CreateTicket creates a support ticket. Requests repeating the same email,
// order and subject within the dedup window replay the original ticket ID with
// Duplicate set instead of creating a second ticket.
func (s *TicketService) CreateTicket(ctx context.Context, ticket domain.Ticket) (*TicketResult, error) {
	if !domain.ValidCategory(ticket.Category) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCategory, ticket.Category)
	}
	if !domain.ValidPriority(ticket.Priority) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPriority, ticket.Priority)
	}

	key := idempotencyKey(ticket)

	if existing, err := s.store.Get(ctx, key); err != nil {
		logger.Get().Warn("Dedup store lookup failed", zap.Error(err))
	} else if existing != nil && time.Since(existing.CreatedAt) < dedupWindow {
		logger.Get().Info("Duplicate ticket request",
			zap.String("ticket_id", existing.ID),
			zap.String("key", key),
		)
		result := s.result(ticket, existing.ID, true)
		result.Message = "Ticket was already created for this issue."
		return result, nil
	}

	ticketID := domain.GenerateTicketID()

	entry := idempotency.Entry{ID: ticketID, CreatedAt: time.Now()}
	if err := s.store.Put(ctx, key, entry, entryTTL); err != nil {
		logger.Get().Warn("Dedup store write failed", zap.Error(err))
	}

	logger.Get().Info("Support ticket created",
		zap.String("ticket_id", ticketID),
		zap.String("category", string(ticket.Category)),
		zap.String("priority", string(ticket.Priority)),
	)

	return s.result(ticket, ticketID, false), nil
}

func (s *TicketService) result(ticket domain.Ticket, ticketID string, duplicate bool) *TicketResult {
	return &TicketResult{
		Success:       true,
		TicketID:      ticketID,
		Duplicate:     duplicate,
		Priority:      ticket.Priority,
		ResponseTime:  domain.ResponseTime(ticket.Priority),
		CustomerEmail: ticket.CustomerEmail,
		SupportEmail:  s.support.Email,
		SupportPhone:  s.support.Phone,
		BusinessHours: s.support.BusinessHours,
	}
}

// idempotencyKey derives the dedup key from email, order and truncated subject.
func idempotencyKey(ticket domain.Ticket) string {
	order := ticket.OrderNumber
	if order == "" {
		order = "no-order"
	}
	subject := ticket.Subject
	if len(subject) > subjectKeyLength {
		subject = subject[:subjectKeyLength]
	}
	return fmt.Sprintf("%s:%s:%s", ticket.CustomerEmail, order, subject)
}
