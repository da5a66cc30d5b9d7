package service

import (
	"context"
	"strings"
	"testing"

	"support-agent/internal/core/config"
	"support-agent/internal/core/idempotency"
	"support-agent/internal/features/tickets/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSupport = config.SupportConfig{
	Email:         "support@techgearsnowboards.com",
	Phone:         "1-800-SHRED-IT",
	BusinessHours: "Monday-Friday 9AM-6PM EST, Saturday 10AM-4PM EST",
}

func testTicket() domain.Ticket {
	return domain.Ticket{
		CustomerEmail: "john@example.com",
		OrderNumber:   "#1001",
		Category:      domain.CategoryShipping,
		Priority:      domain.PriorityHigh,
		Subject:       "Order not received",
		Description:   "Ordered two weeks ago, tracking stuck",
	}
}

func newTestService(t *testing.T) *TicketService {
	t.Helper()
	store := idempotency.NewMemoryStore()
	t.Cleanup(func() { store.Close() })
	return NewTicketService(store, testSupport)
}

func TestCreateTicket(t *testing.T) {
	svc := newTestService(t)

	result, err := svc.CreateTicket(context.Background(), testTicket())
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.False(t, result.Duplicate)
	assert.Regexp(t, `^TKT-[A-Z2-9]{8}$`, result.TicketID)
	assert.Equal(t, domain.PriorityHigh, result.Priority)
	assert.Equal(t, "within 4 hours", result.ResponseTime)
	assert.Equal(t, "support@techgearsnowboards.com", result.SupportEmail)
	assert.Equal(t, "1-800-SHRED-IT", result.SupportPhone)
	assert.Equal(t, "Monday-Friday 9AM-6PM EST, Saturday 10AM-4PM EST", result.BusinessHours)
}

func TestCreateTicket_DuplicateWithinWindow(t *testing.T) {
	svc := newTestService(t)

	first, err := svc.CreateTicket(context.Background(), testTicket())
	require.NoError(t, err)

	second, err := svc.CreateTicket(context.Background(), testTicket())
	require.NoError(t, err)

	assert.True(t, second.Duplicate)
	assert.Equal(t, first.TicketID, second.TicketID, "duplicate must replay the original ticket id")
	assert.Contains(t, second.Message, "already created")
}

func TestCreateTicket_DifferentSubjectIsNotDuplicate(t *testing.T) {
	svc := newTestService(t)

	first, err := svc.CreateTicket(context.Background(), testTicket())
	require.NoError(t, err)

	other := testTicket()
	other.Subject = "Wrong item in the box"
	second, err := svc.CreateTicket(context.Background(), other)
	require.NoError(t, err)

	assert.False(t, second.Duplicate)
	assert.NotEqual(t, first.TicketID, second.TicketID)
}

func TestCreateTicket_InvalidInput(t *testing.T) {
	svc := newTestService(t)

	bad := testTicket()
	bad.Category = "billing"
	_, err := svc.CreateTicket(context.Background(), bad)
	assert.ErrorIs(t, err, ErrInvalidCategory)

	bad = testTicket()
	bad.Priority = "critical"
	_, err = svc.CreateTicket(context.Background(), bad)
	assert.ErrorIs(t, err, ErrInvalidPriority)
}

func TestIdempotencyKey(t *testing.T) {
	ticket := testTicket()
	assert.Equal(t, "john@example.com:#1001:Order not received", idempotencyKey(ticket))

	ticket.OrderNumber = ""
	assert.Equal(t, "john@example.com:no-order:Order not received", idempotencyKey(ticket))

	ticket.Subject = strings.Repeat("long subject ", 10)
	key := idempotencyKey(ticket)
	parts := strings.SplitN(key, ":", 3)
	require.Len(t, parts, 3)
	assert.Len(t, parts[2], 30, "subject contribution must be truncated")
}
