package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateTicketID(t *testing.T) {
	seen := make(map[string]struct{})

	for i := 0; i < 100; i++ {
		id := GenerateTicketID()
		assert.Regexp(t, `^TKT-[ABCDEFGHJKLMNPQRSTUVWXYZ23456789]{8}$`, id)
		assert.NotContains(t, id[4:], "0")
		assert.NotContains(t, id[4:], "O")
		assert.NotContains(t, id[4:], "I")
		assert.NotContains(t, id[4:], "L")

		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate ticket id %s", id)
		}
		seen[id] = struct{}{}
	}
}

func TestResponseTime(t *testing.T) {
	tests := []struct {
		priority Priority
		want     string
	}{
		{PriorityUrgent, "within 2 hours"},
		{PriorityHigh, "within 4 hours"},
		{PriorityMedium, "within 24 hours"},
		{PriorityLow, "within 48 hours"},
		{"unknown", "within 48 hours"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ResponseTime(tt.priority), string(tt.priority))
	}
}

func TestValidCategory(t *testing.T) {
	assert.True(t, ValidCategory(CategoryOrderIssue))
	assert.True(t, ValidCategory(CategoryGeneralInquiry))
	assert.False(t, ValidCategory("billing"))
}

func TestValidPriority(t *testing.T) {
	assert.True(t, ValidPriority(PriorityUrgent))
	assert.False(t, ValidPriority(Priority(strings.ToUpper(string(PriorityLow)))))
}
