package billing

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"nutri-coach-be/pkg/scheduling"
)

func TestSessionItems(t *testing.T) {
	tests := []struct {
		name      string
		ctx       SessionContext
		wantLines int
		wantTotal float64
	}{
		{
			name:      "initial session pay-as-you-go",
			ctx:       SessionContext{Type: scheduling.TypeInitial, ServicePlan: PlanPayAsYouGo},
			wantLines: 1,
			wantTotal: 75,
		},
		{
			name:      "follow-up session pay-as-you-go",
			ctx:       SessionContext{Type: scheduling.TypeFollowUp, ServicePlan: PlanPayAsYouGo},
			wantLines: 1,
			wantTotal: 50,
		},
		{
			name:      "complete-program session is covered",
			ctx:       SessionContext{Type: scheduling.TypeFollowUp, ServicePlan: PlanCompleteProgram},
			wantLines: 1,
			wantTotal: 0,
		},
		{
			name:      "late reschedule adds the flat fee",
			ctx:       SessionContext{Type: scheduling.TypeFollowUp, ServicePlan: PlanPayAsYouGo, LateReschedule: true},
			wantLines: 2,
			wantTotal: 55,
		},
		{
			name:      "program member still pays the late fee",
			ctx:       SessionContext{Type: scheduling.TypeInitial, ServicePlan: PlanCompleteProgram, LateReschedule: true},
			wantLines: 2,
			wantTotal: 5,
		},
		{
			name:      "no-show adds half the base price",
			ctx:       SessionContext{Type: scheduling.TypeInitial, ServicePlan: PlanPayAsYouGo, NoShow: true},
			wantLines: 2,
			wantTotal: 113,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := SessionItems(tt.ctx)
			assert.Len(t, items, tt.wantLines)
			assert.Equal(t, tt.wantTotal, Total(items))
			assert.Equal(t, ItemSession, items[0].Type)
		})
	}
}

func TestSubscriptionItems(t *testing.T) {
	items := SubscriptionItems(150, 2, 3)

	assert.Len(t, items, 1)
	assert.Equal(t, "Complete Program - Month 2 of 3", items[0].Description)
	assert.Equal(t, 150.0, items[0].Amount)
	assert.Equal(t, ItemSubscription, items[0].Type)
}

func TestPenaltyItems(t *testing.T) {
	noShow := PenaltyItems(PenaltyNoShow, scheduling.TypeFollowUp)
	assert.Len(t, noShow, 1)
	assert.Equal(t, 25.0, noShow[0].Amount)
	assert.Contains(t, noShow[0].Description, "No-show")

	late := PenaltyItems(PenaltyLateReschedule, scheduling.TypeInitial)
	assert.Len(t, late, 1)
	assert.Equal(t, scheduling.LateRescheduleFee, late[0].Amount)
}

func TestInvoiceNumbers(t *testing.T) {
	now := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

	number := NewInvoiceNumber(now)
	assert.True(t, strings.HasPrefix(number, "INV-20260315-"), number)
	assert.Len(t, number, len("INV-20260315-")+8)

	// Two invoices generated the same day must not collide.
	assert.NotEqual(t, number, NewInvoiceNumber(now))

	cn := CreditNoteNumber(number)
	assert.Equal(t, "CN-"+strings.TrimPrefix(number, "INV-"), cn)
}

func TestDueDate(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC), DueDate(now))
}
