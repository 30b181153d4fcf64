package billing

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"nutri-coach-be/pkg/scheduling"
)

// InvoiceKind discriminates how an invoice was triggered.
type InvoiceKind string

const (
	KindSession      InvoiceKind = "session"
	KindSubscription InvoiceKind = "subscription"
	KindPenalty      InvoiceKind = "penalty"
	KindCustom       InvoiceKind = "custom"
)

// ItemType tags a single invoice line.
type ItemType string

const (
	ItemSession      ItemType = "session"
	ItemPenalty      ItemType = "penalty"
	ItemSubscription ItemType = "subscription"
)

// Currency is fixed; the portal bills in euros only.
const Currency = "EUR"

// DueInDays is the default payment term.
const DueInDays = 14

// LineItem is one invoice row. Invoice totals are always derived from the
// items, never set independently.
type LineItem struct {
	Description string
	Amount      float64
	Type        ItemType
}

// Total sums the line items; by construction every built invoice satisfies
// total == sum(items).
func Total(items []LineItem) float64 {
	var total float64
	for _, it := range items {
		total += it.Amount
	}
	return total
}

// SessionContext carries the flags a completed session accumulated.
type SessionContext struct {
	Type           scheduling.AppointmentType
	ServicePlan    ServicePlan
	LateReschedule bool
	NoShow         bool
}

// SessionItems builds the line items for a completed session. Complete-Program
// members pay 0 for the session itself (covered by the subscription); penalty
// lines are appended from the session flags either way.
func SessionItems(ctx SessionContext) []LineItem {
	amount := scheduling.BasePrice(ctx.Type)
	if ctx.ServicePlan == PlanCompleteProgram {
		amount = 0
	}

	items := []LineItem{{
		Description: fmt.Sprintf("%s consultation", ctx.Type),
		Amount:      amount,
		Type:        ItemSession,
	}}

	if ctx.LateReschedule {
		items = append(items, LineItem{
			Description: "Late reschedule fee",
			Amount:      scheduling.LateRescheduleFee,
			Type:        ItemPenalty,
		})
	}
	if ctx.NoShow {
		items = append(items, LineItem{
			Description: "No-show penalty",
			Amount:      scheduling.NoShowPenalty(ctx.Type),
			Type:        ItemPenalty,
		})
	}
	return items
}

// SubscriptionItems builds the single line of a monthly program invoice.
func SubscriptionItems(monthlyAmount float64, cycle, maxCycles int) []LineItem {
	return []LineItem{{
		Description: fmt.Sprintf("Complete Program - Month %d of %d", cycle, maxCycles),
		Amount:      monthlyAmount,
		Type:        ItemSubscription,
	}}
}

// PenaltyReason discriminates standalone penalty invoices.
type PenaltyReason string

const (
	PenaltyLateReschedule PenaltyReason = "late_reschedule"
	PenaltyNoShow         PenaltyReason = "no_show"
)

// PenaltyItems builds the single line of a standalone penalty invoice.
func PenaltyItems(reason PenaltyReason, apptType scheduling.AppointmentType) []LineItem {
	if reason == PenaltyNoShow {
		return []LineItem{{
			Description: fmt.Sprintf("No-show penalty (%s consultation)", apptType),
			Amount:      scheduling.NoShowPenalty(apptType),
			Type:        ItemPenalty,
		}}
	}
	return []LineItem{{
		Description: "Late reschedule fee",
		Amount:      scheduling.LateRescheduleFee,
		Type:        ItemPenalty,
	}}
}

// NewInvoiceNumber produces a human-readable invoice reference.
func NewInvoiceNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("INV-%s-%s", now.Format("20060102"), suffix)
}

// CreditNoteNumber derives the credit-note reference voiding an invoice.
func CreditNoteNumber(invoiceNumber string) string {
	return "CN-" + strings.TrimPrefix(invoiceNumber, "INV-")
}

// DueDate applies the default payment term.
func DueDate(now time.Time) time.Time {
	return now.AddDate(0, 0, DueInDays)
}
