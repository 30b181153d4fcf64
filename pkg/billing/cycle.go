package billing

import "time"

type ServicePlan string

const (
	PlanPayAsYouGo      ServicePlan = "pay-as-you-go"
	PlanCompleteProgram ServicePlan = "complete-program"
)

type SubscriptionStatus string

const (
	SubscriptionNone       SubscriptionStatus = "none"
	SubscriptionActive     SubscriptionStatus = "active"
	SubscriptionCancelled  SubscriptionStatus = "cancelled"
	SubscriptionCompleted  SubscriptionStatus = "completed"
	SubscriptionDowngraded SubscriptionStatus = "downgraded"
)

// MaxBillingCycles is the fixed length of the Complete Program.
const MaxBillingCycles = 3

// ProgramState is the per-user subscription snapshot the tracker advances.
// It mirrors the billing fields on the user record.
type ProgramState struct {
	ServicePlan            ServicePlan
	SubscriptionStatus     SubscriptionStatus
	CurrentBillingCycle    int
	MaxBillingCycles       int
	MonthlyAmount          float64
	NextBillingDate        *time.Time
	ProgramStartDate       *time.Time
	ProgramEndDate         *time.Time
	PlannedDowngrade       bool
	DowngradeEffectiveDate *time.Time
}

// AdvanceOutcome reports what AdvanceIfDue decided.
type AdvanceOutcome struct {
	// InvoiceDue is true when a subscription invoice for NewCycle should be
	// created (subject to the caller's duplicate-invoice guard).
	InvoiceDue         bool
	NewCycle           int
	NewNextBillingDate time.Time
	// Completed is true when the program just transitioned to "completed".
	Completed bool
}

// AdvanceIfDue applies one billing-sweep pass to the state. It mutates ps in
// place and is safe to run repeatedly: a user whose cycle already advanced
// (or who completed all cycles) comes back as a noop. The duplicate-invoice
// check against storage is the caller's responsibility.
func AdvanceIfDue(ps *ProgramState, now time.Time) AdvanceOutcome {
	if ps.SubscriptionStatus != SubscriptionActive {
		return AdvanceOutcome{}
	}
	if ps.CurrentBillingCycle >= ps.MaxBillingCycles {
		ps.SubscriptionStatus = SubscriptionCompleted
		return AdvanceOutcome{Completed: true}
	}
	if ps.NextBillingDate == nil || ps.NextBillingDate.After(now) {
		return AdvanceOutcome{}
	}

	nextCycle := ps.CurrentBillingCycle + 1
	nextDate := AddCalendarMonth(*ps.NextBillingDate)

	ps.CurrentBillingCycle = nextCycle
	ps.NextBillingDate = &nextDate

	return AdvanceOutcome{
		InvoiceDue:         true,
		NewCycle:           nextCycle,
		NewNextBillingDate: nextDate,
	}
}

// DowngradeDue reports whether the scheduled downgrade should run. It takes
// precedence over the billing advance for the same user.
func DowngradeDue(ps ProgramState, now time.Time) bool {
	return ps.PlannedDowngrade &&
		ps.DowngradeEffectiveDate != nil &&
		!ps.DowngradeEffectiveDate.After(now)
}

// ApplyDowngrade converts the user to pay-as-you-go and clears every
// Complete-Program field.
func ApplyDowngrade(ps *ProgramState) {
	ps.ServicePlan = PlanPayAsYouGo
	ps.SubscriptionStatus = SubscriptionDowngraded
	ps.CurrentBillingCycle = 0
	ps.MaxBillingCycles = 0
	ps.MonthlyAmount = 0
	ps.NextBillingDate = nil
	ps.ProgramStartDate = nil
	ps.ProgramEndDate = nil
	ps.PlannedDowngrade = false
	ps.DowngradeEffectiveDate = nil
}

// AddCalendarMonth moves t one calendar month forward keeping the day of
// month, clamped to the last day of the shorter target month
// (Jan 31 -> Feb 28/29).
func AddCalendarMonth(t time.Time) time.Time {
	year, month, day := t.Date()
	firstOfNext := time.Date(year, month+1, 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	lastDay := daysIn(firstOfNext.Year(), firstOfNext.Month())
	if day > lastDay {
		day = lastDay
	}
	return time.Date(firstOfNext.Year(), firstOfNext.Month(), day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
