package dto

import (
	"time"

	"github.com/google/uuid"
)

type EnrollProgramRequest struct {
	MonthlyAmount float64 `json:"monthly_amount" validate:"required,gt=0"`
}

type ScheduleDowngradeRequest struct {
	EffectiveDate time.Time `json:"effective_date" validate:"required"`
}

type ProgramStatusResponse struct {
	UserId              uuid.UUID  `json:"user_id"`
	ServicePlan         string     `json:"service_plan"`
	SubscriptionStatus  string     `json:"subscription_status"`
	CurrentBillingCycle int        `json:"current_billing_cycle"`
	MaxBillingCycles    int        `json:"max_billing_cycles"`
	MonthlyAmount       float64    `json:"monthly_amount"`
	NextBillingDate     *time.Time `json:"next_billing_date,omitempty"`
	ProgramStartDate    *time.Time `json:"program_start_date,omitempty"`
	ProgramEndDate      *time.Time `json:"program_end_date,omitempty"`
	PlannedDowngrade    bool       `json:"planned_downgrade"`
}

// SweepResultResponse summarizes one scheduled billing pass.
type SweepResultResponse struct {
	UsersVisited    int `json:"users_visited"`
	InvoicesCreated int `json:"invoices_created"`
	Completed       int `json:"completed"`
	Downgraded      int `json:"downgraded"`
	Errors          int `json:"errors"`
}
