package entity

import (
	"time"

	"github.com/google/uuid"

	"nutri-coach-be/pkg/billing"
)

type UserRole string

const (
	UserRoleClient UserRole = "client"
	UserRoleAdmin  UserRole = "admin"
)

type User struct {
	Id           uuid.UUID
	Email        string
	PasswordHash string
	FullName     string
	Phone        string
	Role         UserRole

	// Subscription / program state (see pkg/billing).
	ServicePlan            billing.ServicePlan
	SubscriptionStatus     billing.SubscriptionStatus
	CurrentBillingCycle    int
	MaxBillingCycles       int
	MonthlyAmount          float64
	NextBillingDate        *time.Time
	ProgramStartDate       *time.Time
	ProgramEndDate         *time.Time
	PlannedDowngrade       bool
	DowngradeEffectiveDate *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ProgramState projects the billing fields into the tracker's shape.
func (u *User) ProgramState() billing.ProgramState {
	return billing.ProgramState{
		ServicePlan:            u.ServicePlan,
		SubscriptionStatus:     u.SubscriptionStatus,
		CurrentBillingCycle:    u.CurrentBillingCycle,
		MaxBillingCycles:       u.MaxBillingCycles,
		MonthlyAmount:          u.MonthlyAmount,
		NextBillingDate:        u.NextBillingDate,
		ProgramStartDate:       u.ProgramStartDate,
		ProgramEndDate:         u.ProgramEndDate,
		PlannedDowngrade:       u.PlannedDowngrade,
		DowngradeEffectiveDate: u.DowngradeEffectiveDate,
	}
}

// ApplyProgramState writes the tracker's result back onto the user.
func (u *User) ApplyProgramState(ps billing.ProgramState) {
	u.ServicePlan = ps.ServicePlan
	u.SubscriptionStatus = ps.SubscriptionStatus
	u.CurrentBillingCycle = ps.CurrentBillingCycle
	u.MaxBillingCycles = ps.MaxBillingCycles
	u.MonthlyAmount = ps.MonthlyAmount
	u.NextBillingDate = ps.NextBillingDate
	u.ProgramStartDate = ps.ProgramStartDate
	u.ProgramEndDate = ps.ProgramEndDate
	u.PlannedDowngrade = ps.PlannedDowngrade
	u.DowngradeEffectiveDate = ps.DowngradeEffectiveDate
}
