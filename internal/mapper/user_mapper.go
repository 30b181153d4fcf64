package mapper

import (
	"nutri-coach-be/internal/entity"
	"nutri-coach-be/internal/model"
	"nutri-coach-be/pkg/billing"
)

type UserMapper struct{}

func NewUserMapper() *UserMapper {
	return &UserMapper{}
}

func (m *UserMapper) ToEntity(u *model.User) *entity.User {
	if u == nil {
		return nil
	}
	return &entity.User{
		Id:                     u.Id,
		Email:                  u.Email,
		PasswordHash:           u.PasswordHash,
		FullName:               u.FullName,
		Phone:                  u.Phone,
		Role:                   entity.UserRole(u.Role),
		ServicePlan:            billing.ServicePlan(u.ServicePlan),
		SubscriptionStatus:     billing.SubscriptionStatus(u.SubscriptionStatus),
		CurrentBillingCycle:    u.CurrentBillingCycle,
		MaxBillingCycles:       u.MaxBillingCycles,
		MonthlyAmount:          u.MonthlyAmount,
		NextBillingDate:        u.NextBillingDate,
		ProgramStartDate:       u.ProgramStartDate,
		ProgramEndDate:         u.ProgramEndDate,
		PlannedDowngrade:       u.PlannedDowngrade,
		DowngradeEffectiveDate: u.DowngradeEffectiveDate,
		CreatedAt:              u.CreatedAt,
		UpdatedAt:              u.UpdatedAt,
	}
}

func (m *UserMapper) ToModel(u *entity.User) *model.User {
	if u == nil {
		return nil
	}
	return &model.User{
		Id:                     u.Id,
		Email:                  u.Email,
		PasswordHash:           u.PasswordHash,
		FullName:               u.FullName,
		Phone:                  u.Phone,
		Role:                   string(u.Role),
		ServicePlan:            string(u.ServicePlan),
		SubscriptionStatus:     string(u.SubscriptionStatus),
		CurrentBillingCycle:    u.CurrentBillingCycle,
		MaxBillingCycles:       u.MaxBillingCycles,
		MonthlyAmount:          u.MonthlyAmount,
		NextBillingDate:        u.NextBillingDate,
		ProgramStartDate:       u.ProgramStartDate,
		ProgramEndDate:         u.ProgramEndDate,
		PlannedDowngrade:       u.PlannedDowngrade,
		DowngradeEffectiveDate: u.DowngradeEffectiveDate,
		CreatedAt:              u.CreatedAt,
		UpdatedAt:              u.UpdatedAt,
	}
}
