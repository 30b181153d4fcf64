package model

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	Id           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Email        string    `gorm:"type:varchar(255);unique;not null"`
	PasswordHash string    `gorm:"type:varchar(255);not null"`
	FullName     string    `gorm:"type:varchar(255);not null"`
	Phone        string    `gorm:"type:varchar(50)"`
	Role         string    `gorm:"type:varchar(20);not null;default:'client'"`

	ServicePlan            string     `gorm:"type:varchar(30);not null;default:'pay-as-you-go'"`
	SubscriptionStatus     string     `gorm:"type:varchar(20);not null;default:'none'"`
	CurrentBillingCycle    int        `gorm:"default:0"`
	MaxBillingCycles       int        `gorm:"default:0"`
	MonthlyAmount          float64    `gorm:"type:numeric(10,2);default:0"`
	NextBillingDate        *time.Time `gorm:"index"`
	ProgramStartDate       *time.Time
	ProgramEndDate         *time.Time
	PlannedDowngrade       bool `gorm:"default:false;index"`
	DowngradeEffectiveDate *time.Time

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}
