package specification

import (
	"time"

	"gorm.io/gorm"
)

// ActiveCompleteProgram selects users the monthly billing sweep visits.
type ActiveCompleteProgram struct{}

func (s ActiveCompleteProgram) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("service_plan = ? AND subscription_status = ?", "complete-program", "active")
}

// DowngradeDue selects users whose scheduled downgrade has elapsed.
type DowngradeDue struct {
	Now time.Time
}

func (s DowngradeDue) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("planned_downgrade = TRUE AND downgrade_effective_date IS NOT NULL AND downgrade_effective_date <= ?", s.Now)
}

// ByEmail filters by the unique email.
type ByEmail struct {
	Email string
}

func (s ByEmail) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("email = ?", s.Email)
}
