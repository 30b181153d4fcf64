package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SubscriptionInvoiceForCycle is the duplicate-invoice guard predicate: the
// non-credited subscription invoice of a user's billing cycle, if any.
type SubscriptionInvoiceForCycle struct {
	UserID uuid.UUID
	Cycle  int
}

func (s SubscriptionInvoiceForCycle) Apply(db *gorm.DB) *gorm.DB {
	return db.Where(
		"user_id = ? AND billing_cycle = ? AND invoice_type = ? AND status <> ?",
		s.UserID, s.Cycle, "subscription", "credited",
	)
}

// NonCreditedForAppointment finds the live invoice of an appointment; an
// appointment has at most one.
type NonCreditedForAppointment struct {
	AppointmentID uuid.UUID
}

func (s NonCreditedForAppointment) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("appointment_id = ? AND status <> ?", s.AppointmentID, "credited")
}
