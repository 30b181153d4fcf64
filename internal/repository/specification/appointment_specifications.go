package specification

import (
	"gorm.io/gorm"

	"nutri-coach-be/pkg/scheduling"
)

// BySlot filters on the bookable (date, timeslot) pair.
type BySlot struct {
	Date     string
	Timeslot string
}

func (s BySlot) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("date = ? AND timeslot = ?", s.Date, s.Timeslot)
}

// NonTerminal keeps only appointments that can still change status. Used for
// the slot-conflict check: terminal appointments free their slot.
type NonTerminal struct{}

func (s NonTerminal) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status NOT IN ?", terminalStatusStrings())
}

// StatusIs filters by a single status.
type StatusIs struct {
	Status scheduling.Status
}

func (s StatusIs) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", string(s.Status))
}

// OnDate filters by calendar day.
type OnDate struct {
	Date string
}

func (s OnDate) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("date = ?", s.Date)
}

func terminalStatusStrings() []string {
	statuses := []scheduling.Status{
		scheduling.StatusDone,
		scheduling.StatusCancelled,
		scheduling.StatusCancelledClient,
		scheduling.StatusCancelledReschedule,
		scheduling.StatusNoShow,
	}
	out := make([]string, len(statuses))
	for i, st := range statuses {
		out[i] = string(st)
	}
	return out
}
