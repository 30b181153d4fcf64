package entity

import (
	"time"

	"github.com/google/uuid"

	"nutri-coach-be/pkg/scheduling"
)

// AppointmentDuration is the fixed consultation length used when creating
// the video meeting.
const AppointmentDuration = 50 * time.Minute

// RescheduleEntry records one move of an appointment. The history is
// append-only.
type RescheduleEntry struct {
	FromDate     string    `json:"from_date"`
	FromTimeslot string    `json:"from_timeslot"`
	ToDate       string    `json:"to_date"`
	ToTimeslot   string    `json:"to_timeslot"`
	Actor        string    `json:"actor"`
	Late         bool      `json:"late"`
	MovedAt      time.Time `json:"moved_at"`
}

type Appointment struct {
	Id          uuid.UUID
	UserId      uuid.UUID
	ClientName  string
	ClientEmail string
	Type        scheduling.AppointmentType

	// Date is "YYYY-MM-DD", Timeslot is "HH:MM" local time.
	Date     string
	Timeslot string
	Status   scheduling.Status

	RescheduleHistory []RescheduleEntry
	LateReschedule    bool
	PotentialLateFee  float64
	NoShowPenalty     float64

	TeamsJoinUrl   *string
	TeamsMeetingId *string

	InvoiceGenerated       bool
	ConsentFormSubmitted   bool
	PreEvaluationCompleted bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// StartAt resolves the date and timeslot into a concrete instant in the
// given location. An unparsable slot yields the zero time.
func (a *Appointment) StartAt(loc *time.Location) time.Time {
	t, err := time.ParseInLocation("2006-01-02 15:04", a.Date+" "+a.Timeslot, loc)
	if err != nil {
		return time.Time{}
	}
	return t
}
