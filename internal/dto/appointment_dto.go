package dto

import (
	"time"

	"github.com/google/uuid"
)

type BookAppointmentRequest struct {
	Type     string `json:"type" validate:"required,oneof=Initial Follow-up"`
	Date     string `json:"date" validate:"required,datetime=2006-01-02"`
	Timeslot string `json:"timeslot" validate:"required,datetime=15:04"`
}

type RescheduleRequest struct {
	NewDate     string `json:"new_date" validate:"required,datetime=2006-01-02"`
	NewTimeslot string `json:"new_timeslot" validate:"required,datetime=15:04"`
}

// UpdateStatusRequest drives the admin status endpoint. The proposed slot is
// only read for reschedule-flavoured targets.
type UpdateStatusRequest struct {
	Status      string `json:"status" validate:"required"`
	NewDate     string `json:"new_date" validate:"omitempty,datetime=2006-01-02"`
	NewTimeslot string `json:"new_timeslot" validate:"omitempty,datetime=15:04"`
}

type RescheduleEntryResponse struct {
	FromDate     string    `json:"from_date"`
	FromTimeslot string    `json:"from_timeslot"`
	ToDate       string    `json:"to_date"`
	ToTimeslot   string    `json:"to_timeslot"`
	Actor        string    `json:"actor"`
	Late         bool      `json:"late"`
	MovedAt      time.Time `json:"moved_at"`
}

type AppointmentResponse struct {
	Id                uuid.UUID                 `json:"id"`
	Type              string                    `json:"type"`
	Date              string                    `json:"date"`
	Timeslot          string                    `json:"timeslot"`
	Status            string                    `json:"status"`
	LateReschedule    bool                      `json:"late_reschedule"`
	PotentialLateFee  float64                   `json:"potential_late_fee"`
	NoShowPenalty     float64                   `json:"no_show_penalty,omitempty"`
	TeamsJoinUrl      *string                   `json:"teams_join_url,omitempty"`
	RescheduleHistory []RescheduleEntryResponse `json:"reschedule_history,omitempty"`
	ConsentSubmitted  bool                      `json:"consent_form_submitted"`
	PreEvalCompleted  bool                      `json:"pre_evaluation_completed"`
	CreatedAt         time.Time                 `json:"created_at"`
}

type AvailabilityResponse struct {
	Date  string   `json:"date"`
	Slots []string `json:"slots"`
}
