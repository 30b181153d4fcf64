package dto

import (
	"time"

	"github.com/google/uuid"
)

type ConsentRequest struct {
	AppointmentId uuid.UUID `json:"appointment_id" validate:"required"`
	FullName      string    `json:"full_name" validate:"required,min=2"`
	Accepted      bool      `json:"accepted" validate:"required"`
}

type PreEvaluationRequest struct {
	AppointmentId uuid.UUID              `json:"appointment_id" validate:"required"`
	Answers       map[string]interface{} `json:"answers" validate:"required"`
}

type ConsentResponse struct {
	Id            uuid.UUID `json:"id"`
	AppointmentId uuid.UUID `json:"appointment_id"`
	FullName      string    `json:"full_name"`
	SignedAt      time.Time `json:"signed_at"`
}

type PreEvaluationResponse struct {
	Id            uuid.UUID `json:"id"`
	AppointmentId uuid.UUID `json:"appointment_id"`
	CompletedAt   time.Time `json:"completed_at"`
}
