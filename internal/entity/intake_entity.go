package entity

import (
	"time"

	"github.com/google/uuid"
)

// ConsentRecord is a signed informed-consent form.
type ConsentRecord struct {
	Id            uuid.UUID
	UserId        uuid.UUID
	AppointmentId *uuid.UUID
	FullName      string
	Accepted      bool
	SignedAt      time.Time
	CreatedAt     time.Time
}

// PreEvaluation is the health intake questionnaire completed before the
// initial consultation.
type PreEvaluation struct {
	Id            uuid.UUID
	UserId        uuid.UUID
	AppointmentId *uuid.UUID
	Answers       map[string]interface{}
	CompletedAt   time.Time
	CreatedAt     time.Time
}
