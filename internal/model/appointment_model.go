package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Appointment struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId      uuid.UUID `gorm:"type:uuid;not null;index"`
	ClientName  string    `gorm:"type:varchar(255);not null"`
	ClientEmail string    `gorm:"type:varchar(255);not null"`
	Type        string    `gorm:"type:varchar(20);not null"`
	// Part of the slot-uniqueness index below.
	Date     string `gorm:"type:date;not null;index:idx_appointments_slot,priority:1"`
	Timeslot string `gorm:"type:varchar(5);not null;index:idx_appointments_slot,priority:2"`
	Status   string `gorm:"type:varchar(40);not null;default:'pending';index"`

	RescheduleHistory datatypes.JSON `gorm:"type:jsonb"`
	LateReschedule    bool           `gorm:"default:false"`
	PotentialLateFee  float64        `gorm:"type:numeric(10,2);default:0"`
	NoShowPenalty     float64        `gorm:"type:numeric(10,2);default:0"`

	TeamsJoinUrl   *string `gorm:"type:text"`
	TeamsMeetingId *string `gorm:"type:varchar(255)"`

	InvoiceGenerated       bool `gorm:"default:false"`
	ConsentFormSubmitted   bool `gorm:"default:false"`
	PreEvaluationCompleted bool `gorm:"default:false"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Appointment) TableName() string {
	return "appointments"
}
