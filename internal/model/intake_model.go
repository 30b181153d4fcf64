package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ConsentRecord struct {
	Id            uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId        uuid.UUID  `gorm:"type:uuid;not null;index"`
	AppointmentId *uuid.UUID `gorm:"type:uuid;index"`
	FullName      string     `gorm:"type:varchar(255);not null"`
	Accepted      bool       `gorm:"not null"`
	SignedAt      time.Time  `gorm:"not null"`
	CreatedAt     time.Time  `gorm:"autoCreateTime"`
}

func (ConsentRecord) TableName() string {
	return "consent_records"
}

type PreEvaluation struct {
	Id            uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId        uuid.UUID      `gorm:"type:uuid;not null;index"`
	AppointmentId *uuid.UUID     `gorm:"type:uuid;index"`
	Answers       datatypes.JSON `gorm:"type:jsonb;not null"`
	CompletedAt   time.Time      `gorm:"not null"`
	CreatedAt     time.Time      `gorm:"autoCreateTime"`
}

func (PreEvaluation) TableName() string {
	return "pre_evaluations"
}
