package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// MailEntry is the outbox row the mail worker consumes. Status moves
// pending -> sent/failed exactly once; the claim is a conditional update.
type MailEntry struct {
	Id      uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	To      string         `gorm:"type:varchar(255);not null;column:recipient"`
	ToName  string         `gorm:"type:varchar(255);column:recipient_name"`
	Type    string         `gorm:"type:varchar(50);not null;index"`
	Payload datatypes.JSON `gorm:"type:jsonb"`
	Status  string         `gorm:"type:varchar(20);not null;default:'pending';index"`
	Error   *string        `gorm:"type:text"`
	SentAt  *time.Time

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (MailEntry) TableName() string {
	return "mail_queue"
}

type MailTemplate struct {
	Id       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Code     string    `gorm:"type:varchar(50);unique;not null"`
	Subject  string    `gorm:"type:varchar(255);not null"`
	BodyHtml string    `gorm:"type:text;not null"`
	IsActive bool      `gorm:"default:true"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (MailTemplate) TableName() string {
	return "mail_templates"
}
