package entity

import (
	"time"

	"github.com/google/uuid"
)

type MailStatus string

const (
	MailStatusPending MailStatus = "pending"
	MailStatusSending MailStatus = "sending"
	MailStatusSent    MailStatus = "sent"
	MailStatusFailed  MailStatus = "failed"
)

// MailEntry is one queued email. Entries are consumed exactly once by the
// mail worker; sent/failed are terminal and there is no automatic retry.
type MailEntry struct {
	Id      uuid.UUID
	To      string
	ToName  string
	Type    string
	Payload map[string]interface{}
	Status  MailStatus
	Error   *string
	SentAt  *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// MailTemplate maps a mail type to its rendered subject/body. Placeholders
// use {key} substitution against the entry payload.
type MailTemplate struct {
	Id       uuid.UUID
	Code     string
	Subject  string
	BodyHtml string
	IsActive bool

	CreatedAt time.Time
	UpdatedAt time.Time
}
