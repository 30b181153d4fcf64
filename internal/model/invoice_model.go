package model

import (
	"time"

	"github.com/google/uuid"
)

type Invoice struct {
	Id            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	InvoiceNumber string    `gorm:"type:varchar(40);unique;not null"`
	UserId        uuid.UUID `gorm:"type:uuid;not null;index;index:idx_invoices_user_cycle,priority:1"`
	ClientName    string    `gorm:"type:varchar(255);not null"`
	ClientEmail   string    `gorm:"type:varchar(255);not null"`

	TotalAmount float64   `gorm:"type:numeric(10,2);not null"`
	Currency    string    `gorm:"type:varchar(3);not null;default:'EUR'"`
	DueDate     time.Time `gorm:"not null"`
	Status      string    `gorm:"type:varchar(20);not null;default:'unpaid';index"`
	// Paired with billing_cycle in the uniqueness guard the migration adds:
	// at most one non-credited subscription invoice per (user, cycle).
	InvoiceType string `gorm:"type:varchar(20);not null;index:idx_invoices_user_cycle,priority:3"`

	BillingCycle  *int       `gorm:"index:idx_invoices_user_cycle,priority:2"`
	AppointmentId *uuid.UUID `gorm:"type:uuid;index"`
	PdfUrl        *string    `gorm:"type:text"`

	PaymentToken       *string `gorm:"type:varchar(255)"`
	PaymentRedirectUrl *string `gorm:"type:text"`
	PaidAt             *time.Time

	IsReissued        bool       `gorm:"default:false"`
	OriginalInvoiceId *uuid.UUID `gorm:"type:uuid"`
	OriginalAmount    *float64   `gorm:"type:numeric(10,2)"`
	CreditNoteNumber  *string    `gorm:"type:varchar(40)"`

	Items []InvoiceItem `gorm:"foreignKey:InvoiceId;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Invoice) TableName() string {
	return "invoices"
}

type InvoiceItem struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	InvoiceId   uuid.UUID `gorm:"type:uuid;not null;index"`
	Position    int       `gorm:"not null"`
	Description string    `gorm:"type:varchar(255);not null"`
	Amount      float64   `gorm:"type:numeric(10,2);not null"`
	Type        string    `gorm:"type:varchar(20);not null"`
}

func (InvoiceItem) TableName() string {
	return "invoice_items"
}
