package entity

import (
	"time"

	"github.com/google/uuid"

	"nutri-coach-be/pkg/billing"
)

type InvoiceStatus string

const (
	InvoiceStatusUnpaid   InvoiceStatus = "unpaid"
	InvoiceStatusPaid     InvoiceStatus = "paid"
	InvoiceStatusCredited InvoiceStatus = "credited"
	InvoiceStatusPending  InvoiceStatus = "pending"
)

type InvoiceItem struct {
	Id          uuid.UUID
	InvoiceId   uuid.UUID
	Position    int
	Description string
	Amount      float64
	Type        billing.ItemType
}

type Invoice struct {
	Id            uuid.UUID
	InvoiceNumber string
	UserId        uuid.UUID
	ClientName    string
	ClientEmail   string

	Items       []InvoiceItem
	TotalAmount float64
	Currency    string
	DueDate     time.Time
	Status      InvoiceStatus
	InvoiceType billing.InvoiceKind

	BillingCycle  *int
	AppointmentId *uuid.UUID
	PdfUrl        *string

	// Payment-collection handle from the payment collaborator. Empty for
	// zero-amount invoices, which skip payment entirely.
	PaymentToken       *string
	PaymentRedirectUrl *string
	PaidAt             *time.Time

	// Reissue chain. A credited invoice is immutable and points forward to
	// its replacement; the replacement points back at the original.
	IsReissued        bool
	OriginalInvoiceId *uuid.UUID
	OriginalAmount    *float64
	CreditNoteNumber  *string

	CreatedAt time.Time
	UpdatedAt time.Time
}
