package dto

import (
	"time"

	"github.com/google/uuid"
)

type CustomInvoiceItemRequest struct {
	Description string  `json:"description" validate:"required"`
	Amount      float64 `json:"amount" validate:"gte=0"`
	Type        string  `json:"type" validate:"required,oneof=session penalty subscription"`
}

type CreateCustomInvoiceRequest struct {
	UserId uuid.UUID                  `json:"user_id" validate:"required"`
	Items  []CustomInvoiceItemRequest `json:"items" validate:"required,min=1,dive"`
}

// ReissueInvoiceRequest replaces a wrong invoice with a corrected one. The
// original is voided by credit note, never edited.
type ReissueInvoiceRequest struct {
	Items []CustomInvoiceItemRequest `json:"items" validate:"required,min=1,dive"`
}

type InvoiceItemResponse struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Type        string  `json:"type"`
}

type InvoiceResponse struct {
	Id                 uuid.UUID             `json:"id"`
	InvoiceNumber      string                `json:"invoice_number"`
	ClientName         string                `json:"client_name"`
	Items              []InvoiceItemResponse `json:"items"`
	TotalAmount        float64               `json:"total_amount"`
	Currency           string                `json:"currency"`
	DueDate            time.Time             `json:"due_date"`
	Status             string                `json:"status"`
	InvoiceType        string                `json:"invoice_type"`
	BillingCycle       *int                  `json:"billing_cycle,omitempty"`
	AppointmentId      *uuid.UUID            `json:"appointment_id,omitempty"`
	PaymentRedirectUrl *string               `json:"payment_redirect_url,omitempty"`
	PaidAt             *time.Time            `json:"paid_at,omitempty"`
	IsReissued         bool                  `json:"is_reissued"`
	OriginalInvoiceId  *uuid.UUID            `json:"original_invoice_id,omitempty"`
	CreditNoteNumber   *string               `json:"credit_note_number,omitempty"`
	CreatedAt          time.Time             `json:"created_at"`
}

// ReissueResponse pairs the voided original with its replacement.
type ReissueResponse struct {
	Original   InvoiceResponse `json:"original"`
	Reissued   InvoiceResponse `json:"reissued"`
	CreditNote string          `json:"credit_note"`
}

// MidtransWebhookRequest is the payment notification callback body.
type MidtransWebhookRequest struct {
	OrderId           string `json:"order_id"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	SignatureKey      string `json:"signature_key"`
	TransactionStatus string `json:"transaction_status"`
	FraudStatus       string `json:"fraud_status"`
	PaymentType       string `json:"payment_type"`
}
