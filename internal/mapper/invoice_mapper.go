package mapper

import (
	"nutri-coach-be/internal/entity"
	"nutri-coach-be/internal/model"
	"nutri-coach-be/pkg/billing"
)

type InvoiceMapper struct{}

func NewInvoiceMapper() *InvoiceMapper {
	return &InvoiceMapper{}
}

func (m *InvoiceMapper) ToEntity(i *model.Invoice) *entity.Invoice {
	if i == nil {
		return nil
	}

	items := make([]entity.InvoiceItem, len(i.Items))
	for idx, it := range i.Items {
		items[idx] = entity.InvoiceItem{
			Id:          it.Id,
			InvoiceId:   it.InvoiceId,
			Position:    it.Position,
			Description: it.Description,
			Amount:      it.Amount,
			Type:        billing.ItemType(it.Type),
		}
	}

	return &entity.Invoice{
		Id:                 i.Id,
		InvoiceNumber:      i.InvoiceNumber,
		UserId:             i.UserId,
		ClientName:         i.ClientName,
		ClientEmail:        i.ClientEmail,
		Items:              items,
		TotalAmount:        i.TotalAmount,
		Currency:           i.Currency,
		DueDate:            i.DueDate,
		Status:             entity.InvoiceStatus(i.Status),
		InvoiceType:        billing.InvoiceKind(i.InvoiceType),
		BillingCycle:       i.BillingCycle,
		AppointmentId:      i.AppointmentId,
		PdfUrl:             i.PdfUrl,
		PaymentToken:       i.PaymentToken,
		PaymentRedirectUrl: i.PaymentRedirectUrl,
		PaidAt:             i.PaidAt,
		IsReissued:         i.IsReissued,
		OriginalInvoiceId:  i.OriginalInvoiceId,
		OriginalAmount:     i.OriginalAmount,
		CreditNoteNumber:   i.CreditNoteNumber,
		CreatedAt:          i.CreatedAt,
		UpdatedAt:          i.UpdatedAt,
	}
}

func (m *InvoiceMapper) ToModel(i *entity.Invoice) *model.Invoice {
	if i == nil {
		return nil
	}

	items := make([]model.InvoiceItem, len(i.Items))
	for idx, it := range i.Items {
		items[idx] = model.InvoiceItem{
			Id:          it.Id,
			InvoiceId:   it.InvoiceId,
			Position:    it.Position,
			Description: it.Description,
			Amount:      it.Amount,
			Type:        string(it.Type),
		}
	}

	return &model.Invoice{
		Id:                 i.Id,
		InvoiceNumber:      i.InvoiceNumber,
		UserId:             i.UserId,
		ClientName:         i.ClientName,
		ClientEmail:        i.ClientEmail,
		Items:              items,
		TotalAmount:        i.TotalAmount,
		Currency:           i.Currency,
		DueDate:            i.DueDate,
		Status:             string(i.Status),
		InvoiceType:        string(i.InvoiceType),
		BillingCycle:       i.BillingCycle,
		AppointmentId:      i.AppointmentId,
		PdfUrl:             i.PdfUrl,
		PaymentToken:       i.PaymentToken,
		PaymentRedirectUrl: i.PaymentRedirectUrl,
		PaidAt:             i.PaidAt,
		IsReissued:         i.IsReissued,
		OriginalInvoiceId:  i.OriginalInvoiceId,
		OriginalAmount:     i.OriginalAmount,
		CreditNoteNumber:   i.CreditNoteNumber,
		CreatedAt:          i.CreatedAt,
		UpdatedAt:          i.UpdatedAt,
	}
}
