package service

import (
	"context"
	"crypto/sha512"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"nutri-coach-be/internal/dto"
	"nutri-coach-be/internal/entity"
	"nutri-coach-be/internal/pkg/logger"
	"nutri-coach-be/internal/repository/specification"
	"nutri-coach-be/internal/repository/unitofwork"
	"nutri-coach-be/pkg/billing"
	"nutri-coach-be/pkg/events"
	pktNats "nutri-coach-be/pkg/nats"
	"nutri-coach-be/pkg/payments"
)

type IInvoiceService interface {
	CreateSessionInvoice(ctx context.Context, appointmentId uuid.UUID) (*dto.InvoiceResponse, error)
	CreateSubscriptionInvoice(ctx context.Context, userId uuid.UUID, cycle int) (*dto.InvoiceResponse, error)
	CreatePenaltyInvoice(ctx context.Context, appointmentId uuid.UUID, reason billing.PenaltyReason) (*dto.InvoiceResponse, error)
	CreateCustomInvoice(ctx context.Context, req *dto.CreateCustomInvoiceRequest) (*dto.InvoiceResponse, error)

	Reissue(ctx context.Context, invoiceId uuid.UUID, req *dto.ReissueInvoiceRequest) (*dto.ReissueResponse, error)
	HandleWebhook(ctx context.Context, req *dto.MidtransWebhookRequest) error
	SendReminders(ctx context.Context) (int, error)

	GetById(ctx context.Context, invoiceId uuid.UUID) (*dto.InvoiceResponse, error)
	GetByIdForUser(ctx context.Context, userId, invoiceId uuid.UUID) (*dto.InvoiceResponse, error)
	ListForUser(ctx context.Context, userId uuid.UUID) ([]*dto.InvoiceResponse, error)
}

type InvoiceServiceConfig struct {
	// MidtransServerKey signs incoming webhook notifications.
	MidtransServerKey string
}

type invoiceService struct {
	uowFactory     unitofwork.RepositoryFactory
	gateway        payments.Gateway
	eventPublisher *pktNats.Publisher
	logger         logger.ILogger
	cfg            InvoiceServiceConfig
}

func NewInvoiceService(uowFactory unitofwork.RepositoryFactory, gateway payments.Gateway, eventPublisher *pktNats.Publisher, log logger.ILogger, cfg InvoiceServiceConfig) IInvoiceService {
	return &invoiceService{
		uowFactory:     uowFactory,
		gateway:        gateway,
		eventPublisher: eventPublisher,
		logger:         log,
		cfg:            cfg,
	}
}

// CreateSessionInvoice bills a completed session. Complete-Program members
// get a zero line for the session itself; late-reschedule and no-show flags
// on the appointment become penalty lines.
func (s *invoiceService) CreateSessionInvoice(ctx context.Context, appointmentId uuid.UUID) (*dto.InvoiceResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	appt, err := uow.AppointmentRepository().FindOne(ctx, specification.ByID{ID: appointmentId})
	if err != nil {
		return nil, err
	}
	if appt == nil {
		return nil, errors.New("appointment not found")
	}
	if appt.InvoiceGenerated {
		existing, err := uow.InvoiceRepository().FindOne(ctx, specification.NonCreditedForAppointment{AppointmentID: appointmentId})
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return toInvoiceResponse(existing), nil
		}
	}

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: appt.UserId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New("user not found")
	}

	items := billing.SessionItems(billing.SessionContext{
		Type:           appt.Type,
		ServicePlan:    user.ServicePlan,
		LateReschedule: appt.LateReschedule,
		NoShow:         appt.NoShowPenalty > 0,
	})

	invoice := s.buildInvoice(user, items, billing.KindSession)
	invoice.AppointmentId = &appt.Id

	if err := s.preparePayment(ctx, invoice, user); err != nil {
		return nil, err
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.InvoiceRepository().Create(ctx, invoice); err != nil {
		return nil, err
	}

	appt.InvoiceGenerated = true
	if err := uow.AppointmentRepository().Update(ctx, appt); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.publishInvoiceEvent(ctx, events.TypeInvoiceCreated, invoice)

	return toInvoiceResponse(invoice), nil
}

// CreateSubscriptionInvoice bills one Complete-Program cycle. One live
// subscription invoice per (user, cycle); a second call returns the existing
// one instead of double-billing.
func (s *invoiceService) CreateSubscriptionInvoice(ctx context.Context, userId uuid.UUID, cycle int) (*dto.InvoiceResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	existing, err := uow.InvoiceRepository().FindOne(ctx, specification.SubscriptionInvoiceForCycle{UserID: userId, Cycle: cycle})
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return toInvoiceResponse(existing), nil
	}

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New("user not found")
	}

	items := billing.SubscriptionItems(user.MonthlyAmount, cycle, user.MaxBillingCycles)
	invoice := s.buildInvoice(user, items, billing.KindSubscription)
	invoice.BillingCycle = &cycle

	if err := s.preparePayment(ctx, invoice, user); err != nil {
		return nil, err
	}

	if err := uow.InvoiceRepository().Create(ctx, invoice); err != nil {
		return nil, err
	}

	s.publishInvoiceEvent(ctx, events.TypeInvoiceCreated, invoice)

	return toInvoiceResponse(invoice), nil
}

// CreatePenaltyInvoice bills a standalone penalty (no-show or late
// reschedule) outside a session invoice.
func (s *invoiceService) CreatePenaltyInvoice(ctx context.Context, appointmentId uuid.UUID, reason billing.PenaltyReason) (*dto.InvoiceResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	appt, err := uow.AppointmentRepository().FindOne(ctx, specification.ByID{ID: appointmentId})
	if err != nil {
		return nil, err
	}
	if appt == nil {
		return nil, errors.New("appointment not found")
	}

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: appt.UserId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New("user not found")
	}

	items := billing.PenaltyItems(reason, appt.Type)
	invoice := s.buildInvoice(user, items, billing.KindPenalty)
	invoice.AppointmentId = &appt.Id

	if err := s.preparePayment(ctx, invoice, user); err != nil {
		return nil, err
	}

	if err := uow.InvoiceRepository().Create(ctx, invoice); err != nil {
		return nil, err
	}

	s.publishInvoiceEvent(ctx, events.TypeInvoiceCreated, invoice)

	return toInvoiceResponse(invoice), nil
}

func (s *invoiceService) CreateCustomInvoice(ctx context.Context, req *dto.CreateCustomInvoiceRequest) (*dto.InvoiceResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: req.UserId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New("user not found")
	}

	items := make([]billing.LineItem, len(req.Items))
	for i, it := range req.Items {
		items[i] = billing.LineItem{
			Description: it.Description,
			Amount:      it.Amount,
			Type:        billing.ItemType(it.Type),
		}
	}

	invoice := s.buildInvoice(user, items, billing.KindCustom)

	if err := s.preparePayment(ctx, invoice, user); err != nil {
		return nil, err
	}

	if err := uow.InvoiceRepository().Create(ctx, invoice); err != nil {
		return nil, err
	}

	s.publishInvoiceEvent(ctx, events.TypeInvoiceCreated, invoice)

	return toInvoiceResponse(invoice), nil
}

// Reissue voids an invoice with a credit note and creates a corrected
// replacement. The original is never edited; the pair stays linked both ways.
func (s *invoiceService) Reissue(ctx context.Context, invoiceId uuid.UUID, req *dto.ReissueInvoiceRequest) (*dto.ReissueResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	original, err := uow.InvoiceRepository().FindOne(ctx, specification.ByID{ID: invoiceId})
	if err != nil {
		return nil, err
	}
	if original == nil {
		return nil, errors.New("invoice not found")
	}
	if original.Status == entity.InvoiceStatusCredited {
		return nil, errors.New("invoice is already credited")
	}

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: original.UserId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New("user not found")
	}

	items := make([]billing.LineItem, len(req.Items))
	for i, it := range req.Items {
		items[i] = billing.LineItem{
			Description: it.Description,
			Amount:      it.Amount,
			Type:        billing.ItemType(it.Type),
		}
	}

	creditNote := billing.CreditNoteNumber(original.InvoiceNumber)
	originalAmount := original.TotalAmount

	// The chain is linked both ways: the replacement carries the credit-note
	// reference that voided the original alongside the back pointer.
	replacement := s.buildInvoice(user, items, original.InvoiceType)
	replacement.BillingCycle = original.BillingCycle
	replacement.AppointmentId = original.AppointmentId
	replacement.IsReissued = true
	replacement.OriginalInvoiceId = &original.Id
	replacement.OriginalAmount = &originalAmount
	replacement.CreditNoteNumber = &creditNote

	if err := s.preparePayment(ctx, replacement, user); err != nil {
		return nil, err
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	original.Status = entity.InvoiceStatusCredited
	original.CreditNoteNumber = &creditNote
	if err := uow.InvoiceRepository().Update(ctx, original); err != nil {
		return nil, err
	}

	if err := uow.InvoiceRepository().Create(ctx, replacement); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.publishInvoiceEvent(ctx, events.TypeInvoiceReissued, replacement)

	return &dto.ReissueResponse{
		Original:   *toInvoiceResponse(original),
		Reissued:   *toInvoiceResponse(replacement),
		CreditNote: creditNote,
	}, nil
}

// HandleWebhook processes the payment provider callback. The signature is
// SHA512(order_id + status_code + gross_amount + server_key).
func (s *invoiceService) HandleWebhook(ctx context.Context, req *dto.MidtransWebhookRequest) error {
	if s.cfg.MidtransServerKey == "" {
		return errors.New("payment server key not configured")
	}

	signatureInput := req.OrderId + req.StatusCode + req.GrossAmount + s.cfg.MidtransServerKey
	expected := fmt.Sprintf("%x", sha512.Sum512([]byte(signatureInput)))
	if req.SignatureKey != expected {
		s.logger.Warn("InvoiceService", "Webhook signature mismatch", map[string]interface{}{"order_id": req.OrderId})
		return errors.New("invalid signature")
	}

	invoiceId, err := uuid.Parse(req.OrderId)
	if err != nil {
		return errors.New("invalid order id format")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	invoice, err := uow.InvoiceRepository().FindOne(ctx, specification.ByID{ID: invoiceId})
	if err != nil {
		return err
	}
	if invoice == nil {
		return errors.New("invoice not found")
	}

	switch req.TransactionStatus {
	case "capture", "settlement":
		if invoice.Status == entity.InvoiceStatusPaid {
			return nil
		}
		now := time.Now()
		invoice.Status = entity.InvoiceStatusPaid
		invoice.PaidAt = &now
		if err := uow.InvoiceRepository().Update(ctx, invoice); err != nil {
			return err
		}
		s.publishInvoiceEvent(ctx, events.TypeInvoicePaid, invoice)
	case "pending":
		if invoice.Status == entity.InvoiceStatusUnpaid {
			invoice.Status = entity.InvoiceStatusPending
			if err := uow.InvoiceRepository().Update(ctx, invoice); err != nil {
				return err
			}
		}
	case "deny", "cancel", "expire":
		if invoice.Status == entity.InvoiceStatusPending {
			invoice.Status = entity.InvoiceStatusUnpaid
			if err := uow.InvoiceRepository().Update(ctx, invoice); err != nil {
				return err
			}
		}
	}

	return nil
}

// SendReminders emits one reminder event per overdue invoice. Best effort:
// a publish failure skips that invoice and moves on.
func (s *invoiceService) SendReminders(ctx context.Context) (int, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	overdue, err := uow.InvoiceRepository().FindAll(ctx,
		specification.Filter("status", string(entity.InvoiceStatusUnpaid)),
	)
	if err != nil {
		return 0, err
	}

	now := time.Now()
	sent := 0
	for _, inv := range overdue {
		if inv.DueDate.After(now) {
			continue
		}
		evt := events.NewDomainEvent(events.TypeInvoiceReminder, map[string]interface{}{
			"invoice_id":     inv.Id.String(),
			"invoice_number": inv.InvoiceNumber,
			"user_id":        inv.UserId.String(),
			"client_name":    inv.ClientName,
			"client_email":   inv.ClientEmail,
			"total_amount":   inv.TotalAmount,
			"due_date":       inv.DueDate,
		})
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			s.logger.Warn("InvoiceService", "Failed to publish reminder", map[string]interface{}{
				"invoice_id": inv.Id, "error": err.Error(),
			})
			continue
		}
		sent++
	}
	return sent, nil
}

func (s *invoiceService) GetById(ctx context.Context, invoiceId uuid.UUID) (*dto.InvoiceResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	invoice, err := uow.InvoiceRepository().FindOne(ctx, specification.ByID{ID: invoiceId})
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, errors.New("invoice not found")
	}
	return toInvoiceResponse(invoice), nil
}

func (s *invoiceService) GetByIdForUser(ctx context.Context, userId, invoiceId uuid.UUID) (*dto.InvoiceResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	invoice, err := uow.InvoiceRepository().FindOne(ctx,
		specification.ByID{ID: invoiceId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, errors.New("invoice not found")
	}
	return toInvoiceResponse(invoice), nil
}

func (s *invoiceService) ListForUser(ctx context.Context, userId uuid.UUID) ([]*dto.InvoiceResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	invoices, err := uow.InvoiceRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.InvoiceResponse, len(invoices))
	for i, inv := range invoices {
		res[i] = toInvoiceResponse(inv)
	}
	return res, nil
}

func (s *invoiceService) buildInvoice(user *entity.User, items []billing.LineItem, kind billing.InvoiceKind) *entity.Invoice {
	now := time.Now()
	entInvoiceItems := make([]entity.InvoiceItem, len(items))
	for i, it := range items {
		entInvoiceItems[i] = entity.InvoiceItem{
			Position:    i,
			Description: it.Description,
			Amount:      it.Amount,
			Type:        it.Type,
		}
	}

	return &entity.Invoice{
		// The id doubles as the payment order id, so it is assigned here
		// rather than by the database.
		Id:            uuid.New(),
		InvoiceNumber: billing.NewInvoiceNumber(now),
		UserId:        user.Id,
		ClientName:    user.FullName,
		ClientEmail:   user.Email,
		Items:         entInvoiceItems,
		TotalAmount:   billing.Total(items),
		Currency:      billing.Currency,
		DueDate:       billing.DueDate(now),
		Status:        entity.InvoiceStatusUnpaid,
		InvoiceType:   kind,
	}
}

// preparePayment acquires the payment-collection handle before the invoice
// is written. No invoice is persisted without a valid handle; zero-amount
// invoices skip payment entirely.
func (s *invoiceService) preparePayment(ctx context.Context, invoice *entity.Invoice, user *entity.User) error {
	if invoice.TotalAmount <= 0 {
		return nil
	}
	if s.gateway == nil {
		return errors.New("payment gateway not configured")
	}

	handle, err := s.gateway.CreateTransaction(ctx, payments.TransactionRequest{
		OrderId:       invoice.Id.String(),
		GrossAmount:   int64(invoice.TotalAmount),
		CustomerName:  user.FullName,
		CustomerEmail: user.Email,
		CustomerPhone: user.Phone,
	})
	if err != nil {
		return fmt.Errorf("create payment transaction: %w", err)
	}

	invoice.PaymentToken = &handle.Token
	invoice.PaymentRedirectUrl = &handle.RedirectUrl
	return nil
}

func (s *invoiceService) publishInvoiceEvent(ctx context.Context, eventType string, invoice *entity.Invoice) {
	if s.eventPublisher == nil {
		return
	}
	evt := events.NewDomainEvent(eventType, map[string]interface{}{
		"invoice_id":     invoice.Id.String(),
		"invoice_number": invoice.InvoiceNumber,
		"user_id":        invoice.UserId.String(),
		"client_name":    invoice.ClientName,
		"client_email":   invoice.ClientEmail,
		"total_amount":   invoice.TotalAmount,
		"currency":       invoice.Currency,
		"invoice_type":   string(invoice.InvoiceType),
		"due_date":       invoice.DueDate,
	})
	if err := s.eventPublisher.Publish(ctx, evt); err != nil {
		s.logger.Warn("InvoiceService", "Failed to publish invoice event", map[string]interface{}{
			"event": eventType, "invoice_id": invoice.Id, "error": err.Error(),
		})
	}
}

func toInvoiceResponse(inv *entity.Invoice) *dto.InvoiceResponse {
	items := make([]dto.InvoiceItemResponse, len(inv.Items))
	for i, it := range inv.Items {
		items[i] = dto.InvoiceItemResponse{
			Description: it.Description,
			Amount:      it.Amount,
			Type:        string(it.Type),
		}
	}
	return &dto.InvoiceResponse{
		Id:                 inv.Id,
		InvoiceNumber:      inv.InvoiceNumber,
		ClientName:         inv.ClientName,
		Items:              items,
		TotalAmount:        inv.TotalAmount,
		Currency:           inv.Currency,
		DueDate:            inv.DueDate,
		Status:             string(inv.Status),
		InvoiceType:        string(inv.InvoiceType),
		BillingCycle:       inv.BillingCycle,
		AppointmentId:      inv.AppointmentId,
		PaymentRedirectUrl: inv.PaymentRedirectUrl,
		PaidAt:             inv.PaidAt,
		IsReissued:         inv.IsReissued,
		OriginalInvoiceId:  inv.OriginalInvoiceId,
		CreditNoteNumber:   inv.CreditNoteNumber,
		CreatedAt:          inv.CreatedAt,
	}
}
