package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nutri-coach-be/internal/dto"
	"nutri-coach-be/internal/entity"
	"nutri-coach-be/internal/repository/contract"
	"nutri-coach-be/internal/repository/specification"
	"nutri-coach-be/internal/repository/unitofwork"
	"nutri-coach-be/pkg/billing"
	"nutri-coach-be/pkg/payments"
	"nutri-coach-be/pkg/scheduling"
)

// In-memory repositories backing the service tests. Specifications are
// evaluated against the stored entities directly, mirroring the SQL the
// real implementations generate.

type memStore struct {
	users    map[uuid.UUID]*entity.User
	appts    map[uuid.UUID]*entity.Appointment
	invoices []*entity.Invoice

	invoiceCreateErr error
	userUpdateErr    error
}

func newMemStore() *memStore {
	return &memStore{
		users: make(map[uuid.UUID]*entity.User),
		appts: make(map[uuid.UUID]*entity.Appointment),
	}
}

func (s *memStore) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &memUnitOfWork{store: s}
}

type memUnitOfWork struct {
	store *memStore
}

func (u *memUnitOfWork) Begin(ctx context.Context) error { return nil }
func (u *memUnitOfWork) Commit() error                   { return nil }
func (u *memUnitOfWork) Rollback() error                 { return nil }

func (u *memUnitOfWork) UserRepository() contract.UserRepository {
	return &memUserRepository{store: u.store}
}

func (u *memUnitOfWork) AppointmentRepository() contract.AppointmentRepository {
	return &memAppointmentRepository{store: u.store}
}

func (u *memUnitOfWork) InvoiceRepository() contract.InvoiceRepository {
	return &memInvoiceRepository{store: u.store}
}

func (u *memUnitOfWork) MailRepository() contract.MailRepository     { return nil }
func (u *memUnitOfWork) IntakeRepository() contract.IntakeRepository { return nil }

type memUserRepository struct {
	store *memStore
}

func (r *memUserRepository) Create(ctx context.Context, user *entity.User) error {
	r.store.users[user.Id] = user
	return nil
}

func (r *memUserRepository) Update(ctx context.Context, user *entity.User) error {
	if r.store.userUpdateErr != nil {
		return r.store.userUpdateErr
	}
	stored := *user
	r.store.users[user.Id] = &stored
	return nil
}

func (r *memUserRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	all, err := r.FindAll(ctx, specs...)
	if err != nil || len(all) == 0 {
		return nil, err
	}
	return all[0], nil
}

func (r *memUserRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.User, error) {
	var out []*entity.User
	for _, user := range r.store.users {
		if userMatches(user, specs) {
			copied := *user
			out = append(out, &copied)
		}
	}
	return out, nil
}

func userMatches(user *entity.User, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch sp := spec.(type) {
		case specification.ByID:
			if user.Id != sp.ID {
				return false
			}
		case specification.ByEmail:
			if user.Email != sp.Email {
				return false
			}
		case specification.ActiveCompleteProgram:
			if user.ServicePlan != billing.PlanCompleteProgram || user.SubscriptionStatus != billing.SubscriptionActive {
				return false
			}
		case specification.DowngradeDue:
			if !user.PlannedDowngrade || user.DowngradeEffectiveDate == nil || user.DowngradeEffectiveDate.After(sp.Now) {
				return false
			}
		}
	}
	return true
}

type memAppointmentRepository struct {
	store *memStore
}

func (r *memAppointmentRepository) Create(ctx context.Context, appt *entity.Appointment) error {
	r.store.appts[appt.Id] = appt
	return nil
}

func (r *memAppointmentRepository) Update(ctx context.Context, appt *entity.Appointment) error {
	stored := *appt
	r.store.appts[appt.Id] = &stored
	return nil
}

func (r *memAppointmentRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Appointment, error) {
	for _, appt := range r.store.appts {
		matched := true
		for _, spec := range specs {
			if sp, ok := spec.(specification.ByID); ok && appt.Id != sp.ID {
				matched = false
			}
		}
		if matched {
			copied := *appt
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *memAppointmentRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Appointment, error) {
	return nil, nil
}

func (r *memAppointmentRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return 0, nil
}

type memInvoiceRepository struct {
	store *memStore
}

func (r *memInvoiceRepository) Create(ctx context.Context, invoice *entity.Invoice) error {
	if r.store.invoiceCreateErr != nil {
		return r.store.invoiceCreateErr
	}
	stored := *invoice
	r.store.invoices = append(r.store.invoices, &stored)
	return nil
}

func (r *memInvoiceRepository) Update(ctx context.Context, invoice *entity.Invoice) error {
	for i, existing := range r.store.invoices {
		if existing.Id == invoice.Id {
			stored := *invoice
			r.store.invoices[i] = &stored
			return nil
		}
	}
	return errors.New("invoice not found")
}

func (r *memInvoiceRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Invoice, error) {
	all, err := r.FindAll(ctx, specs...)
	if err != nil || len(all) == 0 {
		return nil, err
	}
	return all[0], nil
}

func (r *memInvoiceRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Invoice, error) {
	var out []*entity.Invoice
	for _, inv := range r.store.invoices {
		if invoiceMatches(inv, specs) {
			copied := *inv
			out = append(out, &copied)
		}
	}
	return out, nil
}

func invoiceMatches(inv *entity.Invoice, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch sp := spec.(type) {
		case specification.ByID:
			if inv.Id != sp.ID {
				return false
			}
		case specification.UserOwnedBy:
			if inv.UserId != sp.UserID {
				return false
			}
		case specification.SubscriptionInvoiceForCycle:
			if inv.UserId != sp.UserID ||
				inv.BillingCycle == nil || *inv.BillingCycle != sp.Cycle ||
				inv.InvoiceType != billing.KindSubscription ||
				inv.Status == entity.InvoiceStatusCredited {
				return false
			}
		case specification.NonCreditedForAppointment:
			if inv.AppointmentId == nil || *inv.AppointmentId != sp.AppointmentID ||
				inv.Status == entity.InvoiceStatusCredited {
				return false
			}
		case specification.FilterBy:
			if sp.Field == "status" && string(inv.Status) != sp.Value.(string) {
				return false
			}
		}
	}
	return true
}

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

type stubGateway struct {
	err   error
	calls int
}

func (g *stubGateway) CreateTransaction(ctx context.Context, req payments.TransactionRequest) (*payments.Handle, error) {
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	return &payments.Handle{
		Token:       "tok-" + req.OrderId,
		RedirectUrl: "https://pay.example/" + req.OrderId,
	}, nil
}

func newTestInvoiceService(store *memStore, gateway payments.Gateway) IInvoiceService {
	return NewInvoiceService(store, gateway, nil, nopLogger{}, InvoiceServiceConfig{MidtransServerKey: "test-key"})
}

func seedProgramUser(store *memStore) *entity.User {
	user := &entity.User{
		Id:                  uuid.New(),
		Email:               "anna@example.com",
		FullName:            "Anna de Vries",
		Phone:               "+31600000001",
		ServicePlan:         billing.PlanCompleteProgram,
		SubscriptionStatus:  billing.SubscriptionActive,
		CurrentBillingCycle: 1,
		MaxBillingCycles:    billing.MaxBillingCycles,
		MonthlyAmount:       300,
	}
	store.users[user.Id] = user
	return user
}

func TestCreateSubscriptionInvoicePaymentFailureCreatesNothing(t *testing.T) {
	store := newMemStore()
	user := seedProgramUser(store)
	gateway := &stubGateway{err: errors.New("provider unavailable")}
	svc := newTestInvoiceService(store, gateway)

	res, err := svc.CreateSubscriptionInvoice(context.Background(), user.Id, 2)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "create payment transaction")
	assert.Nil(t, res)
	assert.Empty(t, store.invoices, "a failed payment handle must not leave an invoice behind")
}

func TestCreateSubscriptionInvoiceWithoutGatewayFails(t *testing.T) {
	store := newMemStore()
	user := seedProgramUser(store)
	svc := newTestInvoiceService(store, nil)

	res, err := svc.CreateSubscriptionInvoice(context.Background(), user.Id, 2)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "payment gateway not configured")
	assert.Nil(t, res)
	assert.Empty(t, store.invoices)
}

func TestCreateSubscriptionInvoiceAttachesPaymentHandle(t *testing.T) {
	store := newMemStore()
	user := seedProgramUser(store)
	gateway := &stubGateway{}
	svc := newTestInvoiceService(store, gateway)

	res, err := svc.CreateSubscriptionInvoice(context.Background(), user.Id, 2)

	require.NoError(t, err)
	assert.Equal(t, 1, gateway.calls)
	require.Len(t, store.invoices, 1)
	stored := store.invoices[0]
	require.NotNil(t, stored.PaymentToken)
	assert.Equal(t, "tok-"+stored.Id.String(), *stored.PaymentToken)
	require.NotNil(t, res.PaymentRedirectUrl)
	assert.Equal(t, "https://pay.example/"+stored.Id.String(), *res.PaymentRedirectUrl)
}

func TestCreateSubscriptionInvoiceDuplicateCycleReturnsExisting(t *testing.T) {
	store := newMemStore()
	user := seedProgramUser(store)
	gateway := &stubGateway{}
	svc := newTestInvoiceService(store, gateway)

	first, err := svc.CreateSubscriptionInvoice(context.Background(), user.Id, 2)
	require.NoError(t, err)

	second, err := svc.CreateSubscriptionInvoice(context.Background(), user.Id, 2)
	require.NoError(t, err)

	assert.Equal(t, first.Id, second.Id)
	assert.Len(t, store.invoices, 1)
	assert.Equal(t, 1, gateway.calls, "the existing invoice is reused, no second payment handle")
}

func TestCreateSessionInvoiceZeroAmountSkipsPayment(t *testing.T) {
	store := newMemStore()
	user := seedProgramUser(store)
	appt := &entity.Appointment{
		Id:     uuid.New(),
		UserId: user.Id,
		Type:   scheduling.TypeFollowUp,
		Status: scheduling.StatusDone,
	}
	store.appts[appt.Id] = appt

	// No gateway at all: a zero-amount invoice must still go through.
	svc := newTestInvoiceService(store, nil)

	res, err := svc.CreateSessionInvoice(context.Background(), appt.Id)

	require.NoError(t, err)
	assert.Zero(t, res.TotalAmount)
	assert.Nil(t, res.PaymentRedirectUrl)
	require.Len(t, store.invoices, 1)
	assert.True(t, store.appts[appt.Id].InvoiceGenerated)
}

func TestReissueLinksChainBothWays(t *testing.T) {
	store := newMemStore()
	user := seedProgramUser(store)
	original := &entity.Invoice{
		Id:            uuid.New(),
		InvoiceNumber: "INV-20260301-AB12CD34",
		UserId:        user.Id,
		ClientName:    user.FullName,
		ClientEmail:   user.Email,
		TotalAmount:   85,
		Currency:      billing.Currency,
		Status:        entity.InvoiceStatusUnpaid,
		InvoiceType:   billing.KindSession,
	}
	store.invoices = append(store.invoices, original)

	gateway := &stubGateway{}
	svc := newTestInvoiceService(store, gateway)

	res, err := svc.Reissue(context.Background(), original.Id, &dto.ReissueInvoiceRequest{
		Items: []dto.CustomInvoiceItemRequest{
			{Description: "Follow-up consultation (corrected)", Amount: 60, Type: "session"},
		},
	})

	require.NoError(t, err)
	wantCreditNote := billing.CreditNoteNumber(original.InvoiceNumber)
	assert.Equal(t, wantCreditNote, res.CreditNote)

	assert.Equal(t, string(entity.InvoiceStatusCredited), res.Original.Status)
	require.NotNil(t, res.Original.CreditNoteNumber)
	assert.Equal(t, wantCreditNote, *res.Original.CreditNoteNumber)

	assert.True(t, res.Reissued.IsReissued)
	require.NotNil(t, res.Reissued.OriginalInvoiceId)
	assert.Equal(t, original.Id, *res.Reissued.OriginalInvoiceId)
	require.NotNil(t, res.Reissued.CreditNoteNumber, "the replacement carries the credit-note reference too")
	assert.Equal(t, wantCreditNote, *res.Reissued.CreditNoteNumber)
	assert.Equal(t, 60.0, res.Reissued.TotalAmount)

	var replacement *entity.Invoice
	for _, inv := range store.invoices {
		if inv.Id == res.Reissued.Id {
			replacement = inv
		}
	}
	require.NotNil(t, replacement)
	require.NotNil(t, replacement.OriginalAmount)
	assert.Equal(t, 85.0, *replacement.OriginalAmount)
}

func TestReissuePaymentFailureLeavesOriginalIntact(t *testing.T) {
	store := newMemStore()
	user := seedProgramUser(store)
	original := &entity.Invoice{
		Id:            uuid.New(),
		InvoiceNumber: "INV-20260301-AB12CD34",
		UserId:        user.Id,
		TotalAmount:   85,
		Status:        entity.InvoiceStatusUnpaid,
		InvoiceType:   billing.KindSession,
	}
	store.invoices = append(store.invoices, original)

	gateway := &stubGateway{err: errors.New("provider unavailable")}
	svc := newTestInvoiceService(store, gateway)

	_, err := svc.Reissue(context.Background(), original.Id, &dto.ReissueInvoiceRequest{
		Items: []dto.CustomInvoiceItemRequest{
			{Description: "Corrected", Amount: 60, Type: "session"},
		},
	})

	require.Error(t, err)
	require.Len(t, store.invoices, 1)
	assert.Equal(t, entity.InvoiceStatusUnpaid, store.invoices[0].Status)
	assert.Nil(t, store.invoices[0].CreditNoteNumber)
}
