package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nutri-coach-be/internal/dto"
	"nutri-coach-be/pkg/billing"
)

// invoiceServiceStub records subscription-invoice calls so the sweep tests
// can assert ordering and retry behavior.
type invoiceServiceStub struct {
	subscriptionCalls []int
	subscriptionErr   error
}

func (s *invoiceServiceStub) CreateSubscriptionInvoice(ctx context.Context, userId uuid.UUID, cycle int) (*dto.InvoiceResponse, error) {
	s.subscriptionCalls = append(s.subscriptionCalls, cycle)
	if s.subscriptionErr != nil {
		return nil, s.subscriptionErr
	}
	return &dto.InvoiceResponse{Id: uuid.New(), BillingCycle: &cycle}, nil
}

func (s *invoiceServiceStub) CreateSessionInvoice(ctx context.Context, appointmentId uuid.UUID) (*dto.InvoiceResponse, error) {
	return nil, errors.New("not supported")
}

func (s *invoiceServiceStub) CreatePenaltyInvoice(ctx context.Context, appointmentId uuid.UUID, reason billing.PenaltyReason) (*dto.InvoiceResponse, error) {
	return nil, errors.New("not supported")
}

func (s *invoiceServiceStub) CreateCustomInvoice(ctx context.Context, req *dto.CreateCustomInvoiceRequest) (*dto.InvoiceResponse, error) {
	return nil, errors.New("not supported")
}

func (s *invoiceServiceStub) Reissue(ctx context.Context, invoiceId uuid.UUID, req *dto.ReissueInvoiceRequest) (*dto.ReissueResponse, error) {
	return nil, errors.New("not supported")
}

func (s *invoiceServiceStub) HandleWebhook(ctx context.Context, req *dto.MidtransWebhookRequest) error {
	return errors.New("not supported")
}

func (s *invoiceServiceStub) SendReminders(ctx context.Context) (int, error) { return 0, nil }

func (s *invoiceServiceStub) GetById(ctx context.Context, invoiceId uuid.UUID) (*dto.InvoiceResponse, error) {
	return nil, errors.New("not supported")
}

func (s *invoiceServiceStub) GetByIdForUser(ctx context.Context, userId, invoiceId uuid.UUID) (*dto.InvoiceResponse, error) {
	return nil, errors.New("not supported")
}

func (s *invoiceServiceStub) ListForUser(ctx context.Context, userId uuid.UUID) ([]*dto.InvoiceResponse, error) {
	return nil, errors.New("not supported")
}

func TestRunBillingSweepInvoiceFailureKeepsCycle(t *testing.T) {
	store := newMemStore()
	user := seedProgramUser(store)
	due := time.Now().Add(-24 * time.Hour)
	user.NextBillingDate = &due

	invoices := &invoiceServiceStub{subscriptionErr: errors.New("provider unavailable")}
	svc := NewProgramService(store, invoices, nil, nopLogger{})

	result, err := svc.RunBillingSweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Errors)
	assert.Zero(t, result.InvoicesCreated)
	assert.Equal(t, []int{2}, invoices.subscriptionCalls)

	// The cycle did not move, so the next sweep retries the same invoice.
	stored := store.users[user.Id]
	assert.Equal(t, 1, stored.CurrentBillingCycle)
	require.NotNil(t, stored.NextBillingDate)
	assert.True(t, stored.NextBillingDate.Equal(due))

	invoices.subscriptionErr = nil
	result, err = svc.RunBillingSweep(context.Background())
	require.NoError(t, err)
	assert.Zero(t, result.Errors)
	assert.Equal(t, 1, result.InvoicesCreated)
	assert.Equal(t, []int{2, 2}, invoices.subscriptionCalls)

	stored = store.users[user.Id]
	assert.Equal(t, 2, stored.CurrentBillingCycle)
}

func TestRunBillingSweepTwiceAdvancesOnce(t *testing.T) {
	store := newMemStore()
	user := seedProgramUser(store)
	due := time.Now().Add(-24 * time.Hour)
	user.NextBillingDate = &due

	invoices := &invoiceServiceStub{}
	svc := NewProgramService(store, invoices, nil, nopLogger{})

	first, err := svc.RunBillingSweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, first.InvoicesCreated)

	second, err := svc.RunBillingSweep(context.Background())
	require.NoError(t, err)
	assert.Zero(t, second.InvoicesCreated)

	assert.Equal(t, []int{2}, invoices.subscriptionCalls)
	assert.Equal(t, 2, store.users[user.Id].CurrentBillingCycle)
}

func TestRunBillingSweepCompletesAfterFinalCycle(t *testing.T) {
	store := newMemStore()
	user := seedProgramUser(store)
	user.CurrentBillingCycle = billing.MaxBillingCycles
	due := time.Now().Add(-24 * time.Hour)
	user.NextBillingDate = &due

	invoices := &invoiceServiceStub{}
	svc := NewProgramService(store, invoices, nil, nopLogger{})

	result, err := svc.RunBillingSweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Completed)
	assert.Empty(t, invoices.subscriptionCalls, "the final cycle completes without another invoice")
	assert.Equal(t, billing.SubscriptionCompleted, store.users[user.Id].SubscriptionStatus)
}
