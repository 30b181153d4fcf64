package service

import (
	"context"
	"errors"
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
)

type IProgramService interface {
	Enroll(ctx context.Context, userId uuid.UUID, req *dto.EnrollProgramRequest) (*dto.ProgramStatusResponse, error)
	GetStatus(ctx context.Context, userId uuid.UUID) (*dto.ProgramStatusResponse, error)
	Cancel(ctx context.Context, userId uuid.UUID) (*dto.ProgramStatusResponse, error)
	ScheduleDowngrade(ctx context.Context, userId uuid.UUID, req *dto.ScheduleDowngradeRequest) (*dto.ProgramStatusResponse, error)

	// RunBillingSweep is the daily scheduled pass: downgrades first, then
	// cycle advances with invoice creation.
	RunBillingSweep(ctx context.Context) (*dto.SweepResultResponse, error)
}

type programService struct {
	uowFactory     unitofwork.RepositoryFactory
	invoiceService IInvoiceService
	eventPublisher *pktNats.Publisher
	logger         logger.ILogger
}

func NewProgramService(uowFactory unitofwork.RepositoryFactory, invoiceService IInvoiceService, eventPublisher *pktNats.Publisher, log logger.ILogger) IProgramService {
	return &programService{
		uowFactory:     uowFactory,
		invoiceService: invoiceService,
		eventPublisher: eventPublisher,
		logger:         log,
	}
}

// Enroll starts the Complete Program: cycle 1 is billed immediately and the
// next billing date lands one calendar month out.
func (s *programService) Enroll(ctx context.Context, userId uuid.UUID, req *dto.EnrollProgramRequest) (*dto.ProgramStatusResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New("user not found")
	}
	if user.ServicePlan == billing.PlanCompleteProgram && user.SubscriptionStatus == billing.SubscriptionActive {
		return nil, errors.New("already enrolled in the Complete Program")
	}

	now := time.Now()
	next := billing.AddCalendarMonth(now)
	end := now
	for i := 0; i < billing.MaxBillingCycles; i++ {
		end = billing.AddCalendarMonth(end)
	}

	user.ServicePlan = billing.PlanCompleteProgram
	user.SubscriptionStatus = billing.SubscriptionActive
	user.CurrentBillingCycle = 1
	user.MaxBillingCycles = billing.MaxBillingCycles
	user.MonthlyAmount = req.MonthlyAmount
	user.NextBillingDate = &next
	user.ProgramStartDate = &now
	user.ProgramEndDate = &end
	user.PlannedDowngrade = false
	user.DowngradeEffectiveDate = nil

	if err := uow.UserRepository().Update(ctx, user); err != nil {
		return nil, err
	}

	if _, ierr := s.invoiceService.CreateSubscriptionInvoice(ctx, userId, 1); ierr != nil {
		s.logger.Error("ProgramService", "Failed to create enrollment invoice", map[string]interface{}{
			"user_id": userId, "error": ierr.Error(),
		})
	}

	s.publishProgramEvent(ctx, events.TypeProgramEnrolled, user)

	return toProgramStatusResponse(user), nil
}

func (s *programService) GetStatus(ctx context.Context, userId uuid.UUID) (*dto.ProgramStatusResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New("user not found")
	}
	return toProgramStatusResponse(user), nil
}

// Cancel stops future billing. Already-issued invoices stay collectible.
func (s *programService) Cancel(ctx context.Context, userId uuid.UUID) (*dto.ProgramStatusResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New("user not found")
	}
	if user.SubscriptionStatus != billing.SubscriptionActive {
		return nil, errors.New("no active program to cancel")
	}

	user.SubscriptionStatus = billing.SubscriptionCancelled
	user.NextBillingDate = nil

	if err := uow.UserRepository().Update(ctx, user); err != nil {
		return nil, err
	}

	return toProgramStatusResponse(user), nil
}

// ScheduleDowngrade plans a future conversion to pay-as-you-go. The daily
// sweep applies it once the effective date passes.
func (s *programService) ScheduleDowngrade(ctx context.Context, userId uuid.UUID, req *dto.ScheduleDowngradeRequest) (*dto.ProgramStatusResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New("user not found")
	}
	if user.ServicePlan != billing.PlanCompleteProgram {
		return nil, errors.New("user is not on the Complete Program")
	}

	effective := req.EffectiveDate
	user.PlannedDowngrade = true
	user.DowngradeEffectiveDate = &effective

	if err := uow.UserRepository().Update(ctx, user); err != nil {
		return nil, err
	}

	return toProgramStatusResponse(user), nil
}

// RunBillingSweep visits every Complete-Program user once. Downgrades run
// before billing advances so a user scheduled to leave the program is never
// billed another cycle the same day. Per-user errors are counted, not fatal.
func (s *programService) RunBillingSweep(ctx context.Context) (*dto.SweepResultResponse, error) {
	now := time.Now()
	result := &dto.SweepResultResponse{}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	// Phase 1: apply elapsed downgrades.
	dueForDowngrade, err := uow.UserRepository().FindAll(ctx, specification.DowngradeDue{Now: now})
	if err != nil {
		return nil, err
	}
	for _, user := range dueForDowngrade {
		ps := user.ProgramState()
		if !billing.DowngradeDue(ps, now) {
			continue
		}
		billing.ApplyDowngrade(&ps)
		user.ApplyProgramState(ps)

		if err := uow.UserRepository().Update(ctx, user); err != nil {
			s.logger.Error("ProgramService", "Downgrade sweep update failed", map[string]interface{}{
				"user_id": user.Id, "error": err.Error(),
			})
			result.Errors++
			continue
		}
		result.Downgraded++
		s.publishProgramEvent(ctx, events.TypeProgramDowngraded, user)
	}

	// Phase 2: advance due billing cycles.
	active, err := uow.UserRepository().FindAll(ctx, specification.ActiveCompleteProgram{})
	if err != nil {
		return nil, err
	}
	for _, user := range active {
		result.UsersVisited++

		ps := user.ProgramState()
		outcome := billing.AdvanceIfDue(&ps, now)
		if !outcome.InvoiceDue && !outcome.Completed {
			continue
		}

		if outcome.Completed {
			user.ApplyProgramState(ps)
			if err := uow.UserRepository().Update(ctx, user); err != nil {
				s.logger.Error("ProgramService", "Billing sweep update failed", map[string]interface{}{
					"user_id": user.Id, "error": err.Error(),
				})
				result.Errors++
				continue
			}
			result.Completed++
			s.publishProgramEvent(ctx, events.TypeProgramCompleted, user)
			continue
		}

		// Invoice first, advance second. If the invoice fails the cycle stays
		// put and the next sweep retries; if the user update fails the
		// duplicate guard hands back the existing invoice on retry.
		if _, ierr := s.invoiceService.CreateSubscriptionInvoice(ctx, user.Id, outcome.NewCycle); ierr != nil {
			s.logger.Error("ProgramService", "Sweep invoice creation failed", map[string]interface{}{
				"user_id": user.Id, "cycle": outcome.NewCycle, "error": ierr.Error(),
			})
			result.Errors++
			continue
		}

		user.ApplyProgramState(ps)
		if err := uow.UserRepository().Update(ctx, user); err != nil {
			s.logger.Error("ProgramService", "Billing sweep update failed", map[string]interface{}{
				"user_id": user.Id, "error": err.Error(),
			})
			result.Errors++
			continue
		}
		result.InvoicesCreated++
		s.publishProgramEvent(ctx, events.TypeProgramCycleAdvanced, user)
	}

	s.logger.Info("ProgramService", "Billing sweep finished", map[string]interface{}{
		"visited": result.UsersVisited, "invoices": result.InvoicesCreated,
		"completed": result.Completed, "downgraded": result.Downgraded, "errors": result.Errors,
	})

	return result, nil
}

func (s *programService) publishProgramEvent(ctx context.Context, eventType string, user *entity.User) {
	if s.eventPublisher == nil {
		return
	}
	evt := events.NewDomainEvent(eventType, map[string]interface{}{
		"user_id":       user.Id.String(),
		"client_name":   user.FullName,
		"client_email":  user.Email,
		"service_plan":  string(user.ServicePlan),
		"status":        string(user.SubscriptionStatus),
		"billing_cycle": user.CurrentBillingCycle,
	})
	if err := s.eventPublisher.Publish(ctx, evt); err != nil {
		s.logger.Warn("ProgramService", "Failed to publish program event", map[string]interface{}{
			"event": eventType, "user_id": user.Id, "error": err.Error(),
		})
	}
}

func toProgramStatusResponse(user *entity.User) *dto.ProgramStatusResponse {
	return &dto.ProgramStatusResponse{
		UserId:              user.Id,
		ServicePlan:         string(user.ServicePlan),
		SubscriptionStatus:  string(user.SubscriptionStatus),
		CurrentBillingCycle: user.CurrentBillingCycle,
		MaxBillingCycles:    user.MaxBillingCycles,
		MonthlyAmount:       user.MonthlyAmount,
		NextBillingDate:     user.NextBillingDate,
		ProgramStartDate:    user.ProgramStartDate,
		ProgramEndDate:      user.ProgramEndDate,
		PlannedDowngrade:    user.PlannedDowngrade,
	}
}
