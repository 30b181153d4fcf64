package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"nutri-coach-be/internal/dto"
	"nutri-coach-be/internal/entity"
	"nutri-coach-be/internal/repository/specification"
	"nutri-coach-be/internal/repository/unitofwork"
)

type IIntakeService interface {
	SubmitConsent(ctx context.Context, userId uuid.UUID, req *dto.ConsentRequest) (*dto.ConsentResponse, error)
	SubmitPreEvaluation(ctx context.Context, userId uuid.UUID, req *dto.PreEvaluationRequest) (*dto.PreEvaluationResponse, error)
}

type intakeService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewIntakeService(uowFactory unitofwork.RepositoryFactory) IIntakeService {
	return &intakeService{
		uowFactory: uowFactory,
	}
}

func (s *intakeService) SubmitConsent(ctx context.Context, userId uuid.UUID, req *dto.ConsentRequest) (*dto.ConsentResponse, error) {
	if !req.Accepted {
		return nil, errors.New("consent must be accepted to submit")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	appt, err := uow.AppointmentRepository().FindOne(ctx,
		specification.ByID{ID: req.AppointmentId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if appt == nil {
		return nil, errors.New("appointment not found")
	}

	record := &entity.ConsentRecord{
		UserId:        userId,
		AppointmentId: &req.AppointmentId,
		FullName:      req.FullName,
		Accepted:      true,
		SignedAt:      time.Now(),
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.IntakeRepository().CreateConsent(ctx, record); err != nil {
		return nil, err
	}

	appt.ConsentFormSubmitted = true
	if err := uow.AppointmentRepository().Update(ctx, appt); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	return &dto.ConsentResponse{
		Id:            record.Id,
		AppointmentId: req.AppointmentId,
		FullName:      record.FullName,
		SignedAt:      record.SignedAt,
	}, nil
}

func (s *intakeService) SubmitPreEvaluation(ctx context.Context, userId uuid.UUID, req *dto.PreEvaluationRequest) (*dto.PreEvaluationResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	appt, err := uow.AppointmentRepository().FindOne(ctx,
		specification.ByID{ID: req.AppointmentId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if appt == nil {
		return nil, errors.New("appointment not found")
	}

	evaluation := &entity.PreEvaluation{
		UserId:        userId,
		AppointmentId: &req.AppointmentId,
		Answers:       req.Answers,
		CompletedAt:   time.Now(),
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.IntakeRepository().CreatePreEvaluation(ctx, evaluation); err != nil {
		return nil, err
	}

	appt.PreEvaluationCompleted = true
	if err := uow.AppointmentRepository().Update(ctx, appt); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	return &dto.PreEvaluationResponse{
		Id:            evaluation.Id,
		AppointmentId: req.AppointmentId,
		CompletedAt:   evaluation.CompletedAt,
	}, nil
}
