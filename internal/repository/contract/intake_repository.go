package contract

import (
	"context"

	"nutri-coach-be/internal/entity"
	"nutri-coach-be/internal/repository/specification"
)

type IntakeRepository interface {
	CreateConsent(ctx context.Context, record *entity.ConsentRecord) error
	FindConsents(ctx context.Context, specs ...specification.Specification) ([]*entity.ConsentRecord, error)

	CreatePreEvaluation(ctx context.Context, evaluation *entity.PreEvaluation) error
	FindPreEvaluations(ctx context.Context, specs ...specification.Specification) ([]*entity.PreEvaluation, error)
}
