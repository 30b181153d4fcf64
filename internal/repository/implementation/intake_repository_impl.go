package implementation

import (
	"context"

	"gorm.io/gorm"

	"nutri-coach-be/internal/entity"
	"nutri-coach-be/internal/mapper"
	"nutri-coach-be/internal/model"
	"nutri-coach-be/internal/repository/contract"
	"nutri-coach-be/internal/repository/specification"
)

type IntakeRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.IntakeMapper
}

func NewIntakeRepository(db *gorm.DB) contract.IntakeRepository {
	return &IntakeRepositoryImpl{
		db:     db,
		mapper: mapper.NewIntakeMapper(),
	}
}

func (r *IntakeRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *IntakeRepositoryImpl) CreateConsent(ctx context.Context, record *entity.ConsentRecord) error {
	m := r.mapper.ConsentToModel(record)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*record = *r.mapper.ConsentToEntity(m)
	return nil
}

func (r *IntakeRepositoryImpl) FindConsents(ctx context.Context, specs ...specification.Specification) ([]*entity.ConsentRecord, error) {
	var models []*model.ConsentRecord
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	records := make([]*entity.ConsentRecord, len(models))
	for i, m := range models {
		records[i] = r.mapper.ConsentToEntity(m)
	}
	return records, nil
}

func (r *IntakeRepositoryImpl) CreatePreEvaluation(ctx context.Context, evaluation *entity.PreEvaluation) error {
	m := r.mapper.PreEvaluationToModel(evaluation)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*evaluation = *r.mapper.PreEvaluationToEntity(m)
	return nil
}

func (r *IntakeRepositoryImpl) FindPreEvaluations(ctx context.Context, specs ...specification.Specification) ([]*entity.PreEvaluation, error) {
	var models []*model.PreEvaluation
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	evaluations := make([]*entity.PreEvaluation, len(models))
	for i, m := range models {
		evaluations[i] = r.mapper.PreEvaluationToEntity(m)
	}
	return evaluations, nil
}
