package implementation

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"nutri-coach-be/internal/entity"
	"nutri-coach-be/internal/mapper"
	"nutri-coach-be/internal/model"
	"nutri-coach-be/internal/repository/contract"
	"nutri-coach-be/internal/repository/specification"
)

type MailRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.MailMapper
}

func NewMailRepository(db *gorm.DB) contract.MailRepository {
	return &MailRepositoryImpl{
		db:     db,
		mapper: mapper.NewMailMapper(),
	}
}

func (r *MailRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *MailRepositoryImpl) Create(ctx context.Context, entry *entity.MailEntry) error {
	m := r.mapper.ToModel(entry)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*entry = *r.mapper.ToEntity(m)
	return nil
}

func (r *MailRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.MailEntry, error) {
	var m model.MailEntry
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *MailRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.MailEntry, error) {
	var models []*model.MailEntry
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entries := make([]*entity.MailEntry, len(models))
	for i, m := range models {
		entries[i] = r.mapper.ToEntity(m)
	}
	return entries, nil
}

// Claim flips a pending entry to sending with a conditional update. Two
// workers racing on the same entry resolve on RowsAffected: exactly one
// sees 1, the other sees 0 and drops the message.
func (r *MailRepositoryImpl) Claim(ctx context.Context, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&model.MailEntry{}).
		Where("id = ? AND status = ?", id, string(entity.MailStatusPending)).
		Update("status", string(entity.MailStatusSending))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *MailRepositoryImpl) MarkSent(ctx context.Context, id uuid.UUID) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&model.MailEntry{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":  string(entity.MailStatusSent),
			"sent_at": now,
			"error":   nil,
		}).Error
}

func (r *MailRepositoryImpl) MarkFailed(ctx context.Context, id uuid.UUID, reason string) error {
	return r.db.WithContext(ctx).
		Model(&model.MailEntry{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status": string(entity.MailStatusFailed),
			"error":  reason,
		}).Error
}

func (r *MailRepositoryImpl) FindTemplateByCode(ctx context.Context, code string) (*entity.MailTemplate, error) {
	var m model.MailTemplate
	err := r.db.WithContext(ctx).
		Where("code = ? AND is_active = ?", code, true).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.TemplateToEntity(&m), nil
}

func (r *MailRepositoryImpl) UpsertTemplate(ctx context.Context, template *entity.MailTemplate) error {
	m := r.mapper.TemplateToModel(template)
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "code"}},
			DoUpdates: clause.AssignmentColumns([]string{"subject", "body_html", "is_active", "updated_at"}),
		}).
		Create(m).Error
	if err != nil {
		return err
	}
	*template = *r.mapper.TemplateToEntity(m)
	return nil
}
