package mapper

import (
	"encoding/json"

	"gorm.io/datatypes"

	"nutri-coach-be/internal/entity"
	"nutri-coach-be/internal/model"
)

type MailMapper struct{}

func NewMailMapper() *MailMapper {
	return &MailMapper{}
}

func (m *MailMapper) ToEntity(e *model.MailEntry) *entity.MailEntry {
	if e == nil {
		return nil
	}

	var payload map[string]interface{}
	if len(e.Payload) > 0 {
		_ = json.Unmarshal(e.Payload, &payload)
	}

	return &entity.MailEntry{
		Id:        e.Id,
		To:        e.To,
		ToName:    e.ToName,
		Type:      e.Type,
		Payload:   payload,
		Status:    entity.MailStatus(e.Status),
		Error:     e.Error,
		SentAt:    e.SentAt,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

func (m *MailMapper) ToModel(e *entity.MailEntry) *model.MailEntry {
	if e == nil {
		return nil
	}

	var payload datatypes.JSON
	if e.Payload != nil {
		raw, _ := json.Marshal(e.Payload)
		payload = datatypes.JSON(raw)
	}

	return &model.MailEntry{
		Id:        e.Id,
		To:        e.To,
		ToName:    e.ToName,
		Type:      e.Type,
		Payload:   payload,
		Status:    string(e.Status),
		Error:     e.Error,
		SentAt:    e.SentAt,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

func (m *MailMapper) TemplateToEntity(t *model.MailTemplate) *entity.MailTemplate {
	if t == nil {
		return nil
	}
	return &entity.MailTemplate{
		Id:        t.Id,
		Code:      t.Code,
		Subject:   t.Subject,
		BodyHtml:  t.BodyHtml,
		IsActive:  t.IsActive,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

func (m *MailMapper) TemplateToModel(t *entity.MailTemplate) *model.MailTemplate {
	if t == nil {
		return nil
	}
	return &model.MailTemplate{
		Id:        t.Id,
		Code:      t.Code,
		Subject:   t.Subject,
		BodyHtml:  t.BodyHtml,
		IsActive:  t.IsActive,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}
