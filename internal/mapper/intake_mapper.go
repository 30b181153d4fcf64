package mapper

import (
	"encoding/json"

	"gorm.io/datatypes"

	"nutri-coach-be/internal/entity"
	"nutri-coach-be/internal/model"
)

type IntakeMapper struct{}

func NewIntakeMapper() *IntakeMapper {
	return &IntakeMapper{}
}

func (m *IntakeMapper) ConsentToEntity(c *model.ConsentRecord) *entity.ConsentRecord {
	if c == nil {
		return nil
	}
	return &entity.ConsentRecord{
		Id:            c.Id,
		UserId:        c.UserId,
		AppointmentId: c.AppointmentId,
		FullName:      c.FullName,
		Accepted:      c.Accepted,
		SignedAt:      c.SignedAt,
		CreatedAt:     c.CreatedAt,
	}
}

func (m *IntakeMapper) ConsentToModel(c *entity.ConsentRecord) *model.ConsentRecord {
	if c == nil {
		return nil
	}
	return &model.ConsentRecord{
		Id:            c.Id,
		UserId:        c.UserId,
		AppointmentId: c.AppointmentId,
		FullName:      c.FullName,
		Accepted:      c.Accepted,
		SignedAt:      c.SignedAt,
		CreatedAt:     c.CreatedAt,
	}
}

func (m *IntakeMapper) PreEvaluationToEntity(p *model.PreEvaluation) *entity.PreEvaluation {
	if p == nil {
		return nil
	}

	var answers map[string]interface{}
	if len(p.Answers) > 0 {
		_ = json.Unmarshal(p.Answers, &answers)
	}

	return &entity.PreEvaluation{
		Id:            p.Id,
		UserId:        p.UserId,
		AppointmentId: p.AppointmentId,
		Answers:       answers,
		CompletedAt:   p.CompletedAt,
		CreatedAt:     p.CreatedAt,
	}
}

func (m *IntakeMapper) PreEvaluationToModel(p *entity.PreEvaluation) *model.PreEvaluation {
	if p == nil {
		return nil
	}

	var answers datatypes.JSON
	if p.Answers != nil {
		raw, _ := json.Marshal(p.Answers)
		answers = datatypes.JSON(raw)
	}

	return &model.PreEvaluation{
		Id:            p.Id,
		UserId:        p.UserId,
		AppointmentId: p.AppointmentId,
		Answers:       answers,
		CompletedAt:   p.CompletedAt,
		CreatedAt:     p.CreatedAt,
	}
}
