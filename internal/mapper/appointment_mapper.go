package mapper

import (
	"encoding/json"

	"gorm.io/datatypes"

	"nutri-coach-be/internal/entity"
	"nutri-coach-be/internal/model"
	"nutri-coach-be/pkg/scheduling"
)

type AppointmentMapper struct{}

func NewAppointmentMapper() *AppointmentMapper {
	return &AppointmentMapper{}
}

func (m *AppointmentMapper) ToEntity(a *model.Appointment) *entity.Appointment {
	if a == nil {
		return nil
	}

	var history []entity.RescheduleEntry
	if len(a.RescheduleHistory) > 0 {
		// Tolerate legacy rows with malformed history rather than failing reads.
		_ = json.Unmarshal(a.RescheduleHistory, &history)
	}

	return &entity.Appointment{
		Id:                     a.Id,
		UserId:                 a.UserId,
		ClientName:             a.ClientName,
		ClientEmail:            a.ClientEmail,
		Type:                   scheduling.AppointmentType(a.Type),
		Date:                   a.Date,
		Timeslot:               a.Timeslot,
		Status:                 scheduling.Status(a.Status),
		RescheduleHistory:      history,
		LateReschedule:         a.LateReschedule,
		PotentialLateFee:       a.PotentialLateFee,
		NoShowPenalty:          a.NoShowPenalty,
		TeamsJoinUrl:           a.TeamsJoinUrl,
		TeamsMeetingId:         a.TeamsMeetingId,
		InvoiceGenerated:       a.InvoiceGenerated,
		ConsentFormSubmitted:   a.ConsentFormSubmitted,
		PreEvaluationCompleted: a.PreEvaluationCompleted,
		CreatedAt:              a.CreatedAt,
		UpdatedAt:              a.UpdatedAt,
	}
}

func (m *AppointmentMapper) ToModel(a *entity.Appointment) *model.Appointment {
	if a == nil {
		return nil
	}

	var history datatypes.JSON
	if a.RescheduleHistory != nil {
		raw, _ := json.Marshal(a.RescheduleHistory)
		history = datatypes.JSON(raw)
	}

	return &model.Appointment{
		Id:                     a.Id,
		UserId:                 a.UserId,
		ClientName:             a.ClientName,
		ClientEmail:            a.ClientEmail,
		Type:                   string(a.Type),
		Date:                   a.Date,
		Timeslot:               a.Timeslot,
		Status:                 string(a.Status),
		RescheduleHistory:      history,
		LateReschedule:         a.LateReschedule,
		PotentialLateFee:       a.PotentialLateFee,
		NoShowPenalty:          a.NoShowPenalty,
		TeamsJoinUrl:           a.TeamsJoinUrl,
		TeamsMeetingId:         a.TeamsMeetingId,
		InvoiceGenerated:       a.InvoiceGenerated,
		ConsentFormSubmitted:   a.ConsentFormSubmitted,
		PreEvaluationCompleted: a.PreEvaluationCompleted,
		CreatedAt:              a.CreatedAt,
		UpdatedAt:              a.UpdatedAt,
	}
}
