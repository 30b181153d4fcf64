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
	"nutri-coach-be/pkg/meetings"
	pktNats "nutri-coach-be/pkg/nats"
	"nutri-coach-be/pkg/scheduling"
)

// bookableSlots are the coach's working-day grid used for availability.
var bookableSlots = []string{
	"09:00", "10:00", "11:00", "12:00",
	"14:00", "15:00", "16:00", "17:00",
}

type IAppointmentService interface {
	Book(ctx context.Context, userId uuid.UUID, req *dto.BookAppointmentRequest) (*dto.AppointmentResponse, error)
	ListMine(ctx context.Context, userId uuid.UUID) ([]*dto.AppointmentResponse, error)
	GetAvailability(ctx context.Context, date string) (*dto.AvailabilityResponse, error)

	ClientReschedule(ctx context.Context, userId, appointmentId uuid.UUID, req *dto.RescheduleRequest) (*dto.AppointmentResponse, error)
	ClientCancel(ctx context.Context, userId, appointmentId uuid.UUID) (*dto.AppointmentResponse, error)
	ClientAcceptProposal(ctx context.Context, userId, appointmentId uuid.UUID) (*dto.AppointmentResponse, error)

	AdminList(ctx context.Context, date string) ([]*dto.AppointmentResponse, error)
	AdminUpdateStatus(ctx context.Context, appointmentId uuid.UUID, req *dto.UpdateStatusRequest) (*dto.AppointmentResponse, error)
	AdminApplyNoShowPenalty(ctx context.Context, appointmentId uuid.UUID) (*dto.AppointmentResponse, error)

	// SendDailyReminders fans a reminder event out to every confirmed
	// appointment scheduled for tomorrow. Pure fan-out, no state mutation.
	SendDailyReminders(ctx context.Context) (int, error)
}

type appointmentService struct {
	uowFactory     unitofwork.RepositoryFactory
	invoiceService IInvoiceService
	meetingClient  meetings.IMeetingClient
	eventPublisher *pktNats.Publisher
	logger         logger.ILogger
	location       *time.Location
}

func NewAppointmentService(
	uowFactory unitofwork.RepositoryFactory,
	invoiceService IInvoiceService,
	meetingClient meetings.IMeetingClient,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
	location *time.Location,
) IAppointmentService {
	if location == nil {
		location = time.Local
	}
	return &appointmentService{
		uowFactory:     uowFactory,
		invoiceService: invoiceService,
		meetingClient:  meetingClient,
		eventPublisher: eventPublisher,
		logger:         log,
		location:       location,
	}
}

func (s *appointmentService) Book(ctx context.Context, userId uuid.UUID, req *dto.BookAppointmentRequest) (*dto.AppointmentResponse, error) {
	apptType, err := scheduling.ParseAppointmentType(req.Type)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New("user not found")
	}

	if err := s.checkSlotFree(ctx, uow, req.Date, req.Timeslot); err != nil {
		return nil, err
	}

	appt := &entity.Appointment{
		UserId:      userId,
		ClientName:  user.FullName,
		ClientEmail: user.Email,
		Type:        apptType,
		Date:        req.Date,
		Timeslot:    req.Timeslot,
		Status:      scheduling.StatusPending,
	}

	if err := uow.AppointmentRepository().Create(ctx, appt); err != nil {
		return nil, err
	}

	s.publishAppointmentEvent(ctx, events.TypeAppointmentBooked, appt)

	return toAppointmentResponse(appt), nil
}

func (s *appointmentService) ListMine(ctx context.Context, userId uuid.UUID) ([]*dto.AppointmentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	appts, err := uow.AppointmentRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "date", Desc: true},
	)
	if err != nil {
		return nil, err
	}
	return toAppointmentResponses(appts), nil
}

func (s *appointmentService) GetAvailability(ctx context.Context, date string) (*dto.AvailabilityResponse, error) {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, &scheduling.ValidationError{Field: "date", Reason: "expected YYYY-MM-DD"}
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	taken, err := uow.AppointmentRepository().FindAll(ctx,
		specification.OnDate{Date: date},
		specification.NonTerminal{},
	)
	if err != nil {
		return nil, err
	}

	takenSlots := make(map[string]bool, len(taken))
	for _, a := range taken {
		takenSlots[a.Timeslot] = true
	}

	free := make([]string, 0, len(bookableSlots))
	for _, slot := range bookableSlots {
		if !takenSlots[slot] {
			free = append(free, slot)
		}
	}

	return &dto.AvailabilityResponse{Date: date, Slots: free}, nil
}

// ClientReschedule moves the appointment to the proposed slot and parks it in
// clientRescheduleRequested until the coach reacts. The old slot is recorded
// in the history.
func (s *appointmentService) ClientReschedule(ctx context.Context, userId, appointmentId uuid.UUID, req *dto.RescheduleRequest) (*dto.AppointmentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	appt, err := s.findOwnedAppointment(ctx, uow, userId, appointmentId)
	if err != nil {
		return nil, err
	}

	proposedAt, err := time.ParseInLocation("2006-01-02 15:04", req.NewDate+" "+req.NewTimeslot, s.location)
	if err != nil {
		return nil, &scheduling.ValidationError{Field: "new_date", Reason: "invalid proposed slot"}
	}

	outcome, err := scheduling.Decide(scheduling.TransitionRequest{
		From:          appt.Status,
		To:            scheduling.StatusClientRescheduleRequested,
		Actor:         scheduling.ActorClient,
		AppointmentAt: appt.StartAt(s.location),
		ProposedAt:    &proposedAt,
		Now:           time.Now(),
	})
	if err != nil {
		return nil, err
	}

	if err := s.checkSlotFree(ctx, uow, req.NewDate, req.NewTimeslot); err != nil {
		return nil, err
	}

	s.applyMove(appt, req.NewDate, req.NewTimeslot, scheduling.ActorClient, outcome)

	if err := uow.AppointmentRepository().Update(ctx, appt); err != nil {
		return nil, err
	}

	s.publishAppointmentEvent(ctx, events.TypeRescheduleRequested, appt)

	return toAppointmentResponse(appt), nil
}

func (s *appointmentService) ClientCancel(ctx context.Context, userId, appointmentId uuid.UUID) (*dto.AppointmentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	appt, err := s.findOwnedAppointment(ctx, uow, userId, appointmentId)
	if err != nil {
		return nil, err
	}

	outcome, err := scheduling.Decide(scheduling.TransitionRequest{
		From:          appt.Status,
		To:            scheduling.StatusCancelledClient,
		Actor:         scheduling.ActorClient,
		AppointmentAt: appt.StartAt(s.location),
		Now:           time.Now(),
	})
	if err != nil {
		return nil, err
	}

	appt.Status = outcome.Status
	if err := uow.AppointmentRepository().Update(ctx, appt); err != nil {
		return nil, err
	}

	s.cancelMeeting(ctx, appt)
	s.publishAppointmentEvent(ctx, events.TypeAppointmentCancelled, appt)

	return toAppointmentResponse(appt), nil
}

// ClientAcceptProposal confirms a coach-proposed reschedule.
func (s *appointmentService) ClientAcceptProposal(ctx context.Context, userId, appointmentId uuid.UUID) (*dto.AppointmentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	appt, err := s.findOwnedAppointment(ctx, uow, userId, appointmentId)
	if err != nil {
		return nil, err
	}

	outcome, err := scheduling.Decide(scheduling.TransitionRequest{
		From:          appt.Status,
		To:            scheduling.StatusConfirmed,
		Actor:         scheduling.ActorClient,
		AppointmentAt: appt.StartAt(s.location),
		Now:           time.Now(),
	})
	if err != nil {
		return nil, err
	}

	appt.Status = outcome.Status
	if err := uow.AppointmentRepository().Update(ctx, appt); err != nil {
		return nil, err
	}

	s.publishAppointmentEvent(ctx, events.TypeRescheduleConfirmed, appt)

	return toAppointmentResponse(appt), nil
}

func (s *appointmentService) AdminList(ctx context.Context, date string) ([]*dto.AppointmentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	specs := []specification.Specification{
		specification.OrderBy{Field: "date", Desc: false},
	}
	if date != "" {
		specs = append(specs, specification.OnDate{Date: date})
	}

	appts, err := uow.AppointmentRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}
	return toAppointmentResponses(appts), nil
}

// AdminUpdateStatus is the generic admin transition endpoint. Reschedule
// targets carry a proposed slot; entering confirmed triggers the meeting
// side effect, entering done triggers the session invoice. Both side effects
// are non-fatal.
func (s *appointmentService) AdminUpdateStatus(ctx context.Context, appointmentId uuid.UUID, req *dto.UpdateStatusRequest) (*dto.AppointmentResponse, error) {
	target, err := scheduling.ParseStatus(req.Status)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	appt, err := uow.AppointmentRepository().FindOne(ctx, specification.ByID{ID: appointmentId})
	if err != nil {
		return nil, err
	}
	if appt == nil {
		return nil, errors.New("appointment not found")
	}

	treq := scheduling.TransitionRequest{
		From:          appt.Status,
		To:            target,
		Actor:         scheduling.ActorAdmin,
		AppointmentAt: appt.StartAt(s.location),
		Now:           time.Now(),
	}

	moving := req.NewDate != "" && req.NewTimeslot != ""
	if moving {
		proposedAt, perr := time.ParseInLocation("2006-01-02 15:04", req.NewDate+" "+req.NewTimeslot, s.location)
		if perr != nil {
			return nil, &scheduling.ValidationError{Field: "new_date", Reason: "invalid proposed slot"}
		}
		treq.ProposedAt = &proposedAt
	}

	outcome, err := scheduling.Decide(treq)
	if err != nil {
		return nil, err
	}

	if moving {
		if err := s.checkSlotFree(ctx, uow, req.NewDate, req.NewTimeslot); err != nil {
			return nil, err
		}
		s.applyMove(appt, req.NewDate, req.NewTimeslot, scheduling.ActorAdmin, outcome)
	} else {
		appt.Status = outcome.Status
		if outcome.LateReschedule {
			appt.LateReschedule = true
			appt.PotentialLateFee = outcome.PotentialLateFee
		}
	}

	if err := uow.AppointmentRepository().Update(ctx, appt); err != nil {
		return nil, err
	}

	switch outcome.Status {
	case scheduling.StatusConfirmed:
		s.createMeeting(ctx, uow, appt)
		s.publishAppointmentEvent(ctx, events.TypeAppointmentConfirmed, appt)
	case scheduling.StatusDone:
		if _, ierr := s.invoiceService.CreateSessionInvoice(ctx, appt.Id); ierr != nil {
			s.logger.Error("AppointmentService", "Failed to create session invoice", map[string]interface{}{
				"appointment_id": appt.Id, "error": ierr.Error(),
			})
		}
		s.publishAppointmentEvent(ctx, events.TypeAppointmentDone, appt)
	case scheduling.StatusCancelled, scheduling.StatusCancelledReschedule:
		s.cancelMeeting(ctx, appt)
		s.publishAppointmentEvent(ctx, events.TypeAppointmentCancelled, appt)
	case scheduling.StatusCoachRescheduleRequest:
		s.publishAppointmentEvent(ctx, events.TypeRescheduleProposed, appt)
	case scheduling.StatusNoShow:
		s.publishAppointmentEvent(ctx, events.TypeAppointmentNoShow, appt)
	}

	return toAppointmentResponse(appt), nil
}

// AdminApplyNoShowPenalty closes a missed appointment: the session is
// cancelled, the penalty (half the base price) is recorded and invoiced.
func (s *appointmentService) AdminApplyNoShowPenalty(ctx context.Context, appointmentId uuid.UUID) (*dto.AppointmentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	appt, err := uow.AppointmentRepository().FindOne(ctx, specification.ByID{ID: appointmentId})
	if err != nil {
		return nil, err
	}
	if appt == nil {
		return nil, errors.New("appointment not found")
	}

	outcome, err := scheduling.Decide(scheduling.TransitionRequest{
		From:          appt.Status,
		To:            scheduling.StatusCancelled,
		Actor:         scheduling.ActorAdmin,
		AppointmentAt: appt.StartAt(s.location),
		Now:           time.Now(),
	})
	if err != nil {
		return nil, err
	}

	appt.Status = outcome.Status
	appt.NoShowPenalty = scheduling.NoShowPenalty(appt.Type)

	if err := uow.AppointmentRepository().Update(ctx, appt); err != nil {
		return nil, err
	}

	if _, ierr := s.invoiceService.CreatePenaltyInvoice(ctx, appt.Id, billing.PenaltyNoShow); ierr != nil {
		s.logger.Error("AppointmentService", "Failed to create penalty invoice", map[string]interface{}{
			"appointment_id": appt.Id, "error": ierr.Error(),
		})
	}

	s.cancelMeeting(ctx, appt)
	s.publishAppointmentEvent(ctx, events.TypeAppointmentNoShow, appt)

	return toAppointmentResponse(appt), nil
}

// SendDailyReminders publishes a reminder event for every confirmed
// appointment scheduled for tomorrow. Running it twice on the same day
// enqueues duplicate reminders at worst; no appointment is mutated.
func (s *appointmentService) SendDailyReminders(ctx context.Context) (int, error) {
	tomorrow := time.Now().In(s.location).AddDate(0, 0, 1).Format("2006-01-02")

	uow := s.uowFactory.NewUnitOfWork(ctx)
	appts, err := uow.AppointmentRepository().FindAll(ctx,
		specification.OnDate{Date: tomorrow},
		specification.StatusIs{Status: scheduling.StatusConfirmed},
	)
	if err != nil {
		return 0, err
	}

	for _, appt := range appts {
		s.publishAppointmentEvent(ctx, events.TypeAppointmentReminder, appt)
	}
	return len(appts), nil
}

// checkSlotFree enforces one live appointment per (date, timeslot). Terminal
// appointments free their slot.
func (s *appointmentService) checkSlotFree(ctx context.Context, uow unitofwork.UnitOfWork, date, timeslot string) error {
	count, err := uow.AppointmentRepository().Count(ctx,
		specification.BySlot{Date: date, Timeslot: timeslot},
		specification.NonTerminal{},
	)
	if err != nil {
		return err
	}
	if count > 0 {
		return &scheduling.SlotConflictError{Date: date, Timeslot: timeslot}
	}
	return nil
}

// applyMove rewrites the slot, appends the history entry and applies the
// transition outcome including the late flags.
func (s *appointmentService) applyMove(appt *entity.Appointment, newDate, newTimeslot string, actor scheduling.Actor, outcome scheduling.Outcome) {
	appt.RescheduleHistory = append(appt.RescheduleHistory, entity.RescheduleEntry{
		FromDate:     appt.Date,
		FromTimeslot: appt.Timeslot,
		ToDate:       newDate,
		ToTimeslot:   newTimeslot,
		Actor:        string(actor),
		Late:         outcome.LateReschedule,
		MovedAt:      time.Now(),
	})
	appt.Date = newDate
	appt.Timeslot = newTimeslot
	appt.Status = outcome.Status
	if outcome.LateReschedule {
		appt.LateReschedule = true
		appt.PotentialLateFee = outcome.PotentialLateFee
	}
}

func (s *appointmentService) findOwnedAppointment(ctx context.Context, uow unitofwork.UnitOfWork, userId, appointmentId uuid.UUID) (*entity.Appointment, error) {
	appt, err := uow.AppointmentRepository().FindOne(ctx,
		specification.ByID{ID: appointmentId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if appt == nil {
		return nil, errors.New("appointment not found")
	}
	return appt, nil
}

// createMeeting attaches a video meeting to a confirmed appointment. A
// meeting failure never blocks the confirmation.
func (s *appointmentService) createMeeting(ctx context.Context, uow unitofwork.UnitOfWork, appt *entity.Appointment) {
	if s.meetingClient == nil || appt.TeamsMeetingId != nil {
		return
	}

	startAt := appt.StartAt(s.location)
	meeting, err := s.meetingClient.CreateMeeting(ctx,
		string(appt.Type)+" consultation - "+appt.ClientName,
		startAt, startAt.Add(entity.AppointmentDuration),
	)
	if err != nil {
		s.logger.Warn("AppointmentService", "Failed to create meeting", map[string]interface{}{
			"appointment_id": appt.Id, "error": err.Error(),
		})
		return
	}

	appt.TeamsMeetingId = &meeting.Id
	appt.TeamsJoinUrl = &meeting.JoinUrl
	if err := uow.AppointmentRepository().Update(ctx, appt); err != nil {
		s.logger.Warn("AppointmentService", "Failed to persist meeting link", map[string]interface{}{
			"appointment_id": appt.Id, "error": err.Error(),
		})
	}
}

func (s *appointmentService) cancelMeeting(ctx context.Context, appt *entity.Appointment) {
	if s.meetingClient == nil || appt.TeamsMeetingId == nil {
		return
	}
	if err := s.meetingClient.CancelMeeting(ctx, *appt.TeamsMeetingId); err != nil {
		s.logger.Warn("AppointmentService", "Failed to cancel meeting", map[string]interface{}{
			"appointment_id": appt.Id, "error": err.Error(),
		})
	}
}

func (s *appointmentService) publishAppointmentEvent(ctx context.Context, eventType string, appt *entity.Appointment) {
	if s.eventPublisher == nil {
		return
	}
	evt := events.NewDomainEvent(eventType, map[string]interface{}{
		"appointment_id": appt.Id.String(),
		"user_id":        appt.UserId.String(),
		"client_name":    appt.ClientName,
		"client_email":   appt.ClientEmail,
		"type":           string(appt.Type),
		"date":           appt.Date,
		"timeslot":       appt.Timeslot,
		"status":         string(appt.Status),
	})
	if err := s.eventPublisher.Publish(ctx, evt); err != nil {
		s.logger.Warn("AppointmentService", "Failed to publish appointment event", map[string]interface{}{
			"event": eventType, "appointment_id": appt.Id, "error": err.Error(),
		})
	}
}

func toAppointmentResponse(a *entity.Appointment) *dto.AppointmentResponse {
	history := make([]dto.RescheduleEntryResponse, len(a.RescheduleHistory))
	for i, h := range a.RescheduleHistory {
		history[i] = dto.RescheduleEntryResponse{
			FromDate:     h.FromDate,
			FromTimeslot: h.FromTimeslot,
			ToDate:       h.ToDate,
			ToTimeslot:   h.ToTimeslot,
			Actor:        h.Actor,
			Late:         h.Late,
			MovedAt:      h.MovedAt,
		}
	}
	return &dto.AppointmentResponse{
		Id:                a.Id,
		Type:              string(a.Type),
		Date:              a.Date,
		Timeslot:          a.Timeslot,
		Status:            string(a.Status),
		LateReschedule:    a.LateReschedule,
		PotentialLateFee:  a.PotentialLateFee,
		NoShowPenalty:     a.NoShowPenalty,
		TeamsJoinUrl:      a.TeamsJoinUrl,
		RescheduleHistory: history,
		ConsentSubmitted:  a.ConsentFormSubmitted,
		PreEvalCompleted:  a.PreEvaluationCompleted,
		CreatedAt:         a.CreatedAt,
	}
}

func toAppointmentResponses(appts []*entity.Appointment) []*dto.AppointmentResponse {
	res := make([]*dto.AppointmentResponse, len(appts))
	for i, a := range appts {
		res[i] = toAppointmentResponse(a)
	}
	return res
}
