package scheduling

import (
	"math"
	"time"
)

const (
	// LateRescheduleFee is the flat fee (EUR) applied when a reschedule
	// lands inside the late window.
	LateRescheduleFee = 5.0

	// lateRescheduleWindow is how close to the appointment a reschedule
	// counts as late.
	lateRescheduleWindow = 4 * time.Hour

	// clientModificationWindow is the cutoff before the appointment start
	// after which client-initiated changes are rejected.
	clientModificationWindow = 30 * time.Minute
)

// BasePrice returns the session price (EUR) for an appointment type.
func BasePrice(t AppointmentType) float64 {
	if t == TypeInitial {
		return 75
	}
	return 50
}

// NoShowPenalty is 50% of the session base price, rounded half-up.
func NoShowPenalty(t AppointmentType) float64 {
	return math.Round(BasePrice(t) * 0.5)
}

// transitions is the single authoritative table. Every entry point (client
// portal, admin endpoints, scheduled jobs) decides through it; none re-derive
// status rules locally.
var transitions = map[Actor]map[Status][]Status{
	ActorAdmin: {
		StatusPending:   {StatusConfirmed, StatusCancelled},
		StatusConfirmed: {StatusDone, StatusCancelled, StatusCoachRescheduleRequest, StatusNoShow},
		StatusClientRescheduleRequested: {
			StatusConfirmRescheduleRequest,
			StatusCancelledReschedule,
			StatusConfirmed,
		},
		StatusConfirmRescheduleRequest: {StatusConfirmed, StatusCancelled},
		StatusCoachRescheduleRequest:   {StatusConfirmed, StatusCancelled},
	},
	ActorClient: {
		StatusConfirmed:              {StatusClientRescheduleRequested},
		StatusCoachRescheduleRequest: {StatusConfirmed},
	},
}

// rescheduleTargets are statuses whose entry means a new date/time is in play,
// which triggers the late-fee computation.
var rescheduleTargets = map[Status]bool{
	StatusClientRescheduleRequested: true,
	StatusConfirmRescheduleRequest:  true,
	StatusCoachRescheduleRequest:    true,
}

// TransitionRequest carries everything Decide needs; it never touches storage.
type TransitionRequest struct {
	From  Status
	To    Status
	Actor Actor

	// AppointmentAt is the currently scheduled start time.
	AppointmentAt time.Time
	// ProposedAt is the newly proposed start time, when the transition
	// carries a reschedule proposal.
	ProposedAt *time.Time
	Now        time.Time
}

// Outcome is an accepted transition plus its derived side-effect flags.
type Outcome struct {
	Status           Status
	LateReschedule   bool
	PotentialLateFee float64
}

// Decide validates a requested transition and computes its derived flags.
// Terminal appointments reject everything; clients additionally lose the
// right to modify inside the 30-minute window. It is the one place status
// rules live.
func Decide(req TransitionRequest) (Outcome, error) {
	if IsTerminal(req.From) {
		return Outcome{}, &ModificationWindowClosedError{
			Status: req.From,
			Reason: "appointment is in terminal status " + string(req.From),
		}
	}

	if req.Actor == ActorClient {
		// cancelled_client is allowed from any non-terminal status, subject
		// only to the window.
		if req.To == StatusCancelledClient {
			if err := checkClientWindow(req); err != nil {
				return Outcome{}, err
			}
			return Outcome{Status: StatusCancelledClient}, nil
		}
		if err := checkClientWindow(req); err != nil {
			return Outcome{}, err
		}
	}

	allowed := false
	for _, to := range transitions[req.Actor][req.From] {
		if to == req.To {
			allowed = true
			break
		}
	}
	if !allowed {
		return Outcome{}, &IllegalTransitionError{From: req.From, To: req.To, Actor: req.Actor}
	}

	out := Outcome{Status: req.To}
	if rescheduleTargets[req.To] {
		out.LateReschedule = isLate(req)
		if out.LateReschedule {
			out.PotentialLateFee = LateRescheduleFee
		}
	}
	return out, nil
}

func checkClientWindow(req TransitionRequest) error {
	if req.AppointmentAt.Sub(req.Now) < clientModificationWindow {
		return &ModificationWindowClosedError{
			Status: req.From,
			Reason: "changes must be made at least 30 minutes before the appointment",
		}
	}
	return nil
}

// isLate flags a reschedule when the original slot is within 4 hours, or the
// proposed slot itself lands within 4 hours.
func isLate(req TransitionRequest) bool {
	if req.AppointmentAt.Sub(req.Now) <= lateRescheduleWindow {
		return true
	}
	if req.ProposedAt != nil && req.ProposedAt.Sub(req.Now) <= lateRescheduleWindow {
		return true
	}
	return false
}
