package scheduling

// Status is the closed set of appointment lifecycle states.
// The string values are the persisted representation; anything else is
// rejected at the API boundary (see ParseStatus).
type Status string

const (
	StatusPending                   Status = "pending"
	StatusConfirmed                 Status = "confirmed"
	StatusDone                      Status = "done"
	StatusCancelled                 Status = "cancelled"
	StatusCancelledClient           Status = "cancelled_client"
	StatusCancelledReschedule       Status = "cancelled_reschedule"
	StatusClientRescheduleRequested Status = "clientRescheduleRequested"
	StatusConfirmRescheduleRequest  Status = "confirmRescheduleRequest"
	StatusCoachRescheduleRequest    Status = "veeRescheduleRequest"
	StatusNoShow                    Status = "no-show"
)

// Actor identifies who is attempting a transition.
type Actor string

const (
	ActorClient Actor = "client"
	ActorAdmin  Actor = "admin"
)

// AppointmentType discriminates session pricing.
type AppointmentType string

const (
	TypeInitial  AppointmentType = "Initial"
	TypeFollowUp AppointmentType = "Follow-up"
)

var terminalStatuses = map[Status]bool{
	StatusDone:                true,
	StatusCancelled:           true,
	StatusCancelledClient:     true,
	StatusCancelledReschedule: true,
	StatusNoShow:              true,
}

// IsTerminal reports whether no further transitions are accepted from s.
func IsTerminal(s Status) bool {
	return terminalStatuses[s]
}

var knownStatuses = map[Status]bool{
	StatusPending:                   true,
	StatusConfirmed:                 true,
	StatusDone:                      true,
	StatusCancelled:                 true,
	StatusCancelledClient:           true,
	StatusCancelledReschedule:       true,
	StatusClientRescheduleRequested: true,
	StatusConfirmRescheduleRequest:  true,
	StatusCoachRescheduleRequest:    true,
	StatusNoShow:                    true,
}

// legacyAliases maps status spellings that grew organically in older data
// onto their canonical values.
var legacyAliases = map[string]Status{
	"no_show":              StatusNoShow,
	"noshow":               StatusNoShow,
	"reschedule_requested": StatusClientRescheduleRequested,
	"completed":            StatusDone,
}

// ParseStatus normalizes a raw status string to its canonical Status.
// Unknown values are rejected.
func ParseStatus(raw string) (Status, error) {
	if s := Status(raw); knownStatuses[s] {
		return s, nil
	}
	if s, ok := legacyAliases[raw]; ok {
		return s, nil
	}
	return "", &ValidationError{Field: "status", Reason: "unknown status value: " + raw}
}

// ParseAppointmentType validates the session type discriminator.
func ParseAppointmentType(raw string) (AppointmentType, error) {
	switch AppointmentType(raw) {
	case TypeInitial, TypeFollowUp:
		return AppointmentType(raw), nil
	}
	return "", &ValidationError{Field: "type", Reason: "unknown appointment type: " + raw}
}
