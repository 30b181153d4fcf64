package events

import "time"

// Event type codes. The NATS subject is derived as "events.<type>".
const (
	TypeAppointmentBooked    = "APPOINTMENT_BOOKED"
	TypeAppointmentConfirmed = "APPOINTMENT_CONFIRMED"
	TypeAppointmentCancelled = "APPOINTMENT_CANCELLED"
	TypeAppointmentDone      = "APPOINTMENT_DONE"
	TypeAppointmentNoShow    = "APPOINTMENT_NO_SHOW"
	TypeAppointmentReminder  = "APPOINTMENT_REMINDER"
	TypeRescheduleRequested  = "RESCHEDULE_REQUESTED"
	TypeRescheduleProposed   = "RESCHEDULE_PROPOSED"
	TypeRescheduleConfirmed  = "RESCHEDULE_CONFIRMED"
	TypeInvoiceCreated       = "INVOICE_CREATED"
	TypeInvoicePaid          = "INVOICE_PAID"
	TypeInvoiceReissued      = "INVOICE_REISSUED"
	TypeInvoiceReminder      = "INVOICE_REMINDER"
	TypeProgramEnrolled      = "PROGRAM_ENROLLED"
	TypeProgramCycleAdvanced = "PROGRAM_CYCLE_ADVANCED"
	TypeProgramCompleted     = "PROGRAM_COMPLETED"
	TypeProgramDowngraded    = "PROGRAM_DOWNGRADED"
)

// NewDomainEvent stamps a payload with the current time. Services use this
// instead of building BaseEvent literals everywhere.
func NewDomainEvent(eventType string, data map[string]interface{}) Event {
	if data == nil {
		data = make(map[string]interface{})
	}
	data["event_type"] = eventType
	return BaseEvent{
		Type:       eventType,
		Data:       data,
		OccurredAt: time.Now(),
	}
}
