package scheduling

import "fmt"

// ValidationError signals malformed or unknown input. Maps to HTTP 400.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ModificationWindowClosedError rejects mutations on terminal appointments
// or client mutations inside the 30-minute pre-appointment window.
type ModificationWindowClosedError struct {
	Status Status
	Reason string
}

func (e *ModificationWindowClosedError) Error() string {
	return fmt.Sprintf("modification window closed: %s", e.Reason)
}

// IllegalTransitionError rejects a transition not present in the table
// for the requesting actor.
type IllegalTransitionError struct {
	From  Status
	To    Status
	Actor Actor
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("illegal transition %s -> %s for actor %s", e.From, e.To, e.Actor)
}

// SlotConflictError rejects a booking that collides with an existing
// non-terminal appointment on the same (date, timeslot).
type SlotConflictError struct {
	Date     string
	Timeslot string
}

func (e *SlotConflictError) Error() string {
	return fmt.Sprintf("slot %s %s is already taken", e.Date, e.Timeslot)
}
