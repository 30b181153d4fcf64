package scheduling

import (
	"errors"
	"testing"
	"time"
)

func TestDecideAdminTransitions(t *testing.T) {
	base := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	now := base.Add(-48 * time.Hour)

	tests := []struct {
		name    string
		from    Status
		to      Status
		wantErr bool
	}{
		{name: "pending to confirmed", from: StatusPending, to: StatusConfirmed},
		{name: "pending to cancelled", from: StatusPending, to: StatusCancelled},
		{name: "confirmed to done", from: StatusConfirmed, to: StatusDone},
		{name: "confirmed to no-show", from: StatusConfirmed, to: StatusNoShow},
		{name: "confirmed to coach reschedule", from: StatusConfirmed, to: StatusCoachRescheduleRequest},
		{name: "client request accepted", from: StatusClientRescheduleRequested, to: StatusConfirmRescheduleRequest},
		{name: "client request rejected", from: StatusClientRescheduleRequested, to: StatusCancelledReschedule},
		{name: "client request kept as-is", from: StatusClientRescheduleRequested, to: StatusConfirmed},
		{name: "pending to done is illegal", from: StatusPending, to: StatusDone, wantErr: true},
		{name: "confirmed to pending is illegal", from: StatusConfirmed, to: StatusPending, wantErr: true},
		{name: "no-show to confirmed is terminal", from: StatusNoShow, to: StatusConfirmed, wantErr: true},
		{name: "done to anything is terminal", from: StatusDone, to: StatusCancelled, wantErr: true},
		{name: "cancelled_client is terminal", from: StatusCancelledClient, to: StatusConfirmed, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Decide(TransitionRequest{
				From:          tt.from,
				To:            tt.to,
				Actor:         ActorAdmin,
				AppointmentAt: base,
				Now:           now,
			})
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Decide(%s -> %s) = %v, want error", tt.from, tt.to, out.Status)
				}
				return
			}
			if err != nil {
				t.Fatalf("Decide(%s -> %s) error: %v", tt.from, tt.to, err)
			}
			if out.Status != tt.to {
				t.Errorf("Status = %s, want %s", out.Status, tt.to)
			}
		})
	}
}

func TestDecideTerminalErrorType(t *testing.T) {
	_, err := Decide(TransitionRequest{
		From:  StatusDone,
		To:    StatusConfirmed,
		Actor: ActorAdmin,
		Now:   time.Now(),
	})

	var windowErr *ModificationWindowClosedError
	if !errors.As(err, &windowErr) {
		t.Fatalf("expected ModificationWindowClosedError, got %T: %v", err, err)
	}
}

func TestDecideClientWindow(t *testing.T) {
	start := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		to      Status
		now     time.Time
		wantErr bool
	}{
		{name: "reschedule well before start", to: StatusClientRescheduleRequested, now: start.Add(-24 * time.Hour)},
		{name: "reschedule at exactly 30 minutes", to: StatusClientRescheduleRequested, now: start.Add(-30 * time.Minute)},
		{name: "reschedule inside window", to: StatusClientRescheduleRequested, now: start.Add(-20 * time.Minute), wantErr: true},
		{name: "cancel inside window", to: StatusCancelledClient, now: start.Add(-10 * time.Minute), wantErr: true},
		{name: "cancel after start", to: StatusCancelledClient, now: start.Add(time.Minute), wantErr: true},
		{name: "cancel before window", to: StatusCancelledClient, now: start.Add(-2 * time.Hour)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decide(TransitionRequest{
				From:          StatusConfirmed,
				To:            tt.to,
				Actor:         ActorClient,
				AppointmentAt: start,
				Now:           tt.now,
			})
			if tt.wantErr {
				var windowErr *ModificationWindowClosedError
				if !errors.As(err, &windowErr) {
					t.Fatalf("expected window error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Decide error: %v", err)
			}
		})
	}
}

func TestDecideClientCancelFromAnyNonTerminal(t *testing.T) {
	start := time.Now().Add(24 * time.Hour)

	for _, from := range []Status{StatusPending, StatusConfirmed, StatusClientRescheduleRequested, StatusCoachRescheduleRequest} {
		out, err := Decide(TransitionRequest{
			From:          from,
			To:            StatusCancelledClient,
			Actor:         ActorClient,
			AppointmentAt: start,
			Now:           time.Now(),
		})
		if err != nil {
			t.Errorf("cancel from %s: %v", from, err)
			continue
		}
		if out.Status != StatusCancelledClient {
			t.Errorf("cancel from %s: got %s", from, out.Status)
		}
	}
}

func TestDecideLateRescheduleFee(t *testing.T) {
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	near := now.Add(3 * time.Hour)
	far := now.Add(48 * time.Hour)

	tests := []struct {
		name       string
		current    time.Time
		proposed   *time.Time
		wantLate   bool
		wantFeeEUR float64
	}{
		{name: "original slot within 4 hours", current: near, proposed: &far, wantLate: true, wantFeeEUR: 5},
		{name: "proposed slot within 4 hours", current: far, proposed: &near, wantLate: true, wantFeeEUR: 5},
		{name: "both slots far out", current: far, proposed: &far, wantLate: false},
		{name: "no proposed slot, original far", current: far, wantLate: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Decide(TransitionRequest{
				From:          StatusConfirmed,
				To:            StatusClientRescheduleRequested,
				Actor:         ActorClient,
				AppointmentAt: tt.current,
				ProposedAt:    tt.proposed,
				Now:           now,
			})
			if err != nil {
				t.Fatalf("Decide error: %v", err)
			}
			if out.LateReschedule != tt.wantLate {
				t.Errorf("LateReschedule = %v, want %v", out.LateReschedule, tt.wantLate)
			}
			if out.PotentialLateFee != tt.wantFeeEUR {
				t.Errorf("PotentialLateFee = %v, want %v", out.PotentialLateFee, tt.wantFeeEUR)
			}
		})
	}
}

func TestNoShowPenalty(t *testing.T) {
	if got := NoShowPenalty(TypeInitial); got != 38 {
		t.Errorf("NoShowPenalty(Initial) = %v, want 38", got)
	}
	if got := NoShowPenalty(TypeFollowUp); got != 25 {
		t.Errorf("NoShowPenalty(Follow-up) = %v, want 25", got)
	}
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		raw     string
		want    Status
		wantErr bool
	}{
		{raw: "pending", want: StatusPending},
		{raw: "veeRescheduleRequest", want: StatusCoachRescheduleRequest},
		{raw: "clientRescheduleRequested", want: StatusClientRescheduleRequested},
		{raw: "no-show", want: StatusNoShow},
		{raw: "no_show", want: StatusNoShow},
		{raw: "noshow", want: StatusNoShow},
		{raw: "completed", want: StatusDone},
		{raw: "reschedule_requested", want: StatusClientRescheduleRequested},
		{raw: "garbage", wantErr: true},
		{raw: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseStatus(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseStatus(%q) = %s, want error", tt.raw, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseStatus(%q) error: %v", tt.raw, err)
			}
			if got != tt.want {
				t.Errorf("ParseStatus(%q) = %s, want %s", tt.raw, got, tt.want)
			}
		})
	}
}
