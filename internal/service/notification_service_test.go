package service

import (
	"testing"
	"time"
)

func TestRenderTemplate(t *testing.T) {
	tests := []struct {
		name    string
		tpl     string
		payload map[string]interface{}
		want    string
	}{
		{
			name:    "string substitution",
			tpl:     "Hi {client_name}, see you on {date}",
			payload: map[string]interface{}{"client_name": "Anna", "date": "2026-03-15"},
			want:    "Hi Anna, see you on 2026-03-15",
		},
		{
			name:    "amount formatting",
			tpl:     "Total: EUR {total_amount}",
			payload: map[string]interface{}{"total_amount": 55.0},
			want:    "Total: EUR 55.00",
		},
		{
			name:    "date formatting",
			tpl:     "Due on {due_date}",
			payload: map[string]interface{}{"due_date": time.Date(2026, 3, 29, 0, 0, 0, 0, time.UTC)},
			want:    "Due on 29-03-2026",
		},
		{
			name:    "missing keys are left intact",
			tpl:     "Hi {client_name}",
			payload: map[string]interface{}{"other": "x"},
			want:    "Hi {client_name}",
		},
		{
			name:    "extra payload keys are ignored",
			tpl:     "Plain subject",
			payload: map[string]interface{}{"client_name": "Anna"},
			want:    "Plain subject",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := renderTemplate(tt.tpl, tt.payload); got != tt.want {
				t.Errorf("renderTemplate() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHumanizeEventType(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{code: "APPOINTMENT_CONFIRMED", want: "Appointment confirmed"},
		{code: "INVOICE_PAID", want: "Invoice paid"},
		{code: "RESCHEDULE_PROPOSED", want: "Reschedule proposed"},
		{code: "", want: ""},
	}

	for _, tt := range tests {
		if got := humanizeEventType(tt.code); got != tt.want {
			t.Errorf("humanizeEventType(%q) = %q, want %q", tt.code, got, tt.want)
		}
	}
}
