package billing

import (
	"testing"
	"time"
)

func activeState(cycle int, next time.Time) ProgramState {
	start := next.AddDate(0, -cycle, 0)
	end := start.AddDate(0, MaxBillingCycles, 0)
	return ProgramState{
		ServicePlan:         PlanCompleteProgram,
		SubscriptionStatus:  SubscriptionActive,
		CurrentBillingCycle: cycle,
		MaxBillingCycles:    MaxBillingCycles,
		MonthlyAmount:       150,
		NextBillingDate:     &next,
		ProgramStartDate:    &start,
		ProgramEndDate:      &end,
	}
}

func TestAdvanceIfDueNoops(t *testing.T) {
	now := time.Date(2026, 3, 15, 6, 0, 0, 0, time.UTC)

	t.Run("inactive subscription", func(t *testing.T) {
		ps := activeState(1, now.AddDate(0, 0, -1))
		ps.SubscriptionStatus = SubscriptionCancelled
		out := AdvanceIfDue(&ps, now)
		if out.InvoiceDue || out.Completed {
			t.Errorf("expected noop, got %+v", out)
		}
		if ps.CurrentBillingCycle != 1 {
			t.Errorf("cycle mutated to %d", ps.CurrentBillingCycle)
		}
	})

	t.Run("billing date in the future", func(t *testing.T) {
		ps := activeState(1, now.AddDate(0, 0, 5))
		out := AdvanceIfDue(&ps, now)
		if out.InvoiceDue {
			t.Errorf("expected no invoice, got %+v", out)
		}
	})

	t.Run("nil billing date", func(t *testing.T) {
		ps := activeState(1, now)
		ps.NextBillingDate = nil
		out := AdvanceIfDue(&ps, now)
		if out.InvoiceDue {
			t.Errorf("expected no invoice, got %+v", out)
		}
	})
}

func TestAdvanceIfDueAdvancesCycle(t *testing.T) {
	due := time.Date(2026, 3, 15, 6, 0, 0, 0, time.UTC)
	now := due.Add(2 * time.Hour)

	ps := activeState(1, due)
	out := AdvanceIfDue(&ps, now)

	if !out.InvoiceDue {
		t.Fatal("expected invoice due")
	}
	if out.NewCycle != 2 || ps.CurrentBillingCycle != 2 {
		t.Errorf("cycle = %d/%d, want 2", out.NewCycle, ps.CurrentBillingCycle)
	}
	wantNext := time.Date(2026, 4, 15, 6, 0, 0, 0, time.UTC)
	if !out.NewNextBillingDate.Equal(wantNext) {
		t.Errorf("next billing = %v, want %v", out.NewNextBillingDate, wantNext)
	}

	// A second pass on the same day must not bill again.
	again := AdvanceIfDue(&ps, now)
	if again.InvoiceDue {
		t.Errorf("second pass billed again: %+v", again)
	}
}

func TestAdvanceIfDueCompletesAfterFinalCycle(t *testing.T) {
	now := time.Date(2026, 6, 1, 6, 0, 0, 0, time.UTC)
	ps := activeState(MaxBillingCycles, now.AddDate(0, 0, -1))

	out := AdvanceIfDue(&ps, now)

	if !out.Completed {
		t.Fatalf("expected completion, got %+v", out)
	}
	if out.InvoiceDue {
		t.Error("completion must not create an invoice")
	}
	if ps.SubscriptionStatus != SubscriptionCompleted {
		t.Errorf("status = %s, want completed", ps.SubscriptionStatus)
	}
}

func TestAddCalendarMonthClampsDay(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{
			name: "plain month",
			in:   time.Date(2026, 3, 15, 6, 0, 0, 0, time.UTC),
			want: time.Date(2026, 4, 15, 6, 0, 0, 0, time.UTC),
		},
		{
			name: "jan 31 clamps to feb 28",
			in:   time.Date(2026, 1, 31, 6, 0, 0, 0, time.UTC),
			want: time.Date(2026, 2, 28, 6, 0, 0, 0, time.UTC),
		},
		{
			name: "jan 31 leap year clamps to feb 29",
			in:   time.Date(2028, 1, 31, 6, 0, 0, 0, time.UTC),
			want: time.Date(2028, 2, 29, 6, 0, 0, 0, time.UTC),
		},
		{
			name: "may 31 clamps to june 30",
			in:   time.Date(2026, 5, 31, 6, 0, 0, 0, time.UTC),
			want: time.Date(2026, 6, 30, 6, 0, 0, 0, time.UTC),
		},
		{
			name: "december rolls the year",
			in:   time.Date(2026, 12, 10, 6, 0, 0, 0, time.UTC),
			want: time.Date(2027, 1, 10, 6, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AddCalendarMonth(tt.in); !got.Equal(tt.want) {
				t.Errorf("AddCalendarMonth(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestDowngrade(t *testing.T) {
	now := time.Date(2026, 4, 1, 6, 0, 0, 0, time.UTC)

	t.Run("not due without plan", func(t *testing.T) {
		ps := activeState(2, now)
		if DowngradeDue(ps, now) {
			t.Error("downgrade due without planned flag")
		}
	})

	t.Run("not due before effective date", func(t *testing.T) {
		eff := now.AddDate(0, 0, 3)
		ps := activeState(2, now)
		ps.PlannedDowngrade = true
		ps.DowngradeEffectiveDate = &eff
		if DowngradeDue(ps, now) {
			t.Error("downgrade ran early")
		}
	})

	t.Run("due on effective date and clears program fields", func(t *testing.T) {
		ps := activeState(2, now)
		ps.PlannedDowngrade = true
		ps.DowngradeEffectiveDate = &now
		if !DowngradeDue(ps, now) {
			t.Fatal("expected downgrade due")
		}

		ApplyDowngrade(&ps)

		if ps.ServicePlan != PlanPayAsYouGo {
			t.Errorf("plan = %s", ps.ServicePlan)
		}
		if ps.SubscriptionStatus != SubscriptionDowngraded {
			t.Errorf("status = %s", ps.SubscriptionStatus)
		}
		if ps.CurrentBillingCycle != 0 || ps.MonthlyAmount != 0 {
			t.Error("program counters not cleared")
		}
		if ps.NextBillingDate != nil || ps.DowngradeEffectiveDate != nil {
			t.Error("program dates not cleared")
		}
		if ps.PlannedDowngrade {
			t.Error("planned flag not cleared")
		}
	})
}
