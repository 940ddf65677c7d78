package billing_test

import (
	"testing"

	"github.com/propfolio/lease-ledger/billing"
)

func TestProject_FlattensAndTotals(t *testing.T) {
	// GIVEN: Two lease ledgers from a batch run
	// WHEN: Projecting into the statement table
	// THEN: Rows concatenate in order; totals sum across both leases

	win := window(billing.NewDate(2024, 1, 1), billing.NewDate(2024, 2, 29))
	engine := newTestEngine()

	inputs := []billing.RunInput{
		{
			Lease: billing.Lease{ID: "l1", Reference: "A-1", StartDate: billing.NewDate(2024, 1, 1), MonthlyRent: billing.MustDecimal("1000")},
			Payments: []billing.PaymentRecord{
				payment("p1", "1000", billing.NewDate(2024, 1, 5)),
				payment("p2", "1000", billing.NewDate(2024, 2, 5)),
			},
			Window: win, Periods: calendarMonth(),
		},
		{
			Lease: billing.Lease{ID: "l2", Reference: "B-2", StartDate: billing.NewDate(2024, 1, 1), MonthlyRent: billing.MustDecimal("500")},
			Payments: []billing.PaymentRecord{
				payment("p3", "500", billing.NewDate(2024, 1, 10)),
			},
			Window: win, Periods: calendarMonth(),
		},
	}

	result := engine.RunBatch(inputs)
	table := billing.Project(result.Ledgers)

	if len(table.Rows) != 4 {
		t.Fatalf("got %d rows, want 4", len(table.Rows))
	}
	if len(table.Leases) != 2 {
		t.Fatalf("got %d lease summaries, want 2", len(table.Leases))
	}

	if !table.Totals.RentDue.Equal(billing.MustDecimal("3000")) {
		t.Fatalf("total due = %s, want 3000", table.Totals.RentDue)
	}
	if !table.Totals.RentReceived.Equal(billing.MustDecimal("2500")) {
		t.Fatalf("total received = %s, want 2500", table.Totals.RentReceived)
	}
	// 10% + 5% on each received amount
	if !table.Totals.Commission.Equal(billing.MustDecimal("375")) {
		t.Fatalf("total commission = %s, want 375", table.Totals.Commission)
	}
	// B-2 owes February's 500
	if !table.Totals.FinalArrears.Equal(billing.MustDecimal("500")) {
		t.Fatalf("total arrears = %s, want 500", table.Totals.FinalArrears)
	}
}

func TestProject_SkipsEmptyLedgers(t *testing.T) {
	// GIVEN: A batch containing a future lease with no billable periods
	// WHEN: Projecting
	// THEN: The empty ledger contributes no rows and no summary line

	win := window(billing.NewDate(2024, 1, 1), billing.NewDate(2024, 1, 31))
	inputs := []billing.RunInput{
		{Lease: billing.Lease{ID: "l1", Reference: "A-1", StartDate: billing.NewDate(2024, 1, 1), MonthlyRent: billing.MustDecimal("700")}, Window: win, Periods: calendarMonth()},
		{Lease: billing.Lease{ID: "l2", Reference: "Z-9", StartDate: billing.NewDate(2025, 1, 1), MonthlyRent: billing.MustDecimal("700")}, Window: win, Periods: calendarMonth()},
	}

	result := newTestEngine().RunBatch(inputs)
	table := billing.Project(result.Ledgers)

	if len(table.Rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(table.Rows))
	}
	if len(table.Leases) != 1 || table.Leases[0].LeaseReference != "A-1" {
		t.Fatalf("lease summaries = %v, want only A-1", table.Leases)
	}
}
