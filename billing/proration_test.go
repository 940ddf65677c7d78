package billing_test

import (
	"testing"

	"github.com/propfolio/lease-ledger/billing"
)

func periodOf(start, end billing.Date, partial bool) billing.BillingPeriod {
	return billing.BillingPeriod{Start: start, End: end, AnchorStart: start, AnchorEnd: end, Partial: partial}
}

func TestRentDue_FullPeriod_ChargedVerbatim(t *testing.T) {
	// GIVEN: A full calendar-month period
	// WHEN: Computing the rent due
	// THEN: The monthly rent verbatim, no day arithmetic

	lease := testLease(billing.NewDate(2024, 1, 1), "1000")
	period := periodOf(billing.NewDate(2024, 2, 1), billing.NewDate(2024, 2, 29), false)

	due, diag := billing.RentDueForPeriod(lease, period)
	if diag != nil {
		t.Fatalf("unexpected diagnostic: %v", diag)
	}
	if !due.Equal(billing.MustDecimal("1000")) {
		t.Fatalf("due = %s, want 1000", due)
	}
}

func TestRentDue_MidMonthStart_Prorated(t *testing.T) {
	// GIVEN: Rent 1000, partial period Jan 15-31 (17 of 31 days)
	// WHEN: Computing the rent due
	// THEN: 1000 * 17/31 = 548.39 after rounding

	lease := testLease(billing.NewDate(2024, 1, 15), "1000")
	period := periodOf(billing.NewDate(2024, 1, 15), billing.NewDate(2024, 1, 31), true)

	due, diag := billing.RentDueForPeriod(lease, period)
	if diag != nil {
		t.Fatalf("unexpected diagnostic: %v", diag)
	}
	if !due.Equal(billing.MustDecimal("548.39")) {
		t.Fatalf("due = %s, want 548.39", due)
	}
}

func TestRentDue_TerminationMidPeriod_Prorated(t *testing.T) {
	// GIVEN: Rent 800, final partial period Mar 1-20 (20 of 31 days)
	// WHEN: Computing the rent due
	// THEN: 800 * 20/31 = 516.13

	lease := testLease(billing.NewDate(2023, 11, 1), "800")
	period := periodOf(billing.NewDate(2024, 3, 1), billing.NewDate(2024, 3, 20), true)

	due, _ := billing.RentDueForPeriod(lease, period)
	if !due.Equal(billing.MustDecimal("516.13")) {
		t.Fatalf("due = %s, want 516.13", due)
	}
}

func TestRentDue_ProratedByMonthOfPeriodStart(t *testing.T) {
	// GIVEN: Rent 1000, partial period Feb 10-29 in a leap year
	// WHEN: Computing the rent due
	// THEN: Divisor is 29 (days in February 2024), so 1000 * 20/29 = 689.66

	lease := testLease(billing.NewDate(2024, 2, 10), "1000")
	period := periodOf(billing.NewDate(2024, 2, 10), billing.NewDate(2024, 2, 29), true)

	due, _ := billing.RentDueForPeriod(lease, period)
	if !due.Equal(billing.MustDecimal("689.66")) {
		t.Fatalf("due = %s, want 689.66", due)
	}
}

func TestRentDue_NegativeRent_ZeroedWithDiagnostic(t *testing.T) {
	// GIVEN: A lease mirrored with a negative rent
	// WHEN: Computing the rent due
	// THEN: Zero, with a data-quality diagnostic explaining it

	lease := testLease(billing.NewDate(2024, 1, 1), "-500")
	period := periodOf(billing.NewDate(2024, 1, 1), billing.NewDate(2024, 1, 31), false)

	due, diag := billing.RentDueForPeriod(lease, period)
	if !due.IsZero() {
		t.Fatalf("due = %s, want 0", due)
	}
	if diag == nil || diag.Kind != billing.DiagDataQuality {
		t.Fatalf("diagnostic = %v, want data_quality", diag)
	}
}
