package billing_test

import (
	"errors"
	"testing"

	"github.com/propfolio/lease-ledger/billing"
)

func threePeriods() []billing.BillingPeriod {
	return []billing.BillingPeriod{
		periodOf(billing.NewDate(2024, 1, 1), billing.NewDate(2024, 1, 31), false),
		periodOf(billing.NewDate(2024, 2, 1), billing.NewDate(2024, 2, 29), false),
		periodOf(billing.NewDate(2024, 3, 1), billing.NewDate(2024, 3, 31), false),
	}
}

func payment(id string, amount string, date billing.Date) billing.PaymentRecord {
	return billing.PaymentRecord{
		ID:      id,
		LeaseID: "lease-1",
		Amount:  billing.MustDecimal(amount),
		Date:    date,
	}
}

func TestAggregatePayments_MatchedByDateContainment(t *testing.T) {
	// GIVEN: Two payments in January, one in March
	// WHEN: Aggregating against Jan/Feb/Mar periods
	// THEN: January sums both, February is zero, March gets one

	payments := []billing.PaymentRecord{
		payment("p1", "600", billing.NewDate(2024, 1, 5)),
		payment("p2", "400", billing.NewDate(2024, 1, 28)),
		payment("p3", "1000", billing.NewDate(2024, 3, 15)),
	}

	totals, diags, err := billing.AggregatePayments("lease-1", payments, threePeriods())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if !totals.PerPeriod[0].Equal(billing.MustDecimal("1000")) {
		t.Fatalf("January received = %s, want 1000", totals.PerPeriod[0])
	}
	if !totals.PerPeriod[1].IsZero() {
		t.Fatalf("February received = %s, want 0", totals.PerPeriod[1])
	}
	if !totals.PerPeriod[2].Equal(billing.MustDecimal("1000")) {
		t.Fatalf("March received = %s, want 1000", totals.PerPeriod[2])
	}
}

func TestAggregatePayments_LastPaymentDatePerPeriod(t *testing.T) {
	// GIVEN: Two payments in the same period
	// WHEN: Aggregating
	// THEN: LastDate holds the later of the two

	payments := []billing.PaymentRecord{
		payment("p1", "600", billing.NewDate(2024, 1, 28)),
		payment("p2", "400", billing.NewDate(2024, 1, 5)),
	}

	totals, _, err := billing.AggregatePayments("lease-1", payments, threePeriods())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !totals.LastDate[0].Equal(billing.NewDate(2024, 1, 28)) {
		t.Fatalf("last payment date = %s, want 2024-01-28", totals.LastDate[0])
	}
	if !totals.LastDate[1].IsZero() {
		t.Fatal("February should have no last payment date")
	}
}

func TestAggregatePayments_BeforeFirstPeriod_CountsTowardOpening(t *testing.T) {
	// GIVEN: A payment dated before the first window period
	// WHEN: Aggregating
	// THEN: It lands in OpeningReceived, not in any period

	payments := []billing.PaymentRecord{
		payment("p1", "750", billing.NewDate(2023, 12, 20)),
	}

	totals, diags, err := billing.AggregatePayments("lease-1", payments, threePeriods())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if !totals.OpeningReceived.Equal(billing.MustDecimal("750")) {
		t.Fatalf("opening received = %s, want 750", totals.OpeningReceived)
	}
}

func TestAggregatePayments_AfterLastPeriod_ExcludedWithDiagnostic(t *testing.T) {
	// GIVEN: A payment dated after the last window period
	// WHEN: Aggregating
	// THEN: Excluded from every total, flagged as unmatched

	payments := []billing.PaymentRecord{
		payment("p1", "500", billing.NewDate(2024, 4, 2)),
	}

	totals, diags, err := billing.AggregatePayments("lease-1", payments, threePeriods())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, sum := range totals.PerPeriod {
		if !sum.IsZero() {
			t.Fatalf("period %d received = %s, want 0", i, sum)
		}
	}
	if !totals.OpeningReceived.IsZero() {
		t.Fatalf("opening received = %s, want 0", totals.OpeningReceived)
	}
	if len(diags) != 1 || diags[0].Kind != billing.DiagUnmatchedPayment {
		t.Fatalf("diagnostics = %v, want one unmatched_payment", diags)
	}
}

func TestAggregatePayments_NegativeAmount_ZeroedWithDiagnostic(t *testing.T) {
	// GIVEN: A negative payment amount inside a period
	// WHEN: Aggregating
	// THEN: Treated as zero with a data-quality diagnostic

	payments := []billing.PaymentRecord{
		payment("p1", "-300", billing.NewDate(2024, 2, 10)),
	}

	totals, diags, err := billing.AggregatePayments("lease-1", payments, threePeriods())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !totals.PerPeriod[1].IsZero() {
		t.Fatalf("February received = %s, want 0", totals.PerPeriod[1])
	}
	if len(diags) != 1 || diags[0].Kind != billing.DiagDataQuality {
		t.Fatalf("diagnostics = %v, want one data_quality", diags)
	}
}

func TestAggregatePayments_OverlappingPeriods_ConsistencyError(t *testing.T) {
	// GIVEN: A corrupted period slice where two periods share a date
	// WHEN: A payment matches both
	// THEN: ConsistencyError; the run for this lease must not proceed

	overlapping := []billing.BillingPeriod{
		periodOf(billing.NewDate(2024, 1, 1), billing.NewDate(2024, 1, 31), false),
		periodOf(billing.NewDate(2024, 1, 20), billing.NewDate(2024, 2, 19), false),
	}
	payments := []billing.PaymentRecord{
		payment("p1", "500", billing.NewDate(2024, 1, 25)),
	}

	_, _, err := billing.AggregatePayments("lease-1", payments, overlapping)
	if !errors.Is(err, billing.ErrConsistencyViolation) {
		t.Fatalf("err = %v, want ErrConsistencyViolation", err)
	}
}

// =============================================================================
// OPENING BALANCE AND EXPENSES
// =============================================================================

func TestOpeningDue_SumsPreWindowPeriods(t *testing.T) {
	// GIVEN: Two full pre-window months and one prorated start month
	// WHEN: Pricing the opening balance
	// THEN: Same proration rule as window rows: 548.39 + 1000 + 1000

	lease := testLease(billing.NewDate(2024, 1, 15), "1000")
	preWindow := []billing.BillingPeriod{
		periodOf(billing.NewDate(2024, 1, 15), billing.NewDate(2024, 1, 31), true),
		periodOf(billing.NewDate(2024, 2, 1), billing.NewDate(2024, 2, 29), false),
		periodOf(billing.NewDate(2024, 3, 1), billing.NewDate(2024, 3, 31), false),
	}

	due, diags := billing.OpeningDue(lease, preWindow)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if !due.Equal(billing.MustDecimal("2548.39")) {
		t.Fatalf("opening due = %s, want 2548.39", due)
	}
}

func TestExpensesByPeriod_BucketsByDate(t *testing.T) {
	// GIVEN: Expenses in January and March, plus one outside the window
	// WHEN: Bucketing into Jan/Feb/Mar periods
	// THEN: Each lands in its period; the outsider is dropped

	expenses := []billing.ExpenseRecord{
		{ID: "e1", LeaseID: "lease-1", Amount: billing.MustDecimal("85"), Date: billing.NewDate(2024, 1, 10), Category: "maintenance", Description: "Boiler service"},
		{ID: "e2", LeaseID: "lease-1", Amount: billing.MustDecimal("40"), Date: billing.NewDate(2024, 3, 5)},
		{ID: "e3", LeaseID: "lease-1", Amount: billing.MustDecimal("99"), Date: billing.NewDate(2024, 6, 1), Category: "repairs"},
	}

	buckets := billing.ExpensesByPeriod(expenses, threePeriods())
	if len(buckets[0]) != 1 || len(buckets[1]) != 0 || len(buckets[2]) != 1 {
		t.Fatalf("bucket sizes = %d/%d/%d, want 1/0/1",
			len(buckets[0]), len(buckets[1]), len(buckets[2]))
	}
	if buckets[0][0].Label != "maintenance" {
		t.Fatalf("label = %q, want maintenance", buckets[0][0].Label)
	}
	// Category-less expenses fall back to a generic label
	if buckets[2][0].Label != "Expense" {
		t.Fatalf("fallback label = %q, want Expense", buckets[2][0].Label)
	}
}
