package billing_test

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/propfolio/lease-ledger/billing"
)

func decimals(values ...string) []decimal.Decimal {
	out := make([]decimal.Decimal, len(values))
	for i, v := range values {
		out[i] = billing.MustDecimal(v)
	}
	return out
}

func TestBuildLedger_CumulativeFold(t *testing.T) {
	// GIVEN: Three periods: paid in full, missed, partially paid
	// WHEN: Folding into the ledger
	// THEN: Arrears accumulate period over period

	entries := billing.BuildLedger(
		threePeriods(),
		decimals("950", "950", "950"),
		decimals("950", "0", "400"),
		decimal.Zero, decimal.Zero,
	)

	wantCumulative := decimals("0", "950", "1500")
	for i, entry := range entries {
		if !entry.CumulativeArrears.Equal(wantCumulative[i]) {
			t.Fatalf("period %d cumulative = %s, want %s",
				i, entry.CumulativeArrears, wantCumulative[i])
		}
	}
}

func TestBuildLedger_OverpaymentCarriesNegativeArrears(t *testing.T) {
	// GIVEN: Two months paid up front in January
	// WHEN: Folding
	// THEN: January shows -1200, February clears to zero

	entries := billing.BuildLedger(
		threePeriods(),
		decimals("1200", "1200", "1200"),
		decimals("2400", "0", "1200"),
		decimal.Zero, decimal.Zero,
	)

	if !entries[0].CumulativeArrears.Equal(billing.MustDecimal("-1200")) {
		t.Fatalf("January cumulative = %s, want -1200", entries[0].CumulativeArrears)
	}
	if !entries[1].CumulativeArrears.IsZero() {
		t.Fatalf("February cumulative = %s, want 0", entries[1].CumulativeArrears)
	}
	if !entries[2].CumulativeArrears.IsZero() {
		t.Fatalf("March cumulative = %s, want 0", entries[2].CumulativeArrears)
	}
}

func TestBuildLedger_OpeningBalanceSeedsFirstRowOnly(t *testing.T) {
	// GIVEN: An opening balance of 500 owed from before the window
	// WHEN: Folding
	// THEN: Row 0 carries the opening balance and the fold starts from it;
	//       later rows show zero in the opening column

	entries := billing.BuildLedger(
		threePeriods(),
		decimals("1000", "1000", "1000"),
		decimals("1000", "1000", "1000"),
		billing.MustDecimal("1500"), billing.MustDecimal("1000"),
	)

	if !entries[0].OpeningBalance.Equal(billing.MustDecimal("500")) {
		t.Fatalf("row 0 opening = %s, want 500", entries[0].OpeningBalance)
	}
	if !entries[1].OpeningBalance.IsZero() || !entries[2].OpeningBalance.IsZero() {
		t.Fatal("opening balance must appear on the first row only")
	}
	for i, entry := range entries {
		if !entry.CumulativeArrears.Equal(billing.MustDecimal("500")) {
			t.Fatalf("period %d cumulative = %s, want 500", i, entry.CumulativeArrears)
		}
	}
}

func TestBuildLedger_BalanceContinuity(t *testing.T) {
	// GIVEN: Any ledger fold
	// WHEN: Comparing consecutive rows
	// THEN: cumulative[i] = cumulative[i-1] + periodArrears[i], always

	entries := billing.BuildLedger(
		threePeriods(),
		decimals("548.39", "1000", "1000"),
		decimals("1000", "0", "1000"),
		billing.MustDecimal("320"), decimal.Zero,
	)

	running := billing.MustDecimal("320")
	for i, entry := range entries {
		running = running.Add(entry.PeriodArrears)
		if !entry.CumulativeArrears.Equal(running) {
			t.Fatalf("period %d cumulative = %s, want %s", i, entry.CumulativeArrears, running)
		}
	}
}
