/*
arrears.go - The cumulative-balance fold

PURPOSE:
  Combines rent due and rent received per period into the running arrears
  time series. This is a strict left-fold in chronological order:

    openingBalance  = openingDue - openingReceived
    periodArrears_i = due_i - received_i
    cumulative_0    = openingBalance + periodArrears_0
    cumulative_i    = cumulative_{i-1} + periodArrears_i

  The fold is recomputed from lease start on every statement run: late
  payments can rewrite history, so the ledger is never incrementally
  patched.

OPENING BALANCE FIELD:
  Only row 0 carries the opening balance; later rows report zero there
  because the running total already encodes the history. This mirrors how
  statements render a single "opening balance" line per lease.
*/
package billing

import "github.com/shopspring/decimal"

// ArrearsEntry is the balance slice of one ledger row, before fees and
// expenses are layered on.
type ArrearsEntry struct {
	Period            BillingPeriod
	RentDue           decimal.Decimal
	RentReceived      decimal.Decimal
	PeriodArrears     decimal.Decimal
	OpeningBalance    decimal.Decimal
	CumulativeArrears decimal.Decimal
}

// BuildLedger folds per-period due/received into the cumulative series.
// due and received must be indexed like periods.
func BuildLedger(periods []BillingPeriod, due, received []decimal.Decimal, openingDue, openingReceived decimal.Decimal) []ArrearsEntry {
	openingBalance := openingDue.Sub(openingReceived)
	entries := make([]ArrearsEntry, len(periods))

	running := openingBalance
	for i, p := range periods {
		arrears := due[i].Sub(received[i])
		running = running.Add(arrears)

		entries[i] = ArrearsEntry{
			Period:            p,
			RentDue:           due[i],
			RentReceived:      received[i],
			PeriodArrears:     arrears,
			CumulativeArrears: running,
			OpeningBalance:    decimal.Zero,
		}
		if i == 0 {
			entries[i].OpeningBalance = openingBalance
		}
	}
	return entries
}
