/*
payments.go - Payment-to-period matching and the opening balance

PURPOSE:
  Attributes each recorded payment to the unique billing period containing
  its date, sums per period, and folds prior history into the opening
  balance figure that seeds the arrears ledger.

MATCHING RULES:
  - A payment inside exactly one window period is summed into that period.
  - A payment dated before the first window period folds into
    OpeningReceived (prior history).
  - A payment matching more than one period means the partition invariant
    is broken: fatal ConsistencyError for the lease.
  - A payment after the last window period has nowhere to go; it is
    excluded with an UnmatchedPayment diagnostic.
  - Negative payment amounts are zeroed with a DataQuality diagnostic.

OPENING BALANCE:
  OpeningDue re-prices the pre-window periods with the same generator and
  proration used for the window rows, guaranteeing the ledger's
  opening-balance property holds exactly.
*/
package billing

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// PAYMENT AGGREGATION
// =============================================================================

// PaymentTotals is the per-period view of a lease's received money.
type PaymentTotals struct {
	// PerPeriod is indexed like the window period slice it was built from.
	PerPeriod []decimal.Decimal

	// LastDate holds the latest payment date per period (zero when none).
	LastDate []Date

	// OpeningReceived sums payments dated before the first window period.
	OpeningReceived decimal.Decimal
}

// AggregatePayments matches payments against the window periods of one
// lease. The period slice must be the ordered output of GeneratePeriods.
func AggregatePayments(leaseID LeaseID, payments []PaymentRecord, periods []BillingPeriod) (PaymentTotals, []Diagnostic, error) {
	totals := PaymentTotals{
		PerPeriod:       make([]decimal.Decimal, len(periods)),
		LastDate:        make([]Date, len(periods)),
		OpeningReceived: decimal.Zero,
	}
	for i := range totals.PerPeriod {
		totals.PerPeriod[i] = decimal.Zero
	}

	var diags []Diagnostic
	for _, payment := range payments {
		amount := payment.Amount
		if amount.IsNegative() {
			diags = append(diags, Diagnostic{
				Kind:    DiagDataQuality,
				LeaseID: leaseID,
				Message: fmt.Sprintf("negative payment %s treated as zero", amount),
				Date:    payment.Date,
				Amount:  amount,
			})
			amount = decimal.Zero
		}

		matched := -1
		for i, p := range periods {
			if !p.Contains(payment.Date) {
				continue
			}
			if matched >= 0 {
				return PaymentTotals{}, nil, &ConsistencyError{
					LeaseID: leaseID,
					Detail:  "payment matches more than one period",
					Date:    payment.Date,
				}
			}
			matched = i
		}

		switch {
		case matched >= 0:
			totals.PerPeriod[matched] = totals.PerPeriod[matched].Add(amount)
			if totals.LastDate[matched].IsZero() || payment.Date.After(totals.LastDate[matched]) {
				totals.LastDate[matched] = payment.Date
			}
		case len(periods) > 0 && payment.Date.Before(periods[0].Start):
			totals.OpeningReceived = totals.OpeningReceived.Add(amount)
		default:
			diags = append(diags, Diagnostic{
				Kind:    DiagUnmatchedPayment,
				LeaseID: leaseID,
				Message: fmt.Sprintf("payment %s outside every billing period, excluded", amount),
				Date:    payment.Date,
				Amount:  amount,
			})
		}
	}
	return totals, diags, nil
}

// OpeningDue prices the pre-window periods of a lease. It reuses the exact
// proration rule applied to window rows; any drift between the two would
// break balance continuity across statement runs.
func OpeningDue(lease Lease, preWindow []BillingPeriod) (decimal.Decimal, []Diagnostic) {
	return totalDueForPeriods(lease, preWindow)
}

// =============================================================================
// EXPENSE AGGREGATION
// =============================================================================

// ExpensesByPeriod buckets a lease's expenses into its window periods.
// Expenses outside every window period are dropped silently: they belong to
// another statement run and never affect arrears.
func ExpensesByPeriod(expenses []ExpenseRecord, periods []BillingPeriod) [][]ExpenseItem {
	buckets := make([][]ExpenseItem, len(periods))
	for _, exp := range expenses {
		for i, p := range periods {
			if !p.Contains(exp.Date) {
				continue
			}
			label := exp.Category
			if label == "" {
				label = "Expense"
			}
			buckets[i] = append(buckets[i], ExpenseItem{
				Label:   label,
				Amount:  exp.Amount.Abs(),
				Comment: exp.Description,
			})
			break
		}
	}
	return buckets
}

// sumExpenses totals one period's expense bucket.
func sumExpenses(items []ExpenseItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Amount)
	}
	return total
}
