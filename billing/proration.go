/*
proration.go - Rent due per billing period

PURPOSE:
  Prices each billing period. A full period charges the nominal monthly
  rent unqualified; a clipped period charges a day-proportional share of
  the month containing the period's start.

FULL vs PARTIAL:
  "Full" means the period covers its whole anchor-to-anchor cycle. The
  nominal cycle is the source of truth, so a genuinely full 28-day February
  cycle is never misclassified by a day-count threshold.

ROUNDING:
  Prorated amounts are rounded half-up to 2 decimal places. Full periods
  carry the rent verbatim, so a run of N full periods sums to exactly N x
  rent with no drift.
*/
package billing

import (
	"github.com/shopspring/decimal"
)

// RentDueForPeriod computes the rent owed for one period. A negative
// monthly rent is a data-quality problem, not a credit: the period prices
// at zero and a diagnostic explains the zeroed figure.
func RentDueForPeriod(lease Lease, period BillingPeriod) (decimal.Decimal, *Diagnostic) {
	if lease.MonthlyRent.IsNegative() {
		return decimal.Zero, &Diagnostic{
			Kind:    DiagDataQuality,
			LeaseID: lease.ID,
			Message: "negative monthly rent treated as zero",
			Date:    period.Start,
			Amount:  lease.MonthlyRent,
		}
	}
	if !period.Partial {
		return lease.MonthlyRent, nil
	}

	days := decimal.NewFromInt(int64(period.Days()))
	monthDays := decimal.NewFromInt(int64(DaysInMonth(period.Start.Year(), period.Start.Month())))
	return lease.MonthlyRent.Mul(days).Div(monthDays).Round(2), nil
}

// totalDueForPeriods prices a run of periods, accumulating any diagnostics.
// Used for both the window rows and the pre-window opening balance so the
// two can never disagree on proration.
func totalDueForPeriods(lease Lease, periods []BillingPeriod) (decimal.Decimal, []Diagnostic) {
	total := decimal.Zero
	var diags []Diagnostic
	for _, p := range periods {
		due, diag := RentDueForPeriod(lease, p)
		if diag != nil {
			diags = append(diags, *diag)
		}
		total = total.Add(due)
	}
	return total, diags
}
