/*
Package billing contains the lease billing-period and arrears-ledger engine.

PURPOSE:
  Given a lease, its recorded payments and expenses, and a reporting window,
  the engine derives the sequence of billing periods, prorates rent for
  partial periods, matches payments to periods, and folds everything into a
  running arrears ledger with commission and net-to-owner figures.

KEY CONCEPTS IN THIS FILE (types.go):
  - Lease: the agreement being billed (start/end, monthly rent, fee overrides)
  - PaymentRecord / ExpenseRecord: settled money movements against a lease
  - LedgerRow: one lease x period output row of the statement table
  - Window: the inclusive reporting window of a statement run

DESIGN PRINCIPLES:
  1. Purity: the engine owns no persistent state; it is a function of its
     inputs. Callers own persistence and rendering.
  2. Precision: all money is decimal.Decimal, rounded to 2dp at defined
     points only, so re-running a statement never drifts.
  3. Isolation: one bad lease never aborts a batch run.

SEE ALSO:
  - period.go: billing-period generation policies
  - arrears.go: the cumulative-balance fold
  - engine.go: per-lease pipeline and concurrent batch runs
*/
package billing

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type LeaseID string

// =============================================================================
// LEASE - The agreement being billed
// =============================================================================

// Lease is an immutable snapshot of a tenancy agreement as mirrored from the
// external payments platform. EndDate is nil for ongoing leases. The fee
// percentage overrides are nil when the global defaults apply.
type Lease struct {
	ID        LeaseID
	Reference string

	PropertyName string
	CustomerName string

	StartDate Date
	EndDate   *Date

	// MonthlyRent is the nominal rent per billing cycle, currency-agnostic.
	MonthlyRent decimal.Decimal

	// Per-lease commission overrides, as percentages (10 means 10%).
	ManagementPercent *decimal.Decimal
	ServicePercent    *decimal.Decimal
}

// Ended reports whether the lease has a recorded end date.
func (l Lease) Ended() bool { return l.EndDate != nil }

// ActiveDuring reports whether the lease overlaps [from, to].
func (l Lease) ActiveDuring(from, to Date) bool {
	if l.StartDate.IsZero() || l.StartDate.After(to) {
		return false
	}
	if l.Ended() && l.EndDate.Before(from) {
		return false
	}
	return true
}

// =============================================================================
// MONEY MOVEMENTS
// =============================================================================

// PaymentRecord is a settled payment against a lease.
type PaymentRecord struct {
	ID      string
	LeaseID LeaseID
	Amount  decimal.Decimal
	Date    Date
}

// ExpenseRecord is a cost charged against a lease. Expenses reduce
// net-to-owner but never affect arrears.
type ExpenseRecord struct {
	ID          string
	LeaseID     LeaseID
	Amount      decimal.Decimal
	Date        Date
	Category    string
	Description string
}

// ExpenseItem is the per-row expense detail carried into statements.
type ExpenseItem struct {
	Label   string
	Amount  decimal.Decimal
	Comment string
}

// =============================================================================
// REPORTING WINDOW
// =============================================================================

// Window is the inclusive [Start, End] range of a statement run.
type Window struct {
	Start Date
	End   Date
}

func (w Window) Valid() bool {
	return !w.Start.IsZero() && !w.End.IsZero() && w.Start.BeforeOrEqual(w.End)
}

// =============================================================================
// LEDGER ROW - One lease x period in the statement table
// =============================================================================

// LedgerRow is the fully derived output for one billing period of one lease.
// OpeningBalance is populated only on the first row of a lease; later rows
// report zero there because CumulativeArrears already encodes the history.
type LedgerRow struct {
	LeaseID        LeaseID
	LeaseReference string
	PropertyName   string
	CustomerName   string

	Period BillingPeriod

	RentDue           decimal.Decimal
	RentReceived      decimal.Decimal
	LastPaymentDate   Date // zero when no payment landed in the period
	PeriodArrears     decimal.Decimal
	OpeningBalance    decimal.Decimal
	CumulativeArrears decimal.Decimal

	ManagementPercent decimal.Decimal
	ServicePercent    decimal.Decimal
	ManagementFee     decimal.Decimal
	ServiceFee        decimal.Decimal
	TotalCommission   decimal.Decimal

	Expenses      []ExpenseItem
	TotalExpenses decimal.Decimal
	NetToOwner    decimal.Decimal
}

// =============================================================================
// FEE CONFIGURATION
// =============================================================================

// FeeConfig carries the global default commission percentages, injected into
// the engine at construction. Lease-level overrides win when present.
type FeeConfig struct {
	DefaultManagementPercent decimal.Decimal
	DefaultServicePercent    decimal.Decimal
}

// DefaultFeeConfig returns the standard agency fee schedule: 10%
// management and 5% service charge.
func DefaultFeeConfig() FeeConfig {
	return FeeConfig{
		DefaultManagementPercent: decimal.NewFromInt(10),
		DefaultServicePercent:    decimal.NewFromInt(5),
	}
}

// hundred is the divisor turning percentages into rates.
var hundred = decimal.NewFromInt(100)

// MustDecimal parses a decimal literal, panicking on malformed input.
// Intended for configuration defaults and tests, not data paths.
func MustDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}
