/*
engine.go - Per-lease pipeline and concurrent batch runs

PURPOSE:
  Wires the stages together for one lease (periods -> proration ->
  payment aggregation -> arrears fold -> fees) and fans a batch of leases
  out across goroutines. Leases share no mutable state, so the batch is
  embarrassingly parallel; results are re-sorted on fan-in to keep runs
  byte-identical regardless of scheduling.

PROPAGATION POLICY:
  A lease that fails produces no rows and a LeaseFailure entry; the batch
  always completes. There are no retries here - the engine is pure
  computation over already-fetched records.
*/
package billing

import (
	"sort"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// =============================================================================
// ENGINE
// =============================================================================

// Engine computes lease ledgers. It holds only configuration; every run is
// a pure function of its inputs.
type Engine struct {
	fees   FeeConfig
	logger *zap.Logger
}

// NewEngine constructs an engine with the given global fee defaults.
// A nil logger disables logging.
func NewEngine(fees FeeConfig, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{fees: fees, logger: logger}
}

// RunInput bundles everything the engine needs for one lease.
type RunInput struct {
	Lease    Lease
	Payments []PaymentRecord
	Expenses []ExpenseRecord
	Window   Window
	Periods  PeriodConfig

	// Fees overrides the engine's default fee schedule for this run.
	// Nil means the engine default; an explicit zero schedule is honored.
	Fees *FeeConfig
}

// LeaseLedger is the computed result for one lease.
type LeaseLedger struct {
	Lease          Lease
	Rows           []LedgerRow
	OpeningBalance decimal.Decimal
	FinalBalance   decimal.Decimal
	Diagnostics    []Diagnostic
}

// =============================================================================
// PER-LEASE PIPELINE
// =============================================================================

// RunLease computes the full ledger for one lease. The stages are strictly
// sequential; each depends on the previous one's output.
func (e *Engine) RunLease(in RunInput) (*LeaseLedger, error) {
	schedule, err := GeneratePeriods(in.Lease, in.Periods, in.Window)
	if err != nil {
		return nil, err
	}

	ledger := &LeaseLedger{
		Lease:          in.Lease,
		OpeningBalance: decimal.Zero,
		FinalBalance:   decimal.Zero,
	}
	if len(schedule.InWindow) == 0 {
		// Future lease or no billable overlap: no rows, not an error.
		return ledger, nil
	}

	due := make([]decimal.Decimal, len(schedule.InWindow))
	for i, p := range schedule.InWindow {
		amount, diag := RentDueForPeriod(in.Lease, p)
		if diag != nil {
			ledger.Diagnostics = append(ledger.Diagnostics, *diag)
		}
		due[i] = amount
	}

	openingDue, openingDiags := OpeningDue(in.Lease, schedule.PreWindow)
	ledger.Diagnostics = append(ledger.Diagnostics, openingDiags...)

	totals, payDiags, err := AggregatePayments(in.Lease.ID, in.Payments, schedule.InWindow)
	if err != nil {
		return nil, err
	}
	ledger.Diagnostics = append(ledger.Diagnostics, payDiags...)

	entries := BuildLedger(schedule.InWindow, due, totals.PerPeriod, openingDue, totals.OpeningReceived)
	expenseBuckets := ExpensesByPeriod(in.Expenses, schedule.InWindow)

	feeCfg := e.fees
	if in.Fees != nil {
		feeCfg = *in.Fees
	}

	ledger.Rows = make([]LedgerRow, len(entries))
	for i, entry := range entries {
		expenses := expenseBuckets[i]
		totalExpenses := sumExpenses(expenses)
		fees := ComputeFees(feeCfg, in.Lease, entry.RentReceived, totalExpenses)

		ledger.Rows[i] = LedgerRow{
			LeaseID:        in.Lease.ID,
			LeaseReference: in.Lease.Reference,
			PropertyName:   in.Lease.PropertyName,
			CustomerName:   in.Lease.CustomerName,

			Period: entry.Period,

			RentDue:           entry.RentDue,
			RentReceived:      entry.RentReceived,
			LastPaymentDate:   totals.LastDate[i],
			PeriodArrears:     entry.PeriodArrears,
			OpeningBalance:    entry.OpeningBalance,
			CumulativeArrears: entry.CumulativeArrears,

			ManagementPercent: fees.ManagementPercent,
			ServicePercent:    fees.ServicePercent,
			ManagementFee:     fees.ManagementFee,
			ServiceFee:        fees.ServiceFee,
			TotalCommission:   fees.TotalCommission,

			Expenses:      expenses,
			TotalExpenses: totalExpenses,
			NetToOwner:    fees.NetToOwner,
		}
	}

	ledger.OpeningBalance = entries[0].OpeningBalance
	ledger.FinalBalance = entries[len(entries)-1].CumulativeArrears
	return ledger, nil
}

// =============================================================================
// BATCH RUNS
// =============================================================================

// LeaseFailure records a lease that produced no ledger.
type LeaseFailure struct {
	LeaseID   LeaseID
	Reference string
	Err       error
}

// BatchResult is the fan-in of a batch run. Ledgers are ordered by lease
// reference (then ID) so identical inputs always produce identical output.
type BatchResult struct {
	Ledgers  []*LeaseLedger
	Failures []LeaseFailure
}

// RunBatch computes ledgers for every input, one goroutine per lease.
// Per-lease failures are collected, never propagated: statement runs
// degrade to partial tables plus a failure list.
func (e *Engine) RunBatch(inputs []RunInput) BatchResult {
	type slot struct {
		ledger  *LeaseLedger
		failure *LeaseFailure
	}

	slots := make([]slot, len(inputs))
	var wg sync.WaitGroup
	for i := range inputs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ledger, err := e.RunLease(inputs[i])
			if err != nil {
				// Data problems skip one lease; anything else means the
				// run itself is misconfigured and every lease will fail.
				logFailure := e.logger.Error
				if IsFatalForLease(err) {
					logFailure = e.logger.Warn
				}
				logFailure("lease ledger failed",
					zap.String("lease_id", string(inputs[i].Lease.ID)),
					zap.String("reference", inputs[i].Lease.Reference),
					zap.Error(err))
				slots[i].failure = &LeaseFailure{
					LeaseID:   inputs[i].Lease.ID,
					Reference: inputs[i].Lease.Reference,
					Err:       err,
				}
				return
			}
			slots[i].ledger = ledger
		}(i)
	}
	wg.Wait()

	var result BatchResult
	for _, s := range slots {
		if s.failure != nil {
			result.Failures = append(result.Failures, *s.failure)
			continue
		}
		if s.ledger != nil {
			result.Ledgers = append(result.Ledgers, s.ledger)
		}
	}

	sort.SliceStable(result.Ledgers, func(i, j int) bool {
		a, b := result.Ledgers[i].Lease, result.Ledgers[j].Lease
		if a.Reference != b.Reference {
			return a.Reference < b.Reference
		}
		return a.ID < b.ID
	})
	sort.SliceStable(result.Failures, func(i, j int) bool {
		return result.Failures[i].LeaseID < result.Failures[j].LeaseID
	})
	return result
}
