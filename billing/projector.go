/*
projector.go - Statement table assembly

PURPOSE:
  Flattens per-lease ledgers into the single ordered table consumed by
  report renderers. Pure data assembly: every business figure was already
  computed upstream; the projector only arranges and totals it.
*/
package billing

import "github.com/shopspring/decimal"

// LeaseSummary is the per-lease header line of a statement: one opening
// balance and one closing arrears figure per lease.
type LeaseSummary struct {
	LeaseID        LeaseID
	LeaseReference string
	PropertyName   string
	CustomerName   string
	OpeningBalance decimal.Decimal
	FinalArrears   decimal.Decimal
	PeriodCount    int
}

// StatementTotals is the footer row summed over the whole table.
type StatementTotals struct {
	RentDue        decimal.Decimal
	RentReceived   decimal.Decimal
	ManagementFees decimal.Decimal
	ServiceFees    decimal.Decimal
	Commission     decimal.Decimal
	Expenses       decimal.Decimal
	NetToOwner     decimal.Decimal
	FinalArrears   decimal.Decimal
}

// StatementTable is the renderer-facing output of a statement run.
type StatementTable struct {
	Rows   []LedgerRow
	Leases []LeaseSummary
	Totals StatementTotals
}

// Project flattens batch ledgers into the statement table. Ledgers are
// expected in their fan-in order (sorted by reference); rows inherit it.
func Project(ledgers []*LeaseLedger) StatementTable {
	table := StatementTable{
		Totals: StatementTotals{
			RentDue:        decimal.Zero,
			RentReceived:   decimal.Zero,
			ManagementFees: decimal.Zero,
			ServiceFees:    decimal.Zero,
			Commission:     decimal.Zero,
			Expenses:       decimal.Zero,
			NetToOwner:     decimal.Zero,
			FinalArrears:   decimal.Zero,
		},
	}

	for _, ledger := range ledgers {
		if len(ledger.Rows) == 0 {
			continue
		}

		table.Rows = append(table.Rows, ledger.Rows...)
		table.Leases = append(table.Leases, LeaseSummary{
			LeaseID:        ledger.Lease.ID,
			LeaseReference: ledger.Lease.Reference,
			PropertyName:   ledger.Lease.PropertyName,
			CustomerName:   ledger.Lease.CustomerName,
			OpeningBalance: ledger.OpeningBalance,
			FinalArrears:   ledger.FinalBalance,
			PeriodCount:    len(ledger.Rows),
		})

		for _, row := range ledger.Rows {
			table.Totals.RentDue = table.Totals.RentDue.Add(row.RentDue)
			table.Totals.RentReceived = table.Totals.RentReceived.Add(row.RentReceived)
			table.Totals.ManagementFees = table.Totals.ManagementFees.Add(row.ManagementFee)
			table.Totals.ServiceFees = table.Totals.ServiceFees.Add(row.ServiceFee)
			table.Totals.Commission = table.Totals.Commission.Add(row.TotalCommission)
			table.Totals.Expenses = table.Totals.Expenses.Add(row.TotalExpenses)
			table.Totals.NetToOwner = table.Totals.NetToOwner.Add(row.NetToOwner)
		}
		table.Totals.FinalArrears = table.Totals.FinalArrears.Add(ledger.FinalBalance)
	}
	return table
}
