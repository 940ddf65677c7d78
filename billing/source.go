/*
source.go - Ledger Data Source interface

PURPOSE:
  The engine never performs I/O; this is the boundary it reads through.
  Implementations mirror lease, payment, and expense records from the
  external payments platform into local storage.

IMPLEMENTATIONS:
  - billing/source: in-memory, for tests and demos
  - store/sqlite: SQLite mirror, for the server
*/
package billing

import "context"

// DataSource supplies the already-settled records a statement run consumes.
// Payments and Expenses must return records for the whole lease lifetime,
// ordered by date: prior history feeds the opening balance.
type DataSource interface {
	// Leases returns every mirrored lease.
	Leases(ctx context.Context) ([]Lease, error)

	// Payments returns all payments recorded against one lease.
	Payments(ctx context.Context, leaseID LeaseID) ([]PaymentRecord, error)

	// Expenses returns all expenses charged against one lease.
	Expenses(ctx context.Context, leaseID LeaseID) ([]ExpenseRecord, error)
}
