/*
Package sqlite provides the SQLite-backed mirror of the external payments
platform's data.

PURPOSE:
  Implements billing.DataSource on a local SQLite database holding lease,
  payment, and expense records synced from the external platform. The
  billing engine itself never touches this package; statement runs read
  through the DataSource interface.

KEY TABLES:
  leases:    mirrored tenancy agreements (immutable for ledger purposes;
             only the end date may be set later, on termination)
  payments:  settled payments against a lease
  expenses:  costs charged against a lease

INDEXES:
  idx_payments_lease_date and idx_expenses_lease_date serve the hot path:
  loading one lease's full money history for a statement run.

WAL MODE:
  The database is opened with WAL so statement reads don't block mirror
  writes. A sync.RWMutex guards multi-statement operations; with
  PostgreSQL the database would handle this instead.

USAGE:
  store, err := sqlite.New("./data/lettings.db")
  if err != nil { ... }
  defer store.Close()

  result, err := svc.Run(ctx, req) // svc reads through store
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/propfolio/lease-ledger/billing"
)

// Store implements billing.DataSource using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a SQLite store at the given path. Use ":memory:" for an
// in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	-- Leases mirrored from the external payments platform
	CREATE TABLE IF NOT EXISTS leases (
		id TEXT PRIMARY KEY,
		reference TEXT NOT NULL,
		property_name TEXT NOT NULL DEFAULT '',
		customer_name TEXT NOT NULL DEFAULT '',
		start_date TEXT,
		end_date TEXT,
		monthly_rent TEXT NOT NULL,
		management_percent TEXT,
		service_percent TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_leases_reference
		ON leases(reference);

	-- Settled payments against a lease
	CREATE TABLE IF NOT EXISTS payments (
		id TEXT PRIMARY KEY,
		lease_id TEXT NOT NULL REFERENCES leases(id),
		amount TEXT NOT NULL,
		paid_on TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_payments_lease_date
		ON payments(lease_id, paid_on);

	-- Costs charged against a lease
	CREATE TABLE IF NOT EXISTS expenses (
		id TEXT PRIMARY KEY,
		lease_id TEXT NOT NULL REFERENCES leases(id),
		amount TEXT NOT NULL,
		incurred_on TEXT NOT NULL,
		category TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_expenses_lease_date
		ON expenses(lease_id, incurred_on);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// LEASES
// =============================================================================

// SaveLease inserts or replaces a mirrored lease.
func (s *Store) SaveLease(ctx context.Context, lease billing.Lease) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT OR REPLACE INTO leases
		(id, reference, property_name, customer_name, start_date, end_date,
		 monthly_rent, management_percent, service_percent, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		string(lease.ID),
		lease.Reference,
		lease.PropertyName,
		lease.CustomerName,
		nullableDate(lease.StartDate),
		nullableDatePtr(lease.EndDate),
		lease.MonthlyRent.String(),
		nullableDecimal(lease.ManagementPercent),
		nullableDecimal(lease.ServicePercent),
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// TerminateLease sets the lease end date. The only mutation a mirrored
// lease ever receives.
func (s *Store) TerminateLease(ctx context.Context, id billing.LeaseID, endDate billing.Date) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`UPDATE leases SET end_date = ? WHERE id = ?`,
		endDate.String(), string(id))
	return err
}

// GetLease returns one lease, or nil when absent.
func (s *Store) GetLease(ctx context.Context, id billing.LeaseID) (*billing.Lease, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, reference, property_name, customer_name, start_date,
		       end_date, monthly_rent, management_percent, service_percent
		FROM leases WHERE id = ?`, string(id))

	lease, err := scanLease(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &lease, nil
}

// Leases returns every mirrored lease ordered by reference.
func (s *Store) Leases(ctx context.Context) ([]billing.Lease, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, reference, property_name, customer_name, start_date,
		       end_date, monthly_rent, management_percent, service_percent
		FROM leases ORDER BY reference, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var leases []billing.Lease
	for rows.Next() {
		lease, err := scanLease(rows)
		if err != nil {
			return nil, err
		}
		leases = append(leases, lease)
	}
	return leases, rows.Err()
}

// =============================================================================
// PAYMENTS
// =============================================================================

// AddPayment records a settled payment.
func (s *Store) AddPayment(ctx context.Context, p billing.PaymentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO payments (id, lease_id, amount, paid_on, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		p.ID, string(p.LeaseID), p.Amount.String(), p.Date.String(),
		time.Now().UTC().Format(time.RFC3339))
	return err
}

// Payments returns all payments for a lease in date order.
func (s *Store) Payments(ctx context.Context, leaseID billing.LeaseID) ([]billing.PaymentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, lease_id, amount, paid_on
		FROM payments WHERE lease_id = ? ORDER BY paid_on, id`, string(leaseID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []billing.PaymentRecord
	for rows.Next() {
		var (
			p          billing.PaymentRecord
			leaseIDStr string
			amountStr  string
			paidOnStr  string
		)
		if err := rows.Scan(&p.ID, &leaseIDStr, &amountStr, &paidOnStr); err != nil {
			return nil, err
		}
		p.LeaseID = billing.LeaseID(leaseIDStr)
		if p.Amount, err = decimal.NewFromString(amountStr); err != nil {
			return nil, fmt.Errorf("payment %s: bad amount %q: %w", p.ID, amountStr, err)
		}
		if p.Date, err = billing.ParseDate(paidOnStr); err != nil {
			return nil, fmt.Errorf("payment %s: bad date %q: %w", p.ID, paidOnStr, err)
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

// =============================================================================
// EXPENSES
// =============================================================================

// AddExpense records a cost charged against a lease.
func (s *Store) AddExpense(ctx context.Context, e billing.ExpenseRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO expenses (id, lease_id, amount, incurred_on, category, description, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, string(e.LeaseID), e.Amount.String(), e.Date.String(),
		e.Category, e.Description,
		time.Now().UTC().Format(time.RFC3339))
	return err
}

// Expenses returns all expenses for a lease in date order.
func (s *Store) Expenses(ctx context.Context, leaseID billing.LeaseID) ([]billing.ExpenseRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, lease_id, amount, incurred_on, category, description
		FROM expenses WHERE lease_id = ? ORDER BY incurred_on, id`, string(leaseID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var expenses []billing.ExpenseRecord
	for rows.Next() {
		var (
			e          billing.ExpenseRecord
			leaseIDStr string
			amountStr  string
			dateStr    string
		)
		if err := rows.Scan(&e.ID, &leaseIDStr, &amountStr, &dateStr, &e.Category, &e.Description); err != nil {
			return nil, err
		}
		e.LeaseID = billing.LeaseID(leaseIDStr)
		if e.Amount, err = decimal.NewFromString(amountStr); err != nil {
			return nil, fmt.Errorf("expense %s: bad amount %q: %w", e.ID, amountStr, err)
		}
		if e.Date, err = billing.ParseDate(dateStr); err != nil {
			return nil, fmt.Errorf("expense %s: bad date %q: %w", e.ID, dateStr, err)
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

// =============================================================================
// MAINTENANCE
// =============================================================================

// Reset clears all mirrored data. Dev/demo environments only.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, table := range []string{"expenses", "payments", "leases"} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// SCAN HELPERS
// =============================================================================

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLease(row rowScanner) (billing.Lease, error) {
	var (
		lease         billing.Lease
		idStr         string
		startDate     sql.NullString
		endDate       sql.NullString
		rentStr       string
		managementPct sql.NullString
		servicePct    sql.NullString
	)
	err := row.Scan(&idStr, &lease.Reference, &lease.PropertyName,
		&lease.CustomerName, &startDate, &endDate, &rentStr,
		&managementPct, &servicePct)
	if err != nil {
		return billing.Lease{}, err
	}

	lease.ID = billing.LeaseID(idStr)
	if startDate.Valid && startDate.String != "" {
		if lease.StartDate, err = billing.ParseDate(startDate.String); err != nil {
			return billing.Lease{}, fmt.Errorf("lease %s: bad start date %q: %w", idStr, startDate.String, err)
		}
	}
	if endDate.Valid && endDate.String != "" {
		d, err := billing.ParseDate(endDate.String)
		if err != nil {
			return billing.Lease{}, fmt.Errorf("lease %s: bad end date %q: %w", idStr, endDate.String, err)
		}
		lease.EndDate = &d
	}
	if lease.MonthlyRent, err = decimal.NewFromString(rentStr); err != nil {
		return billing.Lease{}, fmt.Errorf("lease %s: bad rent %q: %w", idStr, rentStr, err)
	}
	if lease.ManagementPercent, err = parseNullDecimal(managementPct); err != nil {
		return billing.Lease{}, fmt.Errorf("lease %s: bad management percent: %w", idStr, err)
	}
	if lease.ServicePercent, err = parseNullDecimal(servicePct); err != nil {
		return billing.Lease{}, fmt.Errorf("lease %s: bad service percent: %w", idStr, err)
	}
	return lease, nil
}

func parseNullDecimal(v sql.NullString) (*decimal.Decimal, error) {
	if !v.Valid || v.String == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(v.String)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func nullableDate(d billing.Date) any {
	if d.IsZero() {
		return nil
	}
	return d.String()
}

func nullableDatePtr(d *billing.Date) any {
	if d == nil {
		return nil
	}
	return d.String()
}

func nullableDecimal(d *decimal.Decimal) any {
	if d == nil {
		return nil
	}
	return d.String()
}
