// Package source provides DataSource implementations.
package source

import (
	"context"
	"sort"
	"sync"

	"github.com/propfolio/lease-ledger/billing"
)

// =============================================================================
// MEMORY SOURCE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu       sync.RWMutex
	leases   []billing.Lease
	payments map[billing.LeaseID][]billing.PaymentRecord
	expenses map[billing.LeaseID][]billing.ExpenseRecord
}

func NewMemory() *Memory {
	return &Memory{
		payments: make(map[billing.LeaseID][]billing.PaymentRecord),
		expenses: make(map[billing.LeaseID][]billing.ExpenseRecord),
	}
}

// AddLease registers a mirrored lease. Leases are kept sorted by reference
// so listing order is stable.
func (m *Memory) AddLease(lease billing.Lease) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := sort.Search(len(m.leases), func(i int) bool {
		return m.leases[i].Reference > lease.Reference
	})
	m.leases = append(m.leases, billing.Lease{})
	copy(m.leases[i+1:], m.leases[i:])
	m.leases[i] = lease
}

// AddPayment records a payment, kept in date order.
func (m *Memory) AddPayment(p billing.PaymentRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()

	records := m.payments[p.LeaseID]
	i := sort.Search(len(records), func(i int) bool {
		return records[i].Date.After(p.Date)
	})
	records = append(records, billing.PaymentRecord{})
	copy(records[i+1:], records[i:])
	records[i] = p
	m.payments[p.LeaseID] = records
}

// AddExpense records an expense, kept in date order.
func (m *Memory) AddExpense(e billing.ExpenseRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()

	records := m.expenses[e.LeaseID]
	i := sort.Search(len(records), func(i int) bool {
		return records[i].Date.After(e.Date)
	})
	records = append(records, billing.ExpenseRecord{})
	copy(records[i+1:], records[i:])
	records[i] = e
	m.expenses[e.LeaseID] = records
}

func (m *Memory) Leases(_ context.Context) ([]billing.Lease, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]billing.Lease, len(m.leases))
	copy(result, m.leases)
	return result, nil
}

func (m *Memory) Payments(_ context.Context, leaseID billing.LeaseID) ([]billing.PaymentRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]billing.PaymentRecord, len(m.payments[leaseID]))
	copy(result, m.payments[leaseID])
	return result, nil
}

func (m *Memory) Expenses(_ context.Context, leaseID billing.LeaseID) ([]billing.ExpenseRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]billing.ExpenseRecord, len(m.expenses[leaseID]))
	copy(result, m.expenses[leaseID])
	return result, nil
}
