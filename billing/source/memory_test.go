package source_test

import (
	"context"
	"testing"

	"github.com/propfolio/lease-ledger/billing"
	"github.com/propfolio/lease-ledger/billing/source"
)

func TestMemory_LeasesOrderedByReference(t *testing.T) {
	// GIVEN: Leases added out of order
	// WHEN: Listing
	// THEN: Ordered by reference

	m := source.NewMemory()
	m.AddLease(billing.Lease{ID: "l2", Reference: "B-2", StartDate: billing.NewDate(2024, 1, 1), MonthlyRent: billing.MustDecimal("500")})
	m.AddLease(billing.Lease{ID: "l1", Reference: "A-1", StartDate: billing.NewDate(2024, 1, 1), MonthlyRent: billing.MustDecimal("500")})

	leases, err := m.Leases(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(leases) != 2 || leases[0].Reference != "A-1" {
		t.Fatalf("leases = %v, want A-1 first", leases)
	}
}

func TestMemory_PaymentsOrderedByDate(t *testing.T) {
	// GIVEN: Payments added newest first
	// WHEN: Listing for the lease
	// THEN: Date order, other leases excluded

	m := source.NewMemory()
	m.AddPayment(billing.PaymentRecord{ID: "p2", LeaseID: "l1", Amount: billing.MustDecimal("100"), Date: billing.NewDate(2024, 3, 1)})
	m.AddPayment(billing.PaymentRecord{ID: "p1", LeaseID: "l1", Amount: billing.MustDecimal("100"), Date: billing.NewDate(2024, 1, 1)})
	m.AddPayment(billing.PaymentRecord{ID: "p3", LeaseID: "l2", Amount: billing.MustDecimal("100"), Date: billing.NewDate(2024, 2, 1)})

	payments, err := m.Payments(context.Background(), "l1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(payments) != 2 {
		t.Fatalf("got %d payments, want 2", len(payments))
	}
	if payments[0].ID != "p1" || payments[1].ID != "p2" {
		t.Fatalf("payment order = %s, %s; want p1, p2", payments[0].ID, payments[1].ID)
	}
}

func TestMemory_ReturnsCopies(t *testing.T) {
	// GIVEN: A listed slice
	// WHEN: The caller mutates it
	// THEN: The store is unaffected

	m := source.NewMemory()
	m.AddLease(billing.Lease{ID: "l1", Reference: "A-1", StartDate: billing.NewDate(2024, 1, 1), MonthlyRent: billing.MustDecimal("500")})

	first, _ := m.Leases(context.Background())
	first[0].Reference = "MUTATED"

	second, _ := m.Leases(context.Background())
	if second[0].Reference != "A-1" {
		t.Fatal("store leaked its internal slice to the caller")
	}
}
