package billing_test

import (
	"errors"
	"testing"

	"github.com/propfolio/lease-ledger/billing"
)

// =============================================================================
// ERROR CLASSIFICATION
// =============================================================================

func TestIsFatalForLease_Classification(t *testing.T) {
	// GIVEN: The full error taxonomy
	// WHEN: Classifying each error
	// THEN: Only lease-scoped data errors count as fatal for the lease

	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"missing start sentinel", billing.ErrMissingStartDate, true},
		{"missing start wrapped", &billing.MissingStartDateError{LeaseID: "l1", Reference: "A-1"}, true},
		{"consistency sentinel", billing.ErrConsistencyViolation, true},
		{"consistency wrapped", &billing.ConsistencyError{LeaseID: "l1", Detail: "overlap"}, true},
		{"invalid window", billing.ErrInvalidWindow, false},
		{"unknown policy", billing.ErrUnknownPolicy, false},
		{"invalid billing day", billing.ErrInvalidBillingDay, false},
		{"unrelated", errors.New("disk on fire"), false},
	}

	for _, tc := range cases {
		if got := billing.IsFatalForLease(tc.err); got != tc.want {
			t.Errorf("%s: IsFatalForLease = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestIsConfigError_Classification(t *testing.T) {
	// Config errors and lease-data errors never overlap; HTTP handlers rely
	// on that to pick between 400 and 500.

	configErrs := []error{
		billing.ErrInvalidWindow,
		billing.ErrUnknownPolicy,
		billing.ErrInvalidBillingDay,
	}
	for _, err := range configErrs {
		if !billing.IsConfigError(err) {
			t.Errorf("IsConfigError(%v) = false, want true", err)
		}
		if billing.IsFatalForLease(err) {
			t.Errorf("IsFatalForLease(%v) = true, want false", err)
		}
	}

	if billing.IsConfigError(billing.ErrMissingStartDate) {
		t.Error("IsConfigError(ErrMissingStartDate) = true, want false")
	}
}
