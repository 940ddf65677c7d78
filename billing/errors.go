/*
errors.go - Centralized error types for the billing engine

PURPOSE:
  All engine error types in one place. The taxonomy mirrors the propagation
  policy: per-lease failures are collected and reported, never allowed to
  abort a batch statement run.

ERROR CATEGORIES:
  1. Fatal-for-lease errors - the lease produces no rows (missing start
     date, consistency violations in period generation or payment matching)
  2. Diagnostics - non-fatal data-quality warnings; the suspect value is
     zeroed and the row is annotated, so statements are never silently wrong

USAGE:
  Domain layers can branch on sentinels:

    if errors.Is(err, billing.ErrMissingStartDate) { ... }
*/
package billing

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrMissingStartDate is returned when a lease has no start date. The
	// lease is skipped with a warning; the rest of the batch continues.
	ErrMissingStartDate = errors.New("lease missing start date")

	// ErrConsistencyViolation indicates a generated period sequence failed
	// the non-overlap invariant, or a payment matched more than one period.
	// Fatal for the affected lease only.
	ErrConsistencyViolation = errors.New("ledger consistency violation")

	// ErrInvalidWindow is returned when a reporting window ends before it
	// starts.
	ErrInvalidWindow = errors.New("invalid reporting window: end before start")

	// ErrUnknownPolicy is returned for an unrecognized period policy.
	ErrUnknownPolicy = errors.New("unknown period policy")

	// ErrInvalidBillingDay is returned when a fixed-day policy is configured
	// with a day outside 1..31.
	ErrInvalidBillingDay = errors.New("billing day must be between 1 and 31")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ConsistencyError reports a broken period/payment invariant for one lease.
type ConsistencyError struct {
	LeaseID LeaseID
	Detail  string
	Date    Date // the offending date, when known
}

func (e *ConsistencyError) Error() string {
	if e.Date.IsZero() {
		return fmt.Sprintf("lease %s: %s", e.LeaseID, e.Detail)
	}
	return fmt.Sprintf("lease %s: %s (%s)", e.LeaseID, e.Detail, e.Date)
}

func (e *ConsistencyError) Unwrap() error { return ErrConsistencyViolation }

// MissingStartDateError identifies the lease that could not be billed.
type MissingStartDateError struct {
	LeaseID   LeaseID
	Reference string
}

func (e *MissingStartDateError) Error() string {
	return fmt.Sprintf("lease %s (%s): missing start date", e.LeaseID, e.Reference)
}

func (e *MissingStartDateError) Unwrap() error { return ErrMissingStartDate }

// =============================================================================
// DIAGNOSTICS - Non-fatal anomalies surfaced alongside the ledger
// =============================================================================

type DiagnosticKind string

const (
	// DiagDataQuality marks a suspect input value that was zeroed
	// (negative rent, negative payment amount).
	DiagDataQuality DiagnosticKind = "data_quality"

	// DiagUnmatchedPayment marks a payment that landed outside every
	// emitted period and the opening-balance range; it was excluded.
	DiagUnmatchedPayment DiagnosticKind = "unmatched_payment"
)

// Diagnostic is a warning attached to a lease's ledger. Rows are still
// produced; the diagnostic is the trace explaining any zeroed field.
type Diagnostic struct {
	Kind    DiagnosticKind
	LeaseID LeaseID
	Message string
	Date    Date
	Amount  decimal.Decimal
}

func (d Diagnostic) String() string {
	if d.Date.IsZero() {
		return fmt.Sprintf("[%s] lease %s: %s", d.Kind, d.LeaseID, d.Message)
	}
	return fmt.Sprintf("[%s] lease %s: %s (%s)", d.Kind, d.LeaseID, d.Message, d.Date)
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsFatalForLease reports whether the error aborts a single lease's ledger.
// All engine errors are lease-scoped; none abort the batch.
func IsFatalForLease(err error) bool {
	return errors.Is(err, ErrMissingStartDate) ||
		errors.Is(err, ErrConsistencyViolation)
}

// IsConfigError reports whether the error is caller misconfiguration rather
// than a data problem.
func IsConfigError(err error) bool {
	return errors.Is(err, ErrInvalidWindow) ||
		errors.Is(err, ErrUnknownPolicy) ||
		errors.Is(err, ErrInvalidBillingDay)
}
