/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

MONEY FIELDS:
  All money amounts cross the wire as two-decimal strings ("548.39",
  "1000.00"), never floats. Percentages are decimal strings without
  padding ("10", "7.5").

SEE ALSO:
  - handlers.go: Uses these types
  - factory/config.go: RunConfigJSON type
*/
package api

import (
	"github.com/propfolio/lease-ledger/factory"
)

// =============================================================================
// LEASE TYPES
// =============================================================================

// LeaseDTO represents a mirrored lease in API responses.
type LeaseDTO struct {
	ID                string  `json:"id"`
	Reference         string  `json:"reference"`
	PropertyName      string  `json:"property_name,omitempty"`
	CustomerName      string  `json:"customer_name,omitempty"`
	StartDate         string  `json:"start_date"`
	EndDate           *string `json:"end_date,omitempty"`
	MonthlyRent       string  `json:"monthly_rent"`
	ManagementPercent *string `json:"management_percent,omitempty"`
	ServicePercent    *string `json:"service_percent,omitempty"`
}

// CreateLeaseRequest is the request to mirror a lease.
type CreateLeaseRequest struct {
	ID                string  `json:"id"`
	Reference         string  `json:"reference"`
	PropertyName      string  `json:"property_name"`
	CustomerName      string  `json:"customer_name"`
	StartDate         string  `json:"start_date"`
	EndDate           *string `json:"end_date,omitempty"`
	MonthlyRent       string  `json:"monthly_rent"`
	ManagementPercent *string `json:"management_percent,omitempty"`
	ServicePercent    *string `json:"service_percent,omitempty"`
}

// TerminateLeaseRequest sets a lease end date.
type TerminateLeaseRequest struct {
	EndDate string `json:"end_date"`
}

// =============================================================================
// PAYMENT AND EXPENSE TYPES
// =============================================================================

// PaymentDTO represents a settled payment.
type PaymentDTO struct {
	ID      string `json:"id"`
	LeaseID string `json:"lease_id"`
	Amount  string `json:"amount"`
	Date    string `json:"date"`
}

// AddPaymentRequest records a payment against a lease.
type AddPaymentRequest struct {
	ID     string `json:"id"`
	Amount string `json:"amount"`
	Date   string `json:"date"`
}

// ExpenseDTO represents a cost charged against a lease.
type ExpenseDTO struct {
	ID          string `json:"id"`
	LeaseID     string `json:"lease_id"`
	Amount      string `json:"amount"`
	Date        string `json:"date"`
	Category    string `json:"category,omitempty"`
	Description string `json:"description,omitempty"`
}

// AddExpenseRequest records an expense against a lease.
type AddExpenseRequest struct {
	ID          string `json:"id"`
	Amount      string `json:"amount"`
	Date        string `json:"date"`
	Category    string `json:"category,omitempty"`
	Description string `json:"description,omitempty"`
}

// =============================================================================
// STATEMENT TYPES
// =============================================================================

// RunStatementRequest configures a statement run.
type RunStatementRequest struct {
	Config factory.RunConfigJSON `json:"config"`
}

// ExpenseItemDTO is one expense line inside a ledger row.
type ExpenseItemDTO struct {
	Label   string `json:"label"`
	Amount  string `json:"amount"`
	Comment string `json:"comment,omitempty"`
}

// LedgerRowDTO is one billing period of one lease.
type LedgerRowDTO struct {
	LeaseID        string `json:"lease_id"`
	LeaseReference string `json:"lease_reference"`
	PropertyName   string `json:"property_name,omitempty"`
	CustomerName   string `json:"customer_name,omitempty"`

	Period      string `json:"period"`
	PeriodStart string `json:"period_start"`
	PeriodEnd   string `json:"period_end"`
	Partial     bool   `json:"partial"`

	RentDue           string `json:"rent_due"`
	RentReceived      string `json:"rent_received"`
	LastPaymentDate   string `json:"last_payment_date,omitempty"`
	OpeningBalance    string `json:"opening_balance"`
	PeriodArrears     string `json:"period_arrears"`
	CumulativeArrears string `json:"cumulative_arrears"`

	ManagementPercent string `json:"management_percent"`
	ServicePercent    string `json:"service_percent"`
	ManagementFee     string `json:"management_fee"`
	ServiceFee        string `json:"service_fee"`
	TotalCommission   string `json:"total_commission"`

	Expenses      []ExpenseItemDTO `json:"expenses,omitempty"`
	TotalExpenses string           `json:"total_expenses"`
	NetToOwner    string           `json:"net_to_owner"`
}

// LeaseSummaryDTO is the per-lease header line of a statement.
type LeaseSummaryDTO struct {
	LeaseID        string `json:"lease_id"`
	LeaseReference string `json:"lease_reference"`
	PropertyName   string `json:"property_name,omitempty"`
	CustomerName   string `json:"customer_name,omitempty"`
	OpeningBalance string `json:"opening_balance"`
	FinalArrears   string `json:"final_arrears"`
	PeriodCount    int    `json:"period_count"`
}

// StatementTotalsDTO is the footer of the statement table.
type StatementTotalsDTO struct {
	RentDue        string `json:"rent_due"`
	RentReceived   string `json:"rent_received"`
	ManagementFees string `json:"management_fees"`
	ServiceFees    string `json:"service_fees"`
	Commission     string `json:"commission"`
	Expenses       string `json:"expenses"`
	NetToOwner     string `json:"net_to_owner"`
	FinalArrears   string `json:"final_arrears"`
}

// DiagnosticDTO is a non-fatal data-quality note from a run.
type DiagnosticDTO struct {
	Kind    string `json:"kind"`
	LeaseID string `json:"lease_id"`
	Message string `json:"message"`
	Date    string `json:"date,omitempty"`
	Amount  string `json:"amount,omitempty"`
}

// FailureDTO reports one lease the run could not process.
type FailureDTO struct {
	LeaseID   string `json:"lease_id"`
	Reference string `json:"reference,omitempty"`
	Error     string `json:"error"`
}

// StatementResultDTO is the full output of a statement run.
type StatementResultDTO struct {
	RunID       string             `json:"run_id"`
	WindowStart string             `json:"window_start"`
	WindowEnd   string             `json:"window_end"`
	Rows        []LedgerRowDTO     `json:"rows"`
	Leases      []LeaseSummaryDTO  `json:"leases"`
	Totals      StatementTotalsDTO `json:"totals"`
	Failures    []FailureDTO       `json:"failures,omitempty"`
	Diagnostics []DiagnosticDTO    `json:"diagnostics,omitempty"`
}

// =============================================================================
// SCENARIO TYPES
// =============================================================================

// ScenarioDTO describes a loadable demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// LoadScenarioRequest selects a scenario to load.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

// =============================================================================
// ERROR TYPES
// =============================================================================

// ErrorResponse is the JSON body of any non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
