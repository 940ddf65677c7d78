/*
handlers.go - HTTP API handlers for the lease statement system

PURPOSE:
  Exposes the lease mirror and statement engine via REST API. Handles
  HTTP request/response, JSON serialization, and delegates to domain
  logic.

ENDPOINTS:
  Leases:
    GET    /api/leases                     List mirrored leases (?active_on=YYYY-MM-DD)
    POST   /api/leases                     Mirror a lease
    GET    /api/leases/{id}                Get lease details
    POST   /api/leases/{id}/terminate      Set lease end date
    GET    /api/leases/{id}/payments       Payment history
    POST   /api/leases/{id}/payments       Record a payment
    GET    /api/leases/{id}/expenses       Expense history
    POST   /api/leases/{id}/expenses       Record an expense

  Statements:
    POST   /api/statements/run             Run a statement, JSON result
    POST   /api/statements/export/csv      Run and download as CSV
    POST   /api/statements/export/pdf      Run and download as PDF

  Scenarios:
    GET    /api/scenarios                  List demo scenarios
    POST   /api/scenarios/load             Load a demo scenario

  Admin:
    POST   /api/reset                      Clear the mirror (dev only)

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Resource not found
  - 500: Internal errors
  Per-lease failures inside a run do NOT fail the request; they are
  reported in the result body.

SECURITY NOTE:
  Currently NO authentication or authorization. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo scenario loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/propfolio/lease-ledger/billing"
	"github.com/propfolio/lease-ledger/factory"
	"github.com/propfolio/lease-ledger/render"
	"github.com/propfolio/lease-ledger/statement"
	"github.com/propfolio/lease-ledger/store/sqlite"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store         *sqlite.Store
	Service       *statement.Service
	ConfigFactory *factory.ConfigFactory
	Logger        *zap.Logger

	// Track currently loaded scenario
	currentScenario string
}

// NewHandler creates a new handler with the given store and service.
func NewHandler(store *sqlite.Store, service *statement.Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		Store:         store,
		Service:       service,
		ConfigFactory: factory.NewConfigFactory(),
		Logger:        logger,
	}
}

// =============================================================================
// LEASE HANDLERS
// =============================================================================

// ListLeases returns all mirrored leases. The optional active_on query
// parameter (YYYY-MM-DD) keeps only leases active on that date.
func (h *Handler) ListLeases(w http.ResponseWriter, r *http.Request) {
	leases, err := h.Store.Leases(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list leases", err)
		return
	}

	if raw := r.URL.Query().Get("active_on"); raw != "" {
		activeOn, err := billing.ParseDate(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid active_on date", err)
			return
		}
		filtered := leases[:0]
		for _, lease := range leases {
			if lease.ActiveDuring(activeOn, activeOn) {
				filtered = append(filtered, lease)
			}
		}
		leases = filtered
	}

	dtos := make([]LeaseDTO, len(leases))
	for i, lease := range leases {
		dtos[i] = toLeaseDTO(lease)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetLease returns a single lease.
func (h *Handler) GetLease(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	lease, err := h.Store.GetLease(r.Context(), billing.LeaseID(id))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get lease", err)
		return
	}
	if lease == nil {
		writeError(w, http.StatusNotFound, "Lease not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, toLeaseDTO(*lease))
}

// CreateLease mirrors a lease into the local store.
func (h *Handler) CreateLease(w http.ResponseWriter, r *http.Request) {
	var req CreateLeaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.ID == "" || req.Reference == "" {
		writeError(w, http.StatusBadRequest, "id and reference are required", nil)
		return
	}

	lease, err := fromCreateLeaseRequest(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid lease", err)
		return
	}
	if err := h.Store.SaveLease(r.Context(), lease); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save lease", err)
		return
	}
	writeJSON(w, http.StatusCreated, toLeaseDTO(lease))
}

// TerminateLease sets the lease end date.
func (h *Handler) TerminateLease(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req TerminateLeaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	endDate, err := billing.ParseDate(req.EndDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid end date", err)
		return
	}

	lease, err := h.Store.GetLease(r.Context(), billing.LeaseID(id))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get lease", err)
		return
	}
	if lease == nil {
		writeError(w, http.StatusNotFound, "Lease not found", nil)
		return
	}

	if err := h.Store.TerminateLease(r.Context(), billing.LeaseID(id), endDate); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to terminate lease", err)
		return
	}
	lease.EndDate = &endDate
	writeJSON(w, http.StatusOK, toLeaseDTO(*lease))
}

// =============================================================================
// PAYMENT HANDLERS
// =============================================================================

// ListPayments returns a lease's payment history in date order.
func (h *Handler) ListPayments(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	payments, err := h.Store.Payments(r.Context(), billing.LeaseID(id))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list payments", err)
		return
	}

	dtos := make([]PaymentDTO, len(payments))
	for i, p := range payments {
		dtos[i] = PaymentDTO{
			ID:      p.ID,
			LeaseID: string(p.LeaseID),
			Amount:  p.Amount.StringFixed(2),
			Date:    p.Date.String(),
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// AddPayment records a settled payment against a lease.
func (h *Handler) AddPayment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req AddPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.ID == "" {
		writeError(w, http.StatusBadRequest, "id is required", nil)
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid amount", err)
		return
	}
	date, err := billing.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date", err)
		return
	}

	lease, err := h.Store.GetLease(r.Context(), billing.LeaseID(id))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get lease", err)
		return
	}
	if lease == nil {
		writeError(w, http.StatusNotFound, "Lease not found", nil)
		return
	}

	record := billing.PaymentRecord{
		ID:      req.ID,
		LeaseID: billing.LeaseID(id),
		Amount:  amount,
		Date:    date,
	}
	if err := h.Store.AddPayment(r.Context(), record); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save payment", err)
		return
	}
	writeJSON(w, http.StatusCreated, PaymentDTO{
		ID:      record.ID,
		LeaseID: id,
		Amount:  record.Amount.StringFixed(2),
		Date:    record.Date.String(),
	})
}

// =============================================================================
// EXPENSE HANDLERS
// =============================================================================

// ListExpenses returns a lease's expense history in date order.
func (h *Handler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	expenses, err := h.Store.Expenses(r.Context(), billing.LeaseID(id))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list expenses", err)
		return
	}

	dtos := make([]ExpenseDTO, len(expenses))
	for i, e := range expenses {
		dtos[i] = ExpenseDTO{
			ID:          e.ID,
			LeaseID:     string(e.LeaseID),
			Amount:      e.Amount.StringFixed(2),
			Date:        e.Date.String(),
			Category:    e.Category,
			Description: e.Description,
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// AddExpense records a cost charged against a lease.
func (h *Handler) AddExpense(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req AddExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.ID == "" {
		writeError(w, http.StatusBadRequest, "id is required", nil)
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid amount", err)
		return
	}
	date, err := billing.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date", err)
		return
	}

	lease, err := h.Store.GetLease(r.Context(), billing.LeaseID(id))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get lease", err)
		return
	}
	if lease == nil {
		writeError(w, http.StatusNotFound, "Lease not found", nil)
		return
	}

	record := billing.ExpenseRecord{
		ID:          req.ID,
		LeaseID:     billing.LeaseID(id),
		Amount:      amount,
		Date:        date,
		Category:    req.Category,
		Description: req.Description,
	}
	if err := h.Store.AddExpense(r.Context(), record); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save expense", err)
		return
	}
	writeJSON(w, http.StatusCreated, ExpenseDTO{
		ID:          record.ID,
		LeaseID:     id,
		Amount:      record.Amount.StringFixed(2),
		Date:        record.Date.String(),
		Category:    record.Category,
		Description: record.Description,
	})
}

// =============================================================================
// STATEMENT HANDLERS
// =============================================================================

// RunStatement executes a statement run and returns the projected table.
// POST /api/statements/run
func (h *Handler) RunStatement(w http.ResponseWriter, r *http.Request) {
	result, status, err := h.runFromRequest(r)
	if err != nil {
		writeError(w, status, "Statement run failed", err)
		return
	}
	writeJSON(w, http.StatusOK, toStatementResultDTO(result))
}

// ExportCSV executes a statement run and streams it as CSV.
// POST /api/statements/export/csv
func (h *Handler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	result, status, err := h.runFromRequest(r)
	if err != nil {
		writeError(w, status, "Statement run failed", err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="statement-%s.csv"`, result.RunID))
	if err := render.NewCSV().Render(w, result); err != nil {
		h.Logger.Error("csv render failed", zap.String("run_id", result.RunID), zap.Error(err))
	}
}

// ExportPDF executes a statement run and streams it as PDF.
// POST /api/statements/export/pdf
func (h *Handler) ExportPDF(w http.ResponseWriter, r *http.Request) {
	result, status, err := h.runFromRequest(r)
	if err != nil {
		writeError(w, status, "Statement run failed", err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="statement-%s.pdf"`, result.RunID))
	if err := render.NewPDF("").Render(w, result); err != nil {
		h.Logger.Error("pdf render failed", zap.String("run_id", result.RunID), zap.Error(err))
	}
}

// runFromRequest decodes the run configuration and executes the run.
func (h *Handler) runFromRequest(r *http.Request) (*statement.Result, int, error) {
	var req RunStatementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err)
	}

	cfg, err := h.ConfigFactory.FromJSON(req.Config)
	if err != nil {
		return nil, http.StatusBadRequest, err
	}

	result, err := h.Service.Run(r.Context(), statement.RunRequest{
		Window:  cfg.Window,
		Periods: cfg.Periods,
		Fees:    cfg.Fees,
	})
	if err != nil {
		if billing.IsConfigError(err) {
			return nil, http.StatusBadRequest, err
		}
		return nil, http.StatusInternalServerError, err
	}
	return result, http.StatusOK, nil
}

// =============================================================================
// ADMIN HANDLERS
// =============================================================================

// Reset clears all mirrored data.
// POST /api/reset
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Reset(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset", err)
		return
	}
	h.currentScenario = ""
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

// =============================================================================
// DTO CONVERSION
// =============================================================================

func toLeaseDTO(lease billing.Lease) LeaseDTO {
	dto := LeaseDTO{
		ID:           string(lease.ID),
		Reference:    lease.Reference,
		PropertyName: lease.PropertyName,
		CustomerName: lease.CustomerName,
		StartDate:    lease.StartDate.String(),
		MonthlyRent:  lease.MonthlyRent.StringFixed(2),
	}
	if lease.EndDate != nil {
		dto.EndDate = strPtr(lease.EndDate.String())
	}
	if lease.ManagementPercent != nil {
		dto.ManagementPercent = strPtr(lease.ManagementPercent.String())
	}
	if lease.ServicePercent != nil {
		dto.ServicePercent = strPtr(lease.ServicePercent.String())
	}
	return dto
}

func fromCreateLeaseRequest(req CreateLeaseRequest) (billing.Lease, error) {
	lease := billing.Lease{
		ID:           billing.LeaseID(req.ID),
		Reference:    req.Reference,
		PropertyName: req.PropertyName,
		CustomerName: req.CustomerName,
	}

	var err error
	if req.StartDate != "" {
		if lease.StartDate, err = billing.ParseDate(req.StartDate); err != nil {
			return billing.Lease{}, fmt.Errorf("invalid start date: %w", err)
		}
	}
	if req.EndDate != nil && *req.EndDate != "" {
		d, err := billing.ParseDate(*req.EndDate)
		if err != nil {
			return billing.Lease{}, fmt.Errorf("invalid end date: %w", err)
		}
		lease.EndDate = &d
	}
	if lease.MonthlyRent, err = decimal.NewFromString(req.MonthlyRent); err != nil {
		return billing.Lease{}, fmt.Errorf("invalid monthly rent: %w", err)
	}
	if req.ManagementPercent != nil {
		pct, err := decimal.NewFromString(*req.ManagementPercent)
		if err != nil {
			return billing.Lease{}, fmt.Errorf("invalid management percent: %w", err)
		}
		lease.ManagementPercent = &pct
	}
	if req.ServicePercent != nil {
		pct, err := decimal.NewFromString(*req.ServicePercent)
		if err != nil {
			return billing.Lease{}, fmt.Errorf("invalid service percent: %w", err)
		}
		lease.ServicePercent = &pct
	}
	return lease, nil
}

func toStatementResultDTO(result *statement.Result) StatementResultDTO {
	dto := StatementResultDTO{
		RunID:       result.RunID,
		WindowStart: result.Window.Start.String(),
		WindowEnd:   result.Window.End.String(),
		Rows:        make([]LedgerRowDTO, len(result.Table.Rows)),
		Leases:      make([]LeaseSummaryDTO, len(result.Table.Leases)),
		Totals:      toTotalsDTO(result.Table.Totals),
	}

	for i, row := range result.Table.Rows {
		dto.Rows[i] = toLedgerRowDTO(row)
	}
	for i, lease := range result.Table.Leases {
		dto.Leases[i] = LeaseSummaryDTO{
			LeaseID:        string(lease.LeaseID),
			LeaseReference: lease.LeaseReference,
			PropertyName:   lease.PropertyName,
			CustomerName:   lease.CustomerName,
			OpeningBalance: lease.OpeningBalance.StringFixed(2),
			FinalArrears:   lease.FinalArrears.StringFixed(2),
			PeriodCount:    lease.PeriodCount,
		}
	}
	for _, f := range result.Failures {
		dto.Failures = append(dto.Failures, FailureDTO{
			LeaseID:   string(f.LeaseID),
			Reference: f.Reference,
			Error:     f.Err.Error(),
		})
	}
	for _, d := range result.Diagnostics {
		item := DiagnosticDTO{
			Kind:    string(d.Kind),
			LeaseID: string(d.LeaseID),
			Message: d.Message,
		}
		if !d.Date.IsZero() {
			item.Date = d.Date.String()
		}
		if !d.Amount.IsZero() {
			item.Amount = d.Amount.StringFixed(2)
		}
		dto.Diagnostics = append(dto.Diagnostics, item)
	}
	return dto
}

func toLedgerRowDTO(row billing.LedgerRow) LedgerRowDTO {
	dto := LedgerRowDTO{
		LeaseID:        string(row.LeaseID),
		LeaseReference: row.LeaseReference,
		PropertyName:   row.PropertyName,
		CustomerName:   row.CustomerName,

		Period:      row.Period.DisplayName(),
		PeriodStart: row.Period.Start.String(),
		PeriodEnd:   row.Period.End.String(),
		Partial:     row.Period.Partial,

		RentDue:           row.RentDue.StringFixed(2),
		RentReceived:      row.RentReceived.StringFixed(2),
		OpeningBalance:    row.OpeningBalance.StringFixed(2),
		PeriodArrears:     row.PeriodArrears.StringFixed(2),
		CumulativeArrears: row.CumulativeArrears.StringFixed(2),

		ManagementPercent: row.ManagementPercent.String(),
		ServicePercent:    row.ServicePercent.String(),
		ManagementFee:     row.ManagementFee.StringFixed(2),
		ServiceFee:        row.ServiceFee.StringFixed(2),
		TotalCommission:   row.TotalCommission.StringFixed(2),

		TotalExpenses: row.TotalExpenses.StringFixed(2),
		NetToOwner:    row.NetToOwner.StringFixed(2),
	}
	if !row.LastPaymentDate.IsZero() {
		dto.LastPaymentDate = row.LastPaymentDate.String()
	}
	for _, item := range row.Expenses {
		dto.Expenses = append(dto.Expenses, ExpenseItemDTO{
			Label:   item.Label,
			Amount:  item.Amount.StringFixed(2),
			Comment: item.Comment,
		})
	}
	return dto
}

func toTotalsDTO(t billing.StatementTotals) StatementTotalsDTO {
	return StatementTotalsDTO{
		RentDue:        t.RentDue.StringFixed(2),
		RentReceived:   t.RentReceived.StringFixed(2),
		ManagementFees: t.ManagementFees.StringFixed(2),
		ServiceFees:    t.ServiceFees.StringFixed(2),
		Commission:     t.Commission.StringFixed(2),
		Expenses:       t.Expenses.StringFixed(2),
		NetToOwner:     t.NetToOwner.StringFixed(2),
		FinalArrears:   t.FinalArrears.StringFixed(2),
	}
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

func strPtr(s string) *string {
	return &s
}
