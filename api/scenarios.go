/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built scenarios that populate the mirror with realistic
	data for testing and demos. Each scenario creates leases, payments,
	and expenses that demonstrate specific statement behaviors.

AVAILABLE SCENARIOS:

	mid-month-start:    Lease starting mid-month, prorated first period
	overpayment:        Tenant pays ahead, negative arrears carry forward
	arrears-buildup:    Missed payments accumulating period over period
	terminated-lease:   Lease ending mid-period, prorated final period
	portfolio:          Several leases with payments and expenses mixed

HOW SCENARIOS WORK:
 1. Reset the mirror (clear all data)
 2. Insert leases
 3. Insert payments and expenses

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "portfolio"}

NOTE:

	Scenarios reset the mirror. Only use in development/demo environments.

SEE ALSO:
  - handlers.go: Remaining endpoint handlers
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/propfolio/lease-ledger/billing"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "mid-month-start",
		Name:        "Mid-Month Start",
		Description: "Lease starting on the 15th with a prorated first period",
	},
	{
		ID:          "overpayment",
		Name:        "Overpayment",
		Description: "Tenant pays ahead; credit carries forward as negative arrears",
	},
	{
		ID:          "arrears-buildup",
		Name:        "Arrears Build-Up",
		Description: "Missed payments accumulating across consecutive periods",
	},
	{
		ID:          "terminated-lease",
		Name:        "Terminated Lease",
		Description: "Lease ending mid-period with a prorated final charge",
	},
	{
		ID:          "portfolio",
		Name:        "Portfolio",
		Description: "Several leases with payments and expenses mixed together",
	},
}

// =============================================================================
// SCENARIO HANDLERS
// =============================================================================

// ListScenarios returns the available demo scenarios.
// GET /api/scenarios
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario returns the most recently loaded scenario, if any.
// GET /api/scenarios/current
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"scenario_id": h.currentScenario})
}

// LoadScenario resets the mirror and loads the selected scenario.
// POST /api/scenarios/load
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	ctx := r.Context()
	if err := h.Store.Reset(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset", err)
		return
	}

	var err error
	switch req.ScenarioID {
	case "mid-month-start":
		err = h.loadMidMonthStartScenario(ctx)
	case "overpayment":
		err = h.loadOverpaymentScenario(ctx)
	case "arrears-buildup":
		err = h.loadArrearsBuildupScenario(ctx)
	case "terminated-lease":
		err = h.loadTerminatedLeaseScenario(ctx)
	case "portfolio":
		err = h.loadPortfolioScenario(ctx)
	default:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Unknown scenario: %s", req.ScenarioID), nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load scenario", err)
		return
	}

	h.currentScenario = req.ScenarioID
	writeJSON(w, http.StatusOK, map[string]string{"status": "loaded", "scenario_id": req.ScenarioID})
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

func (h *Handler) loadMidMonthStartScenario(ctx context.Context) error {
	lease := billing.Lease{
		ID:           "lease-101",
		Reference:    "FLAT-12A",
		PropertyName: "12A Harbour View",
		CustomerName: "R. Okafor",
		StartDate:    billing.NewDate(2024, 1, 15),
		MonthlyRent:  billing.MustDecimal("1000"),
	}
	if err := h.Store.SaveLease(ctx, lease); err != nil {
		return err
	}

	// Full rent each month from the start date
	for i, date := range []billing.Date{
		billing.NewDate(2024, 1, 15),
		billing.NewDate(2024, 2, 15),
		billing.NewDate(2024, 3, 15),
	} {
		payment := billing.PaymentRecord{
			ID:      fmt.Sprintf("pay-101-%d", i+1),
			LeaseID: lease.ID,
			Amount:  billing.MustDecimal("1000"),
			Date:    date,
		}
		if err := h.Store.AddPayment(ctx, payment); err != nil {
			return err
		}
	}
	return nil
}

func (h *Handler) loadOverpaymentScenario(ctx context.Context) error {
	lease := billing.Lease{
		ID:           "lease-201",
		Reference:    "HOUSE-7",
		PropertyName: "7 Elm Close",
		CustomerName: "T. Lindqvist",
		StartDate:    billing.NewDate(2024, 1, 1),
		MonthlyRent:  billing.MustDecimal("1200"),
	}
	if err := h.Store.SaveLease(ctx, lease); err != nil {
		return err
	}

	// Two months paid up front in January
	payment := billing.PaymentRecord{
		ID:      "pay-201-1",
		LeaseID: lease.ID,
		Amount:  billing.MustDecimal("2400"),
		Date:    billing.NewDate(2024, 1, 3),
	}
	return h.Store.AddPayment(ctx, payment)
}

func (h *Handler) loadArrearsBuildupScenario(ctx context.Context) error {
	lease := billing.Lease{
		ID:           "lease-301",
		Reference:    "FLAT-3B",
		PropertyName: "3B Station Road",
		CustomerName: "M. Deng",
		StartDate:    billing.NewDate(2024, 1, 1),
		MonthlyRent:  billing.MustDecimal("950"),
	}
	if err := h.Store.SaveLease(ctx, lease); err != nil {
		return err
	}

	// January paid in full, February missed, March a partial payment
	payments := []billing.PaymentRecord{
		{ID: "pay-301-1", LeaseID: lease.ID, Amount: billing.MustDecimal("950"), Date: billing.NewDate(2024, 1, 2)},
		{ID: "pay-301-2", LeaseID: lease.ID, Amount: billing.MustDecimal("400"), Date: billing.NewDate(2024, 3, 10)},
	}
	for _, p := range payments {
		if err := h.Store.AddPayment(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

func (h *Handler) loadTerminatedLeaseScenario(ctx context.Context) error {
	end := billing.NewDate(2024, 3, 20)
	lease := billing.Lease{
		ID:           "lease-401",
		Reference:    "STUDIO-5",
		PropertyName: "Studio 5, Mill Yard",
		CustomerName: "A. Brennan",
		StartDate:    billing.NewDate(2023, 11, 1),
		EndDate:      &end,
		MonthlyRent:  billing.MustDecimal("800"),
	}
	if err := h.Store.SaveLease(ctx, lease); err != nil {
		return err
	}

	payments := []billing.PaymentRecord{
		{ID: "pay-401-1", LeaseID: lease.ID, Amount: billing.MustDecimal("800"), Date: billing.NewDate(2024, 1, 1)},
		{ID: "pay-401-2", LeaseID: lease.ID, Amount: billing.MustDecimal("800"), Date: billing.NewDate(2024, 2, 1)},
		{ID: "pay-401-3", LeaseID: lease.ID, Amount: billing.MustDecimal("516.13"), Date: billing.NewDate(2024, 3, 1)},
	}
	for _, p := range payments {
		if err := h.Store.AddPayment(ctx, p); err != nil {
			return err
		}
	}

	// End-of-tenancy clean billed against the final period
	expense := billing.ExpenseRecord{
		ID:          "exp-401-1",
		LeaseID:     lease.ID,
		Amount:      billing.MustDecimal("120"),
		Date:        billing.NewDate(2024, 3, 18),
		Category:    "cleaning",
		Description: "End of tenancy clean",
	}
	return h.Store.AddExpense(ctx, expense)
}

func (h *Handler) loadPortfolioScenario(ctx context.Context) error {
	mgmt := billing.MustDecimal("12")
	svc := billing.MustDecimal("3")
	leases := []billing.Lease{
		{
			ID:           "lease-501",
			Reference:    "APT-1",
			PropertyName: "1 Riverside Court",
			CustomerName: "J. Novak",
			StartDate:    billing.NewDate(2023, 6, 10),
			MonthlyRent:  billing.MustDecimal("1450"),
		},
		{
			ID:                "lease-502",
			Reference:         "APT-2",
			PropertyName:      "2 Riverside Court",
			CustomerName:      "S. Adeyemi",
			StartDate:         billing.NewDate(2024, 1, 1),
			MonthlyRent:       billing.MustDecimal("1100"),
			ManagementPercent: &mgmt,
			ServicePercent:    &svc,
		},
		{
			ID:           "lease-503",
			Reference:    "APT-3",
			PropertyName: "3 Riverside Court",
			CustomerName: "K. Fischer",
			StartDate:    billing.NewDate(2024, 2, 20),
			MonthlyRent:  billing.MustDecimal("980"),
		},
	}
	for _, lease := range leases {
		if err := h.Store.SaveLease(ctx, lease); err != nil {
			return err
		}
	}

	payments := []billing.PaymentRecord{
		{ID: "pay-501-1", LeaseID: "lease-501", Amount: billing.MustDecimal("1450"), Date: billing.NewDate(2024, 1, 10)},
		{ID: "pay-501-2", LeaseID: "lease-501", Amount: billing.MustDecimal("1450"), Date: billing.NewDate(2024, 2, 12)},
		{ID: "pay-501-3", LeaseID: "lease-501", Amount: billing.MustDecimal("1450"), Date: billing.NewDate(2024, 3, 11)},
		{ID: "pay-502-1", LeaseID: "lease-502", Amount: billing.MustDecimal("1100"), Date: billing.NewDate(2024, 1, 2)},
		{ID: "pay-502-2", LeaseID: "lease-502", Amount: billing.MustDecimal("550"), Date: billing.NewDate(2024, 2, 5)},
		{ID: "pay-503-1", LeaseID: "lease-503", Amount: billing.MustDecimal("980"), Date: billing.NewDate(2024, 2, 20)},
	}
	for _, p := range payments {
		if err := h.Store.AddPayment(ctx, p); err != nil {
			return err
		}
	}

	expenses := []billing.ExpenseRecord{
		{
			ID: "exp-501-1", LeaseID: "lease-501",
			Amount: billing.MustDecimal("85"), Date: billing.NewDate(2024, 2, 14),
			Category: "maintenance", Description: "Boiler service",
		},
		{
			ID: "exp-502-1", LeaseID: "lease-502",
			Amount: billing.MustDecimal("240"), Date: billing.NewDate(2024, 1, 20),
			Category: "repairs", Description: "Washing machine replacement drum",
		},
	}
	for _, e := range expenses {
		if err := h.Store.AddExpense(ctx, e); err != nil {
			return err
		}
	}
	return nil
}
