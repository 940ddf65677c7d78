/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for frontend

ROUTE GROUPS:
  /api/leases/*       Lease mirror management
  /api/statements/*   Statement runs and exports
  /api/scenarios/*    Demo scenarios
  /api/reset          Mirror reset (dev only)

SECURITY NOTE:
  No authentication middleware currently. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Lease routes
		r.Route("/leases", func(r chi.Router) {
			r.Get("/", h.ListLeases)
			r.Post("/", h.CreateLease)
			r.Get("/{id}", h.GetLease)
			r.Post("/{id}/terminate", h.TerminateLease)
			r.Get("/{id}/payments", h.ListPayments)
			r.Post("/{id}/payments", h.AddPayment)
			r.Get("/{id}/expenses", h.ListExpenses)
			r.Post("/{id}/expenses", h.AddExpense)
		})

		// Statement routes
		r.Route("/statements", func(r chi.Router) {
			r.Post("/run", h.RunStatement)
			r.Post("/export/csv", h.ExportCSV)
			r.Post("/export/pdf", h.ExportPDF)
		})

		// Scenario routes
		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Get("/current", h.GetCurrentScenario)
			r.Post("/load", h.LoadScenario)
		})

		// Reset (dev only)
		r.Post("/reset", h.Reset)
	})

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}
