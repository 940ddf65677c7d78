/*
Package statement orchestrates owner rent-statement runs.

PURPOSE:
  Bridges the pure billing engine to the outside world: fetches mirrored
  records through a billing.DataSource, fans the batch out through the
  engine, and projects the result into the table renderers consume.

KEY CONCEPTS:
  - RunRequest: window + period policy for one statement run
  - Result: statement table + per-lease failures + diagnostics
  - Renderer: anything that can write a statement table (CSV, PDF)

The service stays free of business rules: period maths, proration, the
arrears fold, and fees all live in the billing package.
*/
package statement

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/propfolio/lease-ledger/billing"
)

// =============================================================================
// RENDERER - Consumed by the render package
// =============================================================================

// Renderer writes a statement table to an output stream.
type Renderer interface {
	Render(w io.Writer, result *Result) error
}

// =============================================================================
// SERVICE
// =============================================================================

type Service struct {
	source billing.DataSource
	engine *billing.Engine
	logger *zap.Logger
}

func NewService(source billing.DataSource, engine *billing.Engine, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{source: source, engine: engine, logger: logger}
}

// RunRequest configures one statement run.
type RunRequest struct {
	Window  billing.Window
	Periods billing.PeriodConfig

	// Fees overrides the engine's default fee schedule for this run only.
	Fees *billing.FeeConfig
}

// Result is the output of one statement run.
type Result struct {
	RunID       string
	Window      billing.Window
	Table       billing.StatementTable
	Failures    []billing.LeaseFailure
	Diagnostics []billing.Diagnostic
}

// Run executes a statement run over every mirrored lease. Per-lease
// failures are reported in the result; only configuration or data-source
// errors fail the run itself.
func (s *Service) Run(ctx context.Context, req RunRequest) (*Result, error) {
	if !req.Window.Valid() {
		return nil, billing.ErrInvalidWindow
	}

	runID := uuid.NewString()
	logger := s.logger.With(
		zap.String("run_id", runID),
		zap.String("window_start", req.Window.Start.String()),
		zap.String("window_end", req.Window.End.String()),
	)

	leases, err := s.source.Leases(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading leases: %w", err)
	}
	logger.Info("statement run started", zap.Int("leases", len(leases)))

	inputs := make([]billing.RunInput, 0, len(leases))
	for _, lease := range leases {
		payments, err := s.source.Payments(ctx, lease.ID)
		if err != nil {
			return nil, fmt.Errorf("loading payments for lease %s: %w", lease.ID, err)
		}
		expenses, err := s.source.Expenses(ctx, lease.ID)
		if err != nil {
			return nil, fmt.Errorf("loading expenses for lease %s: %w", lease.ID, err)
		}
		inputs = append(inputs, billing.RunInput{
			Lease:    lease,
			Payments: payments,
			Expenses: expenses,
			Window:   req.Window,
			Periods:  req.Periods,
			Fees:     req.Fees,
		})
	}

	batch := s.engine.RunBatch(inputs)

	result := &Result{
		RunID:    runID,
		Window:   req.Window,
		Table:    billing.Project(batch.Ledgers),
		Failures: batch.Failures,
	}
	for _, ledger := range batch.Ledgers {
		result.Diagnostics = append(result.Diagnostics, ledger.Diagnostics...)
	}

	logger.Info("statement run finished",
		zap.Int("rows", len(result.Table.Rows)),
		zap.Int("failures", len(result.Failures)),
		zap.Int("diagnostics", len(result.Diagnostics)))
	return result, nil
}
