package render_test

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propfolio/lease-ledger/billing"
	"github.com/propfolio/lease-ledger/render"
	"github.com/propfolio/lease-ledger/statement"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func sampleResult(t *testing.T) *statement.Result {
	t.Helper()

	engine := billing.NewEngine(billing.DefaultFeeConfig(), nil)
	win := billing.Window{Start: billing.NewDate(2024, 1, 1), End: billing.NewDate(2024, 2, 29)}

	batch := engine.RunBatch([]billing.RunInput{{
		Lease: billing.Lease{
			ID:           "l1",
			Reference:    "FLAT-12A",
			PropertyName: "12A Harbour View",
			CustomerName: "R. Okafor",
			StartDate:    billing.NewDate(2024, 1, 15),
			MonthlyRent:  billing.MustDecimal("1000"),
		},
		Payments: []billing.PaymentRecord{
			{ID: "p1", LeaseID: "l1", Amount: billing.MustDecimal("548.39"), Date: billing.NewDate(2024, 1, 20)},
		},
		Window:  win,
		Periods: billing.PeriodConfig{Policy: billing.PolicyCalendarMonth},
	}})
	require.Empty(t, batch.Failures)

	return &statement.Result{
		RunID:  "run-test",
		Window: win,
		Table:  billing.Project(batch.Ledgers),
	}
}

// =============================================================================
// CSV RENDERER
// =============================================================================

func TestCSV_HeaderRowsAndTotals(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, render.NewCSV().Render(&buf, sampleResult(t)))

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)

	// Header + two period rows + totals
	require.Len(t, records, 4)
	assert.Equal(t, "Lease Reference", records[0][0])
	assert.Equal(t, "FLAT-12A", records[1][0])
	assert.Equal(t, "548.39", records[1][6])  // rent due
	assert.Equal(t, "548.39", records[1][7])  // rent received
	assert.Equal(t, "TOTAL", records[3][0])
	assert.Equal(t, "1548.39", records[3][6]) // total due
}

func TestCSV_PeriodColumnUsesLongFormLabel(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, render.NewCSV().Render(&buf, sampleResult(t)))

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)

	assert.Equal(t, "January 15 - January 31 2024", records[1][3])
	assert.Equal(t, "February 1 - February 29 2024", records[2][3])
}

func TestCSV_MoneyAlwaysTwoDecimalPlaces(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, render.NewCSV().Render(&buf, sampleResult(t)))

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)

	// February row: due 1000 renders as 1000.00
	assert.Equal(t, "1000.00", records[2][6])
}
