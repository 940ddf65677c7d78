/*
Package render writes statement run results to downloadable documents.

Two renderers implement statement.Renderer: a CSV writer for spreadsheet
import and a PDF writer for owner-facing statements. Both consume the
projected statement table as-is and never recompute a figure.
*/
package render

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/shopspring/decimal"

	"github.com/propfolio/lease-ledger/billing"
	"github.com/propfolio/lease-ledger/statement"
)

var csvHeader = []string{
	"Lease Reference",
	"Property",
	"Customer",
	"Period",
	"Period Start",
	"Period End",
	"Rent Due",
	"Rent Received",
	"Last Payment",
	"Opening Balance",
	"Period Arrears",
	"Cumulative Arrears",
	"Management %",
	"Management Fee",
	"Service %",
	"Service Fee",
	"Commission",
	"Expenses",
	"Net To Owner",
}

// CSV renders a statement table as comma-separated values, one row per
// billing period plus a trailing totals row.
type CSV struct{}

func NewCSV() *CSV {
	return &CSV{}
}

func (r *CSV) Render(w io.Writer, result *statement.Result) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, row := range result.Table.Rows {
		record := []string{
			row.LeaseReference,
			row.PropertyName,
			row.CustomerName,
			row.Period.SheetName(),
			row.Period.Start.String(),
			row.Period.End.String(),
			money(row.RentDue),
			money(row.RentReceived),
			dateOrEmpty(row.LastPaymentDate),
			money(row.OpeningBalance),
			money(row.PeriodArrears),
			money(row.CumulativeArrears),
			row.ManagementPercent.String(),
			money(row.ManagementFee),
			row.ServicePercent.String(),
			money(row.ServiceFee),
			money(row.TotalCommission),
			money(row.TotalExpenses),
			money(row.NetToOwner),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	totals := result.Table.Totals
	totalsRecord := []string{
		"TOTAL", "", "", "", "", "",
		money(totals.RentDue),
		money(totals.RentReceived),
		"",
		"",
		"",
		money(totals.FinalArrears),
		"",
		money(totals.ManagementFees),
		"",
		money(totals.ServiceFees),
		money(totals.Commission),
		money(totals.Expenses),
		money(totals.NetToOwner),
	}
	if err := cw.Write(totalsRecord); err != nil {
		return fmt.Errorf("failed to write csv totals: %w", err)
	}

	cw.Flush()
	return cw.Error()
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func dateOrEmpty(d billing.Date) string {
	if d.IsZero() {
		return ""
	}
	return d.String()
}
