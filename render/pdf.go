package render

import (
	"fmt"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf/v2"

	"github.com/propfolio/lease-ledger/statement"
)

// PDF renders an owner-facing rent statement: a header block, one table
// section per lease, and a grand totals block.
type PDF struct {
	AgencyName string
}

func NewPDF(agencyName string) *PDF {
	return &PDF{AgencyName: agencyName}
}

var pdfColumns = []struct {
	header string
	width  float64
	align  string
}{
	{"Period", 58, "L"},
	{"Rent Due", 24, "R"},
	{"Received", 24, "R"},
	{"Last Paid", 24, "C"},
	{"Arrears", 24, "R"},
	{"Mgmt Fee", 24, "R"},
	{"Svc Fee", 22, "R"},
	{"Expenses", 24, "R"},
	{"Net", 26, "R"},
}

func (r *PDF) Render(w io.Writer, result *statement.Result) error {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)

	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Arial", "", 8)
		pdf.CellFormat(0, 5, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 5, fmt.Sprintf("Run %s", result.RunID), "", 0, "R", false, 0, "")
	})

	pdf.AddPage()

	// Header block
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, "Rent Statement", "", 1, "C", false, 0, "")
	if r.AgencyName != "" {
		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(0, 7, r.AgencyName, "", 1, "C", false, 0, "")
	}
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Statement window: %s to %s",
		result.Window.Start.Format("2 January 2006"),
		result.Window.End.Format("2 January 2006")), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	pdf.CellFormat(0, 5, fmt.Sprintf("Generated: %s",
		time.Now().Format("January 2, 2006 at 3:04 PM")), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	for _, lease := range result.Table.Leases {
		r.renderLease(pdf, result, lease.LeaseReference)
	}

	r.renderTotals(pdf, result)

	return pdf.Output(w)
}

func (r *PDF) renderLease(pdf *gofpdf.Fpdf, result *statement.Result, reference string) {
	// Section header with lease identity and opening balance
	for _, lease := range result.Table.Leases {
		if lease.LeaseReference != reference {
			continue
		}
		pdf.SetFont("Arial", "B", 11)
		title := lease.LeaseReference
		if lease.PropertyName != "" {
			title += " - " + lease.PropertyName
		}
		if lease.CustomerName != "" {
			title += " (" + lease.CustomerName + ")"
		}
		pdf.CellFormat(0, 8, title, "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 9)
		pdf.CellFormat(0, 5, fmt.Sprintf("Opening balance: %s",
			lease.OpeningBalance.StringFixed(2)), "", 1, "L", false, 0, "")
		pdf.Ln(1)
	}

	r.renderTableHeader(pdf)

	pdf.SetFont("Arial", "", 9)
	fill := false
	for _, row := range result.Table.Rows {
		if row.LeaseReference != reference {
			continue
		}
		if pdf.GetY() > 180 {
			pdf.AddPage()
			r.renderTableHeader(pdf)
			pdf.SetFont("Arial", "", 9)
		}
		if fill {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		cells := []string{
			row.Period.DisplayName(),
			row.RentDue.StringFixed(2),
			row.RentReceived.StringFixed(2),
			dateOrEmpty(row.LastPaymentDate),
			row.CumulativeArrears.StringFixed(2),
			row.ManagementFee.StringFixed(2),
			row.ServiceFee.StringFixed(2),
			row.TotalExpenses.StringFixed(2),
			row.NetToOwner.StringFixed(2),
		}
		for i, cell := range cells {
			pdf.CellFormat(pdfColumns[i].width, 7, cell, "1", 0, pdfColumns[i].align, true, 0, "")
		}
		pdf.Ln(-1)
		fill = !fill
	}
	pdf.Ln(5)
}

func (r *PDF) renderTableHeader(pdf *gofpdf.Fpdf) {
	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(220, 220, 220)
	for _, col := range pdfColumns {
		pdf.CellFormat(col.width, 8, col.header, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)
}

func (r *PDF) renderTotals(pdf *gofpdf.Fpdf, result *statement.Result) {
	totals := result.Table.Totals

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(0, 8, "Statement Totals", "", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	lines := []struct {
		label string
		value string
	}{
		{"Total rent due", totals.RentDue.StringFixed(2)},
		{"Total rent received", totals.RentReceived.StringFixed(2)},
		{"Management fees", totals.ManagementFees.StringFixed(2)},
		{"Service fees", totals.ServiceFees.StringFixed(2)},
		{"Total commission", totals.Commission.StringFixed(2)},
		{"Expenses", totals.Expenses.StringFixed(2)},
		{"Net to owners", totals.NetToOwner.StringFixed(2)},
		{"Closing arrears", totals.FinalArrears.StringFixed(2)},
	}
	for _, line := range lines {
		pdf.CellFormat(60, 6, line.label, "", 0, "L", false, 0, "")
		pdf.CellFormat(40, 6, line.value, "", 1, "R", false, 0, "")
	}
}
