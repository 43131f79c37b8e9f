package payroll

import (
	"fmt"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
)

// PayslipInfo carries the display fields the statement itself does not
// know about.
type PayslipInfo struct {
	EmployeeName string
	Department   string
	Designation  string
	Company      string
}

// RenderPayslip writes an A4 PDF payslip for the statement to w. Totals
// are re-derived before rendering, never read from the stored fields.
func RenderPayslip(w io.Writer, s Statement, info PayslipInfo) error {
	t := DeriveTotals(s)
	period := fmt.Sprintf("%s %d", s.Month.String(), s.Year)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	title := "Payslip"
	if info.Company != "" {
		title = info.Company + " - Payslip"
	}
	pdf.Cell(0, 10, title)
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Employee: %s (%s)", info.EmployeeName, s.EmployeeID))
	pdf.Ln(7)
	if info.Department != "" || info.Designation != "" {
		pdf.Cell(0, 8, fmt.Sprintf("%s / %s", info.Department, info.Designation))
		pdf.Ln(7)
	}
	pdf.Cell(0, 8, "Pay period: "+period)
	pdf.Ln(12)

	line := func(label string, v decimal.Decimal) {
		pdf.Cell(110, 8, label)
		pdf.CellFormat(50, 8, v.StringFixed(2), "", 0, "R", false, 0, "")
		pdf.Ln(7)
	}

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Earnings")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 12)
	line("Basic Salary", s.BasicSalary)
	line("House Rent Allowance", s.HRA)
	line("Conveyance Allowance", s.ConveyanceAllowance)
	line("Medical Allowance", s.MedicalAllowance)
	line("Special Allowance", s.SpecialAllowance)
	pdf.SetFont("Helvetica", "B", 12)
	line("Total Earnings", t.TotalEarnings)

	pdf.Ln(4)
	pdf.Cell(0, 8, "Deductions")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 12)
	line("Provident Fund", s.ProvidentFund)
	line("Professional Tax", s.ProfessionalTax)
	line("Income Tax", s.IncomeTax)
	line("Other Deductions", s.OtherDeductions)
	pdf.SetFont("Helvetica", "B", 12)
	line("Total Deductions", t.TotalDeductions)

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 14)
	line("Net Payable", t.NetPayable)

	if s.Status == StatusPaid && s.PaidOn != nil {
		pdf.Ln(6)
		pdf.SetFont("Helvetica", "I", 10)
		pdf.Cell(0, 6, "Paid on "+s.PaidOn.Format(time.DateOnly))
	}

	return pdf.Output(w)
}
