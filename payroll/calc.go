package payroll

import "github.com/shopspring/decimal"

// =============================================================================
// TOTAL DERIVATION
// =============================================================================

// Totals is the derived view of a statement's components.
type Totals struct {
	TotalEarnings   decimal.Decimal
	TotalDeductions decimal.Decimal
	NetPayable      decimal.Decimal
}

// DeriveTotals recomputes totals from the five earning and four deduction
// components. Pure function; idempotent.
func DeriveTotals(s Statement) Totals {
	earnings := s.BasicSalary.
		Add(s.HRA).
		Add(s.ConveyanceAllowance).
		Add(s.MedicalAllowance).
		Add(s.SpecialAllowance)
	deductions := s.ProvidentFund.
		Add(s.ProfessionalTax).
		Add(s.IncomeTax).
		Add(s.OtherDeductions)
	return Totals{
		TotalEarnings:   earnings,
		TotalDeductions: deductions,
		NetPayable:      earnings.Sub(deductions),
	}
}

// Recalculate overrides the statement's stored totals with freshly
// derived values. Stored totals are never trusted.
func (s *Statement) Recalculate() {
	t := DeriveTotals(*s)
	s.TotalEarnings = t.TotalEarnings
	s.TotalDeductions = t.TotalDeductions
	s.NetPayable = t.NetPayable
}

// =============================================================================
// PERIOD SUMMARY
// =============================================================================

// PeriodSummary aggregates a filtered statement collection for reporting.
type PeriodSummary struct {
	Earnings       decimal.Decimal // sum of total earnings
	NetPaid        decimal.Decimal // sum of net payable where status is Paid
	TaxDeducted    decimal.Decimal // sum of income tax
	PFContribution decimal.Decimal // sum of provident fund
}

// SummarizePeriod reduces the collection. The reduction is associative
// and order-independent, so it can be split and merged.
func SummarizePeriod(statements []Statement) PeriodSummary {
	var sum PeriodSummary
	for _, s := range statements {
		t := DeriveTotals(s)
		sum.Earnings = sum.Earnings.Add(t.TotalEarnings)
		if s.Status == StatusPaid {
			sum.NetPaid = sum.NetPaid.Add(t.NetPayable)
		}
		sum.TaxDeducted = sum.TaxDeducted.Add(s.IncomeTax)
		sum.PFContribution = sum.PFContribution.Add(s.ProvidentFund)
	}
	return sum
}

// Merge combines two summaries, supporting incremental reduction.
func (p PeriodSummary) Merge(other PeriodSummary) PeriodSummary {
	return PeriodSummary{
		Earnings:       p.Earnings.Add(other.Earnings),
		NetPaid:        p.NetPaid.Add(other.NetPaid),
		TaxDeducted:    p.TaxDeducted.Add(other.TaxDeducted),
		PFContribution: p.PFContribution.Add(other.PFContribution),
	}
}
