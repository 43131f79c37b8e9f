/*
Package payroll provides payroll statement totals and period aggregation.

PURPOSE:
  A statement carries a fixed set of earning and deduction components.
  Totals are always recomputable from the components; Recalculate
  overrides whatever totals were stored, defending against stale data.

PRECISION:
  All money fields use decimal.Decimal. Payroll sums must not accumulate
  floating-point error across hundreds of statements.

SEE ALSO:
  - calc.go: Total derivation and period summary
  - payslip.go: PDF payslip rendering
*/
package payroll

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/hrms-engine/hr"
)

// =============================================================================
// STATEMENT
// =============================================================================

type Status string

const (
	StatusGenerated Status = "generated"
	StatusPaid      Status = "paid"
)

// Statement is one employee's payroll for one (month, year). One
// statement exists per (employee, month, year). The engine reads
// statements and derives totals; creation and the Generated -> Paid
// transition happen in the payroll run, outside this package.
type Statement struct {
	ID         string
	EmployeeID hr.EmployeeID
	Month      time.Month // 1-12
	Year       int

	// Earning components
	BasicSalary         decimal.Decimal
	HRA                 decimal.Decimal
	ConveyanceAllowance decimal.Decimal
	MedicalAllowance    decimal.Decimal
	SpecialAllowance    decimal.Decimal

	// Deduction components
	ProvidentFund   decimal.Decimal
	ProfessionalTax decimal.Decimal
	IncomeTax       decimal.Decimal
	OtherDeductions decimal.Decimal

	// Derived; see Recalculate.
	TotalEarnings   decimal.Decimal
	TotalDeductions decimal.Decimal
	NetPayable      decimal.Decimal

	Status      Status
	GeneratedOn time.Time
	PaidOn      *time.Time
}
