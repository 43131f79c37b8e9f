package payroll

import (
	"context"
	"time"

	"github.com/warp/hrms-engine/hr"
)

// Store persists payroll statements. Implementations must return
// hr.ErrNotFound (possibly wrapped) for missing statements.
type Store interface {
	// Statement returns a statement by id.
	Statement(ctx context.Context, id string) (Statement, error)

	// StatementFor returns the one statement for (employee, month, year).
	StatementFor(ctx context.Context, employeeID hr.EmployeeID, year int, month time.Month) (Statement, error)

	// Statements returns statements for one employee, or all statements
	// when employeeID is empty, newest first.
	Statements(ctx context.Context, employeeID hr.EmployeeID) ([]Statement, error)

	// SaveStatement upserts a statement.
	SaveStatement(ctx context.Context, s Statement) error
}
