package hr

import "context"

// Directory looks up employees. The engine only reads it; onboarding
// writes happen outside the engine's scope.
type Directory interface {
	// Employee returns an employee by id, or ErrNotFound.
	Employee(ctx context.Context, id EmployeeID) (Employee, error)

	// EmployeeByEmail returns an employee by email, or ErrNotFound.
	// Used by the session provider at login.
	EmployeeByEmail(ctx context.Context, email string) (Employee, error)

	// Employees returns the whole directory ordered by name.
	Employees(ctx context.Context) ([]Employee, error)

	// SaveEmployee upserts a directory entry (seeding, onboarding).
	SaveEmployee(ctx context.Context, e Employee) error
}
