package leave

import (
	"context"

	"github.com/warp/hrms-engine/hr"
)

// =============================================================================
// STORE - Persistence contract for balances and requests
// =============================================================================

// Store persists leave balances and requests. Implementations must return
// hr.ErrNotFound (possibly wrapped) for missing entities.
type Store interface {
	// Balance returns the counters for one (employee, category) tuple.
	Balance(ctx context.Context, employeeID hr.EmployeeID, category hr.LeaveCategory) (Balance, error)

	// Balances returns every category's counters for one employee.
	Balances(ctx context.Context, employeeID hr.EmployeeID) ([]Balance, error)

	// SaveBalance upserts the counters for a (employee, category) tuple.
	SaveBalance(ctx context.Context, b Balance) error

	// Request returns a request by id.
	Request(ctx context.Context, id string) (Request, error)

	// Requests returns requests for one employee, or all requests when
	// employeeID is empty, newest first by AppliedOn.
	Requests(ctx context.Context, employeeID hr.EmployeeID) ([]Request, error)

	// SaveRequest upserts a request.
	SaveRequest(ctx context.Context, r Request) error
}

// TxStore extends Store with all-or-nothing execution. Request transition
// and balance mutation always travel through WithTx so no intermediate
// state is visible to a concurrent reader.
type TxStore interface {
	Store

	// WithTx executes fn against a transactional view of the store.
	// If fn returns an error, every write inside it is rolled back.
	WithTx(ctx context.Context, fn func(Store) error) error
}
