/*
Package leave implements the leave-balance and request-lifecycle engine.

PURPOSE:
  Owns every mutation of per-employee leave balances. Requests move
  through a small state machine and each transition adjusts the balance
  counters atomically with the request update:

    Submit   Pending   pending += workingDays
    Cancel   Cancelled pending -= workingDays
    Reject   Rejected  pending -= workingDays
    Approve  Approved  pending -= workingDays, used += workingDays

CRITICAL INVARIANTS:
  1. used + remaining == total at all times (remaining is derived, so the
     identity holds by construction)
  2. pending >= 0 at all times (decrements floor at zero)
  3. Status transitions are monotonic: Pending is the only non-terminal
     state; Approved, Rejected, and Cancelled absorb
  4. Balance mutation and request transition are observed together or not
     at all (the store's transactional contract)

SEE ALSO:
  - workingdays.go: Weekend-excluding day count
  - service.go: Transition operations
  - store.go: Persistence contract
*/
package leave

import (
	"time"

	"github.com/warp/hrms-engine/hr"
)

// =============================================================================
// BALANCE - Per (employee, category) counters
// =============================================================================

// Balance tracks one employee's entitlement for one leave category.
// Remaining is always derived from Total and Used rather than stored, so
// the used + remaining == total invariant cannot drift.
type Balance struct {
	EmployeeID hr.EmployeeID
	Category   hr.LeaveCategory

	// Annual entitlement in working days.
	Total int

	// Days consumed by approved requests.
	Used int

	// Days reserved by pending requests. Advisory: pending does not
	// reduce Remaining, only Available.
	Pending int
}

// Remaining returns days not yet consumed by approved requests.
func (b Balance) Remaining() int { return b.Total - b.Used }

// Available returns days open to new requests: remaining minus pending.
// Submission checks against this value so two pending requests cannot
// jointly overdraw the balance.
func (b Balance) Available() int { return b.Remaining() - b.Pending }

// =============================================================================
// REQUEST - State machine: Pending -> {Approved, Rejected, Cancelled}
// =============================================================================

type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
)

// Terminal reports whether no further transition may leave this status.
func (s Status) Terminal() bool { return s != StatusPending }

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

// Request is a leave application. Requests are never deleted, only
// transitioned.
type Request struct {
	ID         string
	EmployeeID hr.EmployeeID
	Category   hr.LeaveCategory
	StartDate  hr.Date // inclusive
	EndDate    hr.Date // inclusive
	Reason     string
	Status     Status

	// WorkingDays is fixed at submission so later transitions reverse
	// exactly the amount that was reserved.
	WorkingDays int

	AppliedOn  time.Time
	ApprovedBy hr.EmployeeID
	RejectedBy hr.EmployeeID
	DecidedOn  *time.Time
}
