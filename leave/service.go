/*
service.go - Leave request transition operations

PURPOSE:
  Submit, Cancel, and Decide are the only code paths that mutate leave
  balances. Each one:
    1. Validates its preconditions
    2. Serializes on the affected employee (per-employee mutex)
    3. Applies the request transition and the counter mutation inside a
       single store transaction

CONCURRENCY:
  The store transaction gives atomicity; the per-employee lock gives
  mutual exclusion, so two HR actors racing on the same request (or two
  submissions racing on the same balance) observe a serial order. Locks
  are keyed by employee, never held across engine boundaries.

BALANCE CHECK:
  Submission checks requested days against Available() (remaining minus
  pending). Checking against remaining alone would let two individually
  valid pending requests jointly overdraw the balance.

SEE ALSO:
  - types.go: Balance and Request shapes, state machine
  - workingdays.go: Day counting
*/
package leave

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/warp/hrms-engine/hr"
)

// Service owns the request lifecycle. Construct with NewService.
type Service struct {
	store TxStore
	clock hr.Clock
	newID func() string

	mu    sync.Mutex
	locks map[hr.EmployeeID]*sync.Mutex
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source, for deterministic tests.
func WithClock(c hr.Clock) Option { return func(s *Service) { s.clock = c } }

// WithIDGenerator overrides request id generation.
func WithIDGenerator(f func() string) Option { return func(s *Service) { s.newID = f } }

func NewService(store TxStore, opts ...Option) *Service {
	s := &Service{
		store: store,
		clock: hr.SystemClock,
		newID: uuid.NewString,
		locks: make(map[hr.EmployeeID]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// lockFor returns the mutex serializing mutations for one employee.
func (s *Service) lockFor(employeeID hr.EmployeeID) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[employeeID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[employeeID] = l
	}
	return l
}

// =============================================================================
// SUBMIT
// =============================================================================

// Submit creates a Pending request and reserves its working days on the
// employee's balance. Fails with:
//   - hr.ErrValidation when reason is empty or category is unknown
//   - hr.ErrInvalidRange when the range is inverted or covers no working day
//   - hr.ErrInsufficientBalance when available days are fewer than requested
//   - hr.ErrNotFound when no balance exists for the category
func (s *Service) Submit(ctx context.Context, employeeID hr.EmployeeID, category hr.LeaveCategory, start, end hr.Date, reason string) (Request, error) {
	if strings.TrimSpace(reason) == "" {
		return Request{}, fmt.Errorf("%w: reason must not be empty", hr.ErrValidation)
	}
	if !category.Valid() {
		return Request{}, fmt.Errorf("%w: unknown leave category %q", hr.ErrValidation, category)
	}

	days, err := WorkingDays(start, end)
	if err != nil {
		return Request{}, err
	}
	if days == 0 {
		return Request{}, fmt.Errorf("%w: %s to %s covers no working day", hr.ErrInvalidRange, start, end)
	}

	lock := s.lockFor(employeeID)
	lock.Lock()
	defer lock.Unlock()

	req := Request{
		ID:          s.newID(),
		EmployeeID:  employeeID,
		Category:    category,
		StartDate:   start,
		EndDate:     end,
		Reason:      strings.TrimSpace(reason),
		Status:      StatusPending,
		WorkingDays: days,
		AppliedOn:   s.clock(),
	}

	err = s.store.WithTx(ctx, func(tx Store) error {
		bal, err := tx.Balance(ctx, employeeID, category)
		if err != nil {
			return err
		}
		if bal.Available() < days {
			return &hr.InsufficientBalanceError{
				EmployeeID: employeeID,
				Category:   category,
				Available:  bal.Available(),
				Requested:  days,
			}
		}
		bal.Pending += days
		if err := tx.SaveBalance(ctx, bal); err != nil {
			return err
		}
		return tx.SaveRequest(ctx, req)
	})
	if err != nil {
		return Request{}, err
	}
	return req, nil
}

// =============================================================================
// CANCEL
// =============================================================================

// Cancel transitions an owned Pending request to Cancelled and releases
// its reserved days. Only the owning employee may cancel. Fails with
// hr.ErrNotFound, hr.ErrPermissionDenied, or hr.ErrInvalidState.
func (s *Service) Cancel(ctx context.Context, requestID string, requester hr.EmployeeID) (Request, error) {
	req, err := s.store.Request(ctx, requestID)
	if err != nil {
		return Request{}, err
	}
	if req.EmployeeID != requester {
		return Request{}, fmt.Errorf("%w: request %s belongs to %s", hr.ErrPermissionDenied, requestID, req.EmployeeID)
	}

	lock := s.lockFor(req.EmployeeID)
	lock.Lock()
	defer lock.Unlock()

	var out Request
	err = s.store.WithTx(ctx, func(tx Store) error {
		// Re-read under the lock: the pre-lock copy may be stale.
		cur, err := tx.Request(ctx, requestID)
		if err != nil {
			return err
		}
		if cur.Status != StatusPending {
			return &hr.InvalidStateError{RequestID: requestID, Current: string(cur.Status), Attempted: string(StatusCancelled)}
		}

		now := s.clock()
		cur.Status = StatusCancelled
		cur.DecidedOn = &now

		bal, err := tx.Balance(ctx, cur.EmployeeID, cur.Category)
		if err != nil {
			return err
		}
		bal.Pending -= cur.WorkingDays
		if bal.Pending < 0 { // tolerate prior inconsistency
			bal.Pending = 0
		}
		if err := tx.SaveBalance(ctx, bal); err != nil {
			return err
		}
		if err := tx.SaveRequest(ctx, cur); err != nil {
			return err
		}
		out = cur
		return nil
	})
	if err != nil {
		return Request{}, err
	}
	return out, nil
}

// =============================================================================
// DECIDE
// =============================================================================

// Decide transitions a Pending request to Approved or Rejected. The
// decider must hold the Admin or HR role. Approval consumes the reserved
// days; rejection only releases them.
//
// If approval would push the remaining balance negative the balance is
// clamped at zero and a BalanceUnderflowWarning is returned alongside the
// request. This indicates upstream invariant drift, not caller misuse,
// so the approval still succeeds.
func (s *Service) Decide(ctx context.Context, requestID string, decider hr.Identity, decision Status) (Request, *hr.BalanceUnderflowWarning, error) {
	if decision != StatusApproved && decision != StatusRejected {
		return Request{}, nil, fmt.Errorf("%w: decision must be approved or rejected, got %q", hr.ErrValidation, decision)
	}
	if !decider.Role.CanDecide() {
		return Request{}, nil, fmt.Errorf("%w: role %s cannot decide leave requests", hr.ErrPermissionDenied, decider.Role)
	}

	req, err := s.store.Request(ctx, requestID)
	if err != nil {
		return Request{}, nil, err
	}

	lock := s.lockFor(req.EmployeeID)
	lock.Lock()
	defer lock.Unlock()

	var (
		out     Request
		warning *hr.BalanceUnderflowWarning
	)
	err = s.store.WithTx(ctx, func(tx Store) error {
		cur, err := tx.Request(ctx, requestID)
		if err != nil {
			return err
		}
		if cur.Status != StatusPending {
			return &hr.InvalidStateError{RequestID: requestID, Current: string(cur.Status), Attempted: string(decision)}
		}

		now := s.clock()
		cur.Status = decision
		cur.DecidedOn = &now
		switch decision {
		case StatusApproved:
			cur.ApprovedBy = decider.EmployeeID
		case StatusRejected:
			cur.RejectedBy = decider.EmployeeID
		}

		bal, err := tx.Balance(ctx, cur.EmployeeID, cur.Category)
		if err != nil {
			return err
		}
		bal.Pending -= cur.WorkingDays
		if bal.Pending < 0 {
			bal.Pending = 0
		}

		if decision == StatusApproved {
			consume := cur.WorkingDays
			if remaining := bal.Remaining(); consume > remaining {
				warning = &hr.BalanceUnderflowWarning{
					EmployeeID: cur.EmployeeID,
					Category:   cur.Category,
					Deficit:    consume - remaining,
				}
				consume = remaining
			}
			bal.Used += consume
		}

		if err := tx.SaveBalance(ctx, bal); err != nil {
			return err
		}
		if err := tx.SaveRequest(ctx, cur); err != nil {
			return err
		}
		out = cur
		return nil
	})
	if err != nil {
		return Request{}, nil, err
	}
	return out, warning, nil
}
