/*
errors.go - Centralized error taxonomy for the HRMS engine

PURPOSE:
  All expected-failure kinds in one place. Engine operations communicate
  failure via explicit error returns, never a silent no-op and never a
  panic used for control flow. The presentation layer maps these kinds to
  user-visible messaging; this package only classifies them.

ERROR CATEGORIES:
  1. Validation errors - malformed input (empty reason, bad range)
  2. State errors - transition attempted from a terminal or wrong state
  3. Lookup errors - referenced entity does not exist
  4. Attendance precondition errors - double clock-in, missing session

USAGE:
  Sentinel errors with errors.Is(), structured errors with errors.As():

    if errors.Is(err, hr.ErrInsufficientBalance) { ... }

    var ib *hr.InsufficientBalanceError
    if errors.As(err, &ib) { ... ib.Shortfall ... }
*/
package hr

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrValidation is returned for malformed input, e.g. an empty reason.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidRange is returned when start > end or when a leave range
	// contains zero working days.
	ErrInvalidRange = errors.New("invalid date range")

	// ErrInsufficientBalance is returned when requested days exceed the
	// available leave balance.
	ErrInsufficientBalance = errors.New("insufficient leave balance")

	// ErrNotFound is returned when a referenced request, record, or
	// employee does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidState is returned when a transition is attempted out of a
	// terminal state, e.g. cancelling an approved request.
	ErrInvalidState = errors.New("invalid state transition")

	// ErrPermissionDenied is returned when the actor lacks authority for
	// the requested transition.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrAlreadyClockedIn is returned when a second clock-in is attempted
	// for the same employee and day.
	ErrAlreadyClockedIn = errors.New("already clocked in today")

	// ErrNoOpenSession is returned when clocking out without an open
	// attendance session.
	ErrNoOpenSession = errors.New("no open attendance session")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InsufficientBalanceError reports a leave balance shortage.
type InsufficientBalanceError struct {
	EmployeeID EmployeeID
	Category   LeaveCategory
	Available  int
	Requested  int
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient %s leave balance: available %d, requested %d",
		e.Category, e.Available, e.Requested)
}

func (e *InsufficientBalanceError) Unwrap() error { return ErrInsufficientBalance }

// Shortfall returns how many days the request overshoots the balance.
func (e *InsufficientBalanceError) Shortfall() int { return e.Requested - e.Available }

// InvalidStateError reports a rejected state transition.
type InvalidStateError struct {
	RequestID string
	Current   string
	Attempted string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("request %s is %s, cannot transition to %s",
		e.RequestID, e.Current, e.Attempted)
}

func (e *InvalidStateError) Unwrap() error { return ErrInvalidState }

// =============================================================================
// WARNINGS - Invariant drift surfaced without failing the operation
// =============================================================================

// BalanceUnderflowWarning is raised when approving a request would push a
// balance negative. The balance is clamped to zero and the approval
// proceeds; the warning indicates upstream invariant drift rather than
// caller misuse.
type BalanceUnderflowWarning struct {
	EmployeeID EmployeeID
	Category   LeaveCategory
	Deficit    int
}

func (w *BalanceUnderflowWarning) String() string {
	return fmt.Sprintf("balance underflow for %s/%s: clamped %d days to zero",
		w.EmployeeID, w.Category, w.Deficit)
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError reports whether the error is due to invalid caller input
// or a violated precondition, as opposed to an internal failure.
func IsClientError(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInvalidRange) ||
		errors.Is(err, ErrInsufficientBalance) ||
		errors.Is(err, ErrInvalidState) ||
		errors.Is(err, ErrAlreadyClockedIn) ||
		errors.Is(err, ErrNoOpenSession)
}

// IsNotFound reports whether the error indicates a missing entity.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsPermissionDenied reports whether the actor lacked authority.
func IsPermissionDenied(err error) bool { return errors.Is(err, ErrPermissionDenied) }
