/*
Package hr provides the shared domain model for the HRMS engine.

PURPOSE:
  This package contains the entity definitions and enumerations used by
  every engine package: employees, roles, leave categories, statuses, and
  the authenticated identity supplied by the session provider.

KEY CONCEPTS IN THIS FILE (types.go):
  - Employee: Directory entry (id, role, department, status)
  - Role: Admin | HR | Employee
  - LeaveCategory: Sick, Casual, Paid, Unpaid, Compensatory
  - Identity: {EmployeeID, Role} pair trusted from the session layer
  - Clock: Injectable time source so operations are deterministic in tests

DESIGN PRINCIPLES:
  1. Closed enumerations: status/category fields are typed constants with
     Valid() checks, never free-form strings
  2. No behavior: entities are pure data shapes, mutated only through the
     engine packages' transition operations
  3. Explicit identity: no ambient session state; every operation that
     needs an actor takes an Identity parameter

SEE ALSO:
  - date.go: Day-granular calendar type
  - errors.go: Shared error taxonomy
  - leave/, attendance/, payroll/: Engines consuming these types
*/
package hr

import "time"

// =============================================================================
// IDENTIFIERS AND IDENTITY
// =============================================================================

// EmployeeID is the partition key for every engine entity. All records
// belong to exactly one employee and no operation mutates another
// employee's records as a side effect.
type EmployeeID string

// Role determines which operations an actor may perform.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleHR       Role = "hr"
	RoleEmployee Role = "employee"
)

// CanDecide reports whether the role may approve or reject leave requests.
func (r Role) CanDecide() bool { return r == RoleAdmin || r == RoleHR }

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleHR, RoleEmployee:
		return true
	}
	return false
}

// Identity is the authenticated actor supplied by the session provider.
// The engine trusts this value and does not authenticate it.
type Identity struct {
	EmployeeID EmployeeID
	Role       Role
}

// =============================================================================
// EMPLOYEE
// =============================================================================

type EmployeeStatus string

const (
	StatusActive     EmployeeStatus = "active"
	StatusInactive   EmployeeStatus = "inactive"
	StatusResigned   EmployeeStatus = "resigned"
	StatusTerminated EmployeeStatus = "terminated"
	StatusOnNotice   EmployeeStatus = "on_notice"
)

func (s EmployeeStatus) Valid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusResigned, StatusTerminated, StatusOnNotice:
		return true
	}
	return false
}

// Employee is a directory entry. Created at onboarding, read-only to the
// engine packages.
type Employee struct {
	ID          EmployeeID
	Name        string
	Email       string
	Role        Role
	Department  string
	Designation string
	Status      EmployeeStatus
	JoiningDate Date
}

// =============================================================================
// LEAVE CATEGORY
// =============================================================================

type LeaveCategory string

const (
	LeaveSick         LeaveCategory = "sick"
	LeaveCasual       LeaveCategory = "casual"
	LeavePaid         LeaveCategory = "paid"
	LeaveUnpaid       LeaveCategory = "unpaid"
	LeaveCompensatory LeaveCategory = "compensatory"
)

// Categories lists every leave category in display order.
func Categories() []LeaveCategory {
	return []LeaveCategory{LeaveSick, LeaveCasual, LeavePaid, LeaveUnpaid, LeaveCompensatory}
}

func (c LeaveCategory) Valid() bool {
	switch c {
	case LeaveSick, LeaveCasual, LeavePaid, LeaveUnpaid, LeaveCompensatory:
		return true
	}
	return false
}

// =============================================================================
// CLOCK - Injectable time source
// =============================================================================

// Clock supplies "now" to the engines. Handlers pass time.Now; tests pass
// a fixed instant so timestamps and derived hours are deterministic.
type Clock func() time.Time

// SystemClock reads the wall clock in UTC.
func SystemClock() time.Time { return time.Now().UTC() }
