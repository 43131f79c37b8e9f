/*
Package attendance implements the attendance ledger: clock-in/out record
lifecycle, derived work hours, and calendar projection.

KEY CONCEPTS:
  - Record: at most one per (employee, day); created at clock-in,
    completed at clock-out
  - Open session: PunchIn set, PunchOut unset; at most one per employee
  - WorkHours: derived at clock-out, (out - in) in hours to one decimal
  - Calendar: week-major Sunday-first grid for rendering a month

SEE ALSO:
  - service.go: ClockIn/ClockOut operations
  - calendar.go: Grid projection and status summary
*/
package attendance

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/hrms-engine/hr"
)

// =============================================================================
// RECORD
// =============================================================================

type Status string

const (
	StatusPresent      Status = "present"
	StatusAbsent       Status = "absent"
	StatusHalfDay      Status = "half_day"
	StatusWorkFromHome Status = "work_from_home"
	StatusOnLeave      Status = "on_leave"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusHalfDay, StatusWorkFromHome, StatusOnLeave:
		return true
	}
	return false
}

// Record is one employee's attendance for one calendar day.
type Record struct {
	ID         string
	EmployeeID hr.EmployeeID
	Date       hr.Date
	PunchIn    *time.Time
	PunchOut   *time.Time
	Status     Status

	// WorkHours is derived at clock-out, rounded to one decimal place.
	// Zero until the session is closed.
	WorkHours decimal.Decimal
}

// Open reports whether the record is an open session: punched in but not
// yet out.
func (r Record) Open() bool { return r.PunchIn != nil && r.PunchOut == nil }

// =============================================================================
// SUMMARY - Status counts over a record collection
// =============================================================================

type Summary struct {
	Present      int
	Absent       int
	HalfDay      int
	WorkFromHome int
	OnLeave      int
	Total        int
}
