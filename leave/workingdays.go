package leave

import (
	"fmt"

	"github.com/warp/hrms-engine/hr"
)

// WorkingDays returns the inclusive day count between start and end,
// excluding Saturdays and Sundays. A holiday calendar is deliberately not
// consulted. Pure function, no side effects.
//
// Fails with hr.ErrInvalidRange when start is after end.
func WorkingDays(start, end hr.Date) (int, error) {
	if start.After(end) {
		return 0, fmt.Errorf("%w: start %s is after end %s", hr.ErrInvalidRange, start, end)
	}
	days := 0
	for d := start; d.BeforeOrEqual(end); d = d.AddDays(1) {
		if d.IsWorkingDay() {
			days++
		}
	}
	return days, nil
}
