package attendance

import (
	"time"

	"github.com/warp/hrms-engine/hr"
)

// =============================================================================
// CALENDAR PROJECTION - Week-major grid for rendering a month
// =============================================================================

// Cell is one day slot in the calendar grid. Blank cells (padding before
// the 1st and after the last day) have Day == 0.
type Cell struct {
	Day    int
	Date   hr.Date
	Record *Record
}

// Blank reports whether the cell pads the grid outside the month.
func (c Cell) Blank() bool { return c.Day == 0 }

// Calendar projects a month onto a week-major grid: each row is one week
// of exactly 7 cells, Sunday first. Populated cells carry the matching
// record from the given collection, if one exists for that date.
// Pure function, used only for rendering.
func Calendar(year int, month time.Month, records []Record) [][]Cell {
	byDay := make(map[int]*Record, len(records))
	for i := range records {
		r := records[i]
		if r.Date.Year() == year && r.Date.Month() == month {
			byDay[r.Date.Day()] = &records[i]
		}
	}

	firstWeekday := int(hr.StartOfMonth(year, month).Weekday()) // Sunday == 0
	daysInMonth := hr.DaysInMonth(year, month)

	var grid [][]Cell
	week := make([]Cell, 0, 7)

	for i := 0; i < firstWeekday; i++ {
		week = append(week, Cell{})
	}
	for day := 1; day <= daysInMonth; day++ {
		week = append(week, Cell{
			Day:    day,
			Date:   hr.NewDate(year, month, day),
			Record: byDay[day],
		})
		if len(week) == 7 {
			grid = append(grid, week)
			week = make([]Cell, 0, 7)
		}
	}
	if len(week) > 0 {
		for len(week) < 7 {
			week = append(week, Cell{})
		}
		grid = append(grid, week)
	}
	return grid
}

// =============================================================================
// SUMMARY
// =============================================================================

// Summarize counts records by status over the given collection, e.g. one
// month for one employee.
func Summarize(records []Record) Summary {
	var s Summary
	for _, r := range records {
		switch r.Status {
		case StatusPresent:
			s.Present++
		case StatusAbsent:
			s.Absent++
		case StatusHalfDay:
			s.HalfDay++
		case StatusWorkFromHome:
			s.WorkFromHome++
		case StatusOnLeave:
			s.OnLeave++
		}
		s.Total++
	}
	return s
}
