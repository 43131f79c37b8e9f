package attendance_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/hrms-engine/attendance"
	"github.com/warp/hrms-engine/hr"
)

// =============================================================================
// CALENDAR GRID
// =============================================================================

func TestCalendar_June2025Shape(t *testing.T) {
	// GIVEN: June 2025 (30 days, the 1st falls on a Sunday)
	// WHEN: Projecting the month grid
	// THEN: Five full weeks, no leading padding, five trailing blanks

	grid := attendance.Calendar(2025, time.June, nil)

	require.Len(t, grid, 5)
	for i, week := range grid {
		assert.Len(t, week, 7, "week %d must have 7 cells", i)
	}

	assert.Equal(t, 1, grid[0][0].Day, "June 1st 2025 is a Sunday")
	assert.Equal(t, 30, grid[4][1].Day, "June 30th 2025 is a Monday")
	for _, cell := range grid[4][2:] {
		assert.True(t, cell.Blank())
	}
}

func TestCalendar_LeadingPadding(t *testing.T) {
	// GIVEN: May 2025 (the 1st falls on a Thursday)
	// WHEN: Projecting the month grid
	// THEN: The first row starts with four blank cells

	grid := attendance.Calendar(2025, time.May, nil)

	require.NotEmpty(t, grid)
	for i := 0; i < 4; i++ {
		assert.True(t, grid[0][i].Blank(), "cell %d should pad", i)
	}
	assert.Equal(t, 1, grid[0][4].Day)
	assert.Equal(t, hr.NewDate(2025, time.May, 1), grid[0][4].Date)
}

func TestCalendar_AttachesRecords(t *testing.T) {
	// GIVEN: A record for June 4th and one from another month
	// WHEN: Projecting June 2025
	// THEN: Only the matching date carries a record

	records := []attendance.Record{
		{ID: "a1", EmployeeID: "emp-1", Date: hr.NewDate(2025, time.June, 4), Status: attendance.StatusPresent},
		{ID: "a2", EmployeeID: "emp-1", Date: hr.NewDate(2025, time.May, 4), Status: attendance.StatusAbsent},
	}
	grid := attendance.Calendar(2025, time.June, records)

	// June 4th 2025 is the Wednesday of the first week.
	cell := grid[0][3]
	assert.Equal(t, 4, cell.Day)
	require.NotNil(t, cell.Record)
	assert.Equal(t, "a1", cell.Record.ID)

	for _, week := range grid {
		for _, c := range week {
			if c.Day != 4 {
				assert.Nil(t, c.Record)
			}
		}
	}
}

func TestCalendar_CoversEveryDayExactlyOnce(t *testing.T) {
	grid := attendance.Calendar(2025, time.February, nil)

	seen := map[int]bool{}
	for _, week := range grid {
		for _, c := range week {
			if !c.Blank() {
				assert.False(t, seen[c.Day], "day %d repeated", c.Day)
				seen[c.Day] = true
			}
		}
	}
	assert.Len(t, seen, 28)
}

// =============================================================================
// SUMMARY
// =============================================================================

func TestSummarize_CountsByStatus(t *testing.T) {
	records := []attendance.Record{
		{Status: attendance.StatusPresent},
		{Status: attendance.StatusPresent},
		{Status: attendance.StatusHalfDay},
		{Status: attendance.StatusWorkFromHome},
		{Status: attendance.StatusOnLeave},
		{Status: attendance.StatusAbsent},
	}

	s := attendance.Summarize(records)

	assert.Equal(t, 2, s.Present)
	assert.Equal(t, 1, s.Absent)
	assert.Equal(t, 1, s.HalfDay)
	assert.Equal(t, 1, s.WorkFromHome)
	assert.Equal(t, 1, s.OnLeave)
	assert.Equal(t, 6, s.Total)
}

func TestSummarize_Empty(t *testing.T) {
	assert.Equal(t, attendance.Summary{}, attendance.Summarize(nil))
}
