package leave_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/hrms-engine/hr"
	"github.com/warp/hrms-engine/leave"
)

func TestWorkingDays_WeekdaysOnly(t *testing.T) {
	// GIVEN: Monday June 2 through Friday June 6, 2025
	// WHEN: Counting working days
	// THEN: All five days count

	days, err := leave.WorkingDays(hr.NewDate(2025, time.June, 2), hr.NewDate(2025, time.June, 6))
	require.NoError(t, err)
	assert.Equal(t, 5, days)
}

func TestWorkingDays_SpanningWeekend(t *testing.T) {
	// GIVEN: Friday June 6 through Monday June 9, 2025
	// WHEN: Counting working days
	// THEN: Saturday and Sunday are excluded

	days, err := leave.WorkingDays(hr.NewDate(2025, time.June, 6), hr.NewDate(2025, time.June, 9))
	require.NoError(t, err)
	assert.Equal(t, 2, days)
}

func TestWorkingDays_WeekendOnly(t *testing.T) {
	// GIVEN: Saturday June 7 through Sunday June 8, 2025
	// WHEN: Counting working days
	// THEN: The count is zero

	days, err := leave.WorkingDays(hr.NewDate(2025, time.June, 7), hr.NewDate(2025, time.June, 8))
	require.NoError(t, err)
	assert.Equal(t, 0, days)
}

func TestWorkingDays_SingleDay(t *testing.T) {
	days, err := leave.WorkingDays(hr.NewDate(2025, time.June, 4), hr.NewDate(2025, time.June, 4))
	require.NoError(t, err)
	assert.Equal(t, 1, days)
}

func TestWorkingDays_InvertedRange(t *testing.T) {
	// GIVEN: An end date before the start date
	// WHEN: Counting working days
	// THEN: The range is rejected

	_, err := leave.WorkingDays(hr.NewDate(2025, time.June, 9), hr.NewDate(2025, time.June, 6))
	assert.ErrorIs(t, err, hr.ErrInvalidRange)
}
