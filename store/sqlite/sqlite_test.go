package sqlite_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/hrms-engine/attendance"
	"github.com/warp/hrms-engine/hr"
	"github.com/warp/hrms-engine/leave"
	"github.com/warp/hrms-engine/payroll"
	"github.com/warp/hrms-engine/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	s, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// =============================================================================
// DIRECTORY
// =============================================================================

func TestEmployee_RoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	emp := hr.Employee{
		ID: "emp-1", Name: "John Doe", Email: "john.doe@hrms.com",
		Role: hr.RoleEmployee, Department: "Engineering", Designation: "Senior Developer",
		Status: hr.StatusActive, JoiningDate: hr.NewDate(2022, time.January, 15),
	}
	require.NoError(t, s.SaveEmployee(ctx, emp))

	got, err := s.Employee(ctx, "emp-1")
	require.NoError(t, err)
	assert.Equal(t, emp, got)

	byEmail, err := s.EmployeeByEmail(ctx, "john.doe@hrms.com")
	require.NoError(t, err)
	assert.Equal(t, emp.ID, byEmail.ID)

	_, err = s.Employee(ctx, "missing")
	assert.ErrorIs(t, err, hr.ErrNotFound)
}

func TestEmployee_UpsertOverwrites(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	emp := hr.Employee{ID: "emp-1", Name: "Old Name", Email: "e@hrms.com",
		Role: hr.RoleEmployee, Status: hr.StatusActive, JoiningDate: hr.NewDate(2022, time.January, 15)}
	require.NoError(t, s.SaveEmployee(ctx, emp))

	emp.Name = "New Name"
	emp.Status = hr.StatusOnNotice
	require.NoError(t, s.SaveEmployee(ctx, emp))

	got, err := s.Employee(ctx, "emp-1")
	require.NoError(t, err)
	assert.Equal(t, "New Name", got.Name)
	assert.Equal(t, hr.StatusOnNotice, got.Status)
}

// =============================================================================
// LEAVE
// =============================================================================

func TestLeaveRequest_RoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	decidedOn := time.Date(2025, time.June, 5, 10, 0, 0, 0, time.UTC)
	req := leave.Request{
		ID: "r1", EmployeeID: "emp-1", Category: hr.LeaveCasual,
		StartDate: hr.NewDate(2025, time.June, 9), EndDate: hr.NewDate(2025, time.June, 10),
		Reason: "family event", Status: leave.StatusApproved, WorkingDays: 2,
		AppliedOn: time.Date(2025, time.June, 2, 9, 0, 0, 0, time.UTC),
		ApprovedBy: "hr-1", DecidedOn: &decidedOn,
	}
	require.NoError(t, s.SaveRequest(ctx, req))

	got, err := s.Request(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, req.Status, got.Status)
	assert.Equal(t, req.StartDate, got.StartDate)
	assert.Equal(t, req.ApprovedBy, got.ApprovedBy)
	require.NotNil(t, got.DecidedOn)
	assert.True(t, decidedOn.Equal(*got.DecidedOn))
}

func TestRequests_NewestFirstAndFilterable(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2025, time.June, 1, 9, 0, 0, 0, time.UTC)
	rows := []leave.Request{
		{ID: "r1", EmployeeID: "emp-1", Category: hr.LeaveSick, Status: leave.StatusPending,
			StartDate: hr.NewDate(2025, time.June, 9), EndDate: hr.NewDate(2025, time.June, 9),
			Reason: "a", WorkingDays: 1, AppliedOn: base},
		{ID: "r2", EmployeeID: "emp-1", Category: hr.LeaveSick, Status: leave.StatusPending,
			StartDate: hr.NewDate(2025, time.June, 10), EndDate: hr.NewDate(2025, time.June, 10),
			Reason: "b", WorkingDays: 1, AppliedOn: base.Add(time.Hour)},
		{ID: "r3", EmployeeID: "emp-2", Category: hr.LeavePaid, Status: leave.StatusPending,
			StartDate: hr.NewDate(2025, time.June, 11), EndDate: hr.NewDate(2025, time.June, 11),
			Reason: "c", WorkingDays: 1, AppliedOn: base.Add(2 * time.Hour)},
	}
	for _, r := range rows {
		require.NoError(t, s.SaveRequest(ctx, r))
	}

	all, err := s.Requests(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "r3", all[0].ID)

	mine, err := s.Requests(ctx, "emp-1")
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, "r2", mine[0].ID)
	assert.Equal(t, "r1", mine[1].ID)
}

func TestWithTx_RollsBackBothWrites(t *testing.T) {
	// GIVEN: A stored balance
	// WHEN: A transaction updates the balance, inserts a request, then fails
	// THEN: Neither write is visible afterwards

	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.SaveBalance(ctx, leave.Balance{
		EmployeeID: "emp-1", Category: hr.LeaveSick, Total: 12, Used: 3,
	}))

	boom := errors.New("boom")
	err := s.WithTx(ctx, func(tx leave.Store) error {
		b, err := tx.Balance(ctx, "emp-1", hr.LeaveSick)
		if err != nil {
			return err
		}
		b.Pending = 4
		if err := tx.SaveBalance(ctx, b); err != nil {
			return err
		}
		if err := tx.SaveRequest(ctx, leave.Request{
			ID: "r1", EmployeeID: "emp-1", Category: hr.LeaveSick,
			StartDate: hr.NewDate(2025, time.June, 9), EndDate: hr.NewDate(2025, time.June, 9),
			Reason: "x", Status: leave.StatusPending, WorkingDays: 1, AppliedOn: time.Now().UTC(),
		}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := s.Balance(ctx, "emp-1", hr.LeaveSick)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Pending)

	_, err = s.Request(ctx, "r1")
	assert.ErrorIs(t, err, hr.ErrNotFound)
}

// =============================================================================
// ATTENDANCE
// =============================================================================

func TestAttendance_RoundTripAndMonthQuery(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	in := time.Date(2025, time.June, 4, 9, 0, 0, 0, time.UTC)
	out := in.Add(9*time.Hour + 30*time.Minute)
	rec := attendance.Record{
		ID: "a1", EmployeeID: "emp-1", Date: hr.NewDate(2025, time.June, 4),
		PunchIn: &in, PunchOut: &out,
		Status: attendance.StatusPresent, WorkHours: decimal.NewFromFloat(9.5),
	}
	require.NoError(t, s.SaveRecord(ctx, rec))
	require.NoError(t, s.SaveRecord(ctx, attendance.Record{
		ID: "a2", EmployeeID: "emp-1", Date: hr.NewDate(2025, time.July, 1),
		Status: attendance.StatusAbsent, WorkHours: decimal.Zero,
	}))

	got, err := s.RecordForDay(ctx, "emp-1", hr.NewDate(2025, time.June, 4))
	require.NoError(t, err)
	assert.Equal(t, "a1", got.ID)
	require.NotNil(t, got.PunchOut)
	assert.True(t, out.Equal(*got.PunchOut))
	assert.True(t, got.WorkHours.Equal(decimal.NewFromFloat(9.5)))

	june, err := s.RecordsInMonth(ctx, "emp-1", 2025, time.June)
	require.NoError(t, err)
	require.Len(t, june, 1)
	assert.Equal(t, "a1", june[0].ID)

	_, err = s.RecordForDay(ctx, "emp-1", hr.NewDate(2025, time.June, 5))
	assert.ErrorIs(t, err, hr.ErrNotFound)
}

func TestAttendance_UpsertByDay(t *testing.T) {
	// GIVEN: An open session for a day
	// WHEN: Saving the completed record for the same (employee, day)
	// THEN: The row is updated, not duplicated

	s := newTestStore(t)
	ctx := context.Background()

	in := time.Date(2025, time.June, 4, 9, 0, 0, 0, time.UTC)
	open := attendance.Record{
		ID: "a1", EmployeeID: "emp-1", Date: hr.NewDate(2025, time.June, 4),
		PunchIn: &in, Status: attendance.StatusPresent, WorkHours: decimal.Zero,
	}
	require.NoError(t, s.SaveRecord(ctx, open))

	out := in.Add(3 * time.Hour)
	closed := open
	closed.PunchOut = &out
	closed.Status = attendance.StatusHalfDay
	closed.WorkHours = decimal.NewFromInt(3)
	require.NoError(t, s.SaveRecord(ctx, closed))

	records, err := s.Records(ctx, "emp-1")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, attendance.StatusHalfDay, records[0].Status)
}

// =============================================================================
// PAYROLL
// =============================================================================

func TestStatement_RoundTripRecalculatesTotals(t *testing.T) {
	// GIVEN: A statement saved with component amounts
	// WHEN: Reading it back
	// THEN: Totals are derived on load, whatever was stored

	s := newTestStore(t)
	ctx := context.Background()

	paidOn := time.Date(2025, time.July, 31, 18, 0, 0, 0, time.UTC)
	st := payroll.Statement{
		ID: "p1", EmployeeID: "emp-1", Month: time.July, Year: 2025,
		BasicSalary: decimal.NewFromInt(50000), HRA: decimal.NewFromInt(20000),
		ConveyanceAllowance: decimal.NewFromInt(3000), MedicalAllowance: decimal.NewFromInt(2000),
		SpecialAllowance: decimal.NewFromInt(10000), ProvidentFund: decimal.NewFromInt(5000),
		ProfessionalTax: decimal.NewFromInt(200), IncomeTax: decimal.NewFromInt(8000),
		OtherDeductions: decimal.Zero, Status: payroll.StatusPaid,
		GeneratedOn: time.Date(2025, time.July, 28, 12, 0, 0, 0, time.UTC), PaidOn: &paidOn,
	}
	require.NoError(t, s.SaveStatement(ctx, st))

	got, err := s.Statement(ctx, "p1")
	require.NoError(t, err)
	assert.True(t, got.TotalEarnings.Equal(decimal.NewFromInt(85000)))
	assert.True(t, got.TotalDeductions.Equal(decimal.NewFromInt(13200)))
	assert.True(t, got.NetPayable.Equal(decimal.NewFromInt(71800)))
	require.NotNil(t, got.PaidOn)
	assert.True(t, paidOn.Equal(*got.PaidOn))

	byPeriod, err := s.StatementFor(ctx, "emp-1", 2025, time.July)
	require.NoError(t, err)
	assert.Equal(t, "p1", byPeriod.ID)
}

func TestStatements_NewestPeriodFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := payroll.Statement{
		EmployeeID: "emp-1", BasicSalary: decimal.NewFromInt(1000),
		Status: payroll.StatusGenerated, GeneratedOn: time.Now().UTC(),
	}
	for _, p := range []struct {
		id    string
		year  int
		month time.Month
	}{
		{"p1", 2025, time.May}, {"p2", 2025, time.July}, {"p3", 2024, time.December},
	} {
		st := base
		st.ID, st.Year, st.Month = p.id, p.year, p.month
		require.NoError(t, s.SaveStatement(ctx, st))
	}

	got, err := s.Statements(ctx, "emp-1")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "p2", got[0].ID)
	assert.Equal(t, "p1", got[1].ID)
	assert.Equal(t, "p3", got[2].ID)
}
