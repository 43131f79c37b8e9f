/*
seed.go - Demo dataset for local development

PURPOSE:
  Populates a fresh store with a small, recognizable company: an admin,
  an HR manager, and two employees with balances, leave history, a month
  of attendance, and payroll statements. Every account signs in with the
  shared demo password.

USAGE:
  Called from cmd/server/main.go when the -seed flag is set. Seeding is
  idempotent in the sense that it upserts by fixed ids, so re-running it
  resets the demo records rather than duplicating them.

SEE ALSO:
  - session.go: MockPassword, the credential every seeded account uses
*/
package api

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/hrms-engine/attendance"
	"github.com/warp/hrms-engine/hr"
	"github.com/warp/hrms-engine/leave"
	"github.com/warp/hrms-engine/payroll"
)

// Seed loads the demo company into the given stores.
func Seed(ctx context.Context, dir hr.Directory, leaves leave.Store, att attendance.Store, pay payroll.Store, clock hr.Clock) error {
	now := clock()

	employees := []hr.Employee{
		{
			ID: "ADM001", Name: "Admin User", Email: "admin@hrms.com",
			Role: hr.RoleAdmin, Department: "Administration", Designation: "System Administrator",
			Status: hr.StatusActive, JoiningDate: hr.NewDate(2020, time.January, 1),
		},
		{
			ID: "HRM001", Name: "HR Manager", Email: "hr@hrms.com",
			Role: hr.RoleHR, Department: "Human Resources", Designation: "HR Manager",
			Status: hr.StatusActive, JoiningDate: hr.NewDate(2020, time.June, 1),
		},
		{
			ID: "EMP001", Name: "John Doe", Email: "john.doe@hrms.com",
			Role: hr.RoleEmployee, Department: "Engineering", Designation: "Senior Developer",
			Status: hr.StatusActive, JoiningDate: hr.NewDate(2022, time.January, 15),
		},
		{
			ID: "EMP002", Name: "Jane Smith", Email: "jane.smith@hrms.com",
			Role: hr.RoleEmployee, Department: "Marketing", Designation: "Marketing Specialist",
			Status: hr.StatusActive, JoiningDate: hr.NewDate(2021, time.March, 10),
		},
	}
	for _, e := range employees {
		if err := dir.SaveEmployee(ctx, e); err != nil {
			return fmt.Errorf("seed employee %s: %w", e.ID, err)
		}
	}

	balances := []leave.Balance{
		{EmployeeID: "EMP001", Category: hr.LeaveSick, Total: 12, Used: 3},
		{EmployeeID: "EMP001", Category: hr.LeaveCasual, Total: 6, Used: 2},
		{EmployeeID: "EMP001", Category: hr.LeavePaid, Total: 15, Used: 5, Pending: 2},
		{EmployeeID: "EMP002", Category: hr.LeaveSick, Total: 12, Used: 1},
		{EmployeeID: "EMP002", Category: hr.LeaveCasual, Total: 6, Pending: 1},
		{EmployeeID: "EMP002", Category: hr.LeavePaid, Total: 15, Used: 2},
	}
	for _, b := range balances {
		if err := leaves.SaveBalance(ctx, b); err != nil {
			return fmt.Errorf("seed balance %s/%s: %w", b.EmployeeID, b.Category, err)
		}
	}

	if err := seedLeaveHistory(ctx, leaves, now); err != nil {
		return err
	}
	if err := seedAttendance(ctx, att, now, "EMP001", "EMP002"); err != nil {
		return err
	}
	return seedPayroll(ctx, pay, now)
}

func seedLeaveHistory(ctx context.Context, leaves leave.Store, now time.Time) error {
	year := now.Year()
	decided := func(day time.Time) *time.Time { return &day }

	requests := []leave.Request{
		{
			ID: "l1", EmployeeID: "EMP001", Category: hr.LeaveSick,
			StartDate: hr.NewDate(year, time.May, 10), EndDate: hr.NewDate(year, time.May, 11),
			Reason: "Fever", Status: leave.StatusApproved, WorkingDays: 2,
			AppliedOn:  time.Date(year, time.May, 8, 9, 0, 0, 0, time.UTC),
			ApprovedBy: "HRM001",
			DecidedOn:  decided(time.Date(year, time.May, 9, 10, 0, 0, 0, time.UTC)),
		},
		{
			ID: "l2", EmployeeID: "EMP001", Category: hr.LeavePaid,
			StartDate: hr.NewDate(year, time.June, 20), EndDate: hr.NewDate(year, time.June, 23),
			Reason: "Family vacation", Status: leave.StatusApproved, WorkingDays: 4,
			AppliedOn:  time.Date(year, time.June, 10, 9, 0, 0, 0, time.UTC),
			ApprovedBy: "HRM001",
			DecidedOn:  decided(time.Date(year, time.June, 12, 10, 0, 0, 0, time.UTC)),
		},
		{
			ID: "l3", EmployeeID: "EMP001", Category: hr.LeavePaid,
			StartDate: hr.NewDate(year, time.August, 17), EndDate: hr.NewDate(year, time.August, 18),
			Reason: "Personal work", Status: leave.StatusPending, WorkingDays: 2,
			AppliedOn: time.Date(year, time.August, 10, 9, 0, 0, 0, time.UTC),
		},
		{
			ID: "l4", EmployeeID: "EMP002", Category: hr.LeaveSick,
			StartDate: hr.NewDate(year, time.April, 6), EndDate: hr.NewDate(year, time.April, 6),
			Reason: "Not feeling well", Status: leave.StatusApproved, WorkingDays: 1,
			AppliedOn:  time.Date(year, time.April, 5, 8, 30, 0, 0, time.UTC),
			ApprovedBy: "HRM001",
			DecidedOn:  decided(time.Date(year, time.April, 5, 11, 0, 0, 0, time.UTC)),
		},
		{
			ID: "l5", EmployeeID: "EMP002", Category: hr.LeaveCasual,
			StartDate: hr.NewDate(year, time.July, 7), EndDate: hr.NewDate(year, time.July, 7),
			Reason: "Family function", Status: leave.StatusPending, WorkingDays: 1,
			AppliedOn: time.Date(year, time.July, 1, 9, 0, 0, 0, time.UTC),
		},
	}
	for _, r := range requests {
		if err := leaves.SaveRequest(ctx, r); err != nil {
			return fmt.Errorf("seed leave request %s: %w", r.ID, err)
		}
	}
	return nil
}

// seedAttendance writes a full-day record for every elapsed working day of
// the current month: 09:00 in, 18:00 out, nine hours.
func seedAttendance(ctx context.Context, att attendance.Store, now time.Time, employees ...hr.EmployeeID) error {
	today := hr.DateOf(now)
	day := hr.StartOfMonth(now.Year(), now.Month())

	for n := 1; day.BeforeOrEqual(today); n++ {
		if day.IsWorkingDay() && day.Before(today) {
			for _, id := range employees {
				in := day.Time().Add(9 * time.Hour)
				out := day.Time().Add(18 * time.Hour)
				rec := attendance.Record{
					ID:         newRequestID(),
					EmployeeID: id,
					Date:       day,
					PunchIn:    &in,
					PunchOut:   &out,
					Status:     attendance.StatusPresent,
					WorkHours:  decimal.NewFromInt(9),
				}
				if err := att.SaveRecord(ctx, rec); err != nil {
					return fmt.Errorf("seed attendance %s %s: %w", id, day, err)
				}
			}
		}
		day = day.AddDays(1)
	}
	return nil
}

func seedPayroll(ctx context.Context, pay payroll.Store, now time.Time) error {
	prev := now.AddDate(0, -1, 0)

	build := func(id string, employeeID hr.EmployeeID, month time.Month, year int, basic, hra int64, status payroll.Status) payroll.Statement {
		s := payroll.Statement{
			ID:                  id,
			EmployeeID:          employeeID,
			Month:               month,
			Year:                year,
			BasicSalary:         decimal.NewFromInt(basic),
			HRA:                 decimal.NewFromInt(hra),
			ConveyanceAllowance: decimal.NewFromInt(3000),
			MedicalAllowance:    decimal.NewFromInt(2000),
			SpecialAllowance:    decimal.NewFromInt(10000),
			ProvidentFund:       decimal.NewFromInt(basic / 10),
			ProfessionalTax:     decimal.NewFromInt(200),
			IncomeTax:           decimal.NewFromInt(8000),
			OtherDeductions:     decimal.Zero,
			Status:              status,
			GeneratedOn:         time.Date(year, month, 28, 12, 0, 0, 0, time.UTC),
		}
		if status == payroll.StatusPaid {
			paid := time.Date(year, month, 28, 18, 0, 0, 0, time.UTC)
			s.PaidOn = &paid
		}
		s.Recalculate()
		return s
	}

	statements := []payroll.Statement{
		build("p1", "EMP001", prev.Month(), prev.Year(), 50000, 20000, payroll.StatusPaid),
		build("p2", "EMP002", prev.Month(), prev.Year(), 45000, 18000, payroll.StatusPaid),
		build("p3", "EMP001", now.Month(), now.Year(), 50000, 20000, payroll.StatusGenerated),
		build("p4", "EMP002", now.Month(), now.Year(), 45000, 18000, payroll.StatusGenerated),
	}
	for _, s := range statements {
		if err := pay.SaveStatement(ctx, s); err != nil {
			return fmt.Errorf("seed statement %s: %w", s.ID, err)
		}
	}
	return nil
}
