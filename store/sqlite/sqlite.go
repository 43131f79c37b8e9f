/*
Package sqlite provides a SQLite-backed implementation of the engine's
storage contracts.

IMPLEMENTED CONTRACTS:
  hr.Directory, leave.TxStore, attendance.Store, payroll.Store

The engine itself never requires durable storage; this adapter exists for
deployments that want state to survive a restart. Use ":memory:" for an
ephemeral database.

KEY TABLES:
  employees          Directory entries
  leave_balances     One row per (employee, category)
  leave_requests     Request state machine rows
  attendance         One row per (employee, day), enforced by unique index
  payroll_statements One row per (employee, month, year)

TRANSACTIONS:
  WithTx wraps fn in a database transaction; request transition and
  balance mutation commit together or roll back together.

WAL MODE:
  Opened with WAL so readers do not block the single writer.

SEE ALSO:
  - store/memory: In-memory implementation of the same contracts
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/warp/hrms-engine/attendance"
	"github.com/warp/hrms-engine/hr"
	"github.com/warp/hrms-engine/leave"
	"github.com/warp/hrms-engine/payroll"
)

// Store implements every storage contract on one SQLite database.
type Store struct {
	db *sql.DB
}

var (
	_ hr.Directory     = (*Store)(nil)
	_ leave.TxStore    = (*Store)(nil)
	_ attendance.Store = (*Store)(nil)
	_ payroll.Store    = (*Store)(nil)
)

// New opens (and migrates) a SQLite database at the given path. Use
// ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS employees (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		role TEXT NOT NULL,
		department TEXT NOT NULL DEFAULT '',
		designation TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL,
		joining_date TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS leave_balances (
		employee_id TEXT NOT NULL,
		category TEXT NOT NULL,
		total INTEGER NOT NULL,
		used INTEGER NOT NULL,
		pending INTEGER NOT NULL,
		PRIMARY KEY (employee_id, category)
	);

	CREATE TABLE IF NOT EXISTS leave_requests (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL,
		category TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		reason TEXT NOT NULL,
		status TEXT NOT NULL,
		working_days INTEGER NOT NULL,
		applied_on TEXT NOT NULL,
		approved_by TEXT NOT NULL DEFAULT '',
		rejected_by TEXT NOT NULL DEFAULT '',
		decided_on TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_leave_requests_employee ON leave_requests(employee_id, applied_on);

	CREATE TABLE IF NOT EXISTS attendance (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL,
		date TEXT NOT NULL,
		punch_in TEXT,
		punch_out TEXT,
		status TEXT NOT NULL,
		work_hours TEXT NOT NULL DEFAULT '0'
	);
	CREATE UNIQUE INDEX IF NOT EXISTS idx_attendance_employee_day ON attendance(employee_id, date);

	CREATE TABLE IF NOT EXISTS payroll_statements (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL,
		month INTEGER NOT NULL,
		year INTEGER NOT NULL,
		basic_salary TEXT NOT NULL,
		hra TEXT NOT NULL,
		conveyance_allowance TEXT NOT NULL,
		medical_allowance TEXT NOT NULL,
		special_allowance TEXT NOT NULL,
		provident_fund TEXT NOT NULL,
		professional_tax TEXT NOT NULL,
		income_tax TEXT NOT NULL,
		other_deductions TEXT NOT NULL,
		status TEXT NOT NULL,
		generated_on TEXT NOT NULL,
		paid_on TEXT
	);
	CREATE UNIQUE INDEX IF NOT EXISTS idx_payroll_employee_period ON payroll_statements(employee_id, year, month);
	`
	_, err := s.db.Exec(schema)
	return err
}

// querier is satisfied by both *sql.DB and *sql.Tx, so the same row
// logic serves plain calls and WithTx bodies.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// =============================================================================
// hr.Directory
// =============================================================================

func (s *Store) Employee(ctx context.Context, id hr.EmployeeID) (hr.Employee, error) {
	return scanEmployee(s.db.QueryRowContext(ctx,
		`SELECT id, name, email, role, department, designation, status, joining_date
		 FROM employees WHERE id = ?`, string(id)), string(id))
}

func (s *Store) EmployeeByEmail(ctx context.Context, email string) (hr.Employee, error) {
	return scanEmployee(s.db.QueryRowContext(ctx,
		`SELECT id, name, email, role, department, designation, status, joining_date
		 FROM employees WHERE email = ?`, email), email)
}

func scanEmployee(row *sql.Row, key string) (hr.Employee, error) {
	var e hr.Employee
	var joining string
	err := row.Scan(&e.ID, &e.Name, &e.Email, &e.Role, &e.Department, &e.Designation, &e.Status, &joining)
	if errors.Is(err, sql.ErrNoRows) {
		return hr.Employee{}, fmt.Errorf("%w: employee %s", hr.ErrNotFound, key)
	}
	if err != nil {
		return hr.Employee{}, err
	}
	e.JoiningDate, err = hr.ParseDate(joining)
	return e, err
}

func (s *Store) Employees(ctx context.Context) ([]hr.Employee, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, email, role, department, designation, status, joining_date
		 FROM employees ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []hr.Employee
	for rows.Next() {
		var e hr.Employee
		var joining string
		if err := rows.Scan(&e.ID, &e.Name, &e.Email, &e.Role, &e.Department, &e.Designation, &e.Status, &joining); err != nil {
			return nil, err
		}
		if e.JoiningDate, err = hr.ParseDate(joining); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Store) SaveEmployee(ctx context.Context, e hr.Employee) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO employees (id, name, email, role, department, designation, status, joining_date)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name=excluded.name, email=excluded.email, role=excluded.role,
		   department=excluded.department, designation=excluded.designation,
		   status=excluded.status, joining_date=excluded.joining_date`,
		string(e.ID), e.Name, e.Email, string(e.Role), e.Department, e.Designation,
		string(e.Status), e.JoiningDate.String())
	return err
}

// =============================================================================
// leave.Store
// =============================================================================

func (s *Store) Balance(ctx context.Context, employeeID hr.EmployeeID, category hr.LeaveCategory) (leave.Balance, error) {
	return getBalance(ctx, s.db, employeeID, category)
}

func getBalance(ctx context.Context, q querier, employeeID hr.EmployeeID, category hr.LeaveCategory) (leave.Balance, error) {
	var b leave.Balance
	err := q.QueryRowContext(ctx,
		`SELECT employee_id, category, total, used, pending
		 FROM leave_balances WHERE employee_id = ? AND category = ?`,
		string(employeeID), string(category)).
		Scan(&b.EmployeeID, &b.Category, &b.Total, &b.Used, &b.Pending)
	if errors.Is(err, sql.ErrNoRows) {
		return leave.Balance{}, fmt.Errorf("%w: %s balance for employee %s", hr.ErrNotFound, category, employeeID)
	}
	return b, err
}

func (s *Store) Balances(ctx context.Context, employeeID hr.EmployeeID) ([]leave.Balance, error) {
	return listBalances(ctx, s.db, employeeID)
}

func listBalances(ctx context.Context, q querier, employeeID hr.EmployeeID) ([]leave.Balance, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT employee_id, category, total, used, pending
		 FROM leave_balances WHERE employee_id = ? ORDER BY category`, string(employeeID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []leave.Balance
	for rows.Next() {
		var b leave.Balance
		if err := rows.Scan(&b.EmployeeID, &b.Category, &b.Total, &b.Used, &b.Pending); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (s *Store) SaveBalance(ctx context.Context, b leave.Balance) error {
	return saveBalance(ctx, s.db, b)
}

func saveBalance(ctx context.Context, q querier, b leave.Balance) error {
	_, err := q.ExecContext(ctx,
		`INSERT INTO leave_balances (employee_id, category, total, used, pending)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(employee_id, category) DO UPDATE SET
		   total=excluded.total, used=excluded.used, pending=excluded.pending`,
		string(b.EmployeeID), string(b.Category), b.Total, b.Used, b.Pending)
	return err
}

func (s *Store) Request(ctx context.Context, id string) (leave.Request, error) {
	return getRequest(ctx, s.db, id)
}

const requestColumns = `id, employee_id, category, start_date, end_date, reason, status,
	working_days, applied_on, approved_by, rejected_by, decided_on`

func getRequest(ctx context.Context, q querier, id string) (leave.Request, error) {
	row := q.QueryRowContext(ctx,
		`SELECT `+requestColumns+` FROM leave_requests WHERE id = ?`, id)
	r, err := scanRequest(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return leave.Request{}, fmt.Errorf("%w: leave request %s", hr.ErrNotFound, id)
	}
	return r, err
}

func scanRequest(scan func(...any) error) (leave.Request, error) {
	var (
		r                   leave.Request
		start, end, applied string
		decidedOn           sql.NullString
	)
	err := scan(&r.ID, &r.EmployeeID, &r.Category, &start, &end, &r.Reason, &r.Status,
		&r.WorkingDays, &applied, &r.ApprovedBy, &r.RejectedBy, &decidedOn)
	if err != nil {
		return leave.Request{}, err
	}
	if r.StartDate, err = hr.ParseDate(start); err != nil {
		return leave.Request{}, err
	}
	if r.EndDate, err = hr.ParseDate(end); err != nil {
		return leave.Request{}, err
	}
	if r.AppliedOn, err = time.Parse(time.RFC3339Nano, applied); err != nil {
		return leave.Request{}, err
	}
	if decidedOn.Valid {
		t, err := time.Parse(time.RFC3339Nano, decidedOn.String)
		if err != nil {
			return leave.Request{}, err
		}
		r.DecidedOn = &t
	}
	return r, nil
}

func (s *Store) Requests(ctx context.Context, employeeID hr.EmployeeID) ([]leave.Request, error) {
	return listRequests(ctx, s.db, employeeID)
}

func listRequests(ctx context.Context, q querier, employeeID hr.EmployeeID) ([]leave.Request, error) {
	query := `SELECT ` + requestColumns + ` FROM leave_requests`
	var args []any
	if employeeID != "" {
		query += ` WHERE employee_id = ?`
		args = append(args, string(employeeID))
	}
	query += ` ORDER BY applied_on DESC, id`

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []leave.Request
	for rows.Next() {
		r, err := scanRequest(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) SaveRequest(ctx context.Context, r leave.Request) error {
	return saveRequest(ctx, s.db, r)
}

func saveRequest(ctx context.Context, q querier, r leave.Request) error {
	var decidedOn any
	if r.DecidedOn != nil {
		decidedOn = r.DecidedOn.Format(time.RFC3339Nano)
	}
	_, err := q.ExecContext(ctx,
		`INSERT INTO leave_requests (id, employee_id, category, start_date, end_date,
		   reason, status, working_days, applied_on, approved_by, rejected_by, decided_on)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   status=excluded.status, approved_by=excluded.approved_by,
		   rejected_by=excluded.rejected_by, decided_on=excluded.decided_on`,
		r.ID, string(r.EmployeeID), string(r.Category), r.StartDate.String(), r.EndDate.String(),
		r.Reason, string(r.Status), r.WorkingDays, r.AppliedOn.Format(time.RFC3339Nano),
		string(r.ApprovedBy), string(r.RejectedBy), decidedOn)
	return err
}

// =============================================================================
// leave.TxStore
// =============================================================================

func (s *Store) WithTx(ctx context.Context, fn func(leave.Store) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(&txLeaveStore{tx: tx}); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

type txLeaveStore struct {
	tx *sql.Tx
}

func (t *txLeaveStore) Balance(ctx context.Context, employeeID hr.EmployeeID, category hr.LeaveCategory) (leave.Balance, error) {
	return getBalance(ctx, t.tx, employeeID, category)
}

func (t *txLeaveStore) Balances(ctx context.Context, employeeID hr.EmployeeID) ([]leave.Balance, error) {
	return listBalances(ctx, t.tx, employeeID)
}

func (t *txLeaveStore) SaveBalance(ctx context.Context, b leave.Balance) error {
	return saveBalance(ctx, t.tx, b)
}

func (t *txLeaveStore) Request(ctx context.Context, id string) (leave.Request, error) {
	return getRequest(ctx, t.tx, id)
}

func (t *txLeaveStore) Requests(ctx context.Context, employeeID hr.EmployeeID) ([]leave.Request, error) {
	return listRequests(ctx, t.tx, employeeID)
}

func (t *txLeaveStore) SaveRequest(ctx context.Context, r leave.Request) error {
	return saveRequest(ctx, t.tx, r)
}

// =============================================================================
// attendance.Store
// =============================================================================

const attendanceColumns = `id, employee_id, date, punch_in, punch_out, status, work_hours`

func (s *Store) RecordForDay(ctx context.Context, employeeID hr.EmployeeID, day hr.Date) (attendance.Record, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+attendanceColumns+` FROM attendance WHERE employee_id = ? AND date = ?`,
		string(employeeID), day.String())
	r, err := scanAttendance(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return attendance.Record{}, fmt.Errorf("%w: attendance for %s on %s", hr.ErrNotFound, employeeID, day)
	}
	return r, err
}

func scanAttendance(scan func(...any) error) (attendance.Record, error) {
	var (
		r                 attendance.Record
		day, hours        string
		punchIn, punchOut sql.NullString
	)
	err := scan(&r.ID, &r.EmployeeID, &day, &punchIn, &punchOut, &r.Status, &hours)
	if err != nil {
		return attendance.Record{}, err
	}
	if r.Date, err = hr.ParseDate(day); err != nil {
		return attendance.Record{}, err
	}
	if punchIn.Valid {
		t, err := time.Parse(time.RFC3339Nano, punchIn.String)
		if err != nil {
			return attendance.Record{}, err
		}
		r.PunchIn = &t
	}
	if punchOut.Valid {
		t, err := time.Parse(time.RFC3339Nano, punchOut.String)
		if err != nil {
			return attendance.Record{}, err
		}
		r.PunchOut = &t
	}
	if r.WorkHours, err = decimal.NewFromString(hours); err != nil {
		return attendance.Record{}, err
	}
	return r, nil
}

func (s *Store) Records(ctx context.Context, employeeID hr.EmployeeID) ([]attendance.Record, error) {
	query := `SELECT ` + attendanceColumns + ` FROM attendance`
	var args []any
	if employeeID != "" {
		query += ` WHERE employee_id = ?`
		args = append(args, string(employeeID))
	}
	query += ` ORDER BY date, employee_id`
	return s.queryRecords(ctx, query, args...)
}

func (s *Store) RecordsInMonth(ctx context.Context, employeeID hr.EmployeeID, year int, month time.Month) ([]attendance.Record, error) {
	from := hr.StartOfMonth(year, month)
	to := hr.NewDate(year, month, hr.DaysInMonth(year, month))
	return s.queryRecords(ctx,
		`SELECT `+attendanceColumns+` FROM attendance
		 WHERE employee_id = ? AND date BETWEEN ? AND ? ORDER BY date`,
		string(employeeID), from.String(), to.String())
}

func (s *Store) queryRecords(ctx context.Context, query string, args ...any) ([]attendance.Record, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []attendance.Record
	for rows.Next() {
		r, err := scanAttendance(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) SaveRecord(ctx context.Context, r attendance.Record) error {
	var punchIn, punchOut any
	if r.PunchIn != nil {
		punchIn = r.PunchIn.Format(time.RFC3339Nano)
	}
	if r.PunchOut != nil {
		punchOut = r.PunchOut.Format(time.RFC3339Nano)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO attendance (id, employee_id, date, punch_in, punch_out, status, work_hours)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(employee_id, date) DO UPDATE SET
		   punch_in=excluded.punch_in, punch_out=excluded.punch_out,
		   status=excluded.status, work_hours=excluded.work_hours`,
		r.ID, string(r.EmployeeID), r.Date.String(), punchIn, punchOut,
		string(r.Status), r.WorkHours.String())
	return err
}

// =============================================================================
// payroll.Store
// =============================================================================

const statementColumns = `id, employee_id, month, year, basic_salary, hra,
	conveyance_allowance, medical_allowance, special_allowance, provident_fund,
	professional_tax, income_tax, other_deductions, status, generated_on, paid_on`

func (s *Store) Statement(ctx context.Context, id string) (payroll.Statement, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+statementColumns+` FROM payroll_statements WHERE id = ?`, id)
	st, err := scanStatement(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return payroll.Statement{}, fmt.Errorf("%w: payroll statement %s", hr.ErrNotFound, id)
	}
	return st, err
}

func (s *Store) StatementFor(ctx context.Context, employeeID hr.EmployeeID, year int, month time.Month) (payroll.Statement, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+statementColumns+` FROM payroll_statements
		 WHERE employee_id = ? AND year = ? AND month = ?`,
		string(employeeID), year, int(month))
	st, err := scanStatement(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return payroll.Statement{}, fmt.Errorf("%w: payroll statement for %s %d-%02d", hr.ErrNotFound, employeeID, year, month)
	}
	return st, err
}

func scanStatement(scan func(...any) error) (payroll.Statement, error) {
	var (
		st        payroll.Statement
		month     int
		generated string
		paidOn    sql.NullString
		money     [9]string
	)
	err := scan(&st.ID, &st.EmployeeID, &month, &st.Year,
		&money[0], &money[1], &money[2], &money[3], &money[4],
		&money[5], &money[6], &money[7], &money[8],
		&st.Status, &generated, &paidOn)
	if err != nil {
		return payroll.Statement{}, err
	}
	st.Month = time.Month(month)

	fields := []*decimal.Decimal{
		&st.BasicSalary, &st.HRA, &st.ConveyanceAllowance, &st.MedicalAllowance,
		&st.SpecialAllowance, &st.ProvidentFund, &st.ProfessionalTax,
		&st.IncomeTax, &st.OtherDeductions,
	}
	for i, f := range fields {
		if *f, err = decimal.NewFromString(money[i]); err != nil {
			return payroll.Statement{}, err
		}
	}

	if st.GeneratedOn, err = time.Parse(time.RFC3339Nano, generated); err != nil {
		return payroll.Statement{}, err
	}
	if paidOn.Valid {
		t, err := time.Parse(time.RFC3339Nano, paidOn.String)
		if err != nil {
			return payroll.Statement{}, err
		}
		st.PaidOn = &t
	}
	st.Recalculate()
	return st, nil
}

func (s *Store) Statements(ctx context.Context, employeeID hr.EmployeeID) ([]payroll.Statement, error) {
	query := `SELECT ` + statementColumns + ` FROM payroll_statements`
	var args []any
	if employeeID != "" {
		query += ` WHERE employee_id = ?`
		args = append(args, string(employeeID))
	}
	query += ` ORDER BY year DESC, month DESC, employee_id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []payroll.Statement
	for rows.Next() {
		st, err := scanStatement(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

func (s *Store) SaveStatement(ctx context.Context, st payroll.Statement) error {
	var paidOn any
	if st.PaidOn != nil {
		paidOn = st.PaidOn.Format(time.RFC3339Nano)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO payroll_statements (id, employee_id, month, year, basic_salary, hra,
		   conveyance_allowance, medical_allowance, special_allowance, provident_fund,
		   professional_tax, income_tax, other_deductions, status, generated_on, paid_on)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   basic_salary=excluded.basic_salary, hra=excluded.hra,
		   conveyance_allowance=excluded.conveyance_allowance,
		   medical_allowance=excluded.medical_allowance,
		   special_allowance=excluded.special_allowance,
		   provident_fund=excluded.provident_fund,
		   professional_tax=excluded.professional_tax,
		   income_tax=excluded.income_tax,
		   other_deductions=excluded.other_deductions,
		   status=excluded.status, paid_on=excluded.paid_on`,
		st.ID, string(st.EmployeeID), int(st.Month), st.Year,
		st.BasicSalary.String(), st.HRA.String(), st.ConveyanceAllowance.String(),
		st.MedicalAllowance.String(), st.SpecialAllowance.String(),
		st.ProvidentFund.String(), st.ProfessionalTax.String(),
		st.IncomeTax.String(), st.OtherDeductions.String(),
		string(st.Status), st.GeneratedOn.Format(time.RFC3339Nano), paidOn)
	return err
}
