/*
handlers.go - HTTP API handlers for the HR management engine

PURPOSE:
  Exposes the HR engine via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Auth:
    POST   /api/auth/login             Sign in, returns a bearer token
    POST   /api/auth/logout            Revoke the current token

  Employees:
    GET    /api/employees              List/search the directory
    GET    /api/employees/{id}         Get employee details

  Leave:
    GET    /api/leave/balances         Balances for an employee
    GET    /api/leave/requests         List/filter leave requests
    POST   /api/leave/requests         Submit a leave request
    POST   /api/leave/requests/{id}/cancel   Cancel own request
    POST   /api/leave/requests/{id}/approve  Approve (admin/HR)
    POST   /api/leave/requests/{id}/reject   Reject (admin/HR)

  Attendance:
    POST   /api/attendance/clock-in    Open today's session
    POST   /api/attendance/clock-out   Close today's session
    GET    /api/attendance/records     List records for an employee
    GET    /api/attendance/calendar    Month grid plus summary

  Payroll:
    GET    /api/payroll/statements     List statements
    GET    /api/payroll/statements/{id}/payslip.pdf  Download payslip
    GET    /api/payroll/summary        Aggregate a period

ERROR MAPPING:
  Validation failures        400
  Unknown entities           404
  Role/ownership violations  403
  State conflicts            409
  Everything else            500

SEE ALSO:
  - dto.go: Request/response shapes
  - session.go: Authentication middleware
  - server.go: Route wiring
*/
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/warp/hrms-engine/attendance"
	"github.com/warp/hrms-engine/hr"
	"github.com/warp/hrms-engine/leave"
	"github.com/warp/hrms-engine/payroll"
	"github.com/warp/hrms-engine/query"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Directory  hr.Directory
	Leave      *leave.Service
	LeaveStore leave.TxStore
	Attendance *attendance.Service
	AttStore   attendance.Store
	Payroll    payroll.Store
	Sessions   *Sessions
	Clock      hr.Clock
}

// NewHandler wires a handler over one set of stores. The leave and
// attendance services are constructed here so callers only pass storage.
func NewHandler(dir hr.Directory, leaves leave.TxStore, att attendance.Store, pay payroll.Store) *Handler {
	return &Handler{
		Directory:  dir,
		Leave:      leave.NewService(leaves),
		LeaveStore: leaves,
		Attendance: attendance.NewService(att),
		AttStore:   att,
		Payroll:    pay,
		Sessions:   NewSessions(),
		Clock:      hr.SystemClock,
	}
}

// =============================================================================
// AUTH HANDLERS
// =============================================================================

// Login authenticates the demo credentials and issues a session token.
// POST /api/auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	emp, err := h.Directory.EmployeeByEmail(r.Context(), req.Email)
	if err != nil || req.Password != MockPassword {
		// Same response for unknown email and bad password.
		writeError(w, http.StatusUnauthorized, "Invalid credentials", nil)
		return
	}
	if emp.Status != hr.StatusActive {
		writeError(w, http.StatusForbidden, "Account is not active", nil)
		return
	}

	token := h.Sessions.Issue(hr.Identity{EmployeeID: emp.ID, Role: emp.Role})
	writeJSON(w, http.StatusOK, LoginResponse{Token: token, Employee: toEmployeeDTO(emp)})
}

// Logout revokes the caller's session token.
// POST /api/auth/logout
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.Sessions.Revoke(bearerToken(r))
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// EMPLOYEE HANDLERS
// =============================================================================

// ListEmployees returns the directory, optionally filtered and sorted.
// GET /api/employees?q=&department=&status=&sort=name|joiningDate&dir=asc|desc
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Directory.Employees(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list employees", err)
		return
	}

	q := r.URL.Query()
	preds := []query.Predicate[hr.Employee]{
		query.TextMatch(q.Get("q"), func(e hr.Employee) []string {
			return []string{e.Name, e.Email, e.Designation, e.Department}
		}),
	}
	if dept := q.Get("department"); dept != "" {
		preds = append(preds, query.Equals(dept, func(e hr.Employee) string { return e.Department }))
	}
	if status := q.Get("status"); status != "" {
		preds = append(preds, query.Equals(hr.EmployeeStatus(status), func(e hr.Employee) hr.EmployeeStatus { return e.Status }))
	}
	employees = query.Filter(employees, preds...)

	dir := query.Ascending
	if q.Get("dir") == "desc" {
		dir = query.Descending
	}
	switch q.Get("sort") {
	case "joiningDate":
		employees = query.SortBy(employees, func(a, b hr.Employee) bool {
			return a.JoiningDate.Before(b.JoiningDate)
		}, dir)
	case "", "name":
		employees = query.SortBy(employees, query.ByText(func(e hr.Employee) string { return e.Name }), dir)
	default:
		writeError(w, http.StatusBadRequest, "Unknown sort field", nil)
		return
	}

	dtos := make([]EmployeeDTO, len(employees))
	for i, e := range employees {
		dtos[i] = toEmployeeDTO(e)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetEmployee returns a single employee.
// GET /api/employees/{id}
func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	id := hr.EmployeeID(chi.URLParam(r, "id"))

	emp, err := h.Directory.Employee(r.Context(), id)
	if err != nil {
		writeDomainError(w, "Failed to get employee", err)
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeDTO(emp))
}

// =============================================================================
// LEAVE HANDLERS
// =============================================================================

// GetBalances returns per-category balances for an employee.
// GET /api/leave/balances?employee_id=
func (h *Handler) GetBalances(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := h.subjectEmployee(w, r)
	if !ok {
		return
	}

	balances, err := h.LeaveStore.Balances(r.Context(), employeeID)
	if err != nil {
		writeDomainError(w, "Failed to load balances", err)
		return
	}

	dtos := make([]BalanceDTO, len(balances))
	for i, b := range balances {
		dtos[i] = toBalanceDTO(b)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// ListLeaveRequests returns leave requests, filtered by employee and status.
// Admin/HR may list everyone; employees only themselves.
// GET /api/leave/requests?employee_id=&status=&from=&to=
func (h *Handler) ListLeaveRequests(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFrom(r.Context())

	employeeID := hr.EmployeeID(r.URL.Query().Get("employee_id"))
	if !identity.Role.CanDecide() {
		employeeID = identity.EmployeeID
	}

	requests, err := h.LeaveStore.Requests(r.Context(), employeeID)
	if err != nil {
		writeDomainError(w, "Failed to list requests", err)
		return
	}

	var preds []query.Predicate[leave.Request]
	if status := r.URL.Query().Get("status"); status != "" {
		preds = append(preds, query.Equals(leave.Status(status), func(rq leave.Request) leave.Status { return rq.Status }))
	}
	if from, to, ok, err := dateRangeParams(r); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date range", err)
		return
	} else if ok {
		preds = append(preds, query.DateWithin(from, to, func(rq leave.Request) hr.Date { return rq.StartDate }))
	}
	requests = query.Filter(requests, preds...)

	dtos := make([]LeaveRequestDTO, len(requests))
	for i, rq := range requests {
		dtos[i] = toLeaveRequestDTO(rq)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// SubmitLeave submits a leave request for the authenticated employee.
// POST /api/leave/requests
func (h *Handler) SubmitLeave(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFrom(r.Context())

	var req SubmitLeaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	start, err := hr.ParseDate(req.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid start date", err)
		return
	}
	end, err := hr.ParseDate(req.EndDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid end date", err)
		return
	}

	created, err := h.Leave.Submit(r.Context(), identity.EmployeeID, hr.LeaveCategory(req.Category), start, end, req.Reason)
	if err != nil {
		writeDomainError(w, "Failed to submit request", err)
		return
	}
	writeJSON(w, http.StatusCreated, toLeaveRequestDTO(created))
}

// CancelLeave cancels the caller's own pending or approved request.
// POST /api/leave/requests/{id}/cancel
func (h *Handler) CancelLeave(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFrom(r.Context())
	id := chi.URLParam(r, "id")

	cancelled, err := h.Leave.Cancel(r.Context(), id, identity.EmployeeID)
	if err != nil {
		writeDomainError(w, "Failed to cancel request", err)
		return
	}
	writeJSON(w, http.StatusOK, toLeaveRequestDTO(cancelled))
}

// ApproveLeave approves a pending request. Admin/HR only.
// POST /api/leave/requests/{id}/approve
func (h *Handler) ApproveLeave(w http.ResponseWriter, r *http.Request) {
	h.decideLeave(w, r, leave.StatusApproved)
}

// RejectLeave rejects a pending request. Admin/HR only.
// POST /api/leave/requests/{id}/reject
func (h *Handler) RejectLeave(w http.ResponseWriter, r *http.Request) {
	h.decideLeave(w, r, leave.StatusRejected)
}

func (h *Handler) decideLeave(w http.ResponseWriter, r *http.Request, decision leave.Status) {
	identity, _ := IdentityFrom(r.Context())
	id := chi.URLParam(r, "id")

	decided, warning, err := h.Leave.Decide(r.Context(), id, identity, decision)
	if err != nil {
		writeDomainError(w, "Failed to decide request", err)
		return
	}

	resp := DecisionResponse{Request: toLeaveRequestDTO(decided)}
	if warning != nil {
		resp.Warning = warning.String()
	}
	writeJSON(w, http.StatusOK, resp)
}

// =============================================================================
// ATTENDANCE HANDLERS
// =============================================================================

// ClockIn opens today's attendance session for the caller.
// POST /api/attendance/clock-in
func (h *Handler) ClockIn(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFrom(r.Context())

	rec, err := h.Attendance.ClockIn(r.Context(), identity.EmployeeID, h.Clock())
	if err != nil {
		writeDomainError(w, "Failed to clock in", err)
		return
	}
	writeJSON(w, http.StatusCreated, toAttendanceDTO(rec))
}

// ClockOut closes today's attendance session for the caller.
// POST /api/attendance/clock-out
func (h *Handler) ClockOut(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFrom(r.Context())

	rec, err := h.Attendance.ClockOut(r.Context(), identity.EmployeeID, h.Clock())
	if err != nil {
		writeDomainError(w, "Failed to clock out", err)
		return
	}
	writeJSON(w, http.StatusOK, toAttendanceDTO(rec))
}

// ListAttendance returns an employee's attendance records.
// GET /api/attendance/records?employee_id=&from=&to=
func (h *Handler) ListAttendance(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := h.subjectEmployee(w, r)
	if !ok {
		return
	}

	records, err := h.AttStore.Records(r.Context(), employeeID)
	if err != nil {
		writeDomainError(w, "Failed to list attendance", err)
		return
	}

	if from, to, ok, err := dateRangeParams(r); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date range", err)
		return
	} else if ok {
		records = query.Filter(records, query.DateWithin(from, to, func(rec attendance.Record) hr.Date { return rec.Date }))
	}

	dtos := make([]AttendanceDTO, len(records))
	for i, rec := range records {
		dtos[i] = toAttendanceDTO(rec)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetCalendar returns the month grid with records and the month summary.
// Defaults to the current month.
// GET /api/attendance/calendar?employee_id=&year=&month=
func (h *Handler) GetCalendar(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := h.subjectEmployee(w, r)
	if !ok {
		return
	}
	year, month, err := monthParams(r, h.Clock())
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid year or month", err)
		return
	}

	records, err := h.AttStore.RecordsInMonth(r.Context(), employeeID, year, month)
	if err != nil {
		writeDomainError(w, "Failed to load attendance", err)
		return
	}

	weeks := attendance.Calendar(year, month, records)
	out := make([][]CalendarCellDTO, len(weeks))
	for i, week := range weeks {
		out[i] = make([]CalendarCellDTO, len(week))
		for j, cell := range week {
			dto := CalendarCellDTO{Day: cell.Day}
			if !cell.Blank() {
				dto.Date = cell.Date.String()
				if cell.Record != nil {
					rec := toAttendanceDTO(*cell.Record)
					dto.Record = &rec
				}
			}
			out[i][j] = dto
		}
	}

	writeJSON(w, http.StatusOK, CalendarDTO{
		Year:    year,
		Month:   int(month),
		Weeks:   out,
		Summary: toSummaryDTO(attendance.Summarize(records)),
	})
}

// =============================================================================
// PAYROLL HANDLERS
// =============================================================================

// ListStatements returns payroll statements. Admin/HR may list everyone;
// employees only themselves.
// GET /api/payroll/statements?employee_id=&year=
func (h *Handler) ListStatements(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFrom(r.Context())

	employeeID := hr.EmployeeID(r.URL.Query().Get("employee_id"))
	if !identity.Role.CanDecide() {
		employeeID = identity.EmployeeID
	}

	statements, err := h.Payroll.Statements(r.Context(), employeeID)
	if err != nil {
		writeDomainError(w, "Failed to list statements", err)
		return
	}
	if yearStr := r.URL.Query().Get("year"); yearStr != "" {
		year, err := strconv.Atoi(yearStr)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid year", err)
			return
		}
		statements = query.Filter(statements, query.Equals(year, func(s payroll.Statement) int { return s.Year }))
	}

	dtos := make([]StatementDTO, len(statements))
	for i, s := range statements {
		dtos[i] = toStatementDTO(s)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetPayslip renders one statement as a PDF payslip.
// GET /api/payroll/statements/{id}/payslip.pdf
func (h *Handler) GetPayslip(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFrom(r.Context())
	id := chi.URLParam(r, "id")

	s, err := h.Payroll.Statement(r.Context(), id)
	if err != nil {
		writeDomainError(w, "Failed to load statement", err)
		return
	}
	if !identity.Role.CanDecide() && s.EmployeeID != identity.EmployeeID {
		writeError(w, http.StatusForbidden, "Not your statement", nil)
		return
	}

	emp, err := h.Directory.Employee(r.Context(), s.EmployeeID)
	if err != nil {
		writeDomainError(w, "Failed to load employee", err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=payslip-%s-%d-%02d.pdf", s.EmployeeID, s.Year, s.Month))
	if err := payroll.RenderPayslip(w, s, payroll.PayslipInfo{
		EmployeeName: emp.Name,
		Department:   emp.Department,
		Designation:  emp.Designation,
		Company:      "Warp HRMS",
	}); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to render payslip", err)
	}
}

// GetPayrollSummary aggregates statements over a period.
// GET /api/payroll/summary?employee_id=&year=
func (h *Handler) GetPayrollSummary(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFrom(r.Context())

	employeeID := hr.EmployeeID(r.URL.Query().Get("employee_id"))
	if !identity.Role.CanDecide() {
		employeeID = identity.EmployeeID
	}

	statements, err := h.Payroll.Statements(r.Context(), employeeID)
	if err != nil {
		writeDomainError(w, "Failed to list statements", err)
		return
	}
	if yearStr := r.URL.Query().Get("year"); yearStr != "" {
		year, err := strconv.Atoi(yearStr)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid year", err)
			return
		}
		statements = query.Filter(statements, query.Equals(year, func(s payroll.Statement) int { return s.Year }))
	}

	sum := payroll.SummarizePeriod(statements)
	writeJSON(w, http.StatusOK, PeriodSummaryDTO{
		Earnings:       sum.Earnings.String(),
		NetPaid:        sum.NetPaid.String(),
		TaxDeducted:    sum.TaxDeducted.String(),
		PFContribution: sum.PFContribution.String(),
		Statements:     len(statements),
	})
}

// =============================================================================
// HELPERS
// =============================================================================

// subjectEmployee resolves which employee a read is about. Employees are
// pinned to themselves; admin/HR may pass employee_id to inspect others.
func (h *Handler) subjectEmployee(w http.ResponseWriter, r *http.Request) (hr.EmployeeID, bool) {
	identity, _ := IdentityFrom(r.Context())

	requested := hr.EmployeeID(r.URL.Query().Get("employee_id"))
	if requested == "" || requested == identity.EmployeeID {
		return identity.EmployeeID, true
	}
	if !identity.Role.CanDecide() {
		writeError(w, http.StatusForbidden, "Cannot view other employees", nil)
		return "", false
	}
	return requested, true
}

// monthParams parses year/month query params, defaulting to now's month.
func monthParams(r *http.Request, now time.Time) (int, time.Month, error) {
	year, month := now.Year(), now.Month()
	if s := r.URL.Query().Get("year"); s != "" {
		y, err := strconv.Atoi(s)
		if err != nil {
			return 0, 0, err
		}
		year = y
	}
	if s := r.URL.Query().Get("month"); s != "" {
		m, err := strconv.Atoi(s)
		if err != nil {
			return 0, 0, err
		}
		if m < 1 || m > 12 {
			return 0, 0, fmt.Errorf("month out of range: %d", m)
		}
		month = time.Month(m)
	}
	return year, month, nil
}

// dateRangeParams parses optional from/to query params. The third return
// reports whether a range was supplied.
func dateRangeParams(r *http.Request) (hr.Date, hr.Date, bool, error) {
	fromStr, toStr := r.URL.Query().Get("from"), r.URL.Query().Get("to")
	if fromStr == "" && toStr == "" {
		return hr.Date{}, hr.Date{}, false, nil
	}
	from, err := hr.ParseDate(fromStr)
	if err != nil {
		return hr.Date{}, hr.Date{}, false, err
	}
	to, err := hr.ParseDate(toStr)
	if err != nil {
		return hr.Date{}, hr.Date{}, false, err
	}
	return from, to, true, nil
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeDomainError maps engine errors onto HTTP status codes.
func writeDomainError(w http.ResponseWriter, message string, err error) {
	switch {
	case hr.IsNotFound(err):
		writeError(w, http.StatusNotFound, message, err)
	case hr.IsPermissionDenied(err):
		writeError(w, http.StatusForbidden, message, err)
	case errors.Is(err, hr.ErrInvalidState),
		errors.Is(err, hr.ErrAlreadyClockedIn),
		errors.Is(err, hr.ErrNoOpenSession):
		writeError(w, http.StatusConflict, message, err)
	case hr.IsClientError(err):
		writeError(w, http.StatusBadRequest, message, err)
	default:
		writeError(w, http.StatusInternalServerError, message, err)
	}
}

// newRequestID is used by seeding to mint ids the same way services do.
func newRequestID() string { return uuid.NewString() }
