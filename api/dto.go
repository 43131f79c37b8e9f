/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

TYPES:
  Auth:
    LoginRequest, LoginResponse

  Employee:
    EmployeeDTO

  Leave:
    BalanceDTO, LeaveRequestDTO, SubmitLeaveRequest, DecisionResponse

  Attendance:
    AttendanceDTO, CalendarDTO, CalendarCellDTO, AttendanceSummaryDTO

  Payroll:
    StatementDTO, PeriodSummaryDTO

SEE ALSO:
  - handlers.go: Where these types are produced and consumed
*/
package api

import (
	"time"

	"github.com/warp/hrms-engine/attendance"
	"github.com/warp/hrms-engine/hr"
	"github.com/warp/hrms-engine/leave"
	"github.com/warp/hrms-engine/payroll"
)

// =============================================================================
// AUTH
// =============================================================================

// LoginRequest is the credential payload for POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the session token and the signed-in employee.
type LoginResponse struct {
	Token    string      `json:"token"`
	Employee EmployeeDTO `json:"employee"`
}

// ErrorResponse is the standard error payload.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// EMPLOYEE
// =============================================================================

// EmployeeDTO is the API representation of an employee.
type EmployeeDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	Department  string `json:"department"`
	Designation string `json:"designation"`
	Status      string `json:"status"`
	JoiningDate string `json:"joiningDate"`
}

func toEmployeeDTO(e hr.Employee) EmployeeDTO {
	return EmployeeDTO{
		ID:          string(e.ID),
		Name:        e.Name,
		Email:       e.Email,
		Role:        string(e.Role),
		Department:  e.Department,
		Designation: e.Designation,
		Status:      string(e.Status),
		JoiningDate: e.JoiningDate.String(),
	}
}

// =============================================================================
// LEAVE
// =============================================================================

// BalanceDTO is one leave category balance for an employee.
type BalanceDTO struct {
	EmployeeID string `json:"employeeId"`
	Category   string `json:"category"`
	Total      int    `json:"total"`
	Used       int    `json:"used"`
	Pending    int    `json:"pending"`
	Remaining  int    `json:"remaining"`
	Available  int    `json:"available"`
}

func toBalanceDTO(b leave.Balance) BalanceDTO {
	return BalanceDTO{
		EmployeeID: string(b.EmployeeID),
		Category:   string(b.Category),
		Total:      b.Total,
		Used:       b.Used,
		Pending:    b.Pending,
		Remaining:  b.Remaining(),
		Available:  b.Available(),
	}
}

// SubmitLeaveRequest is the payload for POST /api/leave/requests.
type SubmitLeaveRequest struct {
	Category  string `json:"category"`
	StartDate string `json:"startDate"` // YYYY-MM-DD
	EndDate   string `json:"endDate"`   // YYYY-MM-DD
	Reason    string `json:"reason"`
}

// LeaveRequestDTO is the API representation of a leave request.
type LeaveRequestDTO struct {
	ID          string `json:"id"`
	EmployeeID  string `json:"employeeId"`
	Category    string `json:"category"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Reason      string `json:"reason"`
	Status      string `json:"status"`
	WorkingDays int    `json:"workingDays"`
	AppliedOn   string `json:"appliedOn"`
	ApprovedBy  string `json:"approvedBy,omitempty"`
	RejectedBy  string `json:"rejectedBy,omitempty"`
	DecidedOn   string `json:"decidedOn,omitempty"`
}

func toLeaveRequestDTO(req leave.Request) LeaveRequestDTO {
	dto := LeaveRequestDTO{
		ID:          req.ID,
		EmployeeID:  string(req.EmployeeID),
		Category:    string(req.Category),
		StartDate:   req.StartDate.String(),
		EndDate:     req.EndDate.String(),
		Reason:      req.Reason,
		Status:      string(req.Status),
		WorkingDays: req.WorkingDays,
		AppliedOn:   req.AppliedOn.Format(time.RFC3339),
		ApprovedBy:  string(req.ApprovedBy),
		RejectedBy:  string(req.RejectedBy),
	}
	if req.DecidedOn != nil {
		dto.DecidedOn = req.DecidedOn.Format(time.RFC3339)
	}
	return dto
}

// DecisionResponse wraps an approval or rejection outcome. Warning is set
// when an approval had to clamp a balance that would have gone negative.
type DecisionResponse struct {
	Request LeaveRequestDTO `json:"request"`
	Warning string          `json:"warning,omitempty"`
}

// =============================================================================
// ATTENDANCE
// =============================================================================

// AttendanceDTO is one day's attendance record.
type AttendanceDTO struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employeeId"`
	Date       string `json:"date"`
	PunchIn    string `json:"punchIn,omitempty"`
	PunchOut   string `json:"punchOut,omitempty"`
	Status     string `json:"status"`
	WorkHours  string `json:"workHours"`
}

func toAttendanceDTO(rec attendance.Record) AttendanceDTO {
	dto := AttendanceDTO{
		ID:         rec.ID,
		EmployeeID: string(rec.EmployeeID),
		Date:       rec.Date.String(),
		Status:     string(rec.Status),
		WorkHours:  rec.WorkHours.String(),
	}
	if rec.PunchIn != nil {
		dto.PunchIn = rec.PunchIn.Format(time.RFC3339)
	}
	if rec.PunchOut != nil {
		dto.PunchOut = rec.PunchOut.Format(time.RFC3339)
	}
	return dto
}

// CalendarCellDTO is one cell of the month grid. Day 0 marks a padding
// cell before the first of the month.
type CalendarCellDTO struct {
	Day    int            `json:"day"`
	Date   string         `json:"date,omitempty"`
	Record *AttendanceDTO `json:"record,omitempty"`
}

// CalendarDTO is a week-major month grid plus the month summary.
type CalendarDTO struct {
	Year    int                  `json:"year"`
	Month   int                  `json:"month"`
	Weeks   [][]CalendarCellDTO  `json:"weeks"`
	Summary AttendanceSummaryDTO `json:"summary"`
}

// AttendanceSummaryDTO counts records per status for a period.
type AttendanceSummaryDTO struct {
	Present      int `json:"present"`
	Absent       int `json:"absent"`
	HalfDay      int `json:"halfDay"`
	WorkFromHome int `json:"workFromHome"`
	OnLeave      int `json:"onLeave"`
	Total        int `json:"total"`
}

func toSummaryDTO(s attendance.Summary) AttendanceSummaryDTO {
	return AttendanceSummaryDTO{
		Present:      s.Present,
		Absent:       s.Absent,
		HalfDay:      s.HalfDay,
		WorkFromHome: s.WorkFromHome,
		OnLeave:      s.OnLeave,
		Total:        s.Total,
	}
}

// =============================================================================
// PAYROLL
// =============================================================================

// StatementDTO is a monthly payroll statement. Decimal amounts are
// serialized as strings to avoid float rounding on the client.
type StatementDTO struct {
	ID                  string `json:"id"`
	EmployeeID          string `json:"employeeId"`
	Month               int    `json:"month"`
	Year                int    `json:"year"`
	BasicSalary         string `json:"basicSalary"`
	HRA                 string `json:"hra"`
	ConveyanceAllowance string `json:"conveyanceAllowance"`
	MedicalAllowance    string `json:"medicalAllowance"`
	SpecialAllowance    string `json:"specialAllowance"`
	ProvidentFund       string `json:"providentFund"`
	ProfessionalTax     string `json:"professionalTax"`
	IncomeTax           string `json:"incomeTax"`
	OtherDeductions     string `json:"otherDeductions"`
	TotalEarnings       string `json:"totalEarnings"`
	TotalDeductions     string `json:"totalDeductions"`
	NetPayable          string `json:"netPayable"`
	Status              string `json:"status"`
	GeneratedOn         string `json:"generatedOn"`
	PaidOn              string `json:"paidOn,omitempty"`
}

func toStatementDTO(s payroll.Statement) StatementDTO {
	dto := StatementDTO{
		ID:                  s.ID,
		EmployeeID:          string(s.EmployeeID),
		Month:               int(s.Month),
		Year:                s.Year,
		BasicSalary:         s.BasicSalary.String(),
		HRA:                 s.HRA.String(),
		ConveyanceAllowance: s.ConveyanceAllowance.String(),
		MedicalAllowance:    s.MedicalAllowance.String(),
		SpecialAllowance:    s.SpecialAllowance.String(),
		ProvidentFund:       s.ProvidentFund.String(),
		ProfessionalTax:     s.ProfessionalTax.String(),
		IncomeTax:           s.IncomeTax.String(),
		OtherDeductions:     s.OtherDeductions.String(),
		TotalEarnings:       s.TotalEarnings.String(),
		TotalDeductions:     s.TotalDeductions.String(),
		NetPayable:          s.NetPayable.String(),
		Status:              string(s.Status),
		GeneratedOn:         s.GeneratedOn.Format(time.RFC3339),
	}
	if s.PaidOn != nil {
		dto.PaidOn = s.PaidOn.Format(time.RFC3339)
	}
	return dto
}

// PeriodSummaryDTO aggregates statements over a period.
type PeriodSummaryDTO struct {
	Earnings       string `json:"earnings"`
	NetPaid        string `json:"netPaid"`
	TaxDeducted    string `json:"taxDeducted"`
	PFContribution string `json:"pfContribution"`
	Statements     int    `json:"statements"`
}
