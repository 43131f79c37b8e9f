package attendance

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/warp/hrms-engine/hr"
)

// =============================================================================
// STORE - Persistence contract for attendance records
// =============================================================================

// Store persists attendance records. Implementations must return
// hr.ErrNotFound (possibly wrapped) for missing records.
type Store interface {
	// RecordForDay returns the record for (employee, day), if any.
	RecordForDay(ctx context.Context, employeeID hr.EmployeeID, day hr.Date) (Record, error)

	// Records returns records for one employee, or all records when
	// employeeID is empty, ordered by date.
	Records(ctx context.Context, employeeID hr.EmployeeID) ([]Record, error)

	// RecordsInMonth returns one employee's records for a calendar month.
	RecordsInMonth(ctx context.Context, employeeID hr.EmployeeID, year int, month time.Month) ([]Record, error)

	// SaveRecord upserts a record.
	SaveRecord(ctx context.Context, r Record) error
}

// =============================================================================
// SERVICE - Clock-in/out lifecycle
// =============================================================================

// DefaultHalfDayHours is the threshold below which a completed session is
// marked HalfDay instead of Present.
var DefaultHalfDayHours = decimal.NewFromInt(4)

type Service struct {
	store Store
	newID func() string

	// HalfDayHours is compared against derived work hours at clock-out.
	HalfDayHours decimal.Decimal
}

func NewService(store Store) *Service {
	return &Service{
		store:        store,
		newID:        uuid.NewString,
		HalfDayHours: DefaultHalfDayHours,
	}
}

// ClockIn opens an attendance session at the given instant. The caller
// supplies the timestamp so tests are deterministic. Fails with
// hr.ErrAlreadyClockedIn when a record already exists for that day.
func (s *Service) ClockIn(ctx context.Context, employeeID hr.EmployeeID, at time.Time) (Record, error) {
	day := hr.DateOf(at)

	if _, err := s.store.RecordForDay(ctx, employeeID, day); err == nil {
		return Record{}, hr.ErrAlreadyClockedIn
	} else if !hr.IsNotFound(err) {
		return Record{}, err
	}

	punchIn := at
	rec := Record{
		ID:         s.newID(),
		EmployeeID: employeeID,
		Date:       day,
		PunchIn:    &punchIn,
		Status:     StatusPresent,
	}
	if err := s.store.SaveRecord(ctx, rec); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// ClockOut closes the open session for the timestamp's day, deriving work
// hours as (out - in) rounded to one decimal. Sessions shorter than
// HalfDayHours are marked HalfDay. Fails with hr.ErrNoOpenSession when no
// open record exists for that day.
func (s *Service) ClockOut(ctx context.Context, employeeID hr.EmployeeID, at time.Time) (Record, error) {
	day := hr.DateOf(at)

	rec, err := s.store.RecordForDay(ctx, employeeID, day)
	if err != nil {
		if hr.IsNotFound(err) {
			return Record{}, hr.ErrNoOpenSession
		}
		return Record{}, err
	}
	if !rec.Open() {
		return Record{}, hr.ErrNoOpenSession
	}
	if !at.After(*rec.PunchIn) {
		return Record{}, fmt.Errorf("%w: clock-out must be after clock-in", hr.ErrValidation)
	}

	punchOut := at
	rec.PunchOut = &punchOut
	rec.WorkHours = decimal.NewFromFloat(at.Sub(*rec.PunchIn).Hours()).Round(1)
	if rec.WorkHours.LessThan(s.HalfDayHours) {
		rec.Status = StatusHalfDay
	}

	if err := s.store.SaveRecord(ctx, rec); err != nil {
		return Record{}, err
	}
	return rec, nil
}
