/*
Package memory provides the in-memory store backing the engine's default
deployment: a mock dataset with no persistence.

IMPLEMENTED CONTRACTS:
  hr.Directory, leave.TxStore, attendance.Store, payroll.Store

TRANSACTIONS:
  WithTx snapshots the leave maps before running fn and restores them if
  fn fails, so a request transition and its balance mutation commit
  together or not at all. fn runs against an unlocked view while the
  store mutex is held; no intermediate state is visible to readers.

SEE ALSO:
  - store/sqlite: Durable implementation of the same contracts
*/
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/warp/hrms-engine/attendance"
	"github.com/warp/hrms-engine/hr"
	"github.com/warp/hrms-engine/leave"
	"github.com/warp/hrms-engine/payroll"
)

type balanceKey struct {
	EmployeeID hr.EmployeeID
	Category   hr.LeaveCategory
}

type attendanceKey struct {
	EmployeeID hr.EmployeeID
	Day        string // 2006-01-02
}

// Store holds every entity collection behind a single RWMutex.
type Store struct {
	mu         sync.RWMutex
	employees  map[hr.EmployeeID]hr.Employee
	balances   map[balanceKey]leave.Balance
	requests   map[string]leave.Request
	records    map[attendanceKey]attendance.Record
	statements map[string]payroll.Statement
}

var (
	_ hr.Directory     = (*Store)(nil)
	_ leave.TxStore    = (*Store)(nil)
	_ attendance.Store = (*Store)(nil)
	_ payroll.Store    = (*Store)(nil)
)

func New() *Store {
	return &Store{
		employees:  make(map[hr.EmployeeID]hr.Employee),
		balances:   make(map[balanceKey]leave.Balance),
		requests:   make(map[string]leave.Request),
		records:    make(map[attendanceKey]attendance.Record),
		statements: make(map[string]payroll.Statement),
	}
}

// =============================================================================
// hr.Directory
// =============================================================================

func (s *Store) Employee(_ context.Context, id hr.EmployeeID) (hr.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.employees[id]
	if !ok {
		return hr.Employee{}, fmt.Errorf("%w: employee %s", hr.ErrNotFound, id)
	}
	return e, nil
}

func (s *Store) EmployeeByEmail(_ context.Context, email string) (hr.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.employees {
		if e.Email == email {
			return e, nil
		}
	}
	return hr.Employee{}, fmt.Errorf("%w: employee with email %s", hr.ErrNotFound, email)
}

func (s *Store) Employees(_ context.Context) ([]hr.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]hr.Employee, 0, len(s.employees))
	for _, e := range s.employees {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) SaveEmployee(_ context.Context, e hr.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.employees[e.ID] = e
	return nil
}

// =============================================================================
// leave.Store (locking wrappers over the lock-free core)
// =============================================================================

func (s *Store) Balance(_ context.Context, employeeID hr.EmployeeID, category hr.LeaveCategory) (leave.Balance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.balanceLocked(employeeID, category)
}

func (s *Store) balanceLocked(employeeID hr.EmployeeID, category hr.LeaveCategory) (leave.Balance, error) {
	b, ok := s.balances[balanceKey{employeeID, category}]
	if !ok {
		return leave.Balance{}, fmt.Errorf("%w: %s balance for employee %s", hr.ErrNotFound, category, employeeID)
	}
	return b, nil
}

func (s *Store) Balances(_ context.Context, employeeID hr.EmployeeID) ([]leave.Balance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []leave.Balance
	for _, c := range hr.Categories() {
		if b, ok := s.balances[balanceKey{employeeID, c}]; ok {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *Store) SaveBalance(_ context.Context, b leave.Balance) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveBalanceLocked(b)
	return nil
}

func (s *Store) saveBalanceLocked(b leave.Balance) {
	s.balances[balanceKey{b.EmployeeID, b.Category}] = b
}

func (s *Store) Request(_ context.Context, id string) (leave.Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.requestLocked(id)
}

func (s *Store) requestLocked(id string) (leave.Request, error) {
	r, ok := s.requests[id]
	if !ok {
		return leave.Request{}, fmt.Errorf("%w: leave request %s", hr.ErrNotFound, id)
	}
	return r, nil
}

func (s *Store) Requests(_ context.Context, employeeID hr.EmployeeID) ([]leave.Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []leave.Request
	for _, r := range s.requests {
		if employeeID == "" || r.EmployeeID == employeeID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].AppliedOn.Equal(out[j].AppliedOn) {
			return out[i].AppliedOn.After(out[j].AppliedOn)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *Store) SaveRequest(_ context.Context, r leave.Request) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveRequestLocked(r)
	return nil
}

func (s *Store) saveRequestLocked(r leave.Request) {
	s.requests[r.ID] = r
}

// =============================================================================
// leave.TxStore - snapshot + rollback
// =============================================================================

// WithTx runs fn against an unlocked view while holding the write lock.
// On error the leave maps are restored from a snapshot.
func (s *Store) WithTx(_ context.Context, fn func(leave.Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.snapshotLeave()
	if err := fn(&txView{parent: s}); err != nil {
		s.restoreLeave(snap)
		return err
	}
	return nil
}

type leaveSnapshot struct {
	balances map[balanceKey]leave.Balance
	requests map[string]leave.Request
}

func (s *Store) snapshotLeave() leaveSnapshot {
	balances := make(map[balanceKey]leave.Balance, len(s.balances))
	for k, v := range s.balances {
		balances[k] = v
	}
	requests := make(map[string]leave.Request, len(s.requests))
	for k, v := range s.requests {
		requests[k] = v
	}
	return leaveSnapshot{balances: balances, requests: requests}
}

func (s *Store) restoreLeave(snap leaveSnapshot) {
	s.balances = snap.balances
	s.requests = snap.requests
}

// txView exposes the lock-free leave operations to a WithTx body. The
// parent's mutex is already held.
type txView struct {
	parent *Store
}

func (tv *txView) Balance(_ context.Context, employeeID hr.EmployeeID, category hr.LeaveCategory) (leave.Balance, error) {
	return tv.parent.balanceLocked(employeeID, category)
}

func (tv *txView) Balances(_ context.Context, employeeID hr.EmployeeID) ([]leave.Balance, error) {
	var out []leave.Balance
	for _, c := range hr.Categories() {
		if b, ok := tv.parent.balances[balanceKey{employeeID, c}]; ok {
			out = append(out, b)
		}
	}
	return out, nil
}

func (tv *txView) SaveBalance(_ context.Context, b leave.Balance) error {
	tv.parent.saveBalanceLocked(b)
	return nil
}

func (tv *txView) Request(_ context.Context, id string) (leave.Request, error) {
	return tv.parent.requestLocked(id)
}

func (tv *txView) Requests(_ context.Context, employeeID hr.EmployeeID) ([]leave.Request, error) {
	var out []leave.Request
	for _, r := range tv.parent.requests {
		if employeeID == "" || r.EmployeeID == employeeID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (tv *txView) SaveRequest(_ context.Context, r leave.Request) error {
	tv.parent.saveRequestLocked(r)
	return nil
}

// =============================================================================
// attendance.Store
// =============================================================================

func (s *Store) RecordForDay(_ context.Context, employeeID hr.EmployeeID, day hr.Date) (attendance.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.records[attendanceKey{employeeID, day.String()}]
	if !ok {
		return attendance.Record{}, fmt.Errorf("%w: attendance for %s on %s", hr.ErrNotFound, employeeID, day)
	}
	return r, nil
}

func (s *Store) Records(_ context.Context, employeeID hr.EmployeeID) ([]attendance.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []attendance.Record
	for _, r := range s.records {
		if employeeID == "" || r.EmployeeID == employeeID {
			out = append(out, r)
		}
	}
	sortRecords(out)
	return out, nil
}

func (s *Store) RecordsInMonth(_ context.Context, employeeID hr.EmployeeID, year int, month time.Month) ([]attendance.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []attendance.Record
	for _, r := range s.records {
		if r.EmployeeID == employeeID && r.Date.Year() == year && r.Date.Month() == month {
			out = append(out, r)
		}
	}
	sortRecords(out)
	return out, nil
}

func (s *Store) SaveRecord(_ context.Context, r attendance.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[attendanceKey{r.EmployeeID, r.Date.String()}] = r
	return nil
}

func sortRecords(records []attendance.Record) {
	sort.Slice(records, func(i, j int) bool {
		if !records[i].Date.Equal(records[j].Date) {
			return records[i].Date.Before(records[j].Date)
		}
		return records[i].EmployeeID < records[j].EmployeeID
	})
}

// =============================================================================
// payroll.Store
// =============================================================================

func (s *Store) Statement(_ context.Context, id string) (payroll.Statement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.statements[id]
	if !ok {
		return payroll.Statement{}, fmt.Errorf("%w: payroll statement %s", hr.ErrNotFound, id)
	}
	return st, nil
}

func (s *Store) StatementFor(_ context.Context, employeeID hr.EmployeeID, year int, month time.Month) (payroll.Statement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, st := range s.statements {
		if st.EmployeeID == employeeID && st.Year == year && st.Month == month {
			return st, nil
		}
	}
	return payroll.Statement{}, fmt.Errorf("%w: payroll statement for %s %d-%02d", hr.ErrNotFound, employeeID, year, month)
}

func (s *Store) Statements(_ context.Context, employeeID hr.EmployeeID) ([]payroll.Statement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []payroll.Statement
	for _, st := range s.statements {
		if employeeID == "" || st.EmployeeID == employeeID {
			out = append(out, st)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year > out[j].Year
		}
		if out[i].Month != out[j].Month {
			return out[i].Month > out[j].Month
		}
		return out[i].EmployeeID < out[j].EmployeeID
	})
	return out, nil
}

func (s *Store) SaveStatement(_ context.Context, st payroll.Statement) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statements[st.ID] = st
	return nil
}
