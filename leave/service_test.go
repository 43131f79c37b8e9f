package leave_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/hrms-engine/hr"
	"github.com/warp/hrms-engine/leave"
	"github.com/warp/hrms-engine/store/memory"
)

// =============================================================================
// TEST SETUP
// =============================================================================

var testNow = time.Date(2025, time.June, 2, 9, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) (*leave.Service, *memory.Store) {
	t.Helper()
	store := memory.New()
	n := 0
	svc := leave.NewService(store,
		leave.WithClock(func() time.Time { return testNow }),
		leave.WithIDGenerator(func() string { n++; return fmt.Sprintf("req-%d", n) }),
	)
	return svc, store
}

func seedBalance(t *testing.T, store *memory.Store, id hr.EmployeeID, cat hr.LeaveCategory, total, used int) {
	t.Helper()
	err := store.SaveBalance(context.Background(), leave.Balance{
		EmployeeID: id, Category: cat, Total: total, Used: used,
	})
	require.NoError(t, err)
}

func getBalance(t *testing.T, store *memory.Store, id hr.EmployeeID, cat hr.LeaveCategory) leave.Balance {
	t.Helper()
	bal, err := store.Balance(context.Background(), id, cat)
	require.NoError(t, err)
	return bal
}

// Two weekdays, Wednesday and Thursday.
var (
	wed = hr.NewDate(2025, time.June, 4)
	thu = hr.NewDate(2025, time.June, 5)
)

// =============================================================================
// SUBMIT
// =============================================================================

func TestSubmit_ReservesPendingDays(t *testing.T) {
	// GIVEN: A casual balance of 6 total, 2 used
	// WHEN: Submitting a two-day request
	// THEN: The request is Pending and the two days are reserved

	svc, store := newTestService(t)
	seedBalance(t, store, "emp-1", hr.LeaveCasual, 6, 2)

	req, err := svc.Submit(context.Background(), "emp-1", hr.LeaveCasual, wed, thu, "family event")
	require.NoError(t, err)

	assert.Equal(t, leave.StatusPending, req.Status)
	assert.Equal(t, 2, req.WorkingDays)
	assert.Equal(t, testNow, req.AppliedOn)

	bal := getBalance(t, store, "emp-1", hr.LeaveCasual)
	assert.Equal(t, 2, bal.Pending)
	assert.Equal(t, 2, bal.Used, "submission must not touch used")
	assert.Equal(t, 4, bal.Remaining())
	assert.Equal(t, 2, bal.Available())
}

func TestSubmit_InsufficientBalance(t *testing.T) {
	// GIVEN: Only one available day
	// WHEN: Submitting a two-day request
	// THEN: The request is rejected and nothing is written

	svc, store := newTestService(t)
	seedBalance(t, store, "emp-1", hr.LeaveSick, 3, 2)

	_, err := svc.Submit(context.Background(), "emp-1", hr.LeaveSick, wed, thu, "flu")

	assert.ErrorIs(t, err, hr.ErrInsufficientBalance)
	var ibe *hr.InsufficientBalanceError
	require.ErrorAs(t, err, &ibe)
	assert.Equal(t, 1, ibe.Available)
	assert.Equal(t, 2, ibe.Requested)
	assert.Equal(t, 1, ibe.Shortfall())

	bal := getBalance(t, store, "emp-1", hr.LeaveSick)
	assert.Equal(t, 0, bal.Pending, "failed submission must not reserve days")

	requests, err := store.Requests(context.Background(), "emp-1")
	require.NoError(t, err)
	assert.Empty(t, requests)
}

func TestSubmit_PendingCountsAgainstAvailability(t *testing.T) {
	// GIVEN: Four available days, two already reserved by a pending request
	// WHEN: Submitting a second request for three days
	// THEN: The second submission is rejected even though remaining alone
	//       would cover it

	svc, store := newTestService(t)
	seedBalance(t, store, "emp-1", hr.LeaveCasual, 6, 2)

	_, err := svc.Submit(context.Background(), "emp-1", hr.LeaveCasual, wed, thu, "first")
	require.NoError(t, err)

	mon := hr.NewDate(2025, time.June, 9)
	wedNext := hr.NewDate(2025, time.June, 11)
	_, err = svc.Submit(context.Background(), "emp-1", hr.LeaveCasual, mon, wedNext, "second")
	assert.ErrorIs(t, err, hr.ErrInsufficientBalance)
}

func TestSubmit_WeekendOnlyRange(t *testing.T) {
	// GIVEN: A Saturday-to-Sunday range
	// WHEN: Submitting
	// THEN: The range is rejected because it covers no working day

	svc, store := newTestService(t)
	seedBalance(t, store, "emp-1", hr.LeavePaid, 10, 0)

	sat := hr.NewDate(2025, time.June, 7)
	sun := hr.NewDate(2025, time.June, 8)
	_, err := svc.Submit(context.Background(), "emp-1", hr.LeavePaid, sat, sun, "weekend trip")
	assert.ErrorIs(t, err, hr.ErrInvalidRange)
}

func TestSubmit_EmptyReason(t *testing.T) {
	svc, store := newTestService(t)
	seedBalance(t, store, "emp-1", hr.LeavePaid, 10, 0)

	_, err := svc.Submit(context.Background(), "emp-1", hr.LeavePaid, wed, thu, "   ")
	assert.ErrorIs(t, err, hr.ErrValidation)
}

func TestSubmit_UnknownCategory(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Submit(context.Background(), "emp-1", "sabbatical", wed, thu, "around the world")
	assert.ErrorIs(t, err, hr.ErrValidation)
}

func TestSubmit_NoBalanceForCategory(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Submit(context.Background(), "emp-1", hr.LeaveSick, wed, thu, "flu")
	assert.ErrorIs(t, err, hr.ErrNotFound)
}

// =============================================================================
// DECIDE
// =============================================================================

var hrManager = hr.Identity{EmployeeID: "hr-1", Role: hr.RoleHR}

func TestDecide_ApproveConvertsPendingToUsed(t *testing.T) {
	// GIVEN: A balance of 6 total, 2 used and a pending two-day request
	// WHEN: HR approves it
	// THEN: Used becomes 4, pending drops to 0, remaining is 2

	svc, store := newTestService(t)
	seedBalance(t, store, "emp-1", hr.LeaveCasual, 6, 2)
	req, err := svc.Submit(context.Background(), "emp-1", hr.LeaveCasual, wed, thu, "family event")
	require.NoError(t, err)

	decided, warning, err := svc.Decide(context.Background(), req.ID, hrManager, leave.StatusApproved)
	require.NoError(t, err)
	assert.Nil(t, warning)

	assert.Equal(t, leave.StatusApproved, decided.Status)
	assert.Equal(t, hr.EmployeeID("hr-1"), decided.ApprovedBy)
	require.NotNil(t, decided.DecidedOn)
	assert.Equal(t, testNow, *decided.DecidedOn)

	bal := getBalance(t, store, "emp-1", hr.LeaveCasual)
	assert.Equal(t, 4, bal.Used)
	assert.Equal(t, 0, bal.Pending)
	assert.Equal(t, 2, bal.Remaining())
}

func TestDecide_RejectReleasesReservation(t *testing.T) {
	// GIVEN: A pending two-day request
	// WHEN: HR rejects it
	// THEN: The reservation is released and used is untouched

	svc, store := newTestService(t)
	seedBalance(t, store, "emp-1", hr.LeaveCasual, 6, 2)
	req, err := svc.Submit(context.Background(), "emp-1", hr.LeaveCasual, wed, thu, "family event")
	require.NoError(t, err)

	decided, warning, err := svc.Decide(context.Background(), req.ID, hrManager, leave.StatusRejected)
	require.NoError(t, err)
	assert.Nil(t, warning)
	assert.Equal(t, leave.StatusRejected, decided.Status)
	assert.Equal(t, hr.EmployeeID("hr-1"), decided.RejectedBy)

	bal := getBalance(t, store, "emp-1", hr.LeaveCasual)
	assert.Equal(t, 2, bal.Used)
	assert.Equal(t, 0, bal.Pending)
}

func TestDecide_EmployeeRoleForbidden(t *testing.T) {
	// GIVEN: A pending request
	// WHEN: A plain employee tries to approve it
	// THEN: The decision is refused and the request stays pending

	svc, store := newTestService(t)
	seedBalance(t, store, "emp-1", hr.LeaveCasual, 6, 0)
	req, err := svc.Submit(context.Background(), "emp-1", hr.LeaveCasual, wed, thu, "family event")
	require.NoError(t, err)

	peer := hr.Identity{EmployeeID: "emp-2", Role: hr.RoleEmployee}
	_, _, err = svc.Decide(context.Background(), req.ID, peer, leave.StatusApproved)
	assert.ErrorIs(t, err, hr.ErrPermissionDenied)

	cur, err := store.Request(context.Background(), req.ID)
	require.NoError(t, err)
	assert.Equal(t, leave.StatusPending, cur.Status)
}

func TestDecide_AlreadyDecided(t *testing.T) {
	// GIVEN: An approved request
	// WHEN: HR tries to reject it afterwards
	// THEN: The second transition is refused

	svc, store := newTestService(t)
	seedBalance(t, store, "emp-1", hr.LeaveCasual, 6, 0)
	req, err := svc.Submit(context.Background(), "emp-1", hr.LeaveCasual, wed, thu, "family event")
	require.NoError(t, err)

	_, _, err = svc.Decide(context.Background(), req.ID, hrManager, leave.StatusApproved)
	require.NoError(t, err)

	_, _, err = svc.Decide(context.Background(), req.ID, hrManager, leave.StatusRejected)
	assert.ErrorIs(t, err, hr.ErrInvalidState)

	var ise *hr.InvalidStateError
	require.ErrorAs(t, err, &ise)
	assert.Equal(t, string(leave.StatusApproved), ise.Current)

	bal := getBalance(t, store, "emp-1", hr.LeaveCasual)
	assert.Equal(t, 2, bal.Used, "balance must not be consumed twice")
}

func TestDecide_InvalidDecisionValue(t *testing.T) {
	svc, _ := newTestService(t)

	_, _, err := svc.Decide(context.Background(), "whatever", hrManager, leave.StatusCancelled)
	assert.ErrorIs(t, err, hr.ErrValidation)
}

func TestDecide_UnderflowClampsAndWarns(t *testing.T) {
	// GIVEN: A pending request whose reservation exceeds what remains,
	//        after the balance was shrunk out-of-band
	// WHEN: HR approves it
	// THEN: Used is clamped at total and a deficit warning is reported

	svc, store := newTestService(t)
	seedBalance(t, store, "emp-1", hr.LeaveCasual, 6, 0)
	req, err := svc.Submit(context.Background(), "emp-1", hr.LeaveCasual, wed, thu, "family event")
	require.NoError(t, err)

	// Out-of-band adjustment shrinks the allowance below the reservation.
	err = store.SaveBalance(context.Background(), leave.Balance{
		EmployeeID: "emp-1", Category: hr.LeaveCasual, Total: 6, Used: 5, Pending: 2,
	})
	require.NoError(t, err)

	decided, warning, err := svc.Decide(context.Background(), req.ID, hrManager, leave.StatusApproved)
	require.NoError(t, err)
	assert.Equal(t, leave.StatusApproved, decided.Status)

	require.NotNil(t, warning)
	assert.Equal(t, 1, warning.Deficit)

	bal := getBalance(t, store, "emp-1", hr.LeaveCasual)
	assert.Equal(t, 6, bal.Used, "used is clamped at total")
	assert.Equal(t, 0, bal.Pending)
	assert.Equal(t, 0, bal.Remaining())
}

// =============================================================================
// CANCEL
// =============================================================================

func TestCancel_ReleasesReservation(t *testing.T) {
	// GIVEN: A pending two-day request
	// WHEN: The owner cancels it
	// THEN: The request is Cancelled and the days are released

	svc, store := newTestService(t)
	seedBalance(t, store, "emp-1", hr.LeaveCasual, 6, 0)
	req, err := svc.Submit(context.Background(), "emp-1", hr.LeaveCasual, wed, thu, "family event")
	require.NoError(t, err)

	cancelled, err := svc.Cancel(context.Background(), req.ID, "emp-1")
	require.NoError(t, err)
	assert.Equal(t, leave.StatusCancelled, cancelled.Status)

	bal := getBalance(t, store, "emp-1", hr.LeaveCasual)
	assert.Equal(t, 0, bal.Pending)
	assert.Equal(t, 0, bal.Used)
}

func TestCancel_NotOwner(t *testing.T) {
	svc, store := newTestService(t)
	seedBalance(t, store, "emp-1", hr.LeaveCasual, 6, 0)
	req, err := svc.Submit(context.Background(), "emp-1", hr.LeaveCasual, wed, thu, "family event")
	require.NoError(t, err)

	_, err = svc.Cancel(context.Background(), req.ID, "emp-2")
	assert.ErrorIs(t, err, hr.ErrPermissionDenied)
}

func TestCancel_ApprovedRequest(t *testing.T) {
	// GIVEN: An approved request
	// WHEN: The owner tries to cancel it
	// THEN: The transition is refused; approved days stay consumed

	svc, store := newTestService(t)
	seedBalance(t, store, "emp-1", hr.LeaveCasual, 6, 0)
	req, err := svc.Submit(context.Background(), "emp-1", hr.LeaveCasual, wed, thu, "family event")
	require.NoError(t, err)
	_, _, err = svc.Decide(context.Background(), req.ID, hrManager, leave.StatusApproved)
	require.NoError(t, err)

	_, err = svc.Cancel(context.Background(), req.ID, "emp-1")
	assert.ErrorIs(t, err, hr.ErrInvalidState)

	bal := getBalance(t, store, "emp-1", hr.LeaveCasual)
	assert.Equal(t, 2, bal.Used)
}

func TestCancel_UnknownRequest(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Cancel(context.Background(), "missing", "emp-1")
	assert.ErrorIs(t, err, hr.ErrNotFound)
}

// =============================================================================
// CONCURRENCY
// =============================================================================

func TestSubmit_ConcurrentSubmissionsCannotOverdraw(t *testing.T) {
	// GIVEN: Three available days
	// WHEN: Ten two-day submissions race on the same balance
	// THEN: Exactly one succeeds and the reservation never exceeds
	//       availability

	svc, store := newTestService(t)
	seedBalance(t, store, "emp-1", hr.LeaveCasual, 3, 0)

	const attempts = 10
	errs := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		go func() {
			_, err := svc.Submit(context.Background(), "emp-1", hr.LeaveCasual, wed, thu, "race")
			errs <- err
		}()
	}

	succeeded := 0
	for i := 0; i < attempts; i++ {
		if err := <-errs; err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, hr.ErrInsufficientBalance)
		}
	}
	assert.Equal(t, 1, succeeded)

	bal := getBalance(t, store, "emp-1", hr.LeaveCasual)
	assert.Equal(t, 2, bal.Pending)
}
