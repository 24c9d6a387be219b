package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chronos/internal/timesheet"
)

func TestTimesheetMonth(t *testing.T) {
	s := newStores(t)
	now := func() time.Time { return time.Date(2024, time.March, 20, 12, 0, 0, 0, time.UTC) }
	svc := NewTimesheetService(s.users, s.shifts, time.UTC, now)
	ctx := context.Background()

	alice := addUser(t, s, "alice", false, false)
	bob := addUser(t, s, "bob", false, false)
	addShift(t, s, alice, time.Date(2024, time.March, 4, 9, 0, 0, 0, time.UTC), 8*time.Hour)
	addShift(t, s, alice, time.Date(2024, time.March, 15, 9, 0, 0, 0, time.UTC), 4*time.Hour)
	addShift(t, s, alice, time.Date(2024, time.March, 16, 9, 0, 0, 0, time.UTC), 6*time.Hour)
	addShift(t, s, alice, time.Date(2024, time.March, 20, 9, 0, 0, 0, time.UTC), 0)
	addShift(t, s, alice, time.Date(2024, time.April, 1, 9, 0, 0, 0, time.UTC), 8*time.Hour)
	addShift(t, s, bob, time.Date(2024, time.March, 4, 9, 0, 0, 0, time.UTC), 3*time.Hour)

	view, err := svc.CurrentMonth(ctx, alice, "alice")
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC), view.Date)
	assert.Equal(t, time.February, view.PrevDate.Month())
	assert.Equal(t, time.April, view.NextDate.Month())
	assert.InDelta(t, 12, view.PayPeriods.First, 1e-9)
	assert.InDelta(t, 6, view.PayPeriods.Second, 1e-9)
	assert.Equal(t, []timesheet.WeekTotal{{Week: 2, Total: 8}, {Week: 3, Total: 10}}, view.Weekly)
	assert.True(t, view.CanViewShifts)

	cal := string(view.Calendar)
	assert.Contains(t, cal, `<td class="wed second today filled">`)
	assert.Contains(t, cal, `href="/people/alice/timesheet/2024/3/4"`)

	// bob sees alice's totals but no drill-down links
	view, err = svc.Month(ctx, bob, "alice", 2024, time.March)
	require.NoError(t, err)
	assert.False(t, view.CanViewShifts)
	assert.False(t, strings.Contains(string(view.Calendar), "<a "))
}

func TestTimesheetMonthYearRollover(t *testing.T) {
	s := newStores(t)
	svc := NewTimesheetService(s.users, s.shifts, time.UTC, nil)
	alice := addUser(t, s, "alice", false, false)

	view, err := svc.Month(context.Background(), alice, "alice", 2024, time.January)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2023, time.December, 1, 0, 0, 0, 0, time.UTC), view.PrevDate)

	view, err = svc.Month(context.Background(), alice, "alice", 2024, time.December)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC), view.NextDate)
}

func TestTimesheetMonthErrors(t *testing.T) {
	s := newStores(t)
	svc := NewTimesheetService(s.users, s.shifts, time.UTC, nil)
	alice := addUser(t, s, "alice", false, false)
	ctx := context.Background()

	_, err := svc.Month(ctx, alice, "nobody", 2024, time.March)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Month(ctx, alice, "alice", 2024, 13)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestTimesheetDayRequiresStaff(t *testing.T) {
	s := newStores(t)
	svc := NewTimesheetService(s.users, s.shifts, time.UTC, nil)
	ctx := context.Background()

	alice := addUser(t, s, "alice", false, false)
	staff := addUser(t, s, "staff", true, false)
	addShift(t, s, alice, time.Date(2024, time.March, 4, 9, 0, 0, 0, time.UTC), 8*time.Hour)
	addShift(t, s, alice, time.Date(2024, time.March, 4, 18, 0, 0, 0, time.UTC), 30*time.Minute)
	addShift(t, s, alice, time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC), time.Hour)

	// even the owner is refused
	_, err := svc.Day(ctx, alice, "alice", 2024, time.March, 4)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	view, err := svc.Day(ctx, staff, "alice", 2024, time.March, 4)
	require.NoError(t, err)
	assert.Len(t, view.Shifts, 2)
	assert.InDelta(t, 8.5, view.Total, 1e-9)

	_, err = svc.Day(ctx, staff, "alice", 2023, time.February, 29)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
