package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClockInOut(t *testing.T) {
	s := newStores(t)
	clock := time.Date(2024, time.March, 4, 9, 0, 0, 0, time.UTC)
	svc := NewShiftService(s.users, s.shifts, func() time.Time { return clock })
	ctx := context.Background()
	alice := addUser(t, s, "alice", false, false)

	_, err := svc.ClockOut(ctx, alice)
	assert.ErrorIs(t, err, ErrNoOpenShift)

	opened, err := svc.ClockIn(ctx, alice, " morning ")
	require.NoError(t, err)
	assert.False(t, opened.Completed())
	assert.Equal(t, "morning", opened.Note)

	_, err = svc.ClockIn(ctx, alice, "")
	assert.ErrorIs(t, err, ErrShiftAlreadyOpen)

	clock = clock.Add(7*time.Hour + 30*time.Minute)
	closed, err := svc.ClockOut(ctx, alice)
	require.NoError(t, err)
	require.True(t, closed.Completed())
	assert.InDelta(t, 7.5, closed.Hours(), 1e-9)

	shifts, err := s.shifts.ListByUserBetween(ctx, alice.ID, clock.AddDate(0, 0, -1), clock.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, shifts, 1)
	assert.InDelta(t, 7.5, shifts[0].Hours(), 1e-9)
}

func TestRecordShift(t *testing.T) {
	s := newStores(t)
	svc := NewShiftService(s.users, s.shifts, nil)
	ctx := context.Background()
	alice := addUser(t, s, "alice", false, false)
	staff := addUser(t, s, "staff", true, false)

	in := time.Date(2024, time.March, 4, 9, 0, 0, 0, time.UTC)
	out := in.Add(8 * time.Hour)
	before := in.Add(-time.Hour)

	_, err := svc.Record(ctx, alice, "alice", in, &out, "")
	assert.ErrorIs(t, err, ErrPermissionDenied)

	_, err = svc.Record(ctx, staff, "alice", in, &before, "")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Record(ctx, staff, "nobody", in, &out, "")
	assert.ErrorIs(t, err, ErrNotFound)

	shift, err := svc.Record(ctx, staff, "alice", in, &out, "covered")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, shift.UserID)
	assert.InDelta(t, 8, shift.Hours(), 1e-9)
}
