package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"chronos/internal/domain"
	"chronos/internal/repository"
)

var (
	// ErrShiftAlreadyOpen is returned when clocking in twice.
	ErrShiftAlreadyOpen = errors.New("shift already open")
	// ErrNoOpenShift is returned when clocking out without an open shift.
	ErrNoOpenShift = errors.New("no open shift")
)

// ShiftService records clock-in/clock-out events.
type ShiftService interface {
	ClockIn(ctx context.Context, user *domain.User, note string) (*domain.Shift, error)
	ClockOut(ctx context.Context, user *domain.User) (*domain.Shift, error)
	// Record stores a shift for name on behalf of a staff member.
	Record(ctx context.Context, viewer *domain.User, name string, in time.Time, out *time.Time, note string) (*domain.Shift, error)
}

type shiftService struct {
	users  repository.UserRepository
	shifts repository.ShiftRepository
	now    func() time.Time
}

func NewShiftService(users repository.UserRepository, shifts repository.ShiftRepository, now func() time.Time) ShiftService {
	if now == nil {
		now = time.Now
	}
	return &shiftService{
		users:  users,
		shifts: shifts,
		now:    now,
	}
}

func (s *shiftService) ClockIn(ctx context.Context, user *domain.User, note string) (*domain.Shift, error) {
	if user == nil {
		return nil, ErrPermissionDenied
	}
	if _, err := s.shifts.GetOpen(ctx, user.ID); err == nil {
		return nil, ErrShiftAlreadyOpen
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	shift := &domain.Shift{
		UserID: user.ID,
		InTime: s.now(),
		Note:   strings.TrimSpace(note),
	}
	if _, err := s.shifts.Create(ctx, shift); err != nil {
		return nil, err
	}
	return shift, nil
}

func (s *shiftService) ClockOut(ctx context.Context, user *domain.User) (*domain.Shift, error) {
	if user == nil {
		return nil, ErrPermissionDenied
	}
	shift, err := s.shifts.GetOpen(ctx, user.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoOpenShift
		}
		return nil, err
	}

	out := s.now().UTC().Truncate(time.Second)
	if out.Before(shift.InTime) {
		out = shift.InTime
	}
	if err := s.shifts.Close(ctx, shift.ID, out); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoOpenShift
		}
		return nil, err
	}
	shift.OutTime = &out
	return shift, nil
}

func (s *shiftService) Record(ctx context.Context, viewer *domain.User, name string, in time.Time, out *time.Time, note string) (*domain.Shift, error) {
	if viewer == nil || !viewer.IsStaff {
		return nil, ErrPermissionDenied
	}
	if in.IsZero() {
		return nil, fmt.Errorf("%w: in time is required", ErrInvalidInput)
	}
	if out != nil && out.Before(in) {
		return nil, fmt.Errorf("%w: out time precedes in time", ErrInvalidInput)
	}
	owner, err := s.users.GetByUsername(ctx, name)
	if err != nil {
		return nil, notFound(err)
	}

	shift := &domain.Shift{
		UserID:  owner.ID,
		InTime:  in,
		OutTime: out,
		Note:    strings.TrimSpace(note),
	}
	if _, err := s.shifts.Create(ctx, shift); err != nil {
		return nil, err
	}
	return shift, nil
}
