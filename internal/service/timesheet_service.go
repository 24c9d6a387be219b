package service

import (
	"context"
	"fmt"
	"html/template"
	"time"

	"chronos/internal/domain"
	"chronos/internal/repository"
	"chronos/internal/timesheet"
)

// MonthView is the data behind the monthly timesheet page.
type MonthView struct {
	Owner         *domain.User
	Date          time.Time
	PrevDate      time.Time
	NextDate      time.Time
	PayPeriods    timesheet.PayPeriodTotals
	Weekly        []timesheet.WeekTotal
	Calendar      template.HTML
	CanViewShifts bool
}

// DayView lists one user's shifts of a single day.
type DayView struct {
	Owner  *domain.User
	Date   time.Time
	Shifts []domain.Shift
	Total  float64
}

// TimesheetService builds timesheet views from stored shifts.
type TimesheetService interface {
	// CurrentMonth is Month for the month containing now.
	CurrentMonth(ctx context.Context, viewer *domain.User, name string) (*MonthView, error)
	Month(ctx context.Context, viewer *domain.User, name string, year int, month time.Month) (*MonthView, error)
	// Day is restricted to staff.
	Day(ctx context.Context, viewer *domain.User, name string, year int, month time.Month, day int) (*DayView, error)
}

type timesheetService struct {
	users  repository.UserRepository
	shifts repository.ShiftRepository
	loc    *time.Location
	now    func() time.Time
}

func NewTimesheetService(users repository.UserRepository, shifts repository.ShiftRepository, loc *time.Location, now func() time.Time) TimesheetService {
	if loc == nil {
		loc = time.Local
	}
	if now == nil {
		now = time.Now
	}
	return &timesheetService{
		users:  users,
		shifts: shifts,
		loc:    loc,
		now:    now,
	}
}

func (s *timesheetService) CurrentMonth(ctx context.Context, viewer *domain.User, name string) (*MonthView, error) {
	today := s.now().In(s.loc)
	return s.Month(ctx, viewer, name, today.Year(), today.Month())
}

func (s *timesheetService) Month(ctx context.Context, viewer *domain.User, name string, year int, month time.Month) (*MonthView, error) {
	if err := validateMonth(year, month); err != nil {
		return nil, err
	}
	owner, err := s.owner(ctx, name)
	if err != nil {
		return nil, err
	}

	from := time.Date(year, month, 1, 0, 0, 0, 0, s.loc)
	shifts, err := s.shifts.ListByUserBetween(ctx, owner.ID, from, from.AddDate(0, 1, 0))
	if err != nil {
		return nil, err
	}

	summary := timesheet.Summarize(shifts, year, month, s.loc)
	cal := timesheet.NewCalendar(summary.ByDay, owner, viewer)
	cal.Now = s.now
	cal.Location = s.loc

	prev, next := timesheet.NavigateMonth(year, month)
	return &MonthView{
		Owner:         owner,
		Date:          from,
		PrevDate:      prev,
		NextDate:      next,
		PayPeriods:    summary.PayPeriods,
		Weekly:        summary.Weekly,
		Calendar:      cal.FormatMonth(year, month),
		CanViewShifts: cal.CanViewShifts,
	}, nil
}

func (s *timesheetService) Day(ctx context.Context, viewer *domain.User, name string, year int, month time.Month, day int) (*DayView, error) {
	if viewer == nil || !viewer.IsStaff {
		return nil, ErrPermissionDenied
	}
	if err := validateMonth(year, month); err != nil {
		return nil, err
	}
	if day < 1 || day > timesheet.DaysIn(year, month) {
		return nil, fmt.Errorf("%w: day %d out of range", ErrInvalidInput, day)
	}
	owner, err := s.owner(ctx, name)
	if err != nil {
		return nil, err
	}

	from := time.Date(year, month, day, 0, 0, 0, 0, s.loc)
	shifts, err := s.shifts.ListByUserBetween(ctx, owner.ID, from, from.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	view := &DayView{Owner: owner, Date: from, Shifts: shifts}
	for _, shift := range shifts {
		view.Total += shift.Hours()
	}
	return view, nil
}

func (s *timesheetService) owner(ctx context.Context, name string) (*domain.User, error) {
	owner, err := s.users.GetByUsername(ctx, name)
	if err != nil {
		return nil, notFound(err)
	}
	return sanitizeUser(owner), nil
}

func validateMonth(year int, month time.Month) error {
	if year < 1 || year > 9999 {
		return fmt.Errorf("%w: year %d out of range", ErrInvalidInput, year)
	}
	if month < time.January || month > time.December {
		return fmt.Errorf("%w: month %d out of range", ErrInvalidInput, month)
	}
	return nil
}
