package timesheet

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chronos/internal/domain"
)

func at(year int, month time.Month, day, hour, minute int) time.Time {
	return time.Date(year, month, day, hour, minute, 0, 0, time.UTC)
}

func closedShift(userID int64, in time.Time, length time.Duration) domain.Shift {
	out := in.Add(length)
	return domain.Shift{UserID: userID, InTime: in, OutTime: &out}
}

func openShift(userID int64, in time.Time) domain.Shift {
	return domain.Shift{UserID: userID, InTime: in}
}

func TestSummarizeSkipsOpenShifts(t *testing.T) {
	shifts := []domain.Shift{
		openShift(1, at(2024, time.March, 4, 9, 0)),
		openShift(1, at(2024, time.March, 20, 9, 0)),
	}

	summary := Summarize(shifts, 2024, time.March, time.UTC)

	assert.Zero(t, summary.PayPeriods.First)
	assert.Zero(t, summary.PayPeriods.Second)
	assert.Empty(t, summary.Weekly)
	assert.Len(t, summary.ByDay[4], 1)
	assert.Len(t, summary.ByDay[20], 1)
}

func TestSummarizeTotalsAgree(t *testing.T) {
	shifts := []domain.Shift{
		closedShift(1, at(2024, time.March, 1, 9, 0), 8*time.Hour),
		closedShift(1, at(2024, time.March, 1, 18, 0), 90*time.Minute),
		closedShift(1, at(2024, time.March, 11, 8, 0), 7*time.Hour+15*time.Minute),
		openShift(1, at(2024, time.March, 12, 8, 0)),
		closedShift(1, at(2024, time.March, 15, 22, 0), 4*time.Hour),
		closedShift(1, at(2024, time.March, 16, 6, 0), 6*time.Hour),
		closedShift(1, at(2024, time.March, 31, 10, 0), 5*time.Hour+20*time.Minute),
	}

	summary := Summarize(shifts, 2024, time.March, time.UTC)

	var completed float64
	for _, s := range shifts {
		completed += s.Hours()
	}
	var weekly float64
	for _, w := range summary.Weekly {
		weekly += w.Total
	}

	assert.InDelta(t, 8+1.5+7.25+4, summary.PayPeriods.First, 1e-9)
	assert.InDelta(t, 6+5+1.0/3, summary.PayPeriods.Second, 1e-9)
	assert.InDelta(t, completed, summary.Total(), 1e-9)
	assert.InDelta(t, completed, weekly, 1e-9)
}

func TestSummarizeWeeklySorted(t *testing.T) {
	// March 2024 starts on a Friday: the 1st-3rd are week 1, the 4th opens week 2.
	shifts := []domain.Shift{
		closedShift(1, at(2024, time.March, 25, 9, 0), 2*time.Hour),
		closedShift(1, at(2024, time.March, 4, 9, 0), 3*time.Hour),
		closedShift(1, at(2024, time.March, 3, 9, 0), 1*time.Hour),
		closedShift(1, at(2024, time.March, 10, 9, 0), 4*time.Hour),
	}

	summary := Summarize(shifts, 2024, time.March, time.UTC)

	require.Equal(t, []WeekTotal{
		{Week: 1, Total: 1},
		{Week: 2, Total: 7},
		{Week: 5, Total: 2},
	}, summary.Weekly)
}

func TestSummarizeIgnoresOtherMonths(t *testing.T) {
	shifts := []domain.Shift{
		closedShift(1, at(2024, time.February, 29, 9, 0), 8*time.Hour),
		closedShift(1, at(2024, time.April, 1, 9, 0), 8*time.Hour),
		closedShift(1, at(2024, time.March, 2, 9, 0), 2*time.Hour),
	}

	summary := Summarize(shifts, 2024, time.March, time.UTC)

	assert.InDelta(t, 2, summary.Total(), 1e-9)
	assert.Len(t, summary.ByDay, 1)
}

func TestSummarizeUsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*60*60)
	// 2024-03-16 03:00 UTC is still the 15th in UTC-5.
	shifts := []domain.Shift{closedShift(1, at(2024, time.March, 16, 3, 0), time.Hour)}

	summary := Summarize(shifts, 2024, time.March, loc)

	assert.InDelta(t, 1, summary.PayPeriods.First, 1e-9)
	assert.Zero(t, summary.PayPeriods.Second)
	assert.Contains(t, summary.ByDay, 15)
}

func TestPayPeriodBoundary(t *testing.T) {
	for _, tc := range []struct {
		year  int
		month time.Month
	}{
		{2023, time.February},
		{2024, time.February},
		{2024, time.April},
		{2024, time.December},
	} {
		shifts := []domain.Shift{
			closedShift(1, at(tc.year, tc.month, 15, 23, 0), 30*time.Minute),
			closedShift(1, at(tc.year, tc.month, 16, 0, 0), 45*time.Minute),
		}
		summary := Summarize(shifts, tc.year, tc.month, time.UTC)
		assert.InDelta(t, 0.5, summary.PayPeriods.First, 1e-9, "%s %d", tc.month, tc.year)
		assert.InDelta(t, 0.75, summary.PayPeriods.Second, 1e-9, "%s %d", tc.month, tc.year)
	}

	assert.Equal(t, PayPeriodFirst, PayPeriodOf(1))
	assert.Equal(t, PayPeriodFirst, PayPeriodOf(15))
	assert.Equal(t, PayPeriodSecond, PayPeriodOf(16))
	assert.Equal(t, PayPeriodSecond, PayPeriodOf(31))
}

func TestWeekOfMonthAcrossISOYear(t *testing.T) {
	// 2021-01-01 belongs to ISO week 53 of 2020.
	first := at(2021, time.January, 1, 0, 0)
	assert.Equal(t, 1, WeekOfMonth(at(2021, time.January, 3, 12, 0), first))
	assert.Equal(t, 2, WeekOfMonth(at(2021, time.January, 4, 0, 0), first))
	assert.Equal(t, 5, WeekOfMonth(at(2021, time.January, 31, 0, 0), first))

	// 2024-12-30 belongs to ISO week 1 of 2025.
	first = at(2024, time.December, 1, 0, 0)
	assert.Equal(t, 6, WeekOfMonth(at(2024, time.December, 30, 0, 0), first))
}

func TestWeekOfMonthMatchesISOWithinYear(t *testing.T) {
	first := at(2024, time.May, 1, 0, 0)
	_, firstWeek := first.ISOWeek()
	for day := 1; day <= 31; day++ {
		d := at(2024, time.May, day, 12, 0)
		_, week := d.ISOWeek()
		assert.Equal(t, week-firstWeek+1, WeekOfMonth(d, first), "day %d", day)
	}
}

func TestNavigateMonth(t *testing.T) {
	prev, next := NavigateMonth(2024, time.January)
	assert.Equal(t, at(2023, time.December, 1, 0, 0), prev)
	assert.Equal(t, at(2024, time.February, 1, 0, 0), next)

	prev, next = NavigateMonth(2024, time.December)
	assert.Equal(t, at(2024, time.November, 1, 0, 0), prev)
	assert.Equal(t, at(2025, time.January, 1, 0, 0), next)

	prev, next = NavigateMonth(2024, time.July)
	assert.Equal(t, at(2024, time.June, 1, 0, 0), prev)
	assert.Equal(t, at(2024, time.August, 1, 0, 0), next)
}
