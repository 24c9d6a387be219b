// Package timesheet aggregates shift records into pay-period and weekly
// totals and renders them as a month calendar.
package timesheet

import (
	"sort"
	"time"

	"chronos/internal/domain"
)

// PayPeriodSplitDay is the last day of the first pay period in every month.
const PayPeriodSplitDay = 15

// PayPeriod identifies a half-month bucket.
type PayPeriod string

const (
	PayPeriodFirst  PayPeriod = "first"
	PayPeriodSecond PayPeriod = "second"
)

// PayPeriodOf returns the pay period a day of the month belongs to.
func PayPeriodOf(day int) PayPeriod {
	if day <= PayPeriodSplitDay {
		return PayPeriodFirst
	}
	return PayPeriodSecond
}

// PayPeriodTotals holds worked hours per half-month.
type PayPeriodTotals struct {
	First  float64
	Second float64
}

// WeekTotal is the worked hours of one relative week of the month.
type WeekTotal struct {
	Week  int
	Total float64
}

// Summary is the aggregated view of one user's month.
type Summary struct {
	PayPeriods PayPeriodTotals
	Weekly     []WeekTotal
	// ByDay groups every shift of the month by the day of its in time,
	// open shifts included.
	ByDay map[int][]domain.Shift
}

// Total returns the hours of all completed shifts.
func (s Summary) Total() float64 {
	return s.PayPeriods.First + s.PayPeriods.Second
}

// Summarize buckets the shifts that started in year/month (evaluated in loc)
// by day, relative week and pay period. Shifts outside the month are ignored;
// open shifts are grouped by day but contribute nothing to the totals.
func Summarize(shifts []domain.Shift, year int, month time.Month, loc *time.Location) Summary {
	if loc == nil {
		loc = time.Local
	}
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)

	summary := Summary{ByDay: make(map[int][]domain.Shift)}
	weekly := make(map[int]float64)
	for _, shift := range shifts {
		in := shift.InTime.In(loc)
		if in.Year() != year || in.Month() != month {
			continue
		}
		summary.ByDay[in.Day()] = append(summary.ByDay[in.Day()], shift)

		if !shift.Completed() {
			continue
		}
		hours := shift.Hours()
		if PayPeriodOf(in.Day()) == PayPeriodFirst {
			summary.PayPeriods.First += hours
		} else {
			summary.PayPeriods.Second += hours
		}
		weekly[WeekOfMonth(in, first)] += hours
	}

	summary.Weekly = make([]WeekTotal, 0, len(weekly))
	for week, total := range weekly {
		summary.Weekly = append(summary.Weekly, WeekTotal{Week: week, Total: total})
	}
	sort.Slice(summary.Weekly, func(i, j int) bool {
		return summary.Weekly[i].Week < summary.Weekly[j].Week
	})
	return summary
}

// WeekOfMonth numbers ISO weeks relative to the week containing first:
// the week holding first is 1, the following ISO week 2, and so on.
// Counting Mondays keeps the numbering stable where the ISO year rolls
// over inside the month.
func WeekOfMonth(t, first time.Time) int {
	days := civilDays(isoMonday(t)) - civilDays(isoMonday(first))
	return days/7 + 1
}

func isoMonday(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	return time.Date(t.Year(), t.Month(), t.Day()-offset, 0, 0, 0, 0, time.UTC)
}

// civilDays counts calendar days since the Unix epoch, ignoring zones and DST.
func civilDays(t time.Time) int {
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return int(d.Unix() / 86400)
}

// NavigateMonth returns the first days of the months before and after
// year/month, rolling the year over at January and December.
func NavigateMonth(year int, month time.Month) (prev, next time.Time) {
	switch month {
	case time.January:
		prev = time.Date(year-1, time.December, 1, 0, 0, 0, 0, time.UTC)
		next = time.Date(year, time.February, 1, 0, 0, 0, 0, time.UTC)
	case time.December:
		prev = time.Date(year, time.November, 1, 0, 0, 0, 0, time.UTC)
		next = time.Date(year+1, time.January, 1, 0, 0, 0, 0, time.UTC)
	default:
		prev = time.Date(year, month-1, 1, 0, 0, 0, 0, time.UTC)
		next = time.Date(year, month+1, 1, 0, 0, 0, 0, time.UTC)
	}
	return prev, next
}

// DaysIn returns the number of days in year/month.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
