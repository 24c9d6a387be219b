package timesheet

import (
	"fmt"
	"html"
	"html/template"
	"net/url"
	"strings"
	"time"

	"chronos/internal/domain"
)

var weekdayClasses = [7]string{"mon", "tue", "wed", "thu", "fri", "sat", "sun"}

var weekdayNames = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// Calendar renders one user's month as an HTML table with per-day totals.
type Calendar struct {
	// Shifts groups the month's shifts by day, as produced by Summarize.
	Shifts map[int][]domain.Shift
	// Owner is the user whose timesheet is shown.
	Owner *domain.User
	// CanViewShifts turns filled days into links to the day detail page.
	CanViewShifts bool
	// Now anchors the "today" marker. Defaults to time.Now.
	Now func() time.Time
	// Location is the zone "today" is evaluated in. Defaults to time.Local.
	Location *time.Location
}

// NewCalendar prepares a calendar for owner as seen by viewer.
func NewCalendar(shifts map[int][]domain.Shift, owner, viewer *domain.User) *Calendar {
	return &Calendar{
		Shifts:        shifts,
		Owner:         owner,
		CanViewShifts: CanViewShifts(viewer, owner),
	}
}

// CanViewShifts reports whether viewer may drill into owner's daily shifts:
// staff may see anyone's, everyone else only their own.
func CanViewShifts(viewer, owner *domain.User) bool {
	if viewer == nil {
		return false
	}
	return viewer.IsStaff || viewer.Owns(owner)
}

// IsPersonal reports whether all shifts belong to a single user.
func IsPersonal(shifts []domain.Shift) bool {
	for i := 1; i < len(shifts); i++ {
		if shifts[i].UserID != shifts[0].UserID {
			return false
		}
	}
	return true
}

// FormatMonth renders year/month as a Monday-first calendar table.
func (c *Calendar) FormatMonth(year int, month time.Month) template.HTML {
	var b strings.Builder
	b.WriteString(`<table border="0" cellpadding="0" cellspacing="0" class="month">`)
	b.WriteByte('\n')
	fmt.Fprintf(&b, `<tr><th colspan="7" class="month">%s %d</th></tr>`, month, year)
	b.WriteByte('\n')
	b.WriteString("<tr>")
	for i, name := range weekdayNames {
		fmt.Fprintf(&b, `<th class="%s">%s</th>`, weekdayClasses[i], name)
	}
	b.WriteString("</tr>\n")
	for _, week := range MonthWeeks(year, month) {
		b.WriteString("<tr>")
		for weekday, day := range week {
			b.WriteString(c.formatDay(year, month, day, weekday))
		}
		b.WriteString("</tr>\n")
	}
	b.WriteString("</table>\n")
	return template.HTML(b.String())
}

func (c *Calendar) formatDay(year int, month time.Month, day, weekday int) string {
	if day == 0 {
		return dayCell("noday", "&nbsp;")
	}

	classes := []string{weekdayClasses[weekday], string(PayPeriodOf(day))}
	if c.isToday(year, month, day) {
		classes = append(classes, "today")
	}
	body := fmt.Sprintf("<strong>%d</strong>", day)

	shifts, ok := c.Shifts[day]
	if ok && len(shifts) > 0 {
		classes = append(classes, "filled")
		var total float64
		for _, shift := range shifts {
			total += shift.Hours()
		}
		hours := fmt.Sprintf(`Total Hours: <strong class="hours">%s</strong>`, FormatHours(total))
		if c.CanViewShifts && c.Owner != nil {
			body += fmt.Sprintf(`<p><a href="%s">%s</a></p>`, html.EscapeString(DayURL(c.Owner.Username, year, month, day)), hours)
		} else {
			body += "<p>" + hours + "</p>"
		}
	}
	return dayCell(strings.Join(classes, " "), body)
}

func (c *Calendar) isToday(year int, month time.Month, day int) bool {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	loc := c.Location
	if loc == nil {
		loc = time.Local
	}
	today := now().In(loc)
	return today.Year() == year && today.Month() == month && today.Day() == day
}

func dayCell(class, body string) string {
	return fmt.Sprintf(`<td class="%s">%s</td>`, class, body)
}

// DayURL is the path of the daily shift detail page.
func DayURL(username string, year int, month time.Month, day int) string {
	return fmt.Sprintf("/people/%s/timesheet/%d/%d/%d", url.PathEscape(username), year, int(month), day)
}

// MonthURL is the path of a monthly timesheet page.
func MonthURL(username string, year int, month time.Month) string {
	return fmt.Sprintf("/people/%s/timesheet/%d/%d", url.PathEscape(username), year, int(month))
}

// FormatHours renders an hour total with two decimals.
func FormatHours(hours float64) string {
	return fmt.Sprintf("%.2f", hours)
}

// MonthWeeks lays year/month out as Monday-first weeks of seven days.
// Days outside the month are zero.
func MonthWeeks(year int, month time.Month) [][7]int {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	lead := (int(first.Weekday()) + 6) % 7
	days := DaysIn(year, month)

	var weeks [][7]int
	var week [7]int
	col := lead
	for day := 1; day <= days; day++ {
		week[col] = day
		col++
		if col == 7 {
			weeks = append(weeks, week)
			week = [7]int{}
			col = 0
		}
	}
	if col > 0 {
		weeks = append(weeks, week)
	}
	return weeks
}
