package http

import (
	"embed"
	"html/template"
	"time"

	"chronos/internal/timesheet"
)

//go:embed templates/*.html
var templateFS embed.FS

// parseTemplates loads every page; times are shown in loc.
func parseTemplates(loc *time.Location) (*template.Template, error) {
	funcs := template.FuncMap{
		"hours": timesheet.FormatHours,
		"monthURL": func(username string, date time.Time) string {
			return timesheet.MonthURL(username, date.Year(), date.Month())
		},
		"clock": func(t time.Time) string {
			return t.In(loc).Format("15:04")
		},
	}
	return template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
}
