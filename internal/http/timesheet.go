package http

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"chronos/internal/service"
)

func (h *Handler) viewTimesheet(c *gin.Context) {
	view, err := h.timesheets.CurrentMonth(c.Request.Context(), viewerFrom(c), c.Param("name"))
	if err != nil {
		h.renderError(c, err)
		return
	}
	h.renderTimesheet(c, view)
}

func (h *Handler) viewSpecificTimesheet(c *gin.Context) {
	year, month, err := yearMonthParams(c)
	if err != nil {
		h.renderError(c, err)
		return
	}
	view, err := h.timesheets.Month(c.Request.Context(), viewerFrom(c), c.Param("name"), year, month)
	if err != nil {
		h.renderError(c, err)
		return
	}
	h.renderTimesheet(c, view)
}

func (h *Handler) renderTimesheet(c *gin.Context, view *service.MonthView) {
	h.render(c, http.StatusOK, "timesheet.html", gin.H{
		"title":     fmt.Sprintf("%s · %s", view.Owner.Username, view.Date.Format("January 2006")),
		"timesheet": view,
	})
}

func (h *Handler) viewDayShifts(c *gin.Context) {
	viewer := viewerFrom(c)
	if viewer == nil || !viewer.IsStaff {
		h.renderError(c, service.ErrPermissionDenied)
		return
	}
	year, month, err := yearMonthParams(c)
	if err != nil {
		h.renderError(c, err)
		return
	}
	day, err := intParam(c, "day")
	if err != nil {
		h.renderError(c, err)
		return
	}

	view, err := h.timesheets.Day(c.Request.Context(), viewer, c.Param("name"), year, month, day)
	if err != nil {
		h.renderError(c, err)
		return
	}
	h.render(c, http.StatusOK, "specific_report.html", gin.H{
		"title": fmt.Sprintf("%s · %s", view.Owner.Username, view.Date.Format("2006-01-02")),
		"day":   view,
	})
}

type timesheetResponse struct {
	Username      string            `json:"username"`
	Year          int               `json:"year"`
	Month         int               `json:"month"`
	PayPeriods    payPeriodResponse `json:"pay_periods"`
	Weekly        []weekResponse    `json:"weekly"`
	Prev          string            `json:"prev"`
	Next          string            `json:"next"`
	CanViewShifts bool              `json:"can_view_shifts"`
}

type payPeriodResponse struct {
	First  float64 `json:"first"`
	Second float64 `json:"second"`
}

type weekResponse struct {
	Week  int     `json:"week"`
	Total float64 `json:"total"`
}

func (h *Handler) apiTimesheet(c *gin.Context) {
	year, month, err := yearMonthParams(c)
	if err != nil {
		h.apiError(c, err)
		return
	}
	view, err := h.timesheets.Month(c.Request.Context(), viewerFrom(c), c.Param("name"), year, month)
	if err != nil {
		h.apiError(c, err)
		return
	}

	resp := timesheetResponse{
		Username: view.Owner.Username,
		Year:     year,
		Month:    int(month),
		PayPeriods: payPeriodResponse{
			First:  view.PayPeriods.First,
			Second: view.PayPeriods.Second,
		},
		Weekly:        make([]weekResponse, len(view.Weekly)),
		Prev:          view.PrevDate.Format("2006-01"),
		Next:          view.NextDate.Format("2006-01"),
		CanViewShifts: view.CanViewShifts,
	}
	for i, w := range view.Weekly {
		resp.Weekly[i] = weekResponse{Week: w.Week, Total: w.Total}
	}
	c.JSON(http.StatusOK, resp)
}

func yearMonthParams(c *gin.Context) (int, time.Month, error) {
	year, err := intParam(c, "year")
	if err != nil {
		return 0, 0, err
	}
	month, err := intParam(c, "month")
	if err != nil {
		return 0, 0, err
	}
	return year, time.Month(month), nil
}

func intParam(c *gin.Context, name string) (int, error) {
	v, err := strconv.Atoi(c.Param(name))
	if err != nil {
		return 0, fmt.Errorf("%w: invalid %s", service.ErrInvalidInput, name)
	}
	return v, nil
}
