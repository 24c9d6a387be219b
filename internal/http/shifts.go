package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type clockInRequest struct {
	Note string `json:"note"`
}

func (h *Handler) apiClockIn(c *gin.Context) {
	var req clockInRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	shift, err := h.shifts.ClockIn(c.Request.Context(), viewerFrom(c), req.Note)
	if err != nil {
		h.apiError(c, err)
		return
	}
	c.JSON(http.StatusCreated, shiftToResponse(shift))
}

func (h *Handler) apiClockOut(c *gin.Context) {
	shift, err := h.shifts.ClockOut(c.Request.Context(), viewerFrom(c))
	if err != nil {
		h.apiError(c, err)
		return
	}
	c.JSON(http.StatusOK, shiftToResponse(shift))
}

type recordShiftRequest struct {
	In   time.Time  `json:"in"`
	Out  *time.Time `json:"out"`
	Note string     `json:"note"`
}

func (h *Handler) apiRecordShift(c *gin.Context) {
	var req recordShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	shift, err := h.shifts.Record(c.Request.Context(), viewerFrom(c), c.Param("name"), req.In, req.Out, req.Note)
	if err != nil {
		h.apiError(c, err)
		return
	}
	c.JSON(http.StatusCreated, shiftToResponse(shift))
}

type setRolesRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
	IsStaff  *bool `json:"is_staff" binding:"required"`
}

func (h *Handler) apiSetRoles(c *gin.Context) {
	var req setRolesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.SetRoles(c.Request.Context(), viewerFrom(c), c.Param("name"), *req.IsActive, *req.IsStaff)
	if err != nil {
		h.apiError(c, err)
		return
	}
	c.JSON(http.StatusOK, userToResponse(user))
}

func (h *Handler) apiMe(c *gin.Context) {
	c.JSON(http.StatusOK, userToResponse(viewerFrom(c)))
}
