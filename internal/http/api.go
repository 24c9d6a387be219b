package http

import (
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"chronos/internal/domain"
	"chronos/internal/service"
)

// Config carries the dependencies of Handler.
type Config struct {
	Users      service.UserService
	Profiles   service.ProfileService
	Timesheets service.TimesheetService
	Shifts     service.ShiftService

	JWTSecret     string
	TokenTTL      time.Duration
	SecureCookies bool

	// Location is the zone shift times are displayed in.
	Location *time.Location

	Logger *logrus.Logger

	// Now is the token clock. Defaults to time.Now.
	Now func() time.Time
}

// Handler wires HTTP routes to domain services.
type Handler struct {
	users         service.UserService
	profiles      service.ProfileService
	timesheets    service.TimesheetService
	shifts        service.ShiftService
	tokens        tokenIssuer
	secureCookies bool
	templates     *template.Template
	logger        *logrus.Logger
}

func NewHandler(cfg Config) (*Handler, error) {
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 12 * time.Hour
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	templates, err := parseTemplates(cfg.Location)
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	return &Handler{
		users:      cfg.Users,
		profiles:   cfg.Profiles,
		timesheets: cfg.Timesheets,
		shifts:     cfg.Shifts,
		tokens: tokenIssuer{
			secret: []byte(cfg.JWTSecret),
			ttl:    cfg.TokenTTL,
			now:    cfg.Now,
		},
		secureCookies: cfg.SecureCookies,
		templates:     templates,
		logger:        cfg.Logger,
	}, nil
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.SetHTMLTemplate(h.templates)
	router.Use(requestLogger(h.logger))

	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/people/")
	})
	router.GET("/login", h.loginPage)
	router.POST("/login", h.login)
	router.POST("/logout", h.logout)

	people := router.Group("/people", h.requirePage())
	{
		people.GET("/", h.listPeople)
		people.GET("/:name/", h.viewProfile)
		people.GET("/:name/edit", h.editProfile)
		people.POST("/:name/edit", h.saveProfile)
		people.GET("/:name/timesheet", h.viewTimesheet)
		people.GET("/:name/timesheet/:year/:month", h.viewSpecificTimesheet)
		people.GET("/:name/timesheet/:year/:month/:day", h.viewDayShifts)
	}

	api := router.Group("/api", corsMiddleware())
	{
		api.GET("/health", func(ctx *gin.Context) {
			ctx.JSON(http.StatusOK, gin.H{"ok": "ok"})
		})
		api.POST("/auth/register", h.apiRegister)
		api.POST("/auth/login", h.apiLogin)

		authed := api.Group("", h.requireAPI())
		authed.GET("/me", h.apiMe)
		authed.POST("/shifts/clock-in", h.apiClockIn)
		authed.POST("/shifts/clock-out", h.apiClockOut)
		authed.POST("/users/:name/shifts", h.apiRecordShift)
		authed.PUT("/users/:name/roles", h.apiSetRoles)
		authed.GET("/users/:name/timesheet/:year/:month", h.apiTimesheet)
	}
}

// render executes a page with the viewer available to the layout.
func (h *Handler) render(c *gin.Context, status int, page string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["viewer"] = viewerFrom(c)
	c.HTML(status, page, data)
}

const permissionDeniedReason = "You do not have permission to visit this part of the page."

// renderError maps service errors onto the error pages.
func (h *Handler) renderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotYourProfile):
		h.render(c, http.StatusForbidden, "not_your_profile.html", gin.H{"title": "Not your profile"})
	case errors.Is(err, service.ErrPermissionDenied):
		h.render(c, http.StatusForbidden, "fail.html", gin.H{
			"title": "Permission Denied", "message": "Permission Denied", "reason": permissionDeniedReason,
		})
	case errors.Is(err, service.ErrNotFound):
		h.render(c, http.StatusNotFound, "fail.html", gin.H{
			"title": "Not Found", "message": "Not Found", "reason": "There is no such user.",
		})
	case errors.Is(err, service.ErrInvalidInput):
		h.render(c, http.StatusBadRequest, "fail.html", gin.H{
			"title": "Bad Request", "message": "Bad Request", "reason": err.Error(),
		})
	default:
		h.logger.WithError(err).WithField("path", c.Request.URL.Path).Error("request failed")
		h.render(c, http.StatusInternalServerError, "fail.html", gin.H{
			"title": "Error", "message": "Something went wrong", "reason": "Please try again later.",
		})
	}
}

func (h *Handler) apiError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrInvalidRegistrationPassword):
		status = http.StatusUnauthorized
	case errors.Is(err, service.ErrPermissionDenied), errors.Is(err, service.ErrNotYourProfile):
		status = http.StatusForbidden
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrUserAlreadyExists), errors.Is(err, service.ErrShiftAlreadyOpen), errors.Is(err, service.ErrNoOpenShift):
		status = http.StatusConflict
	case errors.Is(err, service.ErrInvalidInput):
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		h.logger.WithError(err).WithField("path", c.Request.URL.Path).Error("api request failed")
		c.JSON(status, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

type UserResponse struct {
	ID          int64  `json:"id"`
	Username    string `json:"username"`
	IsActive    bool   `json:"is_active"`
	IsStaff     bool   `json:"is_staff"`
	IsSuperuser bool   `json:"is_superuser"`
	CreatedAt   string `json:"created_at"`
}

func userToResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:          user.ID,
		Username:    user.Username,
		IsActive:    user.IsActive,
		IsStaff:     user.IsStaff,
		IsSuperuser: user.IsSuperuser,
		CreatedAt:   user.CreatedAt.Format(time.RFC3339),
	}
}

type ShiftResponse struct {
	ID     int64   `json:"id"`
	UserID int64   `json:"user_id"`
	In     string  `json:"in"`
	Out    *string `json:"out,omitempty"`
	Hours  float64 `json:"hours"`
	Note   string  `json:"note"`
	Open   bool    `json:"open"`
}

func shiftToResponse(shift *domain.Shift) ShiftResponse {
	resp := ShiftResponse{
		ID:     shift.ID,
		UserID: shift.UserID,
		In:     shift.InTime.UTC().Format(time.RFC3339),
		Hours:  shift.Hours(),
		Note:   shift.Note,
		Open:   !shift.Completed(),
	}
	if shift.OutTime != nil {
		v := shift.OutTime.UTC().Format(time.RFC3339)
		resp.Out = &v
	}
	return resp
}
