package http

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"chronos/internal/domain"
	"chronos/internal/service"
)

const (
	tokenCookie = "chronos_token"
	viewerKey   = "viewer"
)

var errInvalidToken = errors.New("invalid token")

type tokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func (t tokenIssuer) issue(user *domain.User) (string, time.Time, error) {
	now := t.now()
	expires := now.Add(t.ttl)
	claims := jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   strconv.FormatInt(user.ID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expires),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expires, nil
}

// parse validates raw and returns the user id it was issued for.
func (t tokenIssuer) parse(raw string) (int64, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(t.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", errInvalidToken, err)
	}
	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: bad subject", errInvalidToken)
	}
	return id, nil
}

func bearerToken(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		if token, ok := strings.CutPrefix(header, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	if cookie, err := c.Cookie(tokenCookie); err == nil {
		return cookie
	}
	return ""
}

// authenticate resolves the caller from its token and stores it on the context.
func (h *Handler) authenticate(c *gin.Context) (*domain.User, bool) {
	raw := bearerToken(c)
	if raw == "" {
		return nil, false
	}
	id, err := h.tokens.parse(raw)
	if err != nil {
		return nil, false
	}
	user, err := h.users.GetByID(c.Request.Context(), id)
	if err != nil || !user.IsActive {
		return nil, false
	}
	c.Set(viewerKey, user)
	return user, true
}

// requirePage sends unauthenticated browsers to the login form.
func (h *Handler) requirePage() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := h.authenticate(c); !ok {
			target := "/login?next=" + url.QueryEscape(c.Request.URL.RequestURI())
			c.Redirect(http.StatusSeeOther, target)
			c.Abort()
			return
		}
		c.Next()
	}
}

func (h *Handler) requireAPI() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := h.authenticate(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		c.Next()
	}
}

func viewerFrom(c *gin.Context) *domain.User {
	v, ok := c.Get(viewerKey)
	if !ok {
		return nil
	}
	user, _ := v.(*domain.User)
	return user
}

func (h *Handler) setTokenCookie(c *gin.Context, token string) {
	maxAge := int(h.tokens.ttl.Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(tokenCookie, token, maxAge, "/", "", h.secureCookies, true)
}

func (h *Handler) loginPage(c *gin.Context) {
	h.render(c, http.StatusOK, "login.html", gin.H{
		"title": "Log in",
		"next":  safeNext(c.Query("next")),
	})
}

type loginForm struct {
	Username string `form:"username" json:"username" binding:"required"`
	Password string `form:"password" json:"password" binding:"required"`
	Next     string `form:"next" json:"-"`
}

func (h *Handler) login(c *gin.Context) {
	var form loginForm
	if err := c.ShouldBind(&form); err != nil {
		h.render(c, http.StatusBadRequest, "login.html", gin.H{
			"title": "Log in", "error": "Username and password are required.", "next": safeNext(form.Next), "username": form.Username,
		})
		return
	}

	user, err := h.users.Authenticate(c.Request.Context(), form.Username, form.Password)
	if err != nil {
		status := http.StatusUnauthorized
		msg := "Invalid username or password."
		if !errors.Is(err, service.ErrInvalidCredentials) {
			status = http.StatusInternalServerError
			msg = "Login failed, please try again."
			h.logger.WithError(err).Error("login")
		}
		h.render(c, status, "login.html", gin.H{
			"title": "Log in", "error": msg, "next": safeNext(form.Next), "username": form.Username,
		})
		return
	}

	token, _, err := h.tokens.issue(user)
	if err != nil {
		h.renderError(c, err)
		return
	}
	h.setTokenCookie(c, token)
	c.Redirect(http.StatusSeeOther, safeNext(form.Next))
}

func (h *Handler) logout(c *gin.Context) {
	c.SetCookie(tokenCookie, "", -1, "/", "", h.secureCookies, true)
	c.Redirect(http.StatusSeeOther, "/login")
}

// safeNext only allows local redirect targets.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/people/"
	}
	return next
}

type registerRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Secret   string `json:"secret" binding:"required"`
}

func (h *Handler) apiRegister(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.Register(c.Request.Context(), req.Username, req.Password, req.Secret)
	if err != nil {
		h.apiError(c, err)
		return
	}
	c.JSON(http.StatusCreated, userToResponse(user))
}

func (h *Handler) apiLogin(c *gin.Context) {
	var req loginForm
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.apiError(c, err)
		return
	}
	token, expires, err := h.tokens.issue(user)
	if err != nil {
		h.apiError(c, err)
		return
	}
	h.setTokenCookie(c, token)
	c.JSON(http.StatusOK, gin.H{
		"token":      token,
		"expires_at": expires.UTC().Format(time.RFC3339),
		"user":       userToResponse(user),
	})
}
