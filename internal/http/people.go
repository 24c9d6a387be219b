package http

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"chronos/internal/service"
)

const maxPhotoBytes = 5 << 20

func (h *Handler) listPeople(c *gin.Context) {
	users, err := h.users.ListActive(c.Request.Context())
	if err != nil {
		h.renderError(c, err)
		return
	}
	h.render(c, http.StatusOK, "list.html", gin.H{"title": "People", "users": users})
}

func (h *Handler) viewProfile(c *gin.Context) {
	view, err := h.profiles.View(c.Request.Context(), viewerFrom(c), c.Param("name"))
	if err != nil {
		h.renderError(c, err)
		return
	}
	if view.Profile == nil {
		// no profile yet: offer to create one
		h.editProfile(c)
		return
	}
	h.render(c, http.StatusOK, "profile.html", gin.H{"title": view.Owner.Username, "profile": view})
}

func (h *Handler) editProfile(c *gin.Context) {
	form, err := h.profiles.Form(c.Request.Context(), viewerFrom(c), c.Param("name"))
	if err != nil {
		h.renderError(c, err)
		return
	}
	h.render(c, http.StatusOK, "create_profile.html", gin.H{"title": form.Owner.Username, "form": form})
}

type profileForm struct {
	FullName string `form:"full_name"`
	Phone    string `form:"phone"`
	Position string `form:"position"`
	About    string `form:"about"`
}

func (h *Handler) saveProfile(c *gin.Context) {
	ctx := c.Request.Context()
	viewer := viewerFrom(c)
	name := c.Param("name")

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxPhotoBytes+1<<20)
	var form profileForm
	if err := c.ShouldBind(&form); err != nil {
		h.renderError(c, fmt.Errorf("%w: %v", service.ErrInvalidInput, err))
		return
	}

	photo, closePhoto, err := formPhoto(c)
	if err != nil {
		h.renderError(c, err)
		return
	}
	defer closePhoto()

	view, err := h.profiles.Save(ctx, viewer, name, service.ProfileInput{
		FullName: form.FullName,
		Phone:    form.Phone,
		Position: form.Position,
		About:    form.About,
	}, photo)
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			h.redisplayForm(c, err)
			return
		}
		h.renderError(c, err)
		return
	}

	h.logger.WithField("user", view.Owner.Username).Info("profile saved")
	h.render(c, http.StatusOK, "profile.html", gin.H{"title": view.Owner.Username, "profile": view})
}

func (h *Handler) redisplayForm(c *gin.Context, cause error) {
	form, err := h.profiles.Form(c.Request.Context(), viewerFrom(c), c.Param("name"))
	if err != nil {
		h.renderError(c, err)
		return
	}
	h.render(c, http.StatusBadRequest, "create_profile.html", gin.H{
		"title": form.Owner.Username, "form": form, "error": cause.Error(),
	})
}

// formPhoto opens the optional "photo" upload.
func formPhoto(c *gin.Context) (*service.Photo, func(), error) {
	noop := func() {}
	header, err := c.FormFile("photo")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, noop, nil
		}
		return nil, noop, fmt.Errorf("%w: %v", service.ErrInvalidInput, err)
	}
	if header.Size > maxPhotoBytes {
		return nil, noop, fmt.Errorf("%w: photo exceeds %d bytes", service.ErrInvalidInput, maxPhotoBytes)
	}
	file, err := header.Open()
	if err != nil {
		return nil, noop, fmt.Errorf("open upload: %w", err)
	}
	return &service.Photo{
		Filename:    header.Filename,
		ContentType: contentType(header),
		Body:        file,
	}, func() { file.Close() }, nil
}

func contentType(header *multipart.FileHeader) string {
	if ct := header.Header.Get("Content-Type"); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
