package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"chronos/internal/domain"
	"chronos/internal/repository"
	"chronos/internal/storage"
)

const photoURLTTL = 15 * time.Minute

// ProfileInput carries the editable profile fields.
type ProfileInput struct {
	FullName string
	Phone    string
	Position string
	About    string
}

// Photo is an uploaded profile picture.
type Photo struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

// ProfileView is what the profile page shows.
type ProfileView struct {
	Owner   *domain.User
	Profile *domain.Profile
	// CanEdit is set for the owner and for superusers.
	CanEdit  bool
	PhotoURL string
}

// ProfileForm backs the create/edit page.
type ProfileForm struct {
	Owner   *domain.User
	Profile *domain.Profile
	Message string
}

// PhotoStore locates the bucket profile photos live in.
type PhotoStore struct {
	Service   storage.Service
	Bucket    string
	KeyPrefix string
}

func (p PhotoStore) enabled() bool {
	return p.Service != nil && p.Bucket != ""
}

// ProfileService reads and edits user profiles.
type ProfileService interface {
	// View returns the profile of name. A user without a profile yields a view
	// with a nil Profile so the caller can fall through to the create flow.
	View(ctx context.Context, viewer *domain.User, name string) (*ProfileView, error)
	Form(ctx context.Context, viewer *domain.User, name string) (*ProfileForm, error)
	Save(ctx context.Context, viewer *domain.User, name string, input ProfileInput, photo *Photo) (*ProfileView, error)
}

type profileService struct {
	users    repository.UserRepository
	profiles repository.ProfileRepository
	photos   PhotoStore
	logger   *logrus.Logger
}

func NewProfileService(users repository.UserRepository, profiles repository.ProfileRepository, photos PhotoStore, logger *logrus.Logger) ProfileService {
	if logger == nil {
		logger = logrus.New()
	}
	return &profileService{
		users:    users,
		profiles: profiles,
		photos:   photos,
		logger:   logger,
	}
}

func canEditProfile(viewer, owner *domain.User) bool {
	if viewer == nil {
		return false
	}
	return viewer.IsSuperuser || viewer.Owns(owner)
}

func (s *profileService) View(ctx context.Context, viewer *domain.User, name string) (*ProfileView, error) {
	owner, profile, err := s.load(ctx, name)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, viewer, owner, profile), nil
}

func (s *profileService) Form(ctx context.Context, viewer *domain.User, name string) (*ProfileForm, error) {
	owner, profile, err := s.load(ctx, name)
	if err != nil {
		return nil, err
	}
	if !canEditProfile(viewer, owner) {
		return nil, ErrNotYourProfile
	}
	return &ProfileForm{
		Owner:   owner,
		Profile: profile,
		Message: formMessage(viewer, owner, profile != nil),
	}, nil
}

func (s *profileService) Save(ctx context.Context, viewer *domain.User, name string, input ProfileInput, photo *Photo) (*ProfileView, error) {
	owner, profile, err := s.load(ctx, name)
	if err != nil {
		return nil, err
	}
	if !canEditProfile(viewer, owner) {
		return nil, ErrNotYourProfile
	}

	input, err = normalizeProfileInput(input)
	if err != nil {
		return nil, err
	}

	created := profile == nil
	if created {
		profile = &domain.Profile{UserID: owner.ID}
	}
	profile.FullName = input.FullName
	profile.Phone = input.Phone
	profile.Position = input.Position
	profile.About = input.About

	oldPhoto := profile.PhotoKey
	if photo != nil && s.photos.enabled() {
		key, err := s.storePhoto(ctx, owner, photo)
		if err != nil {
			return nil, err
		}
		profile.PhotoKey = key
	}

	if created {
		if _, err := s.profiles.Create(ctx, profile); err != nil {
			return nil, err
		}
	} else if err := s.profiles.Update(ctx, profile); err != nil {
		return nil, err
	}

	if oldPhoto != "" && oldPhoto != profile.PhotoKey {
		if err := s.photos.Service.Delete(ctx, s.photos.Bucket, oldPhoto); err != nil {
			s.logger.WithFields(logrus.Fields{"user": owner.Username, "key": oldPhoto}).Warnf("delete old photo: %v", err)
		}
	}

	return s.view(ctx, viewer, owner, profile), nil
}

func (s *profileService) load(ctx context.Context, name string) (*domain.User, *domain.Profile, error) {
	owner, err := s.users.GetByUsername(ctx, name)
	if err != nil {
		return nil, nil, notFound(err)
	}
	owner = sanitizeUser(owner)

	profile, err := s.profiles.GetByUserID(ctx, owner.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return owner, nil, nil
		}
		return nil, nil, err
	}
	return owner, profile, nil
}

func (s *profileService) view(ctx context.Context, viewer, owner *domain.User, profile *domain.Profile) *ProfileView {
	view := &ProfileView{
		Owner:   owner,
		Profile: profile,
		CanEdit: canEditProfile(viewer, owner),
	}
	if profile != nil && profile.PhotoKey != "" && s.photos.enabled() {
		url, err := s.photos.Service.GetObjectURL(ctx, s.photos.Bucket, profile.PhotoKey, photoURLTTL)
		if err != nil {
			s.logger.WithFields(logrus.Fields{"user": owner.Username, "key": profile.PhotoKey}).Warnf("presign photo: %v", err)
		} else {
			view.PhotoURL = url
		}
	}
	return view
}

func (s *profileService) storePhoto(ctx context.Context, owner *domain.User, photo *Photo) (string, error) {
	if photo.Body == nil {
		return "", fmt.Errorf("%w: empty photo", ErrInvalidInput)
	}
	if !strings.HasPrefix(photo.ContentType, "image/") {
		return "", fmt.Errorf("%w: photo must be an image", ErrInvalidInput)
	}
	ext := strings.ToLower(path.Ext(photo.Filename))
	key := path.Join(strings.Trim(s.photos.KeyPrefix, "/"), owner.Username, uuid.NewString()+ext)

	stored, err := s.photos.Service.Put(ctx, storage.Object{
		Bucket:      s.photos.Bucket,
		Key:         key,
		ContentType: photo.ContentType,
		Body:        photo.Body,
	})
	if err != nil {
		return "", fmt.Errorf("store photo: %w", err)
	}
	return stored, nil
}

func formMessage(viewer, owner *domain.User, existing bool) string {
	msg := "You are creating a user profile for "
	if existing {
		msg = "You are editing a user profile for "
	}
	if viewer != nil && viewer.Username == owner.Username {
		return msg + "yourself."
	}
	return msg + owner.Username + "."
}

var profileFieldLimits = []struct {
	name  string
	field func(*ProfileInput) *string
	max   int
}{
	{"full name", func(p *ProfileInput) *string { return &p.FullName }, 100},
	{"phone", func(p *ProfileInput) *string { return &p.Phone }, 32},
	{"position", func(p *ProfileInput) *string { return &p.Position }, 100},
	{"about", func(p *ProfileInput) *string { return &p.About }, 2000},
}

func normalizeProfileInput(input ProfileInput) (ProfileInput, error) {
	for _, limit := range profileFieldLimits {
		v := limit.field(&input)
		*v = strings.TrimSpace(*v)
		if utf8.RuneCountInString(*v) > limit.max {
			return input, fmt.Errorf("%w: %s must be at most %d characters", ErrInvalidInput, limit.name, limit.max)
		}
	}
	return input, nil
}
