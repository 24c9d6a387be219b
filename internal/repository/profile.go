package repository

import (
	"context"

	"chronos/internal/domain"
)

// ProfileRepository manages the one-to-one user profiles.
type ProfileRepository interface {
	Init(ctx context.Context) error
	GetByUserID(ctx context.Context, userID int64) (*domain.Profile, error)
	Create(ctx context.Context, profile *domain.Profile) (int64, error)
	Update(ctx context.Context, profile *domain.Profile) error
}
