package repository

import (
	"context"
	"time"

	"chronos/internal/domain"
)

// ShiftRepository exposes persistence operations for shifts.
type ShiftRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, shift *domain.Shift) (int64, error)
	// Close sets the out time of an open shift.
	Close(ctx context.Context, id int64, outTime time.Time) error
	GetOpen(ctx context.Context, userID int64) (*domain.Shift, error)
	// ListByUserBetween returns shifts whose in time lies in [from, to),
	// ordered by in time.
	ListByUserBetween(ctx context.Context, userID int64, from, to time.Time) ([]domain.Shift, error)
}
