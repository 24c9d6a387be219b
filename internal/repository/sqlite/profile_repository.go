package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"chronos/internal/domain"
	"chronos/internal/repository"
)

const createProfilesTable = `
CREATE TABLE IF NOT EXISTS profiles (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id INTEGER NOT NULL UNIQUE,
	full_name TEXT NOT NULL DEFAULT '',
	phone TEXT NOT NULL DEFAULT '',
	position TEXT NOT NULL DEFAULT '',
	about TEXT NOT NULL DEFAULT '',
	photo_key TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL,
	FOREIGN KEY(user_id) REFERENCES users(id) ON DELETE CASCADE
);
`

type ProfileRepository struct {
	db *sql.DB
}

func NewProfileRepository(db *sql.DB) repository.ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createProfilesTable); err != nil {
		return fmt.Errorf("create profiles table: %w", err)
	}
	return nil
}

func (r *ProfileRepository) GetByUserID(ctx context.Context, userID int64) (*domain.Profile, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, user_id, full_name, phone, position, about, photo_key, created_at, updated_at
FROM profiles
WHERE user_id = ?`,
		userID,
	)

	var p domain.Profile
	if err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.FullName,
		&p.Phone,
		&p.Position,
		&p.About,
		&p.PhotoKey,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("profile for user %d: %w", userID, repository.ErrNotFound)
		}
		return nil, fmt.Errorf("scan profile: %w", err)
	}
	return &p, nil
}

func (r *ProfileRepository) Create(ctx context.Context, profile *domain.Profile) (int64, error) {
	now := dbTime(time.Now())
	profile.CreatedAt = now
	profile.UpdatedAt = now

	res, err := r.db.ExecContext(ctx, `
INSERT INTO profiles (user_id, full_name, phone, position, about, photo_key, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		profile.UserID,
		profile.FullName,
		profile.Phone,
		profile.Position,
		profile.About,
		profile.PhotoKey,
		profile.CreatedAt,
		profile.UpdatedAt,
	)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unique") {
			return 0, fmt.Errorf("profile for user %d: %w", profile.UserID, repository.ErrDuplicate)
		}
		return 0, fmt.Errorf("insert profile: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("profile last insert id: %w", err)
	}
	profile.ID = id
	return id, nil
}

func (r *ProfileRepository) Update(ctx context.Context, profile *domain.Profile) error {
	profile.UpdatedAt = dbTime(time.Now())
	res, err := r.db.ExecContext(ctx, `
UPDATE profiles
SET full_name=?, phone=?, position=?, about=?, photo_key=?, updated_at=?
WHERE id=?`,
		profile.FullName,
		profile.Phone,
		profile.Position,
		profile.About,
		profile.PhotoKey,
		profile.UpdatedAt,
		profile.ID,
	)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("profile update rows affected: %w", err)
	}
	if aff == 0 {
		return fmt.Errorf("profile %d: %w", profile.ID, repository.ErrNotFound)
	}
	return nil
}
