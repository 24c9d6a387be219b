package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"chronos/internal/domain"
	"chronos/internal/repository"
)

const createShiftsTable = `
CREATE TABLE IF NOT EXISTS shifts (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id INTEGER NOT NULL,
	in_time DATETIME NOT NULL,
	out_time DATETIME NULL,
	note TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL,
	FOREIGN KEY(user_id) REFERENCES users(id) ON DELETE CASCADE
);
CREATE INDEX IF NOT EXISTS idx_shifts_user_in ON shifts(user_id, in_time);
`

const selectShiftColumns = `id, user_id, in_time, out_time, note, created_at, updated_at`

type ShiftRepository struct {
	db *sql.DB
}

func NewShiftRepository(db *sql.DB) repository.ShiftRepository {
	return &ShiftRepository{db: db}
}

func (r *ShiftRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createShiftsTable); err != nil {
		return fmt.Errorf("create shifts table: %w", err)
	}
	return nil
}

func (r *ShiftRepository) Create(ctx context.Context, shift *domain.Shift) (int64, error) {
	now := dbTime(time.Now())
	shift.CreatedAt = now
	shift.UpdatedAt = now
	shift.InTime = dbTime(shift.InTime)
	if shift.OutTime != nil {
		out := dbTime(*shift.OutTime)
		shift.OutTime = &out
	}

	res, err := r.db.ExecContext(ctx, `
INSERT INTO shifts (user_id, in_time, out_time, note, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?)`,
		shift.UserID,
		shift.InTime,
		nullTime(shift.OutTime),
		shift.Note,
		shift.CreatedAt,
		shift.UpdatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("insert shift: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("shift last insert id: %w", err)
	}
	shift.ID = id
	return id, nil
}

func (r *ShiftRepository) Close(ctx context.Context, id int64, outTime time.Time) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE shifts
SET out_time=?, updated_at=?
WHERE id=? AND out_time IS NULL`,
		dbTime(outTime),
		dbTime(time.Now()),
		id,
	)
	if err != nil {
		return fmt.Errorf("close shift: %w", err)
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("shift close rows affected: %w", err)
	}
	if aff == 0 {
		return fmt.Errorf("open shift %d: %w", id, repository.ErrNotFound)
	}
	return nil
}

func (r *ShiftRepository) GetOpen(ctx context.Context, userID int64) (*domain.Shift, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT `+selectShiftColumns+`
FROM shifts
WHERE user_id = ? AND out_time IS NULL
ORDER BY in_time DESC
LIMIT 1`,
		userID,
	)
	shift, err := scanShift(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("open shift for user %d: %w", userID, repository.ErrNotFound)
		}
		return nil, err
	}
	return shift, nil
}

func (r *ShiftRepository) ListByUserBetween(ctx context.Context, userID int64, from, to time.Time) ([]domain.Shift, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT `+selectShiftColumns+`
FROM shifts
WHERE user_id = ? AND in_time >= ? AND in_time < ?
ORDER BY in_time ASC, id ASC`,
		userID,
		dbTime(from),
		dbTime(to),
	)
	if err != nil {
		return nil, fmt.Errorf("query shifts: %w", err)
	}
	defer rows.Close()

	var shifts []domain.Shift
	for rows.Next() {
		shift, err := scanShift(rows)
		if err != nil {
			return nil, err
		}
		shifts = append(shifts, *shift)
	}
	return shifts, rows.Err()
}

func scanShift(row rowScanner) (*domain.Shift, error) {
	var (
		shift   domain.Shift
		outTime sql.NullTime
	)
	if err := row.Scan(
		&shift.ID,
		&shift.UserID,
		&shift.InTime,
		&outTime,
		&shift.Note,
		&shift.CreatedAt,
		&shift.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan shift: %w", err)
	}
	if outTime.Valid {
		t := outTime.Time
		shift.OutTime = &t
	}
	return &shift, nil
}
