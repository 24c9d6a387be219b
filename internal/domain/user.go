package domain

import "time"

// User represents an authenticated user of the system.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	IsActive     bool
	IsStaff      bool
	IsSuperuser  bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Owns reports whether u is the same account as other.
func (u *User) Owns(other *User) bool {
	if u == nil || other == nil {
		return false
	}
	return u.ID == other.ID
}
