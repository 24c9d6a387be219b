package domain

import "time"

// Profile holds the optional personal details attached to a User.
// A user has at most one profile; it is created on the first edit.
type Profile struct {
	ID        int64
	UserID    int64
	FullName  string
	Phone     string
	Position  string
	About     string
	PhotoKey  string
	CreatedAt time.Time
	UpdatedAt time.Time
}
