package service

import "errors"

var (
	// ErrNotFound indicates the requested user (or record) does not exist.
	ErrNotFound = errors.New("not found")
	// ErrPermissionDenied is returned when the viewer lacks the required role.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrNotYourProfile is returned when editing someone else's profile.
	ErrNotYourProfile = errors.New("not your profile")
	// ErrInvalidInput wraps validation failures of caller supplied data.
	ErrInvalidInput = errors.New("invalid input")
)
