package user

import "errors"

var (
	// ErrUserNotFound indicates the user does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidPhone indicates the phone number failed validation.
	ErrInvalidPhone = errors.New("invalid phone number")
)
