package services

import "errors"

var (
	// ErrDuplicateUser is returned when the username or email is already registered.
	ErrDuplicateUser = errors.New("username or email already registered")
	// ErrUserNotFound is returned when no user matches the given username or id.
	ErrUserNotFound = errors.New("user not found")
	// ErrBadCredentials is returned when the password does not match the stored digest.
	ErrBadCredentials = errors.New("bad credentials")
	// ErrSessionNotFound is returned when no active session matches the access token.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionExpired is returned when the session's validity window has passed.
	ErrSessionExpired = errors.New("session expired")
)
