package domain

import "errors"

// Sentinel errors for the account domain. Use errors.Is() to check these.
var (
	// ErrMissingCredentials indicates the username or the password was empty.
	ErrMissingCredentials = errors.New("username and password are required")

	// ErrPasswordTooLong indicates the password exceeds the hashing input limit.
	ErrPasswordTooLong = errors.New("password must not exceed 72 bytes")

	// ErrUserAlreadyExists indicates the username is taken.
	ErrUserAlreadyExists = errors.New("user already exists")

	// ErrInvalidCredentials is returned for an unknown username and for a wrong
	// password alike, so callers cannot tell which one happened.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrUserNotFound indicates a lookup matched no user. It never leaves the
	// application layer; Verify folds it into ErrInvalidCredentials.
	ErrUserNotFound = errors.New("user not found")
)
