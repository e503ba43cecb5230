// Package common defines shared constants and sentinel errors used across
// client and server layers of CampusHire. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal       = errors.New("internal error")
	ErrorUnauthorized   = errors.New("unauthorized")
	ErrPermissionDenied = errors.New("permission denied")
	ErrInvalidPath      = errors.New("invalid document path")
	ErrInvalidPosting   = errors.New("invalid job posting")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired        = errors.New("token expired")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
	ErrResetTokenInvalid   = errors.New("reset token invalid or expired")

	// Account errors surfaced to the user.
	ErrInvalidEmail      = errors.New("invalid email")
	ErrWeakPassword      = errors.New("weak password")
	ErrWrongPassword     = errors.New("wrong password")
	ErrUserNotFound      = errors.New("user not found")
	ErrEmailAlreadyInUse = errors.New("email already in use")
)

// Wire lists the sentinels whose text travels in RPC status messages and is
// turned back into the same value on the client.
var Wire = []error{
	ErrorNotFound,
	ErrPermissionDenied,
	ErrInvalidPath,
	ErrInvalidToken,
	ErrTokenExpired,
	ErrRefreshTokenExpired,
	ErrResetTokenInvalid,
	ErrInvalidEmail,
	ErrWeakPassword,
	ErrWrongPassword,
	ErrUserNotFound,
	ErrEmailAlreadyInUse,
}

// FromMessage returns the sentinel in Wire whose text equals msg.
func FromMessage(msg string) (error, bool) {
	for _, e := range Wire {
		if e.Error() == msg {
			return e, true
		}
	}
	return nil, false
}
