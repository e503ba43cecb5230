package models

import "time"

type RefreshToken struct {
	ID        string
	UserID    string
	Token     string
	Expires   time.Time
	CreatedAt time.Time
}

// PasswordReset is a pending password reset. Only the SHA-256 of the token
// mailed to the user is stored.
type PasswordReset struct {
	TokenHash string
	UserID    string
	Expires   time.Time
	CreatedAt time.Time
}
