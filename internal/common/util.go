package common

import (
	"crypto/rand"
	"encoding/hex"
	"regexp"
)

// MakeRandHexString returns size random bytes hex-encoded (2*size chars).
func MakeRandHexString(size int) (string, error) {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

var emailRe = regexp.MustCompile(`^[A-Z0-9a-z._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)

// IsValidEmail reports whether s looks like an email address.
func IsValidEmail(s string) bool {
	return emailRe.MatchString(s)
}

// MinPasswordLength is the shortest password accepted on sign-up.
const MinPasswordLength = 6
