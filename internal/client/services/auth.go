package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/campushire/internal/client/client"
	"github.com/dmitrijs2005/campushire/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/campushire/internal/client/session"
	"github.com/dmitrijs2005/campushire/internal/common"
	"github.com/dmitrijs2005/campushire/internal/logging"
)

// Input errors detected before anything is sent to the server.
var (
	ErrMissingCredentials = errors.New("missing email or password")
	ErrMissingFields      = errors.New("missing fields")
	ErrMalformedEmail     = errors.New("malformed email")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrPasswordTooShort   = errors.New("password too short")
	ErrMissingEmail       = errors.New("missing email")
)

var authMessages = []struct {
	err error
	msg string
}{
	{ErrMissingCredentials, "Please enter both email and password."},
	{ErrMissingFields, "Please fill in all fields."},
	{ErrMalformedEmail, "Please enter a valid email address."},
	{ErrPasswordMismatch, "Passwords do not match."},
	{ErrPasswordTooShort, "Password must be at least 6 characters."},
	{ErrMissingEmail, "Enter your email to reset password."},
	{common.ErrWrongPassword, "Incorrect password. Please try again."},
	{common.ErrInvalidEmail, "Invalid email address."},
	{common.ErrUserNotFound, "No account found with this email."},
	{common.ErrEmailAlreadyInUse, "An account with this email already exists."},
	{common.ErrResetTokenInvalid, "The reset code is invalid or has expired."},
	{client.ErrUnavailable, "Server is unavailable. Please try again later."},
}

// AuthMessage turns an auth error into the text shown to the user.
// Unknown errors are shown as they are.
func AuthMessage(err error) string {
	if err == nil {
		return ""
	}
	for _, m := range authMessages {
		if errors.Is(err, m.err) {
			return m.msg
		}
	}
	return err.Error()
}

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - SignIn/SignUp: validate input, authenticate, publish the session and
//     persist the refresh token.
//   - Restore: resume a persisted session without asking for a password.
//   - SignOut: revoke on the server, forget locally.
//   - SendPasswordReset/ResetPassword: the two halves of a password reset.
//   - Ping: check server liveness.
//   - Close: release underlying client resources.
type AuthService interface {
	SignIn(ctx context.Context, email, password string) error
	SignUp(ctx context.Context, email, password, confirm string) error
	Restore(ctx context.Context) (bool, error)
	SignOut(ctx context.Context) error
	SendPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, code, password, confirm string) error
	Ping(ctx context.Context) error
	Close() error
}

type authService struct {
	client   client.Client
	meta     metadata.Repository
	sessions *session.Manager
	logger   logging.Logger
}

// NewAuthService constructs an AuthService. Tokens rotated by the client's
// transparent refresh are written back to meta.
func NewAuthService(c client.Client, meta metadata.Repository, sessions *session.Manager, logger logging.Logger) AuthService {
	a := &authService{client: c, meta: meta, sessions: sessions, logger: logger}
	c.OnTokens(a.tokensRotated)
	return a
}

func (a *authService) tokensRotated(_, refreshToken string) {
	ctx := context.Background()
	if err := a.meta.Set(ctx, metadata.KeyRefreshToken, refreshToken); err != nil {
		a.logger.Warn(ctx, "persisting rotated refresh token", "error", err)
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(trimmed(email))
}

func checkNewPassword(password, confirm string) error {
	if password != confirm {
		return ErrPasswordMismatch
	}
	if len(password) < common.MinPasswordLength {
		return ErrPasswordTooShort
	}
	return nil
}

func (a *authService) start(ctx context.Context, s *client.Session) error {
	stored := metadata.StoredSession{UserID: s.UserID, Email: s.Email, RefreshToken: s.RefreshToken}
	if err := a.meta.SaveSession(ctx, stored); err != nil {
		// the session still works for this run
		a.logger.Warn(ctx, "persisting session", "error", err)
	}
	a.sessions.Set(&session.Session{UserID: s.UserID, Email: s.Email})
	return nil
}

func (a *authService) SignIn(ctx context.Context, email, password string) error {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return ErrMissingCredentials
	}
	if !common.IsValidEmail(email) {
		return ErrMalformedEmail
	}

	s, err := a.client.SignIn(ctx, email, password)
	if err != nil {
		return fmt.Errorf("sign in: %w", err)
	}
	return a.start(ctx, s)
}

func (a *authService) SignUp(ctx context.Context, email, password, confirm string) error {
	email = normalizeEmail(email)
	if email == "" || password == "" || confirm == "" {
		return ErrMissingFields
	}
	if err := checkNewPassword(password, confirm); err != nil {
		return err
	}

	s, err := a.client.SignUp(ctx, email, password)
	if err != nil {
		return fmt.Errorf("sign up: %w", err)
	}
	return a.start(ctx, s)
}

// Restore reports whether a persisted session was resumed. A refresh token
// the server no longer accepts is forgotten; transport errors are returned
// and the stored session is kept for the next attempt.
func (a *authService) Restore(ctx context.Context) (bool, error) {
	stored, ok, err := a.meta.LoadSession(ctx)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}

	s, err := a.client.Restore(ctx, stored.RefreshToken)
	switch {
	case err == nil:
		return true, a.start(ctx, s)
	case errors.Is(err, common.ErrRefreshTokenExpired),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, client.ErrUnauthorized):
		a.logger.Info(ctx, "stored session rejected", "error", err)
		return false, a.meta.ClearSession(ctx)
	default:
		return false, fmt.Errorf("restore session: %w", err)
	}
}

func (a *authService) SignOut(ctx context.Context) error {
	if err := a.client.SignOut(ctx); err != nil {
		a.logger.Warn(ctx, "server sign out", "error", err)
	}
	a.sessions.Clear()
	if err := a.meta.ClearSession(ctx); err != nil {
		return fmt.Errorf("clear stored session: %w", err)
	}
	return nil
}

func (a *authService) SendPasswordReset(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return ErrMissingEmail
	}
	return a.client.SendPasswordReset(ctx, email)
}

func (a *authService) ResetPassword(ctx context.Context, code, password, confirm string) error {
	code = trimmed(code)
	if code == "" || password == "" {
		return ErrMissingFields
	}
	if err := checkNewPassword(password, confirm); err != nil {
		return err
	}
	return a.client.ResetPassword(ctx, code, password)
}

func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}

func (a *authService) Close() error {
	return a.client.Close()
}
