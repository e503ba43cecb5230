// Package services contains server-side business logic. This file implements
// UserService, which handles registration, login, password resets and
// issuing/refreshing JWTs plus server-stored refresh tokens.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/campushire/internal/common"
	"github.com/dmitrijs2005/campushire/internal/cryptox"
	"github.com/dmitrijs2005/campushire/internal/dbx"
	"github.com/dmitrijs2005/campushire/internal/logging"
	"github.com/dmitrijs2005/campushire/internal/server/auth"
	"github.com/dmitrijs2005/campushire/internal/server/config"
	"github.com/dmitrijs2005/campushire/internal/server/models"
	"github.com/dmitrijs2005/campushire/internal/server/repositories/repomanager"
)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// Session is the result of a successful sign-in.
type Session struct {
	UserID string
	Email  string
	TokenPair
}

// Mailer delivers plain-text mail.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

type UserService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	mailer                       Mailer
	logger                       logging.Logger
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
	resetTokenValidityDuration   time.Duration
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, mailer Mailer, logger logging.Logger, cfg *config.Config) *UserService {
	return &UserService{
		db:                           db,
		repomanager:                  m,
		mailer:                       mailer,
		logger:                       logger,
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
		resetTokenValidityDuration:   cfg.ResetTokenValidityDuration,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SignUp creates an account and signs it in.
func (s *UserService) SignUp(ctx context.Context, email, password string) (*Session, error) {
	email = normalizeEmail(email)
	if !common.IsValidEmail(email) {
		return nil, common.ErrInvalidEmail
	}
	if len(password) < common.MinPasswordLength {
		return nil, common.ErrWeakPassword
	}

	hash, err := cryptox.HashPassword([]byte(password))
	if err != nil {
		return nil, common.ErrorInternal
	}

	return dbx.InTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) (*Session, error) {
		user, err := s.repomanager.Users(tx).Create(ctx, &models.User{Email: email, PasswordHash: hash})
		if err != nil {
			if errors.Is(err, common.ErrorAlreadyExists) {
				return nil, common.ErrEmailAlreadyInUse
			}
			return nil, fmt.Errorf("error creating user: %w", err)
		}
		return s.newSession(ctx, user, tx)
	})
}

// SignIn verifies credentials and returns a fresh session.
func (s *UserService) SignIn(ctx context.Context, email, password string) (*Session, error) {
	email = normalizeEmail(email)
	if !common.IsValidEmail(email) {
		return nil, common.ErrInvalidEmail
	}

	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrUserNotFound
		}
		return nil, common.ErrorInternal
	}

	ok, err := cryptox.CheckPassword(user.PasswordHash, []byte(password))
	if err != nil {
		return nil, common.ErrorInternal
	}
	if !ok {
		return nil, common.ErrWrongPassword
	}

	return s.newSession(ctx, user, s.db)
}

// RefreshToken validates a refresh token, rotates it transactionally, and
// returns a fresh session. Expired tokens yield ErrRefreshTokenExpired.
func (s *UserService) RefreshToken(ctx context.Context, refreshToken string) (*Session, error) {
	repo := s.repomanager.RefreshTokens(s.db)

	token, err := repo.Find(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidToken
		}
		return nil, fmt.Errorf("error searching refresh token: %w", err)
	}
	if token.Expires.Before(time.Now()) {
		_ = repo.Delete(ctx, refreshToken)
		return nil, common.ErrRefreshTokenExpired
	}

	return dbx.InTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) (*Session, error) {
		if _, err := s.repomanager.RefreshTokens(tx).Consume(ctx, refreshToken); err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return nil, common.ErrInvalidToken
			}
			return nil, fmt.Errorf("error consuming refresh token: %w", err)
		}
		user, err := s.repomanager.Users(tx).GetByID(ctx, token.UserID)
		if err != nil {
			return nil, fmt.Errorf("error loading user: %w", err)
		}
		return s.newSession(ctx, user, tx)
	})
}

// SignOut revokes the refresh token.
func (s *UserService) SignOut(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.repomanager.RefreshTokens(s.db).Delete(ctx, refreshToken)
}

// SendPasswordReset mails a one-time reset token. Unknown addresses succeed
// without sending anything.
func (s *UserService) SendPasswordReset(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if !common.IsValidEmail(email) {
		return common.ErrInvalidEmail
	}

	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.logger.Info(ctx, "password reset for unknown email")
			return nil
		}
		return common.ErrorInternal
	}

	token, err := common.MakeRandHexString(16)
	if err != nil {
		return common.ErrorInternal
	}
	if err := s.repomanager.Resets(s.db).Create(ctx, user.ID, cryptox.HashToken(token), s.resetTokenValidityDuration); err != nil {
		return fmt.Errorf("error storing reset token: %w", err)
	}

	body := fmt.Sprintf("Use this code to reset your CampusHire password:\n\n%s\n\nThe code expires in %s. If you did not ask for a reset, ignore this email.\n",
		token, s.resetTokenValidityDuration)
	if err := s.mailer.Send(ctx, user.Email, "Reset your CampusHire password", body); err != nil {
		return fmt.Errorf("error sending reset mail: %w", err)
	}
	return nil
}

// ResetPassword consumes a reset token, sets the new password and revokes
// every session of the user.
func (s *UserService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if len(newPassword) < common.MinPasswordLength {
		return common.ErrWeakPassword
	}
	hash, err := cryptox.HashPassword([]byte(newPassword))
	if err != nil {
		return common.ErrorInternal
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		reset, err := s.repomanager.Resets(tx).Consume(ctx, cryptox.HashToken(token))
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrResetTokenInvalid
			}
			return fmt.Errorf("error consuming reset token: %w", err)
		}
		if reset.Expires.Before(time.Now()) {
			return common.ErrResetTokenInvalid
		}
		if err := s.repomanager.Users(tx).UpdatePassword(ctx, reset.UserID, hash); err != nil {
			return fmt.Errorf("error updating password: %w", err)
		}
		if err := s.repomanager.RefreshTokens(tx).DeleteByUser(ctx, reset.UserID); err != nil {
			return fmt.Errorf("error revoking sessions: %w", err)
		}
		return s.repomanager.Resets(tx).DeleteByUser(ctx, reset.UserID)
	})
}

func (s *UserService) newSession(ctx context.Context, user *models.User, tx dbx.DBTX) (*Session, error) {
	access, err := auth.GenerateToken(user.ID, user.Email, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}
	refresh, err := common.MakeRandHexString(32)
	if err != nil {
		return nil, common.ErrorInternal
	}
	if err := s.repomanager.RefreshTokens(tx).Create(ctx, user.ID, refresh, s.refreshTokenValidityDuration); err != nil {
		return nil, common.ErrorInternal
	}
	return &Session{
		UserID:    user.ID,
		Email:     user.Email,
		TokenPair: TokenPair{AccessToken: access, RefreshToken: refresh},
	}, nil
}
