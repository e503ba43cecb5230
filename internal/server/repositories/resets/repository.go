// Package resets stores pending password reset tokens.
package resets

import (
	"context"
	"time"

	"github.com/dmitrijs2005/campushire/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, userID, tokenHash string, validity time.Duration) error
	// Consume deletes the reset and returns it. A missing reset yields
	// common.ErrorNotFound; expiry is left to the caller.
	Consume(ctx context.Context, tokenHash string) (*models.PasswordReset, error)
	DeleteByUser(ctx context.Context, userID string) error
}
