package client

import (
	"context"

	"github.com/dmitrijs2005/campushire/internal/wire"
)

// Session is the signed-in identity returned by the backend.
type Session struct {
	UserID       string
	Email        string
	RefreshToken string
}

// Document is a record of the hosted document store.
type Document = wire.Document

// AuthClient covers the account operations of the backend.
type AuthClient interface {
	SignUp(ctx context.Context, email, password string) (*Session, error)
	SignIn(ctx context.Context, email, password string) (*Session, error)
	// Restore exchanges a persisted refresh token for a fresh session.
	Restore(ctx context.Context, refreshToken string) (*Session, error)
	SignOut(ctx context.Context) error
	SendPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
}

// DocumentClient covers the hosted document store. Paths are slash
// separated: collections have an odd number of segments, documents even.
type DocumentClient interface {
	GetDocument(ctx context.Context, path string) (Document, bool, error)
	ListDocuments(ctx context.Context, collection string) ([]Document, error)
	QueryDocuments(ctx context.Context, collection, field string, value any) ([]Document, error)
	AddDocument(ctx context.Context, collection string, data map[string]any) (string, error)
	SetDocument(ctx context.Context, path string, data map[string]any, merge bool) error
	DeleteFields(ctx context.Context, path string, fields ...string) error
	DeleteDocument(ctx context.Context, path string) error
}

// BlobClient covers the hosted blob store.
type BlobClient interface {
	PresignUpload(ctx context.Context, path string) (string, error)
	PresignDownload(ctx context.Context, path string) (string, error)
	DeleteBlob(ctx context.Context, path string) error
}

type Client interface {
	AuthClient
	DocumentClient
	BlobClient
	Ping(ctx context.Context) error
	// OnTokens registers fn to be told about tokens rotated behind the
	// caller's back by the transparent refresh.
	OnTokens(fn func(accessToken, refreshToken string))
	Close() error
}
