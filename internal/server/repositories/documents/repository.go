// Package documents persists the JSON records of the document store.
package documents

import (
	"context"

	"github.com/dmitrijs2005/campushire/internal/server/models"
)

// Repository stores JSON documents addressed by (collection, id).
type Repository interface {
	// Get returns common.ErrorNotFound when the document does not exist.
	Get(ctx context.Context, collection, id string) (*models.Document, error)
	// List returns the documents of a collection, oldest first.
	List(ctx context.Context, collection string) ([]models.Document, error)
	// Query returns the documents of a collection whose top-level field
	// equals value.
	Query(ctx context.Context, collection, field string, value any) ([]models.Document, error)
	// Insert fails with common.ErrorAlreadyExists when the id is taken.
	Insert(ctx context.Context, collection, id string, data map[string]any) error
	// Upsert creates the document or, on conflict, replaces its data
	// (merge=false) or shallow-merges data into it (merge=true).
	Upsert(ctx context.Context, collection, id string, data map[string]any, merge bool) error
	// DeleteFields removes top-level fields. A missing document yields
	// common.ErrorNotFound.
	DeleteFields(ctx context.Context, collection, id string, fields []string) error
	// Delete removes the document; deleting a missing document is not an error.
	Delete(ctx context.Context, collection, id string) error
}
