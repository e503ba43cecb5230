package documents

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/campushire/internal/common"
	"github.com/dmitrijs2005/campushire/internal/dbx"
	"github.com/dmitrijs2005/campushire/internal/server/models"
	"github.com/goccy/go-json"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

// PostgresRepository keeps every document in one JSONB table keyed by
// (collection, id).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Get(ctx context.Context, collection, id string) (*models.Document, error) {
	query := `
		SELECT collection, id, data, created_at, updated_at
		FROM documents
		WHERE collection = $1 AND id = $2
	`
	doc, err := scanDocument(r.db.QueryRowContext(ctx, query, collection, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return doc, nil
}

func (r *PostgresRepository) List(ctx context.Context, collection string) ([]models.Document, error) {
	query := `
		SELECT collection, id, data, created_at, updated_at
		FROM documents
		WHERE collection = $1
		ORDER BY created_at, id
	`
	return r.queryMany(ctx, query, collection)
}

func (r *PostgresRepository) Query(ctx context.Context, collection, field string, value any) ([]models.Document, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("encode query value: %w", err)
	}
	query := `
		SELECT collection, id, data, created_at, updated_at
		FROM documents
		WHERE collection = $1 AND data -> $2 = $3::jsonb
		ORDER BY created_at, id
	`
	return r.queryMany(ctx, query, collection, field, string(raw))
}

func (r *PostgresRepository) queryMany(ctx context.Context, query string, args ...any) ([]models.Document, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	docs := make([]models.Document, 0)
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		docs = append(docs, *doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return docs, nil
}

func (r *PostgresRepository) Insert(ctx context.Context, collection, id string, data map[string]any) error {
	raw, err := encodeData(data)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO documents (collection, id, data)
		VALUES ($1, $2, $3::jsonb)
	`
	if _, err := r.db.ExecContext(ctx, query, collection, id, raw); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return common.ErrorAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Upsert(ctx context.Context, collection, id string, data map[string]any, merge bool) error {
	raw, err := encodeData(data)
	if err != nil {
		return err
	}
	set := "EXCLUDED.data"
	if merge {
		set = "documents.data || EXCLUDED.data"
	}
	query := `
		INSERT INTO documents (collection, id, data)
		VALUES ($1, $2, $3::jsonb)
		ON CONFLICT (collection, id)
		DO UPDATE SET data = ` + set + `, updated_at = now()
	`
	if _, err := r.db.ExecContext(ctx, query, collection, id, raw); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) DeleteFields(ctx context.Context, collection, id string, fields []string) error {
	if len(fields) == 0 {
		_, err := r.Get(ctx, collection, id)
		return err
	}

	var expr strings.Builder
	expr.WriteString("data")
	args := []any{collection, id}
	for _, f := range fields {
		args = append(args, f)
		expr.WriteString(" - $" + strconv.Itoa(len(args)) + "::text")
	}

	query := `
		UPDATE documents
		SET data = ` + expr.String() + `, updated_at = now()
		WHERE collection = $1 AND id = $2
	`
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, collection, id string) error {
	query := `
		DELETE FROM documents
		WHERE collection = $1 AND id = $2
	`
	if _, err := r.db.ExecContext(ctx, query, collection, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(s scanner) (*models.Document, error) {
	doc := &models.Document{}
	var raw []byte
	if err := s.Scan(&doc.Collection, &doc.ID, &raw, &doc.CreatedAt, &doc.UpdatedAt); err != nil {
		return nil, err
	}
	doc.Data = map[string]any{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &doc.Data); err != nil {
			return nil, fmt.Errorf("decode document %s/%s: %w", doc.Collection, doc.ID, err)
		}
	}
	return doc, nil
}

func encodeData(data map[string]any) (string, error) {
	if data == nil {
		data = map[string]any{}
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("encode document: %w", err)
	}
	return string(raw), nil
}
