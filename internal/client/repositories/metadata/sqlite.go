package metadata

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/campushire/internal/dbx"
)

type SQLiteRepository struct {
	db *sql.DB
	tx dbx.DBTX
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db, tx: db}
}

func (r *SQLiteRepository) bind(tx dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: r.db, tx: tx}
}

func (r *SQLiteRepository) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := r.tx.QueryRowContext(ctx, `SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get metadata[%s]: %w", key, err)
	}
	return value, true, nil
}

func (r *SQLiteRepository) Set(ctx context.Context, key, value string) error {
	_, err := r.tx.ExecContext(ctx, `
		INSERT INTO metadata (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value,
			updated_at = strftime('%Y-%m-%dT%H:%M:%fZ', 'now')
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set metadata[%s]: %w", key, err)
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, key string) error {
	_, err := r.tx.ExecContext(ctx, `DELETE FROM metadata WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("failed to delete metadata[%s]: %w", key, err)
	}
	return nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	_, err := r.tx.ExecContext(ctx, `DELETE FROM metadata`)
	if err != nil {
		return fmt.Errorf("failed to clear metadata: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) List(ctx context.Context) (map[string]string, error) {
	rows, err := r.tx.QueryContext(ctx, `SELECT key, value FROM metadata`)
	if err != nil {
		return nil, fmt.Errorf("failed to list metadata: %w", err)
	}
	defer rows.Close()

	result := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan metadata row: %w", err)
		}
		result[key] = value
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate metadata rows: %w", err)
	}

	return result, nil
}

// SaveSession writes all session keys at once.
func (r *SQLiteRepository) SaveSession(ctx context.Context, s StoredSession) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := r.bind(tx)
		for k, v := range map[string]string{
			KeyUserID:       s.UserID,
			KeyEmail:        s.Email,
			KeyRefreshToken: s.RefreshToken,
		} {
			if err := repo.Set(ctx, k, v); err != nil {
				return err
			}
		}
		return nil
	})
}

// LoadSession reports false when no complete session is stored.
func (r *SQLiteRepository) LoadSession(ctx context.Context) (StoredSession, bool, error) {
	var s StoredSession
	for _, f := range []struct {
		key string
		dst *string
	}{
		{KeyUserID, &s.UserID},
		{KeyEmail, &s.Email},
		{KeyRefreshToken, &s.RefreshToken},
	} {
		v, ok, err := r.Get(ctx, f.key)
		if err != nil {
			return StoredSession{}, false, err
		}
		if !ok || v == "" {
			return StoredSession{}, false, nil
		}
		*f.dst = v
	}
	return s, true, nil
}

func (r *SQLiteRepository) ClearSession(ctx context.Context) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := r.bind(tx)
		for _, k := range []string{KeyUserID, KeyEmail, KeyRefreshToken} {
			if err := repo.Delete(ctx, k); err != nil {
				return err
			}
		}
		return nil
	})
}
