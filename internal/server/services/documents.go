package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/campushire/internal/common"
	"github.com/dmitrijs2005/campushire/internal/dbx"
	"github.com/dmitrijs2005/campushire/internal/logging"
	"github.com/dmitrijs2005/campushire/internal/schedule"
	"github.com/dmitrijs2005/campushire/internal/server/models"
	"github.com/dmitrijs2005/campushire/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// DocumentService is the document store as seen by an authenticated user.
// Every method takes the caller's user id and enforces the access rules.
type DocumentService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
}

func NewDocumentService(db *sql.DB, m repomanager.RepositoryManager, logger logging.Logger) *DocumentService {
	return &DocumentService{db: db, repomanager: m, logger: logger}
}

func (s *DocumentService) readable(userID, path string, parse func(string) (docPath, error)) (docPath, error) {
	dp, err := parse(path)
	if err != nil {
		return nil, err
	}
	if !dp.canRead(userID) {
		return nil, common.ErrPermissionDenied
	}
	return dp, nil
}

func (s *DocumentService) writable(ctx context.Context, userID, path string, parse func(string) (docPath, error)) (docPath, error) {
	dp, err := parse(path)
	if err != nil {
		return nil, err
	}
	if !dp.canWrite(userID) {
		s.logger.Warn(ctx, "write denied", "user_id", userID, "path", path)
		return nil, common.ErrPermissionDenied
	}
	return dp, nil
}

// Get returns common.ErrorNotFound for a missing document.
func (s *DocumentService) Get(ctx context.Context, userID, path string) (*models.Document, error) {
	dp, err := s.readable(userID, path, parseDocument)
	if err != nil {
		return nil, err
	}
	collection, id := dp.split()
	return s.repomanager.Documents(s.db).Get(ctx, collection, id)
}

func (s *DocumentService) List(ctx context.Context, userID, collection string) ([]models.Document, error) {
	dp, err := s.readable(userID, collection, parseCollection)
	if err != nil {
		return nil, err
	}
	return s.repomanager.Documents(s.db).List(ctx, dp.String())
}

func (s *DocumentService) Query(ctx context.Context, userID, collection, field string, value any) ([]models.Document, error) {
	dp, err := s.readable(userID, collection, parseCollection)
	if err != nil {
		return nil, err
	}
	if field == "" {
		return nil, fmt.Errorf("%w: empty query field", common.ErrInvalidPath)
	}
	return s.repomanager.Documents(s.db).Query(ctx, dp.String(), field, value)
}

// Add stores data under a new random id and returns the id.
func (s *DocumentService) Add(ctx context.Context, userID, collection string, data map[string]any) (string, error) {
	dp, err := s.writable(ctx, userID, collection, parseCollection)
	if err != nil {
		return "", err
	}
	id := uuid.NewString()
	if err := s.repomanager.Documents(s.db).Insert(ctx, dp.String(), id, data); err != nil {
		return "", err
	}
	return id, nil
}

func (s *DocumentService) Set(ctx context.Context, userID, path string, data map[string]any, merge bool) error {
	dp, err := s.writable(ctx, userID, path, parseDocument)
	if err != nil {
		return err
	}
	collection, id := dp.split()
	return s.repomanager.Documents(s.db).Upsert(ctx, collection, id, data, merge)
}

func (s *DocumentService) DeleteFields(ctx context.Context, userID, path string, fields []string) error {
	dp, err := s.writable(ctx, userID, path, parseDocument)
	if err != nil {
		return err
	}
	collection, id := dp.split()
	return s.repomanager.Documents(s.db).DeleteFields(ctx, collection, id, fields)
}

func (s *DocumentService) Delete(ctx context.Context, userID, path string) error {
	dp, err := s.writable(ctx, userID, path, parseDocument)
	if err != nil {
		return err
	}
	collection, id := dp.split()
	return s.repomanager.Documents(s.db).Delete(ctx, collection, id)
}

// ListJobs returns the shared job board.
func (s *DocumentService) ListJobs(ctx context.Context) ([]models.Document, error) {
	return s.repomanager.Documents(s.db).List(ctx, common.CollectionJobs)
}

// postedDateLayouts are the accepted postedDate inputs besides RFC 3339.
var postedDateLayouts = []string{time.DateOnly, schedule.Layout}

// normalizePostedDate returns v as an RFC 3339 UTC timestamp. Date-only
// inputs are taken as midnight UTC.
func normalizePostedDate(v any) (string, error) {
	text, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: postedDate must be a string, got %T", common.ErrInvalidPosting, v)
	}
	if t, err := time.Parse(time.RFC3339, text); err == nil {
		return t.UTC().Format(time.RFC3339), nil
	}
	for _, layout := range postedDateLayouts {
		if t, err := time.ParseInLocation(layout, text, time.UTC); err == nil {
			return t.Format(time.RFC3339), nil
		}
	}
	return "", fmt.Errorf("%w: unrecognised postedDate %q", common.ErrInvalidPosting, text)
}

// ImportJobs stores postings in the jobs collection in one transaction and
// returns their ids. A posting's "id" field, when present, is used as the
// document id and removed from the data. postedDate defaults to now and is
// stored as RFC 3339; a value that cannot be read fails the whole import
// with common.ErrInvalidPosting.
func (s *DocumentService) ImportJobs(ctx context.Context, postings []map[string]any) ([]string, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	return dbx.InTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) ([]string, error) {
		repo := s.repomanager.Documents(tx)
		ids := make([]string, 0, len(postings))
		for i, p := range postings {
			data := make(map[string]any, len(p))
			for k, v := range p {
				data[k] = v
			}
			id, _ := data["id"].(string)
			delete(data, "id")
			if id == "" {
				id = uuid.NewString()
			}
			if v, ok := data["postedDate"]; !ok || v == nil {
				data["postedDate"] = now
			} else {
				posted, err := normalizePostedDate(v)
				if err != nil {
					return nil, fmt.Errorf("posting %d: %w", i, err)
				}
				data["postedDate"] = posted
			}
			if err := repo.Upsert(ctx, common.CollectionJobs, id, data, false); err != nil {
				return nil, err
			}
			ids = append(ids, id)
		}
		return ids, nil
	})
}

// IsNotFound reports whether err means the document does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, common.ErrorNotFound)
}

// DeleteJob removes a posting from the job board.
func (s *DocumentService) DeleteJob(ctx context.Context, id string) error {
	if _, err := parseDocument(common.CollectionJobs + "/" + id); err != nil {
		return err
	}
	return s.repomanager.Documents(s.db).Delete(ctx, common.CollectionJobs, id)
}
