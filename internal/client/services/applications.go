package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/campushire/internal/applications"
	"github.com/dmitrijs2005/campushire/internal/client/client"
	"github.com/dmitrijs2005/campushire/internal/client/models"
	"github.com/dmitrijs2005/campushire/internal/client/session"
	"github.com/dmitrijs2005/campushire/internal/common"
	"github.com/dmitrijs2005/campushire/internal/logging"
)

type ApplicationService struct {
	docs     client.DocumentClient
	sessions *session.Manager
	logger   logging.Logger
	now      func() time.Time
}

func NewApplicationService(docs client.DocumentClient, sessions *session.Manager, logger logging.Logger) *ApplicationService {
	return &ApplicationService{docs: docs, sessions: sessions, logger: logger, now: time.Now}
}

// All loads every application of the signed-in user in store order.
func (s *ApplicationService) All(ctx context.Context) ([]models.Application, error) {
	uid, err := currentUser(s.sessions)
	if err != nil {
		return nil, err
	}

	docs, err := s.docs.ListDocuments(ctx, userCollection(uid, common.CollectionApplications))
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}

	apps := make([]models.Application, 0, len(docs))
	for _, d := range docs {
		var a models.Application
		if err := decodeData(d.Data, &a); err != nil {
			s.logger.Warn(ctx, "skipping application", "id", d.ID, "error", err)
			continue
		}
		a.ID = d.ID
		apps = append(apps, a)
	}
	return apps, nil
}

// List returns the applications matching query, ordered by mode, each with
// its next event.
func (s *ApplicationService) List(ctx context.Context, query string, mode applications.SortMode) ([]applications.View, error) {
	apps, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	return applications.NewIndex(apps, applications.WithClock(s.now)).View(query, mode), nil
}
