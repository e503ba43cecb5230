package services

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/campushire/internal/client/client"
	"github.com/dmitrijs2005/campushire/internal/client/models"
	"github.com/dmitrijs2005/campushire/internal/client/session"
	"github.com/dmitrijs2005/campushire/internal/filex"
	"github.com/dmitrijs2005/campushire/internal/logging"
)

// Uploader pushes a reader to the blob store and streams progress.
type Uploader interface {
	Upload(ctx context.Context, path, contentType string, r io.Reader, size int64) <-chan client.UploadEvent
}

type ProfileService struct {
	docs     client.DocumentClient
	blobs    client.BlobClient
	uploader Uploader
	sessions *session.Manager
	logger   logging.Logger
}

func NewProfileService(docs client.DocumentClient, blobs client.BlobClient, uploader Uploader, sessions *session.Manager, logger logging.Logger) *ProfileService {
	return &ProfileService{docs: docs, blobs: blobs, uploader: uploader, sessions: sessions, logger: logger}
}

// ParseSkills splits a comma separated list, trimming every entry and
// dropping empty ones.
func ParseSkills(text string) []string {
	out := []string{}
	for _, s := range strings.Split(text, ",") {
		if s = trimmed(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// ParseCGPA reads a grade point average; anything unparseable is 0.
func ParseCGPA(text string) float64 {
	v, err := strconv.ParseFloat(trimmed(text), 64)
	if err != nil {
		return 0
	}
	return v
}

// Get returns the user's profile; a user who never saved one gets the zero
// profile.
func (s *ProfileService) Get(ctx context.Context) (models.Profile, error) {
	uid, err := currentUser(s.sessions)
	if err != nil {
		return models.Profile{}, err
	}

	doc, ok, err := s.docs.GetDocument(ctx, userDoc(uid))
	if err != nil {
		return models.Profile{}, fmt.Errorf("get profile: %w", err)
	}
	if !ok {
		return models.Profile{Skills: []string{}}, nil
	}

	var p models.Profile
	if err := decodeData(doc.Data, &p); err != nil {
		return models.Profile{}, err
	}
	if p.Skills == nil {
		p.Skills = []string{}
	}
	return p, nil
}

// Save merges p into the user's document, leaving other fields alone. An
// empty ResumeURL does not clear a stored one.
func (s *ProfileService) Save(ctx context.Context, p models.Profile) error {
	uid, err := currentUser(s.sessions)
	if err != nil {
		return err
	}
	if p.Skills == nil {
		p.Skills = []string{}
	}

	data, err := encodeData(p)
	if err != nil {
		return err
	}
	if err := s.docs.SetDocument(ctx, userDoc(uid), data, true); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

// UploadResume uploads the PDF at localPath as the user's resume. Progress
// arrives on the returned channel; on success the final event's URL has
// also been stored in the profile.
func (s *ProfileService) UploadResume(ctx context.Context, localPath string) (<-chan client.UploadEvent, error) {
	uid, err := currentUser(s.sessions)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(filepath.Ext(localPath), ".pdf") {
		return nil, fmt.Errorf("resume must be a PDF file")
	}

	f, size, err := filex.OpenRegular(localPath)
	if err != nil {
		return nil, fmt.Errorf("open resume: %w", err)
	}

	in := s.uploader.Upload(ctx, resumePath(uid), "application/pdf", f, size)
	out := make(chan client.UploadEvent, 8)

	go func() {
		defer close(out)
		defer f.Close()

		for ev := range in {
			if ev.Done && ev.Err == nil {
				err := s.docs.SetDocument(ctx, userDoc(uid), map[string]any{"resumeURL": ev.URL}, true)
				if err != nil {
					ev = client.UploadEvent{Err: fmt.Errorf("store resume url: %w", err), Done: true}
				}
			}
			select {
			case out <- ev:
			case <-ctx.Done():
			}
		}
	}()

	return out, nil
}

// RemoveResume deletes the resume file and forgets its URL.
func (s *ProfileService) RemoveResume(ctx context.Context) error {
	uid, err := currentUser(s.sessions)
	if err != nil {
		return err
	}
	if err := s.blobs.DeleteBlob(ctx, resumePath(uid)); err != nil {
		return fmt.Errorf("delete resume: %w", err)
	}
	if err := s.docs.DeleteFields(ctx, userDoc(uid), "resumeURL"); err != nil {
		return fmt.Errorf("clear resume url: %w", err)
	}
	return nil
}
