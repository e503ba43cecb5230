package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/campushire/internal/applications"
	"github.com/dmitrijs2005/campushire/internal/client/client"
	"github.com/dmitrijs2005/campushire/internal/client/models"
	"github.com/dmitrijs2005/campushire/internal/client/session"
	"github.com/dmitrijs2005/campushire/internal/common"
	"github.com/dmitrijs2005/campushire/internal/joinx"
	"github.com/dmitrijs2005/campushire/internal/logging"
	"github.com/dmitrijs2005/campushire/internal/schedule"
)

type JobService struct {
	docs      client.DocumentClient
	sessions  *session.Manager
	logger    logging.Logger
	now       func() time.Time
	joinLimit int
}

type JobOption func(*JobService)

func WithJobClock(now func() time.Time) JobOption {
	return func(s *JobService) { s.now = now }
}

// WithJoinLimit bounds the concurrent fetches of SavedJobs.
func WithJoinLimit(n int) JobOption {
	return func(s *JobService) { s.joinLimit = n }
}

func NewJobService(docs client.DocumentClient, sessions *session.Manager, logger logging.Logger, opts ...JobOption) *JobService {
	s := &JobService{docs: docs, sessions: sessions, logger: logger, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *JobService) decodeJob(doc client.Document) (models.JobPosting, error) {
	var job models.JobPosting
	if err := decodeData(doc.Data, &job); err != nil {
		return models.JobPosting{}, err
	}
	job.ID = doc.ID
	return job, nil
}

// List returns the whole catalog. Postings that do not decode are skipped.
func (s *JobService) List(ctx context.Context) ([]models.JobPosting, error) {
	docs, err := s.docs.ListDocuments(ctx, common.CollectionJobs)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}

	jobs := make([]models.JobPosting, 0, len(docs))
	for _, d := range docs {
		job, err := s.decodeJob(d)
		if err != nil {
			s.logger.Warn(ctx, "skipping job", "id", d.ID, "error", err)
			continue
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

// Search is List narrowed by FilterJobs.
func (s *JobService) Search(ctx context.Context, query string) ([]models.JobPosting, error) {
	jobs, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return FilterJobs(jobs, query), nil
}

// FilterJobs keeps the postings whose company or location contains query,
// ignoring case. An empty query keeps everything.
func FilterJobs(jobs []models.JobPosting, query string) []models.JobPosting {
	out := make([]models.JobPosting, 0, len(jobs))
	for _, j := range jobs {
		if query == "" ||
			applications.ContainsFold(models.StringOr(j.Company, ""), query) ||
			(j.Location != nil && applications.ContainsFold(*j.Location, query)) {
			out = append(out, j)
		}
	}
	return out
}

// Get fetches one posting by id.
func (s *JobService) Get(ctx context.Context, id string) (models.JobPosting, bool, error) {
	doc, ok, err := s.docs.GetDocument(ctx, docPath(common.CollectionJobs, id))
	if err != nil {
		return models.JobPosting{}, false, fmt.Errorf("get job %s: %w", id, err)
	}
	if !ok {
		return models.JobPosting{}, false, nil
	}
	job, err := s.decodeJob(doc)
	if err != nil {
		return models.JobPosting{}, false, err
	}
	return job, true, nil
}

// Apply records an application to job dated today.
func (s *JobService) Apply(ctx context.Context, job models.JobPosting) (models.Application, error) {
	uid, err := currentUser(s.sessions)
	if err != nil {
		return models.Application{}, err
	}

	app := models.Application{
		CompanyName:         models.StringOr(job.Company, "-"),
		AppliedDate:         schedule.FormatDate(s.now()),
		OnlineTestDate:      models.StringOr(job.OnlineTestDate, ""),
		InterviewDate:       models.StringOr(job.InterviewDate, ""),
		ApplicationDeadline: models.StringOr(job.ApplicationDeadline, ""),
	}
	data, err := encodeData(app)
	if err != nil {
		return models.Application{}, err
	}

	id, err := s.docs.AddDocument(ctx, userCollection(uid, common.CollectionApplications), data)
	if err != nil {
		return models.Application{}, fmt.Errorf("apply: %w", err)
	}
	app.ID = id
	return app, nil
}

// HasApplied reports whether an application to the job's company exists.
// Postings without a company never count as applied.
func (s *JobService) HasApplied(ctx context.Context, job models.JobPosting) (bool, error) {
	if job.Company == nil {
		return false, nil
	}
	uid, err := currentUser(s.sessions)
	if err != nil {
		return false, err
	}

	docs, err := s.docs.QueryDocuments(ctx, userCollection(uid, common.CollectionApplications), "companyName", *job.Company)
	if err != nil {
		return false, fmt.Errorf("query applications: %w", err)
	}
	return len(docs) > 0, nil
}

// AppliedCompanies returns the companies the user has applied to.
func (s *JobService) AppliedCompanies(ctx context.Context) (map[string]struct{}, error) {
	uid, err := currentUser(s.sessions)
	if err != nil {
		return nil, err
	}
	docs, err := s.docs.ListDocuments(ctx, userCollection(uid, common.CollectionApplications))
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}

	out := make(map[string]struct{}, len(docs))
	for _, d := range docs {
		if name, ok := d.Data["companyName"].(string); ok {
			out[name] = struct{}{}
		}
	}
	return out, nil
}

// ToggleSave saves the job when it is not saved and unsaves it otherwise.
// It returns the new state.
func (s *JobService) ToggleSave(ctx context.Context, job models.JobPosting) (bool, error) {
	uid, err := currentUser(s.sessions)
	if err != nil {
		return false, err
	}
	if job.ID == "" {
		return false, fmt.Errorf("job has no id")
	}

	path := docPath(userCollection(uid, common.CollectionSavedJobs), job.ID)
	_, saved, err := s.docs.GetDocument(ctx, path)
	if err != nil {
		return false, fmt.Errorf("get saved job: %w", err)
	}

	if saved {
		if err := s.docs.DeleteDocument(ctx, path); err != nil {
			return true, fmt.Errorf("unsave job: %w", err)
		}
		return false, nil
	}

	ref := models.SavedJobReference{
		CompanyName: models.StringOr(job.Company, "-"),
		SavedDate:   s.now().UTC(),
	}
	data, err := encodeData(ref)
	if err != nil {
		return false, err
	}
	if err := s.docs.SetDocument(ctx, path, data, false); err != nil {
		return false, fmt.Errorf("save job: %w", err)
	}
	return true, nil
}

// SavedIDs returns the ids of the saved jobs in store order.
func (s *JobService) SavedIDs(ctx context.Context) ([]string, error) {
	uid, err := currentUser(s.sessions)
	if err != nil {
		return nil, err
	}
	docs, err := s.docs.ListDocuments(ctx, userCollection(uid, common.CollectionSavedJobs))
	if err != nil {
		return nil, fmt.Errorf("list saved jobs: %w", err)
	}

	ids := make([]string, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.ID)
	}
	return ids, nil
}

// SavedJobs resolves the saved references into postings, keeping their
// order. Jobs that were removed from the catalog or fail to load are left
// out.
func (s *JobService) SavedJobs(ctx context.Context) ([]models.JobPosting, error) {
	ids, err := s.SavedIDs(ctx)
	if err != nil {
		return nil, err
	}

	opts := []joinx.Option{joinx.WithLogger(s.logger)}
	if s.joinLimit > 0 {
		opts = append(opts, joinx.WithLimit(s.joinLimit))
	}
	return joinx.Fetch[string, models.JobPosting](ctx, ids, s.Get, opts...)
}

// ShareText renders a posting as plain text for sharing.
func ShareText(job models.JobPosting) string {
	or := func(p *string) string { return models.StringOr(p, "-") }

	var b strings.Builder
	fmt.Fprintf(&b, "Company: %s\n", or(job.Company))
	fmt.Fprintf(&b, "Role: %s\n", job.Title)
	fmt.Fprintf(&b, "Location: %s\n", or(job.Location))
	fmt.Fprintf(&b, "Salary: %s\n", or(job.Salary))
	fmt.Fprintf(&b, "Online Test: %s\n", or(job.OnlineTestDate))
	fmt.Fprintf(&b, "Interview: %s\n", or(job.InterviewDate))
	fmt.Fprintf(&b, "Deadline: %s\n", or(job.ApplicationDeadline))
	b.WriteString("\nDescription:\n")
	b.WriteString(or(job.Description))
	return b.String()
}
