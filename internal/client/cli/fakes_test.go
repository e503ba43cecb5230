package cli

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/dmitrijs2005/campushire/internal/applications"
	"github.com/dmitrijs2005/campushire/internal/client/client"
	"github.com/dmitrijs2005/campushire/internal/client/models"
	"github.com/dmitrijs2005/campushire/internal/client/session"
	"github.com/dmitrijs2005/campushire/internal/logging"
)

// syncBuffer is a bytes.Buffer safe for the watcher goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

type fakeAuth struct {
	sessions *session.Manager

	signInErr  error
	signUpErr  error
	restoreOK  bool
	restoreErr error
	signOutErr error
	sendErr    error
	resetErr   error
	pingErr    error

	mu        sync.Mutex
	email     string
	password  string
	confirm   string
	resetCode string
	pings     int
	closed    bool
}

func (f *fakeAuth) SignIn(_ context.Context, email, password string) error {
	f.email, f.password = email, password
	if f.signInErr != nil {
		return f.signInErr
	}
	f.sessions.Set(&session.Session{UserID: "u1", Email: email})
	return nil
}

func (f *fakeAuth) SignUp(_ context.Context, email, password, confirm string) error {
	f.email, f.password, f.confirm = email, password, confirm
	if f.signUpErr != nil {
		return f.signUpErr
	}
	f.sessions.Set(&session.Session{UserID: "u1", Email: email})
	return nil
}

func (f *fakeAuth) Restore(context.Context) (bool, error) {
	if f.restoreOK {
		f.sessions.Set(&session.Session{UserID: "u1", Email: "back@campus.edu"})
	}
	return f.restoreOK, f.restoreErr
}

func (f *fakeAuth) SignOut(context.Context) error {
	f.sessions.Clear()
	return f.signOutErr
}

func (f *fakeAuth) SendPasswordReset(_ context.Context, email string) error {
	f.email = email
	return f.sendErr
}

func (f *fakeAuth) ResetPassword(_ context.Context, code, password, confirm string) error {
	f.resetCode, f.password, f.confirm = code, password, confirm
	return f.resetErr
}

func (f *fakeAuth) Ping(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pings++
	return f.pingErr
}

func (f *fakeAuth) Close() error {
	f.closed = true
	return nil
}

type fakeJobs struct {
	jobs     map[string]models.JobPosting
	order    []string
	applied  map[string]struct{}
	saved    []string
	getErr   error
	applyErr error

	lastQuery string
	applies   []models.JobPosting
	toggled   []string
}

func (f *fakeJobs) Search(_ context.Context, query string) ([]models.JobPosting, error) {
	f.lastQuery = query
	out := make([]models.JobPosting, 0, len(f.order))
	for _, id := range f.order {
		out = append(out, f.jobs[id])
	}
	return out, nil
}

func (f *fakeJobs) Get(_ context.Context, id string) (models.JobPosting, bool, error) {
	if f.getErr != nil {
		return models.JobPosting{}, false, f.getErr
	}
	j, ok := f.jobs[id]
	return j, ok, nil
}

func (f *fakeJobs) Apply(_ context.Context, job models.JobPosting) (models.Application, error) {
	if f.applyErr != nil {
		return models.Application{}, f.applyErr
	}
	f.applies = append(f.applies, job)
	company := models.StringOr(job.Company, "-")
	if f.applied == nil {
		f.applied = map[string]struct{}{}
	}
	f.applied[company] = struct{}{}
	return models.Application{ID: "a1", CompanyName: company, AppliedDate: "Mar 5, 2025"}, nil
}

func (f *fakeJobs) HasApplied(_ context.Context, job models.JobPosting) (bool, error) {
	if job.Company == nil {
		return false, nil
	}
	_, ok := f.applied[*job.Company]
	return ok, nil
}

func (f *fakeJobs) AppliedCompanies(context.Context) (map[string]struct{}, error) {
	return f.applied, nil
}

func (f *fakeJobs) ToggleSave(_ context.Context, job models.JobPosting) (bool, error) {
	f.toggled = append(f.toggled, job.ID)
	for i, id := range f.saved {
		if id == job.ID {
			f.saved = append(f.saved[:i], f.saved[i+1:]...)
			return false, nil
		}
	}
	f.saved = append(f.saved, job.ID)
	return true, nil
}

func (f *fakeJobs) SavedIDs(context.Context) ([]string, error) {
	return f.saved, nil
}

func (f *fakeJobs) SavedJobs(context.Context) ([]models.JobPosting, error) {
	var out []models.JobPosting
	for _, id := range f.saved {
		if j, ok := f.jobs[id]; ok {
			out = append(out, j)
		}
	}
	return out, nil
}

type fakeApps struct {
	views []applications.View
	err   error

	query string
	mode  applications.SortMode
}

func (f *fakeApps) List(_ context.Context, query string, mode applications.SortMode) ([]applications.View, error) {
	f.query, f.mode = query, mode
	return f.views, f.err
}

type fakeProfile struct {
	profile   models.Profile
	getErr    error
	saveErr   error
	events    []client.UploadEvent
	uploadErr error
	removeErr error

	saved      []models.Profile
	uploadPath string
	removed    bool
}

func (f *fakeProfile) Get(context.Context) (models.Profile, error) {
	return f.profile, f.getErr
}

func (f *fakeProfile) Save(_ context.Context, p models.Profile) error {
	f.saved = append(f.saved, p)
	return f.saveErr
}

func (f *fakeProfile) UploadResume(_ context.Context, path string) (<-chan client.UploadEvent, error) {
	f.uploadPath = path
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	ch := make(chan client.UploadEvent, len(f.events))
	for _, ev := range f.events {
		ch <- ev
	}
	close(ch)
	return ch, nil
}

func (f *fakeProfile) RemoveResume(context.Context) error {
	f.removed = true
	return f.removeErr
}

type testApp struct {
	*App
	auth    *fakeAuth
	jobs    *fakeJobs
	apps    *fakeApps
	profile *fakeProfile
	out     *syncBuffer
}

// newTestApp builds an App over fakes reading input line by line.
func newTestApp(t *testing.T, input ...string) *testApp {
	t.Helper()
	sessions := session.NewManager()
	out := &syncBuffer{}
	ta := &testApp{
		auth:    &fakeAuth{sessions: sessions},
		jobs:    &fakeJobs{jobs: map[string]models.JobPosting{}},
		apps:    &fakeApps{},
		profile: &fakeProfile{},
		out:     out,
	}
	ta.App = &App{
		logger:         logging.Nop(),
		authService:    ta.auth,
		jobService:     ta.jobs,
		appService:     ta.apps,
		profileService: ta.profile,
		sessions:       sessions,
		reader:         bufio.NewReader(strings.NewReader(strings.Join(input, "\n") + "\n")),
		out:            out,
	}
	return ta
}

func (ta *testApp) signIn() {
	ta.sessions.Set(&session.Session{UserID: "u1", Email: "ann@campus.edu"})
}

// stubPasswords makes getPassword return the given answers in order.
func stubPasswords(t *testing.T, answers ...string) {
	t.Helper()
	orig := getPassword
	t.Cleanup(func() { getPassword = orig })
	getPassword = func(io.Writer, string) (string, error) {
		if len(answers) == 0 {
			return "", io.EOF
		}
		a := answers[0]
		answers = answers[1:]
		return a, nil
	}
}

func strPtr(s string) *string { return &s }
