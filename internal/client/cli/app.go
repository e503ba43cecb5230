package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/campushire/internal/applications"
	"github.com/dmitrijs2005/campushire/internal/client/client"
	"github.com/dmitrijs2005/campushire/internal/client/config"
	"github.com/dmitrijs2005/campushire/internal/client/models"
	"github.com/dmitrijs2005/campushire/internal/client/services"
	"github.com/dmitrijs2005/campushire/internal/client/session"
	"github.com/dmitrijs2005/campushire/internal/filex"
	"github.com/dmitrijs2005/campushire/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// jobService is the part of services.JobService the CLI drives.
type jobService interface {
	Search(ctx context.Context, query string) ([]models.JobPosting, error)
	Get(ctx context.Context, id string) (models.JobPosting, bool, error)
	Apply(ctx context.Context, job models.JobPosting) (models.Application, error)
	HasApplied(ctx context.Context, job models.JobPosting) (bool, error)
	AppliedCompanies(ctx context.Context) (map[string]struct{}, error)
	ToggleSave(ctx context.Context, job models.JobPosting) (bool, error)
	SavedIDs(ctx context.Context) ([]string, error)
	SavedJobs(ctx context.Context) ([]models.JobPosting, error)
}

type applicationService interface {
	List(ctx context.Context, query string, mode applications.SortMode) ([]applications.View, error)
}

type profileService interface {
	Get(ctx context.Context) (models.Profile, error)
	Save(ctx context.Context, p models.Profile) error
	UploadResume(ctx context.Context, localPath string) (<-chan client.UploadEvent, error)
	RemoveResume(ctx context.Context) error
}

type App struct {
	config         *config.Config
	logger         logging.Logger
	db             *sql.DB
	authService    services.AuthService
	jobService     jobService
	appService     applicationService
	profileService profileService
	sessions       *session.Manager
	reader         *bufio.Reader
	out            io.Writer

	modeMu sync.Mutex
	mode   Mode
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewText(os.Stderr, logging.ParseLevel(c.LogLevel))

	dbPath, err := filex.EnsureDirFor(c.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("prepare local database dir: %w", err)
	}

	db, err := client.InitDatabase(ctx, dbPath)
	if err != nil {
		logger.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}
	repos := client.NewRepositories(db)

	apiClient, err := client.NewCampusHireClient(c.ServerEndpointAddr)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	sessions := session.NewManager()
	uploader := client.NewUploader(apiClient)

	return &App{
		config:      c,
		logger:      logger,
		db:          db,
		authService: services.NewAuthService(apiClient, repos.Metadata, sessions, logger.With("module", "auth")),
		jobService: services.NewJobService(apiClient, sessions, logger.With("module", "jobs"),
			services.WithJoinLimit(c.JoinLimit)),
		appService:     services.NewApplicationService(apiClient, sessions, logger.With("module", "applications")),
		profileService: services.NewProfileService(apiClient, apiClient, uploader, sessions, logger.With("module", "profile")),
		sessions:       sessions,
		reader:         bufio.NewReader(os.Stdin),
		out:            os.Stdout,
	}, nil
}

// Mode reports the last observed connectivity state.
func (a *App) Mode() Mode {
	a.modeMu.Lock()
	defer a.modeMu.Unlock()
	return a.mode
}

func (a *App) setMode(mode Mode) {
	a.modeMu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.modeMu.Unlock()

	if changed {
		fmt.Fprintf(a.out, "Switched to %s mode\n", mode)
	}
}

func (a *App) Run(ctx context.Context) error {
	defer func() {
		if err := a.authService.Close(); err != nil {
			a.logger.Warn(ctx, "close client", "error", err)
		}
		if a.db != nil {
			_ = a.db.Close()
		}
	}()
	a.Root(ctx)
	return nil
}

func (a *App) isLoggedIn() bool {
	return a.sessions.Current() != nil
}

// restore resumes the stored session, if any.
func (a *App) restore(ctx context.Context) {
	ok, err := a.authService.Restore(ctx)
	switch {
	case errors.Is(err, client.ErrUnavailable):
		fmt.Fprintln(a.out, "Server unavailable, please login once it is back")
	case err != nil:
		a.logger.Warn(ctx, "restore session", "error", err)
	case ok:
		if s := a.sessions.Current(); s != nil {
			fmt.Fprintf(a.out, "Welcome back, %s\n", s.Email)
		}
	}
}

// checkOnline pings the server once and records the result.
func (a *App) checkOnline(ctx context.Context) {
	pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	err := a.authService.Ping(pctx)
	cancel()

	if err != nil {
		a.logger.Debug(ctx, "ping failed", "error", err)
		a.setMode(ModeOffline)
		return
	}
	a.setMode(ModeOnline)
}

func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}
