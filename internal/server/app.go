// Package server wires the CampusHire backend together: storage, services,
// the gRPC endpoint and the admin HTTP endpoint.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/campushire/internal/logging"
	"github.com/dmitrijs2005/campushire/internal/server/admin"
	"github.com/dmitrijs2005/campushire/internal/server/config"
	gs "github.com/dmitrijs2005/campushire/internal/server/grpc"
	"github.com/dmitrijs2005/campushire/internal/server/mailer"
	"github.com/dmitrijs2005/campushire/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/campushire/internal/server/services"
	"golang.org/x/sync/errgroup"
)

// Runner is a long-running component stopped by cancelling ctx.
type Runner interface {
	Run(ctx context.Context) error
}

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	runners []Runner
}

// openDB is a seam for tests.
var openDB = repomanager.OpenPostgres

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.NewJSON(os.Stdout, logging.ParseLevel(cfg.LogLevel))

	db, err := openDB(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	var m services.Mailer = mailer.NewLogMailer(logger)
	if cfg.SMTPAddr != "" {
		m = mailer.NewSMTPMailer(cfg.SMTPAddr, cfg.MailFrom, logger)
	}

	us := services.NewUserService(db, rm, m, logger.With("module", "users"), cfg)
	ds := services.NewDocumentService(db, rm, logger.With("module", "documents"))
	bs := services.NewBlobService(cfg, logger.With("module", "blobs"))

	runners := []Runner{
		gs.NewGRPCServer(cfg.EndpointAddrGRPC, logger, us, ds, bs, cfg.SecretKey),
		admin.NewServer(cfg.EndpointAddrAdmin, cfg.AdminToken, ds, db, logger),
	}

	return newApp(cfg, logger, db, runners), nil
}

func newApp(cfg *config.Config, logger logging.Logger, db *sql.DB, runners []Runner) *App {
	return &App{config: cfg, logger: logger, db: db, runners: runners}
}

func (app *App) initSignalHandler(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
}

// Run starts every component and blocks until ctx is cancelled, a signal
// arrives, or one component fails; the others are then stopped.
func (app *App) Run(ctx context.Context) error {
	ctx, stop := app.initSignalHandler(ctx)
	defer stop()

	app.logger.Info(ctx, "Starting app...")

	g, ctx := errgroup.WithContext(ctx)
	for _, r := range app.runners {
		g.Go(func() error {
			return r.Run(ctx)
		})
	}

	err := g.Wait()
	if app.db != nil {
		if cerr := app.db.Close(); cerr != nil {
			app.logger.Warn(context.Background(), "closing db", "error", cerr)
		}
	}
	if err != nil {
		app.logger.Error(context.Background(), "app stopped", "error", err)
		return err
	}
	app.logger.Info(context.Background(), "App stopped")
	return nil
}
