// Package server wires configuration, storage, services and the HTTP API
// into a runnable application and handles graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/krishirakshak/krishirakshak/internal/dbx"
	"github.com/krishirakshak/krishirakshak/internal/logging"
	"github.com/krishirakshak/krishirakshak/internal/server/auth"
	"github.com/krishirakshak/krishirakshak/internal/server/config"
	"github.com/krishirakshak/krishirakshak/internal/server/httpapi"
	"github.com/krishirakshak/krishirakshak/internal/server/report"
	"github.com/krishirakshak/krishirakshak/internal/server/repositories/repomanager"
	"github.com/krishirakshak/krishirakshak/internal/server/services"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	api    *httpapi.Server
}

// NewApp opens the database, applies migrations and builds the services.
// Outside development it refuses to start without a signing secret.
func NewApp(ctx context.Context, c *config.Config, logOut io.Writer) (*App, error) {
	logger := logging.NewJSONLogger(logOut, c.LogLevel)

	signing, err := c.SigningConfig()
	if err != nil {
		return nil, err
	}
	if c.UsesDevSecret() {
		logger.Warn(ctx, "no jwt secret configured; using the public development key",
			"env_var", config.EnvJWTSecret)
	}

	db, err := dbx.Open(ctx, c.DatabaseDriver, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm, err := repomanager.New(c.DatabaseDriver)
	if err != nil {
		db.Close()
		return nil, err
	}
	if err := rm.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	archiver, err := newArchiver(ctx, c)
	if err != nil {
		db.Close()
		return nil, err
	}
	renderer, err := report.NewRenderer()
	if err != nil {
		db.Close()
		return nil, err
	}

	tokens := auth.NewTokenService(signing, auth.WithLogger(logger))
	hasher := auth.NewPasswordHasher(c.PasswordIterations)

	users := services.NewUserService(db, rm, hasher, tokens, logger)
	profiles := services.NewProfileService(db, rm, logger)
	advisory := services.NewAdvisoryService(profiles)
	reports := services.NewReportService(profiles, advisory, renderer, archiver, logger)

	api := httpapi.NewServer(httpapi.Deps{
		Users:    users,
		Profiles: profiles,
		Advisory: advisory,
		Reports:  reports,
		Metrics:  httpapi.NewMetrics(),
		Logger:   logger,
	})

	return &App{config: c, logger: logger, db: db, api: api}, nil
}

func newArchiver(ctx context.Context, c *config.Config) (report.Archiver, error) {
	if c.ReportBucket == "" {
		return report.NopArchiver{}, nil
	}
	a, err := report.NewS3Archiver(ctx, report.S3Options{
		Bucket:       c.ReportBucket,
		Region:       c.S3Region,
		BaseEndpoint: c.S3BaseEndpoint,
		AccessKey:    c.S3RootUser,
		SecretKey:    c.S3RootPassword,
	})
	if err != nil {
		return nil, fmt.Errorf("report archive: %w", err)
	}
	return a, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) error {
	err := app.api.ListenAndServe(ctx, app.config.EndpointAddrHTTP)
	if err != nil {
		app.logger.Error(ctx, "http server", "error", err)
		cancelFunc()
	}
	return err
}

// Run serves until ctx is cancelled or a termination signal arrives.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "addr", app.config.EndpointAddrHTTP,
		"env", app.config.Environment, "driver", app.config.DatabaseDriver)

	app.initSignalHandler(cancelFunc)

	var (
		wg     sync.WaitGroup
		runErr error
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		runErr = app.startHTTPServer(ctx, cancelFunc)
	}()
	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Warn(ctx, "closing database", "error", err)
	}
	app.logger.Info(ctx, "stopped")
	return runErr
}
