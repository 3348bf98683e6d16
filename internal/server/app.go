// Package server wires the vidtube API together: it opens the database, runs
// migrations, builds the services and serves HTTP until it receives a
// termination signal.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/vidtube/internal/dbx"
	"github.com/dmitrijs2005/vidtube/internal/logging"
	"github.com/dmitrijs2005/vidtube/internal/server/config"
	"github.com/dmitrijs2005/vidtube/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/vidtube/internal/server/rest"
	"github.com/dmitrijs2005/vidtube/internal/server/services"
	"github.com/dmitrijs2005/vidtube/internal/server/storage"
)

type App struct {
	config     *config.Config
	logger     logging.Logger
	db         *sql.DB
	httpServer *rest.HTTPServer
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)

	db, err := dbx.Open(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	uploader, err := storage.NewS3Uploader(ctx, c)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("storage init error: %w", err)
	}

	verifier := services.NewCredentialVerifier(db, rm)
	tokens := services.NewTokenService(db, rm, c)
	users := services.NewUserService(db, rm, verifier, tokens, uploader, logger)

	hs, err := rest.NewHTTPServer(c, logger, users, tokens)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("http server init error: %w", err)
	}

	return &App{config: c, logger: logger, db: db, httpServer: hs}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.httpServer.Run(ctx); err != nil {
		app.logger.Error(ctx, "http server error", "error", err)
		cancelFunc()
	}
}

// Run blocks until a signal arrives or the server fails, then releases the
// database pool.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
