// Package server assembles the reference penguin backend: repositories
// (in memory or PostgreSQL), services and the REST API.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/penguintracker/internal/logging"
	"github.com/dmitrijs2005/penguintracker/internal/server/auth"
	"github.com/dmitrijs2005/penguintracker/internal/server/config"
	"github.com/dmitrijs2005/penguintracker/internal/server/httpapi"
	"github.com/dmitrijs2005/penguintracker/internal/server/repositories/penguins"
	"github.com/dmitrijs2005/penguintracker/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/penguintracker/internal/server/repositories/users"
	"github.com/dmitrijs2005/penguintracker/internal/server/services"
)

type App struct {
	config *config.Config
	logger logging.Logger
	server *httpapi.Server
	db     *sql.DB
}

// NewApp wires the backend. With c.DatabaseDSN set, users and penguins live
// in PostgreSQL, otherwise in process memory.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	app := &App{config: c, logger: logger}

	var (
		userRepo    users.Repository
		penguinRepo penguins.Repository
	)

	if c.DatabaseDSN != "" {
		m := repomanager.NewPostgresRepositoryManager()
		db, err := repomanager.Open(ctx, m, c.DatabaseDSN)
		if err != nil {
			return nil, err
		}
		app.db = db
		userRepo, penguinRepo = m.Users(db), m.Penguins(db)
		logger.Info(ctx, "using postgres storage")
	} else {
		userRepo, penguinRepo = users.NewMemoryRepository(), penguins.NewMemoryRepository()
	}

	if c.Seed {
		seeded, err := penguins.SeedIfEmpty(ctx, penguinRepo)
		if err != nil {
			_ = app.Close()
			return nil, fmt.Errorf("seed: %w", err)
		}
		if seeded {
			logger.Info(ctx, "sample data loaded", "penguins", penguins.SampleSize)
		}
	}

	us := services.NewUserService(userRepo, auth.NewPasswordHasher(c.PasswordHashCost), c)
	ps := services.NewPenguinService(penguinRepo)
	app.server = httpapi.NewServer(c.EndpointAddr, logger, us, ps)

	return app, nil
}

// Close releases the database connection, if any.
func (app *App) Close() error {
	if app.db != nil {
		return app.db.Close()
	}
	return nil
}

// Handler exposes the API without starting a listener.
func (app *App) Handler() http.Handler {
	return app.server.Handler()
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves until ctx is cancelled or a termination signal arrives.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()
	defer app.Close()

	app.logger.Info(ctx, "Starting app...")
	app.initSignalHandler(cancelFunc)

	if err := app.server.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		return err
	}
	return nil
}
