package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/dmitrijs2005/penguintracker/internal/client/client"
	"github.com/dmitrijs2005/penguintracker/internal/client/config"
	"github.com/dmitrijs2005/penguintracker/internal/client/credstore"
	"github.com/dmitrijs2005/penguintracker/internal/client/services"
	"github.com/dmitrijs2005/penguintracker/internal/filex"
	"github.com/dmitrijs2005/penguintracker/internal/logging"
)

// DatabaseFile is the local SQLite file inside the data directory.
const DatabaseFile = "penguintracker.db"

const pingTimeout = 3 * time.Second

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type App struct {
	config    *config.Config
	logger    logging.Logger
	db        *sql.DB
	api       client.Client
	session   *services.SessionManager
	queries   *services.QueryEngine
	browser   *services.Browser
	mutations *services.MutationEngine
	reader    *bufio.Reader
	out       io.Writer

	mu   sync.Mutex
	mode Mode
}

// NewApp opens the local database in c.DataDir and wires the services
// against the backend at c.ServerBaseURL.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	dir, err := filex.EnsureDataDir(c.DataDir)
	if err != nil {
		return nil, err
	}

	db, err := client.InitDatabase(ctx, filepath.Join(dir, DatabaseFile))
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}

	key, err := credstore.DeviceKey(dir)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	api, err := client.NewHTTPClient(c.ServerBaseURL,
		client.WithTimeout(c.RequestTimeout),
		client.WithRateLimit(c.RateLimit, max(1, int(c.RateLimit))),
		client.WithLogger(logger.With("module", "http")),
	)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	app := newApp(c, logger, api, credstore.NewSecureStore(db, key), os.Stdin, os.Stdout)
	app.db = db
	return app, nil
}

func newApp(c *config.Config, logger logging.Logger, api client.Client, store credstore.Store, in io.Reader, out io.Writer) *App {
	session := services.NewSessionManager(api, store, logger)
	queries := services.NewQueryEngine(api, session, logger)

	return &App{
		config:    c,
		logger:    logger,
		api:       api,
		session:   session,
		queries:   queries,
		browser:   services.NewBrowser(queries, c.PageSize),
		mutations: services.NewMutationEngine(api, session, queries, logger),
		reader:    bufio.NewReader(in),
		out:       out,
	}
}

// Run restores the previous session, starts the connectivity watcher and
// serves the REPL until the user exits or ctx is done.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer a.Close()

	fmt.Fprintln(a.out, "Penguin tracker CLI (type 'help' for commands)")

	if a.session.RestoreSession(ctx) == services.StateAuthenticated {
		fmt.Fprintf(a.out, "Welcome back, %s\n", a.userName())
	}

	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	runREPL(ctx, a, a.getStatus, a.reader)
	return nil
}

func (a *App) Close() error {
	if a.api != nil {
		_ = a.api.Close()
	}
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

func (a *App) isLoggedIn() bool {
	return a.session.IsAuthenticated()
}

func (a *App) userName() string {
	if s := a.session.Session(); s != nil {
		return s.User.DisplayName()
	}
	return ""
}

func (a *App) Mode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

func (a *App) setMode(ctx context.Context, mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()

	if changed {
		a.logger.Info(ctx, "connectivity changed", "mode", mode)
	}
}

func (a *App) getStatus() string {
	s := a.userName()
	if m := a.Mode(); m != "" {
		if s != "" {
			s += " "
		}
		s += string(m)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

func (a *App) checkOnline(ctx context.Context) {
	pctx, cancel := context.WithTimeout(ctx, pingTimeout)
	err := a.api.Ping(pctx)
	cancel()

	if err != nil {
		a.setMode(ctx, ModeOffline)
		return
	}
	a.setMode(ctx, ModeOnline)
}

// StartOnlineStatusWatcher pings the backend now and then every interval
// until ctx is done, keeping Mode current.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	a.checkOnline(ctx)

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
