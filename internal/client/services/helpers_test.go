package services

import (
	"context"
	"errors"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"github.com/dmitrijs2005/penguintracker/internal/client/client"
	"github.com/dmitrijs2005/penguintracker/internal/client/credstore"
	"github.com/dmitrijs2005/penguintracker/internal/client/models"
	"github.com/dmitrijs2005/penguintracker/internal/logging"
	"github.com/dmitrijs2005/penguintracker/internal/server"
	"github.com/dmitrijs2005/penguintracker/internal/server/config"
	"github.com/stretchr/testify/require"
)

// ---- helpers ----

// startBackend serves the reference backend with the sample colony loaded.
func startBackend(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.PasswordHashCost = 4

	app, err := server.NewApp(context.Background(), cfg, logging.Nop())
	require.NoError(t, err)

	srv := httptest.NewServer(app.Handler())
	t.Cleanup(srv.Close)
	return srv
}

func newHTTPClient(t *testing.T, baseURL string) *client.HTTPClient {
	t.Helper()
	c, err := client.NewHTTPClient(baseURL)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

// openStore opens the credential store kept in dataDir, the way the CLI
// does on start. Call it again with the same dir to simulate a new process.
func openStore(t *testing.T, dataDir string) *credstore.SecureStore {
	t.Helper()

	db, err := client.InitDatabase(context.Background(), filepath.Join(dataDir, "client.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	key, err := credstore.DeviceKey(dataDir)
	require.NoError(t, err)
	return credstore.NewSecureStore(db, key)
}

// signedIn registers a fresh account against baseURL and returns a session
// manager holding it.
func signedIn(t *testing.T, baseURL string) (*SessionManager, *client.HTTPClient) {
	t.Helper()

	c := newHTTPClient(t, baseURL)
	sm := NewSessionManager(c, &memStore{}, logging.Nop())
	_, err := sm.Register(context.Background(), models.RegisterInput{
		Name:     "Pat",
		Email:    "pat@palmer.org",
		Password: "password123",
		Confirm:  "password123",
	})
	require.NoError(t, err)
	return sm, c
}

func validInput(species, island string) models.PenguinInput {
	return models.PenguinInput{
		Species:         species,
		Island:          island,
		BeakLengthMm:    models.Ptr(47.5),
		BeakDepthMm:     models.Ptr(15.0),
		FlipperLengthMm: models.Ptr(215.0),
		BodyMassG:       models.Ptr(5000.0),
		Sex:             models.Ptr(models.SexFemale),
	}
}

// memStore is an in-memory credstore.Store with injectable failures.
type memStore struct {
	mu       sync.Mutex
	creds    *models.Credentials
	saves    int
	loadErr  error
	saveErr  error
	clearErr error
}

func (s *memStore) Load(context.Context) (*models.Credentials, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	if s.creds == nil {
		return nil, nil
	}
	c := *s.creds
	return &c, nil
}

func (s *memStore) Save(_ context.Context, c models.Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saves++
	s.creds = &c
	return nil
}

func (s *memStore) Clear(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	// partial failure: the pair is gone but the error is still reported
	s.creds = nil
	return s.clearErr
}

func (s *memStore) stored() *models.Credentials {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.creds
}

// fakeAuth answers Login and Register from canned results and can hold
// calls until released.
type fakeAuth struct {
	session *models.Session
	err     error
	hold    chan struct{}
	started chan struct{}
}

func (f *fakeAuth) wait(ctx context.Context) error {
	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.hold != nil {
		select {
		case <-f.hold:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return f.err
}

func (f *fakeAuth) Login(ctx context.Context, _ models.Credentials) (*models.Session, error) {
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	return f.session, nil
}

func (f *fakeAuth) Register(ctx context.Context, _ models.RegisterInput) (*models.Session, error) {
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	return f.session, nil
}

// staticSession is a SessionSource with a fixed token.
type staticSession string

func (s staticSession) AccessToken() string { return string(s) }

// fakeFetcher counts ListPenguins calls and blocks each until a result is
// pushed to results.
type fakeFetcher struct {
	mu      sync.Mutex
	calls   int
	results chan fetchResult
	started chan models.Query
}

type fetchResult struct {
	page *models.Page
	err  error
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		results: make(chan fetchResult, 8),
		started: make(chan models.Query, 8),
	}
}

func (f *fakeFetcher) ListPenguins(ctx context.Context, _ string, q models.Query) (*models.Page, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	select {
	case f.started <- q:
	default:
	}
	select {
	case r := <-f.results:
		return r.page, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (f *fakeFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func pageOf(totalPages int, ids ...int64) *models.Page {
	p := &models.Page{Penguins: []models.Penguin{}, TotalCount: len(ids), TotalPages: totalPages}
	for _, id := range ids {
		p.Penguins = append(p.Penguins, models.Penguin{ID: id, Species: "Adelie", Island: "Dream"})
	}
	return p
}

// fetchFunc adapts a function to PageFetcher.
type fetchFunc func(ctx context.Context, token string, q models.Query) (*models.Page, error)

func (f fetchFunc) ListPenguins(ctx context.Context, token string, q models.Query) (*models.Page, error) {
	return f(ctx, token, q)
}

var errBoom = errors.New("boom")
