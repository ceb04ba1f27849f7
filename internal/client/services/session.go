// Package services contains application services for the penguin tracker
// client: the session manager, the cached page query engine with its list
// browser, and the mutation engine.
package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/penguintracker/internal/client/client"
	"github.com/dmitrijs2005/penguintracker/internal/client/credstore"
	"github.com/dmitrijs2005/penguintracker/internal/client/models"
	"github.com/dmitrijs2005/penguintracker/internal/common"
	"github.com/dmitrijs2005/penguintracker/internal/logging"
)

// State is the base authentication state.
type State int

const (
	StateIdle State = iota
	StateRestoring
	StateAuthenticated
	StateAnonymous
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRestoring:
		return "restoring"
	case StateAuthenticated:
		return "authenticated"
	case StateAnonymous:
		return "anonymous"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Operation is a session operation in flight. It overlays the base state.
type Operation int

const (
	OpNone Operation = iota
	OpLoggingIn
	OpLoggingOut
	OpRegistering
)

func (o Operation) String() string {
	switch o {
	case OpNone:
		return "none"
	case OpLoggingIn:
		return "logging in"
	case OpLoggingOut:
		return "logging out"
	case OpRegistering:
		return "registering"
	}
	return fmt.Sprintf("Operation(%d)", int(o))
}

// Status is the full observable session status.
type Status struct {
	State State
	Op    Operation
}

// SessionSource hands the current access token to the engines. An empty
// token means no session.
type SessionSource interface {
	AccessToken() string
}

// Authenticator is the part of the backend client the session manager uses.
type Authenticator interface {
	Login(ctx context.Context, creds models.Credentials) (*models.Session, error)
	Register(ctx context.Context, in models.RegisterInput) (*models.Session, error)
}

// SessionManager owns the authentication lifecycle. It is safe for
// concurrent use; at most one of Login, Register and Logout runs at a time,
// the others fail fast with common.ErrOperationInProgress.
type SessionManager struct {
	auth   Authenticator
	store  credstore.Store
	logger logging.Logger

	mu      sync.Mutex
	state   State
	op      Operation
	session *models.Session
}

func NewSessionManager(auth Authenticator, store credstore.Store, logger logging.Logger) *SessionManager {
	return &SessionManager{
		auth:   auth,
		store:  store,
		logger: logger.With("module", "session"),
		state:  StateIdle,
	}
}

// RestoreSession tries a silent login with the stored credentials. It only
// acts from StateIdle and never fails: any problem ends in StateAnonymous.
// Credentials the backend rejects are deleted.
func (m *SessionManager) RestoreSession(ctx context.Context) State {
	m.mu.Lock()
	if m.state != StateIdle || m.op != OpNone {
		state := m.state
		m.mu.Unlock()
		return state
	}
	m.state = StateRestoring
	m.mu.Unlock()

	session, err := m.restore(ctx)
	if err != nil {
		if errors.Is(err, common.ErrStaleCredentials) {
			m.logger.Warn(ctx, "stored credentials dropped", "error", err)
			if cerr := m.store.Clear(context.WithoutCancel(ctx)); cerr != nil {
				m.logger.Error(ctx, "clear stored credentials", "error", cerr)
			}
		} else {
			m.logger.Warn(ctx, "session restore failed", "error", err)
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if session == nil {
		m.state = StateAnonymous
		return m.state
	}
	m.session = session
	m.state = StateAuthenticated
	m.logger.Info(ctx, "session restored", "user_id", session.User.ID)
	return m.state
}

// restore returns (nil, nil) when nothing is stored. Errors wrapping
// common.ErrStaleCredentials mean the stored pair is unusable.
func (m *SessionManager) restore(ctx context.Context) (*models.Session, error) {
	creds, err := m.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrStaleCredentials, err)
	}
	if creds == nil {
		return nil, nil
	}

	session, err := m.auth.Login(ctx, *creds)
	if err != nil {
		if errors.Is(err, client.ErrUnauthorized) {
			return nil, fmt.Errorf("%w: %v", common.ErrStaleCredentials, err)
		}
		return nil, err
	}
	return session, nil
}

func (m *SessionManager) begin(op Operation) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.op != OpNone || m.state == StateRestoring {
		return common.ErrOperationInProgress
	}
	m.op = op
	return nil
}

func (m *SessionManager) end() {
	m.mu.Lock()
	m.op = OpNone
	m.mu.Unlock()
}

// Login exchanges creds for a session, stores them and becomes
// Authenticated. On failure nothing changes and the backend error is
// returned.
func (m *SessionManager) Login(ctx context.Context, creds models.Credentials) (*models.Session, error) {
	if err := m.begin(OpLoggingIn); err != nil {
		return nil, err
	}
	defer m.end()

	session, err := m.auth.Login(ctx, creds)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	if err := m.establish(ctx, creds, session); err != nil {
		return nil, err
	}
	m.logger.Info(ctx, "logged in", "user_id", session.User.ID)
	return session, nil
}

// Register creates the account and logs in with it. Input is expected to be
// validated by the caller (models.RegisterInput.Validate).
func (m *SessionManager) Register(ctx context.Context, in models.RegisterInput) (*models.Session, error) {
	if err := m.begin(OpRegistering); err != nil {
		return nil, err
	}
	defer m.end()

	session, err := m.auth.Register(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	if err := m.establish(ctx, in.Credentials(), session); err != nil {
		return nil, err
	}
	m.logger.Info(ctx, "registered", "user_id", session.User.ID)
	return session, nil
}

func (m *SessionManager) establish(ctx context.Context, creds models.Credentials, session *models.Session) error {
	if err := m.store.Save(context.WithoutCancel(ctx), creds); err != nil {
		return fmt.Errorf("save credentials: %w", err)
	}

	m.mu.Lock()
	m.session = session
	m.state = StateAuthenticated
	m.mu.Unlock()
	return nil
}

// Logout forgets the session and the stored credentials. Store failures
// are logged, never returned; the only possible error is
// common.ErrOperationInProgress.
func (m *SessionManager) Logout(ctx context.Context) error {
	if err := m.begin(OpLoggingOut); err != nil {
		return err
	}
	defer m.end()

	if err := m.store.Clear(context.WithoutCancel(ctx)); err != nil {
		m.logger.Error(ctx, "clear stored credentials", "error", err)
	}

	m.mu.Lock()
	m.session = nil
	m.state = StateAnonymous
	m.mu.Unlock()

	m.logger.Info(ctx, "logged out")
	return nil
}

// Session returns a copy of the current session, or nil.
func (m *SessionManager) Session() *models.Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session == nil {
		return nil
	}
	s := *m.session
	return &s
}

func (m *SessionManager) AccessToken() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session == nil {
		return ""
	}
	return m.session.AccessToken
}

func (m *SessionManager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *SessionManager) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Status{State: m.state, Op: m.op}
}

func (m *SessionManager) IsAuthenticated() bool {
	return m.State() == StateAuthenticated
}
