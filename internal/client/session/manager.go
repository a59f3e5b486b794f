// Package session owns the authenticated session lifecycle of the
// tendertrack client: credential submission, the optional second-factor
// step-up, token and profile persistence, restoration on startup, and
// teardown on logout.
//
// The Manager is the sole authority over the session state machine. Its
// invariants:
//
//   - token and user profile are committed as a single unit, durable store
//     first and memory second; a failed write rolls memory back, so no
//     reader ever observes a half-written pair;
//   - the pending credential held during an in-progress multi-factor login
//     lives only in memory, is never logged, and is wiped on consumption
//     or cancellation;
//   - state transitions are mutually exclusive in time; concurrent calls
//     serialize on an internal guard while status/user/token reads never
//     block and observe the last fully committed state.
package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/grovellows/tendertrack/internal/client/api"
	"github.com/grovellows/tendertrack/internal/client/models"
	"github.com/grovellows/tendertrack/internal/client/store"
	"github.com/grovellows/tendertrack/internal/common"
	"github.com/grovellows/tendertrack/internal/dbx"
	"github.com/grovellows/tendertrack/internal/logging"
)

// pendingCredential is held only between an "MFA required" login response
// and the matching verification or cancellation.
type pendingCredential struct {
	email    string
	password []byte
}

func (p *pendingCredential) wipe() {
	common.WipeByteArray(p.password)
	p.password = nil
}

// LoginOutcome is the result of a credential submission.
// SecondFactorRequired=true is not an error: the caller should collect a
// code and call VerifySecondFactor.
type LoginOutcome struct {
	SecondFactorRequired bool
	User                 *models.UserProfile
}

// Manager is the session state machine. Construct one per process with
// NewManager and hand it to whatever UI layer needs it; there is no
// package-level instance.
type Manager struct {
	client api.Client
	db     *sql.DB
	logger logging.Logger

	// mu serializes the five state-transition operations.
	mu   sync.Mutex
	busy atomic.Bool

	// stateMu guards the committed snapshot below. Writers hold mu as
	// well; readers take only stateMu, so observation never waits on an
	// in-flight transition.
	stateMu sync.RWMutex
	status  Status
	token   string
	user    *models.UserProfile

	// pending is touched only under mu.
	pending *pendingCredential
}

// NewManager builds a Manager over the remote authenticator and the local
// durable store database. The initial status is StatusUnknown until
// Restore runs.
func NewManager(client api.Client, db *sql.DB, logger logging.Logger) *Manager {
	return &Manager{
		client: client,
		db:     db,
		logger: logger,
		status: StatusUnknown,
	}
}

// Status returns the last committed status without blocking.
func (m *Manager) Status() Status {
	m.stateMu.RLock()
	defer m.stateMu.RUnlock()
	return m.status
}

// Token returns the last committed bearer token, or "" when not
// authenticated.
func (m *Manager) Token() string {
	m.stateMu.RLock()
	defer m.stateMu.RUnlock()
	return m.token
}

// User returns the last committed profile, or nil when not authenticated.
func (m *Manager) User() *models.UserProfile {
	m.stateMu.RLock()
	defer m.stateMu.RUnlock()
	if m.user == nil {
		return nil
	}
	u := *m.user
	return &u
}

// Busy reports whether a state transition is currently in flight. Derived
// from the transition guard; UI layers can disable buttons off it.
func (m *Manager) Busy() bool {
	return m.busy.Load()
}

func (m *Manager) begin() {
	m.mu.Lock()
	m.busy.Store(true)
}

func (m *Manager) end() {
	m.busy.Store(false)
	m.mu.Unlock()
}

// commit publishes a fully formed state for readers.
func (m *Manager) commit(status Status, token string, user *models.UserProfile) {
	m.stateMu.Lock()
	m.status = status
	m.token = token
	m.user = user
	m.stateMu.Unlock()
}

// Restore reads the persisted session once at startup. Re-invocation while
// authenticated is a no-op returning the current status. Unreadable or
// partially present persisted data is treated as no session, never as a
// fatal error.
func (m *Manager) Restore(ctx context.Context) (Status, error) {
	m.begin()
	defer m.end()

	if m.Status() == StatusAuthenticated {
		return StatusAuthenticated, nil
	}

	m.commit(StatusRestoring, "", nil)

	repo := store.NewSQLiteRepository(m.db)

	tokenBytes, err := repo.Get(ctx, store.KeyToken)
	if err != nil {
		m.logger.Warn(ctx, "persisted token unreadable, treating as absent", "error", err.Error())
		tokenBytes = nil
	}
	userBytes, err := repo.Get(ctx, store.KeyUser)
	if err != nil {
		m.logger.Warn(ctx, "persisted profile unreadable, treating as absent", "error", err.Error())
		userBytes = nil
	}

	if len(tokenBytes) == 0 || len(userBytes) == 0 {
		// Nothing persisted, or a half-written pair left behind by an
		// interrupted process. Either way: no session.
		m.clearPersisted(ctx)
		m.commit(StatusUnauthenticated, "", nil)
		return StatusUnauthenticated, nil
	}

	user, err := models.DecodeUserProfile(userBytes)
	if err != nil {
		m.logger.Warn(ctx, "persisted profile corrupt, discarding session", "error", err.Error())
		m.clearPersisted(ctx)
		m.commit(StatusUnauthenticated, "", nil)
		return StatusUnauthenticated, nil
	}

	m.commit(StatusAuthenticated, string(tokenBytes), user)
	m.logger.Info(ctx, "session restored", "user_id", user.ID)
	return StatusAuthenticated, nil
}

// Login submits credentials to the remote authenticator. Three outcomes:
// direct success (authenticated, profile returned), second factor required
// (pending credential stashed, not an error), or failure (state unchanged).
// The caller keeps ownership of password and may wipe it after the call.
func (m *Manager) Login(ctx context.Context, email string, password []byte) (*LoginOutcome, error) {
	m.begin()
	defer m.end()

	switch m.Status() {
	case StatusUnknown, StatusRestoring, StatusUnauthenticated:
	default:
		return nil, fmt.Errorf("%w: login while %s", ErrInvalidState, m.Status())
	}

	res, err := m.client.Login(ctx, email, password, "")
	if err != nil {
		m.commit(StatusUnauthenticated, "", nil)
		return nil, mapAuthError(err, ErrAuthenticationFailed)
	}

	if res.MFARequired {
		m.pending = &pendingCredential{
			email:    email,
			password: append([]byte(nil), password...),
		}
		m.commit(StatusAwaitingSecondFactor, "", nil)
		m.logger.Info(ctx, "second factor required")
		return &LoginOutcome{SecondFactorRequired: true}, nil
	}

	if err := m.persistAndCommit(ctx, res.Token, res.User); err != nil {
		m.commit(StatusUnauthenticated, "", nil)
		return nil, err
	}
	m.logger.Info(ctx, "login successful", "user_id", res.User.ID)
	return &LoginOutcome{User: res.User}, nil
}

// VerifySecondFactor resubmits the held credential plus code. Valid only in
// StatusAwaitingSecondFactor. On failure the pending credential is kept so
// the user can retry without re-entering the password.
func (m *Manager) VerifySecondFactor(ctx context.Context, code string) (*models.UserProfile, error) {
	m.begin()
	defer m.end()

	if m.Status() != StatusAwaitingSecondFactor || m.pending == nil {
		return nil, fmt.Errorf("%w: no second factor pending", ErrInvalidState)
	}

	res, err := m.client.Login(ctx, m.pending.email, m.pending.password, code)
	if err != nil {
		return nil, mapAuthError(err, ErrInvalidSecondFactor)
	}
	if res.MFARequired || res.Token == "" {
		return nil, fmt.Errorf("%w: code not accepted", ErrInvalidSecondFactor)
	}

	if err := m.persistAndCommit(ctx, res.Token, res.User); err != nil {
		// Keep the pending credential; the user may retry once the
		// store recovers.
		return nil, err
	}

	m.pending.wipe()
	m.pending = nil
	m.logger.Info(ctx, "second factor verified", "user_id", res.User.ID)
	return res.User, nil
}

// CancelSecondFactor abandons an in-progress multi-factor login, erasing
// the held credential. In any other state it returns ErrInvalidState and
// mutates nothing.
func (m *Manager) CancelSecondFactor() error {
	m.begin()
	defer m.end()

	if m.Status() != StatusAwaitingSecondFactor || m.pending == nil {
		return fmt.Errorf("%w: no second factor pending", ErrInvalidState)
	}

	m.pending.wipe()
	m.pending = nil
	m.commit(StatusUnauthenticated, "", nil)
	return nil
}

// Logout clears the in-memory session and the durable store and notifies
// the server best-effort. Local teardown always happens: a failed server
// call is only logged, and a failed store write is reported after memory
// is already cleared. Idempotent.
func (m *Manager) Logout(ctx context.Context) error {
	m.begin()
	defer m.end()

	if token := m.Token(); token != "" {
		if err := m.client.Logout(ctx, token); err != nil {
			m.logger.Warn(ctx, "server-side logout failed, clearing local session anyway", "error", err.Error())
		}
	}

	if m.pending != nil {
		m.pending.wipe()
		m.pending = nil
	}

	storeErr := m.clearPersisted(ctx)
	m.commit(StatusUnauthenticated, "", nil)

	if storeErr != nil {
		return fmt.Errorf("%w: %v", ErrPersistenceFailure, storeErr)
	}
	return nil
}

// UpdateUser refreshes the cached profile without a full login, e.g. after
// a profile edit. Store and memory move together; status is untouched.
func (m *Manager) UpdateUser(ctx context.Context, user *models.UserProfile) error {
	m.begin()
	defer m.end()

	if m.Status() != StatusAuthenticated {
		return fmt.Errorf("%w: no authenticated session to update", ErrInvalidState)
	}
	if err := user.Validate(); err != nil {
		return err
	}

	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistenceFailure, err)
	}

	err = dbx.WithTx(ctx, m.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return store.NewSQLiteRepository(tx).Set(ctx, store.KeyUser, data)
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistenceFailure, err)
	}

	m.commit(StatusAuthenticated, m.Token(), user)
	return nil
}

// UpdateToken rotates the bearer token in place, preserving the
// authenticated status and cached profile.
func (m *Manager) UpdateToken(ctx context.Context, token string) error {
	m.begin()
	defer m.end()

	if m.Status() != StatusAuthenticated {
		return fmt.Errorf("%w: no authenticated session to update", ErrInvalidState)
	}
	if token == "" {
		return fmt.Errorf("%w: empty token", ErrPersistenceFailure)
	}

	err := dbx.WithTx(ctx, m.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return store.NewSQLiteRepository(tx).Set(ctx, store.KeyToken, []byte(token))
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistenceFailure, err)
	}

	m.commit(StatusAuthenticated, token, m.User())
	return nil
}

// persistAndCommit writes the token+profile pair in one transaction, then
// publishes the authenticated state. On write failure memory is left
// untouched, so it never runs ahead of durable storage.
func (m *Manager) persistAndCommit(ctx context.Context, token string, user *models.UserProfile) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistenceFailure, err)
	}

	err = dbx.WithTx(ctx, m.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := store.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, store.KeyToken, []byte(token)); err != nil {
			return err
		}
		return repo.Set(ctx, store.KeyUser, data)
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistenceFailure, err)
	}

	m.commit(StatusAuthenticated, token, user)
	return nil
}

// clearPersisted removes both session keys in one transaction.
func (m *Manager) clearPersisted(ctx context.Context) error {
	return dbx.WithTx(ctx, m.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return store.NewSQLiteRepository(tx).Clear(ctx)
	})
}

// mapAuthError translates API client sentinels into the session taxonomy.
// rejection is the error to use for a server-side credential rejection
// (ErrAuthenticationFailed for login, ErrInvalidSecondFactor for the
// second-factor branch).
func mapAuthError(err error, rejection error) error {
	if errors.Is(err, api.ErrUnavailable) {
		return fmt.Errorf("%w: %v", ErrTransportFailure, err)
	}
	return fmt.Errorf("%w: %v", rejection, err)
}
