// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package session owns the client's authentication state.

The [Manager] is the only writer of the token and the cached user. Every
transition updates the in-memory state and the credential store under one
lock, then publishes a [State] snapshot; observers therefore never see a
token without the authenticated flag or the reverse.

# Optimistic restore

[Manager.Restore] marks a persisted token as authenticated immediately and
confirms it with a profile fetch in the background. Until that check
completes, IsAuthenticated may report true for a token the server will
refuse. Callers that gate on authentication must tolerate this window or
wait on the channel Restore returns.
*/
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/taibuivan/dvfmap/internal/client/apiclient"
	"github.com/taibuivan/dvfmap/internal/client/clienterr"
	"github.com/taibuivan/dvfmap/internal/client/credstore"
	"github.com/taibuivan/dvfmap/internal/client/notify"
)

// MinPasswordLength mirrors the server rule so obviously short passwords fail locally.
const MinPasswordLength = 6

// User is the signed-in account.
type User = apiclient.User

// AuthAPI is the subset of the Auth API the manager needs.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (*apiclient.AuthResult, error)
	Register(ctx context.Context, registration apiclient.Registration) (*apiclient.AuthResult, error)
	Profile(ctx context.Context, token string) (*apiclient.User, error)
	Logout(ctx context.Context, token string) error
}

// State is a snapshot published on every transition.
type State struct {
	Authenticated bool
	Token         string
	User          *User
}

// Registration is the sign-up form. ConfirmPassword must equal Password.
type Registration struct {
	Email           string
	Password        string
	ConfirmPassword string
	FirstName       string
	LastName        string
}

// Manager is safe for concurrent use.
type Manager struct {
	api    AuthAPI
	store  credstore.Store
	logger *slog.Logger

	mu    sync.Mutex
	token string
	user  *User

	events notify.Hub[State]
}

// New constructs a [Manager]. Call [Manager.Restore] once at start-up.
func New(api AuthAPI, store credstore.Store, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{api: api, store: store, logger: logger}
}

// # Queries

// IsAuthenticated reports whether a token is held.
func (m *Manager) IsAuthenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token != ""
}

// Token returns the current bearer token, "" when signed out.
func (m *Manager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

// CurrentUser returns a copy of the cached user, nil when unknown.
func (m *Manager) CurrentUser() *User {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.user == nil {
		return nil
	}
	clone := *m.user
	return &clone
}

// State returns the current snapshot.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

// Subscribe delivers one [State] per transition, in order.
func (m *Manager) Subscribe() (<-chan State, func()) {
	return m.events.Subscribe()
}

// # Transitions

/*
Login signs in. On failure the previous state is left untouched.

Returns:
  - error: clienterr InvalidCredentials, NetworkError or ServerError, or a
    credential store failure
*/
func (m *Manager) Login(ctx context.Context, email, password string) (*State, error) {
	result, err := m.api.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return m.establish(ctx, result)
}

/*
Register creates an account and signs in.

Description: A confirmation that differs from the password fails locally
with PasswordMismatch and nothing is sent.
*/
func (m *Manager) Register(ctx context.Context, registration Registration) (*State, error) {
	if registration.Password != registration.ConfirmPassword {
		return nil, clienterr.New(clienterr.KindPasswordMismatch, "Passwords do not match")
	}
	if len(registration.Password) < MinPasswordLength {
		return nil, clienterr.New(clienterr.KindBadRequest, fmt.Sprintf("Password must be at least %d characters", MinPasswordLength))
	}

	result, err := m.api.Register(ctx, apiclient.Registration{
		Email:     registration.Email,
		Password:  registration.Password,
		FirstName: registration.FirstName,
		LastName:  registration.LastName,
	})
	if err != nil {
		return nil, err
	}
	return m.establish(ctx, result)
}

// establish persists a fresh token and user, then flips the in-memory state.
func (m *Manager) establish(ctx context.Context, result *apiclient.AuthResult) (*State, error) {
	user := result.User()
	encoded, err := json.Marshal(user)
	if err != nil {
		return nil, fmt.Errorf("session: encode user: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	err = m.store.SetMany(ctx, map[string]string{
		credstore.KeyToken: result.Token,
		credstore.KeyUser:  string(encoded),
	})
	if err != nil {
		return nil, fmt.Errorf("session: persist credentials: %w", err)
	}

	m.token = result.Token
	m.user = &user

	state := m.snapshotLocked()
	m.events.Publish(state)

	m.logger.InfoContext(ctx, "session_established", slog.String("user_id", user.ID))
	return &state, nil
}

// Logout clears the session locally. It is idempotent and never fails; a
// store error is logged and the in-memory state is cleared regardless.
func (m *Manager) Logout() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clearLocked()
}

// logoutIfCurrent clears the session only if token is still the active one,
// so a late 401 for an old token cannot sign out a newer login.
func (m *Manager) logoutIfCurrent(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.token == token {
		m.clearLocked()
	}
}

func (m *Manager) clearLocked() {
	if err := m.store.Delete(context.Background(), credstore.KeyToken, credstore.KeyUser); err != nil {
		m.logger.Warn("session_store_clear_failed", slog.Any("error", err))
	}

	wasAuthenticated := m.token != ""
	m.token = ""
	m.user = nil

	if wasAuthenticated {
		m.events.Publish(m.snapshotLocked())
		m.logger.Info("session_cleared")
	}
}

/*
Profile fetches the current account and refreshes the cached copy.

Description: Any Unauthorized answer signs the session out before the error
is returned. This is the only automatic recovery path.
*/
func (m *Manager) Profile(ctx context.Context) (*User, error) {
	token := m.Token()

	user, err := m.api.Profile(ctx, token)
	if err != nil {
		if errors.Is(err, clienterr.ErrUnauthorized) {
			m.logger.InfoContext(ctx, "session_rejected_by_server", slog.String("kind", string(clienterr.KindOf(err))))
			m.logoutIfCurrent(token)
		}
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.token == token && token != "" {
		if encoded, err := json.Marshal(user); err == nil {
			if err := m.store.SetMany(ctx, map[string]string{credstore.KeyUser: string(encoded)}); err != nil {
				m.logger.WarnContext(ctx, "session_store_user_failed", slog.Any("error", err))
			}
		}
		clone := *user
		m.user = &clone
	}

	return user, nil
}

/*
Restore loads persisted credentials once at start-up.

Description: With a stored token the manager becomes authenticated at once,
then verifies the token with a profile fetch in the background. Any failure
of that check signs the session out. The returned channel yields the
verification result (nil when there was nothing to restore) and is closed.
*/
func (m *Manager) Restore(ctx context.Context) <-chan error {
	done := make(chan error, 1)

	token, user, err := m.load(ctx)
	if err != nil || token == "" {
		done <- err
		close(done)
		return done
	}

	m.mu.Lock()
	m.token = token
	m.user = user
	m.events.Publish(m.snapshotLocked())
	m.mu.Unlock()

	m.logger.DebugContext(ctx, "session_restored_optimistically")

	go func() {
		defer close(done)
		if _, err := m.Profile(ctx); err != nil {
			m.logger.InfoContext(ctx, "session_restore_rejected", slog.Any("error", err))
			m.logoutIfCurrent(token)
			done <- err
			return
		}
		done <- nil
	}()

	return done
}

func (m *Manager) load(ctx context.Context) (string, *User, error) {
	token, ok, err := m.store.Get(ctx, credstore.KeyToken)
	if err != nil {
		return "", nil, fmt.Errorf("session: read token: %w", err)
	}
	if !ok || token == "" {
		return "", nil, nil
	}

	raw, ok, err := m.store.Get(ctx, credstore.KeyUser)
	if err != nil {
		return "", nil, fmt.Errorf("session: read user: %w", err)
	}

	var user *User
	if ok {
		var decoded User
		if err := json.Unmarshal([]byte(raw), &decoded); err == nil {
			user = &decoded
		} else {
			m.logger.WarnContext(ctx, "session_stored_user_corrupt", slog.Any("error", err))
		}
	}

	return token, user, nil
}

// Revoke asks the server to revoke the token, then signs out locally. The
// local sign-out happens even when the server cannot be reached; that error
// is returned for reporting only.
func (m *Manager) Revoke(ctx context.Context) error {
	token := m.Token()
	if token == "" {
		m.Logout()
		return nil
	}

	err := m.api.Logout(ctx, token)
	if err != nil {
		m.logger.WarnContext(ctx, "session_remote_logout_failed", slog.Any("error", err))
	}

	m.logoutIfCurrent(token)
	return err
}

func (m *Manager) snapshotLocked() State {
	state := State{Authenticated: m.token != "", Token: m.token}
	if m.user != nil {
		clone := *m.user
		state.User = &clone
	}
	return state
}
