// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package authtest provides in-memory auth stores for tests that need a
// working account backend without PostgreSQL or Redis.
package authtest

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/taibuivan/dvfmap/internal/auth"
	"github.com/taibuivan/dvfmap/internal/platform/apperr"
)

// ErrUnavailable is returned by stores switched into failure mode.
var ErrUnavailable = errors.New("authtest: store unavailable")

// Users is an in-memory [auth.UserRepository].
type Users struct {
	mu      sync.Mutex
	byID    map[string]*auth.User
	failing error
}

// NewUsers returns an empty user store.
func NewUsers() *Users {
	return &Users{byID: map[string]*auth.User{}}
}

// SetFailing makes every lookup return err until called again with nil.
func (m *Users) SetFailing(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failing = err
}

// Delete removes an account, simulating deletion after a token was issued.
func (m *Users) Delete(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.byID, id)
}

func (m *Users) FindByID(_ context.Context, id string) (*auth.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing != nil {
		return nil, m.failing
	}
	if user, ok := m.byID[id]; ok {
		clone := *user
		return &clone, nil
	}
	return nil, apperr.NotFound("User")
}

func (m *Users) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing != nil {
		return nil, m.failing
	}
	for _, user := range m.byID {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (m *Users) Create(_ context.Context, user *auth.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.byID {
		if existing.Email == user.Email {
			return apperr.Conflict("Email is already registered")
		}
	}
	now := time.Now().UTC()
	user.CreatedAt, user.UpdatedAt = now, now
	clone := *user
	m.byID[user.ID] = &clone
	return nil
}

// Denylist is an in-memory [auth.TokenDenylist].
type Denylist struct {
	mu      sync.Mutex
	revoked map[string]time.Duration
	down    bool
}

// NewDenylist returns an empty denylist.
func NewDenylist() *Denylist {
	return &Denylist{revoked: map[string]time.Duration{}}
}

// SetDown simulates a Redis outage.
func (m *Denylist) SetDown(down bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.down = down
}

// TTL returns the revocation lifetime recorded for tokenID.
func (m *Denylist) TTL(tokenID string) (time.Duration, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ttl, ok := m.revoked[tokenID]
	return ttl, ok
}

func (m *Denylist) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.down {
		return ErrUnavailable
	}
	m.revoked[tokenID] = ttl
	return nil
}

func (m *Denylist) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.down {
		return false, ErrUnavailable
	}
	_, ok := m.revoked[tokenID]
	return ok, nil
}
