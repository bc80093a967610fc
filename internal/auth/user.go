// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements the user identity side of dvfmap: account creation,
credential checks, token issuance and server-side token revocation.

# Architecture

  - Service: orchestrates Register, Login, Profile, Logout and token verification.
  - Repository: PostgreSQL for accounts, Redis for the revoked-token denylist.
  - Handler: the /api/auth routes, with Profile and Logout behind the gateway.

The [Service] also satisfies middleware.TokenVerifier, so the same component
that mints tokens decides whether a presented token is still acceptable.
*/
package auth

import (
	"time"

	"github.com/taibuivan/dvfmap/internal/platform/sec"
)

// # Domain Entities

// User represents a registered account.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"firstName,omitempty"`
	LastName     string    `json:"lastName,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// AuthResult is returned by login and register: the identity plus a fresh token.
type AuthResult struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Token     string `json:"token"`
}

func newAuthResult(user *User, token string) *AuthResult {
	return &AuthResult{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Token:     token,
	}
}

// # Field Identifiers

const (
	FieldEmail     = "email"
	FieldPassword  = "password"
	FieldFirstName = "firstName"
	FieldLastName  = "lastName"
)

// # Constraints

const (
	// MinPasswordLength matches the registration form rule.
	MinPasswordLength = 6

	// MaxPasswordLength counts characters; the service also enforces
	// sec.MaxPasswordBytes for multi-byte input.
	MaxPasswordLength = sec.MaxPasswordBytes

	// MaxNameLength bounds first and last names.
	MaxNameLength = 100
)
