// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"time"
)

// # User Data Access

// UserRepository defines the data access contract for user accounts.
type UserRepository interface {

	/*
		FindByID returns the account with the given ID.

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound or database retrieval failures
	*/
	FindByID(context context.Context, id string) (*User, error)

	/*
		FindByEmail returns the account with the given (normalized) email.

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound or database retrieval failures
	*/
	FindByEmail(context context.Context, email string) (*User, error)

	/*
		Create persists a brand-new user account.

		Returns:
		  - error: apperr.Conflict if the email is taken, or persistence failures
	*/
	Create(context context.Context, user *User) error
}

// # Volatile Data Access

// TokenDenylist records tokens that were logged out before their expiry.
type TokenDenylist interface {

	/*
		Revoke marks a token id as unusable for ttl (the token's remaining lifetime).
	*/
	Revoke(context context.Context, tokenID string, ttl time.Duration) error

	/*
		IsRevoked reports whether the token id has been revoked.
	*/
	IsRevoked(context context.Context, tokenID string) (bool, error)
}
