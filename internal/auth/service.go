// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/dvfmap/internal/platform/apperr"
	"github.com/taibuivan/dvfmap/internal/platform/sec"
	"github.com/taibuivan/dvfmap/pkg/uuid"
)

// # Contracts & Types

// TokenProvider defines the contract for issuing and checking access tokens.
type TokenProvider interface {
	GenerateAccessToken(userID, email string, timeToLive time.Duration) (string, error)
	VerifyToken(token string) (*sec.AuthClaims, error)
}

// PasswordHasher stores and checks passwords. Burn spends the same work as a
// failed Matches and is used when the account does not exist.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Matches(hash, password string) bool
	Burn(password string)
}

// Service implements user authentication use cases.
type Service struct {
	userRepository UserRepository
	denylist       TokenDenylist
	tokenProvider  TokenProvider
	passwords      PasswordHasher
	tokenTTL       time.Duration
	logger         *slog.Logger
	now            func() time.Time
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(
	userRepo UserRepository,
	denylist TokenDenylist,
	tokenProv TokenProvider,
	passwords PasswordHasher,
	tokenTTL time.Duration,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		userRepository: userRepo,
		denylist:       denylist,
		tokenProvider:  tokenProv,
		passwords:      passwords,
		tokenTTL:       tokenTTL,
		logger:         logger,
		now:            time.Now,
	}
}

// normalizeEmail lowercases and trims so lookups are case-insensitive.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// # Registration

// RegisterInput holds the data required to create an account.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

/*
Register creates an account and signs the new user in.

Parameters:
  - context: context.Context
  - input: RegisterInput (already validated by the handler)

Returns:
  - *AuthResult: identity and token
  - error: Conflict if the email is taken, or storage errors
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*AuthResult, error) {
	email := normalizeEmail(input.Email)

	// Early uniqueness check for a friendly error; the unique index still guards races.
	if _, err := service.userRepository.FindByEmail(context, email); err == nil {
		return nil, apperr.Conflict("Email is already registered")
	} else if !apperr.HasCode(err, apperr.CodeNotFound) {
		return nil, fmt.Errorf("auth_service_register_lookup_failed: %w", err)
	}

	hashedPassword, err := service.passwords.Hash(input.Password)
	if errors.Is(err, sec.ErrPasswordTooLong) {
		return nil, apperr.ValidationError("Validation failed", apperr.FieldError{
			Field:   FieldPassword,
			Message: fmt.Sprintf("Maximum %d bytes", sec.MaxPasswordBytes),
		})
	}
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	user := &User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hashedPassword,
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
	}

	if err := service.userRepository.Create(context, user); err != nil {
		if apperr.IsAppError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("auth_service_register_failed: %w", err)
	}

	token, err := service.tokenProvider.GenerateAccessToken(user.ID, user.Email, service.tokenTTL)
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	service.logger.InfoContext(context, "user_registered", slog.String("user_id", user.ID))

	return newAuthResult(user, token), nil
}

// # Authentication Flow

/*
Login validates credentials and issues a token.

Description: An unknown email and a wrong password produce the same error
and the same bcrypt work, so the endpoint cannot be used to enumerate accounts.

Returns:
  - *AuthResult: identity and token
  - error: apperr.InvalidCredentials or internal failures
*/
func (service *Service) Login(context context.Context, email, password string) (*AuthResult, error) {
	user, err := service.userRepository.FindByEmail(context, normalizeEmail(email))
	if err != nil {
		if apperr.HasCode(err, apperr.CodeNotFound) {
			service.passwords.Burn(password)
			return nil, apperr.InvalidCredentials()
		}
		return nil, fmt.Errorf("auth_service_login_lookup_failed: %w", err)
	}

	if !service.passwords.Matches(user.PasswordHash, password) {
		return nil, apperr.InvalidCredentials()
	}

	token, err := service.tokenProvider.GenerateAccessToken(user.ID, user.Email, service.tokenTTL)
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	return newAuthResult(user, token), nil
}

// Profile returns the account behind an authorized request.
func (service *Service) Profile(context context.Context, userID string) (*User, error) {
	user, err := service.userRepository.FindByID(context, userID)
	if err != nil {
		if apperr.IsAppError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("auth_service_profile_failed: %w", err)
	}
	return user, nil
}

/*
Logout revokes the presented token until its natural expiry.

Description: Idempotent. Revoking an already-revoked token rewrites the same key.

Parameters:
  - context: context.Context
  - claims: *sec.AuthClaims (the verified token)
*/
func (service *Service) Logout(context context.Context, claims *sec.AuthClaims) error {
	if claims == nil || claims.ID == "" {
		return nil
	}

	var remaining time.Duration
	if claims.ExpiresAt != nil {
		remaining = claims.ExpiresAt.Sub(service.now())
	}

	if err := service.denylist.Revoke(context, claims.ID, remaining); err != nil {
		return fmt.Errorf("auth_service_logout_failed: %w", err)
	}

	return nil
}

// # Token Verification

/*
VerifyToken checks signature, expiry and revocation of a bearer token.

Description: Implements middleware.TokenVerifier. When the denylist cannot be
reached the token is accepted and a warning is logged: an outage re-admits
logged-out tokens until they expire instead of locking every user out.

Returns:
  - *sec.AuthClaims: the verified identity
  - error: wraps sec.ErrTokenExpired, sec.ErrTokenRevoked or sec.ErrTokenInvalid
*/
func (service *Service) VerifyToken(context context.Context, token string) (*sec.AuthClaims, error) {
	claims, err := service.tokenProvider.VerifyToken(token)
	if err != nil {
		if errors.Is(err, sec.ErrTokenExpired) || errors.Is(err, sec.ErrTokenInvalid) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", sec.ErrTokenInvalid, err)
	}

	if claims.ID == "" {
		return claims, nil
	}

	revoked, err := service.denylist.IsRevoked(context, claims.ID)
	if err != nil {
		service.logger.WarnContext(context, "token_denylist_unavailable", slog.Any("error", err))
		return claims, nil
	}
	if revoked {
		return nil, sec.ErrTokenRevoked
	}

	return claims, nil
}
