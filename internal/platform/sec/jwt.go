// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (Hashing, JWT Signing) from
// the domain logic. Tokens are HS256-signed with a single server secret and
// carry a unique jti so an individual token can be revoked before it expires.
package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/taibuivan/dvfmap/pkg/uuid"
)

// # Verification Outcomes

var (
	// ErrTokenExpired means the signature is valid but the token is past its expiry.
	ErrTokenExpired = errors.New("sec: token expired")

	// ErrTokenInvalid covers every other verification failure (format, signature, claims).
	ErrTokenInvalid = errors.New("sec: token invalid")

	// ErrTokenRevoked means the token verified but was logged out server-side.
	ErrTokenRevoked = errors.New("sec: token revoked")
)

// AuthClaims represents the payload embedded inside an access token.
//
// The user id and email travel inside the token so the gateway can attach an
// identity to the request without a database round-trip.
type AuthClaims struct {
	jwt.RegisteredClaims

	UserID string `json:"id"`
	Email  string `json:"email"`
}

// TokenService handles generation and verification of HS256 JWT tokens.
type TokenService struct {
	secret []byte
	issuer string
	now    func() time.Time
}

// NewTokenService creates a new TokenService from a shared secret.
func NewTokenService(secret, issuer string) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("sec: empty signing secret")
	}

	return &TokenService{
		secret: []byte(secret),
		issuer: issuer,
		now:    time.Now,
	}, nil
}

// WithClock returns a copy of the service that reads time from clock.
// Used by tests to mint already-expired tokens.
func (service *TokenService) WithClock(clock func() time.Time) *TokenService {
	clone := *service
	clone.now = clock
	return &clone
}

// GenerateAccessToken creates a new signed access token for a user.
func (service *TokenService) GenerateAccessToken(userID, email string, timeToLive time.Duration) (string, error) {
	currentTime := service.now()
	claims := AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New(),
			Subject:   userID,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(timeToLive)),
		},
		UserID: userID,
		Email:  email,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(service.secret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signedToken, nil
}

/*
VerifyToken checks the signature and validity of a JWT string.

Returns:
  - *AuthClaims: the verified claims
  - error: wraps [ErrTokenExpired] when only the expiry check failed,
    [ErrTokenInvalid] for anything else
*/
func (service *TokenService) VerifyToken(tokenString string) (*AuthClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AuthClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return service.secret, nil
	},
		jwt.WithIssuer(service.issuer),
		jwt.WithTimeFunc(service.now),
		jwt.WithExpirationRequired(),
	)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %v", ErrTokenExpired, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	claims, ok := token.Claims.(*AuthClaims)
	if !ok || !token.Valid || claims.UserID == "" {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}
