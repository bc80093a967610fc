// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Bcrypt cost bounds accepted by [NewHasher]. BCRYPT_COST defaults to DefaultHashCost.
const (
	MinHashCost     = bcrypt.MinCost
	MaxHashCost     = bcrypt.MaxCost
	DefaultHashCost = bcrypt.DefaultCost
)

// MaxPasswordBytes is the bcrypt input limit. Longer passwords are rejected
// rather than silently truncated.
const MaxPasswordBytes = 72

// ErrPasswordTooLong is returned by [Hasher.Hash] past [MaxPasswordBytes].
var ErrPasswordTooLong = errors.New("sec: password exceeds 72 bytes")

// Hasher stores and checks account passwords with bcrypt.
type Hasher struct {
	cost int

	// decoy is compared against when the account does not exist, so an
	// unknown email costs as much as a wrong password.
	decoy []byte
}

// NewHasher validates cost and precomputes the decoy hash.
func NewHasher(cost int) (*Hasher, error) {
	if cost < MinHashCost || cost > MaxHashCost {
		return nil, fmt.Errorf("sec: bcrypt cost %d outside [%d, %d]", cost, MinHashCost, MaxHashCost)
	}

	decoy, err := bcrypt.GenerateFromPassword([]byte("dvfmap-decoy-password"), cost)
	if err != nil {
		return nil, fmt.Errorf("sec: failed to prepare decoy hash: %w", err)
	}

	return &Hasher{cost: cost, decoy: decoy}, nil
}

// Hash returns the bcrypt encoding of password.
func (h *Hasher) Hash(password string) (string, error) {
	if len(password) > MaxPasswordBytes {
		return "", ErrPasswordTooLong
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("sec: failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// Matches reports whether password produced hash.
func (h *Hasher) Matches(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// Burn runs one comparison against the decoy and discards the result.
func (h *Hasher) Burn(password string) {
	_ = bcrypt.CompareHashAndPassword(h.decoy, []byte(password))
}
