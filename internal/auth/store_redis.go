// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	redisstore "github.com/taibuivan/dvfmap/internal/platform/redis"
)

// RedisDenylist implements TokenDenylist using Redis keys that expire with the token.
type RedisDenylist struct {
	client redis.UniversalClient
}

// NewDenylist creates a new Redis-backed TokenDenylist.
func NewDenylist(client redis.UniversalClient) *RedisDenylist {
	return &RedisDenylist{client: client}
}

/*
Revoke stores the token id until the token would have expired anyway.

Parameters:
  - context: context.Context
  - tokenID: string (the jti claim)
  - ttl: time.Duration (remaining token lifetime)

Returns:
  - error: Execution errors
*/
func (repository *RedisDenylist) Revoke(context context.Context, tokenID string, ttl time.Duration) error {

	// Already-expired tokens are refused by signature checks alone.
	if ttl <= 0 {
		return nil
	}

	if err := repository.client.Set(context, redisstore.Key(redisstore.NamespaceRevokedToken, tokenID), "1", ttl).Err(); err != nil {
		return fmt.Errorf("redis_denylist_revoke_failed: %w", err)
	}

	return nil
}

/*
IsRevoked reports whether the token id is on the denylist.

Returns:
  - bool: true when revoked
  - error: connectivity errors
*/
func (repository *RedisDenylist) IsRevoked(context context.Context, tokenID string) (bool, error) {
	count, err := repository.client.Exists(context, redisstore.Key(redisstore.NamespaceRevokedToken, tokenID)).Result()
	if err != nil {
		return false, fmt.Errorf("redis_denylist_lookup_failed: %w", err)
	}

	return count > 0, nil
}
