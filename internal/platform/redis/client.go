// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package redis provides the client for volatile data and the key layout used
in it.

Two kinds of keys live in Redis:

  - auth:revoked:<jti>   logged-out tokens, expiring with the token itself
  - dvf:ventes:<hash>    cached property-sale pages, expiring after DVF_CACHE_TTL

Losing Redis never loses user data; it only re-admits revoked tokens until
they expire and sends every query to PostgreSQL.
*/
package redis

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	dialTimeout  = 3 * time.Second
	readTimeout  = 2 * time.Second
	writeTimeout = 2 * time.Second
	pingTimeout  = 2 * time.Second
)

// Key namespaces.
const (
	NamespaceRevokedToken = "auth:revoked"
	NamespaceSalesQuery   = "dvf:ventes"
)

// Key joins a namespace and an identifier with ':'.
func Key(namespace string, parts ...string) string {
	return namespace + ":" + strings.Join(parts, ":")
}

// Options configures [NewClient].
type Options struct {
	URL      string
	PoolSize int
}

// NewClient parses the URL, connects and pings.
func NewClient(ctx context.Context, options Options, logger *slog.Logger) (*redis.Client, error) {
	clientOptions, err := buildOptions(options)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(clientOptions)

	if err := Ping(ctx, client); err != nil {
		_ = client.Close()
		return nil, err
	}

	logger.Info("redis_client_connected",
		slog.String("addr", clientOptions.Addr),
		slog.Int("db", clientOptions.DB),
		slog.Int("pool_size", clientOptions.PoolSize),
	)

	return client, nil
}

func buildOptions(options Options) (*redis.Options, error) {
	clientOptions, err := redis.ParseURL(options.URL)
	if err != nil {
		return nil, fmt.Errorf("redis: invalid URL: %w", err)
	}

	if options.PoolSize > 0 {
		clientOptions.PoolSize = options.PoolSize
	}
	clientOptions.MinIdleConns = min(2, clientOptions.PoolSize)

	clientOptions.DialTimeout = dialTimeout
	clientOptions.ReadTimeout = readTimeout
	clientOptions.WriteTimeout = writeTimeout

	return clientOptions, nil
}

// Ping verifies that the Redis client is healthy.
func Ping(ctx context.Context, client redis.UniversalClient) error {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		return fmt.Errorf("redis: ping failed: %w", err)
	}

	return nil
}
