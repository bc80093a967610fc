// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package ctxutil carries per-request values through [context.Context]: the
correlation id, the request-scoped logger and the identity attached by the
auth gateway.

Keys are unexported, so these values can only be set through this package.
*/
package ctxutil

import (
	"context"
	"log/slog"

	"github.com/taibuivan/dvfmap/internal/platform/sec"
)

type contextKey int

const (
	requestIDKey contextKey = iota
	loggerKey
	identityKey
)

// # Request Tracing

// WithRequestID attaches the X-Request-ID correlation value.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// GetRequestID returns the correlation value, or "".
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// # Structured Logging

// WithLogger attaches the request-scoped logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// GetLogger returns the request-scoped logger, or [slog.Default].
func GetLogger(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}

// # Identity

// WithIdentity attaches verified claims and tags the request logger with the
// user id. Only the auth gateway calls it.
func WithIdentity(ctx context.Context, claims *sec.AuthClaims) context.Context {
	ctx = context.WithValue(ctx, identityKey, claims)
	return WithLogger(ctx, GetLogger(ctx).With(slog.String("user_id", claims.UserID)))
}

// GetAuthUser returns the gateway identity, nil when the request was not
// authorized.
func GetAuthUser(ctx context.Context) *sec.AuthClaims {
	claims, _ := ctx.Value(identityKey).(*sec.AuthClaims)
	return claims
}
