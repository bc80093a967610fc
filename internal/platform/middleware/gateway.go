// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/taibuivan/dvfmap/internal/platform/apperr"
	"github.com/taibuivan/dvfmap/internal/platform/ctxutil"
	requestutil "github.com/taibuivan/dvfmap/internal/platform/request"
	"github.com/taibuivan/dvfmap/internal/platform/respond"
	"github.com/taibuivan/dvfmap/internal/platform/sec"
)

// TokenVerifier turns a raw bearer token into an identity.
//
// Implementations return errors wrapping [sec.ErrTokenExpired],
// [sec.ErrTokenRevoked] or [sec.ErrTokenInvalid]; anything else is treated as
// a server fault.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (*sec.AuthClaims, error)
}

// RejectReason names why the gateway refused a request.
type RejectReason string

const (
	ReasonNoToken RejectReason = "no_token"
	ReasonExpired RejectReason = "expired"
	ReasonInvalid RejectReason = "invalid"
	ReasonRevoked RejectReason = "revoked"
)

// RejectionRecorder receives one call per refused request.
type RejectionRecorder interface {
	GatewayRejected(reason string)
}

/*
RequireBearer guards a route group behind a verified bearer token.

Every request runs the same three-state machine:

	Unchecked -> Authorized(identity)   token present and verified
	Unchecked -> Rejected(reason)       401 with a reason-specific code

Only Authorized requests reach the next handler, and they read the identity
through [ctxutil.GetAuthUser]. A missing header, an expired token, a revoked
token and every other failure each produce a different error code.

Parameters:
  - verifier: TokenVerifier
  - recorder: RejectionRecorder (may be nil)
*/
func RequireBearer(verifier TokenVerifier, recorder RejectionRecorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			ctx := request.Context()
			logger := ctxutil.GetLogger(ctx)

			reject := func(reason RejectReason, appErr *apperr.AppError) {
				if recorder != nil {
					recorder.GatewayRejected(string(reason))
				}
				logger.InfoContext(ctx, "auth_gateway_rejected", slog.String("reason", string(reason)))
				respond.Error(writer, request, appErr)
			}

			// ── 1. Extraction ─────────────────────────────────────────────────
			token, wellFormed := requestutil.BearerToken(request)
			if !wellFormed {
				reject(ReasonInvalid, apperr.TokenInvalid())
				return
			}
			if token == "" {
				reject(ReasonNoToken, apperr.NoToken())
				return
			}

			// ── 2. Verification ───────────────────────────────────────────────
			claims, err := verifier.VerifyToken(ctx, token)
			switch {
			case err == nil:
			case errors.Is(err, sec.ErrTokenExpired):
				reject(ReasonExpired, apperr.TokenExpired())
				return
			case errors.Is(err, sec.ErrTokenRevoked):
				reject(ReasonRevoked, apperr.TokenRevoked())
				return
			case errors.Is(err, sec.ErrTokenInvalid):
				reject(ReasonInvalid, apperr.TokenInvalid())
				return
			default:
				respond.Error(writer, request, apperr.Internal(err))
				return
			}

			// ── 3. Context Injection ──────────────────────────────────────────
			next.ServeHTTP(writer, request.WithContext(ctxutil.WithIdentity(ctx, claims)))
		})
	}
}
