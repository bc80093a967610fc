// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/taibuivan/dvfmap/internal/auth"
	"github.com/taibuivan/dvfmap/internal/auth/authtest"
	"github.com/taibuivan/dvfmap/internal/platform/sec"
)

type fixture struct {
	users    *authtest.Users
	denylist *authtest.Denylist
	tokens   *sec.TokenService
	service  *auth.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	tokens, err := sec.NewTokenService("auth-test-secret", "dvfmap")
	require.NoError(t, err)

	f := &fixture{
		users:    authtest.NewUsers(),
		denylist: authtest.NewDenylist(),
		tokens:   tokens,
	}
	hasher, err := sec.NewHasher(sec.MinHashCost)
	require.NoError(t, err)

	f.service = auth.NewService(f.users, f.denylist, tokens, hasher, time.Hour, nil)
	return f
}
