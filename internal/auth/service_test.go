// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/dvfmap/internal/auth"
	"github.com/taibuivan/dvfmap/internal/platform/apperr"
	"github.com/taibuivan/dvfmap/internal/platform/sec"
)

/*
TestService_RegisterAndLogin covers the happy path of account creation and sign-in.
*/
func TestService_RegisterAndLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// 1. Register normalizes the email and returns a usable token
	registered, err := f.service.Register(ctx, auth.RegisterInput{
		Email:     "  Camille@Example.FR ",
		Password:  "hunter22",
		FirstName: "Camille",
	})
	require.NoError(t, err)
	assert.Equal(t, "camille@example.fr", registered.Email)
	assert.Equal(t, "Camille", registered.FirstName)
	assert.NotEmpty(t, registered.Token)

	claims, err := f.service.VerifyToken(ctx, registered.Token)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, claims.UserID)

	// 2. Login with different casing succeeds
	loggedIn, err := f.service.Login(ctx, "CAMILLE@example.fr", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, loggedIn.ID)
	assert.NotEmpty(t, loggedIn.Token)

	// 3. Password hashes are never stored in clear
	stored, err := f.users.FindByID(ctx, registered.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22", stored.PasswordHash)
}

/*
TestService_RegisterDuplicate verifies a second account with the same email is refused.
*/
func TestService_RegisterDuplicate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.Register(ctx, auth.RegisterInput{Email: "a@b.fr", Password: "hunter22"})
	require.NoError(t, err)

	_, err = f.service.Register(ctx, auth.RegisterInput{Email: "A@B.fr", Password: "other-pass"})
	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, apperr.CodeConflict))
}

/*
TestService_RegisterMultiBytePassword rejects passwords bcrypt would truncate.
*/
func TestService_RegisterMultiBytePassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// 36 runes, 72 bytes: accepted
	_, err := f.service.Register(ctx, auth.RegisterInput{Email: "ok@b.fr", Password: strings.Repeat("é", 36)})
	require.NoError(t, err)

	// 40 runes, 80 bytes: refused before hashing
	_, err = f.service.Register(ctx, auth.RegisterInput{Email: "long@b.fr", Password: strings.Repeat("é", 40)})
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, apperr.CodeValidation, appError.Code)
	assert.Equal(t, auth.FieldPassword, appError.Details[0].Field)

	_, err = f.users.FindByEmail(ctx, "long@b.fr")
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
}

/*
TestService_LoginFailures checks that unknown emails and wrong passwords look identical.
*/
func TestService_LoginFailures(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.Register(ctx, auth.RegisterInput{Email: "a@b.fr", Password: "hunter22"})
	require.NoError(t, err)

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"unknown_email", "nobody@b.fr", "hunter22"},
		{"wrong_password", "a@b.fr", "hunter23"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.Login(ctx, tt.email, tt.password)
			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, apperr.CodeInvalidCredentials, ae.Code)
			assert.Equal(t, 401, ae.HTTPStatus)
		})
	}
}

/*
TestService_LoginStorageFailure ensures database faults are not disguised as bad credentials.
*/
func TestService_LoginStorageFailure(t *testing.T) {
	f := newFixture(t)
	f.users.SetFailing(errors.New("pool exhausted"))

	_, err := f.service.Login(context.Background(), "a@b.fr", "hunter22")
	require.Error(t, err)
	assert.False(t, apperr.HasCode(err, apperr.CodeInvalidCredentials))
}

/*
TestService_LogoutRevokes verifies that a logged-out token is refused afterwards.
*/
func TestService_LogoutRevokes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	result, err := f.service.Register(ctx, auth.RegisterInput{Email: "a@b.fr", Password: "hunter22"})
	require.NoError(t, err)

	claims, err := f.service.VerifyToken(ctx, result.Token)
	require.NoError(t, err)

	require.NoError(t, f.service.Logout(ctx, claims))
	require.NoError(t, f.service.Logout(ctx, claims), "logout is idempotent")

	_, err = f.service.VerifyToken(ctx, result.Token)
	assert.True(t, errors.Is(err, sec.ErrTokenRevoked))

	// A fresh login is unaffected
	again, err := f.service.Login(ctx, "a@b.fr", "hunter22")
	require.NoError(t, err)
	_, err = f.service.VerifyToken(ctx, again.Token)
	assert.NoError(t, err)
}

/*
TestService_VerifyToken_DenylistDown checks the fail-open behavior when Redis is unreachable.
*/
func TestService_VerifyToken_DenylistDown(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	result, err := f.service.Register(ctx, auth.RegisterInput{Email: "a@b.fr", Password: "hunter22"})
	require.NoError(t, err)

	f.denylist.SetDown(true)

	claims, err := f.service.VerifyToken(ctx, result.Token)
	require.NoError(t, err)
	assert.Equal(t, result.ID, claims.UserID)

	assert.Error(t, f.service.Logout(ctx, claims))
}

/*
TestService_VerifyToken_Invalid ensures garbage tokens are classified as invalid.
*/
func TestService_VerifyToken_Invalid(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.VerifyToken(context.Background(), "definitely.not.valid")
	assert.True(t, errors.Is(err, sec.ErrTokenInvalid))
}

/*
TestService_Profile covers lookups of existing and vanished accounts.
*/
func TestService_Profile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	result, err := f.service.Register(ctx, auth.RegisterInput{Email: "a@b.fr", Password: "hunter22", LastName: "Martin"})
	require.NoError(t, err)

	user, err := f.service.Profile(ctx, result.ID)
	require.NoError(t, err)
	assert.Equal(t, "Martin", user.LastName)
	assert.False(t, user.CreatedAt.IsZero())

	_, err = f.service.Profile(ctx, "missing-id")
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
}
