// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/dvfmap/internal/platform/apperr"
)

/*
TestConstructors_Status pins the status of every code the API emits.
*/
func TestConstructors_Status(t *testing.T) {
	tests := []struct {
		err        *apperr.AppError
		wantCode   string
		wantStatus int
	}{
		{apperr.NotFound("User"), apperr.CodeNotFound, http.StatusNotFound},
		{apperr.RouteNotFound(), apperr.CodeNotFound, http.StatusNotFound},
		{apperr.MethodNotAllowed(), apperr.CodeMethodNotAllowed, http.StatusMethodNotAllowed},
		{apperr.NoToken(), apperr.CodeNoToken, http.StatusUnauthorized},
		{apperr.TokenExpired(), apperr.CodeTokenExpired, http.StatusUnauthorized},
		{apperr.TokenInvalid(), apperr.CodeTokenInvalid, http.StatusUnauthorized},
		{apperr.TokenRevoked(), apperr.CodeTokenRevoked, http.StatusUnauthorized},
		{apperr.InvalidCredentials(), apperr.CodeInvalidCredentials, http.StatusUnauthorized},
		{apperr.Conflict("Email is already registered"), apperr.CodeConflict, http.StatusConflict},
		{apperr.ValidationError("Validation failed"), apperr.CodeValidation, http.StatusBadRequest},
		{apperr.Internal(nil), apperr.CodeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.wantCode, func(t *testing.T) {
			assert.Equal(t, tt.wantCode, tt.err.Code)
			assert.Equal(t, tt.wantStatus, tt.err.HTTPStatus)
			assert.NotEmpty(t, tt.err.Message)
		})
	}

	assert.Equal(t, http.StatusInternalServerError, apperr.StatusOf("SOMETHING_NEW"))
	assert.Equal(t, "User not found", apperr.NotFound("User").Message)
}

/*
TestInspection finds application errors through wrapping.
*/
func TestInspection(t *testing.T) {
	cause := errors.New("connection reset")
	internal := apperr.Internal(cause)

	assert.ErrorIs(t, internal, cause)
	assert.Equal(t, "Server error", internal.Error())

	wrapped := fmt.Errorf("auth_service_profile_failed: %w", apperr.NotFound("User"))
	require.True(t, apperr.IsAppError(wrapped))
	assert.True(t, apperr.HasCode(wrapped, apperr.CodeNotFound))
	assert.False(t, apperr.HasCode(wrapped, apperr.CodeConflict))

	assert.Nil(t, apperr.As(cause))
	assert.False(t, apperr.HasCode(nil, apperr.CodeNotFound))
}
