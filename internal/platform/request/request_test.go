// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package requestutil_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/dvfmap/internal/platform/apperr"
	"github.com/taibuivan/dvfmap/internal/platform/ctxutil"
	requestutil "github.com/taibuivan/dvfmap/internal/platform/request"
	"github.com/taibuivan/dvfmap/internal/platform/sec"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

/*
TestDecodeJSON covers the accepted body and each rejection message.
*/
func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantMessage string
	}{
		{"ok", `{"email":"a@b.fr","password":"hunter22"}`, ""},
		{"extra_fields_ignored", `{"email":"a@b.fr","password":"hunter22","confirmPassword":"hunter22"}`, ""},
		{"trailing_whitespace", "{\"email\":\"a@b.fr\"}\n\n", ""},
		{"empty", ``, "Request body is empty"},
		{"malformed", `{"email":`, "Invalid JSON payload"},
		{"two_values", `{"email":"a@b.fr"}{"email":"c@d.fr"}`, "Invalid JSON payload"},
		{"too_large", `{"email":"` + strings.Repeat("a", 1<<20) + `"}`, "Request body exceeds 1048576 bytes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(tt.body))

			var target credentials
			err := requestutil.DecodeJSON(request, &target)

			if tt.wantMessage == "" {
				require.NoError(t, err)
				assert.Equal(t, "a@b.fr", target.Email)
				return
			}

			appError := apperr.As(err)
			require.NotNil(t, appError)
			assert.Equal(t, apperr.CodeValidation, appError.Code)
			assert.Equal(t, tt.wantMessage, appError.Message)
		})
	}
}

/*
TestBearerToken separates a missing header from a malformed one.
*/
func TestBearerToken(t *testing.T) {
	tests := []struct {
		name      string
		header    string
		wantToken string
		wantOK    bool
	}{
		{"missing", "", "", true},
		{"bearer", "Bearer abc.def.ghi", "abc.def.ghi", true},
		{"lowercase", "bearer abc", "abc", true},
		{"padded", "  Bearer   abc  ", "abc", true},
		{"basic", "Basic dXNlcjpwYXNz", "", false},
		{"no_token", "Bearer", "", false},
		{"two_tokens", "Bearer a b", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodGet, "/api/auth/profile", nil)
			if tt.header != "" {
				request.Header.Set("Authorization", tt.header)
			}

			token, ok := requestutil.BearerToken(request)
			assert.Equal(t, tt.wantToken, token)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

/*
TestRequiredClaims reads what the gateway stored.
*/
func TestRequiredClaims(t *testing.T) {
	request := httptest.NewRequest(http.MethodGet, "/api/auth/profile", nil)

	_, err := requestutil.RequiredClaims(request)
	assert.True(t, apperr.HasCode(err, apperr.CodeNoToken))

	claims := &sec.AuthClaims{UserID: "user-1", Email: "a@b.fr"}
	request = request.WithContext(ctxutil.WithIdentity(request.Context(), claims))

	got, err := requestutil.RequiredClaims(request)
	require.NoError(t, err)
	assert.Same(t, claims, got)
}
