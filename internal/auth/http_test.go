// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/dvfmap/internal/auth"
	"github.com/taibuivan/dvfmap/internal/platform/middleware"
	"github.com/taibuivan/dvfmap/internal/platform/respond"
)

func newAuthServer(t *testing.T) (*httptest.Server, *fixture) {
	t.Helper()
	f := newFixture(t)
	handler := auth.NewHandler(f.service, middleware.RequireBearer(f.service, nil))
	server := httptest.NewServer(handler.Routes())
	t.Cleanup(server.Close)
	return server, f
}

func doJSON(t *testing.T, method, url, token, body string) *http.Response {
	t.Helper()
	request, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	request.Header.Set("Content-Type", "application/json")
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}
	response, err := http.DefaultClient.Do(request)
	require.NoError(t, err)
	t.Cleanup(func() { response.Body.Close() })
	return response
}

func decode[T any](t *testing.T, response *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(response.Body).Decode(&out))
	return out
}

/*
TestHandler_FullLifecycle walks register, profile, logout and the rejection that follows.
*/
func TestHandler_FullLifecycle(t *testing.T) {
	server, _ := newAuthServer(t)

	// 1. Register
	response := doJSON(t, http.MethodPost, server.URL+"/register", "",
		`{"email":"camille@example.fr","password":"hunter22","firstName":"Camille","lastName":"Martin"}`)
	require.Equal(t, http.StatusCreated, response.StatusCode)
	assert.Equal(t, "no-store", response.Header.Get("Cache-Control"))
	registered := decode[auth.AuthResult](t, response)
	assert.Equal(t, "camille@example.fr", registered.Email)
	assert.Equal(t, "Martin", registered.LastName)
	require.NotEmpty(t, registered.Token)

	// 2. Profile with the token
	response = doJSON(t, http.MethodGet, server.URL+"/profile", registered.Token, "")
	require.Equal(t, http.StatusOK, response.StatusCode)
	profile := decode[map[string]any](t, response)
	assert.Equal(t, registered.ID, profile["id"])
	assert.Contains(t, profile, "createdAt")
	assert.NotContains(t, profile, "passwordHash")

	// 3. Logout
	response = doJSON(t, http.MethodPost, server.URL+"/logout", registered.Token, "")
	require.Equal(t, http.StatusNoContent, response.StatusCode)

	// 4. The same token is now revoked
	response = doJSON(t, http.MethodGet, server.URL+"/profile", registered.Token, "")
	require.Equal(t, http.StatusUnauthorized, response.StatusCode)
	envelope := decode[respond.ErrorEnvelope](t, response)
	assert.Equal(t, "TOKEN_REVOKED", envelope.Code)
}

/*
TestHandler_Login covers successful and failed sign-in over HTTP.
*/
func TestHandler_Login(t *testing.T) {
	server, _ := newAuthServer(t)

	response := doJSON(t, http.MethodPost, server.URL+"/register", "", `{"email":"a@b.fr","password":"hunter22"}`)
	require.Equal(t, http.StatusCreated, response.StatusCode)

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantCode   string
	}{
		{"ok", `{"email":"a@b.fr","password":"hunter22"}`, http.StatusOK, ""},
		{"wrong_password", `{"email":"a@b.fr","password":"nope-nope"}`, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
		{"missing_password", `{"email":"a@b.fr"}`, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"malformed_json", `{"email":`, http.StatusBadRequest, "VALIDATION_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			response := doJSON(t, http.MethodPost, server.URL+"/login", "", tt.body)
			assert.Equal(t, tt.wantStatus, response.StatusCode)

			if tt.wantCode == "" {
				result := decode[auth.AuthResult](t, response)
				assert.NotEmpty(t, result.Token)
				return
			}

			envelope := decode[respond.ErrorEnvelope](t, response)
			assert.False(t, envelope.Success)
			assert.Equal(t, tt.wantCode, envelope.Code)
		})
	}
}

/*
TestHandler_RegisterValidation checks field rules and duplicate emails.
*/
func TestHandler_RegisterValidation(t *testing.T) {
	server, _ := newAuthServer(t)

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantCode   string
	}{
		{"short_password", `{"email":"a@b.fr","password":"123"}`, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"bad_email", `{"email":"not-an-email","password":"hunter22"}`, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"first_ok", `{"email":"dup@b.fr","password":"hunter22"}`, http.StatusCreated, ""},
		{"duplicate", `{"email":"dup@b.fr","password":"hunter22"}`, http.StatusConflict, "CONFLICT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			response := doJSON(t, http.MethodPost, server.URL+"/register", "", tt.body)
			assert.Equal(t, tt.wantStatus, response.StatusCode)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, decode[respond.ErrorEnvelope](t, response).Code)
			}
		})
	}
}

/*
TestHandler_ProfileRejections ensures the gateway reasons reach the client intact.
*/
func TestHandler_ProfileRejections(t *testing.T) {
	server, _ := newAuthServer(t)

	response := doJSON(t, http.MethodGet, server.URL+"/profile", "", "")
	require.Equal(t, http.StatusUnauthorized, response.StatusCode)
	assert.Equal(t, "NO_TOKEN", decode[respond.ErrorEnvelope](t, response).Code)

	response = doJSON(t, http.MethodGet, server.URL+"/profile", "forged", "")
	require.Equal(t, http.StatusUnauthorized, response.StatusCode)
	assert.Equal(t, "TOKEN_INVALID", decode[respond.ErrorEnvelope](t, response).Code)
}
