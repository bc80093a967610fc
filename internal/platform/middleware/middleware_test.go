// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware_test

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/dvfmap/internal/platform/ctxutil"
	"github.com/taibuivan/dvfmap/internal/platform/middleware"
)

type corsConfig struct {
	dev     bool
	origins []string
}

func (c corsConfig) IsDevelopment() bool { return c.dev }
func (c corsConfig) Origins() []string   { return c.origins }

/*
TestRequestID verifies that a well-formed incoming ID is echoed and others replaced.
*/
func TestRequestID(t *testing.T) {
	tests := []struct {
		name     string
		incoming string
		wantKept bool
	}{
		{"client_id", "abc-123", true},
		{"dotted", "edge.7f3a_01", true},
		{"missing", "", false},
		{"spaces", "abc 123", false},
		{"log_injection", "x\"}{\"level\":\"ERROR", false},
		{"too_long", strings.Repeat("a", 65), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen string
			handler := middleware.RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen = ctxutil.GetRequestID(r.Context())
			}))

			request := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.incoming != "" {
				request.Header.Set("X-Request-ID", tt.incoming)
			}
			response := httptest.NewRecorder()
			handler.ServeHTTP(response, request)

			assert.Equal(t, seen, response.Header().Get("X-Request-ID"))
			if tt.wantKept {
				assert.Equal(t, tt.incoming, seen)
			} else {
				assert.Len(t, seen, 36)
			}
		})
	}
}

/*
TestCORS covers the development wildcard and the production allow-list.
*/
func TestCORS(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	tests := []struct {
		name        string
		cfg         corsConfig
		origin      string
		method      string
		wantAllowed bool
		wantStatus  int
	}{
		{"dev_any_origin", corsConfig{dev: true}, "http://localhost:4200", http.MethodGet, true, http.StatusOK},
		{"prod_listed", corsConfig{origins: []string{"https://dvfmap.fr"}}, "https://dvfmap.fr", http.MethodGet, true, http.StatusOK},
		{"prod_unlisted", corsConfig{origins: []string{"https://dvfmap.fr"}}, "https://evil.example", http.MethodGet, false, http.StatusOK},
		{"preflight", corsConfig{dev: true}, "http://localhost:4200", http.MethodOptions, true, http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(tt.method, "/api/v1/dvf/ventes", nil)
			request.Header.Set("Origin", tt.origin)
			response := httptest.NewRecorder()

			middleware.CORS(tt.cfg)(next).ServeHTTP(response, request)

			assert.Equal(t, tt.wantStatus, response.Code)
			if tt.wantAllowed {
				assert.Equal(t, tt.origin, response.Header().Get("Access-Control-Allow-Origin"))
			} else {
				assert.Empty(t, response.Header().Get("Access-Control-Allow-Origin"))
			}
		})
	}
}

type observation struct {
	route  string
	status int
}

type observations []observation

func (o *observations) ObserveRequest(route, _ string, status int, _ time.Duration) {
	*o = append(*o, observation{route: route, status: status})
}

/*
TestAccessLog verifies the final log line and the route-labelled observation.
*/
func TestAccessLog(t *testing.T) {
	var buffer bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buffer, nil))
	observer := &observations{}

	router := chi.NewRouter()
	router.Use(middleware.AccessLog(logger, observer))
	router.Get("/api/v1/dvf/{resource}", func(w http.ResponseWriter, r *http.Request) {
		require.NotEqual(t, slog.Default(), ctxutil.GetLogger(r.Context()))
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short and stout"))
	})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/dvf/ventes", nil))
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	assert.Contains(t, buffer.String(), `"msg":"http_request_finished"`)
	assert.Contains(t, buffer.String(), `"status":418`)
	assert.Contains(t, buffer.String(), `"bytes":15`)
	assert.Contains(t, buffer.String(), `"route":"/api/v1/dvf/{resource}"`)
	assert.Equal(t, observations{
		{route: "/api/v1/dvf/{resource}", status: http.StatusTeapot},
		{route: "unmatched", status: http.StatusNotFound},
	}, *observer)
}

/*
TestRecovery ensures a panicking handler yields a 500 envelope.
*/
func TestRecovery(t *testing.T) {
	var buffer bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buffer, nil))
	handler := middleware.Recovery(logger)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	response := httptest.NewRecorder()
	handler.ServeHTTP(response, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, response.Code)
	assert.JSONEq(t, `{"success":false,"code":"INTERNAL_ERROR","message":"Server error"}`, response.Body.String())
	assert.Contains(t, buffer.String(), `"msg":"panic_recovered"`)
}

/*
TestRecovery_AbortHandler lets net/http see the abort sentinel.
*/
func TestRecovery_AbortHandler(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil))
	handler := middleware.Recovery(logger)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
}
