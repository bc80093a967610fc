// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package metrics_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/dvfmap/internal/platform/metrics"
)

/*
TestMetrics_Exposition verifies that recorded values show up on the scrape endpoint.
*/
func TestMetrics_Exposition(t *testing.T) {
	m := metrics.New()

	m.ObserveRequest("/api/v1/dvf/ventes", http.MethodGet, http.StatusOK, 40*time.Millisecond)
	m.GatewayRejected("expired")
	m.GatewayRejected("expired")
	m.CacheLookup(metrics.CacheHit)
	m.ObserveSalesQuery(15 * time.Millisecond)

	server := httptest.NewServer(m.Handler())
	defer server.Close()

	resp, err := http.Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), `dvfmap_http_requests_total{method="GET",route="/api/v1/dvf/ventes",status="200"} 1`)
	assert.Contains(t, string(body), `dvfmap_auth_gateway_rejections_total{reason="expired"} 2`)
	assert.Contains(t, string(body), `dvfmap_dvf_cache_lookups_total{result="hit"} 1`)
	assert.Contains(t, string(body), "dvfmap_dvf_query_duration_seconds_count 1")
	assert.Contains(t, string(body), `dvfmap_http_request_duration_seconds_count{route="/api/v1/dvf/ventes"} 1`)
}

/*
TestMetrics_NilSafe ensures components built without metrics do not panic.
*/
func TestMetrics_NilSafe(t *testing.T) {
	var m *metrics.Metrics

	assert.NotPanics(t, func() {
		m.ObserveRequest("/health", http.MethodGet, http.StatusOK, time.Millisecond)
		m.GatewayRejected("no_token")
		m.CacheLookup(metrics.CacheMiss)
		m.ObserveSalesQuery(time.Millisecond)
	})
}

/*
TestMetrics_IndependentRegistries checks two instances never share counters.
*/
func TestMetrics_IndependentRegistries(t *testing.T) {
	first := metrics.New()
	second := metrics.New()

	first.GatewayRejected("invalid")

	count, err := testutil.GatherAndCount(first.Registry(), "dvfmap_auth_gateway_rejections_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	count, err = testutil.GatherAndCount(second.Registry(), "dvfmap_auth_gateway_rejections_total")
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}
