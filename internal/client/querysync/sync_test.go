// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package querysync_test

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/dvfmap/internal/client/apiclient"
	"github.com/taibuivan/dvfmap/internal/client/filter"
	"github.com/taibuivan/dvfmap/internal/client/geo"
	"github.com/taibuivan/dvfmap/internal/client/querysync"
)

const debounce = 300 * time.Millisecond

type harness struct {
	clock   *manualClock
	fetcher *fakeFetcher
	filters *filter.State
	sync    *querysync.Synchronizer
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{clock: &manualClock{}, fetcher: &fakeFetcher{}, filters: filter.New()}
	h.sync = querysync.New(querysync.Options{
		Fetcher:   h.fetcher,
		Tokens:    staticToken("bearer-1"),
		Filters:   h.filters,
		Debounce:  debounce,
		Scheduler: h.clock,
	})
	h.sync.Bind()
	t.Cleanup(h.sync.Close)
	return h
}

func paris(shift float64) geo.Viewport {
	return geo.Viewport{NorthEastLat: 48.90 + shift, NorthEastLng: 2.42 + shift, SouthWestLat: 48.80 + shift, SouthWestLng: 2.25 + shift}
}

func (h *harness) setPrice(t *testing.T, low, high float64) {
	t.Helper()
	price, err := filter.PriceRange(low, high)
	require.NoError(t, err)
	require.NoError(t, h.filters.SetPrice(price))
}

/*
TestSynchronizer_NoFilterNoFetch drives random inputs with every filter off.
*/
func TestSynchronizer_NoFilterNoFetch(t *testing.T) {
	h := newHarness(t)
	rng := rand.New(rand.NewSource(7))

	for range 200 {
		switch rng.Intn(5) {
		case 0:
			h.sync.SetViewport(paris(rng.Float64() / 10))
		case 1:
			h.filters.ClearPrice()
		case 2:
			h.filters.ClearDate()
		case 3:
			h.sync.Refresh()
		case 4:
			h.filters.Reset()
		}
		h.clock.Advance(time.Duration(rng.Intn(500)) * time.Millisecond)
	}

	assert.Zero(t, h.fetcher.calls())
	assert.Zero(t, h.clock.pending())
	assert.Empty(t, h.sync.Snapshot().Records)
}

/*
TestSynchronizer_FilterClearedBeforeTimer cancels the pending dispatch.
*/
func TestSynchronizer_FilterClearedBeforeTimer(t *testing.T) {
	h := newHarness(t)
	h.sync.SetViewport(paris(0))

	h.setPrice(t, 100000, 300000)
	h.clock.Advance(100 * time.Millisecond)
	h.filters.ClearPrice()
	h.clock.Advance(time.Second)

	assert.Zero(t, h.fetcher.calls())
}

/*
TestSynchronizer_DebouncePans: five pans 100ms apart give one fetch for the last viewport.
*/
func TestSynchronizer_DebouncePans(t *testing.T) {
	h := newHarness(t)
	h.fetcher.respondWith(records("final"), nil)
	h.setPrice(t, 100000, 300000)

	for i := range 5 {
		h.sync.SetViewport(paris(float64(i) / 100))
		h.clock.Advance(100 * time.Millisecond)
	}
	assert.Zero(t, h.fetcher.calls())

	h.clock.Advance(debounce)

	require.Equal(t, 1, h.fetcher.calls())
	query := h.fetcher.query(0)
	last := paris(0.04)
	assert.Equal(t, [2]float64{last.NorthEastLat, last.SouthWestLng}, query.TopLeft)
	assert.Equal(t, [2]float64{last.SouthWestLat, last.NorthEastLng}, query.BottomRight)
	assert.Equal(t, &[2]float64{100000, 300000}, query.Price)
	assert.Nil(t, query.Date)

	view := h.sync.Snapshot()
	assert.False(t, view.Busy)
	require.Len(t, view.Records, 1)
	assert.Equal(t, "final", view.Records[0].MutationID)
	assert.Equal(t, "bearer-1", h.fetcher.tokens[0])
}

/*
TestSynchronizer_ExactDate collapses to a single-day pair on the wire.
*/
func TestSynchronizer_ExactDate(t *testing.T) {
	h := newHarness(t)
	h.sync.SetViewport(paris(0))

	date, err := filter.ExactDate("2022-05-01")
	require.NoError(t, err)
	require.NoError(t, h.filters.SetDate(date))
	h.clock.Advance(debounce)

	require.Equal(t, 1, h.fetcher.calls())
	query := h.fetcher.query(0)
	assert.Equal(t, &[2]string{"2022-05-01", "2022-05-01"}, query.Date)
	assert.Equal(t, "2022-05-01,2022-05-01", apiclient.EncodeSalesQuery(query).Get("date"))
	assert.Nil(t, query.Price)
}

/*
TestSynchronizer_StaleResponseDiscarded lets g1 answer after g2 and checks g2 wins.
*/
func TestSynchronizer_StaleResponseDiscarded(t *testing.T) {
	h := newHarness(t)
	h.fetcher.gated = true
	h.setPrice(t, 1, 2)

	h.sync.SetViewport(paris(0))
	go h.clock.Advance(debounce)
	require.Eventually(t, func() bool { return h.fetcher.calls() == 1 }, time.Second, time.Millisecond)
	assert.True(t, h.sync.Snapshot().Busy)

	h.sync.SetViewport(paris(0.01))
	go h.clock.Advance(debounce)
	require.Eventually(t, func() bool { return h.fetcher.calls() == 2 }, time.Second, time.Millisecond)

	h.fetcher.release(1, fetchResult{records: records("newer")})
	require.Eventually(t, func() bool { return !h.sync.Snapshot().Busy }, time.Second, time.Millisecond)

	h.fetcher.release(0, fetchResult{records: records("older")})

	// give the stale completion time to run; it must not win
	time.Sleep(20 * time.Millisecond)
	view := h.sync.Snapshot()
	require.Len(t, view.Records, 1)
	assert.Equal(t, "newer", view.Records[0].MutationID)
}

/*
TestSynchronizer_ErrorKeepsRecords leaves the previous set on display.
*/
func TestSynchronizer_ErrorKeepsRecords(t *testing.T) {
	h := newHarness(t)
	h.sync.SetViewport(paris(0))
	h.fetcher.respondWith(records("a", "b"), nil)
	h.setPrice(t, 1, 2)
	h.clock.Advance(debounce)
	require.Len(t, h.sync.Snapshot().Records, 2)

	failure := errors.New("server error")
	h.fetcher.respondWith(nil, failure)
	h.sync.SetViewport(paris(0.02))
	h.clock.Advance(debounce)

	view := h.sync.Snapshot()
	assert.Len(t, view.Records, 2)
	assert.False(t, view.Busy)
	assert.ErrorIs(t, view.Err, failure)

	// the next success clears the error
	h.fetcher.respondWith(records("c"), nil)
	h.sync.Refresh()
	h.clock.Advance(debounce)
	view = h.sync.Snapshot()
	assert.NoError(t, view.Err)
	assert.Len(t, view.Records, 1)
}

/*
TestSynchronizer_ClearingFiltersClearsRecords empties the display without a request.
*/
func TestSynchronizer_ClearingFiltersClearsRecords(t *testing.T) {
	h := newHarness(t)
	h.sync.SetViewport(paris(0))
	h.fetcher.respondWith(records("a"), nil)
	h.setPrice(t, 1, 2)
	h.clock.Advance(debounce)
	require.Len(t, h.sync.Snapshot().Records, 1)

	h.filters.ClearPrice()
	h.clock.Advance(debounce)

	assert.Empty(t, h.sync.Snapshot().Records)
	assert.Equal(t, 1, h.fetcher.calls())
}

/*
TestSynchronizer_ClearDuringFlight ignores the answer of a request whose filters were removed.
*/
func TestSynchronizer_ClearDuringFlight(t *testing.T) {
	h := newHarness(t)
	h.fetcher.gated = true
	h.sync.SetViewport(paris(0))
	h.setPrice(t, 1, 2)

	go h.clock.Advance(debounce)
	require.Eventually(t, func() bool { return h.fetcher.calls() == 1 }, time.Second, time.Millisecond)

	h.filters.ClearPrice()
	assert.False(t, h.sync.Snapshot().Busy)

	h.fetcher.release(0, fetchResult{records: records("late")})
	time.Sleep(20 * time.Millisecond)
	assert.Empty(t, h.sync.Snapshot().Records)
}

/*
TestSynchronizer_Subscribe publishes busy and settled views in order.
*/
func TestSynchronizer_Subscribe(t *testing.T) {
	h := newHarness(t)
	events, cancel := h.sync.Subscribe()
	defer cancel()

	h.sync.SetViewport(paris(0))
	h.fetcher.respondWith(records("a"), nil)
	h.setPrice(t, 1, 2)
	h.clock.Advance(debounce)

	// first event: the viewport arrived with no filter, so an empty view
	var seen []querysync.View
	for len(seen) < 3 {
		select {
		case view := <-events:
			seen = append(seen, view)
		case <-time.After(time.Second):
			t.Fatalf("only %d views delivered", len(seen))
		}
	}

	assert.Empty(t, seen[0].Records)
	assert.True(t, seen[1].Busy)
	assert.False(t, seen[2].Busy)
	assert.Len(t, seen[2].Records, 1)
}

/*
TestSynchronizer_Close stops pending timers and later inputs.
*/
func TestSynchronizer_Close(t *testing.T) {
	h := newHarness(t)
	h.sync.SetViewport(paris(0))
	h.setPrice(t, 1, 2)

	h.sync.Close()
	h.clock.Advance(debounce)
	h.setPrice(t, 3, 4)
	h.clock.Advance(debounce)

	assert.Zero(t, h.fetcher.calls())
}
