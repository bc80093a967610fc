// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package querysync_test

import (
	"context"
	"sync"
	"time"

	"github.com/taibuivan/dvfmap/internal/client/apiclient"
	"github.com/taibuivan/dvfmap/internal/client/querysync"
)

// manualClock fires timers only when the test advances it.
type manualClock struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*manualTimer
}

type manualTimer struct {
	clock   *manualClock
	at      time.Duration
	fn      func()
	stopped bool
	fired   bool
}

func (c *manualClock) AfterFunc(d time.Duration, f func()) querysync.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	timer := &manualTimer{clock: c, at: c.now + d, fn: f}
	c.timers = append(c.timers, timer)
	return timer
}

func (t *manualTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.fired || t.stopped {
		return false
	}
	t.stopped = true
	return true
}

// Advance moves time forward and runs due timers on the calling goroutine.
func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now += d
	var due []*manualTimer
	for _, timer := range c.timers {
		if !timer.fired && !timer.stopped && timer.at <= c.now {
			timer.fired = true
			due = append(due, timer)
		}
	}
	c.mu.Unlock()

	for _, timer := range due {
		timer.fn()
	}
}

func (c *manualClock) pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	count := 0
	for _, timer := range c.timers {
		if !timer.fired && !timer.stopped {
			count++
		}
	}
	return count
}

type fetchResult struct {
	records []apiclient.Record
	err     error
}

// fakeFetcher answers immediately, or waits for release when gated.
type fakeFetcher struct {
	mu      sync.Mutex
	gated   bool
	next    fetchResult
	queries []apiclient.SalesQuery
	tokens  []string
	gates   []chan fetchResult
}

func (f *fakeFetcher) Sales(ctx context.Context, token string, query apiclient.SalesQuery) ([]apiclient.Record, error) {
	f.mu.Lock()
	f.queries = append(f.queries, query)
	f.tokens = append(f.tokens, token)
	if !f.gated {
		result := f.next
		f.mu.Unlock()
		return result.records, result.err
	}
	gate := make(chan fetchResult, 1)
	f.gates = append(f.gates, gate)
	f.mu.Unlock()

	select {
	case result := <-gate:
		return result.records, result.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (f *fakeFetcher) respondWith(records []apiclient.Record, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.next = fetchResult{records: records, err: err}
}

func (f *fakeFetcher) release(call int, result fetchResult) {
	f.mu.Lock()
	gate := f.gates[call]
	f.mu.Unlock()
	gate <- result
}

func (f *fakeFetcher) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queries)
}

func (f *fakeFetcher) query(call int) apiclient.SalesQuery {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queries[call]
}

type staticToken string

func (s staticToken) Token() string { return string(s) }

func records(ids ...string) []apiclient.Record {
	out := make([]apiclient.Record, 0, len(ids))
	for _, id := range ids {
		out = append(out, apiclient.Record{MutationID: id, Latitude: 48.85, Longitude: 2.35})
	}
	return out
}
