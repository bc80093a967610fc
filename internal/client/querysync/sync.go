// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package querysync keeps the displayed property sales in step with the
viewport and the filters.

Every input change bumps a generation counter and restarts a debounce timer.
Only the timer of the latest generation may dispatch a request, and only the
response of the latest generation may replace the displayed records. The
generation is the single arbiter of "latest": arrival order is not trusted.

Without an active filter nothing is fetched and the displayed set is empty.
A failed fetch keeps the previous records on display.
*/
package querysync

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/taibuivan/dvfmap/internal/client/apiclient"
	"github.com/taibuivan/dvfmap/internal/client/filter"
	"github.com/taibuivan/dvfmap/internal/client/geo"
	"github.com/taibuivan/dvfmap/internal/client/notify"
	"github.com/taibuivan/dvfmap/pkg/pointer"
)

// DefaultDebounce is the quiet period before a request is sent.
const DefaultDebounce = 300 * time.Millisecond

// Fetcher runs one authorized sale query.
type Fetcher interface {
	Sales(ctx context.Context, token string, query apiclient.SalesQuery) ([]apiclient.Record, error)
}

// TokenSource yields the bearer token at dispatch time.
type TokenSource interface {
	Token() string
}

// Filters is the read and subscribe side of [filter.State].
type Filters interface {
	HasActiveFilters() bool
	Price() filter.PriceFilter
	Date() filter.DateFilter
	OnPriceChange(fn func(*filter.PriceFilter)) func()
	OnDateChange(fn func(*filter.DateFilter)) func()
}

// Request is one dispatch. It is never modified once built.
type Request struct {
	Viewport   geo.Viewport
	Price      *[2]float64
	Date       *[2]string
	Generation uint64
}

// Query converts the request to its wire form.
func (r Request) Query() apiclient.SalesQuery {
	topLeft, bottomRight := r.Viewport.TopLeft(), r.Viewport.BottomRight()
	return apiclient.SalesQuery{
		TopLeft:     [2]float64{topLeft.Lat, topLeft.Lng},
		BottomRight: [2]float64{bottomRight.Lat, bottomRight.Lng},
		Price:       r.Price,
		Date:        r.Date,
	}
}

// View is what a renderer displays.
type View struct {
	// Records is the latest successful result, empty when no filter is active.
	Records []apiclient.Record

	// Busy is true while the newest dispatched request is in flight.
	Busy bool

	// Generation identifies the request that produced Records.
	Generation uint64

	// Err is the failure of the latest request, nil after a success.
	Err error
}

// Options configures a [Synchronizer].
type Options struct {
	Fetcher   Fetcher
	Tokens    TokenSource
	Filters   Filters
	Debounce  time.Duration
	Scheduler Scheduler
	Logger    *slog.Logger
}

// Synchronizer is safe for concurrent use.
type Synchronizer struct {
	fetcher   Fetcher
	tokens    TokenSource
	filters   Filters
	debounce  time.Duration
	scheduler Scheduler
	logger    *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu          sync.Mutex
	viewport    geo.Viewport
	hasViewport bool
	generation  uint64
	timer       Timer
	view        View
	unbind      []func()
	closed      bool

	events notify.Hub[View]
}

// New builds a Synchronizer. Call [Synchronizer.Bind] to follow filter changes.
func New(options Options) *Synchronizer {
	if options.Debounce <= 0 {
		options.Debounce = DefaultDebounce
	}
	if options.Scheduler == nil {
		options.Scheduler = WallClock()
	}
	if options.Logger == nil {
		options.Logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Synchronizer{
		fetcher:   options.Fetcher,
		tokens:    options.Tokens,
		filters:   options.Filters,
		debounce:  options.Debounce,
		scheduler: options.Scheduler,
		logger:    options.Logger,
		ctx:       ctx,
		cancel:    cancel,
		view:      View{Records: []apiclient.Record{}},
	}
}

// Bind subscribes to both filters. Calling it twice is a no-op.
func (s *Synchronizer) Bind() {
	s.mu.Lock()
	if s.unbind != nil || s.closed {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	unbindPrice := s.filters.OnPriceChange(func(*filter.PriceFilter) { s.onInput("price") })
	unbindDate := s.filters.OnDateChange(func(*filter.DateFilter) { s.onInput("date") })

	s.mu.Lock()
	s.unbind = []func(){unbindPrice, unbindDate}
	s.mu.Unlock()
}

// SetViewport records the visible area after a pan or zoom.
func (s *Synchronizer) SetViewport(viewport geo.Viewport) {
	s.mu.Lock()
	s.viewport = viewport
	s.hasViewport = true
	s.mu.Unlock()

	s.onInput("viewport")
}

// Refresh re-runs the current query through the debounce.
func (s *Synchronizer) Refresh() {
	s.onInput("refresh")
}

// Snapshot returns the current view.
func (s *Synchronizer) Snapshot() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyViewLocked()
}

// Subscribe delivers every view change, in order.
func (s *Synchronizer) Subscribe() (<-chan View, func()) {
	return s.events.Subscribe()
}

// Close stops the timer, unbinds from the filters and ignores any response
// still in flight.
func (s *Synchronizer) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	unbind := s.unbind
	s.unbind = nil
	s.mu.Unlock()

	for _, fn := range unbind {
		fn()
	}
	s.cancel()
	s.events.Close()
}

// # Algorithm

func (s *Synchronizer) onInput(source string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}

	// Any pending timer belongs to an older generation now.
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.generation++

	if !s.filters.HasActiveFilters() {
		s.view = View{Records: []apiclient.Record{}, Generation: s.generation}
		s.publishLocked()
		s.logger.Debug("dvf_query_cleared", slog.String("source", source))
		return
	}

	generation := s.generation
	s.timer = s.scheduler.AfterFunc(s.debounce, func() { s.dispatch(generation) })
}

func (s *Synchronizer) dispatch(generation uint64) {
	s.mu.Lock()
	if s.closed || generation != s.generation {
		s.mu.Unlock()
		return
	}
	s.timer = nil

	request, ok := s.buildLocked(generation)
	if !ok {
		s.mu.Unlock()
		return
	}

	s.view.Busy = true
	s.publishLocked()
	s.mu.Unlock()

	s.logger.Debug("dvf_query_dispatched",
		slog.Uint64("generation", generation),
		slog.String("viewport", request.Viewport.String()),
	)

	records, err := s.fetcher.Sales(s.ctx, s.tokens.Token(), request.Query())

	s.complete(request, records, err)
}

// buildLocked snapshots viewport and filters into an immutable request.
func (s *Synchronizer) buildLocked(generation uint64) (Request, bool) {
	if !s.hasViewport {
		s.logger.Debug("dvf_query_skipped_no_viewport", slog.Uint64("generation", generation))
		return Request{}, false
	}

	request := Request{Viewport: s.viewport, Generation: generation}

	if price := s.filters.Price(); price.Active {
		request.Price = pointer.To(price.Bounds())
	}
	if date := s.filters.Date(); date.Active {
		request.Date = pointer.To(date.Bounds())
	}

	// Filters may have been cleared between the input and the timer.
	if request.Price == nil && request.Date == nil {
		return Request{}, false
	}

	return request, true
}

func (s *Synchronizer) complete(request Request, records []apiclient.Record, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || request.Generation != s.generation {
		s.logger.Debug("dvf_query_stale_discarded",
			slog.Uint64("generation", request.Generation),
			slog.Uint64("latest", s.generation),
		)
		return
	}

	s.view.Busy = false

	if err != nil {
		s.view.Err = err
		s.logger.Warn("dvf_query_failed", slog.Uint64("generation", request.Generation), slog.Any("error", err))
		s.publishLocked()
		return
	}

	if records == nil {
		records = []apiclient.Record{}
	}
	s.view = View{Records: records, Generation: request.Generation}
	s.publishLocked()
}

func (s *Synchronizer) publishLocked() {
	s.events.Publish(s.copyViewLocked())
}

func (s *Synchronizer) copyViewLocked() View {
	view := s.view
	view.Records = append([]apiclient.Record(nil), s.view.Records...)
	if view.Records == nil {
		view.Records = []apiclient.Record{}
	}
	return view
}
