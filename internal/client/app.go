// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package client assembles the dvfmap client engine: credential store, session,
filters and the query synchronizer.

A front end only needs [App]. It drives inputs through App.Session,
App.Filters and App.Sync, and draws whatever [Renderer] receives.
*/
package client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/taibuivan/dvfmap/internal/client/apiclient"
	"github.com/taibuivan/dvfmap/internal/client/clienterr"
	"github.com/taibuivan/dvfmap/internal/client/credstore"
	"github.com/taibuivan/dvfmap/internal/client/filter"
	"github.com/taibuivan/dvfmap/internal/client/geo"
	"github.com/taibuivan/dvfmap/internal/client/querysync"
	"github.com/taibuivan/dvfmap/internal/client/session"
	"github.com/taibuivan/dvfmap/internal/platform/config"
)

// ErrNoActiveFilter is returned by [App.Search] when neither filter is set.
var ErrNoActiveFilter = errors.New("client: at least one filter (price or date) is required")

// API is the server surface the engine talks to.
type API interface {
	session.AuthAPI
	querysync.Fetcher
}

// Renderer draws session and result changes. Calls are made from a single
// goroutine, in order.
type Renderer interface {
	RenderSession(state session.State)
	RenderView(view querysync.View)
}

// Options configures [New]. Zero Debounce and nil Scheduler take the
// synchronizer defaults.
type Options struct {
	API       API
	Store     credstore.Store
	Debounce  time.Duration
	Scheduler querysync.Scheduler
	Logger    *slog.Logger
}

// App owns the client components and their lifetimes.
type App struct {
	Session *session.Manager
	Filters *filter.State
	Sync    *querysync.Synchronizer

	store  credstore.Store
	logger *slog.Logger
}

// New wires the components together. The synchronizer is already bound to
// the filters and reads its token from the session.
func New(options Options) *App {
	if options.Logger == nil {
		options.Logger = slog.Default()
	}

	manager := session.New(options.API, options.Store, options.Logger.With(slog.String("component", "session")))
	filters := filter.New()

	synchronizer := querysync.New(querysync.Options{
		Fetcher:   options.API,
		Tokens:    manager,
		Filters:   filters,
		Debounce:  options.Debounce,
		Scheduler: options.Scheduler,
		Logger:    options.Logger.With(slog.String("component", "querysync")),
	})
	synchronizer.Bind()

	return &App{
		Session: manager,
		Filters: filters,
		Sync:    synchronizer,
		store:   options.Store,
		logger:  options.Logger,
	}
}

// Open builds an App from configuration, backed by the SQLite credential
// store and the HTTP API client.
func Open(ctx context.Context, cfg *config.ClientConfig, logger *slog.Logger) (*App, error) {
	store, err := credstore.OpenSQLite(ctx, cfg.StatePath)
	if err != nil {
		return nil, fmt.Errorf("client: open credential store: %w", err)
	}

	api := apiclient.New(cfg.AuthURL, cfg.APIURL, apiclient.NewHTTPClient(cfg.HTTPTimeout), logger)

	return New(Options{
		API:      api,
		Store:    store,
		Debounce: cfg.Debounce,
		Logger:   logger,
	}), nil
}

// Start restores persisted credentials. See [session.Manager.Restore].
func (a *App) Start(ctx context.Context) <-chan error {
	return a.Session.Restore(ctx)
}

/*
Search moves the viewport and waits for the resulting request to settle.

Returns:
  - querysync.View: the settled view; View.Err carries a failed fetch
  - error: ErrNoActiveFilter, clienterr NoToken when signed out, or ctx.Err()
*/
func (a *App) Search(ctx context.Context, viewport geo.Viewport) (querysync.View, error) {
	if !a.Filters.HasActiveFilters() {
		return querysync.View{}, ErrNoActiveFilter
	}
	if !a.Session.IsAuthenticated() {
		return querysync.View{}, clienterr.New(clienterr.KindNoToken, "Sign in before searching")
	}

	views, cancel := a.Sync.Subscribe()
	defer cancel()

	a.Sync.SetViewport(viewport)

	dispatched := false
	for {
		select {
		case <-ctx.Done():
			return querysync.View{}, ctx.Err()
		case view, ok := <-views:
			if !ok {
				return querysync.View{}, errors.New("client: synchronizer closed")
			}
			if view.Busy {
				dispatched = true
				continue
			}
			if dispatched {
				return view, view.Err
			}
			// A settled view before any dispatch means the filters were cleared meanwhile.
			if !a.Filters.HasActiveFilters() {
				return querysync.View{}, ErrNoActiveFilter
			}
		}
	}
}

// Run feeds the renderer until ctx is done or the app is closed.
func (a *App) Run(ctx context.Context, renderer Renderer) error {
	states, stopStates := a.Session.Subscribe()
	defer stopStates()
	views, stopViews := a.Sync.Subscribe()
	defer stopViews()

	renderer.RenderSession(a.Session.State())
	renderer.RenderView(a.Sync.Snapshot())

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case state, ok := <-states:
			if !ok {
				return nil
			}
			renderer.RenderSession(state)
		case view, ok := <-views:
			if !ok {
				return nil
			}
			renderer.RenderView(view)
		}
	}
}

// Close stops the synchronizer and releases the credential store.
func (a *App) Close() error {
	a.Sync.Close()
	if err := a.store.Close(); err != nil {
		return fmt.Errorf("client: close credential store: %w", err)
	}
	a.logger.Debug("client_closed")
	return nil
}
