// Copyright 2026 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/blinklabs-io/gavel/governance"
	"github.com/blinklabs-io/gavel/journal"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

type ApiConfig struct {
	PromRegistry   prometheus.Registerer
	Logger         *slog.Logger
	Governance     *governance.Governance
	Journal        *journal.Journal
	ListenAddress  string
	OwnerTokenFile string
}

// Api is the governance REST API server. Caller identity comes from the
// X-Gavel-Actor header; authorization decisions belong to the governance
// engine, with an optional bearer token gate on owner routes.
type Api struct {
	config     ApiConfig
	governance *governance.Governance
	journal    *journal.Journal
	metrics    *apiMetrics
	ownerToken []byte
	httpServer *http.Server
	mu         sync.Mutex
}

// New creates a new API server instance.
func New(cfg ApiConfig) (*Api, error) {
	if cfg.Logger == nil {
		// Create logger to throw away logs
		// We do this so we don't have to add guards around every log operation
		cfg.Logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	cfg.Logger = cfg.Logger.With("component", "api")
	if cfg.Governance == nil {
		return nil, errors.New("no governance engine provided")
	}
	if cfg.ListenAddress == "" {
		cfg.ListenAddress = ":8080"
	}
	a := &Api{
		config:     cfg,
		governance: cfg.Governance,
		journal:    cfg.Journal,
	}
	if cfg.PromRegistry != nil {
		a.initMetrics()
	}
	return a, nil
}

// Start starts the HTTP server in a background goroutine.
func (a *Api) Start(ctx context.Context) error {
	a.mu.Lock()
	if a.httpServer != nil {
		a.mu.Unlock()
		return errors.New("server already started")
	}

	if err := a.loadOwnerToken(); err != nil {
		a.mu.Unlock()
		return err
	}

	server := &http.Server{
		Addr: a.config.ListenAddress,
		// Use h2c so we can serve HTTP/2 without TLS
		Handler:           h2c.NewHandler(a.router(), &http2.Server{}),
		ReadHeaderTimeout: 60 * time.Second,
	}
	a.httpServer = server
	a.mu.Unlock()

	// Start the server with deterministic error detection
	if err := a.startServer(server); err != nil {
		a.mu.Lock()
		a.httpServer = nil
		a.mu.Unlock()
		return err
	}

	a.config.Logger.Info(
		"governance API listener started on " +
			a.config.ListenAddress,
	)

	// Monitor context for cancellation
	go func() {
		<-ctx.Done()
		a.mu.Lock()
		srv := a.httpServer
		a.httpServer = nil
		a.mu.Unlock()

		if srv != nil {
			a.config.Logger.Debug(
				"context cancelled, shutting down governance API server",
			)
			//nolint:contextcheck
			shutdownCtx, cancel := context.WithTimeout(
				context.Background(),
				30*time.Second,
			)
			defer cancel()
			//nolint:contextcheck
			if err := srv.Shutdown(shutdownCtx); err != nil {
				a.config.Logger.Error(
					"failed to shutdown governance API server on context cancellation",
					"error", err,
				)
			}
		}
	}()

	return nil
}

// Stop gracefully shuts down the HTTP server.
func (a *Api) Stop(ctx context.Context) error {
	a.mu.Lock()
	srv := a.httpServer
	a.httpServer = nil
	a.mu.Unlock()

	if srv != nil {
		a.config.Logger.Debug("shutting down governance API server")
		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf(
				"failed to shutdown governance API server: %w",
				err,
			)
		}
	}
	return nil
}

// router builds the request mux for the full API surface
func (a *Api) router() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /", a.handleRoot)
	mux.HandleFunc("GET /health", a.handleHealth)
	mux.Handle("GET /metrics", a.metricsHandler())
	mux.HandleFunc(
		"GET /api/v1/proposals",
		a.handleListProposals,
	)
	mux.HandleFunc(
		"POST /api/v1/proposals",
		a.requireOwnerToken(a.handleCreateProposal),
	)
	mux.HandleFunc(
		"GET /api/v1/proposals/{id}",
		a.handleGetProposal,
	)
	mux.HandleFunc(
		"GET /api/v1/proposals/{id}/votes",
		a.handleListVotes,
	)
	mux.HandleFunc(
		"POST /api/v1/proposals/{id}/votes",
		a.handleVote,
	)
	mux.HandleFunc(
		"POST /api/v1/proposals/{id}/execute",
		a.handleExecuteProposal,
	)
	mux.HandleFunc(
		"POST /api/v1/proposals/{id}/cancel",
		a.requireOwnerToken(a.handleCancelProposal),
	)
	mux.HandleFunc(
		"POST /api/v1/proposals/{id}/extend",
		a.requireOwnerToken(a.handleExtendProposal),
	)
	mux.HandleFunc(
		"GET /api/v1/delegations",
		a.handleListDelegations,
	)
	mux.HandleFunc(
		"GET /api/v1/delegations/{member}",
		a.handleGetDelegation,
	)
	mux.HandleFunc(
		"POST /api/v1/delegations",
		a.handleDelegate,
	)
	mux.HandleFunc(
		"DELETE /api/v1/delegations",
		a.handleRevokeDelegation,
	)
	mux.HandleFunc(
		"GET /api/v1/config",
		a.handleGetConfig,
	)
	mux.HandleFunc(
		"POST /api/v1/config/quorum",
		a.requireOwnerToken(a.handleUpdateQuorum),
	)
	mux.HandleFunc(
		"POST /api/v1/config/owner",
		a.requireOwnerToken(a.handleChangeOwner),
	)
	mux.HandleFunc(
		"POST /api/v1/config/pause",
		a.requireOwnerToken(a.handlePause),
	)
	mux.HandleFunc(
		"POST /api/v1/config/unpause",
		a.requireOwnerToken(a.handleUnpause),
	)
	mux.HandleFunc(
		"GET /api/v1/weights",
		a.handleListWeights,
	)
	mux.HandleFunc(
		"GET /api/v1/weights/{member}",
		a.handleGetWeight,
	)
	mux.HandleFunc(
		"POST /api/v1/weights",
		a.requireOwnerToken(a.handleSetWeight),
	)
	mux.HandleFunc(
		"GET /api/v1/events",
		a.handleListEvents,
	)
	return mux
}

// metricsHandler serves the configured prometheus registry. The registry
// is only a Registerer; fall back to the default registry unless it can
// also gather.
func (a *Api) metricsHandler() http.Handler {
	if gatherer, ok := a.config.PromRegistry.(prometheus.Gatherer); ok {
		return promhttp.HandlerFor(
			gatherer,
			promhttp.HandlerOpts{},
		)
	}
	return promhttp.Handler()
}

// startServer starts the HTTP server with deterministic error detection.
// It binds the listening socket first so port conflicts are detected
// immediately, then serves in a background goroutine.
func (a *Api) startServer(server *http.Server) error {
	ln, err := net.Listen("tcp", server.Addr)
	if err != nil {
		return fmt.Errorf(
			"failed to listen for governance API server: %w",
			err,
		)
	}
	go func() {
		if err := server.Serve(ln); err != nil &&
			!errors.Is(err, http.ErrServerClosed) {
			a.config.Logger.Error(
				"governance API server error",
				"error", err,
			)
		}
	}()
	return nil
}
