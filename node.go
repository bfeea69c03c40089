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

package gavel

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/blinklabs-io/gavel/api"
	"github.com/blinklabs-io/gavel/database"
	"github.com/blinklabs-io/gavel/event"
	"github.com/blinklabs-io/gavel/governance"
	"github.com/blinklabs-io/gavel/journal"
)

type Node struct {
	eventBus      *event.EventBus
	db            *database.Database
	governance    *governance.Governance
	journal       *journal.Journal
	api           *api.Api
	apiCancel     context.CancelFunc
	shutdownFuncs []func(context.Context) error
	config        Config
	done          chan struct{}
	shutdownOnce  sync.Once
}

func New(cfg Config) (*Node, error) {
	eventBus := event.NewEventBus(cfg.promRegistry, cfg.logger)
	n := &Node{
		config:   cfg,
		eventBus: eventBus,
		done:     make(chan struct{}),
	}
	return n, nil
}

func (n *Node) Run() error {
	// Configure tracing
	if n.config.tracing {
		if err := n.setupTracing(); err != nil {
			return err
		}
	}
	// Load database
	dbConfig := &database.Config{
		DataDir:        n.config.dataDir,
		Logger:         n.config.logger,
		PromRegistry:   n.config.promRegistry,
		BlobPlugin:     n.config.blobPlugin,
		MetadataPlugin: n.config.metadataPlugin,
	}
	db, err := database.New(dbConfig)
	if db == nil {
		return errors.New("database initialization returned no handle")
	}
	n.db = db
	if err != nil {
		var dbErr database.CommitTimestampError
		if !errors.As(err, &dbErr) {
			return fmt.Errorf("open database: %w", err)
		}
		// The metadata store is authoritative for governance state and the
		// journal recovers its own sequence from the blob store, so a
		// mismatched commit timestamp is survivable
		n.config.logger.Warn(
			"blob and metadata stores were not committed together",
			"error",
			err,
		)
	}
	// Load governance engine
	gov, err := governance.NewGovernance(
		governance.GovernanceConfig{
			Logger:       n.config.logger,
			EventBus:     n.eventBus,
			Database:     n.db,
			PromRegistry: n.config.promRegistry,
			Clock:        n.config.clock,
			WeightPolicy: n.config.weightPolicy,
			Owner:        n.config.initialOwner,
			Quorum:       n.config.initialQuorum,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to load governance engine: %w", err)
	}
	n.governance = gov
	// Start event journal
	jrnl, err := journal.NewJournal(
		journal.JournalConfig{
			Logger:       n.config.logger,
			EventBus:     n.eventBus,
			Database:     n.db,
			PromRegistry: n.config.promRegistry,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to load journal: %w", err)
	}
	n.journal = jrnl
	if err := n.journal.Start(); err != nil {
		return fmt.Errorf("failed to start journal: %w", err)
	}
	// Start API server
	apiServer, err := api.New(
		api.ApiConfig{
			Logger:         n.config.logger,
			Governance:     n.governance,
			Journal:        n.journal,
			PromRegistry:   n.config.promRegistry,
			ListenAddress:  n.config.apiListenAddress,
			OwnerTokenFile: n.config.ownerTokenFile,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to create API server: %w", err)
	}
	n.api = apiServer
	apiCtx, apiCancel := context.WithCancel(context.Background())
	n.apiCancel = apiCancel
	if err := n.api.Start(apiCtx); err != nil {
		apiCancel()
		return fmt.Errorf("failed to start API server: %w", err)
	}

	// Wait for shutdown signal
	<-n.done
	return nil
}

// Governance returns the governance engine for direct (in-process) use
func (n *Node) Governance() *governance.Governance {
	return n.governance
}

// EventBus returns the event bus for subscribing to governance events
func (n *Node) EventBus() *event.EventBus {
	return n.eventBus
}

func (n *Node) Stop() error {
	var err error
	n.shutdownOnce.Do(func() {
		err = n.shutdown()
	})
	return err
}

func (n *Node) shutdown() error {
	timeout := n.config.shutdownTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var err error

	n.config.logger.Debug("shutting down node")

	// The API stops first so no new operations arrive while the rest of
	// the node winds down
	n.config.logger.Debug("shutdown: stopping api")
	if n.api != nil {
		if stopErr := n.api.Stop(ctx); stopErr != nil {
			err = errors.Join(err, fmt.Errorf("api shutdown: %w", stopErr))
		}
	}
	if n.apiCancel != nil {
		n.apiCancel()
	}

	// Detach the journal from the bus before the database goes away
	n.config.logger.Debug("shutdown: detaching journal")
	if n.journal != nil {
		n.journal.Stop()
	}

	n.config.logger.Debug("shutdown: closing database")
	if n.db != nil {
		if closeErr := n.db.Close(); closeErr != nil {
			err = errors.Join(
				err,
				fmt.Errorf("database close: %w", closeErr),
			)
		}
	}

	// Registered cleanup hooks and the bus go last
	n.config.logger.Debug("shutdown: releasing resources")
	for _, fn := range n.shutdownFuncs {
		if fnErr := fn(ctx); fnErr != nil {
			err = errors.Join(err, fmt.Errorf("shutdown function: %w", fnErr))
		}
	}
	n.shutdownFuncs = nil

	if n.eventBus != nil {
		n.eventBus.Stop()
	}

	n.config.logger.Debug("node shutdown complete")
	close(n.done)
	return err
}
