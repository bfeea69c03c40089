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

package node

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	_ "net/http/pprof" // #nosec G108
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/blinklabs-io/gavel"
	"github.com/blinklabs-io/gavel/internal/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Run builds a node from the given config and runs it until it stops on its
// own or a termination signal arrives
func Run(cfg *config.Config, logger *slog.Logger) error {
	logger.Debug(fmt.Sprintf("config: %+v", cfg), "component", "node")

	shutdownTimeout := 30 * time.Second
	if cfg.ShutdownTimeout != "" {
		var err error
		shutdownTimeout, err = time.ParseDuration(cfg.ShutdownTimeout)
		if err != nil {
			return fmt.Errorf("invalid shutdown timeout: %w", err)
		}
	}

	n, err := gavel.New(
		gavel.NewConfig(
			gavel.WithLogger(logger),
			gavel.WithDatabasePath(cfg.DatabasePath),
			gavel.WithBlobPlugin(cfg.BlobPlugin),
			gavel.WithMetadataPlugin(cfg.MetadataPlugin),
			gavel.WithInitialOwner(cfg.Owner),
			gavel.WithInitialQuorum(cfg.Quorum),
			gavel.WithApiListenAddress(
				fmt.Sprintf("%s:%d", cfg.BindAddr, cfg.ApiPort),
			),
			gavel.WithOwnerTokenFile(cfg.OwnerTokenFile),
			gavel.WithTracing(cfg.Tracing),
			gavel.WithTracingStdout(cfg.TracingStdout),
			gavel.WithShutdownTimeout(shutdownTimeout),
			// Enable metrics with default prometheus registry
			gavel.WithPrometheusRegistry(prometheus.DefaultRegisterer),
		),
	)
	if err != nil {
		return err
	}

	metricsServer := startMetricsServer(cfg, logger)

	signalCtx, signalCtxStop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer signalCtxStop()

	errChan := make(chan error, 1)
	go func() {
		err := n.Run()
		select {
		case errChan <- err:
		case <-signalCtx.Done():
		}
	}()

	select {
	case <-signalCtx.Done():
		logger.Info("signal received, initiating graceful shutdown")
		if err := shutdown(n, metricsServer, logger, shutdownTimeout); err != nil {
			return err
		}
		logger.Info("shutdown complete")
		return nil

	case err := <-errChan:
		if err != nil {
			logger.Error("node error", "error", err)
			signalCtxStop()
			// Cleanup is best effort here, the node error is what gets
			// reported
			if cleanupErr := shutdown(n, metricsServer, logger, shutdownTimeout); cleanupErr != nil {
				logger.Error(
					"shutdown errors occurred during error cleanup",
					"error",
					cleanupErr,
				)
			}
			return err
		}
		logger.Info("node stopped")
		return shutdown(n, metricsServer, logger, shutdownTimeout)
	}
}

// startMetricsServer serves prometheus metrics and the default pprof
// handlers on the metrics port. A failed listen is fatal for the process.
func startMetricsServer(cfg *config.Config, logger *slog.Logger) *http.Server {
	http.Handle("/metrics", promhttp.Handler())
	metricsServer := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.BindAddr, cfg.MetricsPort),
		ReadHeaderTimeout: 60 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	logger.Info(
		"serving prometheus metrics on "+metricsServer.Addr,
		"component", "node",
	)
	go func() {
		err := metricsServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error(
				"failed to start metrics listener",
				"error", err,
				"component", "node",
			)
			os.Exit(1)
		}
	}()
	return metricsServer
}

// shutdown stops the node and then drains the metrics listener. A failed
// node stop is returned, a failed listener shutdown is only logged since
// there is nothing actionable left at that point.
func shutdown(
	n *gavel.Node,
	metricsServer *http.Server,
	logger *slog.Logger,
	timeout time.Duration,
) error {
	stopErr := n.Stop()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown error", "error", err)
	}
	if stopErr != nil {
		logger.Error("shutdown errors occurred", "error", stopErr)
	}
	return stopErr
}
