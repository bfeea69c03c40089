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
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
)

// setupTracing configures the global OpenTelemetry tracer provider. Exporter
// shutdown functions are registered on the node and run during shutdown
func (n *Node) setupTracing() error {
	ctx := context.Background()
	res, err := resource.Merge(
		resource.Default(),
		resource.NewSchemaless(
			attribute.String("service.name", "gavel"),
		),
	)
	if err != nil {
		return fmt.Errorf("failed to build tracing resource: %w", err)
	}
	tracerProviderOpts := []trace.TracerProviderOption{
		trace.WithResource(res),
	}
	// The OTLP exporter reads its endpoint and TLS settings from the
	// OTEL_EXPORTER_OTLP_* env vars
	otlpExporter, err := otlptracehttp.New(ctx)
	if err != nil {
		return fmt.Errorf("failed to create OTLP trace exporter: %w", err)
	}
	tracerProviderOpts = append(
		tracerProviderOpts,
		trace.WithBatcher(otlpExporter),
	)
	if n.config.tracingStdout {
		stdoutExporter, err := stdouttrace.New(
			stdouttrace.WithPrettyPrint(),
		)
		if err != nil {
			return fmt.Errorf(
				"failed to create stdout trace exporter: %w",
				err,
			)
		}
		tracerProviderOpts = append(
			tracerProviderOpts,
			trace.WithBatcher(stdoutExporter),
		)
	}
	tracerProvider := trace.NewTracerProvider(tracerProviderOpts...)
	n.shutdownFuncs = append(n.shutdownFuncs, tracerProvider.Shutdown)
	otel.SetTracerProvider(tracerProvider)
	otel.SetTextMapPropagator(
		propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		),
	)
	return nil
}
