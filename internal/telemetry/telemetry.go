// Package telemetry wires OpenTelemetry tracing for the dispatcher.
package telemetry

import (
	"context"
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const instrumentationName = "github.com/iliyamo/bfhl-service"

// Config holds the tracing setup.
type Config struct {
	Enabled        bool
	Debug          bool
	ServiceName    string
	ServiceVersion string
	Environment    string
	OTLPEndpoint   string

	// TraceWriter receives spans in debug mode. Defaults to stdout.
	TraceWriter io.Writer
}

// Telemetry owns the tracer provider. The zero value is not usable; build it
// with New or NewNoop.
type Telemetry struct {
	tp     *sdktrace.TracerProvider
	tracer trace.Tracer
}

// New builds a tracer provider exporting to stdout when cfg.Debug is set and
// to an OTLP gRPC collector otherwise. When cfg.Enabled is false it returns
// NewNoop().
func New(ctx context.Context, cfg Config) (*Telemetry, error) {
	if !cfg.Enabled {
		return NewNoop(), nil
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(cfg.ServiceVersion),
			semconv.DeploymentEnvironment(cfg.Environment),
		),
	)
	if err != nil {
		return nil, errors.Wrap(err, "create resource")
	}

	var exporter sdktrace.SpanExporter
	if cfg.Debug {
		w := cfg.TraceWriter
		if w == nil {
			w = os.Stdout
		}
		exporter, err = stdouttrace.New(stdouttrace.WithWriter(w), stdouttrace.WithPrettyPrint())
	} else {
		exporter, err = otlptracegrpc.New(ctx,
			otlptracegrpc.WithEndpoint(cfg.OTLPEndpoint),
			otlptracegrpc.WithInsecure(),
		)
	}
	if err != nil {
		return nil, errors.Wrap(err, "create trace exporter")
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithBatcher(exporter),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	return &Telemetry{tp: tp, tracer: tp.Tracer(instrumentationName)}, nil
}

// NewNoop returns a Telemetry whose spans are discarded.
func NewNoop() *Telemetry {
	return &Telemetry{tracer: noop.NewTracerProvider().Tracer(instrumentationName)}
}

// IsEnabled reports whether spans are exported.
func (t *Telemetry) IsEnabled() bool {
	return t.tp != nil
}

// Tracer returns the service tracer.
func (t *Telemetry) Tracer() trace.Tracer {
	return t.tracer
}

// Shutdown flushes pending spans.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	if t.tp == nil {
		return nil
	}
	return errors.Wrap(t.tp.Shutdown(ctx), "shutdown tracer provider")
}
