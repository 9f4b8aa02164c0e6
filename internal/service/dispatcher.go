package service

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"

	"github.com/iliyamo/bfhl-service/internal/metrics"
	"github.com/iliyamo/bfhl-service/internal/model"
	"github.com/iliyamo/bfhl-service/internal/numeric"
	"github.com/iliyamo/bfhl-service/internal/queue"
)

// Outcome labels used for metrics and events.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// EventPublisher receives one event per dispatched computation.
type EventPublisher interface {
	Publish(ctx context.Context, ev queue.ComputationEvent) error
}

// Dispatcher runs a validated request through its numeric kernel.
type Dispatcher struct {
	log            *zap.SugaredLogger
	tracer         trace.Tracer
	metrics        *metrics.Metrics
	events         EventPublisher
	publishTimeout time.Duration
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(d *Dispatcher)

// WithLogger sets the dispatcher logger.
func WithLogger(log *zap.SugaredLogger) DispatcherOption {
	return func(d *Dispatcher) {
		d.log = log
	}
}

// WithTracer wraps every dispatch in a span from tracer.
func WithTracer(tracer trace.Tracer) DispatcherOption {
	return func(d *Dispatcher) {
		d.tracer = tracer
	}
}

// WithMetrics counts dispatch outcomes.
func WithMetrics(m *metrics.Metrics) DispatcherOption {
	return func(d *Dispatcher) {
		d.metrics = m
	}
}

// WithEvents publishes a ComputationEvent after every dispatch. Publishing
// happens off the request path and failures are only logged.
func WithEvents(p EventPublisher, timeout time.Duration) DispatcherOption {
	return func(d *Dispatcher) {
		d.events = p
		if timeout > 0 {
			d.publishTimeout = timeout
		}
	}
}

// NewDispatcher returns a Dispatcher with a no-op tracer and no metrics or
// events unless options say otherwise.
func NewDispatcher(options ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		log:            zap.S().With("module", "dispatcher"),
		tracer:         noop.NewTracerProvider().Tracer(""),
		publishTimeout: 5 * time.Second,
	}
	for _, option := range options {
		option(d)
	}
	return d
}

// Dispatch computes the result for req. A non-nil error means the request
// broke an invariant the parser guarantees and maps to a 500.
func (d *Dispatcher) Dispatch(ctx context.Context, req model.Request) (any, error) {
	op := req.Operation()
	ctx, span := d.tracer.Start(ctx, "bfhl."+string(op), trace.WithAttributes(
		attribute.String("bfhl.operation", string(op)),
		attribute.Int("bfhl.input_size", req.InputSize()),
	))
	defer span.End()

	start := time.Now()
	data, err := compute(req)
	elapsed := time.Since(start)

	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeError
		err = errors.Wrapf(err, "dispatch %s", op)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		data = nil
	}
	d.metrics.ObserveComputation(string(op), outcome)
	d.emit(ctx, req, outcome, elapsed)
	return data, err
}

func compute(req model.Request) (any, error) {
	switch r := req.(type) {
	case model.FibonacciRequest:
		return numeric.Fibonacci(int(r.N)), nil
	case model.PrimeRequest:
		return numeric.FilterPrimes(r.Values), nil
	case model.LCMRequest:
		return numeric.LCMOf(r.Values), nil
	case model.HCFRequest:
		if len(r.Values) == 0 {
			return nil, errors.New("hcf of an empty array")
		}
		return numeric.HCFOf(r.Values), nil
	}
	return nil, errors.Newf("unsupported request %T", req)
}

func (d *Dispatcher) emit(ctx context.Context, req model.Request, outcome string, elapsed time.Duration) {
	if d.events == nil {
		return
	}
	ev := queue.ComputationEvent{
		ID:          uuid.NewString(),
		Operation:   string(req.Operation()),
		Outcome:     outcome,
		InputSize:   req.InputSize(),
		DurationMs:  elapsed.Milliseconds(),
		CompletedAt: time.Now().UTC().Format(time.RFC3339Nano),
	}
	// outlives the request; only the deadline applies
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.publishTimeout)
	go func() {
		defer cancel()
		if err := d.events.Publish(pubCtx, ev); err != nil {
			d.log.Warnw("publish computation event failed", "id", ev.ID, "operation", ev.Operation, "error", err)
		}
	}()
}
