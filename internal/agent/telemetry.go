package agent

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	// InstrumentationName is the name used for OTEL instrumentation.
	InstrumentationName = "github.com/lialabs/liad/internal/agent"
)

// Metrics provides OpenTelemetry metrics for the agent package.
type Metrics struct {
	// Counters
	interactionsTotal       metric.Int64Counter
	interactionsFailedTotal metric.Int64Counter
	evolutionsTotal         metric.Int64Counter
	foldsFailedTotal        metric.Int64Counter
	memoriesTotal           metric.Int64Counter
	memoriesFailedTotal     metric.Int64Counter

	// Histograms
	interactionDuration metric.Float64Histogram
	stageDuration       metric.Float64Histogram
	quantumCoherence    metric.Float64Histogram

	// initialized tracks if metrics were successfully initialized
	initialized bool
}

// NewMetrics creates a new Metrics instance with the provided meter.
// If meter is nil, uses the global meter provider.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	if meter == nil {
		meter = otel.Meter(InstrumentationName)
	}

	m := &Metrics{}
	var err error

	m.interactionsTotal, err = meter.Int64Counter(
		"agent.interactions.total",
		metric.WithDescription("Total number of interactions processed successfully"),
		metric.WithUnit("{interaction}"),
	)
	if err != nil {
		return nil, err
	}

	m.interactionsFailedTotal, err = meter.Int64Counter(
		"agent.interactions.failed.total",
		metric.WithDescription("Total number of interactions that failed, by stage"),
		metric.WithUnit("{interaction}"),
	)
	if err != nil {
		return nil, err
	}

	m.evolutionsTotal, err = meter.Int64Counter(
		"agent.evolutions.total",
		metric.WithDescription("Total number of explicit evolution-stage transitions"),
		metric.WithUnit("{evolution}"),
	)
	if err != nil {
		return nil, err
	}

	m.foldsFailedTotal, err = meter.Int64Counter(
		"agent.folds.failed.total",
		metric.WithDescription("Total number of evolution folds that failed, by step"),
		metric.WithUnit("{fold}"),
	)
	if err != nil {
		return nil, err
	}

	m.memoriesTotal, err = meter.Int64Counter(
		"agent.memories.total",
		metric.WithDescription("Total number of experiences integrated into memory"),
		metric.WithUnit("{experience}"),
	)
	if err != nil {
		return nil, err
	}

	m.memoriesFailedTotal, err = meter.Int64Counter(
		"agent.memories.failed.total",
		metric.WithDescription("Total number of memory integrations that failed"),
		metric.WithUnit("{experience}"),
	)
	if err != nil {
		return nil, err
	}

	m.interactionDuration, err = meter.Float64Histogram(
		"agent.interaction.duration.seconds",
		metric.WithDescription("End-to-end duration of one interaction including the fold"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10),
	)
	if err != nil {
		return nil, err
	}

	m.stageDuration, err = meter.Float64Histogram(
		"agent.stage.duration.seconds",
		metric.WithDescription("Duration of one pipeline stage"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.0001, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1),
	)
	if err != nil {
		return nil, err
	}

	m.quantumCoherence, err = meter.Float64Histogram(
		"agent.quantum.coherence",
		metric.WithDescription("Coherence carried by assembled responses"),
		metric.WithUnit("1"),
		metric.WithExplicitBucketBoundaries(0.1, 0.2, 0.4, 0.6, 0.8, 0.9, 0.95, 1.0),
	)
	if err != nil {
		return nil, err
	}

	m.initialized = true
	return m, nil
}

// RecordInteraction records one successfully processed interaction.
func (m *Metrics) RecordInteraction(ctx context.Context, resp *Response, duration time.Duration) {
	if m == nil || !m.initialized {
		return
	}
	m.interactionsTotal.Add(ctx, 1)
	m.interactionDuration.Record(ctx, duration.Seconds())
	m.quantumCoherence.Record(ctx, resp.QuantumCoherence)
}

// RecordInteractionFailed records a pipeline failure at the given stage.
func (m *Metrics) RecordInteractionFailed(ctx context.Context, stage Stage) {
	if m == nil || !m.initialized {
		return
	}
	m.interactionsFailedTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("stage", string(stage)),
	))
}

// RecordStageDuration records the duration of one pipeline stage.
func (m *Metrics) RecordStageDuration(ctx context.Context, stage Stage, duration time.Duration) {
	if m == nil || !m.initialized {
		return
	}
	m.stageDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("stage", string(stage)),
	))
}

// RecordFoldFailed records an evolution-fold failure at the given step.
func (m *Metrics) RecordFoldFailed(ctx context.Context, step EvolutionStep) {
	if m == nil || !m.initialized {
		return
	}
	m.foldsFailedTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("step", string(step)),
	))
}

// RecordEvolution records an explicit evolution-stage transition.
func (m *Metrics) RecordEvolution(ctx context.Context) {
	if m == nil || !m.initialized {
		return
	}
	m.evolutionsTotal.Add(ctx, 1)
}

// RecordMemoryIntegrated records one integrated experience.
func (m *Metrics) RecordMemoryIntegrated(ctx context.Context) {
	if m == nil || !m.initialized {
		return
	}
	m.memoriesTotal.Add(ctx, 1)
}

// RecordMemoryFailed records a failed memory integration.
func (m *Metrics) RecordMemoryFailed(ctx context.Context) {
	if m == nil || !m.initialized {
		return
	}
	m.memoriesFailedTotal.Add(ctx, 1)
}

// Tracer returns a tracer for the agent package.
func Tracer() trace.Tracer {
	return otel.Tracer(InstrumentationName)
}

// StartSpan starts a new span carrying the agent identity.
func StartSpan(ctx context.Context, name, agentID string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	attrs := []attribute.KeyValue{
		attribute.String("agent.id", agentID),
	}
	allOpts := append([]trace.SpanStartOption{trace.WithAttributes(attrs...)}, opts...)
	return Tracer().Start(ctx, name, allOpts...)
}

// RecordError records an error on the current span.
func RecordError(ctx context.Context, err error, attrs ...attribute.KeyValue) {
	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.RecordError(err, trace.WithAttributes(attrs...))
	}
}

// SetSpanStatus sets the status on the current span.
func SetSpanStatus(ctx context.Context, code codes.Code, description string) {
	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.SetStatus(code, description)
	}
}
