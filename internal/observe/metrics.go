// Package observe provides the service's OpenTelemetry metrics and the
// Prometheus bridge that exposes them for scraping.
//
// Tests should build Metrics with NewMetrics over a ManualReader-backed
// provider; code that does not care about metrics can use NoopMetrics.
package observe

import (
	"context"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// meterName is the instrumentation scope for every tutor metric.
const meterName = "dyslexiatutor"

// Metric names
const (
	ModeStartsName          = "tutor.mode.starts"
	TurnsName               = "tutor.turns"
	SessionsCompletedName   = "tutor.sessions.completed"
	UpstreamDurationName    = "tutor.upstream.duration"
	UpstreamErrorsName      = "tutor.upstream.errors"
	HTTPRequestDurationName = "tutor.http.request.duration"
)

// Metrics holds the OpenTelemetry instruments for the tutor service.
// All fields are safe for concurrent use.
type Metrics struct {
	// ModeStarts counts sessions started, by mode.
	ModeStarts metric.Int64Counter

	// Turns counts processed learner turns, by mode, correct and advanced.
	Turns metric.Int64Counter

	// SessionsCompleted counts sessions whose last question was passed.
	SessionsCompleted metric.Int64Counter

	// UpstreamDuration tracks tutor model and narration latency, by service and status.
	UpstreamDuration metric.Float64Histogram

	// UpstreamErrors counts failed tutor model and narration calls, by service.
	UpstreamErrors metric.Int64Counter

	// HTTPRequestDuration tracks request latency, by method, route and status.
	HTTPRequestDuration metric.Float64Histogram
}

// latencyBuckets (seconds) sized for hosted model and TTS round trips.
var latencyBuckets = []float64{
	0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 20,
}

// NewMetrics creates every instrument from the given provider.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.ModeStarts, err = m.Int64Counter(ModeStartsName,
		metric.WithDescription("Practice sessions started by mode."),
	); err != nil {
		return nil, err
	}
	if met.Turns, err = m.Int64Counter(TurnsName,
		metric.WithDescription("Learner turns processed by mode, correctness and advancement."),
	); err != nil {
		return nil, err
	}
	if met.SessionsCompleted, err = m.Int64Counter(SessionsCompletedName,
		metric.WithDescription("Practice sessions that ran through every question."),
	); err != nil {
		return nil, err
	}
	if met.UpstreamDuration, err = m.Float64Histogram(UpstreamDurationName,
		metric.WithDescription("Latency of tutor model and narration calls."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.UpstreamErrors, err = m.Int64Counter(UpstreamErrorsName,
		metric.WithDescription("Failed tutor model and narration calls."),
	); err != nil {
		return nil, err
	}
	if met.HTTPRequestDuration, err = m.Float64Histogram(HTTPRequestDurationName,
		metric.WithDescription("HTTP request latency by method, route and status."),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	return met, nil
}

// NoopMetrics returns instruments that record nothing.
func NoopMetrics() *Metrics {
	met, err := NewMetrics(noop.NewMeterProvider())
	if err != nil {
		panic("observe: noop metrics: " + err.Error())
	}
	return met
}

func (m *Metrics) RecordModeStart(ctx context.Context, mode string) {
	m.ModeStarts.Add(ctx, 1, metric.WithAttributes(attribute.String("mode", mode)))
}

func (m *Metrics) RecordTurn(ctx context.Context, mode string, correct, advanced bool) {
	m.Turns.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("mode", mode),
			attribute.Bool("correct", correct),
			attribute.Bool("advanced", advanced),
		),
	)
}

func (m *Metrics) RecordSessionComplete(ctx context.Context, mode string) {
	m.SessionsCompleted.Add(ctx, 1, metric.WithAttributes(attribute.String("mode", mode)))
}

// RecordUpstream records one external call's latency and, when err is
// non-nil, an error count.
func (m *Metrics) RecordUpstream(ctx context.Context, service string, d time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
		m.UpstreamErrors.Add(ctx, 1, metric.WithAttributes(attribute.String("service", service)))
	}
	m.UpstreamDuration.Record(ctx, d.Seconds(),
		metric.WithAttributes(
			attribute.String("service", service),
			attribute.String("status", status),
		),
	)
}

func (m *Metrics) recordHTTP(ctx context.Context, method, route string, status int, d time.Duration) {
	m.HTTPRequestDuration.Record(ctx, d.Seconds(),
		metric.WithAttributes(
			attribute.String("method", method),
			attribute.String("route", route),
			attribute.String("status", strconv.Itoa(status)),
		),
	)
}
