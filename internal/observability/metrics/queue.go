package metrics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	queueMeterName = "queue.manager"
)

type QueueMetrics struct {
	runs                metric.Int64Counter
	scheduled           metric.Int64Counter
	failed              metric.Int64Counter
	cancelled           metric.Int64Counter
	pendingRequests     metric.Int64Histogram
	runDuration         metric.Float64Histogram
	calculationDuration metric.Float64Histogram
}

func NewQueueMetrics() (*QueueMetrics, error) {
	meter := otel.Meter(queueMeterName)

	runs, err := meter.Int64Counter(
		"queue_runs_total",
		metric.WithDescription("Total number of queue maintenance runs"),
		metric.WithUnit("{run}"),
	)
	if err != nil {
		return nil, err
	}

	scheduled, err := meter.Int64Counter(
		"queue_notifications_scheduled_total",
		metric.WithDescription("Notification requests accepted by the notification center"),
		metric.WithUnit("{notification}"),
	)
	if err != nil {
		return nil, err
	}

	failed, err := meter.Int64Counter(
		"queue_notifications_failed_total",
		metric.WithDescription("Notification requests rejected by the notification center"),
		metric.WithUnit("{notification}"),
	)
	if err != nil {
		return nil, err
	}

	cancelled, err := meter.Int64Counter(
		"queue_notifications_cancelled_total",
		metric.WithDescription("Pending notification requests cancelled"),
		metric.WithUnit("{notification}"),
	)
	if err != nil {
		return nil, err
	}

	pendingRequests, err := meter.Int64Histogram(
		"queue_pending_requests",
		metric.WithDescription("Pending requests per lane observed after a run"),
		metric.WithUnit("{notification}"),
		metric.WithExplicitBucketBoundaries(0, 1, 5, 10, 20, 30, 40, 50, 58, 64),
	)
	if err != nil {
		return nil, err
	}

	runDuration, err := meter.Float64Histogram(
		"queue_run_duration_seconds",
		metric.WithDescription("Queue maintenance run duration"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(
			0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10,
		),
	)
	if err != nil {
		return nil, err
	}

	calculationDuration, err := meter.Float64Histogram(
		"queue_next_time_calculation_duration_seconds",
		metric.WithDescription("Time spent computing upcoming reminder instants"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(
			0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1,
		),
	)
	if err != nil {
		return nil, err
	}

	return &QueueMetrics{
		runs:                runs,
		scheduled:           scheduled,
		failed:              failed,
		cancelled:           cancelled,
		pendingRequests:     pendingRequests,
		runDuration:         runDuration,
		calculationDuration: calculationDuration,
	}, nil
}

func (m *QueueMetrics) RecordRun(ctx context.Context, operation, state string, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("state", state),
	)
	m.runs.Add(ctx, 1, attrs)
	m.runDuration.Record(ctx, duration.Seconds(), attrs)
}

func (m *QueueMetrics) RecordScheduled(ctx context.Context, lane string, count int) {
	if count == 0 {
		return
	}
	m.scheduled.Add(ctx, int64(count), metric.WithAttributes(
		attribute.String("lane", lane),
	))
}

func (m *QueueMetrics) RecordFailed(ctx context.Context, lane string, count int) {
	if count == 0 {
		return
	}
	m.failed.Add(ctx, int64(count), metric.WithAttributes(
		attribute.String("lane", lane),
	))
}

func (m *QueueMetrics) RecordCancelled(ctx context.Context, lane string, count int) {
	if count == 0 {
		return
	}
	m.cancelled.Add(ctx, int64(count), metric.WithAttributes(
		attribute.String("lane", lane),
	))
}

func (m *QueueMetrics) RecordPending(ctx context.Context, lane string, count int) {
	m.pendingRequests.Record(ctx, int64(count), metric.WithAttributes(
		attribute.String("lane", lane),
	))
}

func (m *QueueMetrics) RecordCalculationDuration(ctx context.Context, duration time.Duration) {
	m.calculationDuration.Record(ctx, duration.Seconds())
}
