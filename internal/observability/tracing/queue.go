package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const queueTracerName = "github.com/KasumiMercury/primind-exercise-reminder/internal/service/queue"

func QueueTracer() trace.Tracer {
	return otel.Tracer(queueTracerName)
}

func StartQueueRunSpan(ctx context.Context, operation, userID string) (context.Context, trace.Span) {
	return QueueTracer().Start(ctx, "queue."+operation,
		trace.WithAttributes(
			attribute.String("queue.operation", operation),
			attribute.String("user_id", userID),
		),
	)
}

func StartExternalAPISpan(ctx context.Context, operation, url string) (context.Context, trace.Span) {
	return QueueTracer().Start(ctx, "queue.external_api."+operation,
		trace.WithAttributes(
			attribute.String("url", url),
		),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

func StartRedisOperationSpan(ctx context.Context, operation, key string) (context.Context, trace.Span) {
	return QueueTracer().Start(ctx, "queue.redis."+operation,
		trace.WithAttributes(
			attribute.String("db.system", "redis"),
			attribute.String("db.operation", operation),
			attribute.String("db.key", key),
		),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

func RecordQueueRunResult(span trace.Span, state string, beforeCount, afterCount, scheduledCount, failedCount, cancelledCount int, err error) {
	span.SetAttributes(
		attribute.String("queue.state", state),
		attribute.Int("queue.before_count", beforeCount),
		attribute.Int("queue.after_count", afterCount),
		attribute.Int("queue.scheduled_count", scheduledCount),
		attribute.Int("queue.failed_count", failedCount),
		attribute.Int("queue.cancelled_count", cancelledCount),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
}
