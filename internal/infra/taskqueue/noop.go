package taskqueue

import (
	"context"
	"log/slog"
)

// NoopQueue accepts every task without scheduling delivery.
type NoopQueue struct{}

func NewNoopQueue() *NoopQueue {
	return &NoopQueue{}
}

func (q *NoopQueue) RegisterNotification(ctx context.Context, task *NotificationTask) (*TaskResponse, error) {
	slog.DebugContext(ctx, "task queue disabled, notification not scheduled",
		slog.String("identifier", task.Identifier),
		slog.String("user_id", task.UserID),
	)
	return &TaskResponse{Name: task.TaskID, ScheduleTime: task.ScheduleAt}, nil
}

func (q *NoopQueue) DeleteTask(_ context.Context, _ string) error {
	return nil
}
