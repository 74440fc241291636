package taskqueue

import "context"

//go:generate mockgen -source=task_queue.go -destination=mock.go -package=taskqueue

// TaskQueue delays delivery callbacks until a request's fire time.
type TaskQueue interface {
	RegisterNotification(ctx context.Context, task *NotificationTask) (*TaskResponse, error)
	// DeleteTask succeeds when the task is already gone.
	DeleteTask(ctx context.Context, taskID string) error
}
