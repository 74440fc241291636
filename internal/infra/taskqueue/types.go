package taskqueue

import (
	"time"

	"github.com/google/uuid"
)

// NotificationTask is the delivery callback posted back to the service when
// a pending request fires.
type NotificationTask struct {
	TaskID     string    `json:"task_id"`
	UserID     string    `json:"user_id"`
	Identifier string    `json:"identifier"`
	ScheduleAt time.Time `json:"fire_at"`
}

// NewNotificationTask assigns a fresh task id. Task names of deleted tasks
// cannot be reused for a while, so ids are never derived from the identifier.
func NewNotificationTask(userID, identifier string, fireAt time.Time) *NotificationTask {
	return &NotificationTask{
		TaskID:     "reminder-" + uuid.NewString(),
		UserID:     userID,
		Identifier: identifier,
		ScheduleAt: fireAt,
	}
}

type TaskResponse struct {
	Name         string    `json:"name"`
	ScheduleTime time.Time `json:"schedule_time"`
	CreateTime   time.Time `json:"create_time"`
}

type PrimindTaskRequest struct {
	Task PrimindTask `json:"task"`
}

type PrimindTask struct {
	Name         string             `json:"name,omitempty"`
	HTTPRequest  PrimindHTTPRequest `json:"httpRequest"`
	ScheduleTime string             `json:"scheduleTime,omitempty"`
}

type PrimindHTTPRequest struct {
	URL     string            `json:"url,omitempty"`
	Body    string            `json:"body"`
	Headers map[string]string `json:"headers,omitempty"`
}

type PrimindTaskResponse struct {
	Name         string `json:"name"`
	ScheduleTime string `json:"scheduleTime"`
	CreateTime   string `json:"createTime"`
}
