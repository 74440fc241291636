package stub

import "time"

// StoredTask is a task accepted through the Primind Tasks API surface.
type StoredTask struct {
	Name         string            `json:"name"`
	Queue        string            `json:"queue"`
	URL          string            `json:"url"`
	Body         []byte            `json:"body"`
	Headers      map[string]string `json:"headers,omitempty"`
	ScheduleTime time.Time         `json:"schedule_time"`
	CreateTime   time.Time         `json:"create_time"`
}

// ReceivedMessage is a push gateway notification captured by the stub.
type ReceivedMessage struct {
	UserID     string    `json:"user_id"`
	Identifier string    `json:"identifier"`
	Title      string    `json:"title"`
	Body       string    `json:"body"`
	Category   string    `json:"category"`
	FiredAt    time.Time `json:"fired_at"`
	ReceivedAt time.Time `json:"received_at"`
}

type TasksResponse struct {
	Tasks []StoredTask `json:"tasks"`
	Count int          `json:"count"`
}

type MessagesResponse struct {
	Messages []ReceivedMessage `json:"messages"`
	Count    int               `json:"count"`
}

type DispatchResponse struct {
	Dispatched int      `json:"dispatched"`
	Failed     []string `json:"failed"`
}
