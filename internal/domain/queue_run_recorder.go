package domain

import (
	"context"
	"time"
)

type QueueRunRecord struct {
	RunID          string
	UserID         string
	Operation      string
	State          string
	RecordedAt     time.Time
	BeforeCount    int
	AfterCount     int
	ScheduledCount int
	FailedCount    int
	CancelledCount int
}

type QueueRunRecorder interface {
	RecordRun(ctx context.Context, record QueueRunRecord) error
	Close() error
}
