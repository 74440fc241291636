package queuerecorder

import (
	"context"

	"github.com/KasumiMercury/primind-exercise-reminder/internal/domain"
)

type noopRecorder struct{}

func NewNoopRecorder() domain.QueueRunRecorder {
	return &noopRecorder{}
}

func (n *noopRecorder) RecordRun(_ context.Context, _ domain.QueueRunRecord) error {
	return nil
}

func (n *noopRecorder) Close() error {
	return nil
}
