package budget

import (
	"context"
	"fmt"

	"github.com/KasumiMercury/primind-exercise-reminder/internal/domain"
)

// Snapshot is the lane breakdown of one user's pending requests.
type Snapshot struct {
	Total    int
	ByLane   map[domain.Lane]int
	Requests []domain.NotificationRequest
}

func (s Snapshot) Count(lane domain.Lane) int {
	return s.ByLane[lane]
}

type Counter interface {
	Snapshot(ctx context.Context) (Snapshot, error)
}

type counterImpl struct {
	center domain.NotificationCenter
}

func NewCounter(center domain.NotificationCenter) Counter {
	return &counterImpl{
		center: center,
	}
}

func (c *counterImpl) Snapshot(ctx context.Context) (Snapshot, error) {
	pending, err := c.center.PendingRequests(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to read pending requests: %w", err)
	}

	return NewSnapshot(pending), nil
}

func NewSnapshot(pending []domain.NotificationRequest) Snapshot {
	byLane := make(map[domain.Lane]int, len(domain.Lanes))
	for _, r := range pending {
		byLane[r.Lane()]++
	}

	return Snapshot{
		Total:    len(pending),
		ByLane:   byLane,
		Requests: pending,
	}
}
