package queue

import (
	"time"

	"github.com/KasumiMercury/primind-exercise-reminder/internal/domain"
)

type State string

const (
	StateEmpty          State = "empty"
	StateBelowThreshold State = "below_threshold"
	StateHealthy        State = "healthy"
	StateRefilling      State = "refilling"
	StateRebuilding     State = "rebuilding"
)

func (s State) String() string {
	return string(s)
}

type Operation string

const (
	OperationEnsure  Operation = "ensure"
	OperationRebuild Operation = "rebuild"
	OperationClear   Operation = "clear"
)

// Result is the aggregate outcome of one queue operation. Counts refer to the
// exercise lane except CancelledCount, which covers every exercise-related lane.
type Result struct {
	Operation      Operation `json:"operation"`
	State          State     `json:"state"`
	BeforeCount    int       `json:"before_count"`
	AfterCount     int       `json:"after_count"`
	ScheduledCount int       `json:"scheduled_count"`
	FailedCount    int       `json:"failed_count"`
	CancelledCount int       `json:"cancelled_count"`
}

type DebugInfo struct {
	State            State               `json:"state"`
	TotalPending     int                 `json:"total_pending"`
	LaneCounts       map[domain.Lane]int `json:"lane_counts"`
	UpcomingExercise []time.Time         `json:"upcoming_exercise"`
	FurthestExercise *time.Time          `json:"furthest_exercise,omitempty"`
	LastValidatedAt  *time.Time          `json:"last_validated_at,omitempty"`
}
