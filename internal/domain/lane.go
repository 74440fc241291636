package domain

// Lane groups pending notifications of one kind. Each lane owns a share of
// the pending-request budget.
type Lane string

const (
	LaneExercise       Lane = "exercise"
	LaneSnooze         Lane = "snooze"
	LaneDeadResponse   Lane = "dead_response"
	LaneProgressReport Lane = "progress_report"
	LaneAchievement    Lane = "achievement"
	LaneUnknown        Lane = "unknown"
)

var Lanes = []Lane{
	LaneExercise,
	LaneSnooze,
	LaneDeadResponse,
	LaneProgressReport,
	LaneAchievement,
	LaneUnknown,
}

func (l Lane) String() string {
	return string(l)
}

// IsExerciseRelated reports whether the lane is owned by the queue manager's
// batch operations. Progress reports and achievements are never touched by them.
func (l Lane) IsExerciseRelated() bool {
	switch l {
	case LaneExercise, LaneSnooze, LaneDeadResponse:
		return true
	default:
		return false
	}
}

// HasTimestamp reports whether identifiers in the lane carry a fire time.
func (l Lane) HasTimestamp() bool {
	return l == LaneExercise || l == LaneSnooze
}
