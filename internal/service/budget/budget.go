package budget

import (
	"errors"
	"fmt"

	"github.com/KasumiMercury/primind-exercise-reminder/internal/domain"
)

const (
	DefaultPendingCeiling      = 64
	DefaultSnoozeReserve       = 1
	DefaultDeadResponseReserve = 1
	DefaultReportReserve       = 1
	DefaultAchievementReserve  = 3
	DefaultExerciseCap         = 58
	DefaultRefillThreshold     = 30
)

var (
	ErrBudgetExceedsCeiling = errors.New("exercise cap plus reserves exceeds pending ceiling")
	ErrThresholdAboveCap    = errors.New("refill threshold exceeds exercise cap")
	ErrNonPositiveValue     = errors.New("budget values must be positive")
)

// Budget partitions the platform's pending-request ceiling between lanes.
type Budget struct {
	PendingCeiling      int
	SnoozeReserve       int
	DeadResponseReserve int
	ReportReserve       int
	AchievementReserve  int
	ExerciseCap         int
	RefillThreshold     int
}

func Default() Budget {
	return Budget{
		PendingCeiling:      DefaultPendingCeiling,
		SnoozeReserve:       DefaultSnoozeReserve,
		DeadResponseReserve: DefaultDeadResponseReserve,
		ReportReserve:       DefaultReportReserve,
		AchievementReserve:  DefaultAchievementReserve,
		ExerciseCap:         DefaultExerciseCap,
		RefillThreshold:     DefaultRefillThreshold,
	}
}

func (b Budget) Reserved() int {
	return b.SnoozeReserve + b.DeadResponseReserve + b.ReportReserve + b.AchievementReserve
}

func (b Budget) Validate() error {
	if b.PendingCeiling <= 0 || b.ExerciseCap <= 0 || b.RefillThreshold <= 0 {
		return ErrNonPositiveValue
	}
	if b.SnoozeReserve < 0 || b.DeadResponseReserve < 0 || b.ReportReserve < 0 || b.AchievementReserve < 0 {
		return ErrNonPositiveValue
	}
	if b.ExerciseCap+b.Reserved() > b.PendingCeiling {
		return fmt.Errorf("%w: %d + %d > %d", ErrBudgetExceedsCeiling, b.ExerciseCap, b.Reserved(), b.PendingCeiling)
	}
	if b.RefillThreshold > b.ExerciseCap {
		return fmt.Errorf("%w: %d > %d", ErrThresholdAboveCap, b.RefillThreshold, b.ExerciseCap)
	}
	return nil
}

// LaneLimit is the most requests a lane may keep pending. Unknown lanes are
// not budgeted and report zero.
func (b Budget) LaneLimit(lane domain.Lane) int {
	switch lane {
	case domain.LaneExercise:
		return b.ExerciseCap
	case domain.LaneSnooze:
		return b.SnoozeReserve
	case domain.LaneDeadResponse:
		return b.DeadResponseReserve
	case domain.LaneProgressReport:
		return b.ReportReserve
	case domain.LaneAchievement:
		return b.AchievementReserve
	default:
		return 0
	}
}

// Headroom is how many exercise requests may be added to reach the cap
// without letting the total pending count pass the ceiling.
func (b Budget) Headroom(exerciseCount, totalPending int) int {
	room := b.ExerciseCap - exerciseCount
	if free := b.PendingCeiling - totalPending; free < room {
		room = free
	}
	return max(room, 0)
}

func (b Budget) NeedsRefill(exerciseCount int) bool {
	return exerciseCount < b.RefillThreshold
}
