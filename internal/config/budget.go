package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/KasumiMercury/primind-exercise-reminder/internal/service/budget"
)

const (
	pendingCeilingEnv      = "PENDING_CEILING"
	exerciseCapEnv         = "EXERCISE_CAP"
	refillThresholdEnv     = "REFILL_THRESHOLD"
	snoozeReserveEnv       = "RESERVE_SNOOZE"
	deadResponseReserveEnv = "RESERVE_DEAD_RESPONSE"
	reportReserveEnv       = "RESERVE_PROGRESS_REPORT"
	achievementReserveEnv  = "RESERVE_ACHIEVEMENT"
)

type BudgetConfig struct {
	budget.Budget
}

func LoadBudgetConfig() (*BudgetConfig, error) {
	b := budget.Default()

	fields := []struct {
		key string
		dst *int
	}{
		{pendingCeilingEnv, &b.PendingCeiling},
		{exerciseCapEnv, &b.ExerciseCap},
		{refillThresholdEnv, &b.RefillThreshold},
		{snoozeReserveEnv, &b.SnoozeReserve},
		{deadResponseReserveEnv, &b.DeadResponseReserve},
		{reportReserveEnv, &b.ReportReserve},
		{achievementReserveEnv, &b.AchievementReserve},
	}

	for _, f := range fields {
		raw := os.Getenv(f.key)
		if raw == "" {
			continue
		}
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidInteger, f.key)
		}
		*f.dst = parsed
	}

	return &BudgetConfig{Budget: b}, nil
}

func (c *BudgetConfig) Validate() error {
	if c == nil {
		return ErrBudgetMissing
	}
	return c.Budget.Validate()
}
