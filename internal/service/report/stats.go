package report

import (
	"context"
	"fmt"
	"time"

	"github.com/KasumiMercury/primind-exercise-reminder/internal/domain"
)

type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
)

func ParseFrequency(s string) (Frequency, bool) {
	switch f := Frequency(s); f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly:
		return f, true
	default:
		return "", false
	}
}

// Period returns [start, end) of the period containing now. Weeks start on
// Sunday.
func (f Frequency) Period(now time.Time) (time.Time, time.Time) {
	today := domain.StartOfDay(now)
	switch f {
	case FrequencyWeekly:
		start := today.AddDate(0, 0, -int(now.Weekday()))
		return start, start.AddDate(0, 0, 7)
	case FrequencyMonthly:
		y, m, _ := now.Date()
		start := time.Date(y, m, 1, 0, 0, 0, 0, now.Location())
		return start, start.AddDate(0, 1, 0)
	default:
		return today, today.AddDate(0, 0, 1)
	}
}

// PreviousPeriod returns the period immediately before the one containing now.
func (f Frequency) PreviousPeriod(now time.Time) (time.Time, time.Time) {
	start, _ := f.Period(now)
	return f.Period(start.Add(-time.Nanosecond))
}

func (f Frequency) noun() string {
	switch f {
	case FrequencyWeekly:
		return "week"
	case FrequencyMonthly:
		return "month"
	default:
		return "day"
	}
}

type ReportStats struct {
	PeriodStart          time.Time `json:"period_start"`
	PeriodEnd            time.Time `json:"period_end"`
	TotalExercises       int       `json:"total_exercises"`
	TotalDurationSeconds int       `json:"total_duration_seconds"`
	TotalRepetitions     int       `json:"total_repetitions"`
	ActiveDays           int       `json:"active_days"`
}

func (s ReportStats) ActiveMinutes() int {
	return s.TotalDurationSeconds / 60
}

// Summarize aggregates the logs falling in [start, end).
func Summarize(logs []domain.ExerciseLog, start, end time.Time) ReportStats {
	stats := ReportStats{PeriodStart: start, PeriodEnd: end}
	days := make(map[string]struct{})

	for _, l := range logs {
		if l.CompletedAt.Before(start) || !l.CompletedAt.Before(end) {
			continue
		}
		stats.TotalExercises++
		stats.TotalDurationSeconds += l.DurationSeconds
		stats.TotalRepetitions += l.Repetitions
		days[l.CompletedAt.In(start.Location()).Format(time.DateOnly)] = struct{}{}
	}
	stats.ActiveDays = len(days)

	return stats
}

// StatsCalculator derives report statistics from a user's exercise logs.
// ReportedPeriod returns the period a report firing at fireAt describes. Daily
// reports cover the day they fire on; weekly and monthly reports fire at the
// start of a period and cover the one that just ended.
func (f Frequency) ReportedPeriod(fireAt time.Time) (time.Time, time.Time) {
	if f == FrequencyDaily {
		return f.Period(fireAt)
	}
	return f.PreviousPeriod(fireAt)
}

type StatsCalculator struct {
	logs domain.ExerciseLogRepository
}

func NewStatsCalculator(logs domain.ExerciseLogRepository) *StatsCalculator {
	return &StatsCalculator{logs: logs}
}

// Stats returns the statistics of the current and the previous period.
func (c *StatsCalculator) Stats(ctx context.Context, userID string, frequency Frequency, now time.Time) (current, previous ReportStats, err error) {
	prevStart, prevEnd := frequency.PreviousPeriod(now)
	curStart, curEnd := frequency.Period(now)

	logs, err := c.logs.LogsInRange(ctx, userID, prevStart, curEnd)
	if err != nil {
		return ReportStats{}, ReportStats{}, fmt.Errorf("failed to load exercise logs: %w", err)
	}

	return Summarize(logs, curStart, curEnd), Summarize(logs, prevStart, prevEnd), nil
}

// ReportStats returns the statistics a report firing at fireAt describes and
// those of the period before it.
func (c *StatsCalculator) ReportStats(ctx context.Context, userID string, frequency Frequency, fireAt time.Time) (current, previous ReportStats, err error) {
	curStart, curEnd := frequency.ReportedPeriod(fireAt)
	prevStart, prevEnd := frequency.Period(curStart.Add(-time.Nanosecond))

	logs, err := c.logs.LogsInRange(ctx, userID, prevStart, curEnd)
	if err != nil {
		return ReportStats{}, ReportStats{}, fmt.Errorf("failed to load exercise logs: %w", err)
	}

	return Summarize(logs, curStart, curEnd), Summarize(logs, prevStart, prevEnd), nil
}
