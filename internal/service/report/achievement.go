package report

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/KasumiMercury/primind-exercise-reminder/internal/domain"
)

type AchievementKind string

const (
	AchievementTotal  AchievementKind = "total"
	AchievementStreak AchievementKind = "streak"
)

type Achievement struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Kind      AchievementKind `json:"kind"`
	Threshold int             `json:"threshold"`
}

func (a Achievement) describe(f NumberFormatter) string {
	if a.Kind == AchievementStreak {
		return fmt.Sprintf("You exercised %s days in a row.", f.Int(a.Threshold))
	}
	if a.Threshold == 1 {
		return "You logged your first exercise."
	}
	return fmt.Sprintf("You have logged %s exercises.", f.Int(a.Threshold))
}

var Achievements = []Achievement{
	{ID: "first_workout", Name: "First Step", Kind: AchievementTotal, Threshold: 1},
	{ID: "streak_3", Name: "On a Roll", Kind: AchievementStreak, Threshold: 3},
	{ID: "streak_7", Name: "Week Warrior", Kind: AchievementStreak, Threshold: 7},
	{ID: "streak_30", Name: "Habit Formed", Kind: AchievementStreak, Threshold: 30},
	{ID: "total_10", Name: "Ten Down", Kind: AchievementTotal, Threshold: 10},
	{ID: "total_50", Name: "Half Century", Kind: AchievementTotal, Threshold: 50},
	{ID: "total_100", Name: "Centurion", Kind: AchievementTotal, Threshold: 100},
}

// CurrentStreak counts consecutive calendar days with at least one log,
// ending today, or yesterday when nothing has been logged today yet.
func CurrentStreak(logs []domain.ExerciseLog, now time.Time) int {
	days := make(map[string]struct{}, len(logs))
	for _, l := range logs {
		days[l.CompletedAt.In(now.Location()).Format(time.DateOnly)] = struct{}{}
	}

	day := domain.StartOfDay(now)
	if _, ok := days[day.Format(time.DateOnly)]; !ok {
		day = day.AddDate(0, 0, -1)
	}

	streak := 0
	for {
		if _, ok := days[day.Format(time.DateOnly)]; !ok {
			return streak
		}
		streak++
		day = day.AddDate(0, 0, -1)
	}
}

// Evaluator unlocks achievements from a user's exercise history.
type Evaluator struct {
	logs         domain.ExerciseLogRepository
	achievements domain.AchievementRepository
}

func NewEvaluator(logs domain.ExerciseLogRepository, achievements domain.AchievementRepository) *Evaluator {
	return &Evaluator{
		logs:         logs,
		achievements: achievements,
	}
}

// Evaluate returns the achievements newly unlocked at now.
func (e *Evaluator) Evaluate(ctx context.Context, userID string, now time.Time) ([]Achievement, error) {
	all, err := e.logs.LogsInRange(ctx, userID, time.Time{}, now.Add(time.Nanosecond))
	if err != nil {
		return nil, fmt.Errorf("failed to load exercise logs: %w", err)
	}

	total := len(all)
	streak := CurrentStreak(all, now)

	var unlocked []Achievement
	for _, a := range Achievements {
		value := total
		if a.Kind == AchievementStreak {
			value = streak
		}
		if value < a.Threshold {
			continue
		}

		fresh, err := e.achievements.MarkUnlocked(ctx, userID, a.ID, now)
		if err != nil {
			slog.WarnContext(ctx, "failed to persist achievement",
				slog.String("user_id", userID),
				slog.String("achievement_id", a.ID),
				slog.String("error", err.Error()),
			)
			continue
		}
		if fresh {
			unlocked = append(unlocked, a)
		}
	}

	return unlocked, nil
}

func LookupAchievement(id string) (Achievement, bool) {
	for _, a := range Achievements {
		if a.ID == id {
			return a, true
		}
	}
	return Achievement{}, false
}
