package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/KasumiMercury/primind-exercise-reminder/internal/domain"
	"github.com/KasumiMercury/primind-exercise-reminder/internal/service/queue"
	"github.com/KasumiMercury/primind-exercise-reminder/internal/service/report"
)

type ExerciseOutcome struct {
	Log         domain.ExerciseLog
	Unlocked    []report.Achievement
	AlertsSent  int
	QueueResult *queue.Result
}

// LogExercise records a finished exercise. Pending follow-ups are cancelled,
// newly unlocked achievements are announced and the queue is topped up.
func (s *Service) LogExercise(ctx context.Context, userID string, log domain.ExerciseLog) (*ExerciseOutcome, error) {
	if log.ExerciseName == "" || log.DurationSeconds <= 0 {
		return nil, ErrInvalidExerciseLog
	}

	now := s.deps.Clock.Now()
	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	if log.CompletedAt.IsZero() {
		log.CompletedAt = now
	}

	if err := s.deps.ExerciseLogs.AddLog(ctx, userID, log); err != nil {
		return nil, fmt.Errorf("failed to store exercise log: %w", err)
	}

	outcome := &ExerciseOutcome{Log: log}

	if err := s.followups(userID).Acknowledge(ctx); err != nil {
		slog.WarnContext(ctx, "failed to cancel follow-ups",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
	}

	settings := s.userSettings(ctx, userID)
	formatter := report.NewNumberFormatterFor(settings.Language)

	unlocked, err := s.evaluator.Evaluate(ctx, userID, now)
	if err != nil {
		slog.WarnContext(ctx, "failed to evaluate achievements",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
	}
	outcome.Unlocked = unlocked

	if len(unlocked) > 0 {
		sent, err := s.scheduler(userID).NotifyAchievements(ctx, unlocked, formatter)
		if err != nil {
			slog.WarnContext(ctx, "failed to announce achievements",
				slog.String("user_id", userID),
				slog.String("error", err.Error()),
			)
		}
		outcome.AlertsSent = sent
	}

	result, err := s.EnsureQueue(ctx, userID)
	if err != nil {
		slog.WarnContext(ctx, "failed to ensure queue after exercise",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
	}
	outcome.QueueResult = result

	return outcome, nil
}

// ScheduleProgressReport submits the progress report for the frequency, or
// the user's configured frequency when empty.
func (s *Service) ScheduleProgressReport(ctx context.Context, userID, frequency string) (time.Time, report.ReportStats, error) {
	settings := s.userSettings(ctx, userID)
	freq, ok := reportFrequency(settings, frequency)
	if !ok {
		return time.Time{}, report.ReportStats{}, ErrInvalidFrequency
	}

	current, previous, err := s.stats.Stats(ctx, userID, freq, s.deps.Clock.Now())
	if err != nil {
		return time.Time{}, report.ReportStats{}, err
	}

	fireAt, err := s.scheduler(userID).ScheduleProgressReport(ctx, freq, current, previous, report.NewNumberFormatterFor(settings.Language))
	if err != nil {
		return time.Time{}, current, err
	}

	return fireAt, current, nil
}

// progressContent rebuilds a fired progress report from the logs as they are
// at fireAt.
func (s *Service) progressContent(ctx context.Context, userID string, fireAt time.Time) (domain.Content, error) {
	settings := s.userSettings(ctx, userID)
	freq, ok := reportFrequency(settings, "")
	if !ok {
		return domain.Content{}, ErrInvalidFrequency
	}

	current, previous, err := s.stats.ReportStats(ctx, userID, freq, fireAt)
	if err != nil {
		return domain.Content{}, err
	}

	return report.ProgressContent(current, previous, freq, report.NewNumberFormatterFor(settings.Language)), nil
}

func reportFrequency(settings domain.UserSettings, frequency string) (report.Frequency, bool) {
	if frequency == "" {
		frequency = settings.ReportFrequency
	}
	if frequency == "" {
		frequency = string(report.FrequencyWeekly)
	}
	return report.ParseFrequency(frequency)
}
