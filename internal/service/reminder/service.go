package reminder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/KasumiMercury/primind-exercise-reminder/internal/domain"
	"github.com/KasumiMercury/primind-exercise-reminder/internal/infra/pushgateway"
	"github.com/KasumiMercury/primind-exercise-reminder/internal/service/budget"
	"github.com/KasumiMercury/primind-exercise-reminder/internal/service/firedlog"
	"github.com/KasumiMercury/primind-exercise-reminder/internal/service/followup"
	"github.com/KasumiMercury/primind-exercise-reminder/internal/service/lane"
	"github.com/KasumiMercury/primind-exercise-reminder/internal/service/nexttime"
	"github.com/KasumiMercury/primind-exercise-reminder/internal/service/profile"
	"github.com/KasumiMercury/primind-exercise-reminder/internal/service/queue"
	"github.com/KasumiMercury/primind-exercise-reminder/internal/service/report"
)

// Center is a user's notification center that can also settle deliveries.
type Center interface {
	domain.NotificationCenter
	Complete(ctx context.Context, identifier, taskID string) (*domain.NotificationRequest, error)
}

// CenterFunc returns the notification center of a user.
type CenterFunc func(userID string) Center

type Gateway interface {
	Send(ctx context.Context, msg pushgateway.Message) error
}

type Dependencies struct {
	Profiles     *profile.Service
	Legacy       domain.LegacySettingsRepository
	Settings     domain.UserSettingsRepository
	ExerciseLogs domain.ExerciseLogRepository
	Achievements domain.AchievementRepository
	Centers      CenterFunc
	Queues       *queue.Registry
	FiredLog     *firedlog.Log
	Gateway      Gateway
	Classifier   *lane.Classifier
	Calculator   *nexttime.Calculator
	Budget       budget.Budget
	Clock        domain.Clock
}

// Service runs every per-user workflow on top of the queue manager, the
// follow-up lanes, reports and the fired log.
type Service struct {
	deps      Dependencies
	stats     *report.StatsCalculator
	evaluator *report.Evaluator
	legacy    nexttime.LegacyCalculator
}

func NewService(deps Dependencies) *Service {
	return &Service{
		deps:      deps,
		stats:     report.NewStatsCalculator(deps.ExerciseLogs),
		evaluator: report.NewEvaluator(deps.ExerciseLogs, deps.Achievements),
	}
}

// schedule is what drives a user's exercise lane.
type schedule struct {
	source nexttime.Source
	// profile also carries the dead-response settings; for legacy users it
	// is derived and never persisted.
	profile *domain.ScheduleProfile
}

// resolveSchedule prefers the active profile, migrates legacy settings when
// the user has none, and otherwise falls back to the legacy calculator.
func (s *Service) resolveSchedule(ctx context.Context, userID string) (schedule, error) {
	p, err := s.deps.Profiles.Active(ctx, userID)
	if err == nil {
		return schedule{source: s.deps.Calculator.Source(p), profile: p}, nil
	}
	if !errors.Is(err, domain.ErrNoActiveProfile) {
		return schedule{}, err
	}

	migrated, ok, err := s.deps.Profiles.MigrateLegacy(ctx, userID)
	if err != nil {
		return schedule{}, err
	}
	if ok {
		return schedule{source: s.deps.Calculator.Source(migrated), profile: migrated}, nil
	}

	settings, err := s.deps.Legacy.GetLegacySettings(ctx, userID)
	if errors.Is(err, domain.ErrLegacySettingsAbsent) {
		return schedule{}, nil
	}
	if err != nil {
		return schedule{}, fmt.Errorf("failed to load legacy settings: %w", err)
	}

	return schedule{
		source:  s.legacy.Source(settings),
		profile: profile.FromLegacy(settings, s.deps.Clock.Now()),
	}, nil
}

func (s *Service) userSettings(ctx context.Context, userID string) domain.UserSettings {
	settings, err := s.deps.Settings.GetUserSettings(ctx, userID)
	if err != nil {
		slog.WarnContext(ctx, "failed to load user settings, using defaults",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
		return domain.DefaultUserSettings()
	}
	return settings
}

func (s *Service) EnsureQueue(ctx context.Context, userID string) (*queue.Result, error) {
	sched, err := s.resolveSchedule(ctx, userID)
	if err != nil {
		return nil, err
	}
	settings := s.userSettings(ctx, userID)
	return s.deps.Queues.Get(userID).Ensure(ctx, sched.source, settings.RemindersEnabled)
}

func (s *Service) RebuildQueue(ctx context.Context, userID string) (*queue.Result, error) {
	sched, err := s.resolveSchedule(ctx, userID)
	if err != nil {
		return nil, err
	}
	settings := s.userSettings(ctx, userID)
	return s.deps.Queues.Get(userID).Rebuild(ctx, sched.source, settings.RemindersEnabled)
}

func (s *Service) ClearQueue(ctx context.Context, userID string) (*queue.Result, error) {
	return s.deps.Queues.Get(userID).ClearQueue(ctx)
}

func (s *Service) DebugInfo(ctx context.Context, userID string, n int) (*queue.DebugInfo, error) {
	return s.deps.Queues.Get(userID).DebugInfo(ctx, n)
}

func (s *Service) followups(userID string) *followup.Service {
	return followup.NewService(userID, s.deps.Centers(userID), s.deps.Classifier, s.deps.Clock)
}

func (s *Service) scheduler(userID string) *report.Scheduler {
	return report.NewScheduler(userID, s.deps.Centers(userID), s.deps.Classifier, s.deps.Budget.AchievementReserve, s.deps.Clock)
}

func (s *Service) Snooze(ctx context.Context, userID string, minutes int) (time.Time, error) {
	return s.followups(userID).Snooze(ctx, minutes)
}

func (s *Service) Timeline(ctx context.Context, userID string) []firedlog.TimelineEvent {
	return s.deps.FiredLog.TodaysEvents(ctx, userID)
}

func (s *Service) ClearTimeline(ctx context.Context, userID string) {
	s.deps.FiredLog.Clear(ctx, userID)
}

func (s *Service) Settings(ctx context.Context, userID string) (domain.UserSettings, error) {
	return s.deps.Settings.GetUserSettings(ctx, userID)
}

// UpdateSettings stores the settings and converges the queue to them.
func (s *Service) UpdateSettings(ctx context.Context, userID string, settings domain.UserSettings) (*queue.Result, error) {
	if settings.ReportFrequency != "" {
		if _, ok := report.ParseFrequency(settings.ReportFrequency); !ok {
			return nil, ErrInvalidFrequency
		}
	}
	if err := s.deps.Settings.SaveUserSettings(ctx, userID, settings); err != nil {
		return nil, fmt.Errorf("failed to save settings: %w", err)
	}
	return s.EnsureQueue(ctx, userID)
}
