package report

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/KasumiMercury/primind-exercise-reminder/internal/domain"
	"github.com/KasumiMercury/primind-exercise-reminder/internal/service/lane"
)

type calendarSlot struct {
	weekday domain.Weekday
	day     int
	hour    int
	minute  int
}

var reportSlots = map[Frequency]calendarSlot{
	FrequencyDaily:   {hour: 20},
	FrequencyWeekly:  {weekday: domain.Sunday, hour: 19},
	FrequencyMonthly: {day: 1, hour: 10},
}

// Scheduler submits progress reports and achievement alerts for one user.
type Scheduler struct {
	userID             string
	center             domain.NotificationCenter
	classifier         *lane.Classifier
	achievementReserve int
	clock              domain.Clock
}

func NewScheduler(userID string, center domain.NotificationCenter, classifier *lane.Classifier, achievementReserve int, clock domain.Clock) *Scheduler {
	return &Scheduler{
		userID:             userID,
		center:             center,
		classifier:         classifier,
		achievementReserve: achievementReserve,
		clock:              clock,
	}
}

// ScheduleProgressReport replaces the pending progress report with one built
// from the given statistics. It returns the instant the report will fire.
func (s *Scheduler) ScheduleProgressReport(ctx context.Context, frequency Frequency, stats, previous ReportStats, f NumberFormatter) (time.Time, error) {
	slot, ok := reportSlots[frequency]
	if !ok {
		return time.Time{}, fmt.Errorf("unknown report frequency %q", frequency)
	}

	req := &domain.NotificationRequest{
		Identifier: domain.ProgressReportIdentifier,
		Content:    ProgressContent(stats, previous, frequency, f),
		Trigger:    domain.NewCalendarTrigger(slot.weekday, slot.day, slot.hour, slot.minute, s.clock.Now()),
	}

	if err := s.center.Submit(ctx, req); err != nil {
		return time.Time{}, fmt.Errorf("failed to submit progress report: %w", err)
	}

	slog.InfoContext(ctx, "progress report scheduled",
		slog.String("user_id", s.userID),
		slog.String("frequency", string(frequency)),
		slog.Time("fire_at", req.Trigger.FireAt),
	)

	return req.Trigger.FireAt, nil
}

// NotifyAchievements submits one alert per achievement. The achievement lane
// never grows past its reserve; the oldest pending alert makes room.
func (s *Scheduler) NotifyAchievements(ctx context.Context, achievements []Achievement, f NumberFormatter) (int, error) {
	if len(achievements) == 0 || s.achievementReserve <= 0 {
		return 0, nil
	}

	all, err := s.center.PendingRequests(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to read pending requests: %w", err)
	}
	pending := s.classifier.FilterLane(all, domain.LaneAchievement)
	sort.Slice(pending, func(i, j int) bool {
		return pending[i].Trigger.FireAt.Before(pending[j].Trigger.FireAt)
	})

	now := s.clock.Now()
	submitted := 0
	for _, a := range achievements {
		if len(pending) >= s.achievementReserve {
			oldest := pending[0]
			if err := s.center.Cancel(ctx, []string{oldest.Identifier}); err != nil {
				slog.WarnContext(ctx, "failed to evict achievement alert",
					slog.String("user_id", s.userID),
					slog.String("identifier", oldest.Identifier),
					slog.String("error", err.Error()),
				)
				continue
			}
			pending = pending[1:]
		}

		req := &domain.NotificationRequest{
			Identifier: domain.AchievementIdentifier(a.ID),
			Content:    AchievementContent(a, f),
			Trigger:    domain.NewIntervalTrigger(now),
		}
		if err := s.center.Submit(ctx, req); err != nil {
			slog.WarnContext(ctx, "failed to submit achievement alert",
				slog.String("user_id", s.userID),
				slog.String("achievement_id", a.ID),
				slog.String("error", err.Error()),
			)
			continue
		}

		pending = append(pending, *req)
		submitted++
	}

	return submitted, nil
}
