package handler

import (
	"context"
	"time"

	"github.com/KasumiMercury/primind-exercise-reminder/internal/domain"
	"github.com/KasumiMercury/primind-exercise-reminder/internal/service/firedlog"
	"github.com/KasumiMercury/primind-exercise-reminder/internal/service/queue"
	"github.com/KasumiMercury/primind-exercise-reminder/internal/service/reminder"
	"github.com/KasumiMercury/primind-exercise-reminder/internal/service/report"
)

//go:generate mockgen -source=service.go -destination=service_mock.go -package=handler

// ReminderService is the part of reminder.Service the HTTP layer drives.
type ReminderService interface {
	ListProfiles(ctx context.Context, userID string) ([]*domain.ScheduleProfile, string, error)
	CreateProfile(ctx context.Context, userID string, p *domain.ScheduleProfile) (*reminder.ProfileChange, error)
	UpdateProfile(ctx context.Context, userID string, p *domain.ScheduleProfile) (*reminder.ProfileChange, error)
	DeleteProfile(ctx context.Context, userID, profileID string) (*reminder.ProfileChange, error)
	ActivateProfile(ctx context.Context, userID, profileID string) (*reminder.ProfileChange, error)

	EnsureQueue(ctx context.Context, userID string) (*queue.Result, error)
	RebuildQueue(ctx context.Context, userID string) (*queue.Result, error)
	ClearQueue(ctx context.Context, userID string) (*queue.Result, error)
	DebugInfo(ctx context.Context, userID string, n int) (*queue.DebugInfo, error)

	Snooze(ctx context.Context, userID string, minutes int) (time.Time, error)
	LogExercise(ctx context.Context, userID string, log domain.ExerciseLog) (*reminder.ExerciseOutcome, error)
	ScheduleProgressReport(ctx context.Context, userID, frequency string) (time.Time, report.ReportStats, error)
	Timeline(ctx context.Context, userID string) []firedlog.TimelineEvent
	ClearTimeline(ctx context.Context, userID string)
	Settings(ctx context.Context, userID string) (domain.UserSettings, error)
	UpdateSettings(ctx context.Context, userID string, settings domain.UserSettings) (*queue.Result, error)

	HandleDelivery(ctx context.Context, d reminder.Delivery) (*reminder.DeliveryOutcome, error)
}

var _ ReminderService = (*reminder.Service)(nil)
