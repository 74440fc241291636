package domain

import (
	"context"
	"time"
)

type ProfileRepository interface {
	ListProfiles(ctx context.Context, userID string) ([]*ScheduleProfile, error)
	GetProfile(ctx context.Context, userID, profileID string) (*ScheduleProfile, error)
	SaveProfile(ctx context.Context, userID string, profile *ScheduleProfile) error
	DeleteProfile(ctx context.Context, userID, profileID string) error
	GetActiveProfileID(ctx context.Context, userID string) (string, error)
	SetActiveProfileID(ctx context.Context, userID, profileID string) error
}

// LegacySettings is the flat reminder configuration that predates profiles.
type LegacySettings struct {
	ActiveDays          []Weekday `json:"active_days"`
	StartHour           int       `json:"start_hour"`
	EndHour             int       `json:"end_hour"`
	IntervalMinutes     int       `json:"interval_minutes"`
	DeadResponseEnabled bool      `json:"dead_response_enabled"`
	DeadResponseMinutes int       `json:"dead_response_minutes"`
}

type LegacySettingsRepository interface {
	GetLegacySettings(ctx context.Context, userID string) (*LegacySettings, error)
	DeleteLegacySettings(ctx context.Context, userID string) error
}

type ExerciseLog struct {
	ID              string    `json:"id"`
	ExerciseName    string    `json:"exercise_name"`
	DurationSeconds int       `json:"duration_seconds"`
	Repetitions     int       `json:"repetitions,omitempty"`
	CompletedAt     time.Time `json:"completed_at"`
}

type ExerciseLogRepository interface {
	AddLog(ctx context.Context, userID string, log ExerciseLog) error
	LogsInRange(ctx context.Context, userID string, start, end time.Time) ([]ExerciseLog, error)
}

// FiredLogStore persists one user's fired-notification timestamps.
type FiredLogStore interface {
	Load(ctx context.Context, userID string) ([]time.Time, error)
	Save(ctx context.Context, userID string, entries []time.Time) error
}

type AchievementRepository interface {
	UnlockedAchievements(ctx context.Context, userID string) (map[string]time.Time, error)
	// MarkUnlocked reports false when the achievement was already unlocked.
	MarkUnlocked(ctx context.Context, userID, achievementID string, at time.Time) (bool, error)
}

// UserSettings holds per-user switches outside of schedule profiles.
type UserSettings struct {
	RemindersEnabled bool   `json:"reminders_enabled"`
	Premium          bool   `json:"premium"`
	Language         string `json:"language,omitempty"`
	ReportFrequency  string `json:"report_frequency,omitempty"`
}

func DefaultUserSettings() UserSettings {
	return UserSettings{RemindersEnabled: true, Language: "en"}
}

type UserSettingsRepository interface {
	GetUserSettings(ctx context.Context, userID string) (UserSettings, error)
	SaveUserSettings(ctx context.Context, userID string, settings UserSettings) error
}
