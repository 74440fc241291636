package profile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/KasumiMercury/primind-exercise-reminder/internal/domain"
)

const DefaultFreeProfileLimit = 3

type Service struct {
	profiles         domain.ProfileRepository
	legacy           domain.LegacySettingsRepository
	clock            domain.Clock
	freeProfileLimit int
}

func NewService(
	profiles domain.ProfileRepository,
	legacy domain.LegacySettingsRepository,
	clock domain.Clock,
	freeProfileLimit int,
) *Service {
	if freeProfileLimit <= 0 {
		freeProfileLimit = DefaultFreeProfileLimit
	}
	return &Service{
		profiles:         profiles,
		legacy:           legacy,
		clock:            clock,
		freeProfileLimit: freeProfileLimit,
	}
}

// List returns the user's profiles and the active profile id ("" when none).
func (s *Service) List(ctx context.Context, userID string) ([]*domain.ScheduleProfile, string, error) {
	profiles, err := s.profiles.ListProfiles(ctx, userID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to list profiles: %w", err)
	}

	activeID, err := s.profiles.GetActiveProfileID(ctx, userID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to get active profile: %w", err)
	}

	return profiles, activeID, nil
}

func (s *Service) Get(ctx context.Context, userID, profileID string) (*domain.ScheduleProfile, error) {
	return s.profiles.GetProfile(ctx, userID, profileID)
}

// Active returns the active profile or domain.ErrNoActiveProfile.
func (s *Service) Active(ctx context.Context, userID string) (*domain.ScheduleProfile, error) {
	activeID, err := s.profiles.GetActiveProfileID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get active profile: %w", err)
	}
	if activeID == "" {
		return nil, domain.ErrNoActiveProfile
	}

	p, err := s.profiles.GetProfile(ctx, userID, activeID)
	if errors.Is(err, domain.ErrProfileNotFound) {
		return nil, domain.ErrNoActiveProfile
	}
	return p, err
}

// Create stores a new profile. The first profile of a user becomes active.
func (s *Service) Create(ctx context.Context, userID string, p *domain.ScheduleProfile, premium bool) (*domain.ScheduleProfile, bool, error) {
	if err := p.Validate(); err != nil {
		return nil, false, err
	}

	existing, err := s.profiles.ListProfiles(ctx, userID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to list profiles: %w", err)
	}
	if !premium && len(existing) >= s.freeProfileLimit {
		return nil, false, domain.ErrProfileLimitReached
	}

	now := s.clock.Now()
	p.ID = uuid.NewString()
	p.CreatedAt = now
	p.LastUsedAt = now
	p.Normalize()

	if err := s.profiles.SaveProfile(ctx, userID, p); err != nil {
		return nil, false, fmt.Errorf("failed to save profile: %w", err)
	}

	activated := false
	if len(existing) == 0 {
		if err := s.profiles.SetActiveProfileID(ctx, userID, p.ID); err != nil {
			return nil, false, fmt.Errorf("failed to activate profile: %w", err)
		}
		activated = true
	}

	slog.InfoContext(ctx, "profile created",
		slog.String("user_id", userID),
		slog.String("profile_id", p.ID),
		slog.Bool("activated", activated),
	)

	return p, activated, nil
}

// Update replaces the rules of an existing profile. It reports whether the
// profile is the active one.
func (s *Service) Update(ctx context.Context, userID string, p *domain.ScheduleProfile) (*domain.ScheduleProfile, bool, error) {
	if err := p.Validate(); err != nil {
		return nil, false, err
	}

	current, err := s.profiles.GetProfile(ctx, userID, p.ID)
	if err != nil {
		return nil, false, err
	}

	p.CreatedAt = current.CreatedAt
	p.LastUsedAt = current.LastUsedAt
	p.Normalize()

	if err := s.profiles.SaveProfile(ctx, userID, p); err != nil {
		return nil, false, fmt.Errorf("failed to save profile: %w", err)
	}

	activeID, err := s.profiles.GetActiveProfileID(ctx, userID)
	if err != nil {
		return p, false, fmt.Errorf("failed to get active profile: %w", err)
	}

	return p, activeID == p.ID, nil
}

// Delete removes a profile. Deleting the active profile activates the most
// recently used remaining one; it reports whether the active profile changed.
func (s *Service) Delete(ctx context.Context, userID, profileID string) (bool, error) {
	if _, err := s.profiles.GetProfile(ctx, userID, profileID); err != nil {
		return false, err
	}

	activeID, err := s.profiles.GetActiveProfileID(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("failed to get active profile: %w", err)
	}

	if err := s.profiles.DeleteProfile(ctx, userID, profileID); err != nil {
		return false, fmt.Errorf("failed to delete profile: %w", err)
	}

	if activeID != profileID {
		return false, nil
	}

	remaining, err := s.profiles.ListProfiles(ctx, userID)
	if err != nil {
		return true, fmt.Errorf("failed to list profiles: %w", err)
	}

	next := ""
	var nextUsed time.Time
	for _, p := range remaining {
		if next == "" || p.LastUsedAt.After(nextUsed) {
			next, nextUsed = p.ID, p.LastUsedAt
		}
	}

	if err := s.profiles.SetActiveProfileID(ctx, userID, next); err != nil {
		return true, fmt.Errorf("failed to activate profile: %w", err)
	}

	return true, nil
}

// Activate makes profileID the active profile.
func (s *Service) Activate(ctx context.Context, userID, profileID string) (*domain.ScheduleProfile, error) {
	p, err := s.profiles.GetProfile(ctx, userID, profileID)
	if err != nil {
		return nil, err
	}

	p.LastUsedAt = s.clock.Now()
	if err := s.profiles.SaveProfile(ctx, userID, p); err != nil {
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}
	if err := s.profiles.SetActiveProfileID(ctx, userID, p.ID); err != nil {
		return nil, fmt.Errorf("failed to activate profile: %w", err)
	}

	return p, nil
}

// MigrateLegacy converts flat legacy settings into an active profile when the
// user has no profile yet, then discards the legacy record.
func (s *Service) MigrateLegacy(ctx context.Context, userID string) (*domain.ScheduleProfile, bool, error) {
	existing, err := s.profiles.ListProfiles(ctx, userID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to list profiles: %w", err)
	}
	if len(existing) > 0 {
		return nil, false, nil
	}

	settings, err := s.legacy.GetLegacySettings(ctx, userID)
	if errors.Is(err, domain.ErrLegacySettingsAbsent) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to load legacy settings: %w", err)
	}

	p := FromLegacy(settings, s.clock.Now())
	if err := p.Validate(); err != nil {
		slog.WarnContext(ctx, "legacy settings not convertible",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
		return nil, false, nil
	}

	if err := s.profiles.SaveProfile(ctx, userID, p); err != nil {
		return nil, false, fmt.Errorf("failed to save migrated profile: %w", err)
	}
	if err := s.profiles.SetActiveProfileID(ctx, userID, p.ID); err != nil {
		return nil, false, fmt.Errorf("failed to activate migrated profile: %w", err)
	}

	if err := s.legacy.DeleteLegacySettings(ctx, userID); err != nil {
		slog.WarnContext(ctx, "failed to delete legacy settings",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
	}

	slog.InfoContext(ctx, "legacy settings migrated",
		slog.String("user_id", userID),
		slog.String("profile_id", p.ID),
	)

	return p, true, nil
}

const (
	legacyProfileName          = "My schedule"
	legacyDeadResponseFallback = 30
)

// FromLegacy builds a profile with one time block on every active day.
func FromLegacy(settings *domain.LegacySettings, now time.Time) *domain.ScheduleProfile {
	days := make(map[domain.Weekday]domain.DailySchedule, len(settings.ActiveDays))
	for _, d := range settings.ActiveDays {
		days[d] = domain.DailySchedule{
			Enabled: true,
			Type: domain.TimeBlocks{Blocks: []domain.TimeBlock{{
				StartHour:       settings.StartHour,
				EndHour:         settings.EndHour,
				IntervalMinutes: settings.IntervalMinutes,
			}}},
		}
	}

	deadMinutes := settings.DeadResponseMinutes
	if deadMinutes <= 0 {
		deadMinutes = legacyDeadResponseFallback
	}

	return &domain.ScheduleProfile{
		ID:                  uuid.NewString(),
		Name:                legacyProfileName,
		CreatedAt:           now,
		LastUsedAt:          now,
		DailySchedules:      days,
		FallbackInterval:    settings.IntervalMinutes,
		DeadResponseEnabled: settings.DeadResponseEnabled,
		DeadResponseMinutes: deadMinutes,
	}
}
