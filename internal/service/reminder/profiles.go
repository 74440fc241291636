package reminder

import (
	"context"
	"log/slog"

	"github.com/KasumiMercury/primind-exercise-reminder/internal/domain"
	"github.com/KasumiMercury/primind-exercise-reminder/internal/service/queue"
)

// ProfileChange reports a profile mutation and the queue rebuild it caused.
type ProfileChange struct {
	Profile     *domain.ScheduleProfile
	Active      bool
	QueueResult *queue.Result
}

func (s *Service) ListProfiles(ctx context.Context, userID string) ([]*domain.ScheduleProfile, string, error) {
	if _, _, err := s.deps.Profiles.MigrateLegacy(ctx, userID); err != nil {
		slog.WarnContext(ctx, "legacy migration failed",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
	}
	return s.deps.Profiles.List(ctx, userID)
}

func (s *Service) CreateProfile(ctx context.Context, userID string, p *domain.ScheduleProfile) (*ProfileChange, error) {
	settings := s.userSettings(ctx, userID)
	created, active, err := s.deps.Profiles.Create(ctx, userID, p, settings.Premium)
	if err != nil {
		return nil, err
	}
	return s.afterProfileChange(ctx, userID, created, active), nil
}

func (s *Service) UpdateProfile(ctx context.Context, userID string, p *domain.ScheduleProfile) (*ProfileChange, error) {
	updated, active, err := s.deps.Profiles.Update(ctx, userID, p)
	if err != nil {
		return nil, err
	}
	return s.afterProfileChange(ctx, userID, updated, active), nil
}

func (s *Service) DeleteProfile(ctx context.Context, userID, profileID string) (*ProfileChange, error) {
	activeChanged, err := s.deps.Profiles.Delete(ctx, userID, profileID)
	if err != nil {
		return nil, err
	}
	return s.afterProfileChange(ctx, userID, nil, activeChanged), nil
}

func (s *Service) ActivateProfile(ctx context.Context, userID, profileID string) (*ProfileChange, error) {
	p, err := s.deps.Profiles.Activate(ctx, userID, profileID)
	if err != nil {
		return nil, err
	}
	return s.afterProfileChange(ctx, userID, p, true), nil
}

// afterProfileChange rebuilds the queue when the schedule in force changed.
// A failed rebuild is logged; the profile change itself stands.
func (s *Service) afterProfileChange(ctx context.Context, userID string, p *domain.ScheduleProfile, rebuild bool) *ProfileChange {
	change := &ProfileChange{Profile: p, Active: rebuild}
	if !rebuild {
		return change
	}

	result, err := s.RebuildQueue(ctx, userID)
	if err != nil {
		slog.WarnContext(ctx, "failed to rebuild queue after profile change",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
	}
	change.QueueResult = result
	return change
}
