package followup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/KasumiMercury/primind-exercise-reminder/internal/domain"
	"github.com/KasumiMercury/primind-exercise-reminder/internal/service/lane"
)

const MaxSnoozeMinutes = 24 * 60

var ErrInvalidSnoozeDuration = errors.New("snooze duration must be between 1 minute and 24 hours")

// Service owns the single-slot snooze and dead-response lanes of one user.
type Service struct {
	userID     string
	center     domain.NotificationCenter
	classifier *lane.Classifier
	clock      domain.Clock
}

func NewService(userID string, center domain.NotificationCenter, classifier *lane.Classifier, clock domain.Clock) *Service {
	return &Service{
		userID:     userID,
		center:     center,
		classifier: classifier,
		clock:      clock,
	}
}

// Snooze replaces any pending snooze with one firing minutes from now.
func (s *Service) Snooze(ctx context.Context, minutes int) (time.Time, error) {
	if minutes <= 0 || minutes > MaxSnoozeMinutes {
		return time.Time{}, ErrInvalidSnoozeDuration
	}

	pending, err := s.center.PendingRequests(ctx)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to read pending requests: %w", err)
	}

	if err := s.cancelLanes(ctx, pending, domain.LaneSnooze); err != nil {
		return time.Time{}, err
	}

	fireAt := s.clock.Now().Add(time.Duration(minutes) * time.Minute).Truncate(time.Minute)
	req := &domain.NotificationRequest{
		Identifier: domain.SnoozeIdentifier(fireAt),
		Content: domain.Content{
			Title:    "Snooze over",
			Body:     "Ready for your exercise break?",
			Sound:    "default",
			Category: domain.CategorySnooze,
		},
		Trigger: domain.NewIntervalTrigger(fireAt),
	}

	if err := s.center.Submit(ctx, req); err != nil {
		return time.Time{}, fmt.Errorf("failed to submit snooze: %w", err)
	}

	slog.InfoContext(ctx, "snooze scheduled",
		slog.String("user_id", s.userID),
		slog.String("identifier", req.Identifier),
	)

	return fireAt, nil
}

// ScheduleDeadResponse arms the follow-up for an unacknowledged reminder
// fired at firedAt. It reports false when the profile has it disabled.
func (s *Service) ScheduleDeadResponse(ctx context.Context, profile *domain.ScheduleProfile, firedAt time.Time) (bool, error) {
	if profile == nil || !profile.DeadResponseEnabled || profile.DeadResponseMinutes <= 0 {
		return false, nil
	}

	fireAt := firedAt.Add(profile.DeadResponseDuration()).Truncate(time.Minute)
	if !fireAt.After(s.clock.Now()) {
		return false, nil
	}

	// Submitting under the same identifier replaces the previous follow-up.
	req := &domain.NotificationRequest{
		Identifier: domain.DeadResponseIdentifier,
		Content: domain.Content{
			Title:    "Still there?",
			Body:     fmt.Sprintf("You missed a reminder %d minutes ago. A quick stretch still counts.", profile.DeadResponseMinutes),
			Sound:    "default",
			Category: domain.CategoryDeadResponse,
		},
		Trigger: domain.NewIntervalTrigger(fireAt),
	}

	if err := s.center.Submit(ctx, req); err != nil {
		return false, fmt.Errorf("failed to submit dead response: %w", err)
	}

	return true, nil
}

// Acknowledge withdraws follow-ups once the user has exercised.
func (s *Service) Acknowledge(ctx context.Context) error {
	pending, err := s.center.PendingRequests(ctx)
	if err != nil {
		return fmt.Errorf("failed to read pending requests: %w", err)
	}

	return s.cancelLanes(ctx, pending, domain.LaneSnooze, domain.LaneDeadResponse)
}

func (s *Service) cancelLanes(ctx context.Context, pending []domain.NotificationRequest, lanes ...domain.Lane) error {
	var ids []string
	for _, l := range lanes {
		for _, r := range s.classifier.FilterLane(pending, l) {
			ids = append(ids, r.Identifier)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	if err := s.center.Cancel(ctx, ids); err != nil {
		return fmt.Errorf("failed to cancel follow-ups: %w", err)
	}
	return nil
}
