package reminder

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/KasumiMercury/primind-exercise-reminder/internal/domain"
	"github.com/KasumiMercury/primind-exercise-reminder/internal/infra/pushgateway"
	"github.com/KasumiMercury/primind-exercise-reminder/internal/service/queue"
)

// Delivery is a task-queue callback for one fired request.
type Delivery struct {
	TaskID     string
	UserID     string
	Identifier string
	FireAt     time.Time
}

type DeliveryOutcome struct {
	Lane              domain.Lane
	Forwarded         bool
	DeadResponseArmed bool
	Rescheduled       *time.Time
	QueueResult       *queue.Result
}

// HandleDelivery settles a fired request: it leaves the pending set, lands in
// the fired log and reaches the push gateway. Exercise reminders arm the
// dead-response follow-up, repeating triggers are re-submitted and the
// exercise lane is topped up.
func (s *Service) HandleDelivery(ctx context.Context, d Delivery) (*DeliveryOutcome, error) {
	center := s.deps.Centers(d.UserID)

	req, err := center.Complete(ctx, d.Identifier, d.TaskID)
	if err != nil {
		if errors.Is(err, domain.ErrNotificationNotFound) || errors.Is(err, domain.ErrStaleDelivery) {
			slog.InfoContext(ctx, "ignoring stale delivery",
				slog.String("user_id", d.UserID),
				slog.String("identifier", d.Identifier),
				slog.String("task_id", d.TaskID),
			)
			return nil, domain.ErrStaleDelivery
		}
		return nil, err
	}

	now := s.deps.Clock.Now()
	outcome := &DeliveryOutcome{Lane: req.Lane()}

	s.deps.FiredLog.RecordFired(ctx, d.UserID, now)

	if outcome.Lane == domain.LaneProgressReport {
		content, err := s.progressContent(ctx, d.UserID, now)
		if err != nil {
			slog.WarnContext(ctx, "failed to refresh progress report, sending scheduled content",
				slog.String("user_id", d.UserID),
				slog.String("error", err.Error()),
			)
		} else {
			req.Content = content
		}
	}

	if err := s.deps.Gateway.Send(ctx, pushgateway.NewMessage(d.UserID, *req, now)); err != nil {
		slog.WarnContext(ctx, "failed to forward notification",
			slog.String("user_id", d.UserID),
			slog.String("identifier", d.Identifier),
			slog.String("error", err.Error()),
		)
	} else {
		outcome.Forwarded = true
	}

	switch {
	case outcome.Lane == domain.LaneProgressReport:
		next, _, err := s.ScheduleProgressReport(ctx, d.UserID, "")
		if err != nil {
			slog.WarnContext(ctx, "failed to schedule next progress report",
				slog.String("user_id", d.UserID),
				slog.String("error", err.Error()),
			)
		} else {
			outcome.Rescheduled = &next
		}
	case req.Trigger.Repeats:
		if next, ok := req.Trigger.NextOccurrence(now); ok {
			repeat := *req
			repeat.Trigger.FireAt = next
			if err := center.Submit(ctx, &repeat); err != nil {
				slog.WarnContext(ctx, "failed to re-submit repeating notification",
					slog.String("user_id", d.UserID),
					slog.String("identifier", d.Identifier),
					slog.String("error", err.Error()),
				)
			} else {
				outcome.Rescheduled = &next
			}
		}
	}

	if outcome.Lane != domain.LaneExercise {
		return outcome, nil
	}

	sched, err := s.resolveSchedule(ctx, d.UserID)
	if err != nil {
		slog.WarnContext(ctx, "failed to resolve schedule after delivery",
			slog.String("user_id", d.UserID),
			slog.String("error", err.Error()),
		)
		return outcome, nil
	}

	armed, err := s.followups(d.UserID).ScheduleDeadResponse(ctx, sched.profile, now)
	if err != nil {
		slog.WarnContext(ctx, "failed to arm dead response",
			slog.String("user_id", d.UserID),
			slog.String("error", err.Error()),
		)
	}
	outcome.DeadResponseArmed = armed

	settings := s.userSettings(ctx, d.UserID)
	result, err := s.deps.Queues.Get(d.UserID).Ensure(ctx, sched.source, settings.RemindersEnabled)
	if err != nil {
		slog.WarnContext(ctx, "failed to ensure queue after delivery",
			slog.String("user_id", d.UserID),
			slog.String("error", err.Error()),
		)
	}
	outcome.QueueResult = result

	return outcome, nil
}
