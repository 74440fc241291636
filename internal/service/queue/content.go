package queue

import (
	"time"

	"github.com/KasumiMercury/primind-exercise-reminder/internal/domain"
)

// ContentFunc builds the notification shown for an exercise reminder at t.
type ContentFunc func(t time.Time) domain.Content

func DefaultExerciseContent(_ time.Time) domain.Content {
	return domain.Content{
		Title:    "Time to move",
		Body:     "Stand up and take a short exercise break.",
		Sound:    "default",
		Category: domain.CategoryExerciseReminder,
	}
}

func exerciseRequest(t time.Time, content ContentFunc) *domain.NotificationRequest {
	return &domain.NotificationRequest{
		Identifier: domain.ExerciseIdentifier(t),
		Content:    content(t),
		Trigger:    domain.NewIntervalTrigger(t.Truncate(time.Minute)),
	}
}
