package domain

import (
	"context"
	"time"
)

//go:generate mockgen -source=notification.go -destination=notification_mock.go -package=domain

const (
	CategoryExerciseReminder = "EXERCISE_REMINDER"
	CategorySnooze           = "EXERCISE_SNOOZE"
	CategoryDeadResponse     = "DEAD_RESPONSE"
	CategoryProgressReport   = "PROGRESS_REPORT"
	CategoryAchievement      = "ACHIEVEMENT"
)

// DeliveryGrace is how long a request may stay pending past its fire time
// while its delivery callback is still expected.
const DeliveryGrace = 15 * time.Minute

type Content struct {
	Title    string `json:"title"`
	Body     string `json:"body"`
	Sound    string `json:"sound,omitempty"`
	Category string `json:"category"`
	Badge    int    `json:"badge,omitempty"`
}

type TriggerKind string

const (
	// TriggerInterval fires once at FireAt.
	TriggerInterval TriggerKind = "interval"
	// TriggerCalendar fires at matching calendar components, optionally repeating.
	TriggerCalendar TriggerKind = "calendar"
)

type Trigger struct {
	Kind    TriggerKind `json:"kind"`
	FireAt  time.Time   `json:"fire_at"`
	Repeats bool        `json:"repeats,omitempty"`

	// Calendar components; zero Weekday or Day means "any".
	Weekday Weekday `json:"weekday,omitempty"`
	Day     int     `json:"day,omitempty"`
	Hour    int     `json:"hour,omitempty"`
	Minute  int     `json:"minute,omitempty"`
}

func NewIntervalTrigger(fireAt time.Time) Trigger {
	return Trigger{Kind: TriggerInterval, FireAt: fireAt}
}

// NewCalendarTrigger returns a repeating calendar trigger whose FireAt is the
// first matching instant after "after".
func NewCalendarTrigger(weekday Weekday, day, hour, minute int, after time.Time) Trigger {
	t := Trigger{
		Kind:    TriggerCalendar,
		Repeats: true,
		Weekday: weekday,
		Day:     day,
		Hour:    hour,
		Minute:  minute,
	}
	t.FireAt, _ = t.NextOccurrence(after)
	return t
}

// calendarSearchDays covers every day-of-month/weekday combination.
const calendarSearchDays = 366 * 7

// NextOccurrence returns the first instant strictly after "after" matching the
// calendar components, in after's location. Interval triggers have none once
// FireAt has passed.
func (t Trigger) NextOccurrence(after time.Time) (time.Time, bool) {
	if t.Kind != TriggerCalendar {
		if t.FireAt.After(after) {
			return t.FireAt, true
		}
		return time.Time{}, false
	}

	day := StartOfDay(after)
	for i := 0; i < calendarSearchDays; i++ {
		date := day.AddDate(0, 0, i)
		if t.Weekday != 0 && WeekdayOf(date) != t.Weekday {
			continue
		}
		if t.Day != 0 && date.Day() != t.Day {
			continue
		}
		y, m, d := date.Date()
		candidate := time.Date(y, m, d, t.Hour, t.Minute, 0, 0, date.Location())
		if candidate.After(after) {
			return candidate, true
		}
	}

	return time.Time{}, false
}

type NotificationRequest struct {
	Identifier string  `json:"identifier"`
	Content    Content `json:"content"`
	Trigger    Trigger `json:"trigger"`
}

func (r NotificationRequest) Lane() Lane {
	return KindOf(r.Identifier).Lane
}

// NotificationCenter is the delivery service holding one user's pending
// requests. Every call may fail independently.
type NotificationCenter interface {
	Submit(ctx context.Context, req *NotificationRequest) error
	PendingRequests(ctx context.Context) ([]NotificationRequest, error)
	Cancel(ctx context.Context, identifiers []string) error
}
