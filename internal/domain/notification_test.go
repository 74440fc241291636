package domain

import (
	"testing"
	"time"
)

func TestTrigger_NextOccurrence(t *testing.T) {
	// 2024-01-15 is a Monday.
	after := time.Date(2024, 1, 15, 20, 30, 0, 0, time.UTC)

	tests := []struct {
		name    string
		trigger Trigger
		want    time.Time
	}{
		{
			name:    "daily later today",
			trigger: Trigger{Kind: TriggerCalendar, Hour: 21},
			want:    time.Date(2024, 1, 15, 21, 0, 0, 0, time.UTC),
		},
		{
			name:    "daily already passed",
			trigger: Trigger{Kind: TriggerCalendar, Hour: 20},
			want:    time.Date(2024, 1, 16, 20, 0, 0, 0, time.UTC),
		},
		{
			name:    "weekly sunday",
			trigger: Trigger{Kind: TriggerCalendar, Weekday: Sunday, Hour: 19},
			want:    time.Date(2024, 1, 21, 19, 0, 0, 0, time.UTC),
		},
		{
			name:    "monthly first day",
			trigger: Trigger{Kind: TriggerCalendar, Day: 1, Hour: 10},
			want:    time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC),
		},
		{
			name:    "interval in the future",
			trigger: NewIntervalTrigger(time.Date(2024, 1, 16, 8, 0, 0, 0, time.UTC)),
			want:    time.Date(2024, 1, 16, 8, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.trigger.NextOccurrence(after)
			if !ok {
				t.Fatal("NextOccurrence() ok = false")
			}
			if !got.Equal(tt.want) {
				t.Errorf("NextOccurrence() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTrigger_NextOccurrence_PastInterval(t *testing.T) {
	trigger := NewIntervalTrigger(time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC))
	if _, ok := trigger.NextOccurrence(time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)); ok {
		t.Error("NextOccurrence() ok = true for an elapsed interval trigger")
	}
}

func TestNewCalendarTrigger(t *testing.T) {
	after := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	trigger := NewCalendarTrigger(0, 0, 20, 0, after)

	if !trigger.Repeats || trigger.Kind != TriggerCalendar {
		t.Errorf("trigger = %+v, want repeating calendar trigger", trigger)
	}
	if want := time.Date(2024, 1, 15, 20, 0, 0, 0, time.UTC); !trigger.FireAt.Equal(want) {
		t.Errorf("FireAt = %v, want %v", trigger.FireAt, want)
	}
}
