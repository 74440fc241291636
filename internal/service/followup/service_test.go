package followup

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/KasumiMercury/primind-exercise-reminder/internal/domain"
	"github.com/KasumiMercury/primind-exercise-reminder/internal/service/lane"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

var now = time.Date(2024, 1, 15, 10, 7, 30, 0, time.UTC)

func newService(center domain.NotificationCenter) *Service {
	return NewService("user-1", center, lane.NewClassifier(time.UTC), fixedClock{now: now})
}

func TestService_Snooze(t *testing.T) {
	ctrl := gomock.NewController(t)
	center := domain.NewMockNotificationCenter(ctrl)

	center.EXPECT().PendingRequests(gomock.Any()).Return([]domain.NotificationRequest{
		{Identifier: "snooze_20240115_1000"},
		{Identifier: "exercise_20240115_1030"},
	}, nil)
	center.EXPECT().Cancel(gomock.Any(), []string{"snooze_20240115_1000"}).Return(nil)
	center.EXPECT().Submit(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, req *domain.NotificationRequest) error {
			if req.Identifier != "snooze_20240115_1022" {
				t.Errorf("Identifier = %s, want snooze_20240115_1022", req.Identifier)
			}
			if req.Content.Category != domain.CategorySnooze {
				t.Errorf("Category = %s, want %s", req.Content.Category, domain.CategorySnooze)
			}
			return nil
		},
	)

	fireAt, err := newService(center).Snooze(context.Background(), 15)
	if err != nil {
		t.Fatalf("Snooze() error = %v", err)
	}
	if want := time.Date(2024, 1, 15, 10, 22, 0, 0, time.UTC); !fireAt.Equal(want) {
		t.Errorf("Snooze() = %v, want %v", fireAt, want)
	}
}

func TestService_Snooze_InvalidDuration(t *testing.T) {
	ctrl := gomock.NewController(t)
	center := domain.NewMockNotificationCenter(ctrl)

	for _, minutes := range []int{0, -5, MaxSnoozeMinutes + 1} {
		if _, err := newService(center).Snooze(context.Background(), minutes); !errors.Is(err, ErrInvalidSnoozeDuration) {
			t.Errorf("Snooze(%d) error = %v, want %v", minutes, err, ErrInvalidSnoozeDuration)
		}
	}
}

func TestService_ScheduleDeadResponse(t *testing.T) {
	tests := []struct {
		name       string
		profile    *domain.ScheduleProfile
		firedAt    time.Time
		wantSubmit bool
	}{
		{
			name:       "enabled",
			profile:    &domain.ScheduleProfile{DeadResponseEnabled: true, DeadResponseMinutes: 10},
			firedAt:    now,
			wantSubmit: true,
		},
		{
			name:       "disabled",
			profile:    &domain.ScheduleProfile{DeadResponseEnabled: false, DeadResponseMinutes: 10},
			firedAt:    now,
			wantSubmit: false,
		},
		{
			name:       "already elapsed",
			profile:    &domain.ScheduleProfile{DeadResponseEnabled: true, DeadResponseMinutes: 10},
			firedAt:    now.Add(-time.Hour),
			wantSubmit: false,
		},
		{
			name:       "no profile",
			profile:    nil,
			firedAt:    now,
			wantSubmit: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			center := domain.NewMockNotificationCenter(ctrl)

			if tt.wantSubmit {
				center.EXPECT().Submit(gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, req *domain.NotificationRequest) error {
						if req.Identifier != domain.DeadResponseIdentifier {
							t.Errorf("Identifier = %s, want %s", req.Identifier, domain.DeadResponseIdentifier)
						}
						want := time.Date(2024, 1, 15, 10, 17, 0, 0, time.UTC)
						if !req.Trigger.FireAt.Equal(want) {
							t.Errorf("FireAt = %v, want %v", req.Trigger.FireAt, want)
						}
						return nil
					},
				)
			}

			got, err := newService(center).ScheduleDeadResponse(context.Background(), tt.profile, tt.firedAt)
			if err != nil {
				t.Fatalf("ScheduleDeadResponse() error = %v", err)
			}
			if got != tt.wantSubmit {
				t.Errorf("ScheduleDeadResponse() = %v, want %v", got, tt.wantSubmit)
			}
		})
	}
}

func TestService_Acknowledge(t *testing.T) {
	ctrl := gomock.NewController(t)
	center := domain.NewMockNotificationCenter(ctrl)

	center.EXPECT().PendingRequests(gomock.Any()).Return([]domain.NotificationRequest{
		{Identifier: "exercise_20240115_1030"},
		{Identifier: "snooze_20240115_1015"},
		{Identifier: domain.DeadResponseIdentifier},
		{Identifier: domain.ProgressReportIdentifier},
	}, nil)
	center.EXPECT().Cancel(gomock.Any(), []string{"snooze_20240115_1015", domain.DeadResponseIdentifier}).Return(nil)

	if err := newService(center).Acknowledge(context.Background()); err != nil {
		t.Fatalf("Acknowledge() error = %v", err)
	}
}

func TestService_Acknowledge_NothingPending(t *testing.T) {
	ctrl := gomock.NewController(t)
	center := domain.NewMockNotificationCenter(ctrl)

	center.EXPECT().PendingRequests(gomock.Any()).Return(nil, nil)

	if err := newService(center).Acknowledge(context.Background()); err != nil {
		t.Fatalf("Acknowledge() error = %v", err)
	}
}
