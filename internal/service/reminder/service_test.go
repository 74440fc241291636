package reminder

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/KasumiMercury/primind-exercise-reminder/internal/domain"
	infrafiredlog "github.com/KasumiMercury/primind-exercise-reminder/internal/infra/firedlog"
	"github.com/KasumiMercury/primind-exercise-reminder/internal/service/budget"
	"github.com/KasumiMercury/primind-exercise-reminder/internal/service/firedlog"
	"github.com/KasumiMercury/primind-exercise-reminder/internal/service/lane"
	"github.com/KasumiMercury/primind-exercise-reminder/internal/service/nexttime"
	"github.com/KasumiMercury/primind-exercise-reminder/internal/service/profile"
	"github.com/KasumiMercury/primind-exercise-reminder/internal/service/queue"
)

const userID = "user-1"

// 2024-01-15 is a Monday.
var testStart = time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

type harness struct {
	svc          *Service
	clock        *testClock
	center       *fakeCenter
	profiles     *fakeProfiles
	legacy       *fakeLegacy
	settings     *fakeSettings
	logs         *fakeLogs
	achievements *fakeAchievements
	gateway      *fakeGateway
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	h := &harness{
		clock:        &testClock{now: testStart},
		center:       newFakeCenter(),
		profiles:     newFakeProfiles(),
		legacy:       &fakeLegacy{settings: make(map[string]*domain.LegacySettings)},
		settings:     &fakeSettings{settings: make(map[string]domain.UserSettings)},
		logs:         &fakeLogs{logs: make(map[string][]domain.ExerciseLog)},
		achievements: &fakeAchievements{unlocked: make(map[string]map[string]time.Time)},
		gateway:      &fakeGateway{},
	}

	classifier := lane.NewClassifier(time.UTC)
	calculator := nexttime.NewCalculator(nil)
	b := budget.Default()
	centers := func(string) Center { return h.center }

	h.svc = NewService(Dependencies{
		Profiles:     profile.NewService(h.profiles, h.legacy, h.clock, 0),
		Legacy:       h.legacy,
		Settings:     h.settings,
		ExerciseLogs: h.logs,
		Achievements: h.achievements,
		Centers:      centers,
		Queues: queue.NewRegistry(func(uid string) *queue.Manager {
			return queue.NewManager(uid, centers(uid), calculator, classifier, b, h.clock, nil, nil)
		}),
		FiredLog:   firedlog.NewLog(infrafiredlog.NewMemoryStore(), h.clock),
		Gateway:    h.gateway,
		Classifier: classifier,
		Calculator: calculator,
		Budget:     b,
		Clock:      h.clock,
	})

	return h
}

func blockProfile(id string, startHour, endHour, interval int) *domain.ScheduleProfile {
	days := make(map[domain.Weekday]domain.DailySchedule, 7)
	for d := domain.Sunday; d <= domain.Saturday; d++ {
		days[d] = domain.DailySchedule{
			Enabled: true,
			Type: domain.TimeBlocks{Blocks: []domain.TimeBlock{
				{StartHour: startHour, EndHour: endHour, IntervalMinutes: interval},
			}},
		}
	}
	return &domain.ScheduleProfile{
		ID:                  id,
		Name:                id,
		DailySchedules:      days,
		FallbackInterval:    60,
		DeadResponseEnabled: true,
		DeadResponseMinutes: 15,
	}
}

func (h *harness) activate(t *testing.T, p *domain.ScheduleProfile) {
	t.Helper()
	ctx := context.Background()
	if err := h.profiles.SaveProfile(ctx, userID, p); err != nil {
		t.Fatalf("SaveProfile() error = %v", err)
	}
	if err := h.profiles.SetActiveProfileID(ctx, userID, p.ID); err != nil {
		t.Fatalf("SetActiveProfileID() error = %v", err)
	}
}

func TestService_EnsureQueue(t *testing.T) {
	tests := []struct {
		name          string
		setup         func(t *testing.T, h *harness)
		wantScheduled int
		wantProfiles  int
	}{
		{
			name: "active profile",
			setup: func(t *testing.T, h *harness) {
				h.activate(t, blockProfile("p1", 9, 17, 30))
			},
			wantScheduled: 58,
			wantProfiles:  1,
		},
		{
			name: "legacy settings are migrated",
			setup: func(t *testing.T, h *harness) {
				h.legacy.settings[userID] = &domain.LegacySettings{
					ActiveDays:      []domain.Weekday{domain.Monday, domain.Tuesday, domain.Wednesday, domain.Thursday, domain.Friday},
					StartHour:       9,
					EndHour:         17,
					IntervalMinutes: 60,
				}
			},
			wantScheduled: 58,
			wantProfiles:  1,
		},
		{
			name:          "no schedule at all",
			setup:         func(*testing.T, *harness) {},
			wantScheduled: 0,
			wantProfiles:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			tt.setup(t, h)

			result, err := h.svc.EnsureQueue(context.Background(), userID)
			if err != nil {
				t.Fatalf("EnsureQueue() error = %v", err)
			}
			if result.ScheduledCount != tt.wantScheduled {
				t.Errorf("ScheduledCount = %d, want %d", result.ScheduledCount, tt.wantScheduled)
			}
			if got := h.center.countLane(domain.LaneExercise); got != tt.wantScheduled {
				t.Errorf("pending exercise = %d, want %d", got, tt.wantScheduled)
			}

			profiles, _ := h.profiles.ListProfiles(context.Background(), userID)
			if len(profiles) != tt.wantProfiles {
				t.Errorf("profiles = %d, want %d", len(profiles), tt.wantProfiles)
			}
			if _, ok := h.legacy.settings[userID]; ok {
				t.Error("legacy settings should not survive migration")
			}
		})
	}
}

func TestService_UpdateSettings(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.activate(t, blockProfile("p1", 9, 17, 30))

	if _, err := h.svc.EnsureQueue(ctx, userID); err != nil {
		t.Fatalf("EnsureQueue() error = %v", err)
	}

	_, err := h.svc.UpdateSettings(ctx, userID, domain.UserSettings{RemindersEnabled: true, ReportFrequency: "hourly"})
	if !errors.Is(err, ErrInvalidFrequency) {
		t.Fatalf("UpdateSettings() error = %v, want ErrInvalidFrequency", err)
	}

	result, err := h.svc.UpdateSettings(ctx, userID, domain.UserSettings{RemindersEnabled: false})
	if err != nil {
		t.Fatalf("UpdateSettings() error = %v", err)
	}
	if result.State != queue.StateEmpty {
		t.Errorf("State = %v, want %v", result.State, queue.StateEmpty)
	}
	if got := h.center.countLane(domain.LaneExercise); got != 0 {
		t.Errorf("pending exercise = %d, want 0", got)
	}
}

func TestService_ActivateProfile_RebuildsQueue(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.activate(t, blockProfile("morning", 9, 12, 30))
	if err := h.profiles.SaveProfile(ctx, userID, blockProfile("evening", 18, 21, 30)); err != nil {
		t.Fatalf("SaveProfile() error = %v", err)
	}

	if _, err := h.svc.EnsureQueue(ctx, userID); err != nil {
		t.Fatalf("EnsureQueue() error = %v", err)
	}
	if !h.center.has("exercise_20240115_0900") {
		t.Fatal("morning reminder missing before activation")
	}

	change, err := h.svc.ActivateProfile(ctx, userID, "evening")
	if err != nil {
		t.Fatalf("ActivateProfile() error = %v", err)
	}
	if change.QueueResult == nil || change.QueueResult.Operation != queue.OperationRebuild {
		t.Fatalf("QueueResult = %+v, want a rebuild", change.QueueResult)
	}
	if h.center.has("exercise_20240115_0900") {
		t.Error("morning reminder survived the rebuild")
	}
	if !h.center.has("exercise_20240115_1800") {
		t.Error("evening reminder missing after the rebuild")
	}
}

func TestService_UpdateProfile_InactiveDoesNotRebuild(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.activate(t, blockProfile("morning", 9, 12, 30))
	if err := h.profiles.SaveProfile(ctx, userID, blockProfile("evening", 18, 21, 30)); err != nil {
		t.Fatalf("SaveProfile() error = %v", err)
	}

	change, err := h.svc.UpdateProfile(ctx, userID, blockProfile("evening", 19, 21, 30))
	if err != nil {
		t.Fatalf("UpdateProfile() error = %v", err)
	}
	if change.Active || change.QueueResult != nil {
		t.Errorf("change = %+v, want no rebuild", change)
	}
	if got := h.center.countLane(domain.LaneExercise); got != 0 {
		t.Errorf("pending exercise = %d, want 0", got)
	}
}

func TestService_HandleDelivery_Exercise(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.activate(t, blockProfile("p1", 9, 17, 30))

	if _, err := h.svc.EnsureQueue(ctx, userID); err != nil {
		t.Fatalf("EnsureQueue() error = %v", err)
	}

	const identifier = "exercise_20240115_0900"
	taskID := h.center.taskID(identifier)
	h.clock.set(time.Date(2024, 1, 15, 9, 0, 5, 0, time.UTC))

	outcome, err := h.svc.HandleDelivery(ctx, Delivery{
		TaskID:     taskID,
		UserID:     userID,
		Identifier: identifier,
		FireAt:     time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("HandleDelivery() error = %v", err)
	}

	if !outcome.Forwarded {
		t.Error("notification was not forwarded")
	}
	if len(h.gateway.sent) != 1 || h.gateway.sent[0].Identifier != identifier {
		t.Errorf("gateway messages = %+v", h.gateway.sent)
	}
	if h.center.has(identifier) {
		t.Error("delivered request still pending")
	}
	if !outcome.DeadResponseArmed {
		t.Error("dead response not armed")
	}
	dead, ok := h.center.get(domain.DeadResponseIdentifier)
	if !ok {
		t.Fatal("dead response not pending")
	}
	if want := time.Date(2024, 1, 15, 9, 15, 0, 0, time.UTC); !dead.Trigger.FireAt.Equal(want) {
		t.Errorf("dead response fires at %v, want %v", dead.Trigger.FireAt, want)
	}
	if events := h.svc.Timeline(ctx, userID); len(events) != 1 {
		t.Errorf("timeline events = %d, want 1", len(events))
	}
	if outcome.QueueResult == nil || outcome.QueueResult.State != queue.StateHealthy {
		t.Errorf("QueueResult = %+v, want healthy", outcome.QueueResult)
	}
}

func TestService_HandleDelivery_Stale(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.activate(t, blockProfile("p1", 9, 17, 30))

	if _, err := h.svc.EnsureQueue(ctx, userID); err != nil {
		t.Fatalf("EnsureQueue() error = %v", err)
	}

	tests := []struct {
		name       string
		identifier string
		taskID     string
	}{
		{name: "replaced task", identifier: "exercise_20240115_0900", taskID: "task-unknown"},
		{name: "unknown identifier", identifier: "exercise_20240115_0915", taskID: "task-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.svc.HandleDelivery(ctx, Delivery{TaskID: tt.taskID, UserID: userID, Identifier: tt.identifier})
			if !errors.Is(err, domain.ErrStaleDelivery) {
				t.Errorf("HandleDelivery() error = %v, want ErrStaleDelivery", err)
			}
		})
	}

	if len(h.gateway.sent) != 0 {
		t.Errorf("gateway messages = %d, want 0", len(h.gateway.sent))
	}
	if !h.center.has("exercise_20240115_0900") {
		t.Error("stale delivery removed a pending request")
	}
}

func TestService_HandleDelivery_GatewayFailure(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.gateway.err = errors.New("gateway down")

	if err := h.center.Submit(ctx, &domain.NotificationRequest{
		Identifier: "snooze_20240115_0815",
		Trigger:    domain.NewIntervalTrigger(time.Date(2024, 1, 15, 8, 15, 0, 0, time.UTC)),
	}); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	outcome, err := h.svc.HandleDelivery(ctx, Delivery{
		TaskID:     h.center.taskID("snooze_20240115_0815"),
		UserID:     userID,
		Identifier: "snooze_20240115_0815",
	})
	if err != nil {
		t.Fatalf("HandleDelivery() error = %v", err)
	}
	if outcome.Forwarded {
		t.Error("Forwarded = true, want false")
	}
	if outcome.Lane != domain.LaneSnooze {
		t.Errorf("Lane = %v, want %v", outcome.Lane, domain.LaneSnooze)
	}
	if h.center.has("snooze_20240115_0815") {
		t.Error("delivered request still pending")
	}
}

func TestService_HandleDelivery_ProgressReportReschedules(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	fireAt, _, err := h.svc.ScheduleProgressReport(ctx, userID, "")
	if err != nil {
		t.Fatalf("ScheduleProgressReport() error = %v", err)
	}
	if want := time.Date(2024, 1, 21, 19, 0, 0, 0, time.UTC); !fireAt.Equal(want) {
		t.Fatalf("fireAt = %v, want %v", fireAt, want)
	}

	h.clock.set(fireAt.Add(time.Second))
	outcome, err := h.svc.HandleDelivery(ctx, Delivery{
		TaskID:     h.center.taskID(domain.ProgressReportIdentifier),
		UserID:     userID,
		Identifier: domain.ProgressReportIdentifier,
	})
	if err != nil {
		t.Fatalf("HandleDelivery() error = %v", err)
	}

	want := time.Date(2024, 1, 28, 19, 0, 0, 0, time.UTC)
	if outcome.Rescheduled == nil || !outcome.Rescheduled.Equal(want) {
		t.Errorf("Rescheduled = %v, want %v", outcome.Rescheduled, want)
	}
	if !h.center.has(domain.ProgressReportIdentifier) {
		t.Error("next progress report not pending")
	}
}

func TestService_HandleDelivery_ProgressReportUsesLogsAtFireTime(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	fireAt, stats, err := h.svc.ScheduleProgressReport(ctx, userID, "")
	if err != nil {
		t.Fatalf("ScheduleProgressReport() error = %v", err)
	}
	if stats.TotalExercises != 0 {
		t.Fatalf("TotalExercises at scheduling = %d, want 0", stats.TotalExercises)
	}

	for _, at := range []time.Time{
		time.Date(2024, 1, 16, 9, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 18, 9, 0, 0, 0, time.UTC),
		// next week, not part of the report
		time.Date(2024, 1, 21, 9, 0, 0, 0, time.UTC),
	} {
		if err := h.logs.AddLog(ctx, userID, domain.ExerciseLog{ExerciseName: "squats", DurationSeconds: 120, CompletedAt: at}); err != nil {
			t.Fatalf("AddLog() error = %v", err)
		}
	}

	h.clock.set(fireAt.Add(time.Second))
	outcome, err := h.svc.HandleDelivery(ctx, Delivery{
		TaskID:     h.center.taskID(domain.ProgressReportIdentifier),
		UserID:     userID,
		Identifier: domain.ProgressReportIdentifier,
	})
	if err != nil {
		t.Fatalf("HandleDelivery() error = %v", err)
	}
	if !outcome.Forwarded || len(h.gateway.sent) != 1 {
		t.Fatalf("Forwarded = %v, sent = %d, want one forwarded report", outcome.Forwarded, len(h.gateway.sent))
	}

	body := h.gateway.sent[0].Body
	if want := "You completed 2 exercises this week"; !strings.HasPrefix(body, want) {
		t.Errorf("Body = %q, want prefix %q", body, want)
	}
}

func TestService_ScheduleProgressReport_InvalidFrequency(t *testing.T) {
	h := newHarness(t)
	if _, _, err := h.svc.ScheduleProgressReport(context.Background(), userID, "yearly"); !errors.Is(err, ErrInvalidFrequency) {
		t.Errorf("ScheduleProgressReport() error = %v, want ErrInvalidFrequency", err)
	}
}

func TestService_LogExercise(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	for _, id := range []string{"snooze_20240115_0830", domain.DeadResponseIdentifier} {
		if err := h.center.Submit(ctx, &domain.NotificationRequest{
			Identifier: id,
			Trigger:    domain.NewIntervalTrigger(testStart.Add(30 * time.Minute)),
		}); err != nil {
			t.Fatalf("Submit() error = %v", err)
		}
	}

	outcome, err := h.svc.LogExercise(ctx, userID, domain.ExerciseLog{ExerciseName: "squats", DurationSeconds: 120})
	if err != nil {
		t.Fatalf("LogExercise() error = %v", err)
	}

	if outcome.Log.ID == "" || !outcome.Log.CompletedAt.Equal(testStart) {
		t.Errorf("Log = %+v, want generated id and completion at %v", outcome.Log, testStart)
	}
	if h.center.has("snooze_20240115_0830") || h.center.has(domain.DeadResponseIdentifier) {
		t.Error("follow-ups survived an exercise log")
	}
	if len(outcome.Unlocked) != 1 || outcome.Unlocked[0].ID != "first_workout" {
		t.Errorf("Unlocked = %+v, want first_workout", outcome.Unlocked)
	}
	if outcome.AlertsSent != 1 || !h.center.has(domain.AchievementIdentifier("first_workout")) {
		t.Error("achievement alert not submitted")
	}

	again, err := h.svc.LogExercise(ctx, userID, domain.ExerciseLog{ExerciseName: "plank", DurationSeconds: 60})
	if err != nil {
		t.Fatalf("LogExercise() error = %v", err)
	}
	if len(again.Unlocked) != 0 {
		t.Errorf("Unlocked = %+v, want none on the second log", again.Unlocked)
	}
}

func TestService_LogExercise_Invalid(t *testing.T) {
	h := newHarness(t)

	tests := []domain.ExerciseLog{
		{DurationSeconds: 60},
		{ExerciseName: "squats"},
		{ExerciseName: "squats", DurationSeconds: -1},
	}
	for _, log := range tests {
		if _, err := h.svc.LogExercise(context.Background(), userID, log); !errors.Is(err, ErrInvalidExerciseLog) {
			t.Errorf("LogExercise(%+v) error = %v, want ErrInvalidExerciseLog", log, err)
		}
	}
}
