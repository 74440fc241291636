package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/KasumiMercury/primind-exercise-reminder/internal/domain"
	"github.com/KasumiMercury/primind-exercise-reminder/internal/service/budget"
	"github.com/KasumiMercury/primind-exercise-reminder/internal/service/lane"
	"github.com/KasumiMercury/primind-exercise-reminder/internal/service/nexttime"
)

// 2024-01-15 is a Monday.
var testNow = time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC)

func everyDayProfile() *domain.ScheduleProfile {
	days := make(map[domain.Weekday]domain.DailySchedule, 7)
	for d := domain.Sunday; d <= domain.Saturday; d++ {
		days[d] = domain.DailySchedule{
			Enabled: true,
			Type: domain.TimeBlocks{Blocks: []domain.TimeBlock{
				{StartHour: 9, EndHour: 17, IntervalMinutes: 30},
			}},
		}
	}
	return &domain.ScheduleProfile{
		ID:                  "p1",
		Name:                "weekdays",
		DailySchedules:      days,
		FallbackInterval:    60,
		DeadResponseMinutes: 15,
	}
}

func newTestManager(center domain.NotificationCenter, recorder domain.QueueRunRecorder) *Manager {
	return NewManager(
		"user-1",
		center,
		nexttime.NewCalculator(nil),
		lane.NewClassifier(time.UTC),
		budget.Default(),
		fixedClock{now: testNow},
		nil,
		recorder,
	)
}

func TestManager_EnsureQueue_FillsFromEmpty(t *testing.T) {
	center := newFakeCenter()
	recorder := &recordingRecorder{}
	m := newTestManager(center, recorder)

	result, err := m.EnsureQueue(context.Background(), everyDayProfile(), true)
	if err != nil {
		t.Fatalf("EnsureQueue() error = %v", err)
	}

	if result.ScheduledCount != 58 {
		t.Errorf("ScheduledCount = %d, want 58", result.ScheduledCount)
	}
	if result.State != StateHealthy {
		t.Errorf("State = %v, want %v", result.State, StateHealthy)
	}
	if got := center.countLane(domain.LaneExercise); got != 58 {
		t.Errorf("pending exercise = %d, want 58", got)
	}

	if center.submitted[0] != "exercise_20240115_0900" {
		t.Errorf("first submission = %s, want exercise_20240115_0900", center.submitted[0])
	}
	for i := 1; i < len(center.submitted); i++ {
		if center.submitted[i] <= center.submitted[i-1] {
			t.Fatalf("submissions not ascending: %s after %s", center.submitted[i], center.submitted[i-1])
		}
	}

	if len(recorder.records) != 1 || recorder.records[0].ScheduledCount != 58 {
		t.Errorf("recorded runs = %+v, want one run with 58 scheduled", recorder.records)
	}
}

func TestManager_EnsureQueue_ContinuesAfterLatest(t *testing.T) {
	center := newFakeCenter()
	profile := everyDayProfile()

	existing := nexttime.Sequence(nexttime.NewCalculator(nil).Source(profile), testNow, 25)
	for _, ts := range existing {
		center.add(domain.ExerciseIdentifier(ts))
	}
	latest := domain.ExerciseIdentifier(existing[len(existing)-1])

	m := newTestManager(center, nil)
	result, err := m.EnsureQueue(context.Background(), profile, true)
	if err != nil {
		t.Fatalf("EnsureQueue() error = %v", err)
	}

	if result.BeforeCount != 25 {
		t.Errorf("BeforeCount = %d, want 25", result.BeforeCount)
	}
	if result.ScheduledCount != 33 {
		t.Errorf("ScheduledCount = %d, want 33", result.ScheduledCount)
	}
	if got := center.countLane(domain.LaneExercise); got != 58 {
		t.Errorf("pending exercise = %d, want 58", got)
	}
	for _, id := range center.submitted {
		if id <= latest {
			t.Errorf("new reminder %s not after latest existing %s", id, latest)
		}
	}
}

func TestManager_EnsureQueue_DropsOverdue(t *testing.T) {
	center := newFakeCenter()

	// Forty reminders from the previous day whose callbacks never arrived.
	yesterday := time.Date(2024, 1, 14, 9, 0, 0, 0, time.UTC)
	var stale []string
	for i := 0; i < 40; i++ {
		id := domain.ExerciseIdentifier(yesterday.Add(time.Duration(i) * 10 * time.Minute))
		stale = append(stale, id)
		center.add(id)
	}
	// Due five minutes ago; the callback may still be on its way.
	center.add("exercise_20240115_0755")
	center.add(domain.ProgressReportIdentifier)

	m := newTestManager(center, nil)
	result, err := m.EnsureQueue(context.Background(), everyDayProfile(), true)
	if err != nil {
		t.Fatalf("EnsureQueue() error = %v", err)
	}

	if result.CancelledCount != 40 {
		t.Errorf("CancelledCount = %d, want 40", result.CancelledCount)
	}
	if result.BeforeCount != 1 {
		t.Errorf("BeforeCount = %d, want 1", result.BeforeCount)
	}
	if result.ScheduledCount != 57 {
		t.Errorf("ScheduledCount = %d, want 57", result.ScheduledCount)
	}
	if result.State != StateHealthy {
		t.Errorf("State = %v, want %v", result.State, StateHealthy)
	}
	for _, id := range stale {
		if center.has(id) {
			t.Fatalf("overdue %s still pending", id)
		}
	}
	for _, id := range []string{"exercise_20240115_0755", domain.ProgressReportIdentifier} {
		if !center.has(id) {
			t.Errorf("%s was removed", id)
		}
	}
	if got := center.countLane(domain.LaneExercise); got != 58 {
		t.Errorf("pending exercise = %d, want 58", got)
	}
}

func TestManager_EnsureQueue_OverdueCancelFails(t *testing.T) {
	center := newFakeCenter()
	center.cancelErr = errors.New("unavailable")
	for i := 0; i < 40; i++ {
		center.add(domain.ExerciseIdentifier(time.Date(2024, 1, 14, 9, 0, 0, 0, time.UTC).Add(time.Duration(i) * time.Minute)))
	}

	m := newTestManager(center, nil)
	result, err := m.EnsureQueue(context.Background(), everyDayProfile(), true)
	if err != nil {
		t.Fatalf("EnsureQueue() error = %v", err)
	}

	// The overdue entries still hold places under the ceiling but no longer
	// count as upcoming reminders, so the lane is refilled as far as it fits.
	if result.BeforeCount != 0 {
		t.Errorf("BeforeCount = %d, want 0", result.BeforeCount)
	}
	if result.ScheduledCount != 24 {
		t.Errorf("ScheduledCount = %d, want 24", result.ScheduledCount)
	}
	if result.CancelledCount != 0 {
		t.Errorf("CancelledCount = %d, want 0", result.CancelledCount)
	}
}

func TestManager_EnsureQueue_Idempotent(t *testing.T) {
	center := newFakeCenter()
	m := newTestManager(center, nil)
	profile := everyDayProfile()

	if _, err := m.EnsureQueue(context.Background(), profile, true); err != nil {
		t.Fatalf("first EnsureQueue() error = %v", err)
	}
	first := center.identifiers()

	result, err := m.EnsureQueue(context.Background(), profile, true)
	if err != nil {
		t.Fatalf("second EnsureQueue() error = %v", err)
	}
	second := center.identifiers()

	if result.ScheduledCount != 0 {
		t.Errorf("second ScheduledCount = %d, want 0", result.ScheduledCount)
	}
	if len(first) != len(second) {
		t.Fatalf("pending set changed: %d -> %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("pending set changed at %d: %s -> %s", i, first[i], second[i])
		}
	}
}

func TestManager_RebuildQueue_KeepsReportAndAchievements(t *testing.T) {
	center := newFakeCenter()
	center.add(
		"exercise_20240115_0815",
		"exercise_20240116_1111",
		"snooze_20240115_0820",
		domain.DeadResponseIdentifier,
		domain.ProgressReportIdentifier,
		"achievement_first_workout",
		"calendar_sync",
	)

	m := newTestManager(center, nil)
	result, err := m.RebuildQueue(context.Background(), everyDayProfile(), true)
	if err != nil {
		t.Fatalf("RebuildQueue() error = %v", err)
	}

	if result.CancelledCount != 4 {
		t.Errorf("CancelledCount = %d, want 4", result.CancelledCount)
	}
	for _, id := range []string{domain.ProgressReportIdentifier, "achievement_first_workout", "calendar_sync"} {
		if !center.has(id) {
			t.Errorf("%s was removed by rebuild", id)
		}
	}
	for _, id := range []string{"exercise_20240116_1111", "snooze_20240115_0820", domain.DeadResponseIdentifier} {
		if center.has(id) {
			t.Errorf("%s survived rebuild", id)
		}
	}

	exercise := center.countLane(domain.LaneExercise)
	if exercise != 58 {
		t.Errorf("pending exercise = %d, want 58", exercise)
	}
	if total := len(center.identifiers()); total > 64 {
		t.Errorf("total pending = %d, exceeds ceiling", total)
	}
	if result.State != StateHealthy {
		t.Errorf("State = %v, want %v", result.State, StateHealthy)
	}
}

func TestManager_EnsureQueue_CountsFailures(t *testing.T) {
	center := newFakeCenter()
	center.failEvery = 3
	m := newTestManager(center, nil)

	result, err := m.EnsureQueue(context.Background(), everyDayProfile(), true)
	if err != nil {
		t.Fatalf("EnsureQueue() error = %v", err)
	}

	if result.FailedCount == 0 {
		t.Fatal("FailedCount = 0, want failures")
	}
	if result.ScheduledCount+result.FailedCount != 58 {
		t.Errorf("scheduled + failed = %d, want 58", result.ScheduledCount+result.FailedCount)
	}
	if got := center.countLane(domain.LaneExercise); got != result.ScheduledCount {
		t.Errorf("pending exercise = %d, want %d", got, result.ScheduledCount)
	}
}

func TestManager_EnsureQueue_RespectsCeiling(t *testing.T) {
	center := newFakeCenter()
	for i := 0; i < 62; i++ {
		center.add("foreign_" + string(rune('a'+i%26)) + string(rune('a'+i/26)))
	}
	m := newTestManager(center, nil)

	result, err := m.EnsureQueue(context.Background(), everyDayProfile(), true)
	if err != nil {
		t.Fatalf("EnsureQueue() error = %v", err)
	}

	if result.ScheduledCount != 2 {
		t.Errorf("ScheduledCount = %d, want 2", result.ScheduledCount)
	}
	if result.FailedCount != 0 {
		t.Errorf("FailedCount = %d, want 0", result.FailedCount)
	}
	if result.State != StateBelowThreshold {
		t.Errorf("State = %v, want %v", result.State, StateBelowThreshold)
	}
}

func TestManager_EnsureQueue_DisabledClears(t *testing.T) {
	center := newFakeCenter()
	center.add("exercise_20240115_0900", "snooze_20240115_0820", domain.ProgressReportIdentifier)
	m := newTestManager(center, nil)

	result, err := m.EnsureQueue(context.Background(), everyDayProfile(), false)
	if err != nil {
		t.Fatalf("EnsureQueue() error = %v", err)
	}

	if result.State != StateEmpty {
		t.Errorf("State = %v, want %v", result.State, StateEmpty)
	}
	if result.CancelledCount != 2 {
		t.Errorf("CancelledCount = %d, want 2", result.CancelledCount)
	}
	if !center.has(domain.ProgressReportIdentifier) {
		t.Error("progress report was cancelled")
	}
	if m.State() != StateEmpty {
		t.Errorf("manager state = %v, want %v", m.State(), StateEmpty)
	}
}

func TestManager_EnsureQueue_NoActiveDays(t *testing.T) {
	center := newFakeCenter()
	m := newTestManager(center, nil)
	profile := &domain.ScheduleProfile{Name: "off", FallbackInterval: 30, DeadResponseMinutes: 5}

	result, err := m.EnsureQueue(context.Background(), profile, true)
	if err != nil {
		t.Fatalf("EnsureQueue() error = %v", err)
	}
	if result.ScheduledCount != 0 || result.State != StateEmpty {
		t.Errorf("result = %+v, want empty with nothing scheduled", result)
	}
}

func TestManager_ClearQueue(t *testing.T) {
	center := newFakeCenter()
	center.add("exercise_20240115_0900", "exercise_20240115_0930", domain.DeadResponseIdentifier, "achievement_streak_3")
	m := newTestManager(center, nil)

	result, err := m.ClearQueue(context.Background())
	if err != nil {
		t.Fatalf("ClearQueue() error = %v", err)
	}
	if result.CancelledCount != 3 {
		t.Errorf("CancelledCount = %d, want 3", result.CancelledCount)
	}
	if got := center.identifiers(); len(got) != 1 || got[0] != "achievement_streak_3" {
		t.Errorf("remaining = %v, want only the achievement", got)
	}
}

func TestManager_ClearQueue_CancelFailure(t *testing.T) {
	center := newFakeCenter()
	center.add("exercise_20240115_0900")
	center.cancelErr = errors.New("unavailable")
	m := newTestManager(center, nil)

	result, err := m.ClearQueue(context.Background())
	if err != nil {
		t.Fatalf("ClearQueue() error = %v", err)
	}
	if result.CancelledCount != 0 || result.AfterCount != 1 {
		t.Errorf("result = %+v, want nothing cancelled", result)
	}
}

func TestManager_DebugInfo(t *testing.T) {
	center := newFakeCenter()
	m := newTestManager(center, nil)

	if _, err := m.EnsureQueue(context.Background(), everyDayProfile(), true); err != nil {
		t.Fatalf("EnsureQueue() error = %v", err)
	}
	center.add(domain.ProgressReportIdentifier)
	before := center.identifiers()

	info, err := m.DebugInfo(context.Background(), 3)
	if err != nil {
		t.Fatalf("DebugInfo() error = %v", err)
	}

	if info.TotalPending != 59 {
		t.Errorf("TotalPending = %d, want 59", info.TotalPending)
	}
	if info.LaneCounts[domain.LaneExercise] != 58 || info.LaneCounts[domain.LaneProgressReport] != 1 {
		t.Errorf("LaneCounts = %v", info.LaneCounts)
	}
	want := []time.Time{
		time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC),
		time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC),
	}
	if len(info.UpcomingExercise) != len(want) {
		t.Fatalf("UpcomingExercise = %v, want %v", info.UpcomingExercise, want)
	}
	for i := range want {
		if !info.UpcomingExercise[i].Equal(want[i]) {
			t.Errorf("UpcomingExercise[%d] = %v, want %v", i, info.UpcomingExercise[i], want[i])
		}
	}
	// 58 reminders at 16 per day: three full days plus 10 on Thursday.
	furthest := time.Date(2024, 1, 18, 13, 30, 0, 0, time.UTC)
	if info.FurthestExercise == nil || !info.FurthestExercise.Equal(furthest) {
		t.Errorf("FurthestExercise = %v, want %v", info.FurthestExercise, furthest)
	}
	if info.LastValidatedAt == nil || !info.LastValidatedAt.Equal(testNow) {
		t.Errorf("LastValidatedAt = %v, want %v", info.LastValidatedAt, testNow)
	}
	if info.State != StateHealthy {
		t.Errorf("State = %v, want %v", info.State, StateHealthy)
	}

	after := center.identifiers()
	if len(before) != len(after) {
		t.Errorf("DebugInfo mutated pending set: %d -> %d", len(before), len(after))
	}
}

func TestManager_ConcurrentEnsure(t *testing.T) {
	center := newFakeCenter()
	m := newTestManager(center, nil)
	profile := everyDayProfile()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := m.EnsureQueue(context.Background(), profile, true); err != nil {
				t.Errorf("EnsureQueue() error = %v", err)
			}
		}()
	}
	wg.Wait()

	if got := center.countLane(domain.LaneExercise); got != 58 {
		t.Errorf("pending exercise = %d, want 58", got)
	}
	if len(center.submitted) != 58 {
		t.Errorf("submissions = %d, want 58", len(center.submitted))
	}
}

func TestManager_EnsureQueue_PendingQueryFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	center := domain.NewMockNotificationCenter(ctrl)

	center.EXPECT().PendingRequests(gomock.Any()).Return(nil, errors.New("unavailable"))

	m := newTestManager(center, nil)
	if _, err := m.EnsureQueue(context.Background(), everyDayProfile(), true); err == nil {
		t.Error("EnsureQueue() error = nil, want error")
	}
}

func TestManager_EnsureQueue_SubmitsWithMock(t *testing.T) {
	ctrl := gomock.NewController(t)
	center := domain.NewMockNotificationCenter(ctrl)

	pending := make([]domain.NotificationRequest, 0, 30)
	for _, ts := range nexttime.Sequence(nexttime.NewCalculator(nil).Source(everyDayProfile()), testNow, 29) {
		pending = append(pending, domain.NotificationRequest{Identifier: domain.ExerciseIdentifier(ts)})
	}

	center.EXPECT().PendingRequests(gomock.Any()).Return(pending, nil)
	center.EXPECT().Submit(gomock.Any(), gomock.Any()).Return(nil).Times(29)

	m := newTestManager(center, nil)
	result, err := m.EnsureQueue(context.Background(), everyDayProfile(), true)
	if err != nil {
		t.Fatalf("EnsureQueue() error = %v", err)
	}
	if result.ScheduledCount != 29 {
		t.Errorf("ScheduledCount = %d, want 29", result.ScheduledCount)
	}
}

func TestRegistry_Get(t *testing.T) {
	built := 0
	registry := NewRegistry(func(userID string) *Manager {
		built++
		return newTestManager(newFakeCenter(), nil)
	})

	a := registry.Get("alice")
	if registry.Get("alice") != a {
		t.Error("Get() returned a different manager for the same user")
	}
	if registry.Get("bob") == a {
		t.Error("Get() shared a manager between users")
	}
	if built != 2 || registry.Len() != 2 {
		t.Errorf("built = %d, Len() = %d, want 2", built, registry.Len())
	}
}
