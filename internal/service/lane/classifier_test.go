package lane

import (
	"testing"
	"time"

	"github.com/KasumiMercury/primind-exercise-reminder/internal/domain"
)

func TestClassifier_Classify(t *testing.T) {
	classifier := NewClassifier(time.UTC)

	tests := []struct {
		name       string
		identifier string
		wantLane   domain.Lane
	}{
		{
			name:       "exercise identifier",
			identifier: "exercise_20240115_0930",
			wantLane:   domain.LaneExercise,
		},
		{
			name:       "snooze identifier",
			identifier: "snooze_20240115_0945",
			wantLane:   domain.LaneSnooze,
		},
		{
			name:       "dead response",
			identifier: "dead_response",
			wantLane:   domain.LaneDeadResponse,
		},
		{
			name:       "progress report",
			identifier: "progress_report",
			wantLane:   domain.LaneProgressReport,
		},
		{
			name:       "achievement",
			identifier: "achievement_streak_7",
			wantLane:   domain.LaneAchievement,
		},
		{
			name:       "exercise prefix with malformed suffix",
			identifier: "exercise_tomorrow",
			wantLane:   domain.LaneUnknown,
		},
		{
			name:       "foreign identifier",
			identifier: "calendar_sync",
			wantLane:   domain.LaneUnknown,
		},
		{
			name:       "empty",
			identifier: "",
			wantLane:   domain.LaneUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifier.Classify(tt.identifier)
			if got != tt.wantLane {
				t.Errorf("Classify(%q) = %v, want %v", tt.identifier, got, tt.wantLane)
			}
		})
	}
}

func TestClassifier_IsExerciseRelated(t *testing.T) {
	classifier := NewClassifier(time.UTC)

	related := []string{"exercise_20240115_0930", "snooze_20240115_0945", "dead_response"}
	for _, id := range related {
		if !classifier.IsExerciseRelated(id) {
			t.Errorf("IsExerciseRelated(%q) = false, want true", id)
		}
	}

	unrelated := []string{"progress_report", "achievement_first_workout", "other"}
	for _, id := range unrelated {
		if classifier.IsExerciseRelated(id) {
			t.Errorf("IsExerciseRelated(%q) = true, want false", id)
		}
	}
}

func TestClassifier_FilterAndCount(t *testing.T) {
	classifier := NewClassifier(time.UTC)
	requests := []domain.NotificationRequest{
		{Identifier: "exercise_20240115_1000"},
		{Identifier: "progress_report"},
		{Identifier: "exercise_20240115_0930"},
		{Identifier: "achievement_first_workout"},
		{Identifier: "dead_response"},
		{Identifier: "mystery"},
	}

	exercises := classifier.FilterLane(requests, domain.LaneExercise)
	if len(exercises) != 2 {
		t.Fatalf("FilterLane() len = %d, want 2", len(exercises))
	}
	if exercises[0].Identifier != "exercise_20240115_1000" {
		t.Errorf("FilterLane() did not preserve order: %v", exercises)
	}

	counts := classifier.CountByLane(requests)
	want := map[domain.Lane]int{
		domain.LaneExercise:       2,
		domain.LaneProgressReport: 1,
		domain.LaneAchievement:    1,
		domain.LaneDeadResponse:   1,
		domain.LaneUnknown:        1,
	}
	for lane, n := range want {
		if counts[lane] != n {
			t.Errorf("CountByLane()[%v] = %d, want %d", lane, counts[lane], n)
		}
	}

	ids := classifier.ExerciseRelatedIdentifiers(requests)
	if len(ids) != 3 {
		t.Errorf("ExerciseRelatedIdentifiers() = %v, want 3 identifiers", ids)
	}
}

func TestClassifier_FireTime(t *testing.T) {
	loc := time.FixedZone("JST", 9*60*60)
	classifier := NewClassifier(loc)

	got, ok := classifier.FireTime("exercise_20240115_0930")
	if !ok {
		t.Fatal("FireTime() ok = false")
	}
	want := time.Date(2024, 1, 15, 9, 30, 0, 0, loc)
	if !got.Equal(want) {
		t.Errorf("FireTime() = %v, want %v", got, want)
	}

	if _, ok := classifier.FireTime("dead_response"); ok {
		t.Error("FireTime(dead_response) ok = true, want false")
	}
}
