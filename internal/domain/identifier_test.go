package domain

import (
	"testing"
	"time"
)

func TestExerciseIdentifier_RoundTrip(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}

	tests := []struct {
		name string
		at   time.Time
	}{
		{name: "utc morning", at: time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC)},
		{name: "utc midnight", at: time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)},
		{name: "tokyo late evening", at: time.Date(2024, 12, 31, 23, 59, 0, 0, tokyo)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := ExerciseIdentifier(tt.at)

			got, ok := TimestampOf(id, tt.at.Location())
			if !ok {
				t.Fatalf("TimestampOf(%q) failed", id)
			}
			if !got.Equal(tt.at) {
				t.Errorf("TimestampOf(%q) = %v, want %v", id, got, tt.at)
			}
		})
	}
}

func TestExerciseIdentifier_TruncatesSeconds(t *testing.T) {
	at := time.Date(2024, 1, 15, 9, 30, 45, 500, time.UTC)

	if got, want := ExerciseIdentifier(at), "exercise_20240115_0930"; got != want {
		t.Errorf("ExerciseIdentifier() = %q, want %q", got, want)
	}
}

func TestExerciseIdentifier_SortsChronologically(t *testing.T) {
	earlier := ExerciseIdentifier(time.Date(2024, 1, 9, 23, 0, 0, 0, time.UTC))
	later := ExerciseIdentifier(time.Date(2024, 1, 10, 8, 0, 0, 0, time.UTC))

	if earlier >= later {
		t.Errorf("expected %q < %q", earlier, later)
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		identifier    string
		wantLane      Lane
		wantAchieveID string
	}{
		{identifier: "exercise_20240115_0930", wantLane: LaneExercise},
		{identifier: "snooze_20240115_0945", wantLane: LaneSnooze},
		{identifier: "dead_response", wantLane: LaneDeadResponse},
		{identifier: "progress_report", wantLane: LaneProgressReport},
		{identifier: "achievement_streak_7", wantLane: LaneAchievement, wantAchieveID: "streak_7"},
		{identifier: "achievement_", wantLane: LaneUnknown},
		{identifier: "exercise_", wantLane: LaneUnknown},
		{identifier: "exercise_2024-01-15", wantLane: LaneUnknown},
		{identifier: "exercise_20241315_0930", wantLane: LaneUnknown},
		{identifier: "exercise_20240115_0930x", wantLane: LaneUnknown},
		{identifier: "dead_response_2", wantLane: LaneUnknown},
		{identifier: "", wantLane: LaneUnknown},
		{identifier: "some-other-app-id", wantLane: LaneUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.identifier, func(t *testing.T) {
			got := KindOf(tt.identifier)
			if got.Lane != tt.wantLane {
				t.Errorf("KindOf(%q).Lane = %v, want %v", tt.identifier, got.Lane, tt.wantLane)
			}
			if got.AchievementID != tt.wantAchieveID {
				t.Errorf("KindOf(%q).AchievementID = %q, want %q", tt.identifier, got.AchievementID, tt.wantAchieveID)
			}
		})
	}
}

func TestTimestampOf_RejectsNonTimestampKinds(t *testing.T) {
	for _, id := range []string{"dead_response", "progress_report", "achievement_first", "random", "snooze_bad"} {
		if _, ok := TimestampOf(id, time.UTC); ok {
			t.Errorf("TimestampOf(%q) ok = true, want false", id)
		}
	}
}

func TestLane_IsExerciseRelated(t *testing.T) {
	want := map[Lane]bool{
		LaneExercise:       true,
		LaneSnooze:         true,
		LaneDeadResponse:   true,
		LaneProgressReport: false,
		LaneAchievement:    false,
		LaneUnknown:        false,
	}

	for _, lane := range Lanes {
		if got := lane.IsExerciseRelated(); got != want[lane] {
			t.Errorf("%s.IsExerciseRelated() = %v, want %v", lane, got, want[lane])
		}
	}
}
