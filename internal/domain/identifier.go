package domain

import (
	"strings"
	"time"
)

const (
	ExerciseIdentifierPrefix    = "exercise_"
	SnoozeIdentifierPrefix      = "snooze_"
	AchievementIdentifierPrefix = "achievement_"

	DeadResponseIdentifier   = "dead_response"
	ProgressReportIdentifier = "progress_report"

	// identifierTimeLayout encodes the wall clock of the fire time at minute
	// granularity. Lexicographic order equals chronological order.
	identifierTimeLayout = "20060102_1504"
)

// Kind is the classification of an identifier.
type Kind struct {
	Lane          Lane
	AchievementID string
}

func ExerciseIdentifier(t time.Time) string {
	return ExerciseIdentifierPrefix + IdentifierTimeKey(t)
}

func SnoozeIdentifier(t time.Time) string {
	return SnoozeIdentifierPrefix + IdentifierTimeKey(t)
}

func AchievementIdentifier(achievementID string) string {
	return AchievementIdentifierPrefix + achievementID
}

// IdentifierTimeKey is the minute key shared by identifiers and de-duplication.
func IdentifierTimeKey(t time.Time) string {
	return t.Truncate(time.Minute).Format(identifierTimeLayout)
}

// KindOf classifies any string. Strings not produced by this scheme are
// LaneUnknown.
func KindOf(identifier string) Kind {
	switch {
	case identifier == DeadResponseIdentifier:
		return Kind{Lane: LaneDeadResponse}
	case identifier == ProgressReportIdentifier:
		return Kind{Lane: LaneProgressReport}
	case strings.HasPrefix(identifier, AchievementIdentifierPrefix):
		id := strings.TrimPrefix(identifier, AchievementIdentifierPrefix)
		if id == "" {
			return Kind{Lane: LaneUnknown}
		}
		return Kind{Lane: LaneAchievement, AchievementID: id}
	case strings.HasPrefix(identifier, ExerciseIdentifierPrefix):
		if _, ok := parseTimeKey(strings.TrimPrefix(identifier, ExerciseIdentifierPrefix), time.UTC); ok {
			return Kind{Lane: LaneExercise}
		}
	case strings.HasPrefix(identifier, SnoozeIdentifierPrefix):
		if _, ok := parseTimeKey(strings.TrimPrefix(identifier, SnoozeIdentifierPrefix), time.UTC); ok {
			return Kind{Lane: LaneSnooze}
		}
	}

	return Kind{Lane: LaneUnknown}
}

// TimestampOf decodes the fire time of exercise and snooze identifiers,
// interpreting the wall clock in loc.
func TimestampOf(identifier string, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.Local
	}

	var key string
	switch {
	case strings.HasPrefix(identifier, ExerciseIdentifierPrefix):
		key = strings.TrimPrefix(identifier, ExerciseIdentifierPrefix)
	case strings.HasPrefix(identifier, SnoozeIdentifierPrefix):
		key = strings.TrimPrefix(identifier, SnoozeIdentifierPrefix)
	default:
		return time.Time{}, false
	}

	return parseTimeKey(key, loc)
}

func parseTimeKey(key string, loc *time.Location) (time.Time, bool) {
	if len(key) != len(identifierTimeLayout) {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(identifierTimeLayout, key, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
