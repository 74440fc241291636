package lane

import (
	"time"

	"github.com/KasumiMercury/primind-exercise-reminder/internal/domain"
)

type Classifier struct {
	location *time.Location
}

// NewClassifier returns a classifier decoding identifier timestamps in loc.
func NewClassifier(loc *time.Location) *Classifier {
	if loc == nil {
		loc = time.Local
	}
	return &Classifier{location: loc}
}

func (c *Classifier) Classify(identifier string) domain.Lane {
	return domain.KindOf(identifier).Lane
}

func (c *Classifier) IsExerciseRelated(identifier string) bool {
	return c.Classify(identifier).IsExerciseRelated()
}

// FireTime decodes the instant encoded in exercise and snooze identifiers.
func (c *Classifier) FireTime(identifier string) (time.Time, bool) {
	return domain.TimestampOf(identifier, c.location)
}

// FilterLane keeps the requests that belong to lane, preserving order.
func (c *Classifier) FilterLane(requests []domain.NotificationRequest, lane domain.Lane) []domain.NotificationRequest {
	var out []domain.NotificationRequest
	for _, r := range requests {
		if c.Classify(r.Identifier) == lane {
			out = append(out, r)
		}
	}
	return out
}

func (c *Classifier) FilterExerciseRelated(requests []domain.NotificationRequest) []domain.NotificationRequest {
	var out []domain.NotificationRequest
	for _, r := range requests {
		if c.IsExerciseRelated(r.Identifier) {
			out = append(out, r)
		}
	}
	return out
}

// ExerciseRelatedIdentifiers returns the identifiers owned by the queue
// manager's batch operations.
func (c *Classifier) ExerciseRelatedIdentifiers(requests []domain.NotificationRequest) []string {
	var out []string
	for _, r := range requests {
		if c.IsExerciseRelated(r.Identifier) {
			out = append(out, r.Identifier)
		}
	}
	return out
}

func (c *Classifier) CountByLane(requests []domain.NotificationRequest) map[domain.Lane]int {
	counts := make(map[domain.Lane]int, len(domain.Lanes))
	for _, r := range requests {
		counts[c.Classify(r.Identifier)]++
	}
	return counts
}
