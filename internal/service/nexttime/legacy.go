package nexttime

import (
	"time"

	"github.com/KasumiMercury/primind-exercise-reminder/internal/domain"
)

// legacyMaxSteps bounds the hourly walk of the legacy calculator.
const legacyMaxSteps = 7 * 24

// LegacyCalculator serves users that have no schedule profile yet.
type LegacyCalculator struct{}

func (LegacyCalculator) Next(settings *domain.LegacySettings, from time.Time) (time.Time, bool) {
	if settings == nil ||
		settings.IntervalMinutes <= 0 ||
		len(settings.ActiveDays) == 0 ||
		settings.StartHour >= settings.EndHour {
		return time.Time{}, false
	}

	active := make(map[domain.Weekday]bool, len(settings.ActiveDays))
	for _, d := range settings.ActiveDays {
		active[d] = true
	}

	candidate := from.Add(time.Duration(settings.IntervalMinutes) * time.Minute)
	for step := 0; step < legacyMaxSteps; step++ {
		hour := candidate.Hour()
		if active[domain.WeekdayOf(candidate)] && hour >= settings.StartHour && hour < settings.EndHour {
			return candidate, true
		}

		y, m, d := candidate.Date()
		candidate = time.Date(y, m, d, hour+1, 0, 0, 0, candidate.Location())
	}

	return time.Time{}, false
}
