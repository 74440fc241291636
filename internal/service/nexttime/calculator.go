package nexttime

import (
	"sort"
	"time"

	"github.com/KasumiMercury/primind-exercise-reminder/internal/domain"
)

const (
	// Horizon is the nominal distance a computed reminder may lie after
	// "from". The limit itself is the same wall clock seven calendar days
	// later, which differs by the DST shift in transition weeks.
	Horizon = 7 * 24 * time.Hour

	// searchDays covers the day of "from" plus the following seven days.
	searchDays = 8

	// maxSearchSteps bounds the work spent on a single lookup.
	maxSearchSteps = 7 * 24 * 60
)

type Calculator struct {
	jitter Jitter
}

func NewCalculator(jitter Jitter) *Calculator {
	if jitter == nil {
		jitter = NoJitter()
	}
	return &Calculator{jitter: jitter}
}

// Next returns the earliest reminder instant strictly after from (minute
// granularity) allowed by the profile. ok is false when nothing valid exists
// within the horizon.
func (c *Calculator) Next(profile *domain.ScheduleProfile, from time.Time) (next time.Time, ok bool) {
	return c.next(profile, from, false)
}

// Continue is Next for a from that the calculator returned earlier. A
// jittered reminder may precede its grid point, so the grid point it stands
// for is skipped as well.
func (c *Calculator) Continue(profile *domain.ScheduleProfile, previous time.Time) (time.Time, bool) {
	return c.next(profile, previous, true)
}

func (c *Calculator) next(profile *domain.ScheduleProfile, from time.Time, resumed bool) (next time.Time, ok bool) {
	if profile == nil {
		return time.Time{}, false
	}

	firstDay := domain.StartOfDay(from)
	limit := horizonLimit(firstDay, from)
	steps := 0

	for day := 0; day < searchDays && steps <= maxSearchSteps; day++ {
		date := firstDay.AddDate(0, 0, day)

		ds, exists := profile.Schedule(domain.WeekdayOf(date))
		if !exists || !ds.Enabled || ds.Type == nil {
			continue
		}

		// Minutes since midnight that a candidate must exceed; -1 admits 00:00.
		after := -1
		if day == 0 {
			after = minuteOfDay(from)
		}

		var found bool
		switch st := ds.Type.(type) {
		case domain.TimeBlocks:
			next, found = c.nextInBlocks(date, st.Blocks, after, resumed && day == 0, &steps)
		case domain.FixedTimes:
			next, found = nextFixedTime(date, st.Reminders, after)
			steps += len(st.Reminders)
		case domain.UseFallback:
			if profile.FallbackInterval <= 0 {
				return time.Time{}, false
			}
			base := from
			if day > 0 {
				base = date
			}
			next, found = base.Add(profile.FallbackDuration()), true
		}

		if found {
			if next.After(limit) {
				return time.Time{}, false
			}
			return next, true
		}
	}

	return time.Time{}, false
}

// nextInBlocks walks the blocks of one day in start order. Reminders sit on
// the grid start + k*interval; jitter moves grid points after the block start
// and a jittered point reaching the block end is dropped in favour of the
// next block.
func (c *Calculator) nextInBlocks(date time.Time, blocks []domain.TimeBlock, after int, resumed bool, steps *int) (time.Time, bool) {
	ordered := make([]domain.TimeBlock, 0, len(blocks))
	for _, b := range blocks {
		if b.Usable() {
			ordered = append(ordered, b)
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].StartMinutes() < ordered[j].StartMinutes()
	})

	for _, b := range ordered {
		*steps++
		if *steps > maxSearchSteps {
			return time.Time{}, false
		}

		start, end, interval := b.StartMinutes(), b.EndMinutes(), b.IntervalMinutes

		// A previous jittered reminder may sit up to RandomizationRange
		// before its grid point; skip that grid point as well.
		threshold := after
		if resumed && b.RandomizationRange > 0 && after >= start {
			threshold = after + b.RandomizationRange
		}

		k := 0
		if threshold >= start {
			k = (threshold-start)/interval + 1
		}

		point := start + k*interval
		if point >= end {
			continue
		}

		if k > 0 && b.RandomizationRange > 0 {
			jittered := point + c.jitter.Offset(b.RandomizationRange)
			lower := max(start+(k-1)*interval, after) + 1
			if jittered < lower {
				jittered = lower
			}
			if jittered >= end {
				continue
			}
			point = jittered
		}

		return atMinute(date, point), true
	}

	return time.Time{}, false
}

func nextFixedTime(date time.Time, reminders []domain.FixedReminder, after int) (time.Time, bool) {
	best := -1
	for _, r := range reminders {
		if !r.Valid() {
			continue
		}
		m := r.TotalMinutes()
		if m > after && (best < 0 || m < best) {
			best = m
		}
	}

	if best < 0 {
		return time.Time{}, false
	}
	return atMinute(date, best), true
}

// horizonLimit is from's wall clock seven calendar days after firstDay.
func horizonLimit(firstDay, from time.Time) time.Time {
	y, m, d := firstDay.AddDate(0, 0, 7).Date()
	return time.Date(y, m, d, from.Hour(), from.Minute(), from.Second(), from.Nanosecond(), from.Location())
}

func minuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

func atMinute(date time.Time, minutes int) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, 0, minutes, 0, 0, date.Location())
}
