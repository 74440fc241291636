package nexttime

import (
	"time"

	"github.com/KasumiMercury/primind-exercise-reminder/internal/domain"
)

// Source yields successive reminder instants.
type Source interface {
	Next(from time.Time) (time.Time, bool)
}

type SourceFunc func(from time.Time) (time.Time, bool)

func (f SourceFunc) Next(from time.Time) (time.Time, bool) {
	return f(from)
}

// Continuer is implemented by sources that treat an instant they produced
// differently from an arbitrary starting point.
type Continuer interface {
	Continue(previous time.Time) (time.Time, bool)
}

type profileSource struct {
	calc    *Calculator
	profile *domain.ScheduleProfile
}

func (s profileSource) Next(from time.Time) (time.Time, bool) {
	return s.calc.Next(s.profile, from)
}

func (s profileSource) Continue(previous time.Time) (time.Time, bool) {
	return s.calc.Continue(s.profile, previous)
}

func (c *Calculator) Source(profile *domain.ScheduleProfile) Source {
	return profileSource{calc: c, profile: profile}
}

func (l LegacyCalculator) Source(settings *domain.LegacySettings) Source {
	return SourceFunc(func(from time.Time) (time.Time, bool) {
		return l.Next(settings, from)
	})
}

// Sequence chains up to n instants starting after from. It stops early when
// the source runs dry or stops advancing.
func Sequence(src Source, from time.Time, n int) []time.Time {
	return sequence(src, from, n, false)
}

// SequenceAfter is Sequence for a previous instant produced by src.
func SequenceAfter(src Source, previous time.Time, n int) []time.Time {
	return sequence(src, previous, n, true)
}

func sequence(src Source, cursor time.Time, n int, resumed bool) []time.Time {
	out := make([]time.Time, 0, max(n, 0))
	cont, canContinue := src.(Continuer)

	for len(out) < n {
		var (
			next time.Time
			ok   bool
		)
		if resumed && canContinue {
			next, ok = cont.Continue(cursor)
		} else {
			next, ok = src.Next(cursor)
		}
		if !ok || !next.After(cursor) {
			break
		}
		out = append(out, next)
		cursor = next
		resumed = true
	}

	return out
}
