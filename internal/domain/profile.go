package domain

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

// Weekday follows the platform calendar convention: 1 = Sunday ... 7 = Saturday.
type Weekday int

const (
	Sunday Weekday = iota + 1
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

func WeekdayOf(t time.Time) Weekday {
	return Weekday(int(t.Weekday()) + 1)
}

func (w Weekday) Valid() bool {
	return w >= Sunday && w <= Saturday
}

func (w Weekday) String() string {
	if !w.Valid() {
		return fmt.Sprintf("Weekday(%d)", int(w))
	}
	return time.Weekday(int(w) - 1).String()
}

const minutesPerDay = 24 * 60

type ScheduleProfile struct {
	ID                  string                    `json:"id"`
	Name                string                    `json:"name"`
	CreatedAt           time.Time                 `json:"created_at"`
	LastUsedAt          time.Time                 `json:"last_used_at"`
	DailySchedules      map[Weekday]DailySchedule `json:"daily_schedules"`
	FallbackInterval    int                       `json:"fallback_interval"`
	DeadResponseEnabled bool                      `json:"dead_response_enabled"`
	DeadResponseMinutes int                       `json:"dead_response_minutes"`
}

// Schedule returns the schedule for the weekday. Absent days report ok=false.
func (p *ScheduleProfile) Schedule(day Weekday) (DailySchedule, bool) {
	if p == nil || p.DailySchedules == nil {
		return DailySchedule{}, false
	}
	ds, ok := p.DailySchedules[day]
	return ds, ok
}

func (p *ScheduleProfile) FallbackDuration() time.Duration {
	return time.Duration(p.FallbackInterval) * time.Minute
}

func (p *ScheduleProfile) DeadResponseDuration() time.Duration {
	return time.Duration(p.DeadResponseMinutes) * time.Minute
}

// HasEnabledDay reports whether at least one weekday is enabled.
func (p *ScheduleProfile) HasEnabledDay() bool {
	if p == nil {
		return false
	}
	for day, ds := range p.DailySchedules {
		if day.Valid() && ds.Enabled {
			return true
		}
	}
	return false
}

func (p *ScheduleProfile) Validate() error {
	if p.Name == "" {
		return ErrProfileNameEmpty
	}
	if p.FallbackInterval <= 0 {
		return fmt.Errorf("%w: fallback interval must be positive", ErrInvalidProfile)
	}
	if p.DeadResponseMinutes <= 0 {
		return fmt.Errorf("%w: dead response minutes must be positive", ErrInvalidProfile)
	}

	for day, ds := range p.DailySchedules {
		if !day.Valid() {
			return fmt.Errorf("%w: weekday %d out of range", ErrInvalidProfile, int(day))
		}
		if err := ds.Validate(); err != nil {
			return fmt.Errorf("%s: %w", day, err)
		}
	}

	return nil
}

// Normalize sorts blocks and fixed times and drops duplicate fixed times.
func (p *ScheduleProfile) Normalize() {
	for day, ds := range p.DailySchedules {
		switch st := ds.Type.(type) {
		case TimeBlocks:
			blocks := append([]TimeBlock(nil), st.Blocks...)
			sort.SliceStable(blocks, func(i, j int) bool {
				return blocks[i].StartMinutes() < blocks[j].StartMinutes()
			})
			ds.Type = TimeBlocks{Blocks: blocks}
		case FixedTimes:
			seen := make(map[int]struct{}, len(st.Reminders))
			reminders := make([]FixedReminder, 0, len(st.Reminders))
			for _, r := range st.Reminders {
				if _, dup := seen[r.TotalMinutes()]; dup {
					continue
				}
				seen[r.TotalMinutes()] = struct{}{}
				reminders = append(reminders, r)
			}
			sort.Slice(reminders, func(i, j int) bool {
				return reminders[i].TotalMinutes() < reminders[j].TotalMinutes()
			})
			ds.Type = FixedTimes{Reminders: reminders}
		}
		p.DailySchedules[day] = ds
	}
}

type DailySchedule struct {
	Enabled bool
	Type    ScheduleType
}

func (d DailySchedule) Validate() error {
	if d.Type == nil {
		return fmt.Errorf("%w: schedule type missing", ErrInvalidProfile)
	}
	return d.Type.validate()
}

type dailyScheduleJSON struct {
	Enabled bool            `json:"enabled"`
	Type    json.RawMessage `json:"schedule_type"`
}

type scheduleTypeJSON struct {
	Kind      ScheduleKind    `json:"kind"`
	Blocks    []TimeBlock     `json:"blocks,omitempty"`
	Reminders []FixedReminder `json:"reminders,omitempty"`
}

func (d DailySchedule) MarshalJSON() ([]byte, error) {
	st := scheduleTypeJSON{Kind: KindUseFallback}
	switch t := d.Type.(type) {
	case TimeBlocks:
		st.Kind = KindTimeBlocks
		st.Blocks = t.Blocks
	case FixedTimes:
		st.Kind = KindFixedTimes
		st.Reminders = t.Reminders
	}

	raw, err := json.Marshal(st)
	if err != nil {
		return nil, err
	}

	return json.Marshal(dailyScheduleJSON{Enabled: d.Enabled, Type: raw})
}

func (d *DailySchedule) UnmarshalJSON(data []byte) error {
	var wire dailyScheduleJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	var st scheduleTypeJSON
	if len(wire.Type) > 0 {
		if err := json.Unmarshal(wire.Type, &st); err != nil {
			return err
		}
	}

	d.Enabled = wire.Enabled
	switch st.Kind {
	case KindTimeBlocks:
		d.Type = TimeBlocks{Blocks: st.Blocks}
	case KindFixedTimes:
		d.Type = FixedTimes{Reminders: st.Reminders}
	case KindUseFallback, "":
		d.Type = UseFallback{}
	default:
		return fmt.Errorf("%w: unknown schedule kind %q", ErrInvalidProfile, st.Kind)
	}

	return nil
}

type ScheduleKind string

const (
	KindTimeBlocks  ScheduleKind = "time_blocks"
	KindFixedTimes  ScheduleKind = "fixed_times"
	KindUseFallback ScheduleKind = "use_fallback"
)

// ScheduleType is one of TimeBlocks, FixedTimes or UseFallback.
type ScheduleType interface {
	Kind() ScheduleKind
	validate() error
}

type TimeBlocks struct {
	Blocks []TimeBlock
}

func (TimeBlocks) Kind() ScheduleKind { return KindTimeBlocks }

func (t TimeBlocks) validate() error {
	for i, b := range t.Blocks {
		if err := b.Validate(); err != nil {
			return fmt.Errorf("block %d: %w", i, err)
		}
	}
	return nil
}

type FixedTimes struct {
	Reminders []FixedReminder
}

func (FixedTimes) Kind() ScheduleKind { return KindFixedTimes }

func (f FixedTimes) validate() error {
	for i, r := range f.Reminders {
		if !r.Valid() {
			return fmt.Errorf("%w: fixed reminder %d out of range", ErrInvalidProfile, i)
		}
	}
	return nil
}

type UseFallback struct{}

func (UseFallback) Kind() ScheduleKind { return KindUseFallback }

func (UseFallback) validate() error { return nil }

type TimeBlock struct {
	Label              string `json:"label,omitempty"`
	StartHour          int    `json:"start_hour"`
	StartMinute        int    `json:"start_minute"`
	EndHour            int    `json:"end_hour"`
	EndMinute          int    `json:"end_minute"`
	IntervalMinutes    int    `json:"interval_minutes"`
	RandomizationRange int    `json:"randomization_range,omitempty"`
}

func (b TimeBlock) StartMinutes() int {
	return b.StartHour*60 + b.StartMinute
}

func (b TimeBlock) EndMinutes() int {
	return b.EndHour*60 + b.EndMinute
}

// Usable reports whether the block can produce reminders at all.
func (b TimeBlock) Usable() bool {
	return b.StartMinutes() >= 0 &&
		b.EndMinutes() <= minutesPerDay &&
		b.StartMinutes() < b.EndMinutes() &&
		b.IntervalMinutes > 0 &&
		b.RandomizationRange >= 0
}

func (b TimeBlock) Validate() error {
	if b.StartMinutes() >= b.EndMinutes() {
		return ErrInvalidTimeBlock
	}
	if !b.Usable() {
		return fmt.Errorf("%w: interval must be positive and range non-negative", ErrInvalidTimeBlock)
	}
	return nil
}

type FixedReminder struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

func (r FixedReminder) TotalMinutes() int {
	return r.Hour*60 + r.Minute
}

func (r FixedReminder) Valid() bool {
	return r.Hour >= 0 && r.Hour < 24 && r.Minute >= 0 && r.Minute < 60
}
