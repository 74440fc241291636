package firedlog

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/KasumiMercury/primind-exercise-reminder/internal/domain"
)

type EventKind string

const EventNotificationFired EventKind = "notificationFired"

type TimelineEvent struct {
	Kind EventKind `json:"kind"`
	At   time.Time `json:"at"`
}

// Log keeps today's fired-notification instants per user. Entries from
// earlier calendar days are dropped on load and on every mutation.
type Log struct {
	mu    sync.Mutex
	store domain.FiredLogStore
	clock domain.Clock
}

func NewLog(store domain.FiredLogStore, clock domain.Clock) *Log {
	return &Log{
		store: store,
		clock: clock,
	}
}

func (l *Log) RecordFired(ctx context.Context, userID string, at time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries := append(l.load(ctx, userID), at)
	l.save(ctx, userID, l.prune(entries))
}

func (l *Log) TodaysEvents(ctx context.Context, userID string) []TimelineEvent {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries := l.load(ctx, userID)
	events := make([]TimelineEvent, 0, len(entries))
	for _, at := range entries {
		events = append(events, TimelineEvent{Kind: EventNotificationFired, At: at})
	}
	return events
}

func (l *Log) Clear(ctx context.Context, userID string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.save(ctx, userID, nil)
}

// load degrades to an empty log when the store fails.
func (l *Log) load(ctx context.Context, userID string) []time.Time {
	entries, err := l.store.Load(ctx, userID)
	if err != nil {
		slog.WarnContext(ctx, "failed to load fired log",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
		return nil
	}
	return l.prune(entries)
}

func (l *Log) save(ctx context.Context, userID string, entries []time.Time) {
	if err := l.store.Save(ctx, userID, entries); err != nil {
		slog.WarnContext(ctx, "failed to save fired log",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
	}
}

func (l *Log) prune(entries []time.Time) []time.Time {
	now := l.clock.Now()
	kept := make([]time.Time, 0, len(entries))
	for _, at := range entries {
		if domain.SameDay(now, at) {
			kept = append(kept, at)
		}
	}
	sort.Slice(kept, func(i, j int) bool { return kept[i].Before(kept[j]) })
	return kept
}
