package queue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/KasumiMercury/primind-exercise-reminder/internal/domain"
	"github.com/KasumiMercury/primind-exercise-reminder/internal/observability/metrics"
	"github.com/KasumiMercury/primind-exercise-reminder/internal/observability/tracing"
	"github.com/KasumiMercury/primind-exercise-reminder/internal/service/budget"
	"github.com/KasumiMercury/primind-exercise-reminder/internal/service/lane"
	"github.com/KasumiMercury/primind-exercise-reminder/internal/service/nexttime"
)

// Manager keeps one user's exercise lane topped up. All mutating operations
// are serialized by mu.
type Manager struct {
	mu sync.Mutex

	userID     string
	center     domain.NotificationCenter
	counter    budget.Counter
	calculator *nexttime.Calculator
	classifier *lane.Classifier
	budget     budget.Budget
	clock      domain.Clock
	content    ContentFunc
	metrics    *metrics.QueueMetrics
	recorder   domain.QueueRunRecorder

	stateMu       sync.RWMutex
	state         State
	lastValidated time.Time
}

func NewManager(
	userID string,
	center domain.NotificationCenter,
	calculator *nexttime.Calculator,
	classifier *lane.Classifier,
	b budget.Budget,
	clock domain.Clock,
	queueMetrics *metrics.QueueMetrics,
	recorder domain.QueueRunRecorder,
) *Manager {
	return &Manager{
		userID:     userID,
		center:     center,
		counter:    budget.NewCounter(center),
		calculator: calculator,
		classifier: classifier,
		budget:     b,
		clock:      clock,
		content:    DefaultExerciseContent,
		metrics:    queueMetrics,
		recorder:   recorder,
		state:      StateEmpty,
	}
}

// WithContent replaces the exercise notification content builder.
func (m *Manager) WithContent(content ContentFunc) *Manager {
	if content != nil {
		m.content = content
	}
	return m
}

func (m *Manager) State() State {
	m.stateMu.RLock()
	defer m.stateMu.RUnlock()
	return m.state
}

func (m *Manager) setState(s State) {
	m.stateMu.Lock()
	defer m.stateMu.Unlock()
	m.state = s
}

func (m *Manager) markValidated(s State) {
	m.stateMu.Lock()
	defer m.stateMu.Unlock()
	m.state = s
	m.lastValidated = m.clock.Now()
}

// EnsureQueue tops the exercise lane up to the cap when it has fallen below
// the refill threshold. With reminders disabled the exercise-related lanes
// are cleared instead.
func (m *Manager) EnsureQueue(ctx context.Context, profile *domain.ScheduleProfile, remindersEnabled bool) (*Result, error) {
	return m.Ensure(ctx, m.profileSource(profile), remindersEnabled)
}

// RebuildQueue discards every exercise-related request and refills from now.
func (m *Manager) RebuildQueue(ctx context.Context, profile *domain.ScheduleProfile, remindersEnabled bool) (*Result, error) {
	return m.Rebuild(ctx, m.profileSource(profile), remindersEnabled)
}

func (m *Manager) profileSource(profile *domain.ScheduleProfile) nexttime.Source {
	if profile == nil {
		return nil
	}
	return m.calculator.Source(profile)
}

// Ensure is EnsureQueue driven by an arbitrary instant source.
func (m *Manager) Ensure(ctx context.Context, src nexttime.Source, remindersEnabled bool) (result *Result, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !remindersEnabled {
		return m.clear(ctx, OperationEnsure)
	}

	start := m.clock.Now()
	ctx, span := tracing.StartQueueRunSpan(ctx, string(OperationEnsure), m.userID)
	defer span.End()

	result = &Result{Operation: OperationEnsure}
	defer func() { m.finish(ctx, start, result, err, span) }()

	snap, err := m.counter.Snapshot(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to read pending requests",
			slog.String("user_id", m.userID),
			slog.String("error", err.Error()),
		)
		return result, err
	}

	snap, result.CancelledCount = m.dropOverdue(ctx, snap, start)

	count := snap.Count(domain.LaneExercise)
	result.BeforeCount = count
	result.AfterCount = count

	if !m.budget.NeedsRefill(count) {
		result.State = StateHealthy
		m.markValidated(StateHealthy)
		slog.DebugContext(ctx, "exercise lane healthy",
			slog.String("user_id", m.userID),
			slog.Int("exercise_count", count),
		)
		return result, nil
	}

	m.setState(StateBelowThreshold)
	slog.InfoContext(ctx, "exercise lane below refill threshold",
		slog.String("user_id", m.userID),
		slog.Int("exercise_count", count),
		slog.Int("threshold", m.budget.RefillThreshold),
	)

	m.setState(StateRefilling)
	from, resumed := m.latestExercise(snap.Requests, m.clock.Now())
	scheduled, failed := m.fill(ctx, src, snap, from, resumed)

	result.ScheduledCount = scheduled
	result.FailedCount = failed
	result.AfterCount = count + scheduled
	result.State = m.settledState(result.AfterCount)
	m.markValidated(result.State)

	return result, nil
}

// Rebuild is RebuildQueue driven by an arbitrary instant source.
func (m *Manager) Rebuild(ctx context.Context, src nexttime.Source, remindersEnabled bool) (result *Result, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !remindersEnabled {
		return m.clear(ctx, OperationRebuild)
	}

	start := m.clock.Now()
	ctx, span := tracing.StartQueueRunSpan(ctx, string(OperationRebuild), m.userID)
	defer span.End()

	result = &Result{Operation: OperationRebuild}
	defer func() { m.finish(ctx, start, result, err, span) }()

	m.setState(StateRebuilding)

	before, err := m.counter.Snapshot(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to read pending requests",
			slog.String("user_id", m.userID),
			slog.String("error", err.Error()),
		)
		m.setState(StateEmpty)
		return result, err
	}
	result.BeforeCount = before.Count(domain.LaneExercise)
	result.CancelledCount = m.cancelExerciseRelated(ctx, before.Requests)

	// Re-read so that requests surviving a failed cancel are not duplicated.
	snap, err := m.counter.Snapshot(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to read pending requests after cancel",
			slog.String("user_id", m.userID),
			slog.String("error", err.Error()),
		)
		m.setState(StateEmpty)
		return result, err
	}

	remaining := snap.Count(domain.LaneExercise)
	scheduled, failed := m.fill(ctx, src, snap, m.clock.Now(), false)

	result.ScheduledCount = scheduled
	result.FailedCount = failed
	result.AfterCount = remaining + scheduled
	result.State = m.settledState(result.AfterCount)
	m.markValidated(result.State)

	return result, nil
}

// ClearQueue cancels every exercise, snooze and dead-response request.
func (m *Manager) ClearQueue(ctx context.Context) (*Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.clear(ctx, OperationClear)
}

func (m *Manager) clear(ctx context.Context, op Operation) (result *Result, err error) {
	start := m.clock.Now()
	ctx, span := tracing.StartQueueRunSpan(ctx, string(op), m.userID)
	defer span.End()

	result = &Result{Operation: op, State: StateEmpty}
	defer func() { m.finish(ctx, start, result, err, span) }()

	snap, err := m.counter.Snapshot(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to read pending requests",
			slog.String("user_id", m.userID),
			slog.String("error", err.Error()),
		)
		return result, err
	}

	result.BeforeCount = snap.Count(domain.LaneExercise)
	result.CancelledCount = m.cancelExerciseRelated(ctx, snap.Requests)
	result.AfterCount = result.BeforeCount
	if result.CancelledCount > 0 {
		result.AfterCount = 0
	}
	result.State = m.settledState(result.AfterCount)
	m.markValidated(result.State)

	return result, nil
}

// cancelExerciseRelated returns how many requests were cancelled; a failed
// cancel is logged and reported as zero.
func (m *Manager) cancelExerciseRelated(ctx context.Context, pending []domain.NotificationRequest) int {
	ids := m.classifier.ExerciseRelatedIdentifiers(pending)
	if len(ids) == 0 {
		return 0
	}

	if err := m.center.Cancel(ctx, ids); err != nil {
		slog.WarnContext(ctx, "failed to cancel exercise-related requests",
			slog.String("user_id", m.userID),
			slog.Int("count", len(ids)),
			slog.String("error", err.Error()),
		)
		return 0
	}

	if m.metrics != nil {
		for l, n := range m.classifier.CountByLane(m.classifier.FilterExerciseRelated(pending)) {
			m.metrics.RecordCancelled(ctx, l.String(), n)
		}
	}

	return len(ids)
}

// dropOverdue cancels exercise-related requests whose fire time passed more
// than domain.DeliveryGrace before now and returns the snapshot without them,
// together with the number cancelled. They are left out of the counts even
// when the cancel fails, since they no longer cover any future reminder.
func (m *Manager) dropOverdue(ctx context.Context, snap budget.Snapshot, now time.Time) (budget.Snapshot, int) {
	cutoff := now.Add(-domain.DeliveryGrace)

	var overdue []string
	kept := make([]domain.NotificationRequest, 0, len(snap.Requests))
	for _, r := range snap.Requests {
		if m.classifier.IsExerciseRelated(r.Identifier) {
			if t := m.fireTime(r); !t.IsZero() && t.Before(cutoff) {
				overdue = append(overdue, r.Identifier)
				continue
			}
		}
		kept = append(kept, r)
	}
	if len(overdue) == 0 {
		return snap, 0
	}

	if err := m.center.Cancel(ctx, overdue); err != nil {
		slog.WarnContext(ctx, "failed to cancel overdue requests",
			slog.String("user_id", m.userID),
			slog.Int("count", len(overdue)),
			slog.String("error", err.Error()),
		)
		return budget.NewSnapshot(kept), 0
	}

	slog.InfoContext(ctx, "cancelled overdue requests",
		slog.String("user_id", m.userID),
		slog.Int("count", len(overdue)),
	)
	return budget.NewSnapshot(kept), len(overdue)
}

func (m *Manager) fireTime(r domain.NotificationRequest) time.Time {
	if t, ok := m.classifier.FireTime(r.Identifier); ok {
		return t
	}
	return r.Trigger.FireAt
}

// latestExercise returns the furthest pending exercise instant, or now when
// nothing is pending after now. resumed reports that the instant is a
// reminder produced earlier rather than now.
func (m *Manager) latestExercise(pending []domain.NotificationRequest, now time.Time) (latest time.Time, resumed bool) {
	latest = now
	for _, r := range pending {
		if m.classifier.Classify(r.Identifier) != domain.LaneExercise {
			continue
		}
		if t, ok := m.classifier.FireTime(r.Identifier); ok && t.After(latest) {
			latest = t
			resumed = true
		}
	}
	return latest, resumed
}

// fill submits new exercise reminders after from in ascending order until the
// headroom is used up or the source runs dry. resumed marks from as a
// previously produced reminder. Instants already pending are skipped by
// minute key. It returns successful and failed submission counts.
func (m *Manager) fill(ctx context.Context, src nexttime.Source, snap budget.Snapshot, from time.Time, resumed bool) (scheduled, failed int) {
	if src == nil {
		return 0, 0
	}

	want := m.budget.Headroom(snap.Count(domain.LaneExercise), snap.Total)
	if want == 0 {
		return 0, 0
	}

	existing := make(map[string]struct{}, len(snap.Requests))
	for _, r := range m.classifier.FilterLane(snap.Requests, domain.LaneExercise) {
		if t, ok := m.classifier.FireTime(r.Identifier); ok {
			existing[domain.IdentifierTimeKey(t)] = struct{}{}
		}
	}

	calcStart := time.Now()
	var instants []time.Time
	if resumed {
		instants = nexttime.SequenceAfter(src, from, want+len(existing))
	} else {
		instants = nexttime.Sequence(src, from, want+len(existing))
	}
	if m.metrics != nil {
		m.metrics.RecordCalculationDuration(ctx, time.Since(calcStart))
	}

	if len(instants) == 0 {
		slog.InfoContext(ctx, "no valid reminder time found",
			slog.String("user_id", m.userID),
			slog.Time("from", from),
		)
	}

	for _, t := range instants {
		if scheduled+failed >= want {
			break
		}

		key := domain.IdentifierTimeKey(t)
		if _, dup := existing[key]; dup {
			continue
		}
		existing[key] = struct{}{}

		req := exerciseRequest(t, m.content)
		if err := m.center.Submit(ctx, req); err != nil {
			failed++
			slog.WarnContext(ctx, "failed to submit exercise reminder",
				slog.String("user_id", m.userID),
				slog.String("identifier", req.Identifier),
				slog.String("error", err.Error()),
			)
			if errors.Is(err, domain.ErrCapExceeded) {
				break
			}
			continue
		}
		scheduled++
	}

	if m.metrics != nil {
		m.metrics.RecordScheduled(ctx, domain.LaneExercise.String(), scheduled)
		m.metrics.RecordFailed(ctx, domain.LaneExercise.String(), failed)
	}

	return scheduled, failed
}

func (m *Manager) settledState(exerciseCount int) State {
	switch {
	case exerciseCount == 0:
		return StateEmpty
	case m.budget.NeedsRefill(exerciseCount):
		return StateBelowThreshold
	default:
		return StateHealthy
	}
}

func (m *Manager) finish(ctx context.Context, start time.Time, result *Result, err error, span trace.Span) {
	duration := m.clock.Now().Sub(start)
	if result.State == "" {
		result.State = m.State()
	}

	tracing.RecordQueueRunResult(span, result.State.String(),
		result.BeforeCount, result.AfterCount, result.ScheduledCount, result.FailedCount, result.CancelledCount, err)

	if m.metrics != nil {
		m.metrics.RecordRun(ctx, string(result.Operation), result.State.String(), duration)
		m.metrics.RecordPending(ctx, domain.LaneExercise.String(), result.AfterCount)
	}

	slog.InfoContext(ctx, "queue run completed",
		slog.String("user_id", m.userID),
		slog.String("operation", string(result.Operation)),
		slog.String("state", result.State.String()),
		slog.Int("before_count", result.BeforeCount),
		slog.Int("after_count", result.AfterCount),
		slog.Int("scheduled_count", result.ScheduledCount),
		slog.Int("failed_count", result.FailedCount),
		slog.Int("cancelled_count", result.CancelledCount),
	)

	if m.recorder == nil {
		return
	}

	record := domain.QueueRunRecord{
		RunID:          uuid.NewString(),
		UserID:         m.userID,
		Operation:      string(result.Operation),
		State:          result.State.String(),
		RecordedAt:     m.clock.Now(),
		BeforeCount:    result.BeforeCount,
		AfterCount:     result.AfterCount,
		ScheduledCount: result.ScheduledCount,
		FailedCount:    result.FailedCount,
		CancelledCount: result.CancelledCount,
	}
	if recErr := m.recorder.RecordRun(ctx, record); recErr != nil {
		slog.WarnContext(ctx, "failed to record queue run",
			slog.String("user_id", m.userID),
			slog.String("error", recErr.Error()),
		)
	}
}

// DebugInfo reports the pending set without changing it. n limits the number
// of upcoming exercise instants returned.
func (m *Manager) DebugInfo(ctx context.Context, n int) (*DebugInfo, error) {
	snap, err := m.counter.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("debug info: %w", err)
	}

	instants := make([]time.Time, 0, snap.Count(domain.LaneExercise))
	for _, r := range m.classifier.FilterLane(snap.Requests, domain.LaneExercise) {
		if t, ok := m.classifier.FireTime(r.Identifier); ok {
			instants = append(instants, t)
		}
	}
	sort.Slice(instants, func(i, j int) bool { return instants[i].Before(instants[j]) })

	info := &DebugInfo{
		TotalPending: snap.Total,
		LaneCounts:   snap.ByLane,
	}

	if len(instants) > 0 {
		furthest := instants[len(instants)-1]
		info.FurthestExercise = &furthest
	}
	if n >= 0 && n < len(instants) {
		instants = instants[:n]
	}
	info.UpcomingExercise = instants

	m.stateMu.RLock()
	info.State = m.state
	if !m.lastValidated.IsZero() {
		validated := m.lastValidated
		info.LastValidatedAt = &validated
	}
	m.stateMu.RUnlock()

	return info, nil
}
