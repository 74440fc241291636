package reminder

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/KasumiMercury/primind-exercise-reminder/internal/domain"
	"github.com/KasumiMercury/primind-exercise-reminder/internal/infra/pushgateway"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type pendingEntry struct {
	req    domain.NotificationRequest
	taskID string
}

type fakeCenter struct {
	mu      sync.Mutex
	pending map[string]pendingEntry
	seq     int
}

func newFakeCenter() *fakeCenter {
	return &fakeCenter{pending: make(map[string]pendingEntry)}
}

func (f *fakeCenter) Submit(_ context.Context, req *domain.NotificationRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, exists := f.pending[req.Identifier]; !exists && len(f.pending) >= 64 {
		return domain.ErrCapExceeded
	}
	f.seq++
	f.pending[req.Identifier] = pendingEntry{req: *req, taskID: fmt.Sprintf("task-%d", f.seq)}
	return nil
}

func (f *fakeCenter) PendingRequests(_ context.Context) ([]domain.NotificationRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]domain.NotificationRequest, 0, len(f.pending))
	for _, e := range f.pending {
		out = append(out, e.req)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Trigger.FireAt.Before(out[j].Trigger.FireAt) })
	return out, nil
}

func (f *fakeCenter) Cancel(_ context.Context, identifiers []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, id := range identifiers {
		delete(f.pending, id)
	}
	return nil
}

func (f *fakeCenter) Complete(_ context.Context, identifier, taskID string) (*domain.NotificationRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	e, ok := f.pending[identifier]
	if !ok {
		return nil, domain.ErrNotificationNotFound
	}
	if e.taskID != taskID {
		return nil, domain.ErrStaleDelivery
	}
	delete(f.pending, identifier)
	return &e.req, nil
}

func (f *fakeCenter) taskID(identifier string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pending[identifier].taskID
}

func (f *fakeCenter) has(identifier string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.pending[identifier]
	return ok
}

func (f *fakeCenter) get(identifier string) (domain.NotificationRequest, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.pending[identifier]
	return e.req, ok
}

func (f *fakeCenter) countLane(l domain.Lane) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for id := range f.pending {
		if domain.KindOf(id).Lane == l {
			n++
		}
	}
	return n
}

type fakeProfiles struct {
	mu       sync.Mutex
	profiles map[string]map[string]*domain.ScheduleProfile
	active   map[string]string
}

func newFakeProfiles() *fakeProfiles {
	return &fakeProfiles{
		profiles: make(map[string]map[string]*domain.ScheduleProfile),
		active:   make(map[string]string),
	}
}

func (f *fakeProfiles) ListProfiles(_ context.Context, userID string) ([]*domain.ScheduleProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*domain.ScheduleProfile, 0, len(f.profiles[userID]))
	for _, p := range f.profiles[userID] {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeProfiles) GetProfile(_ context.Context, userID, profileID string) (*domain.ScheduleProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.profiles[userID][profileID]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	return p, nil
}

func (f *fakeProfiles) SaveProfile(_ context.Context, userID string, p *domain.ScheduleProfile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.profiles[userID] == nil {
		f.profiles[userID] = make(map[string]*domain.ScheduleProfile)
	}
	f.profiles[userID][p.ID] = p
	return nil
}

func (f *fakeProfiles) DeleteProfile(_ context.Context, userID, profileID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.profiles[userID][profileID]; !ok {
		return domain.ErrProfileNotFound
	}
	delete(f.profiles[userID], profileID)
	return nil
}

func (f *fakeProfiles) GetActiveProfileID(_ context.Context, userID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.active[userID], nil
}

func (f *fakeProfiles) SetActiveProfileID(_ context.Context, userID, profileID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.active[userID] = profileID
	return nil
}

type fakeLegacy struct {
	settings map[string]*domain.LegacySettings
}

func (f *fakeLegacy) GetLegacySettings(_ context.Context, userID string) (*domain.LegacySettings, error) {
	s, ok := f.settings[userID]
	if !ok {
		return nil, domain.ErrLegacySettingsAbsent
	}
	return s, nil
}

func (f *fakeLegacy) DeleteLegacySettings(_ context.Context, userID string) error {
	delete(f.settings, userID)
	return nil
}

type fakeSettings struct {
	mu       sync.Mutex
	settings map[string]domain.UserSettings
}

func (f *fakeSettings) GetUserSettings(_ context.Context, userID string) (domain.UserSettings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.settings[userID]
	if !ok {
		return domain.DefaultUserSettings(), nil
	}
	return s, nil
}

func (f *fakeSettings) SaveUserSettings(_ context.Context, userID string, s domain.UserSettings) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.settings[userID] = s
	return nil
}

type fakeLogs struct {
	mu   sync.Mutex
	logs map[string][]domain.ExerciseLog
}

func (f *fakeLogs) AddLog(_ context.Context, userID string, log domain.ExerciseLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logs[userID] = append(f.logs[userID], log)
	return nil
}

func (f *fakeLogs) LogsInRange(_ context.Context, userID string, start, end time.Time) ([]domain.ExerciseLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.ExerciseLog
	for _, l := range f.logs[userID] {
		if !l.CompletedAt.Before(start) && l.CompletedAt.Before(end) {
			out = append(out, l)
		}
	}
	return out, nil
}

type fakeAchievements struct {
	mu       sync.Mutex
	unlocked map[string]map[string]time.Time
}

func (f *fakeAchievements) UnlockedAchievements(_ context.Context, userID string) (map[string]time.Time, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]time.Time, len(f.unlocked[userID]))
	for k, v := range f.unlocked[userID] {
		out[k] = v
	}
	return out, nil
}

func (f *fakeAchievements) MarkUnlocked(_ context.Context, userID, achievementID string, at time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.unlocked[userID] == nil {
		f.unlocked[userID] = make(map[string]time.Time)
	}
	if _, ok := f.unlocked[userID][achievementID]; ok {
		return false, nil
	}
	f.unlocked[userID][achievementID] = at
	return true, nil
}

type fakeGateway struct {
	mu   sync.Mutex
	sent []pushgateway.Message
	err  error
}

func (g *fakeGateway) Send(_ context.Context, msg pushgateway.Message) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err != nil {
		return g.err
	}
	g.sent = append(g.sent, msg)
	return nil
}
