package queue

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/KasumiMercury/primind-exercise-reminder/internal/domain"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

// fakeCenter is an in-memory notification center with a pending ceiling.
type fakeCenter struct {
	mu        sync.Mutex
	pending   map[string]domain.NotificationRequest
	submitted []string
	ceiling   int
	failEvery int
	calls     int
	cancelErr error
}

func newFakeCenter() *fakeCenter {
	return &fakeCenter{
		pending: make(map[string]domain.NotificationRequest),
		ceiling: 64,
	}
}

func (f *fakeCenter) Submit(_ context.Context, req *domain.NotificationRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++
	if f.failEvery > 0 && f.calls%f.failEvery == 0 {
		return errors.New("submission rejected")
	}
	if _, exists := f.pending[req.Identifier]; !exists && len(f.pending) >= f.ceiling {
		return domain.ErrCapExceeded
	}
	f.pending[req.Identifier] = *req
	f.submitted = append(f.submitted, req.Identifier)
	return nil
}

func (f *fakeCenter) PendingRequests(_ context.Context) ([]domain.NotificationRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]domain.NotificationRequest, 0, len(f.pending))
	for _, r := range f.pending {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Identifier < out[j].Identifier })
	return out, nil
}

func (f *fakeCenter) Cancel(_ context.Context, identifiers []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.cancelErr != nil {
		return f.cancelErr
	}
	for _, id := range identifiers {
		delete(f.pending, id)
	}
	return nil
}

func (f *fakeCenter) add(identifiers ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, id := range identifiers {
		f.pending[id] = domain.NotificationRequest{Identifier: id}
	}
}

func (f *fakeCenter) has(identifier string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.pending[identifier]
	return ok
}

func (f *fakeCenter) identifiers() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.pending))
	for id := range f.pending {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func (f *fakeCenter) countLane(lane domain.Lane) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for id := range f.pending {
		if domain.KindOf(id).Lane == lane {
			n++
		}
	}
	return n
}

type recordingRecorder struct {
	mu      sync.Mutex
	records []domain.QueueRunRecord
}

func (r *recordingRecorder) RecordRun(_ context.Context, record domain.QueueRunRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, record)
	return nil
}

func (r *recordingRecorder) Close() error { return nil }
