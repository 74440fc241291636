package queue

import "sync"

// Factory builds the manager for a user on first use.
type Factory func(userID string) *Manager

// Registry hands out one Manager per user so that every operation on a
// user's queue goes through the same mutex.
type Registry struct {
	mu       sync.Mutex
	managers map[string]*Manager
	factory  Factory
}

func NewRegistry(factory Factory) *Registry {
	return &Registry{
		managers: make(map[string]*Manager),
		factory:  factory,
	}
}

func (r *Registry) Get(userID string) *Manager {
	r.mu.Lock()
	defer r.mu.Unlock()

	if m, ok := r.managers[userID]; ok {
		return m
	}

	m := r.factory(userID)
	r.managers[userID] = m
	return m
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.managers)
}
