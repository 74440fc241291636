package stub

import (
	"sort"
	"sync"
	"time"
)

const defaultRunID = "default"

type runData struct {
	tasks    map[string]StoredTask
	messages []ReceivedMessage
}

// Storage keeps tasks and captured messages per load-test run.
type Storage struct {
	mu   sync.RWMutex
	runs map[string]*runData
}

func NewStorage() *Storage {
	return &Storage{
		runs: make(map[string]*runData),
	}
}

func (s *Storage) run(runID string) *runData {
	if runID == "" {
		runID = defaultRunID
	}
	rd, ok := s.runs[runID]
	if !ok {
		rd = &runData{tasks: make(map[string]StoredTask)}
		s.runs[runID] = rd
	}
	return rd
}

func (s *Storage) Reset(runID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.runs, runID)
}

func (s *Storage) ResetAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs = make(map[string]*runData)
}

// AddTask stores the task. It reports false when the name is already taken.
func (s *Storage) AddTask(runID string, task StoredTask) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	rd := s.run(runID)
	if _, exists := rd.tasks[task.Name]; exists {
		return false
	}
	rd.tasks[task.Name] = task
	return true
}

func (s *Storage) DeleteTask(runID, name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	rd := s.run(runID)
	if _, exists := rd.tasks[name]; !exists {
		return false
	}
	delete(rd.tasks, name)
	return true
}

// Tasks returns the stored tasks ordered by schedule time.
func (s *Storage) Tasks(runID string) []StoredTask {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rd, ok := s.runs[runID]
	if !ok {
		return []StoredTask{}
	}

	tasks := make([]StoredTask, 0, len(rd.tasks))
	for _, t := range rd.tasks {
		tasks = append(tasks, t)
	}
	sortTasks(tasks)
	return tasks
}

// TakeDue removes and returns tasks scheduled at or before until.
func (s *Storage) TakeDue(runID string, until time.Time) []StoredTask {
	s.mu.Lock()
	defer s.mu.Unlock()

	rd, ok := s.runs[runID]
	if !ok {
		return nil
	}

	var due []StoredTask
	for name, t := range rd.tasks {
		if t.ScheduleTime.After(until) {
			continue
		}
		due = append(due, t)
		delete(rd.tasks, name)
	}
	sortTasks(due)
	return due
}

func (s *Storage) AddMessage(runID string, msg ReceivedMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rd := s.run(runID)
	rd.messages = append(rd.messages, msg)
}

func (s *Storage) Messages(runID string) []ReceivedMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rd, ok := s.runs[runID]
	if !ok {
		return []ReceivedMessage{}
	}
	return append([]ReceivedMessage{}, rd.messages...)
}

func sortTasks(tasks []StoredTask) {
	sort.Slice(tasks, func(i, j int) bool {
		if tasks[i].ScheduleTime.Equal(tasks[j].ScheduleTime) {
			return tasks[i].Name < tasks[j].Name
		}
		return tasks[i].ScheduleTime.Before(tasks[j].ScheduleTime)
	})
}
