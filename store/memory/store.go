// memory based implementation for testing and single-process hosts
package memory

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jmpratt/taskcycle/store"
)

// Store implements store.Store using in-memory maps
type Store struct {
	mu        sync.RWMutex
	order     []string // task ids in list order
	tasks     map[string]store.Task
	templates map[string]store.Template
}

// New creates a new in-memory store
func New() *Store {
	return &Store{
		tasks:     make(map[string]store.Task),
		templates: make(map[string]store.Template),
	}
}

// NewTask builds a task with a fresh id, ready for AddTask.
func NewTask(text string) store.Task {
	return store.Task{
		ID:        uuid.NewString(),
		Text:      text,
		CreatedAt: time.Now(),
	}
}

// Task operations

func (s *Store) Tasks() ([]store.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]store.Task, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.tasks[id])
	}
	return out, nil
}

func (s *Store) AddTask(task store.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	if task.CreatedAt.IsZero() {
		task.CreatedAt = time.Now()
	}
	if _, exists := s.tasks[task.ID]; !exists {
		s.order = append(s.order, task.ID)
	}
	s.tasks[task.ID] = task
	return nil
}

func (s *Store) RemoveTask(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.tasks, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// UpdateTask replaces a live task instance in place.
func (s *Store) UpdateTask(task store.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[task.ID]; !ok {
		return store.ErrNotFound
	}
	s.tasks[task.ID] = task
	return nil
}

// Template operations

func (s *Store) RecurringTemplates() ([]store.Template, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]store.Template, 0, len(s.templates))
	for _, tmpl := range s.templates {
		out = append(out, tmpl)
	}
	return out, nil
}

func (s *Store) Template(id string) (store.Template, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tmpl, ok := s.templates[id]
	if !ok {
		return store.Template{}, store.ErrNotFound
	}
	return tmpl, nil
}

func (s *Store) SetTemplate(tmpl store.Template) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.templates[tmpl.ID] = tmpl
	return nil
}

func (s *Store) RemoveTemplate(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.templates, id)
	return nil
}

func (s *Store) MarkActivated(id string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tmpl, ok := s.templates[id]
	if !ok {
		return store.ErrNotFound
	}
	tmpl.LastTriggered = at
	tmpl.TriggerCount++
	s.templates[id] = tmpl
	return nil
}
