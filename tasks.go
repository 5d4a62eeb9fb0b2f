package eisenhower

import (
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// TaskStore owns every task of every session but only exposes the tasks of
// the current session. Every mutation rewrites the full collection under
// KeyTasks.
type TaskStore struct {
	mu       sync.RWMutex
	sessions CurrentSessionGetter
	p        *Persister
	l        Logger
	now      func() time.Time
	tasks    []Task
}

// NewTaskStore fails if the stored tasks cannot be read, so the first
// mutation never overwrites tasks it did not load.
func NewTaskStore(sessions CurrentSessionGetter, p *Persister, logger Logger) (*TaskStore, error) {
	s := &TaskStore{
		sessions: sessions,
		p:        p,
		l:        orNop(logger),
		now:      time.Now,
	}
	ok, err := p.Load(KeyTasks, &s.tasks)
	if err != nil {
		return nil, err
	}
	if ok {
		s.l.Debug("loaded tasks", "count", len(s.tasks))
	}
	return s, nil
}

func (s *TaskStore) save() {
	s.p.Save(KeyTasks, s.tasks)
}

// cloneTask copies the due date so callers never share it with the store.
func cloneTask(t Task) Task {
	if t.DueDate != nil {
		due := *t.DueDate
		t.DueDate = &due
	}
	return t
}

func (s *TaskStore) indexOf(id string) int {
	return slices.IndexFunc(s.tasks, func(t Task) bool {
		return t.ID == id
	})
}

// ListTasks returns the current session's tasks in insertion order, or
// nothing if there is no current session.
func (s *TaskStore) ListTasks() []Task {
	return s.filter(func(Task) bool { return true })
}

func (s *TaskStore) TasksByPriority(p Priority) []Task {
	return s.filter(func(t Task) bool { return t.Priority == p })
}

func (s *TaskStore) filter(keep func(Task) bool) []Task {
	curr, ok := s.sessions.CurrentSession()
	if !ok {
		return nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	var tasks []Task
	for _, t := range s.tasks {
		if t.SessionID == curr.ID && keep(t) {
			tasks = append(tasks, cloneTask(t))
		}
	}
	return tasks
}

// TaskByID only finds tasks of the current session.
func (s *TaskStore) TaskByID(id string) (Task, error) {
	for _, t := range s.ListTasks() {
		if t.ID == id {
			return t, nil
		}
	}
	return Task{}, fmt.Errorf("%q: %w", id, ErrTaskNotFound)
}

// CountBySession counts stored tasks per session id, including tasks whose
// session no longer exists.
func (s *TaskStore) CountBySession() map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	counts := make(map[string]int)
	for _, t := range s.tasks {
		counts[t.SessionID]++
	}
	return counts
}

func (s *TaskStore) AddTask(data NewTask) (Task, error) {
	curr, ok := s.sessions.CurrentSession()
	if !ok {
		s.l.Warn("refused task add", "error", ErrNoActiveSession)
		return Task{}, ErrNoActiveSession
	}
	title, err := ValidateTitle(data.Title)
	if err != nil {
		s.l.Warn("refused task add", "error", err)
		return Task{}, err
	}
	if !data.Priority.Valid() {
		s.l.Warn("refused task add", "priority", data.Priority, "error", ErrInvalidPriority)
		return Task{}, fmt.Errorf("%q: %w", data.Priority, ErrInvalidPriority)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	t := cloneTask(Task{
		ID:          uuid.NewString(),
		Title:       title,
		Description: strings.TrimSpace(data.Description),
		Completed:   data.Completed,
		DueDate:     data.DueDate,
		Priority:    data.Priority,
		CreatedAt:   s.now(),
		SessionID:   curr.ID,
	})
	s.tasks = append(s.tasks, t)
	s.l.Debug("added task", "id", t.ID, "session", curr.ID)
	s.save()
	return cloneTask(t), nil
}

// UpdateTask overwrites the stored task with the same id. The task must
// belong to the current session. ID, CreatedAt and SessionID never change.
func (s *TaskStore) UpdateTask(task Task) (Task, error) {
	curr, ok := s.sessions.CurrentSession()
	if !ok {
		s.l.Warn("refused task update", "id", task.ID, "error", ErrNoActiveSession)
		return Task{}, ErrNoActiveSession
	}
	if task.SessionID != curr.ID {
		s.l.Warn("refused task update", "id", task.ID, "session", task.SessionID, "error", ErrSessionMismatch)
		return Task{}, ErrSessionMismatch
	}
	title, err := ValidateTitle(task.Title)
	if err != nil {
		s.l.Warn("refused task update", "id", task.ID, "error", err)
		return Task{}, err
	}
	if !task.Priority.Valid() {
		s.l.Warn("refused task update", "id", task.ID, "error", ErrInvalidPriority)
		return Task{}, fmt.Errorf("%q: %w", task.Priority, ErrInvalidPriority)
	}
	task.Title = title
	task.Description = strings.TrimSpace(task.Description)

	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(task.ID)
	if i < 0 {
		s.l.Warn("refused task update", "id", task.ID, "error", ErrTaskNotFound)
		return Task{}, fmt.Errorf("update %q: %w", task.ID, ErrTaskNotFound)
	}
	existing := s.tasks[i]
	if existing.SessionID != curr.ID {
		s.l.Warn("refused task update", "id", task.ID, "session", existing.SessionID, "error", ErrSessionMismatch)
		return Task{}, ErrSessionMismatch
	}

	task.CreatedAt = existing.CreatedAt
	s.tasks[i] = cloneTask(task)
	s.l.Debug("updated task", "id", task.ID)
	s.save()
	return cloneTask(task), nil
}

// DeleteTask removes the task from any session.
func (s *TaskStore) DeleteTask(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		s.l.Warn("refused task delete", "id", id, "error", ErrTaskNotFound)
		return fmt.Errorf("delete %q: %w", id, ErrTaskNotFound)
	}
	s.tasks = slices.Delete(s.tasks, i, i+1)
	s.l.Debug("deleted task", "id", id)
	s.save()
	return nil
}

func (s *TaskStore) ToggleCompletion(id string) (Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		s.l.Warn("refused task toggle", "id", id, "error", ErrTaskNotFound)
		return Task{}, fmt.Errorf("toggle %q: %w", id, ErrTaskNotFound)
	}
	s.tasks[i].Completed = !s.tasks[i].Completed
	s.l.Debug("toggled task", "id", id, "completed", s.tasks[i].Completed)
	s.save()
	return cloneTask(s.tasks[i]), nil
}
