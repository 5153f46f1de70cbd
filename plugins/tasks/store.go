// Package tasks keeps an in-process list of scheduled reminders.
package tasks

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	ErrTaskNotFound         = errors.New("task not found")
	ErrTaskAlreadyCancelled = errors.New("task already cancelled")
	ErrRunAtInPast          = errors.New("run_at is in the past")
)

type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusCancelled Status = "cancelled"
)

type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Note        string     `json:"note,omitempty"`
	RunAt       time.Time  `json:"run_at"`
	Status      Status     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
}

// Store is a mutex-guarded task list. Tasks live only as long as the process.
type Store struct {
	mu    sync.Mutex
	tasks map[string]*Task
	now   func() time.Time
}

func NewStore(now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{
		tasks: make(map[string]*Task),
		now:   now,
	}
}

// Schedule adds a task that runs at runAt, which must be in the future.
func (s *Store) Schedule(title, note string, runAt time.Time) (Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Task{}, fmt.Errorf("title is required")
	}

	now := s.now()
	if !runAt.After(now) {
		return Task{}, fmt.Errorf("%w: %s", ErrRunAtInPast, runAt.Format(time.RFC3339))
	}

	t := &Task{
		ID:        uuid.New().String(),
		Title:     title,
		Note:      strings.TrimSpace(note),
		RunAt:     runAt,
		Status:    StatusScheduled,
		CreatedAt: now,
	}

	s.mu.Lock()
	s.tasks[t.ID] = t
	s.mu.Unlock()
	return *t, nil
}

// List returns tasks ordered by run time.
func (s *Store) List(includeCancelled bool) []Task {
	s.mu.Lock()
	out := make([]Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if t.Status == StatusCancelled && !includeCancelled {
			continue
		}
		out = append(out, *t)
	}
	s.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].RunAt.Equal(out[j].RunAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].RunAt.Before(out[j].RunAt)
	})
	return out
}

// Cancel marks a task cancelled.
func (s *Store) Cancel(id string) (Task, error) {
	id = strings.TrimSpace(id)

	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok {
		return Task{}, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	if t.Status == StatusCancelled {
		return Task{}, fmt.Errorf("%w: %s", ErrTaskAlreadyCancelled, id)
	}
	now := s.now()
	t.Status = StatusCancelled
	t.CancelledAt = &now
	return *t, nil
}
