// Package store holds the task collection and session identity, and mirrors
// every mutation to the persistence port.
package store

import (
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/dori/zenith/internal/model"
	"github.com/dori/zenith/internal/storage"
)

// Store is the single authority over tasks, the logged-in user, and the
// set of already-notified task ids. Construct one per process and pass it
// by reference; there are no package-level instances.
//
// Mutations are applied in memory first and then persisted. A failed
// persist keeps the in-memory effect and logs the error, so the update can
// be lost on next load. That mirrors the intended best-effort semantics of
// local-only state.
type Store struct {
	mu       sync.RWMutex
	kv       storage.KV
	logger   *log.Logger
	user     string
	tasks    []model.Task
	notified map[string]struct{}
}

// Draft carries the fields of a task to create: everything except the
// id and completion flag, which the store assigns.
type Draft struct {
	Title       string
	Description string
	DueDate     time.Time
	Priority    model.Priority
	Steps       []model.Step
	Progress    int
}

// New creates a store over the given persistence port. Call Load before use.
func New(kv storage.KV, logger *log.Logger) *Store {
	return &Store{
		kv:       kv,
		logger:   logger,
		notified: make(map[string]struct{}),
	}
}

// NewID returns a fresh collision-resistant identifier for tasks and steps.
func NewID() string {
	return uuid.New().String()
}

// Load reads the persisted state. Malformed values fall back to their zero
// state rather than failing the load. Legacy task records are migrated and,
// when any needed it, the whole collection is written back once.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if raw, ok, err := s.kv.Get(storage.KeyUser); err != nil {
		return err
	} else if ok {
		var user *string
		if err := json.Unmarshal(raw, &user); err != nil {
			s.logger.Warn("discarding malformed user record", "err", err)
		} else if user != nil {
			s.user = *user
		}
	}

	if raw, ok, err := s.kv.Get(storage.KeyTasks); err != nil {
		return err
	} else if ok {
		tasks, migrated, err := migrateTasks(raw)
		if err != nil {
			s.logger.Warn("discarding malformed task records", "err", err)
		} else {
			s.tasks = tasks
			if migrated {
				s.persistTasks()
			}
		}
	}

	if raw, ok, err := s.kv.Get(storage.KeyNotified); err != nil {
		return err
	} else if ok {
		var ids []string
		if err := json.Unmarshal(raw, &ids); err != nil {
			s.logger.Warn("discarding malformed notified set", "err", err)
		} else {
			for _, id := range ids {
				s.notified[id] = struct{}{}
			}
		}
	}

	return nil
}

// User returns the logged-in username, or "" when logged out.
func (s *Store) User() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// LoggedIn reports whether a session is active.
func (s *Store) LoggedIn() bool {
	return s.User() != ""
}

// Tasks returns a snapshot of the current collection in stored order.
func (s *Store) Tasks() []model.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Task returns the task with the given id, or nil.
func (s *Store) Task(id string) *model.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			t := s.tasks[i]
			return &t
		}
	}
	return nil
}

// Login starts a session for username.
func (s *Store) Login(username string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = username
	s.persistUser()
}

// Logout clears the session and, with it, the entire task collection and
// the notified set. Tasks are scoped to a session: there is no per-user
// namespace to retain them under.
func (s *Store) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = ""
	s.tasks = nil
	s.notified = make(map[string]struct{})
	s.persistUser()
	s.persistTasks()
	s.persistNotified()
}

// Create adds a new task from draft, assigning a fresh id and
// IsCompleted=false, and re-sorts the collection by ascending due date.
// The sort is stable: tasks due at the same instant keep their prior
// relative order. Returns the created task.
func (s *Store) Create(draft Draft) model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	priority := draft.Priority
	if !priority.Valid() {
		priority = model.PriorityMedium
	}
	steps := draft.Steps
	if steps == nil {
		steps = []model.Step{}
	}

	t := model.Task{
		ID:          NewID(),
		Title:       draft.Title,
		Description: draft.Description,
		DueDate:     draft.DueDate,
		IsCompleted: false,
		Priority:    priority,
		Steps:       steps,
		Progress:    draft.Progress,
	}
	if len(t.Steps) > 0 {
		t.Progress = t.StepProgress()
	}

	s.tasks = append(s.tasks, t)
	sort.SliceStable(s.tasks, func(i, j int) bool {
		return s.tasks[i].DueDate.Before(s.tasks[j].DueDate)
	})
	s.persistTasks()
	return t
}

// Update applies patch to the task with the given id. Only creation
// re-sorts, so a due-date edit keeps the task's position until the next
// create. Returns false when no task has that id.
func (s *Store) Update(id string, patch Patch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.tasks {
		if s.tasks[i].ID != id {
			continue
		}
		patch.apply(&s.tasks[i])
		s.persistTasks()
		return true
	}
	return false
}

// ToggleComplete flips the completion flag of the task with the given id.
// No-op when the id is unknown.
func (s *Store) ToggleComplete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.tasks {
		if s.tasks[i].ID != id {
			continue
		}
		s.tasks[i].IsCompleted = !s.tasks[i].IsCompleted
		s.persistTasks()
		return true
	}
	return false
}

// ToggleStep flips the matching step's completion and recomputes the
// task's progress from the full step list. The recomputation is
// unconditional: a step toggle always overwrites any manually set
// progress value.
func (s *Store) ToggleStep(taskID, stepID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.tasks {
		if s.tasks[i].ID != taskID {
			continue
		}
		for j := range s.tasks[i].Steps {
			if s.tasks[i].Steps[j].ID != stepID {
				continue
			}
			s.tasks[i].Steps[j].IsCompleted = !s.tasks[i].Steps[j].IsCompleted
			s.tasks[i].Progress = s.tasks[i].StepProgress()
			s.persistTasks()
			return true
		}
		return false
	}
	return false
}

// Delete removes the task with the given id. No-op when unknown.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.tasks {
		if s.tasks[i].ID != id {
			continue
		}
		s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
		s.persistTasks()
		return true
	}
	return false
}

// IsNotified reports whether an overdue notification was already emitted
// for the task id.
func (s *Store) IsNotified(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.notified[id]
	return ok
}

// MarkNotified records that the task id has been alerted and persists the
// set immediately, so the suppression survives restarts.
func (s *Store) MarkNotified(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notified[id] = struct{}{}
	s.persistNotified()
}

func (s *Store) persistUser() {
	var raw []byte
	if s.user == "" {
		raw = []byte("null")
	} else {
		raw, _ = json.Marshal(s.user)
	}
	if err := s.kv.Set(storage.KeyUser, raw); err != nil {
		s.logger.Error("persisting user", "err", err)
	}
}

func (s *Store) persistTasks() {
	tasks := s.tasks
	if tasks == nil {
		tasks = []model.Task{}
	}
	raw, err := json.Marshal(tasks)
	if err != nil {
		s.logger.Error("encoding tasks", "err", err)
		return
	}
	if err := s.kv.Set(storage.KeyTasks, raw); err != nil {
		s.logger.Error("persisting tasks", "err", err)
	}
}

func (s *Store) persistNotified() {
	ids := make([]string, 0, len(s.notified))
	for id := range s.notified {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	raw, err := json.Marshal(ids)
	if err != nil {
		s.logger.Error("encoding notified set", "err", err)
		return
	}
	if err := s.kv.Set(storage.KeyNotified, raw); err != nil {
		s.logger.Error("persisting notified set", "err", err)
	}
}
