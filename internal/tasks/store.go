package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/jonboulle/clockwork"
	"github.com/sandeepkv93/focusflow/internal/model"
	"github.com/sandeepkv93/focusflow/internal/storage"
	"github.com/sirupsen/logrus"
)

var ErrNilRepository = errors.New("tasks: nil repository")

// ChangeFunc observes a freshly published snapshot. It runs after the store
// lock is released, so it may read the store again.
type ChangeFunc func(snapshot []model.Task)

// Store is the authoritative task collection. Every mutation publishes a new
// slice and writes the whole collection to the repository; a published slice
// is never modified afterwards.
type Store struct {
	mu        sync.Mutex
	tasks     []model.Task
	repo      storage.Repository
	clock     clockwork.Clock
	log       logrus.FieldLogger
	listeners []ChangeFunc
}

// Open loads the persisted snapshot once. Missing, unreadable or corrupt data
// starts an empty collection; only a nil repository is an error.
func Open(ctx context.Context, repo storage.Repository, clock clockwork.Clock, log logrus.FieldLogger) (*Store, error) {
	if repo == nil {
		return nil, ErrNilRepository
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if log == nil {
		log = logrus.New()
	}
	s := &Store{
		tasks: []model.Task{},
		repo:  repo,
		clock: clock,
		log:   log.WithField("component", "tasks"),
	}

	raw, err := repo.Get(ctx, storage.TasksKey)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		s.log.Debug("no saved tasks, starting empty")
	case err != nil:
		s.log.WithError(err).Warn("read saved tasks, starting empty")
	default:
		loaded, err := Decode(raw)
		if err != nil {
			s.log.WithError(err).Warn("saved tasks are corrupt, starting empty")
		} else {
			s.tasks = loaded
			s.log.WithField("count", len(loaded)).Info("loaded tasks")
		}
	}
	return s, nil
}

// Decode parses a persisted task array.
func Decode(raw []byte) ([]model.Task, error) {
	var out []model.Task
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode tasks: %w", err)
	}
	if out == nil {
		out = []model.Task{}
	}
	for i := range out {
		if out[i].NextSteps == nil {
			out[i].NextSteps = []string{}
		}
	}
	return out, nil
}

// Encode renders tasks in the persisted JSON array form.
func Encode(tasks []model.Task) ([]byte, error) {
	if tasks == nil {
		tasks = []model.Task{}
	}
	return json.Marshal(tasks)
}

// Snapshot returns the current collection, most recently created first.
func (s *Store) Snapshot() []model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.tasks)
}

// Get returns a copy of the task with id.
func (s *Store) Get(id string) (model.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 {
		return s.tasks[i].Clone(), true
	}
	return model.Task{}, false
}

// OnChange registers fn for every published snapshot and returns a function
// that removes it.
func (s *Store) OnChange(fn ChangeFunc) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
	idx := len(s.listeners) - 1
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if idx < len(s.listeners) {
			s.listeners[idx] = nil
		}
	}
}

// Create inserts task at the head of the collection. Ids are not checked for
// uniqueness; callers generate them.
func (s *Store) Create(ctx context.Context, task model.Task) error {
	task = task.Clone()
	if task.NextSteps == nil {
		task.NextSteps = []string{}
	}
	return s.mutate(ctx, func(cur []model.Task) ([]model.Task, bool) {
		next := make([]model.Task, 0, len(cur)+1)
		next = append(next, task)
		return append(next, cur...), true
	})
}

// UpdateStatus moves a task through its lifecycle. Completing archives the
// task and stamps archivedAt; any other status un-archives it.
func (s *Store) UpdateStatus(ctx context.Context, id string, status model.Status) error {
	if !status.IsValid() {
		return fmt.Errorf("%w: %q", model.ErrInvalidStatus, status)
	}
	now := model.MillisOf(s.clock.Now())
	return s.replace(ctx, id, func(t model.Task) model.Task {
		t.Status = status
		if status == model.StatusCompleted {
			t.IsArchived = true
			t.ArchivedAt = model.Ptr(now)
		} else {
			t.IsArchived = false
			t.ArchivedAt = nil
		}
		return t
	})
}

// Update shallow-merges patch into the task. No validation is applied.
func (s *Store) Update(ctx context.Context, id string, patch model.TaskPatch) error {
	return s.replace(ctx, id, patch.Apply)
}

// Restore brings an archived task back to the board as a fresh TODO.
func (s *Store) Restore(ctx context.Context, id string) error {
	return s.replace(ctx, id, func(t model.Task) model.Task {
		t.IsArchived = false
		t.Status = model.StatusTodo
		t.ArchivedAt = nil
		return t
	})
}

func (s *Store) Delete(ctx context.Context, id string) error {
	_, err := s.RemoveWhere(ctx, func(t model.Task) bool { return t.ID == id })
	return err
}

// RemoveWhere deletes every task matching pred and reports how many went.
// Nothing is persisted when no task matches.
func (s *Store) RemoveWhere(ctx context.Context, pred func(model.Task) bool) (int, error) {
	removed := 0
	err := s.mutate(ctx, func(cur []model.Task) ([]model.Task, bool) {
		next := make([]model.Task, 0, len(cur))
		for _, t := range cur {
			if pred(t) {
				removed++
				continue
			}
			next = append(next, t)
		}
		return next, removed > 0
	})
	return removed, err
}

func (s *Store) replace(ctx context.Context, id string, fn func(model.Task) model.Task) error {
	return s.mutate(ctx, func(cur []model.Task) ([]model.Task, bool) {
		i := slices.IndexFunc(cur, func(t model.Task) bool { return t.ID == id })
		if i < 0 {
			return cur, false
		}
		next := slices.Clone(cur)
		next[i] = fn(cur[i].Clone())
		return next, true
	})
}

// mutate runs fn against the current slice. When fn reports a change the new
// slice is published, persisted and announced to listeners. A persist failure
// is returned but the in-memory change stands.
func (s *Store) mutate(ctx context.Context, fn func(cur []model.Task) ([]model.Task, bool)) error {
	s.mu.Lock()
	next, changed := fn(s.tasks)
	if !changed {
		s.mu.Unlock()
		return nil
	}
	s.tasks = next
	persistErr := s.persistLocked(ctx)
	listeners := slices.Clone(s.listeners)
	snapshot := slices.Clone(next)
	s.mu.Unlock()

	for _, fn := range listeners {
		if fn != nil {
			fn(snapshot)
		}
	}
	return persistErr
}

func (s *Store) persistLocked(ctx context.Context) error {
	raw, err := Encode(s.tasks)
	if err != nil {
		s.log.WithError(err).Error("encode tasks")
		return err
	}
	if err := s.repo.Put(ctx, storage.TasksKey, raw); err != nil {
		s.log.WithError(err).WithField("count", len(s.tasks)).Error("persist tasks")
		return fmt.Errorf("persist tasks: %w", err)
	}
	return nil
}

func (s *Store) indexOf(id string) int {
	return slices.IndexFunc(s.tasks, func(t model.Task) bool { return t.ID == id })
}
