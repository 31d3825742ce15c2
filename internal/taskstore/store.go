// Package taskstore keeps an in-memory task collection in sync with the task
// REST API.
//
// Mutations are optimistic: Create inserts a placeholder under a temporary id
// and Update merges the patch locally before the request is sent. Both are
// reverted when the server rejects them. Delete waits for the server. List and
// Search replace the whole collection and a response that was overtaken by a
// newer List or Search is dropped.
//
// Every operation clears the last error when it starts and records its own
// failure message when it ends. The mutex is never held across a request.
package taskstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/oklog/ulid/v2"

	"github.com/kazz187/taskboard/internal/apiclient"
	"github.com/kazz187/taskboard/internal/task"
)

const statusUpdateFailedPrefix = "Status update failed: "

// API is the remote side of the store. *apiclient.TaskClient implements it.
type API interface {
	ListTasks(ctx context.Context, f task.Filter) (*task.Page[*task.Task], error)
	SearchTasks(ctx context.Context, keyword string) (*task.Page[*task.Task], error)
	CreateTask(ctx context.Context, t *task.Task) (*task.Task, error)
	UpdateTask(ctx context.Context, id task.ID, p *task.Patch) (*task.Task, error)
	UpdateTaskStatus(ctx context.Context, id task.ID, status task.Status) (string, error)
	DeleteTask(ctx context.Context, id task.ID) error
	GetTaskStats(ctx context.Context) (*task.Stats, error)
}

var _ API = (*apiclient.TaskClient)(nil)

type Store struct {
	api       API
	newTempID func() task.ID

	mu      sync.Mutex
	tasks   []*task.Task
	loading int
	err     string
	// generation is bumped by every List and Search. A response is applied
	// only if no newer one was issued meanwhile.
	generation uint64
}

type Option func(*Store)

// WithTempIDFunc overrides how placeholder ids are generated.
func WithTempIDFunc(fn func() task.ID) Option {
	return func(s *Store) {
		s.newTempID = fn
	}
}

func New(api API, opts ...Option) *Store {
	s := &Store{
		api:       api,
		newTempID: NewTempID,
		tasks:     []*task.Task{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewTempID returns a unique placeholder id.
func NewTempID() task.ID {
	return task.ID(task.TempIDPrefix + ulid.Make().String())
}

// Tasks returns a copy of the collection.
func (s *Store) Tasks() []*task.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneAll(s.tasks)
}

func (s *Store) Get(id task.ID) (*task.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 {
		return s.tasks[i].Clone(), true
	}
	return nil, false
}

func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading > 0
}

// Err returns the last recorded error message, or "" when none.
func (s *Store) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *Store) List(ctx context.Context, f task.Filter) error {
	gen := s.beginReplace()
	page, err := s.api.ListTasks(ctx, f)
	return s.endReplace(ctx, "list", gen, page, err)
}

func (s *Store) Search(ctx context.Context, keyword string) error {
	gen := s.beginReplace()
	page, err := s.api.SearchTasks(ctx, keyword)
	return s.endReplace(ctx, "search", gen, page, err)
}

// Create inserts draft under a temporary id, then swaps in the server's record.
func (s *Store) Create(ctx context.Context, draft *task.Task) (*task.Task, error) {
	placeholder := draft.Clone()
	placeholder.ID = s.newTempID()

	s.mu.Lock()
	s.begin()
	s.tasks = append(s.tasks, placeholder)
	s.mu.Unlock()

	created, err := s.api.CreateTask(ctx, draft)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading--
	tempIdx := s.indexOf(placeholder.ID)
	if err != nil {
		if tempIdx >= 0 {
			s.tasks = slices.Delete(s.tasks, tempIdx, tempIdx+1)
		}
		s.fail(ctx, "create", err)
		return nil, err
	}

	created = created.Clone()
	existing := s.indexOf(created.ID)
	switch {
	case existing >= 0:
		// A concurrent List already brought in the server record.
		s.tasks[existing] = created
		if tempIdx >= 0 {
			s.tasks = slices.Delete(s.tasks, tempIdx, tempIdx+1)
		}
	case tempIdx >= 0:
		s.tasks[tempIdx] = created
	default:
		s.tasks = append(s.tasks, created)
	}
	return created.Clone(), nil
}

// Update merges p into the local record immediately and restores the
// previous record if the server rejects the change.
func (s *Store) Update(ctx context.Context, id task.ID, p *task.Patch) (*task.Task, error) {
	s.mu.Lock()
	s.begin()
	var prev, optimistic *task.Task
	if i := s.indexOf(id); i >= 0 {
		prev = s.tasks[i]
		optimistic = p.Apply(prev)
		s.tasks[i] = optimistic
	}
	s.mu.Unlock()

	updated, err := s.api.UpdateTask(ctx, id, p)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading--
	i := s.indexOf(id)
	if err != nil {
		// Only roll back if nothing replaced the optimistic record meanwhile.
		if i >= 0 && optimistic != nil && s.tasks[i] == optimistic {
			s.tasks[i] = prev
		}
		s.fail(ctx, "update", err)
		return nil, err
	}

	updated = updated.Clone()
	if i >= 0 {
		if updated.ID == "" {
			updated.ID = id
		}
		s.tasks[i] = updated
	}
	return updated.Clone(), nil
}

// UpdateStatus changes a task's status on the server only. Callers refetch
// to see the change.
func (s *Store) UpdateStatus(ctx context.Context, id task.ID, status task.Status) (string, error) {
	s.mu.Lock()
	s.begin()
	s.mu.Unlock()

	text, err := s.api.UpdateTaskStatus(ctx, id, status)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading--
	if err != nil {
		var re *apiclient.ResponseError
		if errors.As(err, &re) {
			err = &apiclient.ResponseError{
				StatusCode: re.StatusCode,
				Body:       re.Body,
				Message:    statusUpdateFailedPrefix + re.Body,
			}
		}
		s.fail(ctx, "update status", err)
		return "", err
	}
	return text, nil
}

// Delete removes the local record once the server confirms.
func (s *Store) Delete(ctx context.Context, id task.ID) error {
	s.mu.Lock()
	s.begin()
	s.mu.Unlock()

	err := s.api.DeleteTask(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading--
	if err != nil {
		s.fail(ctx, "delete", err)
		return err
	}
	if i := s.indexOf(id); i >= 0 {
		s.tasks = slices.Delete(s.tasks, i, i+1)
	}
	return nil
}

// Stats fetches the server's counters. The collection is left untouched.
func (s *Store) Stats(ctx context.Context) (*task.Stats, error) {
	s.mu.Lock()
	s.begin()
	s.mu.Unlock()

	stats, err := s.api.GetTaskStats(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading--
	if err != nil {
		s.fail(ctx, "stats", err)
		return nil, err
	}
	return stats, nil
}

// begin must be called with s.mu held.
func (s *Store) begin() {
	s.loading++
	s.err = ""
}

func (s *Store) beginReplace() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.begin()
	s.generation++
	return s.generation
}

func (s *Store) endReplace(ctx context.Context, op string, gen uint64, page *task.Page[*task.Task], err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading--
	if gen != s.generation {
		slog.DebugContext(ctx, "discarding stale response", "op", op, "generation", gen, "current", s.generation)
		return err
	}
	if err != nil {
		s.fail(ctx, op, err)
		return err
	}
	if page == nil {
		s.tasks = []*task.Task{}
		return nil
	}
	s.tasks = dedupe(cloneAll(page.Content))
	return nil
}

// fail must be called with s.mu held.
func (s *Store) fail(ctx context.Context, op string, err error) {
	s.err = err.Error()
	slog.DebugContext(ctx, fmt.Sprintf("%s failed", op), "error", err)
}

func (s *Store) indexOf(id task.ID) int {
	return slices.IndexFunc(s.tasks, func(t *task.Task) bool {
		return t.ID == id
	})
}

func cloneAll(tasks []*task.Task) []*task.Task {
	out := make([]*task.Task, 0, len(tasks))
	for _, t := range tasks {
		if t != nil {
			out = append(out, t.Clone())
		}
	}
	return out
}

// dedupe keeps the first record for each id.
func dedupe(tasks []*task.Task) []*task.Task {
	seen := make(map[task.ID]struct{}, len(tasks))
	return slices.DeleteFunc(tasks, func(t *task.Task) bool {
		if _, ok := seen[t.ID]; ok {
			return true
		}
		seen[t.ID] = struct{}{}
		return false
	})
}
