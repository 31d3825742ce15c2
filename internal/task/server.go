package task

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kazz187/taskboard/pkg/cerr"
	"github.com/kazz187/taskboard/pkg/clog"
)

const defaultPageSize = 100

// Server serves the task REST API on top of a Repository.
type Server struct {
	repo Repository
	// mu serializes writes so that id assignment and read-modify-write
	// updates do not interleave.
	mu  sync.Mutex
	now func() time.Time
}

func NewServer(repo Repository) *Server {
	return &Server{
		repo: repo,
		now:  time.Now,
	}
}

// Routes mounts the task endpoints on r, relative to the tasks collection.
func (s *Server) Routes(r chi.Router) {
	r.Get("/", s.ListTasks)
	r.Post("/", s.CreateTask)
	r.Get("/search", s.SearchTasks)
	r.Get("/stats", s.GetTaskStats)
	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", s.GetTask)
		r.Put("/", s.UpdateTask)
		r.Delete("/", s.DeleteTask)
		r.Patch("/{status}", s.UpdateTaskStatus)
	})
}

func (s *Server) ListTasks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	f, err := ParseFilter(r.URL.Query())
	if err != nil {
		cerr.SetNewJSONError(ctx, cerr.InvalidArgument, err.Error(), err)
		return
	}
	size := f.Size
	if size == 0 {
		size = defaultPageSize
	}
	tasks, total, err := s.repo.List(ctx, Query{
		Status:   f.Status,
		Priority: f.Priority,
		Limit:    size,
		Offset:   f.Page * size,
	})
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	cerr.SetJSONResponse(ctx, NewPage(tasks, int64(total), f.Page, size))
}

func (s *Server) SearchTasks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	keyword := r.URL.Query().Get("keyword")
	f, err := ParseFilter(r.URL.Query())
	if err != nil {
		cerr.SetNewJSONError(ctx, cerr.InvalidArgument, err.Error(), err)
		return
	}
	size := f.Size
	if size == 0 {
		size = defaultPageSize
	}
	clog.AddAttribute(ctx, "keyword", keyword)
	tasks, total, err := s.repo.List(ctx, Query{
		Keyword: keyword,
		Limit:   size,
		Offset:  f.Page * size,
	})
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	cerr.SetJSONResponse(ctx, NewPage(tasks, int64(total), f.Page, size))
}

func (s *Server) GetTaskStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tasks, _, err := s.repo.List(ctx, Query{})
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	cerr.SetJSONResponse(ctx, Summarize(tasks))
}

func (s *Server) GetTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := pathID(r)
	if !ok {
		return
	}
	t, err := s.repo.Get(ctx, id)
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	cerr.SetJSONResponse(ctx, t)
}

func (s *Server) CreateTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var t Task
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		cerr.SetNewJSONError(ctx, cerr.InvalidArgument, "invalid request body", err)
		return
	}
	t.ApplyDefaults()
	if err := Validate(&t); err != nil {
		cerr.SetNewJSONError(ctx, cerr.InvalidArgument, err.Error(), err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	id, err := s.nextID(ctx)
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	now := s.now()
	t.ID = id
	t.CreatedAt = now
	t.UpdatedAt = now
	if err := s.repo.Create(ctx, &t); err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	clog.AddAttribute(ctx, "task_id", id.String())
	cerr.SetJSONResponseWithStatus(ctx, http.StatusCreated, &t)
}

func (s *Server) UpdateTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := pathID(r)
	if !ok {
		return
	}
	var p Patch
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		cerr.SetNewJSONError(ctx, cerr.InvalidArgument, "invalid request body", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	updated := p.Apply(current)
	if err := Validate(updated); err != nil {
		cerr.SetNewJSONError(ctx, cerr.InvalidArgument, err.Error(), err)
		return
	}
	updated.ID = id
	updated.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, updated); err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	cerr.SetJSONResponse(ctx, updated)
}

func (s *Server) UpdateTaskStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := pathID(r)
	if !ok {
		return
	}
	status, err := ParseStatus(chi.URLParam(r, "status"))
	if err != nil {
		cerr.SetNewJSONError(ctx, cerr.InvalidArgument, err.Error(), err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	t, err := s.repo.Get(ctx, id)
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	t.Status = status
	t.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, t); err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	cerr.SetTextResponse(ctx, fmt.Sprintf("Task %s status updated to %s", id, status))
}

func (s *Server) DeleteTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := pathID(r)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.repo.Delete(ctx, id); err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	cerr.SetNoContent(ctx)
}

// nextID returns max(existing numeric id)+1. Callers must hold s.mu.
func (s *Server) nextID(ctx context.Context) (ID, error) {
	tasks, _, err := s.repo.List(ctx, Query{})
	if err != nil {
		return "", err
	}
	var maxID int64
	for _, t := range tasks {
		n, err := strconv.ParseInt(string(t.ID), 10, 64)
		if err != nil {
			continue
		}
		maxID = max(maxID, n)
	}
	return ID(strconv.FormatInt(maxID+1, 10)), nil
}

func pathID(r *http.Request) (ID, bool) {
	ctx := r.Context()
	id := ID(chi.URLParam(r, "id"))
	clog.AddAttribute(ctx, "task_id", id.String())
	if !id.IsNumeric() {
		cerr.SetNewJSONError(ctx, cerr.InvalidArgument, fmt.Sprintf("invalid task id %q", id), nil)
		return "", false
	}
	return id, true
}
