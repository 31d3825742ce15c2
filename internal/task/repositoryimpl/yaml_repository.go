package repositoryimpl

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kazz187/taskboard/internal/task"
	"github.com/kazz187/taskboard/pkg/cerr"
	"github.com/kazz187/taskboard/pkg/storage"
)

const tasksPrefix = "tasks"

type YAMLRepository struct {
	storage storage.Storage
}

func NewYAMLRepository(s storage.Storage) *YAMLRepository {
	return &YAMLRepository{storage: s}
}

func path(id task.ID) string {
	return fmt.Sprintf("%s/%s.yaml", tasksPrefix, id)
}

func target(id task.ID) string {
	return fmt.Sprintf("task %s", id)
}

func (r *YAMLRepository) Create(ctx context.Context, t *task.Task) error {
	exists, err := r.storage.Exists(ctx, path(t.ID))
	if err != nil {
		return cerr.WrapStorageError(cerr.StorageWrite, target(t.ID), err)
	}
	if exists {
		return cerr.NewError(cerr.AlreadyExists, fmt.Sprintf("task %s already exists", t.ID), nil)
	}
	return r.write(ctx, t)
}

func (r *YAMLRepository) Get(ctx context.Context, id task.ID) (*task.Task, error) {
	data, err := r.storage.Read(ctx, path(id))
	if err != nil {
		return nil, cerr.WrapStorageError(cerr.StorageRead, target(id), err)
	}
	var t task.Task
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, cerr.NewError(cerr.Internal, "server error", fmt.Errorf("failed to unmarshal task %s: %w", id, err))
	}
	return &t, nil
}

func (r *YAMLRepository) List(ctx context.Context, q task.Query) ([]*task.Task, int, error) {
	if q.Offset < 0 || q.Limit < 0 {
		return nil, 0, cerr.NewError(cerr.InvalidArgument, fmt.Sprintf("invalid range offset=%d limit=%d", q.Offset, q.Limit), nil)
	}
	paths, err := r.storage.List(ctx, tasksPrefix)
	if err != nil {
		return nil, 0, cerr.WrapStorageError(cerr.StorageList, "tasks", err)
	}

	keyword := strings.ToLower(q.Keyword)
	var all []*task.Task
	for _, p := range paths {
		if !strings.HasSuffix(p, ".yaml") {
			continue
		}
		data, err := r.storage.Read(ctx, p)
		if err != nil {
			slog.WarnContext(ctx, "skipping unreadable task", "path", p, "error", err)
			continue
		}
		var t task.Task
		if err := yaml.Unmarshal(data, &t); err != nil {
			slog.WarnContext(ctx, "skipping malformed task", "path", p, "error", err)
			continue
		}
		if q.Status != "" && t.Status != q.Status {
			continue
		}
		if q.Priority != "" && t.Priority != q.Priority {
			continue
		}
		if keyword != "" &&
			!strings.Contains(strings.ToLower(t.Title), keyword) &&
			!strings.Contains(strings.ToLower(t.Description), keyword) {
			continue
		}
		all = append(all, &t)
	}
	slices.SortFunc(all, func(a, b *task.Task) int {
		return CompareID(a.ID, b.ID)
	})

	total := len(all)
	if q.Offset >= total {
		return nil, total, nil
	}
	all = all[q.Offset:]
	if q.Limit > 0 && len(all) > q.Limit {
		all = all[:q.Limit]
	}
	return all, total, nil
}

func (r *YAMLRepository) Update(ctx context.Context, t *task.Task) error {
	exists, err := r.storage.Exists(ctx, path(t.ID))
	if err != nil {
		return cerr.WrapStorageError(cerr.StorageWrite, target(t.ID), err)
	}
	if !exists {
		return cerr.NewError(cerr.NotFound, fmt.Sprintf("task %s not found", t.ID), nil)
	}
	return r.write(ctx, t)
}

func (r *YAMLRepository) Delete(ctx context.Context, id task.ID) error {
	if err := r.storage.Delete(ctx, path(id)); err != nil {
		return cerr.WrapStorageError(cerr.StorageDelete, target(id), err)
	}
	return nil
}

func (r *YAMLRepository) write(ctx context.Context, t *task.Task) error {
	data, err := yaml.Marshal(t)
	if err != nil {
		return cerr.NewError(cerr.Internal, "server error", fmt.Errorf("failed to marshal task %s: %w", t.ID, err))
	}
	if err := r.storage.Write(ctx, path(t.ID), data); err != nil {
		return cerr.WrapStorageError(cerr.StorageWrite, target(t.ID), err)
	}
	return nil
}

// CompareID orders numeric ids numerically and places them before any
// non-numeric ids, which are ordered lexically.
func CompareID(a, b task.ID) int {
	na, errA := strconv.ParseInt(string(a), 10, 64)
	nb, errB := strconv.ParseInt(string(b), 10, 64)
	switch {
	case errA == nil && errB == nil:
		return cmp.Compare(na, nb)
	case errA == nil:
		return -1
	case errB == nil:
		return 1
	default:
		return cmp.Compare(a, b)
	}
}
