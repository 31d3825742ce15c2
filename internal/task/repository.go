package task

import "context"

// Query selects tasks from a Repository. Zero values match everything.
type Query struct {
	Status   Status
	Priority Priority
	// Keyword matches title or description, case-insensitively.
	Keyword string
	Limit   int
	Offset  int
}

type Repository interface {
	Create(ctx context.Context, t *Task) error
	Get(ctx context.Context, id ID) (*Task, error)
	List(ctx context.Context, q Query) ([]*Task, int, error)
	Update(ctx context.Context, t *Task) error
	Delete(ctx context.Context, id ID) error
}
