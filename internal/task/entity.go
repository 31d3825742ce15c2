package task

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"
)

// ID identifies a task. Servers may send it as a JSON number or string.
type ID string

const TempIDPrefix = "temp-"

func (id ID) String() string {
	return string(id)
}

// IsTemp reports whether id is a client-side placeholder that the server has
// not yet replaced.
func (id ID) IsTemp() bool {
	return strings.HasPrefix(string(id), TempIDPrefix)
}

// IsNumeric reports whether id is a non-empty run of decimal digits.
func (id ID) IsNumeric() bool {
	if id == "" {
		return false
	}
	for _, r := range id {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// MarshalJSON writes canonical integers as JSON numbers and everything else,
// including digit strings with leading zeros, as strings.
func (id ID) MarshalJSON() ([]byte, error) {
	if id.IsNumeric() && (id == "0" || id[0] != '0') {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("invalid task id: %w", err)
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid task id %s: %w", data, err)
	}
	*id = ID(n.String())
	return nil
}

type Status string

const (
	StatusTodo       Status = "TODO"
	StatusInProgress Status = "IN_PROGRESS"
	StatusDone       Status = "DONE"
)

var Statuses = []Status{StatusTodo, StatusInProgress, StatusDone}

func (s Status) Label() string {
	switch s {
	case StatusTodo:
		return "To Do"
	case StatusInProgress:
		return "In Progress"
	case StatusDone:
		return "Done"
	default:
		return string(s)
	}
}

// ParseStatus accepts any case and "-" or " " as word separators.
func ParseStatus(s string) (Status, error) {
	st := Status(normalizeEnum(s))
	if !slices.Contains(Statuses, st) {
		return "", fmt.Errorf("unknown status %q", s)
	}
	return st, nil
}

type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
	PriorityUrgent Priority = "URGENT"
)

var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}

func ParsePriority(s string) (Priority, error) {
	p := Priority(normalizeEnum(s))
	if !slices.Contains(Priorities, p) {
		return "", fmt.Errorf("unknown priority %q", s)
	}
	return p, nil
}

func normalizeEnum(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	return strings.NewReplacer("-", "_", " ", "_").Replace(s)
}

type Task struct {
	ID             ID         `json:"id,omitempty" yaml:"id"`
	Title          string     `json:"title" yaml:"title" validate:"required,max=100"`
	Description    string     `json:"description,omitempty" yaml:"description,omitempty" validate:"max=500"`
	Status         Status     `json:"status" yaml:"status" validate:"required,oneof=TODO IN_PROGRESS DONE"`
	Priority       Priority   `json:"priority" yaml:"priority" validate:"required,oneof=LOW MEDIUM HIGH URGENT"`
	DueDate        *time.Time `json:"dueDate,omitempty" yaml:"due_date,omitempty"`
	Tags           []string   `json:"tags,omitempty" yaml:"tags,omitempty"`
	EstimatedHours *int       `json:"estimatedHours,omitempty" yaml:"estimated_hours,omitempty" validate:"omitnil,min=0"`
	ActualHours    *int       `json:"actualHours,omitempty" yaml:"actual_hours,omitempty" validate:"omitnil,min=0"`
	CreatedAt      time.Time  `json:"createdAt,omitzero" yaml:"created_at"`
	UpdatedAt      time.Time  `json:"updatedAt,omitzero" yaml:"updated_at"`
}

// Clone returns a deep copy of t.
func (t *Task) Clone() *Task {
	if t == nil {
		return nil
	}
	c := *t
	c.Tags = slices.Clone(t.Tags)
	if t.DueDate != nil {
		d := *t.DueDate
		c.DueDate = &d
	}
	c.EstimatedHours = clonePtr(t.EstimatedHours)
	c.ActualHours = clonePtr(t.ActualHours)
	return &c
}

func (t *Task) IsOverdue(now time.Time) bool {
	return t.DueDate != nil && t.DueDate.Before(now)
}

// ApplyDefaults fills the status and priority a new task starts with.
func (t *Task) ApplyDefaults() {
	if t.Status == "" {
		t.Status = StatusTodo
	}
	if t.Priority == "" {
		t.Priority = PriorityMedium
	}
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Patch is a partial update. Nil fields are left untouched.
type Patch struct {
	Title          *string    `json:"title,omitempty" validate:"omitnil,min=1,max=100"`
	Description    *string    `json:"description,omitempty" validate:"omitnil,max=500"`
	Status         *Status    `json:"status,omitempty" validate:"omitnil,oneof=TODO IN_PROGRESS DONE"`
	Priority       *Priority  `json:"priority,omitempty" validate:"omitnil,oneof=LOW MEDIUM HIGH URGENT"`
	DueDate        *time.Time `json:"dueDate,omitempty"`
	Tags           []string   `json:"tags,omitzero"`
	EstimatedHours *int       `json:"estimatedHours,omitempty" validate:"omitnil,min=0"`
	ActualHours    *int       `json:"actualHours,omitempty" validate:"omitnil,min=0"`
}

func (p *Patch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Status == nil && p.Priority == nil &&
		p.DueDate == nil && p.Tags == nil && p.EstimatedHours == nil && p.ActualHours == nil
}

// Apply returns a copy of t with the present fields of p merged in.
func (p *Patch) Apply(t *Task) *Task {
	out := t.Clone()
	if p.Title != nil {
		out.Title = *p.Title
	}
	if p.Description != nil {
		out.Description = *p.Description
	}
	if p.Status != nil {
		out.Status = *p.Status
	}
	if p.Priority != nil {
		out.Priority = *p.Priority
	}
	if p.DueDate != nil {
		d := *p.DueDate
		out.DueDate = &d
	}
	if p.Tags != nil {
		out.Tags = slices.Clone(p.Tags)
	}
	if p.EstimatedHours != nil {
		out.EstimatedHours = clonePtr(p.EstimatedHours)
	}
	if p.ActualHours != nil {
		out.ActualHours = clonePtr(p.ActualHours)
	}
	return out
}

type Stats struct {
	Total      int64 `json:"total"`
	Pending    int64 `json:"pending"`
	InProgress int64 `json:"inProgress"`
	Completed  int64 `json:"completed"`
}

func Summarize(tasks []*Task) Stats {
	stats := Stats{Total: int64(len(tasks))}
	for _, t := range tasks {
		switch t.Status {
		case StatusTodo:
			stats.Pending++
		case StatusInProgress:
			stats.InProgress++
		case StatusDone:
			stats.Completed++
		}
	}
	return stats
}

// Page is the paginated envelope returned by list and search.
type Page[T any] struct {
	Content       []T   `json:"content"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	Number        int   `json:"number"`
	Size          int   `json:"size"`
}

func NewPage[T any](content []T, total int64, number, size int) Page[T] {
	if content == nil {
		content = []T{}
	}
	pages := 0
	if size > 0 {
		pages = int((total + int64(size) - 1) / int64(size))
	}
	return Page[T]{
		Content:       content,
		TotalElements: total,
		TotalPages:    pages,
		Number:        number,
		Size:          size,
	}
}
