package view

import (
	"fmt"
	"strings"

	"github.com/kazz187/taskboard/internal/task"
)

// Task renders a single task as labelled lines.
func (r *Renderer) Task(t *task.Task) error {
	if ok, err := r.dump(t); ok {
		return err
	}
	now := r.now()
	var b strings.Builder
	line := func(label, value string) {
		fmt.Fprintf(&b, "%-16s %s\n", label+":", value)
	}
	line("ID", t.ID.String())
	line("Title", t.Title)
	if t.Description != "" {
		line("Description", t.Description)
	}
	line("Status", r.status(t.Status))
	line("Priority", r.priority(t.Priority))
	line("Due Date", r.dueDate(t, now))
	if len(t.Tags) > 0 {
		line("Tags", r.tags(t.Tags))
	}
	if t.EstimatedHours != nil {
		line("Estimated Hours", hours(t.EstimatedHours))
	}
	if t.ActualHours != nil {
		line("Actual Hours", hours(t.ActualHours))
	}
	if !t.CreatedAt.IsZero() {
		line("Created", t.CreatedAt.Local().Format(dateLayout))
	}
	if !t.UpdatedAt.IsZero() {
		line("Updated", t.UpdatedAt.Local().Format(dateLayout))
	}
	_, err := fmt.Fprint(r.w, b.String())
	return err
}
