package view

import (
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	fcolor "github.com/fatih/color"

	"github.com/kazz187/taskboard/internal/task"
)

const (
	dateLayout     = "2006-01-02 15:04"
	descriptionMax = 40
)

var priorityAttrs = map[task.Priority]fcolor.Attribute{
	task.PriorityLow:    fcolor.FgBlue,
	task.PriorityMedium: fcolor.FgGreen,
	task.PriorityHigh:   fcolor.FgYellow,
	task.PriorityUrgent: fcolor.FgRed,
}

var statusAttrs = map[task.Status]fcolor.Attribute{
	task.StatusTodo:       fcolor.FgWhite,
	task.StatusInProgress: fcolor.FgCyan,
	task.StatusDone:       fcolor.FgGreen,
}

// Tasks renders the task list.
func (r *Renderer) Tasks(tasks []*task.Task) error {
	if tasks == nil {
		tasks = []*task.Task{}
	}
	if ok, err := r.dump(tasks); ok {
		return err
	}
	if len(tasks) == 0 {
		return r.println("No tasks found.")
	}

	now := r.now()
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "TITLE", "DESCRIPTION", "DUE DATE", "PRIORITY", "STATUS", "EST", "ACT", "TAGS").
		StyleFunc(func(row, col int) lipgloss.Style {
			s := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow {
				return s.Bold(true)
			}
			return s
		})
	for _, tk := range tasks {
		t.Row(
			tk.ID.String(),
			tk.Title,
			truncate(tk.Description, descriptionMax),
			r.dueDate(tk, now),
			r.priority(tk.Priority),
			r.status(tk.Status),
			hours(tk.EstimatedHours),
			hours(tk.ActualHours),
			r.tags(tk.Tags),
		)
	}
	return r.println(t.Render())
}

func (r *Renderer) priority(p task.Priority) string {
	return r.paint.Paint(string(p), priorityAttrs[p])
}

func (r *Renderer) status(s task.Status) string {
	return r.paint.Paint(string(s), statusAttrs[s])
}

func (r *Renderer) dueDate(t *task.Task, now time.Time) string {
	if t.DueDate == nil {
		return "N/A"
	}
	s := t.DueDate.Local().Format(dateLayout)
	if t.IsOverdue(now) && t.Status != task.StatusDone {
		return r.paint.Paint(s+" !", fcolor.FgRed)
	}
	return s
}

func (r *Renderer) tags(tags []string) string {
	out := ""
	for i, tag := range tags {
		if i > 0 {
			out += ", "
		}
		out += r.paint.Key(tag, tag)
	}
	return out
}

func hours(h *int) string {
	if h == nil {
		return ""
	}
	return strconv.Itoa(*h)
}
