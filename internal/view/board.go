package view

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	fcolor "github.com/fatih/color"

	"github.com/kazz187/taskboard/internal/task"
)

const columnWidth = 32

var (
	columnStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1).
			Width(columnWidth)
	columnHeaderStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	cardStyle         = lipgloss.NewStyle().
				Border(lipgloss.NormalBorder(), false, false, true, false).
				Width(columnWidth - 2)
)

// boardDump is the structured form of a board.
type boardDump struct {
	Todo       []*task.Task `json:"TODO" yaml:"TODO"`
	InProgress []*task.Task `json:"IN_PROGRESS" yaml:"IN_PROGRESS"`
	Done       []*task.Task `json:"DONE" yaml:"DONE"`
}

// Board renders the kanban view: one column per status.
func (r *Renderer) Board(b task.Board) error {
	if ok, err := r.dump(boardDump{
		Todo:       b.Column(task.StatusTodo),
		InProgress: b.Column(task.StatusInProgress),
		Done:       b.Column(task.StatusDone),
	}); ok {
		return err
	}

	now := r.now()
	cols := make([]string, 0, len(b.Columns))
	for _, c := range b.Columns {
		var body strings.Builder
		body.WriteString(columnHeaderStyle.Render(fmt.Sprintf("%s (%d)", strings.ReplaceAll(string(c.Status), "_", " "), len(c.Tasks))))
		for _, t := range c.Tasks {
			body.WriteString("\n")
			body.WriteString(cardStyle.Render(r.card(t, now)))
		}
		cols = append(cols, columnStyle.Render(body.String()))
	}
	return r.println(lipgloss.JoinHorizontal(lipgloss.Top, cols...))
}

func (r *Renderer) card(t *task.Task, now time.Time) string {
	lines := []string{fmt.Sprintf("#%s %s", t.ID, t.Title)}
	if t.Description != "" {
		lines = append(lines, truncate(t.Description, 2*columnWidth))
	}
	due := "Due: N/A"
	if t.DueDate != nil {
		due = "Due: " + t.DueDate.Local().Format("2006-01-02")
		if t.IsOverdue(now) {
			due = r.paint.Paint(due+" (overdue)", fcolor.FgRed)
		}
	}
	lines = append(lines, r.priority(t.Priority)+"  "+due)
	if len(t.Tags) > 0 {
		lines = append(lines, r.tags(t.Tags))
	}
	return strings.Join(lines, "\n")
}
