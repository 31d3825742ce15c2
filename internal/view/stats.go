package view

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"

	"github.com/kazz187/taskboard/internal/task"
)

var statCardStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	Padding(0, 2).
	Align(lipgloss.Center).
	Width(16)

func (r *Renderer) Stats(s task.Stats) error {
	if ok, err := r.dump(s); ok {
		return err
	}
	cards := []struct {
		label string
		value int64
	}{
		{"Total Tasks", s.Total},
		{"To Do", s.Pending},
		{"In Progress", s.InProgress},
		{"Completed", s.Completed},
	}
	rendered := make([]string, len(cards))
	for i, c := range cards {
		rendered[i] = statCardStyle.Render(c.label + "\n" + strconv.FormatInt(c.value, 10))
	}
	return r.println(lipgloss.JoinHorizontal(lipgloss.Top, rendered...))
}
