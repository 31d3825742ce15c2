package task

import (
	"slices"
	"strings"
)

type Column struct {
	Status Status
	Tasks  []*Task
}

// Board groups tasks into one column per status, keeping collection order.
type Board struct {
	Columns []Column
}

func NewBoard(tasks []*Task) Board {
	b := Board{Columns: make([]Column, len(Statuses))}
	for i, st := range Statuses {
		b.Columns[i] = Column{Status: st, Tasks: []*Task{}}
	}
	for _, t := range tasks {
		i := slices.Index(Statuses, t.Status)
		if i < 0 {
			continue
		}
		b.Columns[i].Tasks = append(b.Columns[i].Tasks, t)
	}
	return b
}

func (b Board) Column(st Status) []*Task {
	for _, c := range b.Columns {
		if c.Status == st {
			return c.Tasks
		}
	}
	return nil
}

// ParseTags splits comma-separated text, trimming each tag and dropping blanks.
func ParseTags(s string) []string {
	tags := []string{}
	for tag := range strings.SplitSeq(s, ",") {
		tag = strings.TrimSpace(tag)
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

func FormatTags(tags []string) string {
	return strings.Join(tags, ", ")
}
