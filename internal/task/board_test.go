package task

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewBoard(t *testing.T) {
	tasks := []*Task{
		{ID: "1", Status: StatusDone},
		{ID: "2", Status: StatusTodo},
		{ID: "3", Status: StatusTodo},
		{ID: "4", Status: "ARCHIVED"},
	}
	b := NewBoard(tasks)

	assert.Len(t, b.Columns, 3)
	assert.Equal(t, StatusTodo, b.Columns[0].Status)
	assert.Equal(t, []*Task{tasks[1], tasks[2]}, b.Column(StatusTodo))
	assert.Empty(t, b.Column(StatusInProgress))
	assert.Equal(t, []*Task{tasks[0]}, b.Column(StatusDone))
	assert.Nil(t, b.Column("ARCHIVED"))
}

func TestIsOverdue(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)

	assert.True(t, (&Task{DueDate: &past}).IsOverdue(now))
	assert.False(t, (&Task{DueDate: &future}).IsOverdue(now))
	assert.False(t, (&Task{}).IsOverdue(now))
}

func TestTags(t *testing.T) {
	assert.Equal(t, []string{"a", "b c", "d"}, ParseTags(" a, b c ,,d "))
	assert.Equal(t, []string{}, ParseTags(""))
	assert.Equal(t, "a, b", FormatTags([]string{"a", "b"}))
}
