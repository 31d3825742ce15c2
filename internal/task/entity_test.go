package task

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestID_JSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want ID
	}{
		{"number", `42`, "42"},
		{"string", `"42"`, "42"},
		{"uuid", `"3f1c-a"`, "3f1c-a"},
		{"null", `null`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var id ID
			require.NoError(t, json.Unmarshal([]byte(tt.in), &id))
			assert.Equal(t, tt.want, id)
		})
	}

	var id ID
	assert.Error(t, json.Unmarshal([]byte(`{}`), &id))

	out, err := json.Marshal(struct {
		A ID `json:"a"`
		B ID `json:"b"`
	}{A: "42", B: "temp-01J"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":42,"b":"temp-01J"}`, string(out))
}

func TestID_JSONKeepsLeadingZeros(t *testing.T) {
	var tk Task
	require.NoError(t, json.Unmarshal([]byte(`{"id":"007","title":"Bond"}`), &tk))
	assert.Equal(t, ID("007"), tk.ID)

	out, err := json.Marshal(&tk)
	require.NoError(t, err)
	var back Task
	require.NoError(t, json.Unmarshal(out, &back))
	assert.Equal(t, ID("007"), back.ID)

	for in, want := range map[ID]string{"0": `0`, "007": `"007"`, "10": `10`} {
		out, err := json.Marshal(in)
		require.NoError(t, err)
		assert.Equal(t, want, string(out), "id %q", in)
	}
}

func TestID_IsTemp(t *testing.T) {
	assert.True(t, ID("temp-01HZY").IsTemp())
	assert.False(t, ID("42").IsTemp())
	assert.True(t, ID("42").IsNumeric())
	assert.False(t, ID("").IsNumeric())
	assert.False(t, ID("4a").IsNumeric())
}

func TestParseEnums(t *testing.T) {
	st, err := ParseStatus("in-progress")
	require.NoError(t, err)
	assert.Equal(t, StatusInProgress, st)

	st, err = ParseStatus(" done ")
	require.NoError(t, err)
	assert.Equal(t, StatusDone, st)

	_, err = ParseStatus("closed")
	assert.EqualError(t, err, `unknown status "closed"`)

	p, err := ParsePriority("urgent")
	require.NoError(t, err)
	assert.Equal(t, PriorityUrgent, p)

	_, err = ParsePriority("ALL")
	assert.Error(t, err)

	assert.Equal(t, "In Progress", StatusInProgress.Label())
}

func TestTask_JSON(t *testing.T) {
	var got Task
	body := `{"id":7,"title":"Write report","status":"TODO","priority":"HIGH","tags":["docs"],"estimatedHours":3,"dueDate":"2030-01-02T03:04:05Z"}`
	require.NoError(t, json.Unmarshal([]byte(body), &got))

	assert.Equal(t, ID("7"), got.ID)
	assert.Equal(t, []string{"docs"}, got.Tags)
	require.NotNil(t, got.EstimatedHours)
	assert.Equal(t, 3, *got.EstimatedHours)
	assert.Nil(t, got.ActualHours)
	assert.Equal(t, time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC), *got.DueDate)

	out, err := json.Marshal(&Task{Title: "x", Status: StatusTodo, Priority: PriorityLow})
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"x","status":"TODO","priority":"LOW"}`, string(out))
}

func TestTask_Clone(t *testing.T) {
	hours := 2
	due := time.Now()
	orig := &Task{ID: "1", Title: "a", Tags: []string{"x"}, EstimatedHours: &hours, DueDate: &due}
	c := orig.Clone()
	c.Tags[0] = "y"
	*c.EstimatedHours = 5
	*c.DueDate = due.Add(time.Hour)

	assert.Equal(t, "x", orig.Tags[0])
	assert.Equal(t, 2, *orig.EstimatedHours)
	assert.Equal(t, due, *orig.DueDate)
	assert.Nil(t, (*Task)(nil).Clone())
}

func TestPatch_Apply(t *testing.T) {
	orig := &Task{ID: "1", Title: "old", Description: "keep", Status: StatusTodo, Priority: PriorityLow, Tags: []string{"a"}}
	title := "new"
	status := StatusDone
	p := &Patch{Title: &title, Status: &status, Tags: []string{}}

	got := p.Apply(orig)
	assert.Equal(t, "new", got.Title)
	assert.Equal(t, "keep", got.Description)
	assert.Equal(t, StatusDone, got.Status)
	assert.Equal(t, PriorityLow, got.Priority)
	assert.Empty(t, got.Tags)

	assert.Equal(t, "old", orig.Title)
	assert.Equal(t, []string{"a"}, orig.Tags)

	assert.False(t, p.IsEmpty())
	assert.True(t, (&Patch{}).IsEmpty())
}

func TestPatch_JSONOmitsAbsentFields(t *testing.T) {
	title := "t"
	out, err := json.Marshal(&Patch{Title: &title})
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"t"}`, string(out))

	out, err = json.Marshal(&Patch{Tags: []string{}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"tags":[]}`, string(out))
}

func TestSummarize(t *testing.T) {
	tasks := []*Task{
		{Status: StatusTodo},
		{Status: StatusTodo},
		{Status: StatusInProgress},
		{Status: StatusDone},
	}
	assert.Equal(t, Stats{Total: 4, Pending: 2, InProgress: 1, Completed: 1}, Summarize(tasks))
	assert.Equal(t, Stats{}, Summarize(nil))
}

func TestNewPage(t *testing.T) {
	p := NewPage[*Task](nil, 0, 0, 100)
	assert.NotNil(t, p.Content)
	assert.Equal(t, 0, p.TotalPages)

	q := NewPage([]int{1, 2}, 5, 1, 2)
	assert.Equal(t, 3, q.TotalPages)
	assert.Equal(t, 1, q.Number)

	out, err := json.Marshal(NewPage[int](nil, 0, 0, 10))
	require.NoError(t, err)
	assert.JSONEq(t, `{"content":[],"totalElements":0,"totalPages":0,"number":0,"size":10}`, string(out))
}
