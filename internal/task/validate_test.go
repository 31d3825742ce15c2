package task

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTask() *Task {
	return &Task{Title: "Write report", Status: StatusTodo, Priority: PriorityMedium}
}

func fields(t *testing.T, err error) map[string]string {
	t.Helper()
	var verr *ValidationError
	require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
	return verr.Fields
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate(validTask()))

	tk := validTask()
	tk.Title = "   "
	assert.Equal(t, "Title is required", fields(t, Validate(tk))["title"])

	tk = validTask()
	tk.Title = strings.Repeat("a", 101)
	tk.Description = strings.Repeat("b", 501)
	got := fields(t, Validate(tk))
	assert.Equal(t, "Title can't exceed 100 characters", got["title"])
	assert.Equal(t, "Description can't exceed 500 characters", got["description"])

	tk = validTask()
	tk.Status = "CLOSED"
	tk.Priority = ""
	got = fields(t, Validate(tk))
	assert.Equal(t, "Status must be one of TODO, IN_PROGRESS, DONE", got["status"])
	assert.Equal(t, "Priority is required", got["priority"])

	tk = validTask()
	neg := -1
	tk.EstimatedHours = &neg
	tk.ActualHours = &neg
	got = fields(t, Validate(tk))
	assert.Equal(t, "Estimated hours must be ≥ 0", got["estimatedHours"])
	assert.Equal(t, "Actual hours must be ≥ 0", got["actualHours"])
}

func TestValidateDraft_DueDate(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	tk := validTask()
	past := now.Add(-time.Hour)
	tk.DueDate = &past
	err := ValidateDraft(tk, now)
	assert.Equal(t, "Due date must be in the future", fields(t, err)["dueDate"])
	assert.EqualError(t, err, "Due date must be in the future")

	future := now.Add(time.Hour)
	tk.DueDate = &future
	assert.NoError(t, ValidateDraft(tk, now))

	assert.NoError(t, Validate(&Task{Title: "t", Status: StatusDone, Priority: PriorityLow, DueDate: &past}))
}

func TestValidatePatch(t *testing.T) {
	now := time.Now()
	assert.NoError(t, ValidatePatch(&Patch{}, now))

	blank := " "
	bad := Status("NOPE")
	err := ValidatePatch(&Patch{Title: &blank, Status: &bad}, now)
	got := fields(t, err)
	assert.Equal(t, "Title is required", got["title"])
	assert.Contains(t, got["status"], "Status must be one of")
	assert.EqualError(t, err, got["status"]+"; Title is required")
}
