package task

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilter_Values(t *testing.T) {
	v, err := Filter{}.Values()
	require.NoError(t, err)
	assert.Empty(t, v.Encode())

	v, err = Filter{Status: StatusTodo, Priority: PriorityHigh, Page: 2, Size: 10}.Values()
	require.NoError(t, err)
	assert.Equal(t, "page=2&priority=HIGH&size=10&status=TODO", v.Encode())

	v, err = SearchQuery{Keyword: "write report"}.Values()
	require.NoError(t, err)
	assert.Equal(t, "keyword=write+report", v.Encode())
}

func TestParseFilter(t *testing.T) {
	f, err := ParseFilter(url.Values{"status": {"in_progress"}, "page": {"1"}, "size": {"5"}, "other": {"x"}})
	require.NoError(t, err)
	assert.Equal(t, Filter{Status: StatusInProgress, Page: 1, Size: 5}, f)

	_, err = ParseFilter(url.Values{"priority": {"meh"}})
	assert.Error(t, err)
	_, err = ParseFilter(url.Values{"size": {"-1"}})
	assert.EqualError(t, err, `invalid size "-1"`)
	_, err = ParseFilter(url.Values{"size": {"1001"}})
	assert.EqualError(t, err, "size 1001 exceeds 1000")
	_, err = ParseFilter(url.Values{"page": {"92233720368547758"}, "size": {"101"}})
	assert.EqualError(t, err, "page 92233720368547758 exceeds 2147483647")

	f, err = ParseFilter(url.Values{"page": {"2147483647"}, "size": {"1000"}})
	require.NoError(t, err)
	assert.Equal(t, Filter{Page: 2147483647, Size: MaxPageSize}, f)
}

func TestSelector(t *testing.T) {
	tasks := []*Task{
		{ID: "1", Title: "Write report", Status: StatusInProgress, Priority: PriorityHigh},
		{ID: "2", Title: "Review", Description: "check the REPORT", Status: StatusTodo, Priority: PriorityLow},
		{ID: "3", Title: "Ship", Status: StatusInProgress, Priority: PriorityLow},
	}

	got := Selector{Status: StatusInProgress, Priority: All}.Apply(tasks)
	require.Len(t, got, 2)
	assert.Equal(t, ID("1"), got[0].ID)
	assert.Equal(t, ID("3"), got[1].ID)

	got = Selector{Search: "report", Status: All, Priority: All}.Apply(tasks)
	assert.Len(t, got, 2)

	got = Selector{Search: "report", Priority: PriorityLow}.Apply(tasks)
	require.Len(t, got, 1)
	assert.Equal(t, ID("2"), got[0].ID)

	assert.Len(t, Selector{}.Apply(tasks), 3)
}
