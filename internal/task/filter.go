package task

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/go-querystring/query"
)

// MaxPageSize bounds the size query parameter.
const MaxPageSize = 1000

// maxPage keeps page*size within int for any accepted size.
const maxPage = math.MaxInt32

// Filter is the server-side list query.
type Filter struct {
	Status   Status   `url:"status,omitempty"`
	Priority Priority `url:"priority,omitempty"`
	Page     int      `url:"page,omitempty"`
	Size     int      `url:"size,omitempty"`
}

func (f Filter) Values() (url.Values, error) {
	v, err := query.Values(f)
	if err != nil {
		return nil, fmt.Errorf("failed to encode filter: %w", err)
	}
	return v, nil
}

// ParseFilter reads a Filter from query parameters. Unknown keys are ignored.
func ParseFilter(v url.Values) (Filter, error) {
	var f Filter
	var err error
	if s := v.Get("status"); s != "" {
		if f.Status, err = ParseStatus(s); err != nil {
			return Filter{}, err
		}
	}
	if s := v.Get("priority"); s != "" {
		if f.Priority, err = ParsePriority(s); err != nil {
			return Filter{}, err
		}
	}
	if f.Page, err = parseBounded(v, "page", maxPage); err != nil {
		return Filter{}, err
	}
	if f.Size, err = parseBounded(v, "size", MaxPageSize); err != nil {
		return Filter{}, err
	}
	return f, nil
}

func parseBounded(v url.Values, key string, limit int) (int, error) {
	s := v.Get(key)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid %s %q", key, s)
	}
	if n > limit {
		return 0, fmt.Errorf("%s %d exceeds %d", key, n, limit)
	}
	return n, nil
}

type SearchQuery struct {
	Keyword string `url:"keyword"`
}

func (q SearchQuery) Values() (url.Values, error) {
	v, err := query.Values(q)
	if err != nil {
		return nil, fmt.Errorf("failed to encode search query: %w", err)
	}
	return v, nil
}

// All is the wildcard accepted by Selector for status and priority.
const All = "ALL"

// Selector narrows an already fetched collection without a server round trip.
type Selector struct {
	Search   string
	Status   Status
	Priority Priority
}

func (s Selector) Match(t *Task) bool {
	if s.Search != "" {
		needle := strings.ToLower(s.Search)
		if !strings.Contains(strings.ToLower(t.Title), needle) &&
			!strings.Contains(strings.ToLower(t.Description), needle) {
			return false
		}
	}
	if s.Status != "" && s.Status != All && t.Status != s.Status {
		return false
	}
	if s.Priority != "" && s.Priority != All && t.Priority != s.Priority {
		return false
	}
	return true
}

func (s Selector) Apply(tasks []*Task) []*Task {
	out := make([]*Task, 0, len(tasks))
	for _, t := range tasks {
		if s.Match(t) {
			out = append(out, t)
		}
	}
	return out
}
