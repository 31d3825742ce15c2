package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/kazz187/taskboard/internal/task"
	"github.com/kazz187/taskboard/pkg/clog"
)

const (
	tasksPath      = "/api/tasks"
	defaultTimeout = 10 * time.Second
)

// Default messages used when a failed response carries no body.
const (
	MsgAPIError     = "API error"
	MsgFetchFailed  = "Failed to fetch tasks"
	MsgCreateFailed = "Failed to create task"
	MsgUpdateFailed = "Failed to update task"
	MsgDeleteFailed = "Failed to delete task"
	MsgSearchFailed = "Failed to search tasks"
)

// ResponseError is returned when the server answers with a non-2xx status.
type ResponseError struct {
	StatusCode int
	// Body is the trimmed response text, possibly empty.
	Body string
	// Message is Body, or the operation's default message when Body is empty.
	Message string
}

func (e *ResponseError) Error() string {
	return e.Message
}

// TaskClient talks to the task REST API.
type TaskClient struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
}

type Option func(*TaskClient)

// WithHTTPClient sends requests through a copy of c.
func WithHTTPClient(c *http.Client) Option {
	return func(tc *TaskClient) {
		if c != nil {
			tc.http = c
		}
	}
}

// WithTimeout sets the per-request timeout regardless of option order. A
// client passed with WithHTTPClient is not modified.
func WithTimeout(d time.Duration) Option {
	return func(tc *TaskClient) {
		tc.timeout = d
	}
}

func NewTaskClient(baseURL string, opts ...Option) *TaskClient {
	c := &TaskClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Transport: clog.NewSlogTransport(nil),
			Timeout:   defaultTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	hc := *c.http
	if c.timeout > 0 {
		hc.Timeout = c.timeout
	}
	c.http = &hc
	return c
}

func (c *TaskClient) ListTasks(ctx context.Context, f task.Filter) (*task.Page[*task.Task], error) {
	q, err := f.Values()
	if err != nil {
		return nil, err
	}
	res, err := c.do(ctx, http.MethodGet, "", q, nil, MsgFetchFailed)
	if err != nil {
		return nil, wrap("list tasks", err)
	}
	var page task.Page[*task.Task]
	if err := res.decode(&page); err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return &page, nil
}

func (c *TaskClient) SearchTasks(ctx context.Context, keyword string) (*task.Page[*task.Task], error) {
	q, err := task.SearchQuery{Keyword: keyword}.Values()
	if err != nil {
		return nil, err
	}
	res, err := c.do(ctx, http.MethodGet, "/search", q, nil, MsgSearchFailed)
	if err != nil {
		return nil, wrap("search tasks", err)
	}
	var page task.Page[*task.Task]
	if err := res.decode(&page); err != nil {
		return nil, fmt.Errorf("failed to search tasks: %w", err)
	}
	return &page, nil
}

// CreateTask posts t without its id and returns the server's record.
func (c *TaskClient) CreateTask(ctx context.Context, t *task.Task) (*task.Task, error) {
	draft := t.Clone()
	draft.ID = ""
	res, err := c.do(ctx, http.MethodPost, "", nil, draft, MsgCreateFailed)
	if err != nil {
		return nil, wrap("create task", err)
	}
	var created task.Task
	if err := res.decode(&created); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return &created, nil
}

func (c *TaskClient) UpdateTask(ctx context.Context, id task.ID, p *task.Patch) (*task.Task, error) {
	res, err := c.do(ctx, http.MethodPut, "/"+url.PathEscape(id.String()), nil, p, MsgUpdateFailed)
	if err != nil {
		return nil, wrap("update task", err)
	}
	var updated task.Task
	if err := res.decode(&updated); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return &updated, nil
}

// UpdateTaskStatus returns the server's confirmation text.
func (c *TaskClient) UpdateTaskStatus(ctx context.Context, id task.ID, status task.Status) (string, error) {
	path := "/" + url.PathEscape(id.String()) + "/" + url.PathEscape(string(status))
	res, err := c.do(ctx, http.MethodPatch, path, nil, nil, MsgAPIError)
	if err != nil {
		return "", wrap("update task status", err)
	}
	return res.text(), nil
}

func (c *TaskClient) DeleteTask(ctx context.Context, id task.ID) error {
	if _, err := c.do(ctx, http.MethodDelete, "/"+url.PathEscape(id.String()), nil, nil, MsgDeleteFailed); err != nil {
		return wrap("delete task", err)
	}
	return nil
}

func (c *TaskClient) GetTaskStats(ctx context.Context) (*task.Stats, error) {
	res, err := c.do(ctx, http.MethodGet, "/stats", nil, nil, MsgAPIError)
	if err != nil {
		return nil, wrap("get task stats", err)
	}
	var stats task.Stats
	if err := res.decode(&stats); err != nil {
		return nil, fmt.Errorf("failed to get task stats: %w", err)
	}
	return &stats, nil
}

// wrap leaves ResponseErrors untouched so their message stays the server text.
func wrap(op string, err error) error {
	var re *ResponseError
	if errors.As(err, &re) {
		return err
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}

type response struct {
	json bool
	body []byte
}

func (r *response) text() string {
	return string(r.body)
}

func (r *response) decode(v any) error {
	if !r.json {
		return fmt.Errorf("unexpected non-JSON response: %q", truncate(r.text(), 80))
	}
	if err := json.Unmarshal(r.body, v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (c *TaskClient) do(ctx context.Context, method, path string, query url.Values, body any, defaultMsg string) (*response, error) {
	u := c.baseURL + tasksPath + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, rd)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json, text/plain")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		text := strings.TrimSpace(string(data))
		msg := text
		if msg == "" {
			msg = defaultMsg
		}
		return nil, &ResponseError{StatusCode: resp.StatusCode, Body: text, Message: msg}
	}
	return &response{json: isJSON(resp.Header.Get("Content-Type")), body: data}, nil
}

func isJSON(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mt == "application/json" || strings.HasSuffix(mt, "+json")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
