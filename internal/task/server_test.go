package task_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kazz187/taskboard/internal/task"
	"github.com/kazz187/taskboard/internal/task/repositoryimpl"
	"github.com/kazz187/taskboard/pkg/cerr"
	"github.com/kazz187/taskboard/pkg/storage"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	st, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	srv := task.NewServer(repositoryimpl.NewYAMLRepository(st))

	r := chi.NewRouter()
	r.Use(cerr.NewResponseChiMiddleware())
	r.Route("/api/tasks", srv.Routes)
	ts := httptest.NewServer(r)
	t.Cleanup(ts.Close)
	return ts
}

func do(t *testing.T, method, url, body string) (*http.Response, string) {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, rd)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(b)
}

func TestServer_CRUD(t *testing.T) {
	ts := newTestServer(t)
	base := ts.URL + "/api/tasks"

	resp, body := do(t, http.MethodPost, base, `{"title":"Write report","status":"TODO","priority":"HIGH"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)
	var created task.Task
	require.NoError(t, json.Unmarshal([]byte(body), &created))
	assert.Equal(t, task.ID("1"), created.ID)
	assert.False(t, created.CreatedAt.IsZero())
	assert.Contains(t, body, `"id":1`)

	resp, body = do(t, http.MethodPost, base, `{"title":"Review"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)
	var second task.Task
	require.NoError(t, json.Unmarshal([]byte(body), &second))
	assert.Equal(t, task.ID("2"), second.ID)
	assert.Equal(t, task.StatusTodo, second.Status)
	assert.Equal(t, task.PriorityMedium, second.Priority)

	resp, body = do(t, http.MethodGet, base+"/1", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Write report")

	resp, body = do(t, http.MethodPut, base+"/1", `{"description":"draft it"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	var updated task.Task
	require.NoError(t, json.Unmarshal([]byte(body), &updated))
	assert.Equal(t, "Write report", updated.Title)
	assert.Equal(t, "draft it", updated.Description)

	resp, body = do(t, http.MethodPatch, base+"/1/DONE", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/plain; charset=utf-8", resp.Header.Get("Content-Type"))
	assert.Equal(t, "Task 1 status updated to DONE", body)

	resp, body = do(t, http.MethodGet, base+"/stats", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"total":2,"pending":1,"inProgress":0,"completed":1}`, body)

	resp, _ = do(t, http.MethodDelete, base+"/1", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, body = do(t, http.MethodGet, base+"/1", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "task 1 not found", body)

	resp, _ = do(t, http.MethodDelete, base+"/1", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body = do(t, http.MethodPost, base, `{"title":"Third"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)
	assert.Contains(t, body, `"id":3`)
}

func TestServer_ListAndSearch(t *testing.T) {
	ts := newTestServer(t)
	base := ts.URL + "/api/tasks"
	for _, b := range []string{
		`{"title":"Write report","status":"IN_PROGRESS","priority":"HIGH"}`,
		`{"title":"Review","description":"read the report","priority":"LOW"}`,
		`{"title":"Ship","priority":"HIGH"}`,
	} {
		resp, body := do(t, http.MethodPost, base, b)
		require.Equal(t, http.StatusCreated, resp.StatusCode, body)
	}

	resp, body := do(t, http.MethodGet, base, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var page task.Page[*task.Task]
	require.NoError(t, json.Unmarshal([]byte(body), &page))
	assert.Len(t, page.Content, 3)
	assert.Equal(t, int64(3), page.TotalElements)
	assert.Equal(t, 100, page.Size)

	resp, body = do(t, http.MethodGet, base+"?priority=HIGH&size=1&page=1", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	page = task.Page[*task.Task]{}
	require.NoError(t, json.Unmarshal([]byte(body), &page))
	require.Len(t, page.Content, 1)
	assert.Equal(t, "Ship", page.Content[0].Title)
	assert.Equal(t, int64(2), page.TotalElements)
	assert.Equal(t, 2, page.TotalPages)

	resp, body = do(t, http.MethodGet, base+"/search?keyword=REPORT", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	page = task.Page[*task.Task]{}
	require.NoError(t, json.Unmarshal([]byte(body), &page))
	assert.Len(t, page.Content, 2)

	resp, body = do(t, http.MethodGet, base+"?status=bogus", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, `unknown status "bogus"`, body)
}

func TestServer_Errors(t *testing.T) {
	ts := newTestServer(t)
	base := ts.URL + "/api/tasks"

	resp, body := do(t, http.MethodPost, base, `{"title":""}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Title is required", body)

	resp, body = do(t, http.MethodPost, base, `{`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "invalid request body", body)

	resp, body = do(t, http.MethodPatch, base+"/7/DONE", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "task 7 not found", body)

	resp, _ = do(t, http.MethodPost, base, `{"title":"a"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body = do(t, http.MethodPatch, base+"/1/CLOSED", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, `unknown status "CLOSED"`, body)

	resp, body = do(t, http.MethodPut, base+"/1", `{"title":"   "}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Title is required", body)

	resp, body = do(t, http.MethodGet, base+"/abc", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, `invalid task id "abc"`, body)

	resp, body = do(t, http.MethodGet, base+"?page=92233720368547758&size=101", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "page 92233720368547758 exceeds 2147483647", body)

	resp, body = do(t, http.MethodGet, base+"/search?keyword=a&size=5000", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "size 5000 exceeds 1000", body)

	resp, body = do(t, http.MethodGet, base+"?page=2147483647&size=1000", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `"content":[]`)
}
