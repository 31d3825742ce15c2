package cerr

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kazz187/taskboard/pkg/storage"
)

func TestCode(t *testing.T) {
	assert.Equal(t, "NotFound", NotFound.String())
	assert.Equal(t, "Code(99)", Code(99).String())
	assert.Equal(t, http.StatusNotFound, NotFound.HTTPCode())
	assert.Equal(t, http.StatusBadRequest, InvalidArgument.HTTPCode())
	assert.Equal(t, http.StatusConflict, AlreadyExists.HTTPCode())
	assert.Equal(t, http.StatusInternalServerError, Code(99).HTTPCode())
}

func TestNewError(t *testing.T) {
	cause := errors.New("disk full")
	err := NewError(Internal, "server error", cause)
	assert.NotEmpty(t, err.Stack)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "[Internal] server error: disk full", err.Error())

	notFound := NewError(NotFound, "task 3 not found", nil)
	assert.Empty(t, notFound.Stack)
	assert.Equal(t, "[NotFound] task 3 not found", notFound.Error())

	wrapped := fmt.Errorf("get: %w", notFound)
	assert.True(t, IsCode(wrapped, NotFound))
	assert.False(t, IsCode(wrapped, Internal))
	assert.False(t, IsCode(cause, NotFound))
}

func serve(h http.HandlerFunc) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	NewResponseChiMiddleware()(h).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	return rec
}

func TestMiddleware_JSON(t *testing.T) {
	rec := serve(func(w http.ResponseWriter, r *http.Request) {
		SetJSONResponseWithStatus(r.Context(), http.StatusCreated, map[string]int{"id": 1})
	})
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"id":1}`, rec.Body.String())
}

func TestMiddleware_Text(t *testing.T) {
	rec := serve(func(w http.ResponseWriter, r *http.Request) {
		SetTextResponse(r.Context(), "Task 1 status updated to DONE")
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "Task 1 status updated to DONE", rec.Body.String())
}

func TestMiddleware_NoContent(t *testing.T) {
	rec := serve(func(w http.ResponseWriter, r *http.Request) {
		SetNoContent(r.Context())
	})
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestMiddleware_Error(t *testing.T) {
	rec := serve(func(w http.ResponseWriter, r *http.Request) {
		SetNewJSONError(r.Context(), NotFound, "Task 9 not found", nil)
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "NotFound", rec.Header().Get("X-Error-Code"))
	assert.Equal(t, "Task 9 not found", rec.Body.String())
}

func TestMiddleware_UnknownError(t *testing.T) {
	rec := serve(func(w http.ResponseWriter, r *http.Request) {
		SetJSONError(r.Context(), errors.New("raw"))
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "unknown error", rec.Body.String())
}

func TestSetOutsideMiddleware(t *testing.T) {
	ctx := context.Background()
	require.NotPanics(t, func() {
		SetJSONResponse(ctx, "x")
		SetJSONError(ctx, errors.New("x"))
		SetNoContent(ctx)
	})
}

func TestWrapStorageError(t *testing.T) {
	missing := fmt.Errorf("read: %w", storage.ErrNotFound)
	tests := []struct {
		name    string
		op      StorageOp
		err     error
		code    Code
		message string
	}{
		{"read missing", StorageRead, missing, NotFound, "task 4 not found"},
		{"delete missing", StorageDelete, storage.ErrNotFound, NotFound, "task 4 not found"},
		{"read failure", StorageRead, errors.New("io"), Internal, "could not read task 4"},
		{"write missing", StorageWrite, missing, Internal, "could not write task 4"},
		{"list failure", StorageList, errors.New("io"), Internal, "could not list task 4"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := WrapStorageError(tt.op, "task 4", tt.err)
			var ce *Error
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, tt.code, ce.Code)
			assert.Equal(t, tt.message, ce.Msg)
			assert.ErrorIs(t, err, tt.err)
		})
	}

	assert.NoError(t, WrapStorageError(StorageRead, "task 4", nil))
}
