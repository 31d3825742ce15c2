package panicerr

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSafe(t *testing.T) {
	assert.NoError(t, Safe("ok", func() error { return nil })())

	want := errors.New("failed")
	assert.ErrorIs(t, Safe("err", func() error { return want })(), want)

	err := Safe("worker", func() error { panic("boom") })()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "worker: ")
	assert.Contains(t, err.Error(), "boom")
}

func TestSafeContext(t *testing.T) {
	type key struct{}
	ctx := context.WithValue(context.Background(), key{}, "v")

	err := SafeContext("ctx", func(ctx context.Context) error {
		assert.Equal(t, "v", ctx.Value(key{}))
		return nil
	})(ctx)
	assert.NoError(t, err)

	err = SafeContext("ctx", func(context.Context) error {
		var m map[string]int
		m["x"] = 1
		return nil
	})(ctx)
	assert.Error(t, err)
}
