package future

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCompleteThenAwait(t *testing.T) {
	f := New[int]()
	require.True(t, f.Complete(5))
	require.False(t, f.Complete(6), "second completion must be a no-op")

	val, err := f.Await(context.Background())
	require.NoError(t, err)
	require.Equal(t, 5, val)
}

func TestFailThenAwait(t *testing.T) {
	f := New[string]()
	boom := errors.New("boom")
	require.True(t, f.Fail(boom))

	_, err := f.Await(context.Background())
	require.Equal(t, boom, err)
}

func TestAwaitRespectsContext(t *testing.T) {
	f := New[int]()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := f.Await(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestGetNonBlocking(t *testing.T) {
	f := New[int]()
	_, _, ok := f.Get()
	require.False(t, ok)

	f.Complete(9)
	val, err, ok := f.Get()
	require.True(t, ok)
	require.NoError(t, err)
	require.Equal(t, 9, val)
}

func TestThenBeforeAndAfterCompletion(t *testing.T) {
	f := New[int]()
	var before, after int
	f.Then(func(v int, err error) { before = v })
	f.Complete(3)
	f.Then(func(v int, err error) { after = v })

	require.Equal(t, 3, before)
	require.Equal(t, 3, after)
}
