package async_test

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/golid-ai/dashkit/pkg/async"
)

func TestGo(t *testing.T) {
	t.Parallel()

	f := async.Go(context.Background(), func(context.Context) (string, error) {
		time.Sleep(10 * time.Millisecond)
		return "done", nil
	})

	res, err := f.Await()
	require.NoError(t, err)
	assert.Equal(t, "done", res)
	assert.True(t, f.IsComplete())
}

func TestAsyncParam(t *testing.T) {
	t.Parallel()

	f := async.Async(context.Background(), 42, func(_ context.Context, n int) (string, error) {
		return fmt.Sprintf("Number: %d", n), nil
	})
	res, err := f.Await()
	require.NoError(t, err)
	assert.Equal(t, "Number: 42", res)
}

func TestGoErrorPropagation(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	f := async.Go(context.Background(), func(context.Context) (int, error) {
		return 0, boom
	})
	_, err := f.Await()
	assert.ErrorIs(t, err, boom)
}

func TestGoScopeEndsFirst(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	release := make(chan struct{})
	var finished atomic.Bool

	f := async.Go(ctx, func(context.Context) (string, error) {
		<-release
		finished.Store(true)
		return "late", nil
	})

	cancel()
	res, err := f.Await()
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, res)

	close(release)
	require.Eventually(t, finished.Load, time.Second, 5*time.Millisecond)

	res, err = f.Await()
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, res)
}

func TestGoPreCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var called atomic.Bool
	f := async.Go(ctx, func(context.Context) (int, error) {
		called.Store(true)
		return 1, nil
	})

	_, err := f.Await()
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called.Load())
}

func TestAwaitContext(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	f := async.Go(context.Background(), func(context.Context) (int, error) {
		<-release
		return 7, nil
	})

	waitCtx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := f.AwaitContext(waitCtx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	close(release)
	res, err := f.AwaitContext(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, res)
}

func TestAwaitWithTimeout(t *testing.T) {
	t.Parallel()

	f := async.Go(context.Background(), func(context.Context) (int, error) {
		time.Sleep(200 * time.Millisecond)
		return 1, nil
	})
	_, err := f.AwaitWithTimeout(10 * time.Millisecond)
	assert.ErrorIs(t, err, async.ErrTimeout)
}

func TestWaitAll(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	ctx := context.Background()
	futures := []*async.Future[int]{
		async.Go(ctx, func(context.Context) (int, error) { return 1, nil }),
		async.Go(ctx, func(context.Context) (int, error) { return 0, boom }),
		async.Go(ctx, func(context.Context) (int, error) {
			time.Sleep(20 * time.Millisecond)
			return 3, nil
		}),
	}

	results, err := async.WaitAll(futures...)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []int{1, 0, 3}, results)
}

func TestWaitAny(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	slow := async.Go(ctx, func(context.Context) (string, error) {
		time.Sleep(200 * time.Millisecond)
		return "slow", nil
	})
	fast := async.Go(ctx, func(context.Context) (string, error) {
		return "fast", nil
	})

	idx, res, err := async.WaitAny(slow, fast)
	require.NoError(t, err)
	assert.Equal(t, 1, idx)
	assert.Equal(t, "fast", res)

	_, _, err = async.WaitAny[int]()
	assert.ErrorIs(t, err, async.ErrNoFutures)
}
