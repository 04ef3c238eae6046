package worker

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"social-sprout/internal/core/port"
	"social-sprout/internal/core/port/mocks"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func discard() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestPoolExecutesJobs(t *testing.T) {
	exec := mocks.NewMockGenerationExecutor(t)
	var ran atomic.Int32
	exec.EXPECT().
		Execute(mock.Anything, mock.AnythingOfType("port.GenerationJob")).
		Run(func(context.Context, port.GenerationJob) { ran.Add(1) }).
		Times(5)

	p := NewPool(exec, 2, 10, discard())
	p.Start()
	for i := range 5 {
		require.NoError(t, p.Dispatch(port.GenerationJob{RunID: string(rune('a' + i))}))
	}
	require.NoError(t, p.Shutdown(context.Background()))
	assert.Equal(t, int32(5), ran.Load())
}

func TestPoolQueueFull(t *testing.T) {
	exec := mocks.NewMockGenerationExecutor(t)
	started := make(chan struct{}, 2)
	release := make(chan struct{})
	exec.EXPECT().
		Execute(mock.Anything, mock.Anything).
		Run(func(context.Context, port.GenerationJob) {
			started <- struct{}{}
			<-release
		}).
		Times(2)

	p := NewPool(exec, 1, 1, discard())
	p.Start()

	require.NoError(t, p.Dispatch(port.GenerationJob{RunID: "1"}))
	<-started
	require.NoError(t, p.Dispatch(port.GenerationJob{RunID: "2"}))
	assert.ErrorIs(t, p.Dispatch(port.GenerationJob{RunID: "3"}), port.ErrQueueFull)

	close(release)
	require.NoError(t, p.Shutdown(context.Background()))
}

func TestPoolShutdownTimeoutCancelsJobs(t *testing.T) {
	exec := mocks.NewMockGenerationExecutor(t)
	started := make(chan struct{})
	var cancelled atomic.Bool
	exec.EXPECT().
		Execute(mock.Anything, mock.Anything).
		Run(func(ctx context.Context, _ port.GenerationJob) {
			close(started)
			<-ctx.Done()
			cancelled.Store(true)
		}).
		Once()

	p := NewPool(exec, 1, 4, discard())
	p.Start()
	require.NoError(t, p.Dispatch(port.GenerationJob{RunID: "slow"}))
	require.NoError(t, p.Dispatch(port.GenerationJob{RunID: "dropped"}))
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, p.Shutdown(ctx), context.DeadlineExceeded)
	assert.True(t, cancelled.Load())
}

func TestPoolRejectsAfterShutdown(t *testing.T) {
	p := NewPool(mocks.NewMockGenerationExecutor(t), 1, 1, discard())
	p.Start()
	require.NoError(t, p.Shutdown(context.Background()))
	require.NoError(t, p.Shutdown(context.Background()))

	assert.ErrorIs(t, p.Dispatch(port.GenerationJob{}), ErrPoolClosed)
}

func TestPoolSurvivesPanics(t *testing.T) {
	exec := mocks.NewMockGenerationExecutor(t)
	var calls atomic.Int32
	exec.EXPECT().
		Execute(mock.Anything, mock.Anything).
		Run(func(context.Context, port.GenerationJob) {
			if calls.Add(1) == 1 {
				panic("boom")
			}
		}).
		Times(2)

	p := NewPool(exec, 1, 2, discard())
	p.Start()
	require.NoError(t, p.Dispatch(port.GenerationJob{RunID: "1"}))
	require.NoError(t, p.Dispatch(port.GenerationJob{RunID: "2"}))
	require.NoError(t, p.Shutdown(context.Background()))
	assert.Equal(t, int32(2), calls.Load())
}
