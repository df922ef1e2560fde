package scaling

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alvarotorrestx/bluewave-uptime/internal/queue"
)

// fakeWorker records the order in which handles are closed.
type fakeWorker struct {
	id        int
	closedLog *[]int
	closeErr  error
}

func (w *fakeWorker) Close() error {
	*w.closedLog = append(*w.closedLog, w.id)
	return w.closeErr
}

// sequentialFactory hands out fakeWorkers with increasing ids.
func sequentialFactory(closedLog *[]int, closeErrs map[int]error) queue.Factory {
	next := 0
	return func() (queue.Worker, error) {
		next++
		return &fakeWorker{id: next, closedLog: closedLog, closeErr: closeErrs[next]}, nil
	}
}

func TestPool_ShrinkRemovesInLIFOOrder(t *testing.T) {
	var closed []int
	p := NewPool(sequentialFactory(&closed, nil))
	require.NoError(t, p.Grow(4))
	require.Equal(t, 4, p.Size())

	p.Shrink(3)

	assert.Equal(t, []int{4, 3, 2}, closed)
	assert.Equal(t, 1, p.Size())
}

func TestPool_ShrinkContinuesPastCloseFailure(t *testing.T) {
	var closed []int
	failing := map[int]error{3: &queue.CloseError{WorkerID: "w3", Err: errors.New("boom")}}
	p := NewPool(sequentialFactory(&closed, failing))
	require.NoError(t, p.Grow(4))

	p.Shrink(3)

	// Worker 3 failed to close but was still dropped, and the removals after
	// it still ran.
	assert.Equal(t, []int{4, 3, 2}, closed)
	assert.Equal(t, 1, p.Size())
}

func TestPool_ShrinkClampsToPoolSize(t *testing.T) {
	var closed []int
	p := NewPool(sequentialFactory(&closed, nil))
	require.NoError(t, p.Grow(2))

	p.Shrink(10)

	assert.Equal(t, []int{2, 1}, closed)
	assert.Equal(t, 0, p.Size())
}

func TestPool_GrowKeepsPartialProgressOnFactoryError(t *testing.T) {
	var closed []int
	calls := 0
	factory := func() (queue.Worker, error) {
		calls++
		if calls == 3 {
			return nil, errors.New("broker refused connection")
		}
		return &fakeWorker{id: calls, closedLog: &closed}, nil
	}
	p := NewPool(factory)

	err := p.Grow(3)

	require.Error(t, err)
	assert.Equal(t, 2, p.Size())
}
