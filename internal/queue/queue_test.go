package queue

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueue_FIFO(t *testing.T) {
	q := New[int]()
	assert.True(t, q.Empty())

	q.Push(1, 2)
	q.Push(3)
	assert.Equal(t, 3, q.Len())

	for _, want := range []int{1, 2, 3} {
		got, ok := q.Pop()
		require.True(t, ok)
		assert.Equal(t, want, got)
	}
	_, ok := q.Pop()
	assert.False(t, ok)
	assert.True(t, q.Empty())
}

func TestQueue_PushAfterDrainingReusesStorage(t *testing.T) {
	q := New[string]()
	q.Push("a")
	q.Pop()
	q.Push("b", "c")
	got, ok := q.Pop()
	require.True(t, ok)
	assert.Equal(t, "b", got)
	assert.Equal(t, 1, q.Len())
}

func TestQueue_Drain(t *testing.T) {
	q := New[int]()
	q.Push(1, 2, 3)
	q.Pop()

	assert.Equal(t, []int{2, 3}, q.Drain())
	assert.True(t, q.Empty())
	assert.Empty(t, q.Drain())
}

func TestQueue_ConcurrentPush(t *testing.T) {
	q := New[int]()
	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			q.Push(n)
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 50, q.Len())
	assert.Len(t, q.Drain(), 50)
}
