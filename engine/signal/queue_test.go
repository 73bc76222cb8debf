package signal

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueFIFO(t *testing.T) {
	q := NewQueue[int]()
	for i := 0; i < 1000; i++ {
		require.True(t, q.Push(i))
	}
	assert.Equal(t, 1000, q.Len())

	for i := 0; i < 1000; i++ {
		v, ok := q.TryPop()
		require.True(t, ok)
		assert.Equal(t, i, v)
	}
	_, ok := q.TryPop()
	assert.False(t, ok)
}

func TestQueueDrain(t *testing.T) {
	q := NewQueue[string]()
	q.Push("a")
	q.Push("b")
	assert.Equal(t, []string{"a", "b"}, q.Drain())
	assert.Nil(t, q.Drain())
}

func TestQueueCloseDeliversBacklog(t *testing.T) {
	q := NewQueue[int]()
	q.Push(1)
	q.Push(2)
	q.Close()
	q.Close()
	assert.False(t, q.Push(3))

	ctx := context.Background()
	v, err := q.Pop(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, v)
	v, err = q.Pop(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, v)
	_, err = q.Pop(ctx)
	assert.ErrorIs(t, err, ErrClosed)
}

func TestQueuePopContext(t *testing.T) {
	q := NewQueue[int]()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := q.Pop(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestQueueConcurrentProducersKeepPerProducerOrder(t *testing.T) {
	q := NewQueue[[2]int]()
	const producers, perProducer = 4, 500

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				q.Push([2]int{p, i})
			}
		}(p)
	}
	wg.Wait()

	last := map[int]int{0: -1, 1: -1, 2: -1, 3: -1}
	items := q.Drain()
	require.Len(t, items, producers*perProducer)
	for _, it := range items {
		assert.Equal(t, last[it[0]]+1, it[1])
		last[it[0]] = it[1]
	}
}

func TestStreamEach(t *testing.T) {
	s := NewStream[int]()
	go func() {
		for i := 1; i <= 3; i++ {
			s.Emit(i)
		}
		s.Close()
	}()

	var got []int
	err := s.Each(context.Background(), func(v int) { got = append(got, v) })
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, got)
}

func TestCell(t *testing.T) {
	c := NewCell(5)
	assert.Equal(t, 5, c.Load())
	c.Store(7)
	c.Store(9)
	assert.Equal(t, 9, c.Load())
}
