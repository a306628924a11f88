package sequence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriorityQueueOrdersByPriority(t *testing.T) {
	pq := NewPriorityQueue[string]()
	pq.Enqueue("late", 3)
	pq.Enqueue("early", 1)
	pq.Enqueue("middle", 2)

	var out []string
	for !pq.IsEmpty() {
		v, ok := pq.Dequeue()
		require.True(t, ok)
		out = append(out, v)
	}
	assert.Equal(t, []string{"early", "middle", "late"}, out)
}

func TestPriorityQueueStableForEqualPriority(t *testing.T) {
	pq := NewPriorityQueue[int]()
	for i := 0; i < 5; i++ {
		pq.Enqueue(i, 1.5)
	}
	for i := 0; i < 5; i++ {
		v, ok := pq.Dequeue()
		require.True(t, ok)
		assert.Equal(t, i, v)
	}
	_, ok := pq.Dequeue()
	assert.False(t, ok)
}

func TestPriorityQueueRemove(t *testing.T) {
	pq := NewPriorityQueue[string]()
	a := pq.Enqueue("a", 1)
	b := pq.Enqueue("b", 2)
	pq.Enqueue("c", 3)

	assert.True(t, pq.Remove(b))
	assert.False(t, b.Queued())
	assert.False(t, pq.Remove(b), "removing twice is a no-op")
	assert.Equal(t, 2, pq.Len())

	v, _ := pq.Dequeue()
	assert.Equal(t, "a", v)
	assert.False(t, pq.Remove(a))

	v, _ = pq.Dequeue()
	assert.Equal(t, "c", v)
}

func TestPriorityQueueUpdateAndPeek(t *testing.T) {
	pq := NewPriorityQueue[string]()
	a := pq.Enqueue("a", 1)
	pq.Enqueue("b", 2)

	pq.Update(a, "a", 5)
	head, ok := pq.Peek()
	require.True(t, ok)
	assert.Equal(t, "b", head)

	prio, ok := pq.PeekPriority()
	require.True(t, ok)
	assert.Equal(t, 2.0, prio)
}

func TestPriorityQueueReuse(t *testing.T) {
	pq := NewPriorityQueue[int]()
	first := pq.Enqueue(1, 1)

	item, ok := pq.DequeueItem()
	require.True(t, ok)
	require.Same(t, first, item)
	pq.Reuse(item)

	second := pq.Enqueue(2, 1)
	assert.Same(t, first, second)
	assert.Equal(t, 2, second.Value)
	assert.True(t, second.Queued())
}
