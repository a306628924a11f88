package sequence

import "container/heap"

// PriorityItem is a queued value. Lower Priority is dequeued first; equal
// priorities come out in insertion order.
type PriorityItem[T any] struct {
	Value    T
	Priority float64
	seq      uint64
	index    int
}

// Queued reports whether the item is still inside a queue.
func (it *PriorityItem[T]) Queued() bool { return it.index >= 0 }

type priorityQueue[T any] struct {
	items []*PriorityItem[T]
}

func (pq *priorityQueue[T]) Len() int {
	return len(pq.items)
}

func (pq *priorityQueue[T]) Less(i, j int) bool {
	a, b := pq.items[i], pq.items[j]
	if a.Priority == b.Priority {
		return a.seq < b.seq
	}
	return a.Priority < b.Priority
}

func (pq *priorityQueue[T]) Swap(i, j int) {
	pq.items[i], pq.items[j] = pq.items[j], pq.items[i]
	pq.items[i].index = i
	pq.items[j].index = j
}

func (pq *priorityQueue[T]) Push(x any) {
	item := x.(*PriorityItem[T])
	item.index = len(pq.items)
	pq.items = append(pq.items, item)
}

func (pq *priorityQueue[T]) Pop() any {
	old := pq.items
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	pq.items = old[0 : n-1]
	return item
}

// PriorityQueue is a min-heap. Items can be recycled through Reuse to keep
// steady-state enqueueing allocation free.
type PriorityQueue[T any] struct {
	pq   priorityQueue[T]
	next uint64
	free []*PriorityItem[T]
}

func NewPriorityQueue[T any]() *PriorityQueue[T] {
	pq := &PriorityQueue[T]{}
	heap.Init(&pq.pq)
	return pq
}

func (pq *PriorityQueue[T]) Enqueue(value T, priority float64) *PriorityItem[T] {
	var item *PriorityItem[T]
	if n := len(pq.free); n > 0 {
		item = pq.free[n-1]
		pq.free = pq.free[:n-1]
	} else {
		item = &PriorityItem[T]{}
	}
	item.Value = value
	item.Priority = priority
	item.seq = pq.next
	pq.next++
	heap.Push(&pq.pq, item)
	return item
}

func (pq *PriorityQueue[T]) Dequeue() (T, bool) {
	if pq.pq.Len() == 0 {
		var zero T
		return zero, false
	}
	item := heap.Pop(&pq.pq).(*PriorityItem[T])
	return item.Value, true
}

// DequeueItem pops the head item itself so the caller can hand it back with
// Reuse once done.
func (pq *PriorityQueue[T]) DequeueItem() (*PriorityItem[T], bool) {
	if pq.pq.Len() == 0 {
		return nil, false
	}
	return heap.Pop(&pq.pq).(*PriorityItem[T]), true
}

func (pq *PriorityQueue[T]) Peek() (T, bool) {
	if pq.pq.Len() == 0 {
		var zero T
		return zero, false
	}
	return pq.pq.items[0].Value, true
}

// PeekPriority returns the priority of the head item.
func (pq *PriorityQueue[T]) PeekPriority() (float64, bool) {
	if pq.pq.Len() == 0 {
		return 0, false
	}
	return pq.pq.items[0].Priority, true
}

func (pq *PriorityQueue[T]) Update(item *PriorityItem[T], value T, priority float64) {
	item.Value = value
	item.Priority = priority
	heap.Fix(&pq.pq, item.index)
}

// Remove takes item out of the queue. Removing an item that is no longer
// queued is a no-op.
func (pq *PriorityQueue[T]) Remove(item *PriorityItem[T]) bool {
	if item == nil || item.index < 0 || item.index >= pq.pq.Len() || pq.pq.items[item.index] != item {
		return false
	}
	heap.Remove(&pq.pq, item.index)
	return true
}

// Reuse hands a dequeued or removed item back for a later Enqueue.
func (pq *PriorityQueue[T]) Reuse(item *PriorityItem[T]) {
	if item == nil || item.Queued() {
		return
	}
	var zero T
	item.Value = zero
	pq.free = append(pq.free, item)
}

func (pq *PriorityQueue[T]) Len() int {
	return pq.pq.Len()
}

func (pq *PriorityQueue[T]) IsEmpty() bool {
	return pq.pq.Len() == 0
}
