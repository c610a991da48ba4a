package lattice

import "container/heap"

// Queue is a binary-heap priority queue; the item for which less holds against every other item is served first
type Queue[T any] struct {
	items queueItems[T]
}

func NewQueue[T any](less func(a, b T) bool) *Queue[T] {
	return &Queue[T]{items: queueItems[T]{less: less}}
}

func (queue *Queue[T]) Push(item T) {
	heap.Push(&queue.items, item)
}

func (queue *Queue[T]) Pop() (item T, ok bool) {
	if queue.items.Len() == 0 {
		return item, false
	}
	return heap.Pop(&queue.items).(T), true
}

func (queue *Queue[T]) Peek() (item T, ok bool) {
	if queue.items.Len() == 0 {
		return item, false
	}
	return queue.items.values[0], true
}

func (queue *Queue[T]) Len() int {
	return queue.items.Len()
}

// queueItems implements heap.Interface
type queueItems[T any] struct {
	values []T
	less   func(a, b T) bool
}

func (items *queueItems[T]) Len() int           { return len(items.values) }
func (items *queueItems[T]) Less(i, j int) bool { return items.less(items.values[i], items.values[j]) }
func (items *queueItems[T]) Swap(i, j int)      { items.values[i], items.values[j] = items.values[j], items.values[i] }

func (items *queueItems[T]) Push(x any) {
	items.values = append(items.values, x.(T))
}

func (items *queueItems[T]) Pop() any {
	last := len(items.values) - 1
	item := items.values[last]
	var zero T
	items.values[last] = zero // Release the reference held by the backing array
	items.values = items.values[:last]
	return item
}
