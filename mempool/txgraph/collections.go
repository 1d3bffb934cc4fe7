package txgraph

import (
	"container/heap"
	"iter"
)

// Stack is a generic LIFO stack used to drive iterative depth-first walks
// over the pool without recursing.  The zero value is ready to use.
type Stack[T any] struct {
	items []T
}

// NewStack creates an empty stack with room for capacity items.
func NewStack[T any](capacity int) *Stack[T] {
	return &Stack[T]{items: make([]T, 0, capacity)}
}

// Push adds an item to the top of the stack.
func (s *Stack[T]) Push(item T) {
	s.items = append(s.items, item)
}

// Pop removes and returns the item at the top of the stack.  It returns
// false if the stack is empty.
func (s *Stack[T]) Pop() (T, bool) {
	if len(s.items) == 0 {
		var zero T
		return zero, false
	}
	idx := len(s.items) - 1
	item := s.items[idx]
	var zero T
	s.items[idx] = zero
	s.items = s.items[:idx]
	return item, true
}

// Peek returns the item at the top of the stack without removing it.
func (s *Stack[T]) Peek() (T, bool) {
	if len(s.items) == 0 {
		var zero T
		return zero, false
	}
	return s.items[len(s.items)-1], true
}

// IsEmpty returns true if the stack holds no items.
func (s *Stack[T]) IsEmpty() bool {
	return len(s.items) == 0
}

// Backward yields the items from top to bottom without modifying the stack.
func (s *Stack[T]) Backward() iter.Seq[T] {
	return func(yield func(T) bool) {
		for i := len(s.items) - 1; i >= 0; i-- {
			if !yield(s.items[i]) {
				return
			}
		}
	}
}

// PriorityQueue is a generic heap ordered by a comparison function where
// less(a, b) reports whether a must be popped before b.  Use
// NewPriorityQueueFrom to create an instance.
type PriorityQueue[T any] struct {
	impl *heapImpl[T]
}

// NewPriorityQueueFrom heapifies the passed items in linear time.  The queue
// takes ownership of the slice.
func NewPriorityQueueFrom[T any](items []T,
	less func(a, b T) bool) *PriorityQueue[T] {

	pq := &PriorityQueue[T]{
		impl: &heapImpl[T]{items: items, less: less},
	}
	heap.Init(pq.impl)
	return pq
}

// Drain pops every item in priority order, leaving the queue empty.
func (pq *PriorityQueue[T]) Drain() iter.Seq[T] {
	return func(yield func(T) bool) {
		for pq.impl.Len() > 0 {
			if !yield(heap.Pop(pq.impl).(T)) {
				return
			}
		}
	}
}

// heapImpl implements heap.Interface to integrate with container/heap.
type heapImpl[T any] struct {
	items []T
	less  func(a, b T) bool
}

func (h *heapImpl[T]) Len() int {
	return len(h.items)
}

func (h *heapImpl[T]) Less(i, j int) bool {
	return h.less(h.items[i], h.items[j])
}

func (h *heapImpl[T]) Swap(i, j int) {
	h.items[i], h.items[j] = h.items[j], h.items[i]
}

func (h *heapImpl[T]) Push(x any) {
	h.items = append(h.items, x.(T))
}

func (h *heapImpl[T]) Pop() any {
	n := len(h.items) - 1
	item := h.items[n]
	var zero T
	h.items[n] = zero
	h.items = h.items[:n]
	return item
}
