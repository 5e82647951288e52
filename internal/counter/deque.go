package counter

// deque is a FIFO queue addressed by index. Popped slots are reclaimed once
// the dead prefix outgrows the live part.
type deque[T any] struct {
	items []T
	head  int
}

func (q *deque[T]) Len() int { return len(q.items) - q.head }

func (q *deque[T]) PushBack(v T) {
	q.items = append(q.items, v)
}

// Front returns the oldest item. The queue must not be empty.
func (q *deque[T]) Front() T {
	return q.items[q.head]
}

// PopFront removes the oldest item. The queue must not be empty.
func (q *deque[T]) PopFront() T {
	var zero T
	v := q.items[q.head]
	q.items[q.head] = zero
	q.head++

	if q.head > 32 && q.head*2 > len(q.items) {
		n := copy(q.items, q.items[q.head:])
		q.items = q.items[:n]
		q.head = 0
	}
	return v
}

func (q *deque[T]) Reset() {
	q.items = q.items[:0]
	q.head = 0
}
