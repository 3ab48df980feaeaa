package container

// Queue is a first-in first-out queue.
// Unlike a channel, items can be looked at and removed by their position
// before they are popped.
type Queue[T any] struct {
	first *queueItem[T]
	last  *queueItem[T]
	n     int
}

// queueItem wraps a value.
// It directs the next queueItem, so the queue can traverse.
type queueItem[T any] struct {
	v    T
	next *queueItem[T]
}

// NewQueue creates a new Queue.
func NewQueue[T any]() *Queue[T] {
	return &Queue[T]{}
}

// Len returns the number of items in the queue.
func (q *Queue[T]) Len() int {
	return q.n
}

// Push pushes a value to the back of the queue.
func (q *Queue[T]) Push(v T) {
	item := &queueItem[T]{v: v}
	if q.first == nil {
		q.first = item
	} else {
		q.last.next = item
	}
	q.last = item
	q.n++
}

// Pop pops a value from the front of the queue.
// It returns false when the queue is empty.
func (q *Queue[T]) Pop() (T, bool) {
	var zero T
	if q.first == nil {
		return zero, false
	}
	v := q.first.v
	if q.first == q.last {
		q.first = nil
		q.last = nil
	} else {
		q.first = q.first.next
	}
	q.n--
	return v, true
}

// At returns the value at index i.
// It returns false when i is out of range.
func (q *Queue[T]) At(i int) (T, bool) {
	var zero T
	if i < 0 || i >= q.n {
		return zero, false
	}
	it := q.first
	for ; i > 0; i-- {
		it = it.next
	}
	return it.v, true
}

// RemoveAt removes the value at index i and returns it.
// If i is out of range, it does nothing and returns false.
func (q *Queue[T]) RemoveAt(i int) (T, bool) {
	var zero T
	if i < 0 || i >= q.n {
		return zero, false
	}
	var prev *queueItem[T]
	it := q.first
	for ; i > 0; i-- {
		prev = it
		it = it.next
	}
	if it == q.first {
		q.first = it.next
	} else {
		prev.next = it.next
	}
	if it == q.last {
		q.last = prev
	}
	q.n--
	return it.v, true
}

// Items returns the values of the queue in their order.
// Changing the returned slice doesn't affect the queue.
func (q *Queue[T]) Items() []T {
	items := make([]T, 0, q.n)
	for it := q.first; it != nil; it = it.next {
		items = append(items, it.v)
	}
	return items
}
