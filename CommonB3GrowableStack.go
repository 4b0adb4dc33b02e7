package box3d

// Slice-backed LIFO used by tree traversals.
type B3GrowableStack[T any] struct {
	items []T
}

func NewB3GrowableStack[T any](capacity int) *B3GrowableStack[T] {
	return &B3GrowableStack[T]{
		items: make([]T, 0, capacity),
	}
}

// Return the stack's length
func (s B3GrowableStack[T]) GetCount() int {
	return len(s.items)
}

// Push a new element onto the stack
func (s *B3GrowableStack[T]) Push(value T) {
	s.items = append(s.items, value)
}

// Remove the top element from the stack and return it's value.
// The second result is false if the stack was empty.
func (s *B3GrowableStack[T]) Pop() (T, bool) {
	var zero T
	if len(s.items) == 0 {
		return zero, false
	}
	value := s.items[len(s.items)-1]
	s.items[len(s.items)-1] = zero
	s.items = s.items[:len(s.items)-1]
	return value, true
}
