// Package stack provides a generic last-in-first-out container.
package stack

// Stack is a LIFO collection. The zero value is an empty stack ready to use.
// It is not safe for concurrent use; callers serialize access.
type Stack[T any] struct {
	items []T
}

// New returns an empty Stack.
func New[T any]() *Stack[T] {
	return &Stack[T]{}
}

// Push adds v as the new top.
func (s *Stack[T]) Push(v T) {
	s.items = append(s.items, v)
}

// Pop removes and returns the top element. The boolean is false when the
// stack is empty.
func (s *Stack[T]) Pop() (T, bool) {
	var zero T
	n := len(s.items)
	if n == 0 {
		return zero, false
	}
	top := s.items[n-1]
	// Clear the slot so the backing array does not pin the popped value.
	s.items[n-1] = zero
	s.items = s.items[:n-1]
	return top, true
}

// Peek returns the top element without removing it.
func (s *Stack[T]) Peek() (T, bool) {
	if len(s.items) == 0 {
		var zero T
		return zero, false
	}
	return s.items[len(s.items)-1], true
}

// Len returns the number of elements on the stack.
func (s *Stack[T]) Len() int {
	return len(s.items)
}
