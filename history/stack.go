package history

// Stack is a snapshot history. The bottom entry is the baseline and cannot
// be popped. Entries are cloned on the way in and out, so archived entries
// are never aliased by the caller; only UpdateTop edits the live top.
type Stack[T any] struct {
	entries []T
	clone   func(T) T
}

// NewStack creates an empty stack. clone may be nil for value types.
func NewStack[T any](clone func(T) T) *Stack[T] {
	if clone == nil {
		clone = func(v T) T { return v }
	}
	return &Stack[T]{clone: clone}
}

// Push appends a copy of v to the top.
func (s *Stack[T]) Push(v T) {
	s.entries = append(s.entries, s.clone(v))
}

// Pop removes and returns the top entry. It refuses to remove the baseline.
func (s *Stack[T]) Pop() (T, error) {
	var zero T
	if len(s.entries) <= 1 {
		return zero, ErrEmptyHistory
	}
	last := len(s.entries) - 1
	top := s.entries[last]
	s.entries[last] = zero
	s.entries = s.entries[:last]
	return top, nil
}

// Peek returns a copy of the top entry.
func (s *Stack[T]) Peek() (T, error) {
	var zero T
	if len(s.entries) == 0 {
		return zero, ErrEmptyHistory
	}
	return s.clone(s.entries[len(s.entries)-1]), nil
}

// PeekBelow returns a copy of the entry under the top, the one Pop would
// expose. It fails when only the baseline is left.
func (s *Stack[T]) PeekBelow() (T, error) {
	var zero T
	if len(s.entries) <= 1 {
		return zero, ErrEmptyHistory
	}
	return s.clone(s.entries[len(s.entries)-2]), nil
}

// PeekBottom returns a copy of the baseline.
func (s *Stack[T]) PeekBottom() (T, error) {
	var zero T
	if len(s.entries) == 0 {
		return zero, ErrEmptyHistory
	}
	return s.clone(s.entries[0]), nil
}

// UpdateTop replaces the live top with fn's result.
func (s *Stack[T]) UpdateTop(fn func(T) T) error {
	if len(s.entries) == 0 {
		return ErrEmptyHistory
	}
	last := len(s.entries) - 1
	s.entries[last] = fn(s.entries[last])
	return nil
}

// Clear drops every entry and seeds baseline as the only one.
func (s *Stack[T]) Clear(baseline T) {
	clear(s.entries)
	s.entries = append(s.entries[:0], s.clone(baseline))
}

// Len returns the number of entries, baseline included.
func (s *Stack[T]) Len() int {
	return len(s.entries)
}
