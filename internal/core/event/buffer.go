package event

// Buffer is a double-buffered append log. Entries appended since the last
// Take are readable by the next Take, which swaps the buffers and leaves the
// log empty in a single step.
type Buffer[T any] struct {
	front []T
	back  []T
}

// Append queues an entry into the back buffer.
func (b *Buffer[T]) Append(entries ...T) {
	b.back = append(b.back, entries...)
}

// Len returns the number of entries waiting for the next Take.
func (b *Buffer[T]) Len() int {
	return len(b.back)
}

// Peek returns a copy of the pending entries without draining them.
func (b *Buffer[T]) Peek() []T {
	if len(b.back) == 0 {
		return nil
	}
	out := make([]T, len(b.back))
	copy(out, b.back)
	return out
}

// Take returns every pending entry and clears the log. Returns nil when
// nothing was appended since the previous Take.
func (b *Buffer[T]) Take() []T {
	if len(b.back) == 0 {
		return nil
	}
	// Rotate back→front. The caller owns the returned slice, so the old
	// front storage is not reused.
	b.front, b.back = b.back, nil
	out := b.front
	b.front = nil
	return out
}
