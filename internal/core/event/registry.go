package event

// Handle identifies one subscription inside a Registry. Handles are never
// reused by the registry that issued them.
type Handle uint64

type listener[T any] struct {
	id Handle
	fn func(T)
}

// Registry holds the listeners of a single event type and delivers events to
// them synchronously, in subscription order.
// Accessed only from the owning editor goroutine, without locks.
type Registry[T any] struct {
	next      Handle
	listeners []listener[T]
}

// Subscribe registers fn and returns the handle needed to remove it.
func (r *Registry[T]) Subscribe(fn func(T)) Handle {
	r.next++
	r.listeners = append(r.listeners, listener[T]{id: r.next, fn: fn})
	return r.next
}

// Unsubscribe removes the listener registered under h. It reports whether a
// listener was removed.
func (r *Registry[T]) Unsubscribe(h Handle) bool {
	for i, l := range r.listeners {
		if l.id == h {
			// copy-on-write: a Publish in progress keeps its own snapshot
			next := make([]listener[T], 0, len(r.listeners)-1)
			next = append(next, r.listeners[:i]...)
			r.listeners = append(next, r.listeners[i+1:]...)
			return true
		}
	}
	return false
}

// Publish delivers ev to every listener subscribed at the time of the call.
func (r *Registry[T]) Publish(ev T) {
	for _, l := range r.listeners {
		l.fn(ev)
	}
}

// Len returns the number of subscribed listeners.
func (r *Registry[T]) Len() int {
	return len(r.listeners)
}

// Clear drops every listener.
func (r *Registry[T]) Clear() {
	r.listeners = nil
}

// Forward re-publishes every event of src on dst after passing it through fn.
// The returned handle belongs to src.
func Forward[S, D any](src *Registry[S], dst *Registry[D], fn func(S) D) Handle {
	return src.Subscribe(func(ev S) {
		dst.Publish(fn(ev))
	})
}
