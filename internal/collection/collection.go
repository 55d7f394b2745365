// Package collection implements an ordered container that re-publishes the
// events of its items tagged with each item's current position.
package collection

import (
	"errors"
	"fmt"

	"github.com/tilekit/tilemap/internal/core/event"
	"github.com/tilekit/tilemap/internal/grid"
)

var (
	// ErrRejected wraps validator failures.
	ErrRejected = errors.New("item rejected")
	// ErrIndex is returned for positions outside the collection.
	ErrIndex = fmt.Errorf("collection index %w", grid.ErrOutOfRange)
)

// Model identifies the item an event came from.
type Model[T any] struct {
	Item  T
	Index int
}

// Event is an item event tagged with its source.
type Event[T, E any] struct {
	Model  Model[T]
	Detail E
}

type binding struct {
	handle event.Handle
	refs   int
}

// Collection holds items in order and forwards the events published on each
// item's registry, as picked by the selector, while the item is a member.
//
// An item that occurs more than once is subscribed once and reported with
// the index of its first occurrence.
type Collection[T comparable, E any] struct {
	items    []T
	selector func(T) *event.Registry[E]
	bound    map[T]*binding
	validate func(T) error
	events   event.Registry[Event[T, E]]
}

// New creates an empty collection. selector returns the registry to listen
// on for an item; a nil registry means the item publishes nothing.
func New[T comparable, E any](selector func(T) *event.Registry[E]) *Collection[T, E] {
	return &Collection[T, E]{
		selector: selector,
		bound:    make(map[T]*binding),
	}
}

// Events publishes the forwarded item events.
func (c *Collection[T, E]) Events() *event.Registry[Event[T, E]] {
	return &c.events
}

// SetValidator installs fn to check every item before it is inserted.
func (c *Collection[T, E]) SetValidator(fn func(T) error) {
	c.validate = fn
}

func (c *Collection[T, E]) Len() int { return len(c.items) }

// At returns the item at index i.
func (c *Collection[T, E]) At(i int) (T, error) {
	if i < 0 || i >= len(c.items) {
		var zero T
		return zero, fmt.Errorf("%w: %d of %d", ErrIndex, i, len(c.items))
	}
	return c.items[i], nil
}

// Items returns a copy of the items in order.
func (c *Collection[T, E]) Items() []T {
	return append([]T(nil), c.items...)
}

// IndexOf returns the first index of item, or -1.
func (c *Collection[T, E]) IndexOf(item T) int {
	for i, it := range c.items {
		if it == item {
			return i
		}
	}
	return -1
}

// Push appends items.
func (c *Collection[T, E]) Push(items ...T) error {
	_, err := c.Splice(len(c.items), 0, items...)
	return err
}

// Insert places items before index; index == Len appends.
func (c *Collection[T, E]) Insert(index int, items ...T) error {
	_, err := c.Splice(index, 0, items...)
	return err
}

// Remove deletes and returns the item at index.
func (c *Collection[T, E]) Remove(index int) (T, error) {
	removed, err := c.Splice(index, 1)
	if err != nil {
		var zero T
		return zero, err
	}
	return removed[0], nil
}

// Splice removes deleteCount items at index and inserts items in their
// place, returning the removed items. On error the collection is unchanged.
func (c *Collection[T, E]) Splice(index, deleteCount int, items ...T) ([]T, error) {
	if index < 0 || index > len(c.items) {
		return nil, fmt.Errorf("%w: splice at %d of %d", ErrIndex, index, len(c.items))
	}
	if deleteCount < 0 || index+deleteCount > len(c.items) {
		return nil, fmt.Errorf("%w: delete %d at %d of %d", ErrIndex, deleteCount, index, len(c.items))
	}
	if c.validate != nil {
		for _, it := range items {
			if err := c.validate(it); err != nil {
				return nil, fmt.Errorf("%w: %w", ErrRejected, err)
			}
		}
	}

	removed := append([]T(nil), c.items[index:index+deleteCount]...)
	next := make([]T, 0, len(c.items)-deleteCount+len(items))
	next = append(next, c.items[:index]...)
	next = append(next, items...)
	next = append(next, c.items[index+deleteCount:]...)

	// Retain before release so an item moved within one splice keeps its
	// subscription.
	for _, it := range items {
		c.retain(it)
	}
	c.items = next
	for _, it := range removed {
		c.release(it)
	}
	return removed, nil
}

// Move relocates the item at from so that it ends up at index to.
// Subscriptions are left in place.
func (c *Collection[T, E]) Move(from, to int) error {
	n := len(c.items)
	if from < 0 || from >= n || to < 0 || to >= n {
		return fmt.Errorf("%w: move %d to %d of %d", ErrIndex, from, to, n)
	}
	it := c.items[from]
	if from < to {
		copy(c.items[from:to], c.items[from+1:to+1])
	} else {
		copy(c.items[to+1:from+1], c.items[to:from])
	}
	c.items[to] = it
	return nil
}

func (c *Collection[T, E]) retain(it T) {
	if b, ok := c.bound[it]; ok {
		b.refs++
		return
	}
	b := &binding{refs: 1}
	if reg := c.selector(it); reg != nil {
		b.handle = reg.Subscribe(func(detail E) {
			c.events.Publish(Event[T, E]{
				Model:  Model[T]{Item: it, Index: c.IndexOf(it)},
				Detail: detail,
			})
		})
	}
	c.bound[it] = b
}

func (c *Collection[T, E]) release(it T) {
	b, ok := c.bound[it]
	if !ok {
		return
	}
	b.refs--
	if b.refs > 0 {
		return
	}
	if b.handle != 0 {
		c.selector(it).Unsubscribe(b.handle)
	}
	delete(c.bound, it)
}
