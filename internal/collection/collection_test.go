package collection

import (
	"errors"
	"fmt"
	"testing"

	"github.com/tilekit/tilemap/internal/core/event"
	"github.com/tilekit/tilemap/internal/grid"
)

type item struct {
	name   string
	events event.Registry[string]
}

func newItems(names ...string) []*item {
	out := make([]*item, len(names))
	for i, n := range names {
		out[i] = &item{name: n}
	}
	return out
}

type recorder struct {
	got []Event[*item, string]
}

func watch(c *Collection[*item, string]) *recorder {
	r := &recorder{}
	c.Events().Subscribe(func(ev Event[*item, string]) { r.got = append(r.got, ev) })
	return r
}

func newCollection() *Collection[*item, string] {
	return New(func(it *item) *event.Registry[string] { return &it.events })
}

func TestPush_ForwardsWithIndex(t *testing.T) {
	c := newCollection()
	r := watch(c)
	items := newItems("a", "b", "c")
	if err := c.Push(items...); err != nil {
		t.Fatalf("Push: %v", err)
	}

	items[1].events.Publish("hello")

	if len(r.got) != 1 {
		t.Fatalf("got %d events, want 1", len(r.got))
	}
	ev := r.got[0]
	if ev.Model.Item != items[1] || ev.Model.Index != 1 || ev.Detail != "hello" {
		t.Errorf("event = %+v, want item b at 1", ev)
	}
}

func TestSplice_IndexRecomputedAtEmission(t *testing.T) {
	c := newCollection()
	r := watch(c)
	items := newItems("a", "b", "c")
	c.Push(items...)

	if _, err := c.Splice(0, 1, newItems("x", "y", "z")...); err != nil {
		t.Fatalf("Splice: %v", err)
	}
	items[2].events.Publish("moved")

	if len(r.got) != 1 || r.got[0].Model.Index != 4 {
		t.Fatalf("events = %+v, want c at index 4", r.got)
	}

	if err := c.Move(4, 0); err != nil {
		t.Fatalf("Move: %v", err)
	}
	items[2].events.Publish("again")
	if r.got[1].Model.Index != 0 {
		t.Errorf("after Move index = %d, want 0", r.got[1].Model.Index)
	}
}

func TestRemove_StopsForwarding(t *testing.T) {
	c := newCollection()
	r := watch(c)
	items := newItems("a", "b")
	c.Push(items...)

	removed, err := c.Remove(0)
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if removed != items[0] {
		t.Errorf("Remove returned %s, want a", removed.name)
	}
	items[0].events.Publish("gone")
	if len(r.got) != 0 {
		t.Errorf("removed item forwarded %+v", r.got)
	}
	if n := items[0].events.Len(); n != 0 {
		t.Errorf("removed item still has %d listeners", n)
	}
}

func TestDuplicate_SubscribedOnce(t *testing.T) {
	c := newCollection()
	r := watch(c)
	it := newItems("dup")[0]
	c.Push(it, it)

	if n := it.events.Len(); n != 1 {
		t.Fatalf("listeners = %d, want 1", n)
	}
	it.events.Publish("once")
	if len(r.got) != 1 {
		t.Fatalf("got %d events, want 1", len(r.got))
	}

	c.Remove(0)
	it.events.Publish("still a member")
	if len(r.got) != 2 {
		t.Errorf("item with one remaining occurrence stopped forwarding")
	}
	c.Remove(0)
	if n := it.events.Len(); n != 0 {
		t.Errorf("listeners after last removal = %d, want 0", n)
	}
}

func TestSplice_ReinsertKeepsSubscription(t *testing.T) {
	c := newCollection()
	items := newItems("a", "b")
	c.Push(items...)

	if _, err := c.Splice(0, 2, items[1], items[0]); err != nil {
		t.Fatalf("Splice: %v", err)
	}
	for _, it := range items {
		if n := it.events.Len(); n != 1 {
			t.Errorf("%s has %d listeners, want 1", it.name, n)
		}
	}
}

func TestValidator_Rejects(t *testing.T) {
	c := newCollection()
	c.SetValidator(func(it *item) error {
		if it == nil || it.name == "" {
			return fmt.Errorf("unnamed item")
		}
		return nil
	})
	c.Push(newItems("a")...)

	err := c.Push(&item{name: "b"}, &item{})
	if !errors.Is(err, ErrRejected) {
		t.Fatalf("Push = %v, want ErrRejected", err)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d after rejected push, want 1", c.Len())
	}
}

func TestIndexErrors(t *testing.T) {
	c := newCollection()
	c.Push(newItems("a", "b")...)

	if _, err := c.Splice(3, 0); !errors.Is(err, grid.ErrOutOfRange) {
		t.Errorf("Splice(3, 0) = %v, want range error", err)
	}
	if _, err := c.Splice(1, 2); !errors.Is(err, ErrIndex) {
		t.Errorf("Splice(1, 2) = %v, want ErrIndex", err)
	}
	if _, err := c.At(-1); !errors.Is(err, ErrIndex) {
		t.Errorf("At(-1) = %v, want ErrIndex", err)
	}
	if err := c.Move(0, 2); !errors.Is(err, ErrIndex) {
		t.Errorf("Move(0, 2) = %v, want ErrIndex", err)
	}
	if got := c.IndexOf(&item{}); got != -1 {
		t.Errorf("IndexOf(stranger) = %d, want -1", got)
	}
}
