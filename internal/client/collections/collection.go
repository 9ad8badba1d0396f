// Package collections keeps local copies of the backend's resource lists.
//
// Every refresh replaces a whole list. A failed refresh leaves the previous
// list in place, so the page keeps showing the last good data.
package collections

import "sync"

// Collection is a replace-only holder for one resource list.
type Collection[T any] struct {
	mu     sync.RWMutex
	items  []T
	loaded bool
}

// Items returns a copy of the current list in backend order.
func (c *Collection[T]) Items() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

// Len returns the number of items held.
func (c *Collection[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// First returns the first item, if any.
func (c *Collection[T]) First() (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var zero T
	if len(c.items) == 0 {
		return zero, false
	}
	return c.items[0], true
}

// Replace swaps the whole list and marks the collection loaded.
func (c *Collection[T]) Replace(items []T) {
	next := make([]T, len(items))
	copy(next, items)
	c.mu.Lock()
	c.items = next
	c.loaded = true
	c.mu.Unlock()
}

// Loaded reports whether any refresh has succeeded.
func (c *Collection[T]) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}
