package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the strict collection operations.
var (
	ErrDuplicateID  = errors.New("collection: duplicate id")
	ErrMissingID    = errors.New("collection: missing id")
	ErrItemNotFound = errors.New("collection: item not found")
	ErrNoIDKey      = errors.New("collection: no id key")
)

// Identified records name their own id. A zero-value Collection keys
// records through it.
type Identified interface {
	RecordID() string
}

// Collection is an immutable, ordered set of records keyed by an id
// function. Every operation that looks like a mutation returns a new
// Collection; the receiver and any value previously returned by Items are
// never modified. Use NewCollection to construct one.
type Collection[T any] struct {
	idKey func(T) string
	items []T
	index map[string]int
}

// NewCollection builds a collection from items keyed by idKey. When two
// items share an id the later one wins and keeps the earlier position.
func NewCollection[T any](idKey func(T) string, items ...T) Collection[T] {
	c := Collection[T]{
		idKey: idKey,
		items: make([]T, 0, len(items)),
		index: make(map[string]int, len(items)),
	}
	for _, item := range items {
		c.put(item)
	}
	return c
}

func (c Collection[T]) clone() Collection[T] {
	cp := Collection[T]{
		idKey: c.idKey,
		items: make([]T, len(c.items), len(c.items)+1),
		index: make(map[string]int, len(c.index)+1),
	}
	copy(cp.items, c.items)
	for k, v := range c.index {
		cp.index[k] = v
	}
	return cp
}

// key resolves the id of item. ok is false for a zero-value collection
// over records that are not Identified.
func (c Collection[T]) key(item T) (id string, ok bool) {
	if c.idKey != nil {
		return c.idKey(item), true
	}
	if r, ok := any(item).(Identified); ok {
		return r.RecordID(), true
	}
	return "", false
}

// put upserts in place; only called on collections not yet published.
// Records without a resolvable id are dropped.
func (c *Collection[T]) put(item T) {
	id, ok := c.key(item)
	if !ok {
		return
	}
	if c.index == nil {
		c.index = make(map[string]int)
	}
	if i, ok := c.index[id]; ok {
		c.items[i] = item
		return
	}
	c.index[id] = len(c.items)
	c.items = append(c.items, item)
}

// ID returns the id key value of item.
func (c Collection[T]) ID(item T) string {
	id, _ := c.key(item)
	return id
}

// Items returns a copy of the records in insertion order.
func (c Collection[T]) Items() []T {
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

// Len returns the number of records.
func (c Collection[T]) Len() int { return len(c.items) }

// IsEmpty reports whether the collection holds no records.
func (c Collection[T]) IsEmpty() bool { return len(c.items) == 0 }

// GetItem returns the record with the given id.
func (c Collection[T]) GetItem(id string) (T, bool) {
	i, ok := c.index[id]
	if !ok {
		var zero T
		return zero, false
	}
	return c.items[i], true
}

// Has reports whether a record with id exists.
func (c Collection[T]) Has(id string) bool {
	_, ok := c.index[id]
	return ok
}

// SetItem inserts or replaces item.
func (c Collection[T]) SetItem(item T) Collection[T] {
	cp := c.clone()
	cp.put(item)
	return cp
}

// SetItems upserts every item into one new collection.
func (c Collection[T]) SetItems(items []T) Collection[T] {
	cp := c.clone()
	for _, item := range items {
		cp.put(item)
	}
	return cp
}

// RemoveItem returns a collection without id. Absent ids yield an equal copy.
func (c Collection[T]) RemoveItem(id string) Collection[T] {
	i, ok := c.index[id]
	if !ok {
		return c.clone()
	}
	items := make([]T, 0, len(c.items)-1)
	items = append(items, c.items[:i]...)
	items = append(items, c.items[i+1:]...)
	return NewCollection(c.idKey, items...)
}

// AddItem inserts item, failing when its id is empty or already present.
func (c Collection[T]) AddItem(item T) (Collection[T], error) {
	cp := c.clone()
	if err := cp.add(item); err != nil {
		return c, err
	}
	return cp, nil
}

// AddItems adds items in order. The first failure aborts the batch and the
// receiver is returned unchanged.
func (c Collection[T]) AddItems(items []T) (Collection[T], error) {
	cp := c.clone()
	for _, item := range items {
		if err := cp.add(item); err != nil {
			return c, err
		}
	}
	return cp, nil
}

func (c *Collection[T]) add(item T) error {
	id, ok := c.key(item)
	if !ok {
		return ErrNoIDKey
	}
	if id == "" {
		return ErrMissingID
	}
	if _, ok := c.index[id]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateID, id)
	}
	c.put(item)
	return nil
}

// UpdateItem replaces an existing record, failing when its id is absent.
func (c Collection[T]) UpdateItem(item T) (Collection[T], error) {
	id, ok := c.key(item)
	if !ok {
		return c, ErrNoIDKey
	}
	if _, ok := c.index[id]; !ok {
		return c, fmt.Errorf("%w: %s", ErrItemNotFound, id)
	}
	return c.SetItem(item), nil
}

// Filter returns the records matching keep, preserving order.
func (c Collection[T]) Filter(keep func(T) bool) Collection[T] {
	out := NewCollection(c.idKey)
	for _, item := range c.items {
		if keep(item) {
			out.put(item)
		}
	}
	return out
}

// Some reports whether any record matches pred.
func (c Collection[T]) Some(pred func(T) bool) bool {
	for _, item := range c.items {
		if pred(item) {
			return true
		}
	}
	return false
}
