package loom

import "fmt"

// Cache is a string-keyed, capacity-bounded registry handing out dense
// integer indices for its entries. InstantiationRegistry uses one to back
// its identifier -> EntityInstantiation lookup.
type Cache[T any] interface {
	GetIndex(string) (int, bool)
	GetItem(int) *T
	GetItem32(uint32) *T
	Register(string, T) (int, error)
	Clear()
}

var _ Cache[any] = &SimpleCache[any]{}

// SimpleCache is the default Cache: a growable slice plus a key->index map,
// never shrinking except on Clear.
type SimpleCache[T any] struct {
	items       []T
	itemIndices map[string]int
	maxCapacity int
}

// NewSimpleCache returns an empty SimpleCache bounded to cap entries.
func NewSimpleCache[T any](cap int) *SimpleCache[T] {
	return &SimpleCache[T]{itemIndices: make(map[string]int), maxCapacity: cap}
}

func (c *SimpleCache[T]) GetIndex(key string) (int, bool) {
	index, ok := c.itemIndices[key]
	return index, ok
}

func (c *SimpleCache[T]) GetItem(index int) *T {
	return &c.items[index]
}

func (c *SimpleCache[T]) GetItem32(index uint32) *T {
	return &c.items[index]
}

// Register assigns key the next dense index and stores item there, failing
// once the cache is at maxCapacity.
func (c *SimpleCache[T]) Register(key string, item T) (int, error) {
	if _, exists := c.itemIndices[key]; exists {
		return -1, DuplicateIdentifierError{Identifier: key}
	}
	if len(c.items) >= c.maxCapacity {
		return -1, fmt.Errorf("loom: cache at maximum capacity (%d)", c.maxCapacity)
	}
	idx := len(c.items)
	c.itemIndices[key] = idx
	c.items = append(c.items, item)
	return idx, nil
}

// Clear empties the cache, freeing every key and item it held.
func (c *SimpleCache[T]) Clear() {
	c.items = nil
	c.itemIndices = make(map[string]int)
}
