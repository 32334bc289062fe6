package catalog

import (
	"fmt"
	"slices"
)

// index is an immutable snapshot of registry contents. A registry never
// mutates a published index; writers clone, modify the clone, and publish it.
type index[K comparable, V comparable] struct {
	populated  bool
	generation uint64

	byKey  map[K]V
	keysOf map[V][]K
	order  []V
}

func newIndex[K comparable, V comparable]() *index[K, V] {
	return &index[K, V]{
		byKey:  make(map[K]V),
		keysOf: make(map[V][]K),
	}
}

// clone copies the maps and order. Key slices are shared: they are never
// modified after insertion.
func (ix *index[K, V]) clone() *index[K, V] {
	c := &index[K, V]{
		populated: ix.populated,
		byKey:     make(map[K]V, len(ix.byKey)),
		keysOf:    make(map[V][]K, len(ix.keysOf)),
		order:     slices.Clone(ix.order),
	}
	for k, v := range ix.byKey {
		c.byKey[k] = v
	}
	for v, keys := range ix.keysOf {
		c.keysOf[v] = keys
	}
	return c
}

func (ix *index[K, V]) len() int {
	return len(ix.order)
}

// check validates an insertion without applying it. It reports noop=true
// when the item is already registered under exactly these keys.
func (ix *index[K, V]) check(registry string, item V, keys []K) (noop bool, err error) {
	if len(keys) == 0 {
		return false, fmt.Errorf("%s: %w", registry, ErrNoKeys)
	}

	if existing, ok := ix.keysOf[item]; ok {
		if sameKeys(existing, keys) {
			return true, nil
		}
		return false, &AlreadyRegisteredError{Registry: registry, Keys: keysToAny(existing)}
	}

	for _, k := range keys {
		if _, bound := ix.byKey[k]; bound {
			return false, &DuplicateKeyError{Registry: registry, Key: k}
		}
	}
	return false, nil
}

// add inserts an item that passed check.
func (ix *index[K, V]) add(item V, keys []K) {
	for _, k := range keys {
		ix.byKey[k] = item
	}
	ix.keysOf[item] = keys
	ix.order = append(ix.order, item)
}

// remove deletes an item and every key bound to it.
func (ix *index[K, V]) remove(item V) {
	for _, k := range ix.keysOf[item] {
		delete(ix.byKey, k)
	}
	delete(ix.keysOf, item)
	if i := slices.Index(ix.order, item); i >= 0 {
		ix.order = slices.Delete(ix.order, i, i+1)
	}
}

// keys returns every bound key in item registration order.
func (ix *index[K, V]) keys() []K {
	out := make([]K, 0, len(ix.byKey))
	for _, item := range ix.order {
		out = append(out, ix.keysOf[item]...)
	}
	return out
}

// uniqueKeys drops repeated keys, keeping first occurrence order.
func uniqueKeys[K comparable](keys []K) []K {
	seen := make(map[K]struct{}, len(keys))
	out := make([]K, 0, len(keys))
	for _, k := range keys {
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}

func sameKeys[K comparable](a, b []K) bool {
	if len(a) != len(b) {
		return false
	}
	set := make(map[K]struct{}, len(a))
	for _, k := range a {
		set[k] = struct{}{}
	}
	for _, k := range b {
		if _, ok := set[k]; !ok {
			return false
		}
	}
	return true
}
