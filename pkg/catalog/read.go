package catalog

import (
	"context"
	"errors"
	"slices"

	"github.com/randalmurphal/catalog/pkg/catalog/observability"
)

// populated returns a populated snapshot, populating as needed. A Reset
// that lands after Populate returns publishes an unpopulated snapshot, in
// which case population runs again rather than reading empty contents.
func (r *Registry[K, V]) populated(ctx context.Context) (*index[K, V], error) {
	for {
		if err := r.Populate(ctx); err != nil {
			return nil, err
		}
		if ix := r.snap.Load(); ix.populated {
			return ix, nil
		}
	}
}

// Get returns the item bound to key, populating the registry first if
// needed. Returns *ItemLookupError if no item is bound to key, or the
// population error if population fails.
func (r *Registry[K, V]) Get(ctx context.Context, key K) (V, error) {
	var zero V

	ix, err := r.populated(ctx)
	if err != nil {
		return zero, err
	}

	item, ok := ix.byKey[key]
	r.metrics.RecordLookup(ctx, r.name, ok)
	if !ok {
		observability.LogLookupMiss(r.logger, r.name, key)
		return zero, &ItemLookupError{Registry: r.name, Key: key}
	}
	return item, nil
}

// Lookup is like Get but reports a miss instead of an error. Population
// failures are logged and reported as a miss.
func (r *Registry[K, V]) Lookup(ctx context.Context, key K) (V, bool) {
	item, err := r.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrItemLookup) {
			observability.LogLookupError(r.logger, r.name, err)
		}
		return item, false
	}
	return item, true
}

// Has reports whether an item is bound to key.
func (r *Registry[K, V]) Has(ctx context.Context, key K) (bool, error) {
	ix, err := r.populated(ctx)
	if err != nil {
		return false, err
	}
	_, ok := ix.byKey[key]
	return ok, nil
}

// Len returns the number of registered items.
func (r *Registry[K, V]) Len(ctx context.Context) (int, error) {
	ix, err := r.populated(ctx)
	if err != nil {
		return 0, err
	}
	return ix.len(), nil
}

// Items returns the registered items in registration order. Populated items
// come first, in the order the Populator yielded them.
func (r *Registry[K, V]) Items(ctx context.Context) ([]V, error) {
	ix, err := r.populated(ctx)
	if err != nil {
		return nil, err
	}
	return slices.Clone(ix.order), nil
}

// Keys returns every bound key, grouped by item in registration order.
func (r *Registry[K, V]) Keys(ctx context.Context) ([]K, error) {
	ix, err := r.populated(ctx)
	if err != nil {
		return nil, err
	}
	return ix.keys(), nil
}

// KeysOf returns the keys item is registered under.
// Returns *ItemNotRegisteredError if item is not registered.
func (r *Registry[K, V]) KeysOf(ctx context.Context, item V) ([]K, error) {
	ix, err := r.populated(ctx)
	if err != nil {
		return nil, err
	}
	keys, ok := ix.keysOf[item]
	if !ok {
		return nil, &ItemNotRegisteredError{Registry: r.name, Key: item}
	}
	return slices.Clone(keys), nil
}

// Peek returns the item bound to key in the committed contents without
// populating the registry or taking the gate. On an unpopulated registry it
// always misses. Hooks use Peek to read the registry: Get from a hook that
// runs during population or reset blocks forever.
func (r *Registry[K, V]) Peek(key K) (V, bool) {
	item, ok := r.snap.Load().byKey[key]
	return item, ok
}

// PeekItems returns the committed items in registration order without
// populating the registry or taking the gate.
func (r *Registry[K, V]) PeekItems() []V {
	return slices.Clone(r.snap.Load().order)
}
