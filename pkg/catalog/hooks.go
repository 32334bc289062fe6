package catalog

import "context"

// Hooks receives notifications at fixed points of every mutating operation.
//
// All methods run while the registry's gate is owned and must not call
// Register, Unregister, Reset or Populate on the same registry: that blocks
// forever.
//
// Hooks read the registry with Peek and PeekItems, which see the committed
// contents without populating. During population nothing new is committed
// yet, so they see the registry as it was before. Get, Items and the other
// populating reads are safe only from the item hooks of Register and
// Unregister; from populate or reset hooks they block forever.
//
// Register and Unregister publish their result before OnItemRegistered and
// OnItemUnregistered run. If one of those hooks fails, the previous contents
// are published again under a new generation, so a concurrent reader can
// briefly observe the change that was rolled back.
//
// A non-nil error from a hook aborts the enclosing operation. The registry is
// restored to its contents before the operation and the error is returned to
// the caller unchanged.
type Hooks[K comparable, V any] interface {
	// OnPopulating runs before the populator.
	OnPopulating(ctx context.Context) error
	// OnPopulated runs after every populated entry has been inserted and
	// before the contents are published.
	OnPopulated(ctx context.Context) error

	OnItemRegistering(item V, keys []K) error
	OnItemRegistered(item V, keys []K) error
	OnItemUnregistering(item V, keys []K) error
	OnItemUnregistered(item V, keys []K) error

	OnResetting() error
	OnReset() error
}

// NopHooks implements Hooks with no-ops. Embed it to override a subset:
//
//	type auditHooks struct {
//	    catalog.NopHooks[string, *Backend]
//	    log *slog.Logger
//	}
//
//	func (h auditHooks) OnItemRegistered(b *Backend, keys []string) error {
//	    h.log.Info("backend registered", "keys", keys)
//	    return nil
//	}
type NopHooks[K comparable, V any] struct{}

// Compile-time interface check.
var _ Hooks[string, int] = NopHooks[string, int]{}

func (NopHooks[K, V]) OnPopulating(context.Context) error { return nil }
func (NopHooks[K, V]) OnPopulated(context.Context) error { return nil }
func (NopHooks[K, V]) OnItemRegistering(V, []K) error { return nil }
func (NopHooks[K, V]) OnItemRegistered(V, []K) error { return nil }
func (NopHooks[K, V]) OnItemUnregistering(V, []K) error { return nil }
func (NopHooks[K, V]) OnItemUnregistered(V, []K) error { return nil }
func (NopHooks[K, V]) OnResetting() error { return nil }
func (NopHooks[K, V]) OnReset() error { return nil }

// ChainHooks returns Hooks that call each of hs in order for every
// notification, stopping at the first error.
func ChainHooks[K comparable, V any](hs ...Hooks[K, V]) Hooks[K, V] {
	chained := make(chain[K, V], 0, len(hs))
	for _, h := range hs {
		if h != nil {
			chained = append(chained, h)
		}
	}
	return chained
}

type chain[K comparable, V any] []Hooks[K, V]

func (c chain[K, V]) each(fn func(Hooks[K, V]) error) error {
	for _, h := range c {
		if err := fn(h); err != nil {
			return err
		}
	}
	return nil
}

func (c chain[K, V]) OnPopulating(ctx context.Context) error {
	return c.each(func(h Hooks[K, V]) error { return h.OnPopulating(ctx) })
}

func (c chain[K, V]) OnPopulated(ctx context.Context) error {
	return c.each(func(h Hooks[K, V]) error { return h.OnPopulated(ctx) })
}

func (c chain[K, V]) OnItemRegistering(item V, keys []K) error {
	return c.each(func(h Hooks[K, V]) error { return h.OnItemRegistering(item, keys) })
}

func (c chain[K, V]) OnItemRegistered(item V, keys []K) error {
	return c.each(func(h Hooks[K, V]) error { return h.OnItemRegistered(item, keys) })
}

func (c chain[K, V]) OnItemUnregistering(item V, keys []K) error {
	return c.each(func(h Hooks[K, V]) error { return h.OnItemUnregistering(item, keys) })
}

func (c chain[K, V]) OnItemUnregistered(item V, keys []K) error {
	return c.each(func(h Hooks[K, V]) error { return h.OnItemUnregistered(item, keys) })
}

func (c chain[K, V]) OnResetting() error {
	return c.each(func(h Hooks[K, V]) error { return h.OnResetting() })
}

func (c chain[K, V]) OnReset() error {
	return c.each(func(h Hooks[K, V]) error { return h.OnReset() })
}
