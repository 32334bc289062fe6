package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/randalmurphal/catalog/pkg/catalog/observability"
)

// Entry is one item yielded by a Populator together with its lookup keys.
type Entry[K comparable, V any] struct {
	Item V
	Keys []K
}

// Populator generates a registry's initial items. It runs at most once per
// population cycle: on first access, and again after each Reset.
type Populator[K comparable, V any] func(ctx context.Context) ([]Entry[K, V], error)

// Registry is a lazily populated catalog of items indexed by one or more
// lookup keys.
//
// Items are compared with ==, so pointer items are compared by identity. If V
// is an interface type, every registered dynamic type must be comparable.
//
// All mutating operations (Populate, Register, Unregister, Reset) are
// serialized by one gate per registry. Reads of a populated registry are
// lock-free.
type Registry[K comparable, V comparable] struct {
	name     string
	populate Populator[K, V]
	hooks    Hooks[K, V]
	logger   *slog.Logger
	metrics  observability.MetricsRecorder
	spans    observability.SpanManager

	// mu and cond form the gate. state and generation only change while
	// mu is held; state is atomic so hooks can read it without the gate.
	mu         sync.Mutex
	cond       *sync.Cond
	state      atomic.Int32
	generation uint64

	snap atomic.Pointer[index[K, V]]
}

// New creates an unpopulated registry. populate may be nil for registries
// that start empty and are filled only through Register.
//
// Example:
//
//	backends := catalog.New(func(ctx context.Context) ([]catalog.Entry[string, *Backend], error) {
//	    return []catalog.Entry[string, *Backend]{
//	        {Item: memoryBackend, Keys: []string{"memory", "Memory"}},
//	        {Item: diskBackend, Keys: []string{"disk", "Disk"}},
//	    }, nil
//	}, catalog.WithName("backends"))
func New[K comparable, V comparable](populate Populator[K, V], opts ...Option) *Registry[K, V] {
	s := settings{
		name: "catalog-" + uuid.New().String()[:8],
	}
	for _, opt := range opts {
		opt(&s)
	}

	r := &Registry[K, V]{
		name:     s.name,
		populate: populate,
		hooks:    NopHooks[K, V]{},
		logger:   s.logger,
		metrics:  observability.NoopMetrics{},
		spans:    observability.NoopSpanManager{},
	}

	if s.hooks != nil {
		h, ok := s.hooks.(Hooks[K, V])
		if !ok {
			panic(fmt.Sprintf("catalog: hooks %T do not match registry %s", s.hooks, s.name))
		}
		r.hooks = h
	}
	if s.metricsEnabled {
		r.metrics = s.metrics
		if r.metrics == nil {
			r.metrics = observability.NewMetricsRecorder()
		}
	}
	if s.tracingEnabled {
		r.spans = s.spans
		if r.spans == nil {
			r.spans = observability.NewSpanManager()
		}
	}

	r.cond = sync.NewCond(&r.mu)
	r.snap.Store(newIndex[K, V]())
	return r
}

// Name returns the registry name.
func (r *Registry[K, V]) Name() string {
	return r.name
}

// State returns the current population state.
func (r *Registry[K, V]) State() State {
	return State(r.state.Load())
}

// Generation returns a counter that increases with every committed change
// (population, registration, unregistration, reset). Restoring the previous
// contents after a failed hook is also a committed change, so the counter
// never goes backwards. Callers can compare generations to invalidate data
// derived from the registry.
func (r *Registry[K, V]) Generation() uint64 {
	return r.snap.Load().generation
}

// Register adds item under keys, populating the registry first if needed.
//
// Registering an item that is already present under exactly the same keys
// succeeds without calling hooks, so concurrent callers racing to make the
// same registration all succeed. Errors:
//   - ErrNoKeys when keys is empty
//   - *DuplicateKeyError when a key is bound to a different item
//   - *AlreadyRegisteredError when item is registered under other keys
//   - any error returned by OnItemRegistering or OnItemRegistered, in which
//     case nothing is registered
func (r *Registry[K, V]) Register(ctx context.Context, item V, keys ...K) error {
	if err := r.lockPopulated(ctx); err != nil {
		return err
	}
	defer r.mu.Unlock()

	err := r.register(item, uniqueKeys(keys))
	r.recordMutation(ctx, observability.OpRegister, err)
	return err
}

// MustRegister is like Register but panics on error. Use it for
// registrations that must succeed at startup.
func (r *Registry[K, V]) MustRegister(ctx context.Context, item V, keys ...K) {
	if err := r.Register(ctx, item, keys...); err != nil {
		panic(err)
	}
}

// register requires r.mu held and the registry populated.
func (r *Registry[K, V]) register(item V, keys []K) error {
	cur := r.snap.Load()
	noop, err := cur.check(r.name, item, keys)
	if err != nil || noop {
		return err
	}

	if err := r.guard("OnItemRegistering", func() error { return r.hooks.OnItemRegistering(item, keys) }); err != nil {
		return err
	}

	next := cur.clone()
	next.add(item, keys)
	r.commit(next)

	if err := r.guard("OnItemRegistered", func() error { return r.hooks.OnItemRegistered(item, keys) }); err != nil {
		r.commit(cur.clone())
		return err
	}

	observability.LogItemRegistered(r.logger, r.name, keys)
	return nil
}

// Unregister removes the item bound to key along with all of its other keys.
// Returns *ItemNotRegisteredError if key is not bound. If an unregister hook
// fails the item stays registered.
func (r *Registry[K, V]) Unregister(ctx context.Context, key K) error {
	if err := r.lockPopulated(ctx); err != nil {
		return err
	}
	defer r.mu.Unlock()

	var err error
	item, ok := r.snap.Load().byKey[key]
	if ok {
		err = r.unregister(item)
	} else {
		err = &ItemNotRegisteredError{Registry: r.name, Key: key}
	}
	r.recordMutation(ctx, observability.OpUnregister, err)
	return err
}

// UnregisterItem removes item and all of its keys.
// Returns *ItemNotRegisteredError if item is not registered.
func (r *Registry[K, V]) UnregisterItem(ctx context.Context, item V) error {
	if err := r.lockPopulated(ctx); err != nil {
		return err
	}
	defer r.mu.Unlock()

	var err error
	if _, ok := r.snap.Load().keysOf[item]; ok {
		err = r.unregister(item)
	} else {
		err = &ItemNotRegisteredError{Registry: r.name, Key: item}
	}
	r.recordMutation(ctx, observability.OpUnregister, err)
	return err
}

// unregister requires r.mu held and item present.
func (r *Registry[K, V]) unregister(item V) error {
	cur := r.snap.Load()
	keys := cur.keysOf[item]

	if err := r.guard("OnItemUnregistering", func() error { return r.hooks.OnItemUnregistering(item, keys) }); err != nil {
		return err
	}

	next := cur.clone()
	next.remove(item)
	r.commit(next)

	if err := r.guard("OnItemUnregistered", func() error { return r.hooks.OnItemUnregistered(item, keys) }); err != nil {
		r.commit(cur.clone())
		return err
	}

	observability.LogItemUnregistered(r.logger, r.name, keys)
	return nil
}

// Reset removes every item and returns the registry to StateUnpopulated. The
// next access populates it again. An in-flight population finishes before
// the reset runs.
//
// If OnResetting fails nothing changes. If OnReset fails the previous
// contents and state are restored.
func (r *Registry[K, V]) Reset(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for r.State() == StatePopulating {
		r.cond.Wait()
	}

	err := r.reset()
	r.recordMutation(ctx, observability.OpReset, err)
	return err
}

// reset requires r.mu held and no population in flight.
func (r *Registry[K, V]) reset() error {
	cur := r.snap.Load()
	prev := r.State()

	if err := r.guard("OnResetting", r.hooks.OnResetting); err != nil {
		return err
	}

	r.commit(newIndex[K, V]())
	r.state.Store(int32(StateUnpopulated))

	if err := r.guard("OnReset", r.hooks.OnReset); err != nil {
		r.commit(cur.clone())
		r.state.Store(int32(prev))
		return err
	}

	observability.LogReset(r.logger, r.name, cur.len())
	return nil
}

// lockPopulated populates the registry if needed and returns with r.mu held
// and the registry in StatePopulated. A Reset can land between population
// and acquiring the gate, so it loops until both hold at once.
func (r *Registry[K, V]) lockPopulated(ctx context.Context) error {
	for {
		if err := r.Populate(ctx); err != nil {
			return err
		}

		r.mu.Lock()
		for r.State() == StatePopulating {
			r.cond.Wait()
		}
		if r.State() == StatePopulated {
			return nil
		}
		r.mu.Unlock()
	}
}

// commit publishes next as the current contents. Requires r.mu held, or
// ownership of the gate through StatePopulating.
func (r *Registry[K, V]) commit(next *index[K, V]) {
	r.generation++
	next.generation = r.generation
	r.snap.Store(next)
}

// guard runs a hook or the populator, converting a panic into *PanicError.
func (r *Registry[K, V]) guard(stage string, fn func() error) (err error) {
	defer func() {
		if v := recover(); v != nil {
			observability.LogPanic(r.logger, r.name, stage, v)
			err = &PanicError{
				Registry: r.name,
				Stage:    stage,
				Value:    v,
				Stack:    string(debug.Stack()),
			}
		}
	}()
	return fn()
}

func (r *Registry[K, V]) recordMutation(ctx context.Context, op string, err error) {
	r.metrics.RecordMutation(ctx, r.name, op, err)
	if err != nil {
		observability.LogMutationError(r.logger, r.name, op, err)
	}
}
