package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/randalmurphal/catalog/pkg/catalog/observability"
)

// Populate makes sure the registry contents are available.
//
// On a populated registry it returns nil immediately without blocking. On an
// unpopulated registry the calling goroutine runs OnPopulating, the
// Populator, the item hooks for every yielded entry, and OnPopulated, then
// publishes the result. Goroutines that call Populate while another one is
// populating wait for it and return nil once it succeeds.
//
// If population fails the registry returns to StateUnpopulated with nothing
// published and the error is returned as *PopulateError to the goroutine
// that ran the population. Waiting goroutines are woken and retry the
// population themselves instead of receiving that error.
//
// ctx is passed to the Populator and the populate hooks. Waiting for another
// goroutine's population is not cancelable.
func (r *Registry[K, V]) Populate(ctx context.Context) error {
	if r.snap.Load().populated {
		return nil
	}

	r.mu.Lock()
	for r.State() == StatePopulating {
		r.cond.Wait()
	}
	if r.State() == StatePopulated {
		r.mu.Unlock()
		return nil
	}
	r.state.Store(int32(StatePopulating))
	r.mu.Unlock()

	// StatePopulating keeps every other mutation waiting on cond, so this
	// goroutine owns the gate without holding mu while callbacks run. A
	// panic escaping runPopulation still hands the gate back.
	settled := false
	defer func() {
		if settled {
			return
		}
		r.mu.Lock()
		r.state.Store(int32(StateUnpopulated))
		r.cond.Broadcast()
		r.mu.Unlock()
	}()

	next, err := r.runPopulation(ctx)

	r.mu.Lock()
	if err != nil {
		r.state.Store(int32(StateUnpopulated))
	} else {
		next.populated = true
		r.commit(next)
		r.state.Store(int32(StatePopulated))
	}
	settled = true
	r.cond.Broadcast()
	r.mu.Unlock()

	return err
}

// runPopulation builds a fresh index with observability around it.
func (r *Registry[K, V]) runPopulation(ctx context.Context) (*index[K, V], error) {
	populationID := uuid.New().String()
	start := time.Now()

	observability.LogPopulateStart(r.logger, r.name, populationID)

	spanCtx, span := r.spans.StartPopulateSpan(ctx, r.name, populationID)

	next := newIndex[K, V]()
	err := r.populateInto(spanCtx, next)
	if err != nil {
		err = &PopulateError{Registry: r.name, PopulationID: populationID, Err: err}
	}

	r.spans.EndSpanWithError(span, err)

	duration := time.Since(start)
	r.metrics.RecordPopulate(ctx, r.name, duration, next.len(), err)

	durationMs := float64(duration.Milliseconds())
	if err != nil {
		observability.LogPopulateError(r.logger, r.name, populationID, err, durationMs)
		return nil, err
	}
	observability.LogPopulateComplete(r.logger, r.name, populationID, durationMs, next.len())
	return next, nil
}

func (r *Registry[K, V]) populateInto(ctx context.Context, next *index[K, V]) error {
	if err := r.guard("OnPopulating", func() error { return r.hooks.OnPopulating(ctx) }); err != nil {
		return err
	}

	var entries []Entry[K, V]
	if r.populate != nil {
		err := r.guard("populator", func() error {
			var err error
			entries, err = r.populate(ctx)
			return err
		})
		if err != nil {
			return err
		}
	}

	// Items with a non-comparable dynamic type panic on map access.
	err := r.guard("insert", func() error {
		for _, e := range entries {
			if err := r.insert(next, e.Item, uniqueKeys(e.Keys)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	r.spans.AddSpanEvent(ctx, "catalog.populated", attribute.Int("items", next.len()))

	return r.guard("OnPopulated", func() error { return r.hooks.OnPopulated(ctx) })
}

// insert applies the registration rules and item hooks to an index that is
// not yet published.
func (r *Registry[K, V]) insert(next *index[K, V], item V, keys []K) error {
	noop, err := next.check(r.name, item, keys)
	if err != nil || noop {
		return err
	}

	if err := r.guard("OnItemRegistering", func() error { return r.hooks.OnItemRegistering(item, keys) }); err != nil {
		return err
	}
	next.add(item, keys)
	if err := r.guard("OnItemRegistered", func() error { return r.hooks.OnItemRegistered(item, keys) }); err != nil {
		next.remove(item)
		return err
	}
	return nil
}
