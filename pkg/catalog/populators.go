package catalog

import (
	"context"
	"fmt"

	"github.com/randalmurphal/catalog/pkg/catalog/factory"
	"github.com/randalmurphal/catalog/pkg/catalog/source"
)

// FromSource returns a Populator that loads declarations from src and builds
// each one with the builder registered for its kind. Each item is keyed by
// the declaration's name followed by its aliases.
func FromSource[V any](src source.Source, builders *factory.Table[V]) Populator[string, V] {
	return func(ctx context.Context) ([]Entry[string, V], error) {
		decls, err := src.Load(ctx)
		if err != nil {
			return nil, fmt.Errorf("load declarations: %w", err)
		}

		entries := make([]Entry[string, V], 0, len(decls))
		for _, d := range decls {
			item, err := builders.Build(ctx, d)
			if err != nil {
				return nil, fmt.Errorf("build %s: %w", d.Name, err)
			}
			entries = append(entries, Entry[string, V]{Item: item, Keys: d.Keys()})
		}
		return entries, nil
	}
}

// Static returns a Populator that yields entries unchanged.
func Static[K comparable, V any](entries ...Entry[K, V]) Populator[K, V] {
	return func(context.Context) ([]Entry[K, V], error) {
		out := make([]Entry[K, V], len(entries))
		copy(out, entries)
		return out, nil
	}
}
