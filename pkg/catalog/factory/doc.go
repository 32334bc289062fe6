// Package factory provides a thread-safe table of item builders keyed by
// declaration kind.
//
// A Table pairs with a source.Source to populate a registry from data:
//
//	builders := factory.New[*Backend](factory.WithCaseFold())
//	builders.MustRegister("memory", func(ctx context.Context, d source.Declaration) (*Backend, error) {
//	    return NewMemoryBackend(d.Attrs.Int("capacity", 64)), nil
//	})
//
//	backends := catalog.New(catalog.FromSource(src, builders))
//
// Register refuses a second builder for the same kind. Kinds are matched
// exactly unless WithCaseFold is set.
package factory
