package catalog

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Populatable is anything that can be populated ahead of first use.
// *Registry satisfies it for every type parameter combination.
type Populatable interface {
	Populate(ctx context.Context) error
}

// Prewarm populates regs concurrently and returns the first error. Call it
// during startup so the first request does not pay for population.
//
// Example:
//
//	if err := catalog.Prewarm(ctx, backends, fieldTypes); err != nil {
//	    log.Fatal(err)
//	}
func Prewarm(ctx context.Context, regs ...Populatable) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, r := range regs {
		if r == nil {
			continue
		}
		g.Go(func() error {
			return r.Populate(gctx)
		})
	}
	return g.Wait()
}
