package factory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/randalmurphal/catalog/pkg/catalog/source"
)

// Builder turns a declaration into an item.
// Implementations must be safe to call concurrently.
type Builder[V any] func(ctx context.Context, d source.Declaration) (V, error)

// Sentinel errors for builder tables.
var (
	// ErrDuplicateKind indicates a builder is already registered for the kind.
	ErrDuplicateKind = errors.New("builder already registered for kind")

	// ErrUnknownKind indicates no builder is registered for a declaration's kind.
	ErrUnknownKind = errors.New("no builder registered for kind")
)

// Option configures a Table.
type Option func(*options)

type options struct {
	caseFold bool
}

// WithCaseFold makes kind matching case-insensitive.
func WithCaseFold() Option {
	return func(o *options) { o.caseFold = true }
}

// Table maps declaration kinds to builders. It is safe for concurrent use.
type Table[V any] struct {
	mu       sync.RWMutex
	builders map[string]Builder[V]
	opts     options
}

// New creates an empty table.
func New[V any](opts ...Option) *Table[V] {
	var o options
	for _, fn := range opts {
		fn(&o)
	}
	return &Table[V]{
		builders: make(map[string]Builder[V]),
		opts:     o,
	}
}

func (t *Table[V]) normalize(kind string) string {
	if t.opts.caseFold {
		return strings.ToLower(kind)
	}
	return kind
}

// Register adds a builder for kind.
func (t *Table[V]) Register(kind string, b Builder[V]) error {
	if kind == "" || b == nil {
		return errors.New("factory: kind and builder are required")
	}
	kind = t.normalize(kind)

	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := t.builders[kind]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateKind, kind)
	}
	t.builders[kind] = b
	return nil
}

// MustRegister panics on registration error.
func (t *Table[V]) MustRegister(kind string, b Builder[V]) {
	if err := t.Register(kind, b); err != nil {
		panic(err)
	}
}

// Get returns the builder for kind.
func (t *Table[V]) Get(kind string) (Builder[V], bool) {
	kind = t.normalize(kind)
	t.mu.RLock()
	defer t.mu.RUnlock()
	b, ok := t.builders[kind]
	return b, ok
}

// Has reports whether a builder is registered for kind.
func (t *Table[V]) Has(kind string) bool {
	_, ok := t.Get(kind)
	return ok
}

// Kinds returns the registered kinds in sorted order.
func (t *Table[V]) Kinds() []string {
	t.mu.RLock()
	kinds := make([]string, 0, len(t.builders))
	for k := range t.builders {
		kinds = append(kinds, k)
	}
	t.mu.RUnlock()

	sort.Strings(kinds)
	return kinds
}

// Len returns the number of registered builders.
func (t *Table[V]) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.builders)
}

// Build validates d and runs the builder registered for its kind.
func (t *Table[V]) Build(ctx context.Context, d source.Declaration) (V, error) {
	var zero V
	if err := d.Validate(); err != nil {
		return zero, err
	}

	b, ok := t.Get(d.Kind)
	if !ok {
		return zero, fmt.Errorf("%w: %s (declaration %s)", ErrUnknownKind, d.Kind, d.Name)
	}
	return b(ctx, d)
}
